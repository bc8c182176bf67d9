// Copyright 2026 SEQSENSE, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package kvarchive_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/seqsense/kvarchive"
)

func TestRequestFieldsUnexported(t *testing.T) {
	start := time.Unix(1000, 0)
	end := start.Add(time.Minute)
	selector := kvarchive.NewFragmentSelector(
		kvarchive.FragmentSelectorTypeServerTimestamp,
		kvarchive.NewTimestampRange(start, end),
	)
	stream := kvarchive.StreamName("test-stream")

	dash, err := kvarchive.NewDASHSessionRequest(stream,
		kvarchive.WithPlaybackMode(kvarchive.PlaybackModeOnDemand),
		kvarchive.WithFragmentSelector(selector),
		kvarchive.WithExpires(10*time.Minute),
	)
	if err != nil {
		t.Fatal(err)
	}
	hls, err := kvarchive.NewHLSSessionRequest(stream,
		kvarchive.WithPlaybackMode(kvarchive.PlaybackModeOnDemand),
		kvarchive.WithFragmentSelector(selector),
	)
	if err != nil {
		t.Fatal(err)
	}
	list, err := kvarchive.NewFragmentListRequest(stream, kvarchive.WithListFragmentSelector(selector))
	if err != nil {
		t.Fatal(err)
	}
	images, err := kvarchive.NewImageRequest(stream,
		kvarchive.ImageSelectorTypeProducerTimestamp, start, end, time.Second, kvarchive.ImageFormatJPEG,
	)
	if err != nil {
		t.Fatal(err)
	}
	clip, err := kvarchive.NewClipRequest(stream, selector)
	if err != nil {
		t.Fatal(err)
	}
	media, err := kvarchive.NewMediaForFragmentListRequest(stream, "1", "2")
	if err != nil {
		t.Fatal(err)
	}

	requests := map[string]interface{}{
		"DASH":   dash,
		"HLS":    hls,
		"List":   list,
		"Images": images,
		"Clip":   clip,
		"Media":  media,
	}
	for n, req := range requests {
		req := req
		t.Run(n, func(t *testing.T) {
			typ := reflect.TypeOf(req).Elem()
			for i := 0; i < typ.NumField(); i++ {
				if f := typ.Field(i); f.IsExported() {
					t.Errorf("Field %s of %s must not be assignable after validation", f.Name, typ.Name())
				}
			}
		})
	}

	t.Run("Accessors", func(t *testing.T) {
		if mode := dash.PlaybackMode(); mode != kvarchive.PlaybackModeOnDemand {
			t.Errorf("Expected %s, got %s", kvarchive.PlaybackModeOnDemand, mode)
		}
		if expires := dash.Expires(); expires != 10*time.Minute {
			t.Errorf("Expected 10m, got %v", expires)
		}
		if expires := hls.Expires(); expires != kvarchive.DefaultSessionExpires {
			t.Errorf("Expected %v, got %v", kvarchive.DefaultSessionExpires, expires)
		}
		s, ok := hls.Selector()
		if !ok {
			t.Fatal("Expected selector")
		}
		if typ := s.Type(); typ != kvarchive.FragmentSelectorTypeServerTimestamp {
			t.Errorf("Expected %s, got %s", kvarchive.FragmentSelectorTypeServerTimestamp, typ)
		}
	})
}

func TestZeroValueRequestStreamID(t *testing.T) {
	requests := map[string]interface{ StreamID() kvarchive.StreamID }{
		"DASH":   &kvarchive.DASHSessionRequest{},
		"HLS":    &kvarchive.HLSSessionRequest{},
		"List":   &kvarchive.FragmentListRequest{},
		"Images": &kvarchive.ImageRequest{},
		"Clip":   &kvarchive.ClipRequest{},
		"Media":  &kvarchive.MediaForFragmentListRequest{},
	}
	for n, req := range requests {
		req := req
		t.Run(n, func(t *testing.T) {
			if id := req.StreamID(); id != nil {
				t.Errorf("Expected nil StreamID, got %v", id)
			}
		})
	}
}
