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

package kvarchive

import (
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	kvam "github.com/aws/aws-sdk-go-v2/service/kinesisvideoarchivedmedia"
	kvam_types "github.com/aws/aws-sdk-go-v2/service/kinesisvideoarchivedmedia/types"
	"github.com/google/go-cmp/cmp"
)

func TestImageRequestValidation(t *testing.T) {
	start := time.Unix(1700000000, 0)

	type params struct {
		selectorType ImageSelectorType
		end          time.Time
		interval     time.Duration
		format       ImageFormat
		opts         []ImageOption
	}
	base := func(mod func(*params)) params {
		p := params{
			selectorType: ImageSelectorTypeProducerTimestamp,
			end:          start.Add(time.Minute),
			interval:     time.Second,
			format:       ImageFormatJPEG,
		}
		if mod != nil {
			mod(&p)
		}
		return p
	}

	testCases := map[string]struct {
		params params
		valid  bool
	}{
		"Default": {base(nil), true},
		"Range300s": {
			base(func(p *params) { p.end = start.Add(300 * time.Second) }),
			true,
		},
		"Range301s": {
			base(func(p *params) { p.end = start.Add(301 * time.Second) }),
			false,
		},
		"SingleInstant": {
			base(func(p *params) { p.end = start }),
			true,
		},
		"EndBeforeStart": {
			base(func(p *params) { p.end = start.Add(-time.Second) }),
			false,
		},
		"Interval199ms": {
			base(func(p *params) { p.interval = 199 * time.Millisecond }),
			false,
		},
		"Interval200ms": {
			base(func(p *params) { p.interval = 200 * time.Millisecond }),
			true,
		},
		"IntervalSubMillisecond": {
			base(func(p *params) { p.interval = 200*time.Millisecond + time.Microsecond }),
			false,
		},
		"UnknownSelectorType": {
			base(func(p *params) { p.selectorType = "CLIENT_TIMESTAMP" }),
			false,
		},
		"PNG": {
			base(func(p *params) { p.format = ImageFormatPNG }),
			true,
		},
		"UnknownFormat": {
			base(func(p *params) { p.format = "GIF" }),
			false,
		},
		"WidthAndHeight": {
			base(func(p *params) { p.opts = []ImageOption{WithWidthPixels(640), WithHeightPixels(480)} }),
			true,
		},
		"WidthOnly": {
			base(func(p *params) { p.opts = []ImageOption{WithWidthPixels(640)} }),
			false,
		},
		"HeightOnly": {
			base(func(p *params) { p.opts = []ImageOption{WithHeightPixels(480)} }),
			false,
		},
		"ZeroWidth": {
			base(func(p *params) { p.opts = []ImageOption{WithWidthPixels(0), WithHeightPixels(480)} }),
			false,
		},
		"JPEGQuality1": {
			base(func(p *params) { p.opts = []ImageOption{WithJPEGQuality(1)} }),
			true,
		},
		"JPEGQuality100": {
			base(func(p *params) { p.opts = []ImageOption{WithJPEGQuality(100)} }),
			true,
		},
		"JPEGQuality0": {
			base(func(p *params) { p.opts = []ImageOption{WithJPEGQuality(0)} }),
			false,
		},
		"JPEGQuality101": {
			base(func(p *params) { p.opts = []ImageOption{WithJPEGQuality(101)} }),
			false,
		},
		"UnknownFormatConfigKey": {
			base(func(p *params) { p.opts = []ImageOption{WithFormatConfig(FormatConfig{"PNGCompression": 3})} }),
			false,
		},
		"MaxResults0": {
			base(func(p *params) { p.opts = []ImageOption{WithImagesMaxResults(0)} }),
			false,
		},
		"MaxResultsOverPageSize": {
			base(func(p *params) { p.opts = []ImageOption{WithImagesMaxResults(100)} }),
			true,
		},
	}
	for n, c := range testCases {
		c := c
		t.Run(n, func(t *testing.T) {
			p := c.params
			_, err := NewImageRequest(StreamName("test-stream"), p.selectorType, start, p.end, p.interval, p.format, p.opts...)
			if c.valid {
				if err != nil {
					t.Errorf("Expected to be accepted, got: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Expected %v, got: %v", ErrInvalidArgument, err)
			}
		})
	}
}

func TestImageRequestInput(t *testing.T) {
	start := time.Unix(1700000000, 500*int64(time.Millisecond))
	end := start.Add(10 * time.Second)

	req, err := NewImageRequest(
		StreamName("test-stream"), ImageSelectorTypeServerTimestamp,
		start, end, 500*time.Millisecond, ImageFormatJPEG,
		WithJPEGQuality(90),
		WithWidthPixels(320), WithHeightPixels(240),
		WithImagesMaxResults(10),
	)
	if err != nil {
		t.Fatal(err)
	}
	expected := &kvam.GetImagesInput{
		StreamName:        aws.String("test-stream"),
		ImageSelectorType: kvam_types.ImageSelectorType("SERVER_TIMESTAMP"),
		StartTimestamp:    aws.Time(start),
		EndTimestamp:      aws.Time(end),
		SamplingInterval:  aws.Int32(500),
		Format:            kvam_types.Format("JPEG"),
		FormatConfig:      map[string]string{"JPEGQuality": "90"},
		WidthPixels:       aws.Int32(320),
		HeightPixels:      aws.Int32(240),
		MaxResults:        aws.Int64(10),
	}
	if diff := cmp.Diff(expected, req.Input(), ignoreSDKInternals); diff != "" {
		t.Errorf("Unexpected input: %s", diff)
	}

	next := req.WithNextToken("token1")
	if token := aws.ToString(next.Input().NextToken); token != "token1" {
		t.Errorf("Expected next token 'token1', got '%s'", token)
	}
	if req.Input().NextToken != nil {
		t.Error("WithNextToken must not modify the original request")
	}
}

func TestParseFormatConfig(t *testing.T) {
	testCases := map[string]struct {
		input    map[string]string
		expected FormatConfig
		valid    bool
	}{
		"Empty": {
			map[string]string{}, FormatConfig{}, true,
		},
		"JPEGQuality": {
			map[string]string{"JPEGQuality": "90"}, FormatConfig{FormatConfigKeyJPEGQuality: 90}, true,
		},
		"OutOfRange": {
			map[string]string{"JPEGQuality": "0"}, nil, false,
		},
		"NotANumber": {
			map[string]string{"JPEGQuality": "high"}, nil, false,
		},
		"UnknownKey": {
			map[string]string{"PNGCompression": "3"}, nil, false,
		},
	}
	for n, c := range testCases {
		c := c
		t.Run(n, func(t *testing.T) {
			fc, err := ParseFormatConfig(c.input)
			if !c.valid {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("Expected %v, got: %v", ErrInvalidArgument, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(c.expected, fc); diff != "" {
				t.Errorf("Unexpected format config: %s", diff)
			}
		})
	}

	if q := (FormatConfig{}).JPEGQuality(); q != DefaultJPEGQuality {
		t.Errorf("Expected default quality %d, got %d", DefaultJPEGQuality, q)
	}
}
