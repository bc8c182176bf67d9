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

func TestFragmentListRequest(t *testing.T) {
	start := time.Unix(1700000000, 0)

	testCases := map[string]struct {
		opts  []FragmentListOption
		valid bool
	}{
		"ServerTimestampRange": {
			[]FragmentListOption{WithServerTimestampRange(start, start.Add(time.Hour))},
			true,
		},
		"ProducerTimestampRange": {
			[]FragmentListOption{WithProducerTimestampRange(start, start.Add(time.Hour))},
			true,
		},
		"NoSelector": {
			nil,
			false,
		},
		"NextTokenOnly": {
			[]FragmentListOption{WithNextToken("token")},
			true,
		},
		"EmptyNextToken": {
			[]FragmentListOption{WithNextToken("")},
			false,
		},
		"SelectorAndNextToken": {
			[]FragmentListOption{WithServerTimestampRange(start, start.Add(time.Hour)), WithNextToken("token")},
			true,
		},
		"RangeOver24Hours": {
			[]FragmentListOption{WithServerTimestampRange(start, start.Add(25*time.Hour))},
			false,
		},
		"OpenRange": {
			[]FragmentListOption{WithListFragmentSelector(NewFragmentSelector(
				FragmentSelectorTypeServerTimestamp, NewOpenTimestampRange(start),
			))},
			false,
		},
		"MaxResults1000": {
			[]FragmentListOption{WithNextToken("token"), WithMaxResults(1000)},
			true,
		},
		"MaxResults1001": {
			[]FragmentListOption{WithNextToken("token"), WithMaxResults(1001)},
			false,
		},
		"MaxResults0": {
			[]FragmentListOption{WithNextToken("token"), WithMaxResults(0)},
			false,
		},
	}
	for n, c := range testCases {
		c := c
		t.Run(n, func(t *testing.T) {
			_, err := NewFragmentListRequest(StreamName("test-stream"), c.opts...)
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

func TestFragmentListRequestInput(t *testing.T) {
	start := time.Unix(1700000000, 0)
	end := start.Add(time.Hour)

	req, err := NewFragmentListRequest(StreamName("test-stream"),
		WithProducerTimestampRange(start, end),
		WithMaxResults(100),
	)
	if err != nil {
		t.Fatal(err)
	}
	expected := &kvam.ListFragmentsInput{
		StreamName: aws.String("test-stream"),
		FragmentSelector: &kvam_types.FragmentSelector{
			FragmentSelectorType: kvam_types.FragmentSelectorType("PRODUCER_TIMESTAMP"),
			TimestampRange: &kvam_types.TimestampRange{
				StartTimestamp: aws.Time(start),
				EndTimestamp:   aws.Time(end),
			},
		},
		MaxResults: aws.Int64(100),
	}
	if diff := cmp.Diff(expected, req.Input(), ignoreSDKInternals); diff != "" {
		t.Errorf("Unexpected input: %s", diff)
	}

	expected.NextToken = aws.String("token")
	if diff := cmp.Diff(expected, req.WithNextToken("token").Input(), ignoreSDKInternals); diff != "" {
		t.Errorf("Unexpected input: %s", diff)
	}
}

func TestMediaForFragmentListRequest(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		req, err := NewMediaForFragmentListRequest(StreamName("test-stream"), "3", "1", "2", "1")
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"3", "1", "2"}, req.Input().Fragments); diff != "" {
			t.Errorf("Unexpected fragments: %s", diff)
		}
	})
	t.Run("Empty", func(t *testing.T) {
		if _, err := NewMediaForFragmentListRequest(StreamName("test-stream")); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Expected %v, got: %v", ErrInvalidArgument, err)
		}
	})
	t.Run("EmptyFragmentNumber", func(t *testing.T) {
		if _, err := NewMediaForFragmentListRequest(StreamName("test-stream"), "1", ""); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Expected %v, got: %v", ErrInvalidArgument, err)
		}
	})
	t.Run("Immutable", func(t *testing.T) {
		req, err := NewMediaForFragmentListRequest(StreamName("test-stream"), "1", "2")
		if err != nil {
			t.Fatal(err)
		}
		req.Fragments()[0] = "9"
		req.Input().Fragments[1] = "9"
		if diff := cmp.Diff([]string{"1", "2"}, req.Fragments()); diff != "" {
			t.Errorf("Request was modified: %s", diff)
		}
	})
}

func TestClipRequest(t *testing.T) {
	start := time.Unix(1700000000, 0)
	end := start.Add(time.Minute)

	testCases := map[string]struct {
		selector FragmentSelector
		valid    bool
	}{
		"Valid": {
			NewFragmentSelector(FragmentSelectorTypeServerTimestamp, NewTimestampRange(start, end)),
			true,
		},
		"24Hours": {
			NewFragmentSelector(FragmentSelectorTypeServerTimestamp, NewTimestampRange(start, start.Add(24*time.Hour))),
			true,
		},
		"Over24Hours": {
			NewFragmentSelector(FragmentSelectorTypeServerTimestamp, NewTimestampRange(start, start.Add(24*time.Hour+time.Millisecond))),
			false,
		},
		"EndEqualsStart": {
			NewFragmentSelector(FragmentSelectorTypeServerTimestamp, NewTimestampRange(start, start)),
			false,
		},
		"OpenRange": {
			NewFragmentSelector(FragmentSelectorTypeServerTimestamp, NewOpenTimestampRange(start)),
			false,
		},
		"NoRange": {
			NewFragmentSelectorType(FragmentSelectorTypeServerTimestamp),
			false,
		},
		"UnknownType": {
			NewFragmentSelector("CLIENT_TIMESTAMP", NewTimestampRange(start, end)),
			false,
		},
	}
	for n, c := range testCases {
		c := c
		t.Run(n, func(t *testing.T) {
			req, err := NewClipRequest(StreamName("test-stream"), c.selector)
			if !c.valid {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("Expected %v, got: %v", ErrInvalidArgument, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected to be accepted, got: %v", err)
			}
			in := req.Input()
			if typ := in.ClipFragmentSelector.FragmentSelectorType; string(typ) != "SERVER_TIMESTAMP" {
				t.Errorf("Unexpected selector type: %s", typ)
			}
			r, _ := c.selector.Range()
			e, _ := r.End()
			if !in.ClipFragmentSelector.TimestampRange.StartTimestamp.Equal(r.Start()) ||
				!in.ClipFragmentSelector.TimestampRange.EndTimestamp.Equal(e) {
				t.Errorf("Unexpected range: %v", in.ClipFragmentSelector.TimestampRange)
			}
		})
	}
}
