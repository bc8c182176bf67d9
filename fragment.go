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
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	kvam "github.com/aws/aws-sdk-go-v2/service/kinesisvideoarchivedmedia"
	kvam_types "github.com/aws/aws-sdk-go-v2/service/kinesisvideoarchivedmedia/types"
)

const MaxListFragmentsResults = 1000

type fragmentListOptions struct {
	selector   *FragmentSelector
	nextToken  *string
	maxResults *int64
}

type FragmentListOption func(*fragmentListOptions)

func WithListFragmentSelector(selector FragmentSelector) FragmentListOption {
	return func(o *fragmentListOptions) {
		o.selector = &selector
	}
}

func WithServerTimestampRange(startTime, endTime time.Time) FragmentListOption {
	return WithListFragmentSelector(NewFragmentSelector(
		FragmentSelectorTypeServerTimestamp,
		NewTimestampRange(startTime, endTime),
	))
}

func WithProducerTimestampRange(startTime, endTime time.Time) FragmentListOption {
	return WithListFragmentSelector(NewFragmentSelector(
		FragmentSelectorTypeProducerTimestamp,
		NewTimestampRange(startTime, endTime),
	))
}

// WithNextToken continues a previous listing.
// The selector may be omitted since the first page already fixed it.
func WithNextToken(nextToken string) FragmentListOption {
	return func(o *fragmentListOptions) {
		o.nextToken = &nextToken
	}
}

func WithMaxResults(maxResults int64) FragmentListOption {
	return func(o *fragmentListOptions) {
		o.maxResults = &maxResults
	}
}

// FragmentListRequest is a validated ListFragments request.
type FragmentListRequest struct {
	streamID *streamID
	fragmentListOptions
}

// NewFragmentListRequest validates the parameters of ListFragments.
func NewFragmentListRequest(streamID StreamID, opts ...FragmentListOption) (*FragmentListRequest, error) {
	options := &fragmentListOptions{}
	for _, o := range opts {
		o(options)
	}

	var errs multiError
	errs.Add(validateStreamID(streamID))
	switch {
	case options.selector != nil:
		errs.Add(options.selector.validateClosed("FragmentSelector"))
	case options.nextToken == nil || *options.nextToken == "":
		errs.Add(argErrorf("FragmentSelector", "must be specified unless continuing with a next token"))
	}
	if n := options.maxResults; n != nil && (*n < 1 || *n > MaxListFragmentsResults) {
		errs.Add(argErrorf("MaxResults", "%d is out of range [1, %d]", *n, MaxListFragmentsResults))
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &FragmentListRequest{
		streamID:            copyStreamID(streamID),
		fragmentListOptions: *options,
	}, nil
}

func (r *FragmentListRequest) StreamID() StreamID {
	return r.streamID.ref()
}

// WithNextToken returns a copy of the request continuing from token.
func (r *FragmentListRequest) WithNextToken(token string) *FragmentListRequest {
	ret := *r
	ret.nextToken = &token
	return &ret
}

func (r *FragmentListRequest) Input() *kvam.ListFragmentsInput {
	name, arn := r.streamID.refs()
	in := &kvam.ListFragmentsInput{
		StreamName: name,
		StreamARN:  arn,
	}
	if s := r.selector; s != nil {
		start, end := selectorRange(s)
		in.FragmentSelector = &kvam_types.FragmentSelector{
			FragmentSelectorType: kvam_types.FragmentSelectorType(s.typ),
			TimestampRange: &kvam_types.TimestampRange{
				StartTimestamp: start,
				EndTimestamp:   end,
			},
		}
	}
	if r.nextToken != nil {
		in.NextToken = aws.String(*r.nextToken)
	}
	if r.maxResults != nil {
		in.MaxResults = aws.Int64(*r.maxResults)
	}
	return in
}

// MediaForFragmentListRequest is a validated GetMediaForFragmentList request.
type MediaForFragmentListRequest struct {
	streamID  *streamID
	fragments []string
}

// NewMediaForFragmentListRequest validates the parameters of
// GetMediaForFragmentList. Fragment numbers are usually taken from a
// ListFragments response. Duplicates are dropped, keeping the first
// occurrence. Existence of the fragments is checked by the service.
func NewMediaForFragmentListRequest(streamID StreamID, fragmentNumbers ...string) (*MediaForFragmentListRequest, error) {
	var errs multiError
	errs.Add(validateStreamID(streamID))
	if len(fragmentNumbers) == 0 {
		errs.Add(argErrorf("Fragments", "must not be empty"))
	}

	seen := make(map[string]struct{}, len(fragmentNumbers))
	fragments := make([]string, 0, len(fragmentNumbers))
	for i, n := range fragmentNumbers {
		if n == "" {
			errs.Add(argErrorf("Fragments", "fragment number at %d is empty", i))
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		fragments = append(fragments, n)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &MediaForFragmentListRequest{
		streamID:  copyStreamID(streamID),
		fragments: fragments,
	}, nil
}

func (r *MediaForFragmentListRequest) StreamID() StreamID {
	return r.streamID.ref()
}

func (r *MediaForFragmentListRequest) Fragments() []string {
	return append([]string(nil), r.fragments...)
}

func (r *MediaForFragmentListRequest) Input() *kvam.GetMediaForFragmentListInput {
	name, arn := r.streamID.refs()
	return &kvam.GetMediaForFragmentListInput{
		StreamName: name,
		StreamARN:  arn,
		Fragments:  r.Fragments(),
	}
}
