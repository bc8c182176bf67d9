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
	"github.com/aws/aws-sdk-go-v2/aws"
	kvam "github.com/aws/aws-sdk-go-v2/service/kinesisvideoarchivedmedia"
	kvam_types "github.com/aws/aws-sdk-go-v2/service/kinesisvideoarchivedmedia/types"
)

// ClipRequest is a validated GetClip request.
type ClipRequest struct {
	streamID *streamID
	selector FragmentSelector
}

// NewClipRequest validates the parameters of GetClip.
// The selector must carry a range with both ends.
func NewClipRequest(streamID StreamID, selector FragmentSelector) (*ClipRequest, error) {
	var errs multiError
	errs.Add(validateStreamID(streamID))
	errs.Add(selector.validateClosed("ClipFragmentSelector"))
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &ClipRequest{
		streamID: copyStreamID(streamID),
		selector: selector,
	}, nil
}

func (r *ClipRequest) StreamID() StreamID {
	return r.streamID.ref()
}

func (r *ClipRequest) Selector() FragmentSelector {
	return r.selector
}

func (r *ClipRequest) Input() *kvam.GetClipInput {
	name, arn := r.streamID.refs()
	return &kvam.GetClipInput{
		StreamName: name,
		StreamARN:  arn,
		ClipFragmentSelector: &kvam_types.ClipFragmentSelector{
			FragmentSelectorType: kvam_types.ClipFragmentSelectorType(r.selector.typ),
			TimestampRange: &kvam_types.ClipTimestampRange{
				StartTimestamp: aws.Time(r.selector.rng.start),
				EndTimestamp:   aws.Time(r.selector.rng.end),
			},
		},
	}
}
