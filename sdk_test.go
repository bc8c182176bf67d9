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
	kvam "github.com/aws/aws-sdk-go-v2/service/kinesisvideoarchivedmedia"
	kvam_types "github.com/aws/aws-sdk-go-v2/service/kinesisvideoarchivedmedia/types"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// SDK shapes embed an unexported serde marker.
var ignoreSDKInternals = cmpopts.IgnoreUnexported(
	kvam.GetClipInput{},
	kvam_types.ClipFragmentSelector{},
	kvam_types.ClipTimestampRange{},
	kvam.GetDASHStreamingSessionURLInput{},
	kvam_types.DASHFragmentSelector{},
	kvam_types.DASHTimestampRange{},
	kvam.GetHLSStreamingSessionURLInput{},
	kvam_types.HLSFragmentSelector{},
	kvam_types.HLSTimestampRange{},
	kvam.GetImagesInput{},
	kvam.ListFragmentsInput{},
	kvam_types.FragmentSelector{},
	kvam_types.TimestampRange{},
	kvam.GetMediaForFragmentListInput{},
	kvam_types.Fragment{},
	kvam_types.Image{},
)
