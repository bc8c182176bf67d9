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

package kvsmockserver

import (
	"github.com/at-wat/ebml-go"
)

type streamRef struct {
	StreamARN  *string
	StreamName *string
}

type getDataEndpointInput struct {
	streamRef
	APIName string
}

type listFragmentsInput struct {
	streamRef
	FragmentSelector *fragmentSelector
	MaxResults       *int64
	NextToken        *string
}

type fragmentSelector struct {
	FragmentSelectorType string
	TimestampRange       *timestampRange
}

type timestampRange struct {
	EndTimestamp   *float64 `json:",omitempty"`
	StartTimestamp *float64 `json:",omitempty"`
}

type listFragmentsOutput struct {
	Fragments []fragment
	NextToken *string `json:",omitempty"`
}

type fragment struct {
	FragmentLengthInMilliseconds int64
	FragmentNumber               *string
	FragmentSizeInBytes          int64
	ProducerTimestamp            *float64
	ServerTimestamp              *float64
}

type getMediaForFragmentListInput struct {
	streamRef
	Fragments []string
}

type getClipInput struct {
	streamRef
	ClipFragmentSelector *fragmentSelector
}

type getImagesInput struct {
	streamRef
	ImageSelectorType string
	StartTimestamp    *float64
	EndTimestamp      *float64
	SamplingInterval  *int64
	Format            string
	FormatConfig      map[string]string
	WidthPixels       *int32
	HeightPixels      *int32
	MaxResults        *int64
	NextToken         *string
}

type getImagesOutput struct {
	Images    []image
	NextToken *string `json:",omitempty"`
}

type image struct {
	TimeStamp    float64
	ImageContent string `json:",omitempty"`
	Error        string `json:",omitempty"`
}

// MKV layout written by getMediaForFragmentList.
// All master elements have known size.

type container struct {
	Header  ebmlHeader `ebml:"EBML"`
	Segment segment
}

type ebmlHeader struct {
	EBMLVersion        uint64
	EBMLReadVersion    uint64
	EBMLMaxIDLength    uint64
	EBMLMaxSizeLength  uint64
	EBMLDocType        string
	EBMLDocTypeVersion uint64
}

type info struct {
	TimecodeScale uint64
}

type segment struct {
	Info    info
	Tags    TagsTest
	Cluster ClusterTest
}

type FragmentTest struct {
	Cluster ClusterTest
	Tags    TagsTest
	// LengthInMilliseconds defaults to 1000.
	LengthInMilliseconds int64
	// ErrorCode and ErrorMessage are written as exception tags.
	ErrorCode    string
	ErrorMessage string
}

type ClusterTest struct {
	Timecode    uint64
	Position    uint64 `ebml:",omitempty"`
	SimpleBlock []ebml.Block
}

type TagsTest struct {
	Tag []TagTest
}

type TagTest struct {
	SimpleTag []SimpleTagTest
}

type SimpleTagTest struct {
	TagName   string
	TagString string `ebml:",omitempty"`
}
