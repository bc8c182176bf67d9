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

package archivedmedia

import (
	"time"

	"github.com/at-wat/ebml-go"
)

// Tags added by the service to each fragment of a GetMediaForFragmentList
// payload.
const (
	TagNameFragmentNumber     = "AWS_KINESISVIDEO_FRAGMENT_NUMBER"
	TagNameServerTimestamp    = "AWS_KINESISVIDEO_SERVER_TIMESTAMP"
	TagNameProducerTimestamp  = "AWS_KINESISVIDEO_PRODUCER_TIMESTAMP"
	TagNameExceptionErrorCode = "AWS_KINESISVIDEO_EXCEPTION_ERROR_CODE"
	TagNameExceptionMessage   = "AWS_KINESISVIDEO_EXCEPTION_MESSAGE"
)

// Container is the MKV document layout of the payload.
// Cluster and Tags are streamed through channels while decoding.
type Container struct {
	Header  EBMLHeader `ebml:"EBML"`
	Segment Segment    `ebml:",size=unknown"`
}

type EBMLHeader struct {
	EBMLVersion            uint64
	EBMLReadVersion        uint64
	EBMLMaxIDLength        uint64
	EBMLMaxSizeLength      uint64
	EBMLDocType            string
	EBMLDocTypeVersion     uint64
	EBMLDocTypeReadVersion uint64
}

type Info struct {
	TimecodeScale   uint64
	SegmentUID      []byte
	SegmentFilename string
	Title           string
	MuxingApp       string
	WritingApp      string
}

type TrackEntry struct {
	Name        string
	TrackNumber uint64
	TrackUID    uint64
	CodecID     string
	CodecName   string
	TrackType   uint64
}

type Tracks struct {
	TrackEntry []TrackEntry
}

type Cluster struct {
	Timecode    chan uint64
	Position    uint64 `ebml:",omitempty"`
	SimpleBlock chan ebml.Block
}

type SimpleTag struct {
	TagName   string
	TagString string `ebml:",omitempty"`
	TagBinary string `ebml:",omitempty"`
}

type Tag struct {
	SimpleTag []SimpleTag
}

type Tags struct {
	Tag chan *Tag `ebml:",omitempty"`
}

type Segment struct {
	Info    Info
	Tracks  Tracks
	Tags    Tags
	Cluster Cluster `ebml:",size=unknown"`
}

// Fragment is the list of blocks sharing one fragment number.
type Fragment []*BlockWithMetadata

type BlockWithMetadata struct {
	*BlockWithBaseTimecode
	*FragmentMetadata
}

// FragmentMetadata is read from the service tags preceding the fragment.
type FragmentMetadata struct {
	FragmentNumber    string
	ProducerTimestamp time.Time
	ServerTimestamp   time.Time
	// Tags holds custom tags stored by the producer.
	Tags map[string]SimpleTag
}

type BlockWithBaseTimecode struct {
	Timecode uint64
	Block    ebml.Block
}

// AbsTimecode returns the cluster timecode plus the block relative timecode.
func (bt *BlockWithBaseTimecode) AbsTimecode() int64 {
	return int64(bt.Timecode) + int64(bt.Block.Timecode)
}
