// Copyright 2020 SEQSENSE, Inc.
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

// StreamID references a stream either by name or by ARN.
type StreamID interface {
	StreamARN() *string
	StreamName() *string
}

type streamID struct {
	arn  *string
	name *string
}

func StreamARN(arn string) StreamID {
	return &streamID{
		arn: &arn,
	}
}

func StreamName(name string) StreamID {
	return &streamID{
		name: &name,
	}
}

// NewStreamID returns a StreamID from optional name and ARN.
// Empty strings are treated as unset. The builders reject the result unless
// exactly one of them is set.
func NewStreamID(name, arn string) StreamID {
	s := &streamID{}
	if name != "" {
		s.name = &name
	}
	if arn != "" {
		s.arn = &arn
	}
	return s
}

func (s *streamID) StreamARN() *string {
	return s.arn
}

func (s *streamID) StreamName() *string {
	return s.name
}

func (s *streamID) String() string {
	if s.name != nil {
		return *s.name
	}
	if s.arn != nil {
		return *s.arn
	}
	return "invalid_stream_id"
}

func validateStreamID(id StreamID) error {
	if id == nil {
		return argErrorf("StreamID", "either stream name or stream ARN must be specified")
	}
	name, arn := id.StreamName(), id.StreamARN()
	hasName := name != nil && *name != ""
	hasARN := arn != nil && *arn != ""
	switch {
	case hasName && hasARN:
		return argErrorf("StreamID", "stream name and stream ARN are mutually exclusive")
	case !hasName && !hasARN:
		return argErrorf("StreamID", "either stream name or stream ARN must be specified")
	}
	return nil
}

// copyStreamID detaches the reference from the caller's value so that a built
// request does not change if the caller's StreamID does.
func copyStreamID(id StreamID) *streamID {
	s := &streamID{}
	if name := id.StreamName(); name != nil && *name != "" {
		n := *name
		s.name = &n
	}
	if arn := id.StreamARN(); arn != nil && *arn != "" {
		a := *arn
		s.arn = &a
	}
	return s
}

// ref returns s as a StreamID, or nil for a request that was not built by
// its constructor.
func (s *streamID) ref() StreamID {
	if s == nil {
		return nil
	}
	return s
}

// refs returns copies of the name and ARN for use in SDK inputs.
func (s *streamID) refs() (name, arn *string) {
	if s.name != nil {
		n := *s.name
		name = &n
	}
	if s.arn != nil {
		a := *s.arn
		arn = &a
	}
	return name, arn
}
