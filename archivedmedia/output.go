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
	"sort"

	"github.com/seqsense/kvarchive"
)

type ListFragmentsOutput struct {
	*kvarchive.FragmentList
}

func (l *ListFragmentsOutput) SortByFragmentNumber() {
	sort.Sort(SortByFragmentNumber{l})
}

func (l *ListFragmentsOutput) SortByProducerTimestamp() {
	sort.Sort(SortByProducerTimestamp{l})
}

func (l ListFragmentsOutput) Len() int {
	return len(l.Fragments)
}

func (l *ListFragmentsOutput) Swap(i, j int) {
	l.Fragments[i], l.Fragments[j] = l.Fragments[j], l.Fragments[i]
}

// lessFragmentNumber compares decimal fragment numbers without parsing.
func lessFragmentNumber(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

type SortByFragmentNumber struct {
	*ListFragmentsOutput
}

func (l SortByFragmentNumber) Less(i, j int) bool {
	return lessFragmentNumber(l.Fragments[i].FragmentNumber, l.Fragments[j].FragmentNumber)
}

type SortByProducerTimestamp struct {
	*ListFragmentsOutput
}

func (l SortByProducerTimestamp) Less(i, j int) bool {
	ti, tj := l.Fragments[i].ProducerTimestamp, l.Fragments[j].ProducerTimestamp
	if ti.Equal(tj) {
		return lessFragmentNumber(l.Fragments[i].FragmentNumber, l.Fragments[j].FragmentNumber)
	}
	return ti.Before(tj)
}

// Uniq keeps one fragment per producer timestamp.
// The larger (newer) fragment number wins, as the service does for
// PRODUCER_TIMESTAMP selectors. The kept fragment takes the position of the
// first fragment with the same timestamp.
func (l *ListFragmentsOutput) Uniq() {
	index := make(map[int64]int)
	var ret []kvarchive.Fragment
	for _, f := range l.Fragments {
		ts := f.ProducerTimestamp.UnixNano()
		i, ok := index[ts]
		if !ok {
			index[ts] = len(ret)
			ret = append(ret, f)
			continue
		}
		if lessFragmentNumber(ret[i].FragmentNumber, f.FragmentNumber) {
			ret[i] = f
		}
	}
	l.Fragments = ret
}

// FragmentIDs returns the fragment numbers in the current order.
func (l *ListFragmentsOutput) FragmentIDs() []string {
	var ret []string
	for _, f := range l.Fragments {
		ret = append(ret, f.FragmentNumber)
	}
	return ret
}

// MediaRequest builds a request fetching the media of the listed fragments.
func (l *ListFragmentsOutput) MediaRequest(streamID kvarchive.StreamID) (*kvarchive.MediaForFragmentListRequest, error) {
	return kvarchive.NewMediaForFragmentListRequest(streamID, l.FragmentIDs()...)
}
