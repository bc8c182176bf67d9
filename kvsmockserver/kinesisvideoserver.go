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

// Package kvsmockserver emulates the Kinesis Video Streams archived media
// REST API for tests.
package kvsmockserver

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/at-wat/ebml-go"
	"github.com/google/uuid"

	"github.com/seqsense/kvarchive"
)

const (
	defaultFragmentLength = 1000
	imagesPageSize        = 25
	listFragmentsPageSize = 1000
)

type KinesisVideoServer struct {
	*httptest.Server
	fragments map[uint64]FragmentTest
	mu        sync.Mutex

	streamName              string
	producerTimestampOrigin float64
	serverTimestampOrigin   float64

	dataEndpointCalls int
	lastRequests      map[string]map[string]interface{}
}

type KinesisVideoServerOption func(*KinesisVideoServer)

// WithTimestampOrigin sets the timestamps in seconds of the fragment with
// timecode 0.
func WithTimestampOrigin(producer, server float64) KinesisVideoServerOption {
	return func(s *KinesisVideoServer) {
		s.producerTimestampOrigin = producer
		s.serverTimestampOrigin = server
	}
}

// WithStreamName makes requests to other streams fail with
// ResourceNotFoundException.
func WithStreamName(name string) KinesisVideoServerOption {
	return func(s *KinesisVideoServer) {
		s.streamName = name
	}
}

func NewKinesisVideoServer(opts ...KinesisVideoServerOption) *KinesisVideoServer {
	s := &KinesisVideoServer{
		fragments:    make(map[uint64]FragmentTest),
		lastRequests: make(map[string]map[string]interface{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/getDataEndpoint", s.getDataEndpoint)
	mux.HandleFunc("/listFragments", s.listFragments)
	mux.HandleFunc("/getMediaForFragmentList", s.getMediaForFragmentList)
	mux.HandleFunc("/getClip", s.getClip)
	mux.HandleFunc("/getImages", s.getImages)
	mux.HandleFunc("/getHLSStreamingSessionURL", s.getStreamingSessionURL(
		"HLSStreamingSessionURL", "/hls/v1/getHLSMasterPlaylist.m3u8",
	))
	mux.HandleFunc("/getDASHStreamingSessionURL", s.getStreamingSessionURL(
		"DASHStreamingSessionURL", "/dash/v1/getDASHManifest.mpd",
	))
	s.Server = httptest.NewServer(mux)
	return s
}

// FragmentNumberFromTimecode returns the fragment number assigned to the
// fragment registered with the cluster timecode.
func FragmentNumberFromTimecode(timecode uint64) string {
	return fmt.Sprintf("9134385233318143239268206%022d", timecode)
}

func (s *KinesisVideoServer) GetFragment(timecode uint64) (FragmentTest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fragment, ok := s.fragments[timecode]
	return fragment, ok
}

func (s *KinesisVideoServer) RegisterFragment(fragment FragmentTest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fragments[fragment.Cluster.Timecode] = fragment
}

// DataEndpointCalls returns the number of GetDataEndpoint requests received.
func (s *KinesisVideoServer) DataEndpointCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataEndpointCalls
}

// LastRequest returns the JSON body of the last request to the given path.
func (s *KinesisVideoServer) LastRequest(path string) map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRequests[path]
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Amzn-Errortype", code)
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"Message": %q}`, message)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeError(w, 500, "InternalServerError", err.Error())
	}
}

// decode reads the request body into v and checks the stream reference.
func (s *KinesisVideoServer) decode(w http.ResponseWriter, r *http.Request, v interface{}, ref func() streamRef) bool {
	bs, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, 400, "InvalidArgumentException", err.Error())
		return false
	}
	if err := json.Unmarshal(bs, v); err != nil {
		writeError(w, 400, "InvalidArgumentException", err.Error())
		return false
	}
	raw := make(map[string]interface{})
	if err := json.Unmarshal(bs, &raw); err == nil {
		s.mu.Lock()
		s.lastRequests[r.URL.Path] = raw
		s.mu.Unlock()
	}

	sr := ref()
	if sr.StreamName == nil && sr.StreamARN == nil {
		writeError(w, 400, "InvalidArgumentException", "StreamName or StreamARN must be specified")
		return false
	}
	if s.streamName != "" && sr.StreamName != nil && *sr.StreamName != s.streamName {
		writeError(w, 404, "ResourceNotFoundException", "stream "+*sr.StreamName+" not found")
		return false
	}
	return true
}

func (s *KinesisVideoServer) getDataEndpoint(w http.ResponseWriter, r *http.Request) {
	in := &getDataEndpointInput{}
	if !s.decode(w, r, in, func() streamRef { return in.streamRef }) {
		return
	}
	s.mu.Lock()
	s.dataEndpointCalls++
	s.mu.Unlock()
	fmt.Fprintf(w, `{"DataEndpoint": "%s"}`, s.URL)
}

func toMillis(sec float64) int64 {
	return int64(math.Round(sec * 1000))
}

func toSeconds(ms int64) float64 {
	return float64(ms) / 1000
}

func (s *KinesisVideoServer) producerMillis(timecode uint64) int64 {
	return toMillis(s.producerTimestampOrigin) + int64(timecode)
}

func (s *KinesisVideoServer) serverMillis(timecode uint64) int64 {
	return toMillis(s.serverTimestampOrigin) + int64(timecode)
}

func (s *KinesisVideoServer) selectorMillis(selectorType string, timecode uint64) int64 {
	if selectorType == "PRODUCER_TIMESTAMP" {
		return s.producerMillis(timecode)
	}
	return s.serverMillis(timecode)
}

// selectFragments returns fragments in the selector range ordered by timecode.
// nil selector selects all.
func (s *KinesisVideoServer) selectFragments(sel *fragmentSelector) []FragmentTest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ret []FragmentTest
	for _, f := range s.fragments {
		if sel != nil && sel.TimestampRange != nil {
			ms := s.selectorMillis(sel.FragmentSelectorType, f.Cluster.Timecode)
			if r := sel.TimestampRange; r.StartTimestamp != nil && ms < toMillis(*r.StartTimestamp) {
				continue
			}
			if r := sel.TimestampRange; r.EndTimestamp != nil && ms > toMillis(*r.EndTimestamp) {
				continue
			}
		}
		ret = append(ret, f)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Cluster.Timecode < ret[j].Cluster.Timecode
	})
	return ret
}

func fragmentLength(f FragmentTest) int64 {
	if f.LengthInMilliseconds > 0 {
		return f.LengthInMilliseconds
	}
	return defaultFragmentLength
}

func fragmentSize(f FragmentTest) int64 {
	var n int64
	for _, b := range f.Cluster.SimpleBlock {
		for _, d := range b.Data {
			n += int64(len(d))
		}
	}
	return n
}

func pageOffset(token *string) (int, error) {
	if token == nil {
		return 0, nil
	}
	return strconv.Atoi(*token)
}

func nextToken(offset, total int) *string {
	if offset >= total {
		return nil
	}
	token := strconv.Itoa(offset)
	return &token
}

func (s *KinesisVideoServer) listFragments(w http.ResponseWriter, r *http.Request) {
	in := &listFragmentsInput{}
	if !s.decode(w, r, in, func() streamRef { return in.streamRef }) {
		return
	}
	offset, err := pageOffset(in.NextToken)
	if err != nil {
		writeError(w, 400, "InvalidArgumentException", "invalid NextToken")
		return
	}
	pageSize := listFragmentsPageSize
	if in.MaxResults != nil && int(*in.MaxResults) < pageSize {
		pageSize = int(*in.MaxResults)
	}

	selected := s.selectFragments(in.FragmentSelector)
	// Results are in no specific order.
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Cluster.Timecode > selected[j].Cluster.Timecode
	})

	out := &listFragmentsOutput{Fragments: []fragment{}}
	end := offset + pageSize
	if end > len(selected) {
		end = len(selected)
	}
	for i := offset; i < end; i++ {
		f := selected[i]
		fn := FragmentNumberFromTimecode(f.Cluster.Timecode)
		producer := toSeconds(s.producerMillis(f.Cluster.Timecode))
		server := toSeconds(s.serverMillis(f.Cluster.Timecode))
		out.Fragments = append(out.Fragments, fragment{
			FragmentLengthInMilliseconds: fragmentLength(f),
			FragmentNumber:               &fn,
			FragmentSizeInBytes:          fragmentSize(f),
			ProducerTimestamp:            &producer,
			ServerTimestamp:              &server,
		})
	}
	out.NextToken = nextToken(end, len(selected))
	writeJSON(w, out)
}

func (s *KinesisVideoServer) fragmentByNumber(fn string) (FragmentTest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tc, f := range s.fragments {
		if FragmentNumberFromTimecode(tc) == fn {
			return f, true
		}
	}
	return FragmentTest{}, false
}

func (s *KinesisVideoServer) getMediaForFragmentList(w http.ResponseWriter, r *http.Request) {
	in := &getMediaForFragmentListInput{}
	if !s.decode(w, r, in, func() streamRef { return in.streamRef }) {
		return
	}

	buf := bytes.NewBuffer(nil)
	for _, fn := range in.Fragments {
		f, ok := s.fragmentByNumber(fn)
		if !ok {
			writeError(w, 404, "ResourceNotFoundException", "fragment "+fn+" not found")
			return
		}

		tag := TagTest{SimpleTag: []SimpleTagTest{
			{TagName: "AWS_KINESISVIDEO_FRAGMENT_NUMBER", TagString: fn},
			{TagName: "AWS_KINESISVIDEO_SERVER_TIMESTAMP", TagString: millisToTimestamp(s.serverMillis(f.Cluster.Timecode))},
			{TagName: "AWS_KINESISVIDEO_PRODUCER_TIMESTAMP", TagString: millisToTimestamp(s.producerMillis(f.Cluster.Timecode))},
		}}
		if f.ErrorCode != "" {
			tag.SimpleTag = append(tag.SimpleTag,
				SimpleTagTest{TagName: "AWS_KINESISVIDEO_EXCEPTION_ERROR_CODE", TagString: f.ErrorCode},
				SimpleTagTest{TagName: "AWS_KINESISVIDEO_EXCEPTION_MESSAGE", TagString: f.ErrorMessage},
			)
		}

		data := &container{
			Header: ebmlHeader{
				EBMLVersion:        1,
				EBMLReadVersion:    1,
				EBMLMaxIDLength:    4,
				EBMLMaxSizeLength:  8,
				EBMLDocType:        "matroska",
				EBMLDocTypeVersion: 2,
			},
		}
		data.Segment.Info.TimecodeScale = 1000000
		data.Segment.Tags.Tag = append([]TagTest{tag}, f.Tags.Tag...)
		data.Segment.Cluster = f.Cluster
		if err := ebml.Marshal(data, buf); err != nil {
			writeError(w, 500, "InternalServerError", err.Error())
			return
		}
	}
	w.Header().Set("Content-Type", "video/webm")
	w.Write(buf.Bytes())
}

func millisToTimestamp(ms int64) string {
	return kvarchive.ToTimestamp(time.UnixMilli(ms))
}

func (s *KinesisVideoServer) getClip(w http.ResponseWriter, r *http.Request) {
	in := &getClipInput{}
	if !s.decode(w, r, in, func() streamRef { return in.streamRef }) {
		return
	}
	if in.ClipFragmentSelector == nil || in.ClipFragmentSelector.TimestampRange == nil {
		writeError(w, 400, "InvalidArgumentException", "ClipFragmentSelector is required")
		return
	}
	selected := s.selectFragments(in.ClipFragmentSelector)
	if len(selected) == 0 {
		writeError(w, 404, "ResourceNotFoundException", "no fragments found in the requested range")
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	for _, f := range selected {
		for _, b := range f.Cluster.SimpleBlock {
			for _, d := range b.Data {
				w.Write(d)
			}
		}
	}
}

func (s *KinesisVideoServer) imageAt(selectorType string, ms int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tc, f := range s.fragments {
		begin := s.selectorMillis(selectorType, tc)
		if ms < begin || ms >= begin+fragmentLength(f) {
			continue
		}
		content := []byte(FragmentNumberFromTimecode(tc))
		if len(f.Cluster.SimpleBlock) > 0 && len(f.Cluster.SimpleBlock[0].Data) > 0 {
			content = f.Cluster.SimpleBlock[0].Data[0]
		}
		return base64.StdEncoding.EncodeToString(content), true
	}
	return "", false
}

func (s *KinesisVideoServer) getImages(w http.ResponseWriter, r *http.Request) {
	in := &getImagesInput{}
	if !s.decode(w, r, in, func() streamRef { return in.streamRef }) {
		return
	}
	if in.StartTimestamp == nil || in.EndTimestamp == nil || in.SamplingInterval == nil || *in.SamplingInterval <= 0 {
		writeError(w, 400, "InvalidArgumentException", "StartTimestamp, EndTimestamp and SamplingInterval are required")
		return
	}
	offset, err := pageOffset(in.NextToken)
	if err != nil {
		writeError(w, 400, "InvalidArgumentException", "invalid NextToken")
		return
	}
	pageSize := imagesPageSize
	if in.MaxResults != nil && int(*in.MaxResults) < pageSize {
		pageSize = int(*in.MaxResults)
	}

	var samples []int64
	for ms := toMillis(*in.StartTimestamp); ms <= toMillis(*in.EndTimestamp); ms += *in.SamplingInterval {
		samples = append(samples, ms)
	}

	out := &getImagesOutput{Images: []image{}}
	end := offset + pageSize
	if end > len(samples) {
		end = len(samples)
	}
	for i := offset; i < end; i++ {
		img := image{TimeStamp: toSeconds(samples[i])}
		if content, ok := s.imageAt(in.ImageSelectorType, samples[i]); ok {
			img.ImageContent = content
		} else {
			img.Error = "NO_MEDIA"
		}
		out.Images = append(out.Images, img)
	}
	out.NextToken = nextToken(end, len(samples))
	writeJSON(w, out)
}

func (s *KinesisVideoServer) getStreamingSessionURL(field, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := &streamRef{}
		if !s.decode(w, r, in, func() streamRef { return *in }) {
			return
		}
		writeJSON(w, map[string]string{
			field: fmt.Sprintf("%s%s?SessionToken=%s", s.URL, path, uuid.NewString()),
		})
	}
}
