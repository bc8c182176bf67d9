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

const (
	DefaultSessionExpires = 300 * time.Second
	MinSessionExpires     = 300 * time.Second
	MaxSessionExpires     = 43200 * time.Second

	MaxSessionFragmentResults = 5000
)

type sessionOptions struct {
	selector                 *FragmentSelector
	playbackMode             PlaybackMode
	expires                  time.Duration
	maxFragmentResults       *int64
	displayFragmentTimestamp DisplayFragmentTimestamp

	// DASH only
	displayFragmentNumber DisplayFragmentNumber

	// HLS only
	discontinuityMode DiscontinuityMode
	containerFormat   ContainerFormat
}

type SessionOption func(*sessionOptions)

func WithFragmentSelector(selector FragmentSelector) SessionOption {
	return func(o *sessionOptions) {
		o.selector = &selector
	}
}

func WithPlaybackMode(mode PlaybackMode) SessionOption {
	return func(o *sessionOptions) {
		o.playbackMode = mode
	}
}

// WithExpires sets the session lifetime. It must be whole seconds.
func WithExpires(expires time.Duration) SessionOption {
	return func(o *sessionOptions) {
		o.expires = expires
	}
}

// WithMaxFragmentResults limits the fragments listed in a manifest or
// media playlist.
func WithMaxFragmentResults(n int64) SessionOption {
	return func(o *sessionOptions) {
		o.maxFragmentResults = &n
	}
}

func WithDisplayFragmentTimestamp(d DisplayFragmentTimestamp) SessionOption {
	return func(o *sessionOptions) {
		o.displayFragmentTimestamp = d
	}
}

// WithDisplayFragmentNumber is only valid for DASH sessions.
func WithDisplayFragmentNumber(d DisplayFragmentNumber) SessionOption {
	return func(o *sessionOptions) {
		o.displayFragmentNumber = d
	}
}

// WithDiscontinuityMode is only valid for HLS sessions.
func WithDiscontinuityMode(m DiscontinuityMode) SessionOption {
	return func(o *sessionOptions) {
		o.discontinuityMode = m
	}
}

// WithContainerFormat is only valid for HLS sessions.
func WithContainerFormat(f ContainerFormat) SessionOption {
	return func(o *sessionOptions) {
		o.containerFormat = f
	}
}

func newSessionOptions(opts []SessionOption) *sessionOptions {
	options := &sessionOptions{
		playbackMode: PlaybackModeLive,
		expires:      DefaultSessionExpires,
	}
	for _, o := range opts {
		o(options)
	}
	return options
}

func (o *sessionOptions) validate(selectorField string) error {
	var errs multiError

	switch o.playbackMode {
	case PlaybackModeLive:
		if o.selector != nil {
			errs.Add(o.selector.validateType(selectorField))
			if o.selector.rng != nil {
				errs.Add(argErrorf(selectorField+".TimestampRange", "must not be specified in %s mode", o.playbackMode))
			}
		}
	case PlaybackModeOnDemand:
		if o.selector == nil {
			errs.Add(argErrorf(selectorField, "must be specified in %s mode", o.playbackMode))
			break
		}
		errs.Add(o.selector.validateClosed(selectorField))
	case PlaybackModeLiveReplay:
		if o.selector == nil {
			errs.Add(argErrorf(selectorField, "must be specified in %s mode", o.playbackMode))
			break
		}
		errs.Add(o.selector.validateType(selectorField))
		if o.selector.rng == nil {
			errs.Add(argErrorf(selectorField+".TimestampRange", "must be specified in %s mode", o.playbackMode))
		} else {
			errs.Add(o.selector.rng.validate(selectorField + ".TimestampRange"))
		}
	default:
		errs.Add(argErrorf("PlaybackMode", "unknown value %q", o.playbackMode))
	}

	switch {
	case o.expires%time.Second != 0:
		errs.Add(argErrorf("Expires", "%v is not whole seconds", o.expires))
	case o.expires < MinSessionExpires || o.expires > MaxSessionExpires:
		errs.Add(argErrorf("Expires", "%v is out of range [%v, %v]", o.expires, MinSessionExpires, MaxSessionExpires))
	}
	if n := o.maxFragmentResults; n != nil && (*n < 1 || *n > MaxSessionFragmentResults) {
		errs.Add(argErrorf("MaxFragmentResults", "%d is out of range [1, %d]", *n, MaxSessionFragmentResults))
	}
	if d := o.displayFragmentTimestamp; d != "" && !oneOf(d, d.Values()) {
		errs.Add(argErrorf("DisplayFragmentTimestamp", "unknown value %q", d))
	}
	return errs.Err()
}

func (o *sessionOptions) expiresSeconds() *int32 {
	return aws.Int32(int32(o.expires / time.Second))
}

func (o *sessionOptions) maxResults() *int64 {
	if o.maxFragmentResults == nil {
		return nil
	}
	return aws.Int64(*o.maxFragmentResults)
}

func (o *sessionOptions) Selector() (FragmentSelector, bool) {
	if o.selector == nil {
		return FragmentSelector{}, false
	}
	return *o.selector, true
}

func (o *sessionOptions) PlaybackMode() PlaybackMode {
	return o.playbackMode
}

func (o *sessionOptions) Expires() time.Duration {
	return o.expires
}

func selectorRange(s *FragmentSelector) (start, end *time.Time) {
	if s.rng == nil {
		return nil, nil
	}
	start = aws.Time(s.rng.start)
	if s.rng.hasEnd {
		end = aws.Time(s.rng.end)
	}
	return start, end
}

// DASHSessionRequest is a validated GetDASHStreamingSessionURL request.
type DASHSessionRequest struct {
	streamID *streamID
	sessionOptions
}

// NewDASHSessionRequest validates the parameters of
// GetDASHStreamingSessionURL. Playback mode defaults to LIVE and expiry to
// 300 seconds.
func NewDASHSessionRequest(streamID StreamID, opts ...SessionOption) (*DASHSessionRequest, error) {
	options := newSessionOptions(opts)

	var errs multiError
	errs.Add(validateStreamID(streamID))
	errs.Add(options.validate("DASHFragmentSelector"))
	if d := options.displayFragmentNumber; d != "" && !oneOf(d, d.Values()) {
		errs.Add(argErrorf("DisplayFragmentNumber", "unknown value %q", d))
	}
	if options.discontinuityMode != "" {
		errs.Add(argErrorf("DiscontinuityMode", "is only available for HLS"))
	}
	if options.containerFormat != "" {
		errs.Add(argErrorf("ContainerFormat", "is only available for HLS"))
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &DASHSessionRequest{
		streamID:       copyStreamID(streamID),
		sessionOptions: *options,
	}, nil
}

func (r *DASHSessionRequest) StreamID() StreamID {
	return r.streamID.ref()
}

func (r *DASHSessionRequest) Input() *kvam.GetDASHStreamingSessionURLInput {
	name, arn := r.streamID.refs()
	in := &kvam.GetDASHStreamingSessionURLInput{
		StreamName:                 name,
		StreamARN:                  arn,
		PlaybackMode:               kvam_types.DASHPlaybackMode(r.playbackMode),
		Expires:                    r.expiresSeconds(),
		MaxManifestFragmentResults: r.maxResults(),
		DisplayFragmentTimestamp:   kvam_types.DASHDisplayFragmentTimestamp(r.displayFragmentTimestamp),
		DisplayFragmentNumber:      kvam_types.DASHDisplayFragmentNumber(r.displayFragmentNumber),
	}
	if s := r.selector; s != nil {
		in.DASHFragmentSelector = &kvam_types.DASHFragmentSelector{
			FragmentSelectorType: kvam_types.DASHFragmentSelectorType(s.typ),
		}
		if s.rng != nil {
			start, end := selectorRange(s)
			in.DASHFragmentSelector.TimestampRange = &kvam_types.DASHTimestampRange{
				StartTimestamp: start,
				EndTimestamp:   end,
			}
		}
	}
	return in
}

// HLSSessionRequest is a validated GetHLSStreamingSessionURL request.
type HLSSessionRequest struct {
	streamID *streamID
	sessionOptions
}

// NewHLSSessionRequest validates the parameters of GetHLSStreamingSessionURL.
// Playback mode defaults to LIVE and expiry to 300 seconds.
func NewHLSSessionRequest(streamID StreamID, opts ...SessionOption) (*HLSSessionRequest, error) {
	options := newSessionOptions(opts)

	var errs multiError
	errs.Add(validateStreamID(streamID))
	errs.Add(options.validate("HLSFragmentSelector"))
	if m := options.discontinuityMode; m != "" && !oneOf(m, m.Values()) {
		errs.Add(argErrorf("DiscontinuityMode", "unknown value %q", m))
	}
	if f := options.containerFormat; f != "" && !oneOf(f, f.Values()) {
		errs.Add(argErrorf("ContainerFormat", "unknown value %q", f))
	}
	if options.displayFragmentNumber != "" {
		errs.Add(argErrorf("DisplayFragmentNumber", "is only available for DASH"))
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &HLSSessionRequest{
		streamID:       copyStreamID(streamID),
		sessionOptions: *options,
	}, nil
}

func (r *HLSSessionRequest) StreamID() StreamID {
	return r.streamID.ref()
}

func (r *HLSSessionRequest) Input() *kvam.GetHLSStreamingSessionURLInput {
	name, arn := r.streamID.refs()
	in := &kvam.GetHLSStreamingSessionURLInput{
		StreamName:                      name,
		StreamARN:                       arn,
		PlaybackMode:                    kvam_types.HLSPlaybackMode(r.playbackMode),
		Expires:                         r.expiresSeconds(),
		MaxMediaPlaylistFragmentResults: r.maxResults(),
		DisplayFragmentTimestamp:        kvam_types.HLSDisplayFragmentTimestamp(r.displayFragmentTimestamp),
		DiscontinuityMode:               kvam_types.HLSDiscontinuityMode(r.discontinuityMode),
		ContainerFormat:                 kvam_types.ContainerFormat(r.containerFormat),
	}
	if s := r.selector; s != nil {
		in.HLSFragmentSelector = &kvam_types.HLSFragmentSelector{
			FragmentSelectorType: kvam_types.HLSFragmentSelectorType(s.typ),
		}
		if s.rng != nil {
			start, end := selectorRange(s)
			in.HLSFragmentSelector.TimestampRange = &kvam_types.HLSTimestampRange{
				StartTimestamp: start,
				EndTimestamp:   end,
			}
		}
	}
	return in
}
