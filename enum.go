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

// Enumerations use the service's wire values. An empty value means the
// field is unset and the service default applies.

// FragmentSelectorType selects which timestamp a range is compared against.
type FragmentSelectorType string

const (
	// FragmentSelectorTypeProducerTimestamp compares against the timestamp
	// assigned by the producer. The service deduplicates fragments sharing a
	// start timestamp and keeps the one with the larger fragment number.
	// Clients pass the type through and must not replicate the rule.
	FragmentSelectorTypeProducerTimestamp FragmentSelectorType = "PRODUCER_TIMESTAMP"
	FragmentSelectorTypeServerTimestamp   FragmentSelectorType = "SERVER_TIMESTAMP"
)

func (FragmentSelectorType) Values() []FragmentSelectorType {
	return []FragmentSelectorType{
		FragmentSelectorTypeProducerTimestamp,
		FragmentSelectorTypeServerTimestamp,
	}
}

type ContainerFormat string

const (
	ContainerFormatFragmentedMP4 ContainerFormat = "FRAGMENTED_MP4"
	ContainerFormatMPEGTS        ContainerFormat = "MPEG_TS"
)

func (ContainerFormat) Values() []ContainerFormat {
	return []ContainerFormat{
		ContainerFormatFragmentedMP4,
		ContainerFormatMPEGTS,
	}
}

type DisplayFragmentNumber string

const (
	DisplayFragmentNumberAlways DisplayFragmentNumber = "ALWAYS"
	DisplayFragmentNumberNever  DisplayFragmentNumber = "NEVER"
)

func (DisplayFragmentNumber) Values() []DisplayFragmentNumber {
	return []DisplayFragmentNumber{
		DisplayFragmentNumberAlways,
		DisplayFragmentNumberNever,
	}
}

type DisplayFragmentTimestamp string

const (
	DisplayFragmentTimestampAlways DisplayFragmentTimestamp = "ALWAYS"
	DisplayFragmentTimestampNever  DisplayFragmentTimestamp = "NEVER"
)

func (DisplayFragmentTimestamp) Values() []DisplayFragmentTimestamp {
	return []DisplayFragmentTimestamp{
		DisplayFragmentTimestampAlways,
		DisplayFragmentTimestampNever,
	}
}

// DiscontinuityMode controls discontinuity flags in HLS media playlists.
type DiscontinuityMode string

const (
	DiscontinuityModeAlways          DiscontinuityMode = "ALWAYS"
	DiscontinuityModeNever           DiscontinuityMode = "NEVER"
	DiscontinuityModeOnDiscontinuity DiscontinuityMode = "ON_DISCONTINUITY"
)

func (DiscontinuityMode) Values() []DiscontinuityMode {
	return []DiscontinuityMode{
		DiscontinuityModeAlways,
		DiscontinuityModeNever,
		DiscontinuityModeOnDiscontinuity,
	}
}

// PlaybackMode of a streaming session.
type PlaybackMode string

const (
	// PlaybackModeLive follows the tip of the stream.
	PlaybackModeLive PlaybackMode = "LIVE"
	// PlaybackModeLiveReplay plays live from a past start point.
	PlaybackModeLiveReplay PlaybackMode = "LIVE_REPLAY"
	// PlaybackModeOnDemand plays a fixed historical window.
	PlaybackModeOnDemand PlaybackMode = "ON_DEMAND"
)

func (PlaybackMode) Values() []PlaybackMode {
	return []PlaybackMode{
		PlaybackModeLive,
		PlaybackModeLiveReplay,
		PlaybackModeOnDemand,
	}
}

type ImageFormat string

const (
	ImageFormatJPEG ImageFormat = "JPEG"
	ImageFormatPNG  ImageFormat = "PNG"
)

func (ImageFormat) Values() []ImageFormat {
	return []ImageFormat{
		ImageFormatJPEG,
		ImageFormatPNG,
	}
}

type FormatConfigKey string

const (
	FormatConfigKeyJPEGQuality FormatConfigKey = "JPEGQuality"
)

func (FormatConfigKey) Values() []FormatConfigKey {
	return []FormatConfigKey{
		FormatConfigKeyJPEGQuality,
	}
}

type ImageSelectorType string

const (
	ImageSelectorTypeProducerTimestamp ImageSelectorType = "PRODUCER_TIMESTAMP"
	ImageSelectorTypeServerTimestamp   ImageSelectorType = "SERVER_TIMESTAMP"
)

func (ImageSelectorType) Values() []ImageSelectorType {
	return []ImageSelectorType{
		ImageSelectorTypeProducerTimestamp,
		ImageSelectorTypeServerTimestamp,
	}
}

// ImageError reports why an image could not be extracted.
type ImageError string

const (
	ImageErrorNone       ImageError = ""
	ImageErrorNoMedia    ImageError = "NO_MEDIA"
	ImageErrorMediaError ImageError = "MEDIA_ERROR"
)

func (ImageError) Values() []ImageError {
	return []ImageError{
		ImageErrorNoMedia,
		ImageErrorMediaError,
	}
}

func oneOf[T comparable](v T, values []T) bool {
	for _, e := range values {
		if v == e {
			return true
		}
	}
	return false
}
