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
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	kvam "github.com/aws/aws-sdk-go-v2/service/kinesisvideoarchivedmedia"
	kvam_types "github.com/aws/aws-sdk-go-v2/service/kinesisvideoarchivedmedia/types"
	"github.com/mitchellh/mapstructure"
)

const (
	MaxImageTimestampRange = 300 * time.Second
	MinSamplingInterval    = 200 * time.Millisecond

	DefaultJPEGQuality = 80
	MinJPEGQuality     = 1
	MaxJPEGQuality     = 100

	// DefaultImagesMaxResults is the page size of GetImages.
	// Larger MaxResults values are capped to it by the service.
	DefaultImagesMaxResults = 25
)

// FormatConfig holds extra image encoding parameters.
type FormatConfig map[FormatConfigKey]int

// JPEGQuality returns the configured quality or DefaultJPEGQuality.
func (c FormatConfig) JPEGQuality() int {
	if q, ok := c[FormatConfigKeyJPEGQuality]; ok {
		return q
	}
	return DefaultJPEGQuality
}

func (c FormatConfig) validate() error {
	var errs multiError
	for k, v := range c {
		switch k {
		case FormatConfigKeyJPEGQuality:
			if v < MinJPEGQuality || v > MaxJPEGQuality {
				errs.Add(argErrorf("FormatConfig."+string(k), "%d is out of range [%d, %d]", v, MinJPEGQuality, MaxJPEGQuality))
			}
		default:
			errs.Add(argErrorf("FormatConfig", "unknown key %q", k))
		}
	}
	return errs.Err()
}

func (c FormatConfig) wire() map[string]string {
	if len(c) == 0 {
		return nil
	}
	ret := make(map[string]string, len(c))
	for k, v := range c {
		ret[string(k)] = strconv.Itoa(v)
	}
	return ret
}

// ParseFormatConfig decodes the string map used on the wire.
// Keys other than JPEGQuality and non-integer values are rejected.
func ParseFormatConfig(m map[string]string) (FormatConfig, error) {
	var raw struct {
		JPEGQuality *int `mapstructure:"JPEGQuality"`
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &raw,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(m); err != nil {
		return nil, argErrorf("FormatConfig", "%v", err)
	}
	c := FormatConfig{}
	if raw.JPEGQuality != nil {
		c[FormatConfigKeyJPEGQuality] = *raw.JPEGQuality
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

type imageOptions struct {
	formatConfig FormatConfig
	widthPixels  *int32
	heightPixels *int32
	nextToken    *string
	maxResults   *int64
}

type ImageOption func(*imageOptions)

func WithFormatConfig(c FormatConfig) ImageOption {
	return func(o *imageOptions) {
		o.formatConfig = make(FormatConfig, len(c))
		for k, v := range c {
			o.formatConfig[k] = v
		}
	}
}

func WithJPEGQuality(q int) ImageOption {
	return func(o *imageOptions) {
		if o.formatConfig == nil {
			o.formatConfig = FormatConfig{}
		}
		o.formatConfig[FormatConfigKeyJPEGQuality] = q
	}
}

// WithWidthPixels must be used together with WithHeightPixels.
func WithWidthPixels(w int32) ImageOption {
	return func(o *imageOptions) {
		o.widthPixels = &w
	}
}

// WithHeightPixels must be used together with WithWidthPixels.
func WithHeightPixels(h int32) ImageOption {
	return func(o *imageOptions) {
		o.heightPixels = &h
	}
}

func WithImagesNextToken(token string) ImageOption {
	return func(o *imageOptions) {
		o.nextToken = &token
	}
}

func WithImagesMaxResults(n int64) ImageOption {
	return func(o *imageOptions) {
		o.maxResults = &n
	}
}

// ImageRequest is a validated GetImages request.
type ImageRequest struct {
	streamID         *streamID
	selectorType     ImageSelectorType
	start            time.Time
	end              time.Time
	samplingInterval time.Duration
	format           ImageFormat
	imageOptions
}

// NewImageRequest validates the parameters of GetImages.
func NewImageRequest(
	streamID StreamID,
	selectorType ImageSelectorType,
	start, end time.Time,
	samplingInterval time.Duration,
	format ImageFormat,
	opts ...ImageOption,
) (*ImageRequest, error) {
	options := &imageOptions{}
	for _, o := range opts {
		o(options)
	}

	var errs multiError
	errs.Add(validateStreamID(streamID))
	if !oneOf(selectorType, selectorType.Values()) {
		errs.Add(argErrorf("ImageSelectorType", "unknown value %q", selectorType))
	}
	if !oneOf(format, format.Values()) {
		errs.Add(argErrorf("Format", "unknown value %q", format))
	}
	switch {
	case start.IsZero():
		errs.Add(argErrorf("StartTimestamp", "must be specified"))
	case end.IsZero():
		errs.Add(argErrorf("EndTimestamp", "must be specified"))
	case end.Before(start):
		errs.Add(argErrorf("EndTimestamp", "must not be earlier than start timestamp (start:%s end:%s)", ToTimestamp(start), ToTimestamp(end)))
	case end.Sub(start) > MaxImageTimestampRange:
		errs.Add(argErrorf("EndTimestamp", "range %v exceeds %v", end.Sub(start), MaxImageTimestampRange))
	}
	switch {
	case samplingInterval%time.Millisecond != 0:
		errs.Add(argErrorf("SamplingInterval", "%v is not whole milliseconds", samplingInterval))
	case samplingInterval < MinSamplingInterval:
		errs.Add(argErrorf("SamplingInterval", "%v is shorter than %v", samplingInterval, MinSamplingInterval))
	}
	errs.Add(options.formatConfig.validate())
	switch w, h := options.widthPixels, options.heightPixels; {
	case (w == nil) != (h == nil):
		errs.Add(argErrorf("WidthPixels", "must be specified together with HeightPixels"))
	case w != nil && (*w <= 0 || *h <= 0):
		errs.Add(argErrorf("WidthPixels", "image size must be positive (%dx%d)", *w, *h))
	}
	if n := options.maxResults; n != nil && *n < 1 {
		errs.Add(argErrorf("MaxResults", "%d must be positive", *n))
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &ImageRequest{
		streamID:         copyStreamID(streamID),
		selectorType:     selectorType,
		start:            start,
		end:              end,
		samplingInterval: samplingInterval,
		format:           format,
		imageOptions:     *options,
	}, nil
}

func (r *ImageRequest) StreamID() StreamID {
	return r.streamID.ref()
}

// WithNextToken returns a copy of the request continuing from token.
func (r *ImageRequest) WithNextToken(token string) *ImageRequest {
	ret := *r
	ret.nextToken = &token
	return &ret
}

func (r *ImageRequest) Input() *kvam.GetImagesInput {
	name, arn := r.streamID.refs()
	in := &kvam.GetImagesInput{
		StreamName:        name,
		StreamARN:         arn,
		ImageSelectorType: kvam_types.ImageSelectorType(r.selectorType),
		StartTimestamp:    aws.Time(r.start),
		EndTimestamp:      aws.Time(r.end),
		SamplingInterval:  aws.Int32(int32(r.samplingInterval / time.Millisecond)),
		Format:            kvam_types.Format(r.format),
		FormatConfig:      r.formatConfig.wire(),
	}
	if r.widthPixels != nil {
		in.WidthPixels = aws.Int32(*r.widthPixels)
		in.HeightPixels = aws.Int32(*r.heightPixels)
	}
	if r.nextToken != nil {
		in.NextToken = aws.String(*r.nextToken)
	}
	if r.maxResults != nil {
		in.MaxResults = aws.Int64(*r.maxResults)
	}
	return in
}
