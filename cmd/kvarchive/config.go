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

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/seqsense/kvarchive"
)

const (
	OperationClip   = "clip"
	OperationDASH   = "dash"
	OperationHLS    = "hls"
	OperationImages = "images"
	OperationList   = "list"
	OperationMedia  = "media"
)

// Config is the request file.
type Config struct {
	Operation  string `toml:"operation"`
	StreamName string `toml:"stream_name"`
	StreamARN  string `toml:"stream_arn"`
	// Output is the file the clip payload is written to. Empty means stdout.
	Output string `toml:"output"`

	AWS      AWSConfig       `toml:"aws"`
	Selector *SelectorConfig `toml:"selector"`
	Session  SessionConfig   `toml:"session"`
	Images   ImagesConfig    `toml:"images"`
	List     ListConfig      `toml:"list"`
	Media    MediaConfig     `toml:"media"`
}

// AWSConfig overrides the shared AWS configuration.
type AWSConfig struct {
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
	SessionToken    string `toml:"session_token"`
}

type SelectorConfig struct {
	Type  string     `toml:"type"`
	Start time.Time  `toml:"start"`
	End   *time.Time `toml:"end"`
}

type SessionConfig struct {
	PlaybackMode             string `toml:"playback_mode"`
	ExpiresSeconds           int64  `toml:"expires_seconds"`
	MaxFragmentResults       int64  `toml:"max_fragment_results"`
	DisplayFragmentTimestamp string `toml:"display_fragment_timestamp"`
	DisplayFragmentNumber    string `toml:"display_fragment_number"`
	DiscontinuityMode        string `toml:"discontinuity_mode"`
	ContainerFormat          string `toml:"container_format"`
}

type ImagesConfig struct {
	SelectorType       string            `toml:"selector_type"`
	SamplingIntervalMS int64             `toml:"sampling_interval_ms"`
	Format             string            `toml:"format"`
	FormatConfig       map[string]string `toml:"format_config"`
	WidthPixels        int32             `toml:"width_pixels"`
	HeightPixels       int32             `toml:"height_pixels"`
	MaxResults         int64             `toml:"max_results"`
}

type ListConfig struct {
	MaxResults int64  `toml:"max_results"`
	NextToken  string `toml:"next_token"`
}

type MediaConfig struct {
	Fragments []string `toml:"fragments"`
}

// LoadConfig reads the request file. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	c := &Config{}
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		var keys []string
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return c, nil
}

// ApplyAWS overrides the shared configuration with the [aws] section.
func (c *Config) ApplyAWS(cfg *aws.Config) {
	if c.AWS.Region != "" {
		cfg.Region = c.AWS.Region
	}
	if c.AWS.Endpoint != "" {
		cfg.BaseEndpoint = aws.String(c.AWS.Endpoint)
	}
	if c.AWS.AccessKeyID != "" {
		cfg.Credentials = credentials.NewStaticCredentialsProvider(
			c.AWS.AccessKeyID, c.AWS.SecretAccessKey, c.AWS.SessionToken,
		)
	}
}

func (c *Config) streamID() kvarchive.StreamID {
	return kvarchive.NewStreamID(c.StreamName, c.StreamARN)
}

func (c *Config) fragmentSelector() (kvarchive.FragmentSelector, bool) {
	if c.Selector == nil {
		return kvarchive.FragmentSelector{}, false
	}
	typ := kvarchive.FragmentSelectorType(c.Selector.Type)
	if c.Selector.Start.IsZero() {
		return kvarchive.NewFragmentSelectorType(typ), true
	}
	if c.Selector.End == nil {
		return kvarchive.NewFragmentSelector(typ, kvarchive.NewOpenTimestampRange(c.Selector.Start)), true
	}
	return kvarchive.NewFragmentSelector(typ, kvarchive.NewTimestampRange(c.Selector.Start, *c.Selector.End)), true
}

func (c *Config) ClipRequest() (*kvarchive.ClipRequest, error) {
	s, _ := c.fragmentSelector()
	return kvarchive.NewClipRequest(c.streamID(), s)
}

func (c *Config) sessionOptions() []kvarchive.SessionOption {
	var opts []kvarchive.SessionOption
	if s, ok := c.fragmentSelector(); ok {
		opts = append(opts, kvarchive.WithFragmentSelector(s))
	}
	if m := c.Session.PlaybackMode; m != "" {
		opts = append(opts, kvarchive.WithPlaybackMode(kvarchive.PlaybackMode(m)))
	}
	if e := c.Session.ExpiresSeconds; e != 0 {
		opts = append(opts, kvarchive.WithExpires(time.Duration(e)*time.Second))
	}
	if n := c.Session.MaxFragmentResults; n != 0 {
		opts = append(opts, kvarchive.WithMaxFragmentResults(n))
	}
	if d := c.Session.DisplayFragmentTimestamp; d != "" {
		opts = append(opts, kvarchive.WithDisplayFragmentTimestamp(kvarchive.DisplayFragmentTimestamp(d)))
	}
	if d := c.Session.DisplayFragmentNumber; d != "" {
		opts = append(opts, kvarchive.WithDisplayFragmentNumber(kvarchive.DisplayFragmentNumber(d)))
	}
	if m := c.Session.DiscontinuityMode; m != "" {
		opts = append(opts, kvarchive.WithDiscontinuityMode(kvarchive.DiscontinuityMode(m)))
	}
	if f := c.Session.ContainerFormat; f != "" {
		opts = append(opts, kvarchive.WithContainerFormat(kvarchive.ContainerFormat(f)))
	}
	return opts
}

func (c *Config) DASHSessionRequest() (*kvarchive.DASHSessionRequest, error) {
	return kvarchive.NewDASHSessionRequest(c.streamID(), c.sessionOptions()...)
}

func (c *Config) HLSSessionRequest() (*kvarchive.HLSSessionRequest, error) {
	return kvarchive.NewHLSSessionRequest(c.streamID(), c.sessionOptions()...)
}

func (c *Config) ImageRequest() (*kvarchive.ImageRequest, error) {
	if c.Selector == nil || c.Selector.End == nil {
		return nil, fmt.Errorf("%w: images: selector start and end are required", kvarchive.ErrInvalidArgument)
	}
	var opts []kvarchive.ImageOption
	if len(c.Images.FormatConfig) > 0 {
		fc, err := kvarchive.ParseFormatConfig(c.Images.FormatConfig)
		if err != nil {
			return nil, err
		}
		opts = append(opts, kvarchive.WithFormatConfig(fc))
	}
	if w := c.Images.WidthPixels; w != 0 {
		opts = append(opts, kvarchive.WithWidthPixels(w))
	}
	if h := c.Images.HeightPixels; h != 0 {
		opts = append(opts, kvarchive.WithHeightPixels(h))
	}
	if n := c.Images.MaxResults; n != 0 {
		opts = append(opts, kvarchive.WithImagesMaxResults(n))
	}
	return kvarchive.NewImageRequest(
		c.streamID(),
		kvarchive.ImageSelectorType(c.Images.SelectorType),
		c.Selector.Start, *c.Selector.End,
		time.Duration(c.Images.SamplingIntervalMS)*time.Millisecond,
		kvarchive.ImageFormat(c.Images.Format),
		opts...,
	)
}

func (c *Config) FragmentListRequest() (*kvarchive.FragmentListRequest, error) {
	var opts []kvarchive.FragmentListOption
	if s, ok := c.fragmentSelector(); ok {
		opts = append(opts, kvarchive.WithListFragmentSelector(s))
	}
	if t := c.List.NextToken; t != "" {
		opts = append(opts, kvarchive.WithNextToken(t))
	}
	if n := c.List.MaxResults; n != 0 {
		opts = append(opts, kvarchive.WithMaxResults(n))
	}
	return kvarchive.NewFragmentListRequest(c.streamID(), opts...)
}

func (c *Config) MediaForFragmentListRequest() (*kvarchive.MediaForFragmentListRequest, error) {
	return kvarchive.NewMediaForFragmentListRequest(c.streamID(), c.Media.Fragments...)
}
