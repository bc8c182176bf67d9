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
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	kvam_types "github.com/aws/aws-sdk-go-v2/service/kinesisvideoarchivedmedia/types"
)

// Fragment is an archived fragment as returned by ListFragments.
type Fragment struct {
	FragmentNumber               string // 158-bit number, handle as string
	FragmentLengthInMilliseconds int64
	FragmentSizeInBytes          int64
	ProducerTimestamp            time.Time
	ServerTimestamp              time.Time
}

type FragmentList struct {
	Fragments []Fragment
	NextToken *string `json:",omitempty"`
}

// Image is a frame extracted by GetImages.
type Image struct {
	TimeStamp time.Time
	// ImageContent is base64 encoded. Empty if Error is set.
	ImageContent string
	Error        ImageError
}

// Decode returns the encoded image data.
func (i *Image) Decode() ([]byte, error) {
	if i.Error != ImageErrorNone {
		return nil, fmt.Errorf("image at %s has error: %s", ToTimestamp(i.TimeStamp), i.Error)
	}
	return base64.StdEncoding.DecodeString(i.ImageContent)
}

type ImageList struct {
	Images    []Image
	NextToken *string `json:",omitempty"`
}

func FragmentFromSDK(f kvam_types.Fragment) Fragment {
	return Fragment{
		FragmentNumber:               aws.ToString(f.FragmentNumber),
		FragmentLengthInMilliseconds: f.FragmentLengthInMilliseconds,
		FragmentSizeInBytes:          f.FragmentSizeInBytes,
		ProducerTimestamp:            aws.ToTime(f.ProducerTimestamp),
		ServerTimestamp:              aws.ToTime(f.ServerTimestamp),
	}
}

func ImageFromSDK(i kvam_types.Image) Image {
	return Image{
		TimeStamp:    aws.ToTime(i.TimeStamp),
		ImageContent: aws.ToString(i.ImageContent),
		Error:        ImageError(i.Error),
	}
}

// Timestamps are encoded as epoch seconds with millisecond precision,
// matching the service's JSON. Sub-millisecond digits are dropped.

type fragmentJSON struct {
	FragmentNumber               string
	FragmentLengthInMilliseconds int64
	FragmentSizeInBytes          int64
	ProducerTimestamp            json.Number `json:",omitempty"`
	ServerTimestamp              json.Number `json:",omitempty"`
}

func (f Fragment) MarshalJSON() ([]byte, error) {
	return json.Marshal(&fragmentJSON{
		FragmentNumber:               f.FragmentNumber,
		FragmentLengthInMilliseconds: f.FragmentLengthInMilliseconds,
		FragmentSizeInBytes:          f.FragmentSizeInBytes,
		ProducerTimestamp:            encodeTimestamp(f.ProducerTimestamp),
		ServerTimestamp:              encodeTimestamp(f.ServerTimestamp),
	})
}

func (f *Fragment) UnmarshalJSON(b []byte) error {
	var v fragmentJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	producerTimestamp, err := decodeTimestamp(v.ProducerTimestamp)
	if err != nil {
		return fmt.Errorf("fragment %s: producer timestamp: %w", v.FragmentNumber, err)
	}
	serverTimestamp, err := decodeTimestamp(v.ServerTimestamp)
	if err != nil {
		return fmt.Errorf("fragment %s: server timestamp: %w", v.FragmentNumber, err)
	}
	*f = Fragment{
		FragmentNumber:               v.FragmentNumber,
		FragmentLengthInMilliseconds: v.FragmentLengthInMilliseconds,
		FragmentSizeInBytes:          v.FragmentSizeInBytes,
		ProducerTimestamp:            producerTimestamp,
		ServerTimestamp:              serverTimestamp,
	}
	return nil
}

type imageJSON struct {
	TimeStamp    json.Number `json:",omitempty"`
	ImageContent string      `json:",omitempty"`
	Error        ImageError  `json:",omitempty"`
}

func (i Image) MarshalJSON() ([]byte, error) {
	return json.Marshal(&imageJSON{
		TimeStamp:    encodeTimestamp(i.TimeStamp),
		ImageContent: i.ImageContent,
		Error:        i.Error,
	})
}

func (i *Image) UnmarshalJSON(b []byte) error {
	var v imageJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	ts, err := decodeTimestamp(v.TimeStamp)
	if err != nil {
		return fmt.Errorf("image timestamp: %w", err)
	}
	*i = Image{
		TimeStamp:    ts,
		ImageContent: v.ImageContent,
		Error:        v.Error,
	}
	return nil
}

func encodeTimestamp(t time.Time) json.Number {
	if t.IsZero() {
		return ""
	}
	return json.Number(ToTimestamp(t))
}

func decodeTimestamp(n json.Number) (time.Time, error) {
	if n == "" {
		return time.Time{}, nil
	}
	if t, err := ParseTimestamp(string(n)); err == nil {
		return t, nil
	}
	// The service may use exponent notation.
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return time.Time{}, err
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(math.Round(frac*1000))*int64(time.Millisecond)), nil
}
