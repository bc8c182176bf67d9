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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/google/go-cmp/cmp"

	"github.com/seqsense/kvarchive"
	"github.com/seqsense/kvarchive/archivedmedia"
	kvsm "github.com/seqsense/kvarchive/kvsmockserver"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "request.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("HLS", func(t *testing.T) {
		path := writeConfig(t, `
operation = "hls"
stream_name = "test-stream"

[selector]
type = "SERVER_TIMESTAMP"
start = 2024-01-01T00:00:00Z
end = 2024-01-01T00:10:00Z

[session]
playback_mode = "ON_DEMAND"
expires_seconds = 600
container_format = "MPEG_TS"
`)
		c, err := LoadConfig(path)
		if err != nil {
			t.Fatal(err)
		}
		req, err := c.HLSSessionRequest()
		if err != nil {
			t.Fatal(err)
		}
		if mode := req.PlaybackMode(); mode != kvarchive.PlaybackModeOnDemand {
			t.Errorf("Expected ON_DEMAND, got %s", mode)
		}
		if expires := req.Expires(); expires != 10*time.Minute {
			t.Errorf("Expected 10m, got %v", expires)
		}
		in := req.Input()
		if format := string(in.ContainerFormat); format != "MPEG_TS" {
			t.Errorf("Expected MPEG_TS, got %s", format)
		}
		expectedEnd := time.Date(2024, 1, 1, 0, 10, 0, 0, time.UTC)
		if end := aws.ToTime(in.HLSFragmentSelector.TimestampRange.EndTimestamp); !end.Equal(expectedEnd) {
			t.Errorf("Expected end %v, got %v", expectedEnd, end)
		}
	})
	t.Run("UnknownKey", func(t *testing.T) {
		path := writeConfig(t, `
operation = "list"
stream_name = "test-stream"
max_result = 10
`)
		_, err := LoadConfig(path)
		if err == nil || !strings.Contains(err.Error(), "max_result") {
			t.Errorf("Expected unknown key error, got: %v", err)
		}
	})
	t.Run("NotFound", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "none.toml")); err == nil {
			t.Error("Expected error")
		}
	})
}

func TestConfigRequests(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Minute)

	testCases := map[string]struct {
		config Config
		build  func(*Config) error
		valid  bool
	}{
		"Clip": {
			Config{
				StreamName: "test-stream",
				Selector:   &SelectorConfig{Type: "SERVER_TIMESTAMP", Start: start, End: &end},
			},
			func(c *Config) error { _, err := c.ClipRequest(); return err },
			true,
		},
		"ClipWithoutSelector": {
			Config{StreamName: "test-stream"},
			func(c *Config) error { _, err := c.ClipRequest(); return err },
			false,
		},
		"DASHLive": {
			Config{
				StreamARN: "arn:aws:kinesisvideo:ap-northeast-1:123456789012:stream/test-stream/1",
				Selector:  &SelectorConfig{Type: "PRODUCER_TIMESTAMP"},
			},
			func(c *Config) error { _, err := c.DASHSessionRequest(); return err },
			true,
		},
		"DASHWithHLSOption": {
			Config{
				StreamName: "test-stream",
				Session:    SessionConfig{DiscontinuityMode: "ALWAYS"},
			},
			func(c *Config) error { _, err := c.DASHSessionRequest(); return err },
			false,
		},
		"HLSLiveReplay": {
			Config{
				StreamName: "test-stream",
				Selector:   &SelectorConfig{Type: "SERVER_TIMESTAMP", Start: start},
				Session:    SessionConfig{PlaybackMode: "LIVE_REPLAY"},
			},
			func(c *Config) error { _, err := c.HLSSessionRequest(); return err },
			true,
		},
		"Images": {
			Config{
				StreamName: "test-stream",
				Selector:   &SelectorConfig{Start: start, End: &end},
				Images: ImagesConfig{
					SelectorType:       "PRODUCER_TIMESTAMP",
					SamplingIntervalMS: 1000,
					Format:             "JPEG",
					FormatConfig:       map[string]string{"JPEGQuality": "90"},
				},
			},
			func(c *Config) error { _, err := c.ImageRequest(); return err },
			true,
		},
		"ImagesBadFormatConfig": {
			Config{
				StreamName: "test-stream",
				Selector:   &SelectorConfig{Start: start, End: &end},
				Images: ImagesConfig{
					SelectorType:       "PRODUCER_TIMESTAMP",
					SamplingIntervalMS: 1000,
					Format:             "JPEG",
					FormatConfig:       map[string]string{"Quality": "90"},
				},
			},
			func(c *Config) error { _, err := c.ImageRequest(); return err },
			false,
		},
		"ImagesWithoutRange": {
			Config{StreamName: "test-stream"},
			func(c *Config) error { _, err := c.ImageRequest(); return err },
			false,
		},
		"ListNextToken": {
			Config{StreamName: "test-stream", List: ListConfig{NextToken: "token"}},
			func(c *Config) error { _, err := c.FragmentListRequest(); return err },
			true,
		},
		"MediaEmpty": {
			Config{StreamName: "test-stream"},
			func(c *Config) error { _, err := c.MediaForFragmentListRequest(); return err },
			false,
		},
	}
	for n, c := range testCases {
		c := c
		t.Run(n, func(t *testing.T) {
			err := c.build(&c.config)
			if c.valid {
				if err != nil {
					t.Errorf("Expected to be accepted, got: %v", err)
				}
				return
			}
			if !errors.Is(err, kvarchive.ErrInvalidArgument) {
				t.Errorf("Expected %v, got: %v", kvarchive.ErrInvalidArgument, err)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	server := kvsm.NewKinesisVideoServer(kvsm.WithTimestampOrigin(0, 100))
	defer server.Close()
	for i := uint64(1); i <= 3; i++ {
		server.RegisterFragment(kvsm.FragmentTest{Cluster: kvsm.ClusterTest{Timecode: i * 1000}})
	}

	c := &Config{
		Operation:  OperationList,
		StreamName: "test-stream",
		AWS: AWSConfig{
			Region:          "ap-northeast-1",
			Endpoint:        server.URL,
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
		},
		Selector: &SelectorConfig{
			Type:  "SERVER_TIMESTAMP",
			Start: time.Unix(100, 0),
			End:   aws.Time(time.Unix(110, 0)),
		},
	}
	cfg := aws.Config{}
	c.ApplyAWS(&cfg)
	cli := archivedmedia.New(cfg)
	defer cli.Close()

	buf := &bytes.Buffer{}
	if err := execute(context.Background(), cli, c, buf); err != nil {
		t.Fatal(err)
	}
	var list kvarchive.FragmentList
	if err := json.Unmarshal(buf.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, f := range list.Fragments {
		ids = append(ids, f.FragmentNumber)
	}
	expected := []string{
		kvsm.FragmentNumberFromTimecode(1000),
		kvsm.FragmentNumberFromTimecode(2000),
		kvsm.FragmentNumberFromTimecode(3000),
	}
	if diff := cmp.Diff(expected, ids); diff != "" {
		t.Errorf("Unexpected fragments: %s", diff)
	}

	c.Operation = "unknown"
	if err := execute(context.Background(), cli, c, buf); err == nil {
		t.Error("Expected error on unknown operation")
	}
}
