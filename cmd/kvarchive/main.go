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

// Command kvarchive runs one archived media request described by a TOML file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/sirupsen/logrus"

	"github.com/seqsense/kvarchive"
	"github.com/seqsense/kvarchive/archivedmedia"
)

func main() {
	configPath := flag.String("config", "request.toml", "request file path")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	verbose := flag.Bool("v", false, "enable debug log")
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	kvarchive.SetLogger(log)

	if err := run(*configPath, *timeout, os.Stdout); err != nil {
		log.Error(err)
		if code := kvarchive.ErrorCodeOf(err); code != "" {
			log.Errorf("service error: %s", code)
		}
		os.Exit(1)
	}
}

func run(configPath string, timeout time.Duration, w io.Writer) error {
	c, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("cannot load AWS config: %w", err)
	}
	c.ApplyAWS(&cfg)

	cli := archivedmedia.New(cfg)
	defer cli.Close()

	kvarchive.Logger().Infof("Running %s on %s", c.Operation, c.streamID())
	return execute(ctx, cli, c, w)
}

func execute(ctx context.Context, cli *archivedmedia.Client, c *Config, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	switch c.Operation {
	case OperationClip:
		req, err := c.ClipRequest()
		if err != nil {
			return err
		}
		out, err := cli.GetClip(ctx, req)
		if err != nil {
			return err
		}
		defer out.Payload.Close()
		return writePayload(c.Output, w, out.Payload)

	case OperationDASH:
		req, err := c.DASHSessionRequest()
		if err != nil {
			return err
		}
		url, err := cli.GetDASHStreamingSessionURL(ctx, req)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, url)
		return err

	case OperationHLS:
		req, err := c.HLSSessionRequest()
		if err != nil {
			return err
		}
		url, err := cli.GetHLSStreamingSessionURL(ctx, req)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, url)
		return err

	case OperationImages:
		req, err := c.ImageRequest()
		if err != nil {
			return err
		}
		images, err := cli.GetAllImages(ctx, req)
		if err != nil {
			return err
		}
		return enc.Encode(&kvarchive.ImageList{Images: images})

	case OperationList:
		req, err := c.FragmentListRequest()
		if err != nil {
			return err
		}
		list, err := cli.ListAllFragments(ctx, req)
		if err != nil {
			return err
		}
		return enc.Encode(list.FragmentList)

	case OperationMedia:
		req, err := c.MediaForFragmentListRequest()
		if err != nil {
			return err
		}
		var summaries []fragmentSummary
		err = cli.GetMediaForFragmentList(ctx, req,
			func(f archivedmedia.Fragment) {
				summaries = append(summaries, summarize(f))
			},
			func(err error) {
				kvarchive.Logger().Warn(err)
			},
		)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			// ebml-go returns unexpected EOF at the end of HTTP response body.
			// https://github.com/at-wat/ebml-go/issues/193
			return err
		}
		return enc.Encode(summaries)

	default:
		return fmt.Errorf("unknown operation %q", c.Operation)
	}
}

type fragmentSummary struct {
	FragmentNumber    string
	ProducerTimestamp string
	ServerTimestamp   string
	Blocks            int
	Bytes             int
}

func summarize(f archivedmedia.Fragment) fragmentSummary {
	s := fragmentSummary{Blocks: len(f)}
	if m := f[0].FragmentMetadata; m != nil {
		s.FragmentNumber = m.FragmentNumber
		s.ProducerTimestamp = kvarchive.ToTimestamp(m.ProducerTimestamp)
		s.ServerTimestamp = kvarchive.ToTimestamp(m.ServerTimestamp)
	}
	for _, b := range f {
		for _, d := range b.Block.Data {
			s.Bytes += len(d)
		}
	}
	return s
}

func writePayload(path string, w io.Writer, r io.Reader) error {
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	n, err := io.Copy(w, r)
	if err != nil {
		return err
	}
	kvarchive.Logger().Infof("Wrote %d bytes", n)
	return nil
}
