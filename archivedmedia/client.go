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

// Package archivedmedia sends requests built by kvarchive to the
// Kinesis Video Streams archived media API.
package archivedmedia

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kinesisvideo"
	kv_types "github.com/aws/aws-sdk-go-v2/service/kinesisvideo/types"
	kvam "github.com/aws/aws-sdk-go-v2/service/kinesisvideoarchivedmedia"
	"github.com/karlseguin/ccache"

	"github.com/seqsense/kvarchive"
)

const (
	DefaultEndpointTTL       = 10 * time.Minute
	DefaultEndpointCacheSize = 1024
)

// API names passed to GetDataEndpoint.
const (
	apiNameGetClip                 = kv_types.APIName("GET_CLIP")
	apiNameGetDASHStreamingSession = kv_types.APIName("GET_DASH_STREAMING_SESSION_URL")
	apiNameGetHLSStreamingSession  = kv_types.APIName("GET_HLS_STREAMING_SESSION_URL")
	apiNameGetImages               = kv_types.APIName("GET_IMAGES")
	apiNameListFragments           = kv_types.APIName("LIST_FRAGMENTS")
	apiNameGetMediaForFragmentList = kv_types.APIName("GET_MEDIA_FOR_FRAGMENT_LIST")
)

// Client is safe for concurrent use.
type Client struct {
	cfg         aws.Config
	kv          *kinesisvideo.Client
	endpoints   *ccache.Cache
	endpointTTL time.Duration
	kvamOptFns  []func(*kvam.Options)
}

type Options struct {
	endpointTTL       time.Duration
	endpointCacheSize int64
	kvOptFns          []func(*kinesisvideo.Options)
	kvamOptFns        []func(*kvam.Options)
}

type Option func(*Options)

// WithEndpointTTL sets how long a resolved data endpoint is reused.
func WithEndpointTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.endpointTTL = ttl
	}
}

func WithEndpointCacheSize(n int64) Option {
	return func(o *Options) {
		o.endpointCacheSize = n
	}
}

// WithKinesisVideoOptions customizes the client used for GetDataEndpoint.
func WithKinesisVideoOptions(fns ...func(*kinesisvideo.Options)) Option {
	return func(o *Options) {
		o.kvOptFns = append(o.kvOptFns, fns...)
	}
}

// WithArchivedMediaOptions customizes the data endpoint clients.
// BaseEndpoint is always overwritten by the resolved data endpoint.
func WithArchivedMediaOptions(fns ...func(*kvam.Options)) Option {
	return func(o *Options) {
		o.kvamOptFns = append(o.kvamOptFns, fns...)
	}
}

func New(cfg aws.Config, opts ...Option) *Client {
	options := &Options{
		endpointTTL:       DefaultEndpointTTL,
		endpointCacheSize: DefaultEndpointCacheSize,
	}
	for _, o := range opts {
		o(options)
	}
	return &Client{
		cfg:         cfg,
		kv:          kinesisvideo.NewFromConfig(cfg, options.kvOptFns...),
		endpoints:   ccache.New(ccache.Configure().MaxSize(options.endpointCacheSize).Buckets(16)),
		endpointTTL: options.endpointTTL,
		kvamOptFns:  options.kvamOptFns,
	}
}

// Close stops the endpoint cache worker.
func (c *Client) Close() {
	c.endpoints.Stop()
}

func endpointKey(apiName kv_types.APIName, streamID kvarchive.StreamID) string {
	return fmt.Sprintf("%s|%s|%s",
		apiName, aws.ToString(streamID.StreamName()), aws.ToString(streamID.StreamARN()),
	)
}

// dataClient returns a client sending requests to the data endpoint of
// the given API and stream.
func (c *Client) dataClient(ctx context.Context, apiName kv_types.APIName, streamID kvarchive.StreamID) (*kvam.Client, error) {
	key := endpointKey(apiName, streamID)
	if item := c.endpoints.Get(key); item != nil && !item.Expired() {
		return item.Value().(*kvam.Client), nil
	}

	ep, err := c.kv.GetDataEndpoint(ctx, &kinesisvideo.GetDataEndpointInput{
		APIName:    apiName,
		StreamName: streamID.StreamName(),
		StreamARN:  streamID.StreamARN(),
	})
	if err != nil {
		return nil, fmt.Errorf("getting data endpoint of %s: %w", apiName, err)
	}
	endpoint := aws.ToString(ep.DataEndpoint)
	kvarchive.Logger().Debugf("Data endpoint of %s for %s: %s", apiName, streamID, endpoint)

	optFns := append([]func(*kvam.Options){}, c.kvamOptFns...)
	optFns = append(optFns, func(o *kvam.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	cli := kvam.NewFromConfig(c.cfg, optFns...)
	c.endpoints.Set(key, cli, c.endpointTTL)
	return cli, nil
}

// InvalidateEndpoints drops all cached data endpoints.
func (c *Client) InvalidateEndpoints() {
	c.endpoints.Clear()
}

// errNilRequest reports a nil request or a zero value request which was not
// built by its kvarchive constructor.
func errNilRequest(op string) error {
	return fmt.Errorf("%s: %w: request must be built by its constructor", op, kvarchive.ErrInvalidArgument)
}

// ClipOutput holds the MP4 clip. Payload must be closed by the caller.
type ClipOutput struct {
	ContentType string
	Payload     io.ReadCloser
}

func (c *Client) GetClip(ctx context.Context, req *kvarchive.ClipRequest) (*ClipOutput, error) {
	if req == nil || req.StreamID() == nil {
		return nil, errNilRequest("GetClip")
	}
	cli, err := c.dataClient(ctx, apiNameGetClip, req.StreamID())
	if err != nil {
		return nil, err
	}
	out, err := cli.GetClip(ctx, req.Input())
	if err != nil {
		return nil, fmt.Errorf("getting clip: %w", err)
	}
	return &ClipOutput{
		ContentType: aws.ToString(out.ContentType),
		Payload:     out.Payload,
	}, nil
}

func (c *Client) GetDASHStreamingSessionURL(ctx context.Context, req *kvarchive.DASHSessionRequest) (string, error) {
	if req == nil || req.StreamID() == nil {
		return "", errNilRequest("GetDASHStreamingSessionURL")
	}
	cli, err := c.dataClient(ctx, apiNameGetDASHStreamingSession, req.StreamID())
	if err != nil {
		return "", err
	}
	out, err := cli.GetDASHStreamingSessionURL(ctx, req.Input())
	if err != nil {
		return "", fmt.Errorf("getting DASH streaming session URL: %w", err)
	}
	return aws.ToString(out.DASHStreamingSessionURL), nil
}

func (c *Client) GetHLSStreamingSessionURL(ctx context.Context, req *kvarchive.HLSSessionRequest) (string, error) {
	if req == nil || req.StreamID() == nil {
		return "", errNilRequest("GetHLSStreamingSessionURL")
	}
	cli, err := c.dataClient(ctx, apiNameGetHLSStreamingSession, req.StreamID())
	if err != nil {
		return "", err
	}
	out, err := cli.GetHLSStreamingSessionURL(ctx, req.Input())
	if err != nil {
		return "", fmt.Errorf("getting HLS streaming session URL: %w", err)
	}
	return aws.ToString(out.HLSStreamingSessionURL), nil
}

// GetImages returns one page of images.
// Use the returned NextToken with ImageRequest.WithNextToken to continue.
func (c *Client) GetImages(ctx context.Context, req *kvarchive.ImageRequest) (*kvarchive.ImageList, error) {
	if req == nil || req.StreamID() == nil {
		return nil, errNilRequest("GetImages")
	}
	cli, err := c.dataClient(ctx, apiNameGetImages, req.StreamID())
	if err != nil {
		return nil, err
	}
	out, err := cli.GetImages(ctx, req.Input())
	if err != nil {
		return nil, fmt.Errorf("getting images: %w", err)
	}
	ret := &kvarchive.ImageList{NextToken: out.NextToken}
	for _, img := range out.Images {
		ret.Images = append(ret.Images, kvarchive.ImageFromSDK(img))
	}
	return ret, nil
}

// GetAllImages follows NextToken until all images in the range are fetched.
func (c *Client) GetAllImages(ctx context.Context, req *kvarchive.ImageRequest) ([]kvarchive.Image, error) {
	if req == nil || req.StreamID() == nil {
		return nil, errNilRequest("GetAllImages")
	}
	cli, err := c.dataClient(ctx, apiNameGetImages, req.StreamID())
	if err != nil {
		return nil, err
	}
	var images []kvarchive.Image
	p := kvam.NewGetImagesPaginator(cli, req.Input())
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting images: %w", err)
		}
		for _, img := range out.Images {
			images = append(images, kvarchive.ImageFromSDK(img))
		}
	}
	return images, nil
}

// ListFragments returns one page of fragments sorted by fragment number.
func (c *Client) ListFragments(ctx context.Context, req *kvarchive.FragmentListRequest) (*ListFragmentsOutput, error) {
	if req == nil || req.StreamID() == nil {
		return nil, errNilRequest("ListFragments")
	}
	cli, err := c.dataClient(ctx, apiNameListFragments, req.StreamID())
	if err != nil {
		return nil, err
	}
	out, err := cli.ListFragments(ctx, req.Input())
	if err != nil {
		return nil, fmt.Errorf("listing fragments: %w", err)
	}

	/*
	 * Sort fragments because they are not sorted.
	 * see: https://docs.aws.amazon.com/kinesisvideostreams/latest/dg/API_reader_ListFragments.html#API_reader_ListFragments_ResponseElements
	 *  > Results are in no specific order, even across pages.
	 */
	ret := &ListFragmentsOutput{&kvarchive.FragmentList{NextToken: out.NextToken}}
	for _, f := range out.Fragments {
		ret.Fragments = append(ret.Fragments, kvarchive.FragmentFromSDK(f))
	}
	ret.SortByFragmentNumber()
	return ret, nil
}

// ListAllFragments collects every page and sorts the result by fragment number.
func (c *Client) ListAllFragments(ctx context.Context, req *kvarchive.FragmentListRequest) (*ListFragmentsOutput, error) {
	if req == nil || req.StreamID() == nil {
		return nil, errNilRequest("ListAllFragments")
	}
	cli, err := c.dataClient(ctx, apiNameListFragments, req.StreamID())
	if err != nil {
		return nil, err
	}
	ret := &ListFragmentsOutput{&kvarchive.FragmentList{}}
	p := kvam.NewListFragmentsPaginator(cli, req.Input())
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing fragments: %w", err)
		}
		for _, f := range out.Fragments {
			ret.Fragments = append(ret.Fragments, kvarchive.FragmentFromSDK(f))
		}
	}
	ret.SortByFragmentNumber()
	return ret, nil
}
