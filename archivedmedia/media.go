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
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/at-wat/ebml-go"

	"github.com/seqsense/kvarchive"
)

// FragmentError is reported when the service failed to read a fragment
// and marked it with exception tags.
type FragmentError struct {
	FragmentNumber string
	Code           string
	Message        string
}

func (e *FragmentError) Error() string {
	return fmt.Sprintf("fragmentNumber:%s code:%s message:%s", e.FragmentNumber, e.Code, e.Message)
}

func (c *Client) getMediaForFragmentList(ctx context.Context, req *kvarchive.MediaForFragmentListRequest) (io.ReadCloser, error) {
	cli, err := c.dataClient(ctx, apiNameGetMediaForFragmentList, req.StreamID())
	if err != nil {
		return nil, err
	}
	out, err := cli.GetMediaForFragmentList(ctx, req.Input())
	if err != nil {
		return nil, fmt.Errorf("getting media for fragment list: %w", err)
	}
	return out.Payload, nil
}

// GetMediaForFragmentList calls handler for each fragment in the payload.
// Fragments are delimited by the fragment number tag written by the service.
// Timestamp parse failures and fragment exceptions are passed to errHandler
// and do not stop the stream.
func (c *Client) GetMediaForFragmentList(ctx context.Context, req *kvarchive.MediaForFragmentListRequest, handler func(Fragment), errHandler func(error)) error {
	if req == nil || req.StreamID() == nil {
		return errNilRequest("GetMediaForFragmentList")
	}
	payload, err := c.getMediaForFragmentList(ctx, req)
	if err != nil {
		return err
	}
	defer payload.Close()

	chBlock := make(chan ebml.Block)
	chTimecode := make(chan uint64)
	chTag := make(chan *Tag)
	var fragment Fragment
	done := sync.WaitGroup{}
	done.Add(1)
	go func() {
		defer func() {
			if len(fragment) > 0 {
				handler(fragment)
			}
			done.Done()
		}()

		var metadata *FragmentMetadata
		var baseTimecode uint64
		for {
			select {
			case tag := <-chTag:
				if len(tag.SimpleTag) == 0 {
					continue
				}
				if tag.SimpleTag[0].TagName != TagNameFragmentNumber {
					if metadata == nil {
						kvarchive.Logger().Warnf("Custom tag before fragment number is ignored: %s", tag.SimpleTag[0].TagName)
						continue
					}
					if metadata.Tags == nil {
						metadata.Tags = make(map[string]SimpleTag)
					}
					for _, t := range tag.SimpleTag {
						metadata.Tags[t.TagName] = t
					}
					continue
				}

				// start new fragment
				if len(fragment) > 0 {
					handler(fragment)
				}
				fragment = nil

				var fragErr *FragmentError
				metadata, fragErr = parseFragmentTag(tag, errHandler)
				if fragErr != nil {
					kvarchive.Logger().Warnf("Fragment exception: %v", fragErr)
					errHandler(fragErr)
				}
			case baseTimecode = <-chTimecode:
			case block, ok := <-chBlock:
				if !ok {
					return
				}
				fragment = append(fragment, &BlockWithMetadata{
					FragmentMetadata: metadata,
					BlockWithBaseTimecode: &BlockWithBaseTimecode{
						Timecode: baseTimecode,
						Block:    block,
					},
				})
			}
		}
	}()

	data := &Container{}
	data.Segment.Cluster.Timecode = chTimecode
	data.Segment.Cluster.SimpleBlock = chBlock
	data.Segment.Tags.Tag = chTag
	errUnmarshal := ebml.Unmarshal(payload, data)
	close(chBlock)
	done.Wait()
	if errUnmarshal != nil {
		return fmt.Errorf("decoding media: %w", errUnmarshal)
	}
	return nil
}

func parseFragmentTag(tag *Tag, errHandler func(error)) (*FragmentMetadata, *FragmentError) {
	metadata := &FragmentMetadata{}
	var fragErr *FragmentError
	for _, t := range tag.SimpleTag {
		switch t.TagName {
		case TagNameFragmentNumber:
			metadata.FragmentNumber = t.TagString
		case TagNameServerTimestamp:
			ts, err := kvarchive.ParseTimestamp(t.TagString)
			if err != nil {
				errHandler(fmt.Errorf("failed to parse server timestamp (%s): %w", t.TagString, err))
			}
			metadata.ServerTimestamp = ts
		case TagNameProducerTimestamp:
			ts, err := kvarchive.ParseTimestamp(t.TagString)
			if err != nil {
				errHandler(fmt.Errorf("failed to parse producer timestamp (%s): %w", t.TagString, err))
			}
			metadata.ProducerTimestamp = ts
		case TagNameExceptionErrorCode:
			if fragErr == nil {
				fragErr = &FragmentError{}
			}
			fragErr.Code = t.TagString
		case TagNameExceptionMessage:
			if fragErr == nil {
				fragErr = &FragmentError{}
			}
			fragErr.Message = t.TagString
		}
	}
	if fragErr != nil {
		fragErr.FragmentNumber = metadata.FragmentNumber
	}
	return metadata, fragErr
}

// BlockReader reads the media blocks of a GetMediaForFragmentList payload
// as a stream.
type BlockReader interface {
	// Read returns media block.
	Read() (*BlockWithBaseTimecode, error)
	// ReadTag returns stored tag.
	ReadTag() (*Tag, error)
	// Close the payload and returns the decoding error if any.
	Close() error
}

type blockReader struct {
	fnRead    func() (*BlockWithBaseTimecode, error)
	fnReadTag func() (*Tag, error)
	fnClose   func() error
}

func (r *blockReader) Read() (*BlockWithBaseTimecode, error) {
	return r.fnRead()
}

func (r *blockReader) ReadTag() (*Tag, error) {
	return r.fnReadTag()
}

func (r *blockReader) Close() error {
	return r.fnClose()
}

type ReadMediaOptions struct {
	lenTagBuffer   int
	lenBlockBuffer int
}

type ReadMediaOption func(*ReadMediaOptions)

func WithBlockBufferLen(n int) ReadMediaOption {
	return func(options *ReadMediaOptions) {
		options.lenBlockBuffer = n
	}
}

func WithTagBufferLen(n int) ReadMediaOption {
	return func(options *ReadMediaOptions) {
		options.lenTagBuffer = n
	}
}

// ReadMediaForFragmentList requests the fragments and immediately returns
// BlockReader.
// Both BlockReader.Read() and BlockReader.ReadTag() must be called until getting
// io.EOF as error, otherwise the decoder will be blocked after the buffer is filled.
// Close discards the unread blocks and tags.
func (c *Client) ReadMediaForFragmentList(ctx context.Context, req *kvarchive.MediaForFragmentListRequest, opts ...ReadMediaOption) (BlockReader, error) {
	if req == nil || req.StreamID() == nil {
		return nil, errNilRequest("ReadMediaForFragmentList")
	}
	options := &ReadMediaOptions{}
	for _, o := range opts {
		o(options)
	}

	ctx, cancel := context.WithCancel(ctx)
	payload, err := c.getMediaForFragmentList(ctx, req)
	if err != nil {
		cancel()
		return nil, err
	}

	ch := make(chan *BlockWithBaseTimecode, options.lenBlockBuffer)
	chTag := make(chan *Tag, options.lenTagBuffer)
	chBlock := make(chan ebml.Block)
	chTimecode := make(chan uint64)
	go func() {
		defer close(ch)
		var baseTime uint64
		for {
			select {
			case baseTime = <-chTimecode:
			case b, ok := <-chBlock:
				if !ok {
					return
				}
				ch <- &BlockWithBaseTimecode{
					Timecode: baseTime,
					Block:    b,
				}
			}
		}
	}()

	data := &Container{}
	data.Segment.Cluster.Timecode = chTimecode
	data.Segment.Cluster.SimpleBlock = chBlock
	data.Segment.Tags.Tag = chTag

	var errUnmarshal error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer func() {
			close(chBlock)
			close(chTag)
			payload.Close()
			wg.Done()
		}()
		errUnmarshal = ebml.Unmarshal(payload, data)
	}()

	return &blockReader{
		fnRead: func() (*BlockWithBaseTimecode, error) {
			b, ok := <-ch
			if !ok {
				return nil, io.EOF
			}
			return b, nil
		},
		fnReadTag: func() (*Tag, error) {
			t, ok := <-chTag
			if !ok {
				return nil, io.EOF
			}
			return t, nil
		},
		fnClose: func() error {
			cancel()
			// Unread blocks and tags stop the decoder from reaching the end.
			go func() {
				for range chTag {
				}
			}()
			for range ch {
			}
			wg.Wait()
			return errUnmarshal
		},
	}, nil
}
