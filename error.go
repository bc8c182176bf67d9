// Copyright 2021 SEQSENSE, Inc.
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
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// ErrInvalidArgument is matched by every validation failure returned from
// the request builders.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError describes a single rejected field.
type ArgumentError struct {
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s: %s", e.Field, e.Reason)
}

func (e *ArgumentError) Is(err error) bool {
	return err == ErrInvalidArgument
}

func argErrorf(field, format string, args ...interface{}) error {
	return &ArgumentError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

type multiError []error

func (me multiError) Error() string {
	if len(me) == 1 {
		return me[0].Error()
	}
	var errs []string
	for _, e := range me {
		errs = append(errs, "'"+e.Error()+"'")
	}
	return "multiple errors: " + strings.Join(errs, " ")
}

func (me multiError) Is(err error) bool {
	for _, e := range me {
		if errors.Is(e, err) {
			return true
		}
	}
	return false
}

func (me multiError) As(target interface{}) bool {
	for _, e := range me {
		if errors.As(e, target) {
			return true
		}
	}
	return false
}

func (me *multiError) Add(err error) {
	if err == nil {
		return
	}
	if m, ok := err.(multiError); ok {
		*me = append(*me, m...)
		return
	}
	*me = append(*me, err)
}

// Err returns nil if no error was added.
func (me multiError) Err() error {
	if len(me) == 0 {
		return nil
	}
	return me
}

// ErrorCode is the kind of a fault reported by the service.
type ErrorCode string

const (
	ErrorCodeUnknown                    ErrorCode = "Unknown"
	ErrorCodeClientLimitExceeded        ErrorCode = "ClientLimitExceeded"
	ErrorCodeInvalidArgument            ErrorCode = "InvalidArgument"
	ErrorCodeInvalidCodecPrivateData    ErrorCode = "InvalidCodecPrivateData"
	ErrorCodeInvalidMediaFrame          ErrorCode = "InvalidMediaFrame"
	ErrorCodeMissingCodecPrivateData    ErrorCode = "MissingCodecPrivateData"
	ErrorCodeNoDataRetention            ErrorCode = "NoDataRetention"
	ErrorCodeNotAuthorized              ErrorCode = "NotAuthorized"
	ErrorCodeResourceNotFound           ErrorCode = "ResourceNotFound"
	ErrorCodeUnsupportedStreamMediaType ErrorCode = "UnsupportedStreamMediaType"
)

var serviceErrorCodes = map[string]ErrorCode{
	"ClientLimitExceededException":        ErrorCodeClientLimitExceeded,
	"InvalidArgumentException":            ErrorCodeInvalidArgument,
	"InvalidCodecPrivateDataException":    ErrorCodeInvalidCodecPrivateData,
	"InvalidMediaFrameException":          ErrorCodeInvalidMediaFrame,
	"MissingCodecPrivateDataException":    ErrorCodeMissingCodecPrivateData,
	"NoDataRetentionException":            ErrorCodeNoDataRetention,
	"NotAuthorizedException":              ErrorCodeNotAuthorized,
	"ResourceNotFoundException":           ErrorCodeResourceNotFound,
	"UnsupportedStreamMediaTypeException": ErrorCodeUnsupportedStreamMediaType,
}

// ErrorCodeOf classifies an error returned by the service.
// It returns an empty code if err does not carry a service error.
func ErrorCodeOf(err error) ErrorCode {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return ""
	}
	if code, ok := serviceErrorCodes[apiErr.ErrorCode()]; ok {
		return code
	}
	return ErrorCodeUnknown
}
