// Copyright 2020 SEQSENSE, Inc.
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
	"sync/atomic"
)

// LoggerIF is satisfied by *logrus.Logger and *logrus.Entry.
type LoggerIF interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

type loggerHolder struct {
	LoggerIF
}

var logger atomic.Value // loggerHolder

func init() {
	SetLogger(nil)
}

// SetLogger replaces the package logger used by the transport layer.
// nil discards all output.
func SetLogger(l LoggerIF) {
	if l == nil {
		l = noopLogger{}
	}
	logger.Store(loggerHolder{l})
}

func Logger() LoggerIF {
	return logger.Load().(loggerHolder).LoggerIF
}

type noopLogger struct{}

func (noopLogger) Debug(args ...interface{})                 {}
func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Info(args ...interface{})                  {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Warn(args ...interface{})                  {}
func (noopLogger) Warnf(format string, args ...interface{})  {}
func (noopLogger) Error(args ...interface{})                 {}
func (noopLogger) Errorf(format string, args ...interface{}) {}
