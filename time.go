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
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxTimestampRange is the longest span a clip or session range may cover.
const MaxTimestampRange = 24 * time.Hour

// ToTimestamp formats t as epoch seconds with millisecond precision.
// Sub-millisecond digits are truncated towards the past.
func ToTimestamp(t time.Time) string {
	ms := t.UnixMilli()
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	if millis := ms % 1000; millis > 0 {
		return fmt.Sprintf("%s%d.%03d", sign, ms/1000, millis)
	}
	return fmt.Sprintf("%s%d", sign, ms/1000)
}

func ParseTimestamp(timestamp string) (time.Time, error) {
	secNano := strings.Split(timestamp, ".")
	if len(secNano) != 1 && len(secNano) != 2 {
		return time.Time{}, fmt.Errorf("failed to parse timestamp: %s", timestamp)
	}
	seconds, err := strconv.ParseInt(secNano[0], 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	if len(secNano) == 1 {
		return time.Unix(seconds, 0), nil
	}
	nanoSec, err := strconv.ParseUint((secNano[1] + "000000000")[:9], 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	if strings.HasPrefix(secNano[0], "-") {
		return time.Unix(seconds, -int64(nanoSec)), nil
	}
	return time.Unix(seconds, int64(nanoSec)), nil
}

// TimestampRange is a time window with a required start and an optional end.
type TimestampRange struct {
	start  time.Time
	end    time.Time
	hasEnd bool
}

func NewTimestampRange(start, end time.Time) TimestampRange {
	return TimestampRange{start: start, end: end, hasEnd: true}
}

// NewOpenTimestampRange returns a range without end.
// Only LIVE_REPLAY sessions accept it.
func NewOpenTimestampRange(start time.Time) TimestampRange {
	return TimestampRange{start: start}
}

func (r TimestampRange) Start() time.Time {
	return r.start
}

func (r TimestampRange) End() (time.Time, bool) {
	return r.end, r.hasEnd
}

// Validate checks end > start and end - start <= MaxTimestampRange.
// An open range only needs a start.
func (r TimestampRange) Validate() error {
	return r.validate("TimestampRange")
}

func (r TimestampRange) validate(field string) error {
	if r.start.IsZero() {
		return argErrorf(field+".StartTimestamp", "must be specified")
	}
	if !r.hasEnd {
		return nil
	}
	if !r.end.After(r.start) {
		return argErrorf(field+".EndTimestamp", "must be later than start timestamp (start:%s end:%s)", ToTimestamp(r.start), ToTimestamp(r.end))
	}
	if d := r.end.Sub(r.start); d > MaxTimestampRange {
		return argErrorf(field, "range %v exceeds %v", d, MaxTimestampRange)
	}
	return nil
}

// FragmentSelector selects fragments by a timestamp type and range.
type FragmentSelector struct {
	typ FragmentSelectorType
	rng *TimestampRange
}

func NewFragmentSelector(typ FragmentSelectorType, r TimestampRange) FragmentSelector {
	return FragmentSelector{typ: typ, rng: &r}
}

// NewFragmentSelectorType returns a selector without range.
// It is only accepted by LIVE sessions.
func NewFragmentSelectorType(typ FragmentSelectorType) FragmentSelector {
	return FragmentSelector{typ: typ}
}

func (s FragmentSelector) Type() FragmentSelectorType {
	return s.typ
}

func (s FragmentSelector) Range() (TimestampRange, bool) {
	if s.rng == nil {
		return TimestampRange{}, false
	}
	return *s.rng, true
}

func (s FragmentSelector) validateType(field string) error {
	if !oneOf(s.typ, s.typ.Values()) {
		return argErrorf(field+".FragmentSelectorType", "unknown value %q", s.typ)
	}
	return nil
}

// validateClosed requires a type and a range with both ends.
func (s FragmentSelector) validateClosed(field string) error {
	var errs multiError
	errs.Add(s.validateType(field))
	switch {
	case s.rng == nil:
		errs.Add(argErrorf(field+".TimestampRange", "must be specified"))
	case !s.rng.hasEnd:
		errs.Add(argErrorf(field+".TimestampRange.EndTimestamp", "must be specified"))
	default:
		errs.Add(s.rng.validate(field + ".TimestampRange"))
	}
	return errs.Err()
}
