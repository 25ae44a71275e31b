//
// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package mechanisms

import (
	"fmt"
	"math"

	"github.com/dpmechanisms/go/checks"
)

// Interval is a closed interval [lower, upper] with lower <= upper. Either
// bound may be infinite. The zero Interval is [0, 0].
type Interval struct {
	lower, upper float64
}

// NewInterval returns the interval [lower, upper]. It fails with
// checks.ErrInvalidType if a bound is NaN, and with checks.ErrInvalidRange if
// lower > upper.
func NewInterval(lower, upper float64) (Interval, error) {
	if err := checks.CheckBoundsFloat64(lower, upper); err != nil {
		return Interval{}, err
	}
	return Interval{lower: lower, upper: upper}, nil
}

// Lower returns the lower bound of i.
func (i Interval) Lower() float64 { return i.lower }

// Upper returns the upper bound of i.
func (i Interval) Upper() float64 { return i.upper }

// Width returns upper - lower.
func (i Interval) Width() float64 { return i.upper - i.lower }

// Contains reports whether lower <= value <= upper.
func (i Interval) Contains(value float64) bool {
	return i.lower <= value && value <= i.upper
}

// Clamp returns upper if value > upper, lower if value < lower, and value
// otherwise.
func (i Interval) Clamp(value float64) float64 {
	if value > i.upper {
		return i.upper
	}
	if value < i.lower {
		return i.lower
	}
	return value
}

// Reflect maps value into i by repeatedly mirroring it across the bound it
// lies beyond, until it lies within i. The result is computed in closed form
// as a triangle wave of period 2·Width, so the cost does not depend on how
// far value lies outside of i.
//
// Values inside i are returned unchanged. A degenerate interval maps every
// value to its single point. On a half-infinite interval a value is mirrored
// once across the finite bound. Reflect returns NaN for NaN, and for ±∞ if
// both bounds are finite and distinct.
func (i Interval) Reflect(value float64) float64 {
	if i.Contains(value) || math.IsNaN(value) {
		return value
	}
	width := i.Width()
	if width == 0 {
		return i.lower
	}
	halfInfinite := math.IsInf(i.lower, -1) || math.IsInf(i.upper, 1)
	if !halfInfinite && math.IsInf(value, 0) {
		return math.NaN()
	}
	if halfInfinite || math.IsInf(width, 1) {
		// A single reflection lands inside: across the lower bound when value is
		// below it, across the upper bound otherwise.
		if value < i.lower {
			return i.Clamp(i.lower + (i.lower - value))
		}
		return i.Clamp(i.upper - (value - i.upper))
	}

	period := 2 * width
	offset := math.Mod(value-i.lower, period)
	if offset < 0 {
		offset += period
	}
	if offset > width {
		offset = period - offset
	}
	// Rounding in the modulo may push the result past a bound by one ulp.
	return i.Clamp(i.lower + offset)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%v, %v]", i.lower, i.upper)
}
