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
)

// Truncation is the bounded-domain capability of mechanisms whose output is
// clamped into [lower, upper]. Truncation collapses the probability mass
// outside of the bounds onto the bounds, which biases the output near them.
//
// The zero value has no bounds; SetBounds must be called before Truncate.
type Truncation struct {
	bounds setting[Interval]
}

// SetBounds sets the bounds of t. It fails with checks.ErrAlreadySet if the
// bounds were set before, with checks.ErrInvalidType if a bound is NaN, and
// with checks.ErrInvalidRange if lower > upper. Neither bound is stored if
// SetBounds fails.
func (t *Truncation) SetBounds(lower, upper float64) error {
	return setBounds(&t.bounds, lower, upper)
}

// Bounds returns the bounds of t, and whether they are set.
func (t *Truncation) Bounds() (lower, upper float64, ok bool) {
	i, ok := t.bounds.get()
	return i.lower, i.upper, ok
}

// CheckInputs returns an error wrapping checks.ErrNotConfigured if the bounds
// are unset.
func (t *Truncation) CheckInputs() error {
	_, err := t.bounds.require(boundsName)
	return err
}

// Truncate returns upper if value > upper, lower if value < lower, and value
// otherwise.
func (t *Truncation) Truncate(value float64) (float64, error) {
	i, err := t.bounds.require(boundsName)
	if err != nil {
		return 0, err
	}
	return i.Clamp(value), nil
}

// String returns ".SetBounds(lower, upper)", or "" if the bounds are unset.
func (t *Truncation) String() string {
	return describeBounds(t.bounds)
}

func setBounds(s *setting[Interval], lower, upper float64) error {
	if _, ok := s.get(); ok {
		return alreadySet(boundsName)
	}
	i, err := NewInterval(lower, upper)
	if err != nil {
		return err
	}
	return s.set(boundsName, i, nil)
}

func describeBounds(s setting[Interval]) string {
	i, ok := s.get()
	if !ok {
		return ""
	}
	return fmt.Sprintf(".SetBounds(%v, %v)", i.lower, i.upper)
}
