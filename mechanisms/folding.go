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

// Folding is the bounded-domain capability of mechanisms whose output is
// reflected back into [lower, upper]. Unlike Truncation no probability mass
// collapses onto the bounds, so folded outputs are less biased near them.
//
// The zero value has no bounds; SetBounds must be called before Fold.
type Folding struct {
	bounds setting[Interval]
}

// SetBounds sets the bounds of f. It fails with checks.ErrAlreadySet if the
// bounds were set before, with checks.ErrInvalidType if a bound is NaN, and
// with checks.ErrInvalidRange if lower > upper. Neither bound is stored if
// SetBounds fails.
func (f *Folding) SetBounds(lower, upper float64) error {
	return setBounds(&f.bounds, lower, upper)
}

// Bounds returns the bounds of f, and whether they are set.
func (f *Folding) Bounds() (lower, upper float64, ok bool) {
	i, ok := f.bounds.get()
	return i.lower, i.upper, ok
}

// CheckInputs returns an error wrapping checks.ErrNotConfigured if the bounds
// are unset.
func (f *Folding) CheckInputs() error {
	_, err := f.bounds.require(boundsName)
	return err
}

// Fold maps value into [lower, upper] by reflecting it across the bounds. See
// Interval.Reflect.
func (f *Folding) Fold(value float64) (float64, error) {
	i, err := f.bounds.require(boundsName)
	if err != nil {
		return 0, err
	}
	return i.Reflect(value), nil
}

// String returns ".SetBounds(lower, upper)", or "" if the bounds are unset.
func (f *Folding) String() string {
	return describeBounds(f.bounds)
}
