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
	"math"

	"github.com/dpmechanisms/go/checks"
	"github.com/dpmechanisms/go/noise"
)

var geometricNoise = noise.ToNoise(noise.GeometricNoise)

// Geometric is the geometric mechanism on integer values, the discrete
// counterpart of Laplace. It adds two-sided geometric noise with
// Pr[k] ∝ exp(-ε'|k|/sensitivity), where ε' = ε - ln(1-δ).
type Geometric struct {
	Privacy
	sensitivity setting[int64]
}

// GeometricOptions contains the options necessary to initialize a Geometric.
type GeometricOptions struct {
	Epsilon     float64 // Privacy parameter ε. Required.
	Delta       float64 // Privacy parameter δ. Left unset if 0.
	Sensitivity int64   // Largest change of a value caused by a single record. 0 disables the noise.
}

// NewGeometric returns a Geometric configured with opt.
func NewGeometric(opt *GeometricOptions) (*Geometric, error) {
	if opt == nil {
		opt = &GeometricOptions{}
	}
	g := &Geometric{}
	if err := setPrivacy(g, opt.Epsilon, opt.Delta); err != nil {
		return nil, err
	}
	if err := g.SetSensitivity(opt.Sensitivity); err != nil {
		return nil, err
	}
	return g, nil
}

// SetEpsilon sets ε. Besides failing like Privacy.SetEpsilon, it fails with
// checks.ErrInvalidParameter if ε < 2^-50, the smallest ε the geometric
// sampler supports.
func (g *Geometric) SetEpsilon(epsilon float64) error {
	return g.setEpsilonVeryStrict(epsilon)
}

// SetEpsilonDelta sets ε as SetEpsilon does, then sets δ as
// Privacy.SetEpsilonDelta does.
func (g *Geometric) SetEpsilonDelta(epsilon, delta float64) error {
	if err := g.SetEpsilon(epsilon); err != nil {
		return err
	}
	return g.setDelta(delta)
}

// SetSensitivity sets the sensitivity of the values passed to Randomise. It
// fails with checks.ErrAlreadySet if the sensitivity was set before, and with
// checks.ErrInvalidParameter if it is negative.
func (g *Geometric) SetSensitivity(sensitivity int64) error {
	return g.sensitivity.set(sensitivityName, sensitivity, func(s int64) error {
		return checks.CheckSensitivityInt64(s)
	})
}

// Sensitivity returns the sensitivity, and whether it is set.
func (g *Geometric) Sensitivity() (int64, bool) {
	return g.sensitivity.get()
}

// CheckInputs returns an error if ε or the sensitivity is unset, or if
// ε - ln(1-δ) < 2^-50.
func (g *Geometric) CheckInputs(int64) error {
	if err := g.Privacy.CheckInputs(); err != nil {
		return err
	}
	if err := checkEffectiveEpsilon(g.effectiveEpsilon()); err != nil {
		return err
	}
	_, err := g.sensitivity.require(sensitivityName)
	return err
}

func (g *Geometric) effectiveEpsilon() float64 {
	epsilon, _ := g.Epsilon()
	return epsilon - math.Log1p(-g.deltaOrZero())
}

func (g *Geometric) noiseless() bool {
	sensitivity, _ := g.sensitivity.get()
	return sensitivity == 0 || math.IsInf(g.effectiveEpsilon(), 1)
}

// Randomise returns value with two-sided geometric noise added.
func (g *Geometric) Randomise(value int64) (int64, error) {
	if err := g.CheckInputs(value); err != nil {
		return 0, err
	}
	if g.noiseless() {
		return value, nil
	}
	sensitivity, _ := g.sensitivity.get()
	return geometricNoise.AddNoiseInt64(value, sensitivity, g.effectiveEpsilon(), 0)
}

// Bias is 0.
func (g *Geometric) Bias(value int64) (float64, bool) {
	if g.CheckInputs(value) != nil {
		return 0, false
	}
	return 0, true
}

// Variance is 2p/(1-p)² with p = exp(-ε'/sensitivity).
func (g *Geometric) Variance(value int64) (float64, bool) {
	if g.CheckInputs(value) != nil {
		return 0, false
	}
	if g.noiseless() {
		return 0, true
	}
	sensitivity, _ := g.sensitivity.get()
	variance, err := geometricNoise.Variance(float64(sensitivity), g.effectiveEpsilon(), 0)
	if err != nil {
		return 0, false
	}
	return variance, true
}

func (g *Geometric) String() string {
	return g.describe("Geometric")
}

func (g *Geometric) describe(name string) string {
	b := g.Privacy.describe(name)
	describeSetting(b, "SetSensitivity", g.sensitivity)
	return b.String()
}

// GeometricTruncated is the geometric mechanism with its output truncated to
// the integer interval [lower, upper].
type GeometricTruncated struct {
	Geometric
	Truncation
}

// GeometricTruncatedOptions contains the options necessary to initialize a
// GeometricTruncated.
type GeometricTruncatedOptions struct {
	Epsilon     float64 // Privacy parameter ε. Required.
	Delta       float64 // Privacy parameter δ. Left unset if 0.
	Sensitivity int64   // Largest change of a value caused by a single record. 0 disables the noise.
	Lower       int64   // Lower bound of the output, within [-2^53, 2^53].
	Upper       int64   // Upper bound of the output, within [-2^53, 2^53].
}

// NewGeometricTruncated returns a GeometricTruncated configured with opt.
func NewGeometricTruncated(opt *GeometricTruncatedOptions) (*GeometricTruncated, error) {
	if opt == nil {
		opt = &GeometricTruncatedOptions{}
	}
	g := &GeometricTruncated{}
	if err := setPrivacy(g, opt.Epsilon, opt.Delta); err != nil {
		return nil, err
	}
	if err := g.SetSensitivity(opt.Sensitivity); err != nil {
		return nil, err
	}
	if err := g.SetBounds(opt.Lower, opt.Upper); err != nil {
		return nil, err
	}
	return g, nil
}

// SetBounds sets the bounds of the output. It fails with checks.ErrAlreadySet
// if the bounds were set before, and with checks.ErrInvalidRange if
// lower > upper or a bound lies outside of [-2^53, 2^53].
func (g *GeometricTruncated) SetBounds(lower, upper int64) error {
	if _, _, ok := g.Truncation.Bounds(); ok {
		return alreadySet(boundsName)
	}
	if err := checks.CheckBoundsInt64(lower, upper); err != nil {
		return err
	}
	return g.Truncation.SetBounds(float64(lower), float64(upper))
}

// Bounds returns the bounds of the output, and whether they are set.
func (g *GeometricTruncated) Bounds() (lower, upper int64, ok bool) {
	l, u, ok := g.Truncation.Bounds()
	return int64(l), int64(u), ok
}

// CheckInputs returns an error if ε, the sensitivity or the bounds are unset.
func (g *GeometricTruncated) CheckInputs(value int64) error {
	if err := g.Geometric.CheckInputs(value); err != nil {
		return err
	}
	return g.Truncation.CheckInputs()
}

// Randomise returns value with two-sided geometric noise added, truncated to
// the bounds.
func (g *GeometricTruncated) Randomise(value int64) (int64, error) {
	if err := g.CheckInputs(value); err != nil {
		return 0, err
	}
	noised, err := g.Geometric.Randomise(value)
	if err != nil {
		return 0, err
	}
	// Bounds are exact in float64, so the conversions are lossless whenever
	// noised lies within them.
	truncated, err := g.Truncate(float64(noised))
	if err != nil {
		return 0, err
	}
	return int64(truncated), nil
}

// Bias is undefined.
func (g *GeometricTruncated) Bias(int64) (float64, bool) {
	return 0, false
}

// Variance is undefined.
func (g *GeometricTruncated) Variance(int64) (float64, bool) {
	return 0, false
}

func (g *GeometricTruncated) String() string {
	return g.Geometric.describe("GeometricTruncated") + g.Truncation.String()
}
