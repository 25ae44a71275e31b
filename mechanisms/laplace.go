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

var laplaceNoise = noise.ToNoise(noise.LaplaceNoise)

// Laplace is the Laplace mechanism on real values. It adds Laplace noise of
// scale b = sensitivity / (ε - ln(1-δ)), so its output is unbiased with
// variance 2b².
type Laplace struct {
	Privacy
	sensitivity setting[float64]
}

// LaplaceOptions contains the options necessary to initialize a Laplace.
type LaplaceOptions struct {
	Epsilon     float64 // Privacy parameter ε. Required.
	Delta       float64 // Privacy parameter δ. Left unset if 0.
	Sensitivity float64 // Largest change of a value caused by a single record. 0 disables the noise.
}

// NewLaplace returns a Laplace configured with opt.
func NewLaplace(opt *LaplaceOptions) (*Laplace, error) {
	if opt == nil {
		opt = &LaplaceOptions{}
	}
	l := &Laplace{}
	if err := setPrivacy(l, opt.Epsilon, opt.Delta); err != nil {
		return nil, err
	}
	if err := l.SetSensitivity(opt.Sensitivity); err != nil {
		return nil, err
	}
	return l, nil
}

// SetEpsilon sets ε. Besides failing like Privacy.SetEpsilon, it fails with
// checks.ErrInvalidParameter if ε < 2^-50, the smallest ε the secure Laplace
// sampler supports.
func (l *Laplace) SetEpsilon(epsilon float64) error {
	return l.setEpsilonVeryStrict(epsilon)
}

// SetEpsilonDelta sets ε as SetEpsilon does, then sets δ as
// Privacy.SetEpsilonDelta does.
func (l *Laplace) SetEpsilonDelta(epsilon, delta float64) error {
	if err := l.SetEpsilon(epsilon); err != nil {
		return err
	}
	return l.setDelta(delta)
}

// SetSensitivity sets the sensitivity of the values passed to Randomise. It
// fails with checks.ErrAlreadySet if the sensitivity was set before, and with
// checks.ErrInvalidParameter if it is negative or not finite.
func (l *Laplace) SetSensitivity(sensitivity float64) error {
	return l.sensitivity.set(sensitivityName, sensitivity, func(s float64) error {
		return checks.CheckSensitivity(s)
	})
}

// Sensitivity returns the sensitivity, and whether it is set.
func (l *Laplace) Sensitivity() (float64, bool) {
	return l.sensitivity.get()
}

// CheckInputs returns an error if ε or the sensitivity is unset, if
// ε - ln(1-δ) < 2^-50, or if value is NaN.
func (l *Laplace) CheckInputs(value float64) error {
	if err := l.Privacy.CheckInputs(); err != nil {
		return err
	}
	if err := checkEffectiveEpsilon(l.effectiveEpsilon()); err != nil {
		return err
	}
	if _, err := l.sensitivity.require(sensitivityName); err != nil {
		return err
	}
	return checks.CheckValueFloat64(value)
}

// effectiveEpsilon folds δ into ε: ε - ln(1-δ). It is +∞ for δ = 1.
func (l *Laplace) effectiveEpsilon() float64 {
	epsilon, _ := l.Epsilon()
	return epsilon - math.Log1p(-l.deltaOrZero())
}

// checkEffectiveEpsilon rejects ε' < 2^-50, which a Privacy configured
// directly through its own setters may still hold. ε' = +∞ needs no noise.
func checkEffectiveEpsilon(epsilon float64) error {
	if math.IsInf(epsilon, 1) {
		return nil
	}
	return checks.CheckEpsilonVeryStrict(epsilon)
}

// scale returns the scale b of the noise. It is 0 when no noise is needed.
func (l *Laplace) scale() float64 {
	sensitivity, _ := l.sensitivity.get()
	return sensitivity / l.effectiveEpsilon()
}

// Randomise returns value with Laplace noise added.
func (l *Laplace) Randomise(value float64) (float64, error) {
	if err := l.CheckInputs(value); err != nil {
		return 0, err
	}
	if l.scale() == 0 {
		return value, nil
	}
	sensitivity, _ := l.sensitivity.get()
	return laplaceNoise.AddNoiseFloat64(value, sensitivity, l.effectiveEpsilon(), 0)
}

// Bias is 0.
func (l *Laplace) Bias(value float64) (float64, bool) {
	if l.CheckInputs(value) != nil {
		return 0, false
	}
	return 0, true
}

// Variance is 2b².
func (l *Laplace) Variance(value float64) (float64, bool) {
	if l.CheckInputs(value) != nil {
		return 0, false
	}
	b := l.scale()
	return 2 * b * b, true
}

func (l *Laplace) String() string {
	return l.describe("Laplace")
}

func (l *Laplace) describe(name string) string {
	b := l.Privacy.describe(name)
	describeSetting(b, "SetSensitivity", l.sensitivity)
	return b.String()
}

// LaplaceTruncated is the Laplace mechanism with its output truncated to
// [lower, upper].
type LaplaceTruncated struct {
	Laplace
	Truncation
}

// LaplaceTruncatedOptions contains the options necessary to initialize a
// LaplaceTruncated.
type LaplaceTruncatedOptions struct {
	Epsilon     float64 // Privacy parameter ε. Required.
	Delta       float64 // Privacy parameter δ. Left unset if 0.
	Sensitivity float64 // Largest change of a value caused by a single record. 0 disables the noise.
	Lower       float64 // Lower bound of the output.
	Upper       float64 // Upper bound of the output.
}

// NewLaplaceTruncated returns a LaplaceTruncated configured with opt.
func NewLaplaceTruncated(opt *LaplaceTruncatedOptions) (*LaplaceTruncated, error) {
	if opt == nil {
		opt = &LaplaceTruncatedOptions{}
	}
	l := &LaplaceTruncated{}
	if err := setPrivacy(l, opt.Epsilon, opt.Delta); err != nil {
		return nil, err
	}
	if err := l.SetSensitivity(opt.Sensitivity); err != nil {
		return nil, err
	}
	if err := l.SetBounds(opt.Lower, opt.Upper); err != nil {
		return nil, err
	}
	return l, nil
}

// CheckInputs returns an error if ε, the sensitivity or the bounds are unset,
// or if value is NaN.
func (l *LaplaceTruncated) CheckInputs(value float64) error {
	if err := l.Laplace.CheckInputs(value); err != nil {
		return err
	}
	return l.Truncation.CheckInputs()
}

// Randomise returns value with Laplace noise added, truncated to the bounds.
func (l *LaplaceTruncated) Randomise(value float64) (float64, error) {
	if err := l.CheckInputs(value); err != nil {
		return 0, err
	}
	noised, err := l.Laplace.Randomise(value)
	if err != nil {
		return 0, err
	}
	return l.Truncate(noised)
}

// Bias returns E[output] - value.
func (l *LaplaceTruncated) Bias(value float64) (float64, bool) {
	if l.CheckInputs(value) != nil {
		return 0, false
	}
	i, _ := l.bounds.get()
	return truncatedLaplaceBias(value, l.scale(), i), true
}

// Variance returns the variance of the output.
func (l *LaplaceTruncated) Variance(value float64) (float64, bool) {
	if l.CheckInputs(value) != nil {
		return 0, false
	}
	i, _ := l.bounds.get()
	b := l.scale()
	if b == 0 {
		return 0, true
	}
	bias := truncatedLaplaceBias(value, b, i)
	// Second moment of the truncated noise W = clamp(Z, lower-value, upper-value)
	// for Z ~ Laplace(0, b).
	lo, hi := i.lower-value, i.upper-value
	secondMoment := laplaceSecondMoment(hi, b) - laplaceSecondMoment(lo, b)
	if !math.IsInf(lo, 0) {
		secondMoment += lo * lo * laplaceCDF(lo, b)
	}
	if !math.IsInf(hi, 0) {
		secondMoment += hi * hi * (1 - laplaceCDF(hi, b))
	}
	return secondMoment - bias*bias, true
}

func (l *LaplaceTruncated) String() string {
	return l.Laplace.describe("LaplaceTruncated") + l.Truncation.String()
}

// truncatedLaplaceBias returns E[clamp(X)] - value for X ~ Laplace(value, b).
// Since clamp(X) = X + (lower-X)⁺ - (X-upper)⁺, the bias is the expected
// mass pulled up at the lower bound minus the mass pulled down at the upper
// bound.
func truncatedLaplaceBias(value, b float64, i Interval) float64 {
	if b == 0 {
		return i.Clamp(value) - value
	}
	return laplaceExcess(-value, b, -i.lower) - laplaceExcess(value, b, i.upper)
}

// laplaceExcess returns E[(X-t)⁺] for X ~ Laplace(mean, b).
func laplaceExcess(mean, b, t float64) float64 {
	if t >= mean {
		return b / 2 * math.Exp(-(t-mean)/b)
	}
	return mean - t + b/2*math.Exp(-(mean-t)/b)
}

// laplaceCDF returns Pr[Z <= z] for Z ~ Laplace(0, b).
func laplaceCDF(z, b float64) float64 {
	if z < 0 {
		return 0.5 * math.Exp(z/b)
	}
	return 1 - 0.5*math.Exp(-z/b)
}

// laplaceSecondMoment returns the signed partial moment ∫₀ᶻ x² f(x) dx of
// Z ~ Laplace(0, b), which is negative for z < 0.
func laplaceSecondMoment(z, b float64) float64 {
	if z < 0 {
		return -laplaceSecondMoment(-z, b)
	}
	if math.IsInf(z, 1) {
		return b * b
	}
	return b*b - 0.5*math.Exp(-z/b)*(z*z+2*b*z+2*b*b)
}

// LaplaceFolded is the Laplace mechanism with its output folded into
// [lower, upper].
type LaplaceFolded struct {
	Laplace
	Folding
}

// LaplaceFoldedOptions contains the options necessary to initialize a
// LaplaceFolded.
type LaplaceFoldedOptions struct {
	Epsilon     float64 // Privacy parameter ε. Required.
	Delta       float64 // Privacy parameter δ. Left unset if 0.
	Sensitivity float64 // Largest change of a value caused by a single record. 0 disables the noise.
	Lower       float64 // Lower bound of the output.
	Upper       float64 // Upper bound of the output.
}

// NewLaplaceFolded returns a LaplaceFolded configured with opt.
func NewLaplaceFolded(opt *LaplaceFoldedOptions) (*LaplaceFolded, error) {
	if opt == nil {
		opt = &LaplaceFoldedOptions{}
	}
	l := &LaplaceFolded{}
	if err := setPrivacy(l, opt.Epsilon, opt.Delta); err != nil {
		return nil, err
	}
	if err := l.SetSensitivity(opt.Sensitivity); err != nil {
		return nil, err
	}
	if err := l.SetBounds(opt.Lower, opt.Upper); err != nil {
		return nil, err
	}
	return l, nil
}

// CheckInputs returns an error if ε, the sensitivity or the bounds are unset,
// or if value is NaN.
func (l *LaplaceFolded) CheckInputs(value float64) error {
	if err := l.Laplace.CheckInputs(value); err != nil {
		return err
	}
	return l.Folding.CheckInputs()
}

// Randomise returns value with Laplace noise added, folded into the bounds.
func (l *LaplaceFolded) Randomise(value float64) (float64, error) {
	if err := l.CheckInputs(value); err != nil {
		return 0, err
	}
	noised, err := l.Laplace.Randomise(value)
	if err != nil {
		return 0, err
	}
	return l.Fold(noised)
}

// Bias returns E[output] - value. It is only defined for values within the
// bounds.
func (l *LaplaceFolded) Bias(value float64) (float64, bool) {
	if l.CheckInputs(value) != nil {
		return 0, false
	}
	i, _ := l.bounds.get()
	if !i.Contains(value) {
		return 0, false
	}
	b := l.scale()
	if b == 0 {
		return 0, true
	}
	// All exponents are nonpositive for lower <= value <= upper, and infinite
	// bounds make their terms vanish.
	return b * (math.Exp((i.lower-value)/b) - math.Exp((value-i.upper)/b)) /
		(math.Exp((i.lower-i.upper)/b) + 1), true
}

// Variance is undefined.
func (l *LaplaceFolded) Variance(float64) (float64, bool) {
	return 0, false
}

func (l *LaplaceFolded) String() string {
	return l.Laplace.describe("LaplaceFolded") + l.Folding.String()
}
