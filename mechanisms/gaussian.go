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
	"github.com/dpmechanisms/go/checks"
	"github.com/dpmechanisms/go/noise"
)

var gaussianNoise = noise.ToNoise(noise.GaussianNoise)

// Gaussian is the analytic Gaussian mechanism on real values. It adds
// Gaussian noise with the smallest standard deviation σ for which the output
// is (ε,δ)-differentially private, following Balle and Wang
// (https://arxiv.org/abs/1805.06530v2). Unlike the classic calibration it is
// valid for every ε > 0.
//
// δ is required and must lie in (0, 1).
type Gaussian struct {
	Privacy
	sensitivity setting[float64]
}

// GaussianOptions contains the options necessary to initialize a Gaussian.
type GaussianOptions struct {
	Epsilon     float64 // Privacy parameter ε. Required.
	Delta       float64 // Privacy parameter δ. Required, in (0, 1).
	Sensitivity float64 // Largest change of a value caused by a single record. 0 disables the noise.
}

// NewGaussian returns a Gaussian configured with opt.
func NewGaussian(opt *GaussianOptions) (*Gaussian, error) {
	if opt == nil {
		opt = &GaussianOptions{}
	}
	if err := checks.CheckDeltaStrict(opt.Delta); err != nil {
		return nil, err
	}
	g := &Gaussian{}
	if err := g.SetEpsilonDelta(opt.Epsilon, opt.Delta); err != nil {
		return nil, err
	}
	if err := g.SetSensitivity(opt.Sensitivity); err != nil {
		return nil, err
	}
	return g, nil
}

// SetSensitivity sets the sensitivity of the values passed to Randomise. It
// fails with checks.ErrAlreadySet if the sensitivity was set before, and with
// checks.ErrInvalidParameter if it is negative or not finite.
func (g *Gaussian) SetSensitivity(sensitivity float64) error {
	return g.sensitivity.set(sensitivityName, sensitivity, func(s float64) error {
		return checks.CheckSensitivity(s)
	})
}

// Sensitivity returns the sensitivity, and whether it is set.
func (g *Gaussian) Sensitivity() (float64, bool) {
	return g.sensitivity.get()
}

// CheckInputs returns an error if ε, δ or the sensitivity is unset, if δ is
// not in (0, 1), or if value is NaN.
func (g *Gaussian) CheckInputs(value float64) error {
	if err := g.Privacy.CheckInputs(); err != nil {
		return err
	}
	delta, err := g.delta.require(deltaName)
	if err != nil {
		return err
	}
	if err := checks.CheckDeltaStrict(delta); err != nil {
		return err
	}
	if _, err := g.sensitivity.require(sensitivityName); err != nil {
		return err
	}
	return checks.CheckValueFloat64(value)
}

// Randomise returns value with Gaussian noise added.
func (g *Gaussian) Randomise(value float64) (float64, error) {
	if err := g.CheckInputs(value); err != nil {
		return 0, err
	}
	sensitivity, _ := g.sensitivity.get()
	if sensitivity == 0 {
		return value, nil
	}
	epsilon, _ := g.Epsilon()
	delta, _ := g.Delta()
	return gaussianNoise.AddNoiseFloat64(value, sensitivity, epsilon, delta)
}

// Bias is 0.
func (g *Gaussian) Bias(value float64) (float64, bool) {
	if g.CheckInputs(value) != nil {
		return 0, false
	}
	return 0, true
}

// Variance is σ².
func (g *Gaussian) Variance(value float64) (float64, bool) {
	if g.CheckInputs(value) != nil {
		return 0, false
	}
	sensitivity, _ := g.sensitivity.get()
	if sensitivity == 0 {
		return 0, true
	}
	epsilon, _ := g.Epsilon()
	delta, _ := g.Delta()
	variance, err := gaussianNoise.Variance(sensitivity, epsilon, delta)
	if err != nil {
		return 0, false
	}
	return variance, true
}

func (g *Gaussian) String() string {
	b := g.Privacy.describe("Gaussian")
	describeSetting(b, "SetSensitivity", g.sensitivity)
	return b.String()
}
