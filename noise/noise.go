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

// Package noise contains the noise samplers that concrete mechanisms use to
// randomise values.
//
// Every sampler is calibrated from a scalar sensitivity, i.e. the largest
// change of the randomised value caused by a single record, and the privacy
// parameters ε and δ.
package noise

import (
	log "github.com/golang/glog"
)

// Kind is an enum type. Its values are the supported noise distributions types
// for differential privacy operations.
type Kind int

// Noise distributions used to achieve Differential Privacy.
const (
	GaussianNoise Kind = iota
	LaplaceNoise
	GeometricNoise
	Unrecognised
)

// ToNoise converts a Kind into a Noise instance.
func ToNoise(k Kind) Noise {
	switch k {
	case GaussianNoise:
		return Gaussian()
	case LaplaceNoise:
		return Laplace()
	case GeometricNoise:
		return Geometric()
	case Unrecognised:
		log.Warningf("ToNoise: Unrecognised noise specified, returning nil")
	default:
		log.Warningf("ToNoise: unknown kind (%v) specified, returning nil", k)
	}
	return nil
}

// ToKind converts a Noise instance into a Kind.
func ToKind(n Noise) Kind {
	switch n {
	case Gaussian():
		return GaussianNoise
	case Laplace():
		return LaplaceNoise
	case Geometric():
		return GeometricNoise
	case nil:
		log.Warningf("ToKind: nil noise specified, returning Unrecognised")
	default:
		log.Warningf("ToKind: unknown Noise (%v) specified, returning Unrecognised", n)
	}
	return Unrecognised
}

// Noise is an interface for primitives that add noise to data to make it differentially private.
type Noise interface {
	// AddNoiseFloat64 adds noise to the specified float64 x so that the output
	// is (ε,δ)-differentially private given the sensitivity of x.
	AddNoiseFloat64(x, sensitivity, epsilon, delta float64) (float64, error)

	// AddNoiseInt64 adds noise to the specified int64 x so that the output
	// is (ε,δ)-differentially private given the sensitivity of x.
	AddNoiseInt64(x, sensitivity int64, epsilon, delta float64) (int64, error)

	// Variance returns the variance of the noise that AddNoiseFloat64 adds for
	// the given parameters.
	Variance(sensitivity, epsilon, delta float64) (float64, error)
}
