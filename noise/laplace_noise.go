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

package noise

import (
	"math"

	"github.com/dpmechanisms/go/checks"
)

var (
	// granularityParam determines the resolution of the numerical noise that is
	// being generated relative to the sensitivity and privacy parameter epsilon.
	// More precisely, the granularity parameter corresponds to the value 2ᵏ described in
	// https://github.com/google/differential-privacy/blob/main/common_docs/Secure_Noise_Generation.pdf.
	// Larger values result in more fine grained noise, but increase the chance of
	// sampling inaccuracies due to overflows. The probability of an overflow is less
	// than 2⁻¹⁰⁰⁰, if the granularity parameter is set to a value of 2⁴⁰ or less and
	// the epsilon passed to addNoise is at least 2⁻⁵⁰.
	//
	// This parameter should be a power of 2.
	granularityParam = math.Exp2(40)
)

type laplace struct{}

// Laplace returns a Noise instance that adds Laplace noise to its input.
// Its AddNoise* functions will fail if called with a non-zero delta.
//
// The Laplace noise is based on a geometric sampling mechanism that is robust against
// unintentional privacy leaks due to artifacts of floating point arithmetic. See
// https://github.com/google/differential-privacy/blob/main/common_docs/Secure_Noise_Generation.pdf
// for more information.
func Laplace() Noise {
	return laplace{}
}

// AddNoiseFloat64 adds Laplace noise of scale sensitivity/ε to the specified
// float64 x.
func (laplace) AddNoiseFloat64(x, sensitivity, epsilon, delta float64) (float64, error) {
	if err := checkArgsLaplace(sensitivity, epsilon, delta); err != nil {
		return 0, err
	}
	return addLaplaceFloat64(x, epsilon, sensitivity), nil
}

// AddNoiseInt64 adds Laplace noise of scale sensitivity/ε to the specified
// int64 x, rounded to an integer.
func (laplace) AddNoiseInt64(x, sensitivity int64, epsilon, delta float64) (int64, error) {
	if err := checkArgsLaplace(float64(sensitivity), epsilon, delta); err != nil {
		return 0, err
	}
	return addLaplaceInt64(x, epsilon, sensitivity), nil
}

// Variance returns 2λ² where λ = sensitivity/ε is the scale of the Laplace
// distribution.
func (laplace) Variance(sensitivity, epsilon, delta float64) (float64, error) {
	if err := checkArgsLaplace(sensitivity, epsilon, delta); err != nil {
		return 0, err
	}
	lambda := sensitivity / epsilon
	return 2 * lambda * lambda, nil
}

func (laplace) String() string {
	return "Laplace Noise"
}

func checkArgsLaplace(sensitivity, epsilon, delta float64) error {
	if err := checks.CheckSensitivityStrict(sensitivity); err != nil {
		return err
	}
	if err := checks.CheckEpsilonVeryStrict(epsilon); err != nil {
		return err
	}
	return checks.CheckNoDelta(delta)
}

// addLaplaceFloat64 adds Laplace noise scaled to the given epsilon and sensitivity to the
// specified float64
func addLaplaceFloat64(x, epsilon, sensitivity float64) float64 {
	granularity := ceilPowerOfTwo((sensitivity / epsilon) / granularityParam)
	sample := twoSidedGeometric(granularity * epsilon / (sensitivity + granularity))
	return roundToMultipleOfPowerOfTwo(x, granularity) + float64(sample)*granularity
}

// addLaplaceInt64 adds Laplace noise scaled to the given epsilon and sensitivity to the
// specified int64
func addLaplaceInt64(x int64, epsilon float64, sensitivity int64) int64 {
	granularity := ceilPowerOfTwo((float64(sensitivity) / epsilon) / granularityParam)
	sample := twoSidedGeometric(granularity * epsilon / (float64(sensitivity) + granularity))
	if granularity < 1 {
		return x + int64(math.Round(float64(sample)*granularity))
	}
	return roundToMultiple(x, int64(granularity)) + sample*int64(granularity)
}
