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
	"github.com/dpmechanisms/go/rand"
)

type geometric struct{}

// Geometric returns a Noise instance that adds two-sided geometric noise, the
// discrete counterpart of Laplace noise, to its input. The noise has
// probability mass Pr[k] ∝ exp(-ε|k|/sensitivity) on the integers. Its
// AddNoise* functions will fail if called with a non-zero delta.
func Geometric() Noise {
	return geometric{}
}

// AddNoiseFloat64 adds an integer-valued two-sided geometric sample to x.
// The result is only meaningful as a differentially private output if x is
// integral.
func (geometric) AddNoiseFloat64(x, sensitivity, epsilon, delta float64) (float64, error) {
	if err := checkArgsGeometric(sensitivity, epsilon, delta); err != nil {
		return 0, err
	}
	return x + float64(twoSidedGeometric(epsilon/sensitivity)), nil
}

// AddNoiseInt64 adds a two-sided geometric sample to x.
func (geometric) AddNoiseInt64(x, sensitivity int64, epsilon, delta float64) (int64, error) {
	if err := checkArgsGeometric(float64(sensitivity), epsilon, delta); err != nil {
		return 0, err
	}
	return x + twoSidedGeometric(epsilon/float64(sensitivity)), nil
}

// Variance returns 2p/(1-p)² where p = exp(-ε/sensitivity).
func (geometric) Variance(sensitivity, epsilon, delta float64) (float64, error) {
	if err := checkArgsGeometric(sensitivity, epsilon, delta); err != nil {
		return 0, err
	}
	lambda := epsilon / sensitivity
	// 1-p is computed as -expm1(-λ) to keep precision for small λ.
	oneMinusP := -math.Expm1(-lambda)
	return 2 * math.Exp(-lambda) / (oneMinusP * oneMinusP), nil
}

func (geometric) String() string {
	return "Geometric Noise"
}

func checkArgsGeometric(sensitivity, epsilon, delta float64) error {
	if err := checks.CheckSensitivityStrict(sensitivity); err != nil {
		return err
	}
	if err := checks.CheckEpsilonVeryStrict(epsilon); err != nil {
		return err
	}
	return checks.CheckNoDelta(delta)
}

// geometricSample draws a sample drawn from a geometric distribution with parameter
//   p = 1 - e^-λ.
// More precisely, it returns the number of Bernoulli trials until the first success
// where the success probability is p = 1 - e^-λ. The returned sample is truncated
// to the max int64 value.
//
// Note that to ensure that a truncation happens with probability less than 10⁻⁶,
// λ must be greater than 2⁻⁵⁹.
func geometricSample(lambda float64) int64 {
	// Return truncated sample in the case that the sample exceeds the max int64.
	if rand.Uniform() > -1.0*math.Expm1(-1.0*lambda*math.MaxInt64) {
		return math.MaxInt64
	}

	// Binary search for the sample in (0, MaxInt64]. Each iteration keeps the
	// left or right subinterval according to the probability of the sample
	// lying in it, until a single sample remains.
	var left int64 = 0              // exclusive bound
	var right int64 = math.MaxInt64 // inclusive bound

	for left+1 < right {
		// The midpoint splits the probability mass of the current interval
		// approximately evenly. It is at most the arithmetic mean of the interval,
		// which shortens the search for large success probabilities.
		mid := left - int64(math.Floor((math.Log(0.5)+math.Log1p(math.Exp(lambda*float64(left-right))))/lambda))
		// Guard against finite precision pushing mid out of the search interval.
		if mid <= left {
			mid = left + 1
		} else if mid >= right {
			mid = right - 1
		}

		// q = Pr[X ≤ mid | left < X ≤ right], approximately one half.
		q := math.Expm1(lambda*float64(left-mid)) / math.Expm1(lambda*float64(left-right))
		if rand.Uniform() <= q {
			right = mid
		} else {
			left = mid
		}
	}
	return right
}

// twoSidedGeometric draws a sample from a geometric distribution that is
// mirrored at 0. The non-negative part of the distribution's PDF matches
// the PDF of a geometric distribution of parameter p = 1 - e^-λ that is
// shifted to the left by 1 and scaled accordingly.
func twoSidedGeometric(lambda float64) int64 {
	var sample int64 = 0
	var sign int64 = -1
	// Keep a sample of 0 only if the sign is positive. Otherwise, the
	// probability of 0 would be twice as high as it should be.
	for sample == 0 && sign == -1 {
		sample = geometricSample(lambda) - 1
		sign = int64(rand.Sign())
	}
	return sample * sign
}
