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
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// The square root of the maximum number n of Bernoulli trials from which a binomial
	// sample is drawn. Larger values result in more fine-grained noise, but increase the
	// chance of sampling inaccuracies due to overflows. The probability of such an event
	// will be roughly 2⁻⁴⁵ or less, if the square root is set to 2⁵⁷.
	binomialBound float64 = math.Exp2(57.0)
	// The absolute bound of the two-sided geometric samples k that are used for creating
	// a binomial sample is m + n / 2. For performance reasons, m is not composed of n
	// Bernoulli trials. Instead, m is obtained via a rejection sampling technique, which sets
	//   m = (k + l) * (sqrt(2 * n) + 1),
	// where l is a uniform random sample between 0 and 1. Bounding k is therefore necessary
	// to prevent m from overflowing.
	//
	// The probability of a single sample k being bounded is 2⁻⁴⁵.
	geometricBound int64 = (math.MaxInt64 / int64(math.Round(math.Sqrt2*binomialBound+1.0))) - 1
	// gaussianSigmaAccuracy approximates the accuracy up to which the smallest sigma that
	// satisfies the given DP parameters.
	gaussianSigmaAccuracy = 1e-3
)

type gaussian struct{}

// Gaussian returns a Noise instance that adds Gaussian noise to its input.
// Its AddNoise* functions require δ in (0, 1).
//
// The Gaussian noise is based on a binomial sampling mechanism that is robust against
// unintentional privacy leaks due to artifacts of floating-point arithmetic. See
// https://github.com/google/differential-privacy/blob/main/common_docs/Secure_Noise_Generation.pdf
// for more information.
func Gaussian() Noise {
	return gaussian{}
}

// AddNoiseFloat64 adds Gaussian noise to the specified float64, so that its
// output is (ε,δ)-differentially private.
func (gaussian) AddNoiseFloat64(x, sensitivity, epsilon, delta float64) (float64, error) {
	if err := checkArgsGaussian(sensitivity, epsilon, delta); err != nil {
		return 0, err
	}
	return addGaussian(x, SigmaForGaussian(sensitivity, epsilon, delta)), nil
}

// AddNoiseInt64 adds Gaussian noise to the specified int64, so that the
// output is (ε,δ)-differentially private.
func (gaussian) AddNoiseInt64(x, sensitivity int64, epsilon, delta float64) (int64, error) {
	if err := checkArgsGaussian(float64(sensitivity), epsilon, delta); err != nil {
		return 0, err
	}
	sigma := SigmaForGaussian(float64(sensitivity), epsilon, delta)
	return int64(math.Round(addGaussian(float64(x), sigma))), nil
}

// Variance returns σ² for the σ that AddNoiseFloat64 calibrates.
func (gaussian) Variance(sensitivity, epsilon, delta float64) (float64, error) {
	if err := checkArgsGaussian(sensitivity, epsilon, delta); err != nil {
		return 0, err
	}
	sigma := SigmaForGaussian(sensitivity, epsilon, delta)
	return sigma * sigma, nil
}

func (gaussian) String() string {
	return "Gaussian Noise"
}

func checkArgsGaussian(sensitivity, epsilon, delta float64) error {
	if err := checks.CheckSensitivityStrict(sensitivity); err != nil {
		return err
	}
	if err := checks.CheckEpsilon(epsilon); err != nil {
		return err
	}
	return checks.CheckDeltaStrict(delta)
}

// addGaussian adds Gaussian noise of scale σ to the specified float64.
func addGaussian(x, sigma float64) float64 {
	granularity := ceilPowerOfTwo(2.0 * sigma / binomialBound)

	// sqrtN is chosen in a way that places it in the interval between binomialBound
	// and binomialBound / 2. This ensures that the respective binomial distribution
	// consists of enough Bernoulli samples to closely approximate a Gaussian distribution.
	sqrtN := 2.0 * sigma / granularity
	sample := symmetricBinomial(sqrtN)
	return roundToMultipleOfPowerOfTwo(x, granularity) + float64(sample)*granularity
}

// symmetricBinomial returns a random sample m where the term m + n / 2 is drawn from
// a binomial distribution of n Bernoulli trials that have a success probability of
// 0.5 each. The sampling technique is based on Bringmann et al.'s rejection sampling
// approach proposed in "Internal DLA: Efficient Simulation of a Physical Growth Model"
// (https://people.mpi-inf.mpg.de/~kbringma/paper/2014ICALP.pdf).
func symmetricBinomial(sqrtN float64) int64 {
	stepSize := int64(math.Round(math.Sqrt2*sqrtN + 1.0))
	for {
		// 1 is subtracted from the geometric sample to count the number of Bernoulli fails
		// rather than the number of trials until the first success.
		boundedGeometricSample := int64(math.Min(rand.Geometric()-1.0, float64(geometricBound)))
		twoSidedGeometricSample := boundedGeometricSample
		if rand.Boolean() {
			twoSidedGeometricSample = -twoSidedGeometricSample - 1
		}

		result := stepSize*twoSidedGeometricSample + rand.I63n(stepSize)
		resultProbability := binomialProbability(sqrtN, result)
		rejectProbability := rand.Uniform()
		if resultProbability > 0.0 &&
			rejectProbability < resultProbability*float64(stepSize)*math.Pow(2.0, float64(boundedGeometricSample))/4.0 {
			return result
		}
	}
}

// binomialProbability approximates the probability of a random sample m + n / 2
// drawn from a binomial distribution of n Bernoulli trials that have a success
// probability of 1 / 2 each. The approximation is based on Lemma 7 of
// https://github.com/google/differential-privacy/blob/main/common_docs/Secure_Noise_Generation.pdf
func binomialProbability(sqrtN float64, m int64) float64 {
	if math.Abs(float64(m)) > sqrtN*math.Sqrt(math.Log(sqrtN)/2.0) {
		return 0.0
	}
	return (math.Sqrt(2.0/math.Pi) / sqrtN) *
		math.Exp((-2.0*float64(m)*float64(m))/(sqrtN*sqrtN)) *
		(1 - 0.4*math.Pow(2.0, 1.5)*math.Pow(math.Log(sqrtN), 1.5)/sqrtN)
}

// DeltaForGaussian computes the smallest δ such that the Gaussian mechanism
// with fixed standard deviation σ is (ε,δ)-differentially private for values
// of the given sensitivity. The calculation is based on Theorem 8 of Balle and
// Wang's "Improving the Gaussian Mechanism for Differential Privacy: Analytical
// Calibration and Optimal Denoising" (https://arxiv.org/abs/1805.06530v2).
func DeltaForGaussian(sigma, sensitivity, epsilon float64) float64 {
	// With Φ the standard Gaussian CDF and s the sensitivity, the tight δ is
	//   δ(σ,s,ε) := Φ(s/(2σ) - εσ/s) - exp(ε)Φ(-s/(2σ) - εσ/s).
	// Pulling out a := s/(2σ), b := εσ/s and c := exp(ε) gives
	//   δ(σ,s,ε) = Φ(a - b) - cΦ(-a - b),
	// which keeps overflow and underflow easy to reason about.
	a := sensitivity / (2 * sigma)
	b := epsilon * sigma / sensitivity
	c := math.Exp(epsilon)

	if math.IsInf(c, +1) {
		// δ(σ,s,ε) –> 0 as ε –> ∞.
		return 0
	}
	if math.IsInf(b, +1) {
		// δ(σ,s,ε) –> 0 as the sensitivity –> 0.
		return 0
	}

	return distuv.UnitNormal.CDF(a-b) - c*distuv.UnitNormal.CDF(-a-b)
}

// SigmaForGaussian calculates the standard deviation σ of Gaussian noise
// needed to achieve (ε,δ)-approximate differential privacy for values of the
// given sensitivity.
//
// SigmaForGaussian uses binary search. The result will deviate from the exact
// value σ_tight by at most gaussianSigmaAccuracy*σ_tight.
func SigmaForGaussian(sensitivity, epsilon, delta float64) float64 {
	if delta >= 1 {
		return 0
	}

	// The required noise grows linearly with sensitivity, so the sensitivity is
	// the starting guess for the upper bound.
	upperBound := sensitivity
	var lowerBound float64

	// DeltaForGaussian is decreasing in σ. Once this loop exits,
	// upperBound - lowerBound <= σ_tight and lowerBound >= 0.5*σ_tight whenever
	// σ_tight > sensitivity.
	for DeltaForGaussian(upperBound, sensitivity, epsilon) > delta {
		lowerBound = upperBound
		upperBound = upperBound * 2
	}

	for upperBound-lowerBound > gaussianSigmaAccuracy*lowerBound {
		middle := lowerBound*0.5 + upperBound*0.5
		if DeltaForGaussian(middle, sensitivity, epsilon) > delta {
			lowerBound = middle
		} else {
			upperBound = middle
		}
	}

	return upperBound
}
