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
	"errors"
	"math"
	"testing"

	"github.com/dpmechanisms/go/checks"
	"github.com/grd/stat"
)

func TestGeometricSampleStatistics(t *testing.T) {
	const numberOfSamples = 125000
	for _, tc := range []struct {
		lambda float64
		mean   float64
		stdDev float64
	}{
		{
			lambda: 0.1,
			mean:   10.50833,
			stdDev: 9.99583,
		},
		{
			lambda: 0.0001,
			mean:   10000.50001,
			stdDev: 9999.99999,
		},
	} {
		geometricSamples := make(stat.IntSlice, numberOfSamples)
		for i := 0; i < numberOfSamples; i++ {
			geometricSamples[i] = geometricSample(tc.lambda)
		}
		sampleMean := stat.Mean(geometricSamples)
		// The sample mean is approximately Gaussian with standard deviation
		// tc.stdDev / sqrt(numberOfSamples). The tolerance is its 99.9995% quantile, so
		// the test falsely rejects with a probability of 10⁻⁵.
		meanErrorTolerance := 4.41717 * tc.stdDev / math.Sqrt(float64(numberOfSamples))

		if !nearEqual(sampleMean, tc.mean, meanErrorTolerance) {
			t.Errorf("got mean = %f, want %f (parameters %+v)", sampleMean, tc.mean, tc)
		}
	}
}

func TestGeometricNoiseStatistics(t *testing.T) {
	const numberOfSamples = 125000
	for _, tc := range []struct {
		sensitivity int64
		epsilon     float64
		mean        int64
	}{
		{sensitivity: 1, epsilon: ln3, mean: 0},
		{sensitivity: 1, epsilon: 0.5, mean: 17},
		{sensitivity: 3, epsilon: 1, mean: -250},
	} {
		variance, err := geo.Variance(float64(tc.sensitivity), tc.epsilon, 0)
		if err != nil {
			t.Fatalf("Variance: got err %v (parameters %+v)", err, tc)
		}
		samples := make(stat.IntSlice, numberOfSamples)
		for i := 0; i < numberOfSamples; i++ {
			noised, err := geo.AddNoiseInt64(tc.mean, tc.sensitivity, tc.epsilon, 0)
			if err != nil {
				t.Fatalf("AddNoiseInt64: got err %v (parameters %+v)", err, tc)
			}
			samples[i] = noised
		}
		sampleMean, sampleVariance := stat.Mean(samples), stat.Variance(samples)
		meanErrorTolerance := 4.41717 * math.Sqrt(variance/float64(numberOfSamples))
		// The kurtosis of the test distributions is at most 7, so the sample variance has
		// a standard deviation of at most sqrt(6) * variance / sqrt(numberOfSamples).
		varianceErrorTolerance := 4.41717 * math.Sqrt(6.0) * variance / math.Sqrt(float64(numberOfSamples))
		if !nearEqual(sampleMean, float64(tc.mean), meanErrorTolerance) {
			t.Errorf("got mean = %f, want %d (parameters %+v)", sampleMean, tc.mean, tc)
		}
		if !nearEqual(sampleVariance, variance, varianceErrorTolerance) {
			t.Errorf("got variance = %f, want %f (parameters %+v)", sampleVariance, variance, tc)
		}
	}
}

func TestGeometricVariance(t *testing.T) {
	// p = 1/3 for ε = ln 3 and sensitivity 1: 2p/(1-p)² = (2/3)/(4/9) = 1.5.
	got, err := geo.Variance(1, ln3, 0)
	if err != nil {
		t.Fatalf("Variance: got err %v", err)
	}
	if !nearEqual(got, 1.5, 1e-12) {
		t.Errorf("Variance: got %f, want 1.5", got)
	}
}

func TestGeometricFloat64AddsIntegers(t *testing.T) {
	for i := 0; i < 1000; i++ {
		got, err := geo.AddNoiseFloat64(5, 1, 1, 0)
		if err != nil {
			t.Fatalf("AddNoiseFloat64: got err %v", err)
		}
		if got != math.Trunc(got) {
			t.Fatalf("AddNoiseFloat64: got %f, want an integer", got)
		}
	}
}

func TestGeometricRejectsInvalidArguments(t *testing.T) {
	if _, err := geo.AddNoiseInt64(0, 0, 1, 0); !errors.Is(err, checks.ErrInvalidParameter) {
		t.Errorf("AddNoiseInt64 with zero sensitivity: got err %v, want ErrInvalidParameter", err)
	}
	if _, err := geo.AddNoiseInt64(0, 1, 1, 0.1); !errors.Is(err, checks.ErrInvalidParameter) {
		t.Errorf("AddNoiseInt64 with non-zero delta: got err %v, want ErrInvalidParameter", err)
	}
	if _, err := geo.AddNoiseFloat64(0, 1, -1, 0); !errors.Is(err, checks.ErrInvalidParameter) {
		t.Errorf("AddNoiseFloat64 with negative epsilon: got err %v, want ErrInvalidParameter", err)
	}
}
