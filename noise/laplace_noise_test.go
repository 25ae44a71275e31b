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

func TestLaplaceStatistics(t *testing.T) {
	const numberOfSamples = 125000
	for _, tc := range []struct {
		sensitivity, epsilon, mean, variance float64
	}{
		{
			sensitivity: 1.0,
			epsilon:     1.0,
			mean:        0.0,
			variance:    2.0,
		},
		{
			sensitivity: 1.0,
			epsilon:     ln3,
			mean:        0.0,
			variance:    2.0 / (ln3 * ln3),
		},
		{
			sensitivity: 1.0,
			epsilon:     ln3,
			mean:        45941223.02107,
			variance:    2.0 / (ln3 * ln3),
		},
		{
			sensitivity: 2.0,
			epsilon:     2.0 * ln3,
			mean:        0.0,
			variance:    2.0 / (ln3 * ln3),
		},
	} {
		noisedSamples := make(stat.Float64Slice, numberOfSamples)
		for i := 0; i < numberOfSamples; i++ {
			noised, err := lap.AddNoiseFloat64(tc.mean, tc.sensitivity, tc.epsilon, 0)
			if err != nil {
				t.Fatalf("AddNoiseFloat64: got err %v (parameters %+v)", err, tc)
			}
			noisedSamples[i] = noised
		}
		sampleMean, sampleVariance := stat.Mean(noisedSamples), stat.Variance(noisedSamples)
		// The sample mean is approximately Gaussian with standard deviation
		// sqrt(tc.variance / numberOfSamples). The tolerance is its 99.9995% quantile, so
		// the test falsely rejects with a probability of 10⁻⁵.
		meanErrorTolerance := 4.41717 * math.Sqrt(tc.variance/float64(numberOfSamples))
		// The sample variance is approximately Gaussian with mean tc.variance and standard
		// deviation sqrt(5) * tc.variance / sqrt(numberOfSamples).
		varianceErrorTolerance := 4.41717 * math.Sqrt(5.0) * tc.variance / math.Sqrt(float64(numberOfSamples))

		if !nearEqual(sampleMean, tc.mean, meanErrorTolerance) {
			t.Errorf("float64 got mean = %f, want %f (parameters %+v)", sampleMean, tc.mean, tc)
		}
		if !nearEqual(sampleVariance, tc.variance, varianceErrorTolerance) {
			t.Errorf("float64 got variance = %f, want %f (parameters %+v)", sampleVariance, tc.variance, tc)
		}
		if got, _ := lap.Variance(tc.sensitivity, tc.epsilon, 0); !nearEqual(got, tc.variance, 1e-9) {
			t.Errorf("Variance: got %f, want %f (parameters %+v)", got, tc.variance, tc)
		}
	}
}

func TestLaplaceInt64Statistics(t *testing.T) {
	const numberOfSamples = 125000
	const sensitivity, mean = 1, 1000
	epsilon := ln3
	variance := 2.0 / (ln3 * ln3)
	samples := make(stat.IntSlice, numberOfSamples)
	for i := 0; i < numberOfSamples; i++ {
		noised, err := lap.AddNoiseInt64(mean, sensitivity, epsilon, 0)
		if err != nil {
			t.Fatalf("AddNoiseInt64: got err %v", err)
		}
		samples[i] = noised
	}
	sampleMean := stat.Mean(samples)
	// Rounding to integers adds at most 1/12 to the variance.
	meanErrorTolerance := 4.41717 * math.Sqrt((variance+1.0/12)/float64(numberOfSamples))
	if !nearEqual(sampleMean, mean, meanErrorTolerance) {
		t.Errorf("int64 got mean = %f, want %d", sampleMean, mean)
	}
}

func TestLaplaceRejectsInvalidArguments(t *testing.T) {
	for _, tc := range []struct {
		desc                        string
		sensitivity, epsilon, delta float64
	}{
		{"zero sensitivity", 0, 1, 0},
		{"negative sensitivity", -1, 1, 0},
		{"infinite sensitivity", math.Inf(1), 1, 0},
		{"epsilon below 2⁻⁵⁰", 1, math.Exp2(-51), 0},
		{"infinite epsilon", 1, math.Inf(1), 0},
		{"non-zero delta", 1, 1, 1e-5},
	} {
		if _, err := lap.AddNoiseFloat64(0, tc.sensitivity, tc.epsilon, tc.delta); !errors.Is(err, checks.ErrInvalidParameter) {
			t.Errorf("AddNoiseFloat64: when %s got err %v, want ErrInvalidParameter", tc.desc, err)
		}
		if _, err := lap.Variance(tc.sensitivity, tc.epsilon, tc.delta); !errors.Is(err, checks.ErrInvalidParameter) {
			t.Errorf("Variance: when %s got err %v, want ErrInvalidParameter", tc.desc, err)
		}
	}
}

func TestAddLaplaceFloat64RoundsToGranularity(t *testing.T) {
	// With sensitivity 2⁴⁰ and ε = 1 the granularity is exactly 1.
	for i := 0; i < 1000; i++ {
		got := addLaplaceFloat64(0.4, 1, math.Exp2(40))
		if got != math.Round(got) {
			t.Fatalf("addLaplaceFloat64: got %f, want a multiple of 1", got)
		}
	}
}
