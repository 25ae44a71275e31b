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
	"testing"
)

var (
	ln3 = math.Log(3)

	lap   = Laplace()
	geo   = Geometric()
	gauss = Gaussian()
)

func nearEqual(a, b, maxError float64) bool {
	return math.Abs(a-b) < maxError
}

func TestToNoiseAndToKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{GaussianNoise, LaplaceNoise, GeometricNoise} {
		if got := ToKind(ToNoise(k)); got != k {
			t.Errorf("ToKind(ToNoise(%v)) = %v, want %v", k, got, k)
		}
	}
	if got := ToNoise(Unrecognised); got != nil {
		t.Errorf("ToNoise(Unrecognised) = %v, want nil", got)
	}
	if got := ToKind(nil); got != Unrecognised {
		t.Errorf("ToKind(nil) = %v, want Unrecognised", got)
	}
}

var benchResultFloat64 float64

func BenchmarkLaplaceFloat64(b *testing.B) {
	var r float64
	for i := 0; i < b.N; i++ {
		r, _ = lap.AddNoiseFloat64(42, 1, ln3, 0)
	}
	benchResultFloat64 = r
}

func BenchmarkGaussianFloat64(b *testing.B) {
	var r float64
	for i := 0; i < b.N; i++ {
		r, _ = gauss.AddNoiseFloat64(42, 1, ln3, 1e-5)
	}
	benchResultFloat64 = r
}
