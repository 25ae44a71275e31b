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


package mechanisms_test

import (
	"fmt"

	"github.com/dpmechanisms/go/mechanisms"
)

// This example releases a private count of visitors, truncated to the size
// of the venue.
func Example() {
	m, err := mechanisms.NewGeometricTruncated(&mechanisms.GeometricTruncatedOptions{
		Epsilon:     1,
		Sensitivity: 1,
		Lower:       0,
		Upper:       250,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	count, err := m.Randomise(120)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(m)
	fmt.Println(count >= 0 && count <= 250)
	// Output:
	// GeometricTruncated().SetEpsilon(1).SetSensitivity(1).SetBounds(0, 250)
	// true
}

// Mechanisms can also be configured step by step. Every setting can be set
// only once.
func ExampleLaplaceFolded() {
	m := &mechanisms.LaplaceFolded{}
	if err := m.SetEpsilonDelta(0.5, 0.01); err != nil {
		fmt.Println(err)
		return
	}
	if err := m.SetSensitivity(1); err != nil {
		fmt.Println(err)
		return
	}
	if err := m.SetBounds(0, 10); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(m.SetEpsilon(2))
	noised, err := m.Randomise(9.5)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(noised >= 0 && noised <= 10)
	// Output:
	// already set: Epsilon cannot be reset; create a new mechanism instead
	// true
}

func ExampleMeanSquaredError() {
	m, err := mechanisms.NewLaplace(&mechanisms.LaplaceOptions{Epsilon: 0.5, Sensitivity: 1})
	if err != nil {
		fmt.Println(err)
		return
	}
	mse, ok := mechanisms.MeanSquaredError[float64](m, 0)
	fmt.Println(mse, ok)
	// Output:
	// 8 true
}
