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
	"fmt"
	"math"

	"github.com/dpmechanisms/go/checks"
	"github.com/dpmechanisms/go/rand"
)

// Binary is the randomised response mechanism on two labels. It keeps the
// true label with probability (e^ε+δ)/(e^ε+1) and reports the other label
// otherwise.
type Binary struct {
	Privacy
	UndefinedUtility[string]
	labels setting[[2]string]
}

// BinaryOptions contains the options necessary to initialize a Binary.
type BinaryOptions struct {
	Epsilon float64 // Privacy parameter ε. Required.
	Delta   float64 // Privacy parameter δ. Left unset if 0.
	Value0  string  // First label. Required.
	Value1  string  // Second label. Required, different from Value0.
}

// NewBinary returns a Binary configured with opt.
func NewBinary(opt *BinaryOptions) (*Binary, error) {
	if opt == nil {
		opt = &BinaryOptions{}
	}
	b := &Binary{}
	if err := setPrivacy(b, opt.Epsilon, opt.Delta); err != nil {
		return nil, err
	}
	if err := b.SetLabels(opt.Value0, opt.Value1); err != nil {
		return nil, err
	}
	return b, nil
}

// SetLabels sets the two labels. It fails with checks.ErrAlreadySet if the
// labels were set before, and with checks.ErrInvalidParameter if a label is
// empty or both are equal.
func (b *Binary) SetLabels(value0, value1 string) error {
	return b.labels.set(labelsName, [2]string{value0, value1}, func(l [2]string) error {
		return checks.CheckLabels(l[0], l[1])
	})
}

// Labels returns the two labels, and whether they are set.
func (b *Binary) Labels() (value0, value1 string, ok bool) {
	l, ok := b.labels.get()
	return l[0], l[1], ok
}

// CheckInputs returns an error if ε or the labels are unset, or if value is
// not one of the labels.
func (b *Binary) CheckInputs(value string) error {
	if err := b.Privacy.CheckInputs(); err != nil {
		return err
	}
	l, err := b.labels.require(labelsName)
	if err != nil {
		return err
	}
	if value != l[0] && value != l[1] {
		return fmt.Errorf("%w: value %q must be one of the labels %q and %q", checks.ErrInvalidParameter, value, l[0], l[1])
	}
	return nil
}

// Randomise returns value or, with probability (1-δ)/(e^ε+1), the other label.
func (b *Binary) Randomise(value string) (string, error) {
	if err := b.CheckInputs(value); err != nil {
		return "", err
	}
	if !rand.Bernoulli(b.flipProbability()) {
		return value, nil
	}
	l, _ := b.labels.get()
	if value == l[0] {
		return l[1], nil
	}
	return l[0], nil
}

func (b *Binary) flipProbability() float64 {
	epsilon, _ := b.Epsilon()
	return (1 - b.deltaOrZero()) / (math.Exp(epsilon) + 1)
}

func (b *Binary) String() string {
	s := b.Privacy.describe("Binary")
	if l, ok := b.labels.get(); ok {
		fmt.Fprintf(s, ".SetLabels(%s, %s)", l[0], l[1])
	}
	return s.String()
}
