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

// Package mechanisms contains differentially private randomisation
// mechanisms: objects that take a true value and return a randomised value
// satisfying (ε,δ)-differential privacy.
//
// Every mechanism implements Mechanism. Its privacy parameters are write-once:
// they are set exactly once, before the first call to Randomise, so that a
// privacy budget split across several mechanisms can never go stale.
// Mechanisms with bounded outputs additionally embed a Truncation or a
// Folding.
//
// Configuring a mechanism is not thread-safe. Once configured, Randomise may
// be called concurrently.
package mechanisms

import (
	"fmt"
	"strings"

	"github.com/dpmechanisms/go/checks"
	log "github.com/golang/glog"
)

const (
	epsilonName     = "Epsilon"
	deltaName       = "Delta"
	sensitivityName = "Sensitivity"
	boundsName      = "Bounds"
	labelsName      = "Labels"
)

// Utility reports the bias and the variance of a mechanism's output for a
// given true value. The boolean is false when no closed form is known.
type Utility[T any] interface {
	Bias(value T) (float64, bool)
	Variance(value T) (float64, bool)
}

// Mechanism is a differentially private randomisation mechanism over values
// of type T.
type Mechanism[T any] interface {
	Utility[T]

	// SetEpsilon sets the privacy parameter ε. It fails if ε was already set
	// or is not strictly positive and finite.
	SetEpsilon(epsilon float64) error
	// SetEpsilonDelta sets ε as SetEpsilon does, then sets δ ∈ [0, 1].
	SetEpsilonDelta(epsilon, delta float64) error
	// CheckInputs returns an error if the mechanism is not fully configured or
	// cannot randomise value.
	CheckInputs(value T) error
	// Randomise returns a randomised version of value.
	Randomise(value T) (T, error)

	fmt.Stringer
}

// UndefinedUtility provides Bias and Variance for mechanisms without a closed
// form for either.
type UndefinedUtility[T any] struct{}

// Bias is undefined.
func (UndefinedUtility[T]) Bias(T) (float64, bool) { return 0, false }

// Variance is undefined.
func (UndefinedUtility[T]) Variance(T) (float64, bool) { return 0, false }

// MeanSquaredError returns variance + bias² of m's output for value. It is
// undefined whenever the bias or the variance is.
func MeanSquaredError[T any](m Utility[T], value T) (float64, bool) {
	variance, ok := m.Variance(value)
	if !ok {
		return 0, false
	}
	bias, ok := m.Bias(value)
	if !ok {
		return 0, false
	}
	return variance + bias*bias, true
}

// Privacy holds the write-once privacy parameters of a mechanism. Concrete
// mechanisms embed it.
type Privacy struct {
	epsilon setting[float64]
	delta   setting[float64]
}

// SetEpsilon sets ε. It fails with checks.ErrAlreadySet if ε was set before,
// and with checks.ErrInvalidParameter if ε is not strictly positive and finite.
func (p *Privacy) SetEpsilon(epsilon float64) error {
	return p.epsilon.set(epsilonName, epsilon, func(e float64) error {
		return checks.CheckEpsilonStrict(e)
	})
}

// SetEpsilonDelta sets ε as SetEpsilon does, then sets δ. It fails with
// checks.ErrInvalidParameter if δ is outside of [0, 1]; ε stays set in that
// case.
func (p *Privacy) SetEpsilonDelta(epsilon, delta float64) error {
	if err := p.SetEpsilon(epsilon); err != nil {
		return err
	}
	return p.setDelta(delta)
}

// setEpsilonVeryStrict sets ε as SetEpsilon does, but also rejects ε < 2^-50.
func (p *Privacy) setEpsilonVeryStrict(epsilon float64) error {
	return p.epsilon.set(epsilonName, epsilon, func(e float64) error {
		return checks.CheckEpsilonVeryStrict(e)
	})
}

func (p *Privacy) setDelta(delta float64) error {
	if err := p.delta.set(deltaName, delta, func(d float64) error {
		return checks.CheckDelta(d)
	}); err != nil {
		return err
	}
	if delta == 1 {
		log.Warningf("Delta is 1: the privacy guarantee is void and mechanisms may add no noise")
	}
	return nil
}

// privacySetter is implemented by every mechanism.
type privacySetter interface {
	SetEpsilon(epsilon float64) error
	SetEpsilonDelta(epsilon, delta float64) error
}

// setPrivacy sets ε, and δ unless it is 0.
func setPrivacy(p privacySetter, epsilon, delta float64) error {
	if delta == 0 {
		return p.SetEpsilon(epsilon)
	}
	return p.SetEpsilonDelta(epsilon, delta)
}

// Epsilon returns ε, and whether it is set.
func (p *Privacy) Epsilon() (float64, bool) {
	return p.epsilon.get()
}

// Delta returns δ, and whether it is set.
func (p *Privacy) Delta() (float64, bool) {
	return p.delta.get()
}

// CheckInputs returns an error wrapping checks.ErrNotConfigured if ε is unset.
// Concrete mechanisms call it before their own checks.
func (p *Privacy) CheckInputs() error {
	_, err := p.epsilon.require(epsilonName)
	return err
}

// deltaOrZero returns δ, or 0 if δ is unset.
func (p *Privacy) deltaOrZero() float64 {
	delta, _ := p.delta.get()
	return delta
}

// describe starts the representation of a mechanism named name with its
// privacy parameters. The remaining settings are appended with
// describeSetting.
func (p *Privacy) describe(name string) *strings.Builder {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString("()")
	if epsilon, ok := p.epsilon.get(); ok {
		fmt.Fprintf(&b, ".SetEpsilon(%v)", epsilon)
	}
	if delta, ok := p.delta.get(); ok {
		fmt.Fprintf(&b, ".SetDelta(%v)", delta)
	}
	return &b
}

func describeSetting[T any](b *strings.Builder, setter string, s setting[T]) {
	if v, ok := s.get(); ok {
		fmt.Fprintf(b, ".%s(%v)", setter, v)
	}
}
