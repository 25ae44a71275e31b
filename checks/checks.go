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

// Package checks contains parameter checks for differentially private
// mechanisms, and the errors they report.
package checks

import (
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"
)

// Errors reported by the checks in this package and by the mechanisms that
// build on them. Returned errors wrap exactly one of these; use errors.Is.
var (
	// ErrInvalidParameter reports a privacy parameter or mechanism setting
	// outside of its valid domain.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrAlreadySet reports an attempt to re-assign a write-once setting.
	ErrAlreadySet = errors.New("already set")
	// ErrNotConfigured reports an operation invoked before the settings it
	// depends on were configured.
	ErrNotConfigured = errors.New("not configured")
	// ErrInvalidType reports a value that is not a number.
	ErrInvalidType = errors.New("invalid type")
	// ErrInvalidRange reports a lower bound that exceeds its upper bound.
	ErrInvalidRange = errors.New("invalid range")
)

const (
	epsilonName     = "Epsilon"
	deltaName       = "Delta"
	sensitivityName = "Sensitivity"

	// MaxExactInt64 is the largest magnitude an int64 bound may have so that it
	// converts to float64 without loss.
	MaxExactInt64 = 1 << 53
)

func verifyName(defaultName string, nameSlice []string) (string, error) {
	var name string
	switch len(nameSlice) {
	case 0:
		name = defaultName
	case 1:
		name = nameSlice[0]
	default:
		return "", fmt.Errorf("This should never happen. There should be 0 or 1 'name' parameter, got %d", len(nameSlice))
	}
	return name, nil
}

// CheckEpsilonVeryStrict returns an error if ε is +∞ or less than 2⁻⁵⁰.
func CheckEpsilonVeryStrict(epsilon float64, name ...string) error {
	epsName, err := verifyName(epsilonName, name)
	if err != nil {
		return err
	}
	if epsilon < math.Exp2(-50.0) || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return fmt.Errorf("%w: %s is %f, must be at least 2^-50 and finite", ErrInvalidParameter, epsName, epsilon)
	}
	return nil
}

// CheckEpsilonStrict returns an error if ε is nonpositive or +∞.
func CheckEpsilonStrict(epsilon float64, name ...string) error {
	epsName, err := verifyName(epsilonName, name)
	if err != nil {
		return err
	}
	if epsilon <= 0 || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return fmt.Errorf("%w: %s is %f, must be strictly positive and finite", ErrInvalidParameter, epsName, epsilon)
	}
	return nil
}

// CheckEpsilon returns an error if ε is strictly negative or +∞.
func CheckEpsilon(epsilon float64, name ...string) error {
	epsName, err := verifyName(epsilonName, name)
	if err != nil {
		return err
	}
	if epsilon < 0 || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return fmt.Errorf("%w: %s is %f, must be nonnegative and finite", ErrInvalidParameter, epsName, epsilon)
	}
	return nil
}

// CheckDelta returns an error if δ is NaN or outside of [0, 1].
func CheckDelta(delta float64, name ...string) error {
	delName, err := verifyName(deltaName, name)
	if err != nil {
		return err
	}
	if math.IsNaN(delta) {
		return fmt.Errorf("%w: %s is %e, cannot be NaN", ErrInvalidParameter, delName, delta)
	}
	if delta < 0 {
		return fmt.Errorf("%w: %s is %e, cannot be negative", ErrInvalidParameter, delName, delta)
	}
	if delta > 1 {
		return fmt.Errorf("%w: %s is %e, must be at most 1", ErrInvalidParameter, delName, delta)
	}
	return nil
}

// CheckDeltaStrict returns an error if δ is nonpositive or greater than or equal to 1.
func CheckDeltaStrict(delta float64, name ...string) error {
	delName, err := verifyName(deltaName, name)
	if err != nil {
		return err
	}
	if math.IsNaN(delta) {
		return fmt.Errorf("%w: %s is %e, cannot be NaN", ErrInvalidParameter, delName, delta)
	}
	if delta <= 0 {
		return fmt.Errorf("%w: %s is %e, must be strictly positive", ErrInvalidParameter, delName, delta)
	}
	if delta >= 1 {
		return fmt.Errorf("%w: %s is %e, must be strictly less than 1", ErrInvalidParameter, delName, delta)
	}
	return nil
}

// CheckNoDelta returns an error if δ is non-zero.
func CheckNoDelta(delta float64, name ...string) error {
	delName, err := verifyName(deltaName, name)
	if err != nil {
		return err
	}
	if delta != 0 {
		return fmt.Errorf("%w: %s is %e, must be 0", ErrInvalidParameter, delName, delta)
	}
	return nil
}

// CheckSensitivity returns an error if sensitivity is negative, NaN or +∞.
// A sensitivity of 0 is allowed and means that no noise is needed.
func CheckSensitivity(sensitivity float64, name ...string) error {
	sensName, err := verifyName(sensitivityName, name)
	if err != nil {
		return err
	}
	if sensitivity < 0 || math.IsInf(sensitivity, 0) || math.IsNaN(sensitivity) {
		return fmt.Errorf("%w: %s is %f, must be nonnegative and finite", ErrInvalidParameter, sensName, sensitivity)
	}
	if sensitivity == 0 {
		log.Warningf("%s is 0: no noise will be added", sensName)
	}
	return nil
}

// CheckSensitivityStrict returns an error if sensitivity is nonpositive, NaN or +∞.
func CheckSensitivityStrict(sensitivity float64, name ...string) error {
	sensName, err := verifyName(sensitivityName, name)
	if err != nil {
		return err
	}
	if sensitivity <= 0 || math.IsInf(sensitivity, 0) || math.IsNaN(sensitivity) {
		return fmt.Errorf("%w: %s is %f, must be strictly positive and finite", ErrInvalidParameter, sensName, sensitivity)
	}
	return nil
}

// CheckSensitivityInt64 returns an error if sensitivity is negative.
func CheckSensitivityInt64(sensitivity int64, name ...string) error {
	sensName, err := verifyName(sensitivityName, name)
	if err != nil {
		return err
	}
	if sensitivity < 0 {
		return fmt.Errorf("%w: %s is %d, must be nonnegative", ErrInvalidParameter, sensName, sensitivity)
	}
	if sensitivity == 0 {
		log.Warningf("%s is 0: no noise will be added", sensName)
	}
	return nil
}

// CheckValueFloat64 returns an error if value is NaN.
func CheckValueFloat64(value float64) error {
	if math.IsNaN(value) {
		return fmt.Errorf("%w: value cannot be NaN", ErrInvalidType)
	}
	return nil
}

// CheckBoundsFloat64 returns an error if either bound is NaN or if lower is
// larger than upper. Infinite bounds are accepted.
func CheckBoundsFloat64(lower, upper float64) error {
	if math.IsNaN(lower) {
		return fmt.Errorf("%w: Lower bound cannot be NaN", ErrInvalidType)
	}
	if math.IsNaN(upper) {
		return fmt.Errorf("%w: Upper bound cannot be NaN", ErrInvalidType)
	}
	if lower > upper {
		return fmt.Errorf("%w: Upper bound (%f) must be larger than lower bound (%f)", ErrInvalidRange, upper, lower)
	}
	if lower == upper {
		log.Warningf("Lower bound is equal to upper bound: all values will be mapped to %f", upper)
	}
	return nil
}

// CheckBoundsInt64 returns an error if lower is larger than upper, or if
// either bound cannot be represented exactly as a float64.
func CheckBoundsInt64(lower, upper int64) error {
	if lower < -MaxExactInt64 || lower > MaxExactInt64 {
		return fmt.Errorf("%w: Lower bound (%d) must be within [-2^53, 2^53]", ErrInvalidRange, lower)
	}
	if upper < -MaxExactInt64 || upper > MaxExactInt64 {
		return fmt.Errorf("%w: Upper bound (%d) must be within [-2^53, 2^53]", ErrInvalidRange, upper)
	}
	if lower > upper {
		return fmt.Errorf("%w: Upper bound (%d) must be larger than lower bound (%d)", ErrInvalidRange, upper, lower)
	}
	return nil
}

// CheckLabels returns an error if either label is empty or if both labels
// are equal.
func CheckLabels(value0, value1 string) error {
	if value0 == "" || value1 == "" {
		return fmt.Errorf("%w: Labels cannot be empty, got %q and %q", ErrInvalidParameter, value0, value1)
	}
	if value0 == value1 {
		return fmt.Errorf("%w: Labels must be different, got %q twice", ErrInvalidParameter, value0)
	}
	return nil
}
