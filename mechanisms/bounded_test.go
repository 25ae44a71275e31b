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
	"errors"
	"math"
	"testing"

	"github.com/dpmechanisms/go/checks"
)

// boundedDomain is implemented by Truncation and Folding.
type boundedDomain interface {
	SetBounds(lower, upper float64) error
	Bounds() (lower, upper float64, ok bool)
	CheckInputs() error
	String() string
}

func boundedDomains() map[string]func() boundedDomain {
	return map[string]func() boundedDomain{
		"Truncation": func() boundedDomain { return &Truncation{} },
		"Folding":    func() boundedDomain { return &Folding{} },
	}
}

func TestSetBounds(t *testing.T) {
	for name, newDomain := range boundedDomains() {
		for _, tc := range []struct {
			desc         string
			lower, upper float64
			wantErr      error
		}{
			{"ordered", 0, 10, nil},
			{"equal", 3, 3, nil},
			{"half infinite", math.Inf(-1), 0, nil},
			{"lower larger than upper", 10, 0, checks.ErrInvalidRange},
			{"NaN lower", math.NaN(), 10, checks.ErrInvalidType},
			{"NaN upper", 0, math.NaN(), checks.ErrInvalidType},
		} {
			d := newDomain()
			err := d.SetBounds(tc.lower, tc.upper)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("%s.SetBounds: when %s got err %v, want %v", name, tc.desc, err, tc.wantErr)
			}
			lower, upper, ok := d.Bounds()
			if ok != (tc.wantErr == nil) {
				t.Errorf("%s.SetBounds: when %s got bounds set = %t, want %t", name, tc.desc, ok, tc.wantErr == nil)
			}
			if ok && (lower != tc.lower || upper != tc.upper) {
				t.Errorf("%s.Bounds: when %s got (%f, %f), want (%f, %f)", name, tc.desc, lower, upper, tc.lower, tc.upper)
			}
		}
	}
}

func TestSetBoundsAfterFailureSucceeds(t *testing.T) {
	for name, newDomain := range boundedDomains() {
		d := newDomain()
		if err := d.SetBounds(10, 0); err == nil {
			t.Fatalf("%s.SetBounds(10, 0): got nil err", name)
		}
		if err := d.SetBounds(0, 10); err != nil {
			t.Errorf("%s.SetBounds(0, 10) after a failure: got err %v", name, err)
		}
	}
}

func TestSetBoundsTwiceIsAlreadySet(t *testing.T) {
	for name, newDomain := range boundedDomains() {
		d := newDomain()
		if err := d.SetBounds(0, 10); err != nil {
			t.Fatalf("%s.SetBounds: got err %v", name, err)
		}
		for _, bounds := range [][2]float64{{0, 10}, {1, 2}, {10, 0}, {math.NaN(), 0}} {
			if err := d.SetBounds(bounds[0], bounds[1]); !errors.Is(err, checks.ErrAlreadySet) {
				t.Errorf("%s.SetBounds(%f, %f): got err %v, want ErrAlreadySet", name, bounds[0], bounds[1], err)
			}
		}
		if lower, upper, _ := d.Bounds(); lower != 0 || upper != 10 {
			t.Errorf("%s.Bounds: got (%f, %f), want (0, 10)", name, lower, upper)
		}
	}
}

func TestBoundedDomainCheckInputs(t *testing.T) {
	for name, newDomain := range boundedDomains() {
		d := newDomain()
		if err := d.CheckInputs(); !errors.Is(err, checks.ErrNotConfigured) {
			t.Errorf("%s.CheckInputs before SetBounds: got err %v, want ErrNotConfigured", name, err)
		}
		if got := d.String(); got != "" {
			t.Errorf("%s.String before SetBounds: got %q, want \"\"", name, got)
		}
		if err := d.SetBounds(-1, 2.5); err != nil {
			t.Fatalf("%s.SetBounds: got err %v", name, err)
		}
		if err := d.CheckInputs(); err != nil {
			t.Errorf("%s.CheckInputs: got err %v, want nil", name, err)
		}
		if got, want := d.String(), ".SetBounds(-1, 2.5)"; got != want {
			t.Errorf("%s.String: got %q, want %q", name, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	var tr Truncation
	if _, err := tr.Truncate(1); !errors.Is(err, checks.ErrNotConfigured) {
		t.Errorf("Truncate before SetBounds: got err %v, want ErrNotConfigured", err)
	}
	if err := tr.SetBounds(0, 10); err != nil {
		t.Fatalf("SetBounds: got err %v", err)
	}
	for _, tc := range []struct {
		value, want float64
	}{
		{-5, 0},
		{0, 0},
		{5, 5},
		{10, 10},
		{15, 10},
	} {
		got, err := tr.Truncate(tc.value)
		if err != nil {
			t.Fatalf("Truncate(%f): got err %v", tc.value, err)
		}
		if got != tc.want {
			t.Errorf("Truncate(%f): got %f, want %f", tc.value, got, tc.want)
		}
		if again, _ := tr.Truncate(got); again != got {
			t.Errorf("Truncate(Truncate(%f)): got %f, want %f", tc.value, again, got)
		}
	}
}

func TestTruncateDegenerateBounds(t *testing.T) {
	var tr Truncation
	if err := tr.SetBounds(3, 3); err != nil {
		t.Fatalf("SetBounds: got err %v", err)
	}
	for _, value := range []float64{-100, 3, 100} {
		if got, _ := tr.Truncate(value); got != 3 {
			t.Errorf("Truncate(%f): got %f, want 3", value, got)
		}
	}
}

func TestFold(t *testing.T) {
	var f Folding
	if _, err := f.Fold(1); !errors.Is(err, checks.ErrNotConfigured) {
		t.Errorf("Fold before SetBounds: got err %v, want ErrNotConfigured", err)
	}
	if err := f.SetBounds(0, 10); err != nil {
		t.Fatalf("SetBounds: got err %v", err)
	}
	for _, tc := range []struct {
		value, want float64
	}{
		{-5, 5},
		{15, 5},
		{25, 5},
		{5, 5},
		{0, 0},
		{10, 10},
		{12.5, 7.5},
		{-2.5, 2.5},
	} {
		got, err := f.Fold(tc.value)
		if err != nil {
			t.Fatalf("Fold(%f): got err %v", tc.value, err)
		}
		if !nearEqual(got, tc.want, 1e-12) {
			t.Errorf("Fold(%f): got %f, want %f", tc.value, got, tc.want)
		}
		if again, _ := f.Fold(got); again != got {
			t.Errorf("Fold(Fold(%f)): got %f, want %f", tc.value, again, got)
		}
	}
}

func TestFoldDegenerateBounds(t *testing.T) {
	var f Folding
	if err := f.SetBounds(3, 3); err != nil {
		t.Fatalf("SetBounds: got err %v", err)
	}
	for _, value := range []float64{-100, 3, 3.5, 100} {
		if got, _ := f.Fold(value); got != 3 {
			t.Errorf("Fold(%f): got %f, want 3", value, got)
		}
	}
}

func TestFoldFarOutsideIsConstantTime(t *testing.T) {
	var f Folding
	if err := f.SetBounds(0, 1); err != nil {
		t.Fatalf("SetBounds: got err %v", err)
	}
	got, err := f.Fold(1e300)
	if err != nil {
		t.Fatalf("Fold: got err %v", err)
	}
	if got < 0 || got > 1 {
		t.Errorf("Fold(1e300): got %f, want a value in [0, 1]", got)
	}
}
