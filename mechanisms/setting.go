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

	"github.com/dpmechanisms/go/checks"
)

// setting is a write-once value. It starts out unset; set moves it to the
// set state exactly once and it never changes afterwards.
type setting[T any] struct {
	value T
	ok    bool
}

func (s setting[T]) get() (T, bool) {
	return s.value, s.ok
}

// require returns the value of s, or an error wrapping checks.ErrNotConfigured
// naming the setting if s is unset.
func (s setting[T]) require(name string) (T, error) {
	if !s.ok {
		var zero T
		return zero, fmt.Errorf("%w: %s must be set", checks.ErrNotConfigured, name)
	}
	return s.value, nil
}

// set stores v if s is unset and v passes validate. On error s is left
// untouched. A nil validate accepts every value.
func (s *setting[T]) set(name string, v T, validate func(T) error) error {
	if s.ok {
		return alreadySet(name)
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return err
		}
	}
	s.value, s.ok = v, true
	return nil
}

func alreadySet(name string) error {
	return fmt.Errorf("%w: %s cannot be reset; create a new mechanism instead", checks.ErrAlreadySet, name)
}
