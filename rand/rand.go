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

// Package rand provides cryptographically secure random numbers from the
// distributions that the noise samplers and mechanisms draw from.
//
// All functions are safe for concurrent use.
package rand

import (
	"bufio"
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	"math"
	"math/bits"
	"sync"

	log "github.com/golang/glog"
)

// byteSource serialises reads from a buffered source of random bytes.
type byteSource struct {
	mu sync.Mutex
	r  io.Reader
}

func (s *byteSource) read(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.ReadFull(s.r, b); err != nil {
		log.Fatalf("out of randomness, should never happen: %v", err)
	}
}

// bitSource hands out the bits of one random byte at a time.
type bitSource struct {
	mu  sync.Mutex
	buf uint8
	pos int8
}

func (s *bitSource) next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos > 7 { // Out of random bits.
		s.buf = U8()
		s.pos = 0
	}
	res := s.buf&(1<<s.pos) > 0
	s.pos++
	return res
}

var (
	bytes  = &byteSource{r: bufio.NewReaderSize(cryptorand.Reader, 65536)}
	bitBuf = &bitSource{pos: math.MaxInt8}
)

// U64 returns a uniformly random uint64.
func U64() uint64 {
	var r [8]uint8
	bytes.read(r[:])
	return binary.LittleEndian.Uint64(r[:])
}

// U8 returns a uniformly random uint8.
func U8() uint8 {
	var r [1]uint8
	bytes.read(r[:])
	return r[0]
}

// Boolean returns true or false with equal probability.
func Boolean() bool {
	return bitBuf.next()
}

// Sign returns +1.0 or -1.0 with equal probabilities.
func Sign() float64 {
	if Boolean() {
		return 1.0
	}
	return -1.0
}

// I63n returns an integer from the set {0,...,n-1} uniformly at random.
// The value of n must be positive.
func I63n(n int64) int64 {
	largestMultipleOfN := (math.MaxInt64 / n) * n
	for {
		// Draw random 64 bit sequence and set sign bit to 0.
		r := int64(U64() & math.MaxInt64)
		if r < largestMultipleOfN {
			return r % n
		}
	}
}

// Uniform returns a float64 from the interval (0,1] such that each float
// in the interval is returned with positive probability and the resulting
// distribution simulates a continuous uniform distribution on (0, 1].
func Uniform() float64 {
	i := U64() % (1 << 53)
	r := (1 + float64(i)/(1<<53)) / math.Pow(2, Geometric())
	// Callers take the log of the output, so 0 is never returned.
	if r == 0 {
		return 1
	}
	return r
}

// Geometric returns a float64 that counts the number of Bernoulli trials until
// the first success for a success probability of 0.5.
func Geometric() float64 {
	// 1 plus the number of leading zeros from an infinite stream of random bits
	// follows the desired geometric distribution.
	b := 1
	var r uint8
	for r == 0 {
		r = U8()
		b += bits.LeadingZeros8(r)
	}
	return float64(b)
}

// Bernoulli returns true with probability p. Values of p outside of [0, 1]
// are treated as 0 or 1 respectively.
func Bernoulli(p float64) bool {
	if p <= 0 || math.IsNaN(p) {
		return false
	}
	if p >= 1 {
		return true
	}
	// Uniform is supported on (0, 1], so Pr[Uniform() <= p] = p.
	return Uniform() <= p
}
