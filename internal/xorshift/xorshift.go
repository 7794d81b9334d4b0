// Copyright 2023 The Go Authors. All rights reserved.  Use of this source code
// is governed by a BSD-style license that can be found at
// https://go.googlesource.com/go/+/refs/heads/master/LICENSE.

// Package xorshift is a small, fast, non-cryptographic PRNG for the bundled
// reference schedulers. It must never be used by the interpreter core
// itself — scheduler decisions are the only source of non-determinism the
// driver consults, and core state stays a pure function of them.
package xorshift

import "math/bits"

// Source is a minimal PRNG, seeded explicitly so two Sources built from the
// same seed produce the same sequence.
type Source struct {
	state uint64
}

// New builds a Source seeded with seed. A zero seed is fine: the first call
// still mixes it through the multiplier.
func New(seed uint64) *Source {
	return &Source{state: seed}
}

// Uint64 returns the next pseudo-random value in the sequence.
func (s *Source) Uint64() uint64 {
	s.state += 0xa0761d6478bd642f
	hi, lo := bits.Mul64(s.state, s.state^0xe7037ed1a0b428db)
	return hi ^ lo
}

// Intn returns a pseudo-random value in [0, n). n must be positive.
func (s *Source) Intn(n int) int {
	return int(uint64(uint32(s.Uint64())) * uint64(n) >> 32)
}
