// Copyright (C) 2025 The SimCaD Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package rng derives deterministic, index-addressable random sub-streams
// from a single base seed. Every per-cell and per-frame computation draws
// from its own stream, so parallel execution order never changes which
// random values feed which output index.
package rng

import (
	"golang.org/x/exp/rand"
)

// Weyl increment and finalizer from splitmix64. Distinct stream indices
// land on well-separated points of the underlying generator state space.
const weyl uint64 = 0x9e3779b97f4a7c15

func mix(z uint64) uint64 {
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	return z
}

// Source returns a seedable PCG source for the given base seed and stream index.
// The same (seed, stream) pair always yields the same sequence.
func Source(seed, stream uint64) rand.Source {
	return rand.NewSource(mix(seed + (stream+1)*weyl))
}

// New returns a full random generator for the given base seed and stream index.
func New(seed, stream uint64) *rand.Rand {
	return rand.New(Source(seed, stream))
}
