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

package rng

import (
	"testing"
)

func TestStreamsAreReproducible(t *testing.T) {
	for stream := uint64(0); stream < 16; stream++ {
		a := New(42, stream)
		b := New(42, stream)
		for i := 0; i < 100; i++ {
			if av, bv := a.Uint64(), b.Uint64(); av != bv {
				t.Fatalf("stream %d diverges at draw %d: %d vs %d", stream, i, av, bv)
			}
		}
	}
}

func TestStreamsDiffer(t *testing.T) {
	// distinct stream indices must yield distinct sequences
	a := New(42, 0)
	b := New(42, 1)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	if same > 0 {
		t.Errorf("streams 0 and 1 collide on %d of 100 draws", same)
	}
}

func TestSeedsDiffer(t *testing.T) {
	a := New(1, 0)
	b := New(2, 0)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	if same > 0 {
		t.Errorf("seeds 1 and 2 collide on %d of 100 draws", same)
	}
}
