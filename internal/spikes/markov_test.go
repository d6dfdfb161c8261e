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

package spikes

import (
	"errors"
	"testing"

	"github.com/simcad/simcad/internal/rng"
)

func TestTransitionMatrixValidate(t *testing.T) {
	good := DefaultTransitionMatrix()
	if err := good.Validate(); err != nil {
		t.Errorf("default matrix rejected: %s", err.Error())
	}

	bad := TransitionMatrix{{0.5, 0.4}, {0.1, 0.9}}
	if err := bad.Validate(); err == nil {
		t.Errorf("row summing to 0.9 accepted")
	}

	negative := TransitionMatrix{{1.2, -0.2}, {0.5, 0.5}}
	if err := negative.Validate(); err == nil {
		t.Errorf("negative probability accepted")
	}
}

func TestMarkovGenerate(t *testing.T) {
	gen := NewMarkov(DefaultTransitionMatrix(), 100)
	for seed := uint64(0); seed < 20; seed++ {
		train, err := gen.Generate(200, rng.New(seed, 0))
		if err != nil {
			t.Fatalf("seed %d: %s", seed, err.Error())
		}
		if len(train) != 200 {
			t.Fatalf("seed %d: train length %d; want 200", seed, len(train))
		}
		if train[0] != 0 {
			t.Errorf("seed %d: initial state not silent", seed)
		}
		if train.Count() == 0 {
			t.Errorf("seed %d: train has no spikes", seed)
		}
	}
}

func TestMarkovDeterminism(t *testing.T) {
	gen := NewMarkov(DefaultTransitionMatrix(), 100)
	a, err := gen.Generate(500, rng.New(7, 3))
	if err != nil {
		t.Fatal(err)
	}
	b, err := gen.Generate(500, rng.New(7, 3))
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("trains diverge at frame %d", i)
		}
	}
}

func TestMarkovExhausted(t *testing.T) {
	// a chain that can never leave the silent state
	stuck := TransitionMatrix{{1, 0}, {0, 1}}
	gen := NewMarkov(stuck, 10)
	_, err := gen.Generate(100, rng.New(1, 0))
	if err == nil {
		t.Fatalf("expected retry exhaustion")
	}
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("error %v does not wrap ErrExhausted", err)
	}
}
