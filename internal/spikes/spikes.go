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

// Package spikes generates binary spike trains for simulated cells,
// using either a two-state Markov chain or a discrete-time Hawkes process.
package spikes

import (
	"errors"
	"math"

	"golang.org/x/exp/rand"
)

// A binary event sequence for one cell, one entry per frame.
type Train []uint8

// Count returns the number of spikes in the train.
func (t Train) Count() int {
	n := 0
	for _, s := range t {
		n += int(s)
	}
	return n
}

// Returned when rejection sampling fails to produce a train with at least
// one spike within the retry limit.
var ErrExhausted = errors.New("spike generation retries exhausted")

// Generates a spike train of the given length, guaranteed non-all-zero.
// Implementations draw only from the provided random stream.
type Generator interface {
	Generate(frames int, rng *rand.Rand) (Train, error)
	Validate() error
}

// A 2x2 matrix of transition probabilities between the silent (0) and
// spiking (1) states. Row i holds the outgoing probabilities of state i.
type TransitionMatrix [2][2]float64

const rowSumTolerance = 1e-6

// Checks that all entries are probabilities and each row sums to 1
// within floating tolerance.
func (p *TransitionMatrix) Validate() error {
	for i := 0; i < 2; i++ {
		sum := 0.0
		for j := 0; j < 2; j++ {
			if p[i][j] < 0 || p[i][j] > 1 {
				return errors.New("transition probabilities must lie in [0,1]")
			}
			sum += p[i][j]
		}
		if math.Abs(sum-1) > rowSumTolerance {
			return errors.New("each transition matrix row must sum to 1")
		}
	}
	return nil
}

// The default transition matrix: rare switches between sustained silent
// and spiking episodes.
func DefaultTransitionMatrix() TransitionMatrix {
	return TransitionMatrix{
		{0.98, 0.02},
		{0.02, 0.98},
	}
}
