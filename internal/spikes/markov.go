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
	"fmt"

	"golang.org/x/exp/rand"
)

// Markov generates spike trains from a two-state Markov chain over
// {silent, spiking}. The initial state is silent; every later state is
// drawn from the transition matrix row of its predecessor.
type Markov struct {
	P          TransitionMatrix `json:"transitionMatrix"`
	MaxRetries int              `json:"maxRetries"`
}

func NewMarkov(p TransitionMatrix, maxRetries int) *Markov {
	return &Markov{P: p, MaxRetries: maxRetries}
}

func (m *Markov) Validate() error {
	return m.P.Validate()
}

// Generates a spike train of the given length. All-zero candidates are
// rejected and resampled from scratch, up to MaxRetries attempts.
func (m *Markov) Generate(frames int, rng *rand.Rand) (Train, error) {
	for attempt := 0; attempt <= m.MaxRetries; attempt++ {
		train := make(Train, frames)
		state := uint8(0) // start silent
		for i := 1; i < frames; i++ {
			if rng.Float64() < m.P[state][1] {
				state = 1
			} else {
				state = 0
			}
			train[i] = state
		}
		if train.Count() > 0 {
			return train, nil
		}
	}
	return nil, fmt.Errorf("markov: %w after %d attempts", ErrExhausted, m.MaxRetries+1)
}
