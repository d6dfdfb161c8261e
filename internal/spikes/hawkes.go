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
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// Hawkes generates spike trains from a discrete-time self-exciting point
// process. The intensity at step i is
//
//	lambda_i = mu + sum over prior spikes k of alpha*exp(-(i-k)/tau)
//
// clamped to 1 so it remains a valid Bernoulli probability. Past spikes
// temporarily raise the firing probability, producing bursty trains.
type Hawkes struct {
	Mu         float64 `json:"mu"`    // baseline firing probability per frame
	Alpha      float64 `json:"alpha"` // excitation added by a single spike
	Tau        float64 `json:"tau"`   // decay time constant of the excitation
	MaxRetries int     `json:"maxRetries"`
}

func NewHawkes(mu, alpha, tau float64, maxRetries int) *Hawkes {
	return &Hawkes{Mu: mu, Alpha: alpha, Tau: tau, MaxRetries: maxRetries}
}

func (h *Hawkes) Validate() error {
	if h.Mu <= 0 || h.Mu >= 1 {
		return errors.New("hawkes baseline mu must lie in (0,1)")
	}
	if h.Alpha <= 0 {
		return errors.New("hawkes excitation alpha must be positive")
	}
	if h.Tau <= 0 {
		return errors.New("hawkes time constant tau must be positive")
	}
	return nil
}

// Generates a spike train of the given length. All-zero candidates are
// rejected and resampled from scratch, up to MaxRetries attempts.
//
// The naive intensity sum over all prior spikes is O(N^2). Because the
// exponential decomposes multiplicatively across steps, a single running
// excitation term decayed by exp(-1/tau) per frame is equivalent and O(N).
func (h *Hawkes) Generate(frames int, rng *rand.Rand) (Train, error) {
	decay := math.Exp(-1.0 / h.Tau)
	for attempt := 0; attempt <= h.MaxRetries; attempt++ {
		train := make(Train, frames)
		excite := 0.0
		for i := 0; i < frames; i++ {
			lambda := h.Mu + excite
			if lambda > 1 {
				lambda = 1
			}
			spiked := 0.0
			if rng.Float64() < lambda {
				train[i] = 1
				spiked = h.Alpha
			}
			excite = (excite + spiked) * decay
		}
		if train.Count() > 0 {
			return train, nil
		}
	}
	return nil, fmt.Errorf("hawkes: %w after %d attempts", ErrExhausted, h.MaxRetries+1)
}
