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

// Package calcium converts binary spike trains into continuous fluorescence
// traces, modeling calcium-indicator dynamics with either a second-order
// recursive filter or a bi-exponential convolution kernel.
package calcium

import (
	"errors"
	"math"

	"github.com/simcad/simcad/internal/spikes"
)

// A fluorescence time course for one cell, one sample per frame.
// Causal: Trace[n] depends only on spikes [0..n].
type Trace []float32

// Converts a spike train into a calcium trace. Both implementations expect
// tauDecay > tauRise > 0 (decay slower than rise); this is a recommended
// precondition, not enforced per sample.
type Filter interface {
	Apply(train spikes.Train) Trace
	Validate() error
}

// AR2 filters spike trains with a second-order linear recurrence
//
//	C[n] = s[n] + theta1*C[n-1] + theta2*C[n-2]
//
// whose coefficients derive from the decay and rise time constants:
// theta1 = e^{-1/tauDecay} + e^{-1/tauRise}, theta2 = -e^{-1/tauDecay}*e^{-1/tauRise}.
type AR2 struct {
	TauDecay float64 `json:"tauDecay"`
	TauRise  float64 `json:"tauRise"`
}

func (f *AR2) Validate() error { return validateTaus(f.TauDecay, f.TauRise) }

// Returns the two feedback coefficients for the configured time constants.
func (f *AR2) Coeffs() (theta1, theta2 float64) {
	z1 := math.Exp(-1.0 / f.TauDecay)
	z2 := math.Exp(-1.0 / f.TauRise)
	return z1 + z2, -z1 * z2
}

// Applies the recurrence. Strictly sequential within one train; the IIR
// feedback cannot be evaluated out of order.
func (f *AR2) Apply(train spikes.Train) Trace {
	theta1, theta2 := f.Coeffs()
	trace := make(Trace, len(train))
	var c1, c2 float64 // C[n-1], C[n-2]
	for i, s := range train {
		c := float64(s)
		if i >= 1 {
			c += theta1 * c1
		}
		if i >= 2 {
			c += theta2 * c2
		}
		trace[i] = float32(c)
		c2, c1 = c1, c
	}
	return trace
}

// BiExp filters spike trains by causal convolution with a difference of
// exponentials kernel(t) = e^{-t/tauDecay} - e^{-t/tauRise}, sampled at
// integer lags.
type BiExp struct {
	TauDecay float64 `json:"tauDecay"`
	TauRise  float64 `json:"tauRise"`
}

func (f *BiExp) Validate() error { return validateTaus(f.TauDecay, f.TauRise) }

// Returns the convolution kernel sampled at lags 0..length-1.
func (f *BiExp) Kernel(length int) []float64 {
	kernel := make([]float64, length)
	for t := range kernel {
		kernel[t] = math.Exp(-float64(t)/f.TauDecay) - math.Exp(-float64(t)/f.TauRise)
	}
	return kernel
}

// Applies the leading-truncated linear convolution, yielding a trace of the
// same length as the train.
func (f *BiExp) Apply(train spikes.Train) Trace {
	kernel := f.Kernel(len(train))
	trace := make(Trace, len(train))
	for n := range trace {
		sum := 0.0
		for k := 0; k <= n; k++ {
			if train[k] != 0 {
				sum += kernel[n-k]
			}
		}
		trace[n] = float32(sum)
	}
	return trace
}

func validateTaus(tauDecay, tauRise float64) error {
	if tauDecay <= 0 {
		return errors.New("tauDecay must be positive")
	}
	if tauRise <= 0 {
		return errors.New("tauRise must be positive")
	}
	return nil
}
