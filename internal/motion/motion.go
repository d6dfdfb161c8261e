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

// Package motion produces per-frame integer displacement trajectories
// modeling sample drift: white Gaussian noise per axis, smoothed along the
// frame index so consecutive shifts are correlated, then rounded.
package motion

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// An integer 2D displacement for one frame.
type Shift struct {
	Dy int32 `json:"dy"`
	Dx int32 `json:"dx"`
}

// A displacement trajectory, one shift per frame.
type Path []Shift

// Model generates temporally smoothed drift trajectories. The raw noise
// standard deviation is MaxShift/3, so shifts rarely exceed MaxShift.
type Model struct {
	MaxShift       int32   `json:"maxShift"`
	SmoothingSigma float64 `json:"smoothingSigma"`
}

// Generates a trajectory of the given length, drawing only from src.
func (m *Model) Generate(frames int32, src rand.Source) Path {
	normal := distuv.Normal{Mu: 0, Sigma: float64(m.MaxShift) / 3.0, Src: src}
	rawY := make([]float64, frames)
	rawX := make([]float64, frames)
	if m.MaxShift != 0 {
		for i := range rawY {
			rawY[i] = normal.Rand()
			rawX[i] = normal.Rand()
		}
	}

	kernel := GaussianKernel1D(m.SmoothingSigma)
	smoothY := convolve1D(rawY, kernel)
	smoothX := convolve1D(rawX, kernel)

	path := make(Path, frames)
	for i := range path {
		path[i] = Shift{
			Dy: int32(math.Round(smoothY[i])),
			Dx: int32(math.Round(smoothX[i])),
		}
	}
	return path
}

// Returns the definite integral of the gaussian function with midpoint mu
// and standard deviation sigma for input x
func gaussianDefiniteIntegral(mu, sigma, x float64) float64 {
	return 0.5 * (1 + math.Erf((x-mu)/(math.Sqrt2*sigma)))
}

// Generates a 1D gaussian kernel for the given sigma, normalized to sum 1.
// Based on symbolic integration via the error function. Sigma <= 0 yields
// the identity kernel.
func GaussianKernel1D(sigma float64) (kernel []float64) {
	if sigma <= 0 {
		return []float64{1}
	}
	mu := 0.0

	// Find minimal kernel width for which the area under the curve left of
	// the kernel is below the acceptable error
	acceptOut := 0.01
	radius := 0
	for {
		val := gaussianDefiniteIntegral(mu, sigma, -0.5-float64(radius))
		if val < acceptOut {
			radius--
			break
		}
		radius++
	}
	if radius < 0 {
		radius = 0
	}
	width := 2*radius + 1
	kernel = make([]float64, width)

	// Calculate left half of the kernel via symbolic integration
	sum := 0.0
	lower := gaussianDefiniteIntegral(mu, sigma, -0.5-float64(radius))
	for i := 0; i <= radius; i++ {
		upper := gaussianDefiniteIntegral(mu, sigma, -0.5-float64(radius)+float64(i+1))
		delta := upper - lower
		kernel[i] = delta
		sum += delta
		lower = upper
	}

	// Mirror right half of the kernel to avoid numeric instability
	for i := 1; i <= radius; i++ {
		value := kernel[radius-i]
		kernel[radius+i] = value
		sum += value
	}

	// Normalize the sum of the kernel to 1, for dealing with the truncated
	// part of the distribution
	factor := 1.0 / sum
	for i := range kernel {
		kernel[i] *= factor
	}
	return kernel
}

// Check if coordinate is within [0, size-1], and if not, reflect out of
// bounds coordinates back into the value range
func reflect(size, x int) int {
	if x < 0 {
		return -x - 1
	}
	if x >= size {
		return 2*size - x - 1
	}
	return x
}

// Convolves the 1D series with the given kernel, reflecting at boundaries.
func convolve1D(data []float64, kernel []float64) []float64 {
	res := make([]float64, len(data))
	k := len(kernel) / 2
	for i := range data {
		sum := 0.0
		for j, kv := range kernel {
			idx := reflect(len(data), i+j-k)
			sum += data[idx] * kv
		}
		res[i] = sum
	}
	return res
}
