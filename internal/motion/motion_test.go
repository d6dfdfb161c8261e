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

package motion

import (
	"math"
	"testing"

	"github.com/simcad/simcad/internal/rng"
)

type gaussianKernel1DTestCase struct {
	Sigma  float64
	Radius int
}

func TestGaussianKernel1D(t *testing.T) {
	epsilon := 1e-9
	tcs := []gaussianKernel1DTestCase{
		{1.0, 1},
		{2.0, 4},
		{3.0, 6},
	}
	for _, tc := range tcs {
		kernel := GaussianKernel1D(tc.Sigma)
		if len(kernel) != 2*tc.Radius+1 {
			t.Errorf("sigma=%g kernel width %d; want %d", tc.Sigma, len(kernel), 2*tc.Radius+1)
		}
		sum := 0.0
		for i, k := range kernel {
			if mirror := kernel[len(kernel)-1-i]; k != mirror {
				t.Errorf("sigma=%g kernel not symmetric at %d", tc.Sigma, i)
			}
			sum += k
		}
		if math.Abs(sum-1) > epsilon {
			t.Errorf("sigma=%g kernel sums to %f; want 1", tc.Sigma, sum)
		}
	}
}

func TestGaussianKernel1DZeroSigma(t *testing.T) {
	kernel := GaussianKernel1D(0)
	if len(kernel) != 1 || kernel[0] != 1 {
		t.Errorf("zero sigma kernel %v; want identity", kernel)
	}
}

func TestGenerateZeroMaxShift(t *testing.T) {
	m := Model{MaxShift: 0, SmoothingSigma: 2}
	path := m.Generate(100, rng.Source(1, 0))
	if len(path) != 100 {
		t.Fatalf("path length %d; want 100", len(path))
	}
	for i, s := range path {
		if s.Dy != 0 || s.Dx != 0 {
			t.Errorf("frame %d shift (%d,%d); want (0,0)", i, s.Dy, s.Dx)
		}
	}
}

func TestGenerateDeterminism(t *testing.T) {
	m := Model{MaxShift: 5, SmoothingSigma: 2}
	a := m.Generate(200, rng.Source(11, 0))
	b := m.Generate(200, rng.Source(11, 0))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("paths diverge at frame %d", i)
		}
	}
}

// Smoothing must correlate consecutive shifts: the summed squared step
// between neighbors shrinks relative to the unsmoothed trajectory.
func TestGenerateSmoothingCorrelatesShifts(t *testing.T) {
	rough := Model{MaxShift: 8, SmoothingSigma: 0}
	smooth := Model{MaxShift: 8, SmoothingSigma: 5}
	a := rough.Generate(500, rng.Source(3, 0))
	b := smooth.Generate(500, rng.Source(3, 0))
	if stepEnergy(b) >= stepEnergy(a) {
		t.Errorf("smoothed step energy %f not below rough %f", stepEnergy(b), stepEnergy(a))
	}
}

func stepEnergy(p Path) float64 {
	sum := 0.0
	for i := 1; i < len(p); i++ {
		dy := float64(p[i].Dy - p[i-1].Dy)
		dx := float64(p[i].Dx - p[i-1].Dx)
		sum += dy*dy + dx*dx
	}
	return sum
}
