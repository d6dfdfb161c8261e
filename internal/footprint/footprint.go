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

// Package footprint synthesizes per-cell spatial intensity maps as
// axis-aligned anisotropic Gaussians over the full frame grid.
package footprint

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/simcad/simcad/internal/frame"
)

// Minimum distance of a footprint center from the frame border, in pixels.
const Pad int32 = 5

// The range footprint standard deviations are drawn from, per axis.
type SigmaRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Synthesizer draws a random center and per-axis sigmas, then evaluates a
// diagonal-covariance Gaussian density over every pixel of the grid.
type Synthesizer struct {
	Sigma SigmaRange
}

// Generates one cell footprint, min-max normalized to [0,1]. The center is
// uniform within [Pad, dim-Pad) on each axis; sigmas are independent
// uniform draws from the configured range. degenerate reports a footprint
// with no dynamic range, for which normalization division was skipped.
func (s *Synthesizer) Generate(height, width int32, rng *rand.Rand) (fp *frame.Frame, degenerate bool) {
	cy := float64(Pad + int32(rng.Intn(int(height-2*Pad))))
	cx := float64(Pad + int32(rng.Intn(int(width-2*Pad))))
	sigma := distuv.Uniform{Min: s.Sigma.Min, Max: s.Sigma.Max, Src: rng}
	sy := sigma.Rand()
	sx := sigma.Rand()

	fp = frame.New(width, height)
	norm := 1.0 / (2 * math.Pi * sy * sx)
	for y := int32(0); y < height; y++ {
		dy := (float64(y) - cy) / sy
		row := fp.Data[y*width : (y+1)*width]
		for x := int32(0); x < width; x++ {
			dx := (float64(x) - cx) / sx
			row[x] = float32(norm * math.Exp(-0.5*(dy*dy+dx*dx)))
		}
	}
	degenerate = fp.Normalize()
	return fp, degenerate
}
