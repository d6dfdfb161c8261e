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

// Package compose combines footprints, traces, background, motion and noise
// into the final 8-bit movie.
package compose

import (
	"errors"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/simcad/simcad/internal/calcium"
	"github.com/simcad/simcad/internal/frame"
	"github.com/simcad/simcad/internal/motion"
)

// Compositor renders movie frames. Per frame t:
//  1. raw = Background + sum over cells of trace[cell][t]*CellSNR*footprint[cell]
//  2. translate by the frame's motion shift, filling exposed borders with
//     Background (always passed explicitly, never an implicit zero fill)
//  3. add i.i.d. Gaussian noise of NoiseSigma to every pixel
//  4. clip to [0,255] and quantize to 8 bits
type Compositor struct {
	Background float32 `json:"background"`
	CellSNR    float32 `json:"cellSNR"`
	NoiseSigma float64 `json:"noiseSigma"`
	MaxThreads int     `json:"maxThreads"`
}

// Renders all frames. noiseSrc must return an independent deterministic
// random source for each frame index; frames are rendered in parallel and
// per-frame sources keep the output independent of scheduling order.
func (c *Compositor) Composite(footprints []*frame.Frame, traces []calcium.Trace,
	path motion.Path, noiseSrc func(t int32) rand.Source) (*frame.Movie, error) {
	if len(footprints) != len(traces) {
		return nil, errors.New("footprint and trace counts differ")
	}
	if len(footprints) == 0 {
		return nil, errors.New("no cells to composite")
	}
	frames := int32(len(path))
	width, height := footprints[0].Width, footprints[0].Height
	movie := frame.NewMovie(frames, height, width)

	maxThreads := c.MaxThreads
	if maxThreads < 1 {
		maxThreads = 1
	}
	limiter := make(chan bool, maxThreads)
	for t := int32(0); t < frames; t++ {
		limiter <- true
		go func(t int32) {
			defer func() { <-limiter }()
			c.renderFrame(movie, t, footprints, traces, path[t], noiseSrc(t))
		}(t)
	}
	for i := 0; i < cap(limiter); i++ { // wait for goroutines to finish
		limiter <- true
	}
	return movie, nil
}

func (c *Compositor) renderFrame(movie *frame.Movie, t int32, footprints []*frame.Frame,
	traces []calcium.Trace, shift motion.Shift, src rand.Source) {
	width, height := footprints[0].Width, footprints[0].Height

	// accumulate cell signals over the background
	acc := frame.New(width, height)
	acc.Fill(c.Background)
	for i, fp := range footprints {
		weight := traces[i][t] * c.CellSNR
		if weight == 0 {
			continue
		}
		for j, d := range fp.Data {
			acc.Data[j] += weight * d
		}
	}

	// motion: explicit index-remap translation, background fill
	shifted := acc
	if shift.Dy != 0 || shift.Dx != 0 {
		shifted = acc.Shift(shift.Dy, shift.Dx, c.Background)
	}

	// noise, clipping and 8-bit quantization
	out := movie.Frame(t)
	if c.NoiseSigma > 0 {
		normal := distuv.Normal{Mu: 0, Sigma: c.NoiseSigma, Src: src}
		for j, d := range shifted.Data {
			out[j] = quantize(d + float32(normal.Rand()))
		}
	} else {
		for j, d := range shifted.Data {
			out[j] = quantize(d)
		}
	}
}

// Clips to [0,255] and truncates to an 8-bit pixel value.
func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
