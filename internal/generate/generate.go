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

// Package generate orchestrates the full movie synthesis pipeline:
// motion and footprints run independently of spike generation, spikes feed
// the calcium filter per cell, and the compositor consumes all four.
package generate

import (
	"fmt"
	"io"
	"runtime"

	"github.com/pbnjay/memory"
	"golang.org/x/exp/rand"

	"github.com/simcad/simcad/internal/calcium"
	"github.com/simcad/simcad/internal/compose"
	"github.com/simcad/simcad/internal/footprint"
	"github.com/simcad/simcad/internal/frame"
	"github.com/simcad/simcad/internal/motion"
	"github.com/simcad/simcad/internal/rng"
	"github.com/simcad/simcad/internal/spikes"
)

// An execution context for movie generation
type Context struct {
	Log        io.Writer
	MaxThreads int
	MemoryMB   int // memory.TotalMemory()/1024/1024
}

func NewContext(log io.Writer) *Context {
	return &Context{
		Log:        log,
		MaxThreads: runtime.GOMAXPROCS(0),
		MemoryMB:   int(memory.TotalMemory() / 1024 / 1024),
	}
}

// The atomic output bundle of one generation call: the movie plus the
// ground truth that produced it. Either all fields are populated, or
// generation failed and no bundle exists.
type Result struct {
	Movie      *frame.Movie
	Footprints []*frame.Frame
	Traces     []calcium.Trace
	Spikes     []spikes.Train
	Shifts     motion.Path

	// Cells whose footprint had no dynamic range; their normalization
	// division was skipped. Diagnostic only, not an error.
	DegenerateCells []int
}

// Random stream indices. Each cell and each frame draws from its own
// deterministic sub-stream, so parallel execution order never changes
// which random values feed which output index.
const streamMotion uint64 = 0

func (c *Config) streamSpikes(cell int) uint64 { return 1 + 2*uint64(cell) }

func (c *Config) streamFootprint(cell int) uint64 { return 2 + 2*uint64(cell) }

func (c *Config) streamNoise(t int32) uint64 {
	return 1 + 2*uint64(c.NumCells) + uint64(t)
}

// Generates a labeled synthetic calcium movie from the given config.
// All-or-nothing: on any error no partial result is returned.
func Generate(cfg *Config, ctx *Context) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logMemoryEstimate(cfg, ctx)

	gen, err := cfg.spikeGenerator()
	if err != nil {
		return nil, err
	}
	filter, err := cfg.calciumFilter()
	if err != nil {
		return nil, err
	}

	// Motion runs independently of per-cell work
	model := motion.Model{MaxShift: cfg.MaxShift, SmoothingSigma: cfg.MotionSmoothingSigma}
	shifts := model.Generate(int32(cfg.NumFrames), rng.Source(cfg.Seed, streamMotion))

	// Per-cell work: footprint synthesis, spike generation, trace filtering.
	// Embarrassingly parallel across cells; each cell owns its random streams.
	footprints := make([]*frame.Frame, cfg.NumCells)
	traces := make([]calcium.Trace, cfg.NumCells)
	trains := make([]spikes.Train, cfg.NumCells)
	degenerate := make([]bool, cfg.NumCells)
	errs := make(chan error, cfg.NumCells)
	limiter := make(chan bool, ctx.MaxThreads)
	for i := 0; i < cfg.NumCells; i++ {
		limiter <- true
		go func(i int) {
			defer func() { <-limiter }()
			synth := footprint.Synthesizer{Sigma: cfg.FootprintSigma}
			footprints[i], degenerate[i] = synth.Generate(cfg.Height, cfg.Width,
				rng.New(cfg.Seed, cfg.streamFootprint(i)))

			train, err := gen.Generate(cfg.NumFrames, rng.New(cfg.Seed, cfg.streamSpikes(i)))
			if err != nil {
				errs <- fmt.Errorf("cell %d: %w", i, err)
				return
			}
			trains[i] = train
			traces[i] = filter.Apply(train)
			errs <- nil
		}(i)
	}
	for i := 0; i < cap(limiter); i++ { // wait for goroutines to finish
		limiter <- true
	}
	for i := 0; i < cfg.NumCells; i++ { // collect errors
		if e := <-errs; e != nil && err == nil {
			err = e
		}
	}
	if err != nil {
		return nil, err
	}

	var degenerateCells []int
	for i, d := range degenerate {
		if d {
			degenerateCells = append(degenerateCells, i)
			fmt.Fprintf(ctx.Log, "WARNING cell %d footprint is degenerate, normalization division skipped\n", i)
		}
	}

	compositor := compose.Compositor{
		Background: cfg.BackgroundStrength,
		CellSNR:    cfg.CellSNR,
		NoiseSigma: cfg.NoiseSigma,
		MaxThreads: ctx.MaxThreads,
	}
	movie, err := compositor.Composite(footprints, traces, shifts, func(t int32) rand.Source {
		return rng.Source(cfg.Seed, cfg.streamNoise(t))
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Movie:           movie,
		Footprints:      footprints,
		Traces:          traces,
		Spikes:          trains,
		Shifts:          shifts,
		DegenerateCells: degenerateCells,
	}, nil
}

func logMemoryEstimate(cfg *Config, ctx *Context) {
	pixels := int64(cfg.Height) * int64(cfg.Width)
	bytes := int64(cfg.NumFrames)*pixels + // 8-bit movie
		int64(cfg.NumCells)*pixels*4 + // footprints
		int64(ctx.MaxThreads)*pixels*8 + // compositing scratch frames
		int64(cfg.NumCells)*int64(cfg.NumFrames)*5 // traces and trains
	mb := int(bytes / 1024 / 1024)
	fmt.Fprintf(ctx.Log, "Generating %d cells over %d frames of %dx%d, estimated %d MiB working set (%d MiB physical)\n",
		cfg.NumCells, cfg.NumFrames, cfg.Width, cfg.Height, mb, ctx.MemoryMB)
	if mb > ctx.MemoryMB {
		fmt.Fprintf(ctx.Log, "WARNING estimated working set exceeds physical memory\n")
	}
}
