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

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/simcad/simcad/internal/frame"
	"github.com/simcad/simcad/internal/generate"
	"github.com/simcad/simcad/internal/rest"
)

const version = "0.1.0"

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")

var params = flag.String("params", "", "load generation parameters from JSON `file`")
var logF = flag.String("log", "", "mirror log output to `file`")

var cells = flag.Int("cells", 5, "number of simulated cells")
var frames = flag.Int("frames", 200, "number of movie frames")
var height = flag.Int("height", 64, "frame height in pixels")
var width = flag.Int("width", 64, "frame width in pixels")

var spikeStrategy = flag.String("spikes", "markov", "spike strategy, one of markov, hawkes")
var pStay = flag.Float64("pStay", 0.98, "markov probability of staying in the current state")
var mu = flag.Float64("mu", 0.01, "hawkes baseline firing probability per frame")
var alpha = flag.Float64("alpha", 0.05, "hawkes self-excitation strength per spike")
var tau = flag.Float64("tau", 10.0, "hawkes excitation decay time constant in frames")
var retries = flag.Int("retries", 100, "maximum rejection-sampling retries per cell")

var calciumStrategy = flag.String("calcium", "ar2", "calcium dynamics strategy, one of ar2, biexp")
var tauDecay = flag.Float64("tauDecay", 10.0, "calcium decay time constant in frames")
var tauRise = flag.Float64("tauRise", 4.0, "calcium rise time constant in frames")

var cellSNR = flag.Float64("snr", 5.0, "cell signal amplitude relative to background")
var background = flag.Float64("background", 0.3, "baseline background intensity")
var sigmaMin = flag.Float64("sigmaMin", 3.0, "minimum footprint standard deviation in pixels")
var sigmaMax = flag.Float64("sigmaMax", 5.0, "maximum footprint standard deviation in pixels")

var maxShift = flag.Int("maxShift", 5, "approximate maximum motion shift in pixels, 0=no motion")
var motionSigma = flag.Float64("motionSigma", 2.0, "gaussian smoothing sigma for motion trajectories")
var noiseSigma = flag.Float64("noiseSigma", 3.0, "standard deviation of per-pixel gaussian noise")

var seed = flag.Uint64("seed", 1, "random seed; identical seeds reproduce identical movies")

var previewFrame = flag.Int("previewFrame", 0, "movie frame index for preview outputs")
var jpg = flag.String("jpg", "", "save 8-bit preview of the chosen frame as JPEG to `file`")
var tif = flag.String("tiff", "", "save 16-bit preview of the chosen frame as TIFF to `file`")
var overlay = flag.String("overlay", "", "save false-color footprint overlay as PNG to `file`")

func main() {
	var logWriter io.Writer = os.Stdout
	start := time.Now()
	flag.Usage = func() {
		fmt.Fprintf(logWriter, `SimCaD synthesizes labeled calcium-imaging movies for benchmarking
neural-signal extraction algorithms.
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under certain conditions.
Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for details.

Usage: %s [-flag value] (generate|serve|version)

Commands:
  generate Generate a movie with ground truth and report statistics
  serve    Start the REST API server on port 8080
  version  Show version information

Flags:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Mirror log output to file, if selected
	if *logF != "" {
		f, err := os.Create(*logF)
		if err != nil {
			fmt.Fprintf(logWriter, "Unable to open logfile '%s'\n", *logF)
			os.Exit(-1)
		}
		defer f.Close()
		logWriter = io.MultiWriter(os.Stdout, f)
	}

	// Enable CPU profiling if flagged
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Fprintf(logWriter, "Could not create CPU profile: %s\n", err.Error())
			os.Exit(-1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(logWriter, "Could not start CPU profile: %s\n", err.Error())
			os.Exit(-1)
		}
		defer pprof.StopCPUProfile()
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		return
	}

	var err error
	switch args[0] {
	case "generate":
		err = cmdGenerate(logWriter)

	case "serve":
		rest.Serve()

	case "version":
		fmt.Fprintf(logWriter, "Version %s\n", version)

	case "help", "?":
		flag.Usage()

	default:
		fmt.Fprintf(logWriter, "Unknown command '%s'\n\n", args[0])
		flag.Usage()
		return
	}

	fmt.Fprintf(logWriter, "\nDone after %v\n", time.Now().Sub(start))

	// Store memory profile if flagged
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			fmt.Fprintf(logWriter, "Could not create memory profile: %s\n", err.Error())
			os.Exit(-1)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			fmt.Fprintf(logWriter, "Could not write allocation profile: %s\n", err.Error())
			os.Exit(-1)
		}
	}

	if err != nil {
		fmt.Fprintf(logWriter, "Error: %s\n", err.Error())
		os.Exit(-1)
	}
}

// Assembles the config from the parameter file and flags, runs the
// generator and writes the selected preview outputs.
func cmdGenerate(logWriter io.Writer) error {
	cfg, err := configFromFlags()
	if err != nil {
		return err
	}
	fmt.Fprintf(logWriter, "Generating with these settings:\n")
	cfg.Print(logWriter)

	ctx := generate.NewContext(logWriter)
	res, err := generate.Generate(cfg, ctx)
	if err != nil {
		return err
	}
	reportStats(res, logWriter)

	t := int32(*previewFrame)
	if t < 0 || t >= res.Movie.Frames {
		return fmt.Errorf("preview frame %d out of range [0,%d)", t, res.Movie.Frames)
	}
	if *jpg != "" {
		if err := res.Movie.FloatFrame(t).WriteJPGToFile(*jpg, 0, 255, 1.0, 95); err != nil {
			return err
		}
		fmt.Fprintf(logWriter, "Saved frame %d preview to %s\n", t, *jpg)
	}
	if *tif != "" {
		if err := res.Movie.FloatFrame(t).WriteTIFF16ToFile(*tif, 0, 255, 1.0); err != nil {
			return err
		}
		fmt.Fprintf(logWriter, "Saved frame %d preview to %s\n", t, *tif)
	}
	if *overlay != "" {
		if err := frame.WriteOverlayPNGToFile(*overlay, res.Footprints); err != nil {
			return err
		}
		fmt.Fprintf(logWriter, "Saved footprint overlay to %s\n", *overlay)
	}
	return nil
}

// Starts from defaults, applies the parameter file if given, then lets
// explicitly set command line flags override individual values.
func configFromFlags() (*generate.Config, error) {
	cfg := generate.NewConfigDefault()
	if *params != "" {
		loaded, err := generate.LoadConfig(*params)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cells":
			cfg.NumCells = *cells
		case "frames":
			cfg.NumFrames = *frames
		case "height":
			cfg.Height = int32(*height)
		case "width":
			cfg.Width = int32(*width)
		case "spikes":
			cfg.SpikeStrategy = *spikeStrategy
		case "pStay":
			p := *pStay
			cfg.TransitionMatrix = [2][2]float64{{p, 1 - p}, {1 - p, p}}
		case "mu":
			cfg.Mu = *mu
		case "alpha":
			cfg.Alpha = *alpha
		case "tau":
			cfg.Tau = *tau
		case "retries":
			cfg.MaxSpikeRetries = *retries
		case "calcium":
			cfg.CalciumStrategy = *calciumStrategy
		case "tauDecay":
			cfg.TauDecay = *tauDecay
		case "tauRise":
			cfg.TauRise = *tauRise
		case "snr":
			cfg.CellSNR = float32(*cellSNR)
		case "background":
			cfg.BackgroundStrength = float32(*background)
		case "sigmaMin":
			cfg.FootprintSigma.Min = *sigmaMin
		case "sigmaMax":
			cfg.FootprintSigma.Max = *sigmaMax
		case "maxShift":
			cfg.MaxShift = int32(*maxShift)
		case "motionSigma":
			cfg.MotionSmoothingSigma = *motionSigma
		case "noiseSigma":
			cfg.NoiseSigma = *noiseSigma
		case "seed":
			cfg.Seed = *seed
		}
	})
	return cfg, nil
}

const statsSamples = 1024

// Logs ground truth summaries and subsampled per-frame statistics for the
// first, middle and last frame.
func reportStats(res *generate.Result, logWriter io.Writer) {
	totalSpikes := 0
	for i, train := range res.Spikes {
		n := train.Count()
		totalSpikes += n
		traceStats := frame.CalcStats(res.Traces[i])
		fmt.Fprintf(logWriter, "cell %2d: %3d spikes, trace %v\n", i, n, traceStats)
	}
	fmt.Fprintf(logWriter, "%d spikes total across %d cells\n", totalSpikes, len(res.Spikes))

	samples := make([]float32, statsSamples)
	for _, t := range []int32{0, res.Movie.Frames / 2, res.Movie.Frames - 1} {
		f := res.Movie.FloatFrame(t)
		median := frame.FastApproxMedian(f.Data, samples)
		stdDev := frame.FastApproxStdDev(f.Data, median, statsSamples)
		fmt.Fprintf(logWriter, "frame %4d: %v, ~median %.2f ~stdDev %.2f, shift (%d,%d)\n",
			t, frame.CalcStats(f.Data), median, stdDev, res.Shifts[t].Dy, res.Shifts[t].Dx)
	}
}
