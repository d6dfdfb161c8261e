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

package generate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/simcad/simcad/internal/calcium"
	"github.com/simcad/simcad/internal/footprint"
	"github.com/simcad/simcad/internal/spikes"
)

// Spike strategy selectors.
const (
	SpikeMarkov = "markov"
	SpikeHawkes = "hawkes"
)

// Calcium strategy selectors.
const (
	CalciumAR2   = "ar2"
	CalciumBiExp = "biexp"
)

// Config fully determines one generated movie together with the rng seed.
// Serializable to JSON for parameter files and the REST interface.
type Config struct {
	NumCells  int   `json:"numCells"`
	NumFrames int   `json:"numFrames"`
	Height    int32 `json:"height"`
	Width     int32 `json:"width"`

	SpikeStrategy    string                  `json:"spikeStrategy"` // "markov" or "hawkes"
	TransitionMatrix spikes.TransitionMatrix `json:"transitionMatrix"`
	Mu               float64                 `json:"mu"`
	Alpha            float64                 `json:"alpha"`
	Tau              float64                 `json:"tau"`
	MaxSpikeRetries  int                     `json:"maxSpikeRetries"`

	CalciumStrategy string  `json:"calciumStrategy"` // "ar2" or "biexp"
	TauDecay        float64 `json:"tauDecay"`
	TauRise         float64 `json:"tauRise"`

	CellSNR            float32              `json:"cellSNR"`
	BackgroundStrength float32              `json:"backgroundStrength"`
	FootprintSigma     footprint.SigmaRange `json:"footprintSigmaRange"`

	MaxShift             int32   `json:"maxShift"`
	MotionSmoothingSigma float64 `json:"motionSmoothingSigma"`
	NoiseSigma           float64 `json:"noiseSigma"`

	Seed uint64 `json:"rngSeed"`
}

// Returns a config with the generator defaults: a small movie with sparse
// Markov spiking, AR(2) dynamics and mild drift.
func NewConfigDefault() *Config {
	return &Config{
		NumCells:             5,
		NumFrames:            200,
		Height:               64,
		Width:                64,
		SpikeStrategy:        SpikeMarkov,
		TransitionMatrix:     spikes.DefaultTransitionMatrix(),
		Mu:                   0.01,
		Alpha:                0.05,
		Tau:                  10.0,
		MaxSpikeRetries:      100,
		CalciumStrategy:      CalciumAR2,
		TauDecay:             10.0,
		TauRise:              4.0,
		CellSNR:              5.0,
		BackgroundStrength:   0.3,
		FootprintSigma:       footprint.SigmaRange{Min: 3.0, Max: 5.0},
		MaxShift:             5,
		MotionSmoothingSigma: 2.0,
		NoiseSigma:           3.0,
		Seed:                 1,
	}
}

// Loads a config from a JSON parameter file, starting from defaults so
// missing entries keep their default values.
func LoadConfig(fileName string) (*Config, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	cfg := NewConfigDefault()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// An InvalidParameterError reports a configuration value outside its
// legal range.
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}

func invalid(param, reason string) error {
	return &InvalidParameterError{Param: param, Reason: reason}
}

// Checks all configuration values. Returns the first violation found.
func (c *Config) Validate() error {
	if c.NumCells <= 0 {
		return invalid("numCells", "must be positive")
	}
	if c.NumFrames <= 0 {
		return invalid("numFrames", "must be positive")
	}
	minDim := 2*footprint.Pad + 1
	if c.Height < minDim {
		return invalid("height", fmt.Sprintf("must be at least %d to admit footprint padding", minDim))
	}
	if c.Width < minDim {
		return invalid("width", fmt.Sprintf("must be at least %d to admit footprint padding", minDim))
	}
	if c.MaxSpikeRetries < 0 {
		return invalid("maxSpikeRetries", "must not be negative")
	}
	if c.FootprintSigma.Min <= 0 || c.FootprintSigma.Max < c.FootprintSigma.Min {
		return invalid("footprintSigmaRange", "must satisfy 0 < min <= max")
	}
	if c.MaxShift < 0 {
		return invalid("maxShift", "must not be negative")
	}
	if c.NoiseSigma < 0 {
		return invalid("noiseSigma", "must not be negative")
	}

	gen, err := c.spikeGenerator()
	if err != nil {
		return err
	}
	if err := gen.Validate(); err != nil {
		return invalid("spikeStrategy", err.Error())
	}
	filter, err := c.calciumFilter()
	if err != nil {
		return err
	}
	if err := filter.Validate(); err != nil {
		return invalid("calciumStrategy", err.Error())
	}
	return nil
}

// Builds the configured spike generation strategy.
func (c *Config) spikeGenerator() (spikes.Generator, error) {
	switch c.SpikeStrategy {
	case SpikeMarkov:
		return spikes.NewMarkov(c.TransitionMatrix, c.MaxSpikeRetries), nil
	case SpikeHawkes:
		return spikes.NewHawkes(c.Mu, c.Alpha, c.Tau, c.MaxSpikeRetries), nil
	}
	return nil, invalid("spikeStrategy", fmt.Sprintf("unknown strategy %q", c.SpikeStrategy))
}

// Builds the configured calcium dynamics strategy.
func (c *Config) calciumFilter() (calcium.Filter, error) {
	switch c.CalciumStrategy {
	case CalciumAR2:
		return &calcium.AR2{TauDecay: c.TauDecay, TauRise: c.TauRise}, nil
	case CalciumBiExp:
		return &calcium.BiExp{TauDecay: c.TauDecay, TauRise: c.TauRise}, nil
	}
	return nil, invalid("calciumStrategy", fmt.Sprintf("unknown strategy %q", c.CalciumStrategy))
}

// Pretty-prints the config as indented JSON for log output.
func (c *Config) Print(logWriter io.Writer) {
	m, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		fmt.Fprintf(logWriter, "error printing config: %s\n", err.Error())
		return
	}
	fmt.Fprintf(logWriter, "%s\n", string(m))
}
