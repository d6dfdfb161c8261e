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

package frame

import (
	"fmt"
	"math"

	"github.com/valyala/fastrand"
)

// Basic statistics of a pixel buffer.
type Stats struct {
	Min  float32
	Mean float32
	Max  float32
}

// Calculates min, mean and max of the data in a single pass.
func CalcStats(data []float32) Stats {
	min, max := data[0], data[0]
	sum := float64(0)
	for _, d := range data {
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
		sum += float64(d)
	}
	return Stats{Min: min, Mean: float32(sum / float64(len(data))), Max: max}
}

func (s Stats) String() string {
	return fmt.Sprintf("min %.4g mean %.4g max %.4g", s.Min, s.Mean, s.Max)
}

// Calculates fast approximate median of the (presumably large) data by
// subsampling the given number of values and taking the median of that.
// Uses provided samples array as scratchpad
func FastApproxMedian(data []float32, samples []float32) float32 {
	max := uint32(len(data))
	rng := fastrand.RNG{}
	for i := range samples {
		index := rng.Uint32n(max)
		samples[i] = data[index]
	}
	return QSelectMedianFloat32(samples)
}

// Calculates fast approximate standard deviation of the (presumably large)
// data around the given location by subsampling the given number of values.
func FastApproxStdDev(data []float32, location float32, numSamples int) float32 {
	max := uint32(len(data))
	rng := fastrand.RNG{}
	sumSqDiff := float32(0)
	for i := 0; i < numSamples; i++ {
		index := rng.Uint32n(max)
		diff := data[index] - location
		sumSqDiff += diff * diff
	}
	variance := sumSqDiff / float32(numSamples)
	return float32(math.Sqrt(float64(variance)))
}
