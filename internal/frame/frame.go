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

// Package frame holds the pixel buffer types shared by the generation
// pipeline: single float32 frames, and the final 8-bit movie.
package frame

// A single 2D frame of float32 pixels, stored row-major.
type Frame struct {
	Width  int32 // X dimension, most quickly varying
	Height int32 // Y dimension
	Data   []float32
}

// Creates a frame of the given dimensions with all pixels zero.
func New(width, height int32) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Data:   make([]float32, int(width)*int(height)),
	}
}

// Sets every pixel to the given value.
func (f *Frame) Fill(value float32) {
	for i := range f.Data {
		f.Data[i] = value
	}
}

// Returns the minimum and maximum pixel value.
func (f *Frame) MinMax() (min, max float32) {
	min, max = f.Data[0], f.Data[0]
	for _, d := range f.Data {
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

// Returns the index of the brightest pixel.
func (f *Frame) ArgMax() int32 {
	best := int32(0)
	for i, d := range f.Data {
		if d > f.Data[best] {
			best = int32(i)
		}
	}
	return best
}

// Min-max normalizes the frame to [0,1] in place. If the frame has no
// dynamic range, division by the near-zero denominator is skipped and
// only the minimum is subtracted; degenerate reports that case.
func (f *Frame) Normalize() (degenerate bool) {
	min, max := f.MinMax()
	if max <= min {
		for i, d := range f.Data {
			f.Data[i] = d - min
		}
		return true
	}
	// divide rather than multiply by the reciprocal, so the maximum maps
	// to exactly 1
	scale := max - min
	for i, d := range f.Data {
		f.Data[i] = (d - min) / scale
	}
	return false
}

// Translates the frame by the integer offset (dy,dx) and returns the result
// as a new frame. The source block that stays within bounds is copied to its
// displaced position; pixels exposed along the opposite border are set to
// fill. No wrap-around.
func (f *Frame) Shift(dy, dx int32, fill float32) *Frame {
	w, h := f.Width, f.Height
	res := New(w, h)
	res.Fill(fill)

	yStart, yEnd := max32(0, dy), min32(h, h+dy)
	xStart, xEnd := max32(0, dx), min32(w, w+dx)
	if yEnd <= yStart || xEnd <= xStart {
		return res // shifted fully off-frame
	}
	srcY, srcX := max32(0, -dy), max32(0, -dx)

	span := xEnd - xStart
	for y := yStart; y < yEnd; y++ {
		srcRow := (srcY + y - yStart) * w
		dstRow := y * w
		copy(res.Data[dstRow+xStart:dstRow+xStart+span], f.Data[srcRow+srcX:srcRow+srcX+span])
	}
	return res
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
