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

// An 8-bit grayscale movie of frames x height x width pixels, frame-major.
// The terminal artifact of the generation pipeline; an external writer is
// responsible for encoding it into any container format.
type Movie struct {
	Frames int32
	Height int32
	Width  int32
	Data   []uint8
}

// Creates a movie of the given dimensions with all pixels zero.
func NewMovie(frames, height, width int32) *Movie {
	return &Movie{
		Frames: frames,
		Height: height,
		Width:  width,
		Data:   make([]uint8, int(frames)*int(height)*int(width)),
	}
}

// Returns the pixel slice of frame t, backed by the movie storage.
func (m *Movie) Frame(t int32) []uint8 {
	size := int(m.Height) * int(m.Width)
	return m.Data[int(t)*size : (int(t)+1)*size]
}

// Converts frame t into a float32 frame, for statistics and previews.
func (m *Movie) FloatFrame(t int32) *Frame {
	f := New(m.Width, m.Height)
	for i, d := range m.Frame(t) {
		f.Data[i] = float32(d)
	}
	return f
}
