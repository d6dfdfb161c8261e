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
	"testing"
)

func TestShiftZeroIsIdentity(t *testing.T) {
	f := New(7, 5)
	for i := range f.Data {
		f.Data[i] = float32(i)
	}
	s := f.Shift(0, 0, -1)
	for i := range f.Data {
		if s.Data[i] != f.Data[i] {
			t.Fatalf("pixel %d changed from %f to %f", i, f.Data[i], s.Data[i])
		}
	}
}

type shiftBorderTestCase struct {
	Dy, Dx int32
}

func TestShiftUniformFrameFillsBorder(t *testing.T) {
	const value, fill = float32(7), float32(0.25)
	tcs := []shiftBorderTestCase{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {2, 3}, {-2, -3}, {3, -2},
	}
	for _, tc := range tcs {
		f := New(9, 8)
		f.Fill(value)
		s := f.Shift(tc.Dy, tc.Dx, fill)
		for y := int32(0); y < f.Height; y++ {
			for x := int32(0); x < f.Width; x++ {
				got := s.Data[y*f.Width+x]
				exposedY := (tc.Dy > 0 && y < tc.Dy) || (tc.Dy < 0 && y >= f.Height+tc.Dy)
				exposedX := (tc.Dx > 0 && x < tc.Dx) || (tc.Dx < 0 && x >= f.Width+tc.Dx)
				want := value
				if exposedY || exposedX {
					want = fill
				}
				if got != want {
					t.Errorf("shift (%d,%d) pixel (%d,%d)=%f; want %f", tc.Dy, tc.Dx, y, x, got, want)
				}
			}
		}
	}
}

func TestShiftMovesPeak(t *testing.T) {
	f := New(8, 8)
	f.Data[3*8+4] = 1 // peak at y=3, x=4
	s := f.Shift(2, -1, 0)
	if s.Data[5*8+3] != 1 {
		t.Errorf("peak not found at shifted position (5,3)")
	}
	sum := float32(0)
	for _, d := range s.Data {
		sum += d
	}
	if sum != 1 {
		t.Errorf("shifted frame sums to %f; want 1", sum)
	}
}

func TestShiftFullyOffFrame(t *testing.T) {
	f := New(4, 4)
	f.Fill(9)
	s := f.Shift(4, 0, 2)
	for i, d := range s.Data {
		if d != 2 {
			t.Fatalf("pixel %d is %f; want fill value 2", i, d)
		}
	}
}

func TestNormalize(t *testing.T) {
	f := New(4, 2)
	for i := range f.Data {
		f.Data[i] = float32(i)*2 + 3
	}
	if degenerate := f.Normalize(); degenerate {
		t.Fatalf("normalization flagged degenerate for non-constant data")
	}
	min, max := f.MinMax()
	if min != 0 || max != 1 {
		t.Errorf("normalized range [%f,%f]; want [0,1]", min, max)
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	f := New(3, 3)
	f.Fill(4.2)
	if degenerate := f.Normalize(); !degenerate {
		t.Fatalf("constant frame not flagged degenerate")
	}
	// divide skipped, min subtracted
	for i, d := range f.Data {
		if d != 0 {
			t.Fatalf("pixel %d is %f; want 0", i, d)
		}
	}
}

func TestMovieFrameSlicesAreDisjoint(t *testing.T) {
	m := NewMovie(3, 4, 5)
	for t0 := int32(0); t0 < m.Frames; t0++ {
		f := m.Frame(t0)
		if len(f) != 20 {
			t.Fatalf("frame %d has %d pixels; want 20", t0, len(f))
		}
		for i := range f {
			f[i] = uint8(t0)
		}
	}
	for i, d := range m.Data {
		if want := uint8(i / 20); d != want {
			t.Fatalf("movie byte %d is %d; want %d", i, d, want)
		}
	}
}

func TestCalcStats(t *testing.T) {
	s := CalcStats([]float32{1, 2, 3, 4})
	if s.Min != 1 || s.Max != 4 || s.Mean != 2.5 {
		t.Errorf("stats %v; want min 1 mean 2.5 max 4", s)
	}
}

func TestFastApproxMedian(t *testing.T) {
	data := make([]float32, 10000)
	for i := range data {
		data[i] = 17
	}
	samples := make([]float32, 128)
	if m := FastApproxMedian(data, samples); m != 17 {
		t.Errorf("median of constant data is %f; want 17", m)
	}
}
