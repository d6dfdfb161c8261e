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
	"bufio"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Write a false-color overlay of all cell footprints to PNG.
// Each footprint is tinted with a distinct hue so overlapping cells
// remain distinguishable in the preview.
func WriteOverlayPNGToFile(fileName string, footprints []*Frame) error {
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	return WriteOverlayPNG(writer, footprints)
}

// Write a false-color overlay of all cell footprints to PNG.
func WriteOverlayPNG(writer io.Writer, footprints []*Frame) error {
	if len(footprints) == 0 {
		return errors.New("no footprints to overlay")
	}
	width, height := int(footprints[0].Width), int(footprints[0].Height)
	size := width * height

	// accumulate tinted footprints in linear RGB
	r := make([]float64, size)
	g := make([]float64, size)
	b := make([]float64, size)
	for i, fp := range footprints {
		hue := float64(i) * 360.0 / float64(len(footprints))
		tint := colorful.Hsv(hue, 0.9, 1.0)
		for j, d := range fp.Data {
			r[j] += float64(d) * tint.R
			g[j] += float64(d) * tint.G
			b[j] += float64(d) * tint.B
		}
	}

	img := image.NewRGBA(image.Rectangle{image.Point{0, 0}, image.Point{width, height}})
	for y := 0; y < height; y++ {
		yoffset := y * width
		for x := 0; x < width; x++ {
			i := yoffset + x
			img.SetRGBA(x, y, color.RGBA{clip8(r[i]), clip8(g[i]), clip8(b[i]), 255})
		}
	}
	return png.Encode(writer, img)
}

func clip8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 255
	}
	return uint8(v * 255)
}
