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
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"math"
	"os"
)

// Write a grayscale frame to JPG, using the given min, max and gamma.
func (f *Frame) WriteJPGToFile(fileName string, min, max, gamma float32, quality int) error {
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	return f.WriteJPG(writer, min, max, gamma, quality)
}

// Write a grayscale frame to JPG, using the given min, max and gamma.
func (f *Frame) WriteJPG(writer io.Writer, min, max, gamma float32, quality int) error {
	// convert pixels into Golang Image
	width, height := int(f.Width), int(f.Height)
	img := image.NewGray(image.Rectangle{image.Point{0, 0}, image.Point{width, height}})
	scale := 1.0 / (max - min)
	gammaInv := float64(1.0 / gamma)
	for y := 0; y < height; y++ {
		yoffset := y * width
		for x := 0; x < width; x++ {
			v := f.Data[yoffset+x]
			v = (v - min) * scale
			// replace NaNs with zeros for export, else JPG output breaks
			if math.IsNaN(float64(v)) || v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			if gammaInv != 1.0 {
				v = float32(math.Pow(float64(v), gammaInv))
			}
			img.SetGray(x, y, color.Gray{uint8(v * 255)})
		}
	}

	return jpeg.Encode(writer, img, &jpeg.Options{Quality: quality})
}
