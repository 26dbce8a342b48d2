// seehuhn.de/go/hilo - a two-tone heatmap layer
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
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

package hilo

import (
	"image"
	"math"
)

// Contrast is the range of signed intensities seen in a frame.
type Contrast struct {
	Min, Max uint8
}

// Flat reports whether all pixels had the same intensity.
func (c Contrast) Flat() bool {
	return c.Min == c.Max
}

// Resolve colours img from the two density fields.
//
// For every pixel the signed intensity 128 + (high-low)/2 selects the
// colour from table; the alpha channel of img is left alone in this step.
// Afterwards the alpha values are stretched so that the intensity range
// seen in the frame maps onto [0, 255]. A frame with a single intensity
// value is not stretched.
//
// low and high hold one value per pixel of img, in row-major order.
func Resolve(low, high []uint8, img *image.NRGBA, table *GradientTable) Contrast {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	c := Contrast{Min: 255, Max: 0}
	for y := range h {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for x := range w {
			i := y*w + x
			s := signedIntensity(low[i], high[i])
			c.Min = min(c.Min, s)
			c.Max = max(c.Max, s)
			if s != 0 {
				col := table[s]
				px := row[4*x : 4*x+3]
				px[0], px[1], px[2] = col.R, col.G, col.B
			}
		}
	}
	if w*h == 0 || c.Flat() {
		return c
	}

	scale := 255 / (float64(c.Max) - float64(c.Min))
	offset := float64(c.Min)
	for y := range h {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for x := range w {
			a := math.Round((float64(row[4*x+3]) - offset) * scale)
			row[4*x+3] = uint8(max(0, min(255, a)))
		}
	}
	return c
}

// signedIntensity combines the two field values of one pixel.
func signedIntensity(low, high uint8) uint8 {
	s := math.Round(128 + (float64(high)-float64(low))/2)
	return uint8(max(0, min(255, s)))
}
