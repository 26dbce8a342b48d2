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
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Composite accumulates the low and high density fields.
//
// The low points (weight <= 0.5) are stamped onto the cleared canvas with
// opacity (0.5-w)*2 and the resulting alpha channel is returned as low.
// The same is done for the high points (weight > 0.5) with opacity
// (w-0.5)*2, giving high. Finally all points are stamped together, so
// that the canvas is left holding the union of both fields.
//
// Stamps are combined with the source-over operator.
func Composite(canvas *image.RGBA, stamp *Stamp, points []Point) (low, high []uint8) {
	low = stampPass(canvas, stamp, points, func(p Point) bool { return p.isLow() })
	high = stampPass(canvas, stamp, points, func(p Point) bool { return !p.isLow() })
	stampPass(canvas, stamp, points, nil)
	return low, high
}

// stampPass clears the canvas, stamps every point accepted by keep (all
// points if keep is nil) and returns a copy of the alpha channel.
func stampPass(canvas *image.RGBA, stamp *Stamp, points []Point, keep func(Point) bool) []uint8 {
	clearImage(canvas)

	src := stamp.Image
	for _, p := range points {
		if keep != nil && !keep(p) {
			continue
		}
		a := p.opacity()
		if a <= 0 {
			continue
		}
		mask := image.NewUniform(color.Alpha16{A: uint16(math.Round(a * 0xffff))})
		dr := src.Bounds().
			Sub(src.Bounds().Min).
			Add(canvas.Bounds().Min).
			Add(image.Pt(p.X-stamp.HalfSize, p.Y-stamp.HalfSize))
		draw.DrawMask(canvas, dr, src, src.Bounds().Min, mask, image.Point{}, draw.Over)
	}

	return alphaChannel(canvas)
}

// clearImage sets all pixels of img to transparent black.
func clearImage(img *image.RGBA) {
	b := img.Bounds()
	for y := range b.Dy() {
		clear(img.Pix[y*img.Stride : y*img.Stride+4*b.Dx()])
	}
}

// alphaChannel copies the alpha values of img in row-major order.
func alphaChannel(img *image.RGBA) []uint8 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	alpha := make([]uint8, w*h)
	for y := range h {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for x := range w {
			alpha[y*w+x] = row[4*x+3]
		}
	}
	return alpha
}
