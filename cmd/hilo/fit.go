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

package main

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
)

// fit returns the transform which maps the world rectangle b into a
// width×height canvas, keeping a border of margin device pixels on all
// sides.  The scale is the same in both directions and the y-axis is
// flipped, so that north is up.  The second return value is the scale in
// device pixels per world unit.
func fit(b rect.Rect, width, height int, margin float64) (matrix.Matrix, float64) {
	w := float64(width) - 2*margin
	h := float64(height) - 2*margin
	if w <= 0 || h <= 0 {
		w, h, margin = float64(width), float64(height), 0
	}

	dx := b.URx - b.LLx
	dy := b.URy - b.LLy
	var s float64
	switch {
	case dx > 0 && dy > 0:
		s = min(w/dx, h/dy)
	case dx > 0:
		s = w / dx
	case dy > 0:
		s = h / dy
	default:
		s = 1
	}

	// centre of b goes to the centre of the canvas
	cx := (b.LLx + b.URx) / 2
	cy := (b.LLy + b.URy) / 2
	m := matrix.Matrix{s, 0, 0, -s, float64(width)/2 - s*cx, float64(height)/2 + s*cy}
	return m, s
}

// visible returns the world rectangle shown on a width×height canvas
// under the transform produced by fit.
func visible(m matrix.Matrix, width, height int) rect.Rect {
	s := m[0]
	return rect.Rect{
		LLx: -m[4] / s,
		LLy: (m[5] - float64(height)) / s,
		URx: (float64(width) - m[4]) / s,
		URy: m[5] / s,
	}
}
