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
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
)

// CellSize returns the grid cell size in device pixels for the given
// stamp parameters. The result is at least 1.
func CellSize(radius, blur, pixelRatio, zoomRatio float64) int {
	s := math.Round((radius + blur + 1) * pixelRatio * zoomRatio / 2)
	if !(s >= 1) {
		return 1
	}
	if s > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(s)
}

// Coarsen projects the features inside extent to device pixels and keeps
// one point per grid cell of the given size.
//
// Within a cell the point whose weight is furthest from 0.5 wins. If two
// points are equally far from 0.5, a high point replaces a low one and
// otherwise the first point is kept. Points are returned in the order in
// which their cells were first occupied.
func Coarsen(features []Feature, m matrix.Matrix, extent rect.Rect, cellSize int, weight WeightFunc) []Point {
	cellSize = max(cellSize, 1)

	var points []Point
	cells := make(map[[2]int]int)
	for _, f := range features {
		c := f.Coordinate()
		// NaN coordinates fail every comparison.
		if !(c.X >= extent.LLx && c.X <= extent.URx && c.Y >= extent.LLy && c.Y <= extent.URy) {
			continue
		}
		x, okX := devicePixel(m[0]*c.X + m[2]*c.Y + m[4])
		y, okY := devicePixel(m[1]*c.X + m[3]*c.Y + m[5])
		if !okX || !okY {
			continue
		}

		p := Point{X: x, Y: y, Weight: weightOf(weight, f)}
		key := [2]int{floorDiv(p.X, cellSize), floorDiv(p.Y, cellSize)}

		i, seen := cells[key]
		if !seen {
			cells[key] = len(points)
			points = append(points, p)
		} else if beats(p, points[i]) {
			points[i] = p
		}
	}
	return points
}

// devicePixel rounds a device coordinate to a pixel. It fails for values
// which are not finite or too large for any canvas.
func devicePixel(v float64) (int, bool) {
	v = math.Round(v)
	if !(v >= math.MinInt32 && v <= math.MaxInt32) {
		return 0, false
	}
	return int(v), true
}

// beats reports whether p should replace the current cell representative q.
func beats(p, q Point) bool {
	dp := math.Abs(p.Weight - midpoint)
	dq := math.Abs(q.Weight - midpoint)
	if dp != dq {
		return dp > dq
	}
	return !p.isLow() && q.isLow()
}

// floorDiv divides rounding towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
