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

// Package raster computes anti-aliased coverage for filled paths.
//
// Only the nonzero winding rule is implemented; the heatmap layer uses
// this package to draw the solid disc at the centre of each stamp.
package raster

import (
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// edge is a non-horizontal line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

// Rasteriser turns filled paths into per-pixel coverage values between 0
// (outside) and 1 (inside). Buffers are kept between calls, so a single
// Rasteriser should be reused for a sequence of paths.
//
// A Rasteriser is not safe for concurrent use.
type Rasteriser struct {
	// CTM maps user space to device space. Must be non-singular.
	CTM matrix.Matrix

	// Clip limits the output to this device-space rectangle.
	// The coordinates must be integers.
	Clip rect.Rect

	// Flatness is the maximal deviation, in device pixels, between a curve
	// and the line segments replacing it.
	Flatness float64

	cover   []float32 // per-pixel change of the winding number; reused as output
	area    []float32 // per-pixel partial area
	edges   []edge
	rowUsed []bool

	empty                              bool // no edge seen yet
	devXMin, devXMax, devYMin, devYMax float64
}

// NewRasteriser returns a Rasteriser with an identity CTM and the default
// flatness.
func NewRasteriser(clip rect.Rect) *Rasteriser {
	return &Rasteriser{
		CTM:      matrix.Identity,
		Clip:     clip,
		Flatness: defaultFlatness,
	}
}

// Reset prepares the Rasteriser for a new target. Internal buffers are
// retained.
func (r *Rasteriser) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
}

// FillNonZero fills p using the nonzero winding rule. Coverage is passed
// to emit one scanline at a time, with leading and trailing zeros removed.
// The coverage slice is only valid during the call.
func (r *Rasteriser) FillNonZero(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	xMin, xMax, yMin, yMax, ok := r.collectEdges(p)
	if !ok {
		return
	}

	width := xMax - xMin
	height := yMax - yMin
	size := width * height
	r.cover = slices.Grow(r.cover[:0], size)[:size]
	r.area = slices.Grow(r.area[:0], size)[:size]
	clear(r.cover)
	clear(r.area)
	r.rowUsed = slices.Grow(r.rowUsed[:0], height)[:height]
	clear(r.rowUsed)

	for i := range r.edges {
		e := &r.edges[i]
		top := max(int(math.Floor(min(e.y0, e.y1))), yMin)
		bot := min(int(math.Floor(max(e.y0, e.y1)))+1, yMax)
		for y := top; y < bot; y++ {
			row := y - yMin
			lo, hi := row*width, (row+1)*width
			accumulate(e, y, r.cover[lo:hi], r.area[lo:hi], xMin)
			r.rowUsed[row] = true
		}
	}

	for row := range height {
		if !r.rowUsed[row] {
			continue
		}
		lo, hi := row*width, (row+1)*width
		coverage := r.cover[lo:hi]
		integrateNonZero(coverage, r.area[lo:hi])
		if trimmed, offset := trimZeros(coverage); trimmed != nil {
			emit(yMin+row, xMin+offset, trimmed)
		}
	}
}

// collectEdges flattens p into r.edges and returns the device-space
// bounding box of the edges, clipped to r.Clip.
func (r *Rasteriser) collectEdges(p *path.Data) (xMin, xMax, yMin, yMax int, ok bool) {
	r.edges = r.edges[:0]
	r.empty = true

	var current, start vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			current = p.Coords[k]
			start = current
			k++
		case path.CmdLineTo:
			r.addEdge(current, p.Coords[k])
			current = p.Coords[k]
			k++
		case path.CmdQuadTo:
			r.flattenQuadratic(current, p.Coords[k], p.Coords[k+1])
			current = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			r.flattenCubic(current, p.Coords[k], p.Coords[k+1], p.Coords[k+2])
			current = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			if current != start {
				r.addEdge(current, start)
			}
			current = start
		}
	}
	if r.empty {
		return 0, 0, 0, 0, false
	}

	xMin = max(int(math.Floor(r.devXMin)), int(r.Clip.LLx))
	xMax = min(int(math.Floor(r.devXMax))+1, int(r.Clip.URx))
	yMin = max(int(math.Floor(r.devYMin)), int(r.Clip.LLy))
	yMax = min(int(math.Floor(r.devYMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// addEdge transforms the user-space segment p0–p1 to device space and
// stores it, unless it is horizontal.
func (r *Rasteriser) addEdge(p0, p1 vec.Vec2) {
	m := r.CTM
	x0 := m[0]*p0.X + m[2]*p0.Y + m[4]
	y0 := m[1]*p0.X + m[3]*p0.Y + m[5]
	x1 := m[0]*p1.X + m[2]*p1.Y + m[4]
	y1 := m[1]*p1.X + m[3]*p1.Y + m[5]

	dy := y1 - y0
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{x0: x0, y0: y0, x1: x1, y1: y1, dxdy: (x1 - x0) / dy})

	if r.empty {
		r.devXMin, r.devXMax = min(x0, x1), max(x0, x1)
		r.devYMin, r.devYMax = min(y0, y1), max(y0, y1)
		r.empty = false
		return
	}
	r.devXMin = min(r.devXMin, x0, x1)
	r.devXMax = max(r.devXMax, x0, x1)
	r.devYMin = min(r.devYMin, y0, y1)
	r.devYMax = max(r.devYMax, y0, y1)
}

// deviceLength returns the device-space length of the user-space
// vector v, ignoring the translation part of the CTM.
func (r *Rasteriser) deviceLength(v vec.Vec2) float64 {
	m := r.CTM
	return math.Hypot(m[0]*v.X+m[2]*v.Y, m[1]*v.X+m[3]*v.Y)
}

// flattenQuadratic replaces a quadratic Bézier curve by line segments.
func (r *Rasteriser) flattenQuadratic(p0, p1, p2 vec.Vec2) {
	dev := r.deviceLength(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25))
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		r.addEdge(prev, pt)
		prev = pt
	}
}

// flattenCubic replaces a cubic Bézier curve by line segments. The number
// of segments follows Wang's formula.
func (r *Rasteriser) flattenCubic(p0, p1, p2, p3 vec.Vec2) {
	dev := max(
		r.deviceLength(p0.Sub(p1.Mul(2)).Add(p2)),
		r.deviceLength(p1.Sub(p2.Mul(2)).Add(p3)))
	n := 1
	if dev > 0 {
		if f := math.Sqrt(3 * dev / (4 * r.Flatness)); f > 1 {
			n = int(math.Ceil(f))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		r.addEdge(prev, pt)
		prev = pt
	}
}

// Each pixel collects two numbers while edges are processed:
//
//	cover: the signed vertical extent of all edge pieces in the pixel column
//	area:  the same, weighted by the distance of the crossing from the
//	       right pixel border
//
// Scanning a row from left to right, the coverage of a pixel is the
// running sum of cover over all pixels to its left plus its own area.

// accumulate adds the part of e inside scanline y to the row buffers.
// Index 0 of the buffers corresponds to device column x0.
func accumulate(e *edge, y int, cover, area []float32, x0 int) {
	yTop := max(float64(y), min(e.y0, e.y1))
	yBot := min(float64(y+1), max(e.y0, e.y1))
	if yBot <= yTop {
		return
	}
	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xTop := e.x0 + e.dxdy*(yTop-e.y0)
	xBot := e.x0 + e.dxdy*(yBot-e.y0)
	colA := int(math.Floor(min(xTop, xBot)))
	colB := int(math.Floor(max(xTop, xBot)))

	if colA == colB {
		xMid := (xTop + xBot) / 2
		deposit(cover, area, colA-x0, sign*float32(yBot-yTop), xMid-float64(colA))
		return
	}

	dydx := 1 / e.dxdy
	for col := colA; col <= colB; col++ {
		ya := e.y0 + dydx*(float64(col)-e.x0)
		yb := e.y0 + dydx*(float64(col+1)-e.x0)
		lo := max(min(ya, yb), yTop)
		hi := min(max(ya, yb), yBot)
		if hi <= lo {
			continue
		}
		xMid := e.x0 + e.dxdy*((lo+hi)/2-e.y0)
		deposit(cover, area, col-x0, sign*float32(hi-lo), xMid-float64(col))
	}
}

// deposit records an edge piece of signed height dy in buffer column i.
// Pieces left of the buffer count as fully covering column 0.
func deposit(cover, area []float32, i int, dy float32, xFrac float64) {
	switch {
	case i < 0:
		cover[0] += dy
		area[0] += dy
	case i < len(cover):
		cover[i] += dy
		area[i] += dy * float32(1-xFrac)
	}
}

// integrateNonZero converts one row of cover/area values into coverage,
// in place, using the nonzero winding rule.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		raw := acc + area[i]
		acc += cover[i]
		if raw < 0 {
			raw = -raw
		}
		cover[i] = min(raw, 1)
	}
}

// trimZeros returns the non-zero part of coverage together with its offset.
func trimZeros(coverage []float32) ([]float32, int) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	if lo == hi {
		return nil, 0
	}
	for coverage[hi-1] == 0 {
		hi--
	}
	return coverage[lo:hi], lo
}

// Circle returns a closed path approximating the circle with the given
// centre and radius by four cubic Bézier curves.
func Circle(cx, cy, radius float64) *path.Data {
	k := radius * kappa
	pt := func(x, y float64) vec.Vec2 { return vec.Vec2{X: x, Y: y} }
	return (&path.Data{}).
		MoveTo(pt(cx+radius, cy)).
		CubeTo(pt(cx+radius, cy-k), pt(cx+k, cy-radius), pt(cx, cy-radius)).
		CubeTo(pt(cx-k, cy-radius), pt(cx-radius, cy-k), pt(cx-radius, cy)).
		CubeTo(pt(cx-radius, cy+k), pt(cx-k, cy+radius), pt(cx, cy+radius)).
		CubeTo(pt(cx+k, cy+radius), pt(cx+radius, cy+k), pt(cx+radius, cy)).
		Close()
}

const (
	// defaultFlatness is the curve flattening tolerance in device pixels.
	defaultFlatness = 0.02

	// horizontalEdgeThreshold is the smallest vertical extent of an edge
	// which still contributes to coverage.
	horizontalEdgeThreshold = 1e-10

	// kappa places the control points of a cubic Bézier quarter circle.
	kappa = 0.5522847498
)
