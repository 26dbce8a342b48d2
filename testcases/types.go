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

// Package testcases defines heatmap scenes shared by the tests, the
// benchmarks and the generator commands.
package testcases

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// TestCase defines a single heatmap scene.
type TestCase struct {
	Name       string        // lowercase a-z and _ only
	Points     []Point       // features in world coordinates
	Width      int           // canvas width in device pixels
	Height     int           // canvas height in device pixels
	Radius     float64       // stamp radius in CSS pixels
	Blur       float64       // stamp blur in CSS pixels
	PixelRatio float64       // zero means 1
	Gradient   []string      // hex colour stops, nil for the default
	CTM        matrix.Matrix // world to device transform (zero-value means identity)
}

// Transform returns the world to device transform of the scene.
func (tc *TestCase) Transform() matrix.Matrix {
	if tc.CTM == (matrix.Matrix{}) {
		return matrix.Identity
	}
	return tc.CTM
}

// Ratio returns the pixel ratio of the scene.
func (tc *TestCase) Ratio() float64 {
	if tc.PixelRatio == 0 {
		return 1
	}
	return tc.PixelRatio
}

// Point is a weighted point feature.
type Point struct {
	X, Y   float64
	Weight float64
}

// Coordinate returns the world coordinates of p.
func (p Point) Coordinate() vec.Vec2 {
	return vec.Vec2{X: p.X, Y: p.Y}
}

// Attribute exposes the weight under the name "weight".
func (p Point) Attribute(name string) (any, bool) {
	if name == "weight" {
		return p.Weight, true
	}
	return nil, false
}

// pt is a helper to create a Point.
func pt(x, y, w float64) Point {
	return Point{X: x, Y: y, Weight: w}
}
