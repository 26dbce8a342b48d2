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

package testcases

import (
	"math"
	"math/rand/v2"

	"seehuhn.de/go/geom/matrix"
)

var singleCases = []TestCase{
	{
		Name:   "low_point",
		Points: []Point{pt(32, 32, 0.2)},
		Width:  64,
		Height: 64,
		Radius: 5,
		Blur:   3,
	},
	{
		Name:   "high_point",
		Points: []Point{pt(32, 32, 0.8)},
		Width:  64,
		Height: 64,
		Radius: 5,
		Blur:   3,
	},
	{
		Name:   "mid_point",
		Points: []Point{pt(32, 32, 0.5)},
		Width:  64,
		Height: 64,
		Radius: 5,
		Blur:   3,
	},
	{
		Name:     "two_stop_gradient",
		Points:   []Point{pt(20, 32, 0), pt(44, 32, 1)},
		Width:    64,
		Height:   64,
		Radius:   6,
		Blur:     4,
		Gradient: []string{"#000", "#fff"},
	},
}

var clusterCases = []TestCase{
	{
		// Two opposite points share a cell; a neutral point has its own.
		Name: "hilo_pair",
		Points: []Point{
			pt(10, 10, 0.1),
			pt(10, 10, 0.9),
			pt(100, 100, 0.5),
		},
		Width:  128,
		Height: 128,
		Radius: 5,
		Blur:   2,
	},
	{
		Name:   "ring",
		Points: ring(64, 64, 40, 24),
		Width:  128,
		Height: 128,
		Radius: 8,
		Blur:   6,
	},
	{
		Name:   "ramp",
		Points: ramp(8, 8, 120, 120, 20),
		Width:  128,
		Height: 128,
		Radius: 6,
		Blur:   4,
	},
	{
		Name:   "scatter",
		Points: scatter(1, 300, 128, 128),
		Width:  128,
		Height: 128,
		Radius: 4,
		Blur:   4,
	},
}

var scaledCases = []TestCase{
	{
		// World coordinates in [0,1], mapped onto the canvas with a y-flip.
		Name:   "unit_square",
		Points: scatter(2, 100, 1, 1),
		Width:  128,
		Height: 128,
		Radius: 5,
		Blur:   5,
		CTM:    matrix.Matrix{128, 0, 0, -128, 0, 128},
	},
	{
		Name:       "retina",
		Points:     ring(32, 32, 20, 12),
		Width:      128,
		Height:     128,
		Radius:     4,
		Blur:       3,
		PixelRatio: 2,
		CTM:        matrix.Scale(2, 2),
	},
}

// ring places n points on a circle, alternating between low and high
// weights.
func ring(cx, cy, r float64, n int) []Point {
	res := make([]Point, n)
	for i := range res {
		phi := 2 * math.Pi * float64(i) / float64(n)
		w := 0.15
		if i%2 == 1 {
			w = 0.85
		}
		res[i] = pt(cx+r*math.Cos(phi), cy+r*math.Sin(phi), w)
	}
	return res
}

// ramp places n points on a line, with weights increasing from 0 to 1.
func ramp(x0, y0, x1, y1 float64, n int) []Point {
	res := make([]Point, n)
	for i := range res {
		t := float64(i) / float64(n-1)
		res[i] = pt(x0+t*(x1-x0), y0+t*(y1-y0), t)
	}
	return res
}

// scatter places n points uniformly in [0,w]×[0,h], using a fixed seed.
func scatter(seed uint64, n int, w, h float64) []Point {
	rng := rand.New(rand.NewPCG(seed, 0x68696c6f))
	res := make([]Point, n)
	for i := range res {
		res[i] = pt(rng.Float64()*w, rng.Float64()*h, rng.Float64())
	}
	return res
}
