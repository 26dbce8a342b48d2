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

// Command export writes the heatmap scenes to JSON, together with the
// coarsened point sets, for use by external reference renderers.
// Run from the module root directory.
package main

import (
	"encoding/json"
	"maps"
	"os"
	"slices"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/hilo"
	"seehuhn.de/go/hilo/testcases"
)

func main() {
	var out struct {
		TestCases []jsonTestCase `json:"testcases"`
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			out.TestCases = append(out.TestCases, toJSON(category, tc))
		}
	}

	if err := os.MkdirAll("testdata", 0755); err != nil {
		panic(err)
	}
	f, err := os.Create("testdata/testcases.json")
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

type jsonTestCase struct {
	Name       string       `json:"name"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Radius     float64      `json:"radius"`
	Blur       float64      `json:"blur"`
	PixelRatio float64      `json:"pixel_ratio"`
	Gradient   []string     `json:"gradient,omitempty"`
	CTM        [6]float64   `json:"ctm"`
	Points     [][3]float64 `json:"points"`
	CellSize   int          `json:"cell_size"`
	Retained   []jsonPoint  `json:"retained"`
}

type jsonPoint struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Weight float64 `json:"weight"`
}

func toJSON(category string, tc testcases.TestCase) jsonTestCase {
	jtc := jsonTestCase{
		Name:       category + "_" + tc.Name,
		Width:      tc.Width,
		Height:     tc.Height,
		Radius:     tc.Radius,
		Blur:       tc.Blur,
		PixelRatio: tc.Ratio(),
		Gradient:   tc.Gradient,
		CTM:        tc.Transform(),
		CellSize:   hilo.CellSize(tc.Radius, tc.Blur, tc.Ratio(), 1),
	}

	features := make([]hilo.Feature, len(tc.Points))
	for i, p := range tc.Points {
		jtc.Points = append(jtc.Points, [3]float64{p.X, p.Y, p.Weight})
		features[i] = p
	}

	all := rect.Rect{LLx: -1e9, LLy: -1e9, URx: 1e9, URy: 1e9}
	weight := hilo.WeightAttribute("weight")
	for _, p := range hilo.Coarsen(features, tc.Transform(), all, jtc.CellSize, weight) {
		jtc.Retained = append(jtc.Retained, jsonPoint{X: p.X, Y: p.Y, Weight: p.Weight})
	}
	return jtc
}
