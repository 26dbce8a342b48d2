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

// Command genpdf draws a vector proof sheet for every heatmap scene.
// Each page shows the coarsening grid and the retained points, with the
// solid part of every stamp filled in a grey level equal to the point
// weight.  With -png, the pages are also rendered using Ghostscript.
package main

import (
	"flag"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/hilo"
	"seehuhn.de/go/hilo/testcases"
)

func main() {
	outDir := flag.String("out", "testdata/proof", "output directory")
	withPNG := flag.Bool("png", false, "also render PNG files using Ghostscript")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := category + "_" + tc.Name
			pdfPath := filepath.Join(*outDir, name+".pdf")

			if err := generatePDF(tc, pdfPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}

			if *withPNG {
				pngPath := filepath.Join(*outDir, name+".png")
				if err := renderPNG(pdfPath, pngPath); err != nil {
					panic(fmt.Errorf("%s: %w", name, err))
				}
			}
		}
	}
}

func generatePDF(tc testcases.TestCase, pdfPath string) error {
	w, h := float64(tc.Width), float64(tc.Height)
	paper := &pdf.Rectangle{URx: w, URy: h}

	page, err := document.CreateSinglePage(pdfPath, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetFillColor(color.DeviceGray(1))
	page.Rectangle(0, 0, w, h)
	page.Fill()

	// PDF origin is bottom-left; device pixels start top-left.
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, h})

	ratio := tc.Ratio()
	cell := hilo.CellSize(tc.Radius, tc.Blur, ratio, 1)

	page.SetStrokeColor(color.DeviceGray(0.8))
	page.SetLineWidth(0.25)
	page.SetLineCap(graphics.LineCapButt)
	for x := cell; x < tc.Width; x += cell {
		page.MoveTo(float64(x), 0)
		page.LineTo(float64(x), h)
	}
	for y := cell; y < tc.Height; y += cell {
		page.MoveTo(0, float64(y))
		page.LineTo(w, float64(y))
	}
	page.Stroke()

	features := make([]hilo.Feature, len(tc.Points))
	for i, p := range tc.Points {
		features[i] = p
	}
	extent := rect.Rect{LLx: -1e9, LLy: -1e9, URx: 1e9, URy: 1e9}
	points := hilo.Coarsen(features, tc.Transform(), extent, cell, hilo.WeightAttribute("weight"))

	r := tc.Radius * ratio
	for _, p := range points {
		page.SetFillColor(color.DeviceGray(p.Weight))
		circle(page, float64(p.X), float64(p.Y), r)
		page.Fill()
	}

	return page.Close()
}

// circle appends a circle, made of four cubic Bézier arcs, to the
// current path.
func circle(page *document.Page, cx, cy, r float64) {
	const k = 0.5522847498
	kr := k * r

	page.MoveTo(cx+r, cy)
	page.CurveTo(cx+r, cy+kr, cx+kr, cy+r, cx, cy+r)
	page.CurveTo(cx-kr, cy+r, cx-r, cy+kr, cx-r, cy)
	page.CurveTo(cx-r, cy-kr, cx-kr, cy-r, cx, cy-r)
	page.CurveTo(cx+kr, cy-r, cx+r, cy-kr, cx+r, cy)
	page.ClosePath()
}

func renderPNG(pdfPath, pngPath string) error {
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=png16m",
		"-r72",
		"-dGraphicsAlphaBits=4",
		"-dTextAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
