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
	"testing"

	"seehuhn.de/go/geom/matrix"
)

func newTestStamp(t *testing.T) *Stamp {
	t.Helper()
	s, err := NewStamp(5, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func total(alpha []uint8) int {
	sum := 0
	for _, a := range alpha {
		sum += int(a)
	}
	return sum
}

func TestCompositeSeparation(t *testing.T) {
	stamp := newTestStamp(t)
	canvas := image.NewRGBA(image.Rect(0, 0, 32, 32))

	low, high := Composite(canvas, stamp, []Point{{X: 16, Y: 16, Weight: 0.3}})
	if total(low) == 0 {
		t.Error("low point left the low buffer empty")
	}
	if total(high) != 0 {
		t.Error("low point reached the high buffer")
	}

	low, high = Composite(canvas, stamp, []Point{{X: 16, Y: 16, Weight: 0.8}})
	if total(low) != 0 {
		t.Error("high point reached the low buffer")
	}
	if total(high) == 0 {
		t.Error("high point left the high buffer empty")
	}
}

func TestCompositeNeutral(t *testing.T) {
	stamp := newTestStamp(t)
	canvas := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for i := range canvas.Pix {
		canvas.Pix[i] = 0xff
	}

	low, high := Composite(canvas, stamp, []Point{{X: 16, Y: 16, Weight: 0.5}})
	if total(low) != 0 || total(high) != 0 {
		t.Error("neutral point left a trace")
	}
	if total(alphaChannel(canvas)) != 0 {
		t.Error("canvas not cleared")
	}
}

// TestCompositeCanvas checks that the canvas ends up holding all points,
// and that the stamp is centred on the point.
func TestCompositeCanvas(t *testing.T) {
	stamp := newTestStamp(t)
	canvas := image.NewRGBA(image.Rect(0, 0, 40, 20))
	points := []Point{
		{X: 10, Y: 10, Weight: 0},
		{X: 30, Y: 10, Weight: 1},
	}
	low, high := Composite(canvas, stamp, points)
	all := alphaChannel(canvas)

	w := 40
	for i := range all {
		if all[i] < max(low[i], high[i]) {
			t.Fatalf("pixel %d: combined alpha %d below %d/%d", i, all[i], low[i], high[i])
		}
	}

	centre := stamp.Image.Pix[stamp.HalfSize*stamp.Image.Stride+4*stamp.HalfSize+3]
	if got := low[10*w+10]; got != centre {
		t.Errorf("low centre alpha %d, want %d", got, centre)
	}
	if got := high[10*w+30]; got != centre {
		t.Errorf("high centre alpha %d, want %d", got, centre)
	}
	if low[10*w+30] != 0 || high[10*w+10] != 0 {
		t.Error("buffers mixed up")
	}
}

// TestCompositeOver checks that overlapping stamps combine with
// source-over alpha, rather than adding up.
func TestCompositeOver(t *testing.T) {
	stamp := newTestStamp(t)
	canvas := image.NewRGBA(image.Rect(0, 0, 32, 32))

	// Each point has opacity 0.5.
	points := []Point{
		{X: 16, Y: 16, Weight: 0.25},
		{X: 16, Y: 16, Weight: 0.25},
	}
	low, _ := Composite(canvas, stamp, points)

	centre := float64(stamp.Image.Pix[stamp.HalfSize*stamp.Image.Stride+4*stamp.HalfSize+3]) / 255
	one := 0.5 * centre
	want := 255 * (1 - (1-one)*(1-one))
	got := float64(low[16*32+16])
	if got < want-2 || got > want+2 {
		t.Errorf("centre alpha %g, want %.1f", got, want)
	}
}

func TestCompositeClipping(t *testing.T) {
	stamp := newTestStamp(t)
	canvas := image.NewRGBA(image.Rect(0, 0, 16, 16))
	points := []Point{
		{X: -100, Y: 5, Weight: 0},
		{X: 0, Y: 0, Weight: 0},
		{X: 15, Y: 15, Weight: 1},
	}
	low, high := Composite(canvas, stamp, points)
	if len(low) != 16*16 || len(high) != 16*16 {
		t.Fatalf("buffer sizes %d, %d", len(low), len(high))
	}
	if low[0] == 0 || high[16*16-1] == 0 {
		t.Error("corner points missing")
	}
}

func TestCompositeSubImage(t *testing.T) {
	stamp := newTestStamp(t)
	base := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for i := range base.Pix {
		base.Pix[i] = 0x80
	}
	canvas := base.SubImage(image.Rect(16, 16, 48, 48)).(*image.RGBA)

	low, _ := Composite(canvas, stamp, []Point{{X: 0, Y: 0, Weight: 0}})
	if low[0] == 0 {
		t.Error("point at the canvas origin not drawn")
	}
	if base.Pix[3] != 0x80 {
		t.Error("pixels outside the sub-image were modified")
	}
	if base.Pix[16*base.Stride+4*16+3] == 0x80 {
		t.Error("sub-image not cleared")
	}
}

// TestCompositeHiloPair runs the grid and both stamp passes on two
// opposite points sharing a cell, plus a neutral point elsewhere.
func TestCompositeHiloPair(t *testing.T) {
	features := []Feature{
		weighted(10, 10, 0.1),
		weighted(10, 10, 0.9),
		weighted(100, 100, 0.5),
	}
	cell := CellSize(5, 2, 1, 1)
	points := Coarsen(features, matrix.Identity, everything, cell, WeightAttribute("weight"))
	if len(points) != 2 {
		t.Fatalf("%d cells, want 2", len(points))
	}

	stamp := newTestStamp(t)
	canvas := image.NewRGBA(image.Rect(0, 0, 128, 128))
	low, high := Composite(canvas, stamp, points)

	if total(low) != 0 {
		t.Error("the low point was not replaced")
	}
	if high[10*128+10] == 0 {
		t.Error("high point missing")
	}
	if high[100*128+100] != 0 || alphaChannel(canvas)[100*128+100] != 0 {
		t.Error("neutral point left a trace")
	}
}
