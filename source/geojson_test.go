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

package source

import (
	"os"
	"path/filepath"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/hilo"
)

const sample = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [1, 2]},
     "properties": {"weight": 0.2, "name": "a"}},
    {"type": "Feature", "geometry": {"type": "MultiPoint", "coordinates": [[3, 4], [-1, 7]]},
     "properties": {"weight": "0.9"}},
    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]},
     "properties": {}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [5, 0]},
     "properties": {"weight": null}}
  ]
}`

func TestUnmarshal(t *testing.T) {
	s, err := Unmarshal([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 4 {
		t.Errorf("got %d features, want 4", s.Len())
	}
	if s.Skipped() != 1 {
		t.Errorf("got %d skipped features, want 1", s.Skipped())
	}

	want := rect.Rect{LLx: -1, LLy: 0, URx: 5, URy: 7}
	if got := s.Extent(); got != want {
		t.Errorf("extent %v, want %v", got, want)
	}

	f := s.Features()
	if c := f[0].Coordinate(); c.X != 1 || c.Y != 2 {
		t.Errorf("first coordinate %v", c)
	}
	if v, ok := f[0].Attribute("name"); !ok || v != "a" {
		t.Errorf("name attribute = %v, %t", v, ok)
	}
	if _, ok := f[3].Attribute("weight"); ok {
		t.Error("null attribute reported as present")
	}
}

func TestWeights(t *testing.T) {
	s, err := Unmarshal([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	// Every point gets its own cell, so the weights come through unchanged.
	points := hilo.Coarsen(s.Features(), matrix.Scale(100, 100), s.Extent(), 1,
		hilo.WeightAttribute("weight"))
	want := []float64{0.2, 0.9, 0.9, hilo.DefaultWeight}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i, p := range points {
		if p.Weight != want[i] {
			t.Errorf("point %d: weight %g, want %g", i, p.Weight, want[i])
		}
	}
}

func TestReadFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "points.geojson")
	if err := os.WriteFile(name, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 4 {
		t.Errorf("got %d features, want 4", s.Len())
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.geojson")); err == nil {
		t.Error("missing file: expected error")
	}
	bad := filepath.Join(t.TempDir(), "bad.geojson")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(bad); err == nil {
		t.Error("malformed file: expected error")
	}
}
