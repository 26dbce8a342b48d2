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

// Package source provides feature sources for heatmap layers.
package source

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/hilo"
)

// Source holds the point features of a GeoJSON feature collection.
// Point and MultiPoint geometries are used, everything else is skipped.
type Source struct {
	features []hilo.Feature
	bound    orb.Bound
	skipped  int
}

// New collects the points of fc.
func New(fc *geojson.FeatureCollection) *Source {
	s := &Source{}
	first := true
	add := func(pt orb.Point, props geojson.Properties) {
		s.features = append(s.features, &feature{pt: pt, props: props})
		if first {
			s.bound = pt.Bound()
			first = false
		} else {
			s.bound = s.bound.Extend(pt)
		}
	}

	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Point:
			add(g, f.Properties)
		case orb.MultiPoint:
			for _, pt := range g {
				add(pt, f.Properties)
			}
		default:
			s.skipped++
		}
	}
	return s
}

// Unmarshal parses a GeoJSON feature collection.
func Unmarshal(data []byte) (*Source, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("geojson: %w", err)
	}
	return New(fc), nil
}

// ReadFile reads a GeoJSON feature collection from a file.
func ReadFile(name string) (*Source, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	s, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// Features implements [hilo.FeatureSource].
func (s *Source) Features() []hilo.Feature {
	return s.features
}

// Len returns the number of point features.
func (s *Source) Len() int {
	return len(s.features)
}

// Skipped returns the number of features without point geometry.
func (s *Source) Skipped() int {
	return s.skipped
}

// Bound returns the bounding box of all points.
// The result is the zero bound if there are no points.
func (s *Source) Bound() orb.Bound {
	return s.bound
}

// Extent returns Bound as a rectangle.
func (s *Source) Extent() rect.Rect {
	return rect.Rect{
		LLx: s.bound.Min.X(),
		LLy: s.bound.Min.Y(),
		URx: s.bound.Max.X(),
		URy: s.bound.Max.Y(),
	}
}

type feature struct {
	pt    orb.Point
	props geojson.Properties
}

func (f *feature) Coordinate() vec.Vec2 {
	return vec.Vec2{X: f.pt.X(), Y: f.pt.Y()}
}

func (f *feature) Attribute(name string) (any, bool) {
	v, ok := f.props[name]
	return v, ok && v != nil
}
