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

// Package hilo renders point features as a two-tone heatmap.
//
// Every feature carries a weight in [0, 1]. Weights below the midpoint 0.5
// feed a "low" density field, weights above it a "high" density field.
// Both fields are accumulated separately, combined into one signed
// intensity per pixel and coloured through a 256-entry gradient table.
//
// The rendering pipeline for one frame is
//
//	Coarsen    → one representative point per grid cell
//	Composite  → low and high alpha buffers
//	Resolve    → gradient colours and contrast-stretched alpha
//
// A [Layer] drives the pipeline for a host map, caching the stamp image
// and the gradient table between frames.
package hilo

import (
	"errors"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Feature is a point feature owned by the host.
type Feature interface {
	// Coordinate returns the position of the feature in world coordinates.
	Coordinate() vec.Vec2

	// Attribute looks up a feature property by name.
	Attribute(name string) (any, bool)
}

// FeatureSource supplies the features of a layer.
type FeatureSource interface {
	Features() []Feature
}

// Frame describes the view for one render tick.
type Frame struct {
	// PixelRatio is the number of device pixels per CSS pixel.
	PixelRatio float64

	// Resolution is the current view resolution in world units per CSS
	// pixel.
	Resolution float64

	// Extent is the visible area in world coordinates.
	Extent rect.Rect

	// Transform maps world coordinates to device pixels.
	Transform matrix.Matrix

	// Layers lists the layers which take part in this frame.
	Layers []LayerState
}

// LayerState is the per-frame state of one layer.
type LayerState struct {
	ID      string
	Visible bool
}

// lookup returns the state of the layer with the given ID.
func (f *Frame) lookup(id string) (LayerState, bool) {
	for _, s := range f.Layers {
		if s.ID == id {
			return s, true
		}
	}
	return LayerState{}, false
}

// Point is a feature projected to device pixels.
type Point struct {
	X, Y   int
	Weight float64
}

// opacity returns the paint alpha used when stamping p.
func (p Point) opacity() float64 {
	if p.Weight <= midpoint {
		return (midpoint - p.Weight) * 2
	}
	return (p.Weight - midpoint) * 2
}

// isLow reports whether p belongs to the low density field.
func (p Point) isLow() bool {
	return p.Weight <= midpoint
}

// midpoint separates low from high weights.
const midpoint = 0.5

var (
	// ErrTooFewStops is returned when a gradient has less than two colour
	// stops.
	ErrTooFewStops = errors.New("hilo: gradient needs at least two colour stops")

	// ErrInvalidStamp is returned for a non-positive radius or scale, or a
	// negative blur.
	ErrInvalidStamp = errors.New("hilo: invalid stamp parameters")

	// ErrInvalidOption is returned by [New] and the layer setters for
	// malformed configuration values.
	ErrInvalidOption = errors.New("hilo: invalid option")
)
