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
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// Options configures a [Layer].
type Options struct {
	// ID identifies the layer among the layers of a [Frame].
	ID string

	// Gradient lists the colour stops from low to high intensity.
	// Nil selects DefaultGradient.
	Gradient []color.Color

	// Radius is the radius of the solid part of a stamp, in CSS pixels.
	// Must be positive.
	Radius float64

	// Blur is the width of the soft edge of a stamp, in CSS pixels.
	// Must not be negative.
	Blur float64

	// Shadow is accepted for compatibility and not used for rendering.
	Shadow float64

	// Weight names the feature attribute holding the weight.
	// It is ignored if WeightFunc is set.
	Weight string

	// WeightFunc computes feature weights.
	WeightFunc WeightFunc

	// Logger receives diagnostics. Nil disables logging.
	Logger *zap.Logger

	// OnChange is called after a setter has changed the layer, to request
	// a redraw from the host.
	OnChange func()
}

// DefaultOptions returns the options used by New(nil).
func DefaultOptions() *Options {
	return &Options{
		ID:       "hilo",
		Gradient: slices.Clone(DefaultGradient),
		Radius:   defaultRadius,
		Blur:     defaultBlur,
		Shadow:   defaultShadow,
		Weight:   defaultWeightAttribute,
	}
}

// Layer renders a feature source as a two-tone heatmap.
//
// The stamp image and the gradient table are cached between frames. The
// stamp is rebuilt when the radius, the blur or the scale (pixel ratio
// times zoom ratio) change; the table is rebuilt when the gradient changes.
//
// A Layer is not safe for concurrent use.
type Layer struct {
	id       string
	log      *zap.Logger
	onChange func()

	gradient []color.Color
	table    *GradientTable

	radius, blur, shadow float64
	weightName           string
	weight               WeightFunc

	stamp      *Stamp
	stampDirty bool

	// baseResolution is the view resolution of the first rendered frame.
	baseResolution float64

	phase Phase
}

// New creates a layer. Nil opts selects DefaultOptions.
func New(opts *Options) (*Layer, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.ID == "" {
		return nil, fmt.Errorf("empty layer ID: %w", ErrInvalidOption)
	}
	if err := checkRadius(opts.Radius); err != nil {
		return nil, err
	}
	if err := checkBlur(opts.Blur); err != nil {
		return nil, err
	}

	l := &Layer{
		id:         opts.ID,
		log:        opts.Logger,
		onChange:   opts.OnChange,
		radius:     opts.Radius,
		blur:       opts.Blur,
		shadow:     opts.Shadow,
		weightName: opts.Weight,
		stampDirty: true,
	}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	if l.weightName == "" {
		l.weightName = defaultWeightAttribute
	}
	l.weight = opts.WeightFunc
	if l.weight == nil {
		l.weight = WeightAttribute(l.weightName)
	}

	gradient := opts.Gradient
	if gradient == nil {
		gradient = DefaultGradient
	}
	table, err := NewGradientTable(gradient)
	if err != nil {
		return nil, err
	}
	l.gradient = slices.Clone(gradient)
	l.table = table

	return l, nil
}

// ID returns the identifier used to find the layer in a [Frame].
func (l *Layer) ID() string {
	return l.id
}

// SortFeatures reports whether the host should sort features before
// rendering. Density accumulation does not depend on the order.
func (l *Layer) SortFeatures() bool {
	return false
}

// Gradient returns a copy of the colour stops.
func (l *Layer) Gradient() []color.Color {
	return slices.Clone(l.gradient)
}

// Table returns a copy of the current gradient lookup table.
func (l *Layer) Table() GradientTable {
	return *l.table
}

// SetGradient replaces the colour stops. The gradient table is rebuilt
// immediately; on error the layer is left unchanged.
func (l *Layer) SetGradient(stops []color.Color) error {
	table, err := NewGradientTable(stops)
	if err != nil {
		return err
	}
	l.gradient = slices.Clone(stops)
	l.table = table
	l.log.Debug("gradient table rebuilt",
		zap.String("layer", l.id),
		zap.Int("stops", len(stops)))
	l.changed()
	return nil
}

// Radius returns the stamp radius in CSS pixels.
func (l *Layer) Radius() float64 {
	return l.radius
}

// SetRadius changes the stamp radius.
func (l *Layer) SetRadius(radius float64) error {
	if err := checkRadius(radius); err != nil {
		return err
	}
	if radius != l.radius {
		l.radius = radius
		l.stampDirty = true
		l.changed()
	}
	return nil
}

// Blur returns the width of the soft stamp edge in CSS pixels.
func (l *Layer) Blur() float64 {
	return l.blur
}

// SetBlur changes the width of the soft stamp edge.
func (l *Layer) SetBlur(blur float64) error {
	if err := checkBlur(blur); err != nil {
		return err
	}
	if blur != l.blur {
		l.blur = blur
		l.stampDirty = true
		l.changed()
	}
	return nil
}

// Shadow returns the configured shadow offset. It does not affect the
// output.
func (l *Layer) Shadow() float64 {
	return l.shadow
}

// SetWeight reads feature weights from the named attribute.
func (l *Layer) SetWeight(name string) {
	if name == "" {
		name = defaultWeightAttribute
	}
	l.weightName = name
	l.weight = WeightAttribute(name)
	l.changed()
}

// SetWeightFunc computes feature weights with fn. Nil reverts to the
// weight attribute.
func (l *Layer) SetWeightFunc(fn WeightFunc) {
	if fn == nil {
		fn = WeightAttribute(l.weightName)
	}
	l.weight = fn
	l.changed()
}

// Stamp returns a copy of the cached stamp, or nil before the first frame.
func (l *Layer) Stamp() *Stamp {
	if l.stamp == nil {
		return nil
	}
	s := *l.stamp
	img := *s.Image
	img.Pix = slices.Clone(img.Pix)
	s.Image = &img
	return &s
}

// ResetBaseResolution makes the next frame the new zoom reference.
func (l *Layer) ResetBaseResolution() {
	l.baseResolution = 0
}

func (l *Layer) changed() {
	if l.onChange != nil {
		l.onChange()
	}
}

// Render draws the heatmap for one frame into dst and reports whether
// dst was modified.
//
// Nothing is drawn if the frame does not list the layer as visible or if
// no feature falls inside the frame extent. Errors and panics are logged
// and the frame is dropped; they never reach the caller.
func (l *Layer) Render(frame *Frame, src FeatureSource, dst *image.RGBA) (drawn bool) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("frame dropped",
				zap.String("layer", l.id),
				zap.Stringer("phase", l.phase),
				zap.Any("panic", r))
			drawn = false
		}
		l.phase = Idle
	}()

	drawn, err := l.render(frame, src, dst)
	if err != nil {
		l.log.Error("frame dropped",
			zap.String("layer", l.id),
			zap.Stringer("phase", l.phase),
			zap.Error(err))
		return false
	}
	return drawn
}

func (l *Layer) render(frame *Frame, src FeatureSource, dst *image.RGBA) (bool, error) {
	if frame == nil || src == nil || dst == nil {
		return false, nil
	}
	if state, ok := frame.lookup(l.id); !ok || !state.Visible {
		return false, nil
	}
	if !(frame.Resolution > 0) || math.IsInf(frame.Resolution, 0) {
		return false, fmt.Errorf("view resolution %g: %w", frame.Resolution, ErrInvalidOption)
	}
	pixelRatio := frame.PixelRatio
	if !(pixelRatio > 0) {
		pixelRatio = 1
	}

	if l.baseResolution == 0 {
		l.baseResolution = frame.Resolution
	}
	zoom := l.baseResolution / frame.Resolution
	scale := pixelRatio * zoom

	l.phase = BuildingStamp
	if l.stampDirty || !l.stamp.matches(l.radius, l.blur, scale) {
		stamp, err := NewStamp(l.radius, l.blur, scale)
		if err != nil {
			return false, err
		}
		l.stamp = stamp
		l.stampDirty = false
		l.log.Debug("stamp rebuilt",
			zap.String("layer", l.id),
			zap.Int("size", 2*stamp.HalfSize),
			zap.Float64("scale", scale))
	}

	l.phase = BuildingGrid
	cell := CellSize(l.radius, l.blur, pixelRatio, zoom)
	points := Coarsen(src.Features(), frame.Transform, frame.Extent, cell, l.weight)
	if len(points) == 0 {
		return false, nil
	}

	l.phase = Compositing
	low, high := Composite(dst, l.stamp, points)

	l.phase = Resolving
	img := image.NewNRGBA(dst.Bounds())
	draw.Draw(img, img.Bounds(), dst, dst.Bounds().Min, draw.Src)
	contrast := Resolve(low, high, img, l.table)

	l.phase = WritingBack
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)

	l.log.Debug("frame rendered",
		zap.String("layer", l.id),
		zap.Int("points", len(points)),
		zap.Int("cell", cell),
		zap.Uint8("min", contrast.Min),
		zap.Uint8("max", contrast.Max))
	return true, nil
}

func checkRadius(radius float64) error {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return fmt.Errorf("radius %g: %w", radius, ErrInvalidOption)
	}
	return nil
}

func checkBlur(blur float64) error {
	if !(blur >= 0) || math.IsInf(blur, 0) {
		return fmt.Errorf("blur %g: %w", blur, ErrInvalidOption)
	}
	return nil
}

// Phase is the stage of the render pipeline a layer is in.
type Phase int

// These are the pipeline stages, in the order they run during a frame.
const (
	Idle Phase = iota
	BuildingStamp
	BuildingGrid
	Compositing
	Resolving
	WritingBack
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case BuildingStamp:
		return "building stamp"
	case BuildingGrid:
		return "building grid"
	case Compositing:
		return "compositing"
	case Resolving:
		return "resolving"
	case WritingBack:
		return "writing back"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Default option values.
const (
	defaultRadius          = 8
	defaultBlur            = 15
	defaultShadow          = 250
	defaultWeightAttribute = "weight"
)
