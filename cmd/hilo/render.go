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

package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/bmp"

	"seehuhn.de/go/hilo"
	"seehuhn.de/go/hilo/source"
)

var errFormat = errors.New("unsupported image format")

// job describes one rendering run of the command.
type job struct {
	In         string
	Out        string
	Config     string
	Width      int
	Height     int
	PixelRatio float64
	Format     string
}

// run renders the input file and writes the image.
func (j *job) run(log *zap.Logger) error {
	cfg, err := LoadConfig(j.Config)
	if err != nil {
		return err
	}
	opts, err := cfg.Options(log)
	if err != nil {
		return err
	}
	layer, err := hilo.New(opts)
	if err != nil {
		return err
	}

	src, err := source.ReadFile(j.In)
	if err != nil {
		return err
	}
	if n := src.Skipped(); n > 0 {
		log.Warn("skipped non-point features",
			zap.String("path", j.In),
			zap.Int("count", n))
	}

	img, drawn := renderImage(layer, src, j.Width, j.Height, j.PixelRatio)
	if !drawn {
		log.Warn("no points drawn", zap.String("path", j.In))
	}

	format := j.format()
	if j.Out == "-" {
		return encode(os.Stdout, img, format)
	}
	f, err := os.Create(j.Out)
	if err != nil {
		return err
	}
	err = encode(f, img, format)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", j.Out, err)
	}

	log.Info("image written",
		zap.String("path", j.Out),
		zap.Int("points", src.Len()),
		zap.String("format", format))
	return nil
}

// format returns the output format, guessing from the file name
// extension if none was given.
func (j *job) format() string {
	if j.Format != "" {
		return strings.ToLower(j.Format)
	}
	if strings.EqualFold(filepath.Ext(j.Out), ".bmp") {
		return "bmp"
	}
	return "png"
}

// renderImage draws the features of src onto a new canvas, scaled to fit.
// The border is one stamp half size wide, so that points on the edge of
// the data bound are drawn in full.
func renderImage(layer *hilo.Layer, src *source.Source, width, height int, pixelRatio float64) (*image.RGBA, bool) {
	if !(pixelRatio > 0) {
		pixelRatio = 1
	}
	margin := (layer.Radius() + layer.Blur() + 1) * pixelRatio
	m, scale := fit(src.Extent(), width, height, margin)

	frame := &hilo.Frame{
		PixelRatio: pixelRatio,
		Resolution: pixelRatio / scale,
		Extent:     visible(m, width, height),
		Transform:  m,
		Layers:     []hilo.LayerState{{ID: layer.ID(), Visible: true}},
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	drawn := layer.Render(frame, src, dst)
	return dst, drawn
}

func encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%q: %w", format, errFormat)
	}
}
