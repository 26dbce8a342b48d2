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

// Command hilo renders weighted points from a GeoJSON file as a two-tone
// heatmap.
//
// Usage:
//
//	hilo -in points.geojson -out heat.png [-config layer.json]
//	     [-width 512] [-height 512] [-pixel-ratio 1] [-format png|bmp]
//	     [-watch] [-debug]
//
// With -watch, the image is rendered again whenever the input file or
// the configuration file changes.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	var j job
	flag.StringVar(&j.In, "in", "", "GeoJSON input file")
	flag.StringVar(&j.Out, "out", "heat.png", "output image file, or - for stdout")
	flag.StringVar(&j.Config, "config", "", "JSON layer configuration")
	flag.IntVar(&j.Width, "width", 512, "image width in device pixels")
	flag.IntVar(&j.Height, "height", 512, "image height in device pixels")
	flag.Float64Var(&j.PixelRatio, "pixel-ratio", 1, "device pixels per CSS pixel")
	flag.StringVar(&j.Format, "format", "", "output format, png or bmp (default from -out)")
	watch := flag.Bool("watch", false, "render again when the input or configuration changes")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	var err error
	var l *zap.Logger
	if *debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer l.Sync() //nolint:errcheck

	if j.In == "" {
		l.Fatal("missing -in")
	}
	if j.Width <= 0 || j.Height <= 0 {
		l.Fatal("invalid image size", zap.Int("width", j.Width), zap.Int("height", j.Height))
	}

	if err := j.run(l); err != nil {
		if !*watch {
			l.Fatal("render", zap.String("path", j.In), zap.Error(err))
		}
		l.Error("render", zap.String("path", j.In), zap.Error(err))
	}
	if !*watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newWatcher(defaultDebounce, j.In, j.Config)
	if err != nil {
		l.Fatal("watch", zap.Error(err))
	}
	go w.Run(ctx)
	l.Info("watching", zap.String("in", j.In), zap.String("config", j.Config))

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.Changed:
			if err := j.run(l); err != nil {
				l.Error("render", zap.String("path", j.In), zap.Error(err))
			}
		case err := <-w.Errors:
			l.Error("watch", zap.Error(err))
		}
	}
}
