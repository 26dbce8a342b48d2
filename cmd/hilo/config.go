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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"go.uber.org/zap"

	"seehuhn.de/go/hilo"
)

// Config is the JSON layer configuration read with -config.
// Fields which are absent keep their default values.
type Config struct {
	Gradient []string `json:"gradient"`
	Radius   float64  `json:"radius"`
	Blur     float64  `json:"blur"`
	Shadow   float64  `json:"shadow"`
	Weight   string   `json:"weight"`
}

// DefaultConfig returns the configuration used without -config.
func DefaultConfig() *Config {
	d := hilo.DefaultOptions()
	return &Config{
		Gradient: slices.Clone(hilo.DefaultGradientHex),
		Radius:   d.Radius,
		Blur:     d.Blur,
		Shadow:   d.Shadow,
		Weight:   d.Weight,
	}
}

// ParseConfig decodes a JSON configuration on top of the defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("layer config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads a configuration file.  An empty name selects the
// defaults.
func LoadConfig(name string) (*Config, error) {
	if name == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// Options converts the configuration into layer options.
func (c *Config) Options(log *zap.Logger) (*hilo.Options, error) {
	stops, err := hilo.ParseGradient(c.Gradient)
	if err != nil {
		return nil, err
	}
	opts := hilo.DefaultOptions()
	opts.Gradient = stops
	opts.Radius = c.Radius
	opts.Blur = c.Blur
	opts.Shadow = c.Shadow
	opts.Weight = c.Weight
	opts.Logger = log
	return opts, nil
}
