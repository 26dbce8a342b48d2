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
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// GradientTable maps an 8-bit intensity to a colour.
type GradientTable [256]color.NRGBA

// NewGradientTable builds the lookup table for a linear gradient through
// the given colour stops. Stop i of n is placed at position i/(n-1), and
// entry k of the table is sampled at position k/255.
func NewGradientTable(stops []color.Color) (*GradientTable, error) {
	n := len(stops)
	if n < 2 {
		return nil, fmt.Errorf("%d stops: %w", n, ErrTooFewStops)
	}

	cols := make([]colorful.Color, n)
	alpha := make([]float64, n)
	for i, c := range stops {
		if c == nil {
			return nil, fmt.Errorf("stop %d is nil: %w", i, ErrInvalidOption)
		}
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		cols[i] = colorful.Color{
			R: float64(nc.R) / 255,
			G: float64(nc.G) / 255,
			B: float64(nc.B) / 255,
		}
		alpha[i] = float64(nc.A) / 255
	}

	table := &GradientTable{}
	last := float64(n - 1)
	for k := range table {
		t := float64(k) / 255 * last
		i := min(int(t), n-2)
		f := t - float64(i)

		c := cols[i].BlendRgb(cols[i+1], f).Clamped()
		a := alpha[i] + f*(alpha[i+1]-alpha[i])
		table[k] = color.NRGBA{
			R: to8(c.R),
			G: to8(c.G),
			B: to8(c.B),
			A: to8(a),
		}
	}
	return table, nil
}

// ParseGradient converts hex colour strings like "#0f0" or "#00ff00" into
// gradient stops.
func ParseGradient(hex []string) ([]color.Color, error) {
	stops := make([]color.Color, len(hex))
	for i, s := range hex {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("gradient stop %d %q: %w", i, s, ErrInvalidOption)
		}
		stops[i] = c
	}
	return stops, nil
}

// DefaultGradientHex lists the default colour stops as hex strings.
var DefaultGradientHex = []string{"#00f", "#0ff", "#0f0", "#ff0", "#f00"}

// DefaultGradient is used when no gradient is configured.
var DefaultGradient = mustParseGradient(DefaultGradientHex)

func mustParseGradient(hex []string) []color.Color {
	stops, err := ParseGradient(hex)
	if err != nil {
		panic(err)
	}
	return stops
}

// to8 converts a value in [0, 1] to a byte.
func to8(x float64) uint8 {
	return uint8(max(0, min(255, math.Round(x*255))))
}
