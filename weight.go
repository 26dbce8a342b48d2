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
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// WeightFunc returns the weight of a feature. The second return value is
// false if the feature has no usable weight.
type WeightFunc func(Feature) (float64, bool)

// DefaultWeight is used for features without a usable weight.
const DefaultWeight = 1.0

// WeightAttribute returns a WeightFunc which reads the named attribute.
// Numeric values of any Go number type, json.Number values and numeric
// strings are accepted.
func WeightAttribute(name string) WeightFunc {
	return func(f Feature) (float64, bool) {
		v, ok := f.Attribute(name)
		if !ok {
			return 0, false
		}
		return toFloat(v)
	}
}

// weightOf evaluates fn for f and clamps the result to [0, 1].
// Missing weights and NaN map to DefaultWeight.
func weightOf(fn WeightFunc, f Feature) float64 {
	if fn == nil {
		return DefaultWeight
	}
	w, ok := fn(f)
	if !ok || math.IsNaN(w) {
		return DefaultWeight
	}
	return max(0, min(1, w))
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}
