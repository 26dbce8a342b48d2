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
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

var stampParams = []struct {
	radius, blur, scale float64
}{
	{5, 2, 1},
	{8, 15, 1},
	{8, 15, 2},
	{4, 3, 1.5},
	{3, 0, 1},
	{1, 6, 1},
	{8, 15, 16},
}

func TestStampSize(t *testing.T) {
	for _, p := range stampParams {
		t.Run(fmt.Sprintf("r%g_b%g_s%g", p.radius, p.blur, p.scale), func(t *testing.T) {
			s, err := NewStamp(p.radius, p.blur, p.scale)
			if err != nil {
				t.Fatal(err)
			}
			half := int(math.Round(p.radius*p.scale + p.blur*p.scale + 1))
			b := s.Image.Bounds()
			if b.Dx() != 2*half || b.Dy() != 2*half {
				t.Errorf("size %dx%d, want %dx%d", b.Dx(), b.Dy(), 2*half, 2*half)
			}
			if s.HalfSize != half {
				t.Errorf("HalfSize %d, want %d", s.HalfSize, half)
			}
		})
	}
}

func TestStampFalloff(t *testing.T) {
	for _, p := range stampParams {
		t.Run(fmt.Sprintf("r%g_b%g_s%g", p.radius, p.blur, p.scale), func(t *testing.T) {
			s, err := NewStamp(p.radius, p.blur, p.scale)
			if err != nil {
				t.Fatal(err)
			}
			img := s.Image
			half := s.HalfSize
			alpha := func(x, y int) int { return int(img.Pix[y*img.Stride+4*x+3]) }

			maxAlpha := 0
			for y := range 2 * half {
				for x := range 2 * half {
					maxAlpha = max(maxAlpha, alpha(x, y))
				}
			}
			if c := alpha(half, half); c < maxAlpha-1 {
				t.Errorf("centre alpha %d, maximum %d", c, maxAlpha)
			}

			// The border of the stamp is radius+blur+1 away from the centre.
			for _, a := range []int{alpha(2*half-1, half), alpha(0, half), alpha(half, 0)} {
				if a > 8 {
					t.Errorf("border alpha %d, want ≈0", a)
				}
			}

			// Rotational symmetry.
			for y := range 2 * half {
				for x := range 2 * half {
					a := alpha(x, y)
					for _, b := range []int{alpha(2*half-1-x, y), alpha(x, 2*half-1-y), alpha(y, x)} {
						if d := a - b; d > 2 || d < -2 {
							t.Fatalf("pixel (%d,%d): alpha %d vs mirrored %d", x, y, a, b)
						}
					}
				}
			}

			// Monotone decay along a ray from the centre.
			prev := alpha(half, half)
			for x := half + 1; x < 2*half; x++ {
				a := alpha(x, half)
				if a > prev+1 {
					t.Errorf("alpha increases from %d to %d at x=%d", prev, a, x)
				}
				prev = a
			}
		})
	}
}

func TestStampSharp(t *testing.T) {
	s, err := NewStamp(6, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	img := s.Image
	c := float64(s.HalfSize)
	for y := range img.Bounds().Dy() {
		for x := range img.Bounds().Dx() {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c)
			a := img.Pix[y*img.Stride+4*x+3]
			if d < 5 && a != 255 {
				t.Errorf("pixel (%d,%d) inside the disc: alpha %d", x, y, a)
			}
			if d > 7 && a != 0 {
				t.Errorf("pixel (%d,%d) outside the disc: alpha %d", x, y, a)
			}
			if rgb := img.Pix[y*img.Stride+4*x : y*img.Stride+4*x+3]; rgb[0]|rgb[1]|rgb[2] != 0 {
				t.Errorf("pixel (%d,%d) is not black: %v", x, y, rgb)
			}
		}
	}
}

// TestStampZoomedIn checks that stamps for strong zoom levels are built
// quickly and keep their shape.
func TestStampZoomedIn(t *testing.T) {
	small, err := NewStamp(8, 15, 1)
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	s, err := NewStamp(8, 15, 16)
	if err != nil {
		t.Fatal(err)
	}
	if d := time.Since(start); d > time.Second {
		t.Errorf("NewStamp(8, 15, 16) took %v", d)
	}
	if s.HalfSize != 369 {
		t.Fatalf("HalfSize %d, want 369", s.HalfSize)
	}

	// The profile along a ray matches the unscaled stamp.
	alpha := func(s *Stamp, x int) int {
		return int(s.Image.Pix[s.HalfSize*s.Image.Stride+4*(s.HalfSize+x)+3])
	}
	for x := 0; 16*x+8 < s.HalfSize; x++ {
		a := alpha(small, x)
		b := alpha(s, x*16+8)
		if d := a - b; d > 12 || d < -12 {
			t.Errorf("offset %d: alpha %d at scale 16, %d at scale 1", x, b, a)
		}
	}
}

func TestStampInvalid(t *testing.T) {
	bad := [][3]float64{
		{0, 1, 1},
		{-1, 1, 1},
		{1, -1, 1},
		{1, 1, 0},
		{math.NaN(), 1, 1},
		{1, math.Inf(1), 1},
	}
	for _, p := range bad {
		_, err := NewStamp(p[0], p[1], p[2])
		if !errors.Is(err, ErrInvalidStamp) {
			t.Errorf("NewStamp%v: got %v, want ErrInvalidStamp", p, err)
		}
	}
}
