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
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/hilo/internal/raster"
)

// Stamp is the soft-edged circle drawn for every point.
type Stamp struct {
	// Image holds premultiplied black with a radial alpha falloff.
	// Its side length is 2*HalfSize.
	Image *image.RGBA

	// HalfSize is the distance from the image border to the centre.
	HalfSize int

	Radius, Blur, Scale float64
}

// NewStamp draws a disc of radius radius*scale, softened by a Gaussian
// falloff of width blur*scale, into a square image. The standard deviation
// of the Gaussian is half the scaled blur, as for a canvas shadow.
//
// Blurred stamps for large scales are built at a reduced working scale and
// then resampled, so that the cost stays bounded when the map is zoomed in.
func NewStamp(radius, blur, scale float64) (*Stamp, error) {
	if !(radius > 0) || !(blur >= 0) || !(scale > 0) ||
		math.IsInf(radius, 0) || math.IsInf(blur, 0) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("radius=%g blur=%g scale=%g: %w",
			radius, blur, scale, ErrInvalidStamp)
	}

	half := stampHalfSize(radius, blur, scale)

	var img *image.RGBA
	if blur == 0 {
		img = stampDisc(half, radius*scale)
	} else {
		work := min(scale, 2*maxWorkSigma/blur, (maxWorkHalf-1)/(radius+blur))
		workHalf := stampHalfSize(radius, blur, work)
		img = stampDisc(workHalf, radius*work)
		img = gaussianBlur(img, blur*work/2)

		if work != scale {
			// Map the centre of the working image to the centre of the
			// stamp, magnifying by scale/work.
			f := scale / work
			d := float64(half) - f*float64(workHalf)
			full := image.NewRGBA(image.Rect(0, 0, 2*half, 2*half))
			draw.CatmullRom.Transform(full, f64.Aff3{f, 0, d, 0, f, d}, img, img.Bounds(), draw.Src, nil)
			img = full
		}
	}

	return &Stamp{
		Image:    img,
		HalfSize: half,
		Radius:   radius,
		Blur:     blur,
		Scale:    scale,
	}, nil
}

// Limits for the working resolution of blurred stamps.
const (
	// maxWorkSigma is the largest standard deviation of the blur, in
	// working pixels.
	maxWorkSigma = 8

	// maxWorkHalf is the largest half size of the working image.
	maxWorkHalf = 128
)

func stampHalfSize(radius, blur, scale float64) int {
	return int(math.Round(radius*scale + blur*scale + 1))
}

// stampDisc rasterises an anti-aliased disc of radius r, centred in a
// square image of side 2*half.
func stampDisc(half int, r float64) *image.RGBA {
	side := 2 * half
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	c := float64(half)
	rs := raster.NewRasteriser(rect.Rect{URx: float64(side), URy: float64(side)})
	rs.FillNonZero(raster.Circle(c, c, r), func(y, xMin int, coverage []float32) {
		row := img.Pix[y*img.Stride+4*xMin:]
		for i, v := range coverage {
			row[4*i+3] = uint8(min(255, math.Round(float64(v)*255)))
		}
	})
	return img
}

// matches reports whether s was built for the given parameters.
func (s *Stamp) matches(radius, blur, scale float64) bool {
	return s != nil && s.Radius == radius && s.Blur == blur && s.Scale == scale
}

// gaussianBlur applies a separable Gaussian filter with the given
// standard deviation. The kernel is truncated at 2*sigma+1, the margin
// between the disc and the border of the stamp.
func gaussianBlur(img *image.RGBA, sigma float64) *image.RGBA {
	reach := math.Ceil(2*sigma + 1)
	n := 2*int(reach) + 1
	k := convolution.NewKernel(n, 1)
	f := -0.5 / (sigma * sigma)
	for i := range n {
		x := float64(i) - reach
		k.Matrix[i] = math.Exp(f * x * x)
	}
	kn := k.Normalized()

	opt := &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: false}
	out := convolution.Convolve(img, kn, opt)
	return convolution.Convolve(out, kn.Transposed(), opt)
}
