// seehuhn.de/go/shadowclock - a shadow-casting clock face renderer
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

package canvas

import (
	"image"
	"math"
)

// Three passes of a box filter approximate a Gaussian blur.  The helpers
// below operate on a float32 mask with the given row stride, restricted to
// the rectangle r.  Values outside r are treated as zero.

// blurSigma converts a blur radius into the standard deviation of the
// corresponding Gaussian.
func blurSigma(radius float64) float64 {
	return 0.57735*radius + 0.5
}

// boxRadius returns the half width of a box filter which, applied three
// times, has approximately the variance sigma².
func boxRadius(sigma float64) int {
	// one pass of width 2k+1 has variance ((2k+1)²-1)/12
	k := (math.Sqrt(4*sigma*sigma+1) - 1) / 2
	return max(1, int(math.Round(k)))
}

func boxBlurRows(src, dst []float32, stride int, r image.Rectangle, k int) {
	norm := 1 / float32(2*k+1)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * stride
		for x := r.Min.X; x < r.Max.X; x++ {
			var sum float32
			for j := max(x-k, r.Min.X); j <= min(x+k, r.Max.X-1); j++ {
				sum += src[row+j]
			}
			dst[row+x] = sum * norm
		}
	}
}

func boxBlurCols(src, dst []float32, stride int, r image.Rectangle, k int) {
	norm := 1 / float32(2*k+1)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			var sum float32
			for j := max(y-k, r.Min.Y); j <= min(y+k, r.Max.Y-1); j++ {
				sum += src[j*stride+x]
			}
			dst[y*stride+x] = sum * norm
		}
	}
}
