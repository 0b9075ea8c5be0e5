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
	"image/color"
	"math"
	"slices"

	xdraw "golang.org/x/image/draw"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/shadowclock/clip"
	"seehuhn.de/go/shadowclock/raster"
)

// Image is a Surface backed by an RGBA pixel buffer.  Shapes are
// composited using source-over blending.
//
// An Image is not safe for concurrent use.
type Image struct {
	pix *image.RGBA
	ctm matrix.Matrix
	inv matrix.Matrix
	r   *raster.Rasterizer

	// scratch buffers for blurred shapes
	mask []float32
	tmp  []float32
}

var _ Surface = (*Image)(nil)

// NewImage allocates a transparent image of the given size.
func NewImage(width, height int) *Image {
	clipRect := rect.Rect{URx: float64(width), URy: float64(height)}
	return &Image{
		pix: image.NewRGBA(image.Rect(0, 0, width, height)),
		ctm: matrix.Identity,
		inv: matrix.Identity,
		r:   raster.NewRasterizer(clipRect),
	}
}

// RGBA returns the underlying pixel buffer.
func (im *Image) RGBA() *image.RGBA {
	return im.pix
}

// Bounds returns the pixel bounds of the image.
func (im *Image) Bounds() image.Rectangle {
	return im.pix.Bounds()
}

// SetTransform sets the map from user space to pixel coordinates.  It
// applies to all following drawing operations.  Singular matrices are
// ignored.
func (im *Image) SetTransform(m matrix.Matrix) {
	inv, ok := clip.Invert(m)
	if !ok {
		return
	}
	im.ctm = m
	im.inv = inv
}

// Transform returns the current map from user space to pixels.
func (im *Image) Transform() matrix.Matrix {
	return im.ctm
}

// Clear makes every pixel transparent.
func (im *Image) Clear() {
	clear(im.pix.Pix)
}

// Fill implements the Surface interface.
func (im *Image) Fill(c color.NRGBA) {
	b := im.pix.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			im.blend(x, y, c, 1)
		}
	}
}

// FillRect implements the Surface interface.
func (im *Image) FillRect(r rect.Rect, p *Paint) {
	im.FillPath(RectPath(r), p)
}

// FillPath implements the Surface interface.
func (im *Image) FillPath(p *path.Data, paint *Paint) {
	if p == nil || paint == nil {
		return
	}
	im.r.CTM = im.ctm
	if paint.Blur > 0 {
		im.fillBlurred(p, paint)
		return
	}

	emit := func(y, xMin int, coverage []float32) {
		for i, c := range coverage {
			if !paint.Antialias {
				if c < 0.5 {
					continue
				}
				c = 1
			}
			x := xMin + i
			im.blend(x, y, im.colorAt(paint, x, y), c)
		}
	}
	im.rasterize(p, paint, emit)
}

func (im *Image) rasterize(p *path.Data, paint *Paint, emit raster.EmitFunc) {
	switch paint.Style {
	case StyleStroke:
		im.r.Width = paint.StrokeWidth
		if im.r.Width <= 0 {
			im.r.Width = 1
		}
		im.r.Stroke(p, emit)
	default:
		rule := raster.EvenOdd
		if paint.Rule == NonZero {
			rule = raster.NonZero
		}
		im.r.Fill(p, rule, emit)
	}
}

// colorAt evaluates the paint at the centre of pixel (x, y).
func (im *Image) colorAt(paint *Paint, x, y int) color.NRGBA {
	if paint.Shader == nil {
		return paint.Color
	}
	u := clip.Apply(im.inv, vec.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5})
	return paint.colorAt(u.X, u.Y)
}

// fillBlurred renders the coverage of p into a mask, blurs the mask and
// then composites it.
func (im *Image) fillBlurred(p *path.Data, paint *Paint) {
	b := im.pix.Bounds()
	w, h := b.Dx(), b.Dy()
	im.mask = slices.Grow(im.mask[:0], w*h)[:w*h]
	im.tmp = slices.Grow(im.tmp[:0], w*h)[:w*h]
	clear(im.mask)

	area := image.Rectangle{}
	im.rasterize(p, paint, func(y, xMin int, coverage []float32) {
		copy(im.mask[y*w+xMin:], coverage)
		area = area.Union(image.Rect(xMin, y, xMin+len(coverage), y+1))
	})
	if area.Empty() {
		return
	}

	// Device space blur radius, following the scale of the CTM.
	scale := math.Sqrt(math.Abs(im.ctm[0]*im.ctm[3] - im.ctm[1]*im.ctm[2]))
	sigma := blurSigma(paint.Blur * scale)
	k := boxRadius(sigma)
	area = area.Inset(-3 * k).Intersect(image.Rect(0, 0, w, h))
	for range 3 {
		boxBlurRows(im.mask, im.tmp, w, area, k)
		boxBlurCols(im.tmp, im.mask, w, area, k)
	}

	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			if c := im.mask[y*w+x]; c > 0 {
				im.blend(x+b.Min.X, y+b.Min.Y, im.colorAt(paint, x, y), min(c, 1))
			}
		}
	}
}

// DrawImage implements the Surface interface.  The destination rectangle
// is mapped through the current transformation; rotations are not
// supported and only the bounding box of the mapped rectangle is used.
func (im *Image) DrawImage(img image.Image, dst rect.Rect) {
	a := clip.Apply(im.ctm, vec.Vec2{X: dst.LLx, Y: dst.LLy})
	b := clip.Apply(im.ctm, vec.Vec2{X: dst.URx, Y: dst.URy})
	dr := image.Rect(
		int(math.Round(a.X)), int(math.Round(a.Y)),
		int(math.Round(b.X)), int(math.Round(b.Y)),
	)
	if dr.Empty() {
		return
	}
	if dr.Size() == img.Bounds().Size() {
		xdraw.Draw(im.pix, dr, img, img.Bounds().Min, xdraw.Over)
		return
	}
	xdraw.ApproxBiLinear.Scale(im.pix, dr, img, img.Bounds(), xdraw.Over, nil)
}

// blend composites colour c with coverage cov onto pixel (x, y).
func (im *Image) blend(x, y int, c color.NRGBA, cov float32) {
	if !(image.Point{X: x, Y: y}).In(im.pix.Rect) {
		return
	}
	a := uint32(float32(c.A)*cov + 0.5)
	if a == 0 {
		return
	}
	a = min(a, 255)
	inv := 255 - a
	i := im.pix.PixOffset(x, y)
	px := im.pix.Pix[i : i+4 : i+4]
	px[0] = uint8((uint32(c.R)*a + uint32(px[0])*inv + 127) / 255)
	px[1] = uint8((uint32(c.G)*a + uint32(px[1])*inv + 127) / 255)
	px[2] = uint8((uint32(c.B)*a + uint32(px[2])*inv + 127) / 255)
	px[3] = uint8((255*a + uint32(px[3])*inv + 127) / 255)
}
