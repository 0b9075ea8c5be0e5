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

// Package canvas defines the drawing surface used by the clock face,
// together with an in-memory implementation and a recorder for tests.
//
// Coordinates follow the usual screen convention: x grows to the right
// and y grows downwards.
package canvas

import (
	"image"
	"image/color"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Surface is an abstract 2D drawing target.
type Surface interface {
	// Fill paints the whole surface with c.
	Fill(c color.NRGBA)

	// FillRect paints the rectangle r.
	FillRect(r rect.Rect, p *Paint)

	// FillPath paints p.  For stroking paints, the outline of p is drawn.
	FillPath(p *path.Data, paint *Paint)

	// DrawImage draws img scaled into the rectangle dst.
	DrawImage(img image.Image, dst rect.Rect)
}

// Style says whether a paint fills the interior of shapes or strokes
// their outline.
type Style int

const (
	StyleFill Style = iota
	StyleStroke
)

func (s Style) String() string {
	if s == StyleStroke {
		return "stroke"
	}
	return "fill"
}

// FillRule decides which points are inside a path.
type FillRule int

const (
	EvenOdd FillRule = iota
	NonZero
)

// Shader computes colours for individual points.
type Shader interface {
	ColorAt(x, y float64) color.NRGBA
}

// Paint describes how shapes are drawn.
type Paint struct {
	// Color is used when Shader is nil.
	Color color.NRGBA

	// Shader, if set, supplies the colour for every point.
	Shader Shader

	Style Style

	// StrokeWidth is the line width for StyleStroke.
	StrokeWidth float64

	// Antialias enables fractional pixel coverage.  Without it, pixels
	// are either painted fully or not at all.
	Antialias bool

	// Blur, if positive, softens the edges of the painted shape by
	// approximately this many units.
	Blur float64

	Rule FillRule
}

// colorAt returns the paint colour at user space point (x, y).
func (p *Paint) colorAt(x, y float64) color.NRGBA {
	if p.Shader != nil {
		return p.Shader.ColorAt(x, y)
	}
	return p.Color
}

// RectPath returns a closed path around r.
func RectPath(r rect.Rect) *path.Data {
	return (&path.Data{}).
		MoveTo(vec.Vec2{X: r.LLx, Y: r.LLy}).
		LineTo(vec.Vec2{X: r.URx, Y: r.LLy}).
		LineTo(vec.Vec2{X: r.URx, Y: r.URy}).
		LineTo(vec.Vec2{X: r.LLx, Y: r.URy}).
		Close()
}
