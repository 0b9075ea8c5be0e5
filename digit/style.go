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

package digit

import (
	"fmt"
	"image/color"

	"seehuhn.de/go/shadowclock/canvas"
)

// Style selects how a digit is painted.  The ambient variants match the
// restrictions of low power display modes.
type Style int

const (
	// Interactive fills the digit with its computed colour.
	Interactive Style = iota

	// Ambient fills the digit with the ambient typeface colour.
	Ambient

	// LowBitAmbient fills the digit without anti-aliasing.
	LowBitAmbient

	// OneBitAmbient draws a one unit outline without anti-aliasing.
	OneBitAmbient
)

func (s Style) String() string {
	switch s {
	case Interactive:
		return "interactive"
	case Ambient:
		return "ambient"
	case LowBitAmbient:
		return "low-bit ambient"
	case OneBitAmbient:
		return "1-bit ambient"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// Palette holds the fixed digit colours used in ambient mode.
type Palette struct {
	AmbientTypeface color.NRGBA
	LowBitTypeface  color.NRGBA
}

// Apply configures p for drawing a digit in style s.  For Interactive,
// the colour already present in p is kept.
func (s Style) Apply(p *canvas.Paint, pal Palette) {
	p.Shader = nil
	p.Blur = 0
	p.Rule = canvas.EvenOdd
	switch s {
	case Interactive:
		p.Style = canvas.StyleFill
		p.Antialias = true
	case Ambient:
		p.Style = canvas.StyleFill
		p.Color = pal.AmbientTypeface
		p.Antialias = true
	case LowBitAmbient:
		p.Style = canvas.StyleFill
		p.Color = pal.LowBitTypeface
		p.Antialias = false
	case OneBitAmbient:
		p.Style = canvas.StyleStroke
		p.StrokeWidth = 1
		p.Color = pal.LowBitTypeface
		p.Antialias = false
	}
}
