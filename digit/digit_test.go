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
	"bytes"
	"image/color"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/shadowclock/canvas"
	"seehuhn.de/go/shadowclock/clip"
	"seehuhn.de/go/shadowclock/glyph"
)

// countingSource wraps the builtin glyphs and counts requests.
type countingSource struct {
	store *glyph.Store
	calls int
}

func (c *countingSource) Load(id string) (*glyph.Glyph, error) {
	c.calls++
	return c.store.Load(id)
}

func newSlot(t *testing.T) (*Slot, *countingSource) {
	t.Helper()
	src := &countingSource{store: glyph.Default(nil)}
	pal := Palette{
		AmbientTypeface: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		LowBitTypeface:  color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
	s := New(src, pal, nil)
	s.SetTransform(0.8, 70, 70)
	return s, src
}

func TestSetDigitNoOp(t *testing.T) {
	s, src := newSlot(t)
	require.True(t, s.SetDigit("1"))
	require.Equal(t, 1, src.calls)

	sun := vec.Vec2{X: 100, Y: -500}
	s.ComputeShadowPolygon(sun)
	require.True(t, s.ShadowCached())

	// same digit: no reload, cache survives
	require.True(t, s.SetDigit("1"))
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 1, s.Loads())
	assert.True(t, s.ShadowCached())

	// different digit: reload, cache dropped
	require.True(t, s.SetDigit("2"))
	assert.Equal(t, 2, s.Loads())
	assert.Equal(t, "2", s.ID())
	assert.False(t, s.ShadowCached())
}

func TestSetDigitFailure(t *testing.T) {
	buf := &bytes.Buffer{}
	src := &countingSource{store: glyph.Default(nil)}
	s := New(src, Palette{}, slog.New(slog.NewTextHandler(buf, nil)))
	s.SetTransform(1, 0, 0)
	require.True(t, s.SetDigit("3"))
	before := s.Glyph()

	assert.False(t, s.SetDigit("x"))
	assert.Equal(t, "3", s.ID())
	assert.Same(t, before, s.Glyph())
	assert.Contains(t, buf.String(), "glyph unavailable")
	assert.Contains(t, buf.String(), "glyph=x")
}

func TestGradientCenter(t *testing.T) {
	s, _ := newSlot(t)
	require.True(t, s.SetDigit("1"))

	// silhouette spans x 26..62 and y 0..100 in glyph units
	c := s.Center()
	assert.InDelta(t, 105.2, c.X, 1e-9)
	assert.InDelta(t, 110, c.Y, 1e-9)

	start := color.NRGBA{A: 65}
	s.RecomputeShadowGradient(120, start, color.NRGBA{})
	g := s.ShadowGradient()
	assert.Equal(t, c, g.Center)
	assert.Equal(t, 120.0, g.Radius)
	assert.Equal(t, []float64{0, 0.4, 1}, g.Stops)
	assert.Equal(t, []color.NRGBA{start, start, {}}, g.Colors)
}

func TestShadowDirection(t *testing.T) {
	s, _ := newSlot(t)
	require.True(t, s.SetDigit("1"))

	// a sun far above casts the shadow downwards
	sun := vec.Vec2{X: 105.2, Y: -10000}
	shadow := s.ComputeShadowPolygon(sun)
	require.False(t, shadow.IsEmpty())
	b := shadow.Bounds()
	assert.GreaterOrEqual(t, b.LLy, 70-1e-6)
	assert.Greater(t, b.URy, 150+590.0)
	assert.Less(t, b.URy, 150+600.0+1e-6)

	// the result is cached per sun position
	assert.True(t, s.ShadowCached())
	again := s.ComputeShadowPolygon(sun)
	assert.Equal(t, shadow, again)

	moved := s.ComputeShadowPolygon(vec.Vec2{X: -10000, Y: 110})
	mb := moved.Bounds()
	assert.Greater(t, mb.URx, 119.6+590)
	assert.GreaterOrEqual(t, mb.LLx, 90.8-1e-6)
}

func TestShadowSunAtVertex(t *testing.T) {
	s, _ := newSlot(t)
	require.True(t, s.SetDigit("7"))

	sun := s.Silhouette()[0]
	shadow := s.ComputeShadowPolygon(sun)
	require.False(t, shadow.IsEmpty())
	for _, c := range shadow {
		for _, p := range c {
			assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y))
			assert.False(t, math.IsInf(p.X, 0) || math.IsInf(p.Y, 0))
		}
	}
}

func TestShadowCoversGlyphEdge(t *testing.T) {
	s, _ := newSlot(t)
	require.True(t, s.SetDigit("5"))

	// the composite five has two silhouette contours worth of edges
	require.Len(t, s.Silhouette(), 12)
	shadow := s.ComputeShadowPolygon(vec.Vec2{X: 110, Y: -2000})
	assert.Greater(t, shadow.Area(), 80.0*500)
}

func TestOutlineBleed(t *testing.T) {
	s, _ := newSlot(t)

	require.True(t, s.SetDigit("1"))
	b := clip.FromPath(s.Outline(), 0.1).Bounds()
	assert.InDelta(t, 26*0.84+69.7, b.LLx, 1e-6)
	assert.InDelta(t, 62*0.84+69.7, b.URx, 1e-6)
	assert.InDelta(t, 69.7, b.LLy, 1e-6)
	assert.InDelta(t, 100*0.84+69.7, b.URy, 1e-6)

	// composite glyphs are placed without the bleed
	require.True(t, s.SetDigit("5"))
	b = clip.FromPath(s.Outline(), 0.1).Bounds()
	assert.InDelta(t, 70, b.LLx, 1e-6)
	assert.InDelta(t, 70, b.LLy, 1e-6)
	assert.InDelta(t, 150, b.URx, 1e-6)
	assert.InDelta(t, 150, b.URy, 1e-6)
}

func TestStyleApply(t *testing.T) {
	pal := Palette{
		AmbientTypeface: color.NRGBA{R: 200, G: 200, B: 200, A: 255},
		LowBitTypeface:  color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
	computed := color.NRGBA{R: 10, G: 10, B: 10, A: 255}

	cases := []struct {
		style     Style
		color     color.NRGBA
		paint     canvas.Style
		antialias bool
	}{
		{Interactive, computed, canvas.StyleFill, true},
		{Ambient, pal.AmbientTypeface, canvas.StyleFill, true},
		{LowBitAmbient, pal.LowBitTypeface, canvas.StyleFill, false},
		{OneBitAmbient, pal.LowBitTypeface, canvas.StyleStroke, false},
	}
	for _, c := range cases {
		t.Run(c.style.String(), func(t *testing.T) {
			p := canvas.Paint{Color: computed, Blur: 3}
			c.style.Apply(&p, pal)
			assert.Equal(t, c.color, p.Color)
			assert.Equal(t, c.paint, p.Style)
			assert.Equal(t, c.antialias, p.Antialias)
			assert.Zero(t, p.Blur)
			if c.style == OneBitAmbient {
				assert.Equal(t, 1.0, p.StrokeWidth)
			}
		})
	}
	assert.Equal(t, "Style(9)", Style(9).String())
}

func TestDraw(t *testing.T) {
	s, _ := newSlot(t)
	rec := &canvas.Recorder{}

	// nothing is drawn before a glyph is loaded
	s.DrawShape(rec)
	s.DrawShadow(rec, vec.Vec2{})
	assert.Empty(t, rec.Ops)

	require.True(t, s.SetDigit("4"))
	grey := color.NRGBA{R: 80, G: 80, B: 80, A: 255}
	s.SetFillColor(grey)
	s.RecomputeShadowGradient(100, color.NRGBA{A: 65}, color.NRGBA{})

	s.DrawShadow(rec, vec.Vec2{X: 300, Y: -300})
	s.DrawShape(rec)
	require.Equal(t, []canvas.OpKind{canvas.OpFillPath, canvas.OpFillPath}, rec.Kinds())

	shadow := rec.Ops[0].Paint
	assert.Equal(t, ShadowBlur, shadow.Blur)
	assert.True(t, shadow.Antialias)
	g, ok := shadow.Shader.(*canvas.RadialGradient)
	require.True(t, ok)
	assert.Equal(t, s.Center(), g.Center)

	shape := rec.Ops[1].Paint
	assert.Equal(t, grey, shape.Color)
	assert.Nil(t, shape.Shader)

	s.SetStyle(OneBitAmbient)
	rec.Reset()
	s.DrawShape(rec)
	assert.Equal(t, canvas.StyleStroke, rec.Ops[0].Paint.Style)
}

func TestDrawIntoImage(t *testing.T) {
	s, _ := newSlot(t)
	require.True(t, s.SetDigit("1"))
	s.SetFillColor(color.NRGBA{R: 255, A: 255})
	s.RecomputeShadowGradient(120, color.NRGBA{A: 65}, color.NRGBA{})

	im := canvas.NewImage(320, 320)
	im.Fill(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	sun := vec.Vec2{X: 105, Y: -1000}
	s.DrawShadow(im, sun)
	s.DrawShape(im)

	pix := im.RGBA()
	assert.Equal(t, color.RGBA{R: 255, A: 255}, pix.RGBAAt(110, 110))
	below := pix.RGBAAt(110, 170)
	assert.Less(t, below.R, uint8(255))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, pix.RGBAAt(10, 10))
}
