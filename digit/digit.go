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

// Package digit renders one digit position of the clock face, together
// with the shadow it casts.
package digit

import (
	"image/color"
	"log/slog"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/shadowclock/canvas"
	"seehuhn.de/go/shadowclock/clip"
	"seehuhn.de/go/shadowclock/glyph"
)

const (
	// ShadowLength is how far every silhouette vertex is projected away
	// from the sun.
	ShadowLength = 600.0

	// ShadowBlur is the default blur applied to shadows.
	ShadowBlur = 3.0

	// outlineBleed enlarges single-contour glyphs slightly, so that the
	// fill covers the seam between glyph and shadow.
	outlineBleed = 0.04
	outlineShift = -0.3
)

// ShadowStops are the positions of the three shadow gradient colours.
var ShadowStops = []float64{0, 0.4, 1}

// GlyphSource provides parsed glyphs.  *glyph.Store implements this.
type GlyphSource interface {
	Load(id string) (*glyph.Glyph, error)
}

// Slot is one digit position.  It keeps the glyph currently shown, its
// placement on the face, its paint and a cache of its shadow.
//
// A Slot is not safe for concurrent use.
type Slot struct {
	src     GlyphSource
	palette Palette
	logger  *slog.Logger

	id    string
	glyph *glyph.Glyph
	loads int

	scale, tx, ty float64

	style Style
	fill  color.NRGBA
	blur  float64

	gradRadius         float64
	gradStart, gradEnd color.NRGBA

	// derived from glyph and transform
	outline    *path.Data
	silhouette []vec.Vec2
	center     vec.Vec2

	shadow      clip.Polygon
	shadowPath  *path.Data
	shadowSun   vec.Vec2
	shadowValid bool
}

// New returns an empty slot.  If logger is nil, log messages are
// discarded.
func New(src GlyphSource, pal Palette, logger *slog.Logger) *Slot {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Slot{
		src:     src,
		palette: pal,
		logger:  logger,
		scale:   1,
		fill:    color.NRGBA{A: 255},
		blur:    ShadowBlur,
	}
}

// SetTransform places the glyph: glyph coordinates are multiplied by
// scale and then shifted by (tx, ty).
func (s *Slot) SetTransform(scale, tx, ty float64) {
	s.scale, s.tx, s.ty = scale, tx, ty
	s.rebuild()
}

// SetDigit shows the glyph with the given id.  Nothing happens if id is
// already shown.  If the glyph cannot be loaded, the previous glyph is
// kept and false is returned.
func (s *Slot) SetDigit(id string) bool {
	if s.glyph != nil && id == s.id {
		return true
	}
	g, err := s.src.Load(id)
	if err != nil {
		s.logger.Warn("glyph unavailable", "glyph", id, "keep", s.id, "err", err)
		return false
	}
	s.id = id
	s.glyph = g
	s.loads++
	s.rebuild()
	return true
}

// rebuild recomputes the placed geometry and drops the cached shadow.
func (s *Slot) rebuild() {
	s.shadowValid = false
	s.shadow = nil
	s.shadowPath = nil
	g := s.glyph
	if g == nil {
		return
	}

	m := matrix.Scale(s.scale+outlineBleed, s.scale+outlineBleed).
		Translate(s.tx+outlineShift, s.ty+outlineShift)
	if g.Composite {
		m = matrix.Scale(s.scale, s.scale).Translate(s.tx, s.ty)
	}
	s.outline = g.Outline.Transform(m).Path()

	s.silhouette = s.silhouette[:0]
	for _, v := range g.Silhouette {
		s.silhouette = append(s.silhouette, vec.Vec2{
			X: v.X*s.scale + s.tx,
			Y: v.Y*s.scale + s.ty,
		})
	}
	s.center = midpoint(s.silhouette)
}

// midpoint returns the centre of the bounding box of pts.
func midpoint(pts []vec.Vec2) vec.Vec2 {
	if len(pts) == 0 {
		return vec.Vec2{}
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return vec.Vec2{X: (lo.X + hi.X) / 2, Y: (lo.Y + hi.Y) / 2}
}

// SetFillColor sets the colour used in the Interactive style.
func (s *Slot) SetFillColor(c color.NRGBA) {
	s.fill = c
}

// SetStyle selects how the digit is painted.
func (s *Slot) SetStyle(style Style) {
	s.style = style
}

// SetBlur sets the blur radius of the shadow.  Zero disables blurring.
func (s *Slot) SetBlur(blur float64) {
	s.blur = max(blur, 0)
}

// RecomputeShadowGradient sets the shadow paint: a radial gradient around
// the centre of the silhouette, with colours start, start and end at the
// ShadowStops.
func (s *Slot) RecomputeShadowGradient(radius float64, start, end color.NRGBA) {
	s.gradRadius = radius
	s.gradStart = start
	s.gradEnd = end
}

// ShadowGradient returns the current shadow gradient.
func (s *Slot) ShadowGradient() *canvas.RadialGradient {
	return &canvas.RadialGradient{
		Center: s.center,
		Radius: s.gradRadius,
		Stops:  ShadowStops,
		Colors: []color.NRGBA{s.gradStart, s.gradStart, s.gradEnd},
	}
}

// ComputeShadowPolygon returns the shadow cast by the digit for a sun at
// the given position.  Every edge of the silhouette sweeps a
// quadrilateral from the edge away from the sun; the shadow is the union
// of these.  Edges with an endpoint at the sun are skipped.
//
// The result is cached until the sun moves or the glyph or its placement
// change.
func (s *Slot) ComputeShadowPolygon(sun vec.Vec2) clip.Polygon {
	if s.shadowValid && sun == s.shadowSun {
		return s.shadow
	}

	n := len(s.silhouette)
	quads := make([]clip.Polygon, 0, n)
	for i := range n {
		v1 := s.silhouette[i]
		v2 := s.silhouette[(i+1)%n]
		d1, ok1 := unit(v1.Sub(sun))
		d2, ok2 := unit(v2.Sub(sun))
		if !ok1 || !ok2 {
			continue
		}
		q := []vec.Vec2{v2, v1, v1.Add(d1.Mul(ShadowLength)), v2.Add(d2.Mul(ShadowLength))}
		if math.Abs(signedArea(q)) < 1e-9 {
			continue
		}
		quads = append(quads, clip.FromPoints(q))
	}

	s.shadow = clip.UnionAll(quads...)
	s.shadowPath = s.shadow.Path()
	s.shadowSun = sun
	s.shadowValid = true
	return s.shadow
}

// unit normalises v.  The second result is false for the zero vector.
func unit(v vec.Vec2) (vec.Vec2, bool) {
	l := v.Length()
	if l == 0 || math.IsNaN(l) {
		return vec.Vec2{}, false
	}
	return v.Mul(1 / l), true
}

func signedArea(pts []vec.Vec2) float64 {
	var a2 float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a2 += p.X*q.Y - q.X*p.Y
	}
	return a2 / 2
}

// DrawShape paints the digit using the current style.
func (s *Slot) DrawShape(surface canvas.Surface) {
	if s.outline == nil {
		return
	}
	p := canvas.Paint{Color: s.fill}
	s.style.Apply(&p, s.palette)
	surface.FillPath(s.outline, &p)
}

// DrawShadow paints the shadow cast for a sun at the given position.
func (s *Slot) DrawShadow(surface canvas.Surface, sun vec.Vec2) {
	if s.glyph == nil {
		return
	}
	if s.ComputeShadowPolygon(sun).IsEmpty() {
		return
	}
	p := canvas.Paint{
		Shader:    s.ShadowGradient(),
		Antialias: true,
		Blur:      s.blur,
		Rule:      canvas.EvenOdd,
	}
	surface.FillPath(s.shadowPath, &p)
}

// ID returns the id of the glyph shown, or "" if none was loaded yet.
func (s *Slot) ID() string {
	return s.id
}

// Glyph returns the glyph shown, or nil.
func (s *Slot) Glyph() *glyph.Glyph {
	return s.glyph
}

// Loads returns how often a new glyph was fetched from the source.
func (s *Slot) Loads() int {
	return s.loads
}

// ShadowCached reports whether a shadow polygon is cached.
func (s *Slot) ShadowCached() bool {
	return s.shadowValid
}

// Center returns the centre of the bounding box of the placed silhouette.
func (s *Slot) Center() vec.Vec2 {
	return s.center
}

// Silhouette returns the placed silhouette vertices.  The slice must not
// be modified.
func (s *Slot) Silhouette() []vec.Vec2 {
	return s.silhouette
}

// Outline returns the placed outline path, or nil if no glyph is loaded.
func (s *Slot) Outline() *path.Data {
	return s.outline
}

// Style returns the current style.
func (s *Slot) Style() Style {
	return s.style
}

// FillColor returns the colour used in the Interactive style.
func (s *Slot) FillColor() color.NRGBA {
	return s.fill
}
