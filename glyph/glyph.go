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

// Package glyph reads the vector outlines of the clock digits.
//
// Every digit is described by a JSON document:
//
//	{
//	  "id": "3",
//	  "path": [{"type": "move", "data": [0, 0]}, ...],
//	  "holes": [{"data": [...commands...]}, ...],
//	  "shadow": [x0, y0, x1, y1, ...]
//	}
//
// Commands are "move" and "line" with two integers, and "bezier" with six
// integers (two control points and the end point of a cubic curve).  The
// digit "5" uses a composite form instead: "path" is a list of command
// lists, each describing one closed chunk, and "shadow" is a list of flat
// point lists which are concatenated into one ring.
package glyph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/shadowclock/clip"
)

var (
	// ErrNotFound is returned when no asset exists for a glyph id.
	ErrNotFound = errors.New("glyph not found")

	// ErrMalformed is returned when a glyph document cannot be used.
	ErrMalformed = errors.New("malformed glyph")
)

// flattenTolerance is the maximal deviation, in glyph units, between a
// curve and the polygon used for it.
const flattenTolerance = 0.05

// Glyph is the parsed, untransformed geometry of one digit.
// Glyphs are never modified after parsing.
type Glyph struct {
	ID string

	// Composite is set for glyphs given as a union of chunks.
	Composite bool

	// Outline is the area to paint, with holes removed.  Fill it using
	// the even-odd rule.
	Outline clip.Polygon

	// Silhouette is the ring of vertices which casts the shadow.
	Silhouette []vec.Vec2

	// Skipped counts the malformed path commands which were ignored.
	Skipped int
}

// Path returns the outline of g as a path.
func (g *Glyph) Path() *path.Data {
	return g.Outline.Path()
}

type document struct {
	ID     string          `json:"id"`
	Path   json.RawMessage `json:"path"`
	Holes  []hole          `json:"holes"`
	Shadow json.RawMessage `json:"shadow"`
}

type hole struct {
	Data []json.RawMessage `json:"data"`
}

type command struct {
	Type string `json:"type"`
	Data []int  `json:"data"`
}

// Parse decodes a glyph document.  Malformed path commands are skipped
// and counted in the Skipped field, the enclosing contour is closed from
// the remaining commands.  An error wrapping ErrMalformed is returned if
// the document as a whole is unusable.
func Parse(data []byte) (*Glyph, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if doc.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrMalformed)
	}

	g := &Glyph{ID: doc.ID}
	g.Composite = isNested(doc.Path)

	if g.Composite {
		var chunks [][]json.RawMessage
		if err := json.Unmarshal(doc.Path, &chunks); err != nil {
			return nil, fmt.Errorf("%w: glyph %q: path: %w", ErrMalformed, doc.ID, err)
		}
		parts := make([]clip.Polygon, 0, len(chunks))
		for _, chunk := range chunks {
			parts = append(parts, g.contour(chunk))
		}
		g.Outline = clip.UnionAll(parts...)

		var rings [][]int
		if err := json.Unmarshal(doc.Shadow, &rings); err != nil {
			return nil, fmt.Errorf("%w: glyph %q: shadow: %w", ErrMalformed, doc.ID, err)
		}
		for _, ring := range rings {
			g.Silhouette = appendPoints(g.Silhouette, ring)
		}
	} else {
		var cmds []json.RawMessage
		if err := json.Unmarshal(doc.Path, &cmds); err != nil {
			return nil, fmt.Errorf("%w: glyph %q: path: %w", ErrMalformed, doc.ID, err)
		}
		g.Outline = g.contour(cmds)
		for _, h := range doc.Holes {
			g.Outline = clip.Difference(g.Outline, g.contour(h.Data))
		}

		var flat []int
		if err := json.Unmarshal(doc.Shadow, &flat); err != nil {
			return nil, fmt.Errorf("%w: glyph %q: shadow: %w", ErrMalformed, doc.ID, err)
		}
		g.Silhouette = appendPoints(nil, flat)
	}

	if g.Outline.IsEmpty() {
		return nil, fmt.Errorf("%w: glyph %q: empty outline", ErrMalformed, doc.ID)
	}
	if len(g.Silhouette) < 3 {
		return nil, fmt.Errorf("%w: glyph %q: silhouette has %d points",
			ErrMalformed, doc.ID, len(g.Silhouette))
	}
	return g, nil
}

// contour builds one closed contour from a list of commands.
func (g *Glyph) contour(entries []json.RawMessage) clip.Polygon {
	p := &path.Data{}
	started := false
	for _, raw := range entries {
		var c command
		if err := json.Unmarshal(raw, &c); err != nil {
			g.Skipped++
			continue
		}
		d := c.Data
		switch {
		case c.Type == "move" && len(d) == 2:
			p = p.MoveTo(pt(d[0], d[1]))
			started = true
		case c.Type == "line" && len(d) == 2:
			if !started {
				p = p.MoveTo(vec.Vec2{})
				started = true
			}
			p = p.LineTo(pt(d[0], d[1]))
		case c.Type == "bezier" && len(d) == 6:
			if !started {
				p = p.MoveTo(vec.Vec2{})
				started = true
			}
			p = p.CubeTo(pt(d[0], d[1]), pt(d[2], d[3]), pt(d[4], d[5]))
		default:
			g.Skipped++
		}
	}
	if !started {
		return nil
	}
	return clip.FromPath(p.Close(), flattenTolerance)
}

func pt(x, y int) vec.Vec2 {
	return vec.Vec2{X: float64(x), Y: float64(y)}
}

// appendPoints appends the points of a flat coordinate list.  A trailing
// odd coordinate is ignored.
func appendPoints(dst []vec.Vec2, flat []int) []vec.Vec2 {
	for i := 0; i+1 < len(flat); i += 2 {
		dst = append(dst, pt(flat[i], flat[i+1]))
	}
	return dst
}

// isNested reports whether a JSON array has an array as its first
// element.
func isNested(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return false
	}
	rest := bytes.TrimSpace(raw[1:])
	return len(rest) > 0 && rest[0] == '['
}
