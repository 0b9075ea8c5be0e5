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

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
)

// OpKind identifies a Surface method.
type OpKind int

const (
	OpFill OpKind = iota
	OpFillRect
	OpFillPath
	OpDrawImage
)

func (k OpKind) String() string {
	switch k {
	case OpFill:
		return "Fill"
	case OpFillRect:
		return "FillRect"
	case OpFillPath:
		return "FillPath"
	case OpDrawImage:
		return "DrawImage"
	default:
		return "OpKind(?)"
	}
}

// Op is one recorded drawing call.  Only the fields relevant for Kind are
// set.
type Op struct {
	Kind  OpKind
	Color color.NRGBA
	Rect  rect.Rect
	Path  *path.Data
	Paint Paint
	Image image.Image
}

// Recorder is a Surface which remembers every call.
type Recorder struct {
	Ops []Op
}

var _ Surface = (*Recorder)(nil)

func (r *Recorder) Fill(c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpFill, Color: c})
}

func (r *Recorder) FillRect(rc rect.Rect, p *Paint) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, Rect: rc, Paint: *p})
}

func (r *Recorder) FillPath(p *path.Data, paint *Paint) {
	r.Ops = append(r.Ops, Op{Kind: OpFillPath, Path: p, Paint: *paint})
}

func (r *Recorder) DrawImage(img image.Image, dst rect.Rect) {
	r.Ops = append(r.Ops, Op{Kind: OpDrawImage, Image: img, Rect: dst})
}

// Kinds returns the sequence of recorded operation kinds.
func (r *Recorder) Kinds() []OpKind {
	res := make([]OpKind, len(r.Ops))
	for i, op := range r.Ops {
		res[i] = op.Kind
	}
	return res
}

// Count returns the number of recorded operations of the given kind.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset discards all recorded operations.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
