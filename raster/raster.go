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

// Package raster converts vector paths into anti-aliased pixel coverage.
//
// Coverage is reported one scanline at a time through an emit callback,
// so that callers can composite directly into whatever pixel store they
// use.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Rule selects how winding numbers are turned into coverage.
type Rule int

const (
	// NonZero paints every point with a non-zero winding number.
	NonZero Rule = iota

	// EvenOdd paints every point with an odd winding number.
	EvenOdd
)

// EmitFunc receives the coverage of one scanline.  The pixels
// xMin, ..., xMin+len(coverage)-1 of row y are covered by the given
// fractions.  The slice is only valid during the call.
type EmitFunc func(y, xMin int, coverage []float32)

// edge is a line segment in device space, stored top to bottom.
type edge struct {
	xTop       float64 // x at yTop
	yTop, yBot float64
	dxdy       float64
	dir        float32 // +1 if the original segment pointed down, -1 otherwise
}

func (e *edge) xAt(y float64) float64 {
	return e.xTop + e.dxdy*(y-e.yTop)
}

// Rasterizer turns paths into per-pixel coverage values between 0 and 1.
// Internal buffers are reused between calls.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps user space to device space.  Must be non-singular.
	CTM matrix.Matrix

	// Clip restricts output to this integer-aligned device rectangle.
	Clip rect.Rect

	// Flatness is the curve approximation tolerance in device pixels.
	Flatness float64

	// Width is the stroke width in user space units.
	Width float64

	// Cap is the style used at the ends of open stroked subpaths.
	Cap graphics.LineCapStyle

	// Join is the style used at stroke corners.
	Join graphics.LineJoinStyle

	// MiterLimit bounds the length of miter joins.  Must be at least 1.
	MiterLimit float64

	// flattened subpaths, in user space
	pts       []vec.Vec2
	subStart  []int
	subClosed []bool

	// stroke outline polygons, in user space
	outline      []vec.Vec2
	outlineStart []int
	tmp          []vec.Vec2

	edges  []edge
	active []int
	cover  []float32
	area   []float32

	haveBBox       bool
	bbXMin, bbXMax float64
	bbYMin, bbYMax float64
}

// NewRasterizer returns a Rasterizer for the given clip rectangle, with
// the identity transformation and PDF default stroke parameters.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		CTM:        matrix.Identity,
		Clip:       clip,
		Flatness:   defaultFlatness,
		Width:      1,
		Cap:        graphics.LineCapButt,
		Join:       graphics.LineJoinMiter,
		MiterLimit: defaultMiterLimit,
	}
}

// Fill computes the coverage of the interior of p under the given rule.
// Open subpaths are closed implicitly.
func (r *Rasterizer) Fill(p *path.Data, rule Rule, emit EmitFunc) {
	r.flatten(p)
	r.resetEdges()
	for i, start := range r.subStart {
		poly := r.subpath(i, start)
		for j := 1; j < len(poly); j++ {
			r.addEdge(poly[j-1], poly[j])
		}
		if len(poly) > 1 {
			r.addEdge(poly[len(poly)-1], poly[0])
		}
	}
	r.scan(rule, emit)
}

// FillNonZero is a shorthand for Fill(p, NonZero, emit).
func (r *Rasterizer) FillNonZero(p *path.Data, emit EmitFunc) {
	r.Fill(p, NonZero, emit)
}

// FillEvenOdd is a shorthand for Fill(p, EvenOdd, emit).
func (r *Rasterizer) FillEvenOdd(p *path.Data, emit EmitFunc) {
	r.Fill(p, EvenOdd, emit)
}

func (r *Rasterizer) subpath(i, start int) []vec.Vec2 {
	end := len(r.pts)
	if i+1 < len(r.subStart) {
		end = r.subStart[i+1]
	}
	return r.pts[start:end]
}

// flatten converts p into polylines stored in r.pts.  Consecutive
// duplicate points are dropped.  A subpath consisting of a single point is
// kept, since round and square caps make it visible when stroked.
func (r *Rasterizer) flatten(p *path.Data) {
	r.pts = r.pts[:0]
	r.subStart = r.subStart[:0]
	r.subClosed = r.subClosed[:0]

	open := false
	var current vec.Vec2
	begin := func(v vec.Vec2) {
		r.subStart = append(r.subStart, len(r.pts))
		r.subClosed = append(r.subClosed, false)
		r.pts = append(r.pts, v)
		open = true
	}
	lineTo := func(_, b vec.Vec2) {
		last := r.pts[len(r.pts)-1]
		if b.Sub(last).Length() < zeroLengthThreshold {
			return
		}
		r.pts = append(r.pts, b)
	}

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			current = p.Coords[k]
			k++
			begin(current)
		case path.CmdLineTo:
			if !open {
				begin(current)
			}
			lineTo(current, p.Coords[k])
			current = p.Coords[k]
			k++
		case path.CmdQuadTo:
			if !open {
				begin(current)
			}
			r.flattenQuadratic(current, p.Coords[k], p.Coords[k+1], lineTo)
			current = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			if !open {
				begin(current)
			}
			r.flattenCubic(current, p.Coords[k], p.Coords[k+1], p.Coords[k+2], lineTo)
			current = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			if open {
				n := len(r.subClosed) - 1
				r.subClosed[n] = true
				start := r.pts[r.subStart[n]]
				last := len(r.pts) - 1
				if last > r.subStart[n] && r.pts[last].Sub(start).Length() < zeroLengthThreshold {
					r.pts = r.pts[:last]
				}
				current = start
				open = false
			}
		}
	}
}

// linear applies the linear part of the CTM.
func (r *Rasterizer) linear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// flattenQuadratic approximates a quadratic Bézier curve by line segments,
// using a device space tolerance.
func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(a, b vec.Vec2)) {
	dev := r.linear(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)).Length()
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		emit(prev, pt)
		prev = pt
	}
}

// flattenCubic approximates a cubic Bézier curve by line segments.  The
// number of segments is given by Wang's formula.
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(a, b vec.Vec2)) {
	d1 := r.linear(p0.Sub(p1.Mul(2)).Add(p2)).Length()
	d2 := r.linear(p1.Sub(p2.Mul(2)).Add(p3)).Length()
	n := 1
	if m := max(d1, d2); m > 0 {
		if f := math.Sqrt(3 * m / (4 * r.Flatness)); f > 1 {
			n = int(math.Ceil(f))
		}
	}
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		emit(prev, pt)
		prev = pt
	}
}

func (r *Rasterizer) resetEdges() {
	r.edges = r.edges[:0]
	r.haveBBox = false
}

// addEdge transforms a user space segment to device space and records it.
func (r *Rasterizer) addEdge(a, b vec.Vec2) {
	m := r.CTM
	x0 := m[0]*a.X + m[2]*a.Y + m[4]
	y0 := m[1]*a.X + m[3]*a.Y + m[5]
	x1 := m[0]*b.X + m[2]*b.Y + m[4]
	y1 := m[1]*b.X + m[3]*b.Y + m[5]

	if !r.haveBBox {
		r.bbXMin, r.bbXMax = x0, x0
		r.bbYMin, r.bbYMax = y0, y0
		r.haveBBox = true
	}
	r.bbXMin = min(r.bbXMin, x0, x1)
	r.bbXMax = max(r.bbXMax, x0, x1)
	r.bbYMin = min(r.bbYMin, y0, y1)
	r.bbYMax = max(r.bbYMax, y0, y1)

	dy := y1 - y0
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	e := edge{dxdy: (x1 - x0) / dy, dir: 1}
	if dy > 0 {
		e.xTop, e.yTop, e.yBot = x0, y0, y1
	} else {
		e.xTop, e.yTop, e.yBot = x1, y1, y0
		e.dir = -1
	}
	r.edges = append(r.edges, e)
}

// scan sweeps the collected edges top to bottom and emits coverage.
//
// For every pixel two quantities are accumulated: cover, the signed
// vertical extent of all edge pieces inside the pixel, and area, the same
// extent weighted by the fraction of the pixel to the right of the edge.
// Running along the row, coverage = sum of cover to the left + area.
func (r *Rasterizer) scan(rule Rule, emit EmitFunc) {
	if len(r.edges) == 0 {
		return
	}
	xMin := max(int(math.Floor(r.bbXMin)), int(r.Clip.LLx))
	xMax := min(int(math.Floor(r.bbXMax))+1, int(r.Clip.URx))
	yMin := max(int(math.Floor(r.bbYMin)), int(r.Clip.LLy))
	yMax := min(int(math.Floor(r.bbYMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return
	}
	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.yTop, b.yTop)
	})
	r.active = r.active[:0]
	next := 0
	for next < len(r.edges) && r.edges[next].yBot <= float64(yMin) {
		next++
	}

	for y := yMin; y < yMax; y++ {
		yf := float64(y)
		for next < len(r.edges) && r.edges[next].yTop < yf+1 {
			if r.edges[next].yBot > yf {
				r.active = append(r.active, next)
			}
			next++
		}
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		keep := r.active[:0]
		for _, idx := range r.active {
			e := &r.edges[idx]
			if e.yBot <= yf {
				continue
			}
			keep = append(keep, idx)
			if r.accumulate(e, y, xMin, xMax) {
				touched = true
			}
		}
		r.active = keep
		if !touched {
			continue
		}

		integrate(r.cover, r.area, rule)
		lo, hi := 0, width
		for lo < hi && r.cover[lo] == 0 {
			lo++
		}
		for hi > lo && r.cover[hi-1] == 0 {
			hi--
		}
		if lo < hi {
			emit(y, xMin+lo, r.cover[lo:hi])
		}
	}
}

// accumulate adds the part of e inside scanline y to the cover and area
// buffers.  Pieces left of the clip region land in the first pixel, pieces
// right of it are dropped.  The return value reports whether anything was
// added.
func (r *Rasterizer) accumulate(e *edge, y, xMin, xMax int) bool {
	ya := max(float64(y), e.yTop)
	yb := min(float64(y+1), e.yBot)
	if yb <= ya {
		return false
	}
	xa, xb := e.xAt(ya), e.xAt(yb)
	left := int(math.Floor(min(xa, xb)))
	right := int(math.Floor(max(xa, xb)))
	if left >= xMax {
		return false
	}

	if left == right {
		r.deposit(left, e.dir*float32(yb-ya), (xa+xb)/2-float64(left), xMin, xMax)
		return true
	}

	dydx := 1 / e.dxdy
	for col := left; col <= right && col < xMax; col++ {
		yl := e.yTop + dydx*(float64(col)-e.xTop)
		yr := e.yTop + dydx*(float64(col+1)-e.xTop)
		lo := max(min(yl, yr), ya)
		hi := min(max(yl, yr), yb)
		if hi <= lo {
			continue
		}
		xMid := e.xAt((lo + hi) / 2)
		r.deposit(col, e.dir*float32(hi-lo), xMid-float64(col), xMin, xMax)
	}
	return true
}

func (r *Rasterizer) deposit(col int, c float32, frac float64, xMin, xMax int) {
	switch {
	case col < xMin:
		r.cover[0] += c
		r.area[0] += c
	case col < xMax:
		i := col - xMin
		r.cover[i] += c
		r.area[i] += c * float32(1-frac)
	}
}

// integrate turns accumulated cover and area values into coverage,
// overwriting cover.
func integrate(cover, area []float32, rule Rule) {
	var acc float32
	for i := range cover {
		raw := acc + area[i]
		acc += cover[i]
		if raw < 0 {
			raw = -raw
		}
		if rule == EvenOdd {
			raw -= 2 * float32(int(raw/2))
			if raw > 1 {
				raw = 2 - raw
			}
		} else if raw > 1 {
			raw = 1
		}
		cover[i] = raw
	}
}

const (
	// defaultFlatness is the default curve flattening tolerance in device
	// pixels.
	defaultFlatness = 0.25

	// defaultMiterLimit matches PDF and PostScript.
	defaultMiterLimit = 10.0
)

const (
	// horizontalEdgeThreshold is the vertical extent below which an edge
	// contributes no coverage.
	horizontalEdgeThreshold = 1e-10

	// zeroLengthThreshold is the minimum length of a flattened segment.
	zeroLengthThreshold = 1e-10

	// collinearityThreshold is the |sin| below which two segments meet
	// without a visible corner.
	collinearityThreshold = 1e-6
)
