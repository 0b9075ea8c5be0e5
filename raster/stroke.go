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

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Stroke computes the coverage of the stroke of p, using the Width, Cap,
// Join and MiterLimit fields of r.
//
// The stroke is assembled from simple pieces: one quadrilateral per
// segment, one polygon per join and one per cap.  All pieces are brought
// into the same orientation and filled together with the nonzero rule, so
// that overlapping pieces are painted once.
func (r *Rasterizer) Stroke(p *path.Data, emit EmitFunc) {
	d := r.Width / 2
	if d <= 0 {
		return
	}

	r.flatten(p)
	r.outline = r.outline[:0]
	r.outlineStart = r.outlineStart[:0]
	for i, start := range r.subStart {
		r.strokeSubpath(r.subpath(i, start), r.subClosed[i], d)
	}

	r.resetEdges()
	for i, start := range r.outlineStart {
		end := len(r.outline)
		if i+1 < len(r.outlineStart) {
			end = r.outlineStart[i+1]
		}
		poly := r.outline[start:end]
		for j := 1; j < len(poly); j++ {
			r.addEdge(poly[j-1], poly[j])
		}
		r.addEdge(poly[len(poly)-1], poly[0])
	}
	r.scan(NonZero, emit)
}

func (r *Rasterizer) strokeSubpath(pts []vec.Vec2, closed bool, d float64) {
	n := len(pts)
	if n == 0 {
		return
	}
	if n == 1 {
		r.addDot(pts[0], d)
		return
	}

	nSeg := n - 1
	if closed {
		nSeg = n
	}
	for k := range nSeg {
		a, b := pts[k], pts[(k+1)%n]
		t := direction(a, b)
		nv := normal(t).Mul(d)
		r.addPolygon(a.Add(nv), b.Add(nv), b.Sub(nv), a.Sub(nv))
	}

	for k := range n {
		if !closed && (k == 0 || k == n-1) {
			continue
		}
		prev := pts[(k+n-1)%n]
		next := pts[(k+1)%n]
		r.addJoin(pts[k], direction(prev, pts[k]), direction(pts[k], next), d)
	}

	if !closed {
		r.addCap(pts[0], direction(pts[1], pts[0]), d)
		r.addCap(pts[n-1], direction(pts[n-2], pts[n-1]), d)
	}
}

// addDot handles zero-length subpaths, which are visible only with round
// or square caps.
func (r *Rasterizer) addDot(p vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.tmp = r.appendArc(r.tmp[:0], p, d, vec.Vec2{X: 1}, 2*math.Pi)
		r.addPolygon(r.tmp...)
	case graphics.LineCapSquare:
		r.addPolygon(
			vec.Vec2{X: p.X - d, Y: p.Y - d},
			vec.Vec2{X: p.X + d, Y: p.Y - d},
			vec.Vec2{X: p.X + d, Y: p.Y + d},
			vec.Vec2{X: p.X - d, Y: p.Y + d},
		)
	}
}

// addCap adds the cap at P.  T is the unit tangent pointing away from the
// line.
func (r *Rasterizer) addCap(P, T vec.Vec2, d float64) {
	N := normal(T)
	switch r.Cap {
	case graphics.LineCapSquare:
		ext := P.Add(T.Mul(d))
		r.addPolygon(P.Add(N.Mul(d)), ext.Add(N.Mul(d)), ext.Sub(N.Mul(d)), P.Sub(N.Mul(d)))
	case graphics.LineCapRound:
		// half disc from +N through T to -N
		r.tmp = r.appendArc(r.tmp[:0], P, d, N, -math.Pi)
		r.addPolygon(r.tmp...)
	}
}

// addJoin adds the join at P, where the path direction changes from T1
// to T2.  Only the outer side of the corner needs filling; the inner side
// is already covered by the overlapping segment quadrilaterals.
func (r *Rasterizer) addJoin(P, T1, T2 vec.Vec2, d float64) {
	cross := T1.X*T2.Y - T1.Y*T2.X
	dot := T1.Dot(T2)
	if dot < cuspCosineThreshold {
		r.addCap(P, T1, d)
		r.addCap(P, T2.Mul(-1), d)
		return
	}
	if math.Abs(cross) < collinearityThreshold {
		return
	}

	side := 1.0
	if cross > 0 {
		side = -1
	}
	n1 := normal(T1).Mul(side)
	n2 := normal(T2).Mul(side)
	o1 := P.Add(n1.Mul(d))
	o2 := P.Add(n2.Mul(d))

	switch r.Join {
	case graphics.LineJoinRound:
		angle := math.Acos(max(-1, min(1, dot)))
		if cross < 0 {
			angle = -angle
		}
		r.tmp = append(r.tmp[:0], P)
		r.tmp = r.appendArc(r.tmp, P, d, n1, angle)
		r.addPolygon(r.tmp...)
		return

	case graphics.LineJoinMiter:
		// The miter length relative to the line width is 1/sin(φ/2),
		// where φ is the angle between the two segments at P.
		sinHalf := math.Sqrt((1 + dot) / 2)
		if sinHalf > 0 && 1/sinHalf <= r.MiterLimit+1e-10 {
			bisector := n1.Add(n2)
			if l := bisector.Length(); l > zeroLengthThreshold {
				tip := P.Add(bisector.Mul(d / (sinHalf * l)))
				r.addPolygon(P, o1, tip, o2)
				return
			}
		}
	}
	r.addPolygon(P, o1, o2)
}

// appendArc appends points on the circle of the given radius around
// center, starting in direction startDir and sweeping through the given
// angle (positive = towards +y from +x).  The number of points is chosen
// so that the chord error stays below the flatness in device space.
func (r *Rasterizer) appendArc(dst []vec.Vec2, center vec.Vec2, radius float64, startDir vec.Vec2, sweep float64) []vec.Vec2 {
	devRadius := max(
		r.linear(vec.Vec2{X: radius}).Length(),
		r.linear(vec.Vec2{Y: radius}).Length(),
	)
	n := 1
	if devRadius > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/devRadius)
		if step > 0 && !math.IsNaN(step) {
			n = int(math.Ceil(math.Abs(sweep) / step))
		} else {
			n = 8
		}
	}
	n = max(n, 2)

	for i := 0; i <= n; i++ {
		a := sweep * float64(i) / float64(n)
		c, s := math.Cos(a), math.Sin(a)
		dir := vec.Vec2{
			X: startDir.X*c - startDir.Y*s,
			Y: startDir.X*s + startDir.Y*c,
		}
		dst = append(dst, center.Add(dir.Mul(radius)))
	}
	return dst
}

// addPolygon records one outline piece, reversing it if necessary so that
// all pieces share the same orientation.  Pieces without area are dropped.
func (r *Rasterizer) addPolygon(pts ...vec.Vec2) {
	var a2 float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a2 += p.X*q.Y - q.X*p.Y
	}
	if math.Abs(a2) < zeroLengthThreshold {
		return
	}
	r.outlineStart = append(r.outlineStart, len(r.outline))
	if a2 > 0 {
		r.outline = append(r.outline, pts...)
		return
	}
	for i := len(pts) - 1; i >= 0; i-- {
		r.outline = append(r.outline, pts[i])
	}
}

// direction returns the unit vector from a to b.
func direction(a, b vec.Vec2) vec.Vec2 {
	d := b.Sub(a)
	l := d.Length()
	if l == 0 {
		return vec.Vec2{X: 1}
	}
	return d.Mul(1 / l)
}

// normal returns T rotated by 90 degrees.
func normal(T vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -T.Y, Y: T.X}
}

// cuspCosineThreshold detects segments which double back on themselves.
const cuspCosineThreshold = -0.9999
