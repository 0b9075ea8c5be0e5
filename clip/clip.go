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

// Package clip provides boolean operations on polygons and conversions
// between polygons and paths.
//
// Polygons produced here may contain holes.  The orientation of the
// contours is not specified, so the resulting paths must be filled using
// the even-odd rule.
package clip

import (
	"math"

	polyclip "github.com/ctessum/polyclip-go"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Polygon is a set of closed contours.
type Polygon polyclip.Polygon

// FromPoints returns a polygon consisting of a single contour through
// the given points.  Fewer than three points give an empty polygon.
func FromPoints(pts []vec.Vec2) Polygon {
	if len(pts) < 3 {
		return nil
	}
	c := make(polyclip.Contour, len(pts))
	for i, p := range pts {
		c[i] = polyclip.Point{X: p.X, Y: p.Y}
	}
	return Polygon{c}
}

// FromPath flattens every subpath of p into a contour.  Curves are
// approximated by line segments deviating at most tol from the curve.
// Open subpaths are closed implicitly.
func FromPath(p *path.Data, tol float64) Polygon {
	var res Polygon
	for _, pts := range Flatten(p, tol) {
		if c := FromPoints(pts); c != nil {
			res = append(res, c[0])
		}
	}
	return res
}

// Flatten converts every subpath of p into a polyline.  Quadratic and
// cubic segments are subdivided uniformly, using Wang's formula to choose
// the number of pieces for tolerance tol.
func Flatten(p *path.Data, tol float64) [][]vec.Vec2 {
	var res [][]vec.Vec2
	var cur []vec.Vec2
	var current vec.Vec2
	flush := func() {
		if len(cur) > 0 {
			res = append(res, cur)
		}
		cur = nil
	}
	add := func(v vec.Vec2) {
		if len(cur) == 0 || cur[len(cur)-1] != v {
			cur = append(cur, v)
		}
	}

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			flush()
			current = p.Coords[k]
			add(current)
			k++
		case path.CmdLineTo:
			add(current)
			current = p.Coords[k]
			add(current)
			k++
		case path.CmdQuadTo:
			p0, p1, p2 := current, p.Coords[k], p.Coords[k+1]
			add(p0)
			// elevate to a cubic
			c1 := p0.Add(p1.Sub(p0).Mul(2.0 / 3))
			c2 := p2.Add(p1.Sub(p2).Mul(2.0 / 3))
			cur = appendCubic(cur, p0, c1, c2, p2, tol)
			current = p2
			k += 2
		case path.CmdCubeTo:
			add(current)
			cur = appendCubic(cur, current, p.Coords[k], p.Coords[k+1], p.Coords[k+2], tol)
			current = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			if len(cur) > 1 && cur[len(cur)-1] == cur[0] {
				cur = cur[:len(cur)-1]
			}
			if len(cur) > 0 {
				current = cur[0]
			}
			flush()
		}
	}
	flush()
	return res
}

func appendCubic(dst []vec.Vec2, p0, p1, p2, p3 vec.Vec2, tol float64) []vec.Vec2 {
	m := max(p0.Sub(p1.Mul(2)).Add(p2).Length(), p1.Sub(p2.Mul(2)).Add(p3).Length())
	n := 1
	if m > 0 && tol > 0 {
		n = max(1, int(math.Ceil(math.Sqrt(3*m/(4*tol)))))
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		dst = append(dst, p0.Mul(s*s*s).
			Add(p1.Mul(3*s*s*t)).
			Add(p2.Mul(3*s*t*t)).
			Add(p3.Mul(t*t*t)))
	}
	return dst
}

// UnionAll returns the union of all given polygons.
func UnionAll(polys ...Polygon) Polygon {
	var res polyclip.Polygon
	for _, p := range polys {
		p = p.clean()
		if len(p) == 0 {
			continue
		}
		if len(res) == 0 {
			res = polyclip.Polygon(p)
			continue
		}
		res = res.Construct(polyclip.UNION, polyclip.Polygon(p))
	}
	return Polygon(res).clean()
}

// Difference returns the part of a which is not covered by b.
func Difference(a, b Polygon) Polygon {
	a, b = a.clean(), b.clean()
	if len(a) == 0 || len(b) == 0 {
		return a
	}
	return Polygon(polyclip.Polygon(a).Construct(polyclip.DIFFERENCE, polyclip.Polygon(b))).clean()
}

// clean removes contours with fewer than three points.
func (p Polygon) clean() Polygon {
	var res Polygon
	for _, c := range p {
		if len(c) >= 3 {
			res = append(res, c)
		}
	}
	return res
}

// IsEmpty reports whether p has no contour enclosing an area.
func (p Polygon) IsEmpty() bool {
	for _, c := range p {
		if len(c) >= 3 && math.Abs(contourArea(c)) > 0 {
			return false
		}
	}
	return true
}

// Area returns the area enclosed by p, counting a point as inside if it is
// enclosed by an odd number of contours.  Contours are assumed not to
// cross each other, which holds for the output of UnionAll and
// Difference.
func (p Polygon) Area() float64 {
	var total float64
	for i, c := range p {
		a := math.Abs(contourArea(c))
		if len(c) > 0 && p.depth(i, c[0])%2 == 1 {
			a = -a
		}
		total += a
	}
	return total
}

// depth counts the contours other than p[skip] which enclose pt.
func (p Polygon) depth(skip int, pt polyclip.Point) int {
	n := 0
	for j, c := range p {
		if j != skip && contains(c, pt) {
			n++
		}
	}
	return n
}

func contourArea(c polyclip.Contour) float64 {
	var a2 float64
	for i, p := range c {
		q := c[(i+1)%len(c)]
		a2 += p.X*q.Y - q.X*p.Y
	}
	return a2 / 2
}

// contains reports whether pt lies inside c, by ray casting.
func contains(c polyclip.Contour, pt polyclip.Point) bool {
	in := false
	for i, a := range c {
		b := c[(i+1)%len(c)]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if pt.X < x {
				in = !in
			}
		}
	}
	return in
}

// Bounds returns the bounding box of all contour points.  The zero
// rectangle is returned for an empty polygon.
func (p Polygon) Bounds() rect.Rect {
	first := true
	var r rect.Rect
	for _, c := range p {
		for _, pt := range c {
			if first {
				r = rect.Rect{LLx: pt.X, LLy: pt.Y, URx: pt.X, URy: pt.Y}
				first = false
				continue
			}
			r.LLx = min(r.LLx, pt.X)
			r.LLy = min(r.LLy, pt.Y)
			r.URx = max(r.URx, pt.X)
			r.URy = max(r.URy, pt.Y)
		}
	}
	return r
}

// Transform returns a copy of p with m applied to every point.
func (p Polygon) Transform(m matrix.Matrix) Polygon {
	res := make(Polygon, len(p))
	for i, c := range p {
		tc := make(polyclip.Contour, len(c))
		for j, pt := range c {
			v := Apply(m, vec.Vec2{X: pt.X, Y: pt.Y})
			tc[j] = polyclip.Point{X: v.X, Y: v.Y}
		}
		res[i] = tc
	}
	return res
}

// Path converts p into a path with one closed subpath per contour.
func (p Polygon) Path() *path.Data {
	res := &path.Data{}
	for _, c := range p {
		if len(c) < 3 {
			continue
		}
		res = res.MoveTo(vec.Vec2{X: c[0].X, Y: c[0].Y})
		for _, pt := range c[1:] {
			res = res.LineTo(vec.Vec2{X: pt.X, Y: pt.Y})
		}
		res = res.Close()
	}
	return res
}

// Apply maps v through the affine transformation m.
func Apply(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y + m[4],
		Y: m[1]*v.X + m[3]*v.Y + m[5],
	}
}

// Invert returns the inverse of m.  The second return value is false if m
// is singular.
func Invert(m matrix.Matrix) (matrix.Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if math.Abs(det) < 1e-12 {
		return matrix.Matrix{}, false
	}
	a := m[3] / det
	b := -m[1] / det
	c := -m[2] / det
	d := m[0] / det
	return matrix.Matrix{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}, true
}
