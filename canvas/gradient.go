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
	"image/color"
	"math"

	"seehuhn.de/go/geom/vec"
)

// RadialGradient shades points by their distance from Center.  A point
// at distance d has gradient position t = d/Radius, clamped to [0, 1].
// Colours between two stops are interpolated linearly, positions before
// the first or after the last stop use the colour of that stop.
type RadialGradient struct {
	Center vec.Vec2
	Radius float64

	// Stops holds increasing positions in [0, 1], one per colour.
	Stops  []float64
	Colors []color.NRGBA
}

// ColorAt implements the Shader interface.
func (g *RadialGradient) ColorAt(x, y float64) color.NRGBA {
	if g.Radius <= 0 {
		return g.At(1)
	}
	d := math.Hypot(x-g.Center.X, y-g.Center.Y)
	return g.At(min(d/g.Radius, 1))
}

// At returns the gradient colour at position t.
func (g *RadialGradient) At(t float64) color.NRGBA {
	n := min(len(g.Stops), len(g.Colors))
	if n == 0 {
		return color.NRGBA{}
	}
	if t <= g.Stops[0] {
		return g.Colors[0]
	}
	for i := 1; i < n; i++ {
		if t > g.Stops[i] {
			continue
		}
		lo, hi := g.Stops[i-1], g.Stops[i]
		if hi <= lo {
			return g.Colors[i]
		}
		return lerp(g.Colors[i-1], g.Colors[i], (t-lo)/(hi-lo))
	}
	return g.Colors[n-1]
}

func lerp(a, b color.NRGBA, s float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*s))
	}
	return color.NRGBA{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: mix(a.A, b.A),
	}
}
