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

// Package daylight models the simulated sun of the clock face.
//
// The model is deliberately simple: a daylight ratio derived from a normal
// distribution centred on noon, and a sun which orbits the face once per
// hour.  The ratio does not distinguish morning from afternoon.
package daylight

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Parameters of the daylight curve.
const (
	// NoonHour is the centre of the daylight curve.
	NoonHour = 12.0

	// Spread is the standard deviation of the daylight curve, in hours.
	Spread = 3.65

	// RatioMin and RatioMax bound the values returned by RatioFor.
	RatioMin = 0.5
	RatioMax = 1.0

	// SunDistance is how far outside the face the sun orbits.
	SunDistance = 200.0
)

// MapLinear maps v from the range [lo1, hi1] to the range [lo2, hi2].
// Values outside the source range are extrapolated.
func MapLinear(v, lo1, hi1, lo2, hi2 float64) float64 {
	return lo2 + (v-lo1)*(hi2-lo2)/(hi1-lo1)
}

// Phi is the density of the standard normal distribution.
func Phi(z float64) float64 {
	return math.Exp(-z*z/2) / math.Sqrt(2*math.Pi)
}

// StandardNormalCDF approximates the distribution function of the
// standard normal distribution by its Taylor series, summed until adding
// a term no longer changes the sum.
func StandardNormalCDF(z float64) float64 {
	if z < -8 {
		return 0
	}
	if z > 8 {
		return 1
	}
	sum, term := 0.0, z
	for i := 3.0; sum+term != sum; i += 2 {
		sum += term
		term *= z * z / i
	}
	return 0.5 + sum*Phi(z)
}

// RatioFor returns the daylight ratio for the given time of day.  The
// result lies in [RatioMin, RatioMax] and equals RatioMin at noon.
func RatioFor(hour, minute int) float64 {
	value := float64(hour) + MapLinear(float64(minute), 0, 60, 0, 100)/100
	g := StandardNormalCDF((value - NoonHour) / Spread)
	if g < 0.5 {
		g = 1 - g
	}
	return g
}

// SunOrbitRadius returns the radius of the sun's orbit for a face of the
// given width.
func SunOrbitRadius(width float64) float64 {
	return width/2 + SunDistance
}

// SunPositionFor returns the position of the sun at the given minute.
// The sun circles the centre of the face once per hour, starting at the
// top; offset is an additional rotation in radians.
//
// The orbit radius is derived from the width alone, also for the
// vertical direction.
func SunPositionFor(minute int, offset, width, height float64) vec.Vec2 {
	angle := 2*math.Pi*float64(minute)/60 + offset - math.Pi/2
	radius := SunOrbitRadius(width)
	return vec.Vec2{
		X: width/2 + radius*math.Cos(angle),
		Y: height/2 + radius*math.Sin(angle),
	}
}
