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

// Package overlay renders the square light washes which are laid over the
// clock face.  Each overlay is a radial gradient, centred outside the
// square, which is rotated about the centre of the square.
package overlay

import (
	"image"
	"image/color"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/shadowclock/canvas"
)

const (
	// DefaultRadius is the gradient radius used until
	// UpdateRadialGradient is called with an explicit radius.
	DefaultRadius = 300.0

	// centerShift is how far the gradient centre lies to the right of
	// the overlay square.
	centerShift = 150.0
)

// DefaultStops are the gradient stops used by SetColors.
var DefaultStops = [2]float64{0.6, 1}

// Overlay is a square RGBA buffer holding one rotated light wash.
type Overlay struct {
	size int
	im   *canvas.Image

	angle  float64
	offset float64

	radius     float64
	colors     [2]color.NRGBA
	stops      [2]float64
	gradient   *canvas.RadialGradient
	renderings int
}

// New allocates an overlay of size×size pixels.  The buffer is empty
// until UpdateAngle is called.
func New(size int) *Overlay {
	size = max(size, 1)
	o := &Overlay{
		size:   size,
		im:     canvas.NewImage(size, size),
		radius: DefaultRadius,
		stops:  DefaultStops,
	}
	o.updateGradient()
	return o
}

// SetAngleOffset sets the angle, in degrees, which is subtracted from
// every angle passed to UpdateAngle.
func (o *Overlay) SetAngleOffset(deg float64) {
	o.offset = deg
}

// UpdateRadialGradient sets all gradient parameters.  The new gradient is
// used from the next call to UpdateAngle on.
func (o *Overlay) UpdateRadialGradient(radius float64, start, end color.NRGBA, startStop, endStop float64) {
	o.radius = radius
	o.colors = [2]color.NRGBA{start, end}
	o.stops = [2]float64{startStop, endStop}
	o.updateGradient()
}

// SetColors changes only the gradient colours, resetting radius and stops
// to their defaults.
func (o *Overlay) SetColors(start, end color.NRGBA) {
	o.UpdateRadialGradient(DefaultRadius, start, end, DefaultStops[0], DefaultStops[1])
}

func (o *Overlay) updateGradient() {
	o.gradient = &canvas.RadialGradient{
		Center: vec.Vec2{X: float64(o.size) + centerShift, Y: float64(o.size) / 2},
		Radius: o.radius,
		Stops:  []float64{o.stops[0], o.stops[1]},
		Colors: []color.NRGBA{o.colors[0], o.colors[1]},
	}
}

// UpdateAngle re-renders the overlay, rotated clockwise about its centre
// by deg minus the angle offset.
func (o *Overlay) UpdateAngle(deg float64) {
	o.angle = deg

	c := float64(o.size) / 2
	m := matrix.Identity.Translate(-c, -c).RotateDeg(o.Rotation()).Translate(c, c)

	o.im.Clear()
	o.im.SetTransform(m)
	side := float64(o.size)
	o.im.FillRect(rect.Rect{URx: side, URy: side}, &canvas.Paint{
		Shader:    o.gradient,
		Antialias: true,
	})
	o.renderings++
}

// Angle returns the angle last passed to UpdateAngle.
func (o *Overlay) Angle() float64 {
	return o.angle
}

// Rotation returns the rotation, in degrees, applied to the gradient.
func (o *Overlay) Rotation() float64 {
	return o.angle - o.offset
}

// Gradient returns the gradient used for rendering, in unrotated overlay
// coordinates.
func (o *Overlay) Gradient() *canvas.RadialGradient {
	return o.gradient
}

// Image returns the overlay buffer.
func (o *Overlay) Image() *image.RGBA {
	return o.im.RGBA()
}

// Size returns the side length of the overlay in pixels.
func (o *Overlay) Size() int {
	return o.size
}

// Renders returns how often the overlay buffer was redrawn.
func (o *Overlay) Renders() int {
	return o.renderings
}
