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

// Package dial implements the clock face: it keeps the time and display
// state, drives the daylight model, the four digits and the two light
// washes, and composes the final frame.
package dial

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/shadowclock/canvas"
	"seehuhn.de/go/shadowclock/daylight"
	"seehuhn.de/go/shadowclock/digit"
	"seehuhn.de/go/shadowclock/glyph"
	"seehuhn.de/go/shadowclock/overlay"
)

// Position identifies one of the four digit slots.
type Position int

const (
	HoursTens Position = iota
	HoursUnits
	MinutesTens
	MinutesUnits
)

// drawOrder is the order in which shadows and digits are painted.
var drawOrder = [4]Position{MinutesTens, MinutesUnits, HoursTens, HoursUnits}

// Angle offsets of the two light washes, in degrees.
const (
	shineOffset = 90.0
	shadeOffset = -90.0
)

// Initial wash colours, before the first time-based update.
var (
	shineInitial = [2]color.NRGBA{{R: 255, G: 255, B: 255, A: 255}, {R: 255, G: 255, B: 255}}
	shadeInitial = [2]color.NRGBA{{A: 0x66}, {}}
)

// Controller is the clock face.  It is not safe for concurrent use; see
// Loop for a way to drive it from several goroutines.
type Controller struct {
	logger  *slog.Logger
	palette Palette
	layout  Layout
	now     func() time.Time

	slots [4]*digit.Slot
	shine *overlay.Overlay
	shade *overlay.Overlay
	wake  *WakeAnimation

	mode RenderMode
	is24 bool

	hour, minute int

	width, height int
	round         bool
	insets        Insets

	ratio      float64
	sun        vec.Vec2
	background color.NRGBA
	dirty      bool
}

// New creates a controller in interactive, 24-hour mode.  All glyphs are
// loaded up front, so that rendering never reads assets.
func New(opts Options) (*Controller, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	store := opts.Glyphs
	if store == nil {
		store = glyph.Default(logger)
	}
	if err := store.Prefetch(); err != nil {
		return nil, fmt.Errorf("loading glyphs: %w", err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	c := &Controller{
		logger:  logger,
		palette: opts.Palette,
		layout:  opts.Layout,
		now:     now,
		mode:    Interactive,
		is24:    true,
		dirty:   true,
	}
	if c.layout == (Layout{}) {
		c.layout = DefaultLayout()
	}
	if c.palette == (Palette{}) {
		c.palette = DefaultPalette()
	}
	if opts.WakeAnimation != nil {
		wake := *opts.WakeAnimation
		wake.running = false
		c.wake = &wake
	}
	for i := range c.slots {
		c.slots[i] = digit.New(store, c.palette.typefaces(), logger)
	}

	c.updateDigits()
	c.updateSun(0)
	c.updateStyles()
	return c, nil
}

// SetHourFormat switches between 24-hour and 12-hour display.
func (c *Controller) SetHourFormat(is24 bool) {
	if is24 == c.is24 {
		return
	}
	c.is24 = is24
	c.logger.Debug("hour format changed", "24h", is24)
	c.updateDigits()
	c.dirty = true
}

// OnAmbientModeEnter switches to the ambient mode matching the display
// capabilities.  A running wake animation is cancelled.
func (c *Controller) OnAmbientModeEnter(lowBit, burnIn bool) {
	mode := ambientMode(lowBit, burnIn)
	if c.wake != nil {
		c.wake.Cancel()
	}

	style := mode.digitStyle()
	for _, s := range c.slots {
		s.SetStyle(style)
	}
	if mode == AmbientNormal {
		c.background = c.palette.AmbientBackground
	} else {
		c.background = c.palette.LowBitBackground
	}

	if mode != c.mode {
		c.logger.Info("display mode changed", "from", c.mode, "to", mode)
	}
	c.mode = mode
	c.dirty = true
}

// OnAmbientModeExit returns to interactive mode and, if configured,
// starts the wake animation.
func (c *Controller) OnAmbientModeExit() {
	if c.mode == Interactive {
		return
	}
	c.logger.Info("display mode changed", "from", c.mode, "to", Interactive)
	c.mode = Interactive
	for _, s := range c.slots {
		s.SetStyle(digit.Interactive)
	}

	c.updateDigits()
	c.updateSun(0)
	c.updateStyles()
	if c.wake != nil {
		now := c.now()
		c.wake.Start(now)
		c.Animate(now)
	}
	c.dirty = true
}

// OnTimeTick sets the time of day.  The hour is on the 24-hour clock;
// conversion to the displayed hour happens here.  Out of range values
// are not rejected.
func (c *Controller) OnTimeTick(hour, minute int) {
	c.hour, c.minute = hour, minute
	c.logger.Debug("time tick", "hour", hour, "minute", minute, "mode", c.mode)

	c.updateDigits()
	c.updateSun(0)

	animating := c.Animating()
	if c.mode == Interactive && !animating {
		c.updateStyles()
	}
	if c.mode.IsAmbient() || !animating {
		c.dirty = true
	}
}

// OnSurfaceGeometryChanged lays out the face for a new display size.
func (c *Controller) OnSurfaceGeometryChanged(width, height int, isRound bool, insets Insets) {
	c.width, c.height = max(width, 0), max(height, 0)
	c.round = isRound
	c.insets = insets

	w, h := float64(c.width), float64(c.height)
	l := c.layout
	shape := l.GlyphBox * l.Scale
	left := w/2 - shape - l.Margin
	right := w/2 + l.Margin
	top := h/2 - shape - l.Margin
	bottom := h/2 + l.Margin
	c.slots[HoursTens].SetTransform(l.Scale, left, top)
	c.slots[HoursUnits].SetTransform(l.Scale, right, top)
	c.slots[MinutesTens].SetTransform(l.Scale, left, bottom)
	c.slots[MinutesUnits].SetTransform(l.Scale, right, bottom)

	size := max(c.width, c.height)
	if !isRound {
		size = int(float64(size) * math.Sqrt2)
	}
	c.shine = overlay.New(size)
	c.shine.SetAngleOffset(shineOffset)
	c.shine.SetColors(shineInitial[0], shineInitial[1])
	c.shade = overlay.New(size)
	c.shade.SetAngleOffset(shadeOffset)
	c.shade.SetColors(shadeInitial[0], shadeInitial[1])

	c.logger.Debug("surface changed",
		"width", c.width, "height", c.height, "round", isRound, "overlay", size)

	c.updateDigits()
	c.updateSun(0)
	if c.mode == Interactive {
		c.updateStyles()
	}
	c.dirty = true
}

// Animate advances the wake animation to time now.  The result tells
// whether the animation is still running afterwards.
func (c *Controller) Animate(now time.Time) bool {
	if !c.Animating() {
		return false
	}
	phase, done := c.wake.Step(now)

	c.updateSun(phase)
	radius := daylight.MapLinear(phase, math.Pi, 2*math.Pi, 80, 200)
	alpha := daylight.MapLinear(phase, math.Pi, 2*math.Pi, 0, 60)
	start := c.palette.ShadowStart
	start.A = uint8(math.Round(min(max(alpha, 0), 255)))
	for _, s := range c.slots {
		s.RecomputeShadowGradient(radius, start, c.palette.ShadowEnd)
	}
	if c.shine != nil {
		angle := c.minuteAngle() + phase*180/math.Pi
		c.shine.UpdateAngle(angle)
		c.shade.UpdateAngle(angle)
	}
	c.dirty = true

	if done {
		c.logger.Debug("wake animation finished")
		c.updateSun(0)
		c.updateStyles()
		return false
	}
	return true
}

// updateDigits shows the current time.  Slots only reload their glyph
// when the digit changes.
func (c *Controller) updateDigits() {
	hour := DisplayHour(c.hour, c.is24)
	ids := [4]string{
		HoursTens:    strconv.Itoa(hour / 10),
		HoursUnits:   strconv.Itoa(hour % 10),
		MinutesTens:  strconv.Itoa(c.minute / 10),
		MinutesUnits: strconv.Itoa(c.minute % 10),
	}
	for i, id := range ids {
		c.slots[i].SetDigit(id)
	}
}

// updateSun recomputes the daylight ratio and the sun position.  The
// offset is added to the angle of the sun, in radians.
func (c *Controller) updateSun(offset float64) {
	c.ratio = daylight.RatioFor(c.hour, c.minute)
	c.sun = daylight.SunPositionFor(c.minute, offset, float64(c.width), float64(c.height))
}

// updateStyles sets all time dependent colours and gradients of the
// interactive face.
func (c *Controller) updateStyles() {
	r := c.ratio
	lerp := func(a, b float64) float64 {
		return daylight.MapLinear(r, daylight.RatioMin, daylight.RatioMax, a, b)
	}

	shadowRadius := lerp(80, 160)
	fill := grey(lerp(1.0, 0.33))
	for _, s := range c.slots {
		s.RecomputeShadowGradient(shadowRadius, c.palette.ShadowStart, c.palette.ShadowEnd)
		s.SetFillColor(fill)
	}
	c.background = grey(lerp(0.96, 0.29))

	if c.shine == nil {
		return
	}
	angle := c.minuteAngle()

	shineAlpha := uint8(lerp(255, 100))
	c.shine.UpdateRadialGradient(lerp(300, 250),
		color.NRGBA{R: 255, G: 255, B: 255, A: shineAlpha},
		color.NRGBA{R: 255, G: 255, B: 255},
		lerp(0.6, 0), 1)
	c.shine.UpdateAngle(angle)

	shadeAlpha := uint8(lerp(60, 200))
	c.shade.UpdateRadialGradient(lerp(300, 350),
		color.NRGBA{A: shadeAlpha},
		color.NRGBA{},
		lerp(0.6, 0.2), 1)
	c.shade.UpdateAngle(angle)
}

func (c *Controller) minuteAngle() float64 {
	return daylight.MapLinear(float64(c.minute), 0, 60, 0, 360)
}

// grey returns the HSV colour with zero saturation and value v.
func grey(v float64) color.NRGBA {
	v = min(max(v, 0), 1)
	r, g, b := colorful.Hsv(0, 0, v).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Draw composes one frame.  Ambient frames consist of the background and
// the four flat digits only.
func (c *Controller) Draw(s canvas.Surface) {
	s.Fill(c.background)

	interactive := c.mode == Interactive && c.shine != nil
	if interactive {
		c.drawWash(s, c.shade, true)
		for _, pos := range drawOrder {
			c.slots[pos].DrawShadow(s, c.sun)
		}
	}
	for _, pos := range drawOrder {
		c.slots[pos].DrawShape(s)
	}
	if interactive {
		c.drawWash(s, c.shade, false)
		c.drawWash(s, c.shine, false)
	}
}

// drawWash places a light wash on the face.  Round faces stretch the
// wash over the visible area, square faces center it unscaled.
func (c *Controller) drawWash(s canvas.Surface, o *overlay.Overlay, first bool) {
	w, h := float64(c.width), float64(c.height)
	var dst rect.Rect
	switch {
	case c.round && first:
		dst = rect.Rect{URx: w, URy: h}
	case c.round:
		dst = rect.Rect{
			LLx: -float64(c.insets.Top),
			LLy: -float64(c.insets.Left),
			URx: w,
			URy: h,
		}
	default:
		size := o.Size()
		x := float64(-c.insets.Left + (c.width-size)/2)
		y := float64(-c.insets.Top + (c.width-size)/2)
		dst = rect.Rect{LLx: x, LLy: y, URx: x + float64(size), URy: y + float64(size)}
	}
	s.DrawImage(o.Image(), dst)
}

// DisplayedDigits returns the glyph ids shown, in the order hours tens,
// hours units, minutes tens, minutes units.
func (c *Controller) DisplayedDigits() [4]string {
	var res [4]string
	for i, s := range c.slots {
		res[i] = s.ID()
	}
	return res
}

// Slot returns the digit slot at the given position.
func (c *Controller) Slot(pos Position) *digit.Slot {
	return c.slots[pos]
}

// Shine returns the light wash which brightens the face, or nil before
// the surface geometry is known.
func (c *Controller) Shine() *overlay.Overlay {
	return c.shine
}

// Shade returns the light wash which darkens the face, or nil before the
// surface geometry is known.
func (c *Controller) Shade() *overlay.Overlay {
	return c.shade
}

// Mode returns the current display mode.
func (c *Controller) Mode() RenderMode {
	return c.mode
}

// Is24Hour reports whether hours are shown on the 24-hour clock.
func (c *Controller) Is24Hour() bool {
	return c.is24
}

// Ratio returns the current daylight ratio.
func (c *Controller) Ratio() float64 {
	return c.ratio
}

// Sun returns the current sun position.
func (c *Controller) Sun() vec.Vec2 {
	return c.sun
}

// Background returns the current background colour.
func (c *Controller) Background() color.NRGBA {
	return c.background
}

// Animating reports whether the wake animation is running.
func (c *Controller) Animating() bool {
	return c.wake != nil && c.wake.Running()
}

// Dirty reports whether the face changed since the last ClearDirty.
func (c *Controller) Dirty() bool {
	return c.dirty
}

// ClearDirty marks the current state as drawn.
func (c *Controller) ClearDirty() {
	c.dirty = false
}
