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

package dial

import (
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/shadowclock/daylight"
)

func TestAccelerateDecelerate(t *testing.T) {
	assert.InDelta(t, 0, AccelerateDecelerate(0), 1e-12)
	assert.InDelta(t, 0.5, AccelerateDecelerate(0.5), 1e-12)
	assert.InDelta(t, 1, AccelerateDecelerate(1), 1e-12)
	assert.Less(t, AccelerateDecelerate(0.1), 0.1)
	assert.Greater(t, AccelerateDecelerate(0.9), 0.9)
}

func TestWakePhase(t *testing.T) {
	a := DefaultWakeAnimation()
	assert.InDelta(t, 1.2*math.Pi, a.Phase(0), 1e-12)
	assert.InDelta(t, 1.6*math.Pi, a.Phase(time.Second), 1e-12)
	assert.Equal(t, 2*math.Pi, a.Phase(2*time.Second))
	assert.Equal(t, 2*math.Pi, a.Phase(time.Hour))
	assert.InDelta(t, 1.2*math.Pi, a.Phase(-time.Second), 1e-12)

	// the phase only depends on the elapsed time
	assert.Equal(t, a.Phase(700*time.Millisecond), a.Phase(700*time.Millisecond))

	a.StartOffset = time.Second
	assert.InDelta(t, 1.6*math.Pi, a.Phase(0), 1e-12)

	linear := &WakeAnimation{From: 0, To: 10, Duration: 10 * time.Second}
	assert.InDelta(t, 3, linear.Phase(3*time.Second), 1e-12)

	instant := &WakeAnimation{From: 0, To: 10}
	assert.Equal(t, 10.0, instant.Phase(0))
}

func TestWakeStep(t *testing.T) {
	a := DefaultWakeAnimation()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, a.Running())

	a.Start(t0)
	require.True(t, a.Running())
	phase, done := a.Step(t0.Add(500 * time.Millisecond))
	assert.False(t, done)
	assert.Greater(t, phase, 1.2*math.Pi)

	phase, done = a.Step(t0.Add(2 * time.Second))
	assert.True(t, done)
	assert.Equal(t, 2*math.Pi, phase)
	assert.False(t, a.Running())

	a.Start(t0)
	a.Cancel()
	assert.False(t, a.Running())
}

func TestWakeAnimation(t *testing.T) {
	t0 := time.Date(2026, 10, 17, 9, 5, 0, 0, time.UTC)
	now := t0
	opts := DefaultOptions()
	opts.Now = func() time.Time { return now }
	opts.WakeAnimation = DefaultWakeAnimation()

	c := newRoundFace(t, opts)
	c.OnTimeTick(9, 5)
	assert.False(t, c.Animating())

	c.OnAmbientModeEnter(false, false)
	c.OnAmbientModeExit()
	require.True(t, c.Animating())

	// first frame: the sun starts 1.2π ahead
	assert.Equal(t, daylight.SunPositionFor(5, 1.2*math.Pi, 320, 320), c.Sun())
	g := c.Slot(MinutesUnits).ShadowGradient()
	assert.InDelta(t, 104, g.Radius, 1e-9)
	assert.Equal(t, uint8(12), g.Colors[0].A)
	assert.InDelta(t, 30+216, c.Shine().Angle(), 1e-9)
	assert.InDelta(t, 30+216, c.Shade().Angle(), 1e-9)

	// half way
	now = t0.Add(time.Second)
	require.True(t, c.Animate(now))
	mid := daylight.SunPositionFor(5, 1.6*math.Pi, 320, 320)
	assert.InDelta(t, mid.X, c.Sun().X, 1e-9)
	assert.InDelta(t, mid.Y, c.Sun().Y, 1e-9)
	assert.InDelta(t, 152, c.Slot(HoursTens).ShadowGradient().Radius, 1e-9)

	// completion restores the time-based styles
	now = t0.Add(2 * time.Second)
	assert.False(t, c.Animate(now))
	assert.False(t, c.Animating())
	assert.Equal(t, daylight.SunPositionFor(5, 0, 320, 320), c.Sun())
	g = c.Slot(HoursTens).ShadowGradient()
	wantRadius := daylight.MapLinear(c.Ratio(), daylight.RatioMin, daylight.RatioMax, 80, 160)
	assert.InDelta(t, wantRadius, g.Radius, 1e-9)
	assert.Equal(t, color.NRGBA{A: 65}, g.Colors[0])
	assert.InDelta(t, 30, c.Shine().Angle(), 1e-9)

	// further calls do nothing
	assert.False(t, c.Animate(now.Add(time.Second)))
}

func TestWakeAnimationCancelled(t *testing.T) {
	now := time.Date(2026, 10, 17, 21, 40, 0, 0, time.UTC)
	opts := DefaultOptions()
	opts.Now = func() time.Time { return now }
	opts.WakeAnimation = DefaultWakeAnimation()

	c := newRoundFace(t, opts)
	c.OnTimeTick(21, 40)
	c.OnAmbientModeEnter(true, false)
	c.OnAmbientModeExit()
	require.True(t, c.Animating())

	c.OnAmbientModeEnter(true, false)
	assert.False(t, c.Animating())
	assert.Equal(t, AmbientLowBit, c.Mode())
	assert.False(t, c.Animate(now.Add(100*time.Millisecond)))

	// the options value is not modified by the controller
	assert.False(t, opts.WakeAnimation.Running())
}

func TestNoWakeAnimation(t *testing.T) {
	c := newRoundFace(t, DefaultOptions())
	c.OnTimeTick(9, 5)
	c.OnAmbientModeEnter(false, false)
	c.OnAmbientModeExit()
	assert.False(t, c.Animating())
	assert.Equal(t, daylight.SunPositionFor(5, 0, 320, 320), c.Sun())
	assert.False(t, c.Animate(time.Now()))
}

func TestHourFormatFromConfig(t *testing.T) {
	assert.True(t, HourFormatFromConfig(nil))
	assert.True(t, HourFormatFromConfig(map[string]string{}))
	assert.False(t, HourFormatFromConfig(map[string]string{HourFormatKey: "false"}))
	assert.False(t, HourFormatFromConfig(map[string]string{HourFormatKey: "FALSE"}))
	assert.True(t, HourFormatFromConfig(map[string]string{HourFormatKey: " true "}))
	assert.True(t, HourFormatFromConfig(map[string]string{HourFormatKey: "sometimes"}))
}

func TestRenderModeString(t *testing.T) {
	assert.Equal(t, "interactive", Interactive.String())
	assert.Equal(t, "ambient 1-bit", Ambient1Bit.String())
	assert.Equal(t, "RenderMode(7)", RenderMode(7).String())
	assert.False(t, Interactive.IsAmbient())
}
