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
	"bytes"
	"image/color"
	"log/slog"
	"math"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/shadowclock/canvas"
	"seehuhn.de/go/shadowclock/daylight"
	"seehuhn.de/go/shadowclock/digit"
	"seehuhn.de/go/shadowclock/glyph"
)

func newRoundFace(t *testing.T, opts Options) *Controller {
	t.Helper()
	c, err := New(opts)
	require.NoError(t, err)
	c.OnSurfaceGeometryChanged(320, 320, true, Insets{})
	return c
}

// referenceRatio evaluates the daylight curve with the library normal
// distribution.
func referenceRatio(hour, minute int) float64 {
	value := float64(hour) + float64(minute)/60
	z := (value - 12) / 3.65
	g := 0.5 * math.Erfc(-z/math.Sqrt2)
	if g < 0.5 {
		g = 1 - g
	}
	return g
}

func TestNineOhFive(t *testing.T) {
	c := newRoundFace(t, DefaultOptions())
	c.OnTimeTick(9, 5)

	assert.Equal(t, [4]string{"0", "9", "0", "5"}, c.DisplayedDigits())
	assert.Equal(t, Interactive, c.Mode())
	assert.InDelta(t, referenceRatio(9, 5), c.Ratio(), 1e-6)
	assert.Less(t, c.Ratio(), daylight.RatioMax)

	// the sun sits on the orbit, one twelfth of a turn past the top
	sun := c.Sun()
	dx, dy := sun.X-160, sun.Y-160
	assert.InDelta(t, 360*360, dx*dx+dy*dy, 1e-6)
	assert.InDelta(t, 160+360*math.Cos(-math.Pi/3), sun.X, 1e-9)
	assert.InDelta(t, 160+360*math.Sin(-math.Pi/3), sun.Y, 1e-9)

	require.NotNil(t, c.Shine())
	assert.InDelta(t, 30, c.Shine().Angle(), 1e-9)
	assert.InDelta(t, 30, c.Shade().Angle(), 1e-9)
	assert.InDelta(t, 30-90, c.Shine().Rotation(), 1e-9)
	assert.InDelta(t, 30+90, c.Shade().Rotation(), 1e-9)
	assert.Equal(t, 320, c.Shine().Size())
}

func TestDigitSlotsReloadOnlyOnChange(t *testing.T) {
	c := newRoundFace(t, DefaultOptions())
	c.OnTimeTick(9, 5)
	loads := [4]int{}
	for i := range loads {
		loads[i] = c.Slot(Position(i)).Loads()
	}

	c.OnTimeTick(9, 6)
	assert.Equal(t, loads[HoursTens], c.Slot(HoursTens).Loads())
	assert.Equal(t, loads[HoursUnits], c.Slot(HoursUnits).Loads())
	assert.Equal(t, loads[MinutesTens], c.Slot(MinutesTens).Loads())
	assert.Equal(t, loads[MinutesUnits]+1, c.Slot(MinutesUnits).Loads())
}

func TestHourDisplay(t *testing.T) {
	cases := []struct {
		hour int
		is24 bool
		want int
	}{
		{0, false, 12},
		{12, false, 12},
		{13, false, 1},
		{23, false, 11},
		{0, true, 0},
		{13, true, 13},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DisplayHour(c.hour, c.is24), "hour %d, 24h=%t", c.hour, c.is24)
	}

	ctrl := newRoundFace(t, DefaultOptions())
	assert.True(t, ctrl.Is24Hour())
	ctrl.OnTimeTick(13, 7)
	assert.Equal(t, [4]string{"1", "3", "0", "7"}, ctrl.DisplayedDigits())

	ctrl.SetHourFormat(false)
	assert.Equal(t, [4]string{"0", "1", "0", "7"}, ctrl.DisplayedDigits())
	ctrl.OnTimeTick(0, 0)
	assert.Equal(t, [4]string{"1", "2", "0", "0"}, ctrl.DisplayedDigits())

	// the daylight model keeps using the 24-hour clock
	assert.Equal(t, daylight.RatioFor(0, 0), ctrl.Ratio())
}

func TestAmbientModeSelection(t *testing.T) {
	pal := DefaultPalette()
	pal.AmbientBackground = color.NRGBA{R: 1, A: 255}
	pal.LowBitBackground = color.NRGBA{R: 2, A: 255}
	opts := DefaultOptions()
	opts.Palette = pal

	cases := []struct {
		lowBit, burnIn bool
		mode           RenderMode
		style          digit.Style
		background     color.NRGBA
	}{
		{false, false, AmbientNormal, digit.Ambient, pal.AmbientBackground},
		{false, true, AmbientNormal, digit.Ambient, pal.AmbientBackground},
		{true, false, AmbientLowBit, digit.LowBitAmbient, pal.LowBitBackground},
		{true, true, Ambient1Bit, digit.OneBitAmbient, pal.LowBitBackground},
	}
	for _, tc := range cases {
		t.Run(tc.mode.String(), func(t *testing.T) {
			c := newRoundFace(t, opts)
			c.OnAmbientModeEnter(tc.lowBit, tc.burnIn)
			assert.Equal(t, tc.mode, c.Mode())
			assert.True(t, c.Mode().IsAmbient())
			assert.Equal(t, tc.background, c.Background())
			for i := range 4 {
				assert.Equal(t, tc.style, c.Slot(Position(i)).Style())
			}

			c.OnAmbientModeExit()
			assert.Equal(t, Interactive, c.Mode())
			assert.Equal(t, digit.Interactive, c.Slot(HoursTens).Style())
			assert.NotEqual(t, tc.background, c.Background())
		})
	}
}

func TestAmbientFramesAreFlat(t *testing.T) {
	for _, lowBit := range []bool{false, true} {
		c := newRoundFace(t, DefaultOptions())
		c.OnTimeTick(9, 5)
		c.OnAmbientModeEnter(lowBit, lowBit)
		shine, shade := c.Shine().Renders(), c.Shade().Renders()

		c.ClearDirty()
		c.OnTimeTick(9, 6)
		assert.True(t, c.Dirty())

		rec := &canvas.Recorder{}
		c.Draw(rec)
		want := []canvas.OpKind{
			canvas.OpFill,
			canvas.OpFillPath, canvas.OpFillPath, canvas.OpFillPath, canvas.OpFillPath,
		}
		require.Equal(t, want, rec.Kinds())
		for _, op := range rec.Ops[1:] {
			assert.Nil(t, op.Paint.Shader)
			assert.Zero(t, op.Paint.Blur)
			assert.Equal(t, !lowBit, op.Paint.Antialias)
		}
		assert.Equal(t, shine, c.Shine().Renders())
		assert.Equal(t, shade, c.Shade().Renders())
	}
}

func TestInteractiveFrame(t *testing.T) {
	c := newRoundFace(t, DefaultOptions())
	c.OnTimeTick(9, 5)

	rec := &canvas.Recorder{}
	c.Draw(rec)
	want := []canvas.OpKind{
		canvas.OpFill,
		canvas.OpDrawImage,
		canvas.OpFillPath, canvas.OpFillPath, canvas.OpFillPath, canvas.OpFillPath,
		canvas.OpFillPath, canvas.OpFillPath, canvas.OpFillPath, canvas.OpFillPath,
		canvas.OpDrawImage,
		canvas.OpDrawImage,
	}
	require.Equal(t, want, rec.Kinds())
	assert.Equal(t, c.Background(), rec.Ops[0].Color)

	// shadows carry a gradient, digits a flat colour
	for _, op := range rec.Ops[2:6] {
		assert.NotNil(t, op.Paint.Shader)
	}
	for _, op := range rec.Ops[6:10] {
		assert.Nil(t, op.Paint.Shader)
		assert.Equal(t, c.Slot(HoursTens).FillColor(), op.Paint.Color)
	}

	// the first shade pass covers the face, the last two use the shine
	// bounds
	assert.Same(t, c.Shade().Image(), rec.Ops[1].Image)
	assert.Same(t, c.Shade().Image(), rec.Ops[10].Image)
	assert.Same(t, c.Shine().Image(), rec.Ops[11].Image)
	assert.Equal(t, rect.Rect{URx: 320, URy: 320}, rec.Ops[1].Rect)
}

func TestSquareFaceWash(t *testing.T) {
	c, err := New(DefaultOptions())
	require.NoError(t, err)
	c.OnSurfaceGeometryChanged(280, 280, false, Insets{Left: 4, Top: 6})
	c.OnTimeTick(15, 45)

	size := c.Shine().Size()
	assert.Equal(t, int(280*math.Sqrt2), size)

	rec := &canvas.Recorder{}
	c.Draw(rec)
	require.Equal(t, canvas.OpDrawImage, rec.Ops[1].Kind)
	x := float64(-4 + (280-size)/2)
	y := float64(-6 + (280-size)/2)
	assert.Equal(t, rect.Rect{LLx: x, LLy: y, URx: x + float64(size), URy: y + float64(size)}, rec.Ops[1].Rect)
}

func TestRoundFaceInsets(t *testing.T) {
	c, err := New(DefaultOptions())
	require.NoError(t, err)
	c.OnSurfaceGeometryChanged(320, 290, true, Insets{Left: 3, Top: 5})

	rec := &canvas.Recorder{}
	c.Draw(rec)
	last := rec.Ops[len(rec.Ops)-1]
	assert.Equal(t, rect.Rect{LLx: -5, LLy: -3, URx: 320, URy: 290}, last.Rect)
}

func TestColorModel(t *testing.T) {
	c := newRoundFace(t, DefaultOptions())

	c.OnTimeTick(12, 0)
	require.InDelta(t, 0.5, c.Ratio(), 1e-12)
	assert.Equal(t, color.NRGBA{R: 245, G: 245, B: 245, A: 255}, c.Background())
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, c.Slot(HoursTens).FillColor())
	g := c.Slot(HoursTens).ShadowGradient()
	assert.InDelta(t, 80, g.Radius, 1e-9)
	assert.Equal(t, color.NRGBA{A: 65}, g.Colors[0])

	shine := c.Shine().Gradient()
	assert.InDelta(t, 300, shine.Radius, 1e-9)
	assert.Equal(t, uint8(255), shine.Colors[0].A)
	assert.InDelta(t, 0.6, shine.Stops[0], 1e-9)

	// late in the evening the face darkens and the shadows lengthen
	c.OnTimeTick(23, 30)
	r := c.Ratio()
	assert.Greater(t, r, 0.99)
	assert.Less(t, c.Background().R, uint8(80))
	assert.Greater(t, c.Slot(HoursTens).ShadowGradient().Radius, 155.0)
	shade := c.Shade().Gradient()
	assert.Greater(t, shade.Radius, 345.0)
	assert.Greater(t, shade.Colors[0].A, uint8(190))
}

func TestMissingGlyphs(t *testing.T) {
	opts := DefaultOptions()
	opts.Glyphs = glyph.NewStore(fstest.MapFS{}, nil)
	_, err := New(opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, glyph.ErrNotFound)
}

func TestOutOfRangeTime(t *testing.T) {
	buf := &bytes.Buffer{}
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(buf, nil))
	c := newRoundFace(t, opts)
	c.OnTimeTick(9, 5)

	assert.NotPanics(t, func() {
		c.OnTimeTick(-3, 75)
		c.Draw(&canvas.Recorder{})
	})
	// "-3" does not exist, the previous glyph stays
	assert.Equal(t, [4]string{"0", "9", "7", "5"}, c.DisplayedDigits())
	assert.Contains(t, buf.String(), "glyph unavailable")
}

func TestDrawIntoImage(t *testing.T) {
	c := newRoundFace(t, DefaultOptions())
	c.OnTimeTick(9, 5)

	im := canvas.NewImage(320, 320)
	c.Draw(im)
	pix := im.RGBA()
	assert.Equal(t, uint8(255), pix.RGBAAt(5, 160).A)

	c.OnAmbientModeEnter(false, false)
	im.Clear()
	c.Draw(im)
	assert.Equal(t, color.RGBA{A: 255}, im.RGBA().RGBAAt(5, 5))
}

func TestDirtyFlag(t *testing.T) {
	opts := DefaultOptions()
	now := time.Date(2026, 10, 17, 9, 5, 0, 0, time.UTC)
	opts.Now = func() time.Time { return now }
	opts.WakeAnimation = DefaultWakeAnimation()
	c := newRoundFace(t, opts)
	assert.True(t, c.Dirty())
	c.ClearDirty()

	c.OnTimeTick(9, 5)
	assert.True(t, c.Dirty())
	c.ClearDirty()

	// animation frames take care of redrawing
	c.OnAmbientModeEnter(false, false)
	c.OnAmbientModeExit()
	require.True(t, c.Animating())
	c.ClearDirty()
	c.OnTimeTick(9, 6)
	assert.False(t, c.Dirty())

	c.SetHourFormat(false)
	assert.True(t, c.Dirty())
}
