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
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"seehuhn.de/go/shadowclock/digit"
	"seehuhn.de/go/shadowclock/glyph"
)

// RenderMode is the display state of the clock face.
type RenderMode int

const (
	// Interactive shows the full face with shadows and light washes.
	Interactive RenderMode = iota

	// AmbientNormal shows flat, anti-aliased digits.
	AmbientNormal

	// AmbientLowBit shows flat digits without anti-aliasing.
	AmbientLowBit

	// Ambient1Bit shows digit outlines without anti-aliasing, for
	// displays which need burn-in protection.
	Ambient1Bit
)

func (m RenderMode) String() string {
	switch m {
	case Interactive:
		return "interactive"
	case AmbientNormal:
		return "ambient"
	case AmbientLowBit:
		return "ambient low-bit"
	case Ambient1Bit:
		return "ambient 1-bit"
	default:
		return fmt.Sprintf("RenderMode(%d)", int(m))
	}
}

// IsAmbient reports whether m is one of the ambient modes.
func (m RenderMode) IsAmbient() bool {
	return m != Interactive
}

// ambientMode selects the ambient variant for the given display
// capabilities.  Burn-in protection only matters on low-bit displays.
func ambientMode(lowBit, burnIn bool) RenderMode {
	switch {
	case lowBit && burnIn:
		return Ambient1Bit
	case lowBit:
		return AmbientLowBit
	default:
		return AmbientNormal
	}
}

func (m RenderMode) digitStyle() digit.Style {
	switch m {
	case AmbientNormal:
		return digit.Ambient
	case AmbientLowBit:
		return digit.LowBitAmbient
	case Ambient1Bit:
		return digit.OneBitAmbient
	default:
		return digit.Interactive
	}
}

// Palette holds the fixed colours of the clock face.  The time dependent
// colours of the interactive face are computed, not configured.
type Palette struct {
	AmbientBackground color.NRGBA
	LowBitBackground  color.NRGBA
	AmbientTypeface   color.NRGBA
	LowBitTypeface    color.NRGBA

	// ShadowStart is the shadow colour near the digit, ShadowEnd the
	// colour at the end of the shadow gradient.
	ShadowStart color.NRGBA
	ShadowEnd   color.NRGBA
}

// DefaultPalette returns the colours of the original watch face.
func DefaultPalette() Palette {
	black := color.NRGBA{A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	return Palette{
		AmbientBackground: black,
		LowBitBackground:  black,
		AmbientTypeface:   white,
		LowBitTypeface:    white,
		ShadowStart:       color.NRGBA{A: 65},
		ShadowEnd:         color.NRGBA{},
	}
}

func (p Palette) typefaces() digit.Palette {
	return digit.Palette{
		AmbientTypeface: p.AmbientTypeface,
		LowBitTypeface:  p.LowBitTypeface,
	}
}

// Layout describes how the four digits are arranged around the centre of
// the face.
type Layout struct {
	Scale    float64 // glyph units to pixels
	Margin   float64 // half the gap between digits, in pixels
	GlyphBox float64 // side length of a glyph, in glyph units
}

// DefaultLayout returns the arrangement of the original watch face.
func DefaultLayout() Layout {
	return Layout{Scale: 0.8, Margin: 10, GlyphBox: 100}
}

// Insets are the system window insets of the display, in pixels.
type Insets struct {
	Left, Top, Right, Bottom int
}

// Options configure a Controller.
type Options struct {
	// Glyphs provides the digit outlines.  If nil, the builtin glyphs are
	// used.
	Glyphs *glyph.Store

	Palette Palette
	Layout  Layout

	// WakeAnimation, if not nil, is played whenever the face leaves
	// ambient mode.
	WakeAnimation *WakeAnimation

	// Now returns the current time.  It is used to start the wake
	// animation.  If nil, time.Now is used.
	Now func() time.Time

	// Logger receives diagnostic messages.  If nil, messages are
	// discarded.
	Logger *slog.Logger
}

// DefaultOptions returns the options of the original watch face.  The
// wake animation is disabled.
func DefaultOptions() Options {
	return Options{
		Palette: DefaultPalette(),
		Layout:  DefaultLayout(),
	}
}

// DisplayHour converts a 24-hour clock value to the hour shown on the
// face.  In 12-hour mode, 0 is shown as 12 and 13 as 1.
func DisplayHour(hour int, is24 bool) int {
	if is24 {
		return hour
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return h
}

// HourFormatKey is the settings key holding the 24-hour flag.
const HourFormatKey = "HOUR_FORMAT_TYPE"

// HourFormatFromConfig reads the 24-hour flag from a settings map.  The
// value is a string boolean.  Missing or unparsable values select 24-hour
// mode.
func HourFormatFromConfig(cfg map[string]string) bool {
	v, ok := cfg[HourFormatKey]
	if !ok {
		return true
	}
	is24, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return true
	}
	return is24
}
