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

// Package shadowclock renders a clock face made of four digits which cast
// shadows from a sun circling the face.  The colours of the face follow
// the time of day.
//
// The face itself is implemented in the dial package.  This package
// provides a one-call way to render a single frame.
package shadowclock

import (
	"fmt"
	"image"
	"strings"
	"time"

	"seehuhn.de/go/shadowclock/canvas"
	"seehuhn.de/go/shadowclock/dial"
)

// Frame describes one frame of the clock face.
type Frame struct {
	Time     time.Time
	Is24Hour bool
	Mode     dial.RenderMode

	Width, Height int
	Round         bool
	Insets        dial.Insets

	// Wake, if positive, renders the wake animation this long after the
	// face left ambient mode.  It only applies to interactive frames.
	Wake time.Duration
}

// RenderFrame draws the frame f onto s.  The controller used for drawing
// is returned, so that callers can inspect the resulting state.
func RenderFrame(s canvas.Surface, f Frame, opts dial.Options) (*dial.Controller, error) {
	t0 := f.Time
	if f.Wake > 0 && f.Mode == dial.Interactive {
		if opts.WakeAnimation == nil {
			opts.WakeAnimation = dial.DefaultWakeAnimation()
		}
		opts.Now = func() time.Time { return t0 }
	}

	c, err := dial.New(opts)
	if err != nil {
		return nil, err
	}
	c.SetHourFormat(f.Is24Hour)
	c.OnSurfaceGeometryChanged(f.Width, f.Height, f.Round, f.Insets)
	c.OnTimeTick(f.Time.Hour(), f.Time.Minute())

	switch f.Mode {
	case dial.Interactive:
		if f.Wake > 0 {
			c.OnAmbientModeEnter(false, false)
			c.OnAmbientModeExit()
			c.Animate(t0.Add(f.Wake))
		}
	case dial.AmbientNormal:
		c.OnAmbientModeEnter(false, false)
	case dial.AmbientLowBit:
		c.OnAmbientModeEnter(true, false)
	case dial.Ambient1Bit:
		c.OnAmbientModeEnter(true, true)
	default:
		return nil, fmt.Errorf("invalid render mode %d", int(f.Mode))
	}

	c.Draw(s)
	c.ClearDirty()
	return c, nil
}

// RenderImage draws the frame f into a new image.
func RenderImage(f Frame, opts dial.Options) (*image.RGBA, error) {
	im := canvas.NewImage(f.Width, f.Height)
	if _, err := RenderFrame(im, f, opts); err != nil {
		return nil, err
	}
	return im.RGBA(), nil
}

// ParseMode converts a mode name, as used on the command line, into a
// render mode.  Valid names are "interactive", "ambient", "lowbit" and
// "1bit".
func ParseMode(name string) (dial.RenderMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "interactive", "":
		return dial.Interactive, nil
	case "ambient":
		return dial.AmbientNormal, nil
	case "lowbit", "low-bit":
		return dial.AmbientLowBit, nil
	case "1bit", "1-bit", "onebit":
		return dial.Ambient1Bit, nil
	default:
		return 0, fmt.Errorf("unknown render mode %q", name)
	}
}
