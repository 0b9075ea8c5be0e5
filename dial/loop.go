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
	"context"
	"time"
)

// Loop owns a Controller and serialises all access to it.  Events may be
// posted from any goroutine; they are applied, and frames are rendered,
// on the goroutine which calls Run.
type Loop struct {
	c      *Controller
	frame  func(*Controller)
	events chan func(*Controller)
	done   chan struct{}
}

// NewLoop returns a loop driving c.  Whenever the face has changed, frame
// is called on the loop goroutine; it will typically call c.Draw.
func NewLoop(c *Controller, frame func(*Controller)) *Loop {
	return &Loop{
		c:      c,
		frame:  frame,
		events: make(chan func(*Controller), 16),
		done:   make(chan struct{}),
	}
}

// Post schedules fn to run on the loop goroutine.  It blocks while the
// event queue is full.  The result is false if the loop has stopped, in
// which case fn is not run.
func (l *Loop) Post(fn func(*Controller)) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.events <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Tick posts a time update.
func (l *Loop) Tick(t time.Time) bool {
	hour, minute := t.Hour(), t.Minute()
	return l.Post(func(c *Controller) { c.OnTimeTick(hour, minute) })
}

// SetHourFormat posts a change of the hour format.
func (l *Loop) SetHourFormat(is24 bool) bool {
	return l.Post(func(c *Controller) { c.SetHourFormat(is24) })
}

// AmbientEnter posts a switch to ambient mode.
func (l *Loop) AmbientEnter(lowBit, burnIn bool) bool {
	return l.Post(func(c *Controller) { c.OnAmbientModeEnter(lowBit, burnIn) })
}

// AmbientExit posts a switch back to interactive mode.
func (l *Loop) AmbientExit() bool {
	return l.Post(func(c *Controller) { c.OnAmbientModeExit() })
}

// Resize posts a change of the surface geometry.
func (l *Loop) Resize(width, height int, isRound bool, insets Insets) bool {
	return l.Post(func(c *Controller) {
		c.OnSurfaceGeometryChanged(width, height, isRound, insets)
	})
}

// Run processes events until ctx is cancelled.  While the wake animation
// runs, it is advanced every FrameInterval.  Run returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	var ticker *time.Ticker
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	l.render()
	for {
		var frames <-chan time.Time
		switch {
		case l.c.Animating() && ticker == nil:
			ticker = time.NewTicker(FrameInterval)
			frames = ticker.C
		case l.c.Animating():
			frames = ticker.C
		case ticker != nil:
			ticker.Stop()
			ticker = nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.events:
			fn(l.c)
		case <-frames:
			l.c.Animate(l.c.now())
		}
		l.render()
	}
}

func (l *Loop) render() {
	if !l.c.Dirty() {
		return
	}
	if l.frame != nil {
		l.frame(l.c)
	}
	l.c.ClearDirty()
}
