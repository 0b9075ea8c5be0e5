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
	"math"
	"time"
)

// FrameInterval is the time between two frames of the wake animation.
const FrameInterval = 16 * time.Millisecond

// Easing maps linear progress in [0, 1] to eased progress in [0, 1].
type Easing func(t float64) float64

// AccelerateDecelerate starts and ends slowly and is fastest in the
// middle.
func AccelerateDecelerate(t float64) float64 {
	return math.Cos((t+1)*math.Pi)/2 + 0.5
}

// WakeAnimation sweeps the sun phase from From to To when the face wakes
// up.  The phase is an angle in radians which is added to the sun
// position; the animation ends at a full turn, so that the sun comes to
// rest at its time-of-day position.
//
// The phase is a pure function of the elapsed time.  Start and Cancel
// only record when the animation began.
type WakeAnimation struct {
	From, To float64
	Duration time.Duration
	Easing   Easing

	// StartOffset is added to the elapsed time, to begin the sweep
	// part-way through.
	StartOffset time.Duration

	start   time.Time
	running bool
}

// DefaultWakeAnimation returns the animation of the original watch face.
func DefaultWakeAnimation() *WakeAnimation {
	return &WakeAnimation{
		From:     1.2 * math.Pi,
		To:       2 * math.Pi,
		Duration: 2 * time.Second,
		Easing:   AccelerateDecelerate,
	}
}

// Phase returns the phase after the given time has elapsed since the
// start of the animation.
func (a *WakeAnimation) Phase(elapsed time.Duration) float64 {
	elapsed += a.StartOffset
	if a.Duration <= 0 || elapsed >= a.Duration {
		return a.To
	}
	t := max(float64(elapsed)/float64(a.Duration), 0)
	if a.Easing != nil {
		t = a.Easing(t)
	}
	return a.From + (a.To-a.From)*t
}

// Start (re)starts the animation at the given time.
func (a *WakeAnimation) Start(now time.Time) {
	a.start = now
	a.running = true
}

// Cancel stops the animation.
func (a *WakeAnimation) Cancel() {
	a.running = false
}

// Running reports whether the animation was started and has neither
// finished nor been cancelled.
func (a *WakeAnimation) Running() bool {
	return a.running
}

// Step returns the phase at time now.  Once the animation has run its
// full duration, done is true and the animation stops.
func (a *WakeAnimation) Step(now time.Time) (phase float64, done bool) {
	elapsed := now.Sub(a.start)
	phase = a.Phase(elapsed)
	if elapsed+a.StartOffset >= a.Duration {
		a.running = false
		return phase, true
	}
	return phase, false
}
