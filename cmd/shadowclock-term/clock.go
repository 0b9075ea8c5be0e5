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

package main

import "time"

// clock is a time source which may run faster than real time, to show
// the change of light over the day.
type clock struct {
	start time.Time
	real  func() time.Time
	speed float64
}

func newClock(start time.Time, speed float64) *clock {
	return &clock{start: start, real: time.Now, speed: max(speed, 1)}
}

// Now returns the simulated time.
func (c *clock) Now() time.Time {
	elapsed := c.real().Sub(c.start)
	return c.start.Add(time.Duration(float64(elapsed) * c.speed))
}

// TickInterval returns how often the simulated clock should be polled,
// so that no simulated minute is missed.
func (c *clock) TickInterval() time.Duration {
	return max(time.Duration(float64(time.Minute)/c.speed/2), 10*time.Millisecond)
}
