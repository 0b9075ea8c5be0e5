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

// Command shadowclock-term shows a live clock face in the terminal.
//
// Every character cell shows two pixels, using the upper half block
// character.  Keys:
//
//	a    toggle ambient mode
//	l    toggle low-bit ambient mode
//	b    toggle 1-bit ambient mode
//	h    toggle 12/24-hour display
//	q    quit (also Esc and Ctrl-C)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/shadowclock/canvas"
	"seehuhn.de/go/shadowclock/dial"
)

func main() {
	size := flag.Int("size", 320, "face size in pixels before scaling to the terminal")
	square := flag.Bool("square", false, "render a square face")
	wake := flag.Bool("wake", true, "play the wake animation when leaving ambient mode")
	speed := flag.Float64("speed", 1, "clock speed relative to real time")
	logFile := flag.String("log", "", "write diagnostics to this file")
	flag.Parse()

	if err := run(*size, !*square, *wake, *speed, *logFile); err != nil {
		fmt.Fprintln(os.Stderr, "shadowclock-term:", err)
		os.Exit(1)
	}
}

func run(size int, round, wake bool, speed float64, logFile string) error {
	logger := slog.New(slog.DiscardHandler)
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	clock := newClock(time.Now(), speed)
	opts := dial.DefaultOptions()
	opts.Logger = logger
	opts.Now = time.Now
	if wake {
		opts.WakeAnimation = dial.DefaultWakeAnimation()
	}
	c, err := dial.New(opts)
	if err != nil {
		return err
	}
	c.OnSurfaceGeometryChanged(size, size, round, dial.Insets{})
	now := clock.Now()
	c.OnTimeTick(now.Hour(), now.Minute())

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	face := canvas.NewImage(size, size)
	loop := dial.NewLoop(c, func(c *dial.Controller) {
		face.Clear()
		c.Draw(face)
		show(screen, face)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	go func() {
		ticker := time.NewTicker(clock.TickInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				loop.Tick(clock.Now())
			}
		}
	}()

	go func() {
		var ambient dial.RenderMode
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				switch ev := ev.(type) {
				case *tcell.EventKey:
					mode, quit := handleKey(loop, ev, ambient)
					if quit {
						cancel()
						return
					}
					ambient = mode
				case *tcell.EventResize:
					// the face keeps its size; this re-lays it out
					// and redraws at the new terminal size
					loop.Resize(size, size, round, dial.Insets{})
				}
			}
		}
	}()

	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

// handleKey applies a key press.  The current ambient mode is passed in
// and the new one returned; Interactive means "not ambient".
func handleKey(loop *dial.Loop, ev *tcell.EventKey, ambient dial.RenderMode) (dial.RenderMode, bool) {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return ambient, true
	}
	if ev.Key() != tcell.KeyRune {
		return ambient, false
	}

	toggle := func(mode dial.RenderMode, lowBit, burnIn bool) dial.RenderMode {
		if ambient == mode {
			loop.AmbientExit()
			return dial.Interactive
		}
		loop.AmbientEnter(lowBit, burnIn)
		return mode
	}

	switch ev.Rune() {
	case 'q':
		return ambient, true
	case 'a':
		return toggle(dial.AmbientNormal, false, false), false
	case 'l':
		return toggle(dial.AmbientLowBit, true, false), false
	case 'b':
		return toggle(dial.Ambient1Bit, true, true), false
	case 'h':
		loop.Post(func(c *dial.Controller) { c.SetHourFormat(!c.Is24Hour()) })
	}
	return ambient, false
}

// show copies the face onto the terminal, scaled to fit.
func show(screen tcell.Screen, face *canvas.Image) {
	cols, rows := screen.Size()
	side := min(cols, 2*rows)
	if side <= 0 {
		return
	}
	small := canvas.NewImage(side, side)
	small.DrawImage(face.RGBA(), rect.Rect{URx: float64(side), URy: float64(side)})
	pix := small.RGBA()

	x0 := (cols - side) / 2
	y0 := (rows - side/2) / 2
	screen.Clear()
	for y := 0; y+1 < side; y += 2 {
		for x := range side {
			top := pix.RGBAAt(x, y)
			bottom := pix.RGBAAt(x, y+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			screen.SetContent(x0+x, y0+y/2, '▀', nil, style)
		}
	}
	screen.Show()
}
