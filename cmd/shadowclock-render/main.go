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

// Command shadowclock-render writes a single frame of the clock face to
// a PNG or PDF file.  The output format is chosen by the file extension.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"seehuhn.de/go/shadowclock"
	"seehuhn.de/go/shadowclock/canvas/pdfcanvas"
	"seehuhn.de/go/shadowclock/dial"
)

func main() {
	out := flag.String("o", "clock.png", "output file (.png or .pdf)")
	at := flag.String("time", "", "time of day as HH:MM (default: now)")
	is24 := flag.Bool("24h", true, "use the 24-hour format")
	mode := flag.String("mode", "interactive", "interactive, ambient, lowbit or 1bit")
	size := flag.Int("size", 320, "face size in pixels")
	square := flag.Bool("square", false, "render a square face")
	wake := flag.Duration("wake", 0, "render the wake animation this long after waking")
	verbose := flag.Bool("v", false, "print debug messages")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	f, err := frame(*at, *is24, *mode, *size, !*square, *wake)
	if err == nil {
		err = render(*out, f, logger)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "shadowclock-render:", err)
		os.Exit(1)
	}
}

func frame(at string, is24 bool, mode string, size int, round bool, wake time.Duration) (shadowclock.Frame, error) {
	t, err := parseTime(at, time.Now())
	if err != nil {
		return shadowclock.Frame{}, err
	}
	m, err := shadowclock.ParseMode(mode)
	if err != nil {
		return shadowclock.Frame{}, err
	}
	if size <= 0 {
		return shadowclock.Frame{}, fmt.Errorf("invalid size %d", size)
	}
	return shadowclock.Frame{
		Time:     t,
		Is24Hour: is24,
		Mode:     m,
		Width:    size,
		Height:   size,
		Round:    round,
		Wake:     wake,
	}, nil
}

// parseTime interprets an "HH:MM" string as a time on the day of now.
// An empty string gives now.
func parseTime(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	y, mo, d := now.Date()
	return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, now.Location()), nil
}

func render(fileName string, f shadowclock.Frame, logger *slog.Logger) error {
	opts := dial.DefaultOptions()
	opts.Logger = logger

	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".png":
		im, err := shadowclock.RenderImage(f, opts)
		if err != nil {
			return err
		}
		out, err := os.Create(fileName)
		if err != nil {
			return err
		}
		err = png.Encode(out, im)
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
		return err

	case ".pdf":
		page, err := pdfcanvas.Create(fileName, f.Width, f.Height, logger)
		if err != nil {
			return err
		}
		if _, err := shadowclock.RenderFrame(page, f, opts); err != nil {
			page.Close()
			return err
		}
		return page.Close()

	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
}
