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

package glyph

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
)

//go:embed assets/*.json
var embedded embed.FS

// Digits lists the ids of the built-in glyphs.
var Digits = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

// Assets returns the file system holding the built-in glyph documents,
// one file "<id>.json" per digit.
func Assets() fs.FS {
	sub, err := fs.Sub(embedded, "assets")
	if err != nil {
		panic(err) // the embedded directory always exists
	}
	return sub
}

// Store loads glyphs from a file system and keeps every parsed glyph.
// A Store is safe for concurrent use.
type Store struct {
	fsys   fs.FS
	logger *slog.Logger

	mu     sync.Mutex
	cache  map[string]*Glyph
	parses int
}

// NewStore returns a store reading "<id>.json" files from fsys.
// If logger is nil, log messages are discarded.
func NewStore(fsys fs.FS, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		fsys:   fsys,
		logger: logger,
		cache:  make(map[string]*Glyph),
	}
}

// Default returns a store for the built-in digits.
func Default(logger *slog.Logger) *Store {
	return NewStore(Assets(), logger)
}

// Load returns the glyph with the given id.  The returned error wraps
// ErrNotFound if there is no asset for id, and ErrMalformed if the asset
// cannot be parsed.  Failures are not cached.
func (s *Store) Load(id string) (*Glyph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g, ok := s.cache[id]; ok {
		return g, nil
	}

	name := id + ".json"
	if id == "" || strings.ContainsAny(id, `/\`) || !fs.ValidPath(name) {
		return nil, fmt.Errorf("glyph %q: %w", id, ErrNotFound)
	}
	data, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("glyph %q: %w", id, ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("glyph %q: %w", id, err)
	}

	g, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if g.ID != id {
		return nil, fmt.Errorf("%w: file %s declares id %q", ErrMalformed, name, g.ID)
	}
	s.parses++
	if g.Skipped > 0 {
		s.logger.Warn("skipped malformed glyph commands",
			"glyph", id, "skipped", g.Skipped)
	}
	s.logger.Debug("glyph loaded",
		"glyph", id, "contours", len(g.Outline), "silhouette", len(g.Silhouette))

	s.cache[id] = g
	return g, nil
}

// Prefetch loads the given glyphs, or all built-in digits if no ids are
// given, so that later calls to Load are served from memory.
func (s *Store) Prefetch(ids ...string) error {
	if len(ids) == 0 {
		ids = Digits
	}
	var errs []error
	for _, id := range ids {
		if _, err := s.Load(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Parses returns the number of documents parsed so far.
func (s *Store) Parses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parses
}
