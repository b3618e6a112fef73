// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package registry maps format names, MIME types and file extensions to
// codec factories. Formats register themselves from an init() in their own
// package (the database/sql and image packages' pattern: no reflection, no
// enumeration magic) by calling Register from their package init function;
// importing github.com/woozymasta/gamelz/formats/all for side effects makes
// every codec in this module available by name.
package registry

import (
	"strings"
	"sync"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/internal/xxh"
)

// Factory constructs a fresh codec instance. A new instance is returned per
// call because a single codec instance is not required to be safe for
// concurrent use.
type Factory func() gamelz.Codec

type entry struct {
	name    string
	mime    string
	ext     string
	factory Factory
}

var (
	mu       sync.RWMutex
	entries  []entry
	byName   = map[string]entry{}
	byExt    = map[string][]entry{}
)

// Register adds a codec factory under the given name, MIME type and file
// extension (without the leading dot). Call from an init() in the format's
// own package.
func Register(name, mime, ext string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	e := entry{name: name, mime: mime, ext: strings.ToLower(ext), factory: factory}
	entries = append(entries, e)
	byName[name] = e
	byExt[e.ext] = append(byExt[e.ext], e)
}

// Names returns every registered codec name, in registration order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

// New constructs a fresh codec instance for the given registered name. It
// returns nil, false if name is not registered.
func New(name string) (gamelz.Codec, bool) {
	mu.RLock()
	e, ok := byName[name]
	mu.RUnlock()
	if !ok {
		return nil, false
	}
	return e.factory(), true
}

// Identify probes stream against every registered codec (optionally
// narrowed to formats matching filenameHint's extension first) and returns
// the first one whose IsMatch succeeds. This is a convenience layered on
// top of the per-codec contract; the library never auto-detects formats on
// its own initiative.
func Identify(stream gamelz.ReadSeeker, filenameHint string) (gamelz.Codec, bool) {
	mu.RLock()
	candidates := make([]entry, len(entries))
	copy(candidates, entries)
	mu.RUnlock()

	ext := strings.ToLower(strings.TrimPrefix(extOf(filenameHint), "."))
	if ext != "" {
		// Try extension-matching codecs first: cheaper and more often right.
		for _, e := range candidates {
			if e.ext == ext {
				c := e.factory()
				if c.IsMatch(stream, filenameHint) {
					return c, true
				}
			}
		}
	}

	for _, e := range candidates {
		c := e.factory()
		if c.IsMatch(stream, filenameHint) {
			return c, true
		}
	}
	return nil, false
}

func extOf(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		return filename[i+1:]
	}
	return ""
}

// ContentHash returns the XXH64 digest of b, the same hash function the
// round-trip tests use for equality.
func ContentHash(b []byte) uint64 { return xxh.Sum64(b) }
