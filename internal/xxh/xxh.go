// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package xxh is a thin wrapper over cespare/xxhash/v2, the content hash
// behind registry.ContentHash, which the registry-level round-trip-law test
// uses and callers can use for the same hash.
package xxh

import "github.com/cespare/xxhash/v2"

// Sum64 returns the XXH64 digest of b.
func Sum64(b []byte) uint64 { return xxhash.Sum64(b) }
