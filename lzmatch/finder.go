// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package lzmatch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/woozymasta/gamelz"
)

// BlockSize is the default source partition size the parallel match finder
// processes independently; configurable per call site via FindWithBlockSize.
const BlockSize = 32 * 1024

// Find returns the ordered, non-overlapping list of LZ matches for src under
// props. lookAhead selects whether a match's interior may overlap bytes not
// yet emitted (the decoder's back-copy tolerates this); profiles, if
// non-empty, switches on the multi-profile validator instead of props'
// single window/length/distance regime. level NoCompression always returns
// nil, matching the "encoder emits only literals" contract.
func Find(src []byte, props Properties, lookAhead bool, level gamelz.Level, profiles ...Profile) []Match {
	return FindWithBlockSize(src, props, lookAhead, level, BlockSize, profiles...)
}

// FindWithBlockSize is Find with an explicit block size, exposed for tests
// that want to exercise seam reconciliation deterministically on small
// inputs.
func FindWithBlockSize(src []byte, props Properties, lookAhead bool, level gamelz.Level, blockSize int, profiles ...Profile) []Match {
	if level == gamelz.NoCompression {
		return nil
	}
	if len(src) < max(props.MinLength, 2)+1 {
		return nil
	}

	effective := props
	switch level {
	case gamelz.Fastest:
		effective.WindowSize = max(effective.MinDistance, effective.WindowSize/4)
	case gamelz.Optimal, gamelz.SmallestSize:
		// full configured window
	}

	blocks := partitionBlocks(len(src), blockSize)
	results := make([][]Match, len(blocks))

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for idx, blk := range blocks {
		idx, blk := idx, blk
		g.Go(func() error {
			results[idx] = findBlock(src, blk.start, blk.end, effective, lookAhead, profiles)
			return nil
		})
	}
	_ = g.Wait() // findBlock never returns an error; no failure path to propagate

	var flat []Match
	for _, r := range results {
		flat = append(flat, r...)
	}
	return reconcile(flat, effective.MaxLength, effective.MinLength)
}

type blockRange struct{ start, end int }

// partitionBlocks splits [0,n) into contiguous ranges of at most size bytes.
func partitionBlocks(n, size int) []blockRange {
	if size <= 0 {
		size = BlockSize
	}
	var blocks []blockRange
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		blocks = append(blocks, blockRange{start, end})
	}
	if len(blocks) == 0 {
		blocks = append(blocks, blockRange{0, n})
	}
	return blocks
}

// findBlock scans positions in [blockStart, blockEnd) for matches, reading
// backward into the whole of src (which may reach before blockStart) but
// never extending a non-look-ahead match past blockEnd, so blocks can be
// processed independently and stitched by reconcile.
func findBlock(src []byte, blockStart, blockEnd int, props Properties, lookAhead bool, profiles []Profile) []Match {
	var out []Match

	// A match at i needs at least one byte behind it and a candidate at
	// j = i - distance >= 0, so the scan starts at max(1, MinDistance).
	lo := max(1, props.MinDistance)
	lo = max(lo, blockStart)
	hi := min(blockEnd, len(src)-2) // need at least 2 bytes for the prefix compare

	i := lo
	for i < hi {
		bestLen, bestDist := 0, 0

		// posCap bounds every candidate at this position; stopping the scan
		// once bestLen reaches it is safe because no candidate can beat it.
		var posCap int
		if lookAhead {
			posCap = min(props.MaxLength, len(src)-i)
		} else {
			posCap = min(props.MaxLength, blockEnd-i)
		}

		scanLo := max(0, i-props.WindowSize)
		scanHi := i - props.MinDistance
		if scanHi >= 0 {
			want := uint16(src[i]) | uint16(src[i+1])<<8
			for j := scanHi; j >= scanLo; j-- {
				if j+1 >= len(src) {
					continue
				}
				if uint16(src[j])|uint16(src[j+1])<<8 != want {
					continue
				}

				capLen := posCap
				if !lookAhead {
					// The match region must stay disjoint from its source
					// window for decoders that lack overlap tolerance.
					capLen = min(capLen, i-j)
				}

				length := matchLength(src, i, j, capLen)
				if length > bestLen {
					bestLen = length
					bestDist = i - j
				}
				if bestLen >= posCap {
					break
				}
			}
		}

		acceptedLen, ok := validate(bestLen, bestDist, props, profiles)
		if ok && acceptedLen >= max(1, props.MinLength) {
			out = append(out, Match{Offset: i, Distance: bestDist, Length: acceptedLen})
			i += acceptedLen
			continue
		}
		i++
	}
	return out
}

// matchLength extends the match starting at (i,j) forward while bytes are
// equal, up to capLen bytes.
func matchLength(src []byte, i, j, capLen int) int {
	n := 0
	for n < capLen && i+n < len(src) && src[i+n] == src[j+n] {
		n++
	}
	return n
}

// validate applies the multi-profile acceptance rule: with no
// profiles given, props itself is the sole regime; with profiles given, a
// candidate is accepted if any profile's window/length/distance bounds fit,
// and length is clamped to that profile's MaxLength.
func validate(length, distance int, props Properties, profiles []Profile) (int, bool) {
	if len(profiles) == 0 {
		if length >= props.MinLength && distance >= props.MinDistance && distance <= props.WindowSize {
			return min(length, props.MaxLength), true
		}
		return 0, false
	}
	for _, p := range profiles {
		if length >= p.MinLength && distance >= p.MinDistance && distance <= p.WindowSize {
			return min(length, p.MaxLength), true
		}
	}
	return 0, false
}
