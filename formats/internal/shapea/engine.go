// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package shapea implements the decode/encode engine shared by the
// flag-bit LZ codecs: one flag bit per token decides literal vs. match,
// literals are single bytes, match tokens are 2-4 bytes encoding
// (distance, length) in a format-specific layout. LZSS, LZ10, LZ11, LZ40,
// Yaz0, CLZ0 and AKLZ all reduce to this loop; only TokenCodec (the
// per-format token width/bit-layout) differs.
package shapea

import (
	"io"

	"github.com/woozymasta/gamelz/bitio"
	"github.com/woozymasta/gamelz/lzmatch"
	"github.com/woozymasta/gamelz/lzwindow"
)

// TokenCodec encodes/decodes one format's match-token bit layout. ReadToken
// consumes whatever bits/bytes the format uses for one token (beyond the
// flag bit already consumed by the engine) and returns (distance, length).
// WriteToken writes the same payload for an already-chosen match.
type TokenCodec interface {
	ReadToken(fr *bitio.FlagReader) (distance, length int, err error)
	WriteToken(fw *bitio.FlagWriter, m lzmatch.Match)
}

// MatchBitValue selects which flag-bit value means "this token is a match"
// vs. "this token is a literal byte". Every format built on this engine
// uses 1=match, 0=literal, but the constant is named so a reader does not
// have to infer it from call sites.
const MatchBitValue = true

// Decode runs the Shape-A state machine: while fewer than decompressedSize
// bytes have been written, read a flag bit; 0 copies one literal byte, 1
// parses a match token via tc and back-copies it into the window.
func Decode(data []byte, cfg bitio.Config, decompressedSize, windowSize int, tc TokenCodec, dst io.Writer) error {
	win := lzwindow.New(dst, windowSize)
	fr := bitio.NewFlagReader(data, cfg)

	written := 0
	for written < decompressedSize {
		bit, err := fr.ReadBit()
		if err != nil {
			return err
		}

		if bit == MatchBitValue {
			distance, length, err := tc.ReadToken(fr)
			if err != nil {
				return err
			}
			if err := win.BackCopy(distance, length); err != nil {
				return err
			}
			written += length
		} else {
			b, err := fr.ReadByte()
			if err != nil {
				return err
			}
			if err := win.WriteByte(b); err != nil {
				return err
			}
			written++
		}
	}
	return win.Flush()
}

// Encode walks src emitting one flag bit per literal byte or match, in the
// order matches (sorted, non-overlapping, from lzmatch.Find) dictate.
func Encode(src []byte, cfg bitio.Config, matches []lzmatch.Match, tc TokenCodec) []byte {
	fw := bitio.NewFlagWriter(cfg)

	mi := 0
	i := 0
	for i < len(src) {
		if mi < len(matches) && matches[mi].Offset == i {
			fw.WriteBit(MatchBitValue)
			tc.WriteToken(fw, matches[mi])
			i += matches[mi].Length
			mi++
		} else {
			fw.WriteBit(!MatchBitValue)
			fw.WriteByte(src[i])
			i++
		}
	}
	fw.Flush()
	return fw.Bytes()
}
