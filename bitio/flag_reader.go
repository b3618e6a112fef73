// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package bitio

import "errors"

// ErrShortRead is returned when the underlying source has fewer bytes left
// than a flag word or requested payload read needs.
var ErrShortRead = errors.New("bitio: short read")

// FlagReader reads a variable-width bit-flag stream: a lazily-refilled flag
// word governs whether each following token is a literal or a match: see
// package doc. src is consumed directly; FlagReader does no buffering beyond
// the current flag word.
type FlagReader struct {
	cfg      Config
	src      []byte
	pos      int
	word     uint32
	bitsLeft int
}

// NewFlagReader returns a FlagReader over src starting at byte offset 0.
func NewFlagReader(src []byte, cfg Config) *FlagReader {
	return &FlagReader{cfg: cfg, src: src}
}

// Pos returns the current byte offset into src.
func (r *FlagReader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes in src.
func (r *FlagReader) Remaining() int { return len(r.src) - r.pos }

// ReadByte reads and returns the next raw payload byte (not part of the flag
// word), advancing the source cursor. Used by decoders for literal bytes and
// match-token payload bytes staged between flag bits.
func (r *FlagReader) ReadByte() (byte, error) {
	if r.pos >= len(r.src) {
		return 0, ErrShortRead
	}
	b := r.src[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads n raw payload bytes, advancing the source cursor.
func (r *FlagReader) ReadBytes(n int) ([]byte, error) {
	if r.pos+n > len(r.src) {
		return nil, ErrShortRead
	}
	b := r.src[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// refill reads the next flag word (cfg.FlagSize bytes, cfg.ByteOrder) and
// resets the bit cursor to flagSizeBits.
func (r *FlagReader) refill() error {
	if r.pos+r.cfg.FlagSize > len(r.src) {
		return ErrShortRead
	}
	var word uint32
	switch r.cfg.ByteOrder {
	case LittleEndian:
		for i := r.cfg.FlagSize - 1; i >= 0; i-- {
			word = word<<8 | uint32(r.src[r.pos+i])
		}
	default: // BigEndian
		for i := 0; i < r.cfg.FlagSize; i++ {
			word = word<<8 | uint32(r.src[r.pos+i])
		}
	}
	r.pos += r.cfg.FlagSize
	r.word = word
	r.bitsLeft = r.cfg.FlagSize * 8
	return nil
}

// ReadBit returns the next flag bit, refilling the flag word on demand.
func (r *FlagReader) ReadBit() (bool, error) {
	if r.bitsLeft == 0 {
		if err := r.refill(); err != nil {
			return false, err
		}
	}

	flagBits := r.cfg.FlagSize * 8
	var bitIndex int
	if r.cfg.BitOrder == MSBFirst {
		bitIndex = r.bitsLeft - 1
	} else {
		bitIndex = flagBits - r.bitsLeft
	}

	bit := (r.word>>uint(bitIndex))&1 != 0
	r.bitsLeft--
	return bit, nil
}

// ReadInt reads nBits flag bits and assembles them into a uint32. When
// reverseOrder is false, the first bit read lands in the result's LSB;
// when true, it lands in the MSB (at position nBits-1).
func (r *FlagReader) ReadInt(nBits int, reverseOrder bool) (uint32, error) {
	var v uint32
	for i := 0; i < nBits; i++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if !bit {
			continue
		}
		if reverseOrder {
			v |= 1 << uint(nBits-1-i)
		} else {
			v |= 1 << uint(i)
		}
	}
	return v, nil
}

// Reset forces the next ReadBit to fetch a fresh flag word, discarding any
// bits remaining in the current word. Used by CNX2 to jump to the next
// 0x800-byte alignment boundary.
func (r *FlagReader) Reset() { r.bitsLeft = 0 }

// AlignTo seeks the source cursor forward to the next multiple of n bytes
// and forces a flag-word refill on the next bit read.
func (r *FlagReader) AlignTo(n int) {
	if rem := r.pos % n; rem != 0 {
		r.pos += n - rem
	}
	r.Reset()
}
