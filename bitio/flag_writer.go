// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package bitio

// FlagWriter is the encoder-side counterpart to FlagReader: it accumulates
// flag bits into an in-progress flag word and stages payload bytes written
// between flag bits so the wire order (flag word, then the payload it
// governs) is preserved even though the caller writes payload bytes before
// the flag word that describes them is known to be full.
type FlagWriter struct {
	cfg      Config
	out      []byte
	word     uint32
	bitsUsed int
	staged   []byte
	dirty    bool // true once any bit has been written into the in-progress word
}

// NewFlagWriter returns a FlagWriter that appends to an internal buffer,
// retrievable with Bytes after Flush.
func NewFlagWriter(cfg Config) *FlagWriter {
	return &FlagWriter{cfg: cfg}
}

// WriteByte stages one payload byte to be emitted after the current flag
// word completes.
func (w *FlagWriter) WriteByte(b byte) {
	w.staged = append(w.staged, b)
}

// WriteBytes stages payload bytes to be emitted after the current flag word
// completes.
func (w *FlagWriter) WriteBytes(b []byte) {
	w.staged = append(w.staged, b...)
}

// WriteBit sets (or clears) the next bit of the in-progress flag word. A
// full word is appended to the output, ahead of the staged payload bytes
// (which are then drained), on the next WriteBit or Flush, so payload the
// caller stages after a word's last bit still follows that word.
func (w *FlagWriter) WriteBit(b bool) {
	flagBits := w.cfg.FlagSize * 8
	if w.bitsUsed == flagBits {
		w.emitWord()
	}
	var bitIndex int
	if w.cfg.BitOrder == MSBFirst {
		bitIndex = flagBits - 1 - w.bitsUsed
	} else {
		bitIndex = w.bitsUsed
	}
	if b {
		w.word |= 1 << uint(bitIndex)
	}
	w.bitsUsed++
	w.dirty = true
}

// WriteInt writes the low nBits of value as flag bits, mirroring
// FlagReader.ReadInt's bit placement convention.
func (w *FlagWriter) WriteInt(value uint32, nBits int, reverseOrder bool) {
	for i := 0; i < nBits; i++ {
		var bit bool
		if reverseOrder {
			bit = value&(1<<uint(nBits-1-i)) != 0
		} else {
			bit = value&(1<<uint(i)) != 0
		}
		w.WriteBit(bit)
	}
}

// emitWord appends the current flag word to the output in the configured
// byte order, drains the staged payload, and resets word state.
func (w *FlagWriter) emitWord() {
	buf := make([]byte, w.cfg.FlagSize)
	switch w.cfg.ByteOrder {
	case LittleEndian:
		for i := 0; i < w.cfg.FlagSize; i++ {
			buf[i] = byte(w.word >> uint(8*i))
		}
	default: // BigEndian
		for i := 0; i < w.cfg.FlagSize; i++ {
			buf[w.cfg.FlagSize-1-i] = byte(w.word >> uint(8*i))
		}
	}
	w.out = append(w.out, buf...)
	w.out = append(w.out, w.staged...)

	w.staged = w.staged[:0]
	w.word = 0
	w.bitsUsed = 0
	w.dirty = false
}

// Flush emits the partial flag word (if any bit has been written since the
// last full word) and drains the staged payload. Call once at the end of
// encoding.
func (w *FlagWriter) Flush() {
	if w.dirty {
		w.emitWord()
		return
	}
	// No pending flag bits, but payload may still be staged (e.g. caller
	// wrote bytes without an intervening WriteBit call at all).
	if len(w.staged) > 0 {
		w.out = append(w.out, w.staged...)
		w.staged = w.staged[:0]
	}
}

// Bytes returns the accumulated output. Call Flush first to ensure any
// partial flag word and staged payload have been emitted.
func (w *FlagWriter) Bytes() []byte { return w.out }
