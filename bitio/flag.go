// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package bitio implements the variable-width flag-bit stream that the
// LZSS-family codecs share: a lazily-refilled flag word (1-4 bytes, either
// byte order) whose individual bits decide literal-vs-match for the tokens
// that follow it in the byte stream.
package bitio

// ByteOrder selects how a multi-byte flag word is assembled from its bytes.
type ByteOrder int

const (
	// LittleEndian assembles the flag word least-significant byte first.
	LittleEndian ByteOrder = iota
	// BigEndian assembles the flag word most-significant byte first.
	BigEndian
)

// BitOrder selects which end of the flag word the next bit is taken from.
type BitOrder int

const (
	// MSBFirst consumes the highest remaining bit of the flag word first.
	MSBFirst BitOrder = iota
	// LSBFirst consumes the lowest remaining bit of the flag word first.
	LSBFirst
)

// Config selects flag-word size, byte order and bit order for a FlagReader
// or FlagWriter. FlagSize must be 1, 2, 3 or 4.
type Config struct {
	FlagSize  int
	ByteOrder ByteOrder
	BitOrder  BitOrder
}
