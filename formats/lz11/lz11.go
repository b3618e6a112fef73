// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package lz11 implements the Nintendo LZ11 container: header as
// LZ10 but type byte 0x11, with match tokens of variable width so a single
// back-reference can span up to 65808 bytes: 2 bytes for length 3..16, 3
// bytes for length 17..272, 4 bytes for length 273..65808. All three widths
// share a 12-bit distance field.
package lz11

import (
	"io"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/bitio"
	"github.com/woozymasta/gamelz/formats/internal/shapea"
	"github.com/woozymasta/gamelz/lzmatch"
	"github.com/woozymasta/gamelz/registry"
)

const (
	name     = "LZ11"
	typeByte = 0x11
)

// Properties bounds LZ11 matches: 12-bit distance, length 3..65808.
var Properties = lzmatch.Properties{WindowSize: 4096, MinLength: 3, MaxLength: 65808, MinDistance: 1}

var flagConfig = bitio.Config{FlagSize: 1, ByteOrder: bitio.BigEndian, BitOrder: bitio.MSBFirst}

func init() {
	registry.Register(name, "application/x-lz11", "lz11", func() gamelz.Codec { return New() })
}

// Codec implements the LZ11 container.
type Codec struct{}

// New returns a Codec. LZ11 defaults look-ahead to true, same as LZ10.
func New() *Codec { return &Codec{} }

// Info returns static identification metadata.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{
		Name: name, MediaType: "application/x-lz11", Extension: "lz11",
		Magic: []byte{typeByte}, LookAheadDefault: true,
	}
}

// IsMatch checks the type byte and that the declared size is plausible.
func (c *Codec) IsMatch(stream gamelz.ReadSeeker, filenameHint string) bool {
	ok, _ := gamelz.WithRestore(stream, func() (bool, error) {
		header := make([]byte, 4)
		if _, err := io.ReadFull(stream, header); err != nil {
			return false, nil
		}
		return header[0] == typeByte && readSize24(header[1:]) > 0, nil
	})
	return ok
}

// DecompressedSize reads the 3-byte little-endian size field.
func (c *Codec) DecompressedSize(stream gamelz.ReadSeeker) (uint32, error) {
	return gamelz.WithRestore(stream, func() (uint32, error) {
		header := make([]byte, 4)
		if _, err := io.ReadFull(stream, header); err != nil {
			return 0, gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		if header[0] != typeByte {
			return 0, gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
		}
		return readSize24(header[1:]), nil
	})
}

// Decompress parses the header then runs the Shape-A decode loop.
func (c *Codec) Decompress(source gamelz.ReadSeeker, destination gamelz.WriteSeeker) error {
	header := make([]byte, 4)
	if _, err := io.ReadFull(source, header); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	if header[0] != typeByte {
		return gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
	}
	size := readSize24(header[1:])

	body, err := io.ReadAll(source)
	if err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}

	if err := shapea.Decode(body, flagConfig, int(size), Properties.WindowSize, tokenCodec{}, destination); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	return nil
}

// Compress writes the LZ11 header followed by the Shape-A body.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	if len(src) > 0xFFFFFF {
		return gamelz.NewError(name, gamelz.InvalidArgument, nil)
	}

	header := []byte{typeByte, byte(len(src)), byte(len(src) >> 8), byte(len(src) >> 16)}
	if _, err := destination.Write(header); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}

	matches := lzmatch.Find(src, Properties, true, level)
	body := shapea.Encode(src, flagConfig, matches, tokenCodec{})

	if _, err := destination.Write(body); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	return nil
}

func readSize24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// tokenCodec implements the three-width LZ11 token layout. The indicator
// nibble of the first token byte selects the width: 0 -> 3 bytes total
// (length 17..272), 1 -> 4 bytes total (length 273..65808), anything else
// -> 2 bytes total and the indicator itself is length-1 (length 3..16).
type tokenCodec struct{}

func (tokenCodec) ReadToken(fr *bitio.FlagReader) (distance, length int, err error) {
	b1, err := fr.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	indicator := b1 >> 4

	switch indicator {
	case 0:
		b2, err := fr.ReadByte()
		if err != nil {
			return 0, 0, err
		}
		b3, err := fr.ReadByte()
		if err != nil {
			return 0, 0, err
		}
		length = int(uint16(b1&0x0F)<<4|uint16(b2>>4)) + 0x11
		distance = int(uint16(b2&0x0F)<<8|uint16(b3)) + 1
	case 1:
		b2, err := fr.ReadByte()
		if err != nil {
			return 0, 0, err
		}
		b3, err := fr.ReadByte()
		if err != nil {
			return 0, 0, err
		}
		b4, err := fr.ReadByte()
		if err != nil {
			return 0, 0, err
		}
		length = int(uint32(b1&0x0F)<<12|uint32(b2)<<4|uint32(b3>>4)) + 0x111
		distance = int(uint16(b3&0x0F)<<8|uint16(b4)) + 1
	default:
		b2, err := fr.ReadByte()
		if err != nil {
			return 0, 0, err
		}
		length = int(indicator) + 1
		distance = int(uint16(b1&0x0F)<<8|uint16(b2)) + 1
	}
	return distance, length, nil
}

func (tokenCodec) WriteToken(fw *bitio.FlagWriter, m lzmatch.Match) {
	d := m.Distance - 1
	switch {
	case m.Length <= 16:
		indicator := m.Length - 1
		fw.WriteByte(byte(indicator<<4) | byte(d>>8))
		fw.WriteByte(byte(d))
	case m.Length <= 272:
		l := m.Length - 0x11
		fw.WriteByte(byte(l >> 4))
		fw.WriteByte(byte(l<<4) | byte(d>>8))
		fw.WriteByte(byte(d))
	default:
		l := m.Length - 0x111
		fw.WriteByte(0x10 | byte(l>>12))
		fw.WriteByte(byte(l >> 4))
		fw.WriteByte(byte(l<<4) | byte(d>>8))
		fw.WriteByte(byte(d))
	}
}
