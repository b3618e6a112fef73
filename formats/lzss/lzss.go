// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package lzss implements the plain LZSS container: the Shape-A baseline
// every header-shape thin subclass in formats/headershape builds on by
// prepending a fixed header in front of this package's body. Body layout:
// one big-bit-order 1-byte flag word per 8 tokens (1=match, 0=literal), a
// literal is one raw byte, a match token is 2 bytes big-endian encoding
// length-3 in the high nibble and distance-1 in the low 12 bits — the same
// token shape LZ10 uses, since LZSS is the header-less ancestor of the
// Nintendo LZ10/LZ11 family.
package lzss

import (
	"encoding/binary"
	"io"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/bitio"
	"github.com/woozymasta/gamelz/formats/internal/shapea"
	"github.com/woozymasta/gamelz/lzmatch"
	"github.com/woozymasta/gamelz/registry"
)

const name = "LZSS"

// Properties is the shared LZ match-finder configuration for the LZSS body:
// 12-bit distance (window up to 4096), length 3..18.
var Properties = lzmatch.Properties{WindowSize: 4096, MinLength: 3, MaxLength: 18, MinDistance: 1}

var flagConfig = bitio.Config{FlagSize: 1, ByteOrder: bitio.BigEndian, BitOrder: bitio.MSBFirst}

func init() {
	registry.Register(name, "application/x-lzss", "lzs", func() gamelz.Codec { return New() })
}

// Codec implements the plain LZSS container.
type Codec struct{}

// New returns a Codec.
func New() *Codec { return &Codec{} }

// Info returns static identification metadata.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: name, MediaType: "application/x-lzss", Extension: "lzs", LookAheadDefault: true}
}

// IsMatch has no magic to check (LZSS carries no header beyond a raw size
// field); it accepts on the filename hint alone, so header-less formats
// carry a deliberate false-negative/positive rate.
func (c *Codec) IsMatch(stream gamelz.ReadSeeker, filenameHint string) bool {
	return len(filenameHint) >= 4 && filenameHint[len(filenameHint)-4:] == ".lzs"
}

// DecompressedSize reads the 4-byte little-endian size header.
func (c *Codec) DecompressedSize(stream gamelz.ReadSeeker) (uint32, error) {
	return gamelz.WithRestore(stream, func() (uint32, error) {
		var size uint32
		if err := binary.Read(stream, binary.LittleEndian, &size); err != nil {
			return 0, gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		return size, nil
	})
}

// Decompress reads the size header then runs the Shape-A decode loop.
func (c *Codec) Decompress(source gamelz.ReadSeeker, destination gamelz.WriteSeeker) error {
	var size uint32
	if err := binary.Read(source, binary.LittleEndian, &size); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}

	body, err := io.ReadAll(source)
	if err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}

	if err := shapea.Decode(body, flagConfig, int(size), Properties.WindowSize, tokenCodec{}, destination); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	return nil
}

// Compress writes the 4-byte size header followed by the Shape-A body.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	if err := binary.Write(destination, binary.LittleEndian, uint32(len(src))); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}

	matches := lzmatch.Find(src, Properties, true, level)
	body := shapea.Encode(src, flagConfig, matches, tokenCodec{})

	if _, err := destination.Write(body); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	return nil
}

// tokenCodec implements shapea.TokenCodec for the classic 2-byte LZSS token.
type tokenCodec struct{}

func (tokenCodec) ReadToken(fr *bitio.FlagReader) (distance, length int, err error) {
	hi, err := fr.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	lo, err := fr.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	token := uint16(hi)<<8 | uint16(lo)
	length = int(token>>12) + 3
	distance = int(token&0x0FFF) + 1
	return distance, length, nil
}

func (tokenCodec) WriteToken(fw *bitio.FlagWriter, m lzmatch.Match) {
	token := uint16(m.Length-3)<<12 | uint16(m.Distance-1)&0x0FFF
	fw.WriteByte(byte(token >> 8))
	fw.WriteByte(byte(token))
}
