// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package lz02 implements LZ02, a flag-bit LZ body with no distinct magic:
// identification is best-effort, combining the file extension hint with a
// heuristic check of the first header bytes, accepting a deliberate
// false-negative rate rather than pretending certainty.
package lz02

import (
	"encoding/binary"
	"io"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/bitio"
	"github.com/woozymasta/gamelz/formats/internal/shapea"
	"github.com/woozymasta/gamelz/lzmatch"
	"github.com/woozymasta/gamelz/registry"
)

const name = "LZ02"

// Properties: 12-bit distance, length 3..18, same LZSS-family bound.
var Properties = lzmatch.Properties{WindowSize: 4096, MinLength: 3, MaxLength: 18, MinDistance: 1}

var flagConfig = bitio.Config{FlagSize: 1, ByteOrder: bitio.BigEndian, BitOrder: bitio.MSBFirst}

func init() {
	registry.Register(name, "application/x-lz02", "lz02", func() gamelz.Codec { return New() })
}

// Codec implements the LZ02 container: a bare 4-byte little-endian size
// header (no magic) followed by a Shape-A body.
type Codec struct{}

// New returns a Codec.
func New() *Codec { return &Codec{} }

// Info returns static identification metadata. Magic is nil: LZ02 carries
// no identifying byte sequence.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: name, MediaType: "application/x-lz02", Extension: "lz02", LookAheadDefault: true}
}

// IsMatch is best-effort: it requires the ".lz02" extension hint and a
// plausible (non-zero, not absurdly large) declared size, since the format
// has no magic to check against. This accepts false negatives on renamed
// files and false positives on coincidentally-shaped data.
func (c *Codec) IsMatch(stream gamelz.ReadSeeker, filenameHint string) bool {
	if len(filenameHint) < 5 || filenameHint[len(filenameHint)-5:] != ".lz02" {
		return false
	}
	ok, _ := gamelz.WithRestore(stream, func() (bool, error) {
		var size uint32
		if err := binary.Read(stream, binary.LittleEndian, &size); err != nil {
			return false, nil
		}
		return size > 0 && size < 1<<30, nil
	})
	return ok
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
