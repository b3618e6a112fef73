// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package lz10 implements the Nintendo LZ10 container: 1-byte
// type 0x10, 3-byte little-endian decompressed size, then a Shape-A body
// with a big-bit-order 1-byte flag word (1=match, 0=literal) and 2-byte
// big-endian match tokens (length-3 in the high nibble, distance-1 in the
// low 12 bits).
package lz10

import (
	"io"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/bitio"
	"github.com/woozymasta/gamelz/formats/internal/shapea"
	"github.com/woozymasta/gamelz/lzmatch"
	"github.com/woozymasta/gamelz/registry"
)

const (
	name     = "LZ10"
	typeByte = 0x10
)

// Properties bounds LZ10 matches: 12-bit distance, length 3..18.
var Properties = lzmatch.Properties{WindowSize: 4096, MinLength: 3, MaxLength: 18, MinDistance: 1}

var flagConfig = bitio.Config{FlagSize: 1, ByteOrder: bitio.BigEndian, BitOrder: bitio.MSBFirst}

func init() {
	registry.Register(name, "application/x-lz10", "lz10", func() gamelz.Codec { return New() })
}

// Codec implements the LZ10 container.
type Codec struct{}

// New returns a Codec. LZ10's match finder defaults to look-ahead=true:
// the format's decoders back-copy byte by byte, so overlapping matches are
// safe and improve ratio.
func New() *Codec { return &Codec{} }

// Info returns static identification metadata.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{
		Name: name, MediaType: "application/x-lz10", Extension: "lz10",
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
		if header[0] != typeByte {
			return false, nil
		}
		size := readSize24(header[1:])
		return size > 0, nil
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

// Compress writes the LZ10 header followed by the Shape-A body.
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
