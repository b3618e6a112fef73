// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package clz0 implements the CLZ0 container: 4-byte magic "CLZ0", 4-byte
// little-endian decompressed size, then a Shape-A body using the same
// 2-byte token layout as LZSS/LZ10; only the header differs.
package clz0

import (
	"encoding/binary"
	"io"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/bitio"
	"github.com/woozymasta/gamelz/formats/internal/shapea"
	"github.com/woozymasta/gamelz/lzmatch"
	"github.com/woozymasta/gamelz/registry"
)

const name = "CLZ0"

var magic = [4]byte{'C', 'L', 'Z', '0'}

// Properties: 12-bit distance, length 3..18 (shared LZSS-family bound).
var Properties = lzmatch.Properties{WindowSize: 4096, MinLength: 3, MaxLength: 18, MinDistance: 1}

var flagConfig = bitio.Config{FlagSize: 1, ByteOrder: bitio.BigEndian, BitOrder: bitio.MSBFirst}

func init() {
	registry.Register(name, "application/x-clz0", "clz0", func() gamelz.Codec { return New() })
}

// Codec implements the CLZ0 container.
type Codec struct{}

// New returns a Codec.
func New() *Codec { return &Codec{} }

// Info returns static identification metadata.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: name, MediaType: "application/x-clz0", Extension: "clz0", Magic: magic[:], LookAheadDefault: true}
}

// IsMatch checks the 4-byte magic.
func (c *Codec) IsMatch(stream gamelz.ReadSeeker, filenameHint string) bool {
	ok, _ := gamelz.WithRestore(stream, func() (bool, error) {
		var got [4]byte
		if _, err := io.ReadFull(stream, got[:]); err != nil {
			return false, nil
		}
		return got == magic, nil
	})
	return ok
}

// DecompressedSize reads the 4-byte little-endian size field after magic.
func (c *Codec) DecompressedSize(stream gamelz.ReadSeeker) (uint32, error) {
	return gamelz.WithRestore(stream, func() (uint32, error) {
		var got [4]byte
		if _, err := io.ReadFull(stream, got[:]); err != nil {
			return 0, gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		if got != magic {
			return 0, gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
		}
		var size uint32
		if err := binary.Read(stream, binary.LittleEndian, &size); err != nil {
			return 0, gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		return size, nil
	})
}

// Decompress parses the header then runs the Shape-A decode loop.
func (c *Codec) Decompress(source gamelz.ReadSeeker, destination gamelz.WriteSeeker) error {
	var got [4]byte
	if _, err := io.ReadFull(source, got[:]); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	if got != magic {
		return gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
	}
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

// Compress writes magic + size header followed by the Shape-A body.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	if _, err := destination.Write(magic[:]); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
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
