// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package headershape implements the thin container family (FCMP, GCLZ,
// GCZ, LZ01, LZSega, Level5LZSS, SDPC, MDF0, ZLB, RefPack, PRS, ALLZ,
// LZShrek): formats that add nothing to the flag-bit LZSS body beyond a
// fixed-size header carrying a magic and a decompressed-size field. Rather
// than one hand-written package per name, a single declarative Shape value
// describes each one and a shared Codec drives header parsing/writing
// around the body codec all of them share (formats/lzss's engine).
package headershape

import (
	"encoding/binary"
	"io"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/bitio"
	"github.com/woozymasta/gamelz/formats/internal/shapea"
	"github.com/woozymasta/gamelz/formats/lzss"
	"github.com/woozymasta/gamelz/lzmatch"
	"github.com/woozymasta/gamelz/registry"
)

// Shape declares one thin header subclass: a magic (may be empty for the
// header-less members of this family), whether the size field is
// big-endian, and the media-type/extension pair to register under.
type Shape struct {
	Name      string
	MediaType string
	Extension string
	Magic     []byte // may be nil: some of these names carry no magic at all
	BigEndian bool
}

// Shapes lists every thin header subclass this module registers; each adds
// nothing beyond a header to the shared LZSS body.
var Shapes = []Shape{
	{Name: "FCMP", MediaType: "application/x-fcmp", Extension: "fcmp", Magic: []byte("FCMP")},
	{Name: "GCLZ", MediaType: "application/x-gclz", Extension: "gclz", Magic: []byte("GCLZ"), BigEndian: true},
	{Name: "GCZ", MediaType: "application/x-gcz", Extension: "gcz", Magic: []byte("GCZ\x00"), BigEndian: true},
	{Name: "LZ01", MediaType: "application/x-lz01", Extension: "lz01", Magic: []byte{0x01, 0, 0, 0}},
	{Name: "LZSega", MediaType: "application/x-lzsega", Extension: "lzsega", Magic: nil, BigEndian: true},
	{Name: "Level5LZSS", MediaType: "application/x-level5lzss", Extension: "l5c", Magic: nil},
	{Name: "SDPC", MediaType: "application/x-sdpc", Extension: "sdpc", Magic: []byte("SDPC")},
	{Name: "MDF0", MediaType: "application/x-mdf0", Extension: "mdf0", Magic: []byte("MDF0")},
	{Name: "ZLB", MediaType: "application/x-zlb", Extension: "zlbh", Magic: []byte("ZLB\x00")},
	{Name: "RefPack", MediaType: "application/x-refpack", Extension: "refpack", Magic: []byte{0x10, 0xFB}, BigEndian: true},
	{Name: "PRS", MediaType: "application/x-prs", Extension: "prs", Magic: nil},
	{Name: "ALLZ", MediaType: "application/x-allz", Extension: "allz", Magic: []byte("ALLZ")},
	{Name: "LZShrek", MediaType: "application/x-lzshrek", Extension: "shrek", Magic: []byte("SHRK")},
}

func init() {
	for _, shape := range Shapes {
		shape := shape
		registry.Register(shape.Name, shape.MediaType, shape.Extension, func() gamelz.Codec { return New(shape) })
	}
}

// Codec wraps a header Shape around the shared LZSS Shape-A body.
type Codec struct {
	Shape Shape
}

// New returns a Codec for the given shape.
func New(shape Shape) *Codec { return &Codec{Shape: shape} }

func (c *Codec) headerLen() int { return len(c.Shape.Magic) + 4 }

func (c *Codec) byteOrder() binary.ByteOrder {
	if c.Shape.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Info returns static identification metadata.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: c.Shape.Name, MediaType: c.Shape.MediaType, Extension: c.Shape.Extension, Magic: c.Shape.Magic, LookAheadDefault: true}
}

// IsMatch checks the magic when present; header-less shapes fall back to
// the filename-extension heuristic, the same best-effort rule LZ02 uses.
func (c *Codec) IsMatch(stream gamelz.ReadSeeker, filenameHint string) bool {
	if len(c.Shape.Magic) == 0 {
		want := "." + c.Shape.Extension
		return len(filenameHint) >= len(want) && filenameHint[len(filenameHint)-len(want):] == want
	}
	ok, _ := gamelz.WithRestore(stream, func() (bool, error) {
		got := make([]byte, len(c.Shape.Magic))
		if _, err := io.ReadFull(stream, got); err != nil {
			return false, nil
		}
		return bytesEqual(got, c.Shape.Magic), nil
	})
	return ok
}

// DecompressedSize reads the 4-byte size field following the magic.
func (c *Codec) DecompressedSize(stream gamelz.ReadSeeker) (uint32, error) {
	return gamelz.WithRestore(stream, func() (uint32, error) {
		header := make([]byte, c.headerLen())
		if _, err := io.ReadFull(stream, header); err != nil {
			return 0, gamelz.NewError(c.Shape.Name, gamelz.UnexpectedEnd, err)
		}
		if len(c.Shape.Magic) > 0 && !bytesEqual(header[:len(c.Shape.Magic)], c.Shape.Magic) {
			return 0, gamelz.NewError(c.Shape.Name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
		}
		return c.byteOrder().Uint32(header[len(c.Shape.Magic):]), nil
	})
}

// Decompress validates the header and runs the shared LZSS Shape-A decoder
// over the remaining bytes.
func (c *Codec) Decompress(source gamelz.ReadSeeker, destination gamelz.WriteSeeker) error {
	header := make([]byte, c.headerLen())
	if _, err := io.ReadFull(source, header); err != nil {
		return gamelz.NewError(c.Shape.Name, gamelz.UnexpectedEnd, err)
	}
	if len(c.Shape.Magic) > 0 && !bytesEqual(header[:len(c.Shape.Magic)], c.Shape.Magic) {
		return gamelz.NewError(c.Shape.Name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
	}
	decompressedSize := int(c.byteOrder().Uint32(header[len(c.Shape.Magic):]))

	body, err := io.ReadAll(source)
	if err != nil {
		return gamelz.NewError(c.Shape.Name, gamelz.UnexpectedEnd, err)
	}
	if err := shapea.Decode(body, lzssFlagConfig, decompressedSize, lzss.Properties.WindowSize, lzssTokenCodec{}, destination); err != nil {
		return gamelz.NewError(c.Shape.Name, gamelz.UnexpectedEnd, err)
	}
	return nil
}

// Compress writes the magic and size header, then the shared LZSS body.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	header := make([]byte, c.headerLen())
	copy(header, c.Shape.Magic)
	c.byteOrder().PutUint32(header[len(c.Shape.Magic):], uint32(len(src)))
	if _, err := destination.Write(header); err != nil {
		return gamelz.NewError(c.Shape.Name, gamelz.InvalidArgument, err)
	}

	matches := lzmatch.Find(src, lzss.Properties, true, level)
	body := shapea.Encode(src, lzssFlagConfig, matches, lzssTokenCodec{})
	if _, err := destination.Write(body); err != nil {
		return gamelz.NewError(c.Shape.Name, gamelz.InvalidArgument, err)
	}
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var lzssFlagConfig = bitio.Config{FlagSize: 1, ByteOrder: bitio.BigEndian, BitOrder: bitio.MSBFirst}

// lzssTokenCodec duplicates formats/lzss's unexported tokenCodec: the same
// 2-byte (length-3, distance-1) layout, exposed here so headershape does
// not need formats/lzss to export its internal token type.
type lzssTokenCodec struct{}

func (lzssTokenCodec) ReadToken(fr *bitio.FlagReader) (distance, length int, err error) {
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

func (lzssTokenCodec) WriteToken(fw *bitio.FlagWriter, m lzmatch.Match) {
	token := uint16(m.Length-3)<<12 | uint16(m.Distance-1)&0x0FFF
	fw.WriteByte(byte(token >> 8))
	fw.WriteByte(byte(token))
}
