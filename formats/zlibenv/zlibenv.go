// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package zlibenv implements the generic ZLib-wrapped envelope: a 4-byte
// magic, a 4-byte little-endian decompressed size, then a standard zlib
// stream produced and consumed by github.com/klauspost/compress/zlib.
// Unlike formats/hwgz this is a single unchunked stream, used by formats
// that just need "zlib plus a size header" rather than HWGZ's chunked
// table.
package zlibenv

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/registry"
)

const name = "ZLibEnv"

// "ZLE0" rather than "ZLB\x00": the ZLB header shape in formats/headershape
// already owns that identifier for its LZSS-bodied family member, and two
// registered codecs must not share a magic.
var magic = [4]byte{'Z', 'L', 'E', '0'}

func init() {
	registry.Register(name, "application/x-zlibenv", "zlb", func() gamelz.Codec { return New() })
}

// Codec implements the ZLib-wrapped envelope.
type Codec struct{}

// New returns a Codec.
func New() *Codec { return &Codec{} }

// Info returns static identification metadata.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: name, MediaType: "application/x-zlibenv", Extension: "zlb", Magic: magic[:], LookAheadDefault: false}
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

// DecompressedSize reads the little-endian size field at offset 4.
func (c *Codec) DecompressedSize(stream gamelz.ReadSeeker) (uint32, error) {
	return gamelz.WithRestore(stream, func() (uint32, error) {
		header := make([]byte, 8)
		if _, err := io.ReadFull(stream, header); err != nil {
			return 0, gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		if [4]byte(header[:4]) != magic {
			return 0, gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
		}
		return binary.LittleEndian.Uint32(header[4:8]), nil
	})
}

// Decompress parses the header and streams the zlib body through.
func (c *Codec) Decompress(source gamelz.ReadSeeker, destination gamelz.WriteSeeker) error {
	header := make([]byte, 8)
	if _, err := io.ReadFull(source, header); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	if [4]byte(header[:4]) != magic {
		return gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
	}
	decompressedSize := binary.LittleEndian.Uint32(header[4:8])

	zr, err := zlib.NewReader(source)
	if err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	defer zr.Close()

	n, err := io.Copy(destination, zr)
	if err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	if uint32(n) != decompressedSize {
		return gamelz.NewError(name, gamelz.DecompressedSizeMismatch, nil)
	}
	return nil
}

// Compress writes the header then a single zlib stream over src.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	header := make([]byte, 8)
	copy(header[:4], magic[:])
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(src)))
	if _, err := destination.Write(header); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlibLevelFor(level))
	if err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	if _, err := zw.Write(src); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	if err := zw.Close(); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}

	if _, err := destination.Write(buf.Bytes()); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	return nil
}

func zlibLevelFor(level gamelz.Level) int {
	switch level {
	case gamelz.NoCompression:
		return zlib.NoCompression
	case gamelz.Fastest:
		return zlib.BestSpeed
	case gamelz.SmallestSize:
		return zlib.BestCompression
	default:
		return zlib.DefaultCompression
	}
}
