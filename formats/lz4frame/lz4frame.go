// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package lz4frame implements the LZ4 envelope: a 4-byte magic,
// decompressed/compressed size fields and a 4-byte frame checksum,
// wrapping a single LZ4 block produced and consumed by
// github.com/pierrec/lz4/v4's block-level API. The frame checksum hash is
// per-instance configuration (Codec.Checksum): two Codec instances can use
// different checksum functions without interfering with each other.
package lz4frame

import (
	"encoding/binary"
	"hash"
	"hash/crc32"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/registry"
)

const name = "LZ4Frame"

var magic = [4]byte{'L', 'Z', '4', 'F'}

func init() {
	registry.Register(name, "application/x-lz4", "lz4", func() gamelz.Codec { return New() })
}

// Codec implements the LZ4 envelope.
type Codec struct {
	// Checksum builds the hash used for the frame's 4-byte checksum field.
	// Set it before the first Compress/Decompress call on this instance if
	// a non-default checksum is needed.
	Checksum func() hash.Hash32
}

// New returns a Codec using CRC-32 (IEEE) frame checksums.
func New() *Codec {
	return &Codec{Checksum: func() hash.Hash32 { return crc32.NewIEEE() }}
}

func (c *Codec) checksum() hash.Hash32 {
	if c.Checksum == nil {
		return crc32.NewIEEE()
	}
	return c.Checksum()
}

// Info returns static identification metadata.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: name, MediaType: "application/x-lz4", Extension: "lz4", Magic: magic[:], LookAheadDefault: false}
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

// Decompress parses the header, verifies the checksum, and runs the LZ4
// block decoder (or copies the payload verbatim under the raw fallback).
func (c *Codec) Decompress(source gamelz.ReadSeeker, destination gamelz.WriteSeeker) error {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(source, header); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	if [4]byte(header[:4]) != magic {
		return gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
	}
	decompressedSize := binary.LittleEndian.Uint32(header[4:8])
	compressedSize := binary.LittleEndian.Uint32(header[8:12])
	wantChecksum := binary.LittleEndian.Uint32(header[12:16])
	mode := header[16]

	payload := make([]byte, compressedSize)
	if _, err := io.ReadFull(source, payload); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}

	h := c.checksum()
	h.Write(payload)
	if h.Sum32() != wantChecksum {
		return gamelz.NewError(name, gamelz.CompressedSizeMismatch, nil)
	}

	if mode == rawBlock {
		if uint32(len(payload)) != decompressedSize {
			return gamelz.NewError(name, gamelz.DecompressedSizeMismatch, nil)
		}
		_, err := destination.Write(payload)
		return err
	}

	dst := make([]byte, decompressedSize)
	n, err := lz4.UncompressBlock(payload, dst)
	if err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	if uint32(n) != decompressedSize {
		return gamelz.NewError(name, gamelz.DecompressedSizeMismatch, nil)
	}

	if _, err := destination.Write(dst[:n]); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	return nil
}

// Compress LZ4-block-compresses src and writes the header, checksum and
// payload, falling back to a raw copy when the block would not shrink.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	mode := byte(rawBlock)
	payload := src

	if level != gamelz.NoCompression && len(src) > 0 {
		dst := make([]byte, lz4.CompressBlockBound(len(src)))
		var compressor lz4.Compressor
		n, err := compressor.CompressBlock(src, dst)
		if err != nil {
			return gamelz.NewError(name, gamelz.InvalidArgument, err)
		}
		if n > 0 && n < len(src) {
			mode = compressedBlock
			payload = dst[:n]
		}
	}

	h := c.checksum()
	h.Write(payload)

	header := make([]byte, headerSize)
	copy(header[:4], magic[:])
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(src)))
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[12:16], h.Sum32())
	header[16] = mode

	if _, err := destination.Write(header); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	if _, err := destination.Write(payload); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	return nil
}

const (
	headerSize      = 17
	rawBlock        = 0
	compressedBlock = 1
)
