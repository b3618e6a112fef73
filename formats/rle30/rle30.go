// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package rle30 implements the RLE30 PackBits-style run-length codec.
// Header: 4-byte magic, 4-byte little-endian decompressed size. Body: a
// sequence of control bytes, each either a literal run (top bit clear:
// count+1 raw bytes follow) or a repeat run (top bit set: (count&0x7F)+1
// repetitions of the single byte that follows).
package rle30

import (
	"encoding/binary"
	"io"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/registry"
)

const (
	name          = "RLE30"
	maxLiteralRun = 128
	maxRepeatRun  = 128
)

var magic = [4]byte{'R', 'L', 'E', '3'}

func init() {
	registry.Register(name, "application/x-rle30", "rle30", func() gamelz.Codec { return New() })
}

// Codec implements the RLE30 run-length container.
type Codec struct{}

// New returns a Codec.
func New() *Codec { return &Codec{} }

// Info returns static identification metadata.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: name, MediaType: "application/x-rle30", Extension: "rle30", Magic: magic[:], LookAheadDefault: false}
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

// Decompress parses the header and walks the control-byte stream.
func (c *Codec) Decompress(source gamelz.ReadSeeker, destination gamelz.WriteSeeker) error {
	header := make([]byte, 8)
	if _, err := io.ReadFull(source, header); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	if [4]byte(header[:4]) != magic {
		return gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
	}
	decompressedSize := int(binary.LittleEndian.Uint32(header[4:8]))

	out := make([]byte, 0, decompressedSize)
	var control [1]byte
	for len(out) < decompressedSize {
		if _, err := io.ReadFull(source, control[:]); err != nil {
			return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		if control[0]&0x80 == 0 {
			count := int(control[0]) + 1
			literal := make([]byte, count)
			if _, err := io.ReadFull(source, literal); err != nil {
				return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
			}
			out = append(out, literal...)
		} else {
			count := int(control[0]&0x7F) + 1
			var b [1]byte
			if _, err := io.ReadFull(source, b[:]); err != nil {
				return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
			}
			for i := 0; i < count; i++ {
				out = append(out, b[0])
			}
		}
	}
	if len(out) != decompressedSize {
		return gamelz.NewError(name, gamelz.DecompressedSizeMismatch, nil)
	}
	if _, err := destination.Write(out); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	return nil
}

// Compress writes the header then greedily emits repeat runs (length >= 2
// of the same byte) and literal runs (everything else).
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	header := make([]byte, 8)
	copy(header[:4], magic[:])
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(src)))
	if _, err := destination.Write(header); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}

	body := encodeRuns(src, level)
	if _, err := destination.Write(body); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	return nil
}

func encodeRuns(src []byte, level gamelz.Level) []byte {
	var out []byte
	i := 0
	for i < len(src) {
		runLen := 1
		for i+runLen < len(src) && src[i+runLen] == src[i] && runLen < maxRepeatRun {
			runLen++
		}
		if level != gamelz.NoCompression && runLen >= 2 {
			out = append(out, 0x80|byte(runLen-1), src[i])
			i += runLen
			continue
		}

		litStart := i
		for i < len(src) {
			next := 1
			for i+next < len(src) && src[i+next] == src[i] && next < maxRepeatRun {
				next++
			}
			if level != gamelz.NoCompression && next >= 2 {
				break
			}
			i++
			if i-litStart >= maxLiteralRun {
				break
			}
		}
		out = append(out, byte(i-litStart-1))
		out = append(out, src[litStart:i]...)
	}
	return out
}
