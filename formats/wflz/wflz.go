// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package wflz implements the WFLZ container: 4-byte magic "WFLZ", 4-byte
// compressed size, 4-byte decompressed size, then a sequence of 4-byte
// block headers (distance:u16, length:u8, literalCount:u8) each followed by
// literalCount literal bytes, terminated by a block with both length and
// literalCount zero. Unlike the LZSS-family codecs in this module,
// WFLZ carries no flag-bit stream at all: each block header is
// self-describing, so it does not build on formats/internal/shapea.
package wflz

import (
	"encoding/binary"
	"io"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/internal/trace"
	"github.com/woozymasta/gamelz/lzmatch"
	"github.com/woozymasta/gamelz/lzwindow"
	"github.com/woozymasta/gamelz/registry"
)

const (
	name       = "WFLZ"
	headerSize = 12
)

var magic = [4]byte{'W', 'F', 'L', 'Z'}

// Properties: 16-bit distance (the block header's distance field), length
// up to 255 per block (the block header's length field is one byte).
var Properties = lzmatch.Properties{WindowSize: 65535, MinLength: 1, MaxLength: 255, MinDistance: 1}

func init() {
	registry.Register(name, "application/x-wflz", "wflz", func() gamelz.Codec { return New() })
}

// Codec implements the WFLZ container.
type Codec struct{}

// New returns a Codec.
func New() *Codec { return &Codec{} }

// Info returns static identification metadata.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: name, MediaType: "application/x-wflz", Extension: "wflz", Magic: magic[:], LookAheadDefault: false}
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

// DecompressedSize reads the 4-byte little-endian size field at offset 8.
func (c *Codec) DecompressedSize(stream gamelz.ReadSeeker) (uint32, error) {
	return gamelz.WithRestore(stream, func() (uint32, error) {
		header := make([]byte, headerSize)
		if _, err := io.ReadFull(stream, header); err != nil {
			return 0, gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		if [4]byte(header[:4]) != magic {
			return 0, gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
		}
		return binary.LittleEndian.Uint32(header[8:12]), nil
	})
}

// Decompress parses the header then walks the block-header sequence.
func (c *Codec) Decompress(source gamelz.ReadSeeker, destination gamelz.WriteSeeker) error {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(source, header); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	if [4]byte(header[:4]) != magic {
		return gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
	}

	body, err := io.ReadAll(source)
	if err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	if declared := binary.LittleEndian.Uint32(header[4:8]); int(declared) != len(body) {
		// Non-fatal: real files often carry trailing alignment padding.
		trace.CompressedSizeMismatch(name, int(declared), len(body))
	}

	win := lzwindow.New(destination, Properties.WindowSize)
	pos := 0
	for {
		if pos+4 > len(body) {
			return gamelz.NewError(name, gamelz.UnexpectedEnd, gamelz.ErrTruncated)
		}
		distance := int(binary.LittleEndian.Uint16(body[pos : pos+2]))
		length := int(body[pos+2])
		literalCount := int(body[pos+3])
		pos += 4

		if length == 0 && literalCount == 0 {
			break
		}
		if length > 0 {
			if err := win.BackCopy(distance, length); err != nil {
				return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
			}
		}
		if literalCount > 0 {
			if pos+literalCount > len(body) {
				return gamelz.NewError(name, gamelz.UnexpectedEnd, gamelz.ErrTruncated)
			}
			if err := win.WriteBytes(body[pos : pos+literalCount]); err != nil {
				return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
			}
			pos += literalCount
		}
	}
	return win.Flush()
}

// Compress writes the WFLZ header followed by the block-header sequence;
// the compressed-size field is filled once the body length is known.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	matches := lzmatch.Find(src, Properties, false, level)
	body := encodeBlocks(src, matches)

	header := make([]byte, headerSize)
	copy(header[:4], magic[:])
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(body)))
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(src)))

	if _, err := destination.Write(header); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	if _, err := destination.Write(body); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	return nil
}

// encodeBlocks emits one literal-only block (distance=0, length=0) per run
// of up to 255 literal bytes preceding the next match, one block per match,
// and a terminator block with both fields zero.
func encodeBlocks(src []byte, matches []lzmatch.Match) []byte {
	var out []byte
	i := 0
	mi := 0
	for i < len(src) {
		nextMatch := len(src)
		if mi < len(matches) {
			nextMatch = matches[mi].Offset
		}
		for i < nextMatch {
			chunk := min(255, nextMatch-i)
			out = append(out, 0, 0, 0, byte(chunk))
			out = append(out, src[i:i+chunk]...)
			i += chunk
		}
		if mi < len(matches) {
			m := matches[mi]
			var distBuf [2]byte
			binary.LittleEndian.PutUint16(distBuf[:], uint16(m.Distance))
			out = append(out, distBuf[0], distBuf[1], byte(m.Length), 0)
			i += m.Length
			mi++
		}
	}
	out = append(out, 0, 0, 0, 0) // terminator
	return out
}
