// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package cnx2 implements the CNX2 container: 4-byte
// magic "CNX\x02", a 16-byte extension string, 4-byte big-endian compressed
// size, 4-byte big-endian decompressed size, then a body whose 2-bit flags
// select one of four token kinds: skip-to-next-0x800 boundary, a single
// literal byte, a match, or an N-byte literal block.
package cnx2

import (
	"encoding/binary"
	"io"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/bitio"
	"github.com/woozymasta/gamelz/internal/trace"
	"github.com/woozymasta/gamelz/lzmatch"
	"github.com/woozymasta/gamelz/lzwindow"
	"github.com/woozymasta/gamelz/registry"
)

const (
	name          = "CNX2"
	headerSize    = 4 + 16 + 4 + 4
	alignBoundary = 0x800
)

var magic = [4]byte{'C', 'N', 'X', 0x02}

const (
	flagAlign = iota
	flagLiteral
	flagMatch
	flagLiteralBlock
)

// Properties: 12-bit distance, length 3..18, same LZSS-family token width.
var Properties = lzmatch.Properties{WindowSize: 4096, MinLength: 3, MaxLength: 18, MinDistance: 1}

var flagConfig = bitio.Config{FlagSize: 1, ByteOrder: bitio.BigEndian, BitOrder: bitio.MSBFirst}

func init() {
	registry.Register(name, "application/x-cnx2", "cnx2", func() gamelz.Codec { return New() })
}

// Codec implements the CNX2 container.
type Codec struct {
	// Extension is the 16-byte extension string carried in the header.
	// Callers that don't care leave it zero-valued.
	Extension [16]byte
}

// New returns a Codec with a zeroed extension string.
func New() *Codec { return &Codec{} }

// Info returns static identification metadata.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: name, MediaType: "application/x-cnx2", Extension: "cnx2", Magic: magic[:], LookAheadDefault: true}
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

// DecompressedSize reads the 4-byte big-endian size field at the end of the
// header.
func (c *Codec) DecompressedSize(stream gamelz.ReadSeeker) (uint32, error) {
	return gamelz.WithRestore(stream, func() (uint32, error) {
		header := make([]byte, headerSize)
		if _, err := io.ReadFull(stream, header); err != nil {
			return 0, gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		if [4]byte(header[:4]) != magic {
			return 0, gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
		}
		return binary.BigEndian.Uint32(header[24:28]), nil
	})
}

// Decompress parses the header then runs the 2-bit-flag Shape-B decode
// loop.
func (c *Codec) Decompress(source gamelz.ReadSeeker, destination gamelz.WriteSeeker) error {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(source, header); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	if [4]byte(header[:4]) != magic {
		return gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
	}
	compressedSize := binary.BigEndian.Uint32(header[20:24])
	decompressedSize := binary.BigEndian.Uint32(header[24:28])

	body, err := io.ReadAll(source)
	if err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	if int(compressedSize) != len(body) {
		// Non-fatal: real files often carry trailing alignment padding.
		trace.CompressedSizeMismatch(name, int(compressedSize), len(body))
	}

	if err := decodeBody(body, int(decompressedSize), destination); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	return nil
}

func decodeBody(body []byte, decompressedSize int, dst io.Writer) error {
	win := lzwindow.New(dst, Properties.WindowSize)
	fr := bitio.NewFlagReader(body, flagConfig)

	written := 0
	for written < decompressedSize {
		flag, err := fr.ReadInt(2, true)
		if err != nil {
			return err
		}
		switch flag {
		case flagAlign:
			fr.AlignTo(alignBoundary)
		case flagLiteral:
			b, err := fr.ReadByte()
			if err != nil {
				return err
			}
			if err := win.WriteByte(b); err != nil {
				return err
			}
			written++
		case flagMatch:
			hi, err := fr.ReadByte()
			if err != nil {
				return err
			}
			lo, err := fr.ReadByte()
			if err != nil {
				return err
			}
			token := uint16(hi)<<8 | uint16(lo)
			length := int(token>>12) + 3
			distance := int(token&0x0FFF) + 1
			if err := win.BackCopy(distance, length); err != nil {
				return err
			}
			written += length
		case flagLiteralBlock:
			count, err := fr.ReadByte()
			if err != nil {
				return err
			}
			block, err := fr.ReadBytes(int(count))
			if err != nil {
				return err
			}
			if err := win.WriteBytes(block); err != nil {
				return err
			}
			written += int(count)
		}
	}
	return win.Flush()
}

// Compress writes the CNX2 header followed by the Shape-B body. Encoding
// never emits flagAlign padding tokens; they are a decode-time-only
// accommodation for files this implementation did not itself produce.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	matches := lzmatch.Find(src, Properties, true, level)
	body := encodeBody(src, matches)

	header := make([]byte, headerSize)
	copy(header[:4], magic[:])
	copy(header[4:20], c.Extension[:])
	binary.BigEndian.PutUint32(header[20:24], uint32(len(body)))
	binary.BigEndian.PutUint32(header[24:28], uint32(len(src)))

	if _, err := destination.Write(header); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	if _, err := destination.Write(body); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	return nil
}

func encodeBody(src []byte, matches []lzmatch.Match) []byte {
	fw := bitio.NewFlagWriter(flagConfig)

	mi := 0
	i := 0
	for i < len(src) {
		if mi < len(matches) && matches[mi].Offset == i {
			fw.WriteInt(flagMatch, 2, true)
			m := matches[mi]
			token := uint16(m.Length-3)<<12 | uint16(m.Distance-1)&0x0FFF
			fw.WriteByte(byte(token >> 8))
			fw.WriteByte(byte(token))
			i += m.Length
			mi++
			continue
		}

		// Fold a run of literals preceding the next match (or EOF) into one
		// literal block, up to 255 bytes, instead of one flag per byte.
		runEnd := len(src)
		if mi < len(matches) {
			runEnd = matches[mi].Offset
		}
		run := min(255, runEnd-i)
		if run == 1 {
			fw.WriteInt(flagLiteral, 2, true)
			fw.WriteByte(src[i])
			i++
			continue
		}
		fw.WriteInt(flagLiteralBlock, 2, true)
		fw.WriteByte(byte(run))
		fw.WriteBytes(src[i : i+run])
		i += run
	}
	fw.Flush()
	return fw.Bytes()
}
