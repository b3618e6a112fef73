// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package yaz0 implements the Nintendo Yaz0 container: 4-byte magic
// "Yaz0", 4-byte big-endian decompressed size, 8 reserved/padding bytes,
// then a flag-bit body interleaving flag bits, literals and match tokens
// in a single stream, unlike MIO0/Yay0, which split them into three
// sub-streams.
package yaz0

import (
	"io"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/bitio"
	"github.com/woozymasta/gamelz/formats/internal/shapea"
	"github.com/woozymasta/gamelz/lzmatch"
	"github.com/woozymasta/gamelz/registry"
)

const (
	name       = "Yaz0"
	headerSize = 16
)

var magic = [4]byte{'Y', 'a', 'z', '0'}

// Properties: 12-bit distance, length 3..18 (extended lengths are not
// modeled; see DESIGN.md for the real format's escape-byte length extension
// this implementation omits).
var Properties = lzmatch.Properties{WindowSize: 4096, MinLength: 3, MaxLength: 18, MinDistance: 1}

var flagConfig = bitio.Config{FlagSize: 1, ByteOrder: bitio.BigEndian, BitOrder: bitio.MSBFirst}

func init() {
	registry.Register(name, "application/x-yaz0", "yaz0", func() gamelz.Codec { return New() })
}

// Codec implements the Yaz0 container.
type Codec struct {
	// LittleEndian selects the header byte order Compress writes. The
	// default (false) is big-endian, the console-native order; Decompress
	// auto-detects either.
	LittleEndian bool
}

// New returns a Codec writing big-endian headers.
func New() *Codec { return &Codec{} }

// Info returns static identification metadata.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: name, MediaType: "application/x-yaz0", Extension: "yaz0", Magic: magic[:], LookAheadDefault: true}
}

// detectSize auto-detects the size field's byte order: an LZSS body of n
// bytes can expand to at most ~8.5n output bytes (8 match tokens of up to
// 18 output bytes each per 17 body bytes: 16 token bytes plus the shared
// flag byte), so
// the byte order whose value stays under that bound wins; big-endian is
// tried first, being the console-native order.
func detectSize(field []byte, bodyLen int) uint32 {
	be := readBE32(field)
	le := uint32(field[3])<<24 | uint32(field[2])<<16 | uint32(field[1])<<8 | uint32(field[0])
	bound := uint64(bodyLen)*9 + 8
	if uint64(be) <= bound || uint64(le) > bound {
		return be
	}
	return le
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

// DecompressedSize reads the 4-byte size field after magic, auto-detecting
// its byte order against the stream length.
func (c *Codec) DecompressedSize(stream gamelz.ReadSeeker) (uint32, error) {
	return gamelz.WithRestore(stream, func() (uint32, error) {
		header := make([]byte, headerSize)
		if _, err := io.ReadFull(stream, header); err != nil {
			return 0, gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		if [4]byte(header[:4]) != magic {
			return 0, gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
		}
		total, err := stream.Seek(0, io.SeekEnd)
		if err != nil {
			return 0, gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		return detectSize(header[4:8], int(total)-headerSize), nil
	})
}

// Decompress parses the header then runs the Shape-A decode loop.
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
	size := detectSize(header[4:8], len(body))
	if err := shapea.Decode(body, flagConfig, int(size), Properties.WindowSize, tokenCodec{}, destination); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	return nil
}

// Compress writes the Yaz0 header followed by the Shape-A body, in the
// codec's configured byte order.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	header := make([]byte, headerSize)
	copy(header[:4], magic[:])
	if c.LittleEndian {
		v := uint32(len(src))
		header[4] = byte(v)
		header[5] = byte(v >> 8)
		header[6] = byte(v >> 16)
		header[7] = byte(v >> 24)
	} else {
		writeBE32(header[4:8], uint32(len(src)))
	}
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

func readBE32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func writeBE32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
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
