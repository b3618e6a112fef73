// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package mio0 implements the Nintendo64 MIO0 container: 4-byte magic
// "MIO0", 4-byte decompressed size, and two 4-byte offsets pointing to the
// match-token and literal-byte sub-streams, each packed contiguously rather
// than interleaved with the flag bits. Yay0 (formats/yay0) is the
// same three-sub-stream layout under a different magic and shares this
// package's codec logic.
//
// The header fields are endian-dependent: decoding auto-detects the byte
// order by testing which order yields sub-stream offsets consistent with
// the stream length (big-endian is tried first, being the console-native
// order); encoding respects the codec's configured byte order.
package mio0

import (
	"encoding/binary"
	"io"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/bitio"
	"github.com/woozymasta/gamelz/lzmatch"
	"github.com/woozymasta/gamelz/lzwindow"
	"github.com/woozymasta/gamelz/registry"
)

const (
	name       = "MIO0"
	headerSize = 16
)

var magic = [4]byte{'M', 'I', 'O', '0'}

// Properties: 12-bit distance, length 3..18.
var Properties = lzmatch.Properties{WindowSize: 4096, MinLength: 3, MaxLength: 18, MinDistance: 1}

// flagConfig governs only the flag sub-stream: 1-byte words, MSB-first,
// 1=match. The match-token and literal sub-streams carry raw bytes with no
// bit packing of their own.
var flagConfig = bitio.Config{FlagSize: 1, ByteOrder: bitio.BigEndian, BitOrder: bitio.MSBFirst}

func init() {
	registry.Register(name, "application/x-mio0", "mio0", func() gamelz.Codec { return New() })
}

// Codec implements the MIO0 container.
type Codec struct {
	// LittleEndian selects the header byte order Compress writes. The
	// default (false) is big-endian, the console-native order; Decompress
	// auto-detects either.
	LittleEndian bool
}

// New returns a Codec writing big-endian headers.
func New() *Codec { return &Codec{} }

func (c *Codec) byteOrder() binary.ByteOrder {
	if c.LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Info returns static identification metadata. MIO0's match finder defaults
// to look-ahead=false: its known game decoders pre-compute match lengths
// against bytes already emitted, so matches must not overlap their own
// region.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: name, MediaType: "application/x-mio0", Extension: "mio0", Magic: magic[:], LookAheadDefault: false}
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
// its byte order the same way Decompress does.
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
		size, _, _, err := DetectHeader(header, int(total))
		if err != nil {
			return 0, gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		return size, nil
	})
}

// DetectHeader parses a split-stream header's size and sub-stream offset
// fields, auto-detecting the byte order: the order whose offsets are
// consistent with the total stream length wins, big-endian tried first.
// Shared with formats/yay0, whose header differs only in magic.
func DetectHeader(header []byte, total int) (size, matchOffset, literalOffset uint32, err error) {
	for _, ord := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		size = ord.Uint32(header[4:8])
		matchOffset = ord.Uint32(header[8:12])
		literalOffset = ord.Uint32(header[12:16])
		if matchOffset >= headerSize && literalOffset >= matchOffset && int(literalOffset) <= total {
			return size, matchOffset, literalOffset, nil
		}
	}
	return 0, 0, 0, gamelz.ErrTruncated
}

// Decompress parses the header (auto-detecting byte order), splits the body
// into its three sub-streams and runs the split-stream decode loop.
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
	decompressedSize, matchOffset, literalOffset, err := DetectHeader(header, headerSize+len(body))
	if err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}

	// Sub-stream offsets are relative to the start of the header.
	flagBytes := body[:matchOffset-headerSize]
	matchBytes := body[matchOffset-headerSize : literalOffset-headerSize]
	literalBytes := body[literalOffset-headerSize:]

	if err := DecodeSplit(flagBytes, matchBytes, literalBytes, int(decompressedSize), destination); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	return nil
}

// Compress writes the MIO0 header followed by the three sub-streams, in the
// codec's configured byte order.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	matches := lzmatch.Find(src, Properties, false, level)
	flagBytes, matchBytes, literalBytes := EncodeSplit(src, matches)

	ord := c.byteOrder()
	header := make([]byte, headerSize)
	copy(header[:4], magic[:])
	ord.PutUint32(header[4:8], uint32(len(src)))
	ord.PutUint32(header[8:12], uint32(headerSize+len(flagBytes)))
	ord.PutUint32(header[12:16], uint32(headerSize+len(flagBytes)+len(matchBytes)))

	if _, err := destination.Write(header); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	if _, err := destination.Write(flagBytes); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	if _, err := destination.Write(matchBytes); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	if _, err := destination.Write(literalBytes); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	return nil
}

// DecodeSplit runs the three-sub-stream decode loop: the flag sub-stream
// dictates literal/match just like Shape A, but match tokens come from
// matchBytes and literal bytes from literalBytes, each advancing its own
// independent cursor. Shared by MIO0 and Yay0, which differ only in magic
// and header field endianness.
func DecodeSplit(flagBytes, matchBytes, literalBytes []byte, decompressedSize int, dst io.Writer) error {
	win := lzwindow.New(dst, Properties.WindowSize)
	fr := bitio.NewFlagReader(flagBytes, flagConfig)
	mr := bitio.NewFlagReader(matchBytes, flagConfig)
	litPos := 0

	written := 0
	for written < decompressedSize {
		bit, err := fr.ReadBit()
		if err != nil {
			return err
		}
		if bit {
			hi, err := mr.ReadByte()
			if err != nil {
				return err
			}
			lo, err := mr.ReadByte()
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
		} else {
			if litPos >= len(literalBytes) {
				return bitio.ErrShortRead
			}
			if err := win.WriteByte(literalBytes[litPos]); err != nil {
				return err
			}
			litPos++
			written++
		}
	}
	return win.Flush()
}

// EncodeSplit walks src and matches, producing the three sub-streams.
func EncodeSplit(src []byte, matches []lzmatch.Match) (flagBytes, matchBytes, literalBytes []byte) {
	fw := bitio.NewFlagWriter(flagConfig)
	var tokens, literals []byte

	mi := 0
	i := 0
	for i < len(src) {
		if mi < len(matches) && matches[mi].Offset == i {
			fw.WriteBit(true)
			m := matches[mi]
			token := uint16(m.Length-3)<<12 | uint16(m.Distance-1)&0x0FFF
			tokens = append(tokens, byte(token>>8), byte(token))
			i += m.Length
			mi++
		} else {
			fw.WriteBit(false)
			literals = append(literals, src[i])
			i++
		}
	}
	fw.Flush()
	return fw.Bytes(), tokens, literals
}
