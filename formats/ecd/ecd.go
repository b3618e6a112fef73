// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package ecd implements the ECD fallback-to-raw envelope: a header
// carrying a flag byte (0 = raw, 1 = compressed), the undocumented
// PlainSize field (preserved verbatim, default 4; no known decoder
// interprets it), the decompressed size and the compressed size, followed
// either by the source bytes verbatim or a flag-bit LZ body validated
// against several (window, length) profiles at once.
package ecd

import (
	"encoding/binary"
	"io"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/bitio"
	"github.com/woozymasta/gamelz/formats/internal/shapea"
	"github.com/woozymasta/gamelz/lzmatch"
	"github.com/woozymasta/gamelz/registry"
)

const (
	name       = "ECD"
	headerSize = 4 + 1 + 4 + 4 + 4 // magic + mode + plainSize + decompressedSize + compressedSize

	modeRaw        = 0
	modeCompressed = 1
)

var magic = [4]byte{'E', 'C', 'D', 0}

// Profiles is the multi-profile validator ECD accepts matches under: a
// short/near regime and a long/far regime, either of which a candidate
// match may satisfy.
var Profiles = []lzmatch.Profile{
	{WindowSize: 256, MinLength: 2, MaxLength: 17, MinDistance: 1},
	{WindowSize: 4096, MinLength: 3, MaxLength: 17, MinDistance: 1},
}

var flagConfig = bitio.Config{FlagSize: 1, ByteOrder: bitio.BigEndian, BitOrder: bitio.MSBFirst}

func init() {
	registry.Register(name, "application/x-ecd", "ecd", func() gamelz.Codec { return New() })
}

// Codec implements the ECD envelope.
type Codec struct {
	// PlainSize is copied verbatim into the header and back out on decode.
	// Its purpose upstream is undocumented; this module only preserves it.
	PlainSize uint32
}

// New returns a Codec with PlainSize defaulted to 4.
func New() *Codec { return &Codec{PlainSize: 4} }

// Info returns static identification metadata.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: name, MediaType: "application/x-ecd", Extension: "ecd", Magic: magic[:], LookAheadDefault: true}
}

// IsMatch checks the 4-byte magic and that the mode byte is 0 or 1.
func (c *Codec) IsMatch(stream gamelz.ReadSeeker, filenameHint string) bool {
	ok, _ := gamelz.WithRestore(stream, func() (bool, error) {
		header := make([]byte, 5)
		if _, err := io.ReadFull(stream, header); err != nil {
			return false, nil
		}
		return [4]byte(header[:4]) == magic && (header[4] == modeRaw || header[4] == modeCompressed), nil
	})
	return ok
}

// DecompressedSize reads the little-endian size field at offset 9.
func (c *Codec) DecompressedSize(stream gamelz.ReadSeeker) (uint32, error) {
	return gamelz.WithRestore(stream, func() (uint32, error) {
		header := make([]byte, headerSize)
		if _, err := io.ReadFull(stream, header); err != nil {
			return 0, gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		if [4]byte(header[:4]) != magic {
			return 0, gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
		}
		return binary.LittleEndian.Uint32(header[9:13]), nil
	})
}

// Decompress parses the header and either copies the raw body or runs the
// Shape-A decoder over the LZ body.
func (c *Codec) Decompress(source gamelz.ReadSeeker, destination gamelz.WriteSeeker) error {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(source, header); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	if [4]byte(header[:4]) != magic {
		return gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
	}
	mode := header[4]
	c.PlainSize = binary.LittleEndian.Uint32(header[5:9])
	decompressedSize := int(binary.LittleEndian.Uint32(header[9:13]))

	body, err := io.ReadAll(source)
	if err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}

	if mode == modeRaw {
		if len(body) < decompressedSize {
			return gamelz.NewError(name, gamelz.UnexpectedEnd, gamelz.ErrTruncated)
		}
		_, err := destination.Write(body[:decompressedSize])
		return err
	}

	maxWindow := 0
	for _, p := range Profiles {
		maxWindow = max(maxWindow, p.WindowSize)
	}
	if err := shapea.Decode(body, flagConfig, decompressedSize, maxWindow, tokenCodec{}, destination); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	return nil
}

// Compress tries the LZ body first; if it would not shrink the input it
// falls back to a raw copy.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	plainSize := c.PlainSize
	if plainSize == 0 {
		plainSize = 4
	}

	props := lzmatch.Properties{WindowSize: Profiles[len(Profiles)-1].WindowSize, MinLength: Profiles[0].MinLength, MaxLength: Profiles[len(Profiles)-1].MaxLength, MinDistance: 1}
	matches := lzmatch.Find(src, props, true, level, Profiles...)
	body := shapea.Encode(src, flagConfig, matches, tokenCodec{})

	mode := byte(modeCompressed)
	if level == gamelz.NoCompression || len(body) >= len(src) {
		mode = modeRaw
		body = src
	}

	header := make([]byte, headerSize)
	copy(header[:4], magic[:])
	header[4] = mode
	binary.LittleEndian.PutUint32(header[5:9], plainSize)
	binary.LittleEndian.PutUint32(header[9:13], uint32(len(src)))
	binary.LittleEndian.PutUint32(header[13:17], uint32(len(body)))

	if _, err := destination.Write(header); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	if _, err := destination.Write(body); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	return nil
}

type tokenCodec struct{}

func (tokenCodec) ReadToken(fr *bitio.FlagReader) (distance, length int, err error) {
	b1, err := fr.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	b2, err := fr.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	token := uint16(b1)<<8 | uint16(b2)
	length = int(token>>12) + 2
	distance = int(token&0x0FFF) + 1
	return distance, length, nil
}

func (tokenCodec) WriteToken(fw *bitio.FlagWriter, m lzmatch.Match) {
	token := uint16(m.Length-2)<<12 | uint16(m.Distance-1)&0x0FFF
	fw.WriteByte(byte(token >> 8))
	fw.WriteByte(byte(token))
}
