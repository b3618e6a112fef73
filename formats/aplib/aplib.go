// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package aplib implements an aPLib-style codec: no per-token flag word,
// but a bitstream nonetheless — one control bit per token (literal vs.
// match), and for matches a second bit selecting the stateful
// "repeat-last-offset" shortcut versus a full match carrying its own
// Elias-gamma-coded length and distance. The exact on-disk bit layout
// below is this module's own design rather than a byte-exact aPLib
// reproduction; it keeps aPLib's two distinguishing features, Elias-gamma
// coding and the repeat-offset shortcut.
package aplib

import (
	"encoding/binary"
	"io"
	"math/bits"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/bitio"
	"github.com/woozymasta/gamelz/lzmatch"
	"github.com/woozymasta/gamelz/lzwindow"
	"github.com/woozymasta/gamelz/registry"
)

const name = "aPLib"

var magic = [4]byte{'A', 'P', 'L', '0'}

// Profiles: a near regime that allows short matches, and a far regime that
// requires a longer match to be worth the larger gamma-coded distance.
var Profiles = []lzmatch.Profile{
	{WindowSize: 4096, MinLength: 2, MaxLength: 1 << 20, MinDistance: 1},
	{WindowSize: 1 << 20, MinLength: 4, MaxLength: 1 << 20, MinDistance: 4097},
}

var flagConfig = bitio.Config{FlagSize: 1, ByteOrder: bitio.BigEndian, BitOrder: bitio.MSBFirst}

func init() {
	registry.Register(name, "application/x-aplib", "apl", func() gamelz.Codec { return New() })
}

// Codec implements the aPLib-style envelope.
type Codec struct{}

// New returns a Codec.
func New() *Codec { return &Codec{} }

// Info returns static identification metadata.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: name, MediaType: "application/x-aplib", Extension: "apl", Magic: magic[:], LookAheadDefault: true}
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

// Decompress parses the header and walks the control-bit/gamma-coded body.
func (c *Codec) Decompress(source gamelz.ReadSeeker, destination gamelz.WriteSeeker) error {
	header := make([]byte, 8)
	if _, err := io.ReadFull(source, header); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	if [4]byte(header[:4]) != magic {
		return gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
	}
	decompressedSize := int(binary.LittleEndian.Uint32(header[4:8]))

	body, err := io.ReadAll(source)
	if err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}

	if err := decodeBody(body, decompressedSize, destination); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	return nil
}

func decodeBody(body []byte, decompressedSize int, dst io.Writer) error {
	win := lzwindow.New(dst, 1<<20)
	fr := bitio.NewFlagReader(body, flagConfig)

	lastDistance := 1
	written := 0
	for written < decompressedSize {
		isMatch, err := fr.ReadBit()
		if err != nil {
			return err
		}
		if !isMatch {
			b, err := fr.ReadByte()
			if err != nil {
				return err
			}
			if err := win.WriteByte(b); err != nil {
				return err
			}
			written++
			continue
		}

		repeat, err := fr.ReadBit()
		if err != nil {
			return err
		}

		var distance, length int
		if repeat {
			n, err := readGamma(fr)
			if err != nil {
				return err
			}
			length = n + 1
			distance = lastDistance
		} else {
			lenN, err := readGamma(fr)
			if err != nil {
				return err
			}
			distN, err := readGamma(fr)
			if err != nil {
				return err
			}
			// Gamma codes start at 1, so the stored value is length-1 and
			// the smallest encodable match is 2 bytes.
			length = lenN + 1
			distance = distN
			lastDistance = distance
		}

		if err := win.BackCopy(distance, length); err != nil {
			return err
		}
		written += length
	}
	return win.Flush()
}

// Compress finds matches under the multi-profile validator and emits the
// control-bit/gamma-coded body, taking the repeat-last-offset shortcut
// whenever a match's distance equals the previous match's.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	props := lzmatch.Properties{WindowSize: Profiles[len(Profiles)-1].WindowSize, MinLength: Profiles[0].MinLength, MaxLength: Profiles[len(Profiles)-1].MaxLength, MinDistance: 1}
	matches := lzmatch.Find(src, props, true, level, Profiles...)

	header := make([]byte, 8)
	copy(header[:4], magic[:])
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(src)))
	if _, err := destination.Write(header); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}

	body := encodeBody(src, matches)
	if _, err := destination.Write(body); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	return nil
}

func encodeBody(src []byte, matches []lzmatch.Match) []byte {
	fw := bitio.NewFlagWriter(flagConfig)

	lastDistance := 1
	mi, i := 0, 0
	for i < len(src) {
		if mi < len(matches) && matches[mi].Offset == i {
			m := matches[mi]
			fw.WriteBit(true)
			if m.Distance == lastDistance {
				fw.WriteBit(true)
				writeGamma(fw, m.Length-1)
			} else {
				fw.WriteBit(false)
				writeGamma(fw, m.Length-1)
				writeGamma(fw, m.Distance)
				lastDistance = m.Distance
			}
			i += m.Length
			mi++
		} else {
			fw.WriteBit(false)
			fw.WriteByte(src[i])
			i++
		}
	}
	fw.Flush()
	return fw.Bytes()
}

// writeGamma emits the Elias-gamma code for n (n >= 1): floor(log2(n))
// leading zero bits, then the (floor(log2(n))+1)-bit binary form of n, MSB
// first, with the implicit leading 1 bit doubling as the terminator the
// leading zero run counts toward.
func writeGamma(fw *bitio.FlagWriter, n int) {
	k := bits.Len(uint(n)) - 1
	for i := 0; i < k; i++ {
		fw.WriteBit(false)
	}
	for i := k; i >= 0; i-- {
		fw.WriteBit(n&(1<<uint(i)) != 0)
	}
}

func readGamma(fr *bitio.FlagReader) (int, error) {
	k := 0
	for {
		bit, err := fr.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit {
			break
		}
		k++
	}
	n := 1
	for i := 0; i < k; i++ {
		bit, err := fr.ReadBit()
		if err != nil {
			return 0, err
		}
		n <<= 1
		if bit {
			n |= 1
		}
	}
	return n, nil
}
