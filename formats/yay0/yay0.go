// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package yay0 implements the Nintendo64 Yay0 container: same three
// sub-stream layout as MIO0 (flag bits / match tokens / literal bytes)
// under the magic "Yay0". The split-stream codec logic is shared
// with formats/mio0; this package only supplies Yay0's header identity.
package yay0

import (
	"encoding/binary"
	"io"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/formats/mio0"
	"github.com/woozymasta/gamelz/lzmatch"
	"github.com/woozymasta/gamelz/registry"
)

const (
	name       = "Yay0"
	headerSize = 16
)

var magic = [4]byte{'Y', 'a', 'y', '0'}

func init() {
	registry.Register(name, "application/x-yay0", "yay0", func() gamelz.Codec { return New() })
}

// Codec implements the Yay0 container.
type Codec struct {
	// LittleEndian selects the header byte order Compress writes;
	// Decompress auto-detects either, the same as MIO0.
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

// Info returns static identification metadata. Yay0 shares MIO0's decoder
// family and its look-ahead=false finder default.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: name, MediaType: "application/x-yay0", Extension: "yay0", Magic: magic[:], LookAheadDefault: false}
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
		size, _, _, err := mio0.DetectHeader(header, int(total))
		if err != nil {
			return 0, gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		return size, nil
	})
}

// Decompress parses the header (auto-detecting byte order), splits the body
// into its three sub-streams and delegates to mio0.DecodeSplit.
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
	decompressedSize, matchOffset, literalOffset, err := mio0.DetectHeader(header, headerSize+len(body))
	if err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}

	flagBytes := body[:matchOffset-headerSize]
	matchBytes := body[matchOffset-headerSize : literalOffset-headerSize]
	literalBytes := body[literalOffset-headerSize:]

	if err := mio0.DecodeSplit(flagBytes, matchBytes, literalBytes, int(decompressedSize), destination); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	return nil
}

// Compress writes the Yay0 header followed by the three sub-streams, in the
// codec's configured byte order.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	matches := lzmatch.Find(src, mio0.Properties, false, level)
	flagBytes, matchBytes, literalBytes := mio0.EncodeSplit(src, matches)

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
