// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package blz implements the BLZ container: an 8-byte
// trailer at end-of-file (3-byte little-endian compressed size, 1-byte
// header size ≥8, 4-byte little-endian signed decompressed-size delta)
// followed, backward from the trailer, by a reverse-stream LZ77 payload
// with 2-byte tokens (length-3:4 bits, distance-3:12 bits).
//
// Decoding a reverse stream means the source and destination cursors both
// walk from end toward start. Rather than implement a mirrored decoder,
// this package reverses the stored payload into a scratch buffer, runs the
// ordinary forward flag-bit decoder on it, then reverses that decoder's
// output to recover the true byte order. Encoding runs the same transform
// backward.
package blz

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/bitio"
	"github.com/woozymasta/gamelz/formats/internal/shapea"
	"github.com/woozymasta/gamelz/internal/bufpool"
	"github.com/woozymasta/gamelz/lzmatch"
	"github.com/woozymasta/gamelz/registry"
)

const (
	name        = "BLZ"
	trailerSize = 8
	headerSize  = 8
)

// Properties: distance and length are both stored offset by 3 in the
// 2-byte token, so the minimum distance is 3, not 1.
var Properties = lzmatch.Properties{WindowSize: 4098, MinLength: 3, MaxLength: 18, MinDistance: 3}

var flagConfig = bitio.Config{FlagSize: 1, ByteOrder: bitio.BigEndian, BitOrder: bitio.MSBFirst}

func init() {
	registry.Register(name, "application/x-blz", "blz", func() gamelz.Codec { return New() })
}

// Codec implements the BLZ container.
type Codec struct{}

// New returns a Codec.
func New() *Codec { return &Codec{} }

// Info returns static identification metadata. BLZ carries no header magic
// (its identity lives in the tail trailer), so Magic is left nil.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: name, MediaType: "application/x-blz", Extension: "blz", LookAheadDefault: true}
}

// IsMatch parses the trailer and checks header_size >= 8 and that the
// declared compressed size fits within the stream.
func (c *Codec) IsMatch(stream gamelz.ReadSeeker, filenameHint string) bool {
	ok, _ := gamelz.WithRestore(stream, func() (bool, error) {
		total, err := stream.Seek(0, io.SeekEnd)
		if err != nil || total < trailerSize {
			return false, nil
		}
		trailer := make([]byte, trailerSize)
		if _, err := stream.Seek(total-trailerSize, io.SeekStart); err != nil {
			return false, nil
		}
		if _, err := io.ReadFull(stream, trailer); err != nil {
			return false, nil
		}
		compressedSize, hdrSize, _ := parseTrailer(trailer)
		return hdrSize >= headerSize && int64(compressedSize)+trailerSize <= total, nil
	})
	return ok
}

// DecompressedSize parses the trailer and computes compressedSize+delta.
func (c *Codec) DecompressedSize(stream gamelz.ReadSeeker) (uint32, error) {
	return gamelz.WithRestore(stream, func() (uint32, error) {
		total, err := stream.Seek(0, io.SeekEnd)
		if err != nil || total < trailerSize {
			return 0, gamelz.NewError(name, gamelz.UnexpectedEnd, gamelz.ErrTruncated)
		}
		trailer := make([]byte, trailerSize)
		if _, err := stream.Seek(total-trailerSize, io.SeekStart); err != nil {
			return 0, gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		if _, err := io.ReadFull(stream, trailer); err != nil {
			return 0, gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		compressedSize, _, delta := parseTrailer(trailer)
		return uint32(int64(compressedSize) + int64(delta)), nil
	})
}

// Decompress reads the whole stream, reverses the payload, decodes it
// forward, then reverses the result.
func (c *Codec) Decompress(source gamelz.ReadSeeker, destination gamelz.WriteSeeker) error {
	body, err := io.ReadAll(source)
	if err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	if len(body) < trailerSize {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, gamelz.ErrTruncated)
	}

	trailer := body[len(body)-trailerSize:]
	compressedSize, hdrSize, delta := parseTrailer(trailer)
	if hdrSize < headerSize {
		return gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
	}
	decompressedSize := int(compressedSize) + delta

	payloadEnd := len(body) - trailerSize
	payloadStart := payloadEnd - int(compressedSize)
	if payloadStart < 0 {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, gamelz.ErrTruncated)
	}
	payload := body[payloadStart:payloadEnd]

	reversed := bufpool.Get(len(payload))
	defer reversed.Release()
	reverseInto(reversed.Bytes(), payload)

	var scratch bytes.Buffer
	if err := shapea.Decode(reversed.Bytes(), flagConfig, decompressedSize, Properties.WindowSize, tokenCodec{}, &scratch); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}

	out := bufpool.Get(scratch.Len())
	defer out.Release()
	reverseInto(out.Bytes(), scratch.Bytes())

	if _, err := destination.Write(out.Bytes()); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	return nil
}

// Compress reverses src, LZ-compresses the reversal forward, reverses the
// compressed bytes back into storage order, then appends the trailer.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	reversedSrc := bufpool.Get(len(src))
	defer reversedSrc.Release()
	reverseInto(reversedSrc.Bytes(), src)

	matches := lzmatch.Find(reversedSrc.Bytes(), Properties, true, level)
	forward := shapea.Encode(reversedSrc.Bytes(), flagConfig, matches, tokenCodec{})

	payload := bufpool.Get(len(forward))
	defer payload.Release()
	reverseInto(payload.Bytes(), forward)

	if _, err := destination.Write(payload.Bytes()); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}

	trailer := make([]byte, trailerSize)
	trailer[0] = byte(len(forward))
	trailer[1] = byte(len(forward) >> 8)
	trailer[2] = byte(len(forward) >> 16)
	trailer[3] = headerSize
	binary.LittleEndian.PutUint32(trailer[4:8], uint32(int32(len(src)-len(forward))))

	if _, err := destination.Write(trailer); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	return nil
}

func parseTrailer(trailer []byte) (compressedSize uint32, headerSize uint8, delta int) {
	compressedSize = uint32(trailer[0]) | uint32(trailer[1])<<8 | uint32(trailer[2])<<16
	headerSize = trailer[3]
	delta = int(int32(binary.LittleEndian.Uint32(trailer[4:8])))
	return
}

// reverseInto writes src's bytes into dst in reverse order; dst must have
// the same length as src.
func reverseInto(dst, src []byte) {
	for i, v := range src {
		dst[len(src)-1-i] = v
	}
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
	distance = int(token&0x0FFF) + 3
	return distance, length, nil
}

func (tokenCodec) WriteToken(fw *bitio.FlagWriter, m lzmatch.Match) {
	token := uint16(m.Length-3)<<12 | uint16(m.Distance-3)&0x0FFF
	fw.WriteByte(byte(token >> 8))
	fw.WriteByte(byte(token))
}
