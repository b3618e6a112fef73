// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package hwgz implements the HWGZ chunked container: 4-byte magic
// "HWGZ", then (chunk_size, chunk_count, decompressed_size,
// chunk_sizes[chunk_count]) where chunk_sizes[i] = payload_size+4; each
// chunk on disk is [u32 payload_size][zlib data][zero padding to the next
// 128-byte boundary]. Chunk payloads are real DEFLATE/zlib streams via
// klauspost/compress/zlib.
package hwgz

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/registry"
)

const (
	name        = "HWGZ"
	padBoundary = 128
)

var magic = [4]byte{'H', 'W', 'G', 'Z'}

func init() {
	registry.Register(name, "application/x-hwgz", "hwgz", func() gamelz.Codec { return New() })
}

// Codec implements the HWGZ chunked container.
type Codec struct {
	// ChunkSize is the uncompressed size of every chunk but the last.
	// Defaults to 32 KiB if zero.
	ChunkSize int
	// BigEndian selects the header byte order Compress writes; Decompress
	// auto-detects either.
	BigEndian bool
}

// New returns a Codec with the default 32 KiB chunk size, writing
// little-endian headers.
func New() *Codec { return &Codec{ChunkSize: 32 * 1024} }

func (c *Codec) headerOrder() binary.ByteOrder {
	if c.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// detectOrder auto-detects the header byte order: the order whose chunk
// count yields a chunk-size table that fits the stream wins, little-endian
// tried first.
func detectOrder(header []byte, total int64) binary.ByteOrder {
	for _, ord := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		chunkSize := ord.Uint32(header[4:8])
		chunkCount := ord.Uint32(header[8:12])
		if chunkSize > 0 && chunkCount > 0 && 16+4*int64(chunkCount) <= total {
			return ord
		}
	}
	return binary.LittleEndian
}

// Info returns static identification metadata.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: name, MediaType: "application/x-hwgz", Extension: "hwgz", Magic: magic[:], LookAheadDefault: false}
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

// DecompressedSize reads the size field at offset 12, auto-detecting its
// byte order against the stream length.
func (c *Codec) DecompressedSize(stream gamelz.ReadSeeker) (uint32, error) {
	return gamelz.WithRestore(stream, func() (uint32, error) {
		header := make([]byte, 16)
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
		return detectOrder(header[:12], total).Uint32(header[12:16]), nil
	})
}

// Decompress parses the header and decodes each chunk in turn.
func (c *Codec) Decompress(source gamelz.ReadSeeker, destination gamelz.WriteSeeker) error {
	header := make([]byte, 12)
	if _, err := io.ReadFull(source, header); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	if [4]byte(header[:4]) != magic {
		return gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
	}
	total, err := gamelz.WithRestore(source, func() (int64, error) {
		return source.Seek(0, io.SeekEnd)
	})
	if err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	ord := detectOrder(header, total)
	chunkSize := ord.Uint32(header[4:8])
	chunkCount := ord.Uint32(header[8:12])

	var sizeBuf [4]byte
	if _, err := io.ReadFull(source, sizeBuf[:]); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	decompressedSize := ord.Uint32(sizeBuf[:])

	chunkSizeTable := make([]byte, 4*chunkCount)
	if _, err := io.ReadFull(source, chunkSizeTable); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}

	remaining := int(decompressedSize)
	for i := uint32(0); i < chunkCount; i++ {
		var payloadSizeBuf [4]byte
		if _, err := io.ReadFull(source, payloadSizeBuf[:]); err != nil {
			return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		payloadSize := ord.Uint32(payloadSizeBuf[:])

		payload := make([]byte, payloadSize)
		if _, err := io.ReadFull(source, payload); err != nil {
			return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}

		want := int(chunkSize)
		if remaining < want {
			want = remaining
		}
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		if _, err := io.CopyN(destination, zr, int64(want)); err != nil {
			zr.Close()
			return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		zr.Close()
		remaining -= want

		padded := padUp(4 + int(payloadSize))
		if skip := padded - (4 + int(payloadSize)); skip > 0 {
			if _, err := io.CopyN(io.Discard, source, int64(skip)); err != nil {
				return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
			}
		}
	}
	return nil
}

// Compress splits src into fixed-size chunks, zlib-compresses each, and
// fills the per-chunk size table after every chunk is written.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	chunkSize := c.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 32 * 1024
	}
	chunkCount := (len(src) + chunkSize - 1) / chunkSize
	if chunkCount == 0 {
		chunkCount = 1 // always at least one (possibly empty) chunk
	}

	ord := c.headerOrder()
	header := make([]byte, 12)
	copy(header[:4], magic[:])
	ord.PutUint32(header[4:8], uint32(chunkSize))
	ord.PutUint32(header[8:12], uint32(chunkCount))
	if _, err := destination.Write(header); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}

	var sizeBuf [4]byte
	ord.PutUint32(sizeBuf[:], uint32(len(src)))
	if _, err := destination.Write(sizeBuf[:]); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}

	zlibLevel := zlibLevelFor(level)
	chunkPayloads := make([][]byte, chunkCount)
	for i := 0; i < chunkCount; i++ {
		start := i * chunkSize
		end := min(start+chunkSize, len(src))

		var buf bytes.Buffer
		zw, err := zlib.NewWriterLevel(&buf, zlibLevel)
		if err != nil {
			return gamelz.NewError(name, gamelz.InvalidArgument, err)
		}
		if _, err := zw.Write(src[start:end]); err != nil {
			return gamelz.NewError(name, gamelz.InvalidArgument, err)
		}
		if err := zw.Close(); err != nil {
			return gamelz.NewError(name, gamelz.InvalidArgument, err)
		}
		chunkPayloads[i] = buf.Bytes()
	}

	chunkSizeTable := make([]byte, 4*chunkCount)
	for i, payload := range chunkPayloads {
		ord.PutUint32(chunkSizeTable[4*i:], uint32(len(payload)+4))
	}
	if _, err := destination.Write(chunkSizeTable); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}

	for _, payload := range chunkPayloads {
		var payloadSizeBuf [4]byte
		ord.PutUint32(payloadSizeBuf[:], uint32(len(payload)))
		if _, err := destination.Write(payloadSizeBuf[:]); err != nil {
			return gamelz.NewError(name, gamelz.InvalidArgument, err)
		}
		if _, err := destination.Write(payload); err != nil {
			return gamelz.NewError(name, gamelz.InvalidArgument, err)
		}

		padded := padUp(4 + len(payload))
		if pad := padded - (4 + len(payload)); pad > 0 {
			if _, err := destination.Write(make([]byte, pad)); err != nil {
				return gamelz.NewError(name, gamelz.InvalidArgument, err)
			}
		}
	}
	return nil
}

func padUp(n int) int {
	if rem := n % padBoundary; rem != 0 {
		return n + (padBoundary - rem)
	}
	return n
}

func zlibLevelFor(level gamelz.Level) int {
	switch level {
	case gamelz.NoCompression:
		return zlib.NoCompression
	case gamelz.Fastest:
		return zlib.BestSpeed
	case gamelz.SmallestSize:
		return zlib.BestCompression
	default:
		return zlib.DefaultCompression
	}
}
