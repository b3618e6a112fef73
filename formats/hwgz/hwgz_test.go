// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package hwgz

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/woozymasta/gamelz"
)

type seekBuf struct{ *bytes.Reader }

func newSeekBuf(b []byte) *seekBuf { return &seekBuf{bytes.NewReader(b)} }

type seekWriter struct{ buf []byte }

func (w *seekWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}
func (w *seekWriter) Seek(offset int64, whence int) (int64, error) { return offset, nil }

type sinkSeeker struct{ *bytes.Buffer }

func (s *sinkSeeker) Seek(offset int64, whence int) (int64, error) { return offset, nil }

func TestHWGZ_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		bytes.Repeat([]byte("the quick brown fox "), 5000),
		{},
		[]byte{0x01, 0x02, 0x03},
	}
	for _, in := range inputs {
		c := &Codec{ChunkSize: 1024}
		var compressed seekWriter
		if err := c.Compress(in, &compressed, gamelz.Optimal); err != nil {
			t.Fatalf("Compress(%d bytes): %v", len(in), err)
		}

		var decoded bytes.Buffer
		if err := c.Decompress(newSeekBuf(compressed.buf), &sinkSeeker{Buffer: &decoded}); err != nil {
			t.Fatalf("Decompress(%d bytes): %v", len(in), err)
		}
		if !bytes.Equal(decoded.Bytes(), in) {
			t.Fatalf("round trip mismatch for %d-byte input", len(in))
		}
	}
}

// TestHWGZ_ChunkCountAndSizeTable: an input of
// exactly chunkSize*3+17 bytes produces exactly 4 chunks, and the per-chunk
// size table (plus padding) accounts for the whole compressed body.
func TestHWGZ_ChunkCountAndSizeTable(t *testing.T) {
	const chunkSize = 256
	in := bytes.Repeat([]byte{0x7A}, chunkSize*3+17)

	c := &Codec{ChunkSize: chunkSize}
	var compressed seekWriter
	if err := c.Compress(in, &compressed, gamelz.Optimal); err != nil {
		t.Fatalf("Compress: %v", err)
	}

	header := compressed.buf[:12]
	gotChunkSize := binary.LittleEndian.Uint32(header[4:8])
	chunkCount := binary.LittleEndian.Uint32(header[8:12])
	if gotChunkSize != chunkSize {
		t.Fatalf("chunk_size = %d, want %d", gotChunkSize, chunkSize)
	}
	if chunkCount != 4 {
		t.Fatalf("chunk_count = %d, want 4", chunkCount)
	}

	sizeTable := compressed.buf[16 : 16+4*chunkCount]
	bodyStart := 16 + 4*int(chunkCount)
	bodyLen := len(compressed.buf) - bodyStart

	sum := 0
	pos := bodyStart
	for i := uint32(0); i < chunkCount; i++ {
		declared := binary.LittleEndian.Uint32(sizeTable[4*i:])
		payloadSize := binary.LittleEndian.Uint32(compressed.buf[pos : pos+4])
		if declared != payloadSize+4 {
			t.Fatalf("chunk %d: size table entry %d != payload_size+4 (%d)", i, declared, payloadSize+4)
		}
		chunkOnDisk := padUp(4 + int(payloadSize))
		sum += chunkOnDisk
		pos += chunkOnDisk
	}
	if sum != bodyLen {
		t.Fatalf("sum of padded chunk sizes = %d, want %d (compressed body length)", sum, bodyLen)
	}

	var decoded bytes.Buffer
	if err := c.Decompress(newSeekBuf(compressed.buf), &sinkSeeker{Buffer: &decoded}); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(decoded.Bytes(), in) {
		t.Fatal("round trip mismatch for chunk-boundary scenario input")
	}
}

func TestHWGZ_BigEndianHeaderAutoDetected(t *testing.T) {
	in := bytes.Repeat([]byte("endian probe "), 500)
	c := &Codec{ChunkSize: 1024, BigEndian: true}
	var compressed seekWriter
	if err := c.Compress(in, &compressed, gamelz.Optimal); err != nil {
		t.Fatalf("Compress: %v", err)
	}

	size, err := c.DecompressedSize(newSeekBuf(compressed.buf))
	if err != nil {
		t.Fatalf("DecompressedSize: %v", err)
	}
	if int(size) != len(in) {
		t.Fatalf("DecompressedSize = %d, want %d", size, len(in))
	}

	var decoded bytes.Buffer
	if err := c.Decompress(newSeekBuf(compressed.buf), &sinkSeeker{Buffer: &decoded}); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(decoded.Bytes(), in) {
		t.Fatal("round trip mismatch for big-endian header")
	}
}

func TestHWGZ_IsMatchAndDecompressedSize(t *testing.T) {
	in := bytes.Repeat([]byte("payload"), 100)
	c := New()
	var compressed seekWriter
	if err := c.Compress(in, &compressed, gamelz.Fastest); err != nil {
		t.Fatalf("Compress: %v", err)
	}

	stream := newSeekBuf(compressed.buf)
	if !c.IsMatch(stream, "") {
		t.Fatal("IsMatch rejected own output")
	}
	if off, _ := stream.Seek(0, 1); off != 0 {
		t.Fatalf("IsMatch left stream at offset %d, want 0", off)
	}

	size, err := c.DecompressedSize(stream)
	if err != nil {
		t.Fatalf("DecompressedSize: %v", err)
	}
	if int(size) != len(in) {
		t.Fatalf("DecompressedSize = %d, want %d", size, len(in))
	}
}
