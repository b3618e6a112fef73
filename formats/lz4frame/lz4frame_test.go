// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package lz4frame

import (
	"bytes"
	"hash"
	"hash/crc32"
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

func TestLZ4Frame_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		bytes.Repeat([]byte("lz4 frame payload data "), 300),
		{},
		[]byte{0xAB},
	}
	for _, in := range inputs {
		c := New()
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

func TestLZ4Frame_RawFallbackForHighEntropy(t *testing.T) {
	in := make([]byte, 200)
	for i := range in {
		in[i] = byte(i*181 + 7)
	}
	c := New()
	var compressed seekWriter
	if err := c.Compress(in, &compressed, gamelz.NoCompression); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if compressed.buf[16] != rawBlock {
		t.Fatalf("mode = %d, want rawBlock under NoCompression", compressed.buf[16])
	}

	var decoded bytes.Buffer
	if err := c.Decompress(newSeekBuf(compressed.buf), &sinkSeeker{Buffer: &decoded}); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(decoded.Bytes(), in) {
		t.Fatal("raw fallback round trip mismatch")
	}
}

// TestLZ4Frame_PerInstanceChecksum checks that two instances with different
// checksum functions do not interfere: each decodes its own output, and a
// stream written under one checksum is rejected by an instance using the
// other.
func TestLZ4Frame_PerInstanceChecksum(t *testing.T) {
	in := bytes.Repeat([]byte("per-instance checksum "), 40)

	ieee := New()
	castagnoli := &Codec{Checksum: func() hash.Hash32 {
		return crc32.New(crc32.MakeTable(crc32.Castagnoli))
	}}

	var fromIEEE, fromCastagnoli seekWriter
	if err := ieee.Compress(in, &fromIEEE, gamelz.Optimal); err != nil {
		t.Fatalf("Compress (IEEE): %v", err)
	}
	if err := castagnoli.Compress(in, &fromCastagnoli, gamelz.Optimal); err != nil {
		t.Fatalf("Compress (Castagnoli): %v", err)
	}

	var decoded bytes.Buffer
	if err := castagnoli.Decompress(newSeekBuf(fromCastagnoli.buf), &sinkSeeker{Buffer: &decoded}); err != nil {
		t.Fatalf("Decompress (Castagnoli): %v", err)
	}
	if !bytes.Equal(decoded.Bytes(), in) {
		t.Fatal("round trip mismatch under custom checksum")
	}

	if err := castagnoli.Decompress(newSeekBuf(fromIEEE.buf), &sinkSeeker{Buffer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected checksum mismatch decoding an IEEE-checksummed frame with Castagnoli")
	}
}

func TestLZ4Frame_ChecksumMismatchRejected(t *testing.T) {
	in := bytes.Repeat([]byte("checksum test "), 50)
	c := New()
	var compressed seekWriter
	if err := c.Compress(in, &compressed, gamelz.Optimal); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	compressed.buf[len(compressed.buf)-1] ^= 0xFF // corrupt last payload byte

	var decoded bytes.Buffer
	err := c.Decompress(newSeekBuf(compressed.buf), &sinkSeeker{Buffer: &decoded})
	if err == nil {
		t.Fatal("expected checksum mismatch error, got nil")
	}
}
