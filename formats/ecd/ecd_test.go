// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package ecd

import (
	"bytes"
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

func TestECD_RoundTripCompressible(t *testing.T) {
	in := bytes.Repeat([]byte("abcdefgh"), 200)
	c := New()
	var compressed seekWriter
	if err := c.Compress(in, &compressed, gamelz.Optimal); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if compressed.buf[4] != modeCompressed {
		t.Fatalf("mode = %d, want modeCompressed for a highly compressible input", compressed.buf[4])
	}

	var decoded bytes.Buffer
	if err := c.Decompress(newSeekBuf(compressed.buf), &sinkSeeker{Buffer: &decoded}); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(decoded.Bytes(), in) {
		t.Fatal("round trip mismatch")
	}
}

// TestECD_FallbackToRaw checks the idempotence-of-literal-fallback
// scenario: high-entropy input that wouldn't shrink falls back to mode=raw
// and still round trips exactly.
func TestECD_FallbackToRaw(t *testing.T) {
	in := make([]byte, 256)
	for i := range in {
		in[i] = byte(i*97 + 13)
	}
	c := New()
	var compressed seekWriter
	if err := c.Compress(in, &compressed, gamelz.NoCompression); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if compressed.buf[4] != modeRaw {
		t.Fatalf("mode = %d, want modeRaw under NoCompression", compressed.buf[4])
	}
	if len(compressed.buf) > len(in)+headerSize {
		t.Fatalf("compressed size %d exceeds input+header bound %d", len(compressed.buf), len(in)+headerSize)
	}

	var decoded bytes.Buffer
	if err := c.Decompress(newSeekBuf(compressed.buf), &sinkSeeker{Buffer: &decoded}); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(decoded.Bytes(), in) {
		t.Fatal("raw fallback round trip mismatch")
	}
}

func TestECD_PlainSizePreservedVerbatim(t *testing.T) {
	in := []byte("hello")
	c := &Codec{PlainSize: 0xDEADBEEF}
	var compressed seekWriter
	if err := c.Compress(in, &compressed, gamelz.Fastest); err != nil {
		t.Fatalf("Compress: %v", err)
	}

	decoder := New()
	var decoded bytes.Buffer
	if err := decoder.Decompress(newSeekBuf(compressed.buf), &sinkSeeker{Buffer: &decoded}); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if decoder.PlainSize != 0xDEADBEEF {
		t.Fatalf("PlainSize = %#x, want 0xdeadbeef", decoder.PlainSize)
	}
}
