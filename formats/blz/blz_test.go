// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package blz

import (
	"bytes"
	"testing"

	"github.com/woozymasta/gamelz"
)

type seekBuf struct{ *bytes.Reader }

func newSeekBuf(b []byte) *seekBuf { return &seekBuf{bytes.NewReader(b)} }

func (s *seekBuf) Seek(offset int64, whence int) (int64, error) { return s.Reader.Seek(offset, whence) }

type seekWriter struct{ buf []byte }

func (w *seekWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}
func (w *seekWriter) Seek(offset int64, whence int) (int64, error) { return offset, nil }

type sinkSeeker struct{ *bytes.Buffer }

func (s *sinkSeeker) Seek(offset int64, whence int) (int64, error) { return offset, nil }

func TestBLZ_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		bytes.Repeat([]byte("hello world "), 50),
		{},
		[]byte{0x00},
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

// TestBLZ_ReverseStreamZeroRun: a long run of
// zero bytes compresses to a small payload, decompresses back to the exact
// run, and carries a well-formed 8-byte trailer.
func TestBLZ_ReverseStreamZeroRun(t *testing.T) {
	in := bytes.Repeat([]byte{0x00}, 1024)
	c := New()
	var compressed seekWriter
	if err := c.Compress(in, &compressed, gamelz.Optimal); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(compressed.buf) >= len(in) {
		t.Fatalf("compressed size %d did not shrink below input size %d", len(compressed.buf), len(in))
	}

	trailer := compressed.buf[len(compressed.buf)-trailerSize:]
	_, hdrSize, _ := parseTrailer(trailer)
	if hdrSize < 8 {
		t.Fatalf("trailer header_size = %d, want >= 8", hdrSize)
	}

	var decoded bytes.Buffer
	if err := c.Decompress(newSeekBuf(compressed.buf), &sinkSeeker{Buffer: &decoded}); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(decoded.Bytes(), in) {
		t.Fatal("1024 zero bytes did not round trip through the reverse-stream codec")
	}
}

func TestBLZ_IsMatch(t *testing.T) {
	in := bytes.Repeat([]byte("abc"), 40)
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
}
