// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package lz10

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

func TestLZ10_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		[]byte("ABABABAB"),
		bytes.Repeat([]byte("hello world "), 50),
		{},
		[]byte{0x00},
	}

	for _, in := range inputs {
		c := New()
		var compressed seekWriter
		if err := c.Compress(in, &compressed, gamelz.Optimal); err != nil {
			t.Fatalf("Compress(%q): %v", in, err)
		}

		var decoded bytes.Buffer
		if err := c.Decompress(newSeekBuf(compressed.buf), &sinkSeeker{Buffer: &decoded}); err != nil {
			t.Fatalf("Decompress(%q): %v", in, err)
		}

		if !bytes.Equal(decoded.Bytes(), in) {
			t.Fatalf("round trip mismatch: got=%q want=%q", decoded.Bytes(), in)
		}
	}
}

func TestLZ10_Header(t *testing.T) {
	in := bytes.Repeat([]byte("xyz123"), 40)
	c := New()
	var compressed seekWriter
	if err := c.Compress(in, &compressed, gamelz.Optimal); err != nil {
		t.Fatalf("Compress: %v", err)
	}

	if compressed.buf[0] != typeByte {
		t.Fatalf("type byte = %#x, want %#x", compressed.buf[0], typeByte)
	}

	size, err := c.DecompressedSize(newSeekBuf(compressed.buf))
	if err != nil {
		t.Fatalf("DecompressedSize: %v", err)
	}
	if int(size) != len(in) {
		t.Fatalf("DecompressedSize = %d, want %d", size, len(in))
	}
}

func TestLZ10_IsMatch(t *testing.T) {
	in := bytes.Repeat([]byte("abc"), 20)
	c := New()
	var compressed seekWriter
	if err := c.Compress(in, &compressed, gamelz.Fastest); err != nil {
		t.Fatalf("Compress: %v", err)
	}

	stream := newSeekBuf(compressed.buf)
	if !c.IsMatch(stream, "") {
		t.Fatal("IsMatch returned false for a well-formed LZ10 stream")
	}
	if off, _ := stream.Seek(0, 1); off != 0 {
		t.Fatalf("IsMatch left stream at offset %d, want 0", off)
	}

	if c.IsMatch(newSeekBuf([]byte{0x11, 0, 0, 0}), "") {
		t.Fatal("IsMatch accepted a wrong type byte")
	}
}
