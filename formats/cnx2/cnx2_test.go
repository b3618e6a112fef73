// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package cnx2

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

func TestCNX2_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		[]byte("ABABABAB"),
		bytes.Repeat([]byte("hello world "), 50),
		{},
		[]byte{0x00},
		bytes.Repeat([]byte{0xAA}, 300), // one literal, then chained distance-1 matches
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

func TestCNX2_HeaderLayout(t *testing.T) {
	in := bytes.Repeat([]byte("xyz"), 100)
	c := New()
	var compressed seekWriter
	if err := c.Compress(in, &compressed, gamelz.Optimal); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if compressed.buf[0] != 'C' || compressed.buf[1] != 'N' || compressed.buf[2] != 'X' || compressed.buf[3] != 0x02 {
		t.Fatalf("magic mismatch: %v", compressed.buf[:4])
	}
	size, err := c.DecompressedSize(newSeekBuf(compressed.buf))
	if err != nil {
		t.Fatalf("DecompressedSize: %v", err)
	}
	if int(size) != len(in) {
		t.Fatalf("DecompressedSize = %d, want %d", size, len(in))
	}
}
