// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package zlibenv

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

func TestZLibEnv_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		bytes.Repeat([]byte("zlib envelope payload "), 200),
		{},
		[]byte{0x01},
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

func TestZLibEnv_IsMatchAndSizeProbe(t *testing.T) {
	in := bytes.Repeat([]byte("abc"), 500)
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
