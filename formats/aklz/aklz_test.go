// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package aklz

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

func TestAKLZ_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		[]byte("ABABABAB"),
		bytes.Repeat([]byte("hello world "), 50),
		{},
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

func TestAKLZ_SizeIsBigEndian(t *testing.T) {
	in := bytes.Repeat([]byte("z"), 300)
	c := New()
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
}
