// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package yay0

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

func TestYay0_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		bytes.Repeat([]byte("hello world "), 50),
		{},
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
			t.Fatalf("round trip mismatch: got=%q want=%q", decoded.Bytes(), in)
		}
	}
}

func TestYay0_Magic(t *testing.T) {
	in := bytes.Repeat([]byte("abc"), 40)
	c := New()
	var compressed seekWriter
	if err := c.Compress(in, &compressed, gamelz.Fastest); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if string(compressed.buf[:4]) != "Yay0" {
		t.Fatalf("magic = %q, want Yay0", compressed.buf[:4])
	}
}
