// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package lzo

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

func TestCodec_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		bytes.Repeat([]byte("lzo codec round trip payload "), 400),
		{},
		[]byte{0x7F},
	}
	for _, in := range inputs {
		c := NewCodec()
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

func TestCodec_IsMatchAndSizeProbe(t *testing.T) {
	in := bytes.Repeat([]byte("abcdef"), 500)
	c := NewCodec()
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

func TestCodec_AllLevelsRoundTrip(t *testing.T) {
	in := bytes.Repeat([]byte("level sweep payload data "), 100)
	for _, level := range []gamelz.Level{gamelz.NoCompression, gamelz.Fastest, gamelz.Optimal, gamelz.SmallestSize} {
		c := NewCodec()
		var compressed seekWriter
		if err := c.Compress(in, &compressed, level); err != nil {
			t.Fatalf("Compress level %v: %v", level, err)
		}

		var decoded bytes.Buffer
		if err := c.Decompress(newSeekBuf(compressed.buf), &sinkSeeker{Buffer: &decoded}); err != nil {
			t.Fatalf("Decompress level %v: %v", level, err)
		}
		if !bytes.Equal(decoded.Bytes(), in) {
			t.Fatalf("round trip mismatch at level %v", level)
		}
	}
}
