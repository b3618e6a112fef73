// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package lz02

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

func TestLZ02_RoundTrip(t *testing.T) {
	in := bytes.Repeat([]byte("hello world "), 50)
	c := New()
	var compressed seekWriter
	if err := c.Compress(in, &compressed, gamelz.Optimal); err != nil {
		t.Fatalf("Compress: %v", err)
	}

	var decoded bytes.Buffer
	if err := c.Decompress(newSeekBuf(compressed.buf), &sinkSeeker{Buffer: &decoded}); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(decoded.Bytes(), in) {
		t.Fatalf("round trip mismatch: got=%q want=%q", decoded.Bytes(), in)
	}
}

func TestLZ02_IsMatchRequiresExtensionHint(t *testing.T) {
	in := bytes.Repeat([]byte("abc"), 20)
	c := New()
	var compressed seekWriter
	if err := c.Compress(in, &compressed, gamelz.Fastest); err != nil {
		t.Fatalf("Compress: %v", err)
	}

	if c.IsMatch(newSeekBuf(compressed.buf), "file.bin") {
		t.Fatal("IsMatch accepted without the .lz02 extension hint")
	}
	if !c.IsMatch(newSeekBuf(compressed.buf), "file.lz02") {
		t.Fatal("IsMatch rejected well-formed data with the correct extension hint")
	}
}
