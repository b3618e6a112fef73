// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package headershape

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

// TestHeaderShape_RoundTripEveryShape covers every named thin subclass,
// including the round-trip-law test corpus members (RefPack, PRS, ALLZ,
// LZShrek) this package registers.
func TestHeaderShape_RoundTripEveryShape(t *testing.T) {
	in := bytes.Repeat([]byte("header shape payload "), 100)
	for _, shape := range Shapes {
		shape := shape
		t.Run(shape.Name, func(t *testing.T) {
			c := New(shape)
			var compressed seekWriter
			if err := c.Compress(in, &compressed, gamelz.Optimal); err != nil {
				t.Fatalf("Compress: %v", err)
			}

			var decoded bytes.Buffer
			if err := c.Decompress(newSeekBuf(compressed.buf), &sinkSeeker{Buffer: &decoded}); err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(decoded.Bytes(), in) {
				t.Fatalf("round trip mismatch for shape %s", shape.Name)
			}
		})
	}
}

func TestHeaderShape_IsMatchRequiresMagicWhenPresent(t *testing.T) {
	refpack := Shapes[9] // RefPack, has a 2-byte magic
	if refpack.Name != "RefPack" {
		t.Fatalf("test fixture assumption broke: Shapes[9] = %s", refpack.Name)
	}
	c := New(refpack)

	var compressed seekWriter
	if err := c.Compress([]byte("abc"), &compressed, gamelz.Fastest); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if !c.IsMatch(newSeekBuf(compressed.buf), "") {
		t.Fatal("IsMatch rejected own output")
	}

	corrupted := append([]byte{}, compressed.buf...)
	corrupted[0] ^= 0xFF
	if c.IsMatch(newSeekBuf(corrupted), "") {
		t.Fatal("IsMatch accepted a corrupted magic")
	}
}
