// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package aplib

import (
	"bytes"
	"testing"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/bitio"
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

func TestAPLib_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 300),
		{},
		[]byte{0x9A},
		bytes.Repeat([]byte{0x00}, 4096),
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

// TestAPLib_RepeatOffsetShortcut exercises the stateful repeat-last-offset
// path: two occurrences of the same 8-byte pattern separated by a fixed
// gap force the second match onto the same distance as the first.
func TestAPLib_RepeatOffsetShortcut(t *testing.T) {
	pattern := []byte("REPEATED")
	gap := []byte("----")
	in := append(append(append([]byte{}, pattern...), gap...), append(pattern, gap...)...)
	in = append(in, pattern...)

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
		t.Fatal("round trip mismatch for repeat-offset fixture")
	}
}

func TestGammaCoding_RoundTrip(t *testing.T) {
	values := []int{1, 2, 3, 4, 7, 8, 15, 16, 255, 256, 1 << 19}
	fw := bitio.NewFlagWriter(flagConfig)
	for _, v := range values {
		writeGamma(fw, v)
	}
	fw.Flush()

	fr := bitio.NewFlagReader(fw.Bytes(), flagConfig)
	for _, want := range values {
		got, err := readGamma(fr)
		if err != nil {
			t.Fatalf("readGamma: %v", err)
		}
		if got != want {
			t.Fatalf("readGamma = %d, want %d", got, want)
		}
	}
}
