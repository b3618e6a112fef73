// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package registry_test

import (
	"bytes"
	"testing"

	"github.com/woozymasta/gamelz"
	_ "github.com/woozymasta/gamelz/formats/all"
	"github.com/woozymasta/gamelz/registry"
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

// fixture is a moderately repetitive buffer every codec should both shrink
// (at Optimal) and reproduce exactly.
func fixture() []byte {
	var b []byte
	for i := 0; i < 64; i++ {
		b = append(b, bytes.Repeat([]byte{byte(i)}, 16)...)
		b = append(b, []byte("the quick brown fox jumps over the lazy dog ")...)
	}
	return b
}

// TestRoundTripLawAllCodecs drives every registered codec through
// compress/decompress at every level and checks content-hash equality, the
// decompressed-size probe, and identification of the codec's own output.
func TestRoundTripLawAllCodecs(t *testing.T) {
	in := fixture()
	wantHash := registry.ContentHash(in)
	levels := []gamelz.Level{gamelz.NoCompression, gamelz.Fastest, gamelz.Optimal, gamelz.SmallestSize}

	for _, codecName := range registry.Names() {
		codecName := codecName
		t.Run(codecName, func(t *testing.T) {
			for _, level := range levels {
				c, ok := registry.New(codecName)
				if !ok {
					t.Fatalf("registry.New(%q) failed", codecName)
				}

				var compressed seekWriter
				if err := c.Compress(in, &compressed, level); err != nil {
					t.Fatalf("Compress(level=%v): %v", level, err)
				}

				hint := "fixture." + c.Info().Extension
				if !c.IsMatch(newSeekBuf(compressed.buf), hint) {
					t.Fatalf("IsMatch(level=%v) rejected the codec's own output", level)
				}

				size, err := c.DecompressedSize(newSeekBuf(compressed.buf))
				if err != nil {
					t.Fatalf("DecompressedSize(level=%v): %v", level, err)
				}
				if int(size) != len(in) {
					t.Fatalf("DecompressedSize(level=%v) = %d, want %d", level, size, len(in))
				}

				var decoded bytes.Buffer
				if err := c.Decompress(newSeekBuf(compressed.buf), &sinkSeeker{Buffer: &decoded}); err != nil {
					t.Fatalf("Decompress(level=%v): %v", level, err)
				}
				if registry.ContentHash(decoded.Bytes()) != wantHash {
					t.Fatalf("round trip hash mismatch at level=%v: got %d bytes, want %d", level, decoded.Len(), len(in))
				}
			}
		})
	}
}

// TestIsMatchRejectsJunk checks that every magic-carrying codec rejects an
// uncorrelated byte pattern. Heuristic (magic-less) codecs are skipped: they
// identify by filename hint and accept a deliberate false-positive rate.
func TestIsMatchRejectsJunk(t *testing.T) {
	junk := bytes.Repeat([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x5A}, 64)

	for _, codecName := range registry.Names() {
		c, ok := registry.New(codecName)
		if !ok {
			t.Fatalf("registry.New(%q) failed", codecName)
		}
		if len(c.Info().Magic) == 0 {
			continue
		}
		if c.IsMatch(newSeekBuf(junk), "") {
			t.Errorf("%s: IsMatch accepted junk bytes", codecName)
		}
	}
}

// TestIdentifyFindsOwnOutput compresses with a known codec and checks the
// registry-level probe resolves the stream back to it.
func TestIdentifyFindsOwnOutput(t *testing.T) {
	c, ok := registry.New("LZ10")
	if !ok {
		t.Fatal("LZ10 not registered")
	}
	var compressed seekWriter
	if err := c.Compress(fixture(), &compressed, gamelz.Optimal); err != nil {
		t.Fatalf("Compress: %v", err)
	}

	got, ok := registry.Identify(newSeekBuf(compressed.buf), "data.lz10")
	if !ok {
		t.Fatal("Identify found no codec for an LZ10 stream")
	}
	if got.Info().Name != "LZ10" {
		t.Fatalf("Identify = %s, want LZ10", got.Info().Name)
	}
}
