// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// codec.go adapts this package's LZO1X compress/decompress functions (the
// flat API above, kept in its original shape) to the gamelz.Codec
// contract. Raw LZO1X carries no self-describing header of its own —
// callers are expected to know the decompressed size out of band — so this
// module wraps it in a minimal container: a 4-byte magic and a 4-byte
// little-endian decompressed size.
package lzo

import (
	"encoding/binary"
	"io"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/registry"
)

const codecName = "LZO"

var containerMagic = [4]byte{'L', 'Z', 'O', '1'}

func init() {
	registry.Register(codecName, "application/x-lzo", "lzo", func() gamelz.Codec { return NewCodec() })
}

// Codec adapts the LZO1X functions above to gamelz.Codec.
type Codec struct {
	// Level selects LZO1X-1 (fast, 0 or 1) vs LZO1X-999 (2-9, better ratio).
	// Compress uses it for gamelz.Optimal (level 6 when it is not positive);
	// NoCompression/Fastest always use level 1 and SmallestSize level 9.
	Level int
}

// NewCodec returns a Codec defaulting to LZO1X-999 level 9.
func NewCodec() *Codec { return &Codec{Level: 9} }

// Info returns static identification metadata.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: codecName, MediaType: "application/x-lzo", Extension: "lzo", Magic: containerMagic[:], LookAheadDefault: false}
}

// IsMatch checks the 4-byte container magic.
func (c *Codec) IsMatch(stream gamelz.ReadSeeker, filenameHint string) bool {
	ok, _ := gamelz.WithRestore(stream, func() (bool, error) {
		var got [4]byte
		if _, err := io.ReadFull(stream, got[:]); err != nil {
			return false, nil
		}
		return got == containerMagic, nil
	})
	return ok
}

// DecompressedSize reads the little-endian size field at offset 4.
func (c *Codec) DecompressedSize(stream gamelz.ReadSeeker) (uint32, error) {
	return gamelz.WithRestore(stream, func() (uint32, error) {
		header := make([]byte, 8)
		if _, err := io.ReadFull(stream, header); err != nil {
			return 0, gamelz.NewError(codecName, gamelz.UnexpectedEnd, err)
		}
		if [4]byte(header[:4]) != containerMagic {
			return 0, gamelz.NewError(codecName, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
		}
		return binary.LittleEndian.Uint32(header[4:8]), nil
	})
}

// Decompress parses the container header and runs the LZO1X decoder.
func (c *Codec) Decompress(source gamelz.ReadSeeker, destination gamelz.WriteSeeker) error {
	header := make([]byte, 8)
	if _, err := io.ReadFull(source, header); err != nil {
		return gamelz.NewError(codecName, gamelz.UnexpectedEnd, err)
	}
	if [4]byte(header[:4]) != containerMagic {
		return gamelz.NewError(codecName, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
	}
	decompressedSize := int(binary.LittleEndian.Uint32(header[4:8]))

	if decompressedSize == 0 {
		return nil
	}

	payload, err := io.ReadAll(source)
	if err != nil {
		return gamelz.NewError(codecName, gamelz.UnexpectedEnd, err)
	}

	out, err := Decompress(payload, DefaultDecompressOptions(decompressedSize))
	if err != nil {
		return gamelz.NewError(codecName, gamelz.UnexpectedEnd, err)
	}
	if len(out) != decompressedSize {
		return gamelz.NewError(codecName, gamelz.DecompressedSizeMismatch, nil)
	}

	if _, err := destination.Write(out); err != nil {
		return gamelz.NewError(codecName, gamelz.InvalidArgument, err)
	}
	return nil
}

// Compress runs the LZO1X encoder and writes the container header plus
// payload. gamelz.Level maps onto the encoder's 0-9 level scale: NoCompression
// and Fastest both select the fast LZO1X-1 path (level 0/1 share one
// code path upstream), Optimal selects c.Level (9 from NewCodec; 6 when
// c.Level is not positive), SmallestSize selects the slowest/highest-ratio
// level 9.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	header := make([]byte, 8)
	copy(header[:4], containerMagic[:])
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(src)))
	if _, err := destination.Write(header); err != nil {
		return gamelz.NewError(codecName, gamelz.InvalidArgument, err)
	}

	if len(src) == 0 {
		return nil
	}

	payload, err := Compress(src, &CompressOptions{Level: lzoLevelFor(level, c.Level)})
	if err != nil {
		return gamelz.NewError(codecName, gamelz.InvalidArgument, err)
	}

	if _, err := destination.Write(payload); err != nil {
		return gamelz.NewError(codecName, gamelz.InvalidArgument, err)
	}
	return nil
}

// lzoLevelFor maps a gamelz.Level onto the wrapped encoder's level scale.
// NoCompression does not get a true literal-only encoding here: the
// wrapped LZO1X-1 fast path always looks for matches, and rewriting it to
// force literals-only is out of scope for the flat API preserved above.
func lzoLevelFor(level gamelz.Level, configured int) int {
	switch level {
	case gamelz.NoCompression, gamelz.Fastest:
		return 1
	case gamelz.SmallestSize:
		return 9
	default:
		if configured > 0 {
			return configured
		}
		return 6
	}
}
