// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package gamelz

import "io"

// ReadSeeker is the minimum source contract decompress/probe operations need:
// ordinary reading plus the ability to rewind for non-destructive probes.
type ReadSeeker interface {
	io.Reader
	io.Seeker
}

// WriteSeeker is the minimum destination contract compress/decompress need:
// ordinary writes plus positional writes, so encoders can patch header
// placeholders (compressed-size fields written after the payload is known).
type WriteSeeker interface {
	io.Writer
	io.Seeker
}

// FormatInfo describes a codec for display and registry lookup purposes.
type FormatInfo struct {
	// Name is the canonical format name, e.g. "LZ10".
	Name string
	// MediaType is a MIME-ish identifier, e.g. "application/x-lz10".
	MediaType string
	// Extension is the conventional file extension hint, without the dot.
	Extension string
	// Magic is the format's identifying byte sequence, if it has one.
	// LZ02 and similarly header-less formats leave this nil.
	Magic []byte
	// LookAheadDefault documents the codec's default for the match finder's
	// look-ahead (lazy matching / overlap-tolerant) mode. Defaults differ
	// per format because not every game decoder tolerates overlap.
	LookAheadDefault bool
}

// Codec is the uniform contract every wire format implements. A single
// instance is not required to be safe for concurrent use.
type Codec interface {
	// Info returns static identification metadata for this codec.
	Info() FormatInfo
	// IsMatch is a non-destructive probe: it must not consume stream
	// position on return, regardless of the result.
	IsMatch(stream ReadSeeker, filenameHint string) bool
	// DecompressedSize performs a non-destructive read of the format's size
	// field(s). It returns an error if the stream clearly lacks the
	// expected header.
	DecompressedSize(stream ReadSeeker) (uint32, error)
	// Decompress drives the format's decode state machine, reading from
	// source and writing decoded bytes to destination.
	Decompress(source ReadSeeker, destination WriteSeeker) error
	// Compress emits a complete file for src at the given level.
	Compress(src []byte, destination WriteSeeker, level Level) error
}

// restoreSeek returns a ReadSeeker to the offset it had when probe began,
// the pattern every IsMatch/DecompressedSize implementation in this module
// uses to stay non-destructive.
func restoreSeek(stream ReadSeeker, start int64) {
	_, _ = stream.Seek(start, io.SeekStart)
}

// CurrentOffset returns stream's current position, or -1 if Seek fails.
// Shared helper for IsMatch/DecompressedSize probes across formats.
func CurrentOffset(stream ReadSeeker) int64 {
	off, err := stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	return off
}

// WithRestore runs fn with stream positioned as it is now, then rewinds the
// stream to that starting offset before returning fn's result. Every codec's
// IsMatch/DecompressedSize is implemented as a thin wrapper around this.
func WithRestore[T any](stream ReadSeeker, fn func() (T, error)) (T, error) {
	start := CurrentOffset(stream)
	result, err := fn()
	if start >= 0 {
		restoreSeek(stream, start)
	}
	return result, err
}
