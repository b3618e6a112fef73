// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package gamelz defines the codec contract shared by every wire format in
// this module: identification, decompressed-size probing, decompression and
// leveled compression. Concrete formats live under formats/*; this package
// only holds the interfaces, the compression level enum and the typed error
// wrapper every codec raises through.
package gamelz

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a CodecError. These mirror the failure modes every
// codec in this module can raise; not every codec raises every kind.
type ErrorKind int

const (
	// InvalidIdentifier means a magic or sanity byte did not match. Encoders
	// never raise this; it is a decode-time / is_match-time condition.
	InvalidIdentifier ErrorKind = iota
	// DecompressedSizeMismatch means produced bytes did not match the
	// declared decompressed size. Fatal, surfaced on decode.
	DecompressedSizeMismatch
	// CompressedSizeMismatch means the declared compressed size did not
	// match the bytes actually consumed. Non-fatal: callers may choose to
	// ignore it, many real game files carry trailing alignment padding.
	CompressedSizeMismatch
	// UnexpectedEnd means the source was exhausted mid-token.
	UnexpectedEnd
	// NotSupported means a recognised feature (e.g. a frame type) has no
	// implementation.
	NotSupported
	// InvalidArgument means a configuration combination was rejected, e.g.
	// at construction or compress time.
	InvalidArgument
)

// String renders the ErrorKind name for diagnostics.
func (k ErrorKind) String() string {
	switch k {
	case InvalidIdentifier:
		return "InvalidIdentifier"
	case DecompressedSizeMismatch:
		return "DecompressedSizeMismatch"
	case CompressedSizeMismatch:
		return "CompressedSizeMismatch"
	case UnexpectedEnd:
		return "UnexpectedEnd"
	case NotSupported:
		return "NotSupported"
	case InvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// CodecError is the single typed error every codec returns: it names the
// originating codec, classifies the failure and wraps the underlying cause
// so callers can both errors.Is against a Kind-specific sentinel and learn
// which codec raised it.
type CodecError struct {
	Codec string    // format name, e.g. "LZ10"
	Kind  ErrorKind // failure classification
	Err   error     // underlying cause, may be nil
}

// Error implements the error interface.
func (e *CodecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Codec, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Codec, e.Kind)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *CodecError) Unwrap() error { return e.Err }

// NewError builds a CodecError for the given codec name and kind.
func NewError(codec string, kind ErrorKind, cause error) *CodecError {
	return &CodecError{Codec: codec, Kind: kind, Err: cause}
}

// Sentinel causes wrapped by CodecError.Err, shared across every codec in
// this module rather than duplicated per package. The lzo package keeps its
// own wire-level sentinels for conditions specific to that format.
var (
	// ErrEmptyInput is returned when the input slice or stream is empty.
	ErrEmptyInput = errors.New("empty input")
	// ErrBadMagic is the cause wrapped by an InvalidIdentifier CodecError.
	ErrBadMagic = errors.New("magic identifier mismatch")
	// ErrTruncated is the cause wrapped by an UnexpectedEnd CodecError.
	ErrTruncated = errors.New("input truncated")
)
