// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package trace holds the single soft-failure logging hook this module
// needs: compressed-size mismatches are non-fatal and are logged rather
// than raised, because many real game files carry trailing alignment
// padding their encoders never accounted for.
package trace

import (
	"io"
	"log"
)

// Logger receives trace-level diagnostics. Defaults to discarding output;
// callers who want to see compressed-size mismatches set it to their own
// *log.Logger before calling Decompress.
var Logger = log.New(io.Discard, "gamelz: ", 0)

// CompressedSizeMismatch logs a non-fatal compressed-size mismatch for the
// named codec.
func CompressedSizeMismatch(codec string, declared, consumed int) {
	Logger.Printf("%s: compressed size mismatch: declared=%d consumed=%d", codec, declared, consumed)
}
