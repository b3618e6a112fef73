// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

/*
Package gamelz and its subpackages implement a family of game-industry
compression formats: LZ77/LZSS variants, small Huffman coders, run-length
coders and ZLib-wrapper envelopes, with byte-exact wire compatibility for
pre-existing files.

This root package holds only the shared contract every format implements:

  - Codec, the uniform trait (Info/IsMatch/DecompressedSize/Decompress/Compress).
  - Level, the compression effort enum (NoCompression/Fastest/Optimal/SmallestSize).
  - CodecError/ErrorKind, the typed error every codec raises.

Concrete formats live under formats/ (one subpackage per wire format); the
shared LZ match finder, bit-stream I/O and sliding-window buffer live under
lzmatch/, bitio/ and lzwindow/ respectively. formats/all blank-imports every
format package so its init() can register with the registry package; import
it for side effects when you want every codec available by name:

	import _ "github.com/woozymasta/gamelz/formats/all"
*/
package gamelz
