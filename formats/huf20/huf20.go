// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

// Package huf20 implements the HUF20 container: a symbol-width
// mode flag (4-bit nibble or 8-bit byte symbols), a 3-byte little-endian
// decompressed size, a serialized frequency table the decoder rebuilds the
// same canonical-ish tree from (huffman.BuildFromFrequencies is
// deterministic given the same table), and a bit-packed code stream.
package huf20

import (
	"encoding/binary"
	"io"

	"github.com/woozymasta/gamelz"
	"github.com/woozymasta/gamelz/bitio"
	"github.com/woozymasta/gamelz/huffman"
	"github.com/woozymasta/gamelz/registry"
)

const (
	name     = "HUF20"
	typeByte = 0x20
)

var flagConfig = bitio.Config{FlagSize: 1, ByteOrder: bitio.BigEndian, BitOrder: bitio.MSBFirst}

func init() {
	registry.Register(name, "application/x-huf20", "huf20", func() gamelz.Codec { return New() })
}

// Codec implements the HUF20 container.
type Codec struct {
	// BitDepth selects 4-bit nibble or 8-bit byte symbols at Compress time;
	// Decompress reads it back from the stream. Defaults to 8 if zero.
	BitDepth int
}

// New returns a Codec defaulting to 8-bit symbols.
func New() *Codec { return &Codec{BitDepth: 8} }

// Info returns static identification metadata.
func (c *Codec) Info() gamelz.FormatInfo {
	return gamelz.FormatInfo{Name: name, MediaType: "application/x-huf20", Extension: "huf20", Magic: []byte{typeByte}, LookAheadDefault: false}
}

// IsMatch checks the type byte and bit-depth byte.
func (c *Codec) IsMatch(stream gamelz.ReadSeeker, filenameHint string) bool {
	ok, _ := gamelz.WithRestore(stream, func() (bool, error) {
		header := make([]byte, 2)
		if _, err := io.ReadFull(stream, header); err != nil {
			return false, nil
		}
		return header[0] == typeByte && (header[1] == 4 || header[1] == 8), nil
	})
	return ok
}

// DecompressedSize reads the 3-byte little-endian size field.
func (c *Codec) DecompressedSize(stream gamelz.ReadSeeker) (uint32, error) {
	return gamelz.WithRestore(stream, func() (uint32, error) {
		header := make([]byte, 5)
		if _, err := io.ReadFull(stream, header); err != nil {
			return 0, gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		if header[0] != typeByte {
			return 0, gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
		}
		return uint32(header[2]) | uint32(header[3])<<8 | uint32(header[4])<<16, nil
	})
}

// Decompress parses the header and frequency table, rebuilds the tree, and
// walks the bit-packed code stream.
func (c *Codec) Decompress(source gamelz.ReadSeeker, destination gamelz.WriteSeeker) error {
	header := make([]byte, 5)
	if _, err := io.ReadFull(source, header); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	if header[0] != typeByte {
		return gamelz.NewError(name, gamelz.InvalidIdentifier, gamelz.ErrBadMagic)
	}
	bitDepth := int(header[1])
	decompressedSize := int(header[2]) | int(header[3])<<8 | int(header[4])<<16

	var symbolCountBuf [2]byte
	if _, err := io.ReadFull(source, symbolCountBuf[:]); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	symbolCount := int(binary.LittleEndian.Uint16(symbolCountBuf[:]))

	alphabetSize := 256
	if bitDepth == 4 {
		alphabetSize = 16
	}
	freq := make([]int, alphabetSize)
	entry := make([]byte, 6)
	for i := 0; i < symbolCount; i++ {
		if _, err := io.ReadFull(source, entry); err != nil {
			return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
		}
		sym := int(binary.LittleEndian.Uint16(entry[:2]))
		freq[sym] = int(binary.LittleEndian.Uint32(entry[2:6]))
	}

	tree, err := huffman.BuildFromFrequencies(freq)
	if err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}

	body, err := io.ReadAll(source)
	if err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}

	if err := decodeSymbols(body, tree, bitDepth, decompressedSize, destination); err != nil {
		return gamelz.NewError(name, gamelz.UnexpectedEnd, err)
	}
	return nil
}

func decodeSymbols(body []byte, tree *huffman.Tree, bitDepth, decompressedSize int, dst io.Writer) error {
	fr := bitio.NewFlagReader(body, flagConfig)

	readSymbol := func() (int, error) {
		if tree.Root == nil {
			return 0, bitio.ErrShortRead
		}
		n := tree.Root
		for !n.IsLeaf() {
			bit, err := fr.ReadBit()
			if err != nil {
				return 0, err
			}
			if bit {
				n = n.Right
			} else {
				n = n.Left
			}
		}
		return n.Symbol, nil
	}

	out := make([]byte, 0, decompressedSize)
	if bitDepth == 8 {
		for len(out) < decompressedSize {
			sym, err := readSymbol()
			if err != nil {
				return err
			}
			out = append(out, byte(sym))
		}
	} else {
		for len(out) < decompressedSize {
			hi, err := readSymbol()
			if err != nil {
				return err
			}
			lo, err := readSymbol()
			if err != nil {
				return err
			}
			out = append(out, byte(hi<<4|lo))
		}
	}
	_, err := dst.Write(out)
	return err
}

// Compress builds the frequency table and tree over src, writes the header
// and table, then emits the bit-packed code stream.
func (c *Codec) Compress(src []byte, destination gamelz.WriteSeeker, level gamelz.Level) error {
	bitDepth := c.BitDepth
	if bitDepth != 4 && bitDepth != 8 {
		bitDepth = 8
	}

	tree, err := huffman.BuildTree(src, bitDepth)
	if err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}

	header := []byte{typeByte, byte(bitDepth), byte(len(src)), byte(len(src) >> 8), byte(len(src) >> 16)}
	if _, err := destination.Write(header); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}

	var symbolCountBuf [2]byte
	binary.LittleEndian.PutUint16(symbolCountBuf[:], uint16(len(tree.Codes)))
	if _, err := destination.Write(symbolCountBuf[:]); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}

	freq := frequenciesOf(tree)
	for sym := range freq {
		if freq[sym] == 0 {
			continue
		}
		var entry [6]byte
		binary.LittleEndian.PutUint16(entry[:2], uint16(sym))
		binary.LittleEndian.PutUint32(entry[2:6], uint32(freq[sym]))
		if _, err := destination.Write(entry[:]); err != nil {
			return gamelz.NewError(name, gamelz.InvalidArgument, err)
		}
	}

	fw := bitio.NewFlagWriter(flagConfig)
	emit := func(sym int) {
		code := tree.Codes[sym]
		for i := code.Length - 1; i >= 0; i-- {
			fw.WriteBit(code.Bits&(1<<uint(i)) != 0)
		}
	}
	if bitDepth == 8 {
		for _, b := range src {
			emit(int(b))
		}
	} else {
		for _, b := range src {
			emit(int(b >> 4))
			emit(int(b & 0xF))
		}
	}
	fw.Flush()

	if _, err := destination.Write(fw.Bytes()); err != nil {
		return gamelz.NewError(name, gamelz.InvalidArgument, err)
	}
	return nil
}

// frequenciesOf recovers a dense per-symbol frequency table by walking the
// tree's leaves, so the encoder emits the same table shape the decoder
// expects without separately bookkeeping frequencies alongside the tree.
func frequenciesOf(tree *huffman.Tree) []int {
	maxSym := 0
	for sym := range tree.Codes {
		if sym > maxSym {
			maxSym = sym
		}
	}
	freq := make([]int, maxSym+1)
	var walk func(n *huffman.Node)
	walk = func(n *huffman.Node) {
		if n == nil {
			return
		}
		if n.IsLeaf() {
			freq[n.Symbol] = n.Freq
			return
		}
		walk(n.Left)
		walk(n.Right)
	}
	walk(tree.Root)
	return freq
}
