// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta

package bitio

import (
	"reflect"
	"testing"
)

func TestFlagReaderWriter_RoundTrip(t *testing.T) {
	cases := []Config{
		{FlagSize: 1, ByteOrder: BigEndian, BitOrder: MSBFirst},
		{FlagSize: 1, ByteOrder: LittleEndian, BitOrder: LSBFirst},
		{FlagSize: 2, ByteOrder: BigEndian, BitOrder: MSBFirst},
		{FlagSize: 4, ByteOrder: LittleEndian, BitOrder: LSBFirst},
	}

	bits := []bool{true, false, false, true, true, true, false, false, true, false, true, false, false, false, true, true, true, false}

	for _, cfg := range cases {
		w := NewFlagWriter(cfg)
		for i, b := range bits {
			w.WriteBit(b)
			if b {
				w.WriteByte(byte(i))
			}
		}
		w.Flush()

		r := NewFlagReader(w.Bytes(), cfg)
		var got []bool
		var payload []byte
		for range bits {
			bit, err := r.ReadBit()
			if err != nil {
				t.Fatalf("cfg=%+v ReadBit: %v", cfg, err)
			}
			got = append(got, bit)
			if bit {
				pb, err := r.ReadByte()
				if err != nil {
					t.Fatalf("cfg=%+v ReadByte: %v", cfg, err)
				}
				payload = append(payload, pb)
			}
		}

		if !reflect.DeepEqual(got, bits) {
			t.Fatalf("cfg=%+v bits mismatch: got=%v want=%v", cfg, got, bits)
		}

		var wantPayload []byte
		for i, b := range bits {
			if b {
				wantPayload = append(wantPayload, byte(i))
			}
		}
		if !reflect.DeepEqual(payload, wantPayload) {
			t.Fatalf("cfg=%+v payload mismatch: got=%v want=%v", cfg, payload, wantPayload)
		}
	}
}

func TestFlagReaderWriter_WriteIntReadInt(t *testing.T) {
	cfg := Config{FlagSize: 2, ByteOrder: BigEndian, BitOrder: MSBFirst}
	values := []struct {
		v     uint32
		bits  int
		rev   bool
	}{
		{0x3, 4, false},
		{0x3, 4, true},
		{0xABCD, 16, false},
		{0x1, 1, true},
	}

	w := NewFlagWriter(cfg)
	for _, tc := range values {
		w.WriteInt(tc.v, tc.bits, tc.rev)
	}
	w.Flush()

	r := NewFlagReader(w.Bytes(), cfg)
	for _, tc := range values {
		got, err := r.ReadInt(tc.bits, tc.rev)
		if err != nil {
			t.Fatalf("ReadInt: %v", err)
		}
		if got != tc.v {
			t.Fatalf("ReadInt(%d,%v) = %#x, want %#x", tc.bits, tc.rev, got, tc.v)
		}
	}
}

func TestFlagReader_Reset(t *testing.T) {
	cfg := Config{FlagSize: 1, ByteOrder: BigEndian, BitOrder: MSBFirst}
	r := NewFlagReader([]byte{0xFF, 0x00, 0xFF}, cfg)

	if _, err := r.ReadBit(); err != nil {
		t.Fatalf("ReadBit: %v", err)
	}
	r.Reset()

	bit, err := r.ReadBit()
	if err != nil {
		t.Fatalf("ReadBit after Reset: %v", err)
	}
	if bit {
		t.Fatal("expected false bit from fresh word 0x00 after Reset")
	}
	if r.Pos() != 2 {
		t.Fatalf("Pos after Reset+ReadBit = %d, want 2", r.Pos())
	}
}
