// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2015 Tommy Vestermark
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

package bitbuffer

import (
	"bytes"
	"testing"
)

func TestParse(t *testing.T) {
	buf, err := Parse("{40}69d9b0c8bd")
	if err != nil {
		t.Fatal(err)
	}
	if buf.NumRows() != 1 || buf.RowLen(0) != 40 {
		t.Fatalf("got %d rows, %d bits", buf.NumRows(), buf.RowLen(0))
	}
	if !bytes.Equal(buf.Row(0), []byte{0x69, 0xd9, 0xb0, 0xc8, 0xbd}) {
		t.Fatalf("got row %02x", buf.Row(0))
	}
	if s := buf.String(); s != "{40}69d9b0c8bd" {
		t.Fatalf("got %q", s)
	}
}

func TestParseMultiRow(t *testing.T) {
	buf, err := Parse("{36}8f90d5f2c0 {36}8f90d5f2c0")
	if err != nil {
		t.Fatal(err)
	}
	if buf.NumRows() != 2 {
		t.Fatalf("got %d rows", buf.NumRows())
	}
	for r := 0; r < 2; r++ {
		if buf.RowLen(r) != 36 {
			t.Fatalf("row %d: got %d bits", r, buf.RowLen(r))
		}
	}
	if !buf.EqualRows(0, 1) {
		t.Fatal("rows differ")
	}
	if s := buf.String(); s != "{36}8f90d5f2c0 {36}8f90d5f2c0" {
		t.Fatalf("got %q", s)
	}
}

func TestParseTruncate(t *testing.T) {
	// Extra hex digits are dropped and spare bits masked, for every row.
	buf, err := Parse("{8}abcd {4}ff")
	if err != nil {
		t.Fatal(err)
	}
	if buf.RowLen(0) != 8 || buf.Row(0)[0] != 0xab {
		t.Fatalf("row 0: %d bits %02x", buf.RowLen(0), buf.Row(0))
	}
	if buf.RowLen(1) != 4 || buf.Row(1)[0] != 0xf0 {
		t.Fatalf("row 1: %d bits %02x", buf.RowLen(1), buf.Row(1))
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse("{8ff"); err == nil {
		t.Error("unterminated length accepted")
	}
	if _, err := Parse("{8}zz"); err == nil {
		t.Error("bad hex digit accepted")
	}
}

func TestAddBit(t *testing.T) {
	var buf Buffer
	if buf.RowLen(0) != 0 || buf.Row(0) != nil {
		t.Fatal("zero value not empty")
	}

	for _, bit := range []int{1, 0, 1} {
		buf.AddBit(bit)
	}
	if buf.RowLen(0) != 3 || buf.Row(0)[0] != 0xA0 {
		t.Fatalf("got %d bits, %02x", buf.RowLen(0), buf.Row(0))
	}

	// Bits beyond the column limit are dropped.
	for i := 0; i < MaxCols*8+10; i++ {
		buf.AddBit(1)
	}
	if buf.RowLen(0) != MaxCols*8 {
		t.Fatalf("got %d bits after overflow", buf.RowLen(0))
	}
}

func TestAddRowOverflow(t *testing.T) {
	var buf Buffer
	for i := 0; i < MaxRows+5; i++ {
		buf.AddBit(1)
		buf.AddRow()
	}
	if buf.NumRows() != MaxRows {
		t.Fatalf("got %d rows", buf.NumRows())
	}
	// The last row is cleared on overflow.
	if buf.RowLen(MaxRows-1) != 0 {
		t.Fatalf("last row has %d bits", buf.RowLen(MaxRows-1))
	}
}

func TestAddSync(t *testing.T) {
	var buf Buffer
	buf.AddSync()
	buf.AddBit(1)
	if buf.NumRows() != 1 || buf.SyncsBeforeRow(0) != 1 {
		t.Fatalf("got %d rows, %d syncs", buf.NumRows(), buf.SyncsBeforeRow(0))
	}

	// A sync on a non-empty row starts a new one.
	buf.AddSync()
	if buf.NumRows() != 2 || buf.SyncsBeforeRow(1) != 1 {
		t.Fatalf("got %d rows, %d syncs", buf.NumRows(), buf.SyncsBeforeRow(1))
	}
}

func TestExtractBytes(t *testing.T) {
	buf, err := Parse("{24}abcdef")
	if err != nil {
		t.Fatal(err)
	}

	var out [3]byte
	buf.ExtractBytes(0, 8, out[:], 16)
	if !bytes.Equal(out[:2], []byte{0xcd, 0xef}) {
		t.Fatalf("aligned: got %02x", out[:2])
	}

	buf.ExtractBytes(0, 4, out[:], 8)
	if out[0] != 0xbc {
		t.Fatalf("unaligned: got %02x", out[0])
	}

	// Unaligned with a trailing partial byte, as used by the 9-bit interval
	// reads of the IDM decoder.
	buf.ExtractBytes(0, 4, out[:], 9)
	if v := int(out[0])<<1 | int(out[1])>>7; v != 0x179 {
		t.Fatalf("partial: got %03x", v)
	}
}

func TestInvert(t *testing.T) {
	buf, err := Parse("{12}abc")
	if err != nil {
		t.Fatal(err)
	}
	buf.Invert()
	if !bytes.Equal(buf.Row(0), []byte{0x54, 0x30}) {
		t.Fatalf("got %02x", buf.Row(0))
	}
}

func TestSearch(t *testing.T) {
	buf, err := Parse("{24}ffab12")
	if err != nil {
		t.Fatal(err)
	}
	if pos := buf.Search(0, 0, []byte{0xab}, 8); pos != 8 {
		t.Fatalf("got position %d, want 8", pos)
	}
	// No match returns the row length.
	if pos := buf.Search(0, 0, []byte{0x00}, 8); pos != 24 {
		t.Fatalf("got position %d, want 24", pos)
	}
}

func TestManchesterDecode(t *testing.T) {
	// Data bits 1011 as low-high/high-low pairs, then a coding violation:
	// 01 10 01 01 11.
	buf, err := Parse("{10}65c0")
	if err != nil {
		t.Fatal(err)
	}

	var out Buffer
	pos := buf.ManchesterDecode(0, 0, &out, 8)
	if pos != 10 {
		t.Fatalf("got position %d, want 10", pos)
	}
	if out.RowLen(0) != 4 || out.Row(0)[0] != 0xB0 {
		t.Fatalf("got %d bits, %02x", out.RowLen(0), out.Row(0))
	}
}

func TestDifferentialManchesterDecode(t *testing.T) {
	// Data bits 101 as clock-edge pairs, then a missing clock edge:
	// 10 11 01 11.
	buf, err := Parse("{8}b7")
	if err != nil {
		t.Fatal(err)
	}

	var out Buffer
	pos := buf.DifferentialManchesterDecode(0, 0, &out, 8)
	if pos != 8 {
		t.Fatalf("got position %d, want 8", pos)
	}
	if out.RowLen(0) != 3 || out.Row(0)[0] != 0xA0 {
		t.Fatalf("got %d bits, %02x", out.RowLen(0), out.Row(0))
	}
}

func TestManchesterDecodeOddStart(t *testing.T) {
	// An odd start on a byte-aligned row leaves a lone trailing half-bit
	// that must not be read past the row.
	buf, err := Parse("{16}aaaa")
	if err != nil {
		t.Fatal(err)
	}

	var out Buffer
	pos := buf.ManchesterDecode(0, 1, &out, 0)
	if pos != 15 {
		t.Fatalf("got position %d, want 15", pos)
	}
	if out.RowLen(0) != 7 || out.Row(0)[0] != 0xFE {
		t.Fatalf("got %d bits, %02x", out.RowLen(0), out.Row(0))
	}
}

func TestDifferentialManchesterDecodeOddStart(t *testing.T) {
	buf, err := Parse("{16}5555")
	if err != nil {
		t.Fatal(err)
	}

	var out Buffer
	pos := buf.DifferentialManchesterDecode(0, 1, &out, 0)
	if pos != 15 {
		t.Fatalf("got position %d, want 15", pos)
	}
	if out.RowLen(0) != 7 || out.Row(0)[0] != 0xFE {
		t.Fatalf("got %d bits, %02x", out.RowLen(0), out.Row(0))
	}
}

func TestMissingRow(t *testing.T) {
	var buf Buffer
	if pos := buf.Search(0, 0, []byte{0xab}, 8); pos != 0 {
		t.Fatalf("search: got position %d, want 0", pos)
	}

	var out Buffer
	if pos := buf.ManchesterDecode(0, 0, &out, 0); pos != 0 {
		t.Fatalf("manchester: got position %d, want 0", pos)
	}
	if pos := buf.DifferentialManchesterDecode(0, 0, &out, 0); pos != 0 {
		t.Fatalf("differential manchester: got position %d, want 0", pos)
	}
	if out.NumRows() != 0 {
		t.Fatalf("got %d output rows", out.NumRows())
	}
}

func TestDecodeNRZ(t *testing.T) {
	buf, err := Parse("{3}c0")
	if err != nil {
		t.Fatal(err)
	}
	buf.DecodeNRZM()
	if buf.Row(0)[0] != 0xA0 {
		t.Fatalf("nrzm: got %02x", buf.Row(0)[0])
	}

	buf, err = Parse("{3}c0")
	if err != nil {
		t.Fatal(err)
	}
	buf.DecodeNRZS()
	if buf.Row(0)[0] != 0x40 {
		t.Fatalf("nrzs: got %02x", buf.Row(0)[0])
	}
}

func TestFindRepeatedRow(t *testing.T) {
	buf, err := Parse("{36}8f90d5f2c0 {36}8f90d5f2c0 {8}ff {36}8f90d5f2c0")
	if err != nil {
		t.Fatal(err)
	}
	if r := buf.FindRepeatedRow(3, 36); r != 0 {
		t.Fatalf("got row %d, want 0", r)
	}
	if r := buf.FindRepeatedRow(4, 36); r != -1 {
		t.Fatalf("got row %d, want -1", r)
	}
	if buf.CountRepeats(2) != 1 {
		t.Fatalf("got %d repeats", buf.CountRepeats(2))
	}
	if buf.EqualRows(0, 2) {
		t.Fatal("rows 0 and 2 equal")
	}
}

func TestRowByte(t *testing.T) {
	bits := []byte{0xab, 0xcd}
	if got := RowByte(bits, 0); got != 0xab {
		t.Fatalf("got %02x", got)
	}
	if got := RowByte(bits, 4); got != 0xbc {
		t.Fatalf("got %02x", got)
	}
	if got := RowBit(bits, 8); got != 1 {
		t.Fatalf("got %d", got)
	}
}
