// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2015 Tommy Vestermark
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

// Package bitbuffer implements a two-dimensional bit buffer consisting of
// rows of MSB-first packed bytes, as produced by the pulse demodulator.
package bitbuffer

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const (
	// MaxRows is the maximum number of rows in a buffer.
	MaxRows = 25
	// MaxCols is the maximum number of bytes in a row.
	MaxCols = 256
)

// A row holds packed bits, MSB first, and the number of valid bits.
type row struct {
	bits  []byte
	len   int
	syncs int
}

// Buffer is a two-dimensional bit buffer. The zero value is an empty buffer
// ready for use.
type Buffer struct {
	rows []row
}

// Clear resets the buffer to empty.
func (b *Buffer) Clear() {
	b.rows = nil
}

// NumRows returns the number of active rows.
func (b *Buffer) NumRows() int {
	return len(b.rows)
}

// RowLen returns the number of valid bits in the given row, zero for a row
// that does not exist.
func (b *Buffer) RowLen(r int) int {
	if r >= len(b.rows) {
		return 0
	}
	return b.rows[r].len
}

// Row returns the packed bytes of the given row. The slice aliases the
// buffer, decoders may modify bytes in place.
func (b *Buffer) Row(r int) []byte {
	if r >= len(b.rows) {
		return nil
	}
	return b.rows[r].bits
}

// SyncsBeforeRow returns the number of sync pulses seen before the given row.
func (b *Buffer) SyncsBeforeRow(r int) int {
	return b.rows[r].syncs
}

// AddBit appends a single bit to the current row. Bits beyond the column
// limit are dropped, matching the demodulator contract that long transmissions
// simply truncate.
func (b *Buffer) AddBit(bit int) {
	if len(b.rows) == 0 {
		b.rows = append(b.rows, row{})
	}
	r := &b.rows[len(b.rows)-1]
	if r.len >= MaxCols*8 {
		return
	}
	if r.len%8 == 0 {
		r.bits = append(r.bits, 0)
	}
	if bit != 0 {
		r.bits[r.len>>3] |= 0x80 >> uint(r.len&7)
	}
	r.len++
}

// AddRow starts a new row. On row overflow the last row is cleared to handle
// the condition somewhat gracefully.
func (b *Buffer) AddRow() {
	if len(b.rows) == 0 {
		b.rows = append(b.rows, row{})
	}
	if len(b.rows) < MaxRows {
		b.rows = append(b.rows, row{})
	} else {
		b.rows[len(b.rows)-1] = row{}
	}
}

// AddSync increments the sync counter, adding a new row first if the current
// row is not empty.
func (b *Buffer) AddSync() {
	if len(b.rows) == 0 {
		b.rows = append(b.rows, row{})
	}
	if b.rows[len(b.rows)-1].len > 0 {
		b.AddRow()
	}
	b.rows[len(b.rows)-1].syncs++
}

// ExtractBytes copies len bits from the row starting at the (potentially
// unaligned) bit position pos into out.
func (b *Buffer) ExtractBytes(r int, pos int, out []byte, length int) {
	bits := b.rows[r].bits

	if pos&7 == 0 {
		copy(out[:(length+7)/8], bits[pos/8:])
		return
	}

	shift := 8 - uint(pos&7)
	pos >>= 3
	bytes := length >> 3

	word := uint16(bits[pos])
	for i := 0; i < bytes; i++ {
		pos++
		word <<= 8
		word |= uint16(bits[pos])
		out[i] = byte(word >> shift)
	}
	// Remaining bits end up left-aligned in one more byte.
	if length&7 != 0 {
		word <<= 8
		if pos+1 < len(bits) {
			word |= uint16(bits[pos+1])
		}
		out[bytes] = byte(word >> shift)
	}
}

// Invert flips all bits in the buffer, leaving the unused bits of each last
// byte untouched.
func (b *Buffer) Invert() {
	for r := range b.rows {
		if b.rows[r].len == 0 {
			continue
		}
		lastCol := (b.rows[r].len - 1) / 8
		lastBits := uint((b.rows[r].len-1)%8) + 1
		for col := 0; col <= lastCol; col++ {
			b.rows[r].bits[col] = ^b.rows[r].bits[col]
		}
		b.rows[r].bits[lastCol] ^= 0xFF >> lastBits
	}
}

// DecodeNRZS decodes Non-Return-to-Zero Space coding in place. "One" is
// represented by no change in level, "Zero" by a change.
func (b *Buffer) DecodeNRZS() {
	b.nrzDecode(true)
}

// DecodeNRZM decodes Non-Return-to-Zero Mark coding in place. "One" is
// represented by a change in level, "Zero" by no change.
func (b *Buffer) DecodeNRZM() {
	b.nrzDecode(false)
}

func (b *Buffer) nrzDecode(space bool) {
	for r := range b.rows {
		prev := byte(0)
		for i := 0; i < b.rows[r].len; i++ {
			cur := RowBit(b.rows[r].bits, i)
			out := cur ^ prev
			if space {
				out ^= 1
			}
			if out != 0 {
				b.rows[r].bits[i>>3] |= 0x80 >> uint(i&7)
			} else {
				b.rows[r].bits[i>>3] &^= 0x80 >> uint(i&7)
			}
			prev = cur
		}
	}
}

// RowBit returns the bit at idx from a packed bit row.
func RowBit(bits []byte, idx int) byte {
	return bits[idx>>3] >> uint(7-idx&7) & 1
}

// RowByte returns the (potentially unaligned) byte at bit position idx from a
// packed bit row.
func RowByte(bits []byte, idx int) byte {
	b := bits[idx>>3] << uint(idx&7)
	if idx&7 != 0 {
		b |= bits[idx>>3+1] >> uint(8-idx&7)
	}
	return b
}

// Search scans the given row starting at bit position start for the pattern.
// The pattern starts in the high bit of pattern[0]. It returns the position
// of the first match, or the row length if no match is found.
func (b *Buffer) Search(r int, start int, pattern []byte, patternBits int) int {
	bits := b.Row(r)
	length := b.RowLen(r)

	ipos, ppos := start, 0
	for ipos < length && ppos < patternBits {
		if RowBit(bits, ipos) == RowBit(pattern, ppos) {
			ppos++
			ipos++
			if ppos == patternBits {
				return ipos - patternBits
			}
		} else {
			ipos += -ppos + 1
			ppos = 0
		}
	}

	return length
}

// ManchesterDecode decodes Manchester coded bits from the given row starting
// at bit position start into out, per IEEE 802.3 conventions: a high-low pair
// is a 0 bit, low-high is a 1 bit. At most max data bits are decoded (2*max
// input bits). Decoding stops at a coding violation. The bit position in the
// input row after the last consumed pair is returned.
func (b *Buffer) ManchesterDecode(r int, start int, out *Buffer, max int) int {
	bits := b.Row(r)
	length := b.RowLen(r)
	ipos := start

	if max > 0 && length > start+max*2 {
		length = start + max*2
	}

	// A trailing lone half-bit cannot form a pair, leave it unconsumed.
	for ipos+1 < length {
		bit1 := RowBit(bits, ipos)
		ipos++
		bit2 := RowBit(bits, ipos)
		ipos++

		if bit1 == bit2 {
			break
		}

		out.AddBit(int(bit2))
	}

	return ipos
}

// DifferentialManchesterDecode decodes Differential Manchester coded bits
// from the given row starting at bit position start into out. A transition at
// the start of a clock cycle is mandatory, a level shift within the cycle
// encodes a 1 bit, no shift a 0 bit. At most max data bits are decoded.
// Decoding stops when the boundary transition is missing. The bit position in
// the input row after the last consumed pair is returned.
func (b *Buffer) DifferentialManchesterDecode(r int, start int, out *Buffer, max int) int {
	bits := b.Row(r)
	length := b.RowLen(r)
	ipos := start

	if max > 0 && length > start+max*2 {
		length = start + max*2
	}
	if ipos >= length {
		return ipos
	}

	// The level of the preceding half-cycle. Seeding with the inverse of the
	// first bit accepts any initial polarity.
	bit1 := 1 - RowBit(bits, ipos)

	// A trailing lone half-bit cannot form a pair, leave it unconsumed.
	for ipos+1 < length {
		bit2 := RowBit(bits, ipos)
		ipos++
		bit3 := RowBit(bits, ipos)
		ipos++

		if bit1 == bit2 {
			break // clock edge missing
		}
		if bit2 == bit3 {
			out.AddBit(0)
		} else {
			out.AddBit(1)
		}

		bit1 = bit3
	}

	return ipos
}

// EqualRows reports whether two rows hold identical bits.
func (b *Buffer) EqualRows(ra, rb int) bool {
	if b.rows[ra].len != b.rows[rb].len {
		return false
	}
	n := (b.rows[ra].len + 7) / 8
	for i := 0; i < n; i++ {
		if b.rows[ra].bits[i] != b.rows[rb].bits[i] {
			return false
		}
	}
	return true
}

// CountRepeats returns the number of rows identical to the given row,
// including the row itself.
func (b *Buffer) CountRepeats(r int) int {
	cnt := 0
	for i := range b.rows {
		if b.EqualRows(r, i) {
			cnt++
		}
	}
	return cnt
}

// FindRepeatedRow returns the first row repeated at least minRepeats times
// with at least minBits bits, or -1.
func (b *Buffer) FindRepeatedRow(minRepeats, minBits int) int {
	for i := range b.rows {
		if b.rows[i].len >= minBits && b.CountRepeats(i) >= minRepeats {
			return i
		}
	}
	return -1
}

// AddBytes appends whole bytes to the current row.
func (b *Buffer) AddBytes(p []byte) {
	for _, v := range p {
		for i := 7; i >= 0; i-- {
			b.AddBit(int(v >> uint(i) & 1))
		}
	}
}

// Parse reads one or more bit rows in code string form, e.g. "{40}69d9b0c8bd".
// Each "{len}" group starts a new row of the given bit length filled from the
// following hex digits. Whitespace separates rows but is otherwise ignored.
func Parse(code string) (*Buffer, error) {
	var b Buffer
	rowLen := -1
	haveRow := false

	// Hex digits fill in whole nibbles, so trim each row back to its
	// declared bit length and mask the spare bits.
	truncate := func() {
		if !haveRow || rowLen < 0 || len(b.rows) == 0 {
			return
		}
		r := &b.rows[len(b.rows)-1]
		if r.len > rowLen {
			r.len = rowLen
			r.bits = r.bits[:(rowLen+7)/8]
			if rowLen%8 != 0 {
				r.bits[len(r.bits)-1] &= 0xFF << uint(8-rowLen%8)
			}
		}
	}

	s := code
	for len(s) > 0 {
		switch {
		case s[0] == ' ' || s[0] == '\t':
			s = s[1:]
		case s[0] == '{':
			end := strings.IndexByte(s, '}')
			if end < 0 {
				return nil, errors.Errorf("bitbuffer: unterminated length in %q", code)
			}
			truncate()
			if _, err := fmt.Sscanf(s[1:end], "%d", &rowLen); err != nil {
				return nil, errors.Wrapf(err, "bitbuffer: bad length in %q", code)
			}
			if haveRow {
				b.AddRow()
			}
			if len(b.rows) == 0 {
				b.rows = append(b.rows, row{})
			}
			haveRow = true
			s = s[end+1:]
		default:
			nibble, ok := fromHex(s[0])
			if !ok {
				return nil, errors.Errorf("bitbuffer: bad hex digit %q in %q", s[0], code)
			}
			if !haveRow {
				haveRow = true
				if len(b.rows) == 0 {
					b.rows = append(b.rows, row{})
				}
			}
			for i := 3; i >= 0; i-- {
				b.AddBit(int(nibble >> uint(i) & 1))
			}
			s = s[1:]
		}
	}
	truncate()

	return &b, nil
}

func fromHex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// RowString formats a single row in code string form.
func (b *Buffer) RowString(r int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "{%d}", b.rows[r].len)
	for col := 0; col < (b.rows[r].len+7)/8; col++ {
		fmt.Fprintf(&sb, "%02x", b.rows[r].bits[col])
	}
	return sb.String()
}

// String formats the buffer with one code string per row.
func (b *Buffer) String() string {
	rows := make([]string, len(b.rows))
	for r := range b.rows {
		rows[r] = b.RowString(r)
	}
	return strings.Join(rows, " ")
}
