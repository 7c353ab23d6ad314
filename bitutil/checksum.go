// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2015 Tommy Vestermark
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

package bitutil

// Parity8 computes the bit parity of a single byte. Returns 1 for odd
// parity, 0 for even.
func Parity8(b byte) int {
	b ^= b >> 4
	b &= 0xF
	return int(0x6996 >> b & 1)
}

// ParityBytes computes the bit parity of a number of bytes. Returns 1 for
// odd parity, 0 for even.
func ParityBytes(message []byte) int {
	result := 0
	for _, b := range message {
		result ^= Parity8(b)
	}
	return result
}

// XorBytes computes the XOR (byte-wide parity) of a number of bytes.
func XorBytes(message []byte) byte {
	var result byte
	for _, b := range message {
		result ^= b
	}
	return result
}

// AddBytes computes the addition of a number of bytes.
func AddBytes(message []byte) int {
	result := 0
	for _, b := range message {
		result += int(b)
	}
	return result
}

// AddNibbles computes the addition of a number of nibbles, byte wise.
func AddNibbles(message []byte) int {
	result := 0
	for _, b := range message {
		result += int(b>>4) + int(b&0x0F)
	}
	return result
}
