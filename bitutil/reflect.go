// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2015 Tommy Vestermark
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

// Package bitutil provides the checksum, digest and bit manipulation
// primitives shared by the device decoders.
package bitutil

// Reverse8 reverses (reflects) the bits in an 8-bit byte.
func Reverse8(x byte) byte {
	x = x&0xF0>>4 | x&0x0F<<4
	x = x&0xCC>>2 | x&0x33<<2
	x = x&0xAA>>1 | x&0x55<<1
	return x
}

// Reverse32 reverses (reflects) the bits in a 32-bit word.
func Reverse32(x uint32) uint32 {
	x = x&0xFFFF0000>>16 | x&0x0000FFFF<<16
	x = x&0xFF00FF00>>8 | x&0x00FF00FF<<8
	x = x&0xF0F0F0F0>>4 | x&0x0F0F0F0F<<4
	x = x&0xCCCCCCCC>>2 | x&0x33333333<<2
	x = x&0xAAAAAAAA>>1 | x&0x55555555<<1
	return x
}

// ReflectBytes reflects each byte of message in place.
func ReflectBytes(message []byte) {
	for i, b := range message {
		message[i] = Reverse8(b)
	}
}

// Reflect4 reflects each nibble in a byte, preserving nibble order.
func Reflect4(x byte) byte {
	x = x&0xCC>>2 | x&0x33<<2
	x = x&0xAA>>1 | x&0x55<<1
	return x
}

// ReflectNibbles reflects each nibble of message in place, preserving nibble
// order.
func ReflectNibbles(message []byte) {
	for i, b := range message {
		message[i] = Reflect4(b)
	}
}
