// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2016 Christian W. Zuckschwerdt
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

package bitutil

// Digest8 computes a digest-8 by "LFSR-based Toeplitz hash", bits MSB to LSB.
// The generator needs to include the MSB if the LFSR is rolling.
func Digest8(message []byte, gen, key byte) byte {
	var sum byte
	for _, b := range message {
		for i := 7; i >= 0; i-- {
			// fetch bit
			if b>>uint(i)&1 != 0 {
				sum ^= key
			}
			// roll the key right (the LSB is dropped), the gen XOR needs to
			// include the dropped LSB as MSB
			if key&1 != 0 {
				key = key>>1 ^ gen
			} else {
				key = key >> 1
			}
		}
	}
	return sum
}

// Digest8Reverse computes Digest8 with the message bytes read in reverse.
func Digest8Reverse(message []byte, gen, key byte) byte {
	var sum byte
	for k := len(message) - 1; k >= 0; k-- {
		b := message[k]
		for i := 7; i >= 0; i-- {
			if b>>uint(i)&1 != 0 {
				sum ^= key
			}
			if key&1 != 0 {
				key = key>>1 ^ gen
			} else {
				key = key >> 1
			}
		}
	}
	return sum
}

// Digest8Reflect computes a digest-8 with the message bytes read in reverse,
// bits reflected LSB to MSB. The generator needs to include the LSB if the
// LFSR is rolling.
func Digest8Reflect(message []byte, gen, key byte) byte {
	var sum byte
	for k := len(message) - 1; k >= 0; k-- {
		b := message[k]
		for i := 0; i < 8; i++ {
			if b>>uint(i)&1 != 0 {
				sum ^= key
			}
			// roll the key left (the MSB is dropped), the gen XOR needs to
			// include the dropped MSB as LSB
			if key&0x80 != 0 {
				key = key<<1 ^ gen
			} else {
				key = key << 1
			}
		}
	}
	return sum
}

// Digest16 computes a digest-16 by "LFSR-based Toeplitz hash", bits MSB to
// LSB.
func Digest16(message []byte, gen, key uint16) uint16 {
	var sum uint16
	for _, b := range message {
		for i := 7; i >= 0; i-- {
			if b>>uint(i)&1 != 0 {
				sum ^= key
			}
			if key&1 != 0 {
				key = key>>1 ^ gen
			} else {
				key = key >> 1
			}
		}
	}
	return sum
}

// CCITTWhitening applies CCITT data whitening to a buffer in place.
//
// The process is built around a 9-bit LFSR with polynomial x^9 + x^5 + 1
// (same as IBM data whitening), initial key all ones (0x1FF).
func CCITTWhitening(buffer []byte) {
	key := uint16(0x1FF)
	for i := range buffer {
		buffer[i] ^= byte(key)
		for j := 0; j < 8; j++ {
			bit := (key ^ key>>5) & 1
			key = key>>1 | bit<<8
		}
	}
}
