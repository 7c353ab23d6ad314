// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2019 Christian W. Zuckschwerdt
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

package bitutil

func bitAt(message []byte, pos int) byte {
	return message[pos>>3] >> uint(7-pos&7) & 1
}

// ExtractNibbles4b1s unstuffs nibbles with a 1-bit separator (4B1S) from a
// packed bit row into dst, one nibble per byte. Unstuffing stops at the first
// separator error. Returns the number of successfully unstuffed nibbles.
func ExtractNibbles4b1s(message []byte, offsetBits, numBits int, dst []byte) int {
	ret := 0

	for numBits >= 5 && ret < len(dst) {
		var nibble byte
		for i := 0; i < 4; i++ {
			nibble = nibble<<1 | bitAt(message, offsetBits+i)
		}
		if bitAt(message, offsetBits+4) != 1 {
			break // stuff bit error
		}
		dst[ret] = nibble
		ret++
		offsetBits += 5
		numBits -= 5
	}

	return ret
}

// ExtractBytesUART decodes UART "8n1" (10-to-8) framing with 1 start bit (0),
// no parity, 1 stop bit (1) and LSB-first bit order. Returns the number of
// successfully decoded bytes.
func ExtractBytesUART(message []byte, offsetBits, numBits int, dst []byte) int {
	ret := 0

	for numBits >= 10 && ret < len(dst) {
		if bitAt(message, offsetBits) != 0 {
			break // start bit error
		}
		if bitAt(message, offsetBits+9) != 1 {
			break // stop bit error
		}
		var b byte
		for i := 0; i < 8; i++ {
			b |= bitAt(message, offsetBits+1+i) << uint(i)
		}
		dst[ret] = b
		ret++
		offsetBits += 10
		numBits -= 10
	}

	return ret
}

// ExtractBytesUARTParity decodes UART "8o1" (11-to-8) framing with 1 start
// bit (1), odd parity, 1 stop bit (0) and MSB-first bit order. Returns the
// number of successfully decoded bytes.
func ExtractBytesUARTParity(message []byte, offsetBits, numBits int, dst []byte) int {
	ret := 0

	for numBits >= 11 && ret < len(dst) {
		if bitAt(message, offsetBits) != 1 {
			break // start bit error
		}
		if bitAt(message, offsetBits+10) != 0 {
			break // stop bit error
		}
		var b byte
		for i := 0; i < 8; i++ {
			b = b<<1 | bitAt(message, offsetBits+1+i)
		}
		parity := bitAt(message, offsetBits+9)
		if Parity8(b)^int(parity) != 1 {
			break // parity error
		}
		dst[ret] = b
		ret++
		offsetBits += 11
		numBits -= 11
	}

	return ret
}

// A symbol for ExtractBitsSymbols holds its bits MSB aligned in the upper
// word and the bit count in the low 5 bits.
func symbolMatch(message []byte, offsetBits, numBits int, symbol uint32) int {
	symbolLen := int(symbol & 0x1F)

	if symbolLen == 0 || symbolLen > numBits {
		return 0
	}

	for pos := 0; pos < symbolLen; pos++ {
		mBit := bitAt(message, offsetBits+pos)
		sBit := byte(symbol >> uint(31-pos) & 1)
		if mBit != sBit {
			return 0
		}
	}

	return symbolLen
}

// ExtractBitsSymbols decodes symbols to bits, packed MSB-first into dst.
// A sync symbol is ignored at the start and terminates decoding afterwards.
// Returns the number of successfully decoded bits.
func ExtractBitsSymbols(message []byte, offsetBits, numBits int, zero, one, sync uint32, dst []byte) int {
	ret := 0

	for numBits > 0 {
		if n := symbolMatch(message, offsetBits, numBits, sync); n > 0 {
			if ret > 0 {
				break // sync terminates
			}
			offsetBits += n
			numBits -= n
		} else if n := symbolMatch(message, offsetBits, numBits, zero); n > 0 {
			if ret>>3 >= len(dst) {
				break
			}
			dst[ret>>3] &^= 0x80 >> uint(ret&7)
			ret++
			offsetBits += n
			numBits -= n
		} else if n := symbolMatch(message, offsetBits, numBits, one); n > 0 {
			if ret>>3 >= len(dst) {
				break
			}
			dst[ret>>3] |= 0x80 >> uint(ret&7)
			ret++
			offsetBits += n
			numBits -= n
		} else {
			break
		}
	}

	return ret
}
