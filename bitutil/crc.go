// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2015 Tommy Vestermark
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

package bitutil

import "fmt"

// CRC4 computes a 4-bit CRC, MSB first. The polynomial byte is from x^3 to
// x^0, x^4 is implicitly one.
func CRC4(message []byte, polynomial, init byte) byte {
	remainder := uint(init) << 4 // LSBs are unused
	poly := uint(polynomial) << 4

	for _, b := range message {
		remainder ^= uint(b)
		for bit := 0; bit < 8; bit++ {
			if remainder&0x80 != 0 {
				remainder = remainder<<1 ^ poly
			} else {
				remainder = remainder << 1
			}
			remainder &= 0xFF
		}
	}
	return byte(remainder >> 4 & 0x0F)
}

// CRC7 computes a 7-bit CRC, MSB first.
func CRC7(message []byte, polynomial, init byte) byte {
	remainder := uint(init) << 1 // LSB is unused
	poly := uint(polynomial) << 1

	for _, b := range message {
		remainder ^= uint(b)
		for bit := 0; bit < 8; bit++ {
			if remainder&0x80 != 0 {
				remainder = remainder<<1 ^ poly
			} else {
				remainder = remainder << 1
			}
			remainder &= 0xFF
		}
	}
	return byte(remainder >> 1 & 0x7F)
}

// CRC8 computes a generic CRC-8, MSB first.
//
// Example polynomial: 0x31 = x8 + x5 + x4 + 1 (x8 is implicit)
// Example polynomial: 0x80 = x8 + x7 (a normal bit-by-bit parity XOR)
func CRC8(message []byte, polynomial, init byte) byte {
	remainder := init

	for _, b := range message {
		remainder ^= b
		for bit := 0; bit < 8; bit++ {
			if remainder&0x80 != 0 {
				remainder = remainder<<1 ^ polynomial
			} else {
				remainder = remainder << 1
			}
		}
	}
	return remainder
}

// CRC8LE computes a "little-endian" CRC-8. Input and output are reflected,
// i.e. the least significant bit is shifted in first.
func CRC8LE(message []byte, polynomial, init byte) byte {
	crc := init

	for _, b := range message {
		for i := byte(0x01); i&0xFF != 0; i <<= 1 {
			bit := crc&0x80 == 0x80
			if b&i != 0 {
				bit = !bit
			}
			crc <<= 1
			if bit {
				crc ^= polynomial
			}
		}
	}

	return Reverse8(crc)
}

// CRC16 computes a CRC-16, MSB first.
func CRC16(message []byte, polynomial, init uint16) uint16 {
	remainder := init

	for _, b := range message {
		remainder ^= uint16(b) << 8
		for bit := 0; bit < 8; bit++ {
			if remainder&0x8000 != 0 {
				remainder = remainder<<1 ^ polynomial
			} else {
				remainder = remainder << 1
			}
		}
	}
	return remainder
}

// CRC16LSB computes a CRC-16, LSB first. Input and output are reflected,
// poly and init already need to be reflected.
func CRC16LSB(message []byte, polynomial, init uint16) uint16 {
	remainder := init

	for _, b := range message {
		remainder ^= uint16(b)
		for bit := 0; bit < 8; bit++ {
			if remainder&1 != 0 {
				remainder = remainder>>1 ^ polynomial
			} else {
				remainder = remainder >> 1
			}
		}
	}
	return remainder
}

// CRC16Spec is a named, table-driven CRC-16 with an expected residue, used by
// the ERT meter decoders where the same polynomial is checked on every packet.
type CRC16Spec struct {
	Name    string
	Init    uint16
	Poly    uint16
	Residue uint16

	tbl crcTable
}

// NewCRC16Spec precomputes the checksum table for the given polynomial.
func NewCRC16Spec(name string, init, poly, residue uint16) (crc CRC16Spec) {
	crc.Name = name
	crc.Init = init
	crc.Poly = poly
	crc.Residue = residue
	crc.tbl = newCRCTable(crc.Poly)

	return
}

func (crc CRC16Spec) String() string {
	return fmt.Sprintf("{Name:%s Init:0x%04X Poly:0x%04X Residue:0x%04X}", crc.Name, crc.Init, crc.Poly, crc.Residue)
}

// Checksum computes the CRC of data.
func (crc CRC16Spec) Checksum(data []byte) uint16 {
	remainder := crc.Init
	for _, v := range data {
		remainder = remainder<<8 ^ crc.tbl[remainder>>8^uint16(v)]
	}
	return remainder
}

type crcTable [256]uint16

func newCRCTable(poly uint16) (table crcTable) {
	for tIdx := range table {
		crc := uint16(tIdx) << 8
		for bIdx := 0; bIdx < 8; bIdx++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc = crc << 1
			}
		}
		table[tIdx] = crc
	}
	return table
}
