// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2017 Christian W. Zuckschwerdt
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

package devices

import (
	"fmt"

	"github.com/merbanan/rtl433/bitbuffer"
	"github.com/merbanan/rtl433/data"
	"github.com/merbanan/rtl433/decoder"
)

func init() {
	decoder.Register(&decoder.Device{
		Name:       "Citroen TPMS",
		Modulation: decoder.ModFSKPCM,
		ShortWidth: 52,
		LongWidth:  52,
		ResetLimit: 150,
		Fields: []string{
			"model",
			"type",
			"state",
			"id",
			"flags",
			"repeat",
			"code",
			"mic",
		},
		Decode: tpmsCitroenDecode,
	})
}

// Full preamble is 0101 0101 0101 0101 0101 0101 0101 0110 = 55 55 55 56.
var citroenPreamble = []byte{0x55, 0x56}

// Citroen FSK 10 byte Manchester encoded checksummed TPMS data, also
// Peugeot and likely Fiat, Mitsubishi, VDO-types.
//
// Packet nibbles:
//
//	UU  IIIIIIII FR  PP TT BB  CC
//
// U is state (not included in the checksum), I the id, F flags, R a repeat
// counter, P pressure, T temperature (deg C offset by 50), B battery, C the
// checksum (XOR of bytes 1 to 9 gives 0).
func tpmsCitroenDecode(d *decoder.Device, buf *bitbuffer.Buffer) ([]*data.Data, error) {
	buf.Invert()

	var records []*data.Data

	// Find a preamble with enough bits after it that it could be a complete
	// packet.
	bitpos := 0
	for {
		bitpos = buf.Search(0, bitpos, citroenPreamble, 16)
		if bitpos+178 > buf.RowLen(0) {
			break
		}
		if rec := tpmsCitroenDecodePacket(buf, 0, bitpos+16); rec != nil {
			records = append(records, rec)
		}
		bitpos += 2
	}

	if len(records) == 0 {
		return nil, decoder.ErrAbortEarly
	}
	return records, nil
}

func tpmsCitroenDecodePacket(buf *bitbuffer.Buffer, row, bitpos int) *data.Data {
	packetBits := &bitbuffer.Buffer{}
	buf.ManchesterDecode(row, bitpos, packetBits, 88)
	if packetBits.RowLen(0) < 80 {
		return nil
	}
	b := packetBits.Row(0)

	if b[6] == 0 || b[7] == 0 {
		return nil // sanity check failed
	}

	crc := b[1] ^ b[2] ^ b[3] ^ b[4] ^ b[5] ^ b[6] ^ b[7] ^ b[8] ^ b[9]
	if crc != 0 {
		return nil // bad checksum
	}

	state := b[0] // not covered by the checksum
	id := uint32(b[1])<<24 | uint32(b[2])<<16 | uint32(b[3])<<8 | uint32(b[4])
	flags := int(b[5] >> 4)
	repeat := int(b[5] & 0x0F)

	return data.New().
		Str("model", "", "Citroen").
		Str("type", "", "TPMS").
		Str("state", "", fmt.Sprintf("%02x", state)).
		Str("id", "", fmt.Sprintf("%08x", id)).
		Int("flags", "", flags).
		Int("repeat", "", repeat).
		Str("code", "", fmt.Sprintf("%02x%02x%02x", b[6], b[7], b[8])).
		Str("mic", "", "CHECKSUM")
}
