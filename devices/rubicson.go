// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2015 Tommy Vestermark
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

package devices

import (
	"github.com/merbanan/rtl433/bitbuffer"
	"github.com/merbanan/rtl433/data"
	"github.com/merbanan/rtl433/decoder"
)

func init() {
	decoder.Register(&decoder.Device{
		Name:       "Rubicson Temperature Sensor",
		Modulation: decoder.ModOOKPPM,
		ShortWidth: 1000,
		LongWidth:  2000,
		GapLimit:   3000,
		ResetLimit: 4800,
		Fields: []string{
			"model",
			"id",
			"channel",
			"battery",
			"temperature_C",
			"mic",
		},
		Decode: rubicsonDecode,
	})
}

// Reference packet the vendor CRC is computed against.
var rubicsonRef = [5]byte{0xEA, 0x8F, 0x6A, 0xFA, 0x50}

// rubicsonCRCCheck runs the vendor's nibble-wide CRC over the XOR difference
// between the packet and a known-good reference packet. Lots of magic but it
// works.
func rubicsonCRCCheck(b []byte) bool {
	var diff [5]byte
	for i := range diff {
		diff[i] = rubicsonRef[i] ^ b[i]
	}

	var crc byte
	w := byte(0xF1)
	for i := 0; i < 7; i++ {
		c := diff[i/2]
		var digit byte
		if i&1 != 0 {
			digit = c & 0x0F
		} else {
			digit = c >> 4
		}
		for j := 3; j >= 0; j-- {
			if digit>>uint(j)&1 != 0 {
				crc ^= w
			}
			if w&1 != 0 {
				w = w>>1 ^ 0x98
			} else {
				w = w >> 1
			}
		}
	}

	return crc == diff[3]<<4|diff[4]>>4
}

// Rubicson temperature sensor, sold at Kjell&Co.
//
// The sensor sends 36 bits 12 times, the data grouped into 9 nibbles:
//
//	[id0] [id1] [bat|unk1|chan1|chan2] [temp0] [temp1] [temp2] [F] [crc1] [crc2]
//
// The id changes when the battery is changed. Temp is 12 bit signed scaled
// by 10, the F nibble is always 0xF, crc1 and crc2 form an 8-bit CRC.
func rubicsonDecode(d *decoder.Device, buf *bitbuffer.Buffer) ([]*data.Data, error) {
	if buf.NumRows() < 2 || buf.RowLen(0) != 36 {
		return nil, decoder.ErrAbortLength
	}

	b := buf.Row(0)

	if b[3]&0xF0 != 0xF0 {
		return nil, decoder.ErrAbortEarly // const not 1111
	}

	// If the CRC fails, bail.
	if !rubicsonCRCCheck(buf.Row(1)) {
		return nil, decoder.ErrFailMIC
	}

	// Nibbles 3, 4 and 5 contain 12 bits of temperature, signed and scaled
	// by 10.
	tempRaw := int(int16(uint16(b[1])<<12|uint16(b[2])<<4)) >> 4
	tempC := float64(tempRaw) * 0.1

	id := int(b[0])
	channel := int(b[1]&0x30>>4) + 1
	battery := "LOW"
	if b[1]&0x80 != 0 {
		battery = "OK"
	}

	rec := data.New().
		Str("model", "", "Rubicson Temperature Sensor").
		Int("id", "House Code", id).
		Int("channel", "Channel", channel).
		Str("battery", "Battery", battery).
		FmtDbl("temperature_C", "Temperature", "%.1f C", tempC).
		Str("mic", "Integrity", "CRC")

	return []*data.Data{rec}, nil
}
