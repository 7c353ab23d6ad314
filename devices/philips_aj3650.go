// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2017 Chris Coffey
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

package devices

import (
	"github.com/merbanan/rtl433/bitbuffer"
	"github.com/merbanan/rtl433/bitutil"
	"github.com/merbanan/rtl433/data"
	"github.com/merbanan/rtl433/decoder"
)

func init() {
	decoder.Register(&decoder.Device{
		Name:       "Philips outdoor temperature sensor (type AJ3650)",
		Modulation: decoder.ModOOKPWM,
		ShortWidth: 2000,
		LongWidth:  6000,
		ResetLimit: 30000,
		Fields: []string{
			"model",
			"channel",
			"battery_ok",
			"temperature_C",
		},
		Decode: philipsAJ3650Decode,
	})
}

const philipsBitLen = 112
const philipsPacketLen = 4

// Map channel values to their real-world counterparts.
var philipsChannelMap = [5]int{2, 0, 1, 0, 3}

// Philips outdoor temperature sensor, used with various Philips clock
// radios (tested on AJ3650).
//
// A complete message is 112 bits: a 4-bit initial preamble (always 0), a
// 4-bit packet separator (always 0) followed by a 32-bit data packet,
// repeated 3 times. Data packet format:
//
//	0001cccc tttttttt tt000000 0b0?ssss
//
// c is the channel (0=CH2, 2=CH1, 4=CH3), t the temperature (subtract 500,
// divide by 10), b the battery status (0=OK), s a non-standard CRC-4 with
// poly 0x9 init 0x1.
func philipsAJ3650Decode(d *decoder.Device, buf *bitbuffer.Buffer) ([]*data.Data, error) {
	buf.Invert()

	if buf.NumRows() != 1 {
		return nil, decoder.ErrAbortEarly
	}

	if buf.RowLen(0) != philipsBitLen {
		return nil, decoder.ErrAbortLength
	}

	bb := buf.Row(0)

	if bb[0]>>4 != 0 {
		return nil, decoder.ErrAbortEarly // wrong start nibble
	}

	// Compare and combine the 3 repeated packets, majority wins.
	var packet [philipsPacketLen]byte
	for i := 0; i < philipsPacketLen; i++ {
		a := bb[i+1]                     // first packet, on byte boundary
		b := bb[i+5]<<4 | bb[i+6]>>4&0xF // second packet, not on byte boundary
		c := bb[i+10]                    // third packet, on byte boundary

		packet[i] = a&b | b&c | a&c
	}

	// CRC includes the CRC nibble, the remainder must be zero.
	if bitutil.CRC4(packet[:], 0x9, 0x1) != 0 {
		return nil, decoder.ErrFailMIC
	}

	channel := int(packet[0] & 0x0F)
	if channel >= len(philipsChannelMap) {
		channel = 0
	} else {
		channel = philipsChannelMap[channel]
	}

	tempRaw := int(packet[1])<<2 | int(packet[2]>>6)
	temperature := float64(tempRaw-500) * 0.1

	batteryLow := packet[philipsPacketLen-1] & 0x40
	batteryOK := 1
	if batteryLow != 0 {
		batteryOK = 0
	}

	rec := data.New().
		Str("model", "", "Philips-Temperature").
		Int("channel", "Channel", channel).
		Int("battery_ok", "Battery", batteryOK).
		FmtDbl("temperature_C", "Temperature", "%.1f C", temperature)

	return []*data.Data{rec}, nil
}
