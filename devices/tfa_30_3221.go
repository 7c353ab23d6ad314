// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2020 Odessa Claude
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
		Name:       "TFA Dostmann 30.3221.02 T/H Outdoor Sensor",
		Modulation: decoder.ModOOKPWM,
		ShortWidth: 235,
		LongWidth:  480,
		SyncWidth:  836,
		ResetLimit: 850,
		// This is the same as LaCrosse-TX141THBv2.
		Priority: 10,
		Fields: []string{
			"model",
			"id",
			"channel",
			"battery_ok",
			"temperature_C",
			"humidity",
			"sendmode",
			"mic",
		},
		Decode: tfa303221Decode,
	})
}

// Temperature/Humidity outdoor sensor TFA 30.3221.02.
//
//	0    4    | 8    12   | 16   20   | 24   28   | 32   36
//	iiii iiii | bscc tttt | tttt tttt | hhhh hhhh | ???? ????
//
// i is an 8 bit random id (changes on power-loss), b the battery indicator
// (0=OK, 1=LOW), s the sendmode (0=auto, 1=manual), c the 2 bit channel
// (0-2 for 1-3), t a 12 bit unsigned temperature offset by 500 and scaled
// by 10, h the relative humidity percentage, ? a digest-8 0x31, 0xf4.
// The sensor sends 3 repetitions at intervals of about 60 seconds.
func tfa303221Decode(d *decoder.Device, buf *bitbuffer.Buffer) ([]*data.Data, error) {
	// The device sends 4 rows, check for two repeated.
	minRepeats := 2
	if buf.NumRows() > 4 {
		minRepeats = 4
	}
	row := buf.FindRepeatedRow(minRepeats, 40)
	if row < 0 {
		return nil, decoder.ErrAbortEarly
	}

	if buf.RowLen(row) > 41 {
		return nil, decoder.ErrAbortLength
	}

	buf.Invert()
	b := buf.Row(row)

	device := int(b[0])

	if device == 0 {
		return nil, decoder.ErrFailSanity
	}

	// Validate the digest.
	if b[4] != bitutil.Digest8Reflect(b[:4], 0x31, 0xF4) {
		return nil, decoder.ErrFailMIC
	}

	tempRaw := int(b[1]&0x0F)<<8 | int(b[2])
	tempC := float64(tempRaw-500) * 0.1
	humidity := int(b[3])
	batteryLow := int(b[1] >> 7)
	channel := int(b[1]>>4&3) + 1
	sendmode := int(b[1] >> 6 & 1)

	rec := data.New().
		Str("model", "", "TFA-303221").
		Int("id", "Sensor ID", device).
		Int("channel", "Channel", channel).
		Int("battery_ok", "Battery", 1-batteryLow).
		FmtDbl("temperature_C", "Temperature", "%.2f C", tempC).
		FmtInt("humidity", "Humidity", "%d %%", humidity).
		Int("sendmode", "Test mode", sendmode).
		Str("mic", "Integrity", "CRC")

	return []*data.Data{rec}, nil
}
