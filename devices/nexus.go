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
		Name:       "Nexus, FreeTec NC-7345, NX-3980, Solight TE82S, TFA 30.3209 temperature/humidity sensor",
		Modulation: decoder.ModOOKPPM,
		ShortWidth: 1000,
		LongWidth:  2000,
		GapLimit:   3000,
		ResetLimit: 5000,
		// Eliminate false positives by letting Rubicson-Temperature go earlier.
		Priority: 10,
		Fields: []string{
			"model",
			"id",
			"channel",
			"battery_ok",
			"temperature_C",
			"humidity",
		},
		Decode: nexusDecode,
	})
}

// Nexus sensor protocol with ID, temperature and optional humidity.
//
// The sensor sends 36 bits 12 times, PPM modulated. The data is grouped in
// 9 nibbles:
//
//	[id0] [id1] [flags] [temp0] [temp1] [temp2] [const] [humi0] [humi1]
//
// The 8-bit id changes when the battery is changed in the sensor. Flags are
// 4 bits B 0 C C, where B is the battery status (1=OK) and CC the channel
// (0=CH1). Temp is 12 bit signed scaled by 10, const is always 1111,
// humidity is 8 bits.
func nexusDecode(d *decoder.Device, buf *bitbuffer.Buffer) ([]*data.Data, error) {
	r := buf.FindRepeatedRow(3, 36)
	if r < 0 {
		return nil, decoder.ErrAbortEarly
	}

	b := buf.Row(r)

	// We expect 36 bits but there might be a trailing 0 bit.
	if buf.RowLen(r) > 37 {
		return nil, decoder.ErrAbortLength
	}

	if b[3]&0xF0 != 0xF0 {
		return nil, decoder.ErrAbortEarly // const not 1111
	}

	// Reduce false positives.
	if (b[0] == 0 && b[2] == 0 && b[3] == 0) ||
		(b[0] == 0xFF && b[2] == 0xFF && b[3] == 0xFF) {
		return nil, decoder.ErrAbortEarly
	}

	if b[1]&0x30 == 0x30 {
		return nil, decoder.ErrAbortEarly // channel not 1-3
	}

	id := int(b[0])
	battery := int(b[1] & 0x80 >> 7)
	channel := int(b[1]&0x30>>4) + 1
	tempRaw := int(int16(uint16(b[1])<<12|uint16(b[2])<<4)) >> 4 // sign-extend
	tempC := float64(tempRaw) * 0.1
	humidity := int(b[3]&0x0F)<<4 | int(b[4]>>4)

	var rec *data.Data
	if humidity == 0 { // Thermo
		rec = data.New().
			Str("model", "", "Nexus-T").
			Int("id", "House Code", id).
			Int("channel", "Channel", channel).
			Int("battery_ok", "Battery", battery).
			FmtDbl("temperature_C", "Temperature", "%.2f C", tempC)
	} else { // Thermo/Hygro
		rec = data.New().
			Str("model", "", "Nexus-TH").
			Int("id", "House Code", id).
			Int("channel", "Channel", channel).
			Int("battery_ok", "Battery", battery).
			FmtDbl("temperature_C", "Temperature", "%.2f C", tempC).
			FmtInt("humidity", "Humidity", "%d %%", humidity)
	}

	return []*data.Data{rec}, nil
}
