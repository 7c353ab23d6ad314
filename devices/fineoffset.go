// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2017 Tommy Vestermark
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
		Name:       "Fine Offset Electronics, WH2, WH5, Telldus Temperature/Humidity Sensor",
		Modulation: decoder.ModOOKPWM,
		ShortWidth: 544,
		LongWidth:  1524,
		ResetLimit: 1200,
		Tolerance:  160,
		Fields: []string{
			"model",
			"id",
			"temperature_C",
			"humidity",
			"mic",
		},
		Decode: fineoffsetWH2Decode,
	})
}

// Fine Offset Electronics WH2 Temperature/Humidity sensor protocol, also
// sold as Agimex Rosenborg 66796, ClimeMET CM9088 and TFA Dostmann 30.3157.
//
// The sensor sends two identical packages of 48 bits each ~48s, PWM
// modulated. The data is grouped in 6 bytes / 12 nibbles:
//
//	[pre] [pre] [type] [id] [id] [temp] [temp] [temp] [humi] [humi] [crc] [crc]
//
// pre is always 0xFF, type always 0x4, id a random id generated when the
// sensor starts, temp 12 bit signed magnitude scaled by 10, humi an 8 bit
// relative humidity percentage. The WH2A, WH5 and Telldus variants differ
// only in preamble alignment and temperature encoding.
func fineoffsetWH2Decode(d *decoder.Device, buf *bitbuffer.Buffer) ([]*data.Data, error) {
	if buf.NumRows() < 1 {
		return nil, decoder.ErrAbortEarly
	}

	var b [6]byte
	var model string
	bits := buf.RowLen(0)
	row := buf.Row(0)

	switch {
	case bits == 48 && row[0] == 0xFF: // WH2
		buf.ExtractBytes(0, 8, b[:5], 40)
		model = "Fineoffset-WH2"
	case bits == 55 && row[0] == 0xFE: // WH2A
		buf.ExtractBytes(0, 7, b[:6], 48)
		model = "Fineoffset-WH2A"
	case bits == 47 && row[0] == 0xFE: // WH5
		buf.ExtractBytes(0, 7, b[:5], 40)
		model = "Fineoffset-WH5"
	case bits == 49 && row[0] == 0xFF && row[1]&0x80 == 0x80: // Telldus
		buf.ExtractBytes(0, 9, b[:5], 40)
		model = "Telldus-FT0385R"
	default:
		return nil, decoder.ErrAbortEarly
	}

	// x8 + x5 + x4 + 1 (x8 is implicit). If the CRC fails, bail.
	if b[4] != bitutil.CRC8(b[:4], 0x31, 0) {
		return nil, decoder.ErrFailMIC
	}

	// Nibble 2 contains the type, must be 0x04.
	if b[0]>>4 != 4 {
		return nil, decoder.ErrFailSanity
	}

	// Nibble 3,4 contains the id.
	id := int(b[0]&0x0F)<<4 | int(b[1]>>4)

	// Nibble 5,6,7 contains 12 bits of temperature.
	temp := int(b[1]&0x0F)<<8 | int(b[2])
	if bits != 47 { // WH2, Telldus, WH2A
		// The temperature is signed magnitude and scaled by 10.
		if temp&0x800 != 0 {
			temp = -(temp & 0x7FF)
		}
	} else { // WH5
		// The temperature is unsigned offset by 40 C and scaled by 10.
		temp -= 400
	}
	temperature := float64(temp) * 0.1

	// Nibble 8,9 contains the humidity, 0xFF for thermo-only sensors.
	humidity := int(b[3])

	rec := data.New().
		Str("model", "", model).
		Int("id", "ID", id).
		FmtDbl("temperature_C", "Temperature", "%.1f C", temperature)
	if b[3] != 0xFF {
		rec.FmtInt("humidity", "Humidity", "%d %%", humidity)
	}
	rec.Str("mic", "Integrity", "CRC")

	return []*data.Data{rec}, nil
}
