// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2018 Daniel Krueger
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
		Name:       "Bresser Weather Center 5-in-1",
		Modulation: decoder.ModFSKPCM,
		ShortWidth: 124,
		LongWidth:  124,
		ResetLimit: 25000,
		Fields: []string{
			"model",
			"id",
			"temperature_C",
			"humidity",
			"wind_gust",
			"wind_speed",
			"wind_dir_deg",
			"rain_mm",
			"mic",
		},
		Decode: bresser5in1Decode,
	})
}

var bresser5in1Preamble = []byte{0xAA, 0xAA, 0xAA, 0x2D, 0xD4}

// bcd2 decodes a two-digit BCD byte.
func bcd2(b byte) int {
	return int(b&0x0F) + int(b>>4)*10
}

// Bresser Weather Center 5-in-1.
//
// The compact 5-in-1 multifunction outdoor sensor transmits on 868.3 MHz,
// FSK-PCM, every 12 seconds. Packet payload without preamble (203 bits):
//
//	CC CC CC CC CC CC CC CC CC CC CC CC CC uu II  G GG DW WW    TT  T HH RR  R  t
//
// C is check data, the inverse of the byte 13 bytes further. Wind gust,
// wind speed, temperature, humidity and rain are BCD coded, wind direction
// is a nibble of 22.5 degree steps, t is the temperature sign.
func bresser5in1Decode(d *decoder.Device, buf *bitbuffer.Buffer) ([]*data.Data, error) {
	if buf.NumRows() != 1 || buf.RowLen(0) < 248 || buf.RowLen(0) > 440 {
		return nil, decoder.ErrAbortLength
	}

	startPos := buf.Search(0, 0, bresser5in1Preamble, len(bresser5in1Preamble)*8)
	if startPos == buf.RowLen(0) {
		return nil, decoder.ErrAbortEarly
	}
	startPos += len(bresser5in1Preamble) * 8

	var msg [26]byte
	length := buf.RowLen(0) - startPos
	if (length+7)/8 < len(msg) {
		return nil, decoder.ErrAbortLength // message too short
	}
	// Truncate any excessive bits.
	if length > len(msg)*8 {
		length = len(msg) * 8
	}

	buf.ExtractBytes(0, startPos, msg[:], length)

	// First 13 bytes need to match the inverse of the last 13 bytes.
	for col := 0; col < len(msg)/2; col++ {
		if msg[col]^msg[col+13] != 0xFF {
			return nil, decoder.ErrFailMIC
		}
	}

	sensorID := int(msg[14])

	tempRaw := bcd2(msg[20]) + int(msg[21]&0x0F)*100
	if msg[25]&0x0F != 0 {
		tempRaw = -tempRaw
	}
	temperature := float64(tempRaw) * 0.1

	humidity := bcd2(msg[22])

	windDirDeg := float64(msg[17]>>4) * 22.5
	windGust := float64(bcd2(msg[16])+int(msg[15]&0x0F)*100) * 0.1
	windAvg := float64(bcd2(msg[18])+int(msg[17]&0x0F)*100) * 0.1
	rain := float64(bcd2(msg[23])+int(msg[24]&0x0F)*100) * 0.1

	rec := data.New().
		Str("model", "", "Bresser-5in1").
		Int("id", "", sensorID).
		FmtDbl("temperature_C", "Temperature", "%.1f C", temperature).
		Int("humidity", "Humidity", humidity).
		FmtDbl("wind_gust", "Wind Gust", "%.1f m/s", windGust).
		FmtDbl("wind_speed", "Wind Speed", "%.1f m/s", windAvg).
		FmtDbl("wind_dir_deg", "Direction", "%.1f", windDirDeg).
		FmtDbl("rain_mm", "Rain", "%.1f mm", rain).
		Str("mic", "Integrity", "CHECKSUM")

	return []*data.Data{rec}, nil
}
