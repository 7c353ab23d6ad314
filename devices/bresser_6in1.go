// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2019 Christian W. Zuckschwerdt
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
		Name:       "Bresser Weather Center 6-in-1, 7-in-1 indoor, new 5-in-1, 3-in-1 wind gauge, Froggit WH6000, Ventus C8488A",
		Modulation: decoder.ModFSKPCM,
		ShortWidth: 124,
		LongWidth:  124,
		ResetLimit: 25000,
		Fields: []string{
			"model",
			"id",
			"channel",
			"battery_ok",
			"temperature_C",
			"humidity",
			"sensor_type",
			"moisture",
			"wind_max_m_s",
			"wind_avg_m_s",
			"wind_dir_deg",
			"rain_mm",
			"uv",
			"flags",
			"mic",
		},
		Decode: bresser6in1Decode,
	})
}

var bresser6in1Preamble = []byte{0xAA, 0xAA, 0x2D, 0xD4}

// Moisture is transmitted in the humidity field as index 1-16, scale 20/3.
var bresser6in1MoistureMap = [16]int{0, 7, 13, 20, 27, 33, 40, 47, 53, 60, 67, 73, 80, 87, 93, 99}

// Bresser Weather Center 6-in-1.
//
// There are at least two different message types, 24 seconds interval for
// temperature, humidity, uv and rain (alternating messages) and 12 seconds
// interval for wind data (every message). Message layout after the preamble:
//
//	DIGEST:8h8h ID:8h8h8h8h FLAGS:4h BATT:1b CH:3d WSPEED:~8h~4h ~4h~8h WDIR:12h ?4h TEMP:8h.4h ?4h HUM:8h UV?~12h ?4h CHKSUM:8h
//	DIGEST:8h8h ID:8h8h8h8h FLAGS:4h BATT:1b CH:3d WSPEED:~8h~4h ~4h~8h WDIR:12h ?4h RAINFLAG:8h RAIN:8h8h UV:8h8h CHKSUM:8h
//
// Digest is LFSR-16 gen 0x8810 key 0x5412, excluding the add-checksum and
// trailer. Checksum is 8-bit add (with carry) to 0xff.
func bresser6in1Decode(d *decoder.Device, buf *bitbuffer.Buffer) ([]*data.Data, error) {
	if buf.NumRows() != 1 || buf.RowLen(0) < 160 || buf.RowLen(0) > 440 {
		return nil, decoder.ErrAbortEarly
	}

	startPos := buf.Search(0, 0, bresser6in1Preamble, len(bresser6in1Preamble)*8)
	if startPos >= buf.RowLen(0) {
		return nil, decoder.ErrAbortLength
	}
	startPos += len(bresser6in1Preamble) * 8

	var msg [18]byte
	if buf.RowLen(0)-startPos < len(msg)*8 {
		return nil, decoder.ErrAbortLength // message too short
	}

	buf.ExtractBytes(0, startPos, msg[:], len(msg)*8)

	// LFSR-16 digest, generator 0x8810 init 0x5412.
	chkdgst := uint16(msg[0])<<8 | uint16(msg[1])
	digest := bitutil.Digest16(msg[2:17], 0x8810, 0x5412)
	if chkdgst != digest {
		return nil, decoder.ErrFailMIC
	}
	// Checksum, add with carry.
	if bitutil.AddBytes(msg[2:18])&0xFF != 0xFF {
		return nil, decoder.ErrFailMIC
	}

	id := int(msg[2])<<24 | int(msg[3])<<16 | int(msg[4])<<8 | int(msg[5])
	sType := int(msg[6] >> 4) // 1: weather station, 2: indoor?, 4: soil probe
	batt := int(msg[6] >> 3 & 1)
	channel := int(msg[6] & 0x7)

	// Temperature and humidity, shared with the rain counter, only valid as
	// BCD digits.
	tempOK := msg[12] <= 0x99 && msg[13]&0xF0 <= 0x90
	tempRaw := int(msg[12]>>4)*100 + int(msg[12]&0x0F)*10 + int(msg[13]>>4)
	tempC := float64(tempRaw) * 0.1
	if tempRaw > 600 {
		tempC = float64(tempRaw-1000) * 0.1
	}

	humidity := int(msg[14]>>4)*10 + int(msg[14]&0x0F)

	// Apparently ff0(1) if not available.
	uvOK := msg[15] <= 0x99 && msg[16]&0xF0 <= 0x90
	uvRaw := int(msg[15]>>4)*100 + int(msg[15]&0x0F)*10 + int(msg[16]>>4)
	uv := float64(uvRaw) * 0.1
	flags := int(msg[16] & 0x0F)

	// Invert the 3 wind speed bytes.
	msg[7] ^= 0xFF
	msg[8] ^= 0xFF
	msg[9] ^= 0xFF
	windOK := msg[7] <= 0x99 && msg[8] <= 0x99 && msg[9] <= 0x99

	windGust := float64(int(msg[7]>>4)*100+int(msg[7]&0x0F)*10+int(msg[8]>>4)) * 0.1
	windAvg := float64(int(msg[9]>>4)*100+int(msg[9]&0x0F)*10+int(msg[8]&0x0F)) * 0.1
	windDir := int(msg[10]>>4)*100 + int(msg[10]&0x0F)*10 + int(msg[11]>>4)

	// Rain counter, inverted 3 bytes BCD, shared with temp/hum.
	msg[12] ^= 0xFF
	msg[13] ^= 0xFF
	msg[14] ^= 0xFF
	rainOK := msg[12] <= 0x99 && msg[13] <= 0x99 && msg[14] <= 0x99
	rainRaw := int(msg[12]>>4)*100000 + int(msg[12]&0x0F)*10000 +
		int(msg[13]>>4)*1000 + int(msg[13]&0x0F)*100 +
		int(msg[14]>>4)*10 + int(msg[14]&0x0F)
	rainMM := float64(rainRaw) * 0.1

	moisture := -1
	if sType == 4 && tempOK && humidity >= 1 && humidity <= 16 {
		moisture = bresser6in1MoistureMap[humidity-1]
	}

	rec := data.New().
		Str("model", "", "Bresser-6in1").
		FmtInt("id", "", "%08x", id).
		Int("channel", "", channel).
		Int("battery_ok", "Battery", batt)
	if tempOK {
		rec.FmtDbl("temperature_C", "Temperature", "%.1f C", tempC)
	}
	if tempOK && moisture < 0 {
		rec.Int("humidity", "Humidity", humidity)
	}
	rec.Int("sensor_type", "Sensor type", sType)
	if moisture >= 0 {
		rec.FmtInt("moisture", "Moisture", "%d %%", moisture)
	}
	if windOK {
		rec.FmtDbl("wind_max_m_s", "Wind Gust", "%.1f m/s", windGust).
			FmtDbl("wind_avg_m_s", "Wind Speed", "%.1f m/s", windAvg).
			Int("wind_dir_deg", "Direction", windDir)
	}
	if rainOK {
		rec.FmtDbl("rain_mm", "Rain", "%.1f mm", rainMM)
	}
	if uvOK {
		rec.FmtDbl("uv", "UV", "%.1f", uv)
	}
	rec.Int("flags", "Flags", flags).
		Str("mic", "Integrity", "CRC")

	return []*data.Data{rec}, nil
}
