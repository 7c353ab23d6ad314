// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2019 ReMiOS and Christian W. Zuckschwerdt
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
		Name:       "LaCrosse/ELV/Conrad WS7000/WS2500 weather sensors",
		Modulation: decoder.ModOOKPWM,
		ShortWidth: 400,
		LongWidth:  800,
		ResetLimit: 1100,
		Fields: []string{
			"model",
			"id",
			"channel",
			"rain_mm",
			"wind_avg_km_h",
			"wind_dir_deg",
			"wind_dev_deg",
			"temperature_C",
			"humidity",
			"pressure_hPa",
			"light_lux",
			"exposure_mins",
			"mic",
		},
		Decode: lacrosseWS7000Decode,
	})
}

// Data nibbles by sensor type.
var ws7000DataSize = [6]int{3, 6, 3, 6, 10, 7}

// LaCrosse WS7000/WS2500 weather sensors, also sold by ELV and Conrad.
//
// PWM 400 us / 800 us with fixed bit width of 1200 us. Messages are sent as
// nibbles with LSB sent first, each followed by a separator 1-bit:
//
//	P P S A D..D X C
//
// Preamble is 10x bit "0" then bit "1". S is the sensor type 0..5, A the
// sensor address (MSB set on negative temperature), D 3-10 nibbles of BCD
// sensor data, X the XOR of all nibbles before it, C the sum of all nibbles
// before it plus 5, masked to a nibble.
func lacrosseWS7000Decode(d *decoder.Device, buf *bitbuffer.Buffer) ([]*data.Data, error) {
	startPos := buf.Search(0, 0, []byte{0x01}, 8) + 8
	if startPos >= buf.RowLen(0) {
		return nil, decoder.ErrAbortEarly
	}

	var b [14]byte // LaCrosse WS7000-20 meteo sensor: 14 nibbles
	maxBits := buf.RowLen(0) - startPos
	if maxBits > 14*5 {
		maxBits = 14 * 5
	}
	length := bitutil.ExtractNibbles4b1s(buf.Row(0), startPos, maxBits, b[:])
	if length < 7 { // at least type, addr, 3 data, xor, add nibbles needed
		return nil, decoder.ErrAbortLength
	}

	bitutil.ReflectNibbles(b[:length])

	typ := int(b[0])
	addr := int(b[1] & 0x7)
	id := typ<<4 | addr

	if typ > 5 {
		return nil, decoder.ErrAbortEarly // unhandled sensor type
	}

	if length < ws7000DataSize[typ] {
		return nil, decoder.ErrAbortLength // short data
	}

	// Check XOR sum.
	if bitutil.XorBytes(b[:length-1]) != 0 {
		return nil, decoder.ErrFailMIC
	}

	// Check add sum (all nibbles + 5).
	if (bitutil.AddBytes(b[:length-1])+5)&0xF != int(b[length-1]) {
		return nil, decoder.ErrFailMIC
	}

	sign := 1.0
	if b[1]&0x8 != 0 {
		sign = -1.0
	}

	rec := data.New()
	switch typ {
	case 0: // WS7000-27/28 Thermo sensor
		temperature := (float64(b[4])*10 + float64(b[3]) + float64(b[2])*0.1) * sign
		rec.Str("model", "", "LaCrosse-WS7000-27/28").
			Int("id", "", id).
			Int("channel", "", addr).
			Dbl("temperature_C", "Temperature", temperature)
	case 1: // WS7000-22/25 Thermo/Humidity sensor
		temperature := (float64(b[4])*10 + float64(b[3]) + float64(b[2])*0.1) * sign
		humidity := int(b[7])*10 + int(b[6])
		rec.Str("model", "", "LaCrosse-WS7000-22/25").
			Int("id", "", id).
			Int("channel", "", addr).
			Dbl("temperature_C", "Temperature", temperature).
			Int("humidity", "Humidity", humidity)
	case 2: // WS7000-16 Rain sensor
		rain := int(b[4])<<8 | int(b[3])<<4 | int(b[2])
		rec.Str("model", "", "LaCrosse-WS7000-16").
			Int("id", "", id).
			Int("channel", "", addr).
			Dbl("rain_mm", "Rain counter", float64(rain)*0.3)
	case 3: // WS7000-15 Wind sensor
		speed := float64(b[4])*10 + float64(b[3]) + float64(b[2])*0.1
		direction := float64(b[7]>>2)*100 + float64(b[6])*10 + float64(b[5])
		deviation := float64(b[7]&0x3) * 22.5
		rec.Str("model", "", "LaCrosse-WS7000-15").
			Int("id", "", id).
			Int("channel", "", addr).
			Dbl("wind_avg_km_h", "Wind speed", speed).
			Dbl("wind_dir_deg", "Wind direction", direction).
			Dbl("wind_dev_deg", "Wind deviation", deviation)
	case 4: // WS7000-20 Thermo/Humidity/Barometer sensor
		temperature := (float64(b[4])*10 + float64(b[3]) + float64(b[2])*0.1) * sign
		humidity := int(b[7])*10 + int(b[6])
		pressure := int(b[10])*100 + int(b[9])*10 + int(b[8]) + 200
		rec.Str("model", "", "LaCrosse-WS7000-20").
			Int("id", "", id).
			Int("channel", "", addr).
			Dbl("temperature_C", "Temperature", temperature).
			Int("humidity", "Humidity", humidity).
			Int("pressure_hPa", "Pressure", pressure)
	case 5: // WS2500-19 Brightness sensor
		brightness := int(b[4])*100 + int(b[3])*10 + int(b[2])
		exposition := int(b[8])*100 + int(b[7])*10 + int(b[6])
		for i := int(b[5]); i > 0; i-- { // 10^exp
			brightness *= 10
		}
		rec.Str("model", "", "LaCrosse-WS2500-19").
			Int("id", "", id).
			Int("channel", "", addr).
			Int("light_lux", "Brightness", brightness).
			Int("exposure_mins", "Exposition", exposition)
	}
	rec.Str("mic", "MIC", "CHECKSUM")

	return []*data.Data{rec}, nil
}
