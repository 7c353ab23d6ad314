// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2015 Christian W. Zuckschwerdt
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
		Name:       "Bresser Thermo-/Hygro-Sensor 3CH",
		Modulation: decoder.ModOOKPWM,
		ShortWidth: 250,
		LongWidth:  500,
		SyncWidth:  750,
		ResetLimit: 1250,
		Fields: []string{
			"model",
			"id",
			"channel",
			"battery",
			"temperature_F",
			"humidity",
		},
		Decode: bresser3chDecode,
	})
}

// Bresser Thermo-/Hygro-Sensor 3CH.
//
// The sensor sends 15 identical packages of 40 bits each ~60s, PWM
// modulated. The data is grouped in 5 bytes / 10 nibbles:
//
//	[id] [id] [flags] [temp] [temp] [temp] [humi] [humi] [chk] [chk]
//
// id is an 8 bit random id generated when the sensor starts, flags are 4
// bits battery low indicator, test button press and channel, temp is 12 bit
// unsigned fahrenheit offset by 90 and scaled by 10, humi is 8 bit relative
// humidity percentage. All bits arrive inverted.
func bresser3chDecode(d *decoder.Device, buf *bitbuffer.Buffer) ([]*data.Data, error) {
	// The 4 double wide sync pulses each go to a row of their own, the row
	// lengths will be 1 1 1 1 41 1 1 1 1 41 ...
	r := buf.FindRepeatedRow(3, 40)
	if r < 0 || buf.RowLen(r) > 41 {
		return nil, decoder.ErrAbortLength
	}

	b := buf.Row(r)
	for i := 0; i < 5; i++ {
		b[i] = ^b[i]
	}

	// If the checksum fails, bail.
	if (int(b[0])+int(b[1])+int(b[2])+int(b[3])-int(b[4]))&0xFF != 0 {
		return nil, decoder.ErrFailMIC
	}

	id := int(b[0])
	batteryLow := int(b[1] & 0x80 >> 7)
	channel := int(b[1] & 0x30 >> 4)

	tempRaw := int(b[1]&0x0F)<<8 + int(b[2])
	// 12 bits allows for values -90.0 F - 319.6 F (-67 C - 159 C).
	tempF := float64(tempRaw-900) / 10.0

	humidity := int(b[3])

	if channel == 0 || humidity > 100 || tempF < -20.0 || tempF > 160.0 {
		return nil, decoder.ErrFailSanity
	}

	battery := "OK"
	if batteryLow != 0 {
		battery = "LOW"
	}

	rec := data.New().
		Str("model", "", "Bresser 3CH sensor").
		Int("id", "", id).
		Int("channel", "Channel", channel).
		Str("battery", "Battery", battery).
		FmtDbl("temperature_F", "Temperature", "%.2f F", tempF).
		FmtInt("humidity", "Humidity", "%d %%", humidity)

	return []*data.Data{rec}, nil
}
