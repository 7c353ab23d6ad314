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
	"github.com/merbanan/rtl433/bitutil"
	"github.com/merbanan/rtl433/data"
	"github.com/merbanan/rtl433/decoder"
)

func init() {
	decoder.Register(&decoder.Device{
		Name:       "PMV-107J (Toyota) TPMS",
		Modulation: decoder.ModFSKPCM,
		ShortWidth: 100,
		LongWidth:  100,
		ResetLimit: 250,
		Fields: []string{
			"model",
			"type",
			"id",
			"status",
			"battery_ok",
			"counter",
			"failed",
			"pressure_kPa",
			"temperature_C",
			"mic",
		},
		Decode: tpmsPMV107JDecode,
	})
}

// Pacific PMV-107J TPMS (315MHz) sensors used by Toyota, based on work by
// Werner Johansson.
//
// 66 bits Differential Manchester encoded TPMS data with CRC-8:
//
//	II II II I F* PP NN TT CC
//
// I is the 28 bit ID, F* 6 flag bits (BCC00F: battery_low, repeat_counter,
// failed), P the tire pressure (kPa/2.48 + 40), N the inverted tire
// pressure, T the tire temperature (Celsius + 40), C a CRC over bits 0-57
// with poly 0x13 init 0.
func tpmsPMV107JDecode(d *decoder.Device, buf *bitbuffer.Buffer) ([]*data.Data, error) {
	// Full preamble is (7 bits) 11111 10, match on the first 6.
	preamble := []byte{0xF8}

	var records []*data.Data

	// Find a preamble with enough bits after it that it could be a complete
	// packet.
	bitpos := 0
	for {
		bitpos = buf.Search(0, bitpos, preamble, 6)
		if bitpos+67*2 > buf.RowLen(0) {
			break
		}
		if rec := tpmsPMV107JDecodePacket(buf, 0, bitpos+6); rec != nil {
			records = append(records, rec)
		}
		bitpos += 2
	}

	if len(records) == 0 {
		return nil, decoder.ErrAbortEarly
	}
	return records, nil
}

func tpmsPMV107JDecodePacket(buf *bitbuffer.Buffer, row, bitpos int) *data.Data {
	packetBits := &bitbuffer.Buffer{}
	startPos := buf.DifferentialManchesterDecode(row, bitpos, packetBits, 70) // 67 bits expected
	if startPos-bitpos < 67*2 {
		return nil
	}

	// Realign the buffer, prepending 6 bits of 0.
	var b [9]byte
	b[0] = packetBits.Row(0)[0] >> 6
	packetBits.ExtractBytes(0, 2, b[1:], 64)

	if bitutil.CRC8(b[:8], 0x13, 0x00) != b[8] {
		return nil
	}

	id := uint32(b[0])<<26 | uint32(b[1])<<18 | uint32(b[2])<<10 | uint32(b[3])<<2 | uint32(b[4])>>6 // realigned bits 6 - 34
	status := int(b[4] & 0x3F)                                                                       // status bits and 0 filler
	batteryLow := int(b[4] & 0x20 >> 5)
	counter := int(b[4] & 0x18 >> 3)
	failed := b[4] & 0x01
	pressure1 := int(b[5])
	pressure2 := int(b[6] ^ 0xFF)
	pressureKPa := (float64(pressure1) - 40.0) * 2.48
	temperatureC := float64(b[7]) - 40.0

	if pressure1 != pressure2 {
		return nil // pressure crosscheck failed
	}

	failedStr := "OK"
	if failed != 0 {
		failedStr = "FAIL"
	}

	return data.New().
		Str("model", "", "PMV-107J").
		Str("type", "", "TPMS").
		Str("id", "", fmt.Sprintf("%08x", id)).
		Int("status", "", status).
		Int("battery_ok", "", 1-batteryLow).
		Int("counter", "", counter).
		Str("failed", "", failedStr).
		Dbl("pressure_kPa", "", pressureKPa).
		Dbl("temperature_C", "", temperatureC).
		Str("mic", "Integrity", "CRC")
}
