// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2019 ReMiOS and Christian W. Zuckschwerdt
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

package devices

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/merbanan/rtl433/bitbuffer"
	"github.com/merbanan/rtl433/bitutil"
	"github.com/merbanan/rtl433/decoder"
)

const ws7000Name = "LaCrosse/ELV/Conrad WS7000/WS2500 weather sensors"

// ws7000Encode builds the on-air bit stream: 10 zero bits and a one bit of
// preamble, then each nibble LSB first followed by a 1 separator.
func ws7000Encode(nibbles []byte) *bitbuffer.Buffer {
	var buf bitbuffer.Buffer
	for i := 0; i < 10; i++ {
		buf.AddBit(0)
	}
	buf.AddBit(1)
	for _, n := range nibbles {
		for i := 0; i < 4; i++ {
			buf.AddBit(int(n >> uint(i) & 1))
		}
		buf.AddBit(1)
	}
	return &buf
}

// ws7000Checksummed appends the XOR and add nibbles to a message.
func ws7000Checksummed(nibbles []byte) []byte {
	x := bitutil.XorBytes(nibbles)
	s := (bitutil.AddBytes(nibbles) + int(x) + 5) & 0xF
	return append(append(nibbles, x), byte(s))
}

func TestWS7000Thermo(t *testing.T) {
	d, err := decoder.Lookup(ws7000Name)
	if err != nil {
		t.Fatal(err)
	}

	// Type 0 thermo sensor, address 1, 23.4 C.
	buf := ws7000Encode(ws7000Checksummed([]byte{0, 1, 4, 3, 2}))
	recs, err := d.Decode(d, buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records", len(recs))
	}

	rec := recs[0]
	checkStr(t, rec, "model", "LaCrosse-WS7000-27/28")
	checkInt(t, rec, "id", 1)
	checkInt(t, rec, "channel", 1)
	checkDbl(t, rec, "temperature_C", 23.4)
	checkStr(t, rec, "mic", "CHECKSUM")
}

func TestWS7000Meteo(t *testing.T) {
	d, err := decoder.Lookup(ws7000Name)
	if err != nil {
		t.Fatal(err)
	}

	// Type 4 thermo/humidity/barometer, address 2, -21.3 C, 57%, 996 hPa.
	buf := ws7000Encode(ws7000Checksummed([]byte{4, 0xA, 3, 1, 2, 0, 7, 5, 6, 9, 7}))
	recs, err := d.Decode(d, buf)
	if err != nil {
		t.Fatal(err)
	}

	rec := recs[0]
	checkStr(t, rec, "model", "LaCrosse-WS7000-20")
	checkInt(t, rec, "id", 4<<4|2)
	checkDbl(t, rec, "temperature_C", -21.3)
	checkInt(t, rec, "humidity", 57)
	checkInt(t, rec, "pressure_hPa", 996)
}

func TestWS7000BadChecksum(t *testing.T) {
	d, err := decoder.Lookup(ws7000Name)
	if err != nil {
		t.Fatal(err)
	}

	msg := ws7000Checksummed([]byte{0, 1, 4, 3, 2})
	msg[2] ^= 0x1
	_, err = d.Decode(d, ws7000Encode(msg))
	if errors.Cause(err) != decoder.ErrFailMIC {
		t.Fatalf("got %v", err)
	}
}
