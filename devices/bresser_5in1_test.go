// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2018 Daniel Krueger
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

package devices

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/merbanan/rtl433/decoder"
)

const bresser5in1Name = "Bresser Weather Center 5-in-1"

const bresser5in1Code = "{248}aaaaaa2dd4ffbdfedc7fbaffecfdaa87feff00420123804500130255780100"

func TestBresser5in1(t *testing.T) {
	rec := decodeOne(t, bresser5in1Name, bresser5in1Code)

	checkStr(t, rec, "model", "Bresser-5in1")
	checkInt(t, rec, "id", 0x42)
	checkDbl(t, rec, "temperature_C", 21.3)
	checkInt(t, rec, "humidity", 55)
	checkDbl(t, rec, "wind_gust", 12.3)
	checkDbl(t, rec, "wind_speed", 4.5)
	checkDbl(t, rec, "wind_dir_deg", 180.0)
	checkDbl(t, rec, "rain_mm", 17.8)
	checkStr(t, rec, "mic", "CHECKSUM")
}

func TestBresser5in1BadCheck(t *testing.T) {
	// Break the inverse relation of the check bytes.
	bad := []byte(bresser5in1Code)
	bad[len(bad)-1] = '1'
	_, err := decode(t, bresser5in1Name, string(bad))
	if errors.Cause(err) != decoder.ErrFailMIC {
		t.Fatalf("got %v", err)
	}
}

func TestBresser5in1NoPreamble(t *testing.T) {
	_, err := decode(t, bresser5in1Name, "{248}00112233445566778899aabbccddeeff00112233445566778899aabbccddee")
	if errors.Cause(err) != decoder.ErrAbortEarly {
		t.Fatalf("got %v", err)
	}
}
