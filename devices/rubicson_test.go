// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2015 Tommy Vestermark
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

const rubicsonName = "Rubicson Temperature Sensor"

func TestRubicson(t *testing.T) {
	// The reference packet itself, vendor CRC trivially passes on a zero
	// difference.
	rec := decodeOne(t, rubicsonName, "{36}ea8f6afa5 {36}ea8f6afa5")

	checkStr(t, rec, "model", "Rubicson Temperature Sensor")
	checkInt(t, rec, "id", 234)
	checkInt(t, rec, "channel", 1)
	checkStr(t, rec, "battery", "OK")
	checkDbl(t, rec, "temperature_C", -15.0)
	checkStr(t, rec, "mic", "CRC")
}

func TestRubicsonBadCRC(t *testing.T) {
	// Corrupt a data nibble in the CRC row.
	_, err := decode(t, rubicsonName, "{36}ea8f6afa5 {36}ea8f6bfa5")
	if errors.Cause(err) != decoder.ErrFailMIC {
		t.Fatalf("got %v", err)
	}
}

func TestRubicsonShort(t *testing.T) {
	_, err := decode(t, rubicsonName, "{36}ea8f6afa5")
	if errors.Cause(err) != decoder.ErrAbortLength {
		t.Fatalf("got %v", err)
	}
}
