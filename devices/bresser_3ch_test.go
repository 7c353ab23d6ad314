// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2015 Christian W. Zuckschwerdt
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

const bresser3chName = "Bresser Thermo-/Hygro-Sensor 3CH"

func TestBresser3CH(t *testing.T) {
	rec := decodeOne(t, bresser3chName, "{40}69d9b0c8bd {40}69d9b0c8bd {40}69d9b0c8bd")

	checkStr(t, rec, "model", "Bresser 3CH sensor")
	checkInt(t, rec, "id", 150)
	checkInt(t, rec, "channel", 2)
	checkStr(t, rec, "battery", "OK")
	checkDbl(t, rec, "temperature_F", 71.5)
	checkInt(t, rec, "humidity", 55)
}

func TestBresser3CHBadChecksum(t *testing.T) {
	_, err := decode(t, bresser3chName, "{40}69d9b0c8bc {40}69d9b0c8bc {40}69d9b0c8bc")
	if errors.Cause(err) != decoder.ErrFailMIC {
		t.Fatalf("got %v", err)
	}
}
