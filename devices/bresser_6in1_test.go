// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2019 Christian W. Zuckschwerdt
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

const bresser6in1Name = "Bresser Weather Center 6-in-1, 7-in-1 indoor, new 5-in-1, 3-in-1 wind gauge, Froggit WH6000, Ventus C8488A"

const bresser6in1Code = "{176}aaaa2dd4fc8e188002c318ff86ff09202180550130b6"

func TestBresser6in1(t *testing.T) {
	rec := decodeOne(t, bresser6in1Name, bresser6in1Code)

	checkStr(t, rec, "model", "Bresser-6in1")
	checkInt(t, rec, "id", 0x188002c3)
	checkInt(t, rec, "channel", 0)
	checkInt(t, rec, "battery_ok", 1)
	checkInt(t, rec, "sensor_type", 1)
	checkDbl(t, rec, "temperature_C", 21.8)
	checkInt(t, rec, "humidity", 55)
	checkDbl(t, rec, "wind_max_m_s", 0.7)
	checkDbl(t, rec, "wind_avg_m_s", 0.9)
	checkInt(t, rec, "wind_dir_deg", 92)
	checkDbl(t, rec, "uv", 1.3)
	checkInt(t, rec, "flags", 0)

	// The rain counter shares the temperature bytes, for a temperature
	// message it does not BCD-validate.
	if rec.Get("rain_mm") != nil {
		t.Error("temperature message has rain")
	}
}

func TestBresser6in1BadDigest(t *testing.T) {
	_, err := decode(t, bresser6in1Name, "{176}aaaa2dd4fc8f188002c318ff86ff09202180550130b6")
	if errors.Cause(err) != decoder.ErrFailMIC {
		t.Fatalf("got %v", err)
	}
}

func TestBresser6in1Short(t *testing.T) {
	_, err := decode(t, bresser6in1Name, "{96}aaaa2dd4fc8e188002c3")
	if errors.Cause(err) != decoder.ErrAbortEarly {
		t.Fatalf("got %v", err)
	}
}
