// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2015 Erkki Seppälä
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

package data

import (
	"encoding/json"
	"reflect"
	"testing"
)

func sampleRecord() *Data {
	return New().
		Str("model", "", "Nexus-TH").
		Int("id", "ID", 143).
		Int("channel", "Channel", 2).
		FmtDbl("temperature_C", "Temperature", "%.1f C", 21.3).
		Int("humidity", "Humidity", 44)
}

func TestMarshalJSONOrder(t *testing.T) {
	got, err := json.Marshal(sampleRecord())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"model":"Nexus-TH","id":143,"channel":2,"temperature_C":21.3,"humidity":44}`
	if string(got) != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestKV(t *testing.T) {
	got := sampleRecord().KV()
	want := "model: Nexus-TH ID: 143 Channel: 2 Temperature: 21.3 C Humidity: 44"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestFloatDisplay(t *testing.T) {
	// Unformatted floats display with three decimals.
	d := New().Dbl("wind_avg_m_s", "", 0.9)
	if got := d.KV(); got != "wind_avg_m_s: 0.900" {
		t.Fatalf("got %q", got)
	}
}

func TestGet(t *testing.T) {
	d := sampleRecord()
	if got := d.Get("id"); got != 143 {
		t.Fatalf("got %v", got)
	}
	if got := d.Get("missing"); got != nil {
		t.Fatalf("got %v", got)
	}
}

func TestRecord(t *testing.T) {
	// Absent fields yield empty columns, order follows the field set.
	got := sampleRecord().Record([]string{"humidity", "model", "battery_ok", "id"})
	want := []string{"44", "Nexus-TH", "", "143"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestIntArray(t *testing.T) {
	d := New().IntArray("DifferentialConsumptionIntervals", "", []int{1, 2, 3})
	got, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"DifferentialConsumptionIntervals":[1,2,3]}`
	if string(got) != want {
		t.Fatalf("got %s", got)
	}
}
