// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2015 Tommy Vestermark
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

package devices

import (
	"math"
	"testing"

	"github.com/merbanan/rtl433/bitbuffer"
	"github.com/merbanan/rtl433/data"
	"github.com/merbanan/rtl433/decoder"
)

// decode parses a bitbuffer code and runs it through the named device.
func decode(t *testing.T, name, code string) ([]*data.Data, error) {
	t.Helper()

	d, err := decoder.Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	buf, err := bitbuffer.Parse(code)
	if err != nil {
		t.Fatal(err)
	}
	return d.Decode(d, buf)
}

// decodeOne expects exactly one record.
func decodeOne(t *testing.T, name, code string) *data.Data {
	t.Helper()

	recs, err := decode(t, name, code)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	return recs[0]
}

func checkStr(t *testing.T, rec *data.Data, key, want string) {
	t.Helper()
	if got := rec.Get(key); got != want {
		t.Errorf("%s = %v, want %v", key, got, want)
	}
}

func checkInt(t *testing.T, rec *data.Data, key string, want int) {
	t.Helper()
	if got := rec.Get(key); got != want {
		t.Errorf("%s = %v, want %v", key, got, want)
	}
}

func checkDbl(t *testing.T, rec *data.Data, key string, want float64) {
	t.Helper()
	got, ok := rec.Get(key).(float64)
	if !ok || math.Abs(got-want) > 1e-6 {
		t.Errorf("%s = %v, want %v", key, rec.Get(key), want)
	}
}
