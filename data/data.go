// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2015 Erkki Seppälä
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

// Package data implements the flat, ordered key-value records emitted by
// device decoders. Field order is emission order and is preserved in every
// output representation.
package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// A Field is a single key-value pair of a record. Pretty is the name used
// when displaying the field to the user, Format an optional printf-style
// format for display output. Value is an int, float64, string or []int.
type Field struct {
	Key    string
	Pretty string
	Format string
	Value  interface{}
}

// Data is an ordered flat record.
type Data struct {
	fields []Field
}

// New returns an empty record.
func New() *Data {
	return &Data{}
}

// Str appends a string field.
func (d *Data) Str(key, pretty, value string) *Data {
	d.fields = append(d.fields, Field{Key: key, Pretty: pretty, Value: value})
	return d
}

// Int appends an integer field.
func (d *Data) Int(key, pretty string, value int) *Data {
	d.fields = append(d.fields, Field{Key: key, Pretty: pretty, Value: value})
	return d
}

// FmtInt appends an integer field with a display format.
func (d *Data) FmtInt(key, pretty, format string, value int) *Data {
	d.fields = append(d.fields, Field{Key: key, Pretty: pretty, Format: format, Value: value})
	return d
}

// Dbl appends a float field.
func (d *Data) Dbl(key, pretty string, value float64) *Data {
	d.fields = append(d.fields, Field{Key: key, Pretty: pretty, Value: value})
	return d
}

// FmtDbl appends a float field with a display format.
func (d *Data) FmtDbl(key, pretty, format string, value float64) *Data {
	d.fields = append(d.fields, Field{Key: key, Pretty: pretty, Format: format, Value: value})
	return d
}

// IntArray appends an integer array field.
func (d *Data) IntArray(key, pretty string, value []int) *Data {
	d.fields = append(d.fields, Field{Key: key, Pretty: pretty, Value: value})
	return d
}

// Fields returns the record's fields in emission order.
func (d *Data) Fields() []Field {
	return d.fields
}

// Get returns the value of the named field, or nil.
func (d *Data) Get(key string) interface{} {
	for _, f := range d.fields {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// MarshalJSON encodes the record as a JSON object with fields in emission
// order. Display formats do not apply, values are encoded raw.
func (d *Data) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// display renders a field value honoring its display format.
func (f Field) display() string {
	if f.Format != "" {
		return fmt.Sprintf(f.Format, f.Value)
	}
	switch v := f.Value.(type) {
	case float64:
		return fmt.Sprintf("%.3f", v)
	default:
		return fmt.Sprint(v)
	}
}

// KV renders the record in key-value form for terminal output. A field with
// an empty pretty key uses its key, a pretty key of "-" suppresses the label.
func (d *Data) KV() string {
	var sb strings.Builder
	for i, f := range d.fields {
		if i > 0 {
			sb.WriteString(" ")
		}
		label := f.Pretty
		if label == "" {
			label = f.Key
		}
		fmt.Fprintf(&sb, "%s: %s", label, f.display())
	}
	return sb.String()
}

func (d *Data) String() string {
	return d.KV()
}

// Record returns the record's values as strings in the order given by
// fields, one empty string per absent field. This feeds the CSV encoder,
// which needs a stable column set across heterogeneous records.
func (d *Data) Record(fields []string) []string {
	r := make([]string, len(fields))
	for i, key := range fields {
		for _, f := range d.fields {
			if f.Key == key {
				r[i] = f.display()
				break
			}
		}
	}
	return r
}
