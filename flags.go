// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2015 Tommy Vestermark
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/merbanan/rtl433/csv"
	"github.com/merbanan/rtl433/data"
	"github.com/merbanan/rtl433/decoder"
)

var codeFilename = flag.String("codefile", "", "file with one bitbuffer code per line, \"-\" for stdin")

var deviceFilter DeviceFilter

var format = flag.String("format", "json", "decoded record output format: json, kv or csv")

var verbose = flag.Bool("verbose", false, "enable decoder debug logging")

var version = flag.Bool("version", false, "display build date and commit hash")

var encoder Encoder

func RegisterFlags() {
	flag.Var(&deviceFilter, "device", "run only devices whose name contains one of a comma-separated list of substrings")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s: [flags] [code ...]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Codes are bitbuffer rows in {len}hex form, e.g. {40}69d9b0c8bd")
		flag.PrintDefaults()
	}
}

func EnvOverride() {
	flag.VisitAll(func(f *flag.Flag) {
		envName := "RTL433_" + strings.ToUpper(f.Name)
		flagValue := os.Getenv(envName)
		if flagValue != "" {
			if err := flag.Set(f.Name, flagValue); err != nil {
				log.Printf(
					"Environment variable %q failed to override flag %q with value %q: %q\n",
					envName, f.Name, flagValue, err,
				)
			} else {
				log.Printf("Environment variable %q overrides flag %q with %q\n", envName, f.Name, flagValue)
			}
		}
	})
}

func HandleFlags(devs []*decoder.Device) {
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	*format = strings.ToLower(*format)
	switch *format {
	case "json":
		encoder = json.NewEncoder(os.Stdout)
	case "kv":
		encoder = KVEncoder{}
	case "csv":
		enc := csv.NewEncoder(os.Stdout, decoder.FieldSet(devs))
		if err := enc.EncodeHeader(); err != nil {
			log.Fatal("Error writing csv header: ", err)
		}
		encoder = enc
	default:
		log.Fatalf("invalid format: %q", *format)
	}
}

// JSON and CSV encoders both implement this interface so we can simplify
// record output formatting.
type Encoder interface {
	Encode(interface{}) error
}

// KVEncoder prints records in key-value form, one per line.
type KVEncoder struct{}

func (KVEncoder) Encode(v interface{}) error {
	_, err := fmt.Println(v.(*data.Data).KV())
	return err
}

// DeviceFilter selects devices by name substring.
type DeviceFilter []string

func (f *DeviceFilter) String() string {
	return strings.Join(*f, ",")
}

func (f *DeviceFilter) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			*f = append(*f, strings.ToLower(v))
		}
	}
	return nil
}

// Apply returns the devices matching the filter, or all devices when the
// filter is empty.
func (f DeviceFilter) Apply(devs []*decoder.Device) []*decoder.Device {
	if len(f) == 0 {
		return devs
	}
	var matched []*decoder.Device
	for _, d := range devs {
		name := strings.ToLower(d.Name)
		for _, sub := range f {
			if strings.Contains(name, sub) {
				matched = append(matched, d)
				break
			}
		}
	}
	return matched
}
