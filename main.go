// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2015 Tommy Vestermark
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/merbanan/rtl433/bitbuffer"
	"github.com/merbanan/rtl433/decoder"

	_ "github.com/merbanan/rtl433/devices"
)

var (
	buildTag   = "dev"     // v#.#.#
	buildDate  = "unknown" // date -u '+%Y-%m-%d'
	commitHash = "unknown" // git rev-parse HEAD
)

// decodeCodes feeds each bitbuffer code line through the decoder catalog and
// encodes the resulting records.
func decodeCodes(runner *decoder.Runner, lines io.Reader) error {
	scanner := bufio.NewScanner(lines)
	for scanner.Scan() {
		code := strings.TrimSpace(scanner.Text())
		if code == "" || strings.HasPrefix(code, "#") {
			continue
		}

		buf, err := bitbuffer.Parse(code)
		if err != nil {
			log.WithFields(log.Fields{"code": code}).Warn(err)
			continue
		}

		for _, rec := range runner.Run(buf) {
			if err := encoder.Encode(rec); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

func main() {
	RegisterFlags()
	EnvOverride()
	flag.Parse()

	if *version {
		fmt.Println("Build Tag: ", buildTag)
		fmt.Println("Build Date:", buildDate)
		fmt.Println("Commit:    ", commitHash)
		os.Exit(0)
	}

	devs := deviceFilter.Apply(decoder.Devices())
	if len(devs) == 0 {
		log.Fatal("no devices match the device filter")
	}

	HandleFlags(devs)

	runner := decoder.NewRunner(devs)
	log.WithFields(log.Fields{"devices": len(devs)}).Debug("registered devices")

	// Codes given as arguments take precedence over the code file.
	if args := flag.Args(); len(args) > 0 {
		err := decodeCodes(runner, strings.NewReader(strings.Join(args, "\n")))
		if err != nil {
			log.Fatal("Error encoding record: ", err)
		}
	} else {
		var input io.Reader
		switch *codeFilename {
		case "":
			flag.Usage()
			os.Exit(2)
		case "-":
			input = os.Stdin
		default:
			f, err := os.Open(*codeFilename)
			if err != nil {
				log.Fatal("Error opening code file: ", err)
			}
			defer f.Close()
			input = f
		}
		if err := decodeCodes(runner, input); err != nil {
			log.Fatal("Error encoding record: ", err)
		}
	}

	runner.LogStats()
}
