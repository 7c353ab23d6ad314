// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2020 Benjamin Larsson
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

package devices

import (
	"github.com/merbanan/rtl433/bitbuffer"
	"github.com/merbanan/rtl433/bitutil"
	"github.com/merbanan/rtl433/data"
	"github.com/merbanan/rtl433/decoder"
)

func init() {
	decoder.Register(&decoder.Device{
		Name:       "ERT Standard Consumption Message (SCM)",
		Modulation: decoder.ModOOKManchesterZeroBit,
		ShortWidth: 30,
		LongWidth:  30,
		ResetLimit: 80,
		Fields: []string{
			"model",
			"id",
			"physical_tamper",
			"type",
			"encoder_tamper",
			"consumption_data",
			"mic",
		},
		Decode: ertSCMDecode,
	})
}

var (
	ertFrameSync    = []byte{0x1F, 0x2A, 0x60}
	ertFrameSyncAlt = []byte{0x01, 0x53, 0x00}

	scmCRC = bitutil.NewCRC16Spec("SCM", 0, 0x6F63, 0)
)

// ERT Standard Consumption Message (SCM) sensors, the 96-bit Itron meter
// reading broadcast.
//
// Data layout:
//
//	SAAA AAAA  AAAA AAAA
//	AAAA AiiR  PPTT TTEE
//	CCCC CCCC  CCCC CCCC
//	CCCC CCCC  IIII IIII
//	IIII IIII  IIII IIII
//	XXXX XXXX  XXXX XXXX
//
// S sync bit, A preamble, i ERT ID most significant bits, R reserved, P
// physical tamper, T ERT type, E encoder tamper, C consumption data, I ERT
// ID least significant bits, X CRC (polynomial 0x6F63).
func ertSCMDecode(d *decoder.Device, buf *bitbuffer.Buffer) ([]*data.Data, error) {
	if buf.RowLen(0) < 96 {
		return nil, decoder.ErrAbortLength
	}

	syncIndex := buf.Search(0, 0, ertFrameSync, 21)
	if syncIndex >= buf.RowLen(0) {
		syncIndex = buf.Search(0, 0, ertFrameSyncAlt, 21)
		if syncIndex >= buf.RowLen(0) {
			return nil, decoder.ErrAbortEarly
		}
	}

	if buf.RowLen(0)-syncIndex < 96 {
		return nil, decoder.ErrAbortLength
	}

	var b [12]byte
	buf.ExtractBytes(0, syncIndex, b[:], 12*8)

	// Instead of verifying the preamble we rely on the CRC and extract the
	// parameters from the back.
	if scmCRC.Checksum(b[2:12]) != 0 {
		return nil, decoder.ErrFailMIC
	}

	physicalTamper := int(b[3] >> 6)
	ertType := int(b[3] >> 2 & 0x0F)
	encoderTamper := int(b[3] & 0x03)
	consumption := int(b[4])<<16 | int(b[5])<<8 | int(b[6])
	ertID := int(b[2]&0x06)<<23 | int(b[7])<<16 | int(b[8])<<8 | int(b[9])

	rec := data.New().
		Str("model", "", "ERT-SCM").
		Int("id", "Id", ertID).
		Int("physical_tamper", "Physical Tamper", physicalTamper).
		Int("type", "ERT Type", ertType).
		Int("encoder_tamper", "Encoder Tamper", encoderTamper).
		Int("consumption_data", "Consumption Data", consumption).
		Str("mic", "Integrity", "CRC")

	return []*data.Data{rec}, nil
}
