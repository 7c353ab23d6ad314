// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2020 Peter Shipley
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

package devices

import (
	"fmt"
	"strings"

	"github.com/merbanan/rtl433/bitbuffer"
	"github.com/merbanan/rtl433/bitutil"
	"github.com/merbanan/rtl433/data"
	"github.com/merbanan/rtl433/decoder"
)

const (
	idmPacketBytes  = 90
	idmPacketBitLen = idmPacketBytes * 8
)

var idmFrameSync = []byte{0x16, 0xA3, 0x1C}

// CRC-16-CCITT of the packet starting at Packet Type.
var idmCRC = bitutil.NewCRC16Spec("IDM", 0xD895, 0x1021, 0)

var idmFields = []string{
	"model",
	"PacketTypeID",
	"PacketLength",
	"ApplicationVersion",
	"ERTType",
	"ERTSerialNumber",
	"ConsumptionIntervalCount",
	"ModuleProgrammingState",
	"Unknown_field_1",
	"LastGenerationCount",
	"Unknown_field_2",
	"TamperCounters",
	"AsynchronousCounters",
	"PowerOutageFlags",
	"LastConsumptionCount",
	"DifferentialConsumptionIntervals",
	"TransmitTimeOffset",
	"MeterIdCRC",
	"PacketCRC",
	"MeterType",
	"mic",
}

func init() {
	decoder.Register(&decoder.Device{
		Name:       "ERT Interval Data Message (IDM)",
		Modulation: decoder.ModOOKManchesterZeroBit,
		ShortWidth: 30,
		GapLimit:   20000,
		ResetLimit: 20000,
		Fields:     idmFields,
		Decode:     ertIDMDecode,
	})
	decoder.Register(&decoder.Device{
		Name:       "ERT Interval Data Message (IDM) for Net Meters",
		Modulation: decoder.ModOOKManchesterZeroBit,
		ShortWidth: 30,
		GapLimit:   20000,
		ResetLimit: 20000,
		Fields:     idmFields,
		Decode:     ertNetIDMDecode,
	})
}

// The least significant nibble of the endpoint type is equivalent to SCM's
// endpoint type field.
func meterTypeName(ertType byte) string {
	switch ertType & 0x0F {
	case 4, 5, 7, 8:
		return "Electric"
	case 0, 1, 2, 9, 12:
		return "Gas"
	case 3, 11, 13:
		return "Water"
	default:
		return "unknown"
	}
}

func hexBytes(b []byte) string {
	var sb strings.Builder
	sb.WriteString("0x")
	for _, v := range b {
		fmt.Fprintf(&sb, "%02X", v)
	}
	return sb.String()
}

// idmSyncAndCheck locates the frame sync, extracts the 90-byte packet and
// verifies the packet CRC. It returns the packet and the sync position.
func idmSyncAndCheck(buf *bitbuffer.Buffer, b []byte) (int, error) {
	if buf.RowLen(0) < idmPacketBitLen {
		return 0, decoder.ErrAbortLength
	}

	syncIndex := buf.Search(0, 0, idmFrameSync, 24)
	if syncIndex >= buf.RowLen(0) {
		return 0, decoder.ErrAbortEarly
	}
	if buf.RowLen(0)-syncIndex < idmPacketBitLen {
		return 0, decoder.ErrAbortLength
	}

	buf.ExtractBytes(0, syncIndex, b, idmPacketBitLen)

	packetCRC := uint16(b[88])<<8 | uint16(b[89])
	if idmCRC.Checksum(b[2:88]) != packetCRC {
		return 0, decoder.ErrFailMIC
	}

	return syncIndex, nil
}

// ERT Interval Data Message (IDM), the 90-byte Itron meter reading with
// interval history.
//
// IDM layout (offsets after the sync word):
//
//	Packet Type           | 1  | 2
//	Packet Length         | 1  | 3
//	Hamming Code          | 1  | 4
//	Application Version   | 1  | 5
//	Endpoint Type         | 1  | 6
//	Endpoint ID           | 4  | 7
//	Consumption Interval  | 1  | 11
//	Mod Programming State | 1  | 12
//	Tamper Count          | 6  | 13
//	Async Count           | 2  | 19
//	Power Outage Flags    | 6  | 21
//	Last Consumption      | 4  | 27
//	Diff Consumption      | 53 | 31
//	Transmit Time Offset  | 2  | 84
//	Meter ID Checksum     | 2  | 86
//	Packet Checksum       | 2  | 88
func ertIDMDecode(d *decoder.Device, buf *bitbuffer.Buffer) ([]*data.Data, error) {
	var b [idmPacketBytes]byte
	syncIndex, err := idmSyncAndCheck(buf, b[:])
	if err != nil {
		return nil, err
	}

	ertType := b[6]
	ertSerialNumber := int(b[7])<<24 | int(b[8])<<16 | int(b[9])<<8 | int(b[10])

	// 47 intervals of 9-bit unsigned integers.
	intervals := make([]int, 47)
	pos := syncIndex + 31*8
	for j := range intervals {
		var buffy [2]byte
		buf.ExtractBytes(0, pos, buffy[:], 9)
		intervals[j] = int(buffy[0])<<1 | int(buffy[1]>>7)
		pos += 9
	}

	// Field key names and formats match rtlamr.
	rec := data.New().
		Str("model", "", "IDM").
		Str("PacketTypeID", "", fmt.Sprintf("0x%02X", b[2])).
		Int("PacketLength", "", int(b[3])).
		Int("ApplicationVersion", "", int(b[5])).
		FmtInt("ERTType", "", "0x%02X", int(ertType)).
		Int("ERTSerialNumber", "", ertSerialNumber).
		Int("ConsumptionIntervalCount", "", int(b[11])).
		FmtInt("ModuleProgrammingState", "", "0x%02X", int(b[12])).
		Str("TamperCounters", "", hexBytes(b[13:19])).
		FmtInt("AsynchronousCounters", "", "0x%02X", int(b[19])<<8|int(b[20])).
		Str("PowerOutageFlags", "", hexBytes(b[21:27])).
		Int("LastConsumptionCount", "", int(b[27])<<24|int(b[28])<<16|int(b[29])<<8|int(b[30])).
		IntArray("DifferentialConsumptionIntervals", "", intervals).
		Int("TransmitTimeOffset", "", int(b[84])<<8|int(b[85])).
		FmtInt("MeterIdCRC", "", "0x%04X", int(b[86])<<8|int(b[87])).
		FmtInt("PacketCRC", "", "0x%04X", int(b[88])<<8|int(b[89])).
		Str("MeterType", "Meter_Type", meterTypeName(ertType)).
		Str("mic", "Integrity", "CRC")

	return []*data.Data{rec}, nil
}

// Interval Data Message (IDM) for Net Meters. Same framing and CRC as IDM,
// but the consumption history is 27 intervals of 14-bit unsigned integers
// starting at byte 36, preceded by a generation count.
func ertNetIDMDecode(d *decoder.Device, buf *bitbuffer.Buffer) ([]*data.Data, error) {
	var b [idmPacketBytes]byte
	syncIndex, err := idmSyncAndCheck(buf, b[:])
	if err != nil {
		return nil, err
	}

	ertType := b[6]
	ertSerialNumber := int(b[7])<<24 | int(b[8])<<16 | int(b[9])<<8 | int(b[10])
	lastGenerationCount := int(b[26])<<16 | int(b[27])<<8 | int(b[28])

	// 27 intervals of 14-bit unsigned integers.
	intervals := make([]int, 27)
	pos := syncIndex + 36*8
	for j := range intervals {
		var buffy [2]byte
		buf.ExtractBytes(0, pos, buffy[:], 14)
		intervals[j] = int(buffy[0])<<6 | int(buffy[1]>>2)
		pos += 14
	}

	rec := data.New().
		Str("model", "", "NETIDM").
		Str("PacketTypeID", "", fmt.Sprintf("0x%02X", b[2])).
		Int("PacketLength", "", int(b[3])).
		Int("ApplicationVersion", "", int(b[5])).
		FmtInt("ERTType", "", "0x%02X", int(ertType)).
		Int("ERTSerialNumber", "", ertSerialNumber).
		Int("ConsumptionIntervalCount", "", int(b[11])).
		FmtInt("ModuleProgrammingState", "", "0x%02X", int(b[12])).
		Str("TamperCounters", "", hexBytes(b[13:19])).
		Str("Unknown_field_1", "", hexBytes(b[19:26])).
		Int("LastGenerationCount", "", lastGenerationCount).
		Str("Unknown_field_2", "", hexBytes(b[29:32])).
		Int("LastConsumptionCount", "", int(b[32])<<24|int(b[33])<<16|int(b[34])<<8|int(b[35])).
		IntArray("DifferentialConsumptionIntervals", "", intervals).
		Int("TransmitTimeOffset", "", int(b[84])<<8|int(b[85])).
		FmtInt("MeterIdCRC", "", "0x%04X", int(b[86])<<8|int(b[87])).
		FmtInt("PacketCRC", "", "0x%04X", int(b[88])<<8|int(b[89])).
		Str("MeterType", "", meterTypeName(ertType)).
		Str("mic", "Integrity", "CRC")

	return []*data.Data{rec}, nil
}
