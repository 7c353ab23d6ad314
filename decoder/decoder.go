// RTL433 - A decoder collection for OOK/FSK sub-GHz wireless sensors.
// Copyright (C) 2015 Tommy Vestermark
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.

// Package decoder defines the device decoder type and the registry the
// device catalog registers into.
package decoder

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/merbanan/rtl433/bitbuffer"
	"github.com/merbanan/rtl433/data"
)

// Modulation identifies the demodulation a device's signal needs. The
// decoders themselves only see bits, the modulation and timing fields are
// configuration data for the pulse slicer in front of them.
type Modulation int

const (
	ModOOKPPM Modulation = iota + 1
	ModOOKPWM
	ModOOKPCM
	ModOOKManchesterZeroBit
	ModFSKPCM
	ModFSKPWM
	ModFSKManchesterZeroBit
)

func (m Modulation) String() string {
	switch m {
	case ModOOKPPM:
		return "OOK_PPM"
	case ModOOKPWM:
		return "OOK_PWM"
	case ModOOKPCM:
		return "OOK_PCM"
	case ModOOKManchesterZeroBit:
		return "OOK_MC_ZEROBIT"
	case ModFSKPCM:
		return "FSK_PCM"
	case ModFSKPWM:
		return "FSK_PWM"
	case ModFSKManchesterZeroBit:
		return "FSK_MC_ZEROBIT"
	}
	return "UNKNOWN"
}

// Decode failure classes. A decoder bails with one of these sentinels,
// optionally wrapped with context. Aborts are cheap mismatches expected on
// every foreign signal, fails mean the signal matched the device's framing
// but flunked a sanity or integrity check.
var (
	// ErrAbortEarly: bit count or sync mismatch before any work was done.
	ErrAbortEarly = errors.New("abort early")

	// ErrAbortLength: message length check failed.
	ErrAbortLength = errors.New("abort length")

	// ErrFailSanity: message sanity check failed.
	ErrFailSanity = errors.New("fail sanity")

	// ErrFailMIC: message integrity check (checksum, CRC, digest) failed.
	ErrFailMIC = errors.New("fail mic")
)

// A Device describes one supported transmitter protocol: the slicer timings
// needed to produce its bitbuffer and the decode function that turns the
// bitbuffer into records.
type Device struct {
	Name       string
	Modulation Modulation

	// Slicer timings in microseconds.
	ShortWidth float64
	LongWidth  float64
	SyncWidth  float64
	GapLimit   float64
	ResetLimit float64
	Tolerance  float64

	// Devices with Priority > 0 run late and only if no earlier device
	// claimed the signal. Used for protocols prone to false positives.
	Priority int

	Disabled bool

	// Fields lists the record keys this device can emit, in emission order.
	// The union over all devices forms the CSV column set.
	Fields []string

	// Decode inspects the bitbuffer and returns one record per decoded
	// message. No records and a nil error is not a valid outcome, failed
	// decodes return one of the sentinel errors above.
	Decode func(d *Device, buf *bitbuffer.Buffer) ([]*data.Data, error)
}

var (
	deviceMutex sync.Mutex
	devices     []*Device
	deviceNames = make(map[string]bool)
)

// Register adds a device to the registry. It is intended to be called from
// the init function of each device file. Registering a nil device, a device
// without a decode function or a duplicate name panics.
func Register(d *Device) {
	deviceMutex.Lock()
	defer deviceMutex.Unlock()

	if d == nil || d.Decode == nil {
		panic("decoder: device or decode func is nil")
	}
	if deviceNames[d.Name] {
		panic(fmt.Sprintf("decoder: device already registered (%s)", d.Name))
	}
	deviceNames[d.Name] = true
	devices = append(devices, d)
}

// Devices returns a snapshot of the registered devices in registration
// order.
func Devices() []*Device {
	deviceMutex.Lock()
	defer deviceMutex.Unlock()

	snapshot := make([]*Device, len(devices))
	copy(snapshot, devices)
	return snapshot
}

// Lookup returns the registered device with the given name.
func Lookup(name string) (*Device, error) {
	deviceMutex.Lock()
	defer deviceMutex.Unlock()

	for _, d := range devices {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, errors.Errorf("invalid device name: %q", name)
}

// FieldSet returns the union of the field lists of the given devices,
// preserving first-seen order.
func FieldSet(devs []*Device) []string {
	var fields []string
	seen := make(map[string]bool)
	for _, d := range devs {
		for _, f := range d.Fields {
			if !seen[f] {
				seen[f] = true
				fields = append(fields, f)
			}
		}
	}
	return fields
}

// Stats counts decode outcomes per device.
type Stats struct {
	Events      int
	AbortEarly  int
	AbortLength int
	FailSanity  int
	FailMIC     int
	Errors      int
}

// A Runner dispatches bitbuffers over a set of devices and accumulates
// per-device statistics.
type Runner struct {
	devs  []*Device
	stats map[string]*Stats
}

// NewRunner returns a runner over the enabled subset of the given devices.
// Devices with a priority run after all others.
func NewRunner(devs []*Device) *Runner {
	r := &Runner{stats: make(map[string]*Stats)}
	for _, d := range devs {
		if d.Disabled || d.Priority > 0 {
			continue
		}
		r.devs = append(r.devs, d)
		r.stats[d.Name] = &Stats{}
	}
	for _, d := range devs {
		if d.Disabled || d.Priority == 0 {
			continue
		}
		r.devs = append(r.devs, d)
		r.stats[d.Name] = &Stats{}
	}
	return r
}

// Run offers the bitbuffer to every enabled device and returns all decoded
// records. Devices with Priority > 0 only run if no device before them
// produced an event.
func (r *Runner) Run(buf *bitbuffer.Buffer) []*data.Data {
	var records []*data.Data
	events := 0

	for _, d := range r.devs {
		if d.Priority > 0 && events > 0 {
			continue
		}

		s := r.stats[d.Name]
		recs, err := d.Decode(d, buf)
		if err != nil {
			switch errors.Cause(err) {
			case ErrAbortEarly:
				s.AbortEarly++
			case ErrAbortLength:
				s.AbortLength++
			case ErrFailSanity:
				s.FailSanity++
				log.WithFields(log.Fields{"device": d.Name}).Debug(err)
			case ErrFailMIC:
				s.FailMIC++
				log.WithFields(log.Fields{"device": d.Name}).Debug(err)
			default:
				s.Errors++
				log.WithFields(log.Fields{"device": d.Name}).Warn(err)
			}
			continue
		}

		s.Events += len(recs)
		events += len(recs)
		records = append(records, recs...)
	}

	return records
}

// Stats returns the accumulated statistics for the named device.
func (r *Runner) Stats(name string) Stats {
	if s, ok := r.stats[name]; ok {
		return *s
	}
	return Stats{}
}

// LogStats emits one summary line per device that saw any activity.
func (r *Runner) LogStats() {
	for _, d := range r.devs {
		s := r.stats[d.Name]
		if *s == (Stats{}) {
			continue
		}
		log.WithFields(log.Fields{
			"device": d.Name,
			"events": s.Events,
			"abort":  s.AbortEarly + s.AbortLength,
			"sanity": s.FailSanity,
			"mic":    s.FailMIC,
			"errors": s.Errors,
		}).Info("decoder stats")
	}
}
