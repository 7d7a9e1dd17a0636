// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

package powercan

import "time"

// StatusReading is a decoded Status frame.
type StatusReading struct {
	BatteryVoltage  float64 // volts, vbus
	MotorVoltage    float64 // volts, vmbus
	SamplingCurrent float64 // amps
	FaultStatus     uint16  // raw fault bitmask
}

// Fault is a single fault bit position in the Status fault bitmask.
type Fault uint8

const (
	FaultPowerChipOvercurrent Fault = iota
	FaultPowerChipOvertemp
	FaultPowerChipShortCircuit
	FaultSamplingOvercurrent
	FaultVbusOvervoltage
	FaultVbusUndervoltage
	FaultVmbusOvervoltage
	FaultVmbusUndervoltage

	faultCount
)

var faultNames = [faultCount]string{
	"power chip overcurrent",
	"power chip overtemperature",
	"power chip short circuit",
	"sampling overcurrent",
	"bus overvoltage",
	"bus undervoltage",
	"motor bus overvoltage",
	"motor bus undervoltage",
}

func (f Fault) String() string {
	if f < faultCount {
		return faultNames[f]
	}
	return "unknown fault"
}

// Faults expands the fault bitmask into the set of active faults, in bit
// order. Bits above the defined range are ignored; the board does not
// set them today.
func (s StatusReading) Faults() []Fault {
	var active []Fault
	for bit := Fault(0); bit < faultCount; bit++ {
		if s.FaultStatus&(1<<bit) != 0 {
			active = append(active, bit)
		}
	}
	return active
}

// Faulted reports whether any fault bit is set.
func (s StatusReading) Faulted() bool {
	return s.FaultStatus != 0
}

// PowerReading is a decoded PowerData frame: per-limb power draw in
// watts.
type PowerReading struct {
	LeftLeg  float64
	RightLeg float64
	LeftArm  float64
	RightArm float64
}

// Total returns the combined power draw of all four limbs.
func (p PowerReading) Total() float64 {
	return p.LeftLeg + p.RightLeg + p.LeftArm + p.RightArm
}

// Snapshot is the last-known telemetry state assembled from a stream of
// Status and PowerData frames. Status and Power are nil until the first
// frame of each kind arrives; Updated is the receive time of whichever
// frame arrived last.
type Snapshot struct {
	Status  *StatusReading
	Power   *PowerReading
	Updated time.Time
}
