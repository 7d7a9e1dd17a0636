// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

package powercan

import (
	"fmt"
	"strings"

	"github.com/kbotics/pdbctl/pkg/canlink"
)

// FormatMessageType returns a short human-readable name for a type code.
func FormatMessageType(code uint16) string {
	switch MessageType(code) {
	case MsgControl:
		return "CONTROL"
	case MsgQuery:
		return "QUERY"
	case MsgStatus:
		return "STATUS"
	case MsgPowerData:
		return "POWER"
	}
	return fmt.Sprintf("UNKNOWN(0x%04X)", code)
}

// FormatStatus renders a status reading on one line.
func FormatStatus(s StatusReading) string {
	return fmt.Sprintf("vbus=%.2fV vmbus=%.2fV current=%.2fA faults=%s",
		s.BatteryVoltage, s.MotorVoltage, s.SamplingCurrent, FormatFaults(s))
}

// FormatFaults renders the active faults as a comma-separated list, or
// "none".
func FormatFaults(s StatusReading) string {
	if !s.Faulted() {
		return "none"
	}
	faults := s.Faults()
	names := make([]string, len(faults))
	for i, f := range faults {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

// FormatPower renders a power reading on one line.
func FormatPower(p PowerReading) string {
	return fmt.Sprintf("left-leg=%.2fW right-leg=%.2fW left-arm=%.2fW right-arm=%.2fW total=%.2fW",
		p.LeftLeg, p.RightLeg, p.LeftArm, p.RightArm, p.Total())
}

// FormatFrame renders any bus frame for log output, decoding payloads of
// the message types we know.
func FormatFrame(f canlink.Frame) string {
	addr, code := DecodeID(f.ID)
	header := fmt.Sprintf("id=0x%08X addr=0x%02X type=%s", f.ID, addr, FormatMessageType(code))

	if addr == BoardAddress {
		switch MessageType(code) {
		case MsgStatus:
			if s, err := DecodeStatus(f.Data); err == nil {
				return header + " " + FormatStatus(s)
			}
		case MsgPowerData:
			if p, err := DecodePower(f.Data); err == nil {
				return header + " " + FormatPower(p)
			}
		}
	}
	return fmt.Sprintf("%s data=[% X]", header, f.Data)
}
