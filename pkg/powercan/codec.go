// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

package powercan

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortFrame indicates a Status or PowerData payload shorter than the
// fixed 8 bytes.
var ErrShortFrame = errors.New("powercan: frame payload shorter than 8 bytes")

// EncodeID builds the 29-bit identifier addressing the power board for
// the given message type. The extended-frame marker is not part of the
// identifier value; it travels as the frame's Extended flag (SocketCAN
// EFF bit on the wire).
func EncodeID(t MessageType) uint32 {
	return uint32(BoardAddress) | (uint32(t)&typeMask)<<typeShift
}

// DecodeID extracts the target address and message type code from a raw
// 29-bit identifier. It performs no validation; callers decide whether
// the address and code are interesting.
func DecodeID(raw uint32) (addr uint8, code uint16) {
	return uint8(raw & addressMask), uint16((raw >> typeShift) & typeMask)
}

// MessageTypeFromCode maps a 13-bit type code to a MessageType.
// ok is false for the codes outside the four defined values; such frames
// are expected on a shared bus and are simply not for us.
func MessageTypeFromCode(code uint16) (MessageType, bool) {
	switch MessageType(code) {
	case MsgControl, MsgQuery, MsgStatus, MsgPowerData:
		return MessageType(code), true
	}
	return 0, false
}

// ControlSettings are the eight flag bytes of a Control frame, in wire
// order. Each maps to one payload byte (0 or 1).
type ControlSettings struct {
	Fan         bool // cooling fan
	Precharge   bool // precharge voltage
	MotorOutput bool // output to motors
	MainControl bool // main control
	Restart     bool // restart the board
	ClearFaults bool // clear latched fault bits
	AutoReport  bool // periodic Status/PowerData emission
	Reserved    bool
}

// EncodeControl serializes control settings into the 8-byte Control
// payload.
func EncodeControl(c ControlSettings) []byte {
	data := make([]byte, frameLen)
	for i, flag := range []bool{
		c.Fan, c.Precharge, c.MotorOutput, c.MainControl,
		c.Restart, c.ClearFaults, c.AutoReport, c.Reserved,
	} {
		if flag {
			data[i] = 1
		}
	}
	return data
}

// EncodeQuery returns the 8 zero bytes of a Query payload.
func EncodeQuery() []byte {
	return make([]byte, frameLen)
}

// DecodeStatus parses a Status payload: battery voltage, motor voltage,
// sampling current (each uint16 BE / 100) and the fault bitmask.
func DecodeStatus(data []byte) (StatusReading, error) {
	if len(data) < frameLen {
		return StatusReading{}, fmt.Errorf("%w: status frame has %d", ErrShortFrame, len(data))
	}
	return StatusReading{
		BatteryVoltage:  float64(binary.BigEndian.Uint16(data[0:2])) / fieldScale,
		MotorVoltage:    float64(binary.BigEndian.Uint16(data[2:4])) / fieldScale,
		SamplingCurrent: float64(binary.BigEndian.Uint16(data[4:6])) / fieldScale,
		FaultStatus:     binary.BigEndian.Uint16(data[6:8]),
	}, nil
}

// DecodePower parses a PowerData payload: per-limb power in watts, each
// uint16 BE / 100.
func DecodePower(data []byte) (PowerReading, error) {
	if len(data) < frameLen {
		return PowerReading{}, fmt.Errorf("%w: power frame has %d", ErrShortFrame, len(data))
	}
	return PowerReading{
		LeftLeg:  float64(binary.BigEndian.Uint16(data[0:2])) / fieldScale,
		RightLeg: float64(binary.BigEndian.Uint16(data[2:4])) / fieldScale,
		LeftArm:  float64(binary.BigEndian.Uint16(data[4:6])) / fieldScale,
		RightArm: float64(binary.BigEndian.Uint16(data[6:8])) / fieldScale,
	}, nil
}
