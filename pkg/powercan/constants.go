// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

// Package powercan implements the CAN protocol spoken by the robot's
// power-distribution board.
//
// The board sits on a dedicated 1 Mbps CAN bus at a fixed address and
// controls power to each limb. This package provides identifier and
// frame encoding/decoding, fault decoding, and a Session that runs the
// query/response and auto-report exchanges over a canlink.Transport.
package powercan

import "time"

// BoardAddress is the power board's fixed target address, carried in the
// low 8 bits of every 29-bit identifier.
const BoardAddress = 0xAA

// MessageType is a power-board message kind. The identifier reserves a
// 13-bit code space; only the four values below are valid.
type MessageType uint16

const (
	MsgControl   MessageType = 0x1001 // host -> board control flags
	MsgQuery     MessageType = 0x1002 // host -> board status request
	MsgStatus    MessageType = 0x1003 // board -> host voltages, current, faults
	MsgPowerData MessageType = 0x1004 // board -> host per-limb power
)

// Identifier field layout: bits[7:0] target address, bits[20:8] message
// type, bits[28:21] reserved.
const (
	addressMask  = 0xFF
	typeMask     = 0x1FFF
	typeShift    = 8
	reservedMask = 0xFF << 21
)

// Every frame carries exactly 8 data bytes.
const frameLen = 8

// Telemetry fields are unsigned 16-bit big-endian values scaled by 100
// (raw 12345 = 123.45 of the physical unit).
const fieldScale = 100.0

// Protocol timing.
const (
	// Bitrate is the bus rate the board is specified at.
	Bitrate = 1000000

	// DefaultQueryTimeout bounds a full query/response exchange.
	DefaultQueryTimeout = 1 * time.Second

	// queryReceiveWait bounds each receive while waiting for a Status
	// response.
	queryReceiveWait = 100 * time.Millisecond

	// streamReceiveWait bounds each receive in auto-report mode; it is
	// also how often the loop notices cancellation.
	streamReceiveWait = 500 * time.Millisecond
)
