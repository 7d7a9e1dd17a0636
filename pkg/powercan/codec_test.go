// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

package powercan

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeID(t *testing.T) {
	tests := []struct {
		msgType MessageType
		want    uint32
	}{
		{MsgControl, 0x001001AA},
		{MsgQuery, 0x001002AA},
		{MsgStatus, 0x001003AA},
		{MsgPowerData, 0x001004AA},
	}

	for _, tt := range tests {
		if got := EncodeID(tt.msgType); got != tt.want {
			t.Errorf("EncodeID(0x%04X) = 0x%08X, want 0x%08X", uint16(tt.msgType), got, tt.want)
		}
	}
}

func TestDecodeID_RoundTrip(t *testing.T) {
	for _, mt := range []MessageType{MsgControl, MsgQuery, MsgStatus, MsgPowerData} {
		addr, code := DecodeID(EncodeID(mt))
		if addr != BoardAddress {
			t.Errorf("addr = 0x%02X, want 0x%02X", addr, BoardAddress)
		}
		if MessageType(code) != mt {
			t.Errorf("code = 0x%04X, want 0x%04X", code, uint16(mt))
		}
	}
}

func TestMessageTypeFromCode(t *testing.T) {
	for _, mt := range []MessageType{MsgControl, MsgQuery, MsgStatus, MsgPowerData} {
		got, ok := MessageTypeFromCode(uint16(mt))
		if !ok || got != mt {
			t.Errorf("MessageTypeFromCode(0x%04X) = (0x%04X, %v)", uint16(mt), uint16(got), ok)
		}
	}
	if _, ok := MessageTypeFromCode(0x1005); ok {
		t.Error("0x1005 should not be a known type")
	}
}

func TestEncodeControl(t *testing.T) {
	tests := []struct {
		name     string
		settings ControlSettings
		want     []byte
	}{
		{"all off", ControlSettings{}, []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		{"clear faults only", ControlSettings{ClearFaults: true}, []byte{0, 0, 0, 0, 0, 1, 0, 0}},
		{"restart only", ControlSettings{Restart: true}, []byte{0, 0, 0, 0, 1, 0, 0, 0}},
		{"auto report only", ControlSettings{AutoReport: true}, []byte{0, 0, 0, 0, 0, 0, 1, 0}},
		{
			"all on",
			ControlSettings{
				Fan: true, Precharge: true, MotorOutput: true, MainControl: true,
				Restart: true, ClearFaults: true, AutoReport: true, Reserved: true,
			},
			[]byte{1, 1, 1, 1, 1, 1, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeControl(tt.settings); !bytes.Equal(got, tt.want) {
				t.Errorf("EncodeControl() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestEncodeQuery(t *testing.T) {
	if got := EncodeQuery(); !bytes.Equal(got, make([]byte, 8)) {
		t.Errorf("EncodeQuery() = % X, want eight zeros", got)
	}
}

func TestDecodeStatus(t *testing.T) {
	// vbus 123.45 V, vmbus 100.16 V, 1.00 A, faults bits 0 and 2
	data := []byte{0x30, 0x39, 0x27, 0x10, 0x00, 0x64, 0x00, 0x05}
	s, err := DecodeStatus(data)
	if err != nil {
		t.Fatalf("DecodeStatus: %v", err)
	}
	if s.BatteryVoltage != 123.45 {
		t.Errorf("BatteryVoltage = %v, want 123.45", s.BatteryVoltage)
	}
	if s.MotorVoltage != 100.16 {
		t.Errorf("MotorVoltage = %v, want 100.16", s.MotorVoltage)
	}
	if s.SamplingCurrent != 1.00 {
		t.Errorf("SamplingCurrent = %v, want 1.00", s.SamplingCurrent)
	}
	if s.FaultStatus != 5 {
		t.Errorf("FaultStatus = %d, want 5", s.FaultStatus)
	}

	faults := s.Faults()
	if len(faults) != 2 || faults[0] != FaultPowerChipOvercurrent || faults[1] != FaultPowerChipShortCircuit {
		t.Errorf("Faults() = %v, want [overcurrent, short circuit]", faults)
	}
}

func TestDecodeStatus_Short(t *testing.T) {
	_, err := DecodeStatus(make([]byte, 7))
	if !errors.Is(err, ErrShortFrame) {
		t.Errorf("err = %v, want ErrShortFrame", err)
	}
}

func TestDecodeStatus_LongPayloadIgnored(t *testing.T) {
	// Trailing bytes beyond 8 are ignored, not rejected.
	data := append([]byte{0x30, 0x39, 0x27, 0x10, 0x00, 0x64, 0x00, 0x00}, 0xFF, 0xFF)
	s, err := DecodeStatus(data)
	if err != nil {
		t.Fatalf("DecodeStatus: %v", err)
	}
	if s.FaultStatus != 0 {
		t.Errorf("FaultStatus = %d, want 0", s.FaultStatus)
	}
}

func TestDecodePower(t *testing.T) {
	data := []byte{0x03, 0xE8, 0x03, 0xE8, 0x01, 0xF4, 0x01, 0xF4}
	p, err := DecodePower(data)
	if err != nil {
		t.Fatalf("DecodePower: %v", err)
	}
	if p.LeftLeg != 10 || p.RightLeg != 10 || p.LeftArm != 5 || p.RightArm != 5 {
		t.Errorf("reading = %+v, want 10/10/5/5", p)
	}
	if p.Total() != 30 {
		t.Errorf("Total() = %v, want 30", p.Total())
	}
}

func TestDecodePower_Short(t *testing.T) {
	_, err := DecodePower(nil)
	if !errors.Is(err, ErrShortFrame) {
		t.Errorf("err = %v, want ErrShortFrame", err)
	}
}

func TestFaultString(t *testing.T) {
	if got := FaultVbusUndervoltage.String(); got != "bus undervoltage" {
		t.Errorf("String() = %q", got)
	}
	if got := Fault(200).String(); got != "unknown fault" {
		t.Errorf("String() = %q", got)
	}
}

func TestFormatFaults(t *testing.T) {
	s := StatusReading{FaultStatus: 0}
	if got := FormatFaults(s); got != "none" {
		t.Errorf("FormatFaults = %q, want none", got)
	}
	s.FaultStatus = 1<<FaultVbusOvervoltage | 1<<FaultPowerChipOvertemp
	want := "power chip overtemperature, bus overvoltage"
	if got := FormatFaults(s); got != want {
		t.Errorf("FormatFaults = %q, want %q", got, want)
	}
}
