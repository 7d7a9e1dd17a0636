// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

package canlink

import (
	"bytes"
	"testing"
)

func TestEncodeSLCAN_Extended(t *testing.T) {
	f := Frame{
		ID:       0x1003AA,
		Extended: true,
		Data:     []byte{0x30, 0x39, 0x27, 0x10, 0x00, 0x64, 0x00, 0x05},
	}
	line, err := EncodeSLCAN(f)
	if err != nil {
		t.Fatalf("EncodeSLCAN: %v", err)
	}
	if line != "T001003AA83039271000640005\r" {
		t.Errorf("line = %q", line)
	}
}

func TestEncodeSLCAN_Standard(t *testing.T) {
	f := Frame{ID: 0x123, Data: []byte{0xAB}}
	line, err := EncodeSLCAN(f)
	if err != nil {
		t.Fatalf("EncodeSLCAN: %v", err)
	}
	if line != "t1231AB\r" {
		t.Errorf("line = %q, want t1231AB<CR>", line)
	}
}

func TestDecodeSLCAN_RoundTrip(t *testing.T) {
	orig := Frame{
		ID:       0x1004AA,
		Extended: true,
		Data:     []byte{0x03, 0xE8, 0x03, 0xE8, 0x01, 0xF4, 0x01, 0xF4},
	}
	line, err := EncodeSLCAN(orig)
	if err != nil {
		t.Fatalf("EncodeSLCAN: %v", err)
	}

	got, err := DecodeSLCAN(line[:len(line)-1]) // strip CR
	if err != nil {
		t.Fatalf("DecodeSLCAN: %v", err)
	}
	if got.ID != orig.ID || !got.Extended {
		t.Errorf("identifier = 0x%X ext=%v, want 0x%X ext=true", got.ID, got.Extended, orig.ID)
	}
	if !bytes.Equal(got.Data, orig.Data) {
		t.Errorf("data = % X, want % X", got.Data, orig.Data)
	}
}

func TestDecodeSLCAN_Rejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"ack", "z"},
		{"version response", "V1013"},
		{"remote frame", "R001003AA0"},
		{"short extended", "T1234"},
		{"bad dlc", "t123X"},
		{"truncated data", "t1232AB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeSLCAN(tt.line); err == nil {
				t.Errorf("DecodeSLCAN(%q) succeeded, want error", tt.line)
			}
		})
	}
}

func TestSLCAN_LineSplitter(t *testing.T) {
	s := &SLCAN{}

	// Frames arrive in arbitrary chunks, mixed with command acks.
	s.appendBytes([]byte("\rt12"))
	if _, ok := s.nextLine(); ok {
		t.Error("bare CR should not produce a line")
	}
	s.appendBytes([]byte("31AB\rT001003AA8"))
	line, ok := s.nextLine()
	if !ok || line != "t1231AB" {
		t.Fatalf("line = %q ok=%v, want t1231AB", line, ok)
	}
	s.appendBytes([]byte("3039271000640005\r\a"))
	line, ok = s.nextLine()
	if !ok || line != "T001003AA83039271000640005" {
		t.Fatalf("line = %q ok=%v", line, ok)
	}
	if _, ok := s.nextLine(); ok {
		t.Error("no further lines expected")
	}
}
