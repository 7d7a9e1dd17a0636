// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

package canlink

import (
	"bytes"
	"testing"
)

func TestFrame_Validate(t *testing.T) {
	tests := []struct {
		name    string
		frame   Frame
		wantErr error
	}{
		{"standard ok", Frame{ID: 0x7FF, Data: []byte{1}}, nil},
		{"standard too big", Frame{ID: 0x800}, ErrInvalidID},
		{"extended ok", Frame{ID: 0x1FFFFFFF, Extended: true}, nil},
		{"extended too big", Frame{ID: 0x20000000, Extended: true}, ErrInvalidID},
		{"too much data", Frame{ID: 1, Data: make([]byte, 9)}, ErrInvalidLen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.frame.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFrame_MarshalBinary_Extended(t *testing.T) {
	f := Frame{
		ID:       0x11AAAA, // addr 0xAA, type 0x11AA
		Extended: true,
		Data:     []byte{1, 2, 3, 4, 5, 6, 7, 8},
	}
	raw, err := f.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(raw) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(raw))
	}
	// can_id is little-endian with the EFF flag in bit 31
	if raw[3]&0x80 == 0 {
		t.Error("EFF flag not set for extended frame")
	}
	if raw[4] != 8 {
		t.Errorf("DLC = %d, want 8", raw[4])
	}
	if !bytes.Equal(raw[8:16], f.Data) {
		t.Errorf("data = % X, want % X", raw[8:16], f.Data)
	}
}

func TestFrame_MarshalRoundTrip(t *testing.T) {
	orig := Frame{ID: 0x1002AA, Extended: true, Data: []byte{0, 0, 0, 0, 0, 0, 0, 0}}
	raw, err := orig.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	var got Frame
	if err := got.UnmarshalBinary(raw); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got.ID != orig.ID {
		t.Errorf("ID = 0x%X, want 0x%X", got.ID, orig.ID)
	}
	if !got.Extended {
		t.Error("Extended flag lost in round trip")
	}
	if !bytes.Equal(got.Data, orig.Data) {
		t.Errorf("data = % X, want % X", got.Data, orig.Data)
	}
}

func TestFrame_UnmarshalBinary_Short(t *testing.T) {
	var f Frame
	if err := f.UnmarshalBinary(make([]byte, 15)); err == nil {
		t.Error("expected error for short buffer")
	}
}

func TestFrame_UnmarshalBinary_RTR(t *testing.T) {
	raw := make([]byte, 16)
	raw[3] = 0x40 // RTR flag
	var f Frame
	if err := f.UnmarshalBinary(raw); err == nil {
		t.Error("expected error for RTR frame")
	}
}

func TestFrame_UnmarshalBinary_ClampsDLC(t *testing.T) {
	raw := make([]byte, 16)
	raw[4] = 15 // bogus DLC from a misbehaving bridge
	var f Frame
	if err := f.UnmarshalBinary(raw); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if len(f.Data) != 8 {
		t.Errorf("data length = %d, want clamped to 8", len(f.Data))
	}
}
