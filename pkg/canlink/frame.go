// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

package canlink

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Frame represents a classical CAN 2.0 frame with a standard (11-bit)
// or extended (29-bit) identifier and up to 8 data bytes.
type Frame struct {
	ID       uint32 // 11-bit (std) or 29-bit (ext), without flag bits
	Extended bool   // true for a 29-bit identifier
	Data     []byte // 0..8 bytes
}

// Identifier limits and can_id flag bits (Linux SocketCAN layout).
const (
	MaxStandardID = 0x7FF
	MaxExtendedID = 0x1FFFFFFF

	effFlag = 0x80000000 // extended frame format
	rtrFlag = 0x40000000 // remote transmission request

	frameSize = 16 // sizeof(struct can_frame)
)

var (
	ErrInvalidID  = errors.New("canlink: invalid identifier")
	ErrInvalidLen = errors.New("canlink: invalid data length")
)

// Validate returns an error if the frame cannot be put on the wire.
func (f Frame) Validate() error {
	if len(f.Data) > 8 {
		return ErrInvalidLen
	}
	if f.Extended {
		if f.ID > MaxExtendedID {
			return ErrInvalidID
		}
	} else if f.ID > MaxStandardID {
		return ErrInvalidID
	}
	return nil
}

// MarshalBinary encodes the frame to the Linux SocketCAN struct can_frame
// layout (16 bytes, little-endian can_id with EFF flag). This is the format
// written to a raw CAN socket and carried over the WebSocket bridge.
func (f Frame) MarshalBinary() ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	id := f.ID
	if f.Extended {
		id |= effFlag
	}
	buf := make([]byte, frameSize)
	binary.LittleEndian.PutUint32(buf[0:4], id)
	buf[4] = byte(len(f.Data))
	copy(buf[8:], f.Data)
	return buf, nil
}

// UnmarshalBinary decodes a frame from the struct can_frame layout.
// RTR and error frames are rejected; the protocol has no use for them.
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < frameSize {
		return fmt.Errorf("canlink: need %d bytes, got %d", frameSize, len(data))
	}
	id := binary.LittleEndian.Uint32(data[0:4])
	if id&rtrFlag != 0 {
		return fmt.Errorf("canlink: unexpected RTR frame")
	}
	f.Extended = id&effFlag != 0
	if f.Extended {
		f.ID = id & MaxExtendedID
	} else {
		f.ID = id & MaxStandardID
	}
	dlc := int(data[4])
	if dlc > 8 {
		dlc = 8
	}
	f.Data = append(f.Data[:0], data[8:8+dlc]...)
	return nil
}
