// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

// Package teleop sends velocity commands to the robot's locomotion
// controller as JSON datagrams over UDP.
package teleop

import (
	"encoding/json"
	"fmt"
)

// ControlVector is one velocity command. Positive XVel is forward,
// positive YVel is robot-left, positive YawRate is counter-clockwise.
type ControlVector struct {
	XVel    float64 `json:"XVel"`
	YVel    float64 `json:"YVel"`
	YawRate float64 `json:"YawRate"`
}

// Marshal renders the newline-terminated JSON datagram the controller
// expects.
func (v ControlVector) Marshal() ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("teleop: marshal control vector: %w", err)
	}
	return append(b, '\n'), nil
}

// ParseControlVector decodes a datagram produced by Marshal. The
// trailing newline is optional.
func ParseControlVector(data []byte) (ControlVector, error) {
	var v ControlVector
	if err := json.Unmarshal(data, &v); err != nil {
		return ControlVector{}, fmt.Errorf("teleop: parse control vector: %w", err)
	}
	return v, nil
}
