// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

//go:build !linux

package canlink

import (
	"fmt"
	"time"
)

// SocketCAN is only available on Linux. Use the SLCAN or WebSocket
// transport on other platforms.
type SocketCAN struct{}

func OpenSocketCAN(ifname string) (*SocketCAN, error) {
	return nil, fmt.Errorf("canlink: SocketCAN is not supported on this platform")
}

func (s *SocketCAN) Name() string { return "" }

func (s *SocketCAN) Send(Frame) error { return ErrClosed }

func (s *SocketCAN) Receive(time.Duration) (Frame, bool, error) {
	return Frame{}, false, ErrClosed
}

func (s *SocketCAN) Close() error { return nil }
