// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

// Package canlink provides CAN frame types and transport implementations
// for talking to devices on a Controller Area Network.
//
// Three transports are provided: raw SocketCAN (Linux), SLCAN over a
// serial adapter, and a WebSocket bridge carrying SocketCAN-framed
// binary messages. All transports expose the same Transport interface
// with a bounded-wait receive.
package canlink

import (
	"errors"
	"time"
)

// Transport is a connection to a CAN bus.
//
// Implementations guarantee that concurrent Sends are safe. Concurrent
// Receives on the same transport are not; only one goroutine may receive
// at a time.
type Transport interface {
	// Send transmits a single frame.
	Send(Frame) error

	// Receive waits up to the given duration for the next frame.
	// It returns ok=false when no frame arrived within the wait,
	// which is not an error.
	Receive(wait time.Duration) (f Frame, ok bool, err error)

	// Close releases the underlying channel. Further Send/Receive
	// calls return ErrClosed.
	Close() error
}

// ErrClosed indicates the transport has been closed.
var ErrClosed = errors.New("canlink: transport closed")
