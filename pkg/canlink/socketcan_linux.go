// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

package canlink

import (
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// SocketCAN is a Transport backed by a raw AF_CAN socket bound to one
// network interface. The interface must already be up at the desired
// bitrate (e.g. `ip link set can3 up type can bitrate 1000000`).
type SocketCAN struct {
	fd     int
	name   string
	sendMu sync.Mutex
	closed bool
	mu     sync.Mutex // guards closed
}

// OpenSocketCAN opens a raw CAN socket on the named interface.
func OpenSocketCAN(ifname string) (*SocketCAN, error) {
	iface, err := net.InterfaceByName(ifname)
	if err != nil {
		return nil, fmt.Errorf("canlink: interface %s: %w", ifname, err)
	}

	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW, unix.CAN_RAW)
	if err != nil {
		return nil, fmt.Errorf("canlink: socket: %w", err)
	}

	if err := unix.Bind(fd, &unix.SockaddrCAN{Ifindex: iface.Index}); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("canlink: bind %s: %w", ifname, err)
	}

	return &SocketCAN{fd: fd, name: ifname}, nil
}

// Name returns the bound interface name.
func (s *SocketCAN) Name() string {
	return s.name
}

func (s *SocketCAN) Send(f Frame) error {
	if s.isClosed() {
		return ErrClosed
	}
	raw, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if _, err := unix.Write(s.fd, raw); err != nil {
		return fmt.Errorf("canlink: write %s: %w", s.name, err)
	}
	return nil
}

func (s *SocketCAN) Receive(wait time.Duration) (Frame, bool, error) {
	if s.isClosed() {
		return Frame{}, false, ErrClosed
	}

	ms := int(wait / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, ms)
	if err != nil {
		if err == unix.EINTR {
			return Frame{}, false, nil
		}
		return Frame{}, false, fmt.Errorf("canlink: poll %s: %w", s.name, err)
	}
	if n == 0 {
		return Frame{}, false, nil
	}

	raw := make([]byte, frameSize)
	if _, err := unix.Read(s.fd, raw); err != nil {
		return Frame{}, false, fmt.Errorf("canlink: read %s: %w", s.name, err)
	}
	var f Frame
	if err := f.UnmarshalBinary(raw); err != nil {
		// RTR or truncated frame on the bus; treat as no frame.
		return Frame{}, false, nil
	}
	return f, true, nil
}

func (s *SocketCAN) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return unix.Close(s.fd)
}

func (s *SocketCAN) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
