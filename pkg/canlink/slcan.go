// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

package canlink

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

// SLCAN is a Transport backed by a serial CAN adapter speaking the
// SLCAN (LAWICEL) ASCII protocol. The adapter's channel is opened at
// the requested CAN bitrate when the transport is created and closed
// again on Close.
type SLCAN struct {
	port   serial.Port
	name   string
	sendMu sync.Mutex
	buf    []byte
	lines  []string
	closed bool
	mu     sync.Mutex
}

// slcanBitrates maps CAN bitrates to SLCAN setup codes (S0..S8).
var slcanBitrates = map[int]byte{
	10000:   '0',
	20000:   '1',
	50000:   '2',
	100000:  '3',
	125000:  '4',
	250000:  '5',
	500000:  '6',
	800000:  '7',
	1000000: '8',
}

// OpenSLCAN opens a serial SLCAN adapter and brings up its CAN channel.
func OpenSLCAN(device string, serialBaud, canBitrate int) (*SLCAN, error) {
	code, ok := slcanBitrates[canBitrate]
	if !ok {
		return nil, fmt.Errorf("canlink: unsupported CAN bitrate %d", canBitrate)
	}

	mode := &serial.Mode{
		BaudRate: serialBaud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("canlink: open %s: %w", device, err)
	}

	s := &SLCAN{port: port, name: device}

	// Close any stale channel, set bitrate, open.
	for _, cmd := range []string{"C\r", "S" + string(code) + "\r", "O\r"} {
		if _, err := port.Write([]byte(cmd)); err != nil {
			port.Close()
			return nil, fmt.Errorf("canlink: slcan setup %s: %w", device, err)
		}
	}

	return s, nil
}

// Name returns the serial device path.
func (s *SLCAN) Name() string {
	return s.name
}

func (s *SLCAN) Send(f Frame) error {
	if s.isClosed() {
		return ErrClosed
	}
	line, err := EncodeSLCAN(f)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if _, err := s.port.Write([]byte(line)); err != nil {
		return fmt.Errorf("canlink: write %s: %w", s.name, err)
	}
	return nil
}

func (s *SLCAN) Receive(wait time.Duration) (Frame, bool, error) {
	if s.isClosed() {
		return Frame{}, false, ErrClosed
	}

	deadline := time.Now().Add(wait)
	for {
		if line, ok := s.nextLine(); ok {
			f, err := DecodeSLCAN(line)
			if err != nil {
				// Command ack or unsupported frame type; skip it.
				continue
			}
			return f, true, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return Frame{}, false, nil
		}
		if err := s.port.SetReadTimeout(remaining); err != nil {
			return Frame{}, false, fmt.Errorf("canlink: %s: %w", s.name, err)
		}
		chunk := make([]byte, 256)
		n, err := s.port.Read(chunk)
		if err != nil {
			return Frame{}, false, fmt.Errorf("canlink: read %s: %w", s.name, err)
		}
		if n == 0 {
			// Read timeout.
			return Frame{}, false, nil
		}
		s.appendBytes(chunk[:n])
	}
}

// appendBytes feeds raw serial bytes into the line splitter.
func (s *SLCAN) appendBytes(b []byte) {
	s.buf = append(s.buf, b...)
	for {
		i := -1
		for j, c := range s.buf {
			if c == '\r' || c == '\a' {
				i = j
				break
			}
		}
		if i < 0 {
			return
		}
		if i > 0 {
			s.lines = append(s.lines, string(s.buf[:i]))
		}
		s.buf = s.buf[i+1:]
	}
}

func (s *SLCAN) nextLine() (string, bool) {
	if len(s.lines) == 0 {
		return "", false
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, true
}

func (s *SLCAN) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.port.Write([]byte("C\r")) // best effort channel close
	return s.port.Close()
}

func (s *SLCAN) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// EncodeSLCAN converts a frame into the ASCII SLCAN line that adapters
// expect: 'T'+8 hex digits for extended identifiers, 't'+3 for standard,
// followed by the DLC digit, hex data bytes, and a carriage return.
func EncodeSLCAN(f Frame) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	if f.Extended {
		b.WriteByte('T')
		fmt.Fprintf(&b, "%08X", f.ID)
	} else {
		b.WriteByte('t')
		fmt.Fprintf(&b, "%03X", f.ID)
	}
	b.WriteByte('0' + byte(len(f.Data)))
	for _, d := range f.Data {
		fmt.Fprintf(&b, "%02X", d)
	}
	b.WriteByte('\r')
	return b.String(), nil
}

// DecodeSLCAN parses one SLCAN line (without the trailing CR) into a
// frame. Lines that are not data frames return an error.
func DecodeSLCAN(line string) (Frame, error) {
	if len(line) == 0 {
		return Frame{}, fmt.Errorf("canlink: empty slcan line")
	}

	var f Frame
	var idLen int
	switch line[0] {
	case 'T':
		f.Extended = true
		idLen = 8
	case 't':
		idLen = 3
	default:
		return Frame{}, fmt.Errorf("canlink: not a data frame: %q", line[0])
	}

	if len(line) < 1+idLen+1 {
		return Frame{}, fmt.Errorf("canlink: short slcan line %q", line)
	}
	id, err := strconv.ParseUint(line[1:1+idLen], 16, 32)
	if err != nil {
		return Frame{}, fmt.Errorf("canlink: bad slcan identifier %q: %w", line, err)
	}
	f.ID = uint32(id)

	dlc := int(line[1+idLen] - '0')
	if dlc < 0 || dlc > 8 {
		return Frame{}, fmt.Errorf("canlink: bad slcan DLC in %q", line)
	}
	hexData := line[1+idLen+1:]
	if len(hexData) < dlc*2 {
		return Frame{}, fmt.Errorf("canlink: truncated slcan data in %q", line)
	}
	f.Data = make([]byte, dlc)
	for i := 0; i < dlc; i++ {
		v, err := strconv.ParseUint(hexData[i*2:i*2+2], 16, 8)
		if err != nil {
			return Frame{}, fmt.Errorf("canlink: bad slcan data in %q: %w", line, err)
		}
		f.Data[i] = byte(v)
	}
	return f, nil
}
