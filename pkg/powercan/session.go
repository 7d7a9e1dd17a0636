// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

package powercan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kbotics/pdbctl/pkg/canlink"
)

// ErrNoResponse indicates the board sent no Status frame within the
// query timeout.
var ErrNoResponse = errors.New("powercan: no response from power board")

// Session runs the power-board exchanges over a transport.
//
// Sends may be issued from any goroutine (the transport serializes
// them), but only one goroutine may be inside QueryStatus or Stream at a
// time: both consume the transport's single receive path.
type Session struct {
	tr  canlink.Transport
	log zerolog.Logger

	// now is swapped out in tests.
	now func() time.Time
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log zerolog.Logger) SessionOption {
	return func(s *Session) { s.log = log }
}

// NewSession wraps a transport. The Session does not own the transport;
// the caller closes it.
func NewSession(tr canlink.Transport, opts ...SessionOption) *Session {
	s := &Session{
		tr:  tr,
		log: zerolog.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) send(t MessageType, data []byte) error {
	f := canlink.Frame{
		ID:       EncodeID(t),
		Extended: true,
		Data:     data,
	}
	if err := s.tr.Send(f); err != nil {
		return fmt.Errorf("powercan: send %s: %w", FormatMessageType(uint16(t)), err)
	}
	s.log.Debug().
		Str("type", FormatMessageType(uint16(t))).
		Hex("data", data).
		Msg("frame sent")
	return nil
}

// SendControl transmits a Control frame with the given settings.
func (s *Session) SendControl(c ControlSettings) error {
	return s.send(MsgControl, EncodeControl(c))
}

// SendQuery transmits a Query frame. The response, if any, arrives as a
// Status frame; use QueryStatus for the full exchange.
func (s *Session) SendQuery() error {
	return s.send(MsgQuery, EncodeQuery())
}

// SetOutputs switches the four power outputs in a single Control frame.
func (s *Session) SetOutputs(fan, precharge, motorOutput, mainControl bool) error {
	return s.SendControl(ControlSettings{
		Fan:         fan,
		Precharge:   precharge,
		MotorOutput: motorOutput,
		MainControl: mainControl,
	})
}

// ClearFaults asks the board to clear its latched fault bits.
func (s *Session) ClearFaults() error {
	return s.SendControl(ControlSettings{ClearFaults: true})
}

// Restart asks the board to restart.
func (s *Session) Restart() error {
	return s.SendControl(ControlSettings{Restart: true})
}

// EnableAutoReport switches the board's periodic Status/PowerData
// emission on or off.
func (s *Session) EnableAutoReport(on bool) error {
	return s.SendControl(ControlSettings{AutoReport: on})
}

// QueryStatus sends a Query and waits for the Status response.
//
// The board answers a Query with a Status frame, usually accompanied by
// a PowerData frame. QueryStatus returns as soon as Status decodes; a
// PowerData frame seen earlier in the same window is returned alongside,
// nil otherwise. Frames for other bus participants, unknown type codes
// and short payloads are skipped without extending or resetting the
// deadline. A non-positive timeout means DefaultQueryTimeout.
//
// Returns ErrNoResponse when the deadline passes without a Status frame.
func (s *Session) QueryStatus(timeout time.Duration) (*StatusReading, *PowerReading, error) {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	if err := s.SendQuery(); err != nil {
		return nil, nil, err
	}

	deadline := s.now().Add(timeout)
	var power *PowerReading

	for {
		remaining := deadline.Sub(s.now())
		if remaining <= 0 {
			return nil, nil, ErrNoResponse
		}
		wait := queryReceiveWait
		if remaining < wait {
			wait = remaining
		}

		f, ok, err := s.tr.Receive(wait)
		if err != nil {
			return nil, nil, fmt.Errorf("powercan: receive: %w", err)
		}
		if !ok {
			continue
		}

		addr, code := DecodeID(f.ID)
		if addr != BoardAddress {
			continue
		}
		switch MessageType(code) {
		case MsgStatus:
			status, err := DecodeStatus(f.Data)
			if err != nil {
				s.log.Warn().Err(err).Msg("short status frame")
				continue
			}
			return &status, power, nil
		case MsgPowerData:
			p, err := DecodePower(f.Data)
			if err != nil {
				s.log.Warn().Err(err).Msg("short power frame")
				continue
			}
			power = &p
		}
	}
}

// Stream puts the board in auto-report mode and feeds every decoded
// telemetry frame to sink as an updated Snapshot. Status and PowerData
// arrive independently; the snapshot keeps the last known value of each,
// so sink always sees the most complete picture so far.
//
// Stream blocks until ctx is cancelled or the transport fails.
// Cancellation is the normal exit: auto-report is switched off on a
// best-effort basis and the return value is nil.
func (s *Session) Stream(ctx context.Context, sink func(Snapshot)) error {
	if err := s.EnableAutoReport(true); err != nil {
		return err
	}
	s.log.Info().Msg("auto-report enabled")

	var snap Snapshot
	for {
		select {
		case <-ctx.Done():
			if err := s.EnableAutoReport(false); err != nil {
				s.log.Warn().Err(err).Msg("could not disable auto-report")
			}
			return nil
		default:
		}

		f, ok, err := s.tr.Receive(streamReceiveWait)
		if err != nil {
			return fmt.Errorf("powercan: receive: %w", err)
		}
		if !ok {
			continue
		}

		addr, code := DecodeID(f.ID)
		if addr != BoardAddress {
			continue
		}
		switch MessageType(code) {
		case MsgStatus:
			status, err := DecodeStatus(f.Data)
			if err != nil {
				s.log.Warn().Err(err).Msg("short status frame")
				continue
			}
			snap.Status = &status
			snap.Updated = s.now()
			sink(snap)
		case MsgPowerData:
			p, err := DecodePower(f.Data)
			if err != nil {
				s.log.Warn().Err(err).Msg("short power frame")
				continue
			}
			snap.Power = &p
			snap.Updated = s.now()
			sink(snap)
		}
	}
}
