// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

package powercan

import (
	"fmt"
	"time"

	"github.com/kbotics/pdbctl/pkg/canlink"
)

// Statistics tracks frame counts and error rates on the power bus
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalFrames   uint64
	StatusFrames  uint64
	PowerFrames   uint64
	ForeignFrames uint64 // different target address
	UnknownTypes  uint64 // our address, undefined type code
	ShortFrames   uint64 // defined type, payload under 8 bytes
	FaultedFrames uint64 // Status frames with at least one fault bit set

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update classifies a received frame and bumps the matching counters.
func (s *Statistics) Update(f canlink.Frame) {
	s.TotalFrames++

	addr, code := DecodeID(f.ID)
	if addr != BoardAddress {
		s.ForeignFrames++
		s.LastUpdateTime = time.Now()
		return
	}

	switch MessageType(code) {
	case MsgStatus:
		reading, err := DecodeStatus(f.Data)
		if err != nil {
			s.ShortFrames++
			break
		}
		s.StatusFrames++
		if reading.Faulted() {
			s.FaultedFrames++
		}
	case MsgPowerData:
		if _, err := DecodePower(f.Data); err != nil {
			s.ShortFrames++
			break
		}
		s.PowerFrames++
	case MsgControl, MsgQuery:
		// Our own traffic echoed back by some bridges; not an error.
	default:
		s.UnknownTypes++
	}

	s.LastUpdateTime = time.Now()
}

// CalculateRates calculates frame and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.TotalFrames) / elapsed
		errorCount := s.UnknownTypes + s.ShortFrames
		s.ErrorRate = float64(errorCount) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	var statusPercent, powerPercent, foreignPercent float64
	if s.TotalFrames > 0 {
		statusPercent = float64(s.StatusFrames) * 100.0 / float64(s.TotalFrames)
		powerPercent = float64(s.PowerFrames) * 100.0 / float64(s.TotalFrames)
		foreignPercent = float64(s.ForeignFrames) * 100.0 / float64(s.TotalFrames)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Frames:    %8d\n", s.TotalFrames)
	result += fmt.Sprintf("Status Frames:   %8d (%.1f%%)\n", s.StatusFrames, statusPercent)
	result += fmt.Sprintf("Power Frames:    %8d (%.1f%%)\n", s.PowerFrames, powerPercent)

	if s.ForeignFrames > 0 {
		result += fmt.Sprintf("Foreign Frames:  %8d (%.1f%%)\n", s.ForeignFrames, foreignPercent)
	}
	if s.UnknownTypes > 0 {
		result += fmt.Sprintf("Unknown Types:   %8d\n", s.UnknownTypes)
	}
	if s.ShortFrames > 0 {
		result += fmt.Sprintf("Short Frames:    %8d\n", s.ShortFrames)
	}
	if s.FaultedFrames > 0 {
		result += fmt.Sprintf("Faulted Frames:  %8d\n", s.FaultedFrames)
	}

	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	now := time.Now()
	*s = Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}
