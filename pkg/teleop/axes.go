// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

package teleop

import (
	"sync"
	"time"
)

// Terminals report key presses (and auto-repeats), never releases, so a
// held key shows up as a stream of presses. A key counts as held until
// no press has been seen for repeatRelease.
const repeatRelease = 250 * time.Millisecond

// Axis keys.
const (
	KeyForward = "w"
	KeyBack    = "s"
	KeyLeft    = "a"
	KeyRight   = "d"
	KeyYawCCW  = "q"
	KeyYawCW   = "e"
)

// AxisState turns a stream of key presses into normalized control axes.
// Safe for concurrent use.
type AxisState struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
	now      func() time.Time
}

// NewAxisState returns an empty axis tracker.
func NewAxisState() *AxisState {
	return &AxisState{
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Press records a key press or auto-repeat.
func (a *AxisState) Press(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastSeen[key] = a.now()
}

// Axes returns the normalized (x, y, yaw) axes from the keys currently
// held, each in {-1, 0, +1}. Opposing keys cancel.
func (a *AxisState) Axes() (x, y, yaw float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := a.now().Add(-repeatRelease)
	held := func(key string) bool {
		seen, ok := a.lastSeen[key]
		if !ok {
			return false
		}
		if seen.Before(cutoff) {
			delete(a.lastSeen, key)
			return false
		}
		return true
	}

	if held(KeyForward) {
		x += 1
	}
	if held(KeyBack) {
		x -= 1
	}
	if held(KeyLeft) {
		y += 1
	}
	if held(KeyRight) {
		y -= 1
	}
	if held(KeyYawCCW) {
		yaw += 1
	}
	if held(KeyYawCW) {
		yaw -= 1
	}
	return x, y, yaw
}
