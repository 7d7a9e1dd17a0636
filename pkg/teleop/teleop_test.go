// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

package teleop

import (
	"testing"
	"time"
)

// The locomotion controller parses these datagrams; the key names and
// trailing newline are part of the wire format.
func TestControlVector_Marshal(t *testing.T) {
	v := ControlVector{XVel: 0.5, YVel: -0.5, YawRate: 0}
	msg, err := v.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"XVel":0.5,"YVel":-0.5,"YawRate":0}` + "\n"
	if string(msg) != want {
		t.Errorf("msg = %q, want %q", msg, want)
	}
}

func TestControlVector_ParseRoundTrip(t *testing.T) {
	orig := ControlVector{XVel: 1.5, YVel: 0.1, YawRate: -0.3}
	msg, err := orig.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := ParseControlVector(msg)
	if err != nil {
		t.Fatalf("ParseControlVector: %v", err)
	}
	if got != orig {
		t.Errorf("round trip = %+v, want %+v", got, orig)
	}
}

func TestParseControlVector_Garbage(t *testing.T) {
	if _, err := ParseControlVector([]byte("not json\n")); err == nil {
		t.Error("expected error for garbage datagram")
	}
}

func TestCommander_MaxCommandClamp(t *testing.T) {
	c := &Commander{maxCmd: DefaultMaxCommand}

	for i := 0; i < 20; i++ {
		c.IncreaseMaxCommand()
	}
	if got := c.MaxCommand(); got != MaxMaxCommand {
		t.Errorf("MaxCommand = %v, want capped at %v", got, MaxMaxCommand)
	}

	for i := 0; i < 20; i++ {
		c.DecreaseMaxCommand()
	}
	if got := c.MaxCommand(); got != MinMaxCommand {
		t.Errorf("MaxCommand = %v, want floored at %v", got, MinMaxCommand)
	}
}

func TestCommander_SetMaxCommandClamp(t *testing.T) {
	tests := []struct {
		name   string
		target float64
		want   float64
	}{
		{"in range", 0.8, 0.8},
		{"above range", 2.0, MaxMaxCommand},
		{"below range", 0.05, MinMaxCommand},
		{"negative", -1.0, MinMaxCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Commander{maxCmd: DefaultMaxCommand}
			c.SetMaxCommand(tt.target)
			if got := c.MaxCommand(); got != tt.want {
				t.Errorf("MaxCommand = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommander_SetAxesScaling(t *testing.T) {
	c := &Commander{maxCmd: 0.5}
	c.SetAxes(1, -1, 0)

	cmds := c.Commands()
	if cmds.XVel != 0.5 || cmds.YVel != -0.5 || cmds.YawRate != 0 {
		t.Errorf("cmds = %+v, want 0.5/-0.5/0", cmds)
	}
}

func TestAxisState(t *testing.T) {
	now := time.Unix(1700000000, 0)
	a := NewAxisState()
	a.now = func() time.Time { return now }

	x, y, yaw := a.Axes()
	if x != 0 || y != 0 || yaw != 0 {
		t.Errorf("idle axes = %v/%v/%v, want zeros", x, y, yaw)
	}

	a.Press(KeyForward)
	a.Press(KeyLeft)
	a.Press(KeyYawCW)
	x, y, yaw = a.Axes()
	if x != 1 || y != 1 || yaw != -1 {
		t.Errorf("axes = %v/%v/%v, want 1/1/-1", x, y, yaw)
	}

	// Opposing keys cancel.
	a.Press(KeyBack)
	x, _, _ = a.Axes()
	if x != 0 {
		t.Errorf("x = %v, want 0 with w and s held", x)
	}

	// Keys expire once the repeat stream stops.
	now = now.Add(300 * time.Millisecond)
	x, y, yaw = a.Axes()
	if x != 0 || y != 0 || yaw != 0 {
		t.Errorf("expired axes = %v/%v/%v, want zeros", x, y, yaw)
	}

	// A fresh press after expiry works again.
	a.Press(KeyForward)
	x, _, _ = a.Axes()
	if x != 1 {
		t.Errorf("x = %v, want 1 after re-press", x)
	}
}
