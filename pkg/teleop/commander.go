// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

package teleop

import (
	"fmt"
	"net"
	"sync"
	"time"
)

// Default controller endpoint and command scaling.
const (
	DefaultHost = "localhost"
	DefaultPort = 10000

	DefaultMaxCommand = 0.5
	MinMaxCommand     = 0.1
	MaxMaxCommand     = 1.5
	maxCommandStep    = 0.1

	// SendInterval is the cadence callers should send at.
	SendInterval = 50 * time.Millisecond
)

// Commander scales normalized axis inputs by an adjustable max-command
// value and sends the result to the controller. Safe for concurrent use.
type Commander struct {
	conn *net.UDPConn

	mu     sync.Mutex
	maxCmd float64
	cmds   ControlVector
}

// NewCommander opens a UDP socket to the controller at host:port.
func NewCommander(host string, port int) (*Commander, error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, fmt.Errorf("teleop: resolve %s:%d: %w", host, port, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("teleop: dial %s: %w", addr, err)
	}
	return &Commander{conn: conn, maxCmd: DefaultMaxCommand}, nil
}

// MaxCommand returns the current scaling limit.
func (c *Commander) MaxCommand() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxCmd
}

// SetMaxCommand sets the scaling limit directly, clamped to
// [MinMaxCommand, MaxMaxCommand].
func (c *Commander) SetMaxCommand(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxCmd = min(max(v, MinMaxCommand), MaxMaxCommand)
}

// IncreaseMaxCommand raises the scaling limit one step, capped at
// MaxMaxCommand.
func (c *Commander) IncreaseMaxCommand() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxCmd = min(c.maxCmd+maxCommandStep, MaxMaxCommand)
}

// DecreaseMaxCommand lowers the scaling limit one step, floored at
// MinMaxCommand.
func (c *Commander) DecreaseMaxCommand() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxCmd = max(c.maxCmd-maxCommandStep, MinMaxCommand)
}

// SetAxes updates the outgoing command from normalized axes in [-1, 1],
// scaled by the current max-command.
func (c *Commander) SetAxes(x, y, yaw float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cmds = ControlVector{
		XVel:    x * c.maxCmd,
		YVel:    y * c.maxCmd,
		YawRate: yaw * c.maxCmd,
	}
}

// Commands returns the current outgoing command.
func (c *Commander) Commands() ControlVector {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cmds
}

// Send transmits the current command as one datagram.
func (c *Commander) Send() error {
	c.mu.Lock()
	cmds := c.cmds
	c.mu.Unlock()

	msg, err := cmds.Marshal()
	if err != nil {
		return err
	}
	if _, err := c.conn.Write(msg); err != nil {
		return fmt.Errorf("teleop: send: %w", err)
	}
	return nil
}

// Close releases the socket. A zero command is sent first so the robot
// does not keep the last velocity.
func (c *Commander) Close() error {
	c.SetAxes(0, 0, 0)
	if err := c.Send(); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}
