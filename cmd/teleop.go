// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kbotics

package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kbotics/pdbctl/pkg/teleop"
)

var (
	teleopHost string
	teleopPort int

	// Defaults overridable from the config file.
	teleopHostDefault = teleop.DefaultHost
	teleopPortDefault = teleop.DefaultPort
	teleopMaxDefault  = teleop.DefaultMaxCommand
)

var teleopCmd = &cobra.Command{
	Use:   "teleop",
	Short: "Tele-operate the robot from the keyboard",
	Long: `Drive the robot by sending velocity commands over UDP.

Keys:
  w/s  forward / back
  a/d  strafe left / right
  q/e  yaw counter-clockwise / clockwise
  up/down  raise / lower the max command scaling
  Esc or Ctrl+C  stop and exit

Commands are sent continuously at 20 Hz; releasing all keys sends zeros. A
final zero command is sent on exit.`,
	RunE: runTeleop,
}

func init() {
	teleopCmd.Flags().StringVar(&teleopHost, "host", "", "Controller host (default localhost)")
	teleopCmd.Flags().IntVar(&teleopPort, "port", 0, "Controller UDP port (default 10000)")
	rootCmd.AddCommand(teleopCmd)
}

func runTeleop(cmd *cobra.Command, args []string) error {
	host := teleopHost
	if host == "" {
		host = teleopHostDefault
	}
	port := teleopPort
	if port == 0 {
		port = teleopPortDefault
	}

	commander, err := teleop.NewCommander(host, port)
	if err != nil {
		return err
	}
	defer commander.Close()

	commander.SetMaxCommand(teleopMaxDefault)

	m := initialTeleopModel(commander, fmt.Sprintf("%s:%d", host, port))
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}
