// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kbotics

package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// SocketCAN connection flags
	canInterface string

	// SLCAN (serial adapter) connection flags
	slcanDevice string
	slcanBaud   int

	// WebSocket bridge connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Config file and logging
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "pdbctl",
	Short: "Power distribution board CAN utility",
	Long: `pdbctl - A CLI tool for the robot's power distribution board.

Provides commands for querying status, switching power outputs, watching
live telemetry, and tele-operating the robot over UDP.

Connection modes:
  SocketCAN: --interface can3 (default; requires the interface up at 1 Mbps)
  SLCAN:     --device /dev/ttyACM0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the PDBCTL_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version: "1.2.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return applyConfigFile(cmd)
	},
}

func init() {
	// SocketCAN connection flags
	rootCmd.PersistentFlags().StringVarP(&canInterface, "interface", "i", "can3", "SocketCAN interface name")

	// SLCAN connection flags
	rootCmd.PersistentFlags().StringVarP(&slcanDevice, "device", "d", "", "SLCAN serial adapter device")
	rootCmd.PersistentFlags().IntVarP(&slcanBaud, "baud", "b", 115200, "Serial baud rate (SLCAN only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket bridge URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file with flag defaults")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging to stderr")
}

// sessionLogger returns the logger the protocol session should use:
// console output on stderr with --verbose, discard otherwise.
func sessionLogger() zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(zerolog.DebugLevel)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
