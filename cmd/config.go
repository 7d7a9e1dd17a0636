// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kbotics

package cmd

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/kbotics/pdbctl/pkg/teleop"
)

// fileConfig maps config.toml keys to connection and teleop defaults.
type fileConfig struct {
	Interface  string  `toml:"interface"`
	Device     string  `toml:"device"`
	Baud       int     `toml:"baud"`
	URL        string  `toml:"url"`
	Username   string  `toml:"username"`
	TeleopHost string  `toml:"teleop_host"`
	TeleopPort int     `toml:"teleop_port"`
	MaxCommand float64 `toml:"max_command"`
}

// applyConfigFile overlays values from --config onto flags the user did
// not set explicitly. Flags always win over the file.
func applyConfigFile(cmd *cobra.Command) error {
	if configPath == "" {
		return nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(configPath, &raw)
	if err != nil {
		return fmt.Errorf("load config %s: %w", configPath, err)
	}

	flags := cmd.Root().PersistentFlags()
	if meta.IsDefined("interface") && !flags.Changed("interface") {
		canInterface = strings.TrimSpace(raw.Interface)
	}
	if meta.IsDefined("device") && !flags.Changed("device") {
		slcanDevice = strings.TrimSpace(raw.Device)
	}
	if meta.IsDefined("baud") && !flags.Changed("baud") {
		slcanBaud = raw.Baud
	}
	if meta.IsDefined("url") && !flags.Changed("url") {
		wsURL = strings.TrimSpace(raw.URL)
	}
	if meta.IsDefined("username") && !flags.Changed("username") {
		wsUsername = strings.TrimSpace(raw.Username)
	}
	if meta.IsDefined("teleop_host") {
		teleopHostDefault = strings.TrimSpace(raw.TeleopHost)
	}
	if meta.IsDefined("teleop_port") {
		teleopPortDefault = raw.TeleopPort
	}
	if meta.IsDefined("max_command") {
		// Out-of-range values are clamped, not rejected.
		teleopMaxDefault = min(max(raw.MaxCommand, teleop.MinMaxCommand), teleop.MaxMaxCommand)
	}
	return nil
}
