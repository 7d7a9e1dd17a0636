// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kbotics

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbotics/pdbctl/pkg/powercan"
)

var statusTimeout time.Duration

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query the power board once and print its status",
	Long: `Send a status query to the power board and print the response.

Shows bus and motor bus voltages, the sampling current, active faults, and
per-limb power draw if the board reports it.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().DurationVar(&statusTimeout, "timeout", powercan.DefaultQueryTimeout, "Response timeout")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	session, tr, connInfo, err := openSession()
	if err != nil {
		return err
	}
	defer tr.Close()

	status, power, err := session.QueryStatus(statusTimeout)
	if errors.Is(err, powercan.ErrNoResponse) {
		return fmt.Errorf("no response from power board on %s within %s", connInfo, statusTimeout)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Connection:       %s\n", connInfo)
	fmt.Printf("Bus voltage:      %.2f V\n", status.BatteryVoltage)
	fmt.Printf("Motor voltage:    %.2f V\n", status.MotorVoltage)
	fmt.Printf("Sampling current: %.2f A\n", status.SamplingCurrent)
	fmt.Printf("Faults:           %s\n", powercan.FormatFaults(*status))

	if power != nil {
		fmt.Printf("Power draw:       %s\n", powercan.FormatPower(*power))
	}
	return nil
}
