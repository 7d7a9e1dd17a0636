// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kbotics

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	outFan         bool
	outPrecharge   bool
	outMotorOutput bool
	outMainControl bool
)

var outputsCmd = &cobra.Command{
	Use:   "outputs",
	Short: "Switch the board's power outputs",
	Long: `Send a control frame setting the four power outputs.

Outputs not named on the command line are switched off; the board applies
the full frame, not a delta. Example:

  pdbctl outputs --precharge --main-control`,
	RunE: runOutputs,
}

var clearFaultsCmd = &cobra.Command{
	Use:   "clear-faults",
	Short: "Clear the board's latched fault bits",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, tr, _, err := openSession()
		if err != nil {
			return err
		}
		defer tr.Close()

		if err := session.ClearFaults(); err != nil {
			return err
		}
		fmt.Println("Fault clear requested")
		return nil
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the power board",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, tr, _, err := openSession()
		if err != nil {
			return err
		}
		defer tr.Close()

		if err := session.Restart(); err != nil {
			return err
		}
		fmt.Println("Restart requested")
		return nil
	},
}

func init() {
	outputsCmd.Flags().BoolVar(&outFan, "fan", false, "Enable the cooling fan")
	outputsCmd.Flags().BoolVar(&outPrecharge, "precharge", false, "Enable precharge voltage")
	outputsCmd.Flags().BoolVar(&outMotorOutput, "motor-output", false, "Enable output to motors")
	outputsCmd.Flags().BoolVar(&outMainControl, "main-control", false, "Enable main control")

	rootCmd.AddCommand(outputsCmd)
	rootCmd.AddCommand(clearFaultsCmd)
	rootCmd.AddCommand(restartCmd)
}

func runOutputs(cmd *cobra.Command, args []string) error {
	session, tr, _, err := openSession()
	if err != nil {
		return err
	}
	defer tr.Close()

	if err := session.SetOutputs(outFan, outPrecharge, outMotorOutput, outMainControl); err != nil {
		return err
	}

	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	fmt.Printf("fan=%s precharge=%s motor-output=%s main-control=%s\n",
		onOff(outFan), onOff(outPrecharge), onOff(outMotorOutput), onOff(outMainControl))
	return nil
}
