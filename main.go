// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics
//
// pdbctl - Power Distribution Board CAN Utility
//
// A CLI tool for querying, controlling, and monitoring the robot's
// power distribution board, plus UDP tele-operation.

package main

import (
	"os"

	"github.com/kbotics/pdbctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
