// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kbotics

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/kbotics/pdbctl/pkg/powercan"
)

var logRecordPath string

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Display decoded bus frames in human-readable format",
	Long: `Continuously decode and display power-board frames as they arrive.

Each frame is shown with timestamp, identifier, message type, and decoded
payload. The board must be in auto-report mode to emit frames continuously;
log enables it on start and disables it on exit.

With --record, every frame is also appended to a file as a CBOR stream for
offline replay.`,
	RunE: runLog,
}

// frameRecord is one recorded bus frame.
type frameRecord struct {
	Time time.Time `cbor:"1,keyasint"`
	ID   uint32    `cbor:"2,keyasint"`
	Data []byte    `cbor:"3,keyasint"`
}

func init() {
	logCmd.Flags().StringVar(&logRecordPath, "record", "", "Append frames to FILE as a CBOR stream")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	session, tr, connInfo, err := openSession()
	if err != nil {
		return err
	}
	defer tr.Close()

	var recorder *cbor.Encoder
	if logRecordPath != "" {
		f, err := os.OpenFile(logRecordPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open record file: %w", err)
		}
		defer f.Close()
		recorder = cbor.NewEncoder(f)
	}

	fmt.Printf("pdbctl - Frame Log\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	if err := session.EnableAutoReport(true); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	stats := powercan.NewStatistics()
	for {
		select {
		case <-sigCh:
			if err := session.EnableAutoReport(false); err != nil {
				fmt.Fprintf(os.Stderr, "could not disable auto-report: %v\n", err)
			}
			fmt.Print("\n" + stats.String())
			return nil
		default:
		}

		f, ok, err := tr.Receive(500 * time.Millisecond)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		stats.Update(f)
		fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05.000"), powercan.FormatFrame(f))

		if recorder != nil {
			rec := frameRecord{Time: time.Now(), ID: f.ID, Data: f.Data}
			if err := recorder.Encode(rec); err != nil {
				return fmt.Errorf("record frame: %w", err)
			}
		}
	}
}
