// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kbotics

package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kbotics/pdbctl/pkg/powercan"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Interactive TUI showing live power board telemetry",
	Long: `Watch live telemetry from the power board in a terminal UI.

The board is put in auto-report mode and its Status and PowerData frames
drive a live display of voltages, current, faults, and per-limb power.
Auto-report is switched off again on exit.

q or Ctrl+C exits.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// streamRunner feeds snapshots from the protocol session into the TUI,
// batched at a fixed rate so a chatty bus cannot flood the event loop.
type streamRunner struct {
	p      *tea.Program
	cancel context.CancelFunc
	snapCh chan powercan.Snapshot
}

func runWatch(cmd *cobra.Command, args []string) error {
	session, tr, connInfo, err := openSession()
	if err != nil {
		return err
	}
	defer tr.Close()

	ctx, cancel := context.WithCancel(context.Background())

	sr := &streamRunner{
		cancel: cancel,
		snapCh: make(chan powercan.Snapshot, 100),
	}

	m := initialWatchModel(sr, connInfo)
	p := tea.NewProgram(m, tea.WithAltScreen())
	sr.p = p

	streamDone := make(chan error, 1)
	go func() {
		err := session.Stream(ctx, func(snap powercan.Snapshot) {
			select {
			case sr.snapCh <- snap:
			default:
			}
		})
		if err != nil {
			p.Send(streamFailedMsg{err: err})
		}
		streamDone <- err
	}()
	go sr.batchLoop(ctx)

	if _, err := p.Run(); err != nil {
		cancel()
		<-streamDone
		return fmt.Errorf("TUI error: %v", err)
	}

	cancel()
	if err := <-streamDone; err != nil {
		return err
	}
	return nil
}

// batchLoop drains pending snapshots into one TUI message per tick.
func (sr *streamRunner) batchLoop(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var batch watchBatchMsg
		drainLoop:
			for {
				select {
				case snap := <-sr.snapCh:
					batch.snapshots = append(batch.snapshots, snap)
				default:
					break drainLoop
				}
			}
			if len(batch.snapshots) > 0 {
				sr.p.Send(batch)
			}
		}
	}
}
