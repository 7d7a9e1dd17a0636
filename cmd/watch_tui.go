// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kbotics

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kbotics/pdbctl/pkg/powercan"
)

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

// watchModel is the Bubble Tea model for the watch TUI
type watchModel struct {
	runner   *streamRunner
	connInfo string

	// Telemetry state
	snapshot    powercan.Snapshot
	updateCount uint64
	startTime   time.Time

	// Event log
	eventLog      []watchLogEntry
	maxLogEntries int
	lastFaults    uint16

	// UI state
	spinner   spinner.Model
	width     int
	height    int
	quitting  bool
	streamErr error
}

type watchLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type watchTickMsg time.Time

type watchBatchMsg struct {
	snapshots []powercan.Snapshot
}

type streamFailedMsg struct {
	err error
}

//////////////////////////////////////////////////////////////
// Model Initialization
//////////////////////////////////////////////////////////////

func initialWatchModel(runner *streamRunner, connInfo string) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	return watchModel{
		runner:        runner,
		connInfo:      connInfo,
		startTime:     time.Now(),
		eventLog:      make([]watchLogEntry, 0),
		maxLogEntries: 50,
		spinner:       sp,
		width:         80,
		height:        24,
	}
}

//////////////////////////////////////////////////////////////
// Bubble Tea Interface
//////////////////////////////////////////////////////////////

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(watchTickCmd(), m.spinner.Tick)
}

func watchTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.runner.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case watchTickMsg:
		return m, watchTickCmd()

	case watchBatchMsg:
		for _, snap := range msg.snapshots {
			m.applySnapshot(snap)
		}

	case streamFailedMsg:
		m.streamErr = msg.err
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// applySnapshot folds one snapshot into the model and logs fault
// transitions.
func (m *watchModel) applySnapshot(snap powercan.Snapshot) {
	m.updateCount++

	if snap.Status != nil {
		newFaults := snap.Status.FaultStatus
		if changed := newFaults ^ m.lastFaults; changed != 0 {
			for _, f := range (powercan.StatusReading{FaultStatus: changed}).Faults() {
				if newFaults&(1<<f) != 0 {
					m.addLogEntry(fmt.Sprintf("FAULT: %s", f), true)
				} else {
					m.addLogEntry(fmt.Sprintf("cleared: %s", f), false)
				}
			}
			m.lastFaults = newFaults
		}
	}
	m.snapshot = snap
}

func (m *watchModel) addLogEntry(message string, isError bool) {
	m.eventLog = append(m.eventLog, watchLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

func (m watchModel) View() string {
	if m.quitting {
		if m.streamErr != nil {
			return fmt.Sprintf("Stream failed: %v\n", m.streamErr)
		}
		return "Disabling auto-report...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder

	s.WriteString(titleStyle.Render("pdbctl watch - Power Board Telemetry"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("Connection: %s", m.connInfo)))
	s.WriteString("\n\n")

	telemetry := m.renderTelemetry(labelStyle, valueStyle, warningStyle)
	faults := m.renderFaults(labelStyle, valueStyle, errorStyle)
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(telemetry), " ", boxStyle.Render(faults)))
	s.WriteString("\n")

	s.WriteString(boxStyle.Render(m.renderPower(labelStyle, valueStyle, warningStyle)))
	s.WriteString("\n")

	s.WriteString(boxStyle.Render(m.renderEventLog(headerStyle, errorStyle)))
	s.WriteString("\n")

	elapsed := time.Since(m.startTime).Seconds()
	rate := 0.0
	if elapsed > 0 {
		rate = float64(m.updateCount) / elapsed
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("Updates: %d (%.1f/sec) | q: quit", m.updateCount, rate)))
	s.WriteString("\n")

	return s.String()
}

func (m watchModel) renderTelemetry(labelStyle, valueStyle, warningStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(labelStyle.Render("Telemetry"))
	s.WriteString("\n")

	if m.snapshot.Status == nil {
		s.WriteString(m.spinner.View())
		s.WriteString(warningStyle.Render(" Waiting for status frames..."))
		return s.String()
	}

	status := m.snapshot.Status
	s.WriteString(fmt.Sprintf("Bus voltage:   %s\n", valueStyle.Render(fmt.Sprintf("%7.2f V", status.BatteryVoltage))))
	s.WriteString(fmt.Sprintf("Motor voltage: %s\n", valueStyle.Render(fmt.Sprintf("%7.2f V", status.MotorVoltage))))
	s.WriteString(fmt.Sprintf("Current:       %s", valueStyle.Render(fmt.Sprintf("%7.2f A", status.SamplingCurrent))))
	return s.String()
}

func (m watchModel) renderFaults(labelStyle, valueStyle, errorStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(labelStyle.Render("Faults"))
	s.WriteString("\n")

	if m.snapshot.Status == nil {
		s.WriteString("-")
		return s.String()
	}

	if !m.snapshot.Status.Faulted() {
		s.WriteString(valueStyle.Render("none"))
		return s.String()
	}
	for i, f := range m.snapshot.Status.Faults() {
		if i > 0 {
			s.WriteString("\n")
		}
		s.WriteString(errorStyle.Render(f.String()))
	}
	return s.String()
}

func (m watchModel) renderPower(labelStyle, valueStyle, warningStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(labelStyle.Render("Power Draw"))
	s.WriteString("\n")

	if m.snapshot.Power == nil {
		s.WriteString(m.spinner.View())
		s.WriteString(warningStyle.Render(" Waiting for power frames..."))
		return s.String()
	}

	p := m.snapshot.Power
	s.WriteString(fmt.Sprintf("Left leg:  %s  Right leg: %s\n",
		valueStyle.Render(fmt.Sprintf("%7.2f W", p.LeftLeg)),
		valueStyle.Render(fmt.Sprintf("%7.2f W", p.RightLeg))))
	s.WriteString(fmt.Sprintf("Left arm:  %s  Right arm: %s\n",
		valueStyle.Render(fmt.Sprintf("%7.2f W", p.LeftArm)),
		valueStyle.Render(fmt.Sprintf("%7.2f W", p.RightArm))))
	s.WriteString(fmt.Sprintf("Total:     %s", valueStyle.Render(fmt.Sprintf("%7.2f W", p.Total()))))
	return s.String()
}

func (m watchModel) renderEventLog(headerStyle, errorStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Events"))
	s.WriteString("\n")

	if len(m.eventLog) == 0 {
		s.WriteString("-")
		return s.String()
	}

	show := m.eventLog
	if len(show) > 5 {
		show = show[len(show)-5:]
	}
	for i, entry := range show {
		if i > 0 {
			s.WriteString("\n")
		}
		line := fmt.Sprintf("[%s] %s", entry.timestamp.Format("15:04:05"), entry.message)
		if entry.isError {
			s.WriteString(errorStyle.Render(line))
		} else {
			s.WriteString(line)
		}
	}
	return s.String()
}
