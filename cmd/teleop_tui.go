// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kbotics

package cmd

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kbotics/pdbctl/pkg/teleop"
)

// teleopModel is the Bubble Tea model for the teleop TUI
type teleopModel struct {
	commander *teleop.Commander
	axes      *teleop.AxisState
	endpoint  string

	lastKey  string
	sendErr  error
	quitting bool
}

type teleopTickMsg time.Time

func initialTeleopModel(commander *teleop.Commander, endpoint string) teleopModel {
	return teleopModel{
		commander: commander,
		axes:      teleop.NewAxisState(),
		endpoint:  endpoint,
	}
}

func (m teleopModel) Init() tea.Cmd {
	return teleopTickCmd()
}

func teleopTickCmd() tea.Cmd {
	return tea.Tick(teleop.SendInterval, func(t time.Time) tea.Msg {
		return teleopTickMsg(t)
	})
}

func (m teleopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up":
			m.commander.IncreaseMaxCommand()
		case "down":
			m.commander.DecreaseMaxCommand()
		case teleop.KeyForward, teleop.KeyBack, teleop.KeyLeft,
			teleop.KeyRight, teleop.KeyYawCCW, teleop.KeyYawCW:
			m.axes.Press(msg.String())
			m.lastKey = msg.String()
		}

	case teleopTickMsg:
		m.commander.SetAxes(m.axes.Axes())
		if err := m.commander.Send(); err != nil {
			m.sendErr = err
		} else {
			m.sendErr = nil
		}
		return m, teleopTickCmd()
	}

	return m, nil
}

func (m teleopModel) View() string {
	if m.quitting {
		return "Stopping...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	speedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("11")).
		Background(lipgloss.Color("5")).
		Padding(0, 1)

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	cmds := m.commander.Commands()

	var s strings.Builder
	s.WriteString(titleStyle.Render("pdbctl teleop"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("Sending to %s", m.endpoint)))
	s.WriteString("\n\n")

	s.WriteString(speedStyle.Render(fmt.Sprintf("MAX COMMAND: %.1f", m.commander.MaxCommand())))
	s.WriteString("\n\n")

	limit := teleop.MaxMaxCommand
	s.WriteString(fmt.Sprintf("XVel %s\n", renderAxisBar(cmds.XVel, limit, "9")))
	s.WriteString(fmt.Sprintf("YVel %s\n", renderAxisBar(cmds.YVel, limit, "10")))
	s.WriteString(fmt.Sprintf("Yaw  %s\n", renderAxisBar(cmds.YawRate, limit, "12")))
	s.WriteString("\n")

	s.WriteString(headerStyle.Render(fmt.Sprintf("LastKey: %s", orDash(m.lastKey))))
	s.WriteString("\n")
	if m.sendErr != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.sendErr)))
		s.WriteString("\n")
	}
	s.WriteString("\n")
	s.WriteString(headerStyle.Render("w/s a/d q/e: drive | up/down: speed | Esc: quit"))
	s.WriteString("\n")

	return s.String()
}

// renderAxisBar draws value in [-limit, limit] as a filled bar with the
// value printed after it.
func renderAxisBar(value, limit float64, color string) string {
	const width = 40

	normalized := (value + limit) / (2 * limit)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}
	filled := int(normalized * width)
	bar := strings.Repeat("█", filled) + strings.Repeat(" ", width-filled)

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	return fmt.Sprintf("[%s] %+.2f", style.Render(bar), value)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
