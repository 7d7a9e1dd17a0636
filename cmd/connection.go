// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kbotics

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/kbotics/pdbctl/pkg/canlink"
	"github.com/kbotics/pdbctl/pkg/powercan"
)

// OpenTransport opens a CAN transport based on flags, preferring the
// explicit modes (--url, --device) over the SocketCAN default.
func OpenTransport() (canlink.Transport, string, error) {
	if wsURL != "" {
		// WebSocket bridge mode
		password := ""
		if wsUsername != "" {
			var err error
			password, err = GetPassword()
			if err != nil {
				return nil, "", err
			}
		}

		tr, err := canlink.OpenWebSocketBridge(wsURL, canlink.WebSocketOptions{
			Username:      wsUsername,
			Password:      password,
			SkipSSLVerify: wsNoSSLVerify,
		})
		if err != nil {
			return nil, "", err
		}
		return tr, fmt.Sprintf("WebSocket: %s", wsURL), nil
	}

	if slcanDevice != "" {
		// SLCAN serial adapter mode
		tr, err := canlink.OpenSLCAN(slcanDevice, slcanBaud, powercan.Bitrate)
		if err != nil {
			return nil, "", err
		}
		return tr, fmt.Sprintf("SLCAN: %s @ %d baud", slcanDevice, slcanBaud), nil
	}

	// SocketCAN mode
	tr, err := canlink.OpenSocketCAN(canInterface)
	if err != nil {
		return nil, "", err
	}
	return tr, fmt.Sprintf("SocketCAN: %s", canInterface), nil
}

// openSession opens a transport and wraps it in a protocol session.
// The caller closes the returned transport.
func openSession() (*powercan.Session, canlink.Transport, string, error) {
	tr, info, err := OpenTransport()
	if err != nil {
		return nil, nil, "", err
	}
	s := powercan.NewSession(tr, powercan.WithLogger(sessionLogger()))
	return s, tr, info, nil
}

// GetPassword retrieves password from environment or prompts user
func GetPassword() (string, error) {
	// First check environment variable
	if pw := os.Getenv("PDBCTL_PASSWORD"); pw != "" {
		return pw, nil
	}

	// Prompt user for password (hide input)
	fmt.Fprint(os.Stderr, "Password: ")

	// Read password without echo
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %v", err)
		}
		fmt.Fprintln(os.Stderr) // newline after password
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr) // newline after password
	return string(passwordBytes), nil
}
