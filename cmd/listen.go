// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kbotics

package cmd

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbotics/pdbctl/pkg/teleop"
)

var (
	listenPort int
	listenRaw  bool
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Print velocity command datagrams arriving over UDP",
	Long: `Listen for control vector datagrams and print them as they arrive.

Useful as a test sink when exercising teleop without the robot. Datagrams
are parsed as control vectors; --raw prints the bytes instead.`,
	RunE: runListen,
}

func init() {
	listenCmd.Flags().IntVar(&listenPort, "port", teleop.DefaultPort, "UDP port to listen on")
	listenCmd.Flags().BoolVar(&listenRaw, "raw", false, "Print raw datagram bytes without parsing")
	rootCmd.AddCommand(listenCmd)
}

func runListen(cmd *cobra.Command, args []string) error {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: listenPort})
	if err != nil {
		return fmt.Errorf("listen on :%d: %w", listenPort, err)
	}
	defer conn.Close()

	fmt.Printf("Listening on UDP :%d\n", listenPort)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	buf := make([]byte, 2048)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		stamp := time.Now().Format("15:04:05.000")
		if listenRaw {
			fmt.Printf("[%s] %s %q\n", stamp, addr, buf[:n])
			continue
		}

		v, err := teleop.ParseControlVector(buf[:n])
		if err != nil {
			fmt.Printf("[%s] %s unparseable: %q\n", stamp, addr, buf[:n])
			continue
		}
		fmt.Printf("[%s] %s XVel=%+.2f YVel=%+.2f YawRate=%+.2f\n",
			stamp, addr, v.XVel, v.YVel, v.YawRate)
	}
}
