// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var offHard bool

var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Stop output: RemoteOutputOff by default, or a direct zero-current write with --hard",
	RunE:  runOff,
}

func init() {
	offCmd.Flags().BoolVar(&offHard, "hard", false, "Use a direct fire-current-zero write instead of the remote-state transition")
	rootCmd.AddCommand(offCmd)
}

func runOff(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()

	if offHard {
		if err := session.TurnOffHard(); err != nil {
			return fmt.Errorf("off --hard: %w", err)
		}
	} else {
		if err := session.TurnOff(); err != nil {
			return fmt.Errorf("off: %w", err)
		}
	}
	fmt.Println("Output off.")
	return nil
}
