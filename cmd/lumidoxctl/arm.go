// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var armCmd = &cobra.Command{
	Use:   "arm",
	Short: "Transition the controller to RemoteArmed",
	RunE:  runArm,
}

func init() {
	rootCmd.AddCommand(armCmd)
}

func runArm(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Arm(); err != nil {
		return fmt.Errorf("arm: %w", err)
	}
	fmt.Println("Armed.")
	return nil
}
