// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var fireCurrentMA int

var fireCmd = &cobra.Command{
	Use:   "fire [1-5]",
	Short: "Fire a stage's programmed current, or an explicit current with --current",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFire,
}

func init() {
	fireCmd.Flags().IntVar(&fireCurrentMA, "current", -1, "Fire an explicit current in mA instead of a stage")
	rootCmd.AddCommand(fireCmd)
}

func runFire(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()

	if fireCurrentMA >= 0 {
		if err := session.FireCurrent(uint16(fireCurrentMA)); err != nil {
			return fmt.Errorf("fire current %d mA: %w", fireCurrentMA, err)
		}
		fmt.Printf("Firing at %d mA.\n", fireCurrentMA)
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("either a stage argument (1-5) or --current must be given")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > 5 {
		return fmt.Errorf("stage argument must be an integer 1-5, got %q", args[0])
	}

	if err := session.FireStage(n); err != nil {
		return fmt.Errorf("fire stage %d: %w", n, err)
	}
	fmt.Printf("Firing stage %d.\n", n)
	return nil
}
