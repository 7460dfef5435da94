// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var stageCmd = &cobra.Command{
	Use:   "stage [1-5]",
	Short: "Read and print a stage's programmed parameters",
	Args:  cobra.ExactArgs(1),
	RunE:  runStage,
}

func init() {
	rootCmd.AddCommand(stageCmd)
}

func runStage(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > 5 {
		return fmt.Errorf("stage argument must be an integer 1-5, got %q", args[0])
	}

	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()

	stage, err := session.ReadStage(n)
	if err != nil {
		return fmt.Errorf("read stage %d: %w", n, err)
	}

	fmt.Printf("Stage %d:\n", n)
	fmt.Printf("  Arm current:    %d mA\n", stage.ArmCurrentMA)
	fmt.Printf("  Fire current:   %d mA\n", stage.FireCurrentMA)
	fmt.Printf("  Volt limit:     %.2f V\n", stage.VoltLimitV)
	fmt.Printf("  Volt start:     %.2f V\n", stage.VoltStartV)
	fmt.Printf("  Power total:    %.1f\n", stage.PowerTotal)
	fmt.Printf("  Power per LED:  %.1f\n", stage.PowerPerLED)
	fmt.Printf("  Total units:    %s (raw %d)\n", stage.TotalUnits.Value, stage.TotalUnits.Raw)
	fmt.Printf("  Per-LED units:  %s (raw %d)\n", stage.PerLEDUnits.Value, stage.PerLEDUnits.Raw)
	return nil
}
