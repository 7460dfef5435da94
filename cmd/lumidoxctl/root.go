// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package main

import (
	"github.com/spf13/cobra"
)

var (
	portName string
	baudRate int

	autoConnect bool
	cachePath   string
	quick       bool
	thorough    bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:     "lumidoxctl",
	Short:   "Command-line controller for the Lumidox II LED driver",
	Version: "1.0.0",
	Long: `lumidoxctl talks to a Lumidox II controller over its RS-232/USB-serial
link: read device identity and stage parameters, arm and fire stages,
and drive the port/baud auto-detector when the port isn't known.

Connection modes:
  Explicit:      --port /dev/ttyUSB0 [--baud 19200]
  Auto-detect:   --auto [--quick | --thorough] [--cache PATH]`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 0, "Baud rate (0 = controller default)")
	rootCmd.PersistentFlags().BoolVar(&autoConnect, "auto", false, "Auto-detect port and baud rate")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "Connection cache file (enables caching when set)")
	rootCmd.PersistentFlags().BoolVar(&quick, "quick", false, "Use the quick auto-detect preset")
	rootCmd.PersistentFlags().BoolVar(&thorough, "thorough", false, "Use the thorough auto-detect preset")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose detection logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
