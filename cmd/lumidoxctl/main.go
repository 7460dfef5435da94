// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Command lumidoxctl is a command-line controller for the Lumidox II
// LED driver: identity and stage readout, arm/fire/off, and port/baud
// auto-detection over its RS-232/USB-serial link.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lumidoxctl:", err)
		os.Exit(1)
	}
}
