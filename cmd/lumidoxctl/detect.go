// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package main

import (
	"fmt"

	"github.com/lumidox/lumidox2ctl/pkg/lumidoxdetect"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run port/baud auto-detection and print the result without performing any further operation",
	RunE:  runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg := lumidoxdetect.DefaultAutoConnectConfig()
	switch {
	case quick:
		cfg = lumidoxdetect.QuickConfig()
	case thorough:
		cfg = lumidoxdetect.ThoroughConfig()
	}
	cfg.Verbose = verbose

	var cache lumidoxdetect.Cache
	if cachePath != "" {
		cfg.EnableCaching = true
		cache = lumidoxdetect.NewFileCache(cachePath)
	} else {
		cfg.EnableCaching = false
	}

	session, result, err := lumidoxdetect.AutoConnect(lumidoxdetect.SystemEnumerator{}, lumidoxdetect.OpenSystemPort, cache, cfg)
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}
	defer session.Close()

	fmt.Printf("Port:       %s\n", result.Port)
	fmt.Printf("Baud:       %d\n", result.Baud)
	fmt.Printf("Model:      %s\n", result.Identity.Model)
	fmt.Printf("Serial:     %s\n", result.Identity.Serial)
	fmt.Printf("Wavelength: %s\n", result.Identity.Wavelength)
	return nil
}
