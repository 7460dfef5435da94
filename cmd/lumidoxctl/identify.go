// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var identifyCmd = &cobra.Command{
	Use:   "identify",
	Short: "Read and print the controller's identity",
	RunE:  runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()

	identity, err := session.ReadIdentity()
	if err != nil {
		return fmt.Errorf("read identity: %w", err)
	}

	fmt.Printf("Firmware revision: 0x%04x\n", identity.FirmwareRevision)
	fmt.Printf("Model:             %s\n", identity.Model)
	fmt.Printf("Serial:            %s\n", identity.Serial)
	fmt.Printf("Wavelength:        %s\n", identity.Wavelength)
	return nil
}
