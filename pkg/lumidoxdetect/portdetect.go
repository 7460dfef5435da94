// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lumidoxdetect

import (
	"log"
	"sort"
	"time"

	"github.com/lumidox/lumidox2ctl/pkg/lumidoxproto"
)

// USBDescriptor is the subset of USB identity an OS-level port listing
// can supply, when the port is a USB-serial adapter.
type USBDescriptor struct {
	VendorID     uint16
	ProductID    uint16
	SerialNumber string
}

// PortInfo is one OS-visible serial port, as returned by a
// PortEnumerator.
type PortInfo struct {
	Name string
	USB  *USBDescriptor
}

// PortEnumerator lists the serial ports the host OS currently exposes.
// go.bug.st/serial/enumerator.GetDetailedPortsList is the production
// implementation; tests supply a fixed slice.
type PortEnumerator interface {
	EnumeratePorts() ([]PortInfo, error)
}

// PortOpener opens a Transport at name/baudRate. OpenSerialTransport,
// adapted to this signature, is the production implementation.
type PortOpener func(name string, baudRate int) (lumidoxproto.Transport, error)

// PortDetectionConfig tunes port enumeration and scoring.
type PortDetectionConfig struct {
	USBPortsOnly             bool
	TestDeviceIdentification bool
	PreferredVendorIDs       []uint16
	IdentificationTimeout    time.Duration
}

// DefaultPortDetectionConfig matches the controller's usual USB-serial
// bridge (FTDI, vendor ID 0x0403).
func DefaultPortDetectionConfig() PortDetectionConfig {
	return PortDetectionConfig{
		USBPortsOnly:             true,
		TestDeviceIdentification: true,
		PreferredVendorIDs:       []uint16{0x0403},
		IdentificationTimeout:    2 * time.Second,
	}
}

// PortCandidate is a scored serial port, ready to attempt a connection
// against. Score is clamped to [0, 100]; Reason is set on a zero score
// to explain why (e.g. the port failed to open).
type PortCandidate struct {
	PortName string
	USB      *USBDescriptor
	Score    int
	Reason   string
}

func isPreferredVendor(vid uint16, preferred []uint16) bool {
	for _, v := range preferred {
		if v == vid {
			return true
		}
	}
	return false
}

// probeIdentification opens a throwaway transport at the controller's
// default baud rate, sends enter_remote(OutputOff) then a firmware
// read, and reports whether both came back Ok within timeout.
func probeIdentification(open PortOpener, portName string, timeout time.Duration) bool {
	transport, err := open(portName, lumidoxproto.DefaultBaudRate)
	if err != nil {
		return false
	}
	defer transport.Close()

	engine := lumidoxproto.NewEngine(transport, lumidoxproto.DefaultDetectionConfig())

	enter, err := engine.Execute(lumidoxproto.Command{Code: lumidoxproto.CmdRemoteStateWrite, Data: lumidoxproto.RemoteWriteOutputOff}, timeout)
	if err != nil || enter.Kind != lumidoxproto.Ok {
		return false
	}

	fw, err := engine.Execute(lumidoxproto.Command{Code: lumidoxproto.CmdFirmwareRevision}, timeout)
	return err == nil && fw.Kind == lumidoxproto.Ok
}

// DetectPorts enumerates, filters, scores and ranks candidate serial
// ports. Candidates are sorted by descending score, ties broken by
// port-name lexicographic order.
func DetectPorts(enumerator PortEnumerator, open PortOpener, cfg PortDetectionConfig) ([]PortCandidate, error) {
	ports, err := enumerator.EnumeratePorts()
	if err != nil {
		return nil, err
	}

	candidates := make([]PortCandidate, 0, len(ports))
	for _, p := range ports {
		if cfg.USBPortsOnly && p.USB == nil {
			continue
		}

		c := PortCandidate{PortName: p.Name, USB: p.USB}

		if p.USB != nil {
			c.Score += 40
			if isPreferredVendor(p.USB.VendorID, cfg.PreferredVendorIDs) {
				c.Score += 30
			}
		}

		if cfg.TestDeviceIdentification {
			log.Printf("[detect] probing %s for identification", p.Name)
			if probeIdentification(open, p.Name, cfg.IdentificationTimeout) {
				c.Score += 40 // +30 well-formed response, +10 plausible-firmware bonus
			}
		}

		if c.Score > 100 {
			c.Score = 100
		}
		if c.Score == 0 {
			c.Reason = "no USB descriptor and identification probe failed or was disabled"
		}

		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].PortName < candidates[j].PortName
	})

	return candidates, nil
}
