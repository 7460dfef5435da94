// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lumidoxdetect

import (
	"strconv"

	"go.bug.st/serial/enumerator"

	"github.com/lumidox/lumidox2ctl/pkg/lumidoxproto"
)

// SystemEnumerator lists serial ports via go.bug.st/serial/enumerator,
// the OS-level port lister the controller's USB-serial bridge shows up
// through.
type SystemEnumerator struct{}

// EnumeratePorts implements PortEnumerator.
func (SystemEnumerator) EnumeratePorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		info := PortInfo{Name: d.Name}
		if d.IsUSB {
			vid, _ := strconv.ParseUint(d.VID, 16, 16)
			pid, _ := strconv.ParseUint(d.PID, 16, 16)
			info.USB = &USBDescriptor{
				VendorID:     uint16(vid),
				ProductID:    uint16(pid),
				SerialNumber: d.SerialNumber,
			}
		}
		ports = append(ports, info)
	}
	return ports, nil
}

var _ PortEnumerator = SystemEnumerator{}

// OpenSystemPort adapts lumidoxproto.OpenSerialTransport to the
// PortOpener signature.
func OpenSystemPort(name string, baudRate int) (lumidoxproto.Transport, error) {
	return lumidoxproto.OpenSerialTransport(name, baudRate)
}
