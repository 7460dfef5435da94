// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lumidoxdevice

import "strings"

// DeviceIdentity holds the identifying metadata read from the
// attached smart card.
type DeviceIdentity struct {
	FirmwareRevision uint16
	Model            string
	Serial           string
	Wavelength       string
}

// trimCharTail drops trailing NUL and space bytes, the two fill values
// the controller pads fixed-width identity strings with.
func trimCharTail(chars []byte) string {
	return strings.TrimRight(string(chars), "\x00 ")
}

// assembleChars converts a slice of 16-bit character reads into a
// trimmed string, taking the low byte of each value as its ASCII
// codepoint.
func assembleChars(values []uint16) string {
	chars := make([]byte, len(values))
	for i, v := range values {
		chars[i] = byte(v)
	}
	return trimCharTail(chars)
}
