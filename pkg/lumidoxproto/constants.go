// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package lumidoxproto implements the ASCII-framed request/response
// protocol spoken over the RS-232/USB-serial link to a Lumidox II
// controller: frame encoding/decoding, a single-transaction transport,
// and a protocol engine that composes the two with retry and timeout
// handling.
package lumidoxproto

// Wire framing bytes.
const (
	STX = 0x2A // '*' - starts an outbound command frame
	ETX = 0x0D // CR  - ends an outbound command frame
	ACK = 0x5E // '^' - ends an inbound response frame
)

// ChecksumRejectValue is the checksum byte the controller emits on the
// sentinel response it sends when it rejects a command's checksum.
const ChecksumRejectValue = 0x60

// DefaultBaudRate is the controller's documented default baud rate.
const DefaultBaudRate = 19200

// Command codes, per the Lumidox II command table.
const (
	CmdFirmwareRevision = 0x02
	CmdRemoteStateRead  = 0x13
	CmdRemoteStateWrite = 0x15
	CmdArmCurrentRead   = 0x20
	CmdFireCurrentRead  = 0x21
	CmdArmCurrentWrite  = 0x40
	CmdFireCurrentWrite = 0x41

	CmdSerialCharBase      = 0x60 // 0x60..0x6b, 12 characters
	CmdModelCharBase       = 0x6c // 0x6c..0x73, 8 characters
	CmdSerialCharCount     = 12
	CmdModelCharCount      = 8
	CmdWavelengthCharCount = 5
)

// CmdWavelengthChars gives the wavelength character command codes in
// the exact order they must be issued; they are not contiguous.
var CmdWavelengthChars = [CmdWavelengthCharCount]uint8{0x76, 0x81, 0x82, 0x89, 0x8a}

// Remote-state write payloads for command 0x15.
const (
	RemoteWriteOff       uint16 = 0
	RemoteWriteOutputOff uint16 = 1
	RemoteWriteArmed     uint16 = 2
	RemoteWriteFiring    uint16 = 3
)

// StageBase returns the base command code for stage n (1..=5), per the
// stage-N base-offset table.
func StageBase(n int) uint8 {
	switch n {
	case 1:
		return 0x77
	case 2:
		return 0x7f
	case 3:
		return 0x87
	case 4:
		return 0x8f
	case 5:
		return 0x97
	default:
		return 0
	}
}

// Stage parameter offsets, added to a stage's base command code.
const (
	StageOffsetArmCurrent  = 0
	StageOffsetFireCurrent = 1
	StageOffsetVoltLimit   = 2
	StageOffsetVoltStart   = 3
	StageOffsetPowerTotal  = 4
	StageOffsetPowerPerLED = 5
	StageOffsetUnitsTotal  = 6
	StageOffsetUnitsPerLED = 7
)
