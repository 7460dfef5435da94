// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lumidoxunits

import (
	"fmt"

	"github.com/lumidox/lumidox2ctl/pkg/lumidoxproto"
)

// StageParameters holds one stage's pre-programmed operating point,
// decoded into engineering units.
type StageParameters struct {
	ArmCurrentMA  uint16
	FireCurrentMA uint16
	VoltLimitV    float32
	VoltStartV    float32
	PowerTotal    float32
	PowerPerLED   float32
	TotalUnits    DecodedUnitTotal
	PerLEDUnits   DecodedUnitPerLED
}

// StageCommands lists, in read order, the eight command codes that
// make up stage n's parameters: arm, fire, vlim, vstart, ptot, pled,
// units_total, units_per_led.
func StageCommands(n int) ([8]uint8, error) {
	base := lumidoxproto.StageBase(n)
	if base == 0 {
		return [8]uint8{}, fmt.Errorf("lumidoxunits: invalid stage %d (must be 1..5)", n)
	}
	return [8]uint8{
		base + lumidoxproto.StageOffsetArmCurrent,
		base + lumidoxproto.StageOffsetFireCurrent,
		base + lumidoxproto.StageOffsetVoltLimit,
		base + lumidoxproto.StageOffsetVoltStart,
		base + lumidoxproto.StageOffsetPowerTotal,
		base + lumidoxproto.StageOffsetPowerPerLED,
		base + lumidoxproto.StageOffsetUnitsTotal,
		base + lumidoxproto.StageOffsetUnitsPerLED,
	}, nil
}

// AssembleStageParameters builds a StageParameters from the raw 16-bit
// values returned for each of the eight command codes StageCommands
// returns, in the same order. Voltage fields divide by 100, power
// fields divide by 10.
func AssembleStageParameters(raw [8]uint16) StageParameters {
	return StageParameters{
		ArmCurrentMA:  raw[0],
		FireCurrentMA: raw[1],
		VoltLimitV:    float32(raw[2]) / 100,
		VoltStartV:    float32(raw[3]) / 100,
		PowerTotal:    float32(raw[4]) / 10,
		PowerPerLED:   float32(raw[5]) / 10,
		TotalUnits:    DecodeUnitTotal(raw[6]),
		PerLEDUnits:   DecodeUnitPerLED(raw[7]),
	}
}
