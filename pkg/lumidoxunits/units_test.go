// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lumidoxunits

import (
	"testing"

	"github.com/lumidox/lumidox2ctl/pkg/lumidoxproto"
)

func TestDecodeUnitTotalUnknownAboveSeven(t *testing.T) {
	for raw := uint16(7); raw < 20; raw++ {
		got := DecodeUnitTotal(raw)
		if got.Value != UnitTotalUnknown {
			t.Errorf("DecodeUnitTotal(%d) = %v, want Unknown", raw, got.Value)
		}
		if got.Raw != raw {
			t.Errorf("DecodeUnitTotal(%d).Raw = %d, want %d", raw, got.Raw, raw)
		}
	}
}

func TestDecodeUnitTotalKnownValues(t *testing.T) {
	want := []UnitTotal{
		WattsTotalRadiantPower, MilliwattsTotalRadiantPower, WattsPerCm2Irradiance,
		MilliwattsPerCm2Irradiance, TotalUnitsBlank, AmpsTotalCurrent, MilliampsTotalCurrent,
	}
	for i, w := range want {
		got := DecodeUnitTotal(uint16(i))
		if got.Value != w {
			t.Errorf("DecodeUnitTotal(%d) = %v, want %v", i, got.Value, w)
		}
	}
}

func TestDecodeUnitPerLEDUnknownAboveTen(t *testing.T) {
	for raw := uint16(10); raw < 25; raw++ {
		got := DecodeUnitPerLED(raw)
		if got.Value != UnitPerLEDUnknown {
			t.Errorf("DecodeUnitPerLED(%d) = %v, want Unknown", raw, got.Value)
		}
	}
}

func TestStageCommandsMatchBaseOffsets(t *testing.T) {
	for n := 1; n <= 5; n++ {
		base := lumidoxproto.StageBase(n)
		cmds, err := StageCommands(n)
		if err != nil {
			t.Fatalf("stage %d: %v", n, err)
		}
		for k, code := range cmds {
			if code != base+uint8(k) {
				t.Errorf("stage %d offset %d: code = 0x%02x, want 0x%02x", n, k, code, base+uint8(k))
			}
		}
	}
}

func TestStageCommandsInvalidStage(t *testing.T) {
	for _, n := range []int{0, 6, -1} {
		if _, err := StageCommands(n); err == nil {
			t.Errorf("StageCommands(%d): want error", n)
		}
	}
}

func TestAssembleStageParametersScaling(t *testing.T) {
	// Worked example: stage-1 fire current 0x0BB8 = 3000 mA.
	raw := [8]uint16{0x0320, 0x0bb8, 2400, 1200, 150, 30, 1, 9}
	sp := AssembleStageParameters(raw)

	if sp.ArmCurrentMA != 0x0320 {
		t.Errorf("ArmCurrentMA = %d, want %d", sp.ArmCurrentMA, 0x0320)
	}
	if sp.FireCurrentMA != 0x0bb8 {
		t.Errorf("FireCurrentMA = %d, want 3000", sp.FireCurrentMA)
	}
	if sp.VoltLimitV != 24.0 {
		t.Errorf("VoltLimitV = %v, want 24.0", sp.VoltLimitV)
	}
	if sp.VoltStartV != 12.0 {
		t.Errorf("VoltStartV = %v, want 12.0", sp.VoltStartV)
	}
	if sp.PowerTotal != 15.0 {
		t.Errorf("PowerTotal = %v, want 15.0", sp.PowerTotal)
	}
	if sp.PowerPerLED != 3.0 {
		t.Errorf("PowerPerLED = %v, want 3.0", sp.PowerPerLED)
	}
	if sp.TotalUnits.Value != MilliwattsTotalRadiantPower {
		t.Errorf("TotalUnits = %v, want MilliwattsTotalRadiantPower", sp.TotalUnits.Value)
	}
	if sp.PerLEDUnits.Value != MilliampsPerWell {
		t.Errorf("PerLEDUnits = %v, want MilliampsPerWell", sp.PerLEDUnits.Value)
	}
}
