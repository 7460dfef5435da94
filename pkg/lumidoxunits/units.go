// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package lumidoxunits translates raw 16-bit stage-parameter values
// into engineering units: currents in mA, voltages and power divided
// by their fixed-point scale, and unit-index enumerations decoded via
// the closed unit tables.
package lumidoxunits

// UnitTotal enumerates the possible "total units" index (commands
// 0x7d, 0x85, 0x8d, 0x95, 0x9d). An index outside the known table
// decodes to UnitTotalUnknown, carrying the raw value rather than
// being discarded.
type UnitTotal int

const (
	WattsTotalRadiantPower UnitTotal = iota
	MilliwattsTotalRadiantPower
	WattsPerCm2Irradiance
	MilliwattsPerCm2Irradiance
	TotalUnitsBlank
	AmpsTotalCurrent
	MilliampsTotalCurrent
	UnitTotalUnknown
)

// unitTotalNames mirrors the closed enumeration table.
var unitTotalNames = map[UnitTotal]string{
	WattsTotalRadiantPower:      "W (total radiant power)",
	MilliwattsTotalRadiantPower: "mW (total radiant power)",
	WattsPerCm2Irradiance:       "W/cm^2 (irradiance)",
	MilliwattsPerCm2Irradiance:  "mW/cm^2 (irradiance)",
	TotalUnitsBlank:             "(blank)",
	AmpsTotalCurrent:            "A (total current)",
	MilliampsTotalCurrent:       "mA (total current)",
}

func (u UnitTotal) String() string {
	if name, ok := unitTotalNames[u]; ok {
		return name
	}
	return "unknown"
}

// DecodedUnitTotal pairs the decoded enum with the raw index that
// produced it, so an Unknown result still carries its source value.
type DecodedUnitTotal struct {
	Value UnitTotal
	Raw   uint16
}

// DecodeUnitTotal decodes a raw total-units index. Indices >= 7 map to
// UnitTotalUnknown without discarding the raw value.
func DecodeUnitTotal(raw uint16) DecodedUnitTotal {
	if raw <= uint16(MilliampsTotalCurrent) {
		return DecodedUnitTotal{Value: UnitTotal(raw), Raw: raw}
	}
	return DecodedUnitTotal{Value: UnitTotalUnknown, Raw: raw}
}

// UnitPerLED enumerates the possible "per-LED units" index (commands
// 0x7e, 0x86, 0x8e, 0x96, 0x9e).
type UnitPerLED int

const (
	WattsPerWell UnitPerLED = iota
	MilliwattsPerWell
	WattsTotalRadiantPowerPerLED
	MilliwattsTotalRadiantPowerPerLED
	MilliwattsPerCm2PerWell
	MilliwattsPerCm2
	JoulesPerSecond
	PerLEDUnitsBlank
	AmpsPerWell
	MilliampsPerWell
	UnitPerLEDUnknown
)

var unitPerLEDNames = map[UnitPerLED]string{
	WattsPerWell:                      "W/well",
	MilliwattsPerWell:                 "mW/well",
	WattsTotalRadiantPowerPerLED:      "W (total radiant power)",
	MilliwattsTotalRadiantPowerPerLED: "mW (total radiant power)",
	MilliwattsPerCm2PerWell:           "mW/cm^2/well",
	MilliwattsPerCm2:                  "mW/cm^2",
	JoulesPerSecond:                   "J/s",
	PerLEDUnitsBlank:                  "(blank)",
	AmpsPerWell:                       "A/well",
	MilliampsPerWell:                  "mA/well",
}

func (u UnitPerLED) String() string {
	if name, ok := unitPerLEDNames[u]; ok {
		return name
	}
	return "unknown"
}

// DecodedUnitPerLED pairs the decoded enum with its raw index.
type DecodedUnitPerLED struct {
	Value UnitPerLED
	Raw   uint16
}

// DecodeUnitPerLED decodes a raw per-LED-units index. Indices >= 10
// map to UnitPerLEDUnknown without discarding the raw value.
func DecodeUnitPerLED(raw uint16) DecodedUnitPerLED {
	if raw <= uint16(MilliampsPerWell) {
		return DecodedUnitPerLED{Value: UnitPerLED(raw), Raw: raw}
	}
	return DecodedUnitPerLED{Value: UnitPerLEDUnknown, Raw: raw}
}
