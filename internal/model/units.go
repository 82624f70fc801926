package model

import (
	"fmt"
	"strings"
)

// MeasurementUnit selects the calculation branch and the display units.
type MeasurementUnit string

const (
	Imperial MeasurementUnit = "Imperial" // thickness in quarters, width in inches, length in feet or inches
	Metric   MeasurementUnit = "Metric"   // all dimensions in centimeters
)

func (u MeasurementUnit) String() string { return string(u) }

// Valid reports whether u is one of the known measurement units.
func (u MeasurementUnit) Valid() bool {
	return u == Imperial || u == Metric
}

// ParseMeasurementUnit accepts the persisted value or a common alias.
func ParseMeasurementUnit(s string) (MeasurementUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "imperial", "imp", "us":
		return Imperial, nil
	case "metric", "cm", "si":
		return Metric, nil
	}
	return "", fmt.Errorf("unknown measurement unit %q", s)
}

// LengthUnit is the unit of a board's length under Imperial measurement.
type LengthUnit string

const (
	Feet   LengthUnit = "ft"
	Inches LengthUnit = "in"
)

func (l LengthUnit) String() string { return string(l) }

// Valid reports whether l is one of the known length units.
func (l LengthUnit) Valid() bool {
	return l == Feet || l == Inches
}

// Symbol returns the display symbol for the unit: ' for feet, " for inches.
func (l LengthUnit) Symbol() string {
	if l == Inches {
		return `"`
	}
	return "'"
}

// ParseLengthUnit accepts the persisted value or a common alias.
func ParseLengthUnit(s string) (LengthUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ft", "feet", "foot", "'":
		return Feet, nil
	case "in", "inch", "inches", `"`:
		return Inches, nil
	}
	return "", fmt.Errorf("unknown length unit %q", s)
}

// PricingType decides whether a board is priced by volume or by length.
type PricingType string

const (
	PerBoardFoot PricingType = "Per Board Foot"
	Linear       PricingType = "Linear"
)

func (p PricingType) String() string { return string(p) }

// Valid reports whether p is one of the known pricing types.
func (p PricingType) Valid() bool {
	return p == PerBoardFoot || p == Linear
}

// ParsePricingType accepts the persisted value or a common alias.
func ParsePricingType(s string) (PricingType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "per board foot", "board foot", "boardfoot", "bf", "pbf":
		return PerBoardFoot, nil
	case "linear", "lin", "lf":
		return Linear, nil
	}
	return "", fmt.Errorf("unknown pricing type %q", s)
}
