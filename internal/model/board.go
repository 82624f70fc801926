package model

import (
	"errors"
	"fmt"
)

// UnknownSpecies is the grouping bucket for boards without a species.
const UnknownSpecies = "Unknown"

// ErrInvalidInput is returned when raw input cannot become a BoardEntry.
var ErrInvalidInput = errors.New("invalid board input")

// BoardEntry is one line item of an order.
//
// Optional fields are pointers: nil means absent. Thickness and Width are
// present exactly when PricingType is PerBoardFoot, LengthUnit exactly when
// Unit is Imperial.
type BoardEntry struct {
	ID          string          `json:"id"`
	Thickness   *float64        `json:"thickness"` // quarters (Imperial) or cm (Metric)
	Width       *float64        `json:"width"`     // inches (Imperial) or cm (Metric)
	Length      float64         `json:"length"`    // LengthUnit (Imperial) or cm (Metric)
	Quantity    int             `json:"quantity"`
	Unit        MeasurementUnit `json:"unit"`
	LengthUnit  *LengthUnit     `json:"lengthUnit"`
	Price       *float64        `json:"price"` // per board foot or per linear unit
	PricingType PricingType     `json:"pricingType"`
	WoodSpecies *string         `json:"woodSpecies"`
}

// Ptr returns a pointer to v. It keeps optional-field literals short.
func Ptr[T any](v T) *T {
	return &v
}

// Species returns the species label used to group the board.
func (b BoardEntry) Species() string {
	if b.WoodSpecies == nil || *b.WoodSpecies == "" {
		return UnknownSpecies
	}
	return *b.WoodSpecies
}

// LengthUnitOrFeet returns the Imperial length unit, defaulting to feet.
func (b BoardEntry) LengthUnitOrFeet() LengthUnit {
	if b.LengthUnit == nil {
		return Feet
	}
	return *b.LengthUnit
}

// Clone returns a copy of b that shares no pointers with it.
func (b BoardEntry) Clone() BoardEntry {
	cp := b
	cp.Thickness = clonePtr(b.Thickness)
	cp.Width = clonePtr(b.Width)
	cp.LengthUnit = clonePtr(b.LengthUnit)
	cp.Price = clonePtr(b.Price)
	cp.WoodSpecies = clonePtr(b.WoodSpecies)
	return cp
}

// Validate checks the presence invariants and value ranges of b.
func (b BoardEntry) Validate() error {
	if !b.Unit.Valid() {
		return fmt.Errorf("%w: unknown unit %q", ErrInvalidInput, b.Unit)
	}
	if !b.PricingType.Valid() {
		return fmt.Errorf("%w: unknown pricing type %q", ErrInvalidInput, b.PricingType)
	}
	if b.Length <= 0 {
		return fmt.Errorf("%w: length must be > 0", ErrInvalidInput)
	}
	if b.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be >= 1", ErrInvalidInput)
	}
	hasDims := b.Thickness != nil && b.Width != nil
	switch b.PricingType {
	case PerBoardFoot:
		if !hasDims || *b.Thickness <= 0 || *b.Width <= 0 {
			return fmt.Errorf("%w: thickness and width must be > 0 for per board foot pricing", ErrInvalidInput)
		}
	case Linear:
		if b.Thickness != nil || b.Width != nil {
			return fmt.Errorf("%w: linear pricing takes no thickness or width", ErrInvalidInput)
		}
	}
	if (b.Unit == Imperial) != (b.LengthUnit != nil) {
		return fmt.Errorf("%w: length unit must be set exactly for imperial boards", ErrInvalidInput)
	}
	if b.LengthUnit != nil && !b.LengthUnit.Valid() {
		return fmt.Errorf("%w: unknown length unit %q", ErrInvalidInput, *b.LengthUnit)
	}
	return nil
}

// CloneBoards deep-copies a board list. A nil list yields an empty one.
func CloneBoards(boards []BoardEntry) []BoardEntry {
	cp := make([]BoardEntry, len(boards))
	for i, b := range boards {
		cp[i] = b.Clone()
	}
	return cp
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
