package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// BoardInput holds the raw values typed in for a new board together with the
// currently selected units and pricing mode.
type BoardInput struct {
	Unit        MeasurementUnit
	LengthUnit  LengthUnit
	PricingType PricingType

	Thickness string
	Width     string
	Length    string
	Quantity  string
	Price     string
	Species   string
}

// NewBoardInput returns an empty input with quantity 1, imperial feet and
// per board foot pricing selected.
func NewBoardInput() BoardInput {
	return BoardInput{
		Unit:        Imperial,
		LengthUnit:  Feet,
		PricingType: PerBoardFoot,
		Quantity:    "1",
	}
}

// ApplyPreset copies a lumber preset's thickness and width into the input.
func (in *BoardInput) ApplyPreset(p LumberPreset) {
	in.Thickness = formatNumber(p.Thickness)
	in.Width = formatNumber(p.Width)
}

// ResetDimensions clears the dimension fields and resets quantity to 1.
// Price and species are kept so consecutive boards can share them.
func (in *BoardInput) ResetDimensions() {
	in.Thickness = ""
	in.Width = ""
	in.Length = ""
	in.Quantity = "1"
}

// CanAdd reports whether the input would produce a valid board.
func (in BoardInput) CanAdd() bool {
	return in.Validate() == nil
}

// Validate checks the raw input without building a board.
func (in BoardInput) Validate() error {
	_, err := in.parse()
	return err
}

// Build validates the input and constructs a new BoardEntry with a fresh ID.
func (in BoardInput) Build() (BoardEntry, error) {
	b, err := in.parse()
	if err != nil {
		return BoardEntry{}, err
	}
	b.ID = uuid.New().String()
	return b, nil
}

func (in BoardInput) parse() (BoardEntry, error) {
	if !in.Unit.Valid() {
		return BoardEntry{}, fmt.Errorf("%w: unknown unit %q", ErrInvalidInput, in.Unit)
	}
	if !in.PricingType.Valid() {
		return BoardEntry{}, fmt.Errorf("%w: unknown pricing type %q", ErrInvalidInput, in.PricingType)
	}

	qty, err := strconv.Atoi(strings.TrimSpace(in.Quantity))
	if err != nil || qty <= 0 {
		return BoardEntry{}, fmt.Errorf("%w: quantity %q must be a whole number > 0", ErrInvalidInput, in.Quantity)
	}
	length, err := parsePositive("length", in.Length)
	if err != nil {
		return BoardEntry{}, err
	}

	b := BoardEntry{
		Length:      length,
		Quantity:    qty,
		Unit:        in.Unit,
		PricingType: in.PricingType,
	}

	if in.PricingType == PerBoardFoot {
		thickness, err := parsePositive("thickness", in.Thickness)
		if err != nil {
			return BoardEntry{}, err
		}
		width, err := parsePositive("width", in.Width)
		if err != nil {
			return BoardEntry{}, err
		}
		b.Thickness = &thickness
		b.Width = &width
	}

	if in.Unit == Imperial {
		lu := in.LengthUnit
		if lu == "" {
			lu = Feet
		}
		if !lu.Valid() {
			return BoardEntry{}, fmt.Errorf("%w: unknown length unit %q", ErrInvalidInput, in.LengthUnit)
		}
		b.LengthUnit = &lu
	}

	if s := strings.TrimSpace(in.Price); s != "" {
		price, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
			return BoardEntry{}, fmt.Errorf("%w: price %q must be a number >= 0", ErrInvalidInput, in.Price)
		}
		b.Price = &price
	}

	if s := strings.TrimSpace(in.Species); s != "" {
		b.WoodSpecies = &s
	}

	return b, nil
}

func parsePositive(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("%w: %s %q must be a number > 0", ErrInvalidInput, field, raw)
	}
	return v, nil
}
