package model

import "fmt"

// cubicCmPerBoardFoot is the volume of one board foot in cubic centimeters.
// 1 board foot = 12" x 12" x 1" = 144 cubic inches = 2359.737 cm³.
const cubicCmPerBoardFoot = 2359.737

// BoardFeet returns the volume of a board entry in board feet, quantity
// included. Linear-priced boards and boards without thickness or width have
// no volume and return 0. The result is not rounded.
func BoardFeet(b BoardEntry) float64 {
	if b.PricingType == Linear {
		return 0
	}
	if b.Thickness == nil || b.Width == nil || *b.Thickness == 0 || *b.Width == 0 {
		return 0
	}

	switch b.Unit {
	case Imperial:
		// Thickness is in quarters of an inch
		thicknessInches := *b.Thickness / 4.0
		lengthFeet := b.Length
		if b.LengthUnitOrFeet() == Inches {
			lengthFeet = b.Length / 12.0
		}
		return thicknessInches * *b.Width * lengthFeet / 12.0 * float64(b.Quantity)
	case Metric:
		return *b.Thickness * *b.Width * b.Length / cubicCmPerBoardFoot * float64(b.Quantity)
	}
	panic(fmt.Sprintf("model: unknown measurement unit %q", b.Unit))
}

// Cost returns the price of a board entry, quantity included. Boards without
// a price (or priced at zero) cost nothing.
func Cost(b BoardEntry) float64 {
	if b.Price == nil || *b.Price == 0 {
		return 0
	}

	switch b.PricingType {
	case PerBoardFoot:
		// Quantity is already part of the board feet
		return BoardFeet(b) * *b.Price
	case Linear:
		return b.Length * *b.Price * float64(b.Quantity)
	}
	panic(fmt.Sprintf("model: unknown pricing type %q", b.PricingType))
}

// Totals sums board feet and cost over a list of boards.
func Totals(boards []BoardEntry) (boardFeet, cost float64) {
	for _, b := range boards {
		boardFeet += BoardFeet(b)
		cost += Cost(b)
	}
	return boardFeet, cost
}

// DisplayString renders a board the way it appears in lists and exports,
// e.g. `5 × 4/4" × 6" × 8' - Maple`. The species suffix is omitted when
// includeSpecies is false or the board has no species.
func DisplayString(b BoardEntry, includeSpecies bool) string {
	quantity := ""
	if b.Quantity > 1 {
		quantity = fmt.Sprintf("%d × ", b.Quantity)
	}
	species := ""
	if includeSpecies && b.WoodSpecies != nil && *b.WoodSpecies != "" {
		species = " - " + *b.WoodSpecies
	}

	if b.PricingType == Linear {
		switch b.Unit {
		case Imperial:
			return quantity + formatNumber(b.Length) + b.LengthUnitOrFeet().Symbol() + species
		case Metric:
			return quantity + formatNumber(b.Length) + "cm" + species
		}
		panic(fmt.Sprintf("model: unknown measurement unit %q", b.Unit))
	}

	if b.Thickness == nil || b.Width == nil || *b.Thickness == 0 || *b.Width == 0 {
		return ""
	}

	switch b.Unit {
	case Imperial:
		return fmt.Sprintf(`%s%s/4" × %s" × %s%s%s`,
			quantity, formatNumber(roundHalfUp(*b.Thickness)), formatNumber(*b.Width),
			formatNumber(b.Length), b.LengthUnitOrFeet().Symbol(), species)
	case Metric:
		return fmt.Sprintf("%s%scm × %scm × %scm%s",
			quantity, formatNumber(*b.Thickness), formatNumber(*b.Width), formatNumber(b.Length), species)
	}
	panic(fmt.Sprintf("model: unknown measurement unit %q", b.Unit))
}
