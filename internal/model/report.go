package model

import (
	"strings"
	"time"
)

// DraftExportTitle heads the report of the unsaved working list.
const DraftExportTitle = "Board Foot Calculator Export"

// reportDateLayout is the en-US short date and time. The separator before
// the AM/PM marker is an ASCII space, not U+202F.
const reportDateLayout = "1/2/2006 3:04:05 PM"

// SpeciesGroup is the set of boards sharing a species label.
type SpeciesGroup struct {
	Species string
	Boards  []BoardEntry
}

// BoardFeet returns the summed board feet of the group.
func (g SpeciesGroup) BoardFeet() float64 {
	bf, _ := Totals(g.Boards)
	return bf
}

// Cost returns the summed cost of the group.
func (g SpeciesGroup) Cost() float64 {
	_, cost := Totals(g.Boards)
	return cost
}

// GroupBySpecies buckets boards by species. Groups appear in the order their
// species is first seen; boards without a species go to "Unknown".
func GroupBySpecies(boards []BoardEntry) []SpeciesGroup {
	var groups []SpeciesGroup
	index := make(map[string]int)
	for _, b := range boards {
		species := b.Species()
		i, ok := index[species]
		if !ok {
			i = len(groups)
			index[species] = i
			groups = append(groups, SpeciesGroup{Species: species})
		}
		groups[i].Boards = append(groups[i].Boards, b)
	}
	return groups
}

// FormatReportDate renders a timestamp as it appears on the report date line.
func FormatReportDate(t time.Time) string {
	return t.Format(reportDateLayout)
}

// GenerateReport renders the plain-text report for a board list. The date
// line is omitted when date is nil. Totals are computed from boards.
func GenerateReport(title string, date *time.Time, boards []BoardEntry) string {
	totalBF, totalCost := Totals(boards)
	return writeReport(title, date, boards, totalBF, totalCost)
}

func writeReport(title string, date *time.Time, boards []BoardEntry, totalBF, totalCost float64) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n")
	if date != nil {
		sb.WriteString("Date: ")
		sb.WriteString(FormatReportDate(*date))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	for _, g := range GroupBySpecies(boards) {
		sb.WriteString(g.Species)
		sb.WriteString(":\n")

		var speciesBF, speciesCost float64
		for _, b := range g.Boards {
			bf := BoardFeet(b)
			cost := Cost(b)
			speciesBF += bf
			speciesCost += cost

			sb.WriteString("  ")
			sb.WriteString(DisplayString(b, false))
			if bf > 0 {
				sb.WriteString(" - " + FormatFixed2(bf) + " bf")
			}
			if cost > 0 {
				sb.WriteString(" - $" + FormatFixed2(cost))
			}
			sb.WriteString("\n")
		}

		sb.WriteString(SubtotalLine(speciesBF, speciesCost))
		sb.WriteString("\n\n")
	}

	if totalBF > 0 {
		sb.WriteString("Total Board Feet: " + FormatFixed2(totalBF) + " bf\n")
	}
	if totalCost > 0 {
		sb.WriteString("Total Cost: $" + FormatFixed2(totalCost) + "\n")
	}
	return sb.String()
}

// SubtotalLine renders a species subtotal. Zero board feet or zero cost are
// left out; the line is empty when both are zero.
func SubtotalLine(boardFeet, cost float64) string {
	var sb strings.Builder
	if boardFeet > 0 {
		sb.WriteString("  Subtotal: " + FormatFixed2(boardFeet) + " bf")
	}
	if cost > 0 {
		if boardFeet > 0 {
			sb.WriteString(" - ")
		} else {
			sb.WriteString("  Subtotal: ")
		}
		sb.WriteString("$" + FormatFixed2(cost))
	}
	return sb.String()
}
