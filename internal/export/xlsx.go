package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/boardfoot/internal/model"
)

const (
	summarySheet  = "Orders"
	maxSheetName  = 31
	invalidSheets = `:\/?*[]`
)

var boardHeaders = []string{"Species", "Board", "Quantity", "Thickness", "Width", "Length", "Unit", "Length Unit", "Pricing", "Price", "Board Feet", "Cost"}

// ExportExcel writes the saved orders as a workbook: an Orders summary sheet
// followed by one sheet per order listing its boards.
func ExportExcel(path string, orders []model.SavedOrder) error {
	if len(orders) == 0 {
		return fmt.Errorf("no orders to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	summary := [][]interface{}{{"Name", "Date", "Boards", "Total Board Feet", "Total Cost"}}

	used := map[string]bool{strings.ToLower(summarySheet): true}
	for _, o := range orders {
		summary = append(summary, []interface{}{o.Name, model.FormatReportDate(o.Date), len(o.Boards), o.TotalBoardFeet, o.TotalCost})

		name := uniqueSheetName(o.Name, used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
		if err := writeRows(f, name, orderRows(o)); err != nil {
			return err
		}
	}

	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func orderRows(o model.SavedOrder) [][]interface{} {
	header := make([]interface{}, len(boardHeaders))
	for i, h := range boardHeaders {
		header[i] = h
	}
	rows := [][]interface{}{header}
	for _, b := range o.Boards {
		lengthUnit := ""
		if b.LengthUnit != nil {
			lengthUnit = b.LengthUnit.String()
		}
		rows = append(rows, []interface{}{
			b.Species(),
			model.DisplayString(b, false),
			b.Quantity,
			optional(b.Thickness),
			optional(b.Width),
			b.Length,
			b.Unit.String(),
			lengthUnit,
			b.PricingType.String(),
			optional(b.Price),
			model.BoardFeet(b),
			model.Cost(b),
		})
	}
	rows = append(rows, []interface{}{"Total", "", "", "", "", "", "", "", "", "", o.TotalBoardFeet, o.TotalCost})
	return rows
}

// optional returns nil for absent values so the cell stays blank.
func optional(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// uniqueSheetName turns an order name into a valid, unused worksheet name.
func uniqueSheetName(name string, used map[string]bool) string {
	base := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheets, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	base = strings.Trim(base, "'")
	if base == "" {
		base = "Order"
	}
	base = truncateRunes(base, maxSheetName)

	candidate := base
	// Excel compares sheet names case-insensitively
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := " (" + strconv.Itoa(n) + ")"
		candidate = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
