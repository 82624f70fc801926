// Package importer provides CSV and Excel import functionality for board lists.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/boardfoot/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Boards   []model.BoardEntry
	Errors   []string
	Warnings []string
}

// Options supplies the values used when a row leaves a column blank or the
// file has no such column.
type Options struct {
	Unit       model.MeasurementUnit
	LengthUnit model.LengthUnit
	Species    string
	Price      string
}

// DefaultOptions returns imperial feet with no default species or price.
func DefaultOptions() Options {
	return Options{Unit: model.Imperial, LengthUnit: model.Feet}
}

// OptionsFromConfig derives import defaults from the application config.
func OptionsFromConfig(cfg model.AppConfig) Options {
	in := model.NewBoardInput()
	cfg.ApplyToInput(&in)
	return Options{Unit: in.Unit, LengthUnit: in.LengthUnit, Species: in.Species, Price: in.Price}
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Species    int
	Thickness  int
	Width      int
	Length     int
	Quantity   int
	Price      int
	Unit       int
	LengthUnit int
	Pricing    int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"species":    {"species", "wood", "wood species", "woodspecies", "material", "lumber"},
	"thickness":  {"thickness", "thick", "t", "quarters", "qtr"},
	"width":      {"width", "w", "wide"},
	"length":     {"length", "len", "l", "long"},
	"quantity":   {"quantity", "qty", "count", "num", "pcs", "pieces"},
	"price":      {"price", "cost", "rate", "unit price"},
	"unit":       {"unit", "units", "measurement", "system"},
	"lengthunit": {"length unit", "lengthunit", "length units"},
	"pricing":    {"pricing", "pricing type", "pricingtype", "priced by"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a default positional
// mapping (Species, Thickness, Width, Length, Quantity, Price) and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{-1, -1, -1, -1, -1, -1, -1, -1, -1}
	slots := map[string]*int{
		"species":    &mapping.Species,
		"thickness":  &mapping.Thickness,
		"width":      &mapping.Width,
		"length":     &mapping.Length,
		"quantity":   &mapping.Quantity,
		"price":      &mapping.Price,
		"unit":       &mapping.Unit,
		"lengthunit": &mapping.LengthUnit,
		"pricing":    &mapping.Pricing,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if slot := slots[role]; *slot == -1 {
						*slot = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{
			Species:    0,
			Thickness:  1,
			Width:      2,
			Length:     3,
			Quantity:   4,
			Price:      5,
			Unit:       -1,
			LengthUnit: -1,
			Pricing:    -1,
		}, false
	}

	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow builds a board from a row using the given column mapping.
// Returns the board, any error message, and any warnings.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, opts Options) (model.BoardEntry, string, []string) {
	var warnings []string

	in := model.NewBoardInput()
	in.Unit = opts.Unit
	in.LengthUnit = opts.LengthUnit
	in.Species = opts.Species
	in.Price = opts.Price

	if s := getCell(row, mapping.Unit); s != "" {
		if u, err := model.ParseMeasurementUnit(s); err == nil {
			in.Unit = u
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown unit '%s', defaulting to %s", rowLabel, s, in.Unit))
		}
	}
	if s := getCell(row, mapping.LengthUnit); s != "" {
		if lu, err := model.ParseLengthUnit(s); err == nil {
			in.LengthUnit = lu
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown length unit '%s', defaulting to %s", rowLabel, s, in.LengthUnit))
		}
	}

	in.Thickness = getCell(row, mapping.Thickness)
	in.Width = getCell(row, mapping.Width)
	in.Length = getCell(row, mapping.Length)
	if s := getCell(row, mapping.Quantity); s != "" {
		in.Quantity = s
	}
	if s := getCell(row, mapping.Price); s != "" {
		in.Price = strings.TrimPrefix(s, "$")
	}
	if s := getCell(row, mapping.Species); s != "" {
		in.Species = s
	}

	// Rows without a cross-section are priced by length
	if in.Thickness == "" && in.Width == "" {
		in.PricingType = model.Linear
	}
	if s := getCell(row, mapping.Pricing); s != "" {
		if p, err := model.ParsePricingType(s); err == nil {
			in.PricingType = p
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown pricing type '%s', defaulting to %s", rowLabel, s, in.PricingType))
		}
	}

	if in.Length == "" {
		return model.BoardEntry{}, fmt.Sprintf("%s: Missing length value", rowLabel), warnings
	}

	b, err := in.Build()
	if err != nil {
		return model.BoardEntry{}, fmt.Sprintf("%s: %v", rowLabel, err), warnings
	}
	return b, "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports boards from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string, opts Options) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings, opts)
}

// ImportCSVFromReader imports boards from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, opts Options) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil, opts)
}

// ImportExcel imports boards from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string, opts Options) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil, opts)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string, opts Options) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		if mapping.Length == -1 {
			result.Errors = append(result.Errors, "Required columns not found in header: Length")
			return result
		}
	} else if len(rows[0]) >= 4 {
		// An unrecognized header has no number in the length column
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][mapping.Length]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		board, errMsg, warnings := parseRow(row, mapping, rowLabel, opts)
		result.Warnings = append(result.Warnings, warnings...)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}

		result.Boards = append(result.Boards, board)
	}

	return result
}
