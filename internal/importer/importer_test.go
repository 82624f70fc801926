package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/boardfoot/internal/model"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Species,Thickness,Width,Length\nOak,4,6,8\nAsh,8,5,10\n", ','},
		{"semicolon", "Species;Thickness;Width;Length\nOak;4;6;8\nAsh;8;5;10\n", ';'},
		{"tab", "Species\tThickness\tWidth\tLength\nOak\t4\t6\t8\nAsh\t8\t5\t10\n", '\t'},
		{"pipe", "Species|Thickness|Width|Length\nOak|4|6|8\nAsh|8|5|10\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q delimiter, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Species", "Thickness", "Width", "Length", "Quantity", "Price", "Unit", "Length Unit", "Pricing"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{0, 1, 2, 3, 4, 5, 6, 7, 8}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_AliasesAndCase(t *testing.T) {
	row := []string{"QTY", "Len", "WOOD", "Cost"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Quantity != 0 || mapping.Length != 1 || mapping.Species != 2 || mapping.Price != 3 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
	if mapping.Thickness != -1 || mapping.Width != -1 || mapping.Unit != -1 {
		t.Errorf("unmapped columns should be -1: %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Oak", "4", "6", "8", "2", "5.50"})

	if isHeader {
		t.Error("numeric row should not be a header")
	}
	if mapping.Species != 0 || mapping.Thickness != 1 || mapping.Width != 2 ||
		mapping.Length != 3 || mapping.Quantity != 4 || mapping.Price != 5 {
		t.Errorf("unexpected positional mapping: %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Species,Thickness,Width,Length,Qty,Price\n" +
		"Oak,8,6,8,1,5\n" +
		"Walnut,4,6,8,5,12.50\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',', DefaultOptions())

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(result.Boards))
	}

	oak := result.Boards[0]
	if oak.Species() != "Oak" || oak.PricingType != model.PerBoardFoot {
		t.Errorf("unexpected oak board: %+v", oak)
	}
	if model.BoardFeet(oak) != 8 || model.Cost(oak) != 40 {
		t.Errorf("expected 8 bf / $40, got %v / %v", model.BoardFeet(oak), model.Cost(oak))
	}
	if result.Boards[1].Quantity != 5 || *result.Boards[1].Price != 12.5 {
		t.Errorf("unexpected walnut board: %+v", result.Boards[1])
	}
	if oak.ID == "" || oak.ID == result.Boards[1].ID {
		t.Error("imported boards need unique IDs")
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "Oak,4,6,8,2,5\nPine,,,10,3,2\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',', DefaultOptions())

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(result.Boards))
	}
	pine := result.Boards[1]
	if pine.PricingType != model.Linear || pine.Thickness != nil || pine.Width != nil {
		t.Errorf("row without cross-section should be linear: %+v", pine)
	}
	if model.Cost(pine) != 60 {
		t.Errorf("expected linear cost 60, got %v", model.Cost(pine))
	}
}

func TestImportCSVFromReader_UnrecognizedHeaderSkipped(t *testing.T) {
	data := "Kind,Q,Wd,Ft\nOak,4,6,8\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',', DefaultOptions())

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Boards) != 1 {
		t.Fatalf("expected 1 board, got %d", len(result.Boards))
	}
}

func TestImportCSVFromReader_SemicolonDelimiter(t *testing.T) {
	data := "Species;Length;Quantity\nCedar;12;4\n"

	result := ImportCSVFromReader(strings.NewReader(data), ';', DefaultOptions())

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Boards) != 1 || result.Boards[0].Quantity != 4 {
		t.Errorf("unexpected boards: %+v", result.Boards)
	}
}

func TestImportCSVFromReader_UnitColumns(t *testing.T) {
	data := "Thickness,Width,Length,Unit,Length Unit,Pricing,Price\n" +
		"2.5,15,200,Metric,,Per Board Foot,4\n" +
		"4,6,96,Imperial,in,bf,\n" +
		"4,6,96,Imperial,in,linear,1\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',', DefaultOptions())

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Boards) != 3 {
		t.Fatalf("expected 3 boards, got %d", len(result.Boards))
	}
	metric := result.Boards[0]
	if metric.Unit != model.Metric || metric.LengthUnit != nil {
		t.Errorf("expected metric board without length unit: %+v", metric)
	}
	inches := result.Boards[1]
	if inches.LengthUnit == nil || *inches.LengthUnit != model.Inches {
		t.Errorf("expected length in inches: %+v", inches)
	}
	if model.BoardFeet(inches) != 4 {
		t.Errorf("expected 4 bf, got %v", model.BoardFeet(inches))
	}
	linear := result.Boards[2]
	if linear.PricingType != model.Linear || linear.Thickness != nil {
		t.Errorf("explicit linear pricing should drop dimensions: %+v", linear)
	}
}

func TestImportCSVFromReader_UnknownUnitWarns(t *testing.T) {
	data := "Length,Unit,Pricing\n8,Cubits,Bulk\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',', DefaultOptions())

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Boards) != 1 || result.Boards[0].Unit != model.Imperial {
		t.Fatalf("expected imperial fallback, got %+v", result.Boards)
	}
	if len(result.Warnings) != 3 {
		t.Errorf("expected header + 2 unknown value warnings, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_InvalidRows(t *testing.T) {
	data := "Species,Thickness,Width,Length,Quantity,Price\n" +
		"Oak,4,6,8,1,5\n" +
		"Bad qty,4,6,8,2.5,5\n" +
		"Half section,4,,8,1,5\n" +
		"No length,4,6,,1,5\n" +
		"Negative,4,6,-8,1,5\n" +
		"Bad price,4,6,8,1,cheap\n" +
		"Ash,4,6,8,2,$3\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',', DefaultOptions())

	if len(result.Boards) != 2 {
		t.Fatalf("expected 2 valid boards, got %d", len(result.Boards))
	}
	if len(result.Errors) != 5 {
		t.Fatalf("expected 5 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if !strings.HasPrefix(result.Errors[0], "Line 3:") {
		t.Errorf("errors should carry the line number, got %q", result.Errors[0])
	}
	if !strings.Contains(result.Errors[2], "Missing length") {
		t.Errorf("expected missing length error, got %q", result.Errors[2])
	}
	if *result.Boards[1].Price != 3 {
		t.Errorf("expected $ prefix to be stripped, got %v", *result.Boards[1].Price)
	}
}

func TestImportCSVFromReader_MissingLengthColumn(t *testing.T) {
	data := "Species,Thickness,Width\nOak,4,6\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',', DefaultOptions())

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Length") {
		t.Errorf("expected missing Length column error, got %v", result.Errors)
	}
	if len(result.Boards) != 0 {
		t.Error("no boards should be imported")
	}
}

func TestImportCSVFromReader_EmptyRowsAndFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',', DefaultOptions())
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}

	data := "Species,Length\nOak,8\n,\n\nAsh,10\n"
	result = ImportCSVFromReader(strings.NewReader(data), ',', DefaultOptions())
	if len(result.Errors) > 0 || len(result.Boards) != 2 {
		t.Errorf("empty rows should be skipped, got %d boards and errors %v", len(result.Boards), result.Errors)
	}
}

func TestImportCSVFromReader_OptionsFillBlanks(t *testing.T) {
	opts := DefaultOptions()
	opts.Unit = model.Metric
	opts.Species = "Beech"
	opts.Price = "7"

	result := ImportCSVFromReader(strings.NewReader("Length,Species\n200,\n150,Maple\n"), ',', opts)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Boards[0].Species() != "Beech" || result.Boards[1].Species() != "Maple" {
		t.Errorf("unexpected species: %s, %s", result.Boards[0].Species(), result.Boards[1].Species())
	}
	if result.Boards[0].Unit != model.Metric || *result.Boards[0].Price != 7 {
		t.Errorf("options should supply unit and price: %+v", result.Boards[0])
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := model.DefaultAppConfig()
	cfg.DefaultUnit = model.Metric
	cfg.DefaultSpecies = "Cherry"

	opts := OptionsFromConfig(cfg)
	if opts.Unit != model.Metric || opts.Species != "Cherry" || opts.LengthUnit != model.Feet {
		t.Errorf("unexpected options: %+v", opts)
	}
}

// ─── File Import Tests ─────────────────────────────────────

func TestImportCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.csv")
	content := "Species;Thickness;Width;Length;Qty\nOak;4;6;8;2\nAsh;8;5;10;1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path, DefaultOptions())

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(result.Boards))
	}
	foundDelimiterWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			foundDelimiterWarning = true
		}
	}
	if !foundDelimiterWarning {
		t.Errorf("expected semicolon delimiter warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/path/boards.csv", DefaultOptions())
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path, DefaultOptions())
	if len(result.Errors) != 1 || result.Errors[0] != "File is empty" {
		t.Errorf("expected empty file error, got %v", result.Errors)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boards.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Species", "Thickness", "Width", "Length", "Quantity", "Price"},
		{"Oak", 8, 6, 8, 1, 5},
		{"Pine", "", "", 8, 2, 3},
	})

	result := ImportExcel(path, DefaultOptions())

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(result.Boards))
	}
	bf, cost := model.Totals(result.Boards)
	if bf != 8 || cost != 88 {
		t.Errorf("expected 8 bf / $88, got %v / %v", bf, cost)
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Species", "Length", "Quantity"},
		{"Oak", "long", 1},
		{"Ash", 8, 0},
	})

	result := ImportExcel(path, DefaultOptions())

	if len(result.Boards) != 0 {
		t.Errorf("expected no boards, got %d", len(result.Boards))
	}
	if len(result.Errors) != 2 || !strings.HasPrefix(result.Errors[0], "Row 2:") {
		t.Errorf("expected 2 row errors, got %v", result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/boards.xlsx", DefaultOptions())
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}
