package export

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/boardfoot/internal/model"
)

// buildTestOrder creates a realistic saved order with mixed species and pricing.
func buildTestOrder() model.SavedOrder {
	oak := model.BoardEntry{
		ID: "b1", Thickness: model.Ptr(8.0), Width: model.Ptr(6.0), Length: 8, Quantity: 1,
		Unit: model.Imperial, LengthUnit: model.Ptr(model.Feet), Price: model.Ptr(5.0),
		PricingType: model.PerBoardFoot, WoodSpecies: model.Ptr("Oak"),
	}
	pine := model.BoardEntry{
		ID: "b2", Length: 8, Quantity: 2,
		Unit: model.Imperial, LengthUnit: model.Ptr(model.Feet), Price: model.Ptr(3.0),
		PricingType: model.Linear, WoodSpecies: model.Ptr("Pine"),
	}
	beech := model.BoardEntry{
		ID: "b3", Thickness: model.Ptr(2.5), Width: model.Ptr(15.0), Length: 200, Quantity: 3,
		Unit: model.Metric, PricingType: model.PerBoardFoot,
	}
	order := model.NewSavedOrder("", []model.BoardEntry{oak, pine, beech}, 3)
	order.Date = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	return order
}

func TestExportOrderPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.pdf")

	if err := ExportOrderPDF(path, buildTestOrder()); err != nil {
		t.Fatalf("ExportOrderPDF failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("output file not found: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output file is empty")
	}
}

func TestExportOrderPDF_EmptyOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	order := model.NewSavedOrder("Empty", nil, 1)

	if err := ExportOrderPDF(path, order); err == nil {
		t.Error("expected error for order without boards")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for an empty order")
	}
}

func TestExportBoardsPDF_NoPricesOrSpecies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.pdf")
	boards := []model.BoardEntry{{
		ID: "x", Length: 10, Quantity: 1, Unit: model.Imperial,
		LengthUnit: model.Ptr(model.Inches), PricingType: model.Linear,
	}}

	if err := ExportBoardsPDF(path, model.DraftExportTitle, boards); err != nil {
		t.Fatalf("ExportBoardsPDF failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("expected non-empty file, err=%v", err)
	}
}

func TestExportOrderPDF_ManyBoards(t *testing.T) {
	var boards []model.BoardEntry
	for i := 0; i < 120; i++ {
		boards = append(boards, model.BoardEntry{
			ID:          fmt.Sprintf("b%d", i),
			Thickness:   model.Ptr(4.0),
			Width:       model.Ptr(float64(4 + i%6)),
			Length:      float64(6 + i%4),
			Quantity:    1 + i%3,
			Unit:        model.Imperial,
			LengthUnit:  model.Ptr(model.Feet),
			Price:       model.Ptr(4.25),
			PricingType: model.PerBoardFoot,
			WoodSpecies: model.Ptr(model.CommonHardwoods[i%len(model.CommonHardwoods)]),
		})
	}
	path := filepath.Join(t.TempDir(), "many.pdf")

	if err := ExportOrderPDF(path, model.NewSavedOrder("Big order", boards, 1)); err != nil {
		t.Fatalf("ExportOrderPDF failed with many boards: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("expected non-empty file, err=%v", err)
	}
}

func TestExportOrderPDF_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "order.pdf")
	if err := ExportOrderPDF(path, buildTestOrder()); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
