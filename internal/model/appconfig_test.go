package model

import "testing"

func TestDefaultAppConfigMatchesBoardInputDefaults(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := NewBoardInput()

	if cfg.DefaultUnit != defaults.Unit {
		t.Errorf("Unit mismatch: config=%s input=%s", cfg.DefaultUnit, defaults.Unit)
	}
	if cfg.DefaultLengthUnit != defaults.LengthUnit {
		t.Errorf("LengthUnit mismatch: config=%s input=%s", cfg.DefaultLengthUnit, defaults.LengthUnit)
	}
	if cfg.DefaultPricingType != defaults.PricingType {
		t.Errorf("PricingType mismatch: config=%s input=%s", cfg.DefaultPricingType, defaults.PricingType)
	}
	if cfg.StorageDriver != StorageFile {
		t.Errorf("expected default storage driver=file, got %s", cfg.StorageDriver)
	}
	if cfg.ReportTitle != DraftExportTitle {
		t.Errorf("expected default report title %q, got %q", DraftExportTitle, cfg.ReportTitle)
	}
}

func TestApplyToInput(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultUnit = Metric
	cfg.DefaultPricingType = Linear
	cfg.DefaultSpecies = "Walnut"
	cfg.DefaultPrice = "12.50"

	in := NewBoardInput()
	cfg.ApplyToInput(&in)

	if in.Unit != Metric {
		t.Errorf("expected Unit=Metric, got %s", in.Unit)
	}
	if in.PricingType != Linear {
		t.Errorf("expected PricingType=Linear, got %s", in.PricingType)
	}
	if in.Species != "Walnut" {
		t.Errorf("expected Species=Walnut, got %s", in.Species)
	}
	if in.Price != "12.50" {
		t.Errorf("expected Price=12.50, got %s", in.Price)
	}
	if in.Quantity != "1" {
		t.Errorf("quantity should be untouched, got %s", in.Quantity)
	}
}

func TestApplyToInputIgnoresUnknownValues(t *testing.T) {
	cfg := AppConfig{DefaultUnit: "Cubits", DefaultLengthUnit: "yd", DefaultPricingType: "Bulk"}

	in := NewBoardInput()
	cfg.ApplyToInput(&in)

	if in.Unit != Imperial || in.LengthUnit != Feet || in.PricingType != PerBoardFoot {
		t.Errorf("unknown config values should leave the input alone, got %+v", in)
	}
}
