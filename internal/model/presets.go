package model

// LumberPreset is a named nominal lumber size.
type LumberPreset struct {
	Name      string  `json:"name"`
	Thickness float64 `json:"thickness"` // quarters (Imperial) or cm (Metric)
	Width     float64 `json:"width"`     // inches (Imperial) or cm (Metric)
}

// ImperialPresets lists common dimensional lumber sizes. Thickness is in
// quarters, width is the actual milled width in inches.
var ImperialPresets = []LumberPreset{
	{Name: "1×2", Thickness: 4, Width: 1.5},
	{Name: "1×3", Thickness: 4, Width: 2.5},
	{Name: "1×4", Thickness: 4, Width: 3.5},
	{Name: "1×6", Thickness: 4, Width: 5.5},
	{Name: "1×8", Thickness: 4, Width: 7.25},
	{Name: "1×10", Thickness: 4, Width: 9.25},
	{Name: "1×12", Thickness: 4, Width: 11.25},
	{Name: "2×4", Thickness: 8, Width: 3.5},
	{Name: "2×6", Thickness: 8, Width: 5.5},
	{Name: "2×8", Thickness: 8, Width: 7.25},
	{Name: "2×10", Thickness: 8, Width: 9.25},
	{Name: "2×12", Thickness: 8, Width: 11.25},
	{Name: "4×4", Thickness: 16, Width: 3.5},
	{Name: "6×6", Thickness: 24, Width: 5.5},
}

// MetricPresets lists common metric sections in centimeters.
var MetricPresets = []LumberPreset{
	{Name: "2×5", Thickness: 2, Width: 5},
	{Name: "2×10", Thickness: 2, Width: 10},
	{Name: "2×15", Thickness: 2, Width: 15},
	{Name: "3×10", Thickness: 3, Width: 10},
	{Name: "3×15", Thickness: 3, Width: 15},
	{Name: "4×10", Thickness: 4, Width: 10},
	{Name: "4×15", Thickness: 4, Width: 15},
	{Name: "5×10", Thickness: 5, Width: 10},
	{Name: "5×15", Thickness: 5, Width: 15},
	{Name: "5×20", Thickness: 5, Width: 20},
}

// PresetsFor returns the preset list for the given unit.
func PresetsFor(unit MeasurementUnit) []LumberPreset {
	switch unit {
	case Imperial:
		return ImperialPresets
	case Metric:
		return MetricPresets
	}
	panic("model: unknown measurement unit " + string(unit))
}

// FindPreset returns a pointer to the preset with the given name, or nil.
// Both "2x4" and "2×4" spellings match.
func FindPreset(unit MeasurementUnit, name string) *LumberPreset {
	presets := PresetsFor(unit)
	for i := range presets {
		if presets[i].Name == name || presets[i].Name == normalizePresetName(name) {
			return &presets[i]
		}
	}
	return nil
}

func normalizePresetName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r == 'x' || r == 'X' || r == '*' {
			r = '×'
		}
		out = append(out, r)
	}
	return string(out)
}
