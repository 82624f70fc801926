package model

// Storage driver names accepted in AppConfig.StorageDriver.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageS3       = "s3"
)

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to a fresh board input
	DefaultUnit        MeasurementUnit `json:"default_unit"`
	DefaultLengthUnit  LengthUnit      `json:"default_length_unit"`
	DefaultPricingType PricingType     `json:"default_pricing_type"`
	DefaultSpecies     string          `json:"default_species"`
	DefaultPrice       string          `json:"default_price"` // raw text, "" = no price

	// Where orders and the draft are kept
	StorageDriver string `json:"storage_driver"` // "memory", "file", "sqlite", "postgres", "s3"
	DataDir       string `json:"data_dir"`       // file driver root; "" = ~/.boardfoot/data
	SQLitePath    string `json:"sqlite_path"`    // "" = ~/.boardfoot/boardfoot.db
	PostgresDSN   string `json:"postgres_dsn"`
	S3Bucket      string `json:"s3_bucket"`
	S3Region      string `json:"s3_region"`
	S3Endpoint    string `json:"s3_endpoint"` // optional, e.g. MinIO
	S3PathStyle   bool   `json:"s3_path_style"`
	S3Prefix      string `json:"s3_prefix"`

	// Title used when exporting the unsaved board list
	ReportTitle string `json:"report_title"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching NewBoardInput.
func DefaultAppConfig() AppConfig {
	defaults := NewBoardInput()
	return AppConfig{
		DefaultUnit:        defaults.Unit,
		DefaultLengthUnit:  defaults.LengthUnit,
		DefaultPricingType: defaults.PricingType,
		StorageDriver:      StorageFile,
		S3Region:           "us-east-1",
		ReportTitle:        DraftExportTitle,
	}
}

// ApplyToInput copies the configured defaults into a board input.
// Unset or unknown values leave the input untouched.
func (c AppConfig) ApplyToInput(in *BoardInput) {
	if c.DefaultUnit.Valid() {
		in.Unit = c.DefaultUnit
	}
	if c.DefaultLengthUnit.Valid() {
		in.LengthUnit = c.DefaultLengthUnit
	}
	if c.DefaultPricingType.Valid() {
		in.PricingType = c.DefaultPricingType
	}
	if c.DefaultSpecies != "" {
		in.Species = c.DefaultSpecies
	}
	if c.DefaultPrice != "" {
		in.Price = c.DefaultPrice
	}
}
