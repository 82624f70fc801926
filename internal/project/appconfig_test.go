package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/boardfoot/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultUnit = model.Metric
	cfg.DefaultSpecies = "Walnut"
	cfg.StorageDriver = model.StorageSQLite
	cfg.SQLitePath = "/tmp/boardfoot.db"

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded != cfg {
		t.Errorf("loaded config differs:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg != model.DefaultAppConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := []byte(`{"default_species":"Cherry"}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.DefaultSpecies != "Cherry" {
		t.Errorf("expected species Cherry, got %s", cfg.DefaultSpecies)
	}
	if cfg.StorageDriver != model.StorageFile || cfg.DefaultUnit != model.Imperial {
		t.Errorf("unset fields should keep defaults, got %+v", cfg)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("BOARDFOOT_STORE", "S3")
	t.Setenv("BOARDFOOT_S3_BUCKET", "lumber")
	t.Setenv("BOARDFOOT_S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("BOARDFOOT_S3_PATH_STYLE", "true")
	t.Setenv("BOARDFOOT_S3_PREFIX", "yard")

	cfg := ApplyEnv(model.DefaultAppConfig())

	if cfg.StorageDriver != model.StorageS3 {
		t.Errorf("expected driver s3, got %s", cfg.StorageDriver)
	}
	if cfg.S3Bucket != "lumber" || cfg.S3Endpoint != "http://localhost:9000" || cfg.S3Prefix != "yard" {
		t.Errorf("S3 settings not applied: %+v", cfg)
	}
	if !cfg.S3PathStyle {
		t.Error("expected path style")
	}
	if cfg.S3Region != "us-east-1" {
		t.Errorf("unset variables should keep config values, got region %s", cfg.S3Region)
	}
}

func TestApplyEnvIgnoresBadBool(t *testing.T) {
	t.Setenv("BOARDFOOT_S3_PATH_STYLE", "maybe")
	cfg := model.DefaultAppConfig()
	cfg.S3PathStyle = true
	if !ApplyEnv(cfg).S3PathStyle {
		t.Error("an unparsable bool should keep the configured value")
	}
}
