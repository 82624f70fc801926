package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/boardfoot/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.boardfoot/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".boardfoot")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// DefaultDataDir is where the file driver keeps orders when no data dir is set.
func DefaultDataDir() string {
	return filepath.Join(DefaultConfigDir(), "data")
}

// DefaultSQLitePath is the database file used when no SQLite path is set.
func DefaultSQLitePath() string {
	return filepath.Join(DefaultConfigDir(), "boardfoot.db")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Fields missing from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, err
	}
	return config, nil
}

// Environment overrides, read by ApplyEnv:
//
//	BOARDFOOT_STORE          memory|file|sqlite|postgres|s3
//	BOARDFOOT_DATA_DIR       file driver root
//	BOARDFOOT_SQLITE_PATH    SQLite database file
//	BOARDFOOT_POSTGRES_DSN   Postgres connection string
//	BOARDFOOT_S3_BUCKET      bucket name
//	BOARDFOOT_S3_REGION      region (default us-east-1)
//	BOARDFOOT_S3_ENDPOINT    custom endpoint, e.g. MinIO
//	BOARDFOOT_S3_PATH_STYLE  true|false
//	BOARDFOOT_S3_PREFIX      object key prefix

// ApplyEnv returns cfg with any set BOARDFOOT_* variables applied.
func ApplyEnv(cfg model.AppConfig) model.AppConfig {
	cfg.StorageDriver = strings.ToLower(getEnv("BOARDFOOT_STORE", cfg.StorageDriver))
	cfg.DataDir = getEnv("BOARDFOOT_DATA_DIR", cfg.DataDir)
	cfg.SQLitePath = getEnv("BOARDFOOT_SQLITE_PATH", cfg.SQLitePath)
	cfg.PostgresDSN = getEnv("BOARDFOOT_POSTGRES_DSN", cfg.PostgresDSN)
	cfg.S3Bucket = getEnv("BOARDFOOT_S3_BUCKET", cfg.S3Bucket)
	cfg.S3Region = getEnv("BOARDFOOT_S3_REGION", cfg.S3Region)
	cfg.S3Endpoint = getEnv("BOARDFOOT_S3_ENDPOINT", cfg.S3Endpoint)
	cfg.S3PathStyle = getEnvAsBool("BOARDFOOT_S3_PATH_STYLE", cfg.S3PathStyle)
	cfg.S3Prefix = getEnv("BOARDFOOT_S3_PREFIX", cfg.S3Prefix)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}
