package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/boardfoot/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string             `json:"version"`
	CreatedAt string             `json:"created_at"`
	Config    model.AppConfig    `json:"config"`
	Orders    []model.SavedOrder `json:"orders"`
	Draft     []model.BoardEntry `json:"draft,omitempty"`
}

// ExportAllData writes the config, saved orders and working draft to a
// single JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, orders []model.SavedOrder, draft []model.BoardEntry) error {
	if orders == nil {
		orders = []model.SavedOrder{}
	}
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Orders:    orders,
		Draft:     draft,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying it, see RestoreBackup.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	backup := BackupData{Config: model.DefaultAppConfig()}
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Orders == nil {
		backup.Orders = []model.SavedOrder{}
	}
	for i, o := range backup.Orders {
		for j, b := range o.Boards {
			if err := b.Validate(); err != nil {
				return BackupData{}, fmt.Errorf("invalid backup file: order %d board %d: %w", i+1, j+1, err)
			}
		}
	}
	for j, b := range backup.Draft {
		if err := b.Validate(); err != nil {
			return BackupData{}, fmt.Errorf("invalid backup file: draft board %d: %w", j+1, err)
		}
	}
	return backup, nil
}
