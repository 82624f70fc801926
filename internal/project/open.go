package project

import (
	"context"
	"fmt"

	"github.com/piwi3910/boardfoot/internal/model"
	"github.com/piwi3910/boardfoot/internal/storage"
	"github.com/piwi3910/boardfoot/internal/storage/s3store"
	"github.com/piwi3910/boardfoot/internal/storage/sqlstore"
)

// OpenBackend selects and opens the KV backend named by cfg.StorageDriver.
// An empty driver means the file driver.
func OpenBackend(ctx context.Context, cfg model.AppConfig) (storage.KV, error) {
	driver := storage.Driver(cfg.StorageDriver)
	if driver == "" {
		driver = storage.DriverFile
	}
	switch driver {
	case storage.DriverMemory:
		return storage.NewMemory(), nil
	case storage.DriverFile:
		dir := cfg.DataDir
		if dir == "" {
			dir = DefaultDataDir()
		}
		return storage.NewFile(dir)
	case storage.DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = DefaultSQLitePath()
		}
		return sqlstore.NewSQLite(ctx, path)
	case storage.DriverPostgres:
		return sqlstore.NewPostgres(ctx, cfg.PostgresDSN)
	case storage.DriverS3:
		return s3store.New(ctx, s3store.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Prefix:    cfg.S3Prefix,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// RestoreBackup writes a backup's orders and draft into store, replacing
// what is there.
func RestoreBackup(ctx context.Context, store *OrderStore, backup BackupData) {
	store.DeleteAllOrders(ctx)
	for _, o := range backup.Orders {
		store.SaveOrder(ctx, o)
	}
	if len(backup.Draft) > 0 {
		store.SaveDraft(ctx, backup.Draft)
	} else {
		store.ClearDraft(ctx)
	}
}
