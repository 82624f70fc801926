// Package storage provides the text key-value backends that orders and the
// working draft are persisted in.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Driver names a KV implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverS3       Driver = "s3"
)

// ErrInvalidKey is returned for empty keys or keys that would escape the
// backend's namespace.
var ErrInvalidKey = errors.New("invalid storage key")

// KV is a string-to-string store. Get reports found=false for a missing key;
// Remove of a missing key is not an error.
type KV interface {
	Driver() Driver
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// CleanKey rejects traversal and absolute keys and normalizes separators.
func CleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q contains '..'", ErrInvalidKey, key)
	}
	if strings.HasPrefix(key, "/") || strings.HasPrefix(key, `\`) {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidKey, key)
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}
