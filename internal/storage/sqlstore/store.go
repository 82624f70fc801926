// Package sqlstore keeps KV pairs in a single SQL table. SQLite is served by
// the pure Go modernc driver, Postgres by pgx through database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/piwi3910/boardfoot/internal/storage"
)

const (
	defaultSQLitePath  = "boardfoot.db"
	defaultPostgresDSN = "postgres://localhost/boardfoot?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// dialect captures the few places SQLite and Postgres disagree.
type dialect struct {
	driver    storage.Driver
	sqlDriver string
}

var (
	sqliteDialect   = dialect{driver: storage.DriverSQLite, sqlDriver: "sqlite"}
	postgresDialect = dialect{driver: storage.DriverPostgres, sqlDriver: "pgx"}
)

// placeholder returns the n-th (1-based) bind parameter.
func (d dialect) placeholder(n int) string {
	if d.driver == storage.DriverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// rebind rewrites ? placeholders into the dialect's form.
func (d dialect) rebind(query string) string {
	if d.driver != storage.DriverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString(d.placeholder(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Store implements storage.KV over a kv table.
type Store struct {
	db      *sql.DB
	dialect dialect
	mu      sync.Mutex
}

var _ storage.KV = (*Store)(nil)

// NewSQLite opens (creating if needed) a SQLite database file.
func NewSQLite(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = defaultSQLitePath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	return open(ctx, sqliteDialect, path)
}

// NewPostgres connects to Postgres using dsn (falls back to a local default).
func NewPostgres(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	return open(ctx, postgresDialect, dsn)
}

func open(ctx context.Context, d dialect, dsn string) (*Store, error) {
	openMu.Lock()
	db, err := sqlOpen(d.sqlDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.driver, err)
	}
	if d.driver == storage.DriverSQLite {
		// a single connection serializes writers and avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}
	s := &Store{db: db, dialect: d}
	if err := s.ensureTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureTable(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure kv table: %w", err)
	}
	return nil
}

func (s *Store) Driver() storage.Driver { return s.dialect.driver }

// DB exposes the underlying sql.DB for tests.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	k, err := storage.CleanKey(key)
	if err != nil {
		return "", false, err
	}
	var value string
	err = s.db.QueryRowContext(ctx, s.dialect.rebind(`SELECT value FROM kv WHERE key = ?`), k).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select %s: %w", k, err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	k, err := storage.CleanKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.dialect.rebind(`INSERT INTO kv(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`)
	if _, err := s.db.ExecContext(ctx, q, k, value); err != nil {
		return fmt.Errorf("upsert %s: %w", k, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	k, err := storage.CleanKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, s.dialect.rebind(`DELETE FROM kv WHERE key = ?`), k); err != nil {
		return fmt.Errorf("delete %s: %w", k, err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }
