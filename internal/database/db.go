package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"streamvault/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Config selects and locates the backing database.
type Config struct {
	Driver       string // sqlite (default) or postgres
	DatabasePath string // sqlite file path
	DatabaseURL  string // postgres connection string
	SkipMigrate  bool   // leave the schema untouched on open
}

// DB wraps the SQL connection together with its repositories.
type DB struct {
	conn           *sql.DB
	dialect        dialect
	Advertisements *AdvertisementRepository
}

// NewDB opens the database and, unless cfg.SkipMigrate is set, applies pending
// migrations.
func NewDB(cfg Config) (*DB, error) {
	d, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	var conn *sql.DB
	switch d {
	case dialectSQLite:
		path := strings.TrimSpace(cfg.DatabasePath)
		if path == "" {
			return nil, errors.New("database path not provided")
		}
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
		conn, err = sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// Single writer keeps the conditional insert serialized.
		conn.SetMaxOpenConns(1)
	case dialectPostgres:
		dsn := strings.TrimSpace(cfg.DatabaseURL)
		if dsn == "" {
			return nil, errors.New("database url not provided")
		}
		conn, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{conn: conn, dialect: d}
	if !cfg.SkipMigrate {
		if err := db.Migrate(); err != nil {
			conn.Close()
			return nil, err
		}
	}
	db.Advertisements = NewAdvertisementRepository(conn, d)

	slog.Info("database ready", "driver", string(d))
	return db, nil
}

// Driver reports the configured driver name.
func (db *DB) Driver() string {
	return string(db.dialect)
}

func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

type dialect string

const (
	dialectSQLite   dialect = DriverSQLite
	dialectPostgres dialect = DriverPostgres
)

func dialectFor(driver string) (dialect, error) {
	if strings.TrimSpace(driver) == "" {
		return dialectSQLite, nil
	}
	switch name, _ := config.NormalizeDriver(driver); name {
	case config.DatabaseDriverSQLite:
		return dialectSQLite, nil
	case config.DatabaseDriverPostgres:
		return dialectPostgres, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// rebind rewrites ? placeholders into $N for postgres.
func (d dialect) rebind(query string) string {
	if d != dialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
