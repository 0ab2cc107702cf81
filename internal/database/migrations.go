package database

import (
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedMigrations embed.FS

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

func (db *DB) migrationsDir() string {
	return "migrations/" + string(db.dialect)
}

func (db *DB) gooseDialect() string {
	if db.dialect == dialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

func (db *DB) withGoose(fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(db.gooseDialect()); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return fn()
}

// Migrate applies all pending migrations.
func (db *DB) Migrate() error {
	return db.withGoose(func() error {
		if err := goose.Up(db.conn, db.migrationsDir()); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		return nil
	})
}

// Rollback reverts the most recent migration.
func (db *DB) Rollback() error {
	return db.withGoose(func() error {
		if err := goose.Down(db.conn, db.migrationsDir()); err != nil {
			return fmt.Errorf("rollback migration: %w", err)
		}
		slog.Info("database migration rolled back", "driver", string(db.dialect))
		return nil
	})
}

// Version returns the current schema version.
func (db *DB) Version() (int64, error) {
	var version int64
	err := db.withGoose(func() error {
		v, err := goose.GetDBVersion(db.conn)
		if err != nil {
			return fmt.Errorf("get database version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}
