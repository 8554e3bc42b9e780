package database

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sahidx/saroyar-sub004/pkg/config"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Open connects to the backing store selected by cfg.Driver.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres, "":
		return NewPostgres(cfg)
	case config.DriverSQLite:
		return NewSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate applies the bundled schema for the connected driver. Statements are idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	file := "schema/postgres.sql"
	if db.DriverName() == "sqlite3" {
		file = "schema/sqlite.sql"
	}
	ddl, err := schemaFS.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read schema %s: %w", file, err)
	}
	if _, err := db.ExecContext(ctx, string(ddl)); err != nil {
		return fmt.Errorf("apply schema %s: %w", file, err)
	}
	return nil
}

func tune(db *sqlx.DB, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
