package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sahidx/saroyar-sub004/pkg/config"
)

// NewSQLite opens a file-backed SQLite database for single-node deployments.
func NewSQLite(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	path := cfg.SQLitePath
	if path == "" {
		path = "./coaching.db"
	}
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; replace-in-transaction must not interleave.
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1
	return tune(db, cfg)
}
