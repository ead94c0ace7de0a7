package database

import (
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Store wraps the sqlite handle holding counters and user preferences.
type Store struct {
	DB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(1)

	createMetricsTable := `
	CREATE TABLE IF NOT EXISTS metrics (
		metric_name TEXT NOT NULL,
		label_key TEXT NOT NULL DEFAULT '',
		label_value TEXT NOT NULL DEFAULT '',
		metric_value REAL NOT NULL,
		PRIMARY KEY (metric_name, label_key, label_value)
	);`
	if _, err = db.Exec(createMetricsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create metrics table: %w", err)
	}

	createPreferencesTable := `
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err = db.Exec(createPreferencesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create preferences table: %w", err)
	}

	log.Debugf("Database initialized at %s", dbPath)
	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	if s != nil && s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
