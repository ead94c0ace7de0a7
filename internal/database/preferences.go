package database

import (
	"database/sql"
	"fmt"
)

// GetPreference returns the stored value for key and whether it exists.
func (s *Store) GetPreference(key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRow(`SELECT value FROM preferences WHERE key = ?;`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) SetPreference(key, value string) error {
	query := `
	INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP;`
	if _, err := s.DB.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to save preference %s: %w", key, err)
	}
	return nil
}
