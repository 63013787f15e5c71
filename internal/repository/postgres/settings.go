package postgres

import (
	"database/sql"
)

// SettingsRepo implements repository.SettingsRepository
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo creates a new settings repository
func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get returns the stored value for the key, empty string when unset
func (r *SettingsRepo) Get(key string) (string, error) {
	var value string
	query := `SELECT value FROM settings WHERE key = $1`
	err := r.db.QueryRow(query, key).Scan(&value)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return value, nil
}

// Set upserts the value for the key, no history retained
func (r *SettingsRepo) Set(key, value string) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value
	`
	_, err := r.db.Exec(query, key, value)
	return err
}
