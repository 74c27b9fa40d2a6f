package store

import (
	"database/sql"

	"github.com/cockroachdb/errors"
)

// Setting keys written by the lookup UI.
const (
	SettingEditorCmd = "editor_cmd"
	SettingLastVault = "last_vault"
)

// GetSetting retrieves a setting value by key. Missing keys yield "".
func GetSetting(db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "get setting %q", key)
	}
	return value, nil
}

// SetSetting stores value under key.
func SetSetting(db *sql.DB, key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := db.Exec(query, key, value); err != nil {
		return errors.Wrapf(err, "set setting %q", key)
	}
	return nil
}
