package store

import (
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
)

// HistoryItem is an opened note.
type HistoryItem struct {
	Vault       string
	Path        string
	Frequency   int
	LastVisited time.Time
}

// UpdateFrecency bumps the open count and timestamp of a note, inserting it
// on first use.
func UpdateFrecency(db *sql.DB, vault, path string) error {
	query := `
		INSERT INTO history (vault, path, frequency, last_visited)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(vault, path) DO UPDATE SET
			frequency = frequency + 1,
			last_visited = CURRENT_TIMESTAMP
	`
	if _, err := db.Exec(query, vault, path); err != nil {
		return errors.Wrapf(err, "update frecency of %s:%s", vault, path)
	}
	return nil
}

// GetHistory returns every history item, most recent first.
func GetHistory(db *sql.DB) ([]HistoryItem, error) {
	return queryHistory(db, `SELECT vault, path, frequency, last_visited FROM history ORDER BY last_visited DESC, id DESC`)
}

// GetRecentHistory returns at most limit history items, most recent first.
func GetRecentHistory(db *sql.DB, limit int) ([]HistoryItem, error) {
	return queryHistory(db, `SELECT vault, path, frequency, last_visited FROM history ORDER BY last_visited DESC, id DESC LIMIT ?`, limit)
}

func queryHistory(db *sql.DB, query string, args ...any) ([]HistoryItem, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "get history")
	}
	defer rows.Close()

	var items []HistoryItem
	for rows.Next() {
		var item HistoryItem
		if err := rows.Scan(&item.Vault, &item.Path, &item.Frequency, &item.LastVisited); err != nil {
			return nil, errors.Wrap(err, "scan history")
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
