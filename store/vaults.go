package store

import (
	"database/sql"

	"github.com/cockroachdb/errors"
)

// VaultRecord is a registered vault.
type VaultRecord struct {
	Name string
	Root string
}

// AddVault registers root under name, replacing an earlier root.
func AddVault(db *sql.DB, name, root string) error {
	query := `
		INSERT INTO vaults (name, root) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET root = excluded.root
	`
	if _, err := db.Exec(query, name, root); err != nil {
		return errors.Wrapf(err, "add vault %q", name)
	}
	return nil
}

// GetVaults returns all registered vaults ordered by name.
func GetVaults(db *sql.DB) ([]VaultRecord, error) {
	rows, err := db.Query(`SELECT name, root FROM vaults ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "get vaults")
	}
	defer rows.Close()

	var vaults []VaultRecord
	for rows.Next() {
		var v VaultRecord
		if err := rows.Scan(&v.Name, &v.Root); err != nil {
			return nil, errors.Wrap(err, "scan vault")
		}
		vaults = append(vaults, v)
	}
	return vaults, rows.Err()
}

// RemoveVault unregisters name and forgets its history. It reports whether
// the vault was registered; history of an unregistered name is kept.
func RemoveVault(db *sql.DB, name string) (bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return false, errors.Wrap(err, "begin remove vault")
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM vaults WHERE name = ?`, name)
	if err != nil {
		return false, errors.Wrapf(err, "remove vault %q", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.Exec(`DELETE FROM history WHERE vault = ?`, name); err != nil {
		return false, errors.Wrapf(err, "clear history of vault %q", name)
	}
	if err := tx.Commit(); err != nil {
		return false, errors.Wrap(err, "commit remove vault")
	}
	return true, nil
}
