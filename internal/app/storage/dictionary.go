package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetDictEntry returns the value for a dictionary key.
// It reports through ok whether the key exists, which is not an error.
func (st *Storage) GetDictEntry(ctx context.Context, key string) ([]byte, bool, error) {
	row := st.dbRO.QueryRowContext(ctx, "SELECT value FROM dictionary WHERE key = ?;", key)
	var bb []byte
	err := row.Scan(&bb)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("get dict entry %s: %w", key, err)
	}
	return bb, true, nil
}

// SetDictEntry sets the value for a dictionary key. Existing values are overwritten.
func (st *Storage) SetDictEntry(ctx context.Context, key string, bb []byte) error {
	sql := `
		INSERT INTO dictionary (key, value)
		VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value;
	`
	if _, err := st.dbRW.ExecContext(ctx, sql, key, bb); err != nil {
		return fmt.Errorf("set dict entry %s: %w", key, err)
	}
	return nil
}

// DeleteDictEntry deletes a dictionary key.
// Deleting a key which does not exist is not an error.
func (st *Storage) DeleteDictEntry(ctx context.Context, key string) error {
	if _, err := st.dbRW.ExecContext(ctx, "DELETE FROM dictionary WHERE key = ?;", key); err != nil {
		return fmt.Errorf("delete dict entry %s: %w", key, err)
	}
	return nil
}
