package storage

import (
	"context"
	"fmt"
	"time"
)

// GetBlob returns the content of a stored blob.
// It returns app.ErrNotFound when the key does not exist.
func (st *Storage) GetBlob(ctx context.Context, key string) ([]byte, error) {
	row := st.dbRO.QueryRowContext(ctx, "SELECT content FROM blobs WHERE key = ?;", key)
	var bb []byte
	if err := row.Scan(&bb); err != nil {
		return nil, fmt.Errorf("get blob %s: %w", key, convertGetError(err))
	}
	return bb, nil
}

// SetBlob stores a blob under a key. An existing blob with the same key is replaced.
func (st *Storage) SetBlob(ctx context.Context, key string, content []byte) error {
	sql := `
		INSERT INTO blobs (key, content, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at;
	`
	if _, err := st.dbRW.ExecContext(ctx, sql, key, content, time.Now().UTC()); err != nil {
		return fmt.Errorf("set blob %s: %w", key, err)
	}
	return nil
}

// DeleteBlob deletes a stored blob.
// Deleting a blob which does not exist is not an error.
func (st *Storage) DeleteBlob(ctx context.Context, key string) error {
	if _, err := st.dbRW.ExecContext(ctx, "DELETE FROM blobs WHERE key = ?;", key); err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}
