package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tapetrack/tapectl/internal/common"
	"github.com/tapetrack/tapectl/internal/dbx"
	"github.com/tapetrack/tapectl/internal/tokenx"
)

// SQLiteRepository stores tokens in the local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM tokens WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get token[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tokens (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set token[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete token[%s]: %w", key, err)
	}
	return nil
}

// ClearAll deletes every known token key transactionally.
func (r *SQLiteRepository) ClearAll(ctx context.Context) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, key := range common.TokenKeys() {
			if _, err := tx.ExecContext(ctx, `DELETE FROM tokens WHERE key = ?`, key); err != nil {
				return fmt.Errorf("failed to clear token[%s]: %w", key, err)
			}
		}
		return nil
	})
}

// FirstValid returns the first non-placeholder value among the known keys,
// primary key first.
func (r *SQLiteRepository) FirstValid(ctx context.Context) (string, error) {
	for _, key := range common.TokenKeys() {
		value, err := r.Get(ctx, key)
		if err != nil {
			return "", err
		}
		if !tokenx.IsPlaceholder(value) {
			return value, nil
		}
	}
	return "", nil
}
