package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lhartmann/kontoflow/internal/common"
)

// LoadModel returns the persisted classifier state blob.
// common.ErrNotFound means no model has been saved yet; the caller should
// bootstrap a fresh one.
func (s *SQLiteStorage) LoadModel(ctx context.Context) ([]byte, error) {
	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT blob FROM classifier_model WHERE id = 1`).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load classifier model: %w", err)
	}
	return []byte(blob), nil
}

// SaveModel stores the classifier state blob, last write wins.
func (s *SQLiteStorage) SaveModel(ctx context.Context, blob []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO classifier_model (id, blob, updated_at)
		VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET blob = excluded.blob, updated_at = CURRENT_TIMESTAMP`,
		string(blob))
	if err != nil {
		return fmt.Errorf("failed to save classifier model: %w", err)
	}
	return nil
}
