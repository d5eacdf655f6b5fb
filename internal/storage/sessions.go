package storage

import (
	"context"
	"fmt"

	"github.com/lhartmann/kontoflow/internal/model"
)

// SaveSessionSummary persists a summary row for one document import. The
// full step log stays in memory; the summary is enough for troubleshooting
// past imports.
func (s *SQLiteStorage) SaveSessionSummary(ctx context.Context, session *model.UploadSession) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO import_sessions
		(document, bank, blocks_found, blocks_skipped, extracted, warnings, errors, used_fallback, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.Document, session.Bank, session.BlocksFound, session.BlocksSkipped,
		session.Extracted, session.Warnings, session.Errors, session.UsedFallback, session.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to save import session: %w", err)
	}
	return nil
}
