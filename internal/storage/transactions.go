package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lhartmann/kontoflow/internal/model"
)

// SaveTransactions inserts transactions, ignoring duplicates by hash so a
// re-imported statement is a no-op. Returns the number of newly stored rows.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, txs []model.Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO transactions
		(hash, date, description, recipient, amount, category, confidence, source_account, date_defaulted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	stored := 0
	for _, t := range txs {
		category := sql.NullString{String: t.Category, Valid: t.Category != ""}
		res, err := stmt.ExecContext(ctx, t.Hash(), t.Date, t.Description, t.Recipient,
			t.Amount, category, t.Confidence, t.SourceAccount, t.DateDefaulted)
		if err != nil {
			return 0, fmt.Errorf("failed to insert transaction: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			stored += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transactions: %w", err)
	}
	return stored, nil
}

// ListTransactions returns stored transactions between from and to,
// newest first.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, from, to time.Time) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, description, recipient, amount,
		COALESCE(category, ''), confidence, COALESCE(source_account, ''), date_defaulted
		FROM transactions WHERE date >= ? AND date <= ? ORDER BY date DESC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txs []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.Date, &t.Description, &t.Recipient, &t.Amount,
			&t.Category, &t.Confidence, &t.SourceAccount, &t.DateDefaulted); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
