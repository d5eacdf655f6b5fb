package engine

import "github.com/lhartmann/kontoflow/internal/model"

// Dedupe removes repeated transactions by their composite identity key,
// keeping the first occurrence and preserving relative order. Pure and
// idempotent.
func Dedupe(txs []model.Transaction) []model.Transaction {
	seen := make(map[string]struct{}, len(txs))
	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		key := tx.DedupeKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tx)
	}
	return out
}
