package classifier

import (
	"sort"
	"time"
)

// prune drops weak and stale patterns and enforces the table cardinality
// caps. Caller holds the write lock.
func (c *Classifier) prune(now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)
	prunePatternTable(c.state.DescriptionPatterns, cutoff, maxDescriptionPatterns)
	prunePatternTable(c.state.RecipientPatterns, cutoff, maxRecipientPatterns)

	if len(c.state.NegativePatterns) > maxNegativeKeywords {
		type weighted struct {
			key   string
			total float64
		}
		ranked := make([]weighted, 0, len(c.state.NegativePatterns))
		for key, penalties := range c.state.NegativePatterns {
			total := 0.0
			for _, p := range penalties {
				total += p
			}
			ranked = append(ranked, weighted{key, total})
		}
		sort.Slice(ranked, func(i, j int) bool { return ranked[i].total < ranked[j].total })
		for _, w := range ranked[:len(ranked)-maxNegativeKeywords] {
			delete(c.state.NegativePatterns, w.key)
		}
	}
}

// prunePatternTable removes entries below the confidence floor or stale and
// barely reinforced, then evicts the weakest entries by confidence times count
// until the table fits its cap.
func prunePatternTable(table map[string]PatternEntry, cutoff time.Time, limit int) {
	for key, entry := range table {
		if entry.Confidence < confidenceFloor {
			delete(table, key)
			continue
		}
		if entry.LastUsed.Before(cutoff) && entry.Count < 3 {
			delete(table, key)
		}
	}

	if len(table) <= limit {
		return
	}

	type weighted struct {
		key    string
		weight float64
	}
	ranked := make([]weighted, 0, len(table))
	for key, entry := range table {
		ranked = append(ranked, weighted{key, entry.Confidence * float64(entry.Count)})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].weight < ranked[j].weight })
	for _, w := range ranked[:len(table)-limit] {
		delete(table, w.key)
	}
}
