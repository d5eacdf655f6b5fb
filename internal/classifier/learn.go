package classifier

import (
	"time"

	"github.com/lhartmann/kontoflow/internal/model"
)

// Learn updates the pattern memory from a confirmed or corrected category.
// Agreeing patterns are reinforced, disagreeing ones decayed and eventually
// overwritten so the model forgets stale associations instead of
// accumulating permanent bias. Mutates shared state; calls are serialized by
// the model's write lock.
func (c *Classifier) Learn(tx model.Transaction, correctCategory string) {
	// Capture the model's own opinion before mutating, to detect a wrong
	// prediction worth a negative pattern.
	prior := c.Predict(tx, c.knownCategories(correctCategory))

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	keywords := Keywords(tx.Description)

	for _, kw := range keywords {
		c.state.DescriptionPatterns[kw] = adjustEntry(c.state.DescriptionPatterns[kw], correctCategory, now)
		c.state.LearningHistory = append(c.state.LearningHistory, LearningEvent{
			At: now, Keyword: kw, Category: correctCategory,
		})
	}
	if len(c.state.LearningHistory) > historyLimit {
		c.state.LearningHistory = c.state.LearningHistory[len(c.state.LearningHistory)-historyLimit:]
	}

	if rec := NormalizeRecipient(tx.Recipient); len(rec) >= 2 {
		c.state.RecipientPatterns[rec] = adjustEntry(c.state.RecipientPatterns[rec], correctCategory, now)
	}

	adjustBucket(c.state.AmountPatterns, AmountBucket(tx.Amount), correctCategory)
	adjustBucket(c.state.TimePatterns, TimeBucket(tx.Date), correctCategory)

	stat := c.state.CategoryStats[correctCategory]
	stat.Count++
	stat.LastUsed = now
	c.state.CategoryStats[correctCategory] = stat

	if prior.Category != "" && prior.Category != correctCategory {
		for _, kw := range keywords {
			penalties := c.state.NegativePatterns[kw]
			if penalties == nil {
				penalties = make(map[string]float64)
				c.state.NegativePatterns[kw] = penalties
			}
			penalties[prior.Category] = clampPenalty(penalties[prior.Category] + penaltyStep)
		}
		c.state.UserCorrections = append(c.state.UserCorrections, CorrectionEvent{
			At:        now,
			Predicted: prior.Category,
			Corrected: correctCategory,
			Recipient: tx.Recipient,
		})
		if len(c.state.UserCorrections) > correctionsLimit {
			c.state.UserCorrections = c.state.UserCorrections[len(c.state.UserCorrections)-correctionsLimit:]
		}
	}

	c.learnCount++
	if c.learnCount%pruneInterval == 0 {
		c.prune(now)
	}
}

// adjustEntry reinforces an agreeing entry, decays a disagreeing one, and
// overwrites an entry whose confidence decayed below the reset threshold.
func adjustEntry(entry PatternEntry, category string, now time.Time) PatternEntry {
	switch {
	case entry.Category == "":
		return PatternEntry{Category: category, Confidence: newConfidence, Count: 1, LastUsed: now}
	case entry.Category == category:
		entry.Confidence = clampConfidence(entry.Confidence + reinforceStep)
		entry.Count++
		entry.LastUsed = now
		return entry
	default:
		entry.Confidence = clampConfidence(entry.Confidence - decayStep)
		if entry.Confidence < overwriteBelow {
			return PatternEntry{Category: category, Confidence: newConfidence, Count: 1, LastUsed: now}
		}
		entry.LastUsed = now
		return entry
	}
}

// adjustBucket reinforces the correct category within a bucket and slightly
// decays the competing ones.
func adjustBucket(table map[string]map[string]float64, bucket, category string) {
	entries := table[bucket]
	if entries == nil {
		entries = make(map[string]float64)
		table[bucket] = entries
	}
	entries[category] = clampConfidence(entries[category] + 0.1)
	for cat, conf := range entries {
		if cat == category {
			continue
		}
		next := clampConfidence(conf - 0.05)
		if next <= 0 {
			delete(entries, cat)
			continue
		}
		entries[cat] = next
	}
}
