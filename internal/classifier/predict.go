package classifier

import (
	"sort"
	"strings"

	"github.com/lhartmann/kontoflow/internal/model"
)

// Alternative is a runner-up category from a prediction.
type Alternative struct {
	Category   string
	Confidence float64
}

// Prediction is the classifier's answer for one transaction. A zero-value
// prediction (empty category, confidence 0) means no category cleared the
// threshold; the classifier does not guess.
type Prediction struct {
	Category     string
	Confidence   float64
	Alternatives []Alternative
}

// Predict scores the transaction against every pattern table and returns
// the best available category above the confidence threshold. Read-only and
// safe for concurrent use.
func (c *Classifier) Predict(tx model.Transaction, availableCategories []string) Prediction {
	c.mu.RLock()
	defer c.mu.RUnlock()

	scores := make(map[string]float64)
	keywords := Keywords(tx.Description)

	// Description patterns: exact matches add full stored confidence,
	// overlapping keys add partial credit scaled by length similarity.
	for _, kw := range keywords {
		if entry, ok := c.state.DescriptionPatterns[kw]; ok {
			scores[entry.Category] += entry.Confidence
			continue
		}
		for key, entry := range c.state.DescriptionPatterns {
			if strings.Contains(key, kw) || strings.Contains(kw, key) {
				scores[entry.Category] += entry.Confidence * lengthSimilarity(key, kw) * partialWeight
			}
		}
	}

	// Recipient signal is weighted above the description signal.
	if rec := NormalizeRecipient(tx.Recipient); rec != "" {
		if entry, ok := c.state.RecipientPatterns[rec]; ok {
			scores[entry.Category] += entry.Confidence * recipientWeight
		}
	}

	for cat, conf := range c.state.AmountPatterns[AmountBucket(tx.Amount)] {
		scores[cat] += conf * amountWeight
	}
	if tx.Amount > 0 {
		for _, cat := range availableCategories {
			if _, income := incomeCategories[cat]; income {
				scores[cat] += incomeBoost
			}
		}
	}

	for cat, conf := range c.state.TimePatterns[TimeBucket(tx.Date)] {
		scores[cat] += conf * timeWeight
	}

	for _, kw := range keywords {
		for cat, penalty := range c.state.NegativePatterns[kw] {
			scores[cat] -= penalty
		}
	}

	// Popular categories break ties.
	total := 0
	for _, stat := range c.state.CategoryStats {
		total += stat.Count
	}
	if total > 0 {
		for cat, stat := range c.state.CategoryStats {
			boost := float64(stat.Count) / float64(total) * usageBoostCap
			scores[cat] += boost
		}
	}

	available := make(map[string]struct{}, len(availableCategories))
	for _, cat := range availableCategories {
		available[cat] = struct{}{}
	}

	type scored struct {
		category string
		score    float64
	}
	ranked := make([]scored, 0, len(scores))
	for cat, score := range scores {
		if _, ok := available[cat]; !ok {
			continue
		}
		ranked = append(ranked, scored{cat, score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].category < ranked[j].category
	})

	if len(ranked) == 0 || ranked[0].score < confidenceThreshold {
		return Prediction{}
	}

	pred := Prediction{
		Category:   ranked[0].category,
		Confidence: clampConfidence(ranked[0].score),
	}
	for _, alt := range ranked[1:] {
		if alt.score <= 0 || len(pred.Alternatives) == 2 {
			break
		}
		pred.Alternatives = append(pred.Alternatives, Alternative{
			Category:   alt.category,
			Confidence: clampConfidence(alt.score),
		})
	}
	return pred
}
