package classifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhartmann/kontoflow/internal/model"
)

var testCategories = []string{
	"Groceries", "Dining", "Transport", "Entertainment", "Shopping",
	"Health", "Housing", "Utilities", "Insurance", "Income",
}

func gymTx() model.Transaction {
	return model.Transaction{
		Date:        time.Date(2024, 8, 15, 10, 0, 0, 0, time.UTC),
		Description: "Monatsbeitrag Fitnessstudio",
		Recipient:   "FitX GmbH",
		Amount:      -29.99,
	}
}

func TestPredictEmptyModelDoesNotGuess(t *testing.T) {
	c := New()
	pred := c.Predict(gymTx(), testCategories)
	assert.Empty(t, pred.Category)
	assert.Zero(t, pred.Confidence)
}

func TestPredictIncomeBoostAloneBelowThreshold(t *testing.T) {
	c := New()
	tx := gymTx()
	tx.Amount = 2500.00
	pred := c.Predict(tx, testCategories)
	assert.Empty(t, pred.Category, "a flat boost without learned patterns must not produce a guess")
}

func TestLearnConverges(t *testing.T) {
	c := New()
	tx := gymTx()
	for i := 0; i < 5; i++ {
		c.Learn(tx, "Health")
	}

	pred := c.Predict(tx, testCategories)
	require.Equal(t, "Health", pred.Category)
	assert.GreaterOrEqual(t, pred.Confidence, confidenceThreshold)
	assert.LessOrEqual(t, pred.Confidence, 1.0)
}

func TestLearnRecordsCorrectionAndNegativePattern(t *testing.T) {
	c := New()
	tx := model.Transaction{
		Date:        time.Date(2024, 8, 15, 19, 30, 0, 0, time.UTC),
		Description: "Restaurant Milano",
		Recipient:   "Milano",
		Amount:      -35.00,
	}
	for i := 0; i < 3; i++ {
		c.Learn(tx, "Dining")
	}
	require.Equal(t, "Dining", c.Predict(tx, testCategories).Category)

	c.Learn(tx, "Groceries")

	assert.Equal(t, 1, c.Stats().Corrections)
	assert.InDelta(t, penaltyStep, c.state.NegativePatterns["milano"]["Dining"], 0.001)
}

func TestNegativePenaltyIsCapped(t *testing.T) {
	c := New()
	tx := model.Transaction{
		Date:        time.Date(2024, 8, 15, 19, 30, 0, 0, time.UTC),
		Description: "Restaurant Milano",
		Recipient:   "Milano",
		Amount:      -35.00,
	}
	for i := 0; i < 3; i++ {
		c.Learn(tx, "Dining")
	}
	// Flip-flopping corrections accrue penalties on both sides.
	for i := 0; i < 8; i++ {
		if i%2 == 0 {
			c.Learn(tx, "Groceries")
		} else {
			c.Learn(tx, "Dining")
		}
	}

	for kw, penalties := range c.state.NegativePatterns {
		for cat, p := range penalties {
			assert.LessOrEqual(t, p, maxPenalty, "penalty for %q/%q exceeds cap", kw, cat)
			assert.GreaterOrEqual(t, p, 0.0)
		}
	}
}

func TestAdjustEntry(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		entry    PatternEntry
		category string
		wantCat  string
		wantConf float64
		wantN    int
	}{
		{
			name:     "new entry starts at the base confidence",
			category: "Groceries",
			wantCat:  "Groceries", wantConf: newConfidence, wantN: 1,
		},
		{
			name:     "agreement reinforces",
			entry:    PatternEntry{Category: "Groceries", Confidence: 0.5, Count: 2},
			category: "Groceries",
			wantCat:  "Groceries", wantConf: 0.65, wantN: 3,
		},
		{
			name:     "reinforcement saturates at one",
			entry:    PatternEntry{Category: "Groceries", Confidence: 0.95, Count: 9},
			category: "Groceries",
			wantCat:  "Groceries", wantConf: 1.0, wantN: 10,
		},
		{
			name:     "disagreement decays",
			entry:    PatternEntry{Category: "Groceries", Confidence: 0.5, Count: 2},
			category: "Dining",
			wantCat:  "Groceries", wantConf: 0.3, wantN: 2,
		},
		{
			name:     "decay below the floor overwrites",
			entry:    PatternEntry{Category: "Groceries", Confidence: 0.2, Count: 1},
			category: "Dining",
			wantCat:  "Dining", wantConf: newConfidence, wantN: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adjustEntry(tt.entry, tt.category, now)
			assert.Equal(t, tt.wantCat, got.Category)
			assert.InDelta(t, tt.wantConf, got.Confidence, 0.001)
			assert.Equal(t, tt.wantN, got.Count)
		})
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	c := New()
	tx := gymTx()
	for i := 0; i < 3; i++ {
		c.Learn(tx, "Health")
	}
	want := c.Predict(tx, testCategories)
	require.Equal(t, "Health", want.Category)

	blob, err := c.Snapshot()
	require.NoError(t, err)

	restored := New()
	require.NoError(t, restored.Restore(blob))

	got := restored.Predict(tx, testCategories)
	assert.Equal(t, want.Category, got.Category)
	assert.InDelta(t, want.Confidence, got.Confidence, 0.001)
}

func TestRestoreRejectsCorruptBlob(t *testing.T) {
	c := New()
	assert.Error(t, c.Restore([]byte("{not json")))
}

func TestRestoreToleratesMissingTables(t *testing.T) {
	c := New()
	require.NoError(t, c.Restore([]byte(`{}`)))
	// A blob from an older version may omit tables entirely; learning must
	// still work.
	c.Learn(gymTx(), "Health")
	assert.Equal(t, "Health", c.Predict(gymTx(), testCategories).Category)
}

func TestBootstrap(t *testing.T) {
	c := New()
	c.Bootstrap()

	tx := model.Transaction{
		Date:        time.Date(2024, 8, 15, 14, 0, 0, 0, time.UTC),
		Description: "REWE SAGT DANKE Filiale 4411",
		Recipient:   "REWE",
		Amount:      -45.67,
	}
	pred := c.Predict(tx, testCategories)
	assert.Equal(t, "Groceries", pred.Category)
}

func TestBootstrapDoesNotOverwriteLearnedEntries(t *testing.T) {
	c := New()
	c.Learn(model.Transaction{
		Date:        time.Now(),
		Description: "rewe",
		Recipient:   "REWE Markt",
		Amount:      -10,
	}, "Shopping")

	c.Bootstrap()

	entry := c.state.DescriptionPatterns["rewe"]
	assert.Equal(t, "Shopping", entry.Category)
	assert.InDelta(t, newConfidence, entry.Confidence, 0.001)
}

func TestPrunePatternTable(t *testing.T) {
	now := time.Now()
	stale := now.AddDate(0, 0, -(retentionDays + 10))
	table := map[string]PatternEntry{
		"weak":        {Category: "A", Confidence: 0.01, Count: 5, LastUsed: now},
		"stale-few":   {Category: "A", Confidence: 0.5, Count: 1, LastUsed: stale},
		"stale-often": {Category: "A", Confidence: 0.5, Count: 10, LastUsed: stale},
		"fresh":       {Category: "A", Confidence: 0.5, Count: 1, LastUsed: now},
	}

	prunePatternTable(table, now.AddDate(0, 0, -retentionDays), 10)

	assert.NotContains(t, table, "weak")
	assert.NotContains(t, table, "stale-few")
	assert.Contains(t, table, "stale-often")
	assert.Contains(t, table, "fresh")
}

func TestPrunePatternTableEnforcesCap(t *testing.T) {
	now := time.Now()
	table := map[string]PatternEntry{
		"low":  {Category: "A", Confidence: 0.2, Count: 1, LastUsed: now},
		"mid":  {Category: "A", Confidence: 0.5, Count: 2, LastUsed: now},
		"high": {Category: "A", Confidence: 0.9, Count: 8, LastUsed: now},
	}

	prunePatternTable(table, now.AddDate(0, 0, -retentionDays), 2)

	assert.Len(t, table, 2)
	assert.NotContains(t, table, "low")
	assert.Contains(t, table, "high")
}
