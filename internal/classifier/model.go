// Package classifier implements the adaptive transaction categorizer: a
// multi-feature pattern memory scored on prediction and updated from user
// corrections.
package classifier

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Tuning constants. All confidences stay in [0,1]; penalties in [0,0.8].
const (
	confidenceThreshold = 0.3
	newConfidence       = 0.4
	reinforceStep       = 0.15
	decayStep           = 0.2
	overwriteBelow      = 0.15
	penaltyStep         = 0.2
	maxPenalty          = 0.8

	recipientWeight = 1.2
	amountWeight    = 0.3
	timeWeight      = 0.2
	partialWeight   = 0.5
	incomeBoost     = 0.25
	usageBoostCap   = 0.1

	maxDescriptionPatterns = 2000
	maxRecipientPatterns   = 1000
	maxNegativeKeywords    = 500
	historyLimit           = 200
	correctionsLimit       = 100
	pruneInterval          = 25
	confidenceFloor        = 0.05
	retentionDays          = 180
)

// incomeCategories receive the flat positive-amount boost when available.
var incomeCategories = map[string]struct{}{
	"Income": {}, "Einnahmen": {}, "Einkommen": {}, "Gehalt": {},
}

// PatternEntry is one learned association between a feature key and a
// category.
type PatternEntry struct {
	LastUsed   time.Time `json:"lastUsed"`
	Category   string    `json:"category"`
	Confidence float64   `json:"confidence"`
	Count      int       `json:"count"`
}

// CategoryStat tracks how often a category has been confirmed.
type CategoryStat struct {
	LastUsed time.Time `json:"lastUsed"`
	Count    int       `json:"count"`
}

// LearningEvent is one entry of the bounded learning history.
type LearningEvent struct {
	At       time.Time `json:"at"`
	Keyword  string    `json:"keyword"`
	Category string    `json:"category"`
}

// CorrectionEvent records a user overriding the classifier's prediction.
type CorrectionEvent struct {
	At        time.Time `json:"at"`
	Predicted string    `json:"predicted"`
	Corrected string    `json:"corrected"`
	Recipient string    `json:"recipient"`
}

// State is the serializable pattern memory. It is persisted as a JSON blob
// by the storage collaborator between sessions.
type State struct {
	DescriptionPatterns map[string]PatternEntry       `json:"descriptionPatterns"`
	RecipientPatterns   map[string]PatternEntry       `json:"recipientPatterns"`
	AmountPatterns      map[string]map[string]float64 `json:"amountRangePatterns"`
	TimePatterns        map[string]map[string]float64 `json:"timePatterns"`
	NegativePatterns    map[string]map[string]float64 `json:"negativePatterns"`
	CategoryStats       map[string]CategoryStat       `json:"categoryUsageStats"`
	LearningHistory     []LearningEvent               `json:"learningHistory"`
	UserCorrections     []CorrectionEvent             `json:"userCorrections"`
}

func newState() State {
	return State{
		DescriptionPatterns: make(map[string]PatternEntry),
		RecipientPatterns:   make(map[string]PatternEntry),
		AmountPatterns:      make(map[string]map[string]float64),
		TimePatterns:        make(map[string]map[string]float64),
		NegativePatterns:    make(map[string]map[string]float64),
		CategoryStats:       make(map[string]CategoryStat),
	}
}

// Classifier is the injectable categorization service. Predict takes a read
// lock; Learn takes the write lock, so concurrent corrections against the
// same model are serialized.
type Classifier struct {
	state      State
	mu         sync.RWMutex
	learnCount int
}

// New creates an empty classifier.
func New() *Classifier {
	return &Classifier{state: newState()}
}

// Snapshot serializes the pattern memory for persistence.
func (c *Classifier) Snapshot() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	blob, err := json.Marshal(c.state)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize classifier state: %w", err)
	}
	return blob, nil
}

// Restore replaces the pattern memory from a persisted blob.
func (c *Classifier) Restore(blob []byte) error {
	state := newState()
	if err := json.Unmarshal(blob, &state); err != nil {
		return fmt.Errorf("failed to parse classifier state: %w", err)
	}
	if state.DescriptionPatterns == nil {
		state.DescriptionPatterns = make(map[string]PatternEntry)
	}
	if state.RecipientPatterns == nil {
		state.RecipientPatterns = make(map[string]PatternEntry)
	}
	if state.AmountPatterns == nil {
		state.AmountPatterns = make(map[string]map[string]float64)
	}
	if state.TimePatterns == nil {
		state.TimePatterns = make(map[string]map[string]float64)
	}
	if state.NegativePatterns == nil {
		state.NegativePatterns = make(map[string]map[string]float64)
	}
	if state.CategoryStats == nil {
		state.CategoryStats = make(map[string]CategoryStat)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	return nil
}

// Stats summarizes the model for display.
type Stats struct {
	DescriptionPatterns int
	RecipientPatterns   int
	NegativeKeywords    int
	Categories          int
	Corrections         int
}

// Stats returns current model cardinalities.
func (c *Classifier) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		DescriptionPatterns: len(c.state.DescriptionPatterns),
		RecipientPatterns:   len(c.state.RecipientPatterns),
		NegativeKeywords:    len(c.state.NegativePatterns),
		Categories:          len(c.state.CategoryStats),
		Corrections:         len(c.state.UserCorrections),
	}
}

// knownCategories returns every category the model has seen, plus extras.
func (c *Classifier) knownCategories(extra ...string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]struct{}, len(c.state.CategoryStats)+len(extra))
	out := make([]string, 0, len(c.state.CategoryStats)+len(extra))
	for cat := range c.state.CategoryStats {
		if _, dup := seen[cat]; !dup {
			seen[cat] = struct{}{}
			out = append(out, cat)
		}
	}
	for _, cat := range extra {
		if _, dup := seen[cat]; !dup {
			seen[cat] = struct{}{}
			out = append(out, cat)
		}
	}
	return out
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampPenalty(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > maxPenalty {
		return maxPenalty
	}
	return v
}
