// Package model defines the core domain records used throughout the pipeline.
package model

import (
	"crypto/sha256"
	"fmt"
	"math"
	"strings"
	"time"
)

// Transaction represents a single financial transaction extracted from a
// bank statement. Amount is negative for expenses.
type Transaction struct {
	Date          time.Time
	Description   string
	Recipient     string
	Category      string // empty when no category cleared the threshold
	SourceAccount string
	Amount        float64
	Confidence    float64
	DateDefaulted bool // date could not be parsed; processing date substituted
}

// Validate checks the invariants every stored transaction must satisfy.
func (t *Transaction) Validate() error {
	if t.Amount == 0 {
		return fmt.Errorf("transaction has zero amount")
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return fmt.Errorf("transaction amount is not finite")
	}
	if t.Date.IsZero() {
		return fmt.Errorf("transaction has no date")
	}
	if len(strings.TrimSpace(t.Recipient)) < 2 {
		return fmt.Errorf("recipient %q too short", t.Recipient)
	}
	return nil
}

// DedupeKey builds the composite identity used for duplicate detection:
// date, amount at two decimals, recipient, and the first ten characters of
// the description.
func (t *Transaction) DedupeKey() string {
	desc := t.Description
	if len(desc) > 10 {
		desc = desc[:10]
	}
	return fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		strings.ToLower(strings.TrimSpace(t.Recipient)),
		desc)
}

// Hash returns a stable identifier for storage, derived from the dedupe key.
func (t *Transaction) Hash() string {
	sum := sha256.Sum256([]byte(t.DedupeKey() + ":" + t.SourceAccount))
	return fmt.Sprintf("%x", sum)
}
