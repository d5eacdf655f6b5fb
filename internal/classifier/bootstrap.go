package classifier

import "time"

// seedPattern is one bootstrap association loaded into a fresh model.
type seedPattern struct {
	keyword    string
	category   string
	confidence float64
}

// seedPatterns cover the merchants and booking phrases common on German
// statements, so a cold-started model produces usable predictions before any
// corrections arrive.
var seedPatterns = []seedPattern{
	// Groceries
	{"rewe", "Groceries", 0.9},
	{"edeka", "Groceries", 0.9},
	{"aldi", "Groceries", 0.9},
	{"lidl", "Groceries", 0.9},
	{"netto", "Groceries", 0.85},
	{"penny", "Groceries", 0.85},
	{"kaufland", "Groceries", 0.85},
	{"biomarkt", "Groceries", 0.8},

	// Dining
	{"restaurant", "Dining", 0.8},
	{"lieferando", "Dining", 0.85},
	{"mcdonald", "Dining", 0.85},
	{"burger", "Dining", 0.7},
	{"baeckerei", "Dining", 0.75},

	// Transport
	{"uber", "Transport", 0.8},
	{"bahn", "Transport", 0.8},
	{"bvg", "Transport", 0.85},
	{"tankstelle", "Transport", 0.8},
	{"aral", "Transport", 0.8},
	{"shell", "Transport", 0.8},

	// Entertainment
	{"netflix", "Entertainment", 0.9},
	{"spotify", "Entertainment", 0.9},
	{"kino", "Entertainment", 0.8},
	{"steam", "Entertainment", 0.8},

	// Shopping
	{"amazon", "Shopping", 0.8},
	{"zalando", "Shopping", 0.85},
	{"ikea", "Shopping", 0.8},
	{"mediamarkt", "Shopping", 0.8},

	// Health
	{"apotheke", "Health", 0.85},
	{"rossmann", "Health", 0.7},
	{"fitness", "Health", 0.75},

	// Housing
	{"miete", "Housing", 0.9},
	{"nebenkosten", "Housing", 0.85},
	{"hausverwaltung", "Housing", 0.8},

	// Utilities
	{"strom", "Utilities", 0.85},
	{"stadtwerke", "Utilities", 0.85},
	{"telekom", "Utilities", 0.8},
	{"vodafone", "Utilities", 0.8},
	{"internet", "Utilities", 0.7},

	// Insurance
	{"versicherung", "Insurance", 0.85},
	{"allianz", "Insurance", 0.8},
	{"huk", "Insurance", 0.8},

	// Income
	{"gehalt", "Income", 0.9},
	{"lohn", "Income", 0.85},
	{"bezuege", "Income", 0.8},
	{"erstattung", "Income", 0.7},
}

// Bootstrap seeds a fresh model with the default pattern set. Used when no
// persisted model exists or the stored blob is corrupt; it never overwrites
// learned entries.
func (c *Classifier) Bootstrap() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for _, seed := range seedPatterns {
		if _, exists := c.state.DescriptionPatterns[seed.keyword]; exists {
			continue
		}
		c.state.DescriptionPatterns[seed.keyword] = PatternEntry{
			Category:   seed.category,
			Confidence: seed.confidence,
			Count:      1,
			LastUsed:   now,
		}
	}
}
