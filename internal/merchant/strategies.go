package merchant

import (
	"regexp"
	"strings"
)

// strategy is one ordered extraction rule: a regex whose first capture group
// is the merchant candidate, with a fixed confidence declared per rule.
// Strategies run in order; the first one producing a valid name wins.
type strategy struct {
	re         *regexp.Regexp
	confidence float64
}

// processorStrategies are tuned to the text layouts intermediaries produce
// on German statements.
var processorStrategies = []strategy{
	// "<ref>/. <merchant>, Ihr Einkauf bei <merchant>"
	{regexp.MustCompile(`(?i)\d+\s*/\.?\s*([^,\n]{2,50}?)\s*,\s*Ihr Einkauf bei`), 0.95},
	{regexp.MustCompile(`(?i)Ihr Einkauf bei\s+([^,\n]{2,50})`), 0.9},
	{regexp.MustCompile(`(?i)Verwendungszweck:?\s*([^,\n]{2,50})`), 0.8},
	{regexp.MustCompile(`(?i)\bAbbuchung\s+f[üu]r\s+([^,\n]{2,50})`), 0.75},
}

// directStrategies extract the counterparty of a non-intermediated booking.
var directStrategies = []strategy{
	{regexp.MustCompile(`(?i)Einkauf\s+vom\s+\d{1,2}\.\d{1,2}\.(?:\d{2,4})?\s+bei\s+([^,/\n]{2,50})`), 0.9},
	{regexp.MustCompile(`(?i)\bAn\s+([^,\n]{2,60})`), 0.85},
	{regexp.MustCompile(`(?i)\bVon\s+([^,\n]{2,60})`), 0.85},
}

// transactionKeywords are booking-type prefixes stripped before taking the
// remaining text as a recipient.
var transactionKeywords = []string{
	"Basislastschrift", "Lastschrift", "Ueberweisung", "Überweisung",
	"Gutschrift", "Entgelt", "GIROCARD", "Dauerauftrag", "Kartenzahlung",
	"SEPA-Lastschrift", "Echtzeitüberweisung",
}

// noiseWords never form a merchant name on their own.
var noiseWords = map[string]struct{}{
	"lastschrift": {}, "basislastschrift": {}, "ueberweisung": {}, "überweisung": {},
	"gutschrift": {}, "entgelt": {}, "girocard": {}, "dauerauftrag": {},
	"kartenzahlung": {}, "verwendungszweck": {}, "einkauf": {}, "ihr": {},
	"bei": {}, "vom": {}, "von": {}, "an": {}, "für": {}, "fuer": {},
	"eur": {}, "euro": {}, "europe": {}, "s.a.r.l": {}, "s.a.r.l.": {},
	"cie": {}, "s.c.a": {}, "s.c.a.": {}, "et": {}, "und": {},
	"stichting": {}, "bank": {}, "ab": {}, "danke": {},
}

var (
	digitWord   = regexp.MustCompile(`\d`)
	refSequence = regexp.MustCompile(`\b[A-Z0-9]*\d{6,}[A-Z0-9]*\b`)
	firstLetter = regexp.MustCompile(`^[A-Za-zÄÖÜäöüß]`)
)

// cleanName trims an extracted candidate: cut at the first word containing a
// digit (reference tails), collapse whitespace, strip trailing punctuation.
func cleanName(raw string) string {
	words := strings.Fields(raw)
	kept := words[:0]
	for _, w := range words {
		if digitWord.MatchString(w) {
			break
		}
		kept = append(kept, w)
	}
	name := strings.Join(kept, " ")
	name = strings.Trim(name, " .,-/")
	if len(name) > 50 {
		name = strings.TrimSpace(name[:50])
	}
	return name
}

// validName enforces the merchant-name rules: length 2..50, begins with a
// letter, and is not composed solely of noise tokens.
func validName(name string) bool {
	if len(name) < 2 || len(name) > 50 {
		return false
	}
	if !firstLetter.MatchString(name) {
		return false
	}
	for _, w := range strings.Fields(strings.ToLower(name)) {
		if _, noise := noiseWords[w]; !noise {
			return true
		}
	}
	return false
}

// stripNoise removes processor legal terms, booking keywords, reference
// sequences and currency tokens, then keeps the remaining meaningful words.
// Used as the reduced-confidence fallback when no layout strategy matched.
func stripNoise(text string) (string, bool) {
	text = refSequence.ReplaceAllString(text, " ")
	var kept []string
	for _, w := range strings.Fields(text) {
		lower := strings.ToLower(strings.Trim(w, ".,:/()*"))
		if len(lower) < 3 {
			continue
		}
		if _, noise := noiseWords[lower]; noise {
			continue
		}
		if isProcessorName(lower) || digitWord.MatchString(w) {
			continue
		}
		kept = append(kept, strings.Trim(w, ".,:/()*"))
		if len(kept) == 4 {
			break
		}
	}
	name := cleanName(strings.Join(kept, " "))
	if !validName(name) {
		return "", false
	}
	return name, true
}

// stripTransactionKeywords removes leading booking-type keywords.
func stripTransactionKeywords(text string) string {
	trimmed := strings.TrimSpace(text)
	for changed := true; changed; {
		changed = false
		for _, kw := range transactionKeywords {
			if len(trimmed) >= len(kw) && strings.EqualFold(trimmed[:len(kw)], kw) {
				trimmed = strings.TrimSpace(trimmed[len(kw):])
				changed = true
			}
		}
	}
	return trimmed
}
