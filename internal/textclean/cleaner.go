// Package textclean strips boilerplate and structural noise from raw
// statement text before segmentation.
package textclean

import (
	"regexp"
	"strings"
)

// removal is one ordered cleanup step. Steps run top to bottom; each is a
// plain regex replacement so the full pass stays idempotent.
type removal struct {
	re          *regexp.Regexp
	replacement string
}

var removals = []removal{
	// IBAN-like codes (German and other EU formats).
	{regexp.MustCompile(`\b[A-Z]{2}\d{2}(?:\s?[A-Z0-9]{4}){3,7}\b`), ""},
	// BIC/SWIFT codes.
	{regexp.MustCompile(`\b[A-Z]{4}DE[A-Z0-9]{2}(?:[A-Z0-9]{3})?\b`), ""},
	{regexp.MustCompile(`\bBIC:?\s*[A-Z]{6}[A-Z0-9]{2,5}\b`), ""},
	// Mandate and creditor reference labels.
	{regexp.MustCompile(`(?i)\bMandatsref(?:erenz)?:?\s*\S+`), ""},
	{regexp.MustCompile(`(?i)\bGl[äa]ubiger-?ID:?\s*\S+`), ""},
	{regexp.MustCompile(`(?i)\bKundenreferenz:?\s*\S+`), ""},
	{regexp.MustCompile(`(?i)\bEnd-?to-?End-?Ref(?:erenz)?\.?:?\s*\S+`), ""},
	// Page footers and statement chrome.
	{regexp.MustCompile(`(?mi)^\s*Seite\s+\d+\s*(?:von|/)\s*\d+\s*$`), ""},
	{regexp.MustCompile(`(?mi)^\s*Blatt\s+\d+\s*$`), ""},
	{regexp.MustCompile(`(?mi)^\s*Kontoauszug\s+Nr\.?\s*\d+.*$`), ""},
	{regexp.MustCompile(`(?mi)^\s*Auszug\s+\d+\s+Seite\s+\d+.*$`), ""},
	// Legal boilerplate paragraphs common to German statements.
	{regexp.MustCompile(`(?mi)^.*Rechnungsabschluss.*Einwendungen.*$`), ""},
	{regexp.MustCompile(`(?mi)^.*Sofern Sie innerhalb von.*Wochen.*$`), ""},
	{regexp.MustCompile(`(?mi)^.*Dieser Kontoauszug gilt als Rechnung.*$`), ""},
	{regexp.MustCompile(`(?mi)^.*Bitte pr[üu]fen Sie die Buchungen.*$`), ""},
	{regexp.MustCompile(`(?mi)^.*Einlagen sind.*Einlagensicherung.*$`), ""},
	// Trailing per-line whitespace left behind by the removals above.
	{regexp.MustCompile(`(?m)[ \t]+$`), ""},
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Clean applies the ordered removal list and collapses redundant blank
// lines. It is a pure function and idempotent: Clean(Clean(x)) == Clean(x).
func Clean(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	for _, r := range removals {
		text = r.re.ReplaceAllString(text, r.replacement)
	}
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
