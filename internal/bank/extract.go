package bank

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Numeric token shapes, in priority order. German statements format amounts
// with a thousands dot and a decimal comma; exports and online statements
// sometimes carry plain dot decimals instead.
var (
	numericToken = regexp.MustCompile(`[-+]?[\d.,]*\d`)

	germanAmount = regexp.MustCompile(`^[-+]?\d{1,3}(?:\.\d{3})*,\d{2}$`)
	commaAmount  = regexp.MustCompile(`^[-+]?\d+,\d{2}$`)
	dotAmount    = regexp.MustCompile(`^[-+]?\d{1,3}(?:,\d{3})*\.\d{2}$`)

	longDigitRun = regexp.MustCompile(`\d{10,}`)
	dateShape    = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{2,4}$`)
	headerDate   = regexp.MustCompile(`\b(\d{2}\.\d{2}\.\d{4})\b`)
)

// AmountMatch is a validated amount token found within a block.
type AmountMatch struct {
	Text      string
	LineIndex int
}

// FindAmount scans block lines for exactly one plausible amount token per
// line. A line carrying two distinct amount-shaped tokens is ambiguous
// (usually a reference number next to the amount) and is skipped. When no
// line yields an amount under the strict patterns, the last non-empty line
// is retried with looser validation; ambiguity still rejects it.
func FindAmount(lines []string) (AmountMatch, bool) {
	for i, line := range lines {
		if tok, ok := singleAmountToken(line); ok {
			return AmountMatch{Text: tok, LineIndex: i}, true
		}
	}

	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		if tok, ok := looseAmountToken(lines[i]); ok {
			return AmountMatch{Text: tok, LineIndex: i}, true
		}
		break
	}
	return AmountMatch{}, false
}

// looseAmountToken accepts a line whose single numeric token parses as an
// amount even when it misses the strict shapes (odd spacing, single decimal
// digit). Lines with multiple numeric tokens stay rejected.
func looseAmountToken(line string) (string, bool) {
	var candidates []string
	for _, tok := range numericToken.FindAllString(line, -1) {
		if longDigitRun.MatchString(tok) || dateShape.MatchString(tok) {
			continue
		}
		sep := strings.LastIndexAny(tok, ",.")
		if sep < 0 {
			// Bare integers are references, not amounts.
			continue
		}
		digits := 0
		for _, r := range tok[:sep] {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits > 6 {
			continue
		}
		candidates = append(candidates, tok)
	}
	if len(candidates) != 1 {
		return "", false
	}
	if ParseAmount(candidates[0]) == 0 {
		return "", false
	}
	return candidates[0], true
}

// singleAmountToken returns the line's amount token when exactly one
// distinct valid token is present.
func singleAmountToken(line string) (string, bool) {
	tokens := candidateTokens(line)
	distinct := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		distinct[tok] = struct{}{}
	}
	if len(distinct) != 1 {
		return "", false
	}
	return tokens[0], true
}

// candidateTokens extracts numeric tokens from a line and keeps only those
// passing amount validation.
func candidateTokens(line string) []string {
	var out []string
	for _, tok := range numericToken.FindAllString(line, -1) {
		if validAmountToken(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// validAmountToken rejects reference numbers and other non-amount shapes:
// more than six digits before the decimal separator, ten or more contiguous
// digits, dates, and tokens without a two-digit decimal part.
func validAmountToken(tok string) bool {
	if longDigitRun.MatchString(tok) {
		return false
	}
	if !germanAmount.MatchString(tok) && !commaAmount.MatchString(tok) && !dotAmount.MatchString(tok) {
		return false
	}
	// Count digits before the decimal separator.
	sep := strings.LastIndexAny(tok, ",.")
	digits := 0
	for _, r := range tok[:sep] {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits <= 6
}

// ParseAmount converts a German- or dot-formatted amount string to a signed
// float. Unparseable input yields 0; callers must treat a zero amount with
// empty match text as extraction failure, never as a zero-value transaction.
func ParseAmount(text string) float64 {
	s := strings.TrimSpace(text)
	s = strings.TrimSuffix(s, "€")
	s = strings.TrimSuffix(s, "EUR")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	// The rightmost separator is the decimal one.
	if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
		// German format: dots are thousands separators.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else {
		// Dot-decimal format: commas are thousands separators.
		s = strings.ReplaceAll(s, ",", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseDate parses a DD.MM.YYYY date. The boolean reports success; on
// failure the current processing date is returned so the caller can keep the
// transaction, flagged as date-defaulted, instead of dropping it.
func ParseDate(text string) (time.Time, bool) {
	m := headerDate.FindString(text)
	if m == "" {
		return time.Now(), false
	}
	t, err := time.Parse("02.01.2006", m)
	if err != nil {
		return time.Now(), false
	}
	return t, true
}
