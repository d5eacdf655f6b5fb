package classifier

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// umlautFolder maps German diacritics to their ASCII digraphs so that
// "Bäckerei" and "Baeckerei" land on the same pattern key.
var umlautFolder = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss",
	"Ä", "ae", "Ö", "oe", "Ü", "ue",
)

// stopwords are dropped before keyword generation. German booking text plus
// the English fillers that show up in card descriptors.
var stopwords = map[string]struct{}{
	"und": {}, "der": {}, "die": {}, "das": {}, "mit": {}, "von": {},
	"vom": {}, "fuer": {}, "bei": {}, "ihr": {}, "ihre": {}, "den": {},
	"dem": {}, "ein": {}, "eine": {}, "auf": {}, "aus": {}, "zum": {},
	"zur": {}, "danke": {}, "sagt": {}, "gmbh": {}, "co": {}, "kg": {},
	"the": {}, "and": {}, "for": {}, "ltd": {}, "inc": {}, "eur": {},
}

// NormalizeText lowercases and folds German diacritics.
func NormalizeText(s string) string {
	return umlautFolder.Replace(strings.ToLower(s))
}

// NormalizeRecipient produces the canonical recipient pattern key.
func NormalizeRecipient(s string) string {
	return strings.Join(strings.Fields(NormalizeText(s)), " ")
}

// Keywords generates the candidate pattern keys for a description:
// unigrams, bigrams, and, for descriptions of at least three meaningful
// words, trigrams. Stopwords and pure-numeric tokens are stripped first.
func Keywords(description string) []string {
	var words []string
	for _, w := range strings.FieldsFunc(NormalizeText(description), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(w) < 3 || isNumeric(w) {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		words = append(words, w)
	}

	keys := make([]string, 0, len(words)*3)
	keys = append(keys, words...)
	for i := 0; i+1 < len(words); i++ {
		keys = append(keys, words[i]+" "+words[i+1])
	}
	if len(words) >= 3 {
		for i := 0; i+2 < len(words); i++ {
			keys = append(keys, words[i]+" "+words[i+1]+" "+words[i+2])
		}
	}
	return keys
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// AmountBucket assigns the absolute amount to one of six magnitude buckets.
func AmountBucket(amount float64) string {
	abs := amount
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs <= 5:
		return "micro"
	case abs <= 25:
		return "small"
	case abs <= 100:
		return "medium"
	case abs <= 500:
		return "large"
	case abs <= 2000:
		return "xlarge"
	default:
		return "huge"
	}
}

// TimeBucket keys a timestamp by weekday and one of four six-hour segments.
func TimeBucket(t time.Time) string {
	return fmt.Sprintf("%s-%d", t.Weekday().String()[:3], t.Hour()/6)
}

// lengthSimilarity is the partial-credit ratio for overlapping keys.
func lengthSimilarity(a, b string) float64 {
	la, lb := float64(len(a)), float64(len(b))
	if la == 0 || lb == 0 {
		return 0
	}
	if la < lb {
		return la / lb
	}
	return lb / la
}
