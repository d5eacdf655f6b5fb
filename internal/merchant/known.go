package merchant

import (
	"regexp"
	"strings"
)

// knownMerchants maps unambiguous brand keywords to canonical display names.
// A brand appearing anywhere in block text is a high-confidence override for
// the cases where the structural patterns fail but the name itself is clear.
var knownMerchants = map[string]string{
	"rewe":          "REWE",
	"edeka":         "EDEKA",
	"aldi":          "ALDI",
	"lidl":          "Lidl",
	"netto":         "Netto",
	"penny":         "Penny",
	"kaufland":      "Kaufland",
	"rossmann":      "Rossmann",
	"amazon":        "Amazon",
	"netflix":       "Netflix",
	"spotify":       "Spotify",
	"uber":          "Uber",
	"lieferando":    "Lieferando",
	"zalando":       "Zalando",
	"ikea":          "IKEA",
	"mediamarkt":    "MediaMarkt",
	"saturn":        "Saturn",
	"obi":           "OBI",
	"deutsche bahn": "Deutsche Bahn",
	"mcdonald":      "McDonald's",
	"burger king":   "Burger King",
	"shell":         "Shell",
	"aral":          "Aral",
	"telekom":       "Telekom",
	"vodafone":      "Vodafone",
}

var knownMerchantRe = buildKnownMerchantRe()

func buildKnownMerchantRe() *regexp.Regexp {
	keys := make([]string, 0, len(knownMerchants))
	for k := range knownMerchants {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(keys, "|") + `)\b`)
}

// knownMerchant returns the canonical name of the first recognized brand in
// the text.
func knownMerchant(text string) (string, bool) {
	m := knownMerchantRe.FindString(text)
	if m == "" {
		return "", false
	}
	return knownMerchants[strings.ToLower(m)], true
}
