// Package bank turns cleaned statement text into per-transaction blocks and
// extracts amounts and dates from them. Segmentation rules are keyed by the
// issuing bank, detected from institution signatures in the text.
package bank

import "regexp"

// ID identifies the issuing institution of a statement.
type ID string

// Known institutions.
const (
	Sparkasse    ID = "sparkasse"
	INGDiBa      ID = "ing-diba"
	DeutscheBank ID = "deutsche-bank"
	Commerzbank  ID = "commerzbank"
	DKB          ID = "dkb"
	Volksbank    ID = "volksbank"
	Postbank     ID = "postbank"
	Comdirect    ID = "comdirect"
	N26          ID = "n26"
	Unknown      ID = "unknown"
)

// signature is one ordered detection rule. Routing identifiers (BIC
// prefixes) come before display names because display names also show up in
// counterparty lines of other banks' statements.
type signature struct {
	re *regexp.Regexp
	id ID
}

var signatures = []signature{
	{regexp.MustCompile(`(?i)NTSBDE`), N26},
	{regexp.MustCompile(`(?i)INGDDEFF|ING-DiBa\s+AG\b.*Frankfurt|www\.ing\.de`), INGDiBa},
	{regexp.MustCompile(`(?i)COBADE|www\.commerzbank\.de`), Commerzbank},
	{regexp.MustCompile(`(?i)DEUTDE|Deutsche\s+Bank\s+Privat`), DeutscheBank},
	{regexp.MustCompile(`(?i)BYLADEM|Ihre\s+Sparkasse|Stadtsparkasse|Kreissparkasse`), Sparkasse},
	{regexp.MustCompile(`(?i)PBNKDE|Postbank\s+.\s+eine\s+Niederlassung`), Postbank},
	{regexp.MustCompile(`(?i)GENODE|Volksbank|Raiffeisenbank`), Volksbank},
	{regexp.MustCompile(`(?i)COBADEHD|comdirect\s+.\s+eine\s+Marke`), Comdirect},
	{regexp.MustCompile(`(?i)BYLADEF|Deutsche\s+Kreditbank|www\.dkb\.de`), DKB},
	{regexp.MustCompile(`(?i)\bN26\s+Bank\b`), N26},
}

// Detect identifies the issuing bank from statement text. The first matching
// signature wins; text matching none of them is Unknown.
func Detect(text string) ID {
	for _, sig := range signatures {
		if sig.re.MatchString(text) {
			return sig.id
		}
	}
	return Unknown
}
