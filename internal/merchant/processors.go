// Package merchant resolves the true counterparty of a transaction block,
// separating payment intermediaries from the underlying merchant.
package merchant

import (
	"regexp"
	"strings"
)

// processorSignature detects a payment intermediary in block text. The list
// is ordered; the first match wins. Absence of any match means the booking
// is a direct transaction.
type processorSignature struct {
	re      *regexp.Regexp
	name    string
	display string
}

var processorSignatures = []processorSignature{
	{regexp.MustCompile(`(?i)\bpaypal\b`), "PayPal", "PayPal"},
	{regexp.MustCompile(`(?i)\bklarna\b`), "Klarna", "Klarna"},
	{regexp.MustCompile(`(?i)\bstripe\b`), "Stripe", "Stripe"},
	{regexp.MustCompile(`(?i)\badyen\b`), "Adyen", "Adyen"},
	{regexp.MustCompile(`(?i)\bmollie\b`), "Mollie", "Mollie"},
	{regexp.MustCompile(`(?i)stichting\s+pay\.?nl|\bpay\.nl\b`), "Stichting Pay.nl", "Pay.nl"},
	{regexp.MustCompile(`(?i)\bpayone\b`), "PAYONE", "PAYONE"},
	{regexp.MustCompile(`(?i)\bworldpay\b`), "Worldpay", "Worldpay"},
	{regexp.MustCompile(`(?i)\bsquareup\b|\bsq\s?\*`), "Square", "Square"},
	{regexp.MustCompile(`(?i)\bsumup\b`), "SumUp", "SumUp"},
}

// detectProcessor returns the internal name and display name of the first
// matching intermediary, or empty strings for a direct transaction.
func detectProcessor(text string) (string, string) {
	for _, sig := range processorSignatures {
		if sig.re.MatchString(text) {
			return sig.name, sig.display
		}
	}
	return "", ""
}

// isProcessorName reports whether a candidate recipient is just the
// intermediary's own name again.
func isProcessorName(name string) bool {
	lower := strings.ToLower(name)
	for _, sig := range processorSignatures {
		if strings.Contains(lower, strings.ToLower(sig.name)) ||
			strings.Contains(lower, strings.ToLower(sig.display)) {
			return true
		}
	}
	return false
}
