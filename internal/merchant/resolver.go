package merchant

import (
	"strings"

	"github.com/lhartmann/kontoflow/internal/model"
)

// Confidence levels for the non-strategy outcomes.
const (
	knownMerchantConfidence = 0.95
	noiseStripConfidence    = 0.6
	fallbackConfidence      = 0.55
	distinctRecipientBoost  = 0.03
)

// unknownRecipient is returned when nothing usable could be extracted.
const unknownRecipient = "Unbekannt"

// Resolve determines the true counterparty of a transaction block. When a
// payment intermediary is detected, its layout strategies run in priority
// order; a direct booking takes the simpler keyword-strip path. Resolution
// never fails outright: when every strategy misses, the intermediary's
// display name (or "Unbekannt") is returned at low confidence so the
// transaction keeps partial information.
func Resolve(blockText string) model.MerchantResolution {
	processor, display := detectProcessor(blockText)
	if processor == "" {
		return resolveDirect(blockText)
	}

	for _, s := range processorStrategies {
		m := s.re.FindStringSubmatch(blockText)
		if m == nil {
			continue
		}
		name := cleanName(m[1])
		if !validName(name) || isProcessorName(name) {
			continue
		}
		conf := s.confidence
		if !strings.EqualFold(name, display) {
			conf = clamp(conf + distinctRecipientBoost)
		}
		return model.MerchantResolution{
			Recipient:        name,
			PaymentProcessor: processor,
			Confidence:       conf,
			Method:           model.MethodProcessorLayout,
		}
	}

	if name, ok := knownMerchant(blockText); ok && !isProcessorName(name) {
		return model.MerchantResolution{
			Recipient:        name,
			PaymentProcessor: processor,
			Confidence:       knownMerchantConfidence,
			Method:           model.MethodKnownMerchant,
		}
	}

	if name, ok := stripNoise(blockText); ok {
		return model.MerchantResolution{
			Recipient:        name,
			PaymentProcessor: processor,
			Confidence:       noiseStripConfidence,
			Method:           model.MethodNoiseStrip,
		}
	}

	return model.MerchantResolution{
		Recipient:        display,
		PaymentProcessor: processor,
		Confidence:       fallbackConfidence,
		Method:           model.MethodFallback,
	}
}

// resolveDirect handles bookings without a payment intermediary. Direct
// transactions are less ambiguous, so successful extraction carries high
// confidence.
func resolveDirect(blockText string) model.MerchantResolution {
	for _, s := range directStrategies {
		m := s.re.FindStringSubmatch(blockText)
		if m == nil {
			continue
		}
		name := cleanName(m[1])
		if !validName(name) {
			continue
		}
		return model.MerchantResolution{
			Recipient:  name,
			Confidence: s.confidence,
			Method:     model.MethodDirect,
		}
	}

	// Keyword strip: drop booking-type prefixes, take the text up to the
	// first comma or double slash.
	stripped := stripTransactionKeywords(blockText)
	if cut := strings.IndexAny(stripped, ",\n"); cut >= 0 {
		stripped = stripped[:cut]
	}
	if cut := strings.Index(stripped, "//"); cut >= 0 {
		stripped = stripped[:cut]
	}
	if name := cleanName(stripped); validName(name) {
		return model.MerchantResolution{
			Recipient:  name,
			Confidence: 0.85,
			Method:     model.MethodDirect,
		}
	}

	if name, ok := knownMerchant(blockText); ok {
		return model.MerchantResolution{
			Recipient:  name,
			Confidence: knownMerchantConfidence,
			Method:     model.MethodKnownMerchant,
		}
	}

	if name, ok := stripNoise(blockText); ok {
		return model.MerchantResolution{
			Recipient:  name,
			Confidence: noiseStripConfidence,
			Method:     model.MethodNoiseStrip,
		}
	}

	return model.MerchantResolution{
		Recipient:  unknownRecipient,
		Confidence: 0.5,
		Method:     model.MethodFallback,
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
