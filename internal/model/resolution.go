package model

// ResolutionMethod identifies which strategy produced a merchant resolution.
type ResolutionMethod string

// Resolution method constants, roughly ordered by reliability.
const (
	MethodKnownMerchant   ResolutionMethod = "KNOWN_MERCHANT"
	MethodProcessorLayout ResolutionMethod = "PROCESSOR_LAYOUT"
	MethodNoiseStrip      ResolutionMethod = "NOISE_STRIP"
	MethodDirect          ResolutionMethod = "DIRECT"
	MethodFallback        ResolutionMethod = "FALLBACK"
)

// MerchantResolution is the outcome of resolving a block's true counterparty.
// PaymentProcessor is empty for direct transactions.
type MerchantResolution struct {
	Recipient        string
	PaymentProcessor string
	Method           ResolutionMethod
	Confidence       float64
}
