package bank

import (
	"regexp"
	"strings"

	"github.com/lhartmann/kontoflow/internal/model"
)

// blockAnchor matches a transaction header line: DD.MM.YYYY followed by at
// least two spaces. All supported banks anchor bookings this way; banks with
// tighter layouts get their own anchor here.
var (
	defaultAnchor = regexp.MustCompile(`(?m)^\d{2}\.\d{2}\.\d{4}\s{2,}`)
	genericAnchor = regexp.MustCompile(`(?m)^\d{2}\.\d{2}\.\d{4}\s+`)

	anchorByBank = map[ID]*regexp.Regexp{
		INGDiBa: genericAnchor,
	}
)

// processorLegalNames are long-form intermediary names whose bookings often
// spill the true merchant line across the date-anchored block boundary.
var processorLegalNames = []string{
	"PayPal (Europe) S.a.r.l. et Cie",
	"PayPal Europe S.a.r.l.",
	"Stichting Pay.nl",
	"Klarna Bank AB",
}

// merchantContextLine matches the merchant reference lines that PDF layout
// tends to separate from their booking header.
var merchantContextLine = regexp.MustCompile(`(?m)^.*Ihr Einkauf bei\s+\S.*$`)

// proximityWindow is how far around a block the repair step searches for a
// separated merchant line, in characters of cleaned text.
const proximityWindow = 250

// Segment splits cleaned statement text into candidate transaction blocks.
// Text is split at date-anchored header lines; blocks with fewer than two
// non-empty lines carry too little to describe a transaction and are
// dropped. Unknown banks fall back to a generic date-anchored line split
// where a single dense line may be the whole transaction.
func Segment(cleaned string, bankID ID) []model.TransactionBlock {
	anchor := defaultAnchor
	minLines := 2
	if bankID == Unknown {
		anchor = genericAnchor
		minLines = 1
	}
	if a, ok := anchorByBank[bankID]; ok {
		anchor = a
	}

	starts := anchor.FindAllStringIndex(cleaned, -1)
	if len(starts) == 0 {
		return nil
	}

	blocks := make([]model.TransactionBlock, 0, len(starts))
	for i, loc := range starts {
		end := len(cleaned)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		span := strings.TrimRight(cleaned[loc[0]:end], "\n")

		lines := strings.Split(span, "\n")
		block := model.TransactionBlock{HeaderLine: lines[0]}
		if len(lines) > 1 {
			block.BodyLines = lines[1:]
		}

		repairMerchantContext(&block, cleaned, loc[0], end)

		if block.NonEmptyLines() < minLines {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// repairMerchantContext reattaches a merchant line that the date-based split
// separated from an intermediary booking. When a block carries a known
// processor legal name but no merchant reference, the surrounding cleaned
// text is searched within the proximity window.
func repairMerchantContext(block *model.TransactionBlock, cleaned string, start, end int) {
	text := block.Text()
	if !containsProcessorLegalName(text) {
		return
	}
	if merchantContextLine.MatchString(text) {
		return
	}

	lo := start - proximityWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + proximityWindow
	if hi > len(cleaned) {
		hi = len(cleaned)
	}

	if m := merchantContextLine.FindString(cleaned[lo:hi]); m != "" {
		block.BodyLines = append(block.BodyLines, strings.TrimSpace(m))
	}
}

func containsProcessorLegalName(text string) bool {
	for _, name := range processorLegalNames {
		if strings.Contains(text, name) {
			return true
		}
	}
	return false
}
