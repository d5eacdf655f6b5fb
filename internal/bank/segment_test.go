package bank

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want ID
	}{
		{"sparkasse by name", "Ihre Sparkasse\nKontoauszug", Sparkasse},
		{"commerzbank by BIC prefix", "COBADEFFXXX Umsatzliste", Commerzbank},
		{"volksbank by BIC prefix", "GENODEF1XXX Buchungen", Volksbank},
		{"n26 by BIC prefix", "NTSBDEB1XXX", N26},
		{"ing by website", "Mehr unter www.ing.de", INGDiBa},
		{"unknown", "some random statement text", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text))
		})
	}
}

func TestSegment(t *testing.T) {
	text := strings.Join([]string{
		"15.08.2024  Lastschrift",
		"REWE SAGT DANKE",
		"-45,67",
		"16.08.2024  Gutschrift",
		"Gehalt August",
		"+2.500,00",
	}, "\n")

	blocks := Segment(text, Sparkasse)
	require.Len(t, blocks, 2)
	assert.Equal(t, "15.08.2024  Lastschrift", blocks[0].HeaderLine)
	assert.Equal(t, []string{"REWE SAGT DANKE", "-45,67"}, blocks[0].BodyLines)
	assert.Equal(t, "16.08.2024  Gutschrift", blocks[1].HeaderLine)
}

func TestSegmentDiscardsThinBlocks(t *testing.T) {
	text := strings.Join([]string{
		"15.08.2024  Lastschrift",
		"REWE SAGT DANKE",
		"16.08.2024  ",
		"",
		"17.08.2024  Gutschrift",
		"Gehalt",
	}, "\n")

	blocks := Segment(text, Sparkasse)
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0].HeaderLine, "15.08.2024")
	assert.Contains(t, blocks[1].HeaderLine, "17.08.2024")
}

func TestSegmentUnknownBankSingleLine(t *testing.T) {
	// Unknown banks use the generic splitter: one dense line can be a whole
	// transaction.
	text := "15.08.2024 Überweisung An REWE SAGT DANKE -45.67 EUR"
	blocks := Segment(text, Unknown)
	require.Len(t, blocks, 1)
	assert.Equal(t, 0, len(blocks[0].BodyLines))
}

func TestSegmentNoAnchors(t *testing.T) {
	assert.Empty(t, Segment("no dates anywhere in this text", Sparkasse))
}

func TestSegmentReattachesMerchantContext(t *testing.T) {
	// The merchant line ended up after the next date split; the proximity
	// repair pulls it back into the intermediary block.
	text := strings.Join([]string{
		"15.08.2024  Lastschrift",
		"PayPal (Europe) S.a.r.l. et Cie, S.C.A",
		"-19,99",
		"16.08.2024  1043644529546/. Uber, Ihr Einkauf bei Uber",
		"-7,50",
	}, "\n")

	blocks := Segment(text, Sparkasse)
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0].Text(), "Ihr Einkauf bei")
}
