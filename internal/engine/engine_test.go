package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhartmann/kontoflow/internal/classifier"
	"github.com/lhartmann/kontoflow/internal/common"
	"github.com/lhartmann/kontoflow/internal/llm"
	"github.com/lhartmann/kontoflow/internal/model"
)

var testCategories = []string{
	"Groceries", "Dining", "Transport", "Entertainment", "Shopping",
	"Health", "Housing", "Utilities", "Insurance", "Income",
}

// stubGenerative is a canned Generative collaborator.
type stubGenerative struct {
	resp  llm.Response
	err   error
	calls int
}

func (s *stubGenerative) Complete(_ context.Context, _ llm.Request) (llm.Response, error) {
	s.calls++
	return s.resp, s.err
}

func newTestEngine(generative Generative) *Engine {
	c := classifier.New()
	c.Bootstrap()
	return New(c, generative, Options{Categories: testCategories})
}

func TestParseDocumentEndToEnd(t *testing.T) {
	raw := "15.08.2024 Überweisung Von ING-DiBa AG An REWE SAGT DANKE 1234567 -45.67 EUR"

	engine := newTestEngine(nil)
	txs, session, err := engine.ParseDocument(context.Background(), raw, "august.pdf", "giro")

	require.NoError(t, err)
	require.Len(t, txs, 1)

	tx := txs[0]
	assert.Equal(t, time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.False(t, tx.DateDefaulted)
	assert.InDelta(t, -45.67, tx.Amount, 0.001)
	assert.Equal(t, "REWE SAGT DANKE", tx.Recipient)
	assert.Equal(t, "Groceries", tx.Category)
	assert.Equal(t, "giro", tx.SourceAccount)
	assert.Equal(t, 1, session.Extracted)
	assert.False(t, session.UsedFallback)
}

func TestParseDocumentSparkasseStatement(t *testing.T) {
	raw := strings.Join([]string{
		"Ihre Sparkasse  Kontoauszug 8/2024",
		"",
		"15.08.2024  Lastschrift PayPal Europe S.a.r.l. et Cie S.C.A",
		"1043644529546/. Uber, Ihr Einkauf bei Uber",
		"-23,45",
		"16.08.2024  Gutschrift Gehalt August",
		"ACME Maschinenbau GmbH",
		"2.500,00",
	}, "\n")

	engine := newTestEngine(nil)
	txs, session, err := engine.ParseDocument(context.Background(), raw, "august.pdf", "giro")

	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "sparkasse", session.Bank)

	assert.Equal(t, "Uber", txs[0].Recipient)
	assert.InDelta(t, -23.45, txs[0].Amount, 0.001)

	assert.InDelta(t, 2500.00, txs[1].Amount, 0.001)
	assert.Equal(t, "Income", txs[1].Category)
}

func TestParseDocumentEmptyInput(t *testing.T) {
	engine := newTestEngine(nil)
	txs, session, err := engine.ParseDocument(context.Background(), "   \n\t ", "empty.pdf", "giro")

	assert.ErrorIs(t, err, common.ErrEmptyDocument)
	assert.Empty(t, txs)
	assert.Equal(t, 1, session.Errors)
}

func TestParseDocumentFallbackFailureDegradesGracefully(t *testing.T) {
	generative := &stubGenerative{err: errors.New("connection refused")}
	engine := newTestEngine(generative)

	txs, session, err := engine.ParseDocument(context.Background(), "Kontoauszug ohne verwertbare Daten", "odd.pdf", "giro")

	require.NoError(t, err, "a collaborator failure must never fail the document")
	assert.Empty(t, txs)
	assert.True(t, session.UsedFallback)
	assert.Equal(t, 1, generative.calls)
}

func TestParseDocumentFallbackParsesProseWrappedArray(t *testing.T) {
	generative := &stubGenerative{resp: llm.Response{Text: `Here are the transactions I found:
[
  {"date": "2024-08-15", "description": "Miete August", "recipient": "Hausverwaltung Schmidt", "amount": -850.00, "category": "Housing"},
  {"date": "2024-08-16", "description": "Unfug", "recipient": "Jemand", "amount": -1.00, "category": "Raumfahrt"},
  {"date": "2024-08-17", "description": "kaputt", "recipient": "", "amount": -5.00, "category": null}
]
Let me know if you need anything else.`}}
	engine := newTestEngine(generative)

	txs, session, err := engine.ParseDocument(context.Background(), "Kontoauszug ohne verwertbare Daten", "odd.pdf", "giro")

	require.NoError(t, err)
	require.Len(t, txs, 2, "the entry without a recipient must be dropped individually")
	assert.True(t, session.UsedFallback)

	assert.Equal(t, "Hausverwaltung Schmidt", txs[0].Recipient)
	assert.Equal(t, "Housing", txs[0].Category)
	assert.InDelta(t, 0.7, txs[0].Confidence, 0.001)

	assert.Equal(t, "Jemand", txs[1].Recipient)
	assert.Empty(t, txs[1].Category, "categories outside the allow-list are discarded")
}

func TestParseDocumentPrefersHeuristics(t *testing.T) {
	generative := &stubGenerative{resp: llm.Response{Text: "[]"}}
	engine := newTestEngine(generative)

	raw := "15.08.2024 Überweisung An REWE SAGT DANKE -45.67 EUR"
	txs, _, err := engine.ParseDocument(context.Background(), raw, "august.pdf", "giro")

	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Zero(t, generative.calls, "the fallback must not run when heuristics found transactions")
}

func TestParseDocumentFallbackHonorsCanceledContext(t *testing.T) {
	generative := &stubGenerative{resp: llm.Response{Text: "[]"}}
	engine := newTestEngine(generative)

	// Occupy every fallback token so the semaphore blocks.
	engine.fallbackTokens <- struct{}{}
	engine.fallbackTokens <- struct{}{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	txs, _, err := engine.ParseDocument(ctx, "Kontoauszug ohne verwertbare Daten", "odd.pdf", "giro")
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.Zero(t, generative.calls)
}

func TestDedupe(t *testing.T) {
	date := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
	a := model.Transaction{Date: date, Recipient: "REWE", Description: "Einkauf REWE", Amount: -45.67}
	b := model.Transaction{Date: date, Recipient: "Uber", Description: "Fahrt", Amount: -12.30}
	dupA := a
	dupA.Confidence = 0.2 // identity key ignores confidence

	out := Dedupe([]model.Transaction{a, b, dupA, b})
	require.Len(t, out, 2)
	assert.Equal(t, "REWE", out[0].Recipient)
	assert.Equal(t, "Uber", out[1].Recipient)

	again := Dedupe(out)
	assert.Equal(t, out, again)
}

func TestMergeTransactions(t *testing.T) {
	date := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
	heuristic := []model.Transaction{
		{Date: date, Description: "Lastschrift REWE Markt", Recipient: "REWE", Amount: -45.67, Confidence: 0.6},
	}
	generative := []model.Transaction{
		{Date: date, Description: "Lastschrift REWE Markt", Recipient: "REWE Markt GmbH", Amount: -45.67, Confidence: 0.9},
		{Date: date, Description: "Miete August", Recipient: "Hausverwaltung", Amount: -850.00, Confidence: 0.7},
	}

	out := MergeTransactions(heuristic, generative)
	require.Len(t, out, 2)
	assert.Equal(t, "REWE Markt GmbH", out[0].Recipient, "the higher-confidence side of a matched pair wins")
	assert.Equal(t, "Hausverwaltung", out[1].Recipient)

	// Pure: inputs untouched.
	assert.Equal(t, "REWE", heuristic[0].Recipient)
}

func TestMergeTransactionsKeepsHeuristicWinner(t *testing.T) {
	date := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
	heuristic := []model.Transaction{
		{Date: date, Description: "Lastschrift REWE Markt", Recipient: "REWE", Amount: -45.67, Confidence: 0.95},
	}
	generative := []model.Transaction{
		{Date: date, Description: "Lastschrift REWE Markt", Recipient: "Something Else", Amount: -45.67, Confidence: 0.7},
	}

	out := MergeTransactions(heuristic, generative)
	require.Len(t, out, 1)
	assert.Equal(t, "REWE", out[0].Recipient)
}

func TestSimilarity(t *testing.T) {
	date := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
	a := model.Transaction{Date: date, Description: "Lastschrift REWE Markt", Amount: -45.67}

	same := a
	assert.InDelta(t, 1.0, Similarity(a, same), 0.001)

	different := model.Transaction{
		Date:        date.AddDate(0, 0, 3),
		Description: "Miete August",
		Amount:      -850.00,
	}
	assert.Less(t, Similarity(a, different), matchThreshold)
}

func TestBuildFallbackPrompt(t *testing.T) {
	prompt := buildFallbackPrompt("Kontoauszug Text", []string{"Groceries", "Dining"})
	assert.Contains(t, prompt, "JSON array")
	assert.Contains(t, prompt, "Groceries, Dining")
	assert.Contains(t, prompt, "Kontoauszug Text")

	long := strings.Repeat("x", maxPromptChars*2)
	truncated := buildFallbackPrompt(long, nil)
	assert.Less(t, len(truncated), maxPromptChars+1000)
}
