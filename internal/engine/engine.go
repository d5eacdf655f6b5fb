// Package engine orchestrates the extraction pipeline: noise filtering,
// segmentation, amount/date extraction, merchant resolution and
// categorization, with a confidence-gated escalation to the generative
// collaborator when heuristics come up empty.
package engine

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/lhartmann/kontoflow/internal/bank"
	"github.com/lhartmann/kontoflow/internal/common"
	"github.com/lhartmann/kontoflow/internal/llm"
	"github.com/lhartmann/kontoflow/internal/merchant"
	"github.com/lhartmann/kontoflow/internal/model"
	"github.com/lhartmann/kontoflow/internal/textclean"
)

// fallbackTimeout bounds one generative escalation end to end.
const fallbackTimeout = 30 * time.Second

// defaultMaxConcurrentFallbacks throttles outstanding generative calls
// during batch processing.
const defaultMaxConcurrentFallbacks = 2

// Options configures an Engine.
type Options struct {
	// Categories is the allow-list passed to the categorizer and the
	// generative collaborator.
	Categories []string
	// MaxConcurrentFallbacks caps in-flight generative calls across
	// concurrently processed documents.
	MaxConcurrentFallbacks int
}

// Engine runs the per-document pipeline. The categorizer is shared mutable
// state and is injected; the generative client may be nil, which disables
// escalation.
type Engine struct {
	categorizer    Categorizer
	generative     Generative
	fallbackTokens chan struct{}
	categories     []string
}

// New creates an engine. Either collaborator may be nil.
func New(categorizer Categorizer, generative Generative, opts Options) *Engine {
	maxFallbacks := opts.MaxConcurrentFallbacks
	if maxFallbacks <= 0 {
		maxFallbacks = defaultMaxConcurrentFallbacks
	}
	return &Engine{
		categorizer:    categorizer,
		generative:     generative,
		fallbackTokens: make(chan struct{}, maxFallbacks),
		categories:     opts.Categories,
	}
}

// ParseDocument extracts transactions from raw statement text. The cheap
// heuristic path is always preferred when it yields anything; only a
// completely empty heuristic result escalates to the generative fallback,
// and collaborator failures degrade back to the heuristic result. The only
// hard error is unreadable input.
func (e *Engine) ParseDocument(ctx context.Context, rawText, documentName, account string) ([]model.Transaction, *model.UploadSession, error) {
	session := model.NewUploadSession(documentName)

	if strings.TrimSpace(rawText) == "" {
		session.Error("document is empty")
		return nil, session, common.ErrEmptyDocument
	}

	cleaned := textclean.Clean(rawText)
	bankID := bank.Detect(cleaned)
	session.Bank = string(bankID)
	session.Log("detected bank %q", bankID)

	blocks := bank.Segment(cleaned, bankID)
	session.BlocksFound = len(blocks)
	session.Log("segmented %d candidate blocks", len(blocks))

	txs := e.extractFromBlocks(blocks, account, session)

	if len(txs) == 0 && e.generative != nil {
		session.UsedFallback = true
		session.Warn("heuristics found no transactions, escalating to generative fallback")
		txs = e.runFallback(ctx, cleaned, account, session)
	}

	txs = e.categorize(txs)
	txs = filterValid(txs, session)
	txs = Dedupe(txs)

	session.Extracted = len(txs)
	return txs, session, nil
}

// extractFromBlocks runs amount/date extraction and merchant resolution per
// block. Malformed blocks are skipped, never fatal.
func (e *Engine) extractFromBlocks(blocks []model.TransactionBlock, account string, session *model.UploadSession) []model.Transaction {
	var txs []model.Transaction
	for _, block := range blocks {
		lines := block.Lines()

		match, ok := bank.FindAmount(lines)
		if !ok {
			session.BlocksSkipped++
			session.Warn("no amount in block %q", block.HeaderLine)
			continue
		}
		amount := bank.ParseAmount(match.Text)
		if amount == 0 {
			session.BlocksSkipped++
			session.Warn("unparseable amount %q in block %q", match.Text, block.HeaderLine)
			continue
		}

		date, parsed := bank.ParseDate(block.HeaderLine)
		if !parsed {
			session.Warn("no parseable date in block %q, using processing date", block.HeaderLine)
		}

		resolution := merchant.Resolve(block.Text())

		txs = append(txs, model.Transaction{
			Date:          date,
			DateDefaulted: !parsed,
			Description:   strings.Join(strings.Fields(block.Text()), " "),
			Recipient:     resolution.Recipient,
			Amount:        amount,
			Confidence:    resolution.Confidence,
			SourceAccount: account,
		})
	}
	return txs
}

// runFallback sends the cleaned text to the generative collaborator and
// parses its JSON response. Every failure path returns the empty heuristic
// result: a failed enhancement must never be worse than no enhancement.
func (e *Engine) runFallback(ctx context.Context, cleaned, account string, session *model.UploadSession) []model.Transaction {
	select {
	case e.fallbackTokens <- struct{}{}:
		defer func() { <-e.fallbackTokens }()
	case <-ctx.Done():
		session.Error("fallback canceled: %v", ctx.Err())
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, fallbackTimeout)
	defer cancel()

	resp, err := e.generative.Complete(ctx, fallbackRequest(buildFallbackPrompt(cleaned, e.categories)))
	if err != nil {
		common.LogError(err, "generative fallback failed", common.Fields{"document": session.Document})
		session.Error("generative fallback failed: %v", err)
		return nil
	}

	raw, ok := llm.ExtractJSONArray(resp.Text)
	if !ok {
		session.Error("no JSON array in generative response")
		return nil
	}

	var generated []generatedTransaction
	if err := json.Unmarshal(raw, &generated); err != nil {
		session.Error("generative response JSON invalid: %v", err)
		return nil
	}

	allowed := make(map[string]struct{}, len(e.categories))
	for _, cat := range e.categories {
		allowed[cat] = struct{}{}
	}

	var txs []model.Transaction
	for _, g := range generated {
		tx, err := g.toTransaction(account, allowed)
		if err != nil {
			session.Warn("dropped generated entry: %v", err)
			continue
		}
		txs = append(txs, tx)
	}
	session.Log("generative fallback produced %d transactions", len(txs))
	return txs
}

// categorize assigns a category where the classifier clears its threshold.
// Entries already categorized by the generative fallback keep their label.
func (e *Engine) categorize(txs []model.Transaction) []model.Transaction {
	if e.categorizer == nil {
		return txs
	}
	for i := range txs {
		if txs[i].Category != "" {
			continue
		}
		if pred := e.categorizer.Predict(txs[i], e.categories); pred.Category != "" {
			txs[i].Category = pred.Category
		}
	}
	return txs
}

// filterValid drops transactions violating the record invariants.
func filterValid(txs []model.Transaction, session *model.UploadSession) []model.Transaction {
	out := txs[:0]
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			session.Warn("dropped invalid transaction: %v", err)
			continue
		}
		out = append(out, tx)
	}
	return out
}
