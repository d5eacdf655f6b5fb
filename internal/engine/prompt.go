package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/lhartmann/kontoflow/internal/llm"
	"github.com/lhartmann/kontoflow/internal/model"
)

// maxPromptChars bounds how much document text is sent to the collaborator.
const maxPromptChars = 8000

// buildFallbackPrompt asks for a structured JSON array of transactions,
// constrained to the caller's category allow-list.
func buildFallbackPrompt(cleaned string, categories []string) string {
	if len(cleaned) > maxPromptChars {
		cleaned = cleaned[:maxPromptChars]
	}

	var b strings.Builder
	b.WriteString("Extract all financial transactions from the following German bank statement text.\n")
	b.WriteString("Respond with a JSON array only. Each element must have these fields:\n")
	b.WriteString(`  "date" (YYYY-MM-DD), "description" (string), "recipient" (string), "amount" (signed number, negative for expenses), "category" (string or null)` + "\n")
	if len(categories) > 0 {
		fmt.Fprintf(&b, "Allowed categories: %s. Use null when none fits.\n", strings.Join(categories, ", "))
	}
	b.WriteString("\nStatement text:\n")
	b.WriteString(cleaned)
	return b.String()
}

// generatedTransaction is the shape expected from the collaborator.
type generatedTransaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Recipient   string  `json:"recipient"`
	Category    *string `json:"category"`
	Amount      float64 `json:"amount"`
}

// toTransaction validates one generated entry. Entries missing date, amount
// or recipient are rejected individually; bad entries must not sink the
// document.
func (g generatedTransaction) toTransaction(account string, allowed map[string]struct{}) (model.Transaction, error) {
	if g.Amount == 0 {
		return model.Transaction{}, fmt.Errorf("generated entry has zero amount")
	}
	if strings.TrimSpace(g.Recipient) == "" {
		return model.Transaction{}, fmt.Errorf("generated entry has no recipient")
	}
	date, err := time.Parse("2006-01-02", g.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("generated entry has bad date %q: %w", g.Date, err)
	}

	tx := model.Transaction{
		Date:          date,
		Description:   strings.TrimSpace(g.Description),
		Recipient:     strings.TrimSpace(g.Recipient),
		Amount:        g.Amount,
		SourceAccount: account,
		Confidence:    0.7,
	}
	if g.Category != nil {
		if _, ok := allowed[*g.Category]; ok {
			tx.Category = *g.Category
		}
	}
	return tx, nil
}

// fallbackRequest wraps the prompt in the collaborator's request contract.
func fallbackRequest(prompt string) llm.Request {
	return llm.Request{
		Prompt:      prompt,
		Temperature: 0.1,
		MaxTokens:   2000,
	}
}
