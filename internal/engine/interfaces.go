package engine

import (
	"context"

	"github.com/lhartmann/kontoflow/internal/classifier"
	"github.com/lhartmann/kontoflow/internal/llm"
	"github.com/lhartmann/kontoflow/internal/model"
)

// Categorizer assigns categories to extracted transactions.
type Categorizer interface {
	Predict(tx model.Transaction, availableCategories []string) classifier.Prediction
}

// Generative is the text-completion fallback collaborator.
type Generative interface {
	Complete(ctx context.Context, req llm.Request) (llm.Response, error)
}
