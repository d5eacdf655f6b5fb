package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/lhartmann/kontoflow/internal/classifier"
	"github.com/lhartmann/kontoflow/internal/common"
	"github.com/lhartmann/kontoflow/internal/llm"
	"github.com/lhartmann/kontoflow/internal/model"
	"github.com/lhartmann/kontoflow/internal/storage"
)

// openStorage opens and migrates the database.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	path, err := databasePath()
	if err != nil {
		return nil, err
	}
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := store.SeedCategories(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// loadClassifier restores the persisted model, falling back to the
// bootstrap seed set when none exists or the blob is corrupt.
func loadClassifier(ctx context.Context, store *storage.SQLiteStorage) *classifier.Classifier {
	c := classifier.New()

	blob, err := store.LoadModel(ctx)
	switch {
	case errors.Is(err, common.ErrNotFound):
		slog.Info("No persisted classifier model, bootstrapping with seed patterns")
		c.Bootstrap()
	case err != nil:
		common.LogError(err, "failed to load classifier model, bootstrapping", nil)
		c.Bootstrap()
	default:
		if err := c.Restore(blob); err != nil {
			common.LogError(err, "classifier model corrupt, bootstrapping", nil)
			c = classifier.New()
			c.Bootstrap()
		}
	}
	return c
}

// saveClassifier persists the model, last write wins.
func saveClassifier(ctx context.Context, store *storage.SQLiteStorage, c *classifier.Classifier) {
	blob, err := c.Snapshot()
	if err != nil {
		common.LogError(err, "failed to serialize classifier model", nil)
		return
	}
	if err := store.SaveModel(ctx, blob); err != nil {
		common.LogError(err, "failed to save classifier model", nil)
	}
}

// newGenerativeClient builds the fallback client when configured; a missing
// API key just disables escalation.
func newGenerativeClient() llm.Client {
	apiKey := viper.GetString("llm.api_key")
	if apiKey == "" {
		slog.Debug("No llm.api_key configured, generative fallback disabled")
		return nil
	}
	client, err := llm.NewClient(llm.Config{
		Provider:          viper.GetString("llm.provider"),
		APIKey:            apiKey,
		Model:             viper.GetString("llm.model"),
		BaseURL:           viper.GetString("llm.base_url"),
		RequestsPerMinute: viper.GetInt("llm.requests_per_minute"),
	})
	if err != nil {
		common.LogError(err, "failed to create generative client, fallback disabled", nil)
		return nil
	}
	return client
}

// categoryNames loads the active category allow-list.
func categoryNames(ctx context.Context, store *storage.SQLiteStorage) ([]string, error) {
	categories, err := store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return model.CategoryNames(categories), nil
}
