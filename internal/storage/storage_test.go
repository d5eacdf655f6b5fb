package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhartmann/kontoflow/internal/common"
	"github.com/lhartmann/kontoflow/internal/model"
	"github.com/lhartmann/kontoflow/internal/testutil"
)

func sampleTransactions() []model.Transaction {
	date := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
	return []model.Transaction{
		{
			Date:          date,
			Description:   "Lastschrift REWE Markt",
			Recipient:     "REWE",
			Amount:        -45.67,
			Category:      "Groceries",
			Confidence:    0.9,
			SourceAccount: "giro",
		},
		{
			Date:          date.AddDate(0, 0, 1),
			Description:   "Gehalt August",
			Recipient:     "ACME Maschinenbau GmbH",
			Amount:        2500.00,
			Category:      "Income",
			Confidence:    0.8,
			SourceAccount: "giro",
		},
	}
}

func TestSaveTransactionsIsIdempotent(t *testing.T) {
	store := testutil.NewTestDatabase(t)
	ctx := context.Background()
	txs := sampleTransactions()

	stored, err := store.SaveTransactions(ctx, txs)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	// Re-importing the same statement stores nothing new.
	stored, err = store.SaveTransactions(ctx, txs)
	require.NoError(t, err)
	assert.Zero(t, stored)

	listed, err := store.ListTransactions(ctx,
		time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestSaveTransactionsEmptySlice(t *testing.T) {
	store := testutil.NewTestDatabase(t)

	stored, err := store.SaveTransactions(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, stored)
}

func TestListTransactionsOrdersNewestFirst(t *testing.T) {
	store := testutil.NewTestDatabase(t)
	ctx := context.Background()

	_, err := store.SaveTransactions(ctx, sampleTransactions())
	require.NoError(t, err)

	listed, err := store.ListTransactions(ctx,
		time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "ACME Maschinenbau GmbH", listed[0].Recipient)
	assert.Equal(t, "REWE", listed[1].Recipient)
	assert.InDelta(t, 2500.00, listed[0].Amount, 0.001)
}

func TestLoadModelNotFound(t *testing.T) {
	store := testutil.NewTestDatabase(t)

	_, err := store.LoadModel(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveAndLoadModel(t *testing.T) {
	store := testutil.NewTestDatabase(t)
	ctx := context.Background()

	blob := []byte(`{"descriptionPatterns":{}}`)
	require.NoError(t, store.SaveModel(ctx, blob))

	loaded, err := store.LoadModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, blob, loaded)

	// Last write wins.
	updated := []byte(`{"descriptionPatterns":{"rewe":{"category":"Groceries"}}}`)
	require.NoError(t, store.SaveModel(ctx, updated))

	loaded, err = store.LoadModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, loaded)
}

func TestSeedCategories(t *testing.T) {
	store := testutil.NewTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, store.SeedCategories(ctx))
	// Seeding twice must not duplicate.
	require.NoError(t, store.SeedCategories(ctx))

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 10)

	names := make(map[string]model.CategoryType, len(categories))
	for _, c := range categories {
		names[c.Name] = c.Type
	}
	assert.Equal(t, model.CategoryTypeExpense, names["Groceries"])
	assert.Equal(t, model.CategoryTypeIncome, names["Income"])
}

func TestAddCategory(t *testing.T) {
	store := testutil.NewTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, store.SeedCategories(ctx))
	require.NoError(t, store.AddCategory(ctx, "Donations", "Charitable giving", model.CategoryTypeExpense))

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 11)

	// Duplicate names are rejected by the schema.
	assert.Error(t, store.AddCategory(ctx, "Donations", "again", model.CategoryTypeExpense))
}

func TestSaveSessionSummary(t *testing.T) {
	store := testutil.NewTestDatabase(t)

	session := model.NewUploadSession("august.pdf")
	session.Bank = "Sparkasse"
	session.BlocksFound = 12
	session.Extracted = 10
	session.Warnings = 2

	assert.NoError(t, store.SaveSessionSummary(context.Background(), session))
}
