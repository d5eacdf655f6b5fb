package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lhartmann/kontoflow/internal/classifier"
	"github.com/lhartmann/kontoflow/internal/cli"
	"github.com/lhartmann/kontoflow/internal/model"
)

func modelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Inspect and train the categorization model",
	}
	cmd.AddCommand(modelStatsCmd())
	cmd.AddCommand(modelCorrectCmd())
	cmd.AddCommand(modelResetCmd())
	return cmd
}

func modelStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show model pattern counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats := loadClassifier(ctx, store).Stats()
			fmt.Println(cli.TitleStyle.Render("Classifier model"))
			fmt.Printf("  description patterns: %d\n", stats.DescriptionPatterns)
			fmt.Printf("  recipient patterns:   %d\n", stats.RecipientPatterns)
			fmt.Printf("  negative keywords:    %d\n", stats.NegativeKeywords)
			fmt.Printf("  known categories:     %d\n", stats.Categories)
			fmt.Printf("  recorded corrections: %d\n", stats.Corrections)
			return nil
		},
	}
}

func modelCorrectCmd() *cobra.Command {
	var (
		recipient   string
		description string
		amount      float64
	)

	cmd := &cobra.Command{
		Use:   "correct <category>",
		Short: "Teach the model the correct category for a transaction",
		Long: `Feeds one user correction into the model. Corrections are applied
synchronously and the updated model is persisted immediately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			clf := loadClassifier(ctx, store)
			clf.Learn(model.Transaction{
				Date:        time.Now(),
				Description: description,
				Recipient:   recipient,
				Amount:      amount,
			}, args[0])
			saveClassifier(ctx, store, clf)

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Learned: %q -> %s", recipient, args[0])))
			return nil
		},
	}

	cmd.Flags().StringVar(&recipient, "recipient", "", "transaction recipient")
	cmd.Flags().StringVar(&description, "description", "", "transaction description")
	cmd.Flags().Float64Var(&amount, "amount", 0, "transaction amount (negative for expenses)")
	_ = cmd.MarkFlagRequired("recipient")
	return cmd
}

func modelResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset the model to the bootstrap seed patterns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			clf := classifier.New()
			clf.Bootstrap()
			saveClassifier(ctx, store, clf)

			fmt.Println(cli.WarningStyle.Render("Model reset to bootstrap patterns"))
			return nil
		},
	}
}
