package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lhartmann/kontoflow/internal/cli"
	"github.com/lhartmann/kontoflow/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage spending categories",
	}
	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())
	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.ListCategories(ctx)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render("Categories"))
			for _, c := range categories {
				fmt.Printf("  %-16s %-8s %s\n", c.Name, c.Type, cli.SubtleStyle.Render(c.Description))
			}
			return nil
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	var (
		description string
		income      bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			catType := model.CategoryTypeExpense
			if income {
				catType = model.CategoryTypeIncome
			}
			if err := store.AddCategory(ctx, args[0], description, catType); err != nil {
				return err
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Added category %q", args[0])))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "category description")
	cmd.Flags().BoolVar(&income, "income", false, "mark as an income category")
	return cmd
}
