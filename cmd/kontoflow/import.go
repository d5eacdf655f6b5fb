package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/lhartmann/kontoflow/internal/cli"
	"github.com/lhartmann/kontoflow/internal/engine"
	"github.com/lhartmann/kontoflow/internal/pdftext"
)

func importCmd() *cobra.Command {
	var (
		account string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "import <file-or-directory>...",
		Short: "Import bank statements (PDF or plain text)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			files, err := collectStatementFiles(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no statement files found in %s", strings.Join(args, ", "))
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := categoryNames(ctx, store)
			if err != nil {
				return err
			}

			clf := loadClassifier(ctx, store)
			eng := engine.New(clf, newGenerativeClient(), engine.Options{Categories: categories})

			bar := progressbar.NewOptions(len(files),
				progressbar.OptionSetDescription("Importing statements"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			totalExtracted := 0
			totalStored := 0
			var failures []string

			for _, file := range files {
				text, err := readStatement(file)
				if err != nil {
					failures = append(failures, fmt.Sprintf("%s: %v", filepath.Base(file), err))
					_ = bar.Add(1)
					continue
				}

				txs, session, err := eng.ParseDocument(ctx, text, filepath.Base(file), account)
				if err != nil {
					failures = append(failures, fmt.Sprintf("%s: %v", filepath.Base(file), err))
					_ = bar.Add(1)
					continue
				}
				totalExtracted += len(txs)

				if !dryRun {
					stored, err := store.SaveTransactions(ctx, txs)
					if err != nil {
						return err
					}
					totalStored += stored
					if err := store.SaveSessionSummary(ctx, session); err != nil {
						return err
					}
				}

				fmt.Println(cli.SubtleStyle.Render(session.Summary()))
				_ = bar.Add(1)
			}

			fmt.Println(cli.TitleStyle.Render("Import finished"))
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("  %d transactions extracted, %d newly stored", totalExtracted, totalStored)))
			if dryRun {
				fmt.Println(cli.WarningStyle.Render("  dry run: nothing was written"))
			}
			for _, f := range failures {
				fmt.Println(cli.ErrorStyle.Render("  " + f))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "source account label stored with the transactions")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse statements without writing to the database")
	return cmd
}

// collectStatementFiles expands directories into their .pdf and .txt files.
func collectStatementFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".pdf", ".txt":
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
	}
	return files, nil
}

// readStatement extracts text from a statement file based on its extension.
func readStatement(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return pdftext.Extract(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
