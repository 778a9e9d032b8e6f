package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/spice-budget/internal/cli"
	"github.com/Veraticus/spice-budget/internal/config"
	"github.com/Veraticus/spice-budget/internal/model"
	"github.com/Veraticus/spice-budget/internal/ofx"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ofx <files...>",
		Short: "Import transactions from OFX/QFX bank statements",
		Long: `Import transactions from OFX or QFX files exported from your bank.

Lines already in the ledger, or repeated across files, are skipped. Imported
transactions are recorded as completed.

Examples:
  # Import single file
  budget import ofx ~/Downloads/checking_2024-03.qfx

  # Import all QFX files in a directory, filing credits under Salary
  budget import ofx ~/Downloads/*.qfx --income-category 1`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().String("income-category", "", "category id for credits")
	cmd.Flags().String("expense-category", "", "category id for debits")

	return cmd
}

// expandFiles resolves glob patterns, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		pattern = config.ExpandPath(pattern)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, errors.New("no files found to import")
	}
	return files, nil
}

// parseStatements parses files concurrently and returns their entries in argument order.
func parseStatements(ctx context.Context, parser *ofx.Parser, files []string) ([]ofx.Entry, error) {
	perFile := make([][]ofx.Entry, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range files {
		g.Go(func() error {
			entries, err := parseStatement(ctx, parser, path)
			if err != nil {
				return err
			}
			perFile[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var entries []ofx.Entry
	for _, parsed := range perFile {
		entries = append(entries, parsed...)
	}
	return entries, nil
}

func parseStatement(ctx context.Context, parser *ofx.Parser, path string) ([]ofx.Entry, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close statement", "file", path, "error", closeErr)
		}
	}()

	entries, err := parser.ParseFile(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("parsed statement", "file", path, "transactions", len(entries))
	return entries, nil
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	incomeCategory, _ := cmd.Flags().GetString("income-category")
	expenseCategory, _ := cmd.Flags().GetString("expense-category")

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	for _, id := range []string{incomeCategory, expenseCategory} {
		if id == "" {
			continue
		}
		if _, ok := a.store.Category(id); !ok {
			return notFound("category", id)
		}
	}

	slog.Info("Importing OFX files...", "file_count", len(files), "dry_run", dryRun)

	parser := ofx.NewParser(ofx.Options{IncomeCategoryID: incomeCategory, ExpenseCategoryID: expenseCategory})
	entries, err := parseStatements(cmd.Context(), parser, files)
	if err != nil {
		return err
	}

	state := a.store.Snapshot()
	kept, skipped := ofx.Dedupe(state.Transactions, entries)
	if len(kept) == 0 {
		printInfo(cmd, "Nothing new to import (%d duplicates skipped)", skipped)
		return nil
	}

	if dryRun {
		preview := make([]model.Transaction, len(kept))
		for i, e := range kept {
			preview[i] = e.Draft.WithID("-")
		}
		cli.TransactionsTable(cmd.OutOrStdout(), state, preview)
		printInfo(cmd, "Dry run: %d transactions from accounts %s would be imported, %d duplicates skipped",
			len(kept), strings.Join(ofx.Accounts(kept), ", "), skipped)
		return nil
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import", "Transactions imported so far have been saved.")
	ctx := handler.HandleInterrupts(cmd.Context())

	// Saves run to completion even after an interrupt.
	saveCtx := context.WithoutCancel(cmd.Context())
	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(kept), "Importing")
	imported := 0
	for _, e := range kept {
		if ctx.Err() != nil {
			break
		}
		if _, err := a.store.AddTransaction(saveCtx, e.Draft); err != nil {
			return fmt.Errorf("failed to import %q from %s: %w", e.Draft.Description, e.Draft.Date, err)
		}
		imported++
		if err := bar.Add(1); err != nil {
			slog.Debug("progress bar update failed", "error", err)
		}
	}

	if handler.WasInterrupted() {
		printInfo(cmd, "Imported %d of %d transactions before the interruption", imported, len(kept))
		return nil
	}
	printSuccess(cmd, "Imported %d transactions, %d duplicates skipped", imported, skipped)
	return nil
}
