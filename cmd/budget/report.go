package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/spice-budget/internal/chart"
	"github.com/Veraticus/spice-budget/internal/cli"
	"github.com/Veraticus/spice-budget/internal/common"
	"github.com/Veraticus/spice-budget/internal/config"
	"github.com/Veraticus/spice-budget/internal/derive"
	"github.com/Veraticus/spice-budget/internal/sheets"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Trend, breakdown and goal reports",
	}

	cmd.AddCommand(trendReportCmd())
	cmd.AddCommand(breakdownReportCmd())
	cmd.AddCommand(goalsReportCmd())
	cmd.AddCommand(chartReportCmd())
	cmd.AddCommand(sheetsReportCmd())

	return cmd
}

func trendRows(a *app, months int, all bool) []derive.TrendRow {
	txns := a.store.Snapshot().Transactions
	if all {
		return derive.MonthlyTrend(txns)
	}
	return derive.TrailingTrend(txns, a.now(), months)
}

func trendReportCmd() *cobra.Command {
	var (
		months int
		all    bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Income and expense per month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			rows := trendRows(a, months, all)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			cli.TrendTable(cmd.OutOrStdout(), a.store.Snapshot().User.Currency, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&months, "months", derive.DefaultTrendMonths, "number of trailing months")
	cmd.Flags().BoolVar(&all, "all", false, "every month with transactions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func breakdownRows(cmd *cobra.Command, a *app, month string) ([]derive.BreakdownRow, string, error) {
	key, err := resolveMonth(month, a.now())
	if err != nil {
		return nil, "", err
	}
	period, err := derive.PeriodForMonthKey(key)
	if err != nil {
		return nil, "", err
	}
	policy := derive.BudgetViewPolicy
	if completed, _ := cmd.Flags().GetBool("completed-only"); completed {
		policy = derive.AlertPolicy
	}
	return derive.ExpenseBreakdown(a.store.Snapshot(), period, policy), key, nil
}

func breakdownReportCmd() *cobra.Command {
	var (
		month  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Expenses per category for a month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			rows, key, err := breakdownRows(cmd, a, month)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			if len(rows) == 0 {
				printInfo(cmd, "No expenses recorded in %s", key)
				return nil
			}
			cli.BreakdownTable(cmd.OutOrStdout(), a.store.Snapshot().User.Currency, rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "month as YYYY-MM (default: current month)")
	cmd.Flags().Bool("completed-only", false, "ignore pending transactions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func goalsReportCmd() *cobra.Command {
	cmd := listGoalsCmd()
	cmd.Use = "goals"
	cmd.Short = "Progress toward every goal"
	return cmd
}

func chartReportCmd() *cobra.Command {
	var (
		out    string
		month  string
		months int
	)
	cmd := &cobra.Command{
		Use:       "chart <trend|breakdown>",
		Short:     "Render a report as a PNG bar chart",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"trend", "breakdown"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if out == "" {
				out = args[0] + ".png"
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			f, err := os.Create(out) //nolint:gosec // path comes from the user
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer func() {
				if closeErr := f.Close(); closeErr != nil {
					slog.Warn("failed to close chart file", "error", closeErr)
				}
			}()

			opts := chart.Options{Currency: a.store.Snapshot().User.Currency}
			switch args[0] {
			case "trend":
				err = chart.RenderTrend(f, trendRows(a, months, false), opts)
			case "breakdown":
				var rows []derive.BreakdownRow
				rows, _, err = breakdownRows(cmd, a, month)
				if err == nil {
					err = chart.RenderBreakdown(f, rows, opts)
				}
			default:
				err = fmt.Errorf("unknown chart %q, want trend or breakdown", args[0])
			}
			if err != nil {
				return err
			}
			printSuccess(cmd, "%s Chart written to %s", cli.ChartIcon, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: <kind>.png)")
	cmd.Flags().StringVarP(&month, "month", "m", "", "month for the breakdown chart")
	cmd.Flags().IntVar(&months, "months", derive.DefaultTrendMonths, "months in the trend chart")
	cmd.Flags().Bool("completed-only", false, "ignore pending transactions")
	return cmd
}

// newReportWriter is replaced in tests.
var newReportWriter = func(cmd *cobra.Command, cfg sheets.Config) (sheets.ReportWriter, error) {
	return sheets.NewWriter(cmd.Context(), cfg, slog.Default())
}

func sheetsReportCmd() *cobra.Command {
	var (
		months int
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Write this month's report to Google Sheets",
		Long: `Write the monthly report to a Google Sheets spreadsheet.

Credentials come from sheets.* config keys or the GOOGLE_SHEETS_* environment
variables: either a service account file, or an OAuth client with a refresh token.
Run "budget report sheets auth" once to obtain the refresh token.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			report := sheets.BuildReport(a.store.Snapshot(), a.now(), months)
			if dryRun {
				mem := sheets.NewMemoryWriter()
				if err := mem.Write(cmd.Context(), report); err != nil {
					return err
				}
				printInfo(cmd, "Dry run: report for %s has %d transactions, %d trend months and %d goals; nothing was sent",
					report.Month, len(report.Transactions), len(report.Trend), len(report.Goals))
				return nil
			}

			sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
			if err != nil {
				return err
			}
			writer, err := newReportWriter(cmd, *sheetsCfg)
			if err != nil {
				return fmt.Errorf("failed to connect to Google Sheets: %w", err)
			}
			if err := writer.Write(cmd.Context(), report); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			printSuccess(cmd, "Report for %s written to %q", report.Month, sheetsCfg.SpreadsheetName)
			return nil
		},
	}
	cmd.Flags().IntVar(&months, "months", sheets.DefaultTrendMonths, "months in the trend sheet")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "build the report without contacting Google")
	cmd.AddCommand(sheetsAuthCmd())
	return cmd
}

func sheetsAuthCmd() *cobra.Command {
	var clientID, clientSecret, tokenFile string
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google Sheets access with OAuth2",
		Long: `Authorize Google Sheets access through the browser.

The token is cached in the token file and reused on later runs. Copy the
printed refresh token into sheets.refresh_token to enable "budget report sheets".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id := firstNonEmpty(clientID, viper.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
			secret := firstNonEmpty(clientSecret, viper.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
			if id == "" || secret == "" {
				return common.NewUserError(
					"OAuth2 credentials not found. Set sheets.client_id and sheets.client_secret or pass --client-id and --client-secret.",
					fmt.Errorf("%w: sheets.client_id and sheets.client_secret", common.ErrMissingConfig),
				)
			}

			slog.Info("starting Google Sheets authorization", "token_file", tokenFile)
			token, err := sheets.GetOrCreateToken(cmd.Context(), sheets.OAuth2Config{
				ClientID:     id,
				ClientSecret: secret,
				TokenFile:    config.ExpandPath(tokenFile),
				Prompt:       cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("authorization failed: %w", err)
			}
			if token.RefreshToken == "" {
				return fmt.Errorf("authorization returned no refresh token")
			}

			printSuccess(cmd, "Google Sheets authorized")
			cmd.Printf("sheets:\n  refresh_token: %q\n", token.RefreshToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 client ID")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 client secret")
	cmd.Flags().StringVar(&tokenFile, "token-file", filepath.Join(config.ConfigDir(), "sheets-token.json"), "where the token is cached")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
