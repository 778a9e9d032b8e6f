package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-budget/internal/cli"
	"github.com/Veraticus/spice-budget/internal/common"
	"github.com/Veraticus/spice-budget/internal/derive"
	"github.com/Veraticus/spice-budget/internal/model"
)

func ptr[T any](v T) *T {
	return &v
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", model.ErrInvalidInput, s)
	}
	return d, nil
}

// resolveDate accepts an ISO date, "today" or "yesterday". Empty means today.
func resolveDate(s string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now.Format(model.DateLayout), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(model.DateLayout), nil
	}
	if _, err := time.Parse(model.DateLayout, s); err != nil {
		return "", fmt.Errorf("%w: date %q must be YYYY-MM-DD", model.ErrInvalidInput, s)
	}
	return s, nil
}

// resolveMonth validates a YYYY-MM key. Empty means the month of now.
func resolveMonth(s string, now time.Time) (string, error) {
	if s == "" {
		return derive.MonthKey(now), nil
	}
	if _, err := derive.ParseMonthKey(s); err != nil {
		return "", fmt.Errorf("%w: month %q must be YYYY-MM", model.ErrInvalidInput, s)
	}
	return s, nil
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %q", common.ErrNotFound, kind, id)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// confirm asks before a destructive change unless --yes was given.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}
	reader := cli.NewLineReader(cmd.InOrStdin())
	return cli.Confirm(cmd.Context(), reader, cmd.OutOrStdout(), question)
}

func printSuccess(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(format, args...)))
}

func printInfo(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf(format, args...)))
}
