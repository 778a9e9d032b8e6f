package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-budget/internal/config"
	"github.com/Veraticus/spice-budget/internal/export"
)

func exportCmd() *cobra.Command {
	var (
		dir    string
		stdout bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of the whole ledger",
		Long: `Write the whole ledger to a dated JSON backup file, or to standard output
with --stdout. Backups can be restored with 'budget import json'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			state := a.store.Snapshot()
			if stdout {
				return export.WriteJSON(cmd.OutOrStdout(), state)
			}
			if dir == "" {
				dir = filepath.Join(config.DataDir(), "backups")
			}
			path, err := export.WriteFile(config.ExpandPath(dir), a.now(), state)
			if err != nil {
				return err
			}
			printSuccess(cmd, "Backup written to %s", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "backup directory (default: data dir/backups)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "write the backup to standard output")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Restore a backup or import bank statements",
	}
	cmd.AddCommand(importJSONCmd())
	cmd.AddCommand(importOFXCmd())
	return cmd
}

func importJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json <file>",
		Short: "Replace the ledger with a JSON backup",
		Long: `Replace the whole ledger with the contents of a backup written by
'budget export'. The file is validated before anything is changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := export.ReadFile(config.ExpandPath(args[0]))
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			current := a.store.Snapshot()
			question := fmt.Sprintf("Replace %d transactions, %d categories and %d goals with the backup's %d, %d and %d?",
				len(current.Transactions), len(current.Categories), len(current.Goals),
				len(state.Transactions), len(state.Categories), len(state.Goals))
			ok, err := confirm(cmd, question)
			if err != nil || !ok {
				return err
			}

			if err := a.store.Replace(cmd.Context(), state); err != nil {
				return err
			}
			printSuccess(cmd, "Ledger restored from %s", args[0])
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	return cmd
}
