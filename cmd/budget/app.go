package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/spice-budget/internal/cli"
	"github.com/Veraticus/spice-budget/internal/common"
	"github.com/Veraticus/spice-budget/internal/config"
	"github.com/Veraticus/spice-budget/internal/ledger"
	"github.com/Veraticus/spice-budget/internal/storage"
)

// app bundles what a command needs once configuration is loaded.
type app struct {
	store *ledger.Store
	blobs storage.BlobStore
	now   func() time.Time
	cfg   config.Config
}

// openApp loads the configuration and opens the ledger it points at.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if ephemeral {
		cfg.Storage.Backend = storage.BackendMemory
	}

	blobs, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, common.NewUserError(
			fmt.Sprintf("Could not open the %s budget storage; check the storage.* settings", cfg.Storage.Backend),
			err)
	}

	store, err := ledger.Open(ctx, blobs)
	if err != nil {
		if closeErr := blobs.Close(); closeErr != nil {
			slog.Warn("failed to close storage", "error", closeErr)
		}
		return nil, err
	}
	if warning := store.LoadWarning(); warning != nil {
		fmt.Fprintln(os.Stderr, cli.FormatWarning("Saved budget was unreadable and has been replaced by the defaults"))
		slog.Debug("load warning", "error", warning)
	}
	if err := store.SaveError(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatWarning("Could not save the budget; changes are kept in memory only until a save succeeds"))
	}

	return &app{store: store, blobs: blobs, now: time.Now, cfg: cfg}, nil
}

// Close releases the storage backend.
func (a *app) Close() {
	if err := a.blobs.Close(); err != nil {
		slog.Warn("failed to close storage", "error", err)
	}
}
