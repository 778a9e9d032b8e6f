package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-budget/internal/api"
	"github.com/Veraticus/spice-budget/internal/notify"
	"github.com/Veraticus/spice-budget/internal/tui"
	"github.com/Veraticus/spice-budget/internal/tui/themes"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger over a JSON HTTP API",
		Long: `Serve the ledger over a JSON HTTP API until interrupted.

When amqp.url is configured, every change is also published as a
StateChanged message to the configured exchange.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if a.cfg.AMQP.Enabled() {
				stop, err := startNotifier(a)
				if err != nil {
					return err
				}
				defer stop()
			}

			if addr == "" {
				addr = a.cfg.API.Addr
			}
			server := api.New(a.store, api.WithLogger(slog.Default()))
			return server.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from api.addr)")
	return cmd
}

// startNotifier publishes store events to AMQP until the returned func is called.
func startNotifier(a *app) (func(), error) {
	publisher, err := notify.Dial(a.cfg.AMQP.URL, a.cfg.AMQP.Exchange)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}
	notifier := notify.NewNotifier(publisher, 0)
	detach := notifier.Attach(a.store)
	slog.Info("publishing changes", "exchange", a.cfg.AMQP.Exchange)

	return func() {
		detach()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := notifier.Close(ctx); err != nil {
			slog.Warn("failed to flush notifications", "error", err, "dropped", notifier.Dropped())
		}
		if err := publisher.Close(); err != nil {
			slog.Warn("failed to close AMQP connection", "error", err)
		}
	}, nil
}

func dashboardCmd() *cobra.Command {
	var (
		recent  int
		noColor bool
		help    bool
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Browse monthly budgets in an interactive terminal view",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			opts := []tui.Option{tui.WithRecent(recent), tui.WithHelp(help)}
			if noColor || os.Getenv("NO_COLOR") != "" {
				opts = append(opts, tui.WithTheme(themes.Mono))
			}
			return tui.Run(cmd.Context(), a.store, opts...)
		},
	}
	cmd.Flags().IntVar(&recent, "recent", tui.DefaultRecent, "transactions listed per month")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "render without colours (also set by NO_COLOR)")
	cmd.Flags().BoolVar(&help, "help-keys", false, "start with the full key help shown")
	return cmd
}
