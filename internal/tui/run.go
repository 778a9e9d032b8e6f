package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/spice-budget/internal/ledger"
)

// Subscribe forwards store events to a buffered channel for the dashboard.
// Events arriving while the buffer is full are dropped; the pending reload
// already picks up their changes.
func Subscribe(store *ledger.Store) (<-chan ledger.Event, func()) {
	changes := make(chan ledger.Event, 16)
	unsubscribe := store.Subscribe(func(ev ledger.Event) {
		select {
		case changes <- ev:
		default:
		}
	})
	return changes, unsubscribe
}

// Run shows the dashboard for store until the user quits or ctx ends.
func Run(ctx context.Context, store *ledger.Store, opts ...Option) error {
	changes, unsubscribe := Subscribe(store)
	defer unsubscribe()

	m := NewModel(store.Snapshot, changes, opts...)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
