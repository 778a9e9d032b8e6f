package tui

import (
	"github.com/Veraticus/spice-budget/internal/ledger"
	"github.com/Veraticus/spice-budget/internal/model"
)

type stateLoadedMsg struct {
	state model.AppState
}

// stateChangedMsg is sent when the store reports a mutation.
type stateChangedMsg struct {
	event ledger.Event
}
