// Package ledger owns the authoritative budget state and persists it after every mutation.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Veraticus/spice-budget/internal/idgen"
	"github.com/Veraticus/spice-budget/internal/model"
	"github.com/Veraticus/spice-budget/internal/seed"
	"github.com/Veraticus/spice-budget/internal/storage"
)

// StateKey is the blob key the snapshot is stored under.
const StateKey = "budget_state"

// maxIDAttempts bounds the retries when a generated id is already taken.
const maxIDAttempts = 16

// Store is the single owner of the budget state.
// Readers receive deep copies; every mutation writes the whole snapshot back.
type Store struct {
	blobs       storage.BlobStore
	gen         idgen.Generator
	now         func() time.Time
	loadWarning error
	saveErr     error
	key         string
	state       model.AppState
	subs        subscribers
	mu          sync.RWMutex
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the random id generator.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(s *Store) { s.gen = gen }
}

// WithClock replaces time.Now for seeding and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithKey stores the snapshot under a key other than StateKey.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// Open loads the snapshot from blobs. When none exists, or the stored one
// cannot be decoded, the default snapshot is used and saved immediately.
// A replaced corrupt snapshot is reported by LoadWarning and a failed save of
// the defaults by SaveError; only a failed load is returned as an error.
func Open(ctx context.Context, blobs storage.BlobStore, opts ...Option) (*Store, error) {
	s := &Store{
		blobs: blobs,
		gen:   idgen.Default,
		now:   time.Now,
		key:   StateKey,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := blobs.Load(ctx, s.key)
	switch {
	case errors.Is(err, storage.ErrBlobNotFound):
		slog.Info("no saved budget found, starting from defaults", "key", s.key)
		return s.bootstrap(ctx), nil
	case errors.Is(err, storage.ErrCorruptBlob):
		s.loadWarning = &ErrCorruptSnapshot{Key: s.key, Err: err}
		slog.Warn("saved budget failed integrity check, starting from defaults", "key", s.key, "error", err)
		return s.bootstrap(ctx), nil
	case err != nil:
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	state, err := decodeSnapshot(data)
	if err != nil {
		s.loadWarning = &ErrCorruptSnapshot{Key: s.key, Err: err}
		slog.Warn("saved budget is unreadable, starting from defaults", "key", s.key, "error", err)
		return s.bootstrap(ctx), nil
	}
	s.state = state

	slog.Debug("loaded budget snapshot",
		"transactions", len(state.Transactions),
		"categories", len(state.Categories),
		"goals", len(state.Goals))
	return s, nil
}

// decodeSnapshot parses a stored snapshot. A document without a user or
// settings object, or whose user and settings are out of range, is not a budget.
func decodeSnapshot(data []byte) (model.AppState, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return model.AppState{}, err
	}
	for _, name := range []string{"user", "settings"} {
		if raw, ok := fields[name]; !ok || string(raw) == "null" {
			return model.AppState{}, fmt.Errorf("%w: missing %s", model.ErrInvalidState, name)
		}
	}

	var state model.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.AppState{}, err
	}
	header := model.AppState{User: state.User, Settings: state.Settings}
	if err := header.Validate(); err != nil {
		return model.AppState{}, err
	}
	state.Normalize()
	return state, nil
}

// bootstrap installs the default snapshot. A failed first save is kept in
// SaveError; the seeded state is used regardless.
func (s *Store) bootstrap(ctx context.Context) *Store {
	s.state = seed.DefaultSnapshot(s.now(), s.gen)
	s.saveErr = s.persistLocked(ctx)
	return s
}

// LoadWarning returns an *ErrCorruptSnapshot when Open discarded unreadable data.
func (s *Store) LoadWarning() error {
	return s.loadWarning
}

// SaveError returns the error of the most recent save, wrapping ErrPersist,
// or nil when it succeeded.
func (s *Store) SaveError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveErr
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() model.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe registers fn to run after every applied mutation.
// fn runs synchronously on the mutating goroutine, after the lock is released.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Event)) func() {
	return s.subs.add(fn)
}

// Replace swaps the whole state for a validated external snapshot.
func (s *Store) Replace(ctx context.Context, state model.AppState) error {
	if err := state.Validate(); err != nil {
		return err
	}
	state = state.Clone()
	state.Normalize()

	return s.mutate(ctx, Event{Kind: EventReplaced, Entity: EntityState}, func(*Event) bool {
		s.state = state
		return true
	})
}

// mutate applies fn under the write lock and persists when fn reports a change.
// Subscribers are notified for every applied change, including ones whose
// persistence failed, since the in-memory state moved either way.
func (s *Store) mutate(ctx context.Context, ev Event, fn func(ev *Event) bool) error {
	s.mu.Lock()
	if !fn(&ev) {
		s.mu.Unlock()
		return nil
	}
	err := s.persistLocked(ctx)
	s.saveErr = err
	s.mu.Unlock()

	ev.At = s.now()
	for _, sub := range s.subs.snapshot() {
		sub(ev)
	}
	return err
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.blobs.Save(ctx, s.key, data); err != nil {
		slog.Error("failed to persist budget snapshot", "key", s.key, "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// newIDLocked draws ids until one is not taken.
func (s *Store) newIDLocked(taken func(string) bool) string {
	id := s.gen.NewID()
	for i := 1; i < maxIDAttempts && taken(id); i++ {
		id = s.gen.NewID()
	}
	return id
}

func indexByID[T any](items []T, id string, idOf func(T) string) int {
	return slices.IndexFunc(items, func(item T) bool { return idOf(item) == id })
}

func hasID[T any](items []T, idOf func(T) string) func(string) bool {
	return func(id string) bool { return indexByID(items, id, idOf) >= 0 }
}
