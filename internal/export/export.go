// Package export writes and reads full budget backups as JSON documents.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/spice-budget/internal/model"
)

// FilenamePrefix starts every backup file name.
const FilenamePrefix = "budget-backup-"

// ErrEmptyBackup is returned when a backup document has no content.
var ErrEmptyBackup = errors.New("backup is empty")

// Filename returns the backup file name for the given day.
func Filename(now time.Time) string {
	return FilenamePrefix + now.Format(model.DateLayout) + ".json"
}

// WriteJSON encodes the full state as indented JSON.
func WriteJSON(w io.Writer, state model.AppState) error {
	state = state.Clone()
	state.Normalize()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// ReadJSON decodes a backup and checks its shape. Unknown fields are rejected
// so that a document of some other kind is not mistaken for a backup.
func ReadJSON(r io.Reader) (model.AppState, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var state model.AppState
	if err := dec.Decode(&state); err != nil {
		if errors.Is(err, io.EOF) {
			return model.AppState{}, ErrEmptyBackup
		}
		return model.AppState{}, fmt.Errorf("failed to decode backup: %w", err)
	}
	if err := state.Validate(); err != nil {
		return model.AppState{}, err
	}
	state.Normalize()
	return state, nil
}

// WriteFile writes a backup named by Filename into dir and returns its path.
func WriteFile(dir string, now time.Time, state model.AppState) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path := filepath.Join(dir, Filename(now))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	if err := WriteJSON(f, state); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close backup file: %w", err)
	}
	return path, nil
}

// ReadFile reads and validates the backup at path.
func ReadFile(path string) (model.AppState, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user
	if err != nil {
		return model.AppState{}, fmt.Errorf("failed to open backup: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadJSON(f)
}
