package ledger

import (
	"errors"
	"fmt"
)

// ErrPersist wraps every failure to write the snapshot after a mutation.
// The in-memory state keeps the mutation when it is returned.
var ErrPersist = errors.New("failed to persist snapshot")

// ErrCorruptSnapshot reports a persisted snapshot that could not be read and
// was replaced by the default snapshot. The original data is lost.
type ErrCorruptSnapshot struct {
	Err error
	Key string
}

func (e *ErrCorruptSnapshot) Error() string {
	return fmt.Sprintf("snapshot %q is unreadable and was replaced with defaults: %v", e.Key, e.Err)
}

func (e *ErrCorruptSnapshot) Unwrap() error {
	return e.Err
}
