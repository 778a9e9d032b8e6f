// Package idgen produces short opaque identifiers for ledger entities.
package idgen

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Length is the number of base-36 characters in a generated id.
const Length = 9

// Generator allocates identifiers for new entities.
type Generator interface {
	NewID() string
}

// Random renders 122 random bits of a v4 UUID in base 36.
// Collisions within one ledger are practically impossible at household volumes.
type Random struct{}

// NewID returns a random base-36 token of Length characters.
func (Random) NewID() string {
	u := uuid.New()
	n := new(big.Int).SetBytes(u[:])
	s := n.Text(36)
	if len(s) < Length {
		s = strings.Repeat("0", Length-len(s)) + s
	}
	return s[len(s)-Length:]
}

// Default is the generator used when none is configured.
var Default Generator = Random{}

// Sequence hands out deterministic ids: prefix followed by a counter.
type Sequence struct {
	Prefix string
	mu     sync.Mutex
	next   int
}

// NewSequence returns a sequence starting at 1.
func NewSequence(prefix string) *Sequence {
	return &Sequence{Prefix: prefix}
}

// NewID returns the next id of the sequence.
func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("%s%d", s.Prefix, s.next)
}

// Func adapts a plain function to Generator.
type Func func() string

// NewID calls f.
func (f Func) NewID() string {
	return f()
}
