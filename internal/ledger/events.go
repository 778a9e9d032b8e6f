package ledger

import (
	"sync"
	"time"
)

// EventKind names the mutation that produced an Event.
type EventKind string

// Event kinds.
const (
	EventAdded    EventKind = "added"
	EventUpdated  EventKind = "updated"
	EventDeleted  EventKind = "deleted"
	EventReplaced EventKind = "replaced"
)

// Entity names the part of the state an Event touched.
type Entity string

// Entities.
const (
	EntityTransaction Entity = "transaction"
	EntityCategory    Entity = "category"
	EntityGoal        Entity = "goal"
	EntityUser        Entity = "user"
	EntitySettings    Entity = "settings"
	EntityState       Entity = "state"
)

// Event describes one applied mutation.
type Event struct {
	At     time.Time `json:"at"`
	Kind   EventKind `json:"kind"`
	Entity Entity    `json:"entity"`
	ID     string    `json:"id,omitempty"`
	// Count is set for batch additions, which carry no single ID.
	Count int `json:"count,omitempty"`
}

type subscribers struct {
	fns  map[int]func(Event)
	mu   sync.Mutex
	next int
}

func (s *subscribers) add(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func(Event))
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.fns, id)
	}
}

func (s *subscribers) snapshot() []func(Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]func(Event), 0, len(s.fns))
	for i := 0; i < s.next; i++ {
		if fn, ok := s.fns[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}
