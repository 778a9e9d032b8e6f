// Package notify publishes budget change notifications to an AMQP exchange.
package notify

import (
	"encoding/json"
	"time"

	"github.com/Veraticus/spice-budget/internal/ledger"
)

// StateChanged announces one applied mutation. It carries no amounts; consumers
// fetch the state they need.
type StateChanged struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Entity    string    `json:"entity"`
	ID        string    `json:"id,omitempty"`
	Count     int       `json:"count,omitempty"`
}

// FromEvent converts a store event into a message.
func FromEvent(ev ledger.Event) StateChanged {
	return StateChanged{
		Timestamp: ev.At,
		Kind:      string(ev.Kind),
		Entity:    string(ev.Entity),
		ID:        ev.ID,
		Count:     ev.Count,
	}
}

// RoutingKey is entity.kind, for example "transaction.added".
func (m StateChanged) RoutingKey() string {
	return m.Entity + "." + m.Kind
}

// ToJSON converts the message to JSON bytes.
func (m StateChanged) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// StateChangedFromJSON decodes a message.
func StateChangedFromJSON(data []byte) (StateChanged, error) {
	var msg StateChanged
	if err := json.Unmarshal(data, &msg); err != nil {
		return StateChanged{}, err
	}
	return msg, nil
}
