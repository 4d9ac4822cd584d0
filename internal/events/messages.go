package events

import (
	"encoding/json"
	"time"
)

// Entity names carried on record-change messages.
const (
	EntityTransaction = "transaction"
	EntityBudget      = "budget"
)

// Operations carried on record-change messages.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// RecordChange is a lightweight notification that a record changed. It only
// carries the identifier; consumers fetch the current state from the store.
type RecordChange struct {
	Entity    string    `json:"entity"`
	Op        string    `json:"op"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordChange builds a change message stamped with the current time.
func NewRecordChange(entity, op, id string) *RecordChange {
	return &RecordChange{
		Entity:    entity,
		Op:        op,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *RecordChange) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordChangeFromJSON creates a message from JSON bytes.
func RecordChangeFromJSON(data []byte) (*RecordChange, error) {
	var msg RecordChange
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
