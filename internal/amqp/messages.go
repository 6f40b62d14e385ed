package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"tracker/internal/core"
)

// EventType names a change to the expense store.
type EventType string

const (
	ExpenseCreated EventType = "expense.created"
	ExpenseUpdated EventType = "expense.updated"
	ExpenseDeleted EventType = "expense.deleted"
)

// ExpensePayload is the wire form of an expense.
type ExpensePayload struct {
	ID          int64      `json:"id"`
	Date        string     `json:"date"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
}

// ExpenseEvent is published after a successful store mutation.
type ExpenseEvent struct {
	EventID   string          `json:"event_id"`
	Type      EventType       `json:"type"`
	ExpenseID int64           `json:"expense_id"`
	Expense   *ExpensePayload `json:"expense,omitempty"`
	// Renumbered is the number of expenses whose id shifted down by one
	// after a delete.
	Renumbered int       `json:"renumbered,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewExpenseEvent creates an event with a fresh id. e may be nil for deletes.
func NewExpenseEvent(t EventType, id int64, e *core.Expense) *ExpenseEvent {
	ev := &ExpenseEvent{
		EventID:   uuid.NewString(),
		Type:      t,
		ExpenseID: id,
		Timestamp: time.Now().UTC(),
	}
	if e != nil {
		ev.Expense = &ExpensePayload{
			ID:          e.ID,
			Date:        e.Date.String(),
			Category:    e.Category,
			Description: e.Description,
			Amount:      e.Amount,
		}
	}
	return ev
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON creates a message from JSON bytes
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
