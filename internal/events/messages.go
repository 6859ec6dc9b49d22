package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Mutation operations carried by ledger events.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// LedgerEvent is a lightweight message published after a committed
// transaction mutation. Consumers fetch current state from the database;
// the event only says what moved.
type LedgerEvent struct {
	CorrelationID string    `json:"correlation_id"`
	Op            string    `json:"op"`
	TransactionID int64     `json:"transaction_id"`
	AccountID     int64     `json:"account_id"`
	BudgetID      *int64    `json:"budget_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerEvent builds an event with a fresh correlation id.
func NewLedgerEvent(op string, transactionID, accountID int64, budgetID *int64) *LedgerEvent {
	return &LedgerEvent{
		CorrelationID: uuid.NewString(),
		Op:            op,
		TransactionID: transactionID,
		AccountID:     accountID,
		BudgetID:      budgetID,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON parses an event from JSON bytes.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
