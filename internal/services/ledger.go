// Package services holds the ledger consistency core: the balance ledger,
// the transaction mutation service, and the budget aggregator.
package services

import (
	"context"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// BalanceLedger maintains the invariant that an account's stored balance
// equals its initial balance plus the signed effect of every active
// transaction. It only ever runs inside the caller's atomic unit and writes
// nothing but account balances.
type BalanceLedger struct{}

func NewBalanceLedger() *BalanceLedger {
	return &BalanceLedger{}
}

// ApplyEffect adds delta to the account's stored balance. No sufficient-funds
// check is made: accounts may go negative, which is how credit accounts work.
func (l *BalanceLedger) ApplyEffect(ctx context.Context, store storage.RecordStore, accountID int64, delta core.Money) error {
	if err := store.AdjustBalance(ctx, accountID, delta); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Balance effect applied",
		"account_id", accountID,
		"delta_cents", delta.Cents)
	return nil
}

// ReverseEffect undoes a previously applied effect. Used when a transaction
// is deleted, and before re-applying during an edit.
func (l *BalanceLedger) ReverseEffect(ctx context.Context, store storage.RecordStore, accountID int64, delta core.Money) error {
	return l.ApplyEffect(ctx, store, accountID, delta.Neg())
}
