package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/storage"
)

// TransactionService is the only entry point allowed to create, update, or
// delete transaction records. Every mutation pairs the row write with exactly
// one balance adjustment inside a single atomic unit, so no partial state can
// survive a failure.
type TransactionService struct {
	store   storage.RecordStore
	ledger  *BalanceLedger
	events  *events.Client
	session core.Session
}

// TransactionUpdate carries the fields an update may change. Nil pointers
// leave the field untouched; ClearBudget detaches the transaction from its
// budget.
type TransactionUpdate struct {
	AccountID   *int64
	CategoryID  *int64
	Amount      *core.Money
	Type        *core.TransactionType
	Date        *time.Time
	Description *string
	BudgetID    *int64
	ClearBudget bool
}

func NewTransactionService(store storage.RecordStore, ledger *BalanceLedger, eventClient *events.Client, session core.Session) *TransactionService {
	return &TransactionService{
		store:   store,
		ledger:  ledger,
		events:  eventClient,
		session: session,
	}
}

// Create validates the transaction, then inserts the row and applies its
// balance effect in one atomic unit.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	var created core.Transaction
	err := s.store.Atomic(ctx, func(ctx context.Context, tx storage.RecordStore) error {
		var err error
		created, err = tx.CreateTransaction(ctx, t)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		return s.ledger.ApplyEffect(ctx, tx, created.AccountID, created.BalanceDelta())
	})
	if err != nil {
		return core.Transaction{}, &core.MutationError{Op: "create transaction", Err: err}
	}

	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", created.ID,
		"account_id", created.AccountID,
		"amount_cents", created.Amount.Cents,
		"transaction_type", string(created.Type))

	s.publish(ctx, events.OpCreate, created)
	return created, nil
}

// Update loads the existing transaction, writes the changed fields, and if
// any balance-relevant field changed, reverses the original effect on the
// original account before applying the new effect on the (possibly
// different) new account. Both writes share one atomic unit; doing them in
// any other order, or outside one unit, corrupts balances.
func (s *TransactionService) Update(ctx context.Context, transactionID int64, upd TransactionUpdate) (core.Transaction, error) {
	orig, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return core.Transaction{}, err
	}

	next := applyUpdate(orig, upd)
	if err := next.Validate(); err != nil {
		return core.Transaction{}, err
	}

	effectChanged := next.Amount != orig.Amount ||
		next.AccountID != orig.AccountID ||
		next.Type != orig.Type

	err = s.store.Atomic(ctx, func(ctx context.Context, tx storage.RecordStore) error {
		if err := tx.UpdateTransaction(ctx, next); err != nil {
			return fmt.Errorf("write transaction: %w", err)
		}
		if !effectChanged {
			return nil
		}
		if err := s.ledger.ReverseEffect(ctx, tx, orig.AccountID, orig.BalanceDelta()); err != nil {
			return fmt.Errorf("reverse original effect: %w", err)
		}
		if err := s.ledger.ApplyEffect(ctx, tx, next.AccountID, next.BalanceDelta()); err != nil {
			return fmt.Errorf("apply new effect: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Transaction{}, &core.MutationError{Op: "update transaction", Err: err}
	}

	slog.InfoContext(ctx, "Transaction updated",
		"transaction_id", next.ID,
		"account_id", next.AccountID,
		"amount_cents", next.Amount.Cents,
		"effect_changed", effectChanged)

	s.publish(ctx, events.OpUpdate, next)
	return next, nil
}

// Delete removes the row and reverses its effect on the owning account in
// one atomic unit.
func (s *TransactionService) Delete(ctx context.Context, transactionID int64) error {
	orig, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return err
	}

	err = s.store.Atomic(ctx, func(ctx context.Context, tx storage.RecordStore) error {
		if err := tx.DeleteTransaction(ctx, transactionID); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		return s.ledger.ReverseEffect(ctx, tx, orig.AccountID, orig.BalanceDelta())
	})
	if err != nil {
		return &core.MutationError{Op: "delete transaction", Err: err}
	}

	slog.InfoContext(ctx, "Transaction deleted",
		"transaction_id", transactionID,
		"account_id", orig.AccountID)

	s.publish(ctx, events.OpDelete, orig)
	return nil
}

// publish sends a ledger event after a committed mutation. Publishing is
// best-effort: the mutation already succeeded locally, so a broker failure
// is logged and swallowed rather than failing the request.
func (s *TransactionService) publish(ctx context.Context, op string, t core.Transaction) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishLedgerEvent(ctx, events.NewLedgerEvent(op, t.ID, t.AccountID, t.BudgetID)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"operation", op,
			"transaction_id", t.ID,
			"error", err)
	}
}

func applyUpdate(t core.Transaction, upd TransactionUpdate) core.Transaction {
	if upd.AccountID != nil {
		t.AccountID = *upd.AccountID
	}
	if upd.CategoryID != nil {
		t.CategoryID = *upd.CategoryID
	}
	if upd.Amount != nil {
		t.Amount = *upd.Amount
	}
	if upd.Type != nil {
		t.Type = *upd.Type
	}
	if upd.Date != nil {
		t.Date = *upd.Date
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.ClearBudget {
		t.BudgetID = nil
	} else if upd.BudgetID != nil {
		t.BudgetID = upd.BudgetID
	}
	return t
}
