package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func seedAccount(t *testing.T, s *Store, balance int64) core.Account {
	t.Helper()
	a, err := s.CreateAccount(context.Background(), core.Account{
		UserID:   1,
		Name:     "Checking",
		Type:     core.Checking,
		Balance:  core.CentsOf(balance),
		Currency: "EUR",
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return a
}

func seedCategory(t *testing.T, s *Store, name string) core.Category {
	t.Helper()
	c, err := s.CreateCategory(context.Background(), core.Category{UserID: 1, Name: name})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return c
}

func TestAtomicCommits(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := seedAccount(t, s, 10000)

	err := s.Atomic(ctx, func(ctx context.Context, tx storage.RecordStore) error {
		return tx.AdjustBalance(ctx, a.ID, core.CentsOf(-2500))
	})
	if err != nil {
		t.Fatalf("atomic unit failed: %v", err)
	}

	got, err := s.GetAccount(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Balance.Cents != 7500 {
		t.Errorf("expected balance 7500, got %d", got.Balance.Cents)
	}
}

func TestAtomicRollsBackAllWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := seedAccount(t, s, 10000)
	c := seedCategory(t, s, "Food")

	boom := errors.New("boom")
	err := s.Atomic(ctx, func(ctx context.Context, tx storage.RecordStore) error {
		if _, err := tx.CreateTransaction(ctx, core.Transaction{
			AccountID:  a.ID,
			CategoryID: c.ID,
			Date:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Amount:     core.CentsOf(-500),
			Type:       core.Debit,
		}); err != nil {
			return err
		}
		if err := tx.AdjustBalance(ctx, a.ID, core.CentsOf(-500)); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, err := s.GetAccount(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Balance.Cents != 10000 {
		t.Errorf("expected balance untouched at 10000, got %d", got.Balance.Cents)
	}
	rows, err := s.ListTransactions(ctx, storage.TransactionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no transactions after rollback, got %d", len(rows))
	}
}

func TestNestedAtomicJoinsOuterUnit(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := seedAccount(t, s, 0)

	boom := errors.New("boom")
	err := s.Atomic(ctx, func(ctx context.Context, outer storage.RecordStore) error {
		if err := outer.AdjustBalance(ctx, a.ID, core.CentsOf(100)); err != nil {
			return err
		}
		// The inner unit commits relative to itself, but it joined the outer
		// unit, so the outer failure must still discard its write.
		if err := outer.Atomic(ctx, func(ctx context.Context, inner storage.RecordStore) error {
			return inner.AdjustBalance(ctx, a.ID, core.CentsOf(100))
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, err := s.GetAccount(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Balance.Cents != 0 {
		t.Errorf("expected balance 0 after outer rollback, got %d", got.Balance.Cents)
	}
}

func TestFailAfterWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := seedAccount(t, s, 0)

	s.FailAfterWrites(1)

	if err := s.AdjustBalance(ctx, a.ID, core.CentsOf(100)); err != nil {
		t.Fatalf("first write should pass the fault budget: %v", err)
	}
	if err := s.AdjustBalance(ctx, a.ID, core.CentsOf(100)); !errors.Is(err, ErrInjected) {
		t.Fatalf("expected ErrInjected on second write, got %v", err)
	}

	s.DisarmFaults()
	if err := s.AdjustBalance(ctx, a.ID, core.CentsOf(100)); err != nil {
		t.Fatalf("writes should succeed after disarm: %v", err)
	}
}

func TestGetAccountNotFound(t *testing.T) {
	s := New()
	_, err := s.GetAccount(context.Background(), 42)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCategoryGuard(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := seedAccount(t, s, 0)
	c := seedCategory(t, s, "Food")

	if _, err := s.CreateTransaction(ctx, core.Transaction{
		AccountID:  a.ID,
		CategoryID: c.ID,
		Date:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:     core.CentsOf(-500),
		Type:       core.Debit,
	}); err != nil {
		t.Fatal(err)
	}

	err := s.DeleteCategory(ctx, c.ID)
	if !core.IsValidation(err) {
		t.Fatalf("expected validation error for referenced category, got %v", err)
	}

	unused := seedCategory(t, s, "Misc")
	if err := s.DeleteCategory(ctx, unused.ID); err != nil {
		t.Fatalf("expected unreferenced category to delete, got %v", err)
	}
}

func TestListTransactionsFilter(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := seedAccount(t, s, 0)
	b := seedAccount(t, s, 0)
	c := seedCategory(t, s, "Food")

	mk := func(accountID int64, cents int64, typ core.TransactionType, day int) core.Transaction {
		tx, err := s.CreateTransaction(ctx, core.Transaction{
			AccountID:  accountID,
			CategoryID: c.ID,
			Date:       time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
			Amount:     core.CentsOf(cents),
			Type:       typ,
		})
		if err != nil {
			t.Fatal(err)
		}
		return tx
	}

	mk(a.ID, -100, core.Debit, 1)
	mk(a.ID, -200, core.Debit, 5)
	mk(a.ID, 300, core.Credit, 10)
	mk(b.ID, -400, core.Debit, 5)

	debit := core.Debit
	got, err := s.ListTransactions(ctx, storage.TransactionFilter{
		AccountID: &a.ID,
		Type:      &debit,
		From:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Amount.Cents != -200 {
		t.Fatalf("expected single -200 debit, got %+v", got)
	}

	sum, err := s.SumAbsoluteAmounts(ctx, storage.TransactionFilter{AccountID: &a.ID, Type: &debit})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Cents != 300 {
		t.Errorf("expected |sum| 300, got %d", sum.Cents)
	}
}

func TestListTransactionsOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := seedAccount(t, s, 0)
	c := seedCategory(t, s, "Food")

	for day := 1; day <= 3; day++ {
		if _, err := s.CreateTransaction(ctx, core.Transaction{
			AccountID:  a.ID,
			CategoryID: c.ID,
			Date:       time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
			Amount:     core.CentsOf(-100),
			Type:       core.Debit,
		}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListTransactions(ctx, storage.TransactionFilter{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if !got[0].Date.After(got[1].Date) {
		t.Errorf("expected newest first, got %v then %v", got[0].Date, got[1].Date)
	}
}
