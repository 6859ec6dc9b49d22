package core

import (
	"testing"
	"time"
)

func TestParseTransactionType(t *testing.T) {
	for _, valid := range []string{"debit", "credit", "transfer"} {
		if _, err := ParseTransactionType(valid); err != nil {
			t.Fatalf("%q expected ok, got %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "DEBIT", "expense", "withdrawal"} {
		if _, err := ParseTransactionType(invalid); err == nil {
			t.Fatalf("%q expected error", invalid)
		}
	}
}

func TestParseAccountType(t *testing.T) {
	for _, valid := range []string{"checking", "savings", "credit_card", "cash", "investment"} {
		if _, err := ParseAccountType(valid); err != nil {
			t.Fatalf("%q expected ok, got %v", valid, err)
		}
	}
	if _, err := ParseAccountType("wallet"); err == nil {
		t.Fatal("expected error for unknown account type")
	}
}

func TestParsePeriodType(t *testing.T) {
	for _, valid := range []string{"weekly", "bi-weekly", "monthly", "yearly"} {
		if _, err := ParsePeriodType(valid); err != nil {
			t.Fatalf("%q expected ok, got %v", valid, err)
		}
	}
	if _, err := ParsePeriodType("quarterly"); err == nil {
		t.Fatal("expected error for unknown period type")
	}
}

func TestTransactionValidate(t *testing.T) {
	base := Transaction{
		AccountID:  1,
		CategoryID: 2,
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		ok     bool
	}{
		{"debit with negative amount", func(tx *Transaction) {
			tx.Type = Debit
			tx.Amount = CentsOf(-5000)
		}, true},
		{"debit with zero amount", func(tx *Transaction) {
			tx.Type = Debit
			tx.Amount = CentsOf(0)
		}, true},
		{"debit with positive amount", func(tx *Transaction) {
			tx.Type = Debit
			tx.Amount = CentsOf(5000)
		}, false},
		{"credit with positive amount", func(tx *Transaction) {
			tx.Type = Credit
			tx.Amount = CentsOf(20000)
		}, true},
		{"credit with negative amount", func(tx *Transaction) {
			tx.Type = Credit
			tx.Amount = CentsOf(-20000)
		}, false},
		{"transfer with either sign", func(tx *Transaction) {
			tx.Type = Transfer
			tx.Amount = CentsOf(-1500)
		}, true},
		{"missing account", func(tx *Transaction) {
			tx.Type = Debit
			tx.Amount = CentsOf(-100)
			tx.AccountID = 0
		}, false},
		{"missing category", func(tx *Transaction) {
			tx.Type = Debit
			tx.Amount = CentsOf(-100)
			tx.CategoryID = 0
		}, false},
		{"missing date", func(tx *Transaction) {
			tx.Type = Debit
			tx.Amount = CentsOf(-100)
			tx.Date = time.Time{}
		}, false},
		{"unknown type", func(tx *Transaction) {
			tx.Type = "expense"
			tx.Amount = CentsOf(-100)
		}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := base
			tc.mutate(&tx)
			err := tx.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected error")
				}
				if !IsValidation(err) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestTransactionBalanceDelta(t *testing.T) {
	cases := []struct {
		typ    TransactionType
		amount int64
		want   int64
	}{
		{Debit, -4599, -4599},
		{Debit, 4599, -4599}, // magnitude wins for debits
		{Credit, 20000, 20000},
		{Credit, -20000, 20000},
		{Transfer, -1500, -1500},
		{Transfer, 1500, 1500},
	}
	for _, tc := range cases {
		tx := Transaction{Type: tc.typ, Amount: CentsOf(tc.amount)}
		if got := tx.BalanceDelta().Cents; got != tc.want {
			t.Fatalf("%s %d: expected delta %d, got %d", tc.typ, tc.amount, tc.want, got)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{
		CategoryID: 1,
		Name:       "Food",
		Amount:     CentsOf(20000),
		Period:     Monthly,
		StartDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	rollover := good
	rollover.Rollover = true
	if err := rollover.Validate(); err == nil {
		t.Fatal("rollover budgets must be rejected until supported")
	}

	inverted := good
	inverted.StartDate, inverted.EndDate = inverted.EndDate, inverted.StartDate
	if err := inverted.Validate(); err == nil {
		t.Fatal("expected error for inverted period")
	}
}

func TestBudgetContainsHalfOpen(t *testing.T) {
	b := Budget{
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	if !b.Contains(b.StartDate) {
		t.Fatal("start date must be included")
	}
	if b.Contains(b.EndDate) {
		t.Fatal("end date must be excluded")
	}
	if !b.Contains(time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)) {
		t.Fatal("mid-period date must be included")
	}
	if b.Contains(time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)) {
		t.Fatal("date before start must be excluded")
	}
}
