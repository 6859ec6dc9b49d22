package core

import (
	"strings"
	"time"
)

const (
	Checking   AccountType = "checking"
	Savings    AccountType = "savings"
	CreditCard AccountType = "credit_card"
	Cash       AccountType = "cash"
	Investment AccountType = "investment"
)

const (
	Debit    TransactionType = "debit"
	Credit   TransactionType = "credit"
	Transfer TransactionType = "transfer"
)

const (
	Weekly   PeriodType = "weekly"
	BiWeekly PeriodType = "bi-weekly"
	Monthly  PeriodType = "monthly"
	Yearly   PeriodType = "yearly"
)

type (
	AccountType     string
	TransactionType string
	PeriodType      string

	// Session identifies the user the services act for. It is injected
	// explicitly instead of being read from ambient state.
	Session struct {
		UserID int64
	}

	Account struct {
		ID        int64
		UserID    int64
		Name      string
		Type      AccountType
		Balance   Money
		Currency  string
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	Category struct {
		ID       int64
		UserID   int64
		Name     string
		IsIncome bool
	}

	Transaction struct {
		ID                  int64
		AccountID           int64
		CategoryID          int64
		Date                time.Time
		Amount              Money
		Type                TransactionType
		Description         string
		BudgetID            *int64
		LinkedTransactionID *int64
		CreatedAt           time.Time
		UpdatedAt           time.Time
	}

	Budget struct {
		ID         int64
		UserID     int64
		CategoryID int64
		Name       string
		Amount     Money
		Period     PeriodType
		StartDate  time.Time
		EndDate    time.Time
		Rollover   bool
	}

	SavingsGoal struct {
		ID            int64
		UserID        int64
		Name          string
		TargetAmount  Money
		CurrentAmount Money
		TargetDate    *time.Time
	}

	SavingsContribution struct {
		ID            int64
		GoalID        int64
		AccountID     int64
		TransactionID *int64
		Amount        Money
		Date          time.Time
	}
)

// ParseAccountType converts a stored string into an AccountType, rejecting
// values outside the closed set.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t AccountType) Validate() error {
	switch t {
	case Checking, Savings, CreditCard, Cash, Investment:
		return nil
	default:
		return &ValidationError{Field: "accountType", Reason: "unknown account type " + string(t)}
	}
}

// ParseTransactionType converts a stored string into a TransactionType,
// rejecting values outside the closed set.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t TransactionType) Validate() error {
	switch t {
	case Debit, Credit, Transfer:
		return nil
	default:
		return &ValidationError{Field: "transactionType", Reason: "unknown transaction type " + string(t)}
	}
}

// ParsePeriodType converts a stored string into a PeriodType, rejecting
// values outside the closed set.
func ParsePeriodType(s string) (PeriodType, error) {
	t := PeriodType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t PeriodType) Validate() error {
	switch t {
	case Weekly, BiWeekly, Monthly, Yearly:
		return nil
	default:
		return &ValidationError{Field: "periodType", Reason: "unknown period type " + string(t)}
	}
}

func (a Account) Validate() error {
	if err := a.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(a.Name) == "" {
		return &ValidationError{Field: "accountName", Reason: "account name is required"}
	}
	if strings.TrimSpace(a.Currency) == "" {
		return &ValidationError{Field: "currency", Reason: "currency is required"}
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "categoryName", Reason: "category name is required"}
	}
	return nil
}

// Validate checks structural requirements and the sign/type agreement:
// a debit amount must not be positive, a credit amount must not be negative.
// Transfer legs keep the sign they were recorded with.
func (t Transaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.AccountID == 0 {
		return &ValidationError{Field: "accountId", Reason: "account is required"}
	}
	if t.CategoryID == 0 {
		return &ValidationError{Field: "categoryId", Reason: "category is required"}
	}
	if t.Date.IsZero() {
		return &ValidationError{Field: "transactionDate", Reason: "date is required"}
	}
	switch t.Type {
	case Debit:
		if t.Amount.Cents > 0 {
			return &ValidationError{Field: "amount", Reason: "debit amount must not be positive"}
		}
	case Credit:
		if t.Amount.Cents < 0 {
			return &ValidationError{Field: "amount", Reason: "credit amount must not be negative"}
		}
	}
	return nil
}

// BalanceDelta returns the signed effect this transaction has on its
// account's balance: debits subtract their magnitude, credits add it, and
// transfer legs apply their stored signed amount directly.
func (t Transaction) BalanceDelta() Money {
	switch t.Type {
	case Debit:
		return t.Amount.Abs().Neg()
	case Credit:
		return t.Amount.Abs()
	default:
		return t.Amount
	}
}

func (b Budget) Validate() error {
	if err := b.Period.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(b.Name) == "" {
		return &ValidationError{Field: "budgetName", Reason: "budget name is required"}
	}
	if b.CategoryID == 0 {
		return &ValidationError{Field: "categoryId", Reason: "category is required"}
	}
	if b.Amount.Cents < 0 {
		return &ValidationError{Field: "budgetAmount", Reason: "budget amount must not be negative"}
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return &ValidationError{Field: "period", Reason: "start and end dates are required"}
	}
	if !b.EndDate.After(b.StartDate) {
		return &ValidationError{Field: "period", Reason: "end date must be after start date"}
	}
	if b.Rollover {
		// Carrying unspent amounts into the next period is not implemented.
		// Reject the flag instead of silently ignoring it.
		return &ValidationError{Field: "rollover", Reason: "rollover budgets are not supported yet"}
	}
	return nil
}

// Contains reports whether ts falls inside the budget's half-open period
// window [StartDate, EndDate).
func (b Budget) Contains(ts time.Time) bool {
	return !ts.Before(b.StartDate) && ts.Before(b.EndDate)
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return &ValidationError{Field: "goalName", Reason: "goal name is required"}
	}
	if g.TargetAmount.Cents <= 0 {
		return &ValidationError{Field: "targetAmount", Reason: "target amount must be positive"}
	}
	return nil
}
