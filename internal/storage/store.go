// Package storage defines the record-store contract the ledger core depends
// on, together with its SQLite implementation.
package storage

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// TransactionFilter narrows ListTransactions and SumAbsoluteAmounts.
// Nil pointer fields are ignored. From/To form a half-open window
// [From, To); either side may be zero to leave that side unbounded.
type TransactionFilter struct {
	AccountID  *int64
	CategoryID *int64
	BudgetID   *int64
	Type       *core.TransactionType
	From       time.Time
	To         time.Time
	Limit      int
}

// RecordStore is the persistence boundary of the ledger core. Mutations that
// must land together run inside Atomic; the store handle passed to the
// callback routes every write through one all-or-nothing unit.
type RecordStore interface {
	// Atomic runs fn inside a single atomic unit. Any error returned from fn
	// rolls back every write issued through the handle it receives. Atomic
	// composes: calling it on a handle that is already inside a unit joins
	// that unit instead of opening a new one.
	Atomic(ctx context.Context, fn func(ctx context.Context, tx RecordStore) error) error

	CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
	GetAccount(ctx context.Context, id int64) (core.Account, error)
	ListAccounts(ctx context.Context, userID int64) ([]core.Account, error)
	// AdjustBalance adds delta to the stored balance of the account.
	// Accounts may go negative; no sufficient-funds check is performed.
	AdjustBalance(ctx context.Context, accountID int64, delta core.Money) error

	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	GetCategory(ctx context.Context, id int64) (core.Category, error)
	ListCategories(ctx context.Context, userID int64) ([]core.Category, error)
	RenameCategory(ctx context.Context, id int64, name string) error
	// CategoryInUse reports whether any budget or transaction still
	// references the category.
	CategoryInUse(ctx context.Context, id int64) (bool, error)
	DeleteCategory(ctx context.Context, id int64) error

	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	GetBudget(ctx context.Context, id int64) (core.Budget, error)
	ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error)
	ListBudgetsByCategory(ctx context.Context, userID, categoryID int64) ([]core.Budget, error)
	DeleteBudget(ctx context.Context, id int64) error

	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
	ListTransactions(ctx context.Context, f TransactionFilter) ([]core.Transaction, error)
	// SumAbsoluteAmounts returns the sum of |amount| over the matching
	// transactions, zero when nothing matches.
	SumAbsoluteAmounts(ctx context.Context, f TransactionFilter) (core.Money, error)

	CreateSavingsGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error)
	GetSavingsGoal(ctx context.Context, id int64) (core.SavingsGoal, error)
	ListSavingsGoals(ctx context.Context, userID int64) ([]core.SavingsGoal, error)
	// AddGoalProgress adds delta to the goal's current amount.
	AddGoalProgress(ctx context.Context, goalID int64, delta core.Money) error
	CreateContribution(ctx context.Context, c core.SavingsContribution) (core.SavingsContribution, error)
	ListContributions(ctx context.Context, goalID int64) ([]core.SavingsContribution, error)
}
