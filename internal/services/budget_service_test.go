package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func seedExpense(t *testing.T, f *ledgerFixture, categoryID int64, amount string, date time.Time, typ core.TransactionType) {
	t.Helper()
	_, err := f.transactions.Create(context.Background(), core.Transaction{
		AccountID:  f.account.ID,
		CategoryID: categoryID,
		Date:       date,
		Amount:     money(t, amount),
		Type:       typ,
	})
	require.NoError(t, err)
}

func marchBudget(t *testing.T, f *ledgerFixture, categoryID int64, amount string) core.Budget {
	t.Helper()
	b, err := f.store.CreateBudget(context.Background(), core.Budget{
		UserID:     testSession.UserID,
		CategoryID: categoryID,
		Name:       "March",
		Amount:     money(t, amount),
		Period:     core.Monthly,
		StartDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func TestComputeSpentFilters(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, "1000.00")

	other, err := f.store.CreateCategory(ctx, core.Category{UserID: testSession.UserID, Name: "Transport"})
	require.NoError(t, err)

	inWindow := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	// Counted: debit, right category, inside the window.
	seedExpense(t, f, f.category.ID, "-30.00", inWindow, core.Debit)
	seedExpense(t, f, f.category.ID, "-12.50", inWindow, core.Debit)
	// Not counted: wrong category.
	seedExpense(t, f, other.ID, "-99.00", inWindow, core.Debit)
	// Not counted: credit in the same category.
	seedExpense(t, f, f.category.ID, "20.00", inWindow, core.Credit)
	// Not counted: before the window.
	seedExpense(t, f, f.category.ID, "-5.00", time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), core.Debit)
	// Not counted: the end date itself is excluded.
	seedExpense(t, f, f.category.ID, "-7.00", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), core.Debit)

	budget := marchBudget(t, f, f.category.ID, "100.00")

	spent, err := f.budgets.ComputeSpent(ctx, budget)
	require.NoError(t, err)
	assert.Equal(t, money(t, "42.50"), spent)
}

func TestComputeSpentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, "1000.00")

	seedExpense(t, f, f.category.ID, "-42.00", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), core.Debit)
	budget := marchBudget(t, f, f.category.ID, "100.00")

	first, err := f.budgets.ComputeSpent(ctx, budget)
	require.NoError(t, err)
	second, err := f.budgets.ComputeSpent(ctx, budget)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeSpentEmptyBudget(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, "1000.00")

	budget := marchBudget(t, f, f.category.ID, "100.00")

	spent, err := f.budgets.ComputeSpent(ctx, budget)
	require.NoError(t, err)
	assert.True(t, spent.IsZero())
}

func TestStatusReport(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, "1000.00")

	transport, err := f.store.CreateCategory(ctx, core.Category{UserID: testSession.UserID, Name: "Transport"})
	require.NoError(t, err)

	inWindow := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	seedExpense(t, f, f.category.ID, "-150.00", inWindow, core.Debit)
	seedExpense(t, f, transport.ID, "-40.00", inWindow, core.Debit)

	marchBudget(t, f, f.category.ID, "100.00")
	marchBudget(t, f, transport.ID, "80.00")

	statuses, err := f.budgets.StatusReport(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byCategory := map[int64]core.BudgetStatus{}
	for _, st := range statuses {
		byCategory[st.Budget.CategoryID] = st
	}

	food := byCategory[f.category.ID]
	assert.Equal(t, money(t, "150.00"), food.Spent)
	assert.True(t, food.Overspent)
	assert.InDelta(t, 150.0, food.Progress, 0.001)
	assert.Equal(t, money(t, "-50.00"), food.Remaining)

	tr := byCategory[transport.ID]
	assert.Equal(t, money(t, "40.00"), tr.Spent)
	assert.False(t, tr.Overspent)
	assert.InDelta(t, 50.0, tr.Progress, 0.001)
}

func TestStatusByIDUnknownBudget(t *testing.T) {
	f := newLedgerFixture(t, "1000.00")

	_, err := f.budgets.StatusByID(context.Background(), 404)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

// Assignment matches on category alone. A transaction dated outside the
// budget's window still lists the budget as a candidate; it just never counts
// toward the budget's spent total.
func TestCandidateBudgetsIgnoreDates(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t, "1000.00")

	budget := marchBudget(t, f, f.category.ID, "100.00")

	candidates, err := f.budgets.CandidateBudgets(ctx, f.category.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, budget.ID, candidates[0].ID)

	outside := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err = f.transactions.Create(ctx, core.Transaction{
		AccountID:  f.account.ID,
		CategoryID: f.category.ID,
		Date:       outside,
		Amount:     money(t, "-10.00"),
		Type:       core.Debit,
		BudgetID:   &budget.ID,
	})
	require.NoError(t, err)

	spent, err := f.budgets.ComputeSpent(ctx, budget)
	require.NoError(t, err)
	assert.True(t, spent.IsZero())
}
