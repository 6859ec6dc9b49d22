package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// statusConcurrency bounds the parallel spent computations in StatusReport.
const statusConcurrency = 4

// BudgetService computes budget spending on demand. Spent totals are always
// recomputed from the transactions table, never cached, so they cannot drift
// from the ledger.
type BudgetService struct {
	store   storage.RecordStore
	session core.Session
}

func NewBudgetService(store storage.RecordStore, session core.Session) *BudgetService {
	return &BudgetService{store: store, session: session}
}

// ComputeSpent sums the absolute amounts of debit transactions in the
// budget's category whose date falls inside the half-open period window
// [StartDate, EndDate). Returns zero when nothing matches.
func (s *BudgetService) ComputeSpent(ctx context.Context, b core.Budget) (core.Money, error) {
	debit := core.Debit
	spent, err := s.store.SumAbsoluteAmounts(ctx, storage.TransactionFilter{
		CategoryID: &b.CategoryID,
		Type:       &debit,
		From:       b.StartDate,
		To:         b.EndDate,
	})
	if err != nil {
		return core.Money{}, fmt.Errorf("compute spent for budget %d: %w", b.ID, err)
	}
	return spent, nil
}

// Status returns the derived view of one budget.
func (s *BudgetService) Status(ctx context.Context, b core.Budget) (core.BudgetStatus, error) {
	spent, err := s.ComputeSpent(ctx, b)
	if err != nil {
		return core.BudgetStatus{}, err
	}
	return core.NewBudgetStatus(b, spent), nil
}

// StatusByID loads the budget and returns its derived status.
func (s *BudgetService) StatusByID(ctx context.Context, budgetID int64) (core.BudgetStatus, error) {
	b, err := s.store.GetBudget(ctx, budgetID)
	if err != nil {
		return core.BudgetStatus{}, err
	}
	return s.Status(ctx, b)
}

// StatusReport computes the status of every budget belonging to the session
// user. The per-budget sums are independent reads, so they run concurrently
// with bounded parallelism.
func (s *BudgetService) StatusReport(ctx context.Context) ([]core.BudgetStatus, error) {
	budgets, err := s.store.ListBudgets(ctx, s.session.UserID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	statuses := make([]core.BudgetStatus, len(budgets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(statusConcurrency)
	for i, b := range budgets {
		i, b := i, b
		g.Go(func() error {
			st, err := s.Status(ctx, b)
			if err != nil {
				return err
			}
			statuses[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statuses, nil
}

// CandidateBudgets returns the budgets a new expense in the given category
// may be assigned to. Assignment is matched on category alone: a transaction
// dated outside a budget's window can still be assigned to it, it just never
// counts toward that budget's spent total. Narrowing assignment by date
// would change user-visible behavior, so the looseness is kept deliberately.
func (s *BudgetService) CandidateBudgets(ctx context.Context, categoryID int64) ([]core.Budget, error) {
	budgets, err := s.store.ListBudgetsByCategory(ctx, s.session.UserID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("candidate budgets for category %d: %w", categoryID, err)
	}
	return budgets, nil
}
