package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// SavingsService manages savings goals and their contributions. A
// contribution debits the funding account and advances the goal's current
// amount together, in one atomic unit, through the same balance ledger the
// transaction service uses.
type SavingsService struct {
	store   storage.RecordStore
	ledger  *BalanceLedger
	session core.Session
}

func NewSavingsService(store storage.RecordStore, ledger *BalanceLedger, session core.Session) *SavingsService {
	return &SavingsService{store: store, ledger: ledger, session: session}
}

func (s *SavingsService) CreateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	g.UserID = s.session.UserID
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	created, err := s.store.CreateSavingsGoal(ctx, g)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("create savings goal: %w", err)
	}
	return created, nil
}

// Contribute records a contribution of amount from the account toward the
// goal. The contribution row, the account debit, and the goal progress are
// one atomic unit.
func (s *SavingsService) Contribute(ctx context.Context, goalID, accountID int64, amount core.Money, date time.Time) (core.SavingsContribution, error) {
	if amount.Cents <= 0 {
		return core.SavingsContribution{}, &core.ValidationError{Field: "amount", Reason: "contribution amount must be positive"}
	}
	if date.IsZero() {
		return core.SavingsContribution{}, &core.ValidationError{Field: "contributionDate", Reason: "date is required"}
	}

	if _, err := s.store.GetSavingsGoal(ctx, goalID); err != nil {
		return core.SavingsContribution{}, err
	}

	var created core.SavingsContribution
	err := s.store.Atomic(ctx, func(ctx context.Context, tx storage.RecordStore) error {
		var err error
		created, err = tx.CreateContribution(ctx, core.SavingsContribution{
			GoalID:    goalID,
			AccountID: accountID,
			Amount:    amount,
			Date:      date,
		})
		if err != nil {
			return fmt.Errorf("insert contribution: %w", err)
		}
		if err := s.ledger.ApplyEffect(ctx, tx, accountID, amount.Neg()); err != nil {
			return fmt.Errorf("debit funding account: %w", err)
		}
		if err := tx.AddGoalProgress(ctx, goalID, amount); err != nil {
			return fmt.Errorf("advance goal: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.SavingsContribution{}, &core.MutationError{Op: "contribute to savings goal", Err: err}
	}

	slog.InfoContext(ctx, "Savings contribution recorded",
		"goal_id", goalID,
		"account_id", accountID,
		"amount_cents", amount.Cents)

	return created, nil
}

func (s *SavingsService) Goals(ctx context.Context) ([]core.SavingsGoal, error) {
	goals, err := s.store.ListSavingsGoals(ctx, s.session.UserID)
	if err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	return goals, nil
}

func (s *SavingsService) Contributions(ctx context.Context, goalID int64) ([]core.SavingsContribution, error) {
	contributions, err := s.store.ListContributions(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("list contributions for goal %d: %w", goalID, err)
	}
	return contributions, nil
}
