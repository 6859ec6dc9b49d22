package core

// BudgetStatus is the derived view of a budget against its spending. It is
// recomputed from transactions on demand, never stored.
type BudgetStatus struct {
	Budget    Budget
	Spent     Money
	Remaining Money
	Progress  float64
	Overspent bool
}

// ProgressPct returns spent as a percentage of the budget amount. The value
// is unbounded above 100 so overspend stays visible. A zero budget amount
// yields 0 rather than dividing by zero.
func ProgressPct(spent, budgetAmount Money) float64 {
	if budgetAmount.Cents == 0 {
		return 0
	}
	return float64(spent.Cents) / float64(budgetAmount.Cents) * 100
}

// Remaining returns budgetAmount - spent. The result may be negative when
// the budget is overspent.
func Remaining(spent, budgetAmount Money) Money {
	return budgetAmount.Sub(spent)
}

// NewBudgetStatus assembles the derived status for a budget given its
// computed spent total.
func NewBudgetStatus(b Budget, spent Money) BudgetStatus {
	remaining := Remaining(spent, b.Amount)
	return BudgetStatus{
		Budget:    b,
		Spent:     spent,
		Remaining: remaining,
		Progress:  ProgressPct(spent, b.Amount),
		Overspent: remaining.IsNegative(),
	}
}
