// Package memory provides an in-memory RecordStore used by tests and by the
// memory backend. Atomic units stage writes on a snapshot and swap it in on
// success, so a failing unit leaves the store untouched. A fault hook lets
// tests fail the Nth write to exercise rollback behavior.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// ErrInjected is returned by writes once the configured fault budget is
// exhausted.
var ErrInjected = errors.New("injected store failure")

type tables struct {
	accounts      map[int64]core.Account
	categories    map[int64]core.Category
	budgets       map[int64]core.Budget
	transactions  map[int64]core.Transaction
	goals         map[int64]core.SavingsGoal
	contributions map[int64]core.SavingsContribution
	nextID        int64
}

func newTables() *tables {
	return &tables{
		accounts:      map[int64]core.Account{},
		categories:    map[int64]core.Category{},
		budgets:       map[int64]core.Budget{},
		transactions:  map[int64]core.Transaction{},
		goals:         map[int64]core.SavingsGoal{},
		contributions: map[int64]core.SavingsContribution{},
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	c.nextID = t.nextID
	for k, v := range t.accounts {
		c.accounts[k] = v
	}
	for k, v := range t.categories {
		c.categories[k] = v
	}
	for k, v := range t.budgets {
		c.budgets[k] = v
	}
	for k, v := range t.transactions {
		c.transactions[k] = v
	}
	for k, v := range t.goals {
		c.goals[k] = v
	}
	for k, v := range t.contributions {
		c.contributions[k] = v
	}
	return c
}

func (t *tables) id() int64 {
	t.nextID++
	return t.nextID
}

type fault struct {
	mu        sync.Mutex
	armed     bool
	remaining int
}

func (f *fault) hit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.armed {
		return nil
	}
	if f.remaining == 0 {
		return ErrInjected
	}
	f.remaining--
	return nil
}

type Store struct {
	mu    sync.Mutex
	data  *tables
	fault *fault
	inTx  bool
}

var _ storage.RecordStore = (*Store)(nil)

func New() *Store {
	return &Store{data: newTables(), fault: &fault{}}
}

// FailAfterWrites arms the fault hook: the next n writes succeed and every
// write after that fails with ErrInjected until DisarmFaults is called.
func (s *Store) FailAfterWrites(n int) {
	s.fault.mu.Lock()
	defer s.fault.mu.Unlock()
	s.fault.armed = true
	s.fault.remaining = n
}

func (s *Store) DisarmFaults() {
	s.fault.mu.Lock()
	defer s.fault.mu.Unlock()
	s.fault.armed = false
}

// Atomic stages fn's writes on a snapshot and publishes the snapshot only if
// fn succeeds. Nested calls join the enclosing unit.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, tx storage.RecordStore) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	staged := &Store{data: s.data.clone(), fault: s.fault, inTx: true}
	s.mu.Unlock()

	if err := fn(ctx, staged); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = staged.data
	s.mu.Unlock()
	return nil
}

// Accounts

func (s *Store) CreateAccount(_ context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	if err := s.fault.hit(); err != nil {
		return core.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.data.id()
	s.data.accounts[a.ID] = a
	return a, nil
}

func (s *Store) GetAccount(_ context.Context, id int64) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.data.accounts[id]
	if !ok {
		return core.Account{}, fmt.Errorf("account %d: %w", id, core.ErrNotFound)
	}
	return a, nil
}

func (s *Store) ListAccounts(_ context.Context, userID int64) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Account
	for _, a := range s.data.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) AdjustBalance(_ context.Context, accountID int64, delta core.Money) error {
	if err := s.fault.hit(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.data.accounts[accountID]
	if !ok {
		return fmt.Errorf("account %d: %w", accountID, core.ErrNotFound)
	}
	a.Balance = a.Balance.Add(delta)
	s.data.accounts[accountID] = a
	return nil
}

// Categories

func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.fault.hit(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.data.id()
	s.data.categories[c.ID] = c
	return c, nil
}

func (s *Store) GetCategory(_ context.Context, id int64) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.data.categories[id]
	if !ok {
		return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return c, nil
}

func (s *Store) ListCategories(_ context.Context, userID int64) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Category
	for _, c := range s.data.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) RenameCategory(_ context.Context, id int64, name string) error {
	if strings.TrimSpace(name) == "" {
		return &core.ValidationError{Field: "categoryName", Reason: "category name is required"}
	}
	if err := s.fault.hit(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.data.categories[id]
	if !ok {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	c.Name = name
	s.data.categories[id] = c
	return nil
}

func (s *Store) CategoryInUse(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.data.transactions {
		if t.CategoryID == id {
			return true, nil
		}
	}
	for _, b := range s.data.budgets {
		if b.CategoryID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	inUse, err := s.CategoryInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return &core.ValidationError{Field: "categoryId", Reason: "category is referenced by budgets or transactions"}
	}
	if err := s.fault.hit(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.categories[id]; !ok {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	delete(s.data.categories, id)
	return nil
}

// Budgets

func (s *Store) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if err := s.fault.hit(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.data.id()
	s.data.budgets[b.ID] = b
	return b, nil
}

func (s *Store) GetBudget(_ context.Context, id int64) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data.budgets[id]
	if !ok {
		return core.Budget{}, fmt.Errorf("budget %d: %w", id, core.ErrNotFound)
	}
	return b, nil
}

func (s *Store) ListBudgets(_ context.Context, userID int64) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Budget
	for _, b := range s.data.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s *Store) ListBudgetsByCategory(_ context.Context, userID, categoryID int64) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Budget
	for _, b := range s.data.budgets {
		if b.UserID == userID && b.CategoryID == categoryID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s *Store) DeleteBudget(_ context.Context, id int64) error {
	if err := s.fault.hit(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.budgets[id]; !ok {
		return fmt.Errorf("budget %d: %w", id, core.ErrNotFound)
	}
	delete(s.data.budgets, id)
	return nil
}

// Transactions

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.fault.hit(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.data.id()
	s.data.transactions[t.ID] = t
	return t, nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.data.transactions[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.fault.hit(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.transactions[t.ID]; !ok {
		return fmt.Errorf("transaction %d: %w", t.ID, core.ErrNotFound)
	}
	s.data.transactions[t.ID] = t
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	if err := s.fault.hit(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.transactions[id]; !ok {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	delete(s.data.transactions, id)
	return nil
}

func (s *Store) ListTransactions(_ context.Context, f storage.TransactionFilter) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.data.transactions {
		if matches(t, f) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) SumAbsoluteAmounts(_ context.Context, f storage.TransactionFilter) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total core.Money
	for _, t := range s.data.transactions {
		if matches(t, f) {
			total = total.Add(t.Amount.Abs())
		}
	}
	return total, nil
}

// Savings goals

func (s *Store) CreateSavingsGoal(_ context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	if err := s.fault.hit(); err != nil {
		return core.SavingsGoal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.data.id()
	s.data.goals[g.ID] = g
	return g, nil
}

func (s *Store) GetSavingsGoal(_ context.Context, id int64) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.data.goals[id]
	if !ok {
		return core.SavingsGoal{}, fmt.Errorf("savings goal %d: %w", id, core.ErrNotFound)
	}
	return g, nil
}

func (s *Store) ListSavingsGoals(_ context.Context, userID int64) ([]core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.SavingsGoal
	for _, g := range s.data.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) AddGoalProgress(_ context.Context, goalID int64, delta core.Money) error {
	if err := s.fault.hit(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.data.goals[goalID]
	if !ok {
		return fmt.Errorf("savings goal %d: %w", goalID, core.ErrNotFound)
	}
	g.CurrentAmount = g.CurrentAmount.Add(delta)
	s.data.goals[goalID] = g
	return nil
}

func (s *Store) CreateContribution(_ context.Context, c core.SavingsContribution) (core.SavingsContribution, error) {
	if err := s.fault.hit(); err != nil {
		return core.SavingsContribution{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.data.id()
	s.data.contributions[c.ID] = c
	return c, nil
}

func (s *Store) ListContributions(_ context.Context, goalID int64) ([]core.SavingsContribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.SavingsContribution
	for _, c := range s.data.contributions {
		if c.GoalID == goalID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func matches(t core.Transaction, f storage.TransactionFilter) bool {
	if f.AccountID != nil && t.AccountID != *f.AccountID {
		return false
	}
	if f.CategoryID != nil && t.CategoryID != *f.CategoryID {
		return false
	}
	if f.BudgetID != nil && (t.BudgetID == nil || *t.BudgetID != *f.BudgetID) {
		return false
	}
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !t.Date.Before(f.To) {
		return false
	}
	return true
}
