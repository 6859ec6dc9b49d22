package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// dbtx is the subset of *sql.DB and *sql.Tx the repository needs, so the
// same query code runs inside and outside an atomic unit.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteRepository implements RecordStore over a local SQLite file. A handle
// created by Atomic carries a *sql.Tx and routes every statement through it.
type SQLiteRepository struct {
	db *sql.DB
	tx *sql.Tx
}

var _ RecordStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) conn() dbtx {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Atomic runs fn in one database transaction. Calling Atomic on a handle
// that is already transactional joins the enclosing unit.
func (r *SQLiteRepository) Atomic(ctx context.Context, fn func(ctx context.Context, tx RecordStore) error) error {
	if r.tx != nil {
		return fn(ctx, r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin atomic unit: %w", err)
	}

	handle := &SQLiteRepository{tx: tx}
	if err := fn(ctx, handle); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Rollback failed after atomic unit error",
				"error", rbErr, "cause", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit atomic unit: %w", err)
	}
	return nil
}

// Accounts

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}

	res, err := r.conn().ExecContext(ctx,
		`INSERT INTO accounts (user_id, account_name, account_type, balance_cents, currency)
		 VALUES (?, ?, ?, ?, ?)`,
		a.UserID, a.Name, string(a.Type), a.Balance.Cents, a.Currency)
	if err != nil {
		return core.Account{}, fmt.Errorf("insert account: %w", err)
	}

	a.ID, err = res.LastInsertId()
	if err != nil {
		return core.Account{}, fmt.Errorf("account insert id: %w", err)
	}

	slog.InfoContext(ctx, "Account created",
		"account_id", a.ID,
		"account_type", string(a.Type),
		"balance_cents", a.Balance.Cents)

	return a, nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	row := r.conn().QueryRowContext(ctx,
		`SELECT account_id, user_id, account_name, account_type, balance_cents, currency, created_at, updated_at
		 FROM accounts WHERE account_id = ?`, id)
	return scanAccount(row, id)
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, userID int64) ([]core.Account, error) {
	rows, err := r.conn().QueryContext(ctx,
		`SELECT account_id, user_id, account_name, account_type, balance_cents, currency, created_at, updated_at
		 FROM accounts WHERE user_id = ? ORDER BY account_type, account_name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		a, err := scanAccountRows(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *SQLiteRepository) AdjustBalance(ctx context.Context, accountID int64, delta core.Money) error {
	res, err := r.conn().ExecContext(ctx,
		`UPDATE accounts
		 SET balance_cents = balance_cents + ?, updated_at = strftime('%s', 'now')
		 WHERE account_id = ?`,
		delta.Cents, accountID)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust balance rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %d: %w", accountID, core.ErrNotFound)
	}
	return nil
}

// Categories

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	res, err := r.conn().ExecContext(ctx,
		`INSERT INTO categories (user_id, category_name, is_income) VALUES (?, ?, ?)`,
		c.UserID, c.Name, c.IsIncome)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category insert id: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := r.conn().QueryRowContext(ctx,
		`SELECT category_id, user_id, category_name, is_income FROM categories WHERE category_id = ?`, id).
		Scan(&c.ID, &c.UserID, &c.Name, &c.IsIncome)
	if err == sql.ErrNoRows {
		return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.conn().QueryContext(ctx,
		`SELECT category_id, user_id, category_name, is_income
		 FROM categories WHERE user_id = ? ORDER BY category_name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.IsIncome); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *SQLiteRepository) RenameCategory(ctx context.Context, id int64, name string) error {
	if strings.TrimSpace(name) == "" {
		return &core.ValidationError{Field: "categoryName", Reason: "category name is required"}
	}
	res, err := r.conn().ExecContext(ctx,
		`UPDATE categories SET category_name = ?, updated_at = strftime('%s', 'now') WHERE category_id = ?`,
		name, id)
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename category rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) CategoryInUse(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.conn().QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM transactions WHERE category_id = ?)
		      + (SELECT COUNT(*) FROM budgets WHERE category_id = ?)`, id, id).
		Scan(&count)
	if err != nil {
		return false, fmt.Errorf("category usage count: %w", err)
	}
	return count > 0, nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	inUse, err := r.CategoryInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return &core.ValidationError{Field: "categoryId", Reason: "category is referenced by budgets or transactions"}
	}
	res, err := r.conn().ExecContext(ctx, `DELETE FROM categories WHERE category_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// Budgets

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	res, err := r.conn().ExecContext(ctx,
		`INSERT INTO budgets (user_id, category_id, budget_name, budget_amount_cents, period_type, start_date, end_date, rollover)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, b.CategoryID, b.Name, b.Amount.Cents, string(b.Period),
		b.StartDate.Unix(), b.EndDate.Unix(), b.Rollover)
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("budget insert id: %w", err)
	}

	slog.InfoContext(ctx, "Budget created",
		"budget_id", b.ID,
		"category_id", b.CategoryID,
		"budget_amount_cents", b.Amount.Cents,
		"period_type", string(b.Period))

	return b, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	row := r.conn().QueryRowContext(ctx,
		`SELECT budget_id, user_id, category_id, budget_name, budget_amount_cents, period_type, start_date, end_date, rollover
		 FROM budgets WHERE budget_id = ?`, id)

	b, err := scanBudget(row.Scan)
	if err == sql.ErrNoRows {
		return core.Budget{}, fmt.Errorf("budget %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	return r.queryBudgets(ctx,
		`SELECT budget_id, user_id, category_id, budget_name, budget_amount_cents, period_type, start_date, end_date, rollover
		 FROM budgets WHERE user_id = ? ORDER BY start_date`, userID)
}

func (r *SQLiteRepository) ListBudgetsByCategory(ctx context.Context, userID, categoryID int64) ([]core.Budget, error) {
	return r.queryBudgets(ctx,
		`SELECT budget_id, user_id, category_id, budget_name, budget_amount_cents, period_type, start_date, end_date, rollover
		 FROM budgets WHERE user_id = ? AND category_id = ? ORDER BY start_date`, userID, categoryID)
}

func (r *SQLiteRepository) queryBudgets(ctx context.Context, query string, args ...any) ([]core.Budget, error) {
	rows, err := r.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	res, err := r.conn().ExecContext(ctx, `DELETE FROM budgets WHERE budget_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("budget %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// Transactions

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	res, err := r.conn().ExecContext(ctx,
		`INSERT INTO transactions (account_id, category_id, transaction_date, amount_cents, transaction_type, description, budget_id, linked_transaction_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.AccountID, t.CategoryID, t.Date.Unix(), t.Amount.Cents, string(t.Type),
		nullString(t.Description), nullInt64(t.BudgetID), nullInt64(t.LinkedTransactionID))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction insert id: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.conn().QueryRowContext(ctx,
		`SELECT transaction_id, account_id, category_id, transaction_date, amount_cents, transaction_type, description, budget_id, linked_transaction_id
		 FROM transactions WHERE transaction_id = ?`, id)

	t, err := scanTransaction(row.Scan)
	if err == sql.ErrNoRows {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	res, err := r.conn().ExecContext(ctx,
		`UPDATE transactions
		 SET account_id = ?, category_id = ?, transaction_date = ?, amount_cents = ?, transaction_type = ?,
		     description = ?, budget_id = ?, linked_transaction_id = ?, updated_at = strftime('%s', 'now')
		 WHERE transaction_id = ?`,
		t.AccountID, t.CategoryID, t.Date.Unix(), t.Amount.Cents, string(t.Type),
		nullString(t.Description), nullInt64(t.BudgetID), nullInt64(t.LinkedTransactionID), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", t.ID, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.conn().ExecContext(ctx, `DELETE FROM transactions WHERE transaction_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, f TransactionFilter) ([]core.Transaction, error) {
	where, args := buildTransactionWhere(f)
	query := `SELECT transaction_id, account_id, category_id, transaction_date, amount_cents, transaction_type, description, budget_id, linked_transaction_id
	          FROM transactions` + where + ` ORDER BY transaction_date DESC, transaction_id DESC`
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func (r *SQLiteRepository) SumAbsoluteAmounts(ctx context.Context, f TransactionFilter) (core.Money, error) {
	where, args := buildTransactionWhere(f)
	var cents int64
	err := r.conn().QueryRowContext(ctx,
		`SELECT COALESCE(SUM(ABS(amount_cents)), 0) FROM transactions`+where, args...).
		Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum transactions: %w", err)
	}
	return core.CentsOf(cents), nil
}

// Savings goals

func (r *SQLiteRepository) CreateSavingsGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}

	var target any
	if g.TargetDate != nil {
		target = g.TargetDate.Unix()
	}
	res, err := r.conn().ExecContext(ctx,
		`INSERT INTO savings_goals (user_id, goal_name, target_amount_cents, current_amount_cents, target_date)
		 VALUES (?, ?, ?, ?, ?)`,
		g.UserID, g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, target)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("insert savings goal: %w", err)
	}
	g.ID, err = res.LastInsertId()
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("savings goal insert id: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) GetSavingsGoal(ctx context.Context, id int64) (core.SavingsGoal, error) {
	row := r.conn().QueryRowContext(ctx,
		`SELECT goal_id, user_id, goal_name, target_amount_cents, current_amount_cents, target_date
		 FROM savings_goals WHERE goal_id = ?`, id)

	g, err := scanSavingsGoal(row.Scan)
	if err == sql.ErrNoRows {
		return core.SavingsGoal{}, fmt.Errorf("savings goal %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("get savings goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) ListSavingsGoals(ctx context.Context, userID int64) ([]core.SavingsGoal, error) {
	rows, err := r.conn().QueryContext(ctx,
		`SELECT goal_id, user_id, goal_name, target_amount_cents, current_amount_cents, target_date
		 FROM savings_goals WHERE user_id = ? ORDER BY goal_name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	defer rows.Close()

	var goals []core.SavingsGoal
	for rows.Next() {
		g, err := scanSavingsGoal(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan savings goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *SQLiteRepository) AddGoalProgress(ctx context.Context, goalID int64, delta core.Money) error {
	res, err := r.conn().ExecContext(ctx,
		`UPDATE savings_goals
		 SET current_amount_cents = current_amount_cents + ?, updated_at = strftime('%s', 'now')
		 WHERE goal_id = ?`,
		delta.Cents, goalID)
	if err != nil {
		return fmt.Errorf("add goal progress: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("goal progress rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("savings goal %d: %w", goalID, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) CreateContribution(ctx context.Context, c core.SavingsContribution) (core.SavingsContribution, error) {
	res, err := r.conn().ExecContext(ctx,
		`INSERT INTO savings_contributions (goal_id, account_id, transaction_id, amount_cents, contribution_date)
		 VALUES (?, ?, ?, ?, ?)`,
		c.GoalID, c.AccountID, nullInt64(c.TransactionID), c.Amount.Cents, c.Date.Unix())
	if err != nil {
		return core.SavingsContribution{}, fmt.Errorf("insert contribution: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.SavingsContribution{}, fmt.Errorf("contribution insert id: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListContributions(ctx context.Context, goalID int64) ([]core.SavingsContribution, error) {
	rows, err := r.conn().QueryContext(ctx,
		`SELECT contribution_id, goal_id, account_id, transaction_id, amount_cents, contribution_date
		 FROM savings_contributions WHERE goal_id = ? ORDER BY contribution_date DESC`, goalID)
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	defer rows.Close()

	var contributions []core.SavingsContribution
	for rows.Next() {
		var (
			c     core.SavingsContribution
			txnID sql.NullInt64
			date  int64
		)
		if err := rows.Scan(&c.ID, &c.GoalID, &c.AccountID, &txnID, &c.Amount.Cents, &date); err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}
		if txnID.Valid {
			c.TransactionID = &txnID.Int64
		}
		c.Date = time.Unix(date, 0).UTC()
		contributions = append(contributions, c)
	}
	return contributions, rows.Err()
}

// Scan helpers

type scanFunc func(dest ...any) error

func scanAccount(row *sql.Row, id int64) (core.Account, error) {
	a, err := scanAccountScan(row.Scan)
	if err == sql.ErrNoRows {
		return core.Account{}, fmt.Errorf("account %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func scanAccountRows(rows *sql.Rows) (core.Account, error) {
	a, err := scanAccountScan(rows.Scan)
	if err != nil {
		return core.Account{}, fmt.Errorf("scan account: %w", err)
	}
	return a, nil
}

func scanAccountScan(scan scanFunc) (core.Account, error) {
	var (
		a                    core.Account
		typ                  string
		createdAt, updatedAt int64
	)
	if err := scan(&a.ID, &a.UserID, &a.Name, &typ, &a.Balance.Cents, &a.Currency, &createdAt, &updatedAt); err != nil {
		return core.Account{}, err
	}
	parsed, err := core.ParseAccountType(typ)
	if err != nil {
		return core.Account{}, err
	}
	a.Type = parsed
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	a.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return a, nil
}

func scanBudget(scan scanFunc) (core.Budget, error) {
	var (
		b          core.Budget
		period     string
		start, end int64
	)
	if err := scan(&b.ID, &b.UserID, &b.CategoryID, &b.Name, &b.Amount.Cents, &period, &start, &end, &b.Rollover); err != nil {
		return core.Budget{}, err
	}
	parsed, err := core.ParsePeriodType(period)
	if err != nil {
		return core.Budget{}, err
	}
	b.Period = parsed
	b.StartDate = time.Unix(start, 0).UTC()
	b.EndDate = time.Unix(end, 0).UTC()
	return b, nil
}

func scanTransaction(scan scanFunc) (core.Transaction, error) {
	var (
		t        core.Transaction
		date     int64
		typ      string
		desc     sql.NullString
		budgetID sql.NullInt64
		linkedID sql.NullInt64
	)
	if err := scan(&t.ID, &t.AccountID, &t.CategoryID, &date, &t.Amount.Cents, &typ, &desc, &budgetID, &linkedID); err != nil {
		return core.Transaction{}, err
	}
	parsed, err := core.ParseTransactionType(typ)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Type = parsed
	t.Date = time.Unix(date, 0).UTC()
	t.Description = desc.String
	if budgetID.Valid {
		t.BudgetID = &budgetID.Int64
	}
	if linkedID.Valid {
		t.LinkedTransactionID = &linkedID.Int64
	}
	return t, nil
}

func scanSavingsGoal(scan scanFunc) (core.SavingsGoal, error) {
	var (
		g      core.SavingsGoal
		target sql.NullInt64
	)
	if err := scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents, &target); err != nil {
		return core.SavingsGoal{}, err
	}
	if target.Valid {
		ts := time.Unix(target.Int64, 0).UTC()
		g.TargetDate = &ts
	}
	return g, nil
}

func buildTransactionWhere(f TransactionFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.AccountID != nil {
		conds = append(conds, "account_id = ?")
		args = append(args, *f.AccountID)
	}
	if f.CategoryID != nil {
		conds = append(conds, "category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.BudgetID != nil {
		conds = append(conds, "budget_id = ?")
		args = append(args, *f.BudgetID)
	}
	if f.Type != nil {
		conds = append(conds, "transaction_type = ?")
		args = append(args, string(*f.Type))
	}
	if !f.From.IsZero() {
		conds = append(conds, "transaction_date >= ?")
		args = append(args, f.From.Unix())
	}
	if !f.To.IsZero() {
		conds = append(conds, "transaction_date < ?")
		args = append(args, f.To.Unix())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
