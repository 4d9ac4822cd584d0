// Package storage implements the backing record store for transactions and
// budgets on SQLite. Records carry opaque string identifiers assigned here
// on create; callers never fabricate ids.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"finance/internal/core"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListTransactions returns every transaction, as stored. Display ordering
// (grouping, newest-first) is the caller's concern.
func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount_cents, date, description, category, type FROM transactions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]core.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

// GetTransaction returns one transaction or core.ErrNotFound.
func (r *Repository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, amount_cents, date, description, category, type FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// CreateTransaction persists a new transaction and returns it with its
// assigned identifier.
func (r *Repository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, amount_cents, date, description, category, type) VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Amount.Cents, tx.Date.Calendar(), tx.Description, tx.Category, string(tx.Type))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category,
		"type", tx.Type)
	return tx, nil
}

// UpdateTransaction replaces all fields of an existing transaction.
func (r *Repository) UpdateTransaction(ctx context.Context, id string, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET amount_cents = ?, date = ?, description = ?, category = ?, type = ? WHERE id = ?`,
		tx.Amount.Cents, tx.Date.Calendar(), tx.Description, tx.Category, string(tx.Type), id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}

	tx.ID = id
	return tx, nil
}

// DeleteTransaction removes a transaction, returning core.ErrNotFound when
// the id does not resolve.
func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return nil
}

// ListBudgets returns every budget, as stored.
func (r *Repository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, amount_cents, month, year FROM budgets ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := make([]core.Budget, 0)
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.Amount.Cents, &b.Month, &b.Year); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

// GetBudget returns one budget or core.ErrNotFound.
func (r *Repository) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	var b core.Budget
	err := r.db.QueryRowContext(ctx,
		`SELECT id, category, amount_cents, month, year FROM budgets WHERE id = ?`, id).
		Scan(&b.ID, &b.Category, &b.Amount.Cents, &b.Month, &b.Year)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, fmt.Errorf("budget %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// CreateBudget persists a new budget. Duplicate (category, month, year)
// triples are allowed.
func (r *Repository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	b.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, category, amount_cents, month, year) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.Category, b.Amount.Cents, b.Month, b.Year)
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"id", b.ID,
		"category", b.Category,
		"amount_cents", b.Amount.Cents,
		"month", b.Month,
		"year", b.Year)
	return b, nil
}

// UpdateBudget replaces all fields of an existing budget.
func (r *Repository) UpdateBudget(ctx context.Context, id string, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET category = ?, amount_cents = ?, month = ?, year = ? WHERE id = ?`,
		b.Category, b.Amount.Cents, b.Month, b.Year, id)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return core.Budget{}, fmt.Errorf("budget %s: %w", id, core.ErrNotFound)
	}

	b.ID = id
	return b, nil
}

// DeleteBudget removes a budget, returning core.ErrNotFound when the id
// does not resolve.
func (r *Repository) DeleteBudget(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("budget %s: %w", id, core.ErrNotFound)
	}
	return nil
}

// BackfillDefaults repairs legacy transactions that predate the category and
// type fields, setting "other" and "expense" respectively. Returns how many
// rows were touched.
func (r *Repository) BackfillDefaults(ctx context.Context) (int64, error) {
	var total int64

	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET category = 'other' WHERE category IS NULL OR TRIM(category) = ''`)
	if err != nil {
		return 0, fmt.Errorf("backfill categories: %w", err)
	}
	n, _ := res.RowsAffected()
	total += n

	res, err = r.db.ExecContext(ctx,
		`UPDATE transactions SET type = 'expense' WHERE type IS NULL OR TRIM(type) = ''`)
	if err != nil {
		return total, fmt.Errorf("backfill types: %w", err)
	}
	n, _ = res.RowsAffected()
	total += n

	slog.InfoContext(ctx, "Legacy transactions backfilled", "rows", total)
	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx      core.Transaction
		dateStr string
		typStr  string
	)
	if err := row.Scan(&tx.ID, &tx.Amount.Cents, &dateStr, &tx.Description, &tx.Category, &typStr); err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	tx.Date = date
	tx.Type = core.TransactionType(typStr)
	return tx, nil
}
