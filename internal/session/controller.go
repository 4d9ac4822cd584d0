// Package session holds the client-side view state of the tracker: the two
// record collections, the derived dashboard figures, and the lifecycle of an
// in-progress edit. It never computes on the server; every mutation is
// confirmed remotely before the local state changes.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"finance/internal/core"
)

// Gateway is what the controller needs from the API. *client.Client
// satisfies it.
type Gateway interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	ListBudgets(ctx context.Context) ([]core.Budget, error)
	CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, tx core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

type State int

const (
	StateLoading State = iota
	StateReady
)

func (s State) String() string {
	if s == StateLoading {
		return "loading"
	}
	return "ready"
}

// TransactionForm is the editable shape of a transaction, all fields as the
// user typed them. Date uses the calendar form YYYY-MM-DD.
type TransactionForm struct {
	Amount      string
	Date        string
	Description string
	Category    string
	Type        string
}

func (f TransactionForm) toTransaction() (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(f.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", f.Amount, err)
	}
	date, err := core.ParseDate(f.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date %q: %w", f.Date, err)
	}
	tx := core.Transaction{
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Description: f.Description,
		Category:    f.Category,
		Type:        core.TransactionType(f.Type),
	}
	if tx.Category == "" {
		tx.Category = core.FallbackCategory
	}
	if tx.Type == "" {
		tx.Type = core.TypeExpense
	}
	return tx, tx.Validate()
}

type Controller struct {
	gateway Gateway
	logger  *slog.Logger

	mu           sync.Mutex
	state        State
	transactions []core.Transaction
	budgets      []core.Budget
	editingID    string
	editForm     TransactionForm
}

func NewController(gateway Gateway, logger *slog.Logger) *Controller {
	return &Controller{
		gateway:      gateway,
		logger:       logger.With("component", "session"),
		state:        StateLoading,
		transactions: []core.Transaction{},
		budgets:      []core.Budget{},
	}
}

// Load fetches both collections concurrently. A failed branch leaves its
// collection empty and is logged; the session still becomes ready so the
// user sees whatever loaded.
func (c *Controller) Load(ctx context.Context) {
	var (
		transactions = []core.Transaction{}
		budgets      = []core.Budget{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := c.gateway.ListTransactions(gctx)
		if err != nil {
			c.logger.Error("failed to load transactions", "error", err)
			return nil
		}
		transactions = txs
		return nil
	})
	g.Go(func() error {
		bs, err := c.gateway.ListBudgets(gctx)
		if err != nil {
			c.logger.Error("failed to load budgets", "error", err)
			return nil
		}
		budgets = bs
		return nil
	})
	g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.transactions = transactions
	c.budgets = budgets
	c.state = StateReady
}

// AddTransaction submits a new record and appends the server-confirmed copy,
// id included, to the local collection. Nothing changes locally on failure.
func (c *Controller) AddTransaction(ctx context.Context, form TransactionForm) error {
	tx, err := form.toTransaction()
	if err != nil {
		return err
	}

	created, err := c.gateway.CreateTransaction(ctx, tx)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.transactions = append(c.transactions, created)
	return nil
}

// BeginEdit opens an edit session for the given record, prefilling the form
// from the current local copy. Opening an edit for another record replaces
// the previous session.
func (c *Controller) BeginEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tx := range c.transactions {
		if tx.ID == id {
			c.editingID = id
			c.editForm = TransactionForm{
				Amount:      tx.Amount.String(),
				Date:        tx.Date.Calendar(),
				Description: tx.Description,
				Category:    tx.Category,
				Type:        string(tx.Type),
			}
			return nil
		}
	}
	return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
}

// EditForm returns the form of the open edit session, if any.
func (c *Controller) EditForm() (TransactionForm, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editForm, c.editingID != ""
}

// SubmitEdit sends the edited record to the server and replaces the local
// copy with the confirmed response. The edit session stays open on failure
// so the user can correct and retry. A confirmation arriving after the
// record disappeared locally is discarded.
func (c *Controller) SubmitEdit(ctx context.Context, form TransactionForm) error {
	c.mu.Lock()
	id := c.editingID
	c.mu.Unlock()
	if id == "" {
		return fmt.Errorf("no edit in progress")
	}

	tx, err := form.toTransaction()
	if err != nil {
		return err
	}

	updated, err := c.gateway.UpdateTransaction(ctx, id, tx)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.transactions {
		if existing.ID == id {
			c.transactions[i] = updated
			break
		}
	}
	if c.editingID == id {
		c.editingID = ""
		c.editForm = TransactionForm{}
	}
	return nil
}

func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editingID = ""
	c.editForm = TransactionForm{}
}

// DeleteTransaction removes a record remotely, then locally. The local copy
// survives a failed delete.
func (c *Controller) DeleteTransaction(ctx context.Context, id string) error {
	if err := c.gateway.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.transactions[:0]
	for _, tx := range c.transactions {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	c.transactions = kept
	if c.editingID == id {
		c.editingID = ""
		c.editForm = TransactionForm{}
	}
	return nil
}

// RefreshAll refetches both collections. Each collection is replaced
// wholesale on success and kept as-is when its fetch fails.
func (c *Controller) RefreshAll(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		txs, err := c.gateway.ListTransactions(gctx)
		if err != nil {
			c.logger.Error("failed to refresh transactions", "error", err)
			return nil
		}
		c.mu.Lock()
		c.transactions = txs
		c.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		bs, err := c.gateway.ListBudgets(gctx)
		if err != nil {
			c.logger.Error("failed to refresh budgets", "error", err)
			return nil
		}
		c.mu.Lock()
		c.budgets = bs
		c.mu.Unlock()
		return nil
	})
	g.Wait()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Transactions returns a copy of the local transaction collection.
func (c *Controller) Transactions() []core.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Transaction, len(c.transactions))
	copy(out, c.transactions)
	return out
}

// Budgets returns a copy of the local budget collection.
func (c *Controller) Budgets() []core.Budget {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Budget, len(c.budgets))
	copy(out, c.budgets)
	return out
}

// Dashboard recomputes the derived figures from the current collections.
func (c *Controller) Dashboard() core.Dashboard {
	c.mu.Lock()
	defer c.mu.Unlock()
	return core.BuildDashboard(c.transactions, c.budgets)
}

// Grouped returns the transactions grouped by calendar month for display.
func (c *Controller) Grouped() []core.MonthGroup {
	c.mu.Lock()
	defer c.mu.Unlock()
	return core.GroupByMonth(c.transactions)
}
