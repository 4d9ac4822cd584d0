package core

import (
	"sort"
	"time"
)

// CategoryAmount is one slice of the expense breakdown, carrying the
// registry attributes chart renderers need.
type CategoryAmount struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Color    string `json:"color"`
	Amount   Money  `json:"amount"`
}

// MonthTotal is one point of the monthly expense series.
type MonthTotal struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Label string     `json:"label"` // e.g. "Mar 2024"
	Total Money      `json:"total"`
}

// Utilization describes how one budget compares to actual category spend.
// Remaining may be negative; that is overspend, not an error.
type Utilization struct {
	BudgetID    string  `json:"budgetId"`
	Category    string  `json:"category"`
	Month       string  `json:"month"`
	Year        int     `json:"year"`
	Budgeted    Money   `json:"budgeted"`
	Spent       Money   `json:"spent"`
	Remaining   Money   `json:"remaining"`
	PercentUsed float64 `json:"percentUsed"`
}

// MonthGroup is one display group of the transaction listing. Transactions
// keep their source order within the group.
type MonthGroup struct {
	Year         int           `json:"year"`
	Month        time.Month    `json:"month"`
	Label        string        `json:"label"` // e.g. "March 2024"
	Transactions []Transaction `json:"transactions"`
}

// Dashboard bundles every derived figure the renderers consume. It is a
// pure function of the two collections and is recomputed in full on every
// state change.
type Dashboard struct {
	TotalIncome  Money            `json:"totalIncome"`
	TotalExpense Money            `json:"totalExpense"`
	Net          Money            `json:"net"`
	ByCategory   []CategoryAmount `json:"byCategory"`
	Monthly      []MonthTotal     `json:"monthly"`
	Budgets      []Utilization    `json:"budgets"`
}

// TotalByType sums the amounts of all transactions of the given type.
// An empty input yields zero.
func TotalByType(txs []Transaction, typ TransactionType) Money {
	var sum Money
	for _, tx := range txs {
		if tx.Type == typ {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum
}

// SpendByCategory sums expense amounts per category key. Categories without
// expense transactions are absent; consumers treat absence as zero. Unknown
// category keys are kept as recorded and only collapse to "Other" at
// display time.
func SpendByCategory(txs []Transaction) map[string]Money {
	spend := make(map[string]Money)
	for _, tx := range txs {
		if tx.Type != TypeExpense {
			continue
		}
		spend[tx.Category] = spend[tx.Category].Add(tx.Amount)
	}
	return spend
}

// MonthlyExpenseSeries groups expense transactions by calendar year-month
// and returns the totals ordered ascending by period. Empty input yields an
// empty series.
func MonthlyExpenseSeries(txs []Transaction) []MonthTotal {
	type period struct {
		year  int
		month time.Month
	}
	totals := make(map[period]Money)
	for _, tx := range txs {
		if tx.Type != TypeExpense {
			continue
		}
		p := period{tx.Date.Year(), tx.Date.Month()}
		totals[p] = totals[p].Add(tx.Amount)
	}

	series := make([]MonthTotal, 0, len(totals))
	for p, total := range totals {
		series = append(series, MonthTotal{
			Year:  p.year,
			Month: p.month,
			Label: time.Date(p.year, p.month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006"),
			Total: total,
		})
	}
	// Sort by the underlying calendar period, never by label text.
	sort.Slice(series, func(i, j int) bool {
		if series[i].Year != series[j].Year {
			return series[i].Year < series[j].Year
		}
		return series[i].Month < series[j].Month
	})
	return series
}

// BudgetUtilization computes the utilization of one budget against the
// aggregate category spend. A zero budget amount yields 0% rather than a
// division error. Duplicate budgets each compute independently against the
// same spend figure.
func BudgetUtilization(b Budget, spend map[string]Money) Utilization {
	spent := spend[b.Category]
	u := Utilization{
		BudgetID:  b.ID,
		Category:  b.Category,
		Month:     b.Month,
		Year:      b.Year,
		Budgeted:  b.Amount,
		Spent:     spent,
		Remaining: b.Amount.Sub(spent),
	}
	if b.Amount.Cents > 0 {
		u.PercentUsed = float64(spent.Cents) / float64(b.Amount.Cents) * 100
	}
	return u
}

// GroupByMonth groups all transactions (income included) by calendar
// year-month for list display. Groups are ordered newest-first by the
// underlying (year, month), never by label text. Members keep their
// source order.
func GroupByMonth(txs []Transaction) []MonthGroup {
	type period struct {
		year  int
		month time.Month
	}
	index := make(map[period]int)
	var groups []MonthGroup
	for _, tx := range txs {
		p := period{tx.Date.Year(), tx.Date.Month()}
		i, ok := index[p]
		if !ok {
			i = len(groups)
			index[p] = i
			groups = append(groups, MonthGroup{
				Year:  p.year,
				Month: p.month,
				Label: time.Date(p.year, p.month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006"),
			})
		}
		groups[i].Transactions = append(groups[i].Transactions, tx)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Year != groups[j].Year {
			return groups[i].Year > groups[j].Year
		}
		return groups[i].Month > groups[j].Month
	})
	return groups
}

// BuildDashboard derives every dashboard figure from a snapshot of the two
// collections. It accepts empty or partial input and never errors.
func BuildDashboard(txs []Transaction, budgets []Budget) Dashboard {
	income := TotalByType(txs, TypeIncome)
	expense := TotalByType(txs, TypeExpense)
	spend := SpendByCategory(txs)

	byCategory := make([]CategoryAmount, 0, len(spend))
	for key, amount := range spend {
		cat := LookupCategory(key)
		byCategory = append(byCategory, CategoryAmount{
			Category: key,
			Label:    cat.Label,
			Color:    cat.Color,
			Amount:   amount,
		})
	}
	// Largest slices first, key as tiebreaker to keep the order stable.
	sort.Slice(byCategory, func(i, j int) bool {
		if byCategory[i].Amount.Cents != byCategory[j].Amount.Cents {
			return byCategory[i].Amount.Cents > byCategory[j].Amount.Cents
		}
		return byCategory[i].Category < byCategory[j].Category
	})

	utilizations := make([]Utilization, 0, len(budgets))
	for _, b := range budgets {
		utilizations = append(utilizations, BudgetUtilization(b, spend))
	}

	return Dashboard{
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income.Sub(expense),
		ByCategory:   byCategory,
		Monthly:      MonthlyExpenseSeries(txs),
		Budgets:      utilizations,
	}
}
