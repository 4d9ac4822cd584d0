package core

import (
	"testing"
)

func tx(amountCents int64, date string, category string, typ TransactionType) Transaction {
	d, _ := ParseDate(date)
	return Transaction{Amount: Money{Cents: amountCents}, Date: d, Category: category, Type: typ}
}

func TestTotalByType(t *testing.T) {
	txs := []Transaction{
		tx(10050, "2024-01-10", "food", TypeExpense),
		tx(20000, "2024-01-15", "income", TypeIncome),
		tx(4950, "2024-02-01", "transport", TypeExpense),
	}

	expense := TotalByType(txs, TypeExpense)
	income := TotalByType(txs, TypeIncome)
	if expense.Cents != 15000 {
		t.Fatalf("expected 15000 expense cents, got %d", expense.Cents)
	}
	if income.Cents != 20000 {
		t.Fatalf("expected 20000 income cents, got %d", income.Cents)
	}

	// expense + income must equal the sum over all transactions
	var all int64
	for _, tx := range txs {
		all += tx.Amount.Cents
	}
	if expense.Cents+income.Cents != all {
		t.Fatalf("type totals do not partition the collection: %d + %d != %d",
			expense.Cents, income.Cents, all)
	}

	if got := TotalByType(nil, TypeExpense); got.Cents != 0 {
		t.Fatalf("empty input must yield zero, got %d", got.Cents)
	}
}

func TestSpendByCategory(t *testing.T) {
	txs := []Transaction{
		tx(100, "2024-01-10", "food", TypeExpense),
		tx(200, "2024-01-15", "food", TypeExpense),
		tx(300, "2024-01-20", "transport", TypeExpense),
		tx(9999, "2024-01-21", "income", TypeIncome), // income never counts as spend
	}

	spend := SpendByCategory(txs)
	if spend["food"].Cents != 300 || spend["transport"].Cents != 300 {
		t.Fatalf("unexpected spend map: %+v", spend)
	}
	if _, ok := spend["income"]; ok {
		t.Fatalf("income transactions must not appear in spend")
	}

	// Sum over categories equals the expense total.
	var sum int64
	for _, m := range spend {
		sum += m.Cents
	}
	if sum != TotalByType(txs, TypeExpense).Cents {
		t.Fatalf("spend map does not sum to expense total")
	}
}

func TestMonthlyExpenseSeries(t *testing.T) {
	txs := []Transaction{
		tx(500, "2025-01-05", "food", TypeExpense),
		tx(100, "2024-02-10", "food", TypeExpense),
		tx(200, "2024-02-20", "transport", TypeExpense),
		tx(300, "2024-12-01", "housing", TypeExpense),
		tx(999, "2024-02-11", "income", TypeIncome),
	}

	series := MonthlyExpenseSeries(txs)
	if len(series) != 3 {
		t.Fatalf("expected 3 periods, got %d", len(series))
	}

	// Strictly ascending by calendar period, no duplicates.
	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1], series[i]
		if cur.Year < prev.Year || (cur.Year == prev.Year && cur.Month <= prev.Month) {
			t.Fatalf("series not strictly ascending at %d: %+v then %+v", i, prev, cur)
		}
	}

	if series[0].Label != "Feb 2024" || series[0].Total.Cents != 300 {
		t.Fatalf("unexpected first point: %+v", series[0])
	}
	if series[2].Label != "Jan 2025" {
		t.Fatalf("unexpected last point: %+v", series[2])
	}

	if got := MonthlyExpenseSeries(nil); len(got) != 0 {
		t.Fatalf("empty input must yield empty series")
	}
}

func TestBudgetUtilization(t *testing.T) {
	spend := map[string]Money{"food": {Cents: 7500}}

	t.Run("partial use", func(t *testing.T) {
		u := BudgetUtilization(Budget{ID: "b1", Category: "food", Amount: Money{Cents: 10000}, Month: "3", Year: 2024}, spend)
		if u.PercentUsed != 75 {
			t.Fatalf("expected 75%%, got %v", u.PercentUsed)
		}
		if u.Remaining.Cents != 2500 {
			t.Fatalf("expected 2500 remaining, got %d", u.Remaining.Cents)
		}
	})

	t.Run("overspend is displayable, not an error", func(t *testing.T) {
		u := BudgetUtilization(Budget{Category: "food", Amount: Money{Cents: 5000}}, spend)
		if u.Remaining.Cents != -2500 {
			t.Fatalf("expected negative remaining, got %d", u.Remaining.Cents)
		}
		if u.PercentUsed != 150 {
			t.Fatalf("expected 150%%, got %v", u.PercentUsed)
		}
	})

	t.Run("zero amount never divides by zero", func(t *testing.T) {
		u := BudgetUtilization(Budget{Category: "food", Amount: Money{}}, spend)
		if u.PercentUsed != 0 {
			t.Fatalf("expected 0%% for zero budget, got %v", u.PercentUsed)
		}
	})

	t.Run("no spend means zero", func(t *testing.T) {
		u := BudgetUtilization(Budget{Category: "transport", Amount: Money{Cents: 1000}}, spend)
		if u.Spent.Cents != 0 || u.PercentUsed != 0 || u.Remaining.Cents != 1000 {
			t.Fatalf("unexpected utilization: %+v", u)
		}
	})
}

func TestGroupByMonthOrdering(t *testing.T) {
	// "2025-01" must sort before "2024-02" even though "February 2025" would
	// lexically precede "January 2025" style labels.
	txs := []Transaction{
		tx(100, "2024-02-01", "food", TypeExpense),
		tx(200, "2025-01-01", "food", TypeExpense),
		tx(300, "2024-02-14", "transport", TypeExpense),
	}

	groups := GroupByMonth(txs)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Label != "January 2025" {
		t.Fatalf("expected January 2025 first, got %s", groups[0].Label)
	}
	if groups[1].Label != "February 2024" {
		t.Fatalf("expected February 2024 second, got %s", groups[1].Label)
	}

	// Members keep source order within the group.
	feb := groups[1].Transactions
	if len(feb) != 2 || feb[0].Category != "food" || feb[1].Category != "transport" {
		t.Fatalf("group members not in source order: %+v", feb)
	}
}

func TestBuildDashboard(t *testing.T) {
	txs := []Transaction{
		tx(10000, "2024-03-01", "food", TypeExpense),
		tx(2000, "2024-03-02", "xyz", TypeExpense), // unknown category
		tx(50000, "2024-03-03", "income", TypeIncome),
	}
	budgets := []Budget{
		{ID: "b1", Category: "food", Amount: Money{Cents: 20000}, Month: "3", Year: 2024},
	}

	d := BuildDashboard(txs, budgets)
	if d.TotalExpense.Cents != 12000 || d.TotalIncome.Cents != 50000 || d.Net.Cents != 38000 {
		t.Fatalf("unexpected totals: %+v", d)
	}

	// Unknown category is kept in totals and displayed under Other.
	var sawUnknown bool
	for _, c := range d.ByCategory {
		if c.Category == "xyz" {
			sawUnknown = true
			if c.Label != "Other" {
				t.Fatalf("unknown category must display as Other, got %s", c.Label)
			}
		}
	}
	if !sawUnknown {
		t.Fatalf("unknown category excluded from breakdown")
	}

	// Breakdown ordered by amount, largest first.
	if d.ByCategory[0].Category != "food" {
		t.Fatalf("expected food first, got %s", d.ByCategory[0].Category)
	}

	if len(d.Budgets) != 1 || d.Budgets[0].PercentUsed != 50 {
		t.Fatalf("unexpected budget utilization: %+v", d.Budgets)
	}

	// Degrades to zeros on empty input.
	empty := BuildDashboard(nil, nil)
	if empty.TotalExpense.Cents != 0 || len(empty.Monthly) != 0 || len(empty.ByCategory) != 0 {
		t.Fatalf("empty dashboard not zeroed: %+v", empty)
	}
}
