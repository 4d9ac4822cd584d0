// Command dashboard renders the tracker's figures in the terminal: totals,
// category breakdown, monthly trend, budget utilization, and the monthly
// transaction listing.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"finance/internal/client"
	"finance/internal/session"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	controller := session.NewController(client.New(baseURL), logger)
	controller.Load(ctx)

	dash := controller.Dashboard()

	fmt.Println("== Overview ==")
	fmt.Printf("  income   %10s\n", dash.TotalIncome)
	fmt.Printf("  expenses %10s\n", dash.TotalExpense)
	fmt.Printf("  net      %10s\n", dash.Net)

	if len(dash.ByCategory) > 0 {
		fmt.Println("\n== Spending by category ==")
		for _, ca := range dash.ByCategory {
			fmt.Printf("  %-15s %10s\n", ca.Label, ca.Amount)
		}
	}

	if len(dash.Monthly) > 0 {
		fmt.Println("\n== Monthly expenses ==")
		for _, mt := range dash.Monthly {
			fmt.Printf("  %-10s %10s\n", mt.Label, mt.Total)
		}
	}

	if len(dash.Budgets) > 0 {
		fmt.Println("\n== Budgets ==")
		for _, u := range dash.Budgets {
			fmt.Printf("  %-15s %s/%d  budget %s  spent %s  remaining %s (%.0f%%)\n",
				u.Category, u.Month, u.Year, u.Budgeted, u.Spent, u.Remaining, u.PercentUsed)
		}
	}

	groups := controller.Grouped()
	if len(groups) > 0 {
		fmt.Println("\n== Transactions ==")
		for _, g := range groups {
			fmt.Printf("%s\n", g.Label)
			for _, tx := range g.Transactions {
				desc := tx.Description
				if desc == "" {
					desc = "(no description)"
				}
				fmt.Printf("  %s  %-8s %10s  %s [%s]\n",
					tx.Date.Calendar(), tx.Type, tx.Amount, desc, tx.Category)
			}
		}
	}
}
