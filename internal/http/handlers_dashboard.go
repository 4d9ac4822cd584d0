package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"finance/internal/core"
)

func (s *Server) dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	var cached core.Dashboard
	if s.cache.get(ctx, cacheKeyDashboard, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	var (
		transactions []core.Transaction
		budgets      []core.Budget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.service.ListTransactions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.service.ListBudgets(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		respondError(c, err)
		return
	}

	dashboard := core.BuildDashboard(transactions, budgets)
	s.cache.set(ctx, cacheKeyDashboard, dashboard, dashboardCacheTTL)
	c.JSON(http.StatusOK, dashboard)
}
