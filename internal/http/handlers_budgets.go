package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finance/internal/core"
)

type budgetPayload struct {
	Category *string     `json:"category"`
	Amount   *core.Money `json:"amount"`
	Month    *string     `json:"month"`
	Year     *int        `json:"year"`
}

func (p budgetPayload) toBudget() (core.Budget, error) {
	if p.Category == nil || *p.Category == "" {
		return core.Budget{}, core.ErrMissingCategory
	}
	if p.Amount == nil {
		return core.Budget{}, core.ErrInvalidAmount
	}
	if p.Month == nil {
		return core.Budget{}, core.ErrInvalidMonth
	}
	if p.Year == nil {
		return core.Budget{}, core.ErrInvalidYear
	}
	b := core.Budget{
		Category: *p.Category,
		Amount:   *p.Amount,
		Month:    *p.Month,
		Year:     *p.Year,
	}
	return b, b.Validate()
}

func (s *Server) listBudgets(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []core.Budget
	if s.cache.get(ctx, cacheKeyBudgets, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	budgets, err := s.service.ListBudgets(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	s.cache.set(ctx, cacheKeyBudgets, budgets, listCacheTTL)
	c.JSON(http.StatusOK, budgets)
}

func (s *Server) getBudget(c *gin.Context) {
	budget, err := s.service.GetBudget(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, budget)
}

func (s *Server) createBudget(c *gin.Context) {
	var payload budgetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		bindError(c, err)
		return
	}

	budget, err := payload.toBudget()
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := s.service.CreateBudget(c.Request.Context(), budget)
	if err != nil {
		respondError(c, err)
		return
	}

	s.cache.invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateBudget(c *gin.Context) {
	var payload budgetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		bindError(c, err)
		return
	}

	budget, err := payload.toBudget()
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := s.service.UpdateBudget(c.Request.Context(), c.Param("id"), budget)
	if err != nil {
		respondError(c, err)
		return
	}

	s.cache.invalidate(c.Request.Context())
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteBudget(c *gin.Context) {
	if err := s.service.DeleteBudget(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	s.cache.invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}
