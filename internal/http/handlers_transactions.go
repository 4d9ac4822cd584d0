package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"finance/internal/core"
)

// transactionPayload is the write shape for transactions. Pointer fields
// distinguish absent values from zero values.
type transactionPayload struct {
	Amount      *core.Money `json:"amount"`
	Date        *core.Date  `json:"date"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Type        string      `json:"type"`
}

func (p transactionPayload) toTransaction() (core.Transaction, error) {
	if p.Amount == nil {
		return core.Transaction{}, core.ErrInvalidAmount
	}
	if p.Date == nil {
		return core.Transaction{}, core.ErrInvalidDate
	}
	t := core.Transaction{
		Amount:      *p.Amount,
		Date:        *p.Date,
		Description: p.Description,
		Category:    p.Category,
		Type:        core.TransactionType(p.Type),
	}
	if t.Category == "" {
		t.Category = core.FallbackCategory
	}
	if t.Type == "" {
		t.Type = core.TypeExpense
	}
	return t, t.Validate()
}

func (s *Server) listTransactions(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []core.Transaction
	if s.cache.get(ctx, cacheKeyTransactions, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	transactions, err := s.service.ListTransactions(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	s.cache.set(ctx, cacheKeyTransactions, transactions, listCacheTTL)
	c.JSON(http.StatusOK, transactions)
}

func (s *Server) getTransaction(c *gin.Context) {
	transaction, err := s.service.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func (s *Server) createTransaction(c *gin.Context) {
	var payload transactionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		bindError(c, err)
		return
	}

	transaction, err := payload.toTransaction()
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := s.service.CreateTransaction(c.Request.Context(), transaction)
	if err != nil {
		respondError(c, err)
		return
	}

	s.cache.invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateTransaction(c *gin.Context) {
	var payload transactionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		bindError(c, err)
		return
	}

	transaction, err := payload.toTransaction()
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := s.service.UpdateTransaction(c.Request.Context(), c.Param("id"), transaction)
	if err != nil {
		respondError(c, err)
		return
	}

	s.cache.invalidate(c.Request.Context())
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteTransaction(c *gin.Context) {
	if err := s.service.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	s.cache.invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// bindError distinguishes semantically invalid values, which surface as
// domain sentinels from the custom unmarshalers, from malformed JSON.
func bindError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidType):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
