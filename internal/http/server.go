package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"finance/internal/config"
	"finance/internal/core"
	"finance/internal/services"
)

// Server exposes the record service as a JSON API.
type Server struct {
	service *services.RecordService
	cache   *responseCache
	engine  *gin.Engine
	logger  *slog.Logger
	httpSrv *http.Server
}

func NewServer(cfg *config.Config, service *services.RecordService, logger *slog.Logger) *Server {
	s := &Server{
		service: service,
		cache:   newResponseCache(cfg.RedisAddr, logger),
		logger:  logger.With("component", "http"),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(s.logger))
	engine.Use(rateLimiter(60, time.Minute))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(cors.New(corsConfig))

	engine.GET("/health", s.health)

	api := engine.Group("/api")
	{
		api.GET("/categories", s.listCategories)

		api.GET("/transactions", s.listTransactions)
		api.POST("/transactions", s.createTransaction)
		api.GET("/transactions/:id", s.getTransaction)
		api.PUT("/transactions/:id", s.updateTransaction)
		api.DELETE("/transactions/:id", s.deleteTransaction)

		api.GET("/budgets", s.listBudgets)
		api.POST("/budgets", s.createBudget)
		api.GET("/budgets/:id", s.getBudget)
		api.PUT("/budgets/:id", s.updateBudget)
		api.DELETE("/budgets/:id", s.deleteBudget)

		api.GET("/dashboard", s.dashboard)
	}

	s.engine = engine
	s.httpSrv = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the underlying router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run() error {
	s.logger.Info("starting HTTP server", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "finance-api",
	})
}

func (s *Server) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, core.Categories)
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidMonth),
		errors.Is(err, core.ErrInvalidYear),
		errors.Is(err, core.ErrMissingCategory):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
