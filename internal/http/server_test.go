package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"finance/internal/config"
	"finance/internal/core"
	"finance/internal/services"
	"finance/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "finance.db"))
	if err != nil {
		t.Fatalf("failed to open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	cfg := &config.Config{
		Port:        "0",
		CORSOrigins: []string{"http://localhost:3000"},
	}
	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	return NewServer(cfg, services.NewRecordService(repo, nil), logger)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", w.Code)
	}
}

func TestListCategories(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/api/categories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	categories := decode[[]core.Category](t, w)
	if len(categories) != 10 {
		t.Errorf("got %d categories, want 10", len(categories))
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"amount":      42.5,
		"date":        "2024-03-15",
		"description": "groceries",
		"category":    "food",
		"type":        "expense",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	created := decode[core.Transaction](t, w)
	if created.ID == "" {
		t.Fatal("created transaction has no id")
	}
	if created.Amount.Cents != 4250 {
		t.Errorf("amount = %d cents, want 4250", created.Amount.Cents)
	}

	w = doJSON(t, srv, http.MethodGet, "/api/transactions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	list := decode[[]core.Transaction](t, w)
	if len(list) != 1 {
		t.Fatalf("got %d transactions, want 1", len(list))
	}
	got := list[0]
	if got.ID != created.ID || got.Description != "groceries" || got.Category != "food" || got.Type != core.TypeExpense {
		t.Errorf("listed transaction %+v does not match created %+v", got, created)
	}
	if got.Date.Calendar() != "2024-03-15" {
		t.Errorf("date = %s, want 2024-03-15", got.Date.Calendar())
	}
}

func TestTransactionValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{
			name: "missing amount",
			body: map[string]any{"date": "2024-03-15", "description": "x"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "negative amount",
			body: map[string]any{"amount": -5, "date": "2024-03-15"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "missing date",
			body: map[string]any{"amount": 10},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "garbage date",
			body: map[string]any{"amount": 10, "date": "not-a-date"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown type",
			body: map[string]any{"amount": 10, "date": "2024-03-15", "type": "transfer"},
			want: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, srv, http.MethodPost, "/api/transactions", tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestTransactionDefaults(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"amount": 7,
		"date":   "2024-01-02",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	created := decode[core.Transaction](t, w)
	if created.Category != core.FallbackCategory {
		t.Errorf("category = %s, want %s", created.Category, core.FallbackCategory)
	}
	if created.Type != core.TypeExpense {
		t.Errorf("type = %s, want expense", created.Type)
	}
}

func TestTransactionNotFound(t *testing.T) {
	srv := newTestServer(t)

	if w := doJSON(t, srv, http.MethodGet, "/api/transactions/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("get status = %d, want 404", w.Code)
	}
	if w := doJSON(t, srv, http.MethodDelete, "/api/transactions/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("delete status = %d, want 404", w.Code)
	}

	body := map[string]any{"amount": 1, "date": "2024-01-01"}
	if w := doJSON(t, srv, http.MethodPut, "/api/transactions/missing", body); w.Code != http.StatusNotFound {
		t.Errorf("update status = %d, want 404", w.Code)
	}
}

func TestDeleteIsIdempotentOnCollection(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"amount": 3, "date": "2024-05-05",
	})
	created := decode[core.Transaction](t, w)

	if w := doJSON(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("first delete status = %d", w.Code)
	}
	if w := doJSON(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}

	list := decode[[]core.Transaction](t, doJSON(t, srv, http.MethodGet, "/api/transactions", nil))
	if len(list) != 0 {
		t.Errorf("collection has %d entries after delete, want 0", len(list))
	}
}

func TestBudgetValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{
			name: "valid",
			body: map[string]any{"category": "food", "amount": 300, "month": "03", "year": 2024},
			want: http.StatusCreated,
		},
		{
			name: "missing category",
			body: map[string]any{"amount": 300, "month": "03", "year": 2024},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "month out of range",
			body: map[string]any{"category": "food", "amount": 300, "month": "13", "year": 2024},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "zero year",
			body: map[string]any{"category": "food", "amount": 300, "month": "03", "year": 0},
			want: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, srv, http.MethodPost, "/api/budgets", tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t)

	seed := []map[string]any{
		{"amount": 1000, "date": "2024-03-01", "type": "income", "category": "salary"},
		{"amount": 200, "date": "2024-03-10", "type": "expense", "category": "food"},
		{"amount": 50, "date": "2024-02-20", "type": "expense", "category": "transport"},
	}
	for _, body := range seed {
		if w := doJSON(t, srv, http.MethodPost, "/api/transactions", body); w.Code != http.StatusCreated {
			t.Fatalf("seed failed: %d %s", w.Code, w.Body.String())
		}
	}
	budget := map[string]any{"category": "food", "amount": 300, "month": "03", "year": 2024}
	if w := doJSON(t, srv, http.MethodPost, "/api/budgets", budget); w.Code != http.StatusCreated {
		t.Fatalf("budget seed failed: %d", w.Code)
	}

	w := doJSON(t, srv, http.MethodGet, "/api/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", w.Code)
	}
	dash := decode[core.Dashboard](t, w)

	if dash.TotalIncome.Cents != 100000 {
		t.Errorf("total income = %d, want 100000", dash.TotalIncome.Cents)
	}
	if dash.TotalExpense.Cents != 25000 {
		t.Errorf("total expense = %d, want 25000", dash.TotalExpense.Cents)
	}
	if dash.Net.Cents != 75000 {
		t.Errorf("net = %d, want 75000", dash.Net.Cents)
	}
	if len(dash.Monthly) != 2 {
		t.Fatalf("got %d monthly points, want 2", len(dash.Monthly))
	}
	if dash.Monthly[0].Label != "Feb 2024" || dash.Monthly[1].Label != "Mar 2024" {
		t.Errorf("monthly series out of order: %q then %q", dash.Monthly[0].Label, dash.Monthly[1].Label)
	}
	if len(dash.Budgets) != 1 {
		t.Fatalf("got %d budget rows, want 1", len(dash.Budgets))
	}
	if u := dash.Budgets[0]; u.Spent.Cents != 20000 || u.Remaining.Cents != 10000 {
		t.Errorf("utilization spent=%d remaining=%d, want 20000/10000", u.Spent.Cents, u.Remaining.Cents)
	}
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(rateLimiter(3, time.Minute))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
}
