package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/budgetwise/internal/modules/expenses"
)

const testSchema = `
CREATE TABLE expenses (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    amount     REAL NOT NULL CHECK (amount > 0),
    category   TEXT NOT NULL,
    note       TEXT,
    created_at INTEGER NOT NULL
);
`

func setupTestRouter(t *testing.T) chi.Router {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	repo := expenses.NewRepository(db, zerolog.Nop())
	handler := NewHandler(repo, zerolog.Nop())

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router chi.Router, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleAddAndList(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "POST", "/expenses", `{"amount": 42.5, "category": "Food", "note": "groceries"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var created map[string]int64
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, int64(1), created["id"])

	w = doJSON(t, router, "GET", "/expenses", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var items []expenses.Expense
	require.NoError(t, json.NewDecoder(w.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, 42.5, items[0].Amount)
	assert.Equal(t, expenses.CategoryFood, items[0].Category)
}

func TestHandleAddRejectsInvalid(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "POST", "/expenses", `{"amount": -5, "category": "Food"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "POST", "/expenses", `{"amount": 5, "category": "Gambling"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "POST", "/expenses", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpdate(t *testing.T) {
	router := setupTestRouter(t)

	doJSON(t, router, "POST", "/expenses", `{"amount": 10, "category": "Food"}`)

	w := doJSON(t, router, "PUT", "/expenses/1", `{"amount": 12.5, "category": "Transport", "note": "bus"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "PUT", "/expenses/999", `{"amount": 5, "category": "Food"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, "PUT", "/expenses/abc", `{"amount": 5, "category": "Food"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDeleteIsIdempotent(t *testing.T) {
	router := setupTestRouter(t)

	doJSON(t, router, "POST", "/expenses", `{"amount": 10, "category": "Rent"}`)

	w := doJSON(t, router, "DELETE", "/expenses/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	// Deleting again still succeeds
	w = doJSON(t, router, "DELETE", "/expenses/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleSummary(t *testing.T) {
	router := setupTestRouter(t)

	doJSON(t, router, "POST", "/expenses", `{"amount": 30, "category": "Food"}`)
	doJSON(t, router, "POST", "/expenses", `{"amount": 70, "category": "Rent"}`)

	w := doJSON(t, router, "GET", "/expenses/summary", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var summary expenses.Summary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Equal(t, 100.0, summary.Total)
	assert.Equal(t, 2, summary.Count)
	require.Len(t, summary.ByCategory, 2)
	assert.Equal(t, expenses.CategoryRent, summary.ByCategory[0].Category)
}

func TestHandleCategories(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/expenses/categories", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "Food"))
	assert.True(t, strings.Contains(w.Body.String(), "Other"))
}
