// Package handlers provides HTTP handlers for expense management.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/budgetwise/internal/modules/expenses"
)

// Handler provides HTTP handlers for expense endpoints
type Handler struct {
	repo *expenses.Repository
	log  zerolog.Logger
}

// NewHandler creates a new expenses handler
func NewHandler(repo *expenses.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "expenses").Logger(),
	}
}

type expenseRequest struct {
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Note     string  `json:"note"`
}

// HandleList handles GET /api/expenses
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.GetAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list expenses")
		http.Error(w, "Failed to list expenses", http.StatusInternalServerError)
		return
	}

	writeJSON(w, items)
}

// HandleAdd handles POST /api/expenses
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id, err := h.repo.Add(req.Amount, expenses.Category(req.Category), req.Note)
	if err != nil {
		if errors.Is(err, expenses.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error().Err(err).Msg("Failed to add expense")
		http.Error(w, "Failed to add expense", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]int64{"id": id})
}

// HandleUpdate handles PUT /api/expenses/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid expense id", http.StatusBadRequest)
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err = h.repo.Update(id, req.Amount, expenses.Category(req.Category), req.Note)
	switch {
	case errors.Is(err, expenses.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, expenses.ErrNotFound):
		http.Error(w, "Expense not found", http.StatusNotFound)
	case err != nil:
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to update expense")
		http.Error(w, "Failed to update expense", http.StatusInternalServerError)
	default:
		writeJSON(w, map[string]string{"status": "updated"})
	}
}

// HandleDelete handles DELETE /api/expenses/{id}.
// Deleting an id that does not exist succeeds quietly.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid expense id", http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(id); err != nil {
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to delete expense")
		http.Error(w, "Failed to delete expense", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"status": "deleted"})
}

// HandleSummary handles GET /api/expenses/summary
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.repo.GetSummary()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build expense summary")
		http.Error(w, "Failed to build summary", http.StatusInternalServerError)
		return
	}

	writeJSON(w, summary)
}

// HandleCategories handles GET /api/expenses/categories
func (h *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, expenses.Categories)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
