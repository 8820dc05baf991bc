// Package handlers provides HTTP handlers for AI budgeting advice.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/budgetwise/internal/modules/advice"
	"github.com/aristath/budgetwise/internal/modules/expenses"
	"github.com/aristath/budgetwise/internal/modules/profile"
)

// Handler provides HTTP handlers for advice endpoints
type Handler struct {
	service      *advice.Service
	expensesRepo *expenses.Repository
	profileRepo  *profile.Repository
	log          zerolog.Logger
}

// NewHandler creates a new advice handler
func NewHandler(service *advice.Service, expensesRepo *expenses.Repository, profileRepo *profile.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		service:      service,
		expensesRepo: expensesRepo,
		profileRepo:  profileRepo,
		log:          log.With().Str("handler", "advice").Logger(),
	}
}

type adviceResponse struct {
	Advice string `json:"advice"`
}

// HandleQuestion handles POST /api/advice/question
func (h *Handler) HandleQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		http.Error(w, "Question is required", http.StatusBadRequest)
		return
	}

	text := h.service.Generate(r.Context(), advice.QuestionPrompt(question))
	writeJSON(w, adviceResponse{Advice: text})
}

// HandleBudgetPlan handles POST /api/advice/budget-plan.
// Builds the prompt from this month's stored spending breakdown.
func (h *Handler) HandleBudgetPlan(w http.ResponseWriter, r *http.Request) {
	summary, err := h.expensesRepo.GetSummary()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build expense summary")
		http.Error(w, "Failed to build summary", http.StatusInternalServerError)
		return
	}

	byCategory := make(map[string]float64, len(summary.ByCategory))
	for _, ct := range summary.ByCategory {
		byCategory[string(ct.Category)] = ct.Amount
	}

	text := h.service.Generate(r.Context(), advice.BudgetPlanPrompt(byCategory))
	writeJSON(w, adviceResponse{Advice: text})
}

// HandleProfileReview handles POST /api/advice/profile-review.
// Reads the latest saved profile; reviewing is side-effect free.
func (h *Handler) HandleProfileReview(w http.ResponseWriter, r *http.Request) {
	p, err := h.profileRepo.GetLatest()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load profile")
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, "No profile saved yet", http.StatusNotFound)
		return
	}

	text := h.service.Generate(r.Context(), advice.ProfileReviewPrompt(*p))
	writeJSON(w, adviceResponse{Advice: text})
}

// RegisterRoutes registers all advice routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/advice", func(r chi.Router) {
		r.Post("/question", h.HandleQuestion)
		r.Post("/budget-plan", h.HandleBudgetPlan)
		r.Post("/profile-review", h.HandleProfileReview)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
