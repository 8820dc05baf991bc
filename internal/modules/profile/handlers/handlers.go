// Package handlers provides HTTP handlers for the financial profile and the
// profile-setup wizard.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/budgetwise/internal/modules/expenses"
	"github.com/aristath/budgetwise/internal/modules/profile"
)

// Handler provides HTTP handlers for profile endpoints
type Handler struct {
	repo     *profile.Repository
	sessions *profile.SessionManager
	log      zerolog.Logger
}

// NewHandler creates a new profile handler
func NewHandler(repo *profile.Repository, sessions *profile.SessionManager, log zerolog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		sessions: sessions,
		log:      log.With().Str("handler", "profile").Logger(),
	}
}

// sessionResponse pairs a session with its current step prompt.
type sessionResponse struct {
	profile.Session
	StepTitle string `json:"step_title"`
}

func toResponse(s profile.Session) sessionResponse {
	return sessionResponse{Session: s, StepTitle: s.Step.Title()}
}

// HandleGetLatest handles GET /api/profile
func (h *Handler) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.GetLatest()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load profile")
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, "No profile saved yet", http.StatusNotFound)
		return
	}

	writeJSON(w, p)
}

// HandleUpdateSavingsDebt handles PUT /api/profile/savings-debt.
// Without a saved profile this succeeds without changing anything.
func (h *Handler) HandleUpdateSavingsDebt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Savings float64 `json:"savings"`
		Debt    float64 `json:"debt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.UpdateSavingsDebt(req.Savings, req.Debt); err != nil {
		h.log.Error().Err(err).Msg("Failed to update savings/debt")
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"status": "updated"})
}

// HandleCreateSession handles POST /api/wizard
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	h.log.Debug().Str("session_id", s.ID).Msg("Wizard session started")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toResponse(s))
}

// HandleGetSession handles GET /api/wizard/{id}
func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, toResponse(s))
}

// HandleNext handles POST /api/wizard/{id}/next
func (h *Handler) HandleNext(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, profile.Session.Next)
}

// HandleBack handles POST /api/wizard/{id}/back
func (h *Handler) HandleBack(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, profile.Session.Back)
}

// HandleSetIncome handles PUT /api/wizard/{id}/income
func (h *Handler) HandleSetIncome(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Income float64 `json:"income"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.transition(w, r, func(s profile.Session) profile.Session {
		return s.WithIncome(req.Income)
	})
}

// HandleSetGoals handles PUT /api/wizard/{id}/goals
func (h *Handler) HandleSetGoals(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Goal1M float64 `json:"goal_1m"`
		Goal3M float64 `json:"goal_3m"`
		Goal6M float64 `json:"goal_6m"`
		Goal1Y float64 `json:"goal_1y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.transition(w, r, func(s profile.Session) profile.Session {
		return s.WithGoals(req.Goal1M, req.Goal3M, req.Goal6M, req.Goal1Y)
	})
}

// HandleSetSavingsDebt handles PUT /api/wizard/{id}/savings-debt
func (h *Handler) HandleSetSavingsDebt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Savings float64 `json:"savings"`
		Debt    float64 `json:"debt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.transition(w, r, func(s profile.Session) profile.Session {
		return s.WithSavingsDebt(req.Savings, req.Debt)
	})
}

// HandleAddDraftExpense handles POST /api/wizard/{id}/expenses
func (h *Handler) HandleAddDraftExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
		Note     string  `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	next, err := s.AddExpense(profile.DraftExpense{
		Amount:   req.Amount,
		Category: expenses.Category(req.Category),
		Note:     req.Note,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.sessions.Put(next)
	writeJSON(w, toResponse(next))
}

// HandleSave handles POST /api/wizard/{id}/save
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	next, err := s.Save(h.repo)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", s.ID).Msg("Failed to save profile")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.sessions.Put(next)
	h.log.Info().
		Str("session_id", next.ID).
		Int64("profile_id", next.SavedProfileID).
		Msg("Profile saved from wizard")

	writeJSON(w, toResponse(next))
}

// HandleDeleteSession handles DELETE /api/wizard/{id}
func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(chi.URLParam(r, "id"))
	writeJSON(w, map[string]string{"status": "discarded"})
}

// transition applies a session transformation and stores the successor.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(profile.Session) profile.Session) {
	s, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	next := fn(s)
	h.sessions.Put(next)
	writeJSON(w, toResponse(next))
}

func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (profile.Session, bool) {
	s, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, profile.ErrSessionNotFound) {
			http.Error(w, "Wizard session not found", http.StatusNotFound)
		} else {
			http.Error(w, "Failed to load session", http.StatusInternalServerError)
		}
		return profile.Session{}, false
	}
	return s, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
