// Package handlers provides HTTP handlers for the watchlist and dashboard.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/budgetwise/internal/clients/yahoo"
	"github.com/aristath/budgetwise/internal/modules/watchlist"
)

const defaultPeriod = "1mo"

// Handler provides HTTP handlers for watchlist endpoints
type Handler struct {
	service *watchlist.Service
	log     zerolog.Logger
}

// NewHandler creates a new watchlist handler
func NewHandler(service *watchlist.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "watchlist").Logger(),
	}
}

// HandleGetSymbols handles GET /api/watchlist
func (h *Handler) HandleGetSymbols(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.service.Symbols()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load watchlist")
		http.Error(w, "Failed to load watchlist", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string][]string{"symbols": symbols})
}

// HandleSetSymbols handles PUT /api/watchlist
func (h *Handler) HandleSetSymbols(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbols []string `json:"symbols"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	symbols := make([]string, 0, len(req.Symbols))
	for _, s := range req.Symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		http.Error(w, "At least one symbol is required", http.StatusBadRequest)
		return
	}

	if err := h.service.SetSymbols(symbols); err != nil {
		h.log.Error().Err(err).Msg("Failed to update watchlist")
		http.Error(w, "Failed to update watchlist", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string][]string{"symbols": symbols})
}

// HandleHistory handles GET /api/watchlist/history/{symbol}?period=
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	period := periodParam(r)
	if !yahoo.ValidPeriod(period) {
		http.Error(w, "Unsupported period", http.StatusBadRequest)
		return
	}

	history, err := h.service.History(r.Context(), symbol, period)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to fetch history")
		http.Error(w, "Failed to fetch history", http.StatusBadGateway)
		return
	}

	writeJSON(w, history)
}

// HandleDashboard handles GET /api/dashboard?period=
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	period := periodParam(r)
	if !yahoo.ValidPeriod(period) {
		http.Error(w, "Unsupported period", http.StatusBadRequest)
		return
	}

	dashboard, err := h.service.Overview(r.Context(), period)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build dashboard")
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}

	writeJSON(w, dashboard)
}

// RegisterRoutes registers watchlist and dashboard routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/watchlist", func(r chi.Router) {
		r.Get("/", h.HandleGetSymbols)
		r.Put("/", h.HandleSetSymbols)
		r.Get("/history/{symbol}", h.HandleHistory)
	})
	r.Get("/dashboard", h.HandleDashboard)
}

func periodParam(r *http.Request) string {
	if p := r.URL.Query().Get("period"); p != "" {
		return p
	}
	return defaultPeriod
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
