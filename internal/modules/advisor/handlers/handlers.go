// Package handlers provides HTTP handlers for trade recommendations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/budgetwise/internal/clients/yahoo"
	"github.com/aristath/budgetwise/internal/modules/advisor"
)

// Handler provides HTTP handlers for advisor endpoints
type Handler struct {
	advisor  *advisor.Advisor
	service  *advisor.Service
	tradeLog *advisor.TradeLogRepository
	log      zerolog.Logger
}

// NewHandler creates a new advisor handler
func NewHandler(adv *advisor.Advisor, service *advisor.Service, tradeLog *advisor.TradeLogRepository, log zerolog.Logger) *Handler {
	return &Handler{
		advisor:  adv,
		service:  service,
		tradeLog: tradeLog,
		log:      log.With().Str("handler", "advisor").Logger(),
	}
}

// HandleRecommend handles POST /api/advisor/recommend.
// Takes an explicit sentiment score and cash inputs.
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol    string  `json:"symbol"`
		Sentiment float64 `json:"sentiment"`
		Mode      string  `json:"mode"`
		Income    float64 `json:"income"`
		Savings   float64 `json:"savings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	mode, err := advisor.ParseRiskMode(req.Mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.advisor.Recommend(r.Context(), req.Symbol, req.Sentiment, mode, req.Income, req.Savings)
	switch {
	case errors.Is(err, advisor.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, yahoo.ErrPriceUnavailable):
		http.Error(w, err.Error(), http.StatusBadGateway)
	case err != nil:
		h.log.Error().Err(err).Str("symbol", req.Symbol).Msg("Recommendation failed")
		http.Error(w, "Recommendation failed", http.StatusInternalServerError)
	default:
		writeJSON(w, rec)
	}
}

// HandleAnalyze handles POST /api/advisor/analyze.
// Runs the full news-sentiment-recommendation pipeline per symbol.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbols []string `json:"symbols"`
		Mode    string   `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Symbols) == 0 {
		http.Error(w, "At least one symbol is required", http.StatusBadRequest)
		return
	}

	mode, err := advisor.ParseRiskMode(req.Mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, h.service.AnalyzeSymbols(r.Context(), req.Symbols, mode))
}

// HandleGetTrades handles GET /api/advisor/trades
func (h *Handler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	var (
		entries []advisor.TradeLogEntry
		err     error
	)
	if symbol := r.URL.Query().Get("symbol"); symbol != "" {
		entries, err = h.tradeLog.GetTradeLogsBySymbol(symbol, limit)
	} else {
		entries, err = h.tradeLog.GetTradeLogs(limit)
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get trade logs")
		http.Error(w, "Failed to get trade logs", http.StatusInternalServerError)
		return
	}

	if entries == nil {
		entries = []advisor.TradeLogEntry{}
	}
	writeJSON(w, entries)
}

// RegisterRoutes registers all advisor routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/advisor", func(r chi.Router) {
		r.Post("/recommend", h.HandleRecommend)
		r.Post("/analyze", h.HandleAnalyze)
		r.Get("/trades", h.HandleGetTrades)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
