package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers profile and wizard routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.Get("/", h.HandleGetLatest)
		r.Put("/savings-debt", h.HandleUpdateSavingsDebt)
	})

	r.Route("/wizard", func(r chi.Router) {
		r.Post("/", h.HandleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGetSession)
			r.Delete("/", h.HandleDeleteSession)
			r.Post("/next", h.HandleNext)
			r.Post("/back", h.HandleBack)
			r.Put("/income", h.HandleSetIncome)
			r.Put("/goals", h.HandleSetGoals)
			r.Put("/savings-debt", h.HandleSetSavingsDebt)
			r.Post("/expenses", h.HandleAddDraftExpense)
			r.Post("/save", h.HandleSave)
		})
	})
}
