package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all expense routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleAdd)
		r.Get("/summary", h.HandleSummary)
		r.Get("/categories", h.HandleCategories)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}
