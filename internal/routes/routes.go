package routes

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"paint-matcher/internal/handler"
	"paint-matcher/internal/middleware"
)

// Setup registriert globale Middleware sowie die Katalog- und Abgleich-Endpunkte am Router.
func Setup(r chi.Router, paints *handler.PaintHandler, matches *handler.MatchHandler, logger *zap.Logger, rps float64) {
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.RateLimit(rps, logger))

	r.Route("/paints", func(r chi.Router) {
		r.Get("/", paints.GetAll)
		r.Post("/", paints.Create)
		r.Get("/{id}", paints.GetByID)
		r.Get("/brand/{brand}", paints.GetByBrand)
	})
	r.Get("/brands", paints.Brands)
	r.Post("/match", matches.Match)
}
