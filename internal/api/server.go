/*
Package api exposes the compensation engine and the offer store over HTTP.

ROUTER: chi

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the offer dashboard

ROUTES:
  POST   /api/compensation/calculate   Stateless calculation
  GET    /api/compensation/regime      Regime constants as sentences
  GET    /api/offers                   List offers (status, fiscal_year, candidate)
  POST   /api/offers                   Create offer
  GET    /api/offers/export.csv        CSV export of the filtered list
  GET    /api/offers/events            Server-sent change events
  GET    /api/offers/{id}              Fetch offer with recomputed result
  PUT    /api/offers/{id}              Replace offer
  DELETE /api/offers/{id}              Delete offer
  GET    /api/offers/{id}/letter.pdf   Offer letter
  GET    /healthz                      Liveness
  GET    /metrics                      Prometheus metrics

SECURITY NOTE:
  No authentication middleware. Deploy behind the internal gateway only.
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures NewRouter
type RouterOptions struct {
	AllowedOrigins []string
}

// DefaultAllowedOrigins are used when RouterOptions leaves the list empty
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", h.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/compensation", func(r chi.Router) {
			r.Post("/calculate", h.Calculate)
			r.Get("/regime", h.GetRegime)
		})

		r.Route("/offers", func(r chi.Router) {
			r.Get("/", h.ListOffers)
			r.Post("/", h.CreateOffer)
			r.Get("/export.csv", h.ExportOffersCSV)
			r.Get("/events", h.OfferEvents)
			r.Get("/{id}", h.GetOffer)
			r.Put("/{id}", h.UpdateOffer)
			r.Delete("/{id}", h.DeleteOffer)
			r.Get("/{id}/letter.pdf", h.OfferLetter)
		})
	})

	return r
}
