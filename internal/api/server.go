// Package api wires the HTTP surface of the scheduling service.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/carwyn/sixnations/internal/api/handler"
	"github.com/carwyn/sixnations/internal/config"
)

// NewRouter builds the chi router with the full middleware stack and all
// API routes. Mutating routes sit behind the admin token when one is set.
func NewRouter(h *handler.Handler, cfg *config.ServerConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware(logger))
	r.Use(middleware.Recoverer)

	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Get("/health", h.Health)
	r.Get("/health/db", h.HealthDB)

	admin := RequireAdmin(cfg.AdminToken)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.ListTeams)
			r.Get("/{id}", h.GetTeam)
			r.With(admin).Post("/", h.CreateTeam)
			r.With(admin).Put("/{id}", h.UpdateTeam)
			r.With(admin).Delete("/{id}", h.DeleteTeam)
		})

		r.Route("/stadiums", func(r chi.Router) {
			r.Get("/", h.ListStadiums)
			r.Get("/{id}", h.GetStadium)
			r.With(admin).Post("/", h.CreateStadium)
			r.With(admin).Put("/{id}", h.UpdateStadium)
			r.With(admin).Delete("/{id}", h.DeleteStadium)
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.ListPlayers)
			r.Get("/{id}", h.GetPlayer)
			r.With(admin).Post("/", h.CreatePlayer)
			r.With(admin).Put("/{id}", h.UpdatePlayer)
			r.With(admin).Delete("/{id}", h.DeletePlayer)
		})

		r.Route("/fixtures", func(r chi.Router) {
			r.Get("/", h.ListFixtures)
			r.Get("/{id}", h.GetFixture)
			r.With(admin).Delete("/{id}", h.DeleteFixture)
		})

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/provisional", h.ListProvisional)
			r.With(admin).Post("/generate", h.GenerateSchedule)
			r.With(admin).Post("/promote", h.PromoteSchedule)
			r.With(admin).Delete("/provisional", h.DiscardProvisional)
		})
	})

	return r
}
