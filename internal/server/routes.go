package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Pit Trivia API", "/openapi.json", "/docs"))
	if deps.Health != nil {
		r.Mount("/healthz", deps.Health.Routes())
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api/categories", handleListCategories(logger, deps.Categories))

	r.Route("/api/admin/categories", func(r chi.Router) {
		r.Use(adminAuthMiddleware(deps.AdminPasswordHash))
		r.Get("/", handleAdminListCategories(logger, deps.Categories))
		r.Post("/", handleAdminSaveCategories(logger, deps.Categories))
	})

	r.Route("/api/games", func(r chi.Router) {
		r.Post("/", handleCreateGame(logger, deps.Games))
		r.Get("/{gameID}", handleGetGame(logger, deps.Games))
		r.Delete("/{gameID}", handleAbandonGame(logger, deps.Games))
		r.Post("/{gameID}/questions", handleSelectQuestion(logger, deps.Games))
		r.Post("/{gameID}/actions", handleAction(logger, deps.Games))
		r.Post("/{gameID}/close", handleCloseQuestion(logger, deps.Games))
		r.Get("/{gameID}/events", handleEvents(deps.Games, deps.Broker))
		r.Get("/{gameID}/ws", handleGameWS(logger, deps.Games, deps.Broker))
	})
}
