package server

import (
	"net/http"

	"github.com/MahdiRahman4/CodeJam2025/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func NewRouter(s *TrackerServer, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler)

	r.Get("/healthz", s.Health)
	r.Handle("/metrics", promhttp.Handler())

	rpcPath, rpcHandler := NewRPCHandler(s)
	r.Mount(rpcPath, rpcHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ingest", s.Ingest)
		r.Get("/leaderboard", s.Leaderboard)
		r.Get("/players/by-handle/{gameName}/{tagLine}", s.PlayerByHandle)
		r.Route("/players/{puuid}", func(r chi.Router) {
			r.Get("/", s.Player)
			r.Get("/summary", s.PlayerSummary)
			r.Get("/matches", s.PlayerMatches)
			r.Get("/runs", s.PlayerRuns)
		})
		r.Get("/rivals/{puuid}/{rivalPuuid}", s.Rivals)
	})

	return r
}
