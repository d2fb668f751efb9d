// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package server is the HTTP surface: queue and match actions, player
// profiles, operator bans and the health/metrics endpoints.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inexmode/arena/pkg/lifecycle"
	"github.com/inexmode/arena/pkg/rating"
	"github.com/inexmode/arena/pkg/trust"
)

// Server holds the HTTP router and its dependencies.
type Server struct {
	router  *chi.Mux
	engine  *lifecycle.Engine
	ratings *rating.Store
	history *rating.History
	trust   *trust.Engine
}

// NewServer creates the HTTP server around the lifecycle engine.
func NewServer(
	engine *lifecycle.Engine,
	ratings *rating.Store,
	history *rating.History,
	trustEngine *trust.Engine,
	registry *prometheus.Registry,
) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		engine:  engine,
		ratings: ratings,
		history: history,
		trust:   trustEngine,
	}

	s.setupRoutes(registry)
	return s
}

func (s *Server) setupRoutes(registry *prometheus.Registry) {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/queues", s.handleQueues)
		r.Post("/queues/{mode}/players", s.handleJoinQueue)
		r.Delete("/queues/players/{playerID}", s.handleLeaveQueue)

		r.Get("/matches", s.handleMatches)
		r.Get("/matches/{matchID}", s.handleMatch)
		r.Post("/matches/{matchID}/ready", s.handleReady)
		r.Post("/matches/{matchID}/cancel", s.handleCancel)
		r.Post("/matches/{matchID}/result", s.handleResult)
		r.Post("/matches/{matchID}/confirm", s.handleConfirm)
		r.Post("/matches/{matchID}/reject", s.handleReject)

		r.Post("/reports", s.handleReport)
		r.Get("/players/{playerID}", s.handlePlayer)
		r.Get("/history", s.handleHistory)

		r.Post("/admin/bans", s.handleBan)
		r.Delete("/admin/bans/{playerID}", s.handleUnban)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok")) //nolint:errcheck
}
