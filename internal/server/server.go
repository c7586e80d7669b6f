// Package server provides the HTTP layer: a thin chi router over the engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

type Config struct {
	Log     zerolog.Logger
	Service brokerService
	Port    int
}

type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
}

func New(cfg Config) *Server {
	log := cfg.Log.With().Str("component", "server").Logger()
	handlers := newHandlers(cfg.Service, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(requestLogger(log))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	router.Get("/health", handlers.health)
	router.Route("/api", func(r chi.Router) {
		r.Get("/portfolio/{userId}", handlers.getPortfolio)
		r.Post("/orders", handlers.submitOrder)
		r.Get("/instruments", handlers.searchInstruments)
	})

	return &Server{
		router: router,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
