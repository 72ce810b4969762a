// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the query pipeline over HTTP: Tellico XML for the
// collection manager, an HTML table for browsing, and JSON.
package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pdiddy/bgg-tellico/internal/fetch"
	"github.com/pdiddy/bgg-tellico/pkg/types"
)

// Server holds the HTTP server dependencies.
type Server struct {
	src    fetch.Source
	cfg    types.FetchConfig
	serve  types.ServeConfig
	log    io.Writer
	router chi.Router
}

// New creates a server answering queries from src.
func New(src fetch.Source, cfg types.FetchConfig, serve types.ServeConfig, logw io.Writer) *Server {
	if logw == nil {
		logw = io.Discard
	}
	s := &Server{
		src:    src,
		cfg:    cfg,
		serve:  serve,
		log:    logw,
		router: chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  log.New(s.log, "", log.LstdFlags),
		NoColor: true,
	}))
	s.router.Use(middleware.Recoverer)

	origins := s.serve.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/search", s.handleSearch)
	s.router.Get("/games", s.handleGamesTable)
	s.router.Get("/games.json", s.handleGamesJSON)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
