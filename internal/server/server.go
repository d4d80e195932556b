// Package server provides the HTTP server for the Mudra interaction
// engine: joint-frame ingest, event broadcast, and the tuning/reactions
// API.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/track"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store

	// Tuning exposes the engine's live tuning for /api/tuning. Nil
	// disables the endpoint.
	Tuning api.TuningAccess

	// Ingest receives joint frames pushed by a tracking device over
	// /api/frames. Nil disables the endpoint.
	Ingest *track.PushSource

	// Events is the broadcast hub interaction events are published on.
	// Nil disables /api/events.
	Events *EventHub
}

// Server represents the HTTP server for the Mudra engine.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Tuning != nil {
		s.mux.Handle("/api/tuning", api.NewTuningHandler(s.config.Tuning, s.config.Store))
	}

	if s.config.Store != nil {
		s.mux.Handle("/api/reactions", api.NewReactionsHandler(s.config.Store))
	}

	if s.config.Ingest != nil {
		s.mux.Handle("/api/frames", NewFramesHandler(s.config.Ingest))
	}

	if s.config.Events != nil {
		s.mux.Handle("/api/events", s.config.Events)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
