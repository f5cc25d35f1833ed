// Package server exposes the PhysioCheck HTTP API: session history, live rep
// updates over WebSocket, the camera preview stream and session controls.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/capture"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/exercise"
	"github.com/sanchittttttt/NewPhysioCheck-sub001/internal/store"
)

// Status describes the running session as reported by the controller.
type Status struct {
	Running    bool   `json:"running"`
	SessionID  string `json:"sessionId"`
	Kind       string `json:"kind"`
	Side       string `json:"side"`
	Difficulty string `json:"difficulty"`
	RepCount   int    `json:"repCount"`
}

// Controller is the part of the application the API can steer.
type Controller interface {
	SetDifficulty(difficulty string) error
	SetDetection(enabled bool)
	Status() Status
}

// Config holds the server dependencies.
type Config struct {
	Store      *store.Store
	Camera     capture.Camera
	Hub        *Hub
	Controller Controller
	Log        logrus.FieldLogger
}

// Server is the PhysioCheck HTTP server.
type Server struct {
	config Config
	router chi.Router
	start  time.Time
}

// New creates a Server with all routes configured.
func New(config Config) *Server {
	if config.Log == nil {
		config.Log = logrus.StandardLogger()
	}
	s := &Server{
		config: config,
		router: chi.NewRouter(),
		start:  time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.config.Log))
	s.router.Use(CORS)

	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/exercises", s.handleExercises)

	if s.config.Store != nil {
		s.router.Get("/api/sessions", s.handleListSessions)
		s.router.Get("/api/sessions/{id}", s.handleGetSession)
		s.router.Get("/api/sessions/{id}/reps", s.handleListReps)
	}

	if s.config.Controller != nil {
		s.router.Get("/api/status", s.handleStatus)
		s.router.Post("/api/difficulty", s.handleSetDifficulty)
		s.router.Post("/api/detection", s.handleSetDetection)
	}

	if s.config.Hub != nil {
		s.router.Get("/api/live", s.config.Hub.ServeHTTP)
	}

	if s.config.Camera != nil {
		s.router.Get("/api/stream", NewStreamHandler(s.config.Camera).ServeHTTP)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	kinds := exercise.Kinds()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	writeJSON(w, http.StatusOK, map[string]any{"exercises": out})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.config.Store.Sessions().List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.config.Store.Sessions().GetByID(chi.URLParam(r, "id"))
	if err == store.ErrNotFound {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleListReps(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.config.Store.Sessions().GetByID(id); err != nil {
		if err == store.ErrNotFound {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	reps, err := s.config.Store.Reps().ListBySession(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, reps)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.config.Controller.Status())
}

func (s *Server) handleSetDifficulty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Difficulty string `json:"difficulty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.config.Controller.SetDifficulty(req.Difficulty); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.config.Controller.Status())
}

func (s *Server) handleSetDetection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.config.Controller.SetDetection(req.Enabled)
	writeJSON(w, http.StatusOK, s.config.Controller.Status())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
