// Package server adapts the chat engine to HTTP: POST /chat and
// POST /set-name, plus a health check. The transport owns the per-request
// timeout; the engine itself never enforces one.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	logx "github.com/studybuddy/server/pkg/logger"
)

const DefaultRequestTimeout = 30 * time.Second

// ChatEngine is the core contract this surface exposes over HTTP.
type ChatEngine interface {
	Chat(ctx context.Context, message, sessionID string) string
	SetName(ctx context.Context, raw, sessionID string) string
}

type Server struct {
	engine  ChatEngine
	timeout time.Duration
}

func New(engine ChatEngine, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Server{engine: engine, timeout: timeout}
}

func (s *Server) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/chat", s.handleChat).Methods("POST")
	router.HandleFunc("/set-name", s.handleSetName).Methods("POST")
	router.HandleFunc("/", s.handleHealth).Methods("GET")
}

type messageRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type nameRequest struct {
	Name      string `json:"name"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Warn().Err(err).Msg("failed to decode chat request")
		s.writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	sessionID := ensureSessionID(req.SessionID)

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	reply := s.engine.Chat(ctx, req.Message, sessionID)
	s.writeJSON(w, http.StatusOK, chatResponse{Reply: reply, SessionID: sessionID})
}

func (s *Server) handleSetName(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Warn().Err(err).Msg("failed to decode set-name request")
		s.writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	sessionID := ensureSessionID(req.SessionID)

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	reply := s.engine.SetName(ctx, req.Name, sessionID)
	s.writeJSON(w, http.StatusOK, chatResponse{Reply: reply, SessionID: sessionID})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Study Buddy Agent API running"})
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSON(w, statusCode, map[string]string{"error": message})
}

// ensureSessionID mints a short session id when the client did not send
// one, mirroring the ids the browser UI used to generate itself.
func ensureSessionID(id string) string {
	if strings.TrimSpace(id) != "" {
		return id
	}
	return "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}
