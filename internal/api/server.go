// Package api provides the HTTP API for playing a game session.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token when an admin key is configured.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/statecraft/internal/engine"
	"github.com/talgya/statecraft/internal/llm"
	"github.com/talgya/statecraft/internal/persistence"
)

const maxStreamConns = 8

// Server serves the game session over HTTP.
type Server struct {
	Session   *engine.Session
	Generator llm.LawGenerator
	DB        *persistence.DB // optional history recorder
	Setup     engine.Setup    // new-game defaults
	Port      int
	AdminKey  string // Bearer token for POST endpoints. Empty = open.

	CORSOrigins      []string
	DraftRatePerHour int

	upgrader    websocket.Upgrader
	streamConns atomic.Int32
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	rate := s.DraftRatePerHour
	if rate <= 0 {
		rate = 30
	}
	drafts := newQuota(rate, time.Hour)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 16 * 1024,
		CheckOrigin:     s.originAllowed,
	}

	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("GET /api/v1/state", s.handleState)
	mux.HandleFunc("GET /api/v1/news", s.handleNews)
	mux.HandleFunc("GET /api/v1/history", s.handleHistory)
	mux.HandleFunc("GET /api/v1/ministers/candidates", s.handleCandidates)
	mux.HandleFunc("GET /api/v1/actions", s.handleActionKinds)
	mux.HandleFunc("GET /api/v1/stream", s.handleStream)

	// Control endpoints.
	mux.HandleFunc("POST /api/v1/actions", s.adminOnly(s.handleAction))
	mux.HandleFunc("POST /api/v1/new-game", s.adminOnly(s.handleNewGame))
	mux.HandleFunc("POST /api/v1/laws/draft", s.adminOnly(s.metered(drafts, "draft", s.handleDraft)))

	return s.corsMiddleware(mux)
}

// Start begins serving in a goroutine. The returned server can be shut down.
func (s *Server) Start() *http.Server {
	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "history", s.DB != nil)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	return srv
}

// corsMiddleware adds CORS headers for the configured frontend origins.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && s.originAllowed(r) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// originAllowed accepts same-origin requests and the configured origins.
func (s *Server) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.CORSOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly requires the bearer token when an admin key is set.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey != "" && !s.checkBearerToken(r) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st := s.Session.State()
	if st == nil {
		writeError(w, http.StatusNotFound, "no game in progress")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	st := s.Session.State()
	if st == nil {
		writeError(w, http.StatusNotFound, "no game in progress")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"turn": st.Turn, "news_articles": st.News})
}

func (s *Server) handleActionKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"kinds": engine.ActionKinds()})
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	cands, err := s.Session.MinisterCandidates()
	if err != nil {
		writeError(w, http.StatusNotFound, "no game in progress")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": cands})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "history not available")
		return
	}
	st := s.Session.State()
	if st == nil {
		writeError(w, http.StatusNotFound, "no game in progress")
		return
	}
	limit := 30
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
	}

	resp := map[string]any{"session_id": st.ID}
	stats, err := s.DB.RecentStats(st.ID, limit)
	if err != nil {
		slog.Error("history stats query failed", "error", err)
		stats = []persistence.TurnStats{}
	}
	resp["turn_stats"] = stats
	logs, err := s.DB.RecentLogs(st.ID, limit)
	if err != nil {
		slog.Error("history log query failed", "error", err)
		logs = []persistence.LogLine{}
	}
	resp["logs"] = logs
	votes, err := s.DB.Votes(st.ID, limit)
	if err != nil {
		slog.Error("history vote query failed", "error", err)
		votes = []persistence.VoteRecord{}
	}
	resp["votes"] = votes
	elections, err := s.DB.Elections(st.ID)
	if err != nil {
		slog.Error("history election query failed", "error", err)
		elections = []persistence.ElectionRecord{}
	}
	resp["elections"] = elections
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	setup := s.Setup
	body, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &setup); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
	}
	g, err := s.Session.NewGame(setup)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slog.Info("new game", "id", g.ID, "country", g.Country.Name, "parties", len(g.Parties))
	writeJSON(w, http.StatusCreated, g)
}

// actionRequest carries the action kind plus its payload fields inline.
type actionRequest struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 256<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	a, err := engine.DecodeAction(req.Kind, req.Payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if pl, ok := a.(engine.ProposeLaw); ok {
		if err := llm.ValidateLawEffect(pl.Effect); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	next, err := s.Session.Dispatch(a)
	if err != nil {
		status := statusFor(err)
		slog.Debug("action rejected", "kind", req.Kind, "status", status, "error", err)
		writeJSON(w, status, map[string]any{"error": err.Error(), "state": next})
		return
	}
	writeJSON(w, http.StatusOK, next)
}

// statusFor maps engine errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrGameOver):
		return http.StatusGone
	case errors.Is(err, engine.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrUnknownParty), errors.Is(err, engine.ErrUnknownMinister):
		return http.StatusNotFound
	case engine.IsAffordability(err):
		return http.StatusPaymentRequired
	default:
		return http.StatusConflict
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
