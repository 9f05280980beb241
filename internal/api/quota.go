package api

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// maxQuotaKeys bounds the key map before spent entries are pruned.
const maxQuotaKeys = 1024

// quota admits at most limit calls per key over any trailing window.
// Drafts spend LLM calls, so they are charged to the game in progress.
type quota struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	calls  map[string][]time.Time // oldest first
	now    func() time.Time
}

func newQuota(limit int, window time.Duration) *quota {
	return &quota{
		limit:  limit,
		window: window,
		calls:  make(map[string][]time.Time),
		now:    time.Now,
	}
}

// take charges one call to key. When the quota is spent it reports false
// and the wait until the oldest counted call leaves the window.
func (q *quota) take(key string) (bool, time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	cutoff := now.Add(-q.window)
	log := q.calls[key]
	i := 0
	for i < len(log) && !log[i].After(cutoff) {
		i++
	}
	log = log[i:]
	if len(log) >= q.limit {
		q.calls[key] = log
		return false, log[0].Sub(cutoff)
	}
	q.calls[key] = append(log, now)
	if len(q.calls) > maxQuotaKeys {
		q.pruneLocked(cutoff)
	}
	return true, 0
}

// pruneLocked drops keys with no call inside the window. Called with mu held.
func (q *quota) pruneLocked(cutoff time.Time) {
	for k, log := range q.calls {
		if len(log) == 0 || !log[len(log)-1].After(cutoff) {
			delete(q.calls, k)
		}
	}
}

// quotaKey names who pays for a request: the running game, or the client
// address when no game is in progress.
func (s *Server) quotaKey(scope string, r *http.Request) string {
	if id := s.Session.GameID(); id != "" {
		return scope + "/game/" + id
	}
	return scope + "/client/" + clientIP(r)
}

// metered charges each request to q under scope and answers 429 with a
// Retry-After once the quota is spent.
func (s *Server) metered(q *quota, scope string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := s.quotaKey(scope, r)
		if ok, wait := q.take(key); !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(wait/time.Second)+1))
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":     scope + " quota spent",
				"retryable": true,
			})
			slog.Warn("quota spent", "scope", scope, "key", key, "retry_in", wait.Round(time.Second))
			return
		}
		next(w, r)
	}
}

// clientIP prefers the first X-Forwarded-For hop, then the peer address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
