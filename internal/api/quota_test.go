package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/talgya/statecraft/internal/llm"
)

func TestQuotaSlidingWindow(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	q := newQuota(2, time.Hour)
	q.now = func() time.Time { return now }

	if ok, _ := q.take("a"); !ok {
		t.Fatal("first call refused")
	}
	now = t0.Add(30 * time.Minute)
	if ok, _ := q.take("a"); !ok {
		t.Fatal("second call refused")
	}
	now = t0.Add(45 * time.Minute)
	ok, wait := q.take("a")
	if ok {
		t.Fatal("third call inside the window allowed")
	}
	if wait != 15*time.Minute {
		t.Errorf("wait = %v, want 15m", wait)
	}
	if ok, _ := q.take("b"); !ok {
		t.Error("other key charged")
	}

	// The first call has left the window; the second still counts.
	now = t0.Add(time.Hour)
	if ok, _ := q.take("a"); !ok {
		t.Error("call refused after the oldest expired")
	}
	if ok, _ := q.take("a"); ok {
		t.Error("window forgot the second call")
	}
}

func TestQuotaPrunesIdleKeys(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	q := newQuota(1, time.Hour)
	q.now = func() time.Time { return now }

	for i := 0; i <= maxQuotaKeys; i++ {
		q.take(fmt.Sprintf("client-%d", i))
	}
	if len(q.calls) != maxQuotaKeys+1 {
		t.Fatalf("keys = %d, live keys pruned", len(q.calls))
	}
	now = t0.Add(2 * time.Hour)
	q.take("fresh")
	if len(q.calls) != 1 {
		t.Errorf("keys = %d after pruning, want 1", len(q.calls))
	}
}

func TestDraftQuotaChargedPerGame(t *testing.T) {
	s, ts := newTestServer(t, llm.OfflineDrafter{})
	draft := func() *http.Response {
		resp, _ := do(t, ts, "POST", "/api/v1/laws/draft", `{"law_name": "Green Act"}`, true)
		return resp
	}

	if _, err := s.Session.NewGame(s.Setup); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if resp := draft(); resp.StatusCode != http.StatusOK {
			t.Fatalf("draft %d = %d", i+1, resp.StatusCode)
		}
	}
	resp := draft()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("third draft = %d, want 429", resp.StatusCode)
	}
	if got := resp.Header.Get("Retry-After"); got != "3601" && got != "3600" {
		t.Errorf("Retry-After = %q", got)
	}

	if _, err := s.Session.NewGame(s.Setup); err != nil {
		t.Fatal(err)
	}
	if resp := draft(); resp.StatusCode != http.StatusOK {
		t.Errorf("draft in a new game = %d, want 200", resp.StatusCode)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.7:5123"
	if got := clientIP(r); got != "10.0.0.7" {
		t.Errorf("peer ip = %q", got)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientIP(r); got != "203.0.113.9" {
		t.Errorf("forwarded ip = %q", got)
	}
}
