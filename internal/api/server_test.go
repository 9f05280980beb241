package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/statecraft/internal/engine"
	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/llm"
	"github.com/talgya/statecraft/internal/persistence"
	"github.com/talgya/statecraft/internal/world"
)

const adminKey = "test-admin"

type stubGenerator struct {
	eff world.LawEffect
	err error
}

func (g stubGenerator) Generate(context.Context, string, string) (world.LawEffect, error) {
	return g.eff, g.err
}

func newTestServer(t *testing.T, gen llm.LawGenerator) (*Server, *httptest.Server) {
	t.Helper()
	eng := engine.New(entropy.NewSeeded(11), engine.WithLogger(slog.New(slog.DiscardHandler)))
	sess := engine.NewSession(eng)

	db, err := persistence.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	sess.OnCommit = func(prev, next *world.GameState, a engine.Action) {
		kind := "new_game"
		if a != nil {
			kind = a.Kind()
		}
		if err := db.Record(prev, next, kind); err != nil {
			t.Errorf("record: %v", err)
		}
	}

	s := &Server{
		Session:          sess,
		Generator:        gen,
		DB:               db,
		Setup:            engine.Setup{PlayerParty: "Civic Union", PlayerIdeology: world.CenterRight},
		AdminKey:         adminKey,
		CORSOrigins:      []string{"http://localhost:5173"},
		DraftRatePerHour: 2,
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string, auth bool) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+adminKey)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out map[string]any
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if buf.Len() > 0 {
		if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: body %q: %v", method, path, buf.String(), err)
		}
	}
	return resp, out
}

func TestGameFlowOverHTTP(t *testing.T) {
	_, ts := newTestServer(t, llm.OfflineDrafter{})

	if resp, _ := do(t, ts, "GET", "/api/v1/state", "", false); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("state before game = %d", resp.StatusCode)
	}
	if resp, _ := do(t, ts, "POST", "/api/v1/new-game", "", false); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated new game = %d", resp.StatusCode)
	}
	resp, game := do(t, ts, "POST", "/api/v1/new-game", "", true)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("new game = %d %v", resp.StatusCode, game)
	}
	if game["turn"].(float64) != 1 || game["status"] != "Playing" {
		t.Errorf("new game = %v", game)
	}

	resp, st := do(t, ts, "POST", "/api/v1/actions", `{"kind": "set_budget_tier", "payload": {"item": "tax", "level": "low"}}`, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("budget = %d %v", resp.StatusCode, st)
	}

	resp, body := do(t, ts, "POST", "/api/v1/actions", `{"kind": "convert_funds"}`, true)
	if resp.StatusCode != http.StatusPaymentRequired || body["state"] == nil {
		t.Errorf("convert funds = %d %v", resp.StatusCode, body)
	}

	resp, body = do(t, ts, "POST", "/api/v1/actions", `{"kind": "seize_power"}`, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown action = %d %v", resp.StatusCode, body)
	}

	bad := `{"kind": "propose_law", "payload": {"law_name": "Purge Act", "law_description": "x",
		"law_effect": {"resource_changes": {}, "faction_happiness_changes": {}, "effects": {"buff": [], "debuff": []},
		"party_effects": [{"target_party_name": "ALL_OPPOSITION", "action": "imprison"}]}}}`
	if resp, body = do(t, ts, "POST", "/api/v1/actions", bad, true); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid law effect = %d %v", resp.StatusCode, body)
	}

	if resp, body = do(t, ts, "POST", "/api/v1/actions", `{"kind": "advance_turn"}`, true); resp.StatusCode != http.StatusOK || body["turn"].(float64) != 2 {
		t.Errorf("advance = %d %v", resp.StatusCode, body)
	}

	resp, cands := do(t, ts, "GET", "/api/v1/ministers/candidates", "", false)
	if resp.StatusCode != http.StatusOK || len(cands["candidates"].([]any)) != 3 {
		t.Errorf("candidates = %d %v", resp.StatusCode, cands)
	}

	resp, news := do(t, ts, "GET", "/api/v1/news", "", false)
	if resp.StatusCode != http.StatusOK || len(news["news_articles"].([]any)) == 0 {
		t.Errorf("news = %d %v", resp.StatusCode, news)
	}

	resp, hist := do(t, ts, "GET", "/api/v1/history?limit=50", "", false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history = %d", resp.StatusCode)
	}
	if stats := hist["turn_stats"].([]any); len(stats) != 2 {
		t.Errorf("turn stats rows = %d, want 2", len(stats))
	}
	if logs := hist["logs"].([]any); len(logs) == 0 {
		t.Error("no log lines recorded")
	}
}

func TestDraftEndpoint(t *testing.T) {
	t.Run("offline", func(t *testing.T) {
		_, ts := newTestServer(t, llm.OfflineDrafter{})
		resp, body := do(t, ts, "POST", "/api/v1/laws/draft", `{"law_name": "Green Act", "law_description": "Protect the environment."}`, true)
		if resp.StatusCode != http.StatusOK || body["law_effect"] == nil {
			t.Fatalf("draft = %d %v", resp.StatusCode, body)
		}
		if resp, _ := do(t, ts, "POST", "/api/v1/laws/draft", `{"law_description": "nameless"}`, true); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("nameless draft = %d", resp.StatusCode)
		}
		// Two requests per hour are allowed; both are spent.
		resp, body = do(t, ts, "POST", "/api/v1/laws/draft", `{"law_name": "Green Act"}`, true)
		if resp.StatusCode != http.StatusTooManyRequests || resp.Header.Get("Retry-After") == "" {
			t.Errorf("third draft = %d %v", resp.StatusCode, body)
		}
	})
	t.Run("generator failure", func(t *testing.T) {
		gen := stubGenerator{err: errors.Join(errors.New("llm: draft"), &llm.StatusError{Code: 529, Body: "overloaded"})}
		s, ts := newTestServer(t, gen)
		if _, err := s.Session.NewGame(s.Setup); err != nil {
			t.Fatal(err)
		}
		before := s.Session.State()
		resp, body := do(t, ts, "POST", "/api/v1/laws/draft", `{"law_name": "Act"}`, true)
		if resp.StatusCode != http.StatusBadGateway || body["retryable"] != true {
			t.Errorf("failed draft = %d %v", resp.StatusCode, body)
		}
		if after := s.Session.State(); after.Turn != before.Turn || len(after.Logs) != len(before.Logs) {
			t.Error("failed draft changed the game")
		}
	})
}

func TestCORS(t *testing.T) {
	_, ts := newTestServer(t, llm.OfflineDrafter{})
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/state", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("preflight = %d %q", resp.StatusCode, resp.Header.Get("Access-Control-Allow-Origin"))
	}

	req.Header.Set("Origin", "https://evil.example")
	resp, err = ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get("Access-Control-Allow-Origin") != "" {
		t.Error("unknown origin allowed")
	}
}

func TestStreamPushesNotifications(t *testing.T) {
	s, ts := newTestServer(t, llm.OfflineDrafter{})
	if _, err := s.Session.NewGame(s.Setup); err != nil {
		t.Fatal(err)
	}

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	got := make(chan streamMessage, 1)
	go func() {
		var msg streamMessage
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		if err := conn.ReadJSON(&msg); err == nil {
			got <- msg
		}
		close(got)
	}()

	// The subscription starts after the upgrade; keep clicking until a
	// notification arrives.
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case msg, ok := <-got:
			if !ok {
				t.Fatal("no notification received")
			}
			if msg.Tag != engine.TagClick || msg.Treasury != 10000 {
				t.Errorf("message = %+v", msg)
			}
			return
		case <-tick.C:
			if _, err := s.Session.Dispatch(engine.SetBudgetTier{Item: world.Tax, Level: world.High}); err != nil {
				t.Fatal(err)
			}
		}
	}
}
