// Package advisor implements the autonomous player's aide.
// It observes the game through the API, decides on one action per cycle
// (via the LLM when configured, by rule otherwise) and submits it.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/talgya/statecraft/internal/world"
)

// ErrNoGame is returned when the server has no game in progress.
var ErrNoGame = errors.New("advisor: no game in progress")

// Snapshot holds the data collected during one observation cycle.
type Snapshot struct {
	State   *world.GameState `json:"state"`
	History []HistoryRow     `json:"history"`
}

// HistoryRow mirrors items of turn_stats in GET /api/v1/history,
// newest first.
type HistoryRow struct {
	Turn                int     `json:"turn"`
	Status              string  `json:"status"`
	Treasury            int     `json:"treasury"`
	Stability           int     `json:"stability"`
	Corruption          int     `json:"corruption"`
	Happiness           float64 `json:"happiness"`
	PlayerSupport       float64 `json:"player_support"`
	PlayerSeats         int     `json:"player_seats"`
	PoliticalPower      int     `json:"political_power"`
	MilitaryFrustration int     `json:"military_frustration"`
}

type historyResponse struct {
	TurnStats []HistoryRow `json:"turn_stats"`
}

// Observer fetches game state from the API.
type Observer struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewObserver creates an Observer targeting the given API base URL.
func NewObserver(baseURL string) *Observer {
	return &Observer{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Observe fetches the current state and recent turn history. A server
// without a history store still yields a snapshot.
func (o *Observer) Observe(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{State: &world.GameState{}}

	status, err := o.fetchJSON(ctx, "/api/v1/state", snap.State)
	if status == http.StatusNotFound {
		return nil, ErrNoGame
	}
	if err != nil {
		return nil, fmt.Errorf("fetch state: %w", err)
	}

	var hist historyResponse
	status, err = o.fetchJSON(ctx, "/api/v1/history?limit=10", &hist)
	switch {
	case status == http.StatusServiceUnavailable:
	case err != nil:
		return nil, fmt.Errorf("fetch history: %w", err)
	default:
		snap.History = hist.TurnStats
	}
	return snap, nil
}

// fetchJSON GETs a path and decodes the JSON response into target. The
// status code is returned whenever a response arrived.
func (o *Observer) fetchJSON(ctx context.Context, path string, target any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.BaseURL+path, nil)
	if err != nil {
		return 0, err
	}
	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return resp.StatusCode, fmt.Errorf("GET %s returned %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s: %w", path, err)
	}
	return resp.StatusCode, nil
}
