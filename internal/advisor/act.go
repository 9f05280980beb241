package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/talgya/statecraft/internal/world"
)

// Actor submits actions through the control API.
type Actor struct {
	BaseURL    string
	AdminKey   string
	HTTPClient *http.Client
}

// NewActor creates an Actor targeting the given API base URL with admin auth.
func NewActor(baseURL, adminKey string) *Actor {
	return &Actor{
		BaseURL:  baseURL,
		AdminKey: adminKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type actionRequest struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Act posts the decision to POST /api/v1/actions and returns the new state.
// A "none" decision is a no-op.
func (a *Actor) Act(ctx context.Context, d *Decision) (*world.GameState, error) {
	if d.Action == ActionNone {
		return nil, nil
	}
	body, err := json.Marshal(actionRequest{Kind: d.Action, Payload: d.Payload})
	if err != nil {
		return nil, fmt.Errorf("marshal action: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/api/v1/actions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.AdminKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.AdminKey)
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST action: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("%s rejected (%d): %s", d.Action, resp.StatusCode, e.Error)
		}
		return nil, fmt.Errorf("%s rejected (%d): %s", d.Action, resp.StatusCode, string(respBody))
	}

	var st world.GameState
	if err := json.Unmarshal(respBody, &st); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &st, nil
}
