package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/talgya/statecraft/internal/llm"
)

const draftTimeout = 45 * time.Second

type draftRequest struct {
	Name        string `json:"law_name"`
	Description string `json:"law_description"`
}

// handleDraft asks the law generator for an effect. It never touches the
// game state; the client submits the result with a propose_law action.
func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 16<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "law_name required")
		return
	}
	if len(req.Name) > 120 || len(req.Description) > 2000 {
		writeError(w, http.StatusBadRequest, "bill text too long")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), draftTimeout)
	defer cancel()
	eff, err := s.Generator.Generate(ctx, req.Name, req.Description)
	if err != nil {
		slog.Warn("law draft failed", "law", req.Name, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":     err.Error(),
			"retryable": llm.Retryable(err),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"law_name":        req.Name,
		"law_description": req.Description,
		"law_effect":      eff,
	})
}
