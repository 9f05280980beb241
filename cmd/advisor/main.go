// Command advisor plays a statecraft session autonomously. It observes the
// game, decides on one action per cycle (via Claude when a key is set, by
// rule otherwise) and submits it through the control API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/talgya/statecraft/internal/advisor"
	"github.com/talgya/statecraft/internal/llm"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment, overridable by flags.
	apiURL := flag.String("api", envOrDefault("STATECRAFT_API_URL", "http://localhost:8080"), "statecraft API base URL")
	intervalSec := flag.Int("interval", envIntOrDefault("ADVISOR_INTERVAL", 30), "seconds between cycles")
	memoryPath := flag.String("memory", envOrDefault("ADVISOR_MEMORY", "advisor_memory.json"), "cycle memory file")
	flag.Parse()

	adminKey := os.Getenv("STATECRAFT_ADMIN_KEY")
	llmClient := llm.NewClient(os.Getenv("ANTHROPIC_API_KEY"))
	if !llmClient.Enabled() {
		slog.Warn("ANTHROPIC_API_KEY not set, advisor uses the rule book")
	}

	interval := time.Duration(*intervalSec) * time.Second
	slog.Info("Statecraft advisor starting",
		"api_url", *apiURL,
		"interval", interval,
		"llm", llmClient.Enabled(),
	)

	adv := &advisor.Advisor{
		Observer: advisor.NewObserver(*apiURL),
		Actor:    advisor.NewActor(*apiURL, adminKey),
		LLM:      llmClient,
		Memory:   advisor.LoadMemory(*memoryPath),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("waiting for statecraft API...")
	if err := waitForAPI(ctx, *apiURL); err != nil {
		slog.Error("API not ready", "error", err)
		os.Exit(1)
	}

	// Run first cycle immediately.
	runCycle(ctx, adv)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			runCycle(ctx, adv)
		case <-ctx.Done():
			slog.Info("shutting down")
			fmt.Println("Advisor stopped.")
			return
		}
	}
}

// runCycle executes one observe → decide → act cycle.
func runCycle(ctx context.Context, adv *advisor.Advisor) {
	slog.Info("advisor cycle starting")
	_, err := adv.RunCycle(ctx)
	switch {
	case errors.Is(err, advisor.ErrNoGame):
		slog.Info("no game in progress, waiting")
	case err != nil:
		slog.Error("advisor cycle failed", "error", err)
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

// waitForAPI polls the state endpoint with exponential backoff until the
// server answers. A 404 means the server is up without a game.
func waitForAPI(ctx context.Context, apiURL string) error {
	backoff := 2 * time.Second
	maxBackoff := 30 * time.Second
	deadline := time.Now().Add(5 * time.Minute)

	for {
		resp, err := http.Get(apiURL + "/api/v1/state")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound {
				slog.Info("statecraft API is ready")
				return nil
			}
		}
		if time.Now().After(deadline) {
			return errors.New("statecraft API did not become ready within 5 minutes")
		}
		slog.Info("statecraft not ready, retrying...", "backoff", backoff)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff = min(backoff*2, maxBackoff)
	}
}
