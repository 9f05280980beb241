// Command statecraft serves a single-player political strategy game over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/talgya/statecraft/internal/api"
	"github.com/talgya/statecraft/internal/config"
	"github.com/talgya/statecraft/internal/engine"
	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/llm"
	"github.com/talgya/statecraft/internal/persistence"
	"github.com/talgya/statecraft/internal/world"
)

func main() {
	configPath := flag.String("config", "statecraft.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	slog.Info("Statecraft starting", "config", *configPath, "country", cfg.CountryName, "seed", cfg.Seed)

	// ── Database ──────────────────────────────────────────────────────
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	if err := db.SaveMeta("started_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		slog.Error("meta save failed", "error", err)
	}
	if err := db.SaveMeta("seed", strconv.FormatInt(cfg.Seed, 10)); err != nil {
		slog.Error("meta save failed", "error", err)
	}

	// ── Engine ────────────────────────────────────────────────────────
	src := entropy.New(cfg.Seed, cfg.RandomOrgKey)
	switch src.(type) {
	case *entropy.Seeded:
		slog.Info("randomness: seeded", "seed", cfg.Seed)
	case *entropy.Client:
		slog.Info("randomness: random.org")
	default:
		slog.Info("randomness: crypto/rand")
	}
	eng := engine.New(src, engine.WithLogger(logger))
	session := engine.NewSession(eng)

	// History recording never fails an action.
	session.OnCommit = func(prev, next *world.GameState, a engine.Action) {
		kind := "new_game"
		if a != nil {
			kind = a.Kind()
		}
		if err := db.Record(prev, next, kind); err != nil {
			slog.Error("history record failed", "action", kind, "error", err)
		}
	}

	// ── LLM Client ───────────────────────────────────────────────────
	llmClient := llm.NewClient(cfg.AnthropicKey)
	if llmClient.Enabled() {
		slog.Info("LLM client enabled, laws drafted by the model")
	} else {
		slog.Warn("ANTHROPIC_API_KEY not set, laws drafted offline")
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("STATECRAFT_ADMIN_KEY not set, control endpoints are open")
	}
	apiServer := &api.Server{
		Session:          session,
		Generator:        llm.NewGenerator(llmClient),
		DB:               db,
		Setup:            cfg.Setup(),
		Port:             cfg.Port,
		AdminKey:         cfg.AdminKey,
		CORSOrigins:      cfg.CORSOrigins,
		DraftRatePerHour: cfg.DraftRatePerHour,
	}

	g, err := session.NewGame(apiServer.Setup)
	if err != nil {
		slog.Error("failed to start the opening game", "error", err)
		os.Exit(1)
	}
	slog.Info("game started", "id", g.ID, "country", g.Country.Name, "parties", len(g.Parties))

	srv := apiServer.Start()
	fmt.Printf("API: http://localhost:%d/api/v1/state\n", cfg.Port)

	// ── Run until signalled ───────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	fmt.Println("Statecraft stopped. History saved.")
}
