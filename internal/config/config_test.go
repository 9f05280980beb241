package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/talgya/statecraft/internal/world"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8080 || cfg.DBPath != "data/statecraft.db" || cfg.OppositionParties != 4 {
		t.Errorf("cfg = %+v", cfg)
	}
	if s := cfg.Setup(); s.PlayerIdeology != world.CenterRight || s.PlayerParty != "Civic Union" {
		t.Errorf("setup = %+v", s)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statecraft.yaml")
	yml := `
port: 9000
seed: 7
log_level: debug
country_name: Borealia
player_party: Harbour Alliance
player_ideology: liberalism
opposition_parties: 3
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STATECRAFT_PORT", "9100")
	t.Setenv("STATECRAFT_ADMIN_KEY", "secret")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9100 || cfg.Seed != 7 || cfg.CountryName != "Borealia" || cfg.OppositionParties != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.AdminKey != "secret" {
		t.Errorf("admin key = %q", cfg.AdminKey)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors = %q", cfg.CORSOrigins)
	}
	if l, _ := cfg.SlogLevel(); l != slog.LevelDebug {
		t.Errorf("level = %v", l)
	}
	if cfg.Setup().PlayerIdeology != world.Liberalism {
		t.Error("ideology not parsed")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.Port = 0 }, "port"},
		{"ideology", func(c *Config) { c.PlayerIdeology = "anarchy" }, "ideology"},
		{"level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"opposition", func(c *Config) { c.OppositionParties = 12 }, "opposition_parties"},
		{"draft rate", func(c *Config) { c.DraftRatePerHour = 0 }, "draft_rate_per_hour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestBadEnv(t *testing.T) {
	t.Setenv("STATECRAFT_SEED", "many")
	if _, err := Load(""); err == nil {
		t.Error("bad seed accepted")
	}
}
