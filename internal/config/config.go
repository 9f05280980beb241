// Package config loads server settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/statecraft/internal/engine"
	"github.com/talgya/statecraft/internal/world"
)

// Config holds every server setting.
type Config struct {
	Port        int    `yaml:"port"`
	DBPath      string `yaml:"db_path"`
	Seed        int64  `yaml:"seed"`
	LogLevel    string `yaml:"log_level"`
	CountryName string `yaml:"country_name"`

	PlayerParty       string `yaml:"player_party"`
	PlayerIdeology    string `yaml:"player_ideology"`
	OppositionParties int    `yaml:"opposition_parties"`

	DraftRatePerHour int      `yaml:"draft_rate_per_hour"`
	CORSOrigins      []string `yaml:"cors_origins"`

	// Secrets come from the environment only.
	AnthropicKey string `yaml:"-"`
	AdminKey     string `yaml:"-"`
	RandomOrgKey string `yaml:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:              8080,
		DBPath:            "data/statecraft.db",
		LogLevel:          "info",
		CountryName:       "Aurelia",
		PlayerParty:       "Civic Union",
		PlayerIdeology:    "center-right",
		OppositionParties: 4,
		DraftRatePerHour:  30,
		CORSOrigins:       []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Load reads path over the defaults. A missing file leaves the defaults in
// place. Environment overrides and validation are applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			slog.Info("config file not found, using defaults", "path", path)
		case err != nil:
			return cfg, fmt.Errorf("config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("config %s: %w", path, err)
			}
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from STATECRAFT_* and provider variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("STATECRAFT_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: STATECRAFT_PORT: %w", err)
		}
		c.Port = n
	}
	if v := os.Getenv("STATECRAFT_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("STATECRAFT_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: STATECRAFT_SEED: %w", err)
		}
		c.Seed = n
	}
	if v := os.Getenv("STATECRAFT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}
	c.AnthropicKey = os.Getenv("ANTHROPIC_API_KEY")
	c.AdminKey = os.Getenv("STATECRAFT_ADMIN_KEY")
	c.RandomOrgKey = os.Getenv("RANDOM_ORG_API_KEY")
	return nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db_path is empty"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.PlayerParty) == "" {
		errs = append(errs, errors.New("player_party is empty"))
	}
	if _, err := world.ParseIdeology(c.PlayerIdeology); err != nil {
		errs = append(errs, err)
	}
	if c.OppositionParties < 1 || c.OppositionParties > 8 {
		errs = append(errs, fmt.Errorf("opposition_parties %d not in 1..8", c.OppositionParties))
	}
	if c.DraftRatePerHour < 1 {
		errs = append(errs, fmt.Errorf("draft_rate_per_hour %d must be positive", c.DraftRatePerHour))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// SlogLevel maps log_level to a slog level.
func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Setup is the new-game configuration derived from these settings.
func (c Config) Setup() engine.Setup {
	id, _ := world.ParseIdeology(c.PlayerIdeology)
	return engine.Setup{
		CountryName:    c.CountryName,
		PlayerParty:    c.PlayerParty,
		PlayerIdeology: id,
		Opposition:     c.OppositionParties,
	}
}
