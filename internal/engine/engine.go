// Package engine is the game's state machine. Every player request is an
// Action; Apply turns (state, action) into the successor state without
// touching its input, so a rejected action leaves nothing behind.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/dustin/go-humanize"

	"github.com/talgya/statecraft/internal/catalog"
	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/world"
)

// ElectionInterval is the number of turns between general elections.
const ElectionInterval = 10

// Engine applies actions. It holds no game state of its own; the random
// source and catalog are its only dependencies.
type Engine struct {
	src    entropy.Source
	cat    *catalog.Catalog
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithCatalog replaces the embedded data tables.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) { e.cat = c }
}

// New returns an Engine drawing randomness from src.
func New(src entropy.Source, opts ...Option) *Engine {
	e := &Engine{src: src}
	for _, o := range opts {
		o(e)
	}
	if e.cat == nil {
		e.cat = catalog.Default()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Catalog returns the data tables the engine draws from.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// Apply runs a on a deep copy of s. On error the original s is returned
// unchanged. A lost civil war returns nil and ErrGameOver.
func (e *Engine) Apply(s *world.GameState, a Action) (*world.GameState, error) {
	if s == nil {
		return nil, ErrGameOver
	}
	if a == nil {
		return s, fmt.Errorf("%w: nil action", ErrUnknownAction)
	}
	next := s.Clone()
	if err := a.apply(e, next); err != nil {
		if errors.Is(err, ErrGameOver) {
			e.logger.Info("game over", "turn", s.Turn, "action", a.Kind())
			return nil, err
		}
		e.logger.Debug("action rejected", "action", a.Kind(), "turn", s.Turn, "error", err)
		return s, err
	}
	e.checkRebellion(next)
	e.maybeStartElection(next)
	if next.Status() != s.Status() {
		e.logger.Debug("phase change", "from", s.Status(), "to", next.Status(), "turn", next.Turn)
	}
	return next, nil
}

// checkRebellion starts a civil war when population-weighted happiness
// falls to 15 or below during ordinary play.
func (e *Engine) checkRebellion(s *world.GameState) {
	if s.Status() != world.StatusPlaying || s.Country.OverallHappiness() > 15 {
		return
	}
	strength := roundInt(float64(s.Country.MilitaryPower) * entropy.Range(e.src, 0.6, 1.0))
	s.Phase = world.CivilWar{Conflict: world.Conflict{OpposingStrength: strength}}
	s.ActiveEvent = nil
	s.BillToVoteOn = nil
	s.Log("[Rebellion] Public anger boiled over into armed revolt. The country is in civil war.")
	e.logger.Info("civil war", "cause", "rebellion", "rebel_strength", strength, "turn", s.Turn)
}

// maybeStartElection opens a campaign on every tenth turn once nothing is
// pending.
func (e *Engine) maybeStartElection(s *world.GameState) {
	if s.Status() != world.StatusPlaying || s.Blocked() {
		return
	}
	if s.Turn <= 1 || s.Turn%ElectionInterval != 0 {
		return
	}
	s.Phase = world.Election{CampaignTurn: 1}
	s.Log(fmt.Sprintf("[Election] Parliament is dissolved. A general election campaign begins (turn %d).", s.Turn))
	e.logger.Info("election started", "turn", s.Turn)
}

func requirePP(s *world.GameState, n int) error {
	if have := s.PlayerStats.PoliticalPower; have < n {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientPoliticalPower, n, have)
	}
	return nil
}

func requireTreasury(s *world.GameState, n int) error {
	if have := s.Country.Treasury; have < n {
		return fmt.Errorf("%w: need %s, have %s", ErrInsufficientTreasury, humanize.Comma(int64(n)), humanize.Comma(int64(have)))
	}
	return nil
}

func requireRuling(s *world.GameState) error {
	if s.PlayerStatus != world.Ruling {
		return ErrNotRuling
	}
	return nil
}

func requirePhase(s *world.GameState, want world.Status) error {
	if got := s.Status(); got != want {
		return fmt.Errorf("%w: %s, need %s", ErrWrongPhase, got, want)
	}
	return nil
}

func spendPP(s *world.GameState, n int) {
	s.PlayerStats.PoliticalPower = max(0, s.PlayerStats.PoliticalPower-n)
}

// resolveParty finds a party by exact name, then case-insensitively, then
// by the closest edit distance within a small tolerance.
func resolveParty(s *world.GameState, name string) (*world.Party, error) {
	if p := s.PartyByName(name); p != nil {
		return p, nil
	}
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownParty)
	}
	best, bestDist := -1, 0
	for i, p := range s.Parties {
		have := strings.ToLower(p.Name)
		if have == want {
			return &s.Parties[i], nil
		}
		d := levenshtein.ComputeDistance(want, have)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 && bestDist <= max(2, len(want)/5) {
		return &s.Parties[best], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownParty, name)
}

// ResolveParty resolves a possibly misspelt party name the way actions do.
func ResolveParty(s *world.GameState, name string) (*world.Party, error) {
	return resolveParty(s, name)
}

func partyIndex(s *world.GameState, name string) int {
	for i, p := range s.Parties {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// roundInt rounds half up.
func roundInt(x float64) int {
	return int(math.Floor(x + 0.5))
}

func signed(n int) string {
	if n > 0 {
		return "+" + humanize.Comma(int64(n))
	}
	return humanize.Comma(int64(n))
}

func signedf(x float64) string {
	return fmt.Sprintf("%+.1f", x)
}
