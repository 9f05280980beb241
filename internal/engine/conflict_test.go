package engine

import (
	"errors"
	"testing"

	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/world"
)

func TestDefensiveVictoryEndsCivilWar(t *testing.T) {
	s := testState()
	s.Phase = world.CivilWar{Conflict: world.Conflict{OpposingStrength: 0, Progress: 95}}
	wealthy := s.Country.Faction(world.Wealthy).Happiness

	next := mustApply(t, testEngine(entropy.Fixed(0.5)), s, ConflictTactic{Tactic: Defensive})
	if next.Status() != world.StatusPlaying {
		t.Fatalf("status = %s, want Playing", next.Status())
	}
	// 1000 × 0.06 lost holding the line
	if next.Country.MilitaryPower != 940 {
		t.Errorf("military = %d, want 940", next.Country.MilitaryPower)
	}
	if next.Country.Manpower != 5000-30 {
		t.Errorf("manpower = %d, want 4970", next.Country.Manpower)
	}
	if got := next.Country.Faction(world.Wealthy).Happiness; got != wealthy+20 {
		t.Errorf("wealthy happiness = %v, want %v", got, wealthy+20)
	}
	if next.Turn != 2 {
		t.Errorf("turn = %d, want 2", next.Turn)
	}
}

func TestCivilWarDefeatEndsGame(t *testing.T) {
	s := testState()
	s.Phase = world.CivilWar{Conflict: world.Conflict{OpposingStrength: 100000, Progress: -90}}
	next, err := testEngine(entropy.Fixed(0)).Apply(s, ConflictTactic{Tactic: Offensive})
	if !errors.Is(err, ErrGameOver) {
		t.Fatalf("err = %v, want ErrGameOver", err)
	}
	if next != nil {
		t.Error("lost civil war returned a state")
	}
}

func TestWarDefeatReturnsToPlaying(t *testing.T) {
	s := testState()
	s.Phase = world.War{Conflict: world.Conflict{OpposingStrength: 100000, Progress: -90}}
	next := mustApply(t, testEngine(entropy.Fixed(0)), s, ConflictTactic{Tactic: Offensive})
	if next.Status() != world.StatusPlaying {
		t.Fatalf("status = %s", next.Status())
	}
	if next.Country.Treasury != 5000 {
		t.Errorf("treasury = %d, want 5000 after the indemnity", next.Country.Treasury)
	}
	if sup := next.Player().Support; sup != 25 {
		t.Errorf("player support = %v, want 25", sup)
	}
}

func TestSupplyRaidDebuffsEnemy(t *testing.T) {
	s := testState()
	s.Phase = world.War{Conflict: world.Conflict{OpposingStrength: 1000}}
	next := mustApply(t, testEngine(entropy.Fixed(0)), s, ConflictTactic{Tactic: SupplyRaid})
	c, ok := world.ConflictOf(next.Phase)
	if !ok {
		t.Fatalf("status = %s, want War", next.Status())
	}
	if c.SupplyDebuffTurns != supplyDebuffTurns-1 {
		t.Errorf("debuff turns = %d, want %d", c.SupplyDebuffTurns, supplyDebuffTurns-1)
	}
	if next.PlayerStats.PoliticalPower != 80 {
		t.Errorf("pp = %d, want 80", next.PlayerStats.PoliticalPower)
	}
}

func TestConflictTacticCosts(t *testing.T) {
	s := testState()
	s.Phase = world.War{Conflict: world.Conflict{OpposingStrength: 1000}}
	s.PlayerStats.PoliticalPower = 5
	s.Country.Treasury = 1000
	e := testEngine(entropy.Fixed(0.5))

	for _, tc := range []struct {
		tactic Tactic
		want   error
	}{
		{Offensive, ErrInsufficientPoliticalPower},
		{SupplyRaid, ErrInsufficientPoliticalPower},
		{Guerrilla, ErrInsufficientTreasury},
		{"retreat", ErrInvalidChoice},
	} {
		if _, err := e.Apply(s, ConflictTactic{Tactic: tc.tactic}); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.tactic, err, tc.want)
		}
	}
	if _, err := e.Apply(testState(), ConflictTactic{Tactic: Defensive}); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("tactic in peacetime: err = %v", err)
	}
}
