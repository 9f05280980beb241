package engine

import (
	"errors"
	"testing"

	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/world"
)

func TestMinisterCandidatesFillVacancies(t *testing.T) {
	e := testEngine(entropy.NewSeeded(3))
	s := testState()
	cands := e.MinisterCandidates(s)
	if len(cands) != candidateCount {
		t.Fatalf("got %d candidates, want %d", len(cands), candidateCount)
	}
	want := []world.Portfolio{0, 1, 2}
	names := map[string]bool{}
	for i, m := range cands {
		if m.Portfolio != want[i] {
			t.Errorf("candidate %d portfolio = %s, want %s", i, m.Portfolio, want[i])
		}
		if !e.fitsTemplate(m) {
			t.Errorf("candidate %s does not fit its own template", m.FullName())
		}
		if names[m.FullName()] {
			t.Errorf("duplicate name %s", m.FullName())
		}
		names[m.FullName()] = true
		if m.ID == "" {
			t.Error("candidate without ID")
		}
	}
	if len(s.Ministers) != 0 || s.PlayerStats.PoliticalPower != 100 {
		t.Error("drawing candidates changed the state")
	}
}

func TestHireAndDismissMinister(t *testing.T) {
	e := testEngine(entropy.NewSeeded(3))
	s := testState()
	cand := e.MinisterCandidates(s)[0]

	s = mustApply(t, e, s, HireMinister{Candidate: cand})
	if len(s.Ministers) != 1 || s.Ministers[0].ID != cand.ID {
		t.Fatalf("ministers = %+v", s.Ministers)
	}
	if s.PlayerStats.PoliticalPower != 75 {
		t.Errorf("pp = %d, want 75", s.PlayerStats.PoliticalPower)
	}

	s = mustApply(t, e, s, DismissMinister{ID: cand.ID})
	if len(s.Ministers) != 0 {
		t.Errorf("minister still serving")
	}
	if s.Country.Stability != 58 || s.Player().Support != 39 || s.PlayerStats.PoliticalPower != 65 {
		t.Errorf("stability=%d support=%v pp=%d", s.Country.Stability, s.Player().Support, s.PlayerStats.PoliticalPower)
	}

	if _, err := e.Apply(s, DismissMinister{ID: "nobody"}); !errors.Is(err, ErrUnknownMinister) {
		t.Errorf("unknown minister: err = %v", err)
	}
}

func TestHireMinisterRejectsForgedCandidate(t *testing.T) {
	e := testEngine(entropy.NewSeeded(3))
	s := testState()
	cand := e.MinisterCandidates(s)[0]
	cand.Effects.Resources.Treasury = 1_000_000

	got, err := e.Apply(s, HireMinister{Candidate: cand})
	if !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("err = %v, want ErrInvalidChoice", err)
	}
	if got != s {
		t.Error("forged hire replaced the state")
	}
}

func TestMinistersActEachTurn(t *testing.T) {
	s := testState()
	s.Ministers = []world.Minister{{
		ID: "m1", FirstName: "Ada", LastName: "Voss", Portfolio: world.Finance,
		Effects: world.MinisterEffects{Resources: world.Resources{Treasury: 500}, Corruption: 1},
	}}
	next := mustApply(t, testEngine(entropy.Fixed(0.99)), s, AdvanceTurn{})
	// +500 from the minister, then 1² × 5 lost to graft
	if next.Country.Treasury != 10495 {
		t.Errorf("treasury = %d, want 10495", next.Country.Treasury)
	}
	if next.Country.Corruption != 1 {
		t.Errorf("corruption = %d, want 1", next.Country.Corruption)
	}
}

func TestDescribeMinister(t *testing.T) {
	buffs, debuffs := describeMinister(world.MinisterEffects{
		Resources:  world.Resources{Treasury: 300, Stability: -2},
		Corruption: 2,
	})
	if len(buffs) != 1 || buffs[0] != "treasury +300/turn" {
		t.Errorf("buffs = %q", buffs)
	}
	if len(debuffs) != 2 || debuffs[1] != "corruption +2/turn" {
		t.Errorf("debuffs = %q", debuffs)
	}
}
