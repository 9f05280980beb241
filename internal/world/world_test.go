package world

import (
	"encoding/json"
	"testing"
)

func testState() *GameState {
	return &GameState{
		Phase:   Playing{},
		Turn:    3,
		Country: NewCountry("Aurelia Republic"),
		Parties: []Party{
			{Name: "Civic Union", Ideology: CenterRight, IsPlayer: true, Seats: 60, Support: 40, Relation: 100},
			{Name: "Green Future", Ideology: Environmentalism, Seats: 40, Support: 20, Relation: 50},
		},
		OppositionCoalitions: []Coalition{{Name: "liberal_left coalition", Members: []string{"Green Future"}}},
	}
}

func TestOverallHappiness(t *testing.T) {
	c := NewCountry("Aurelia")
	// 60*10 + 70*40 + 50*20 + 65*5 + 55*25 = 6100, /100
	if got := c.OverallHappiness(); got != 61 {
		t.Fatalf("OverallHappiness = %v, want 61", got)
	}
}

func TestFactionChangesClamp(t *testing.T) {
	c := NewCountry("Aurelia")
	c.ApplyFactionChanges(FactionChanges{Wealthy: 100, Poor: -100})
	if h := c.Faction(Wealthy).Happiness; h != 100 {
		t.Errorf("wealthy happiness = %v, want 100", h)
	}
	if h := c.Faction(Poor).Happiness; h != 0 {
		t.Errorf("poor happiness = %v, want 0", h)
	}
}

func TestApplyResourcesFloors(t *testing.T) {
	c := NewCountry("Aurelia")
	c.ApplyResources(Resources{Treasury: -20000, Stability: -500, MilitaryPower: -5000})
	if c.Treasury != -10000 {
		t.Errorf("treasury = %d, want -10000", c.Treasury)
	}
	if c.Stability != 0 {
		t.Errorf("stability = %d, want 0", c.Stability)
	}
	if c.MilitaryPower != 0 {
		t.Errorf("military = %d, want 0", c.MilitaryPower)
	}
}

func TestPartyClamps(t *testing.T) {
	p := Party{Support: 99, Relation: 1}
	p.AddSupport(5)
	p.AddRelation(-5)
	if p.Support != 100 || p.Relation != 0 {
		t.Fatalf("support/relation = %v/%v, want 100/0", p.Support, p.Relation)
	}
}

func TestNormalBudgetIsZero(t *testing.T) {
	for item := Tax; item < NumBudgetItems; item++ {
		if e := EffectOf(item, Normal); e != (BudgetEffect{}) {
			t.Errorf("%s normal = %+v, want zero", item, e)
		}
	}
	if e := EffectOf(Defense, High); e.MilitaryFrustration != -2 || e.MilitaryPower != 30 {
		t.Errorf("defense high = %+v", e)
	}
}

func TestPassesTieFails(t *testing.T) {
	if Passes(50, 100) {
		t.Error("50 of 100 should fail")
	}
	if !Passes(51, 100) {
		t.Error("51 of 100 should pass")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := testState()
	c := s.Clone()
	c.Parties[0].Support = 1
	c.Country.Factions[0].Happiness = 0
	c.OppositionCoalitions[0].Members[0] = "changed"
	c.Log("entry")

	if s.Parties[0].Support != 40 {
		t.Error("party mutation leaked into original")
	}
	if s.Country.Factions[0].Happiness != 60 {
		t.Error("faction mutation leaked into original")
	}
	if s.OppositionCoalitions[0].Members[0] != "Green Future" {
		t.Error("coalition mutation leaked into original")
	}
	if len(s.Logs) != 0 {
		t.Error("log append leaked into original")
	}
}

func TestGameStatePhaseJSON(t *testing.T) {
	s := testState()
	s.Phase = CivilWar{Conflict{OpposingStrength: 700, Progress: -20, SupplyDebuffTurns: 2}}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var wire map[string]any
	if err := json.Unmarshal(b, &wire); err != nil {
		t.Fatalf("unmarshal map: %v", err)
	}
	if wire["status"] != "CivilWar" {
		t.Errorf("status = %v, want CivilWar", wire["status"])
	}
	if _, ok := wire["war_state"]; ok {
		t.Error("war_state should be absent during a civil war")
	}

	var back GameState
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	cw, ok := back.Phase.(CivilWar)
	if !ok {
		t.Fatalf("phase = %T, want CivilWar", back.Phase)
	}
	if cw.OpposingStrength != 700 || cw.Progress != -20 {
		t.Errorf("conflict = %+v", cw.Conflict)
	}
	if back.Parties[1].Ideology != Environmentalism {
		t.Errorf("ideology = %v", back.Parties[1].Ideology)
	}
}

func TestDecodePhaseRejectsMissingPayload(t *testing.T) {
	if _, err := decodePhase(phaseJSON{Status: StatusWar}); err == nil {
		t.Fatal("expected error for War without war_state")
	}
}

func TestRegimeName(t *testing.T) {
	if got := RegimeName("Aurelia Republic", Empire); got != "Aurelia Empire" {
		t.Errorf("RegimeName = %q", got)
	}
	if got := RegimeName("Aurelia", RegimeNone); got != "Aurelia" {
		t.Errorf("RegimeName none = %q", got)
	}
}

func TestParseIdeologyForms(t *testing.T) {
	for _, in := range []string{"social-democracy", "Social Democracy", "social_democracy"} {
		got, err := ParseIdeology(in)
		if err != nil || got != SocialDemocracy {
			t.Errorf("ParseIdeology(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseIdeology("monarchism"); err == nil {
		t.Error("expected error for unknown ideology")
	}
}
