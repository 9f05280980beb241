package ideology

import (
	"testing"

	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/world"
)

func TestEveryIdeologyHasAGroup(t *testing.T) {
	for _, id := range world.Ideologies() {
		if GroupOf(id) == GroupOther {
			t.Errorf("%s has no group", id)
		}
	}
	if GroupOf(world.IdeologyUnknown) != GroupOther {
		t.Error("unknown ideology should be in the other bucket")
	}
}

func TestInitialRelationRanges(t *testing.T) {
	tests := []struct {
		name           string
		player, target world.Ideology
		lo, hi         float64
	}{
		{"same group", world.CenterRight, world.Nationalism, 60, 70},
		{"antagonistic", world.CenterRight, world.Socialism, 25, 35},
		{"econ right vs left", world.Neoliberalism, world.Pacifism, 25, 35},
		{"conservative vs radical", world.Radicalism, world.Conservatism, 25, 35},
		{"centrist", world.Centrism, world.Socialism, 45, 55},
		{"unknown", world.IdeologyUnknown, world.Socialism, 45, 55},
		{"neutral cross group", world.Technocracy, world.Populism, 40, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			low := InitialRelation(tt.player, tt.target, entropy.Fixed(0))
			high := InitialRelation(tt.player, tt.target, entropy.Fixed(0.999))
			if low != tt.lo || high != tt.hi {
				t.Errorf("range = [%v,%v], want [%v,%v]", low, high, tt.lo, tt.hi)
			}
		})
	}
}

func TestExtractThemes(t *testing.T) {
	eff := world.LawEffect{Effects: world.EffectText{Buff: []string{"Stronger national DEFENSE"}}}
	set := ExtractThemes(eff, "Protect family traditions")
	if !set.Has(ProTradition) || !set.Has(ProMilitary) {
		t.Errorf("themes = %v", set.Matched())
	}
	if set.Has(ProWelfare) {
		t.Error("welfare should not match")
	}
	if !ExtractThemes(world.LawEffect{}, "伝統を守る").Has(ProTradition) {
		t.Error("japanese keyword not matched")
	}
}

func TestExtractThemesWholeWords(t *testing.T) {
	tests := []struct {
		text string
		hit  []Theme
		miss []Theme
	}{
		{"Deepen international cooperation", nil, []Theme{ProPublicOpinion}},
		{"A national holiday", nil, []Theme{ProPublicOpinion}},
		{"Put the nation first", []Theme{ProPublicOpinion}, nil},
		{"Every citizen counts", []Theme{ProPublicOpinion}, nil},
		{"Restore the monarchy", []Theme{ProTradition}, []Theme{AntiMonarchy}},
		{"Abolish the monarchy", []Theme{AntiMonarchy}, []Theme{ProTradition}},
		{"The Monarchy Act", nil, []Theme{AntiMonarchy, ProTradition}},
		{"Renewables for everyone", []Theme{ProEnvironment}, nil},
		{"Stop the peacekeeping budget cuts", []Theme{AntiMilitary}, nil},
		{"Legislative procedure", nil, []Theme{ProTradition, ProTech}},
		{"君主制の廃止", []Theme{AntiMonarchy}, nil},
		{"王政復古", []Theme{ProTradition}, []Theme{AntiMonarchy}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			set := ExtractThemes(world.LawEffect{}, tt.text)
			for _, th := range tt.hit {
				if !set.Has(th) {
					t.Errorf("%s not matched (got %v)", th, set.Matched())
				}
			}
			for _, th := range tt.miss {
				if set.Has(th) {
					t.Errorf("%s matched (got %v)", th, set.Matched())
				}
			}
		})
	}
}

func TestScoreResources(t *testing.T) {
	eff := world.LawEffect{Resources: world.Resources{Treasury: 1000}}
	if got := Score(world.Neoliberalism, eff, ""); got != 1.2 {
		t.Errorf("neoliberal score = %v, want 1.2", got)
	}
	if got := Score(world.Socialism, eff, ""); got != -0.5 {
		t.Errorf("socialist score = %v, want -0.5", got)
	}
	if Score(world.IdeologyUnknown, eff, "") != Score(world.CenterRight, eff, "") {
		t.Error("unknown ideology should score as center-right")
	}
}

func TestScoreRegimeAndSelfPreservation(t *testing.T) {
	dict := world.LawEffect{PoliticalSystemChange: world.Dictatorship}
	if got := Score(world.Centrism, dict, ""); got != -5 {
		t.Errorf("dictatorship = %v, want -5", got)
	}
	mon := world.LawEffect{PoliticalSystemChange: world.Monarchy}
	if got := Score(world.Republicanism, mon, ""); got != -4.5 {
		t.Errorf("republican on monarchy = %v, want -4.5", got)
	}

	purge := world.LawEffect{PartyEffects: []world.PartyEffect{{Target: world.TargetAllOpposition, Action: world.Dissolve}}}
	if got := Score(world.Centrism, purge, ""); got != -10 {
		t.Errorf("purge = %v, want -10", got)
	}
	named := world.LawEffect{PartyEffects: []world.PartyEffect{{Target: "Green Party", Action: world.Dissolve}}}
	if got := Score(world.Centrism, named, ""); got != 0 {
		t.Errorf("named target = %v, want 0", got)
	}
}

func TestDecideVoteNoise(t *testing.T) {
	var eff world.LawEffect
	// Zero score: noise alone decides.
	if v := DecideVote(world.Centrism, eff, "", entropy.Fixed(0.9)); v != world.Approve {
		t.Errorf("positive noise vote = %s", v)
	}
	if v := DecideVote(world.Centrism, eff, "", entropy.Fixed(0.5)); v != world.Oppose {
		t.Errorf("zero score should oppose, got %s", v)
	}
	big := world.LawEffect{Resources: world.Resources{Stability: 20}}
	if v := DecideVote(world.Centrism, big, "", entropy.Fixed(0)); v != world.Approve {
		t.Errorf("strong law should survive negative noise, got %s", v)
	}
}
