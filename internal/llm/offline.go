package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/talgya/statecraft/internal/ideology"
	"github.com/talgya/statecraft/internal/world"
)

// OfflineDrafter derives an effect from the themes a bill mentions. It needs
// no network and always returns the same effect for the same text.
type OfflineDrafter struct{}

type themeEffect struct {
	res      world.Resources
	factions world.FactionChanges
	buff     string
	debuff   string
}

// Faction order: wealthy, middle class, poor, capitalists, workers.
var themeEffects = map[ideology.Theme]themeEffect{
	ideology.ProTradition:      {world.Resources{Stability: 2}, world.FactionChanges{2, 1, 0, 1, 0}, "Traditional values reaffirmed", "Progressive backlash"},
	ideology.AntiChange:        {world.Resources{Stability: 1}, world.FactionChanges{1, 1, 0, 0, 0}, "Continuity reassures markets", "Seen as stagnation"},
	ideology.ProChange:         {world.Resources{Stability: -2, ResearchPoints: 20}, world.FactionChanges{0, 1, 1, 0, 1}, "Momentum for reform", "Transition disruption"},
	ideology.ProMilitary:       {world.Resources{Treasury: -2000, Stability: 2, MilitaryPower: 150}, world.FactionChanges{1, 1, 0, 2, 0}, "Stronger deterrence", "Heavy defence spending"},
	ideology.AntiMilitary:      {world.Resources{Treasury: 1000, Stability: 1, MilitaryPower: -100}, world.FactionChanges{0, 1, 1, -1, 1}, "Peace dividend", "Weaker deterrence"},
	ideology.ProEquality:       {world.Resources{Treasury: -800}, world.FactionChanges{-4, 1, 4, -2, 3}, "Narrower inequality", "Resentment among the affluent"},
	ideology.ProFreedom:        {world.Resources{Stability: -1}, world.FactionChanges{2, 1, -1, 3, -1}, "Greater personal freedom", "Weaker safety standards"},
	ideology.ProWelfare:        {world.Resources{Treasury: -2500, Manpower: 80}, world.FactionChanges{-3, 2, 6, -3, 4}, "Stronger safety net", "Rising welfare costs"},
	ideology.ProMarket:         {world.Resources{Treasury: 1500, Stability: -2}, world.FactionChanges{4, 0, -4, 6, -3}, "Leaner public sector", "Fears for public services"},
	ideology.ProRegulation:     {world.Resources{Treasury: -500, Stability: 2}, world.FactionChanges{-1, 1, 1, -3, 1}, "Tighter oversight", "Compliance burden on business"},
	ideology.AntiRegulation:    {world.Resources{Treasury: 500}, world.FactionChanges{2, 0, -1, 4, -2}, "Business-friendly climate", "Weaker consumer protection"},
	ideology.ProEnvironment:    {world.Resources{Treasury: -1500, ResearchPoints: 30}, world.FactionChanges{0, 2, 0, -2, 0}, "Cleaner environment", "Higher costs for industry"},
	ideology.ProTech:           {world.Resources{Treasury: -2000, ResearchPoints: 80}, world.FactionChanges{1, 2, 0, 2, 0}, "Research breakthroughs expected", "Large upfront investment"},
	ideology.ProLocal:          {world.Resources{Treasury: -500, Stability: 1}, world.FactionChanges{0, 1, 1, 0, 1}, "Stronger regions", "Uneven local capacity"},
	ideology.AntiGlobal:        {world.Resources{Manpower: -100, Stability: 1}, world.FactionChanges{0, 1, 2, -3, 2}, "Domestic jobs protected", "International criticism"},
	ideology.ProPublicOpinion:  {world.Resources{Stability: 1}, world.FactionChanges{0, 1, 1, 0, 1}, "Public voice strengthened", "Accused of populism"},
	ideology.ProAgriculture:    {world.Resources{Treasury: -1000, Manpower: 50}, world.FactionChanges{0, 0, 2, 0, 2}, "Food security improved", "Farm subsidies strain the budget"},
	ideology.ProUrban:          {world.Resources{Treasury: -3000, Manpower: 100}, world.FactionChanges{0, 2, 0, 3, 1}, "Modern infrastructure", "Construction costs"},
	ideology.ProRepublic:       {world.Resources{Stability: -1}, world.FactionChanges{-1, 1, 1, 0, 1}, "Civic institutions renewed", "Constitutional uncertainty"},
	ideology.AntiMonarchy:      {world.Resources{Stability: -2}, world.FactionChanges{-2, 0, 1, 0, 1}, "End of hereditary privilege", "Royalist anger"},
	ideology.AntiEstablishment: {world.Resources{Stability: -1}, world.FactionChanges{-3, 1, 2, -1, 2}, "Vested interests curbed", "Elite resistance"},
}

var regimePatterns = []struct {
	regime world.Regime
	re     *regexp.Regexp
}{
	{world.Dictatorship, regexp.MustCompile(`(?i)dictator|one-party|single[- ]party|独裁|一党`)},
	{world.Monarchy, regexp.MustCompile(`(?i)restor\w* (of )?(the )?monarchy|monarchy restoration|crown the|王政復古|君主制`)},
	{world.Democracy, regexp.MustCompile(`(?i)democrati[sz]|民主化`)},
	{world.Theocracy, regexp.MustCompile(`(?i)theocra|religious rule|神権|宗教国家`)},
	{world.Federation, regexp.MustCompile(`(?i)federation|federal (state|system|union)|連邦`)},
	{world.Empire, regexp.MustCompile(`(?i)\bempire\b|imperial rule|帝国|帝政`)},
	{world.Socialist, regexp.MustCompile(`(?i)socialist (state|revolution|republic)|社会主義国家`)},
	{world.Republic, regexp.MustCompile(`(?i)republican constitution|abolish\w* (the )?monarchy|共和制`)},
}

// Generate never fails for a bill with a name or description.
func (OfflineDrafter) Generate(_ context.Context, name, description string) (world.LawEffect, error) {
	text := strings.TrimSpace(name + " " + description)
	if text == "" {
		return world.LawEffect{}, fmt.Errorf("%w: empty bill", ErrMalformedDraft)
	}

	var eff world.LawEffect
	themes := ideology.ExtractThemes(world.LawEffect{}, text).Matched()
	for _, th := range themes {
		te, ok := themeEffects[th]
		if !ok {
			continue
		}
		eff.Resources = addResources(eff.Resources, te.res)
		for i, d := range te.factions {
			eff.Factions[i] += d
		}
		eff.Effects.Buff = append(eff.Effects.Buff, te.buff)
		eff.Effects.Debuff = append(eff.Effects.Debuff, te.debuff)
	}
	if len(themes) == 0 {
		eff.Resources = world.Resources{Treasury: -500, Stability: 1}
		eff.Factions = world.Uniform(1)
		eff.Effects.Buff = []string{"Modest administrative improvement"}
		eff.Effects.Debuff = []string{"Implementation costs"}
	}
	for i := range eff.Factions {
		eff.Factions[i] = max(-10, min(10, eff.Factions[i]))
	}

	for _, rp := range regimePatterns {
		if rp.re.MatchString(text) {
			eff.PoliticalSystemChange = rp.regime
			break
		}
	}
	switch eff.PoliticalSystemChange {
	case world.Dictatorship:
		eff.PartyEffects = []world.PartyEffect{{Target: world.TargetAllOpposition, Action: world.Dissolve}}
		eff.Resources.Stability -= 5
		eff.Effects.Debuff = append(eff.Effects.Debuff, "Opposition parties banned")
	case world.RegimeNone:
	default:
		eff.Effects.Buff = append(eff.Effects.Buff, "New political order: "+eff.PoliticalSystemChange.Suffix())
	}
	eff.Resources = clampResources(eff.Resources)
	return eff, nil
}

func addResources(a, b world.Resources) world.Resources {
	return world.Resources{
		Treasury:       a.Treasury + b.Treasury,
		Stability:      a.Stability + b.Stability,
		Manpower:       a.Manpower + b.Manpower,
		ResearchPoints: a.ResearchPoints + b.ResearchPoints,
		MilitaryPower:  a.MilitaryPower + b.MilitaryPower,
	}
}

func clampResources(r world.Resources) world.Resources {
	return world.Resources{
		Treasury:       max(-5000, min(5000, r.Treasury)),
		Stability:      max(-10, min(10, r.Stability)),
		Manpower:       max(-500, min(500, r.Manpower)),
		ResearchPoints: max(-300, min(300, r.ResearchPoints)),
		MilitaryPower:  max(-300, min(300, r.MilitaryPower)),
	}
}
