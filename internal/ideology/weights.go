package ideology

import "github.com/talgya/statecraft/internal/world"

// Weights is an ideology's preference vector over resource deltas and
// thematic axes.
type Weights struct {
	Treasury       float64
	Stability      float64
	Manpower       float64
	ResearchPoints float64
	MilitaryPower  float64
	Themes         [NumThemes]float64
}

// w builds a weight vector; themes come in (theme, weight) pairs.
func w(treasury, stability, manpower, research, military float64, themes ...any) Weights {
	out := Weights{Treasury: treasury, Stability: stability, Manpower: manpower, ResearchPoints: research, MilitaryPower: military}
	for i := 0; i+1 < len(themes); i += 2 {
		out.Themes[themes[i].(Theme)] = themes[i+1].(float64)
	}
	return out
}

// WeightsFor returns the preference vector for id. IdeologyUnknown scores
// as center-right.
func WeightsFor(id world.Ideology) Weights {
	switch id {
	case world.Conservatism:
		return w(0.3, 0.8, 0.2, 0.1, 0.4, ProTradition, 1.0, AntiChange, 0.5)
	case world.TraditionalConservatism:
		return w(0.2, 1.0, 0.1, 0.0, 0.3, ProTradition, 1.2, AntiChange, 0.8)
	case world.Nationalism:
		return w(-0.2, 0.9, 1.2, 0.1, 1.2, ProMilitary, 1.5, AntiGlobal, 1.0)
	case world.Liberalism:
		return w(0.1, -0.2, 0.6, 0.5, -0.3, ProEquality, 0.8, ProFreedom, 1.0)
	case world.Socialism:
		return w(-0.5, 0.3, 0.8, 0.2, -0.5, ProEquality, 1.2, ProRegulation, 1.0)
	case world.SocialDemocracy:
		return w(-0.3, 0.5, 0.7, 0.3, -0.4, ProEquality, 1.0, ProWelfare, 1.2)
	case world.CenterLeft:
		return w(0.0, 0.2, 0.5, 0.4, -0.2, ProEquality, 0.6, ProWelfare, 0.8)
	case world.Progressivism:
		return w(0.0, -0.3, 0.4, 0.8, -0.1, ProChange, 1.2, ProEquality, 0.9)
	case world.Egalitarianism:
		return w(-0.2, 0.1, 0.6, 0.1, -0.6, ProEquality, 1.5, ProWelfare, 0.7)
	case world.SocialLiberalism:
		return w(0.2, 0.0, 0.5, 0.4, -0.2, ProFreedom, 0.8, ProWelfare, 1.0)
	case world.Neoliberalism:
		return w(1.2, -0.4, -0.2, 0.3, 0.2, ProMarket, 1.5, AntiRegulation, 1.0)
	case world.Libertarianism:
		return w(1.0, -0.5, -0.3, 0.1, -0.1, ProFreedom, 1.5, AntiRegulation, 1.2)
	case world.Environmentalism:
		return w(-0.1, 0.6, 0.1, 0.7, -0.8, ProEnvironment, 1.5)
	case world.Pacifism:
		return w(0.1, 0.8, -0.5, 0.1, -1.5, AntiMilitary, 1.5)
	case world.Technocracy:
		return w(0.2, -0.1, 0.1, 1.5, 0.6, ProTech, 1.2)
	case world.Regionalism:
		return w(0.3, 0.5, 0.2, 0.0, 0.1, ProLocal, 1.5)
	case world.Populism:
		return w(0.1, 0.4, 0.4, -0.2, 0.2, ProPublicOpinion, 1.5)
	case world.Agrarianism:
		return w(-0.2, 0.6, 0.5, -0.1, 0.0, ProAgriculture, 1.5)
	case world.Urbanism:
		return w(0.3, 0.2, 0.3, 0.5, 0.1, ProUrban, 1.5)
	case world.AntiGlobalism:
		return w(0.2, 0.5, 0.4, -0.3, 0.3, AntiGlobal, 1.5)
	case world.Radicalism:
		return w(-0.3, -0.8, 0.3, 0.3, -0.2, ProChange, 1.5, AntiEstablishment, 1.0)
	case world.Republicanism:
		return w(0.4, 0.6, 0.2, 0.1, 0.3, ProRepublic, 1.5, AntiMonarchy, 1.0)
	case world.Centrism:
		return w(0.5, 0.5, 0.5, 0.5, 0.5)
	case world.CenterRight:
		return centerRight
	}
	return centerRight
}

var centerRight = w(0.4, 0.7, 0.2, 0.2, 0.3, ProTradition, 0.5, AntiChange, 0.2)
