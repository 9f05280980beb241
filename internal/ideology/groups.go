// Package ideology scores how parties view legislation and how much they
// trust each other. Everything here is a pure function of its inputs plus
// an injected random source.
package ideology

import (
	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/world"
)

// Group is a coarse political cluster used for relations and coalitions.
type Group uint8

const (
	GroupOther Group = iota
	Conservative
	LiberalLeft
	EconomicRight
	Technocratic
	Populist
	Radical
	Centrist
)

var groupNames = [...]string{"other", "conservative", "liberal_left", "economic_right", "technocratic", "populist", "radical", "centrist"}

func (g Group) String() string {
	if int(g) < len(groupNames) {
		return groupNames[g]
	}
	return "other"
}

// GroupOf maps an ideology to its group.
func GroupOf(id world.Ideology) Group {
	switch id {
	case world.Conservatism, world.TraditionalConservatism, world.CenterRight, world.Nationalism,
		world.Republicanism, world.Agrarianism, world.AntiGlobalism:
		return Conservative
	case world.Liberalism, world.Socialism, world.SocialDemocracy, world.CenterLeft, world.Progressivism,
		world.Egalitarianism, world.SocialLiberalism, world.Pacifism, world.Environmentalism:
		return LiberalLeft
	case world.Neoliberalism, world.Libertarianism:
		return EconomicRight
	case world.Technocracy, world.Urbanism:
		return Technocratic
	case world.Populism, world.Regionalism:
		return Populist
	case world.Radicalism:
		return Radical
	case world.Centrism:
		return Centrist
	}
	return GroupOther
}

// SameGroup reports whether both ideologies share a group other than GroupOther.
func SameGroup(a, b world.Ideology) bool {
	ga := GroupOf(a)
	return ga != GroupOther && ga == GroupOf(b)
}

// Antagonistic reports whether two groups start with low mutual trust.
func Antagonistic(a, b Group) bool {
	pair := func(x, y Group) bool { return (a == x && b == y) || (a == y && b == x) }
	return pair(Conservative, LiberalLeft) ||
		pair(EconomicRight, LiberalLeft) ||
		pair(Conservative, Radical)
}

// InitialRelation draws the baseline trust a party with ideology target has
// toward a player of ideology player. It is a reset, called at game start
// and after each election.
func InitialRelation(player, target world.Ideology, src entropy.Source) float64 {
	pg, tg := GroupOf(player), GroupOf(target)
	switch {
	case pg == GroupOther || tg == GroupOther || pg == Centrist || tg == Centrist:
		return float64(entropy.IntRange(src, 45, 55))
	case pg == tg:
		return float64(entropy.IntRange(src, 60, 70))
	case Antagonistic(pg, tg):
		return float64(entropy.IntRange(src, 25, 35))
	}
	return float64(entropy.IntRange(src, 40, 50))
}
