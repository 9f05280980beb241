package ideology

import (
	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/world"
)

// Resource deltas are divided by these before weighting.
const (
	treasuryScale  = 1000
	stabilityScale = 5
	manpowerScale  = 200
	researchScale  = 50
	militaryScale  = 100

	dictatorshipPenalty   = -5
	selfPreservationMalus = -10
	noiseAmplitude        = 2.0 // noise spans [-1, +1)
)

// Score is the noise-free appraisal of a law by an ideology. Positive
// means favourable.
func Score(id world.Ideology, eff world.LawEffect, description string) float64 {
	wt := WeightsFor(id)
	r := eff.Resources
	score := float64(r.Treasury)/treasuryScale*wt.Treasury +
		float64(r.Stability)/stabilityScale*wt.Stability +
		float64(r.Manpower)/manpowerScale*wt.Manpower +
		float64(r.ResearchPoints)/researchScale*wt.ResearchPoints +
		float64(r.MilitaryPower)/militaryScale*wt.MilitaryPower

	themes := ExtractThemes(eff, description)
	for _, t := range themes.Matched() {
		score += wt.Themes[t]
	}

	switch eff.PoliticalSystemChange {
	case world.Monarchy:
		score += wt.Themes[ProTradition]*2 - wt.Themes[ProRepublic]*3
	case world.Republic:
		score += wt.Themes[ProRepublic]*2 - wt.Themes[ProTradition]*3
	case world.Dictatorship:
		score += dictatorshipPenalty
	}

	// Only the ALL_OPPOSITION sentinel triggers self-preservation; a party
	// named directly does not recognise the threat.
	for _, pe := range eff.PartyEffects {
		if pe.Target == world.TargetAllOpposition && (pe.Action == world.Dissolve || pe.Action == world.ConfiscateSeats) {
			score += selfPreservationMalus
		}
	}
	return score
}

// DecideVote scores the law for id and adds uniform noise in [-1, +1).
func DecideVote(id world.Ideology, eff world.LawEffect, description string, src entropy.Source) world.Vote {
	score := Score(id, eff, description) + (src.Float64()-0.5)*noiseAmplitude
	if score > 0 {
		return world.Approve
	}
	return world.Oppose
}
