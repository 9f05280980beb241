package engine

import (
	"fmt"

	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/world"
)

// Program is an internal-affairs initiative.
type Program string

const (
	AntiCorruption   Program = "anti_corruption"
	PromoteResearch  Program = "promote_research"
	Propaganda       Program = "propaganda"
	InfraInvestment  Program = "infra_investment"
	HealthcareReform Program = "healthcare_reform"
	DisasterDrill    Program = "disaster_drill"
	CulturalFestival Program = "cultural_festival"
	MilitaryReview   Program = "military_review"
)

// ProgramCost is what a programme takes from political power and treasury.
type ProgramCost struct {
	PoliticalPower int `json:"political_power"`
	Treasury       int `json:"treasury"`
}

var programCosts = map[Program]ProgramCost{
	AntiCorruption:   {30, 5000},
	PromoteResearch:  {15, 3000},
	Propaganda:       {20, 2000},
	InfraInvestment:  {25, 8000},
	HealthcareReform: {25, 7000},
	DisasterDrill:    {15, 2500},
	CulturalFestival: {20, 4000},
	MilitaryReview:   {20, 3000},
}

// CostOf returns the cost of p and whether p exists.
func CostOf(p Program) (ProgramCost, bool) {
	c, ok := programCosts[p]
	return c, ok
}

func (e *Engine) internalAffairs(s *world.GameState, p Program) error {
	cost, ok := programCosts[p]
	if !ok {
		return fmt.Errorf("%w: programme %q", ErrInvalidChoice, p)
	}
	if err := requirePhase(s, world.StatusPlaying); err != nil {
		return err
	}
	if err := requireRuling(s); err != nil {
		return err
	}
	if err := requirePP(s, cost.PoliticalPower); err != nil {
		return err
	}
	if err := requireTreasury(s, cost.Treasury); err != nil {
		return err
	}
	spendPP(s, cost.PoliticalPower)
	s.Country.Treasury -= cost.Treasury

	c := &s.Country
	player := s.Player()
	switch p {
	case AntiCorruption:
		cut := entropy.IntRange(e.src, 2, 5)
		c.AddCorruption(-cut)
		s.Log(fmt.Sprintf("[Interior] An anti-corruption drive cut corruption by %d.", cut))
	case PromoteResearch:
		pts := entropy.IntRange(e.src, 50, 100)
		c.ResearchPoints += pts
		s.Log(fmt.Sprintf("[Interior] Research grants yielded %d research points.", pts))
	case Propaganda:
		c.ShiftAllFactions(float64(entropy.IntRange(e.src, 1, 3)))
		player.AddSupport(entropy.Range(e.src, 0.5, 1.5))
		s.Log("[Interior] A propaganda campaign lifted public mood and government support.")
	case InfraInvestment:
		c.ShiftAllFactions(float64(entropy.IntRange(e.src, 2, 4)))
		c.Manpower += entropy.IntRange(e.src, 100, 200)
		s.Log("[Interior] Infrastructure spending raised public mood and manpower.")
	case HealthcareReform:
		c.ShiftAllFactions(float64(entropy.IntRange(e.src, 3, 5)))
		c.Manpower += entropy.IntRange(e.src, 150, 250)
		s.Log("[Interior] Healthcare reform raised public mood and manpower.")
	case DisasterDrill:
		c.ShiftAllFactions(float64(entropy.IntRange(e.src, 2, 3)))
		s.Log("[Interior] A national disaster drill reassured the public.")
	case CulturalFestival:
		c.ShiftAllFactions(float64(entropy.IntRange(e.src, 2, 4)))
		player.AddSupport(entropy.Range(e.src, 1, 2))
		s.Log("[Interior] A cultural festival lifted public mood and government support.")
	case MilitaryReview:
		calm := entropy.IntRange(e.src, 2, 4)
		s.MilitaryFrustration = world.ClampInt(s.MilitaryFrustration-calm, 0, maxFrustration)
		c.MilitaryPower += entropy.IntRange(e.src, 10, 20)
		s.Log(fmt.Sprintf("[Interior] A military review eased army frustration by %d.", calm))
	}
	return nil
}
