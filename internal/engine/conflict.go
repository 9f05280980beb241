package engine

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/world"
)

// Tactic is a conflict-round order.
type Tactic string

const (
	Offensive  Tactic = "offensive"
	Defensive  Tactic = "defensive"
	Guerrilla  Tactic = "guerrilla"
	SupplyRaid Tactic = "supply_raid"
)

const (
	offensiveCost     = 10
	supplyRaidCost    = 20
	guerrillaTreasury = 2000
	supplyDebuffTurns = 3
	warReparations    = 10000
	warIndemnity      = 5000
)

// conflictTactic plays one round of the current civil war or war. Each
// round is a full turn.
func (e *Engine) conflictTactic(s *world.GameState, t Tactic) error {
	c, ok := world.ConflictOf(s.Phase)
	if !ok {
		return fmt.Errorf("%w: no conflict in progress", ErrWrongPhase)
	}
	_, civil := s.Phase.(world.CivilWar)
	enemy := "enemy"
	if civil {
		enemy = "rebel"
	}

	switch t {
	case Offensive:
		if err := requirePP(s, offensiveCost); err != nil {
			return err
		}
		spendPP(s, offensiveCost)
		s.Log("[Orders: offensive] All units advance.")
	case Defensive:
		s.Log("[Orders: defensive] Hold the line and let the enemy wear itself out.")
	case Guerrilla:
		if err := requireTreasury(s, guerrillaTreasury); err != nil {
			return err
		}
		s.Country.Treasury -= guerrillaTreasury
		s.Country.ShiftAllFactions(-2)
		s.Log("[Orders: guerrilla] Raiders strike behind enemy lines.")
	case SupplyRaid:
		if err := requirePP(s, supplyRaidCost); err != nil {
			return err
		}
		spendPP(s, supplyRaidCost)
		s.Log("[Orders: supply raid] Special forces sent against the supply lines.")
	default:
		return fmt.Errorf("%w: tactic %q", ErrInvalidChoice, t)
	}

	own := float64(s.Country.MilitaryPower)
	opp := float64(c.OpposingStrength)
	if c.SupplyDebuffTurns > 0 {
		opp *= 0.7
		s.Log(fmt.Sprintf("[Supply] Disrupted supply lines are sapping %s strength.", enemy))
	}
	ratio := 0.5
	if own+opp > 0 {
		ratio = own / (own + opp)
	}

	var change, ownLoss, oppLoss int
	switch t {
	case Offensive:
		change = roundInt((ratio-0.4)*40 + (e.src.Float64()-0.5)*15)
		ownLoss = roundInt(own * entropy.Range(e.src, 0.08, 0.15))
		oppLoss = roundInt(opp * entropy.Range(e.src, 0.10, 0.15))
	case Defensive:
		change = roundInt((ratio-0.5)*20 + (e.src.Float64()-0.5)*10)
		ownLoss = roundInt(own * entropy.Range(e.src, 0.04, 0.08))
		oppLoss = roundInt(opp * entropy.Range(e.src, 0.07, 0.13))
	case Guerrilla:
		change = roundInt((e.src.Float64() - 0.5) * 10)
		ownLoss = roundInt(own * entropy.Range(e.src, 0.06, 0.10))
		oppLoss = roundInt(float64(c.OpposingStrength) * entropy.Range(e.src, 0.05, 0.10))
		s.Log(fmt.Sprintf("[Guerrilla] The raid cost the %s side %s.", enemy, humanize.Comma(int64(oppLoss))))
	case SupplyRaid:
		if entropy.Chance(e.src, 0.7) {
			c.SupplyDebuffTurns = supplyDebuffTurns
			s.Log("[Supply] The raid cut the enemy's supply lines. The effect will last several turns.")
		} else {
			s.Log("[Supply] The raid failed to break the supply lines.")
		}
		ownLoss = roundInt(own * entropy.Range(e.src, 0.02, 0.04))
	}

	c.Progress = world.ClampInt(c.Progress+change, -100, 100)
	c.OpposingStrength = max(0, c.OpposingStrength-oppLoss)
	s.Country.MilitaryPower = max(0, s.Country.MilitaryPower-ownLoss)
	s.Country.Manpower = max(0, s.Country.Manpower-roundInt(float64(ownLoss+oppLoss)/2))
	direction := "advanced"
	if change < 0 {
		direction = "fell back"
	}
	s.Log(fmt.Sprintf("[Front] The front %s. Our losses: %s, %s losses: %s.",
		direction, humanize.Comma(int64(ownLoss)), enemy, humanize.Comma(int64(oppLoss))))
	s.Turn++

	switch {
	case c.Progress >= 100:
		e.winConflict(s, civil)
	case c.Progress <= -100 || s.Country.MilitaryPower <= 0:
		if civil {
			return fmt.Errorf("%w: the rebels have taken the capital", ErrGameOver)
		}
		e.loseWar(s)
	default:
		c.SupplyDebuffTurns = max(0, c.SupplyDebuffTurns-1)
		if civil {
			s.Phase = world.CivilWar{Conflict: c}
		} else {
			s.Phase = world.War{Conflict: c}
		}
	}
	return nil
}

func (e *Engine) winConflict(s *world.GameState, civil bool) {
	s.Phase = world.Playing{}
	if civil {
		s.Country.ShiftAllFactions(20)
		s.Log("[Civil war over] The rebellion has been crushed and the country is whole again.")
		e.logger.Info("civil war won", "turn", s.Turn)
		return
	}
	s.Country.ShiftAllFactions(10)
	s.Country.Treasury += warReparations
	if p := s.Player(); p != nil {
		p.AddSupport(5)
	}
	s.Log(fmt.Sprintf("[War over] Victory. The enemy pays reparations of %s.", humanize.Comma(warReparations)))
	e.logger.Info("war won", "turn", s.Turn)
}

func (e *Engine) loseWar(s *world.GameState) {
	s.Phase = world.Playing{}
	s.Country.ShiftAllFactions(-20)
	s.Country.Treasury -= warIndemnity
	if p := s.Player(); p != nil {
		p.AddSupport(-15)
	}
	s.Log(fmt.Sprintf("[War over] Defeat. The country pays an indemnity of %s.", humanize.Comma(warIndemnity)))
	e.logger.Info("war lost", "turn", s.Turn)
}
