package engine

import (
	"fmt"

	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/world"
)

const (
	criticizeCost   = 10
	counterPlanCost = 15
	rallyCost       = 20
)

func requireOpposition(s *world.GameState) error {
	if err := requirePhase(s, world.StatusPlaying); err != nil {
		return err
	}
	if s.PlayerStatus != world.Opposition {
		return ErrNotOpposition
	}
	return nil
}

// governingParty returns the ruling party, or the largest non-player party
// when a caretaker governs.
func governingParty(s *world.GameState) *world.Party {
	if p := s.PartyByName(s.RulingParty); p != nil && !p.IsPlayer {
		return p
	}
	var best *world.Party
	for i := range s.Parties {
		p := &s.Parties[i]
		if !p.IsPlayer && (best == nil || p.Seats > best.Seats) {
			best = p
		}
	}
	return best
}

func (e *Engine) criticize(s *world.GameState) error {
	if err := requireOpposition(s); err != nil {
		return err
	}
	if err := requirePP(s, criticizeCost); err != nil {
		return err
	}
	ruling := governingParty(s)
	if ruling == nil {
		return fmt.Errorf("%w: no government to criticise", ErrUnknownParty)
	}
	spendPP(s, criticizeCost)
	hit := entropy.Range(e.src, 0.5, 1.5)
	ruling.AddSupport(-hit)
	ruling.AddRelation(-5)
	s.Player().AddSupport(hit / 2)
	s.Log(fmt.Sprintf("[Opposition] Attacks on the government cost %s %.1f points of support.", ruling.Name, hit))
	return nil
}

func (e *Engine) counterPlan(s *world.GameState) error {
	if err := requireOpposition(s); err != nil {
		return err
	}
	if err := requirePP(s, counterPlanCost); err != nil {
		return err
	}
	spendPP(s, counterPlanCost)
	gain := entropy.Range(e.src, 1, 2)
	s.Player().AddSupport(gain)
	s.Log(fmt.Sprintf("[Opposition] Our alternative programme won %.1f points of support.", gain))
	return nil
}

// rally turns a street-speech score (0–100) into support.
func (e *Engine) rally(s *world.GameState, score int) error {
	if err := requireOpposition(s); err != nil {
		return err
	}
	if err := requirePP(s, rallyCost); err != nil {
		return err
	}
	spendPP(s, rallyCost)
	gain := float64(world.ClampInt(score, 0, 100)) * 0.2
	s.Player().AddSupport(gain)
	s.Log(fmt.Sprintf("[Opposition] The street rally scored %d and added %.1f points of support.", world.ClampInt(score, 0, 100), gain))
	return nil
}
