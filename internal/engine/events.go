package engine

import (
	"fmt"

	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/world"
)

func (e *Engine) chooseEventOption(s *world.GameState, idx int) error {
	ev := s.ActiveEvent
	if ev == nil {
		return ErrNoActiveEvent
	}
	if idx < 0 || idx >= len(ev.Choices) {
		return fmt.Errorf("%w: choice %d of %d", ErrInvalidChoice, idx, len(ev.Choices))
	}
	choice := ev.Choices[idx]
	fx := choice.Effects
	if fx.PoliticalPower < 0 {
		if err := requirePP(s, -fx.PoliticalPower); err != nil {
			return err
		}
	}
	if fx.PartyFunds < 0 && s.PlayerStats.PartyFunds < -fx.PartyFunds {
		return fmt.Errorf("%w: need %d", ErrInsufficientFunds, -fx.PartyFunds)
	}

	s.ActiveEvent = nil
	s.Log(fmt.Sprintf("[Event: %s] Chose %q.", ev.Title, choice.Text))
	s.Country.ApplyResources(fx.Resources)
	s.Country.ApplyFactionChanges(fx.Factions)
	s.Country.AddCorruption(fx.Corruption)
	s.PlayerStats.PoliticalPower = max(0, s.PlayerStats.PoliticalPower+fx.PoliticalPower)
	s.PlayerStats.PartyFunds = max(0, s.PlayerStats.PartyFunds+fx.PartyFunds)
	if p := s.Player(); p != nil && fx.Support != 0 {
		p.AddSupport(fx.Support)
	}

	switch choice.Outcome {
	case world.OutcomeMilitaryJunta:
		e.installJunta(s)
	case world.OutcomeResistCoup:
		strength := roundInt(float64(s.Country.MilitaryPower) * entropy.Range(e.src, 0.8, 1.2))
		s.Phase = world.CivilWar{Conflict: world.Conflict{OpposingStrength: strength}}
		s.Log("[Civil war] The government refuses to yield to the coup. The country is at war with itself.")
		e.logger.Info("civil war", "cause", "coup", "rebel_strength", strength, "turn", s.Turn)
	case world.OutcomeGoToWar:
		strength := roundInt(float64(s.Country.MilitaryPower) * entropy.Range(e.src, 0.9, 1.3))
		s.Phase = world.War{Conflict: world.Conflict{OpposingStrength: strength}}
		s.Log("[War] The country is at war with its neighbour.")
		e.logger.Info("war", "enemy_strength", strength, "turn", s.Turn)
	}
	return nil
}

// installJunta hands the state to the army and bans pacifist parties.
func (e *Engine) installJunta(s *world.GameState) {
	s.Country.Name = world.RegimeName(s.Country.Name, world.MilitaryJunta)
	s.Log(fmt.Sprintf("[Regime] A military government rules the %s. Pacifist parties have been banned.", s.Country.Name))
	var bans []world.PartyEffect
	for _, p := range s.Parties {
		if p.Ideology == world.Pacifism && !p.IsPlayer {
			bans = append(bans, world.PartyEffect{Target: p.Name, Action: world.Dissolve})
		}
	}
	if len(bans) > 0 {
		e.applyPartyEffects(s, bans)
	}
}
