package engine

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/talgya/statecraft/internal/catalog"
	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/ideology"
	"github.com/talgya/statecraft/internal/world"
)

const (
	diplomacyCost      = 15
	coalitionCost      = 30
	donationCost       = 5
	fundConversionCost = 500
	fundConversionGain = 10
	pactTurns          = 5
	maxDonationAmount  = 100000
	diplomacyOdds      = 0.6
)

// opponent resolves name to a non-player party.
func opponent(s *world.GameState, name string) (*world.Party, error) {
	p, err := resolveParty(s, name)
	if err != nil {
		return nil, err
	}
	if p.IsPlayer {
		return nil, fmt.Errorf("%w: %q is the player's own party", ErrInvalidChoice, p.Name)
	}
	return p, nil
}

func (e *Engine) requestDiplomacy(s *world.GameState, name string) error {
	if err := requirePhase(s, world.StatusPlaying); err != nil {
		return err
	}
	target, err := opponent(s, name)
	if err != nil {
		return err
	}
	if err := requirePP(s, diplomacyCost); err != nil {
		return err
	}
	spendPP(s, diplomacyCost)

	if !entropy.Chance(e.src, diplomacyOdds) {
		target.AddRelation(-3)
		s.Log(fmt.Sprintf("[Diplomacy] Talks with %s ended without agreement.", target.Name))
		return nil
	}
	target.AddSupport(1.5)
	target.AddRelation(5)
	s.Player().AddSupport(1)
	refreshed := false
	for i := range s.DiplomaticPacts {
		if s.DiplomaticPacts[i].PartyName == target.Name {
			s.DiplomaticPacts[i].TurnsRemaining = pactTurns
			refreshed = true
		}
	}
	if !refreshed {
		s.DiplomaticPacts = append(s.DiplomaticPacts, world.DiplomaticPact{PartyName: target.Name, TurnsRemaining: pactTurns})
	}
	s.Log(fmt.Sprintf("[Diplomacy] A joint statement with %s lifted support and goodwill on both sides.", target.Name))
	return nil
}

// coalitionOdds is the chance target accepts a coalition offer.
func coalitionOdds(player, target world.Party) float64 {
	odds := 0.3 + target.Relation/100*0.5
	pg, tg := ideology.GroupOf(player.Ideology), ideology.GroupOf(target.Ideology)
	switch {
	case pg == tg:
		odds += 0.2
	case (pg == ideology.Conservative && tg == ideology.LiberalLeft) || (pg == ideology.LiberalLeft && tg == ideology.Conservative):
		odds -= 0.3
	}
	return odds
}

func (e *Engine) requestCoalition(s *world.GameState, name string) error {
	if err := requirePhase(s, world.StatusPlaying); err != nil {
		return err
	}
	if err := requireRuling(s); err != nil {
		return err
	}
	target, err := opponent(s, name)
	if err != nil {
		return err
	}
	if s.InPlayerCoalition(target.Name) {
		return fmt.Errorf("%w: %s", ErrAlreadyInCoalition, target.Name)
	}
	if err := requirePP(s, coalitionCost); err != nil {
		return err
	}
	spendPP(s, coalitionCost)

	if entropy.Chance(e.src, coalitionOdds(*s.Player(), *target)) {
		s.PlayerCoalition = append(s.PlayerCoalition, target.Name)
		target.AddRelation(20)
		s.Log(fmt.Sprintf("[Government] %s has agreed to join the governing coalition.", target.Name))
		return nil
	}
	target.AddRelation(-10)
	s.Log(fmt.Sprintf("[Government] Coalition talks with %s broke down.", target.Name))
	return nil
}

// requestDonation books a donation negotiation. amount is the negotiated
// sum; zero means the talks failed.
func (e *Engine) requestDonation(s *world.GameState, amount int) error {
	if err := requirePhase(s, world.StatusPlaying); err != nil {
		return err
	}
	if s.Blocked() {
		return ErrTurnBlocked
	}
	if amount < 0 || amount > maxDonationAmount {
		return fmt.Errorf("%w: donation amount %d", ErrInvalidChoice, amount)
	}
	if err := requirePP(s, donationCost); err != nil {
		return err
	}
	spendPP(s, donationCost)

	if amount == 0 {
		s.Log("[Funds] Donation talks with business leaders collapsed.")
		return nil
	}
	if entropy.Chance(e.src, 0.05+float64(amount)/40000) {
		if ev, ok := e.cat.Special(catalog.EventDonationScandal); ok {
			s.ActiveEvent = &ev
		}
		s.Log("[Scandal] The donation talks have backfired.")
		return nil
	}
	corruption := 1 + amount/1000
	s.PlayerStats.PartyFunds += amount
	s.Country.AddCorruption(corruption)
	s.Country.ShiftAllFactions(-1)
	s.Log(fmt.Sprintf("[Funds] Received a corporate donation of %s (corruption +%d).", humanize.Comma(int64(amount)), corruption))
	return nil
}

func convertFunds(s *world.GameState) error {
	if have := s.PlayerStats.PartyFunds; have < fundConversionCost {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, fundConversionCost, have)
	}
	s.PlayerStats.PartyFunds -= fundConversionCost
	s.PlayerStats.PoliticalPower += fundConversionGain
	s.Log(fmt.Sprintf("[Funds] Converted %d party funds into %d political power.", fundConversionCost, fundConversionGain))
	return nil
}
