package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/statecraft/internal/catalog"
	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/ideology"
	"github.com/talgya/statecraft/internal/world"
)

const (
	politicalPowerRegen = 5
	caretakerParty      = "Provisional Government"
	maxFrustration      = 20
)

// advanceTurn runs the turn pipeline. Stages run in a fixed order because
// each one reads totals the previous one produced.
func (e *Engine) advanceTurn(s *world.GameState) error {
	if err := requirePhase(s, world.StatusPlaying); err != nil {
		return err
	}
	if s.Blocked() {
		return ErrTurnBlocked
	}
	s.Log(fmt.Sprintf("Turn %d begins.", s.Turn+1))

	e.applyBudget(s)
	e.applyMinisters(s)

	if drain := s.Country.Corruption * s.Country.Corruption * 5; drain > 0 {
		s.Country.Treasury -= drain
		s.Log(fmt.Sprintf("[Corruption] %s vanished from the treasury through graft.", humanize.Comma(int64(drain))))
	}
	if t := s.Country.Treasury; t < 0 {
		penalty := 1 + (-t)/10000
		s.Country.AddStability(-penalty)
		s.Log(fmt.Sprintf("[Deficit] The treasury is in the red. Stability -%d.", penalty))
	}
	s.MilitaryFrustration = world.ClampInt(s.MilitaryFrustration, 0, maxFrustration)
	decayPacts(s)
	s.PlayerStats.PoliticalPower += politicalPowerRegen
	s.Log(fmt.Sprintf("Political power +%d.", politicalPowerRegen))

	if player := s.Player(); player != nil && s.PlayerStatus == world.Ruling && player.Support <= 0 {
		e.collapseGovernment(s)
		endTurn(s)
		return nil
	}

	e.driftParties(s)
	if s.PlayerStatus == world.Ruling && entropy.Chance(e.src, 0.15) {
		e.formOppositionCoalition(s)
	}
	if s.PlayerStatus == world.Ruling {
		if e.selectEvent(s) {
			endTurn(s)
			return nil
		}
		if !s.Blocked() && entropy.Chance(e.src, 0.3) {
			e.oppositionMotion(s)
		}
	}
	endTurn(s)
	return nil
}

func endTurn(s *world.GameState) {
	s.Turn++
	s.LawProposedThisTurn = false
}

func (e *Engine) applyBudget(s *world.GameState) {
	var treasury int
	for item := world.BudgetItem(0); item < world.NumBudgetItems; item++ {
		eff := world.EffectOf(item, s.Budget.Level(item))
		treasury += eff.Treasury
		s.Country.ApplyResources(world.Resources{
			Treasury:       eff.Treasury,
			Manpower:       eff.Manpower,
			ResearchPoints: eff.ResearchPoints,
			MilitaryPower:  eff.MilitaryPower,
		})
		s.Country.ApplyFactionChanges(eff.Factions)
		s.MilitaryFrustration += eff.MilitaryFrustration
	}
	if treasury != 0 {
		s.Log(fmt.Sprintf("[Budget] Treasury %s from budget lines.", signed(treasury)))
	}
}

func (e *Engine) applyMinisters(s *world.GameState) {
	for _, m := range s.Ministers {
		s.Country.ApplyResources(m.Effects.Resources)
		s.Country.AddCorruption(m.Effects.Corruption)
		s.Country.ApplyFactionChanges(m.Effects.Factions)
		if parts := describeResources(m.Effects.Resources); m.Effects.Corruption != 0 || len(parts) > 0 {
			if m.Effects.Corruption != 0 {
				parts = append(parts, "corruption "+signed(m.Effects.Corruption))
			}
			s.Log(fmt.Sprintf("[Cabinet] %s (%s): %s", m.FullName(), m.Portfolio, strings.Join(parts, ", ")))
		}
	}
}

func describeResources(r world.Resources) []string {
	var parts []string
	add := func(label string, v int) {
		if v != 0 {
			parts = append(parts, label+" "+signed(v))
		}
	}
	add("treasury", r.Treasury)
	add("stability", r.Stability)
	add("manpower", r.Manpower)
	add("research", r.ResearchPoints)
	add("military", r.MilitaryPower)
	return parts
}

func decayPacts(s *world.GameState) {
	kept := s.DiplomaticPacts[:0]
	for _, p := range s.DiplomaticPacts {
		if p.TurnsRemaining == 1 {
			s.Log(fmt.Sprintf("[Diplomacy] The cooperation agreement with %s has expired.", p.PartyName))
		}
		p.TurnsRemaining--
		if p.TurnsRemaining > 0 {
			kept = append(kept, p)
		}
	}
	s.DiplomaticPacts = kept
}

// collapseGovernment hands power to the most popular opposition party, or
// to a caretaker when there is none.
func (e *Engine) collapseGovernment(s *world.GameState) {
	player := s.Player()
	successor := caretakerParty
	best := -1.0
	for _, p := range s.Parties {
		if !p.IsPlayer && p.Support > best {
			best, successor = p.Support, p.Name
		}
	}
	s.PlayerStatus = world.Opposition
	s.RulingParty = successor
	s.Log(
		fmt.Sprintf("[Collapse] Support for %s has evaporated and the government has fallen.", player.Name),
		fmt.Sprintf("%s now leads the government.", successor),
		"You continue in opposition.",
	)
	e.logger.Info("government collapsed", "turn", s.Turn, "successor", successor)
}

func (e *Engine) driftParties(s *world.GameState) {
	stabilityFactor := (s.Country.OverallHappiness() - 50) / 100
	for i := range s.Parties {
		p := &s.Parties[i]
		support, relation := -0.3, -0.5
		if p.IsPlayer {
			support += entropy.Range(e.src, -0.1, 0.3) + stabilityFactor*0.5
		} else {
			support += entropy.Range(e.src, -0.2, 0.6)
			if s.InPlayerCoalition(p.Name) {
				relation = 0.5
			}
		}
		p.AddSupport(support)
		p.AddRelation(relation)
	}
}

// formOppositionCoalition pairs two unaligned opposition parties of the
// same group, extending the group's coalition if it already exists.
func (e *Engine) formOppositionCoalition(s *world.GameState) {
	var unaligned []world.Party
	for _, p := range s.Parties {
		if _, ok := s.OppositionCoalitionOf(p.Name); !p.IsPlayer && !ok {
			unaligned = append(unaligned, p)
		}
	}
	if len(unaligned) < 2 {
		return
	}
	initiator := entropy.Pick(e.src, unaligned)
	group := ideology.GroupOf(initiator.Ideology)
	if group == ideology.GroupOther {
		return
	}
	var partners []world.Party
	for _, p := range unaligned {
		if p.Name != initiator.Name && ideology.GroupOf(p.Ideology) == group {
			partners = append(partners, p)
		}
	}
	if len(partners) == 0 {
		return
	}
	partner := entropy.Pick(e.src, partners)
	name := group.String() + " coalition"
	idx := slices.IndexFunc(s.OppositionCoalitions, func(c world.Coalition) bool { return c.Name == name })
	if idx < 0 {
		s.OppositionCoalitions = append(s.OppositionCoalitions, world.Coalition{Name: name})
		idx = len(s.OppositionCoalitions) - 1
	}
	c := &s.OppositionCoalitions[idx]
	for _, m := range []string{initiator.Name, partner.Name} {
		if !c.Has(m) {
			c.Members = append(c.Members, m)
		}
	}
	s.Log(fmt.Sprintf("[Opposition] %s and %s have joined forces as the %q.", initiator.Name, partner.Name, name))
}

// selectEvent runs the crisis checks in priority order. It reports true
// when corruption tipped the country straight into civil war, which ends
// the turn.
func (e *Engine) selectEvent(s *world.GameState) bool {
	c := &s.Country
	stability := c.OverallHappiness()
	player := s.Player()

	var ev world.Event
	var ok bool
	switch {
	case c.Corruption > 40 && e.src.Float64() < float64(c.Corruption-40)/50:
		strength := roundInt(float64(c.MilitaryPower) * (0.5 + float64(c.Corruption)/100))
		c.Corruption /= 2
		s.ActiveEvent = nil
		s.BillToVoteOn = nil
		s.Phase = world.CivilWar{Conflict: world.Conflict{OpposingStrength: strength}}
		s.Log("[Uprising] Rampant corruption has driven the people to revolt. The country is in civil war.")
		e.logger.Info("civil war", "cause", "corruption", "rebel_strength", strength, "turn", s.Turn)
		return true
	case c.Corruption > 15 && e.src.Float64() < float64(c.Corruption-15)/50:
		ev, ok = e.cat.Special(catalog.EventCorruptionProtest)
	case stability < 40 && s.MilitaryFrustration > 8 && e.src.Float64() < 0.3:
		ev, ok = e.cat.Special(catalog.EventCoup)
		if ok {
			ev.Description = "Stability has collapsed and the army's patience is gone. " + ev.Description
		}
	case player != nil && player.Support < 20 && e.src.Float64() < 0.2:
		ev, ok = e.cat.Special(catalog.EventProtest)
	case stability < 50 && e.src.Float64() < 0.02:
		ev, ok = e.cat.Special(catalog.EventBorderWar)
	case e.src.Float64() < 0.25:
		ev, ok = entropy.Pick(e.src, e.cat.Events), true
	}
	if ok {
		s.ActiveEvent = &ev
		s.Log("[Event] " + ev.Title)
	}
	return false
}

// oppositionMotion has a random opposition party table a catalog bill.
func (e *Engine) oppositionMotion(s *world.GameState) {
	var proposers []string
	for _, p := range s.Parties {
		if !p.IsPlayer {
			proposers = append(proposers, p.Name)
		}
	}
	if len(proposers) == 0 || len(e.cat.Bills) == 0 {
		return
	}
	proposer := entropy.Pick(e.src, proposers)
	bill := entropy.Pick(e.src, e.cat.Bills).Bill(proposer)
	s.BillToVoteOn = &bill
	s.Log(fmt.Sprintf("[Motion] %s has tabled the %q.", proposer, bill.Name))
}
