package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/talgya/statecraft/internal/apportion"
	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/ideology"
	"github.com/talgya/statecraft/internal/world"
)

const proposeLawCost = 20

func (e *Engine) proposeLaw(s *world.GameState, a ProposeLaw) error {
	if err := requirePhase(s, world.StatusPlaying); err != nil {
		return err
	}
	if err := requireRuling(s); err != nil {
		return err
	}
	if s.Blocked() {
		return ErrTurnBlocked
	}
	if s.LawProposedThisTurn {
		return ErrLawAlreadyProposed
	}
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return fmt.Errorf("%w: law name is empty", ErrInvalidChoice)
	}
	if err := a.Effect.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChoice, err)
	}
	if err := requirePP(s, proposeLawCost); err != nil {
		return err
	}
	if !s.Country.CanAfford(a.Effect.Resources) {
		return fmt.Errorf("%w: the country cannot cover %q", ErrInsufficientResources, name)
	}

	eff := a.Effect
	eff.PartyEffects = e.resolvePartyEffects(s, eff.PartyEffects)
	player := s.Player()
	s.BillToVoteOn = &world.Bill{
		Proposer:    player.Name,
		Name:        name,
		Description: a.Description,
		Effect:      eff,
	}
	s.LawProposedThisTurn = true
	spendPP(s, proposeLawCost)
	s.Log(fmt.Sprintf("[Legislature] %s has submitted the %q.", player.Name, name))
	return nil
}

// resolvePartyEffects maps target names onto live parties. Sentinels pass
// through; names that match nothing are dropped.
func (e *Engine) resolvePartyEffects(s *world.GameState, effects []world.PartyEffect) []world.PartyEffect {
	var out []world.PartyEffect
	for _, pe := range effects {
		if pe.Target == world.TargetAllOpposition || pe.Target == world.TargetPlayer {
			out = append(out, pe)
			continue
		}
		p, err := resolveParty(s, pe.Target)
		if err != nil {
			e.logger.Warn("dropping party effect", "target", pe.Target, "action", pe.Action)
			s.Log(fmt.Sprintf("[Legislature] No party named %q; that clause was struck.", pe.Target))
			continue
		}
		pe.Target = p.Name
		out = append(out, pe)
	}
	return out
}

func (e *Engine) voteOnBill(s *world.GameState, vote world.Vote) error {
	bill := s.BillToVoteOn
	if bill == nil {
		return ErrNoPendingBill
	}
	if vote != world.Approve && vote != world.Oppose {
		return fmt.Errorf("%w: vote %q", ErrInvalidChoice, vote)
	}

	vr := e.tally(s, bill, vote)
	if player := s.Player(); player != nil && bill.Proposer == player.Name {
		for i := range s.Parties {
			p := &s.Parties[i]
			if p.IsPlayer {
				continue
			}
			if v, ok := voteOf(vr.PartyVotes, p.Name); ok {
				if v == world.Approve {
					p.AddRelation(3)
				} else {
					p.AddRelation(-3)
				}
			}
		}
	}
	s.BillToVoteOn = nil
	s.VoteResult = vr
	return nil
}

// tally collects every party's vote, weighted by seats.
func (e *Engine) tally(s *world.GameState, bill *world.Bill, playerVote world.Vote) *world.VoteResult {
	player := s.Player()
	byPlayer := player != nil && bill.Proposer == player.Name
	vr := &world.VoteResult{
		LawName:     bill.Name,
		Description: bill.Description,
		Effect:      bill.Effect,
		Proposer:    bill.Proposer,
	}
	for _, p := range s.Parties {
		var v world.Vote
		switch {
		case p.IsPlayer:
			v = playerVote
			if s.PlayerStatus == world.Opposition {
				v = world.Oppose
			}
		case byPlayer && s.HasPact(p.Name):
			v = chanceVote(e.src, 0.85)
		case byPlayer && s.InPlayerCoalition(p.Name):
			v = chanceVote(e.src, 0.95)
		default:
			v = e.coalitionVote(s, p, vr.PartyVotes, bill)
		}
		vr.PartyVotes = append(vr.PartyVotes, world.PartyVote{PartyName: p.Name, Vote: v, Seats: p.Seats})
		if v == world.Approve {
			vr.Approve += p.Seats
		} else {
			vr.Oppose += p.Seats
		}
	}
	vr.Passed = world.Passes(vr.Approve, s.SeatTotal())
	return vr
}

// coalitionVote follows the coalition's first member 80% of the time once
// that member has voted, and otherwise falls back to ideology.
func (e *Engine) coalitionVote(s *world.GameState, p world.Party, cast []world.PartyVote, bill *world.Bill) world.Vote {
	if c, ok := s.OppositionCoalitionOf(p.Name); ok && len(c.Members) > 0 {
		if lead, ok := voteOf(cast, c.Members[0]); ok && entropy.Chance(e.src, 0.8) {
			return lead
		}
	}
	return ideology.DecideVote(p.Ideology, bill.Effect, bill.Description, e.src)
}

func chanceVote(src entropy.Source, p float64) world.Vote {
	if entropy.Chance(src, p) {
		return world.Approve
	}
	return world.Oppose
}

func voteOf(votes []world.PartyVote, name string) (world.Vote, bool) {
	for _, v := range votes {
		if v.PartyName == name {
			return v.Vote, true
		}
	}
	return "", false
}

func (e *Engine) acknowledgeVote(s *world.GameState) error {
	vr := s.VoteResult
	if vr == nil {
		return ErrNoVoteResult
	}
	s.VoteResult = nil
	s.Log("[Vote] " + vr.LawName)
	for _, pv := range vr.PartyVotes {
		verb := "voted in favour"
		if pv.Vote == world.Oppose {
			verb = "voted against"
		}
		s.Log(fmt.Sprintf("- %s %s.", pv.PartyName, verb))
	}
	if vr.Passed {
		s.Log(fmt.Sprintf("[Passed] %s carried %d to %d.", vr.LawName, vr.Approve, vr.Oppose))
		e.enact(s, vr)
	} else {
		s.Log(fmt.Sprintf("[Defeated] %s fell %d to %d.", vr.LawName, vr.Oppose, vr.Approve))
	}
	e.lawNews(s, vr.LawName, vr.Passed)
	if vr.Passed && vr.Effect.PoliticalSystemChange == world.Democracy {
		e.democratize(s, vr.LawName)
	}
	return nil
}

func (e *Engine) enact(s *world.GameState, vr *world.VoteResult) {
	eff := vr.Effect
	s.Country.ApplyResources(eff.Resources)
	s.Country.ApplyFactionChanges(eff.Factions)
	if r := eff.PoliticalSystemChange; r != world.RegimeNone {
		s.Country.Name = world.RegimeName(s.Country.Name, r)
		s.Log(fmt.Sprintf("[Regime] The country is now the %s.", s.Country.Name))
	}
	if len(eff.PartyEffects) > 0 {
		e.applyPartyEffects(s, eff.PartyEffects)
	}
	if player := s.Player(); player != nil && vr.Proposer == player.Name {
		gain := entropy.IntRange(e.src, 2, 5)
		player.AddSupport(float64(gain))
		s.Log(fmt.Sprintf("[Government] Passing %q lifted %s's support by %d points.", vr.LawName, player.Name, gain))
	}
}

// partyTargets returns the indices a party effect applies to.
func partyTargets(s *world.GameState, target string) []int {
	var idx []int
	for i, p := range s.Parties {
		switch {
		case target == world.TargetAllOpposition && !p.IsPlayer,
			target == world.TargetPlayer && p.IsPlayer,
			p.Name == target:
			idx = append(idx, i)
		}
	}
	return idx
}

// applyPartyEffects runs the law's party clauses in order. Seat moves are
// rebalanced over the untouched parties; any residual after all clauses is
// settled on the player's party.
func (e *Engine) applyPartyEffects(s *world.GameState, effects []world.PartyEffect) {
	for _, pe := range effects {
		targets := partyTargets(s, pe.Target)
		if pe.Action == world.Dissolve {
			targets = slices.DeleteFunc(targets, func(i int) bool { return s.Parties[i].IsPlayer })
		}
		if len(targets) == 0 {
			continue
		}
		var names []string
		for _, i := range targets {
			names = append(names, s.Parties[i].Name)
		}
		seats := seatList(s)
		switch pe.Action {
		case world.Dissolve:
			// Dissolved parties hand their seats to the survivors.
			most := 0
			for _, i := range targets {
				most = max(most, seats[i])
			}
			apportion.Transfer(seats, targets, -most)
			setSeats(s, seats)
			gone := make(map[int]bool, len(targets))
			for _, i := range targets {
				gone[i] = true
			}
			e.removeParties(s, gone)
			s.Log(fmt.Sprintf("[Politics] %s forcibly dissolved.", strings.Join(names, ", ")))
		case world.ConfiscateSeats, world.GrantSeats:
			delta := pe.Value
			if pe.Action == world.ConfiscateSeats {
				delta = -delta
			}
			apportion.Transfer(seats, targets, delta)
			setSeats(s, seats)
			s.Log(fmt.Sprintf("[Parliament] Seats changed hands: %s.", strings.Join(names, ", ")))
		}
	}

	if len(s.Parties) == 0 {
		return
	}
	seats := seatList(s)
	anchor := max(0, slices.IndexFunc(s.Parties, func(p world.Party) bool { return p.IsPlayer }))
	if diff := apportion.Reconcile(seats, world.TotalSeats, anchor); diff != 0 {
		e.logger.Warn("seat total corrected", "diff", diff, "party", s.Parties[anchor].Name, "turn", s.Turn)
		setSeats(s, seats)
	}
}

func seatList(s *world.GameState) []int {
	seats := make([]int, len(s.Parties))
	for i, p := range s.Parties {
		seats[i] = p.Seats
	}
	return seats
}

func setSeats(s *world.GameState, seats []int) {
	for i := range s.Parties {
		s.Parties[i].Seats = seats[i]
	}
}

// removeParties drops the marked parties and every reference to them.
func (e *Engine) removeParties(s *world.GameState, gone map[int]bool) {
	names := make(map[string]bool, len(gone))
	kept := s.Parties[:0]
	for i, p := range s.Parties {
		if gone[i] {
			names[p.Name] = true
			continue
		}
		kept = append(kept, p)
	}
	s.Parties = kept
	s.PlayerCoalition = slices.DeleteFunc(s.PlayerCoalition, func(n string) bool { return names[n] })
	s.DiplomaticPacts = slices.DeleteFunc(s.DiplomaticPacts, func(p world.DiplomaticPact) bool { return names[p.PartyName] })
	for i := range s.OppositionCoalitions {
		c := &s.OppositionCoalitions[i]
		c.Members = slices.DeleteFunc(c.Members, func(n string) bool { return names[n] })
	}
	s.OppositionCoalitions = slices.DeleteFunc(s.OppositionCoalitions, func(c world.Coalition) bool { return len(c.Members) < 2 })
	if names[s.RulingParty] {
		e.reassignGovernment(s)
	}
}

// reassignGovernment gives power to the largest party after the ruling
// party disappears.
func (e *Engine) reassignGovernment(s *world.GameState) {
	best := -1
	for i, p := range s.Parties {
		if best < 0 || p.Seats > s.Parties[best].Seats {
			best = i
		}
	}
	if best < 0 {
		s.RulingParty = caretakerParty
		return
	}
	s.RulingParty = s.Parties[best].Name
	if s.Parties[best].IsPlayer {
		s.PlayerStatus = world.Ruling
	}
	s.Log(fmt.Sprintf("[Government] %s now leads the government.", s.RulingParty))
}

// democratize replaces the opposition with a freshly founded slate and
// calls an immediate election.
func (e *Engine) democratize(s *world.GameState, lawName string) {
	player := s.Player()
	var pool []world.Party
	for _, p := range e.cat.Parties {
		if player == nil || p.Name != player.Name {
			pool = append(pool, world.Party{Name: p.Name, Ideology: p.Ideology, Relation: 50})
		}
	}
	n := min(entropy.IntRange(e.src, 3, 5), len(pool))
	fresh := entropy.Shuffle(e.src, pool)[:n]
	var names []string
	for i := range fresh {
		fresh[i].Support = entropy.Range(e.src, 15, 25)
		names = append(names, fresh[i].Name)
	}
	var parties []world.Party
	if player != nil {
		p := *player
		p.Support = 40
		parties = append(parties, p)
	}
	s.Parties = append(parties, fresh...)
	support := make([]float64, len(s.Parties))
	for i, p := range s.Parties {
		support[i] = p.Support
	}
	setSeats(s, apportion.LargestRemainder(support, world.TotalSeats))
	s.PlayerCoalition = nil
	s.OppositionCoalitions = nil
	s.DiplomaticPacts = nil
	s.Phase = world.Election{CampaignTurn: 1}
	s.Log(
		fmt.Sprintf("[Democratisation] With %q the country becomes a multi-party democracy.", lawName),
		fmt.Sprintf("New parties founded: %s.", strings.Join(names, ", ")),
		"An immediate general election is called.",
	)
	e.logger.Info("democratic transition", "turn", s.Turn, "parties", len(s.Parties))
}
