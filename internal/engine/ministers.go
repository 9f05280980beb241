package engine

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/talgya/statecraft/internal/catalog"
	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/ideology"
	"github.com/talgya/statecraft/internal/world"
)

const (
	hireMinisterCost    = 25
	dismissMinisterCost = 10
	candidateCount      = 3
)

// MinisterCandidates draws candidates for the cabinet, preferring vacant
// portfolios. It does not change s.
func (e *Engine) MinisterCandidates(s *world.GameState) []world.Minister {
	var vacant []world.Portfolio
	for pf := world.Portfolio(0); pf < world.NumPortfolios; pf++ {
		if !slices.ContainsFunc(s.Ministers, func(m world.Minister) bool { return m.Portfolio == pf }) {
			vacant = append(vacant, pf)
		}
	}
	taken := make(map[string]bool)
	for _, m := range s.Ministers {
		taken[m.FullName()] = true
	}

	out := make([]world.Minister, 0, candidateCount)
	for i := 0; i < candidateCount; i++ {
		pf := world.Portfolio(entropy.IntN(e.src, int(world.NumPortfolios)))
		if i < len(vacant) {
			pf = vacant[i]
		}
		templates := e.cat.Ministers[pf]
		if len(templates) == 0 {
			continue
		}
		m := e.rollMinister(pf, entropy.Pick(e.src, templates))
		for attempt := 0; taken[m.FullName()] && attempt < 20; attempt++ {
			m.FirstName = entropy.Pick(e.src, e.cat.FirstNames)
			m.LastName = entropy.Pick(e.src, e.cat.LastNames)
		}
		taken[m.FullName()] = true
		out = append(out, m)
	}
	return out
}

func (e *Engine) rollMinister(pf world.Portfolio, t catalog.MinisterTemplate) world.Minister {
	m := world.Minister{
		ID:        uuid.NewString(),
		FirstName: entropy.Pick(e.src, e.cat.FirstNames),
		LastName:  entropy.Pick(e.src, e.cat.LastNames),
		Portfolio: pf,
		Ideology:  t.Ideology,
	}
	roll := func(r catalog.Range) int {
		if !r.Set {
			return 0
		}
		return entropy.IntRange(e.src, r.Lo, r.Hi)
	}
	res := &m.Effects.Resources
	res.Treasury = roll(t.Treasury)
	res.Stability = roll(t.Stability)
	res.Manpower = roll(t.Manpower)
	res.ResearchPoints = roll(t.ResearchPoints)
	res.MilitaryPower = roll(t.MilitaryPower)
	m.Effects.Corruption = roll(t.Corruption)
	for f := range t.Factions {
		m.Effects.Factions[f] = float64(roll(t.Factions[f]))
	}
	m.Buffs, m.Debuffs = describeMinister(m.Effects)
	return m
}

// describeMinister renders effects as buff and debuff lines. Rising
// corruption counts against the minister.
func describeMinister(fx world.MinisterEffects) (buffs, debuffs []string) {
	add := func(label string, v int) {
		switch {
		case v > 0:
			buffs = append(buffs, fmt.Sprintf("%s %s/turn", label, signed(v)))
		case v < 0:
			debuffs = append(debuffs, fmt.Sprintf("%s %s/turn", label, signed(v)))
		}
	}
	add("treasury", fx.Resources.Treasury)
	add("stability", fx.Resources.Stability)
	add("manpower", fx.Resources.Manpower)
	add("research", fx.Resources.ResearchPoints)
	add("military", fx.Resources.MilitaryPower)
	switch {
	case fx.Corruption > 0:
		debuffs = append(debuffs, fmt.Sprintf("corruption +%d/turn", fx.Corruption))
	case fx.Corruption < 0:
		buffs = append(buffs, fmt.Sprintf("corruption %d/turn", fx.Corruption))
	}
	for f, v := range fx.Factions {
		switch {
		case v > 0:
			buffs = append(buffs, fmt.Sprintf("%s happiness +%g/turn", world.FactionID(f), v))
		case v < 0:
			debuffs = append(debuffs, fmt.Sprintf("%s happiness %g/turn", world.FactionID(f), v))
		}
	}
	return buffs, debuffs
}

// fitsTemplate reports whether m could have been rolled from one of the
// catalog templates for its portfolio.
func (e *Engine) fitsTemplate(m world.Minister) bool {
	in := func(r catalog.Range, v int) bool {
		if !r.Set {
			return v == 0
		}
		return v >= r.Lo && v <= r.Hi
	}
	for _, t := range e.cat.Ministers[m.Portfolio] {
		if t.Ideology != m.Ideology {
			continue
		}
		r := m.Effects.Resources
		ok := in(t.Treasury, r.Treasury) && in(t.Stability, r.Stability) && in(t.Manpower, r.Manpower) &&
			in(t.ResearchPoints, r.ResearchPoints) && in(t.MilitaryPower, r.MilitaryPower) &&
			in(t.Corruption, m.Effects.Corruption)
		for f := range t.Factions {
			v := m.Effects.Factions[f]
			ok = ok && v == float64(int(v)) && in(t.Factions[f], int(v))
		}
		if ok {
			return true
		}
	}
	return false
}

func (e *Engine) hireMinister(s *world.GameState, m world.Minister) error {
	if err := requirePhase(s, world.StatusPlaying); err != nil {
		return err
	}
	if err := requireRuling(s); err != nil {
		return err
	}
	if m.Portfolio >= world.NumPortfolios || m.FirstName == "" || m.LastName == "" {
		return fmt.Errorf("%w: malformed candidate", ErrInvalidChoice)
	}
	if !e.fitsTemplate(m) {
		return fmt.Errorf("%w: candidate %s does not match any %s template", ErrInvalidChoice, m.FullName(), m.Portfolio)
	}
	if err := requirePP(s, hireMinisterCost); err != nil {
		return err
	}
	spendPP(s, hireMinisterCost)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.Buffs, m.Debuffs = describeMinister(m.Effects)

	s.Ministers = slices.DeleteFunc(s.Ministers, func(old world.Minister) bool { return old.Portfolio == m.Portfolio })
	s.Ministers = append(s.Ministers, m)
	s.Log(fmt.Sprintf("[Cabinet] %s takes the %s portfolio.", m.FullName(), m.Portfolio))

	mg := ideology.GroupOf(m.Ideology)
	soured := false
	for i := range s.Parties {
		p := &s.Parties[i]
		if p.IsPlayer {
			continue
		}
		pg := ideology.GroupOf(p.Ideology)
		switch {
		case (mg == ideology.Conservative || mg == ideology.EconomicRight) && pg == ideology.LiberalLeft,
			mg == ideology.LiberalLeft && (pg == ideology.Conservative || pg == ideology.EconomicRight):
			p.AddRelation(-10)
			soured = true
		case mg != pg && mg != ideology.Centrist && pg != ideology.Centrist:
			p.AddRelation(-5)
			soured = true
		}
	}
	if soured {
		s.Log("[Cabinet] The appointment has strained relations with parts of the opposition.")
	}
	return nil
}

func (e *Engine) dismissMinister(s *world.GameState, id string) error {
	if err := requirePhase(s, world.StatusPlaying); err != nil {
		return err
	}
	if err := requireRuling(s); err != nil {
		return err
	}
	idx := slices.IndexFunc(s.Ministers, func(m world.Minister) bool { return m.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownMinister, id)
	}
	if err := requirePP(s, dismissMinisterCost); err != nil {
		return err
	}
	spendPP(s, dismissMinisterCost)
	m := s.Ministers[idx]
	s.Ministers = slices.Delete(s.Ministers, idx, idx+1)
	s.Country.AddStability(-2)

	mg := ideology.GroupOf(m.Ideology)
	for i := range s.Parties {
		p := &s.Parties[i]
		switch {
		case p.IsPlayer:
			p.AddSupport(-1)
		case mg != ideology.GroupOther && ideology.GroupOf(p.Ideology) == mg:
			p.AddRelation(-5)
		}
	}
	s.Log(fmt.Sprintf("[Cabinet] %s was dismissed from %s (stability -2).", m.FullName(), m.Portfolio))
	return nil
}
