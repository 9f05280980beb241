package catalog

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/talgya/statecraft/internal/world"
)

type rawResources struct {
	Treasury       int `yaml:"treasury"`
	Stability      int `yaml:"stability"`
	Manpower       int `yaml:"manpower"`
	ResearchPoints int `yaml:"research_points"`
	MilitaryPower  int `yaml:"military_power"`
}

func (r rawResources) resources() world.Resources {
	return world.Resources(r)
}

type rawParty struct {
	Name     string `yaml:"name"`
	Ideology string `yaml:"ideology"`
}

type rawBill struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Resources   rawResources       `yaml:"resources"`
	Factions    map[string]float64 `yaml:"factions"`
	Buff        []string           `yaml:"buff"`
	Debuff      []string           `yaml:"debuff"`
}

type rawChoice struct {
	Text           string             `yaml:"text"`
	Resources      rawResources       `yaml:"resources"`
	Factions       map[string]float64 `yaml:"factions"`
	Corruption     int                `yaml:"corruption"`
	PoliticalPower int                `yaml:"political_power"`
	PartyFunds     int                `yaml:"party_funds"`
	Support        float64            `yaml:"support"`
	Outcome        string             `yaml:"outcome"`
}

type rawEvent struct {
	ID          string      `yaml:"id"`
	Kind        string      `yaml:"kind"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Choices     []rawChoice `yaml:"choices"`
}

type rawMinister struct {
	Ideology   string           `yaml:"ideology"`
	Resources  map[string][]int `yaml:"resources"`
	Corruption []int            `yaml:"corruption"`
	Factions   map[string][]int `yaml:"factions"`
}

func (c *Catalog) loadParties(raw []byte) error {
	var doc struct {
		Parties []rawParty `yaml:"parties"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	seen := make(map[string]bool, len(doc.Parties))
	for _, p := range doc.Parties {
		if p.Name == "" {
			return errors.New("party with empty name")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate party %q", p.Name)
		}
		seen[p.Name] = true
		id, err := world.ParseIdeology(p.Ideology)
		if err != nil {
			return fmt.Errorf("party %q: %w", p.Name, err)
		}
		c.Parties = append(c.Parties, PartyPreset{Name: p.Name, Ideology: id})
	}
	if len(c.Parties) < 5 {
		return fmt.Errorf("need at least 5 party presets, have %d", len(c.Parties))
	}
	return nil
}

func (c *Catalog) loadBills(raw []byte) error {
	var doc struct {
		Bills []rawBill `yaml:"bills"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for _, b := range doc.Bills {
		factions, err := world.FactionChangesFromMap(b.Factions)
		if err != nil {
			return fmt.Errorf("bill %q: %w", b.Name, err)
		}
		eff := world.LawEffect{
			Resources: b.Resources.resources(),
			Factions:  factions,
			Effects:   world.EffectText{Buff: b.Buff, Debuff: b.Debuff},
		}
		if err := eff.Validate(); err != nil {
			return fmt.Errorf("bill %q: %w", b.Name, err)
		}
		c.Bills = append(c.Bills, BillTemplate{Name: b.Name, Description: b.Description, Effect: eff})
	}
	if len(c.Bills) == 0 {
		return errors.New("no bills")
	}
	return nil
}

func (c *Catalog) loadEvents(raw []byte) error {
	var doc struct {
		Random  []rawEvent `yaml:"random_events"`
		Special []rawEvent `yaml:"special_events"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for _, re := range doc.Random {
		ev, err := re.event()
		if err != nil {
			return err
		}
		c.Events = append(c.Events, ev)
	}
	c.special = make(map[string]world.Event, len(doc.Special))
	for _, re := range doc.Special {
		ev, err := re.event()
		if err != nil {
			return err
		}
		c.special[ev.ID] = ev
	}
	for _, id := range requiredSpecials {
		if _, ok := c.special[id]; !ok {
			return fmt.Errorf("missing special event %q", id)
		}
	}
	if len(c.Events) == 0 {
		return errors.New("no random events")
	}
	return nil
}

func (re rawEvent) event() (world.Event, error) {
	ev := world.Event{ID: re.ID, Title: re.Title, Description: re.Description}
	switch k := world.EventKind(re.Kind); k {
	case world.Domestic, world.International, world.Protest:
		ev.Kind = k
	default:
		return ev, fmt.Errorf("event %q: unknown kind %q", re.ID, re.Kind)
	}
	if len(re.Choices) < 2 {
		return ev, fmt.Errorf("event %q: needs at least 2 choices", re.ID)
	}
	for _, rc := range re.Choices {
		factions, err := world.FactionChangesFromMap(rc.Factions)
		if err != nil {
			return ev, fmt.Errorf("event %q: %w", re.ID, err)
		}
		outcome := world.Outcome(rc.Outcome)
		switch outcome {
		case world.OutcomeNone, world.OutcomeMilitaryJunta, world.OutcomeResistCoup, world.OutcomeGoToWar:
		default:
			return ev, fmt.Errorf("event %q: unknown outcome %q", re.ID, rc.Outcome)
		}
		ev.Choices = append(ev.Choices, world.EventChoice{
			Text: rc.Text,
			Effects: world.ChoiceEffects{
				Resources:      rc.Resources.resources(),
				Corruption:     rc.Corruption,
				PoliticalPower: rc.PoliticalPower,
				PartyFunds:     rc.PartyFunds,
				Factions:       factions,
				Support:        rc.Support,
			},
			Outcome: outcome,
		})
	}
	return ev, nil
}

func (c *Catalog) loadMinisters(raw []byte) error {
	var doc struct {
		Templates  map[string][]rawMinister `yaml:"templates"`
		FirstNames []string                 `yaml:"first_names"`
		LastNames  []string                 `yaml:"last_names"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	c.Ministers = make(map[world.Portfolio][]MinisterTemplate, world.NumPortfolios)
	for key, list := range doc.Templates {
		pf, err := world.ParsePortfolio(key)
		if err != nil {
			return err
		}
		for _, rm := range list {
			t, err := rm.template()
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			c.Ministers[pf] = append(c.Ministers[pf], t)
		}
	}
	for pf := world.Portfolio(0); pf < world.NumPortfolios; pf++ {
		if len(c.Ministers[pf]) == 0 {
			return fmt.Errorf("no templates for %s", pf)
		}
	}
	if len(doc.FirstNames) == 0 || len(doc.LastNames) == 0 {
		return errors.New("minister name lists are empty")
	}
	c.FirstNames, c.LastNames = doc.FirstNames, doc.LastNames
	return nil
}

func (rm rawMinister) template() (MinisterTemplate, error) {
	id, err := world.ParseIdeology(rm.Ideology)
	if err != nil {
		return MinisterTemplate{}, err
	}
	t := MinisterTemplate{Ideology: id}
	for key, v := range rm.Resources {
		r, err := toRange(v)
		if err != nil {
			return t, fmt.Errorf("%s: %w", key, err)
		}
		switch key {
		case "treasury":
			t.Treasury = r
		case "stability":
			t.Stability = r
		case "manpower":
			t.Manpower = r
		case "research_points":
			t.ResearchPoints = r
		case "military_power":
			t.MilitaryPower = r
		default:
			return t, fmt.Errorf("unknown resource %q", key)
		}
	}
	if rm.Corruption != nil {
		if t.Corruption, err = toRange(rm.Corruption); err != nil {
			return t, fmt.Errorf("corruption: %w", err)
		}
	}
	for key, v := range rm.Factions {
		f, err := world.ParseFaction(key)
		if err != nil {
			return t, err
		}
		if t.Factions[f], err = toRange(v); err != nil {
			return t, fmt.Errorf("%s: %w", key, err)
		}
	}
	return t, nil
}

func toRange(v []int) (Range, error) {
	if len(v) != 2 || v[0] > v[1] {
		return Range{}, fmt.Errorf("range must be [lo, hi], got %v", v)
	}
	return Range{Lo: v[0], Hi: v[1], Set: true}, nil
}

func (c *Catalog) loadNews(raw []byte) error {
	var doc struct {
		Outlets   map[world.Leaning][]string `yaml:"outlets"`
		Templates struct {
			Passed map[world.Leaning][]NewsTemplate `yaml:"passed"`
			Failed map[world.Leaning][]NewsTemplate `yaml:"failed"`
		} `yaml:"templates"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for _, l := range []world.Leaning{world.LeaningConservative, world.LeaningLiberal, world.LeaningNeutral} {
		if len(doc.Outlets[l]) == 0 {
			return fmt.Errorf("no %s outlets", l)
		}
		if len(doc.Templates.Passed[l]) == 0 || len(doc.Templates.Failed[l]) == 0 {
			return fmt.Errorf("missing %s templates", l)
		}
	}
	c.Outlets = doc.Outlets
	c.passed = doc.Templates.Passed
	c.failed = doc.Templates.Failed
	return nil
}
