package world

import (
	"encoding/json"
	"slices"
)

// ElectionResult summarises the most recent general election.
type ElectionResult struct {
	Turn        int            `json:"turn"`
	Seats       map[string]int `json:"seats"`
	RulingParty string         `json:"ruling_party"`
	PlayerWon   bool           `json:"player_won"`
}

// GameState is the aggregate root. Engine transitions never modify a state
// in place; they clone, transform and return the successor.
type GameState struct {
	ID    string `json:"id"`
	Phase Phase  `json:"-"`
	Turn  int    `json:"turn"`

	Country     Country     `json:"country"`
	PlayerStats PlayerStats `json:"player_stats"`
	Parties     []Party     `json:"parties"`

	Logs []string      `json:"logs"`
	News []NewsArticle `json:"news_articles"`

	// At most one of these blocks turn advancement.
	BillToVoteOn *Bill       `json:"bill_to_vote_on,omitempty"`
	ActiveEvent  *Event      `json:"active_event,omitempty"`
	VoteResult   *VoteResult `json:"vote_result,omitempty"`

	PlayerStatus PlayerStatus `json:"player_status"`
	RulingParty  string       `json:"ruling_party"`

	Budget              Budget `json:"budget"`
	BudgetDraft         Budget `json:"budget_draft"`
	MilitaryFrustration int    `json:"military_frustration"` // 0–20

	DiplomaticPacts      []DiplomaticPact `json:"diplomatic_pacts"`
	PlayerCoalition      []string         `json:"player_coalition"`
	OppositionCoalitions []Coalition      `json:"opposition_coalitions"`
	Ministers            []Minister       `json:"ministers"`

	LawProposedThisTurn bool            `json:"law_proposed_this_turn"`
	LastElection        *ElectionResult `json:"last_election,omitempty"`
}

// Status is shorthand for StatusOf(s.Phase).
func (s *GameState) Status() Status {
	return StatusOf(s.Phase)
}

// Blocked reports whether a pending decision prevents turn advancement.
func (s *GameState) Blocked() bool {
	return s.BillToVoteOn != nil || s.ActiveEvent != nil || s.VoteResult != nil
}

// Player returns the player's party, or nil.
func (s *GameState) Player() *Party {
	for i := range s.Parties {
		if s.Parties[i].IsPlayer {
			return &s.Parties[i]
		}
	}
	return nil
}

// PartyByName returns the named party, or nil.
func (s *GameState) PartyByName(name string) *Party {
	for i := range s.Parties {
		if s.Parties[i].Name == name {
			return &s.Parties[i]
		}
	}
	return nil
}

// SeatTotal sums seats across all parties.
func (s *GameState) SeatTotal() int {
	total := 0
	for _, p := range s.Parties {
		total += p.Seats
	}
	return total
}

// HasPact reports whether a diplomatic pact with name is active.
func (s *GameState) HasPact(name string) bool {
	for _, p := range s.DiplomaticPacts {
		if p.PartyName == name {
			return true
		}
	}
	return false
}

// InPlayerCoalition reports whether name is a coalition partner.
func (s *GameState) InPlayerCoalition(name string) bool {
	return slices.Contains(s.PlayerCoalition, name)
}

// OppositionCoalitionOf returns the opposition coalition containing name.
func (s *GameState) OppositionCoalitionOf(name string) (Coalition, bool) {
	for _, c := range s.OppositionCoalitions {
		if c.Has(name) {
			return c, true
		}
	}
	return Coalition{}, false
}

// Log appends audit lines.
func (s *GameState) Log(lines ...string) {
	s.Logs = append(s.Logs, lines...)
}

// Clone returns a deep copy. Catalog-derived values held by pointer (events,
// bills) are copied at the top level; their inner slices are never mutated.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	c := *s
	c.Country.Factions = slices.Clone(s.Country.Factions)
	c.Parties = slices.Clone(s.Parties)
	c.Logs = slices.Clone(s.Logs)
	c.News = slices.Clone(s.News)
	c.DiplomaticPacts = slices.Clone(s.DiplomaticPacts)
	c.PlayerCoalition = slices.Clone(s.PlayerCoalition)
	c.Ministers = slices.Clone(s.Ministers)
	c.OppositionCoalitions = make([]Coalition, len(s.OppositionCoalitions))
	for i, oc := range s.OppositionCoalitions {
		c.OppositionCoalitions[i] = Coalition{Name: oc.Name, Members: slices.Clone(oc.Members)}
	}
	if s.BillToVoteOn != nil {
		b := *s.BillToVoteOn
		c.BillToVoteOn = &b
	}
	if s.ActiveEvent != nil {
		e := *s.ActiveEvent
		c.ActiveEvent = &e
	}
	if s.VoteResult != nil {
		v := *s.VoteResult
		v.PartyVotes = slices.Clone(s.VoteResult.PartyVotes)
		c.VoteResult = &v
	}
	if s.LastElection != nil {
		le := *s.LastElection
		c.LastElection = &le
	}
	return &c
}

func (s GameState) MarshalJSON() ([]byte, error) {
	type alias GameState
	return json.Marshal(struct {
		alias
		phaseJSON
	}{alias(s), encodePhase(s.Phase)})
}

func (s *GameState) UnmarshalJSON(b []byte) error {
	type alias GameState
	var wire struct {
		alias
		phaseJSON
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	phase, err := decodePhase(wire.phaseJSON)
	if err != nil {
		return err
	}
	*s = GameState(wire.alias)
	s.Phase = phase
	return nil
}
