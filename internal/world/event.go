package world

// EventKind groups events by origin.
type EventKind string

const (
	Domestic      EventKind = "domestic"
	International EventKind = "international"
	Protest       EventKind = "protest"
)

// Outcome tags a choice that changes the game's phase or regime.
type Outcome string

const (
	OutcomeNone          Outcome = ""
	OutcomeMilitaryJunta Outcome = "military_junta"
	OutcomeResistCoup    Outcome = "resist_coup"
	OutcomeGoToWar       Outcome = "go_to_war"
)

// ChoiceEffects are applied when a choice is taken.
type ChoiceEffects struct {
	Resources      Resources      `json:"resource_changes"`
	Corruption     int            `json:"corruption,omitempty"`
	PoliticalPower int            `json:"political_power,omitempty"`
	PartyFunds     int            `json:"party_funds,omitempty"`
	Factions       FactionChanges `json:"faction_happiness_changes"`
	Support        float64        `json:"player_support_change"`
}

// EventChoice is one option offered by an event.
type EventChoice struct {
	Text    string        `json:"text"`
	Effects ChoiceEffects `json:"effects"`
	Outcome Outcome       `json:"outcome,omitempty"`
}

// Event is a decision the player must resolve before the next turn.
type Event struct {
	ID          string        `json:"id"`
	Kind        EventKind     `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Choices     []EventChoice `json:"choices"`
}

// Leaning is a news outlet's editorial slant.
type Leaning string

const (
	LeaningConservative Leaning = "conservative"
	LeaningLiberal      Leaning = "liberal"
	LeaningNeutral      Leaning = "neutral"
)

// NewsArticle is a generated press item.
type NewsArticle struct {
	ID       string  `json:"id"`
	Turn     int     `json:"turn"`
	Outlet   string  `json:"outlet_name"`
	Leaning  Leaning `json:"political_leaning"`
	Headline string  `json:"headline"`
	Body     string  `json:"body"`
}

// MaxNews caps the rolling news window.
const MaxNews = 6
