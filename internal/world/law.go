package world

import "fmt"

// Party-effect target sentinels.
const (
	TargetAllOpposition = "ALL_OPPOSITION"
	TargetPlayer        = "PLAYER"
)

// PartyAction is what a law does to its target parties.
type PartyAction string

const (
	Dissolve        PartyAction = "dissolve"
	ConfiscateSeats PartyAction = "confiscate_seats"
	GrantSeats      PartyAction = "grant_seats"
)

func (a PartyAction) Valid() bool {
	return a == Dissolve || a == ConfiscateSeats || a == GrantSeats
}

// PartyEffect targets a named party or one of the sentinels.
type PartyEffect struct {
	Target string      `json:"target_party_name"`
	Action PartyAction `json:"action"`
	Value  int         `json:"value,omitempty"`
}

// EffectText is the human-readable summary of a law.
type EffectText struct {
	Buff   []string `json:"buff"`
	Debuff []string `json:"debuff"`
}

// LawEffect is the structured outcome of enacting a law.
type LawEffect struct {
	Resources             Resources      `json:"resource_changes"`
	Factions              FactionChanges `json:"faction_happiness_changes"`
	Effects               EffectText     `json:"effects"`
	PoliticalSystemChange Regime         `json:"political_system_change,omitempty"`
	PartyEffects          []PartyEffect  `json:"party_effects,omitempty"`
}

// Validate checks the party effects.
func (e LawEffect) Validate() error {
	for i, pe := range e.PartyEffects {
		if !pe.Action.Valid() {
			return fmt.Errorf("party effect %d: unknown action %q", i, pe.Action)
		}
		if pe.Target == "" {
			return fmt.Errorf("party effect %d: empty target", i)
		}
		if pe.Value < 0 {
			return fmt.Errorf("party effect %d: negative value %d", i, pe.Value)
		}
	}
	return nil
}

// Bill is a law awaiting a vote.
type Bill struct {
	Proposer    string    `json:"proposer_party_name"`
	Name        string    `json:"law_name"`
	Description string    `json:"law_description"`
	Effect      LawEffect `json:"law_effect"`
}

// Vote is a party's position on a bill.
type Vote string

const (
	Approve Vote = "approve"
	Oppose  Vote = "oppose"
)

// PartyVote records one party's vote and its weight.
type PartyVote struct {
	PartyName string `json:"party_name"`
	Vote      Vote   `json:"vote"`
	Seats     int    `json:"seats"`
}

// VoteResult is the tallied outcome, held until the player acknowledges it.
type VoteResult struct {
	Passed      bool        `json:"is_passed"`
	LawName     string      `json:"law_name"`
	Description string      `json:"law_description"`
	Approve     int         `json:"approve_votes"`
	Oppose      int         `json:"oppose_votes"`
	PartyVotes  []PartyVote `json:"party_votes"`
	Effect      LawEffect   `json:"law_effect"`
	Proposer    string      `json:"proposer_party_name"`
}

// Passes reports whether approve seats form a strict majority of total.
// An exact tie fails.
func Passes(approve, total int) bool {
	return float64(approve) > float64(total)/2
}
