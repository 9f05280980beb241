package world

import "fmt"

// Status is the game's macro state.
type Status string

const (
	StatusPlaying  Status = "Playing"
	StatusElection Status = "Election"
	StatusCivilWar Status = "CivilWar"
	StatusWar      Status = "War"
)

// Phase is the status together with its payload. Exactly one of Playing,
// Election, CivilWar or War; the interface is sealed.
type Phase interface {
	Status() Status
	isPhase()
}

// Playing is ordinary government.
type Playing struct{}

// Election is an active campaign.
type Election struct {
	CampaignTurn         int `json:"campaign_turn"`
	CounterArgumentTurns int `json:"counter_argument_turns,omitempty"`
}

// Conflict is the shared state of a civil or external war.
type Conflict struct {
	OpposingStrength  int `json:"opposing_strength"`
	Progress          int `json:"war_progress"` // -100..100
	SupplyDebuffTurns int `json:"supply_debuff_turns"`
}

// CivilWar is a conflict against domestic rebels.
type CivilWar struct{ Conflict }

// War is a conflict against a foreign enemy.
type War struct{ Conflict }

func (Playing) Status() Status  { return StatusPlaying }
func (Election) Status() Status { return StatusElection }
func (CivilWar) Status() Status { return StatusCivilWar }
func (War) Status() Status      { return StatusWar }

func (Playing) isPhase()  {}
func (Election) isPhase() {}
func (CivilWar) isPhase() {}
func (War) isPhase()      {}

// StatusOf returns the status of p, treating nil as Playing.
func StatusOf(p Phase) Status {
	if p == nil {
		return StatusPlaying
	}
	return p.Status()
}

// ConflictOf returns the conflict payload of a CivilWar or War phase.
func ConflictOf(p Phase) (Conflict, bool) {
	switch ph := p.(type) {
	case CivilWar:
		return ph.Conflict, true
	case War:
		return ph.Conflict, true
	}
	return Conflict{}, false
}

// phaseJSON is the wire form: a status tag plus at most one payload.
type phaseJSON struct {
	Status   Status    `json:"status"`
	Election *Election `json:"election_state,omitempty"`
	CivilWar *Conflict `json:"civil_war_state,omitempty"`
	War      *Conflict `json:"war_state,omitempty"`
}

func encodePhase(p Phase) phaseJSON {
	switch ph := p.(type) {
	case Election:
		return phaseJSON{Status: StatusElection, Election: &ph}
	case CivilWar:
		return phaseJSON{Status: StatusCivilWar, CivilWar: &ph.Conflict}
	case War:
		return phaseJSON{Status: StatusWar, War: &ph.Conflict}
	}
	return phaseJSON{Status: StatusPlaying}
}

func decodePhase(j phaseJSON) (Phase, error) {
	switch j.Status {
	case StatusPlaying, "":
		return Playing{}, nil
	case StatusElection:
		if j.Election == nil {
			return nil, fmt.Errorf("status %s without election_state", j.Status)
		}
		return *j.Election, nil
	case StatusCivilWar:
		if j.CivilWar == nil {
			return nil, fmt.Errorf("status %s without civil_war_state", j.Status)
		}
		return CivilWar{*j.CivilWar}, nil
	case StatusWar:
		if j.War == nil {
			return nil, fmt.Errorf("status %s without war_state", j.Status)
		}
		return War{*j.War}, nil
	}
	return nil, fmt.Errorf("unknown status %q", j.Status)
}
