package engine

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/talgya/statecraft/internal/world"
)

// Action is one discrete player request. The set is closed: only types in
// this package implement it.
type Action interface {
	Kind() string
	apply(e *Engine, s *world.GameState) error
}

// AdvanceTurn runs the per-turn pipeline.
type AdvanceTurn struct{}

// ProposeLaw submits a player bill for a vote.
type ProposeLaw struct {
	Name        string          `json:"law_name"`
	Description string          `json:"law_description"`
	Effect      world.LawEffect `json:"law_effect"`
}

// VoteOnBill casts the player's vote and tallies the pending bill.
type VoteOnBill struct {
	Vote world.Vote `json:"vote"`
}

// AcknowledgeVote closes the vote result, enacting the law if it passed.
type AcknowledgeVote struct{}

// ChooseEventOption resolves the active event.
type ChooseEventOption struct {
	Choice int `json:"choice"`
}

// SetBudgetTier edits the budget draft.
type SetBudgetTier struct {
	Item  world.BudgetItem  `json:"item"`
	Level world.BudgetLevel `json:"level"`
}

// ExecuteBudget commits the budget draft.
type ExecuteBudget struct{}

// RequestDiplomacy seeks a joint statement and pact with a party.
type RequestDiplomacy struct {
	Party string `json:"party"`
}

// RequestCoalition invites a party into the governing coalition.
type RequestCoalition struct {
	Party string `json:"party"`
}

// RequestDonation books the result of a corporate donation negotiation.
type RequestDonation struct {
	Amount int `json:"amount"`
}

// ConvertFunds turns party funds into political power.
type ConvertFunds struct{}

// InternalAffairs runs one of the fixed domestic programmes.
type InternalAffairs struct {
	Program Program `json:"program"`
}

// HireMinister appoints a candidate from MinisterCandidates.
type HireMinister struct {
	Candidate world.Minister `json:"candidate"`
}

// DismissMinister removes a serving minister.
type DismissMinister struct {
	ID string `json:"id"`
}

// Criticize attacks the ruling party from opposition.
type Criticize struct{}

// CounterPlan publishes an opposition alternative.
type CounterPlan struct{}

// Rally holds a street speech; Score is the speech minigame result.
type Rally struct {
	Score int `json:"score"`
}

// ConflictTactic plays one round of a civil or external war.
type ConflictTactic struct {
	Tactic Tactic `json:"tactic"`
}

// Campaign is one election-campaign action.
type Campaign struct {
	Move   CampaignMove   `json:"move"`
	Target string         `json:"target,omitempty"`
	Debate *DebateOutcome `json:"debate,omitempty"`
}

// SkipCampaignDay advances the campaign without acting.
type SkipCampaignDay struct{}

func (AdvanceTurn) Kind() string       { return "advance_turn" }
func (ProposeLaw) Kind() string        { return "propose_law" }
func (VoteOnBill) Kind() string        { return "vote_on_bill" }
func (AcknowledgeVote) Kind() string   { return "acknowledge_vote" }
func (ChooseEventOption) Kind() string { return "choose_event_option" }
func (SetBudgetTier) Kind() string     { return "set_budget_tier" }
func (ExecuteBudget) Kind() string     { return "execute_budget" }
func (RequestDiplomacy) Kind() string  { return "request_diplomacy" }
func (RequestCoalition) Kind() string  { return "request_coalition" }
func (RequestDonation) Kind() string   { return "request_donation" }
func (ConvertFunds) Kind() string      { return "convert_funds" }
func (InternalAffairs) Kind() string   { return "internal_affairs" }
func (HireMinister) Kind() string      { return "hire_minister" }
func (DismissMinister) Kind() string   { return "dismiss_minister" }
func (Criticize) Kind() string         { return "criticize" }
func (CounterPlan) Kind() string       { return "counter_plan" }
func (Rally) Kind() string             { return "rally" }
func (ConflictTactic) Kind() string    { return "conflict_tactic" }
func (Campaign) Kind() string          { return "campaign" }
func (SkipCampaignDay) Kind() string   { return "skip_campaign_day" }

func (AdvanceTurn) apply(e *Engine, s *world.GameState) error {
	return e.advanceTurn(s)
}

func (a ProposeLaw) apply(e *Engine, s *world.GameState) error {
	return e.proposeLaw(s, a)
}

func (AcknowledgeVote) apply(e *Engine, s *world.GameState) error {
	return e.acknowledgeVote(s)
}

func (a ChooseEventOption) apply(e *Engine, s *world.GameState) error {
	return e.chooseEventOption(s, a.Choice)
}

func (a SetBudgetTier) apply(_ *Engine, s *world.GameState) error {
	return setBudgetTier(s, a)
}

func (a RequestDiplomacy) apply(e *Engine, s *world.GameState) error {
	return e.requestDiplomacy(s, a.Party)
}

func (a RequestCoalition) apply(e *Engine, s *world.GameState) error {
	return e.requestCoalition(s, a.Party)
}

func (a RequestDonation) apply(e *Engine, s *world.GameState) error {
	return e.requestDonation(s, a.Amount)
}

func (ConvertFunds) apply(_ *Engine, s *world.GameState) error {
	return convertFunds(s)
}

func (a InternalAffairs) apply(e *Engine, s *world.GameState) error {
	return e.internalAffairs(s, a.Program)
}

func (a HireMinister) apply(e *Engine, s *world.GameState) error {
	return e.hireMinister(s, a.Candidate)
}

func (a DismissMinister) apply(e *Engine, s *world.GameState) error {
	return e.dismissMinister(s, a.ID)
}

func (CounterPlan) apply(e *Engine, s *world.GameState) error {
	return e.counterPlan(s)
}

func (a ConflictTactic) apply(e *Engine, s *world.GameState) error {
	return e.conflictTactic(s, a.Tactic)
}

func (SkipCampaignDay) apply(e *Engine, s *world.GameState) error {
	return e.skipCampaignDay(s)
}

func (a VoteOnBill) apply(e *Engine, s *world.GameState) error {
	return e.voteOnBill(s, a.Vote)
}

func (ExecuteBudget) apply(_ *Engine, s *world.GameState) error {
	return executeBudget(s)
}

func (Criticize) apply(e *Engine, s *world.GameState) error {
	return e.criticize(s)
}

func (a Rally) apply(e *Engine, s *world.GameState) error {
	return e.rally(s, a.Score)
}

func (a Campaign) apply(e *Engine, s *world.GameState) error {
	return e.campaign(s, a)
}

var actionDecoders = map[string]func(json.RawMessage) (Action, error){
	"advance_turn":        decodeEmpty(AdvanceTurn{}),
	"propose_law":         decodeInto[ProposeLaw](),
	"vote_on_bill":        decodeInto[VoteOnBill](),
	"acknowledge_vote":    decodeEmpty(AcknowledgeVote{}),
	"choose_event_option": decodeInto[ChooseEventOption](),
	"set_budget_tier":     decodeInto[SetBudgetTier](),
	"execute_budget":      decodeEmpty(ExecuteBudget{}),
	"request_diplomacy":   decodeInto[RequestDiplomacy](),
	"request_coalition":   decodeInto[RequestCoalition](),
	"request_donation":    decodeInto[RequestDonation](),
	"convert_funds":       decodeEmpty(ConvertFunds{}),
	"internal_affairs":    decodeInto[InternalAffairs](),
	"hire_minister":       decodeInto[HireMinister](),
	"dismiss_minister":    decodeInto[DismissMinister](),
	"criticize":           decodeEmpty(Criticize{}),
	"counter_plan":        decodeEmpty(CounterPlan{}),
	"rally":               decodeInto[Rally](),
	"conflict_tactic":     decodeInto[ConflictTactic](),
	"campaign":            decodeInto[Campaign](),
	"skip_campaign_day":   decodeEmpty(SkipCampaignDay{}),
}

func decodeEmpty(a Action) func(json.RawMessage) (Action, error) {
	return func(json.RawMessage) (Action, error) { return a, nil }
}

func decodeInto[T Action]() func(json.RawMessage) (Action, error) {
	return func(raw json.RawMessage) (Action, error) {
		var a T
		if len(raw) == 0 {
			return a, nil
		}
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, err
		}
		return a, nil
	}
}

// DecodeAction builds an Action from its kind and JSON payload.
func DecodeAction(kind string, payload json.RawMessage) (Action, error) {
	dec, ok := actionDecoders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
	}
	a, err := dec(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrInvalidChoice, kind, err)
	}
	return a, nil
}

// ActionKinds lists every decodable action kind.
func ActionKinds() []string {
	return slices.Sorted(maps.Keys(actionDecoders))
}
