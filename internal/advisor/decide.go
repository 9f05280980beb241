package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/talgya/statecraft/internal/engine"
	"github.com/talgya/statecraft/internal/ideology"
	"github.com/talgya/statecraft/internal/llm"
	"github.com/talgya/statecraft/internal/world"
)

// ActionNone means the advisor decided to wait.
const ActionNone = "none"

const (
	maxDonation  = 5000
	maxRallyRank = 60
	fundsToPP    = 500
)

const systemPrompt = `You are the chief of staff of a political party in a turn-based political strategy game.

Each cycle you see the state of the country and your party and pick zero or one action for the party leader.

## Priorities (in order)

1. SURVIVAL: avoid collapse. Stability below 25, overall happiness at 20 or less, a negative treasury or military frustration of 15+ can end the government or the game.
2. RESOLVE WHAT IS PENDING: a bill awaiting the player's vote, an open event or an unacknowledged vote result blocks the turn.
3. POWER: grow the party's support and seats. Use political power; do not hoard it.
4. PATIENCE: when nothing is worth doing, advance the turn.

## Response Format

Respond with ONLY valid JSON (no markdown, no explanation outside the JSON):
{
  "action": "advance_turn",
  "rationale": "Brief explanation of your assessment and why this action is appropriate.",
  "payload": null
}

"action" is one of the listed action kinds or "none". "payload" carries the action's fields, for example
{"action": "internal_affairs", "rationale": "...", "payload": {"program": "anti_corruption"}}
{"action": "request_diplomacy", "rationale": "...", "payload": {"party": "Green Future"}}
{"action": "vote_on_bill", "rationale": "...", "payload": {"vote": "approve"}}

## Rules

- Respond ONLY with JSON.
- Never start a new game.
- Only act on parties listed in the state.
- Campaign moves never carry a debate outcome.`

// Decision is the advisor's recommended action.
type Decision struct {
	Action    string          `json:"action"`
	Rationale string          `json:"rationale"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Source    string          `json:"-"` // "llm" or "rules"
}

// Decide asks the LLM for a decision when the client is enabled and falls
// back to the rule book when it is not or when the reply is unusable.
func Decide(ctx context.Context, client *llm.Client, snap *Snapshot, h *Health, mem *CycleMemory) *Decision {
	if client.Enabled() {
		d, err := decideLLM(ctx, client, snap, h, mem)
		if err == nil {
			d.Source = "llm"
			return d
		}
		slog.Warn("advisor llm decision rejected, using rules", "error", err)
	}
	d := Rules(snap, h)
	d.Source = "rules"
	return d
}

func decideLLM(ctx context.Context, client *llm.Client, snap *Snapshot, h *Health, mem *CycleMemory) (*Decision, error) {
	prompt := formatSnapshot(snap, h)
	if mem != nil {
		prompt += "\n" + mem.FormatForPrompt()
	}
	slog.Debug("advisor prompt", "length", len(prompt))

	resp, err := client.Complete(ctx, systemPrompt, prompt, 512)
	if err != nil {
		return nil, fmt.Errorf("llm call: %w", err)
	}

	// Strip markdown fences if the model wraps them anyway.
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	resp = strings.TrimSpace(resp)

	var d Decision
	if err := json.Unmarshal([]byte(resp), &d); err != nil {
		return nil, fmt.Errorf("parse decision (raw: %s): %w", resp, err)
	}
	if err := enforceGuardrails(&d, snap.State); err != nil {
		return nil, fmt.Errorf("guardrail violation: %w", err)
	}
	return &d, nil
}

// enforceGuardrails validates and clamps the decision, rewriting the
// payload into its canonical form.
func enforceGuardrails(d *Decision, s *world.GameState) error {
	if d.Action == ActionNone || d.Action == "" {
		d.Action = ActionNone
		d.Payload = nil
		return nil
	}
	if d.Action == "new_game" || !slices.Contains(engine.ActionKinds(), d.Action) {
		return fmt.Errorf("unknown action %q", d.Action)
	}
	payload := d.Payload
	if string(payload) == "null" {
		payload = nil
	}
	a, err := engine.DecodeAction(d.Action, payload)
	if err != nil {
		return err
	}

	switch act := a.(type) {
	case engine.RequestDiplomacy:
		name, err := otherParty(s, act.Party)
		if err != nil {
			return err
		}
		act.Party = name
		a = act
	case engine.RequestCoalition:
		name, err := otherParty(s, act.Party)
		if err != nil {
			return err
		}
		act.Party = name
		a = act
	case engine.RequestDonation:
		if act.Amount > maxDonation {
			slog.Warn("advisor donation capped", "requested", act.Amount, "capped", maxDonation)
			act.Amount = maxDonation
		}
		act.Amount = max(act.Amount, 0)
		a = act
	case engine.Rally:
		act.Score = min(max(act.Score, 0), maxRallyRank)
		a = act
	case engine.Campaign:
		act.Debate = nil
		if act.Target != "" {
			name, err := otherParty(s, act.Target)
			if err != nil {
				return err
			}
			act.Target = name
		}
		a = act
	case engine.ProposeLaw:
		if err := llm.ValidateLawEffect(act.Effect); err != nil {
			return err
		}
	}

	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	d.Payload = b
	return nil
}

// otherParty resolves name to a party other than the player's.
func otherParty(s *world.GameState, name string) (string, error) {
	p, err := engine.ResolveParty(s, name)
	if err != nil {
		return "", err
	}
	if p.IsPlayer {
		return "", errors.New("target is the player's own party")
	}
	return p.Name, nil
}

// Rules picks an action from a fixed priority list.
func Rules(snap *Snapshot, h *Health) *Decision {
	s := snap.State
	pp := s.PlayerStats.PoliticalPower

	if c, ok := world.ConflictOf(s.Phase); ok {
		t := engine.Defensive
		switch {
		case c.OpposingStrength > s.Country.MilitaryPower && c.SupplyDebuffTurns == 0 && pp >= 20:
			t = engine.SupplyRaid
		case pp >= 10:
			t = engine.Offensive
		}
		return decision(engine.ConflictTactic{Tactic: t}, "the war comes first")
	}

	if _, ok := s.Phase.(world.Election); ok {
		switch {
		case pp >= 20:
			return decision(engine.Campaign{Move: engine.Speech}, "campaign speech")
		case pp >= 10:
			return decision(engine.Campaign{Move: engine.Grassroots}, "grassroots canvassing")
		}
		return decision(engine.SkipCampaignDay{}, "no political power left for the campaign")
	}

	if s.VoteResult != nil {
		return decision(engine.AcknowledgeVote{}, "close the vote on "+s.VoteResult.LawName)
	}
	if b := s.BillToVoteOn; b != nil {
		vote := world.Oppose
		if p := s.Player(); p != nil && (b.Proposer == p.Name || ideology.Score(p.Ideology, b.Effect, b.Description) > 0) {
			vote = world.Approve
		}
		return decision(engine.VoteOnBill{Vote: vote}, fmt.Sprintf("%s the %s", vote, b.Name))
	}
	if ev := s.ActiveEvent; ev != nil {
		i := bestChoice(s, ev)
		return decision(engine.ChooseEventOption{Choice: i}, fmt.Sprintf("%s: %s", ev.Title, ev.Choices[i].Text))
	}

	if s.PlayerStatus == world.Ruling && (h.CrisisLevel == Critical || h.CrisisLevel == Warning) {
		if d := remedy(s, h); d != nil {
			return d
		}
	}
	if s.PlayerStatus == world.Opposition && pp >= 10 {
		return decision(engine.Criticize{}, "keep pressure on the government")
	}
	if s.PlayerStats.PartyFunds >= fundsToPP {
		return decision(engine.ConvertFunds{}, "turn idle funds into political power")
	}
	return decision(engine.AdvanceTurn{}, "nothing urgent")
}

// remedy picks the first affordable fix for the worst problem.
func remedy(s *world.GameState, h *Health) *Decision {
	pp := s.PlayerStats.PoliticalPower
	if h.MilitaryFrustration >= 10 {
		if affordable(s, engine.MilitaryReview) {
			return decision(engine.InternalAffairs{Program: engine.MilitaryReview}, "placate the generals")
		}
		if d := budgetFix(s, world.Defense, world.High, pp, "fund the army"); d != nil {
			return d
		}
	}
	if h.Treasury < 2000 {
		if d := budgetFix(s, world.Tax, world.High, pp, "refill the treasury"); d != nil {
			return d
		}
	}
	if h.Corruption >= 30 && affordable(s, engine.AntiCorruption) {
		return decision(engine.InternalAffairs{Program: engine.AntiCorruption}, "corruption is eroding stability")
	}
	if h.Stability < 40 || h.Happiness <= 30 {
		for _, p := range []engine.Program{engine.CulturalFestival, engine.Propaganda, engine.HealthcareReform} {
			if affordable(s, p) {
				return decision(engine.InternalAffairs{Program: p}, "lift the public mood")
			}
		}
	}
	return nil
}

// budgetFix drafts item at level, then commits the draft once drafted.
func budgetFix(s *world.GameState, item world.BudgetItem, level world.BudgetLevel, pp int, why string) *Decision {
	if s.Budget.Level(item) == level {
		return nil
	}
	if s.BudgetDraft.Level(item) != level {
		return decision(engine.SetBudgetTier{Item: item, Level: level}, why)
	}
	if pp >= 20 {
		return decision(engine.ExecuteBudget{}, why)
	}
	return nil
}

func affordable(s *world.GameState, p engine.Program) bool {
	c, ok := engine.CostOf(p)
	return ok && s.PlayerStats.PoliticalPower >= c.PoliticalPower && s.Country.Treasury >= c.Treasury
}

// bestChoice scores the affordable choices of ev, avoiding choices that
// hand power to the army or start a war.
func bestChoice(s *world.GameState, ev *world.Event) int {
	best, bestScore := 0, 0.0
	found := false
	for i, c := range ev.Choices {
		fx := c.Effects
		if -fx.PoliticalPower > s.PlayerStats.PoliticalPower || -fx.PartyFunds > s.PlayerStats.PartyFunds {
			continue
		}
		score := float64(fx.Resources.Stability)*2 +
			float64(fx.Resources.Treasury)/1000 +
			fx.Support*3 -
			float64(fx.Corruption)
		for _, d := range fx.Factions {
			score += d / 5
		}
		if c.Outcome == world.OutcomeMilitaryJunta || c.Outcome == world.OutcomeGoToWar {
			score -= 100
		}
		if !found || score > bestScore {
			best, bestScore, found = i, score, true
		}
	}
	return best
}

func decision(a engine.Action, why string) *Decision {
	b, _ := json.Marshal(a)
	return &Decision{Action: a.Kind(), Rationale: why, Payload: b}
}

// formatSnapshot builds a concise prompt from the snapshot.
func formatSnapshot(snap *Snapshot, h *Health) string {
	s := snap.State
	var b strings.Builder

	fmt.Fprintf(&b, "## %s, turn %d (%s)\n", s.Country.Name, s.Turn, s.Status())
	fmt.Fprintf(&b, "Treasury: %d | Stability: %d | Corruption: %d | Happiness: %.1f\n",
		s.Country.Treasury, s.Country.Stability, s.Country.Corruption, h.Happiness)
	fmt.Fprintf(&b, "Manpower: %d | Research: %d | Military: %d | Military frustration: %d\n",
		s.Country.Manpower, s.Country.ResearchPoints, s.Country.MilitaryPower, s.MilitaryFrustration)
	fmt.Fprintf(&b, "Budget: tax %s, education %s, welfare %s, defense %s\n",
		s.Budget.Tax, s.Budget.Education, s.Budget.Welfare, s.Budget.Defense)
	fmt.Fprintf(&b, "Crisis level: %s", h.CrisisLevel)
	if len(h.Reasons) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(h.Reasons, "; "))
	}
	b.WriteString("\n\n")

	b.WriteString("## Factions\n")
	for _, f := range s.Country.Factions {
		fmt.Fprintf(&b, "- %s: happiness %.0f, population %.0f%%\n", f.ID, f.Happiness, f.PopulationShare)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Parties (player is %s, ruling party %s)\n", s.PlayerStatus, s.RulingParty)
	fmt.Fprintf(&b, "Political power: %d | Party funds: %d\n", s.PlayerStats.PoliticalPower, s.PlayerStats.PartyFunds)
	for _, p := range s.Parties {
		tag := ""
		if p.IsPlayer {
			tag = " [player]"
		}
		fmt.Fprintf(&b, "- %s%s (%s): %d seats, support %.1f, relation %.0f\n", p.Name, tag, p.Ideology, p.Seats, p.Support, p.Relation)
	}
	b.WriteString("\n")

	if bill := s.BillToVoteOn; bill != nil {
		fmt.Fprintf(&b, "## Bill awaiting the vote\n%s (proposed by %s): %s\n\n", bill.Name, bill.Proposer, bill.Description)
	}
	if ev := s.ActiveEvent; ev != nil {
		fmt.Fprintf(&b, "## Event: %s\n%s\n", ev.Title, ev.Description)
		for i, c := range ev.Choices {
			fmt.Fprintf(&b, "%d. %s\n", i, c.Text)
		}
		b.WriteString("\n")
	}
	if s.VoteResult != nil {
		b.WriteString("A vote result awaits acknowledgement.\n\n")
	}

	if n := len(snap.History); n > 1 {
		newest, oldest := snap.History[0], snap.History[n-1]
		fmt.Fprintf(&b, "## Trends (turns %d to %d)\n", oldest.Turn, newest.Turn)
		fmt.Fprintf(&b, "Stability: %d → %d\n", oldest.Stability, newest.Stability)
		fmt.Fprintf(&b, "Treasury: %d → %d\n", oldest.Treasury, newest.Treasury)
		fmt.Fprintf(&b, "Support: %.1f → %.1f\n", oldest.PlayerSupport, newest.PlayerSupport)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Action kinds\n%s\n", strings.Join(engine.ActionKinds(), ", "))
	return b.String()
}
