package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/talgya/statecraft/internal/apportion"
	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/ideology"
	"github.com/talgya/statecraft/internal/world"
)

// CampaignMove is a player action during an election campaign.
type CampaignMove string

const (
	Speech          CampaignMove = "speech"
	Debate          CampaignMove = "debate"
	NegativeAds     CampaignMove = "negative_campaign"
	Grassroots      CampaignMove = "grassroots"
	CounterArgument CampaignMove = "counter_argument"
)

// CampaignDays is the length of a campaign.
const CampaignDays = 4

var campaignCosts = map[CampaignMove]int{
	Speech:          20,
	Debate:          15,
	NegativeAds:     15,
	Grassroots:      10,
	CounterArgument: 15,
}

// maxDebateSwing bounds a client-reported debate result.
const maxDebateSwing = 5

// DebateOutcome is the result of the debate minigame.
type DebateOutcome struct {
	PlayerSupportChange float64 `json:"player_support_change"`
	TargetSupportChange float64 `json:"target_support_change"`
	Text                string  `json:"text,omitempty"`
}

func (e *Engine) campaign(s *world.GameState, a Campaign) error {
	el, ok := s.Phase.(world.Election)
	if !ok {
		return fmt.Errorf("%w: %s, need %s", ErrWrongPhase, s.Status(), world.StatusElection)
	}
	cost, ok := campaignCosts[a.Move]
	if !ok {
		return fmt.Errorf("%w: campaign move %q", ErrInvalidChoice, a.Move)
	}
	var target *world.Party
	if a.Move == Debate || a.Move == NegativeAds {
		t, err := opponent(s, a.Target)
		if err != nil {
			return err
		}
		target = t
	}
	if a.Debate != nil && (math.Abs(a.Debate.PlayerSupportChange) > maxDebateSwing || math.Abs(a.Debate.TargetSupportChange) > maxDebateSwing) {
		return fmt.Errorf("%w: debate swing out of range", ErrInvalidChoice)
	}
	if err := requirePP(s, cost); err != nil {
		return err
	}
	spendPP(s, cost)

	player := s.Player()
	switch a.Move {
	case Speech:
		if entropy.Chance(e.src, 0.75) {
			gain := entropy.Range(e.src, 1, 4)
			player.AddSupport(gain)
			s.Log(fmt.Sprintf("[Campaign] A rousing speech won %s support.", signedf(gain)))
		} else {
			loss := entropy.Range(e.src, 0.5, 1.5)
			player.AddSupport(-loss)
			s.Log(fmt.Sprintf("[Campaign] The speech fell flat (%s support).", signedf(-loss)))
		}
	case Debate:
		out := e.debateOutcome(a.Debate)
		player.AddSupport(out.PlayerSupportChange)
		target.AddSupport(out.TargetSupportChange)
		line := fmt.Sprintf("[Campaign] Debate against %s: us %s, them %s.", target.Name,
			signedf(out.PlayerSupportChange), signedf(out.TargetSupportChange))
		if out.Text != "" {
			line += " " + strings.TrimSpace(out.Text)
		}
		s.Log(line)
	case NegativeAds:
		hit := entropy.Range(e.src, 2, 5)
		target.AddSupport(-hit)
		s.Log(fmt.Sprintf("[Campaign] Attack ads cost %s %.1f points.", target.Name, hit))
		if entropy.Chance(e.src, 0.3) {
			back := entropy.Range(e.src, 1, 2)
			player.AddSupport(-back)
			s.Log(fmt.Sprintf("[Campaign] The attack backfired on us (%s).", signedf(-back)))
		}
	case Grassroots:
		gain := entropy.Range(e.src, 1, 1.5)
		player.AddSupport(gain)
		s.Log(fmt.Sprintf("[Campaign] Volunteers canvassed door to door (%s support).", signedf(gain)))
	case CounterArgument:
		el.CounterArgumentTurns = 2
		s.Log("[Campaign] Our rapid-response team is ready for incoming attacks.")
	}
	s.Phase = el
	return e.endCampaignDay(s)
}

func (e *Engine) skipCampaignDay(s *world.GameState) error {
	if err := requirePhase(s, world.StatusElection); err != nil {
		return err
	}
	s.Log("[Campaign] We sat the day out.")
	return e.endCampaignDay(s)
}

// debateOutcome returns a reported result or draws one from the
// win/lose/draw table.
func (e *Engine) debateOutcome(reported *DebateOutcome) DebateOutcome {
	if reported != nil {
		return *reported
	}
	switch r := entropy.Range(e.src, 0, 1); {
	case r < 0.4:
		return DebateOutcome{entropy.Range(e.src, 2, 3.5), -entropy.Range(e.src, 1, 2), "We carried the debate."}
	case r < 0.7:
		return DebateOutcome{-entropy.Range(e.src, 1, 2), entropy.Range(e.src, 1.5, 2.5), "Our opponent had the better night."}
	default:
		return DebateOutcome{entropy.Range(e.src, 0.5, 1), -entropy.Range(e.src, 0.5, 1), "The debate ended roughly even."}
	}
}

// endCampaignDay lets the other parties campaign, decays buffs and moves to
// the next day, closing the polls after the last one.
func (e *Engine) endCampaignDay(s *world.GameState) error {
	el := s.Phase.(world.Election)
	e.opponentsCampaign(s, el.CounterArgumentTurns > 0)
	if el.CounterArgumentTurns > 0 {
		el.CounterArgumentTurns--
	}
	el.CampaignTurn++
	s.Phase = el
	if el.CampaignTurn > CampaignDays {
		e.finishElection(s)
	}
	return nil
}

// opponentsCampaign runs one day of campaigning for every non-player
// party. Targets are chosen from support as it stood before anyone moved.
func (e *Engine) opponentsCampaign(s *world.GameState, shielded bool) {
	snapshot := make([]world.Party, len(s.Parties))
	copy(snapshot, s.Parties)

	for i := range snapshot {
		self := snapshot[i]
		if self.IsPlayer || !entropy.Chance(e.src, 0.8) {
			continue
		}
		others := make([]world.Party, 0, len(snapshot)-1)
		for j, p := range snapshot {
			if j != i {
				others = append(others, p)
			}
		}
		if len(others) == 0 {
			continue
		}
		sort.SliceStable(others, func(a, b int) bool { return others[a].Support > others[b].Support })
		target := entropy.Pick(e.src, others[:min(3, len(others))])

		var move CampaignMove
		switch {
		case self.Support < 20:
			move = NegativeAds
			if entropy.Chance(e.src, 0.5) {
				move = Speech
			}
		case self.Support > target.Support:
			move = Grassroots
		default:
			switch r := entropy.Range(e.src, 0, 1); {
			case r < 0.4:
				move = Speech
			case r < 0.7:
				move = Grassroots
			default:
				move = NegativeAds
			}
		}

		actor := &s.Parties[i]
		switch move {
		case Speech:
			if entropy.Chance(e.src, 0.6) {
				actor.AddSupport(entropy.Range(e.src, 1, 3.5))
			} else {
				actor.AddSupport(-entropy.Range(e.src, 0.5, 1.5))
			}
		case Grassroots:
			actor.AddSupport(entropy.Range(e.src, 0.8, 1.5))
		case NegativeAds:
			victim := s.PartyByName(target.Name)
			hit := entropy.Range(e.src, 1, 3)
			if victim.IsPlayer && shielded {
				hit *= 0.4
				if entropy.Chance(e.src, 0.5) {
					actor.AddSupport(-entropy.Range(e.src, 0.5, 1))
					s.Log(fmt.Sprintf("[Campaign] Our rebuttal turned %s's attack back on them.", actor.Name))
				}
			}
			victim.AddSupport(-hit)
			if victim.IsPlayer {
				s.Log(fmt.Sprintf("[Campaign] %s ran attack ads against us (%s).", actor.Name, signedf(-hit)))
			}
			if entropy.Chance(e.src, 0.35) {
				actor.AddSupport(-entropy.Range(e.src, 0.5, 1.5))
			}
		}
	}
}

// finishElection allocates seats by support and forms the new government.
func (e *Engine) finishElection(s *world.GameState) {
	support := make([]float64, len(s.Parties))
	for i, p := range s.Parties {
		support[i] = p.Support
	}
	seats := apportion.LargestRemainder(support, world.TotalSeats)
	setSeats(s, seats)

	winner := 0
	for i, n := range seats {
		if n > seats[winner] {
			winner = i
		}
	}
	s.RulingParty = s.Parties[winner].Name
	s.PlayerStatus = world.Opposition
	if s.Parties[winner].IsPlayer {
		s.PlayerStatus = world.Ruling
	}

	player := s.Player()
	for i := range s.Parties {
		p := &s.Parties[i]
		if p.IsPlayer {
			p.Relation = 100
			continue
		}
		p.Relation = ideology.InitialRelation(player.Ideology, p.Ideology, e.src)
	}
	s.PlayerCoalition = nil
	s.OppositionCoalitions = nil

	result := &world.ElectionResult{
		Turn:        s.Turn,
		Seats:       make(map[string]int, len(s.Parties)),
		RulingParty: s.RulingParty,
		PlayerWon:   s.PlayerStatus == world.Ruling,
	}
	parts := make([]string, 0, len(s.Parties))
	for _, p := range s.Parties {
		result.Seats[p.Name] = p.Seats
		parts = append(parts, fmt.Sprintf("%s %d", p.Name, p.Seats))
	}
	s.LastElection = result
	s.Phase = world.Playing{}
	s.Turn++
	s.LawProposedThisTurn = false

	s.Log(fmt.Sprintf("[Election] Results: %s.", strings.Join(parts, ", ")))
	if result.PlayerWon {
		s.Log(fmt.Sprintf("[Election] %s will form the government.", s.RulingParty))
	} else {
		s.Log(fmt.Sprintf("[Election] %s will form the government. We go into opposition.", s.RulingParty))
	}
	e.logger.Info("election finished", "ruling_party", s.RulingParty, "player_won", result.PlayerWon, "turn", s.Turn)
}
