package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/talgya/statecraft/internal/api"
	"github.com/talgya/statecraft/internal/engine"
	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/llm"
	"github.com/talgya/statecraft/internal/world"
)

func baseState() *world.GameState {
	return &world.GameState{
		ID:      "g1",
		Phase:   world.Playing{},
		Turn:    3,
		Country: world.NewCountry("Aurelia Republic"),
		Parties: []world.Party{
			{Name: "Civic Union", Ideology: world.CenterRight, IsPlayer: true, Seats: 40, Support: 40, Relation: 100},
			{Name: "Green Future", Ideology: world.Environmentalism, Seats: 60, Support: 60, Relation: 50},
		},
		PlayerStats:  world.PlayerStats{PoliticalPower: 50},
		PlayerStatus: world.Ruling,
		RulingParty:  "Civic Union",
	}
}

func TestTriageLevels(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*world.GameState)
		hist   []HistoryRow
		want   CrisisLevel
	}{
		{"healthy", func(*world.GameState) {}, nil, Healthy},
		{"war", func(s *world.GameState) { s.Phase = world.War{} }, nil, Critical},
		{"deficit", func(s *world.GameState) { s.Country.Treasury = -10 }, nil, Critical},
		{"coup risk", func(s *world.GameState) { s.MilitaryFrustration = 16 }, nil, Critical},
		{"corruption", func(s *world.GameState) { s.Country.Corruption = 30 }, nil, Warning},
		{"low support", func(s *world.GameState) { s.Parties[0].Support = 10 }, nil, Warning},
		{"shaky", func(s *world.GameState) { s.Country.Stability = 45 }, nil, Watch},
		{"falling", func(*world.GameState) {}, []HistoryRow{{Turn: 3, Stability: 60}, {Turn: 1, Stability: 75}}, Watch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := baseState()
			tt.mutate(s)
			h := Triage(&Snapshot{State: s, History: tt.hist})
			if h.CrisisLevel != tt.want {
				t.Errorf("crisis = %s, want %s (reasons %v)", h.CrisisLevel, tt.want, h.Reasons)
			}
			if tt.want != Healthy && len(h.Reasons) == 0 {
				t.Error("no reason recorded")
			}
		})
	}
}

func TestRulesPriorities(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*world.GameState)
		want   string
	}{
		{"idle", func(*world.GameState) {}, "advance_turn"},
		{"civil war", func(s *world.GameState) {
			s.Phase = world.CivilWar{Conflict: world.Conflict{OpposingStrength: 5000}}
		}, "conflict_tactic"},
		{"election", func(s *world.GameState) { s.Phase = world.Election{CampaignTurn: 1} }, "campaign"},
		{"broke campaign", func(s *world.GameState) {
			s.Phase = world.Election{CampaignTurn: 1}
			s.PlayerStats.PoliticalPower = 0
		}, "skip_campaign_day"},
		{"vote result", func(s *world.GameState) { s.VoteResult = &world.VoteResult{LawName: "Act"} }, "acknowledge_vote"},
		{"bill", func(s *world.GameState) { s.BillToVoteOn = &world.Bill{Proposer: "Civic Union", Name: "Act"} }, "vote_on_bill"},
		{"event", func(s *world.GameState) {
			s.ActiveEvent = &world.Event{Title: "Strike", Choices: []world.EventChoice{{Text: "Negotiate"}}}
		}, "choose_event_option"},
		{"corrupt", func(s *world.GameState) { s.Country.Corruption = 35 }, "internal_affairs"},
		{"poor", func(s *world.GameState) { s.Country.Treasury = 1000 }, "set_budget_tier"},
		{"opposition", func(s *world.GameState) { s.PlayerStatus = world.Opposition }, "criticize"},
		{"funds", func(s *world.GameState) { s.PlayerStats.PartyFunds = 800 }, "convert_funds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := baseState()
			tt.mutate(s)
			snap := &Snapshot{State: s}
			d := Rules(snap, Triage(snap))
			if d.Action != tt.want {
				t.Fatalf("action = %s (%s), want %s", d.Action, d.Rationale, tt.want)
			}
			if _, err := engine.DecodeAction(d.Action, d.Payload); err != nil {
				t.Errorf("payload %s does not decode: %v", d.Payload, err)
			}
		})
	}
}

func TestRulesAvoidJuntaChoice(t *testing.T) {
	s := baseState()
	s.ActiveEvent = &world.Event{Title: "Generals", Choices: []world.EventChoice{
		{Text: "Hand over power", Outcome: world.OutcomeMilitaryJunta, Effects: world.ChoiceEffects{Resources: world.Resources{Stability: 10}}},
		{Text: "Resist", Outcome: world.OutcomeResistCoup},
		{Text: "Bribe them", Effects: world.ChoiceEffects{PartyFunds: -5000, Resources: world.Resources{Stability: 20}}},
	}}
	snap := &Snapshot{State: s}
	d := Rules(snap, Triage(snap))
	var c engine.ChooseEventOption
	if err := json.Unmarshal(d.Payload, &c); err != nil {
		t.Fatal(err)
	}
	if c.Choice != 1 {
		t.Errorf("choice = %d, want 1", c.Choice)
	}
}

func TestEnforceGuardrails(t *testing.T) {
	s := baseState()
	tests := []struct {
		name    string
		d       Decision
		wantErr bool
		check   func(t *testing.T, payload json.RawMessage)
	}{
		{name: "none", d: Decision{Action: "none", Payload: json.RawMessage(`{"x": 1}`)}},
		{name: "new game", d: Decision{Action: "new_game"}, wantErr: true},
		{name: "unknown", d: Decision{Action: "seize_power"}, wantErr: true},
		{name: "misspelt party", d: Decision{Action: "request_diplomacy", Payload: json.RawMessage(`{"party": "green futur"}`)},
			check: func(t *testing.T, p json.RawMessage) {
				if !strings.Contains(string(p), `"Green Future"`) {
					t.Errorf("payload = %s", p)
				}
			}},
		{name: "own party", d: Decision{Action: "request_coalition", Payload: json.RawMessage(`{"party": "Civic Union"}`)}, wantErr: true},
		{name: "donation capped", d: Decision{Action: "request_donation", Payload: json.RawMessage(`{"amount": 90000}`)},
			check: func(t *testing.T, p json.RawMessage) {
				var a engine.RequestDonation
				json.Unmarshal(p, &a)
				if a.Amount != maxDonation {
					t.Errorf("amount = %d", a.Amount)
				}
			}},
		{name: "debate stripped", d: Decision{Action: "campaign", Payload: json.RawMessage(
			`{"move": "debate", "target": "Green Future", "debate": {"player_support_change": 5, "target_support_change": -5}}`)},
			check: func(t *testing.T, p json.RawMessage) {
				var a engine.Campaign
				json.Unmarshal(p, &a)
				if a.Debate != nil || a.Target != "Green Future" {
					t.Errorf("campaign = %+v", a)
				}
			}},
		{name: "bad payload", d: Decision{Action: "rally", Payload: json.RawMessage(`{"score": "high"}`)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.d
			err := enforceGuardrails(&d, s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, d.Payload)
			}
		})
	}
}

// fakeLLM answers every completion with reply.
func fakeLLM(t *testing.T, reply string) *llm.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": reply}},
			"usage":   map[string]int{"input_tokens": 10, "output_tokens": 10},
		})
	}))
	t.Cleanup(srv.Close)
	return llm.NewClient("test-key", llm.WithEndpoint(srv.URL))
}

func TestDecideSources(t *testing.T) {
	snap := &Snapshot{State: baseState()}
	h := Triage(snap)

	d := Decide(context.Background(), nil, snap, h, nil)
	if d.Source != "rules" || d.Action != "advance_turn" {
		t.Errorf("offline decision = %+v", d)
	}

	reply := "```json\n{\"action\": \"internal_affairs\", \"rationale\": \"research\", \"payload\": {\"program\": \"promote_research\"}}\n```"
	d = Decide(context.Background(), fakeLLM(t, reply), snap, h, &CycleMemory{})
	if d.Source != "llm" || d.Action != "internal_affairs" {
		t.Errorf("llm decision = %+v", d)
	}

	d = Decide(context.Background(), fakeLLM(t, `{"action": "new_game"}`), snap, h, nil)
	if d.Source != "rules" {
		t.Errorf("rejected llm decision not replaced: %+v", d)
	}
}

func TestMemoryTrimAndPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advisor_memory.json")
	mem := LoadMemory(path)
	for i := 1; i <= 12; i++ {
		mem.Record(CycleRecord{Turn: i, Action: "advance_turn", CrisisLevel: Healthy})
	}
	if len(mem.Records) != maxRecords || mem.Records[0].Turn != 3 {
		t.Fatalf("records = %d, first turn %d", len(mem.Records), mem.Records[0].Turn)
	}
	if err := mem.Save(); err != nil {
		t.Fatal(err)
	}
	again := LoadMemory(path)
	if len(again.Records) != maxRecords {
		t.Errorf("reloaded %d records", len(again.Records))
	}
	if got := strings.Count(again.FormatForPrompt(), "\n- Turn"); got != promptRecords {
		t.Errorf("prompt lists %d cycles, want %d", got, promptRecords)
	}
}

func TestRunCycleAgainstServer(t *testing.T) {
	eng := engine.New(entropy.NewSeeded(5), engine.WithLogger(slog.New(slog.DiscardHandler)))
	srv := &api.Server{
		Session:   engine.NewSession(eng),
		Generator: llm.OfflineDrafter{},
		Setup:     engine.Setup{PlayerParty: "Civic Union", PlayerIdeology: world.CenterRight},
		AdminKey:  "k",
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	adv := &Advisor{
		Observer: NewObserver(ts.URL),
		Actor:    NewActor(ts.URL, "k"),
		Memory:   LoadMemory(filepath.Join(t.TempDir(), "mem.json")),
	}
	if _, err := adv.RunCycle(context.Background()); !errors.Is(err, ErrNoGame) {
		t.Fatalf("cycle without game: err = %v", err)
	}

	if _, err := srv.Session.NewGame(srv.Setup); err != nil {
		t.Fatal(err)
	}
	d, err := adv.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	if d.Action != "advance_turn" {
		t.Errorf("first action = %s", d.Action)
	}
	if st := srv.Session.State(); st.Turn != 2 {
		t.Errorf("turn = %d, want 2", st.Turn)
	}

	for i := 0; i < 4; i++ {
		adv.RunCycle(context.Background())
	}
	if n := len(adv.Memory.Records); n != 5 {
		t.Errorf("memory holds %d cycles, want 5", n)
	}
}
