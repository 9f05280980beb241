package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/talgya/statecraft/internal/catalog"
	"github.com/talgya/statecraft/internal/world"
)

const goodDraft = `{
  "resource_changes": {"treasury": -3000, "stability": 4, "manpower": 0, "research_points": 0, "military_power": 0},
  "faction_happiness_changes": {"wealthy": -2, "middle_class": 3, "poor": 8, "capitalists": -3, "workers": 6},
  "effects": {"buff": ["Stronger safety net"], "debuff": ["Higher spending"]}
}`

// fakeAPI answers every Messages call with text.
func fakeAPI(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.System == "" || len(req.Messages) != 1 {
			t.Errorf("request = %+v", req)
		}
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(text))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": text}},
			"usage":   map[string]int{"input_tokens": 10, "output_tokens": 20},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSchemaAcceptsCatalogBills(t *testing.T) {
	for _, b := range catalog.Default().Bills {
		if err := ValidateLawEffect(b.Effect); err != nil {
			t.Errorf("%s: %v", b.Name, err)
		}
	}
}

func TestParseLawEffectRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"resource_changes": `},
		{"missing factions", `{"resource_changes": {"treasury": 0, "stability": 0, "manpower": 0, "research_points": 0, "military_power": 0}, "effects": {"buff": [], "debuff": []}}`},
		{"unknown faction", `{"resource_changes": {"treasury": 0, "stability": 0, "manpower": 0, "research_points": 0, "military_power": 0},
			"faction_happiness_changes": {"wealthy": 0, "middle_class": 0, "poor": 0, "capitalists": 0, "workers": 0, "nobles": 3},
			"effects": {"buff": [], "debuff": []}}`},
		{"fractional treasury", `{"resource_changes": {"treasury": 10.5, "stability": 0, "manpower": 0, "research_points": 0, "military_power": 0},
			"faction_happiness_changes": {"wealthy": 0, "middle_class": 0, "poor": 0, "capitalists": 0, "workers": 0},
			"effects": {"buff": [], "debuff": []}}`},
		{"junta by law", `{"resource_changes": {"treasury": 0, "stability": 0, "manpower": 0, "research_points": 0, "military_power": 0},
			"faction_happiness_changes": {"wealthy": 0, "middle_class": 0, "poor": 0, "capitalists": 0, "workers": 0},
			"effects": {"buff": [], "debuff": []}, "political_system_change": "MILITARY_JUNTA"}`},
		{"bad party action", `{"resource_changes": {"treasury": 0, "stability": 0, "manpower": 0, "research_points": 0, "military_power": 0},
			"faction_happiness_changes": {"wealthy": 0, "middle_class": 0, "poor": 0, "capitalists": 0, "workers": 0},
			"effects": {"buff": [], "debuff": []}, "party_effects": [{"target_party_name": "ALL_OPPOSITION", "action": "imprison"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseLawEffect([]byte(tt.raw)); !errors.Is(err, ErrMalformedDraft) {
				t.Errorf("err = %v, want ErrMalformedDraft", err)
			}
		})
	}
}

func TestDrafterExtractsWrappedJSON(t *testing.T) {
	srv := fakeAPI(t, http.StatusOK, "Here is the analysis:\n```json\n"+goodDraft+"\n```")
	d := NewDrafter(NewClient("test-key", WithEndpoint(srv.URL)))

	eff, err := d.Generate(context.Background(), "Welfare Expansion Act", "Expand social security.")
	if err != nil {
		t.Fatal(err)
	}
	if eff.Resources.Treasury != -3000 || eff.Factions[world.Poor] != 8 {
		t.Errorf("effect = %+v", eff)
	}
	if !reflect.DeepEqual(eff.Effects.Buff, []string{"Stronger safety net"}) {
		t.Errorf("buff = %q", eff.Effects.Buff)
	}
}

func TestDrafterErrors(t *testing.T) {
	t.Run("prose only", func(t *testing.T) {
		srv := fakeAPI(t, http.StatusOK, "I cannot evaluate this bill.")
		_, err := NewDrafter(NewClient("test-key", WithEndpoint(srv.URL))).Generate(context.Background(), "Act", "text")
		if !errors.Is(err, ErrMalformedDraft) || !Retryable(err) {
			t.Errorf("err = %v", err)
		}
	})
	t.Run("server error", func(t *testing.T) {
		srv := fakeAPI(t, http.StatusServiceUnavailable, "overloaded")
		_, err := NewDrafter(NewClient("test-key", WithEndpoint(srv.URL))).Generate(context.Background(), "Act", "text")
		var se *StatusError
		if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable || !Retryable(err) {
			t.Errorf("err = %v", err)
		}
	})
	t.Run("bad request", func(t *testing.T) {
		srv := fakeAPI(t, http.StatusBadRequest, "invalid")
		_, err := NewDrafter(NewClient("test-key", WithEndpoint(srv.URL))).Generate(context.Background(), "Act", "text")
		if err == nil || Retryable(err) {
			t.Errorf("err = %v, want non-retryable", err)
		}
	})
}

func TestNewGeneratorFallsBackOffline(t *testing.T) {
	if _, ok := NewGenerator(NewClient("")).(OfflineDrafter); !ok {
		t.Error("no key should select the offline drafter")
	}
	if _, ok := NewGenerator(NewClient("k")).(*Drafter); !ok {
		t.Error("a key should select the API drafter")
	}
}

func TestOfflineDrafter(t *testing.T) {
	ctx := context.Background()
	var d OfflineDrafter

	welfare, err := d.Generate(ctx, "Welfare Act", "Strengthen the social security safety net.")
	if err != nil {
		t.Fatal(err)
	}
	if welfare.Resources.Treasury >= 0 || welfare.Factions[world.Poor] <= 0 {
		t.Errorf("welfare effect = %+v", welfare)
	}
	again, _ := d.Generate(ctx, "Welfare Act", "Strengthen the social security safety net.")
	if !reflect.DeepEqual(welfare, again) {
		t.Error("offline drafts are not deterministic")
	}
	if err := ValidateLawEffect(welfare); err != nil {
		t.Errorf("offline draft fails the schema: %v", err)
	}

	junta, err := d.Generate(ctx, "National Unity Act", "Establish a one-party state under a dictatorship.")
	if err != nil {
		t.Fatal(err)
	}
	if junta.PoliticalSystemChange != world.Dictatorship {
		t.Errorf("regime = %s", junta.PoliticalSystemChange)
	}
	if len(junta.PartyEffects) != 1 || junta.PartyEffects[0].Target != world.TargetAllOpposition || junta.PartyEffects[0].Action != world.Dissolve {
		t.Errorf("party effects = %+v", junta.PartyEffects)
	}

	crown, _ := d.Generate(ctx, "Crown Act", "Restoration of the monarchy.")
	if crown.PoliticalSystemChange != world.Monarchy {
		t.Errorf("regime = %s, want MONARCHY", crown.PoliticalSystemChange)
	}

	plain, err := d.Generate(ctx, "Act 12", "")
	if err != nil || plain.Resources.Treasury != -500 {
		t.Errorf("plain draft = %+v, %v", plain, err)
	}

	if _, err := d.Generate(ctx, " ", ""); err == nil {
		t.Error("empty bill accepted")
	}
}
