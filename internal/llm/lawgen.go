package llm

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/talgya/statecraft/internal/world"
)

// LawGenerator turns a bill's name and description into a structured effect.
type LawGenerator interface {
	Generate(ctx context.Context, name, description string) (world.LawEffect, error)
}

// NewGenerator returns a Drafter when the client is configured and an
// OfflineDrafter otherwise.
func NewGenerator(c *Client) LawGenerator {
	if c.Enabled() {
		return &Drafter{client: c}
	}
	return OfflineDrafter{}
}

// ErrMalformedDraft is returned when the model's reply is not a usable effect.
var ErrMalformedDraft = errors.New("llm: malformed law effect")

//go:embed law_effect.schema.json
var lawEffectSchema []byte

const schemaURL = "law_effect.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft7
		if err := c.AddResource(schemaURL, bytes.NewReader(lawEffectSchema)); err != nil {
			schemaErr = fmt.Errorf("llm: load schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("llm: compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// ParseLawEffect validates raw JSON against the law-effect schema and
// decodes it.
func ParseLawEffect(raw []byte) (world.LawEffect, error) {
	var eff world.LawEffect
	s, err := compiledSchema()
	if err != nil {
		return eff, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return eff, fmt.Errorf("%w: %v", ErrMalformedDraft, err)
	}
	if err := s.Validate(doc); err != nil {
		return eff, fmt.Errorf("%w: %v", ErrMalformedDraft, err)
	}
	if err := json.Unmarshal(raw, &eff); err != nil {
		return eff, fmt.Errorf("%w: %v", ErrMalformedDraft, err)
	}
	if err := eff.Validate(); err != nil {
		return eff, fmt.Errorf("%w: %v", ErrMalformedDraft, err)
	}
	return eff, nil
}

// ValidateLawEffect checks an already decoded effect, such as one submitted
// with a law proposal, against the same schema.
func ValidateLawEffect(eff world.LawEffect) error {
	raw, err := json.Marshal(eff)
	if err != nil {
		return fmt.Errorf("llm: encode effect: %w", err)
	}
	_, err = ParseLawEffect(raw)
	return err
}

// Retryable reports whether a generation error may clear on a second try.
func Retryable(err error) bool {
	var se *StatusError
	switch {
	case errors.As(err, &se):
		return se.Retryable()
	case errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrMalformedDraft),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}

const draftSystemPrompt = `You are the legislative analyst of a parliamentary strategy game.
Given a bill's name and description, estimate what enacting it does to the country.

Respond with ONLY a JSON object:
{
  "resource_changes": {"treasury": int, "stability": int, "manpower": int, "research_points": int, "military_power": int},
  "faction_happiness_changes": {"wealthy": number, "middle_class": number, "poor": number, "capitalists": number, "workers": number},
  "effects": {"buff": ["short positive effect", ...], "debuff": ["short negative effect", ...]},
  "political_system_change": "optional: MONARCHY | REPUBLIC | SOCIALISM | DICTATORSHIP | DEMOCRACY | THEOCRACY | FEDERATION | EMPIRE",
  "party_effects": [{"target_party_name": "party name, ALL_OPPOSITION or PLAYER", "action": "dissolve | confiscate_seats | grant_seats", "value": seats}]
}

Scale: treasury changes run from -5000 to +5000, stability from -10 to +10,
manpower from -500 to +500, research and military from -300 to +300,
faction happiness from -10 to +10. Include all five resources and all five
factions, using 0 where nothing changes.

Only set political_system_change when the bill explicitly changes the form of
government: restoring a monarchy is MONARCHY, democratisation is DEMOCRACY,
establishing a theocracy, federation or empire is THEOCRACY, FEDERATION or
EMPIRE. A one-party state is DICTATORSHIP together with
{"target_party_name": "ALL_OPPOSITION", "action": "dissolve"}.
Omit party_effects unless the bill names parties or bans the opposition.`

// Drafter generates law effects with the Messages API.
type Drafter struct {
	client *Client
}

// NewDrafter wraps a configured client.
func NewDrafter(c *Client) *Drafter {
	return &Drafter{client: c}
}

// Generate asks the model for an effect and validates the reply.
func (d *Drafter) Generate(ctx context.Context, name, description string) (world.LawEffect, error) {
	name, description = strings.TrimSpace(name), strings.TrimSpace(description)
	if name == "" && description == "" {
		return world.LawEffect{}, fmt.Errorf("%w: empty bill", ErrMalformedDraft)
	}
	prompt := fmt.Sprintf("Bill name: %s\nDescription: %s", name, description)
	text, err := d.client.Complete(ctx, draftSystemPrompt, prompt, 800)
	if err != nil {
		return world.LawEffect{}, fmt.Errorf("llm: draft %q: %w", name, err)
	}
	raw, err := extractJSON(text)
	if err != nil {
		return world.LawEffect{}, fmt.Errorf("llm: draft %q: %w", name, err)
	}
	eff, err := ParseLawEffect(raw)
	if err != nil {
		slog.Debug("draft rejected", "law", name, "reply", text)
		return world.LawEffect{}, fmt.Errorf("llm: draft %q: %w", name, err)
	}
	slog.Info("law drafted", "law", name, "regime", eff.PoliticalSystemChange, "party_effects", len(eff.PartyEffects))
	return eff, nil
}

// extractJSON takes the span from the first '{' to the last '}'; models
// sometimes wrap the object in prose or code fences.
func extractJSON(text string) ([]byte, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrMalformedDraft)
	}
	return []byte(text[start : end+1]), nil
}
