// Package catalog loads the game's static data tables: opposition party
// presets, opposition bills, events, minister templates and news copy.
// Tables are embedded YAML validated at load time.
package catalog

import (
	"embed"
	"fmt"
	"path"
	"sync"

	"github.com/talgya/statecraft/internal/world"
)

//go:embed data/*.yaml
var dataFiles embed.FS

// Special event IDs raised by specific triggers.
const (
	EventProtest           = "protest_rally"
	EventCorruptionProtest = "corruption_protest"
	EventDonationScandal   = "donation_scandal"
	EventCoup              = "coup_attempt"
	EventBorderWar         = "border_war"
)

var requiredSpecials = []string{EventProtest, EventCorruptionProtest, EventDonationScandal, EventCoup, EventBorderWar}

// PartyPreset is an opposition party that can be drawn into a game.
type PartyPreset struct {
	Name     string
	Ideology world.Ideology
}

// BillTemplate is a predefined bill without a proposer.
type BillTemplate struct {
	Name        string
	Description string
	Effect      world.LawEffect
}

// Bill attaches a proposer.
func (b BillTemplate) Bill(proposer string) world.Bill {
	return world.Bill{Proposer: proposer, Name: b.Name, Description: b.Description, Effect: b.Effect}
}

// Range is an inclusive integer range. A zero Range with Set false means
// the template leaves that axis alone.
type Range struct {
	Lo, Hi int
	Set    bool
}

// MinisterTemplate describes one kind of candidate for a portfolio.
type MinisterTemplate struct {
	Ideology       world.Ideology
	Treasury       Range
	Stability      Range
	Manpower       Range
	ResearchPoints Range
	MilitaryPower  Range
	Corruption     Range
	Factions       [world.NumFactions]Range
}

// NewsTemplate holds headline and body copy with a {law} placeholder.
type NewsTemplate struct {
	Headline string `yaml:"headline"`
	Body     string `yaml:"body"`
}

// Catalog is the loaded, validated data set. It is read-only after Load.
type Catalog struct {
	Parties    []PartyPreset
	Bills      []BillTemplate
	Events     []world.Event
	special    map[string]world.Event
	Ministers  map[world.Portfolio][]MinisterTemplate
	FirstNames []string
	LastNames  []string
	Outlets    map[world.Leaning][]string
	passed     map[world.Leaning][]NewsTemplate
	failed     map[world.Leaning][]NewsTemplate
}

// Special returns the special event with id.
func (c *Catalog) Special(id string) (world.Event, bool) {
	ev, ok := c.special[id]
	return ev, ok
}

// NewsTemplates returns the pool for a vote outcome and leaning.
func (c *Catalog) NewsTemplates(passed bool, leaning world.Leaning) []NewsTemplate {
	if passed {
		return c.passed[leaning]
	}
	return c.failed[leaning]
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog, loading it on first use. The
// embedded data is validated by tests, so a failure here is a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() { defaultCat, defaultErr = Load() })
	if defaultErr != nil {
		panic(fmt.Sprintf("catalog: embedded data invalid: %v", defaultErr))
	}
	return defaultCat
}

// Load parses and validates every embedded table.
func Load() (*Catalog, error) {
	c := &Catalog{}
	steps := []struct {
		file string
		load func([]byte) error
	}{
		{"parties.yaml", c.loadParties},
		{"bills.yaml", c.loadBills},
		{"events.yaml", c.loadEvents},
		{"ministers.yaml", c.loadMinisters},
		{"news.yaml", c.loadNews},
	}
	for _, s := range steps {
		raw, err := dataFiles.ReadFile(path.Join("data", s.file))
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", s.file, err)
		}
		if err := s.load(raw); err != nil {
			return nil, fmt.Errorf("catalog: %s: %w", s.file, err)
		}
	}
	return c, nil
}
