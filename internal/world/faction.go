// Factions — the five socioeconomic segments of the population.
package world

import (
	"encoding/json"
	"fmt"
)

// FactionID identifies one of the fixed population segments.
type FactionID uint8

const (
	Wealthy     FactionID = iota // Landed and financial elite
	MiddleClass                  // Salaried households
	Poor                         // Low-income households
	Capitalists                  // Business owners
	Workers                      // Organised labour
	NumFactions
)

var factionNames = [NumFactions]string{"wealthy", "middle_class", "poor", "capitalists", "workers"}

func (f FactionID) String() string {
	if f < NumFactions {
		return factionNames[f]
	}
	return fmt.Sprintf("faction(%d)", uint8(f))
}

// ParseFaction resolves a faction key.
func ParseFaction(s string) (FactionID, error) {
	for i, name := range factionNames {
		if name == s {
			return FactionID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown faction %q", s)
}

func (f FactionID) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *FactionID) UnmarshalText(b []byte) error {
	v, err := ParseFaction(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Faction is a population segment with a happiness score and a fixed
// share of the population.
type Faction struct {
	ID              FactionID `json:"name"`
	Happiness       float64   `json:"happiness"`        // 0–100
	PopulationShare float64   `json:"population_share"` // percent, sums to 100
}

// SeedFactions returns the opening faction layout.
func SeedFactions() []Faction {
	return []Faction{
		{ID: Wealthy, Happiness: 60, PopulationShare: 10},
		{ID: MiddleClass, Happiness: 70, PopulationShare: 40},
		{ID: Poor, Happiness: 50, PopulationShare: 20},
		{ID: Capitalists, Happiness: 65, PopulationShare: 5},
		{ID: Workers, Happiness: 55, PopulationShare: 25},
	}
}

// FactionChanges holds one happiness delta per faction. It encodes as a
// JSON object keyed by faction name; missing keys are zero.
type FactionChanges [NumFactions]float64

// Uniform returns a change set applying d to every faction.
func Uniform(d float64) FactionChanges {
	var c FactionChanges
	for i := range c {
		c[i] = d
	}
	return c
}

// IsZero reports whether no faction is affected.
func (c FactionChanges) IsZero() bool {
	return c == FactionChanges{}
}

func (c FactionChanges) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, NumFactions)
	for i, v := range c {
		m[factionNames[i]] = v
	}
	return json.Marshal(m)
}

func (c *FactionChanges) UnmarshalJSON(b []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	parsed, err := FactionChangesFromMap(m)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FactionChangesFromMap converts a name-keyed map, rejecting unknown names.
func FactionChangesFromMap(m map[string]float64) (FactionChanges, error) {
	var c FactionChanges
	for k, v := range m {
		id, err := ParseFaction(k)
		if err != nil {
			return c, err
		}
		c[id] = v
	}
	return c, nil
}
