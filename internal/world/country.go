// Package world holds the game's data model: the country, its factions and
// parties, the player's resources, and the GameState aggregate that every
// engine transition reads and replaces.
package world

import "math"

// Resources is the set of country resources laws and events change.
type Resources struct {
	Treasury       int `json:"treasury"`
	Stability      int `json:"stability"`
	Manpower       int `json:"manpower"`
	ResearchPoints int `json:"research_points"`
	MilitaryPower  int `json:"military_power"`
}

// Country is the governed nation.
type Country struct {
	Name           string    `json:"name"`
	Flag           string    `json:"flag,omitempty"`
	Treasury       int       `json:"treasury"` // may go negative
	Factions       []Faction `json:"factions"`
	Manpower       int       `json:"manpower"`
	ResearchPoints int       `json:"research_points"`
	MilitaryPower  int       `json:"military_power"`
	Corruption     int       `json:"corruption"` // ≥ 0
	Stability      int       `json:"stability"`  // 0–100
}

// NewCountry returns a country with the opening resource levels.
func NewCountry(name string) Country {
	return Country{
		Name:           name,
		Treasury:       10000,
		Factions:       SeedFactions(),
		Manpower:       5000,
		ResearchPoints: 100,
		MilitaryPower:  1000,
		Corruption:     0,
		Stability:      60,
	}
}

// OverallHappiness is the population-weighted average faction happiness.
func (c *Country) OverallHappiness() float64 {
	var sum float64
	for _, f := range c.Factions {
		sum += f.Happiness * f.PopulationShare
	}
	return sum / 100
}

// Faction returns the faction with the given ID, or nil.
func (c *Country) Faction(id FactionID) *Faction {
	for i := range c.Factions {
		if c.Factions[i].ID == id {
			return &c.Factions[i]
		}
	}
	return nil
}

// ApplyResources adds r. Treasury is unbounded; stability stays in [0,100];
// manpower, research and military never drop below zero.
func (c *Country) ApplyResources(r Resources) {
	c.Treasury += r.Treasury
	c.AddStability(r.Stability)
	c.Manpower = max(0, c.Manpower+r.Manpower)
	c.ResearchPoints = max(0, c.ResearchPoints+r.ResearchPoints)
	c.MilitaryPower = max(0, c.MilitaryPower+r.MilitaryPower)
}

// CanAfford reports whether applying r leaves treasury, manpower, research
// and military non-negative.
func (c *Country) CanAfford(r Resources) bool {
	return c.Treasury+r.Treasury >= 0 &&
		c.Manpower+r.Manpower >= 0 &&
		c.ResearchPoints+r.ResearchPoints >= 0 &&
		c.MilitaryPower+r.MilitaryPower >= 0
}

func (c *Country) AddStability(d int) {
	c.Stability = ClampInt(c.Stability+d, 0, 100)
}

func (c *Country) AddCorruption(d int) {
	c.Corruption = max(0, c.Corruption+d)
}

// ApplyFactionChanges shifts each faction's happiness, clamped to [0,100].
func (c *Country) ApplyFactionChanges(ch FactionChanges) {
	for i := range c.Factions {
		f := &c.Factions[i]
		if f.ID < NumFactions {
			f.Happiness = Clamp(f.Happiness+ch[f.ID], 0, 100)
		}
	}
}

// ShiftAllFactions applies the same happiness delta to every faction.
func (c *Country) ShiftAllFactions(d float64) {
	c.ApplyFactionChanges(Uniform(d))
}

// Clamp bounds v to [lo, hi]. NaN collapses to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
