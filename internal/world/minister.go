package world

import "fmt"

// Portfolio is a cabinet post. At most one minister holds each.
type Portfolio uint8

const (
	Finance Portfolio = iota
	DefensePost
	Foreign
	Interior
	Science
	NumPortfolios
)

var portfolioNames = [NumPortfolios]string{"finance", "defense", "foreign", "interior", "science"}

func (p Portfolio) String() string {
	if p < NumPortfolios {
		return portfolioNames[p]
	}
	return fmt.Sprintf("portfolio(%d)", uint8(p))
}

func ParsePortfolio(s string) (Portfolio, error) {
	for i, n := range portfolioNames {
		if n == s {
			return Portfolio(i), nil
		}
	}
	return 0, fmt.Errorf("unknown portfolio %q", s)
}

func (p Portfolio) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Portfolio) UnmarshalText(b []byte) error {
	v, err := ParsePortfolio(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// MinisterEffects are applied every turn while the minister serves.
type MinisterEffects struct {
	Resources  Resources      `json:"resource_changes"`
	Corruption int            `json:"corruption"`
	Factions   FactionChanges `json:"faction_happiness_changes"`
}

// Minister is a cabinet member.
type Minister struct {
	ID        string          `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Portfolio Portfolio       `json:"position"`
	Ideology  Ideology        `json:"ideology"`
	Buffs     []string        `json:"buffs"`
	Debuffs   []string        `json:"debuffs"`
	Effects   MinisterEffects `json:"effects"`
}

// FullName is "Last First", the way the cabinet roster lists ministers.
func (m Minister) FullName() string {
	return m.LastName + " " + m.FirstName
}
