package world

// TotalSeats is the fixed size of the legislature.
const TotalSeats = 100

// Party is a political party in the legislature. Name is the unique key.
type Party struct {
	Name     string   `json:"party_name"`
	Ideology Ideology `json:"ideology"`
	IsPlayer bool     `json:"is_player,omitempty"`
	Seats    int      `json:"seats"`
	Support  float64  `json:"support"`  // 0–100, independent of seats
	Relation float64  `json:"relation"` // 0–100 trust toward the player
}

func (p *Party) AddSupport(d float64) {
	p.Support = Clamp(p.Support+d, 0, 100)
}

func (p *Party) AddRelation(d float64) {
	p.Relation = Clamp(p.Relation+d, 0, 100)
}

// PlayerStatus is whether the player's party governs.
type PlayerStatus string

const (
	Ruling     PlayerStatus = "ruling"
	Opposition PlayerStatus = "opposition"
)

// PlayerStats are the player's party resources.
type PlayerStats struct {
	PartyFunds     int `json:"party_funds"`
	PoliticalPower int `json:"political_power"` // never negative
}

// DiplomaticPact is a temporary cooperation agreement with a party.
type DiplomaticPact struct {
	PartyName      string `json:"party_name"`
	TurnsRemaining int    `json:"turns_remaining"`
}

// Coalition is an emergent alliance of opposition parties.
type Coalition struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// Has reports whether name is a member.
func (c Coalition) Has(name string) bool {
	for _, m := range c.Members {
		if m == name {
			return true
		}
	}
	return false
}
