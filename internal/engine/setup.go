package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/ideology"
	"github.com/talgya/statecraft/internal/world"
)

// Opening values for a new game.
const (
	startingPoliticalPower = 50
	playerStartSeats       = 40
	defaultOpposition      = 4
)

// Setup describes a new game.
type Setup struct {
	CountryName    string         `json:"country_name"`
	PlayerParty    string         `json:"player_party"`
	PlayerIdeology world.Ideology `json:"player_ideology"`
	Opposition     int            `json:"opposition_parties"`
}

// NewGame builds the opening state: the player's party governs with 40
// seats and the remaining 60 are split among opposition parties drawn from
// the preset catalog.
func (e *Engine) NewGame(cfg Setup) (*world.GameState, error) {
	name := strings.TrimSpace(cfg.PlayerParty)
	if name == "" {
		return nil, fmt.Errorf("%w: empty player party name", ErrInvalidChoice)
	}
	if cfg.CountryName == "" {
		cfg.CountryName = "Aurelia"
	}
	if cfg.PlayerIdeology == world.IdeologyUnknown {
		cfg.PlayerIdeology = world.CenterRight
	}

	var pool []world.Party
	for _, p := range e.cat.Parties {
		if !strings.EqualFold(p.Name, name) {
			pool = append(pool, world.Party{Name: p.Name, Ideology: p.Ideology})
		}
	}
	n := cfg.Opposition
	if n <= 0 {
		n = defaultOpposition
	}
	if n > len(pool) {
		return nil, fmt.Errorf("%w: %d opposition parties requested, %d available", ErrInvalidChoice, n, len(pool))
	}

	parties := []world.Party{{
		Name:     name,
		Ideology: cfg.PlayerIdeology,
		IsPlayer: true,
		Seats:    playerStartSeats,
		Support:  playerStartSeats,
		Relation: 100,
	}}
	remaining := world.TotalSeats - playerStartSeats
	for i, p := range entropy.Shuffle(e.src, pool)[:n] {
		seats := remaining / (n - i)
		if i == n-1 {
			seats = remaining
		}
		remaining -= seats
		p.Seats = seats
		p.Support = float64(seats)
		p.Relation = ideology.InitialRelation(cfg.PlayerIdeology, p.Ideology, e.src)
		parties = append(parties, p)
	}

	s := &world.GameState{
		ID:           uuid.NewString(),
		Phase:        world.Playing{},
		Turn:         1,
		Country:      world.NewCountry(cfg.CountryName),
		PlayerStats:  world.PlayerStats{PoliticalPower: startingPoliticalPower},
		Parties:      parties,
		PlayerStatus: world.Ruling,
		RulingParty:  name,
	}
	s.Log(fmt.Sprintf("%s has formed a government in %s.", name, cfg.CountryName))
	e.pushNews(s, world.NewsArticle{
		Outlet:   entropy.Pick(e.src, e.cat.Outlets[world.LeaningNeutral]),
		Leaning:  world.LeaningNeutral,
		Headline: fmt.Sprintf("%s takes office", name),
		Body:     fmt.Sprintf("A new government led by %s has been sworn in. Its first budget and legislative agenda are awaited.", name),
	})
	e.logger.Info("new game", "id", s.ID, "country", cfg.CountryName, "player", name, "opposition", n)
	return s, nil
}
