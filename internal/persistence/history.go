package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/talgya/statecraft/internal/world"
)

// TurnStats is one row of per-turn national statistics.
type TurnStats struct {
	SessionID           string  `db:"session_id" json:"session_id"`
	Turn                int     `db:"turn" json:"turn"`
	Status              string  `db:"status" json:"status"`
	PlayerStatus        string  `db:"player_status" json:"player_status"`
	Treasury            int     `db:"treasury" json:"treasury"`
	Stability           int     `db:"stability" json:"stability"`
	Corruption          int     `db:"corruption" json:"corruption"`
	Manpower            int     `db:"manpower" json:"manpower"`
	ResearchPoints      int     `db:"research_points" json:"research_points"`
	MilitaryPower       int     `db:"military_power" json:"military_power"`
	Happiness           float64 `db:"happiness" json:"happiness"`
	PlayerSupport       float64 `db:"player_support" json:"player_support"`
	PlayerSeats         int     `db:"player_seats" json:"player_seats"`
	PoliticalPower      int     `db:"political_power" json:"political_power"`
	PartyFunds          int     `db:"party_funds" json:"party_funds"`
	MilitaryFrustration int     `db:"military_frustration" json:"military_frustration"`
}

// LogLine is one recorded audit line.
type LogLine struct {
	ID     int64  `db:"id" json:"id"`
	Turn   int    `db:"turn" json:"turn"`
	Action string `db:"action" json:"action"`
	Line   string `db:"line" json:"line"`
}

// VoteRecord is an acknowledged vote result.
type VoteRecord struct {
	Turn       int    `db:"turn" json:"turn"`
	LawName    string `db:"law_name" json:"law_name"`
	Proposer   string `db:"proposer" json:"proposer"`
	Passed     bool   `db:"passed" json:"passed"`
	Approve    int    `db:"approve" json:"approve"`
	Oppose     int    `db:"oppose" json:"oppose"`
	PartyVotes string `db:"party_votes_json" json:"-"`
}

// ElectionRecord is a finished election.
type ElectionRecord struct {
	Turn        int    `db:"turn" json:"turn"`
	RulingParty string `db:"ruling_party" json:"ruling_party"`
	PlayerWon   bool   `db:"player_won" json:"player_won"`
	Seats       string `db:"seats_json" json:"-"`
}

// Outcomes stored when a session ends.
const (
	OutcomeGameOver  = "game_over"
	OutcomeAbandoned = "abandoned"
)

// Record stores what changed between two consecutive states. A nil prev
// starts a session; a nil next ends it.
func (db *DB) Record(prev, next *world.GameState, action string) error {
	if next == nil {
		if prev == nil {
			return nil
		}
		return db.EndSession(prev.ID, OutcomeGameOver)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	newSession := prev == nil || prev.ID != next.ID
	if newSession {
		if prev != nil {
			if err := endSession(tx, prev.ID, OutcomeAbandoned); err != nil {
				return err
			}
		}
		name := ""
		if p := next.Player(); p != nil {
			name = p.Name
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO sessions (id, country, player_party, started_at) VALUES (?, ?, ?, ?)",
			next.ID, next.Country.Name, name, time.Now().Unix(),
		); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		prev = nil
	}

	var lines []string
	switch {
	case prev == nil:
		lines = next.Logs
	case len(next.Logs) > len(prev.Logs):
		lines = next.Logs[len(prev.Logs):]
	}
	for _, l := range lines {
		if _, err := tx.Exec(
			"INSERT INTO log_lines (session_id, turn, action, line) VALUES (?, ?, ?, ?)",
			next.ID, next.Turn, action, l,
		); err != nil {
			return fmt.Errorf("insert log line: %w", err)
		}
	}

	if prev == nil || prev.Turn != next.Turn {
		if err := insertStats(tx, statsOf(next)); err != nil {
			return err
		}
	}

	if prev != nil && prev.VoteResult != nil && next.VoteResult == nil {
		vr := prev.VoteResult
		votes, _ := json.Marshal(vr.PartyVotes)
		if _, err := tx.Exec(`INSERT INTO votes
			(session_id, turn, law_name, proposer, passed, approve, oppose, party_votes_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			next.ID, prev.Turn, vr.LawName, vr.Proposer, vr.Passed, vr.Approve, vr.Oppose, string(votes),
		); err != nil {
			return fmt.Errorf("insert vote: %w", err)
		}
	}

	if le := next.LastElection; le != nil && (prev == nil || prev.LastElection == nil || prev.LastElection.Turn != le.Turn) {
		seats, _ := json.Marshal(le.Seats)
		if _, err := tx.Exec(`INSERT OR REPLACE INTO elections
			(session_id, turn, ruling_party, player_won, seats_json) VALUES (?, ?, ?, ?, ?)`,
			next.ID, le.Turn, le.RulingParty, le.PlayerWon, string(seats),
		); err != nil {
			return fmt.Errorf("insert election: %w", err)
		}
	}

	for _, n := range next.News {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO news
			(id, session_id, turn, outlet, leaning, headline, body) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			n.ID, next.ID, n.Turn, n.Outlet, string(n.Leaning), n.Headline, n.Body,
		); err != nil {
			return fmt.Errorf("insert news: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	slog.Debug("history recorded", "session", next.ID, "turn", next.Turn, "action", action, "lines", len(lines))
	return nil
}

// EndSession marks a session finished.
func (db *DB) EndSession(id, outcome string) error {
	return endSession(db.conn, id, outcome)
}

func endSession(e sqlx.Execer, id, outcome string) error {
	_, err := e.Exec(
		"UPDATE sessions SET ended_at = ?, outcome = ? WHERE id = ? AND ended_at IS NULL",
		time.Now().Unix(), outcome, id,
	)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

func statsOf(s *world.GameState) TurnStats {
	ts := TurnStats{
		SessionID:           s.ID,
		Turn:                s.Turn,
		Status:              string(s.Status()),
		PlayerStatus:        string(s.PlayerStatus),
		Treasury:            s.Country.Treasury,
		Stability:           s.Country.Stability,
		Corruption:          s.Country.Corruption,
		Manpower:            s.Country.Manpower,
		ResearchPoints:      s.Country.ResearchPoints,
		MilitaryPower:       s.Country.MilitaryPower,
		Happiness:           s.Country.OverallHappiness(),
		PoliticalPower:      s.PlayerStats.PoliticalPower,
		PartyFunds:          s.PlayerStats.PartyFunds,
		MilitaryFrustration: s.MilitaryFrustration,
	}
	if p := s.Player(); p != nil {
		ts.PlayerSupport = p.Support
		ts.PlayerSeats = p.Seats
	}
	return ts
}

func insertStats(tx *sqlx.Tx, ts TurnStats) error {
	_, err := tx.NamedExec(`INSERT OR REPLACE INTO turn_stats
		(session_id, turn, status, player_status, treasury, stability, corruption,
		 manpower, research_points, military_power, happiness, player_support,
		 player_seats, political_power, party_funds, military_frustration)
		VALUES (:session_id, :turn, :status, :player_status, :treasury, :stability, :corruption,
		 :manpower, :research_points, :military_power, :happiness, :player_support,
		 :player_seats, :political_power, :party_funds, :military_frustration)`, ts)
	if err != nil {
		return fmt.Errorf("insert turn stats: %w", err)
	}
	return nil
}

// RecentStats returns up to limit turn rows for a session, newest first.
func (db *DB) RecentStats(sessionID string, limit int) ([]TurnStats, error) {
	var out []TurnStats
	err := db.conn.Select(&out,
		"SELECT * FROM turn_stats WHERE session_id = ? ORDER BY turn DESC LIMIT ?",
		sessionID, limit,
	)
	return out, err
}

// RecentLogs returns up to limit audit lines for a session, newest first.
func (db *DB) RecentLogs(sessionID string, limit int) ([]LogLine, error) {
	var out []LogLine
	err := db.conn.Select(&out,
		"SELECT id, turn, action, line FROM log_lines WHERE session_id = ? ORDER BY id DESC LIMIT ?",
		sessionID, limit,
	)
	return out, err
}

// Votes returns a session's acknowledged votes, newest first.
func (db *DB) Votes(sessionID string, limit int) ([]VoteRecord, error) {
	var out []VoteRecord
	err := db.conn.Select(&out,
		`SELECT turn, law_name, proposer, passed, approve, oppose, party_votes_json
		 FROM votes WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		sessionID, limit,
	)
	return out, err
}

// Elections returns a session's elections, newest first.
func (db *DB) Elections(sessionID string) ([]ElectionRecord, error) {
	var out []ElectionRecord
	err := db.conn.Select(&out,
		"SELECT turn, ruling_party, player_won, seats_json FROM elections WHERE session_id = ? ORDER BY turn DESC",
		sessionID,
	)
	return out, err
}

// SessionOutcome returns how a session ended, or "" while it is running.
func (db *DB) SessionOutcome(id string) (string, error) {
	var outcome string
	err := db.conn.Get(&outcome, "SELECT outcome FROM sessions WHERE id = ?", id)
	return outcome, err
}
