// Package persistence records game history in SQLite: audit log lines,
// per-turn statistics, votes, elections and news. It is an append-only
// record, not a save format.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for the history record.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		country TEXT NOT NULL,
		player_party TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		ended_at INTEGER,
		outcome TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS turn_stats (
		session_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		status TEXT NOT NULL,
		player_status TEXT NOT NULL,
		treasury INTEGER NOT NULL,
		stability INTEGER NOT NULL,
		corruption INTEGER NOT NULL,
		manpower INTEGER NOT NULL,
		research_points INTEGER NOT NULL,
		military_power INTEGER NOT NULL,
		happiness REAL NOT NULL,
		player_support REAL NOT NULL,
		player_seats INTEGER NOT NULL,
		political_power INTEGER NOT NULL,
		party_funds INTEGER NOT NULL,
		military_frustration INTEGER NOT NULL,
		PRIMARY KEY (session_id, turn)
	);

	CREATE TABLE IF NOT EXISTS log_lines (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		action TEXT NOT NULL,
		line TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS votes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		law_name TEXT NOT NULL,
		proposer TEXT NOT NULL,
		passed INTEGER NOT NULL,
		approve INTEGER NOT NULL,
		oppose INTEGER NOT NULL,
		party_votes_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS elections (
		session_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		ruling_party TEXT NOT NULL,
		player_won INTEGER NOT NULL,
		seats_json TEXT NOT NULL,
		PRIMARY KEY (session_id, turn)
	);

	CREATE TABLE IF NOT EXISTS news (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		outlet TEXT NOT NULL,
		leaning TEXT NOT NULL,
		headline TEXT NOT NULL,
		body TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_log_lines_session ON log_lines(session_id, id);
	CREATE INDEX IF NOT EXISTS idx_votes_session ON votes(session_id);
	CREATE INDEX IF NOT EXISTS idx_news_session ON news(session_id, turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// ErrNoMeta is returned by GetMeta for a missing key.
var ErrNoMeta = errors.New("persistence: no such meta key")

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNoMeta, key)
	}
	return value, err
}
