// Package journal persists rules events to SQLite so finished games can be
// inspected after the process exits.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"

	_ "modernc.org/sqlite"
)

// Entry is one journaled event.
type Entry struct {
	Seq       int64
	GameID    string
	EventID   string
	Type      string
	Actor     string
	Source    string
	Target    string
	Amount    int
	Detail    string
	CreatedAt time.Time
}

// Game summarises the journal of one game.
type Game struct {
	GameID    string
	Events    int
	StartedAt time.Time
	LastAt    time.Time
	Winner    string
}

// Store writes events to a SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the journal at path. ":memory:" keeps the
// journal in process memory.
func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		event_id TEXT NOT NULL,
		type TEXT NOT NULL,
		actor TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		target TEXT NOT NULL DEFAULT '',
		amount INTEGER NOT NULL DEFAULT 0,
		detail TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_game ON events(game_id, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends evt to its game's journal.
func (s *Store) Record(ctx context.Context, evt rules.Event) error {
	if evt.GameID == "" {
		return fmt.Errorf("journal event %s: missing game id", evt.Type)
	}
	created := evt.Timestamp
	if created.IsZero() {
		created = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (game_id, event_id, type, actor, source, target, amount, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evt.GameID, evt.ID, string(evt.Type), evt.PlayerID, evt.SourceID, evt.TargetID,
		evt.Amount, evt.Data, created.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// List returns a game's events in the order they were published.
func (s *Store) List(ctx context.Context, gameID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, game_id, event_id, type, actor, source, target, amount, detail, created_at
		FROM events
		WHERE game_id = ?
		ORDER BY seq`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			created int64
		)
		if err := rows.Scan(&e.Seq, &e.GameID, &e.EventID, &e.Type, &e.Actor, &e.Source,
			&e.Target, &e.Amount, &e.Detail, &created); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.CreatedAt = time.Unix(0, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Games lists every journaled game, most recent first.
func (s *Store) Games(ctx context.Context) ([]Game, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.game_id, COUNT(*), MIN(e.created_at), MAX(e.created_at),
			COALESCE((SELECT o.actor FROM events o
				WHERE o.game_id = e.game_id AND o.type = ?
				ORDER BY o.seq DESC LIMIT 1), '')
		FROM events e
		GROUP BY e.game_id
		ORDER BY MAX(e.seq) DESC`, string(rules.EventGameOver))
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var games []Game
	for rows.Next() {
		var (
			g           Game
			first, last int64
		)
		if err := rows.Scan(&g.GameID, &g.Events, &first, &last, &g.Winner); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		g.StartedAt = time.Unix(0, first)
		g.LastAt = time.Unix(0, last)
		games = append(games, g)
	}
	return games, rows.Err()
}

// Prune deletes every event of gameID and reports how many were removed.
func (s *Store) Prune(ctx context.Context, gameID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE game_id = ?`, gameID)
	if err != nil {
		return 0, fmt.Errorf("delete events: %w", err)
	}
	return res.RowsAffected()
}
