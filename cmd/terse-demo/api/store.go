package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/timclausendev-web/tersejson-sub001/pkg/metrics"
)

// Store provides SQLite persistence for metrics events. It is a
// metrics.Recorder, so a Codec can write to it directly.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewStore creates a new store with the given database path.
// Use ":memory:" for an in-memory database. Failed inserts are logged to
// logger, which may be nil.
func NewStore(dbPath string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`PRAGMA journal_mode = WAL;`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store{db: db, logger: logger}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		recorded_at DATETIME NOT NULL,
		endpoint TEXT NOT NULL DEFAULT '',
		decision INTEGER NOT NULL,
		original_bytes INTEGER NOT NULL,
		compressed_bytes INTEGER NOT NULL,
		objects INTEGER DEFAULT 0,
		elements INTEGER DEFAULT 0,
		keys INTEGER DEFAULT 0,
		version INTEGER DEFAULT 0,
		pattern TEXT,
		shape_hash TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_events_endpoint ON events(endpoint);
	CREATE INDEX IF NOT EXISTS idx_events_recorded_at ON events(recorded_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores an event.
func (s *Store) Record(e metrics.Event) {
	if err := s.Insert(e); err != nil {
		s.logger.Warn("failed to store metrics event",
			slog.String("id", e.ID),
			slog.String("error", err.Error()),
		)
	}
}

// Insert stores an event and reports failures.
func (s *Store) Insert(e metrics.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO events (id, recorded_at, endpoint, decision, original_bytes, compressed_bytes,
		                    objects, elements, keys, version, pattern, shape_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Timestamp.UTC(), e.Endpoint, int(e.Decision), e.OriginalBytes, e.CompressedBytes,
		e.Objects, e.Elements, e.Keys, e.Version, nullString(e.Pattern), nullString(e.ShapeHash))

	return err
}

// RecentEvents returns up to limit events, newest first. A non-empty
// endpoint restricts the result to that endpoint.
func (s *Store) RecentEvents(limit int, endpoint string) ([]metrics.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(`
		SELECT id, recorded_at, endpoint, decision, original_bytes, compressed_bytes,
		       objects, elements, keys, version, pattern, shape_hash
		FROM events
		WHERE ? = '' OR endpoint = ?
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT ?
	`, endpoint, endpoint, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []metrics.Event
	for rows.Next() {
		var e metrics.Event
		var decision int
		var recordedAt time.Time
		var pattern, shape sql.NullString

		if err := rows.Scan(
			&e.ID, &recordedAt, &e.Endpoint, &decision, &e.OriginalBytes, &e.CompressedBytes,
			&e.Objects, &e.Elements, &e.Keys, &e.Version, &pattern, &shape,
		); err != nil {
			return nil, err
		}

		e.Timestamp = recordedAt
		e.Decision = metrics.Decision(decision)
		if pattern.Valid {
			e.Pattern = pattern.String
		}
		if shape.Valid {
			e.ShapeHash = shape.String
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// Summary aggregates events per endpoint, largest saving first.
func (s *Store) Summary() ([]EndpointSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT endpoint,
		       COUNT(*),
		       SUM(CASE WHEN decision = ? THEN 1 ELSE 0 END),
		       SUM(original_bytes),
		       SUM(compressed_bytes)
		FROM events
		GROUP BY endpoint
		ORDER BY SUM(original_bytes) - SUM(compressed_bytes) DESC, endpoint
	`, int(metrics.DecisionEncoded))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EndpointSummary
	for rows.Next() {
		var es EndpointSummary
		if err := rows.Scan(&es.Endpoint, &es.Requests, &es.Encoded, &es.OriginalBytes, &es.CompressedBytes); err != nil {
			return nil, err
		}
		if es.OriginalBytes > 0 {
			es.SavedPercent = 100 * float64(es.OriginalBytes-es.CompressedBytes) / float64(es.OriginalBytes)
		}
		out = append(out, es)
	}

	return out, rows.Err()
}

// CountEvents returns the total number of stored events.
func (s *Store) CountEvents() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&count)
	return count, err
}

// ViewOf converts an event to its JSON form.
func ViewOf(e metrics.Event) EventView {
	return EventView{
		ID:              e.ID,
		Timestamp:       e.Timestamp,
		Endpoint:        e.Endpoint,
		Decision:        e.Decision.String(),
		OriginalBytes:   e.OriginalBytes,
		CompressedBytes: e.CompressedBytes,
		SavedBytes:      e.SavedBytes(),
		Objects:         e.Objects,
		Elements:        e.Elements,
		Keys:            e.Keys,
		Version:         e.Version,
		Pattern:         e.Pattern,
		ShapeHash:       e.ShapeHash,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Compile-time interface satisfaction check.
var _ metrics.Recorder = (*Store)(nil)
