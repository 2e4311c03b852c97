// Package storage provides SQLite-based persistence for move detections and
// training sessions. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Detection is one recognized move.
type Detection struct {
	ID        int64
	SessionID string
	RosterID  string
	Player    int
	Move      string
	Sequence  string // Chords as typed, e.g. "down down+right right+a"
	CreatedAt time.Time
}

// Session summarizes one training session.
type Session struct {
	ID         int64
	SessionID  string
	RosterID   string
	User       string // SSH user, or empty for local play
	Detections int
	Duration   int // Duration in seconds
	CreatedAt  time.Time
}

// MoveCount is how often a move was detected.
type MoveCount struct {
	Move  string
	Count int
	Last  time.Time
}

// RosterStats contains aggregated statistics for a roster.
type RosterStats struct {
	RosterID   string
	Detections int
	Sessions   int
	Distinct   int // Number of different moves landed
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS detections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			roster_id TEXT NOT NULL,
			player INTEGER NOT NULL,
			move TEXT NOT NULL,
			sequence TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_detections_roster ON detections(roster_id);
		CREATE INDEX IF NOT EXISTS idx_detections_move ON detections(roster_id, move);

		CREATE TABLE IF NOT EXISTS training_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			roster_id TEXT NOT NULL,
			username TEXT NOT NULL DEFAULT '',
			detections INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_training_sessions_roster ON training_sessions(roster_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveDetection records a detected move.
// Returns the ID of the inserted record.
func (s *Store) SaveDetection(d Detection) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO detections (session_id, roster_id, player, move, sequence)
		 VALUES (?, ?, ?, ?, ?)`,
		d.SessionID, d.RosterID, d.Player, d.Move, d.Sequence,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save detection: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopMoves returns the most detected moves for the roster, most frequent first.
func (s *Store) TopMoves(rosterID string, limit int) ([]MoveCount, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT move, COUNT(*) AS n, MAX(created_at)
		 FROM detections
		 WHERE roster_id = ?
		 GROUP BY move
		 ORDER BY n DESC, move ASC
		 LIMIT ?`,
		rosterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query moves: %w", err)
	}
	defer rows.Close()

	var counts []MoveCount
	for rows.Next() {
		var mc MoveCount
		var last any
		if err := rows.Scan(&mc.Move, &mc.Count, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		mc.Last = parseTime(last)
		counts = append(counts, mc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return counts, nil
}

// RecentDetections returns the latest detections for the roster, newest first.
func (s *Store) RecentDetections(rosterID string, limit int) ([]Detection, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, roster_id, player, move, sequence, created_at
		 FROM detections
		 WHERE roster_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		rosterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query detections: %w", err)
	}
	defer rows.Close()

	var detections []Detection
	for rows.Next() {
		var d Detection
		var createdAt any
		if err := rows.Scan(&d.ID, &d.SessionID, &d.RosterID, &d.Player, &d.Move, &d.Sequence, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		d.CreatedAt = parseTime(createdAt)
		detections = append(detections, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return detections, nil
}

// ClearDetections deletes all detections and sessions for the roster.
func (s *Store) ClearDetections(rosterID string) error {
	if _, err := s.db.Exec("DELETE FROM detections WHERE roster_id = ?", rosterID); err != nil {
		return fmt.Errorf("storage: cannot clear detections: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM training_sessions WHERE roster_id = ?", rosterID); err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// SaveSession records a finished training session.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(sess Session) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO training_sessions (session_id, roster_id, username, detections, duration_secs)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.SessionID, sess.RosterID, sess.User, sess.Detections, sess.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// UpdateSession records a session that is still running, creating its row
// on first use. Later calls overwrite the detection count and duration, so
// the row stays current even if the session never finishes cleanly.
func (s *Store) UpdateSession(sess Session) error {
	_, err := s.db.Exec(
		`INSERT INTO training_sessions (session_id, roster_id, username, detections, duration_secs)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		   detections = excluded.detections,
		   duration_secs = excluded.duration_secs`,
		sess.SessionID, sess.RosterID, sess.User, sess.Detections, sess.Duration,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot update session: %w", err)
	}
	return nil
}

// SessionByID retrieves a session by its session ID.
// Returns nil if the session does not exist.
func (s *Store) SessionByID(sessionID string) (*Session, error) {
	row := s.db.QueryRow(
		`SELECT id, session_id, roster_id, username, detections, duration_secs, created_at
		 FROM training_sessions
		 WHERE session_id = ?`,
		sessionID,
	)

	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return &sess, nil
}

// RecentSessions retrieves the most recent training sessions, newest first.
// An empty roster ID returns sessions of every roster.
func (s *Store) RecentSessions(rosterID string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, roster_id, username, detections, duration_secs, created_at
		 FROM training_sessions
		 WHERE ? = '' OR roster_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		rosterID, rosterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return sessions, nil
}

// GetRosterStats retrieves aggregated statistics for a specific roster.
func (s *Store) GetRosterStats(rosterID string) (*RosterStats, error) {
	stats := &RosterStats{RosterID: rosterID}

	var last any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COUNT(DISTINCT move), MAX(created_at)
		 FROM detections WHERE roster_id = ?`,
		rosterID,
	).Scan(&stats.Detections, &stats.Distinct, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get roster stats: %w", err)
	}
	stats.LastPlayed = parseTime(last)

	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM training_sessions WHERE roster_id = ?`,
		rosterID,
	).Scan(&stats.Sessions)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count sessions: %w", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(r rowScanner) (Session, error) {
	var sess Session
	var createdAt any
	err := r.Scan(
		&sess.ID,
		&sess.SessionID,
		&sess.RosterID,
		&sess.User,
		&sess.Detections,
		&sess.Duration,
		&createdAt,
	)
	if err != nil {
		return Session{}, err
	}
	sess.CreatedAt = parseTime(createdAt)
	return sess, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
