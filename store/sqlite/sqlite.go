/*
Package sqlite provides the SQLite-backed implementations of the
storage ports.

PURPOSE:
  One database file holds both the serialized vacation collection
  (store.KV port) and the work-session records (worksession.Store).
  The same patterns would apply to PostgreSQL with only dialect
  differences.

KEY TABLES:
  kv:             Serialized collections keyed by a fixed name
  work_sessions:  Clock-in/out records with a JSON break list

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  st, err := sqlite.New("./chronos.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - store/store.go: KV port definition
  - worksession/types.go: session store definition
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/chronos/hr-engine/store"
	"github.com/chronos/hr-engine/worksession"
)

// Store implements store.KV and worksession.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Serialized collections (vacation requests live here)
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Work sessions (clock-in/out records corrections amend)
	CREATE TABLE IF NOT EXISTS work_sessions (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		clock_in TEXT NOT NULL,
		clock_out TEXT,
		breaks_json TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_employee
		ON work_sessions(employee_id, clock_in DESC);

	-- An employee has at most one open session
	CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_open
		ON work_sessions(employee_id) WHERE clock_out IS NULL;
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// KV STORE (store.KV interface)
// =============================================================================

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return []byte(value), nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// =============================================================================
// WORK SESSION STORE (worksession.Store interface)
// =============================================================================

func (s *Store) SaveSession(ctx context.Context, session worksession.WorkSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	breaksJSON, err := json.Marshal(session.Breaks)
	if err != nil {
		return fmt.Errorf("failed to serialize breaks: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO work_sessions (id, employee_id, clock_in, clock_out, breaks_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			clock_out = excluded.clock_out,
			breaks_json = excluded.breaks_json`,
		session.ID,
		session.EmployeeID,
		session.ClockIn.UTC().Format(time.RFC3339),
		nullTime(session.ClockOut),
		string(breaksJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (*worksession.WorkSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, clock_in, clock_out, breaks_json
		FROM work_sessions WHERE id = ?`, id)
	return scanSession(row)
}

func (s *Store) OpenSession(ctx context.Context, employeeID string) (*worksession.WorkSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, clock_in, clock_out, breaks_json
		FROM work_sessions WHERE employee_id = ? AND clock_out IS NULL`, employeeID)
	return scanSession(row)
}

func (s *Store) ListOpenSessions(ctx context.Context) ([]*worksession.WorkSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, clock_in, clock_out, breaks_json
		FROM work_sessions WHERE clock_out IS NULL ORDER BY clock_in`)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (s *Store) ListSessions(ctx context.Context, employeeID string) ([]*worksession.WorkSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, clock_in, clock_out, breaks_json
		FROM work_sessions WHERE employee_id = ? ORDER BY clock_in DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*worksession.WorkSession, error) {
	var (
		session    worksession.WorkSession
		clockIn    string
		clockOut   sql.NullString
		breaksJSON string
	)
	err := row.Scan(&session.ID, &session.EmployeeID, &clockIn, &clockOut, &breaksJSON)
	if err == sql.ErrNoRows {
		return nil, worksession.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	if session.ClockIn, err = time.Parse(time.RFC3339, clockIn); err != nil {
		return nil, fmt.Errorf("invalid clock_in: %w", err)
	}
	if clockOut.Valid {
		t, err := time.Parse(time.RFC3339, clockOut.String)
		if err != nil {
			return nil, fmt.Errorf("invalid clock_out: %w", err)
		}
		session.ClockOut = &t
	}
	if err := json.Unmarshal([]byte(breaksJSON), &session.Breaks); err != nil {
		return nil, fmt.Errorf("invalid breaks: %w", err)
	}
	return &session, nil
}

func scanSessions(rows *sql.Rows) ([]*worksession.WorkSession, error) {
	var out []*worksession.WorkSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	return out, rows.Err()
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
