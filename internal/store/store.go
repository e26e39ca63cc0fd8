// Package store owns the application state: the ordered session collection,
// the active session id, and the ephemeral active lead set. Sessions are
// persisted to SQLite as a single JSON snapshot that is rewritten on every
// mutation, so the on-disk state is always one consistent unit.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"vantage/internal/types"
)

// DefaultSessionName is the session seeded at first launch.
const DefaultSessionName = "Initial Prospecting"

// snapshot is the persisted shape. The lead set is deliberately absent:
// leads are ephemeral and never survive a restart. The active id is carried
// so scripted invocations keep operating on the chosen session; when it no
// longer resolves the store falls back to the first session.
type snapshot struct {
	Sessions []types.ChatSession `json:"sessions"`
	ActiveID string              `json:"activeId,omitempty"`
}

// Store is the single owner of mutable application state. All methods are
// safe for concurrent use; the read-modify-write of the session collection
// is a critical section guarded by the mutex.
type Store struct {
	mu          sync.Mutex
	db          *sql.DB
	log         *zap.Logger
	sessions    []types.ChatSession
	activeID    string
	activeLeads []types.Lead
}

// Open loads the store from the SQLite database at path, creating it when
// absent. Use ":memory:" for an unpersisted store. A corrupt snapshot is not
// fatal: the store falls back to a fresh default session and logs a warning.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize session database: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.load(); err != nil {
		s.log.Warn("session snapshot unreadable, starting fresh", zap.Error(err))
		s.sessions = nil
		s.activeID = ""
	}

	if len(s.sessions) == 0 {
		s.sessions = []types.ChatSession{{
			ID:        uuid.NewString(),
			Name:      DefaultSessionName,
			CreatedAt: time.Now(),
		}}
		if err := s.persist(); err != nil {
			db.Close()
			return nil, err
		}
	}
	if !s.resolvesLocked(s.activeID) {
		s.activeID = s.sessions[0].ID
	}

	return s, nil
}

// resolvesLocked reports whether id names a known session.
func (s *Store) resolvesLocked(id string) bool {
	for _, sess := range s.sessions {
		if sess.ID == id {
			return true
		}
	}
	return false
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// load reads the snapshot row if present. Missing row is not an error.
func (s *Store) load() error {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM snapshot WHERE id = 1").Scan(&payload)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return fmt.Errorf("failed to decode session snapshot: %w", err)
	}
	s.sessions = snap.Sessions
	s.activeID = snap.ActiveID
	return nil
}

// persist rewrites the whole snapshot. Callers must hold the mutex.
func (s *Store) persist() error {
	payload, err := json.Marshal(snapshot{Sessions: s.sessions, ActiveID: s.activeID})
	if err != nil {
		return fmt.Errorf("failed to encode session snapshot: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO snapshot (id, payload, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)",
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to write session snapshot: %w", err)
	}
	return nil
}

// Sessions returns a copy of all sessions, newest-created first (new
// sessions are prepended at creation).
func (s *Store) Sessions() []types.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ChatSession, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Active returns the active session, falling back to the first session when
// the active id no longer resolves.
func (s *Store) Active() types.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked()
}

func (s *Store) activeLocked() types.ChatSession {
	for _, sess := range s.sessions {
		if sess.ID == s.activeID {
			return sess
		}
	}
	return s.sessions[0]
}

// NewSession creates a session, prepends it to the collection, makes it
// active and clears the active lead set. An empty name yields the
// "Market Analysis N" default.
func (s *Store) NewSession(name string) (types.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		name = fmt.Sprintf("Market Analysis %d", len(s.sessions)+1)
	}
	sess := types.ChatSession{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	s.sessions = append([]types.ChatSession{sess}, s.sessions...)
	s.activeID = sess.ID
	s.activeLeads = nil

	s.log.Info("session created", zap.String("id", sess.ID), zap.String("name", sess.Name))
	return sess, s.persist()
}

// Select makes the session with the given id active and clears the active
// lead set. Selecting an unknown id is a no-op.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.resolvesLocked(id) {
		s.log.Debug("select ignored for unknown session", zap.String("id", id))
		return
	}
	s.activeID = id
	s.activeLeads = nil
	if err := s.persist(); err != nil {
		s.log.Error("failed to persist session selection", zap.Error(err))
	}
}

// Append appends a message to the session with the given id and persists the
// snapshot. An unknown id leaves the store unchanged without error.
func (s *Store) Append(sessionID string, msg types.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sessions {
		if s.sessions[i].ID == sessionID {
			s.sessions[i].Messages = append(s.sessions[i].Messages, msg)
			return s.persist()
		}
	}
	s.log.Debug("append ignored for unknown session", zap.String("id", sessionID))
	return nil
}

// ActiveLeads returns a copy of the active lead set.
func (s *Store) ActiveLeads() []types.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Lead, len(s.activeLeads))
	copy(out, s.activeLeads)
	return out
}

// SetActiveLeads replaces the active lead set wholesale. Prior results are
// not merged or deduplicated.
func (s *Store) SetActiveLeads(leads []types.Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeLeads = make([]types.Lead, len(leads))
	copy(s.activeLeads, leads)
}
