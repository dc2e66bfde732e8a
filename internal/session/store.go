// Package session holds the in-memory session state: one uploaded Working
// Table per session, mutated wholesale by cleaning operations and discarded
// when the session expires or is deleted.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"cleansheet/internal/table"
)

// ErrNotFound is returned when a session id is unknown or expired
var ErrNotFound = errors.New("session not found")

// Session owns one uploaded table for the duration of a cleaning workflow.
// Original preserves the upload so the working table can be reset.
type Session struct {
	ID         string
	Filename   string
	Original   *table.Table
	Working    *table.Table
	CreatedAt  time.Time
	AccessedAt time.Time
}

// snapshot copies the session. Taken under the store mutex so callers can
// read the fields without observing a concurrent Replace or Reset.
func (sess *Session) snapshot() *Session {
	c := *sess
	return &c
}

// Store is a TTL-bounded in-memory session store. All access is serialized
// by a single mutex, and every method hands out a snapshot copy of the
// session rather than the live struct: tables are immutable, so a snapshot
// taken under the lock stays consistent no matter what concurrent requests
// do to the stored session afterwards.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *slog.Logger
	done     chan struct{}
	closeOnce sync.Once
}

// NewStore creates a session store. When sweepInterval is positive a
// background sweeper evicts sessions idle longer than ttl; Close stops it.
func NewStore(ttl, sweepInterval time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger.With(slog.String("component", "session_store")),
		done:     make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.sweep(sweepInterval)
	}
	return s
}

// Create registers a new session around an uploaded table and returns a
// snapshot of it
func (s *Store) Create(filename string, tbl *table.Table) *Session {
	now := time.Now()
	sess := &Session{
		ID:         uuid.New().String(),
		Filename:   filename,
		Original:   tbl,
		Working:    tbl,
		CreatedAt:  now,
		AccessedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	count := len(s.sessions)
	snap := sess.snapshot()
	s.mu.Unlock()

	s.logger.Info("session created",
		slog.String("session_id", snap.ID),
		slog.String("filename", filename),
		slog.Int("rows", tbl.Nrow()),
		slog.Int("live_sessions", count))
	return snap
}

// Get returns a snapshot of the session for id, refreshing its access time
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.AccessedAt = time.Now()
	return sess.snapshot(), nil
}

// Replace swaps the session's working table wholesale and returns a snapshot
// of the updated session
func (s *Store) Replace(id string, tbl *table.Table) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.Working = tbl
	sess.AccessedAt = time.Now()
	return sess.snapshot(), nil
}

// Reset restores the working table to the original upload
func (s *Store) Reset(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.Working = sess.Original
	sess.AccessedAt = time.Now()
	return sess.snapshot(), nil
}

// Delete removes the session if present
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the background sweeper
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Store) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *Store) evictExpired() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	var expired []string
	for id, sess := range s.sessions {
		if sess.AccessedAt.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if len(expired) > 0 {
		s.logger.Info("expired sessions evicted", slog.Int("count", len(expired)))
	}
}
