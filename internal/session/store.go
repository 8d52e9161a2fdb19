// Package session holds the single current identity and turns provider or
// credential input into canonical session records.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	domainauth "github.com/olive/canteen/internal/domain/auth"
	"github.com/olive/canteen/internal/ports"
)

// SnapshotKey is the name under which mirrors store the serialized session.
const SnapshotKey = "olive_user"

// Store holds at most one Session and keeps a persisted mirror in step with it.
type Store struct {
	mirror ports.SnapshotMirror
	logger *slog.Logger

	mu      sync.RWMutex
	current *domainauth.Session
	once    sync.Once
}

// StoreOptions groups dependencies for NewStore.
type StoreOptions struct {
	Mirror ports.SnapshotMirror
	Logger *slog.Logger
}

// NewStore creates an empty store. Call Bootstrap to restore a persisted snapshot.
func NewStore(opts StoreOptions) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{mirror: opts.Mirror, logger: logger.With("component", "session_store")}
}

// Get returns the current session, if any.
func (s *Store) Get() (domainauth.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domainauth.Session{}, false
	}
	return *s.current, true
}

// Set writes the mirror and then replaces the current session. Last write wins.
// When the mirror write fails the previous session is kept.
func (s *Store) Set(sess domainauth.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mirror != nil {
		if err := s.mirror.Save(data); err != nil {
			return fmt.Errorf("save session snapshot: %w", err)
		}
	}
	s.current = &sess
	return nil
}

// Clear drops the current session and deletes the mirror. Clearing an empty store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	if s.mirror == nil {
		return nil
	}
	if err := s.mirror.Delete(); err != nil {
		return fmt.Errorf("delete session snapshot: %w", err)
	}
	return nil
}

// Bootstrap restores the mirrored snapshot. Only the first call does any work.
// A snapshot that does not decode into a valid session is deleted and the store stays empty.
func (s *Store) Bootstrap() {
	s.once.Do(s.restore)
}

func (s *Store) restore() {
	if s.mirror == nil {
		return
	}

	data, ok, err := s.mirror.Load()
	if err != nil {
		s.logger.Debug("session snapshot unreadable", "error", err)
		return
	}
	if !ok {
		return
	}

	sess, err := decodeSnapshot(data)
	if err != nil {
		s.logger.Debug("discarding session snapshot", "error", err)
		if delErr := s.mirror.Delete(); delErr != nil {
			s.logger.Debug("delete session snapshot", "error", delErr)
		}
		return
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
}

func decodeSnapshot(data []byte) (domainauth.Session, error) {
	var sess domainauth.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := sess.Validate(); err != nil {
		return domainauth.Session{}, err
	}
	return sess, nil
}
