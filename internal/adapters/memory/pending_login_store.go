package memory

// Package memory provides in-process adapters for single-instance deployments and tests.

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/olive/canteen/internal/ports"
)

type entry struct {
	login     ports.PendingLogin
	expiresAt time.Time
}

// PendingLoginStore is a mutex-guarded map of pending logins. Expired entries
// are swept on every Put so the map stays bounded by the login rate.
type PendingLoginStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

var _ ports.PendingLoginStore = (*PendingLoginStore)(nil)

// NewPendingLoginStore creates an empty store. now defaults to time.Now.
func NewPendingLoginStore(now func() time.Time) *PendingLoginStore {
	if now == nil {
		now = time.Now
	}
	return &PendingLoginStore{entries: make(map[string]entry), now: now}
}

func (s *PendingLoginStore) Put(_ context.Context, state string, p ports.PendingLogin, ttl time.Duration) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[state] = entry{login: p, expiresAt: now.Add(ttl)}
	return nil
}

func (s *PendingLoginStore) Take(_ context.Context, state string) (ports.PendingLogin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[state]
	if !ok {
		return ports.PendingLogin{}, ports.ErrPendingLoginNotFound
	}
	delete(s.entries, state)
	if !s.now().Before(e.expiresAt) {
		return ports.PendingLogin{}, ports.ErrPendingLoginNotFound
	}
	return e.login, nil
}

// Len reports the number of stored entries, expired ones included.
func (s *PendingLoginStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
