package redis

// Package redis provides Redis-based adapters for the canteen portal.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/olive/canteen/internal/ports"
	"github.com/redis/go-redis/v9"
)

// PendingLoginStore keeps pending OAuth logins in Redis so any instance can
// serve the callback. Take uses GETDEL, so a state is consumed exactly once.
type PendingLoginStore struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.PendingLoginStore = (*PendingLoginStore)(nil)

// NewPendingLoginStore creates a new Redis-based pending-login store.
func NewPendingLoginStore(client redis.UniversalClient) *PendingLoginStore {
	return NewPendingLoginStoreWithPrefix(client, "olive:oauth_state:")
}

// NewPendingLoginStoreWithPrefix creates a store with a custom key prefix.
func NewPendingLoginStoreWithPrefix(client redis.UniversalClient, prefix string) *PendingLoginStore {
	return &PendingLoginStore{
		client: client,
		prefix: prefix,
	}
}

func (s *PendingLoginStore) Put(ctx context.Context, state string, p ports.PendingLogin, ttl time.Duration) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pending login: %w", err)
	}

	return s.client.Set(ctx, s.prefix+state, data, ttl).Err()
}

func (s *PendingLoginStore) Take(ctx context.Context, state string) (ports.PendingLogin, error) {
	if state == "" {
		return ports.PendingLogin{}, ports.ErrPendingLoginNotFound
	}

	data, err := s.client.GetDel(ctx, s.prefix+state).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.PendingLogin{}, ports.ErrPendingLoginNotFound
		}
		return ports.PendingLogin{}, fmt.Errorf("redis getdel: %w", err)
	}

	var p ports.PendingLogin
	if err := json.Unmarshal(data, &p); err != nil {
		return ports.PendingLogin{}, fmt.Errorf("unmarshal pending login: %w", err)
	}
	return p, nil
}
