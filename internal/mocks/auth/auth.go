package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	domainauth "github.com/olive/canteen/internal/domain/auth"
	"github.com/olive/canteen/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*MockIdentityProvider)(nil)
	_ ports.SnapshotMirror   = (*MemoryMirror)(nil)
	_ ports.CredentialStore  = (*StaticCredentials)(nil)
)

// MockIdentityProvider simulates a social provider with deterministic URLs and profiles.
type MockIdentityProvider struct {
	Provider     domainauth.Provider
	AuthURL      string
	Profile      domainauth.Profile
	CheckFunc    func(stage ports.Stage) error
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Profile, error)

	mu        sync.Mutex
	exchanges []ports.ExchangeInput
}

// NewMockIdentityProvider creates a MockIdentityProvider with sensible defaults.
func NewMockIdentityProvider(p domainauth.Provider) *MockIdentityProvider {
	return &MockIdentityProvider{
		Provider: p,
		AuthURL:  fmt.Sprintf("https://mock-%s/authorize", p),
		Profile: domainauth.Profile{
			ID:      "mock-" + string(p) + "-1",
			Name:    "Mock User",
			Picture: "https://mock/avatar.png",
		},
	}
}

func (m *MockIdentityProvider) Name() domainauth.Provider { return m.Provider }

func (m *MockIdentityProvider) CheckCredentials(stage ports.Stage) error {
	if m.CheckFunc != nil {
		return m.CheckFunc(stage)
	}
	return nil
}

func (m *MockIdentityProvider) Begin(_ context.Context, in ports.BeginInput) (string, error) {
	u, err := url.Parse(m.AuthURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("state", in.State)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (m *MockIdentityProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Profile, error) {
	m.mu.Lock()
	m.exchanges = append(m.exchanges, in)
	m.mu.Unlock()

	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	return m.Profile, nil
}

// Exchanges returns the inputs seen by Exchange, oldest first.
func (m *MockIdentityProvider) Exchanges() []ports.ExchangeInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.ExchangeInput, len(m.exchanges))
	copy(out, m.exchanges)
	return out
}

// MemoryMirror is an in-memory snapshot mirror for unit tests.
type MemoryMirror struct {
	mu      sync.Mutex
	data    []byte
	present bool

	// LoadErr and SaveErr, when set, are returned from Load and Save.
	LoadErr error
	SaveErr error
	Deletes int
}

// NewMemoryMirror creates a mirror, optionally preloaded with a raw snapshot.
func NewMemoryMirror(snapshot ...string) *MemoryMirror {
	m := &MemoryMirror{}
	if len(snapshot) > 0 {
		m.data = []byte(snapshot[0])
		m.present = true
	}
	return m
}

func (m *MemoryMirror) Load() ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, false, m.LoadErr
	}
	if !m.present {
		return nil, false, nil
	}
	return append([]byte(nil), m.data...), true, nil
}

func (m *MemoryMirror) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = append([]byte(nil), data...)
	m.present = true
	return nil
}

func (m *MemoryMirror) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.present = false
	m.Deletes++
	return nil
}

// Raw returns the stored snapshot and whether one exists.
func (m *MemoryMirror) Raw() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.data), m.present
}

// StaticCredentials is a fixed credential table keyed by username.
type StaticCredentials map[string]ports.Credential

func (s StaticCredentials) Lookup(_ context.Context, username string) (ports.Credential, bool, error) {
	if username == "" {
		return ports.Credential{}, false, nil
	}
	c, ok := s[username]
	return c, ok, nil
}

// ErrUnavailable simulates a backing store outage.
var ErrUnavailable = errors.New("store unavailable")
