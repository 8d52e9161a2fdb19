package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/olive/canteen/internal/domain/auth"
)

// Stage names the part of the login flow a provider is asked to serve.
type Stage int

const (
	// StageBegin needs only the public client identifier.
	StageBegin Stage = iota
	// StageExchange needs the client identifier and secret.
	StageExchange
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	State    string
	Verifier string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code     string
	Verifier string
}

// IdentityProvider runs one provider's authorization-code flow.
type IdentityProvider interface {
	// Name identifies the provider in routes and handoff payloads.
	Name() domainauth.Provider

	// CheckCredentials reports a configuration error when the settings needed for stage are missing.
	CheckCredentials(stage Stage) error

	// Begin returns the provider authorization URL.
	Begin(ctx context.Context, in BeginInput) (string, error)

	// Exchange trades the code for an access token and fetches the normalized profile.
	// The token is not retained.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Profile, error)
}

// PendingLogin is what the server remembers between login initiation and callback.
type PendingLogin struct {
	Provider  domainauth.Provider `json:"provider"`
	Verifier  string              `json:"verifier"`
	CreatedAt time.Time           `json:"created_at"`
}

// ErrPendingLoginNotFound is returned when a state is unknown, expired or already used.
var ErrPendingLoginNotFound = errors.New("pending login not found")

// PendingLoginStore keeps pending logins keyed by their state value. Take is single-use.
type PendingLoginStore interface {
	Put(ctx context.Context, state string, p PendingLogin, ttl time.Duration) error
	Take(ctx context.Context, state string) (PendingLogin, error)
}

// SnapshotMirror persists the serialized session snapshot.
type SnapshotMirror interface {
	// Load returns the stored snapshot and whether one exists.
	Load() ([]byte, bool, error)
	Save(data []byte) error
	// Delete removes the snapshot. Deleting a missing snapshot is not an error.
	Delete() error
}

// Credential is one row of the static manual-login table.
type Credential struct {
	Username         string          `yaml:"username"`
	PasswordHash     string          `yaml:"password_hash"`
	SubjectID        string          `yaml:"id"`
	DisplayName      string          `yaml:"name"`
	AvatarURL        string          `yaml:"avatar,omitempty"`
	Role             domainauth.Role `yaml:"role"`
	ManagedKitchenID string          `yaml:"managed_kitchen_id,omitempty"`
}

// CredentialStore looks up manual-login rows by username.
type CredentialStore interface {
	Lookup(ctx context.Context, username string) (Credential, bool, error)
}
