package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"fmt"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence in the session snapshot.
type Role string

const (
	RoleWorker         Role = "WORKER"
	RoleKitchenManager Role = "KITCHEN_MANAGER"
	RoleAdmin          Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleWorker, RoleKitchenManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// Provider identifies where a session's identity came from.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderZalo   Provider = "zalo"
	ProviderManual Provider = "manual"
)

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGoogle, ProviderZalo, ProviderManual:
		return true
	default:
		return false
	}
}

// Social reports whether p is an external identity provider.
func (p Provider) Social() bool {
	return p == ProviderGoogle || p == ProviderZalo
}

// Label is the human form used in default display names.
func (p Provider) Label() string {
	switch p {
	case ProviderGoogle:
		return "Google"
	case ProviderZalo:
		return "Zalo"
	case ProviderManual:
		return "Manual"
	default:
		return string(p)
	}
}

// ParseProvider converts a path segment into a social Provider.
func ParseProvider(s string) (Provider, error) {
	p := Provider(s)
	if !p.Social() {
		return "", fmt.Errorf("unknown provider %q", s)
	}
	return p, nil
}

// Profile is the normalized identity a provider hands back to the client.
// Every field is optional on the wire.
type Profile struct {
	ID      string `json:"id,omitempty"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Handoff tags a profile with the provider that produced it.
type Handoff struct {
	Provider Provider
	Profile  Profile
}

// Session is the canonical record of the currently authenticated identity.
type Session struct {
	SubjectID        string   `json:"subjectId"`
	DisplayName      string   `json:"displayName"`
	AvatarURL        string   `json:"avatarUrl"`
	EmailAddress     string   `json:"emailAddress,omitempty"`
	Provider         Provider `json:"provider"`
	Role             Role     `json:"role"`
	ManagedKitchenID string   `json:"managedKitchenId,omitempty"`
}

var (
	ErrMissingSubject     = errors.New("session subject id is required")
	ErrMissingDisplayName = errors.New("session display name is required")
	ErrUnknownProvider    = errors.New("session provider is unknown")
	ErrUnknownRole        = errors.New("session role is unknown")
	ErrElevatedSocialRole = errors.New("social login sessions must have the WORKER role")
	ErrUnexpectedKitchen  = errors.New("managed kitchen is only valid for kitchen managers")
)

// Validate reports whether the session is structurally valid.
func (s Session) Validate() error {
	switch {
	case s.SubjectID == "":
		return ErrMissingSubject
	case s.DisplayName == "":
		return ErrMissingDisplayName
	case !s.Provider.Valid():
		return ErrUnknownProvider
	case !s.Role.Valid():
		return ErrUnknownRole
	case s.Provider.Social() && s.Role != RoleWorker:
		return ErrElevatedSocialRole
	case s.ManagedKitchenID != "" && s.Role != RoleKitchenManager:
		return ErrUnexpectedKitchen
	}
	return nil
}
