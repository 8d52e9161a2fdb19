package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth talks to the real Google and Zalo endpoints.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock serves both providers locally (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// StateStore selects where pending logins live between begin and callback.
type StateStore string

const (
	StateStoreMemory StateStore = "memory"
	StateStoreRedis  StateStore = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for StateStore.
func (s *StateStore) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "memory", "redis":
		*s = StateStore(v)
		return nil
	default:
		return fmt.Errorf("invalid StateStore: %q (valid options: memory, redis)", v)
	}
}

const (
	defaultLandingPath     = "/cs"
	defaultProviderTimeout = 10 * time.Second
	defaultStateTTL        = 10 * time.Minute
	maxStateTTL            = time.Hour
	minSessionSecretBytes  = 32
)

// GoogleConfig is the Google OAuth client registration.
type GoogleConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URI"  envDefault:"http://localhost:8080/api/auth/google/callback"`
}

// ZaloConfig is the Zalo app registration.
type ZaloConfig struct {
	AppID       string `env:"APP_ID"`
	AppSecret   string `env:"APP_SECRET"`
	RedirectURL string `env:"REDIRECT_URI" envDefault:"http://localhost:8080/api/auth/zalo/callback"`
}

// DevAuthConfig is the profile returned by the mock providers.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID  string `env:"USER_ID" envDefault:"dev-user"`
	Name    string `env:"NAME"    envDefault:"Dev Worker"`
	Email   string `env:"EMAIL"   envDefault:"dev@example.com"`
	Picture string `env:"PICTURE"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which identity provider implementation is used.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	Google  GoogleConfig  `envPrefix:"GOOGLE_"`
	Zalo    ZaloConfig    `envPrefix:"ZALO_"`
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// LandingPath is the client route that receives the handoff after a social login.
	LandingPath string `env:"AUTH_LANDING_PATH" envDefault:"/cs"`

	// ProviderTimeout bounds every token exchange and profile fetch.
	ProviderTimeout time.Duration `env:"AUTH_PROVIDER_TIMEOUT" envDefault:"10s"`

	StateStore StateStore    `env:"AUTH_STATE_STORE" envDefault:"memory"`
	StateTTL   time.Duration `env:"AUTH_STATE_TTL"   envDefault:"10m"`

	// SessionSecret signs the olive_user and oauth_state cookies.
	// Empty is only allowed in dev, where a random per-process key is used.
	SessionSecret string `env:"SESSION_SECRET"`
	// SessionEncryptionKey optionally encrypts the cookies (16, 24 or 32 bytes).
	SessionEncryptionKey string `env:"SESSION_ENCRYPTION_KEY"`

	// CredentialsFile is the YAML table of manual-login accounts.
	CredentialsFile string `env:"CREDENTIALS_FILE"`
	// SeedDevCredentials adds the demo accounts to the table. Dev mode only.
	SeedDevCredentials bool `env:"CREDENTIALS_SEED_DEV" envDefault:"false"`
}

// Sanitize normalises auth values and restores defaults for out-of-range durations.
func (a *AuthConfig) Sanitize() {
	a.Google.ClientID = strings.TrimSpace(a.Google.ClientID)
	a.Google.ClientSecret = strings.TrimSpace(a.Google.ClientSecret)
	a.Google.RedirectURL = strings.TrimSpace(a.Google.RedirectURL)
	a.Zalo.AppID = strings.TrimSpace(a.Zalo.AppID)
	a.Zalo.AppSecret = strings.TrimSpace(a.Zalo.AppSecret)
	a.Zalo.RedirectURL = strings.TrimSpace(a.Zalo.RedirectURL)
	a.CredentialsFile = strings.TrimSpace(a.CredentialsFile)

	if a.Mode == "" {
		a.Mode = AuthModeOAuth
	}
	if a.StateStore == "" {
		a.StateStore = StateStoreMemory
	}

	a.LandingPath = strings.TrimSpace(a.LandingPath)
	if a.LandingPath == "" {
		a.LandingPath = defaultLandingPath
	}
	if !strings.HasPrefix(a.LandingPath, "/") {
		a.LandingPath = "/" + a.LandingPath
	}

	if a.ProviderTimeout <= 0 {
		a.ProviderTimeout = defaultProviderTimeout
	}
	if a.StateTTL <= 0 {
		a.StateTTL = defaultStateTTL
	}
	if a.StateTTL > maxStateTTL {
		a.StateTTL = maxStateTTL
	}
}

// Validate checks cookie key material. Missing provider credentials are not an
// error here; they are reported per request so one provider can run without the other.
func (a *AuthConfig) Validate(isDev bool) error {
	var errs []error
	if a.SessionSecret == "" && !isDev {
		errs = append(errs, errors.New("SESSION_SECRET is required outside dev mode"))
	}
	if a.SessionSecret != "" && len(a.SessionSecret) < minSessionSecretBytes {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretBytes))
	}
	switch len(a.SessionEncryptionKey) {
	case 0, 16, 24, 32:
	default:
		errs = append(errs, errors.New("SESSION_ENCRYPTION_KEY must be 16, 24 or 32 bytes"))
	}
	if a.Mode == AuthModeMock && !isDev {
		errs = append(errs, errors.New("AUTH_MODE=mock is only allowed in dev mode"))
	}
	if a.SeedDevCredentials && !isDev {
		errs = append(errs, errors.New("CREDENTIALS_SEED_DEV is only allowed in dev mode"))
	}
	return errors.Join(errs...)
}
