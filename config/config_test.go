package config

import (
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "MOCK")
	t.Setenv("GOOGLE_CLIENT_ID", "g-client")
	t.Setenv("GOOGLE_CLIENT_SECRET", "g-secret")
	t.Setenv("GOOGLE_REDIRECT_URI", "https://canteen.example.com/api/auth/google/callback")
	t.Setenv("ZALO_APP_ID", "z-app")
	t.Setenv("ZALO_APP_SECRET", "z-secret")
	t.Setenv("ZALO_REDIRECT_URI", "https://canteen.example.com/api/auth/zalo/callback")
	t.Setenv("DEV_AUTH_USER_ID", "dev-1")
	t.Setenv("DEV_AUTH_NAME", "Nguyễn Văn A")
	t.Setenv("DEV_AUTH_EMAIL", "a@example.com")
	t.Setenv("DEV_AUTH_PICTURE", "")
	t.Setenv("AUTH_LANDING_PATH", "/cs")
	t.Setenv("AUTH_PROVIDER_TIMEOUT", "5s")
	t.Setenv("AUTH_STATE_STORE", "redis")
	t.Setenv("AUTH_STATE_TTL", "2m")
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("SESSION_ENCRYPTION_KEY", "")
	t.Setenv("CREDENTIALS_FILE", "/etc/olive/users.yaml")
	t.Setenv("CREDENTIALS_SEED_DEV", "true")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeMock,
		Google: GoogleConfig{
			ClientID:     "g-client",
			ClientSecret: "g-secret",
			RedirectURL:  "https://canteen.example.com/api/auth/google/callback",
		},
		Zalo: ZaloConfig{
			AppID:       "z-app",
			AppSecret:   "z-secret",
			RedirectURL: "https://canteen.example.com/api/auth/zalo/callback",
		},
		DevAuth: DevAuthConfig{
			UserID: "dev-1",
			Name:   "Nguyễn Văn A",
			Email:  "a@example.com",
		},
		LandingPath:        "/cs",
		ProviderTimeout:    5 * time.Second,
		StateStore:         StateStoreRedis,
		StateTTL:           2 * time.Minute,
		SessionSecret:      "s",
		CredentialsFile:    "/etc/olive/users.yaml",
		SeedDevCredentials: true,
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_ParseRejectsUnknownModes(t *testing.T) {
	t.Setenv("AUTH_MODE", "saml")
	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Fatalf("expected AUTH_MODE=saml to be rejected")
	}

	t.Setenv("AUTH_MODE", "oauth")
	t.Setenv("AUTH_STATE_STORE", "memcached")
	if err := env.Parse(&cfg); err == nil {
		t.Fatalf("expected AUTH_STATE_STORE=memcached to be rejected")
	}
}

func TestAuthConfig_Sanitize(t *testing.T) {
	cfg := AuthConfig{
		Google:          GoogleConfig{ClientID: "  id  "},
		LandingPath:     "kitchen",
		ProviderTimeout: -1,
		StateTTL:        48 * time.Hour,
	}

	cfg.Sanitize()

	if cfg.Google.ClientID != "id" {
		t.Errorf("expected client id to be trimmed, got %q", cfg.Google.ClientID)
	}
	if cfg.LandingPath != "/kitchen" {
		t.Errorf("expected landing path to gain a leading slash, got %q", cfg.LandingPath)
	}
	if cfg.ProviderTimeout != defaultProviderTimeout {
		t.Errorf("expected default provider timeout, got %v", cfg.ProviderTimeout)
	}
	if cfg.StateTTL != maxStateTTL {
		t.Errorf("expected state ttl to be clamped, got %v", cfg.StateTTL)
	}
	if cfg.Mode != AuthModeOAuth || cfg.StateStore != StateStoreMemory {
		t.Errorf("expected defaults for mode and store, got %q/%q", cfg.Mode, cfg.StateStore)
	}

	empty := AuthConfig{}
	empty.Sanitize()
	if empty.LandingPath != defaultLandingPath {
		t.Errorf("expected default landing path, got %q", empty.LandingPath)
	}
}

func TestAuthConfig_Validate(t *testing.T) {
	secret := strings.Repeat("k", minSessionSecretBytes)

	tests := []struct {
		name    string
		cfg     AuthConfig
		isDev   bool
		wantErr string
	}{
		{name: "prod with secret", cfg: AuthConfig{Mode: AuthModeOAuth, SessionSecret: secret}},
		{name: "dev without secret", cfg: AuthConfig{Mode: AuthModeMock}, isDev: true},
		{name: "prod without secret", cfg: AuthConfig{Mode: AuthModeOAuth}, wantErr: "SESSION_SECRET is required"},
		{name: "short secret", cfg: AuthConfig{SessionSecret: "short"}, isDev: true, wantErr: "at least"},
		{
			name:    "bad encryption key",
			cfg:     AuthConfig{SessionSecret: secret, SessionEncryptionKey: "abc"},
			wantErr: "SESSION_ENCRYPTION_KEY",
		},
		{
			name:    "mock outside dev",
			cfg:     AuthConfig{Mode: AuthModeMock, SessionSecret: secret},
			wantErr: "AUTH_MODE=mock",
		},
		{
			name:    "demo accounts outside dev",
			cfg:     AuthConfig{SessionSecret: secret, SeedDevCredentials: true},
			wantErr: "CREDENTIALS_SEED_DEV",
		},
		{name: "demo accounts in dev", cfg: AuthConfig{SeedDevCredentials: true}, isDev: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(tt.isDev)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestHTTPConfig_ValidateCookieDomain(t *testing.T) {
	tests := []struct {
		domain  string
		wantErr bool
	}{
		{domain: ""},
		{domain: "canteen.example.com"},
		{domain: ".example.com"},
		{domain: "com", wantErr: true},
		{domain: ".co.uk", wantErr: true},
		{domain: ".", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			cfg := HTTPConfig{CookieDomain: tt.domain}
			cfg.Sanitize()
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%q) error = %v, wantErr %v", tt.domain, err, tt.wantErr)
			}
		})
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{BaseURL: " https://canteen.example.com/ ", CookieDomain: " Example.COM "}
	cfg.Sanitize()

	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.BaseURL != "https://canteen.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.CookieDomain != "example.com" {
		t.Errorf("expected lowercased domain, got %q", cfg.CookieDomain)
	}
	if cfg.ShutdownTimeout != 10*time.Second || cfg.ReadHeaderTimeout != 10*time.Second {
		t.Errorf("expected default timeouts, got %v/%v", cfg.ReadHeaderTimeout, cfg.ShutdownTimeout)
	}
}

func TestAppConfig_ValidateRedisStore(t *testing.T) {
	cfg := AppConfig{
		IsDev: true,
		Auth:  AuthConfig{Mode: AuthModeMock, StateStore: StateStoreRedis},
		Redis: RedisConfig{UseCluster: true, ClusterNodes: []string{" ", ""}},
	}
	cfg.Sanitize()

	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "AUTH_STATE_STORE=redis") {
		t.Fatalf("expected redis validation error, got %v", err)
	}

	cfg.Redis.ClusterNodes = []string{"redis-1:6379"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAppConfig_DetectDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "Development")
	cfg := AppConfig{}
	cfg.Sanitize()
	if !cfg.IsDev {
		t.Fatalf("expected NODE_ENV=development to enable dev mode")
	}
}

func TestAppConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := AppConfig{LogLevel: in}
		cfg.Sanitize()
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMetricsConfig_Sanitize(t *testing.T) {
	cfg := MetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}
	if cfg.Prefix != defaultMetricsPrefix {
		t.Fatalf("expected default prefix, got %q", cfg.Prefix)
	}

	cfg = MetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
}

func TestMetricsConfig_ParseTags(t *testing.T) {
	t.Setenv("STATSD_TAGS", "env:prod,site:hn")
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	want := map[string]string{"env": "prod", "site": "hn"}
	if !reflect.DeepEqual(cfg.Observability.Metrics.Tags, want) {
		t.Fatalf("tags = %#v, want %#v", cfg.Observability.Metrics.Tags, want)
	}
}
