package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gorilla/securecookie"
	"github.com/olive/canteen/config"
	"github.com/olive/canteen/internal/adapters/credentials"
	"github.com/olive/canteen/internal/adapters/devauth"
	"github.com/olive/canteen/internal/adapters/google"
	"github.com/olive/canteen/internal/adapters/memory"
	redisadapter "github.com/olive/canteen/internal/adapters/redis"
	"github.com/olive/canteen/internal/adapters/zalo"
	"github.com/olive/canteen/internal/devseed"
	domainauth "github.com/olive/canteen/internal/domain/auth"
	"github.com/olive/canteen/internal/ports"
)

const sessionKeyBytes = 32

// SessionKeys sign (and optionally encrypt) the olive_user and oauth_state cookies.
type SessionKeys struct {
	Hash  []byte
	Block []byte
	// Ephemeral is set when Hash was generated for this process only.
	Ephemeral bool
}

// BuildSessionKeys turns the configured secret into cookie keys. An empty
// secret yields a random key, so cookies do not survive a restart.
func BuildSessionKeys(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (SessionKeys, error) {
	keys := SessionKeys{Hash: []byte(cfg.SessionSecret)}
	if cfg.SessionEncryptionKey != "" {
		keys.Block = []byte(cfg.SessionEncryptionKey)
	}
	if len(keys.Hash) > 0 {
		return keys, nil
	}

	keys.Hash = securecookie.GenerateRandomKey(sessionKeyBytes)
	if keys.Hash == nil {
		return SessionKeys{}, errors.New("generate session key")
	}
	keys.Ephemeral = true
	if logger != nil {
		logger.WarnContext(ctx, "SESSION_SECRET not set; using a per-process key")
	}
	return keys, nil
}

// CallbackPath is the route a provider redirects back to.
func CallbackPath(p domainauth.Provider) string {
	return "/api/auth/" + string(p) + "/callback"
}

// BuildIdentityProviders returns Google and Zalo, served either by the real
// adapters or, in mock mode, by devauth.
func BuildIdentityProviders(cfg config.AuthConfig) ([]ports.IdentityProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		profile := domainauth.Profile{
			ID:      cfg.DevAuth.UserID,
			Name:    cfg.DevAuth.Name,
			Email:   cfg.DevAuth.Email,
			Picture: cfg.DevAuth.Picture,
		}
		out := make([]ports.IdentityProvider, 0, 2)
		for _, p := range []domainauth.Provider{domainauth.ProviderGoogle, domainauth.ProviderZalo} {
			prov, err := devauth.NewProvider(devauth.Config{
				Provider:     p,
				CallbackPath: CallbackPath(p),
				Profile:      profile,
			})
			if err != nil {
				return nil, fmt.Errorf("dev %s provider: %w", p, err)
			}
			out = append(out, prov)
		}
		return out, nil

	case config.AuthModeOAuth, "":
		return []ports.IdentityProvider{
			google.NewProvider(google.Config{
				ClientID:     cfg.Google.ClientID,
				ClientSecret: cfg.Google.ClientSecret,
				RedirectURL:  cfg.Google.RedirectURL,
				Timeout:      cfg.ProviderTimeout,
			}),
			zalo.NewProvider(zalo.Config{
				AppID:       cfg.Zalo.AppID,
				AppSecret:   cfg.Zalo.AppSecret,
				RedirectURL: cfg.Zalo.RedirectURL,
				Timeout:     cfg.ProviderTimeout,
			}),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}

// PendingLoginBackend is the configured store plus whatever must be closed with it.
type PendingLoginBackend struct {
	Store ports.PendingLoginStore
	Close func() error
}

// BuildPendingLoginStore selects the in-process or Redis pending-login store.
func BuildPendingLoginStore(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (PendingLoginBackend, error) {
	if cfg.Auth.StateStore != config.StateStoreRedis {
		return PendingLoginBackend{
			Store: memory.NewPendingLoginStore(nil),
			Close: func() error { return nil },
		}, nil
	}

	client, err := ConnectRedis(ctx, RedisOptions{Config: cfg.Redis, Logger: logger})
	if err != nil {
		return PendingLoginBackend{}, fmt.Errorf("connect redis: %w", err)
	}
	return PendingLoginBackend{
		Store: redisadapter.NewPendingLoginStoreWithPrefix(client, cfg.Redis.KeyPrefix),
		Close: client.Close,
	}, nil
}

// CredentialOptions groups the inputs of BuildCredentialStore.
type CredentialOptions struct {
	Auth   config.AuthConfig
	Logger *slog.Logger
	// SeedCost overrides the bcrypt cost of seeded accounts.
	SeedCost int
}

// BuildCredentialStore loads the manual-login table and, when asked, adds the demo accounts.
func BuildCredentialStore(ctx context.Context, opts CredentialOptions) (*credentials.Table, error) {
	table, err := credentials.NewTable()
	if err != nil {
		return nil, err
	}
	if opts.Auth.CredentialsFile != "" {
		if table, err = credentials.Load(opts.Auth.CredentialsFile); err != nil {
			return nil, err
		}
	}

	if opts.Auth.SeedDevCredentials {
		seeded := devseed.Credentials(ctx, devseed.Options{Cost: opts.SeedCost, Logger: opts.Logger})
		if table, err = table.Merge(seeded...); err != nil {
			return nil, fmt.Errorf("seed demo accounts: %w", err)
		}
	}

	if opts.Logger != nil {
		if table.Len() == 0 {
			opts.Logger.WarnContext(ctx, "no manual-login accounts configured")
		} else {
			opts.Logger.InfoContext(ctx, "credential table loaded", "accounts", table.Len())
		}
	}
	return table, nil
}
