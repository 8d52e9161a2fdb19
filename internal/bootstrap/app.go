package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/olive/canteen/config"
	"github.com/olive/canteen/internal/adapters/mirror"
	"github.com/olive/canteen/internal/catalog"
	domainauth "github.com/olive/canteen/internal/domain/auth"
	httpx "github.com/olive/canteen/internal/http"
	"github.com/olive/canteen/internal/observability/metrics"
	"github.com/olive/canteen/internal/service"
	"github.com/olive/canteen/internal/session"
)

// App is the assembled HTTP application and the resources it owns.
type App struct {
	Handler http.Handler
	closers []func() error
}

// Close releases the Redis client and the statsd socket.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AppOptions groups the inputs of BuildApp.
type AppOptions struct {
	Config *config.AppConfig
	Logger *slog.Logger
	// SeedCost overrides the bcrypt cost of seeded accounts.
	SeedCost int
}

// BuildApp wires providers, stores, cookies and the router from configuration.
func BuildApp(ctx context.Context, opts AppOptions) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app := &App{}
	fail := func(err error) (*App, error) {
		if cerr := app.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return nil, err
	}

	sink := BuildStatsd(ctx, cfg.Observability.Metrics, logger)
	app.closers = append(app.closers, sink.Close)
	authMetrics := metrics.NewAuth(sink)

	keys, err := BuildSessionKeys(ctx, cfg.Auth, logger)
	if err != nil {
		return fail(err)
	}

	providers, err := BuildIdentityProviders(cfg.Auth)
	if err != nil {
		return fail(err)
	}

	pending, err := BuildPendingLoginStore(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}
	app.closers = append(app.closers, pending.Close)

	bridge, err := service.NewIdentityBridge(service.IdentityBridgeOptions{
		Providers:     providers,
		PendingLogins: pending.Store,
		StateTTL:      cfg.Auth.StateTTL,
		LandingPath:   cfg.Auth.LandingPath,
		Metrics:       authMetrics,
		Logger:        logger,
	})
	if err != nil {
		return fail(fmt.Errorf("identity bridge: %w", err))
	}

	table, err := BuildCredentialStore(ctx, CredentialOptions{
		Auth:     cfg.Auth,
		Logger:   logger,
		SeedCost: opts.SeedCost,
	})
	if err != nil {
		return fail(err)
	}

	stateCookies, err := httpx.NewStateCookies(httpx.StateCookieOptions{
		HashKey:     keys.Hash,
		BlockKey:    keys.Block,
		Domain:      cfg.HTTP.CookieDomain,
		ForceSecure: cfg.HTTP.SecureCookies,
	})
	if err != nil {
		return fail(err)
	}

	mirrors, err := mirror.NewCookieFactory(mirror.CookieOptions{
		Name:        session.SnapshotKey,
		HashKey:     keys.Hash,
		BlockKey:    keys.Block,
		Domain:      cfg.HTTP.CookieDomain,
		ForceSecure: cfg.HTTP.SecureCookies,
	})
	if err != nil {
		return fail(err)
	}

	names := make([]domainauth.Provider, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}

	app.Handler = httpx.NewRouter(httpx.RouterServices{
		Bridge:       bridge,
		StateCookies: stateCookies,
		Providers:    names,
		Mirrors:      mirrors,
		Materializer: session.NewMaterializer(session.MaterializerOptions{Credentials: table}),
		Routes:       domainauth.DefaultRoutes(),
		Catalog:      catalog.Default(),
		Metrics:      authMetrics,
		Logger:       logger,
	})

	logger.InfoContext(ctx, "application assembled",
		"auth_mode", cfg.Auth.Mode,
		"state_store", cfg.Auth.StateStore,
		"providers", names,
		"landing_path", cfg.Auth.LandingPath,
	)
	return app, nil
}
