// Package client is the session-side state machine: it restores the mirrored
// session, consumes identity handoffs, runs manual logins and answers
// navigation requests. The HTTP session API and the admin CLI both drive it.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainauth "github.com/olive/canteen/internal/domain/auth"
	apperrors "github.com/olive/canteen/internal/errors"
	"github.com/olive/canteen/internal/handoff"
	"github.com/olive/canteen/internal/session"
)

// ErrNoHandoff is returned by ConsumeHandoff when the location carries no payload.
var ErrNoHandoff = errors.New("no handoff payload in location")

// App bundles the store, materializer and route table for one client context.
type App struct {
	store        *session.Store
	materializer *session.Materializer
	routes       *domainauth.RouteTable
	logger       *slog.Logger
}

// Options groups dependencies for New.
type Options struct {
	Store        *session.Store
	Materializer *session.Materializer
	Routes       *domainauth.RouteTable
	Logger       *slog.Logger
}

// New creates an App. Routes defaults to the canteen table.
func New(opts Options) *App {
	routes := opts.Routes
	if routes == nil {
		routes = domainauth.DefaultRoutes()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		store:        opts.Store,
		materializer: opts.Materializer,
		routes:       routes,
		logger:       logger,
	}
}

// Bootstrap restores the mirrored session once.
func (a *App) Bootstrap() {
	a.store.Bootstrap()
}

// Current returns the active session.
func (a *App) Current() (domainauth.Session, bool) {
	return a.store.Get()
}

// ConsumeHandoff decodes a landing location, materializes the profile and stores
// the session. It returns the location with handoff parameters removed.
// On any error the store is left as it was.
func (a *App) ConsumeHandoff(location string) (string, domainauth.Session, error) {
	h, cleaned, found, err := handoff.Decode(location)
	if err != nil {
		return cleaned, domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "decode handoff")
	}
	if !found {
		return cleaned, domainauth.Session{}, ErrNoHandoff
	}

	sess := a.materializer.FromProvider(h.Provider, domainauth.RoleWorker, h.Profile)
	if err := a.store.Set(sess); err != nil {
		return cleaned, domainauth.Session{}, fmt.Errorf("store session: %w", err)
	}
	a.logger.Info("session started", "provider", sess.Provider, "subject", sess.SubjectID)
	return cleaned, sess, nil
}

// LoginWithCredentials reports whether the credentials matched. On success the
// session is stored; on failure the store is unchanged.
func (a *App) LoginWithCredentials(ctx context.Context, username, password string) bool {
	_, err := a.Login(ctx, username, password)
	return err == nil
}

// Login is LoginWithCredentials with the session and error exposed.
func (a *App) Login(ctx context.Context, username, password string) (domainauth.Session, error) {
	sess, err := a.materializer.FromCredentials(ctx, username, password)
	if err != nil {
		if !apperrors.IsInvalidCredentials(err) {
			a.logger.Error("credential check failed", "error", err)
		}
		return domainauth.Session{}, err
	}
	if err := a.store.Set(sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("store session: %w", err)
	}
	a.logger.Info("session started", "provider", sess.Provider, "subject", sess.SubjectID, "role", sess.Role)
	return sess, nil
}

// Logout ends the session. Calling it without a session is a no-op.
func (a *App) Logout() error {
	return a.store.Clear()
}

// Navigate evaluates the guard for path against the current session.
func (a *App) Navigate(path string) domainauth.Decision {
	var current *domainauth.Session
	if s, ok := a.store.Get(); ok {
		current = &s
	}
	d := a.routes.Decide(path, current)
	if d.Outcome != domainauth.Allow {
		a.logger.Debug("navigation redirected", "path", path, "outcome", d.Outcome, "target", d.Target)
	}
	return d
}

// Routes exposes the route table.
func (a *App) Routes() *domainauth.RouteTable {
	return a.routes
}
