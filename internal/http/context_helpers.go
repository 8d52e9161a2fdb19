package httpx

import (
	"context"

	"github.com/olive/canteen/internal/client"
	domainauth "github.com/olive/canteen/internal/domain/auth"
)

type (
	sessionKey   struct{}
	clientKey    struct{}
	requestIDKey struct{}
)

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the user session from context and a boolean indicating presence.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// GetSessionFromContext retrieves the session from the request context, or nil.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s
	}
	return nil
}

// SetClientInContext attaches the request-scoped client shell.
func SetClientInContext(ctx context.Context, app *client.App) context.Context {
	if app == nil {
		return ctx
	}
	return context.WithValue(ctx, clientKey{}, app)
}

// ClientFromContext returns the request-scoped client shell set by LoadSession.
func ClientFromContext(ctx context.Context) (*client.App, bool) {
	app, ok := ctx.Value(clientKey{}).(*client.App)
	return app, ok && app != nil
}

// RequestIDFromContext returns the id assigned by the Logging middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
