package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olive/canteen/internal/adapters/mirror"
	"github.com/olive/canteen/internal/client"
	domainauth "github.com/olive/canteen/internal/domain/auth"
	"github.com/olive/canteen/internal/session"
)

// Logging returns a middleware that assigns a request id and logs each request.
// An incoming X-Request-ID is reused when it parses as a UUID.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := requestID(r)
			w.Header().Set(RequestIDHeader, id)

			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			next.ServeHTTP(ww, r.WithContext(ctx))
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", id),
			)
		})
	}
}

func requestID(r *http.Request) string {
	if v := r.Header.Get(RequestIDHeader); v != "" {
		if parsed, err := uuid.Parse(v); err == nil {
			return parsed.String()
		}
	}
	return uuid.NewString()
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("request_id", RequestIDFromContext(r.Context())),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// ClientFactory builds the client shell for one request over that request's
// session cookie.
type ClientFactory struct {
	Mirrors      *mirror.CookieFactory
	Materializer *session.Materializer
	Routes       *domainauth.RouteTable
	Logger       *slog.Logger
}

// For returns a bootstrapped client shell bound to w and r.
func (f *ClientFactory) For(w http.ResponseWriter, r *http.Request) *client.App {
	store := session.NewStore(session.StoreOptions{Mirror: f.Mirrors.For(w, r), Logger: f.Logger})
	app := client.New(client.Options{
		Store:        store,
		Materializer: f.Materializer,
		Routes:       f.Routes,
		Logger:       f.Logger,
	})
	app.Bootstrap()
	return app
}

// LoadSession restores the mirrored session and exposes it, along with the
// client shell, on the request context.
func LoadSession(f *ClientFactory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			app := f.For(w, r)
			ctx := SetClientInContext(r.Context(), app)
			if sess, ok := app.Current(); ok {
				ctx = SetSessionInContext(ctx, &sess)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireScreen applies the route guard to the request path. Browsers are
// redirected with 303; API clients get 401 or 403 JSON.
func RequireScreen(routes *domainauth.RouteTable, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSessionFromContext(r.Context())
			d := routes.Decide(r.URL.Path, sess)
			if d.Outcome == domainauth.Allow {
				next.ServeHTTP(w, r)
				return
			}

			logger.DebugContext(r.Context(), "screen denied",
				"path", r.URL.Path, "outcome", d.Outcome, "target", d.Target)

			if !wantsJSON(r) {
				http.Redirect(w, r, d.Target, http.StatusSeeOther)
				return
			}
			if d.Outcome == domainauth.RedirectToLogin {
				WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": ErrCodeUnauthorized, "target": d.Target})
				return
			}
			WriteJSON(w, http.StatusForbidden, map[string]string{"error": ErrCodeForbidden, "target": d.Target})
		})
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
