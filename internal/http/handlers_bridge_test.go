package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	domainauth "github.com/olive/canteen/internal/domain/auth"
	apperrors "github.com/olive/canteen/internal/errors"
	"github.com/olive/canteen/internal/handoff"
	"github.com/olive/canteen/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgeLogin_RedirectsAndBindsState(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	rec := b.get("/api/auth/google/login", "X-Forwarded-Proto", "https")
	require.Equal(t, http.StatusFound, rec.Code)

	location := rec.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "https://mock-google/authorize?"), location)
	state := stateFromLocation(t, location)

	ck := b.jar[StateCookieName]
	require.NotNil(t, ck)
	assert.NotEqual(t, state, ck.Value, "cookie value is signed")
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, 600, ck.MaxAge)
	assert.Equal(t, 1, srv.pending.Len())
}

func TestBridgeCallback_Success(t *testing.T) {
	srv := newTestServer(t)
	srv.zalo.Profile = domainauth.Profile{ID: "z-42", Name: "Trần Thị B", Picture: "https://zalo/p.png"}
	b := srv.browser(t)

	rec := b.get("/api/auth/zalo/login")
	state := stateFromLocation(t, rec.Header().Get("Location"))

	rec = b.get("/api/auth/zalo/callback?code=the-code&state=" + url.QueryEscape(state))
	require.Equal(t, http.StatusFound, rec.Code)

	location := rec.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "/#/cs?zaloUser="), location)
	h, cleaned, found, err := handoff.Decode(location)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domainauth.ProviderZalo, h.Provider)
	assert.Equal(t, srv.zalo.Profile, h.Profile)
	assert.Equal(t, "/#/cs", cleaned)

	assert.False(t, b.has(StateCookieName), "state cookie is cleared")
	assert.Zero(t, srv.pending.Len(), "pending login consumed")

	exchanges := srv.zalo.Exchanges()
	require.Len(t, exchanges, 1)
	assert.Equal(t, "the-code", exchanges[0].Code)
	assert.NotEmpty(t, exchanges[0].Verifier)
}

func TestBridgeCallback_MissingCode(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	rec := b.get("/api/auth/google/callback?state=anything")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing authorization code", plainBody(rec))
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestBridgeCallback_StateRejected(t *testing.T) {
	tests := []struct {
		name     string
		callback func(t *testing.T, srv *testServer, b *browser, state string) string
	}{
		{
			name: "state mismatch",
			callback: func(_ *testing.T, _ *testServer, _ *browser, _ string) string {
				return "/api/auth/google/callback?code=c&state=forged"
			},
		},
		{
			name: "missing state",
			callback: func(_ *testing.T, _ *testServer, _ *browser, _ string) string {
				return "/api/auth/google/callback?code=c"
			},
		},
		{
			name: "missing cookie",
			callback: func(_ *testing.T, _ *testServer, b *browser, state string) string {
				delete(b.jar, StateCookieName)
				return "/api/auth/google/callback?code=c&state=" + url.QueryEscape(state)
			},
		},
		{
			name: "tampered cookie",
			callback: func(_ *testing.T, _ *testServer, b *browser, state string) string {
				b.jar[StateCookieName] = &http.Cookie{Name: StateCookieName, Value: state}
				return "/api/auth/google/callback?code=c&state=" + url.QueryEscape(state)
			},
		},
		{
			name: "state issued for another provider",
			callback: func(_ *testing.T, _ *testServer, _ *browser, state string) string {
				return "/api/auth/zalo/callback?code=c&state=" + url.QueryEscape(state)
			},
		},
		{
			name: "expired pending login",
			callback: func(t *testing.T, srv *testServer, _ *browser, state string) string {
				_, err := srv.pending.Take(context.Background(), state)
				require.NoError(t, err)
				return "/api/auth/google/callback?code=c&state=" + url.QueryEscape(state)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			b := srv.browser(t)
			rec := b.get("/api/auth/google/login")
			state := stateFromLocation(t, rec.Header().Get("Location"))

			rec = b.get(tt.callback(t, srv, b, state))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, rec.Header().Get("Location"))
			assert.Equal(t, apperrors.PublicMessage(apperrors.InvalidState("")), plainBody(rec))
			assert.False(t, b.has(StateCookieName))
			assert.Empty(t, srv.google.Exchanges(), "no exchange without a verified state")
			assert.Empty(t, srv.zalo.Exchanges())
		})
	}
}

func TestBridgeCallback_StateIsSingleUse(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)
	rec := b.get("/api/auth/google/login")
	state := stateFromLocation(t, rec.Header().Get("Location"))
	stateCookie := b.jar[StateCookieName]

	rec = b.get("/api/auth/google/callback?code=c&state=" + url.QueryEscape(state))
	require.Equal(t, http.StatusFound, rec.Code)

	b.jar[StateCookieName] = stateCookie
	rec = b.get("/api/auth/google/callback?code=c&state=" + url.QueryEscape(state))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, srv.google.Exchanges(), 1)
}

func TestBridge_UnknownProvider(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	for _, target := range []string{"/api/auth/github/login", "/api/auth/manual/callback?code=c&state=s"} {
		rec := b.get(target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, "Unknown login provider", plainBody(rec))
	}
}

func TestBridge_MissingProviderCredentials(t *testing.T) {
	srv := newTestServer(t)
	srv.google.CheckFunc = func(ports.Stage) error {
		return apperrors.MissingProviderCredentials("google", "GOOGLE_CLIENT_ID")
	}
	b := srv.browser(t)

	rec := b.get("/api/auth/google/login")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Login provider is not configured", plainBody(rec))
	assert.False(t, b.has(StateCookieName))

	rec = b.get("/api/auth/google/callback?code=c&state=s")
	assert.Equal(t, http.StatusInternalServerError, rec.Code, "credentials are checked before state")
}

func TestBridgeCallback_ProviderFailuresStayServerSide(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{
			name:   "token exchange",
			err:    apperrors.Wrap(errors.New(`{"error":"invalid_grant","detail":"internal"}`), apperrors.ErrCodeTokenExchangeFailed, "zalo"),
			status: http.StatusInternalServerError,
		},
		{
			name:   "provider flagged profile error",
			err:    apperrors.New(apperrors.ErrCodeProfileFetchFailed, "zalo: error -501 internal").WithStatus(http.StatusUnauthorized),
			status: http.StatusUnauthorized,
		},
		{
			name:   "incomplete profile",
			err:    apperrors.New(apperrors.ErrCodeProfileFetchFailed, "zalo: no id internal").WithStatus(http.StatusBadRequest),
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			srv.zalo.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Profile, error) {
				return domainauth.Profile{}, tt.err
			}
			b := srv.browser(t)
			rec := b.get("/api/auth/zalo/login")
			state := stateFromLocation(t, rec.Header().Get("Location"))

			rec = b.get("/api/auth/zalo/callback?code=c&state=" + url.QueryEscape(state))
			assert.Equal(t, tt.status, rec.Code)
			assert.NotContains(t, rec.Body.String(), "internal")
			assert.Empty(t, rec.Header().Get("Location"))
		})
	}
}
