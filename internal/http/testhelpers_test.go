package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/olive/canteen/internal/adapters/credentials"
	"github.com/olive/canteen/internal/adapters/memory"
	"github.com/olive/canteen/internal/adapters/mirror"
	"github.com/olive/canteen/internal/devseed"
	domainauth "github.com/olive/canteen/internal/domain/auth"
	authmocks "github.com/olive/canteen/internal/mocks/auth"
	"github.com/olive/canteen/internal/ports"
	"github.com/olive/canteen/internal/service"
	"github.com/olive/canteen/internal/session"
	"github.com/olive/canteen/internal/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testHashKey = []byte("0123456789abcdef0123456789abcdef")

type testServer struct {
	handler http.Handler
	google  *authmocks.MockIdentityProvider
	zalo    *authmocks.MockIdentityProvider
	pending *memory.PendingLoginStore
	cookies *StateCookies
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := testutil.DiscardLogger()

	google := authmocks.NewMockIdentityProvider(domainauth.ProviderGoogle)
	zalo := authmocks.NewMockIdentityProvider(domainauth.ProviderZalo)
	pending := memory.NewPendingLoginStore(nil)
	bridge := service.MustNewIdentityBridge(service.IdentityBridgeOptions{
		Providers:     []ports.IdentityProvider{google, zalo},
		PendingLogins: pending,
		Logger:        logger,
	})

	stateCookies, err := NewStateCookies(StateCookieOptions{HashKey: testHashKey})
	require.NoError(t, err)
	mirrors, err := mirror.NewCookieFactory(mirror.CookieOptions{Name: session.SnapshotKey, HashKey: testHashKey})
	require.NoError(t, err)

	table, err := credentials.NewTable(devseed.Credentials(context.Background(), devseed.Options{Cost: bcrypt.MinCost})...)
	require.NoError(t, err)

	handler := NewRouter(RouterServices{
		Bridge:       bridge,
		StateCookies: stateCookies,
		Providers:    []domainauth.Provider{domainauth.ProviderGoogle, domainauth.ProviderZalo},
		Mirrors:      mirrors,
		Materializer: session.NewMaterializer(session.MaterializerOptions{Credentials: table}),
		Logger:       logger,
	})

	return &testServer{handler: handler, google: google, zalo: zalo, pending: pending, cookies: stateCookies}
}

// browser replays cookies between requests the way a user agent would.
type browser struct {
	t       *testing.T
	handler http.Handler
	jar     map[string]*http.Cookie
}

func (s *testServer) browser(t *testing.T) *browser {
	return &browser{t: t, handler: s.handler, jar: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.jar {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.jar, c.Name)
			continue
		}
		b.jar[c.Name] = c
	}
	return rec
}

func (b *browser) get(target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return b.do(req)
}

func (b *browser) postJSON(target string, body any) *httptest.ResponseRecorder {
	b.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(b.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return b.do(req)
}

func (b *browser) has(name string) bool {
	_, ok := b.jar[name]
	return ok
}

// socialLogin runs login, callback and handoff and returns the handoff response.
func (b *browser) socialLogin(provider string) *httptest.ResponseRecorder {
	b.t.Helper()
	rec := b.get("/api/auth/" + provider + "/login")
	require.Equal(b.t, http.StatusFound, rec.Code)
	state := stateFromLocation(b.t, rec.Header().Get("Location"))

	rec = b.get("/api/auth/" + provider + "/callback?code=abc&state=" + url.QueryEscape(state))
	require.Equal(b.t, http.StatusFound, rec.Code, rec.Body.String())

	return b.postJSON("/api/session/handoff", map[string]string{"location": rec.Header().Get("Location")})
}

func (b *browser) manualLogin(username, password string) *httptest.ResponseRecorder {
	return b.postJSON("/api/session/login", map[string]string{"username": username, "password": password})
}

func stateFromLocation(t *testing.T, location string) string {
	t.Helper()
	u, err := url.Parse(location)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func plainBody(rec *httptest.ResponseRecorder) string {
	return strings.TrimSpace(rec.Body.String())
}
