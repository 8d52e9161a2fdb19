package mirror

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory(t *testing.T) *CookieFactory {
	t.Helper()
	f, err := NewCookieFactory(CookieOptions{
		Name:    "olive_user",
		HashKey: []byte("0123456789abcdef0123456789abcdef"),
	})
	require.NoError(t, err)
	return f
}

func cookieNamed(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestNewCookieFactory_Validation(t *testing.T) {
	_, err := NewCookieFactory(CookieOptions{Name: "x"})
	assert.Error(t, err)
	_, err = NewCookieFactory(CookieOptions{HashKey: []byte("k")})
	assert.Error(t, err)
}

func TestCookie_RoundTrip(t *testing.T) {
	f := newFactory(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/session/login", nil)
	require.NoError(t, f.For(rec, req).Save([]byte(`{"subjectId":"u1"}`)))

	c := cookieNamed(t, rec, "olive_user")
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Zero(t, c.MaxAge)
	assert.False(t, c.Secure)

	next := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	next.AddCookie(c)
	data, ok, err := f.For(httptest.NewRecorder(), next).Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"subjectId":"u1"}`, string(data))
}

func TestCookie_LoadWithoutCookie(t *testing.T) {
	f := newFactory(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	data, ok, err := f.For(httptest.NewRecorder(), req).Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestCookie_TamperedCookieIsExpired(t *testing.T) {
	f := newFactory(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "olive_user", Value: "forged"})
	rec := httptest.NewRecorder()

	_, ok, err := f.For(rec, req).Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Less(t, cookieNamed(t, rec, "olive_user").MaxAge, 0)
}

func TestCookie_Delete(t *testing.T) {
	f := newFactory(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/session/logout", nil)

	require.NoError(t, f.For(rec, req).Delete())
	assert.Less(t, cookieNamed(t, rec, "olive_user").MaxAge, 0)
}

func TestCookie_SecureFlag(t *testing.T) {
	f := newFactory(t)

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"tls", func(r *http.Request) { r.TLS = &tls.ConnectionState{} }},
		{"forwarded proto", func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "HTTPS") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			require.NoError(t, f.For(rec, req).Save([]byte("{}")))
			assert.True(t, cookieNamed(t, rec, "olive_user").Secure)
		})
	}
}
