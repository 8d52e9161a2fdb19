package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateCookies_RoundTrip(t *testing.T) {
	c, err := NewStateCookies(StateCookieOptions{HashKey: testHashKey, Domain: "canteen.example"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, c.Set(rec, httptest.NewRequest(http.MethodGet, "/", nil), "st-1"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "canteen.example", cookies[0].Domain)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	assert.Equal(t, "st-1", c.Read(req))

	other, err := NewStateCookies(StateCookieOptions{HashKey: []byte("another-key-another-key-another!")})
	require.NoError(t, err)
	assert.Empty(t, other.Read(req), "signature from another key is rejected")
}

func TestStateCookies_ClearAndForceSecure(t *testing.T) {
	c, err := NewStateCookies(StateCookieOptions{HashKey: testHashKey, ForceSecure: true})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c.Clear(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
	assert.True(t, cookies[0].Secure)
	assert.Empty(t, c.Read(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestNewStateCookies_RequiresKey(t *testing.T) {
	_, err := NewStateCookies(StateCookieOptions{})
	assert.Error(t, err)
}
