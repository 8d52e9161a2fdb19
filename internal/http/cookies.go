package httpx

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/olive/canteen/internal/adapters/mirror"
)

// StateCookies signs and verifies the oauth_state cookie.
type StateCookies struct {
	codec       *securecookie.SecureCookie
	domain      string
	forceSecure bool
}

// StateCookieOptions configures StateCookies.
type StateCookieOptions struct {
	HashKey     []byte
	BlockKey    []byte
	Domain      string
	ForceSecure bool
}

// NewStateCookies creates a signer. HashKey is required.
func NewStateCookies(opts StateCookieOptions) (*StateCookies, error) {
	if len(opts.HashKey) == 0 {
		return nil, errors.New("state cookie hash key is required")
	}
	codec := securecookie.New(opts.HashKey, opts.BlockKey)
	codec.MaxAge(int(StateCookieMaxAge / time.Second))
	return &StateCookies{codec: codec, domain: opts.Domain, forceSecure: opts.ForceSecure}, nil
}

// Set binds state to the browser.
func (c *StateCookies) Set(w http.ResponseWriter, r *http.Request, state string) error {
	encoded, err := c.codec.Encode(StateCookieName, state)
	if err != nil {
		return err
	}
	http.SetCookie(w, c.cookie(r, encoded, int(StateCookieMaxAge/time.Second)))
	return nil
}

// Read returns the verified state, or "" when the cookie is missing, forged or stale.
func (c *StateCookies) Read(r *http.Request) string {
	ck, err := r.Cookie(StateCookieName)
	if err != nil {
		return ""
	}
	var state string
	if err := c.codec.Decode(StateCookieName, ck.Value, &state); err != nil {
		return ""
	}
	return state
}

// Clear expires the cookie with the same attributes it was set with.
func (c *StateCookies) Clear(w http.ResponseWriter, r *http.Request) {
	ck := c.cookie(r, "", -1)
	ck.Expires = time.Unix(0, 0).UTC()
	http.SetCookie(w, ck)
}

func (c *StateCookies) cookie(r *http.Request, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     StateCookieName,
		Value:    value,
		Path:     "/",
		Domain:   c.domain,
		HttpOnly: true,
		Secure:   c.forceSecure || mirror.RequestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}
