// Package mirror provides the places a session snapshot can be persisted
// between requests or CLI invocations.
package mirror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/olive/canteen/internal/ports"
)

const snapshotValue = "snapshot"

// CookieOptions configures the signed session cookie.
type CookieOptions struct {
	// Name is the cookie name.
	Name string
	// HashKey signs the cookie. BlockKey, when set, also encrypts it.
	HashKey  []byte
	BlockKey []byte
	Domain   string
	// ForceSecure marks the cookie Secure regardless of the request scheme.
	ForceSecure bool
}

// CookieFactory binds snapshot mirrors to individual requests.
type CookieFactory struct {
	name        string
	store       *sessions.CookieStore
	forceSecure bool
}

// NewCookieFactory creates a factory backed by a gorilla/sessions cookie store.
// The cookie has no Max-Age so it lives for the browser session.
func NewCookieFactory(opts CookieOptions) (*CookieFactory, error) {
	if len(opts.HashKey) == 0 {
		return nil, errors.New("cookie mirror: hash key is required")
	}
	if opts.Name == "" {
		return nil, errors.New("cookie mirror: name is required")
	}
	keys := [][]byte{opts.HashKey}
	if len(opts.BlockKey) > 0 {
		keys = append(keys, opts.BlockKey)
	}
	store := sessions.NewCookieStore(keys...)
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   0,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieFactory{name: opts.Name, store: store, forceSecure: opts.ForceSecure}, nil
}

// For returns a mirror that reads from r and writes Set-Cookie headers to w.
func (f *CookieFactory) For(w http.ResponseWriter, r *http.Request) *Cookie {
	return &Cookie{factory: f, w: w, r: r}
}

// Cookie is a request-scoped SnapshotMirror.
type Cookie struct {
	factory *CookieFactory
	w       http.ResponseWriter
	r       *http.Request
}

var _ ports.SnapshotMirror = (*Cookie)(nil)

func (c *Cookie) session() (*sessions.Session, error) {
	sess, err := c.factory.store.Get(c.r, c.factory.name)
	sess.Options.Secure = c.factory.forceSecure || RequestIsSecure(c.r)
	return sess, err
}

// Load returns the snapshot carried by the request cookie. A cookie that fails
// verification is expired and reported as absent.
func (c *Cookie) Load() ([]byte, bool, error) {
	sess, err := c.session()
	if err != nil {
		var decodeErr securecookie.Error
		if errors.As(err, &decodeErr) && decodeErr.IsDecode() {
			return nil, false, c.expire(sess)
		}
		return nil, false, err
	}
	raw, ok := sess.Values[snapshotValue].(string)
	if !ok || raw == "" {
		return nil, false, nil
	}
	return []byte(raw), true, nil
}

func (c *Cookie) Save(data []byte) error {
	sess, _ := c.session()
	sess.Values[snapshotValue] = string(data)
	return sess.Save(c.r, c.w)
}

func (c *Cookie) Delete() error {
	sess, _ := c.session()
	return c.expire(sess)
}

func (c *Cookie) expire(sess *sessions.Session) error {
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.r, c.w)
}

// RequestIsSecure reports whether the request arrived over TLS, directly or
// through a proxy that sets X-Forwarded-Proto.
func RequestIsSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
