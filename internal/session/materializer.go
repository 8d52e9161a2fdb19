package session

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	domainauth "github.com/olive/canteen/internal/domain/auth"
	apperrors "github.com/olive/canteen/internal/errors"
	"github.com/olive/canteen/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

const (
	surrogatePrefix = "worker_"
	avatarBase      = "https://ui-avatars.com/api/"
)

// Materializer turns provider profiles and manual credentials into sessions.
type Materializer struct {
	now         func() time.Time
	credentials ports.CredentialStore

	dummyOnce sync.Once
	dummyHash []byte
}

// MaterializerOptions groups dependencies for NewMaterializer.
type MaterializerOptions struct {
	Credentials ports.CredentialStore
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewMaterializer creates a Materializer.
func NewMaterializer(opts MaterializerOptions) *Materializer {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Materializer{now: now, credentials: opts.Credentials}
}

// DefaultDisplayName is the name given to social logins whose profile has none.
func DefaultDisplayName(p domainauth.Provider) string {
	return fmt.Sprintf("Customer (%s)", p.Label())
}

// PlaceholderAvatar returns a generated avatar URL keyed by name.
func PlaceholderAvatar(name string) string {
	return avatarBase + "?name=" + escapeComponent(name) + "&background=random"
}

// FromProvider builds a session from a decoded provider profile. It never fails.
// Social logins are always WORKER; any other requested role is ignored.
func (m *Materializer) FromProvider(provider domainauth.Provider, _ domainauth.Role, p domainauth.Profile) domainauth.Session {
	subject := p.ID
	if subject == "" {
		subject = surrogatePrefix + strconv.FormatInt(m.now().UnixMilli(), 10)
	}
	name := p.Name
	if name == "" {
		name = DefaultDisplayName(provider)
	}
	avatar := p.Picture
	if avatar == "" {
		avatar = PlaceholderAvatar(name)
	}

	return domainauth.Session{
		SubjectID:    subject,
		DisplayName:  name,
		AvatarURL:    avatar,
		EmailAddress: p.Email,
		Provider:     provider,
		Role:         domainauth.RoleWorker,
	}
}

// FromCredentials checks a username and password against the credential table.
// Unknown users and wrong passwords produce the same InvalidCredentials error.
func (m *Materializer) FromCredentials(ctx context.Context, username, password string) (domainauth.Session, error) {
	if m.credentials == nil {
		return domainauth.Session{}, apperrors.InvalidCredentials()
	}

	cred, ok, err := m.credentials.Lookup(ctx, username)
	if err != nil {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "lookup credentials")
	}
	if !ok {
		// Burn a comparison so unknown users cost the same as wrong passwords.
		_ = bcrypt.CompareHashAndPassword(m.dummy(), []byte(password))
		return domainauth.Session{}, apperrors.InvalidCredentials()
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return domainauth.Session{}, apperrors.InvalidCredentials()
	}

	sess := domainauth.Session{
		SubjectID:   cred.SubjectID,
		DisplayName: cred.DisplayName,
		AvatarURL:   cred.AvatarURL,
		Provider:    domainauth.ProviderManual,
		Role:        cred.Role,
	}
	if sess.SubjectID == "" {
		sess.SubjectID = cred.Username
	}
	if sess.DisplayName == "" {
		sess.DisplayName = cred.Username
	}
	if sess.AvatarURL == "" {
		sess.AvatarURL = PlaceholderAvatar(sess.DisplayName)
	}
	if cred.Role == domainauth.RoleKitchenManager {
		sess.ManagedKitchenID = cred.ManagedKitchenID
	}
	if err := sess.Validate(); err != nil {
		return domainauth.Session{}, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "credential row %q", username)
	}
	return sess, nil
}

func (m *Materializer) dummy() []byte {
	m.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("olive-dummy-password"), bcrypt.DefaultCost)
		if err == nil {
			m.dummyHash = h
		}
	})
	return m.dummyHash
}

func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
