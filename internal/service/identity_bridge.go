package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainauth "github.com/olive/canteen/internal/domain/auth"
	apperrors "github.com/olive/canteen/internal/errors"
	"github.com/olive/canteen/internal/handoff"
	"github.com/olive/canteen/internal/observability/metrics"
	"github.com/olive/canteen/internal/ports"
	"golang.org/x/oauth2"
)

const (
	// DefaultStateTTL bounds how long a login may sit at the provider.
	DefaultStateTTL = 10 * time.Minute
	// DefaultLandingPath is where the client lands after a social login.
	DefaultLandingPath = domainauth.WorkerHome

	stateBytes = 32
)

// IdentityBridgeOptions groups dependencies for IdentityBridge.
type IdentityBridgeOptions struct {
	Providers     []ports.IdentityProvider // Required: at least one social provider
	PendingLogins ports.PendingLoginStore  // Required: state storage between login and callback
	StateTTL      time.Duration            // Optional: defaults to DefaultStateTTL
	LandingPath   string                   // Optional: defaults to DefaultLandingPath
	Metrics       *metrics.Auth            // Optional
	Logger        *slog.Logger             // Optional
	Now           func() time.Time         // Optional: defaults to time.Now
}

// IdentityBridge runs the server half of the social login flows: it starts an
// authorization request and turns the provider callback into a client handoff.
type IdentityBridge struct {
	providers map[domainauth.Provider]ports.IdentityProvider
	pending   ports.PendingLoginStore
	stateTTL  time.Duration
	landing   string
	metrics   *metrics.Auth
	logger    *slog.Logger
	now       func() time.Time
}

// NewIdentityBridge constructs an IdentityBridge.
func NewIdentityBridge(opts IdentityBridgeOptions) (*IdentityBridge, error) {
	if len(opts.Providers) == 0 {
		return nil, errors.New("at least one IdentityProvider is required")
	}
	if opts.PendingLogins == nil {
		return nil, errors.New("PendingLoginStore is required")
	}

	providers := make(map[domainauth.Provider]ports.IdentityProvider, len(opts.Providers))
	for _, p := range opts.Providers {
		name := p.Name()
		if !name.Social() {
			return nil, fmt.Errorf("provider %q is not a social provider", name)
		}
		if _, dup := providers[name]; dup {
			return nil, fmt.Errorf("provider %q registered twice", name)
		}
		providers[name] = p
	}

	b := &IdentityBridge{
		providers: providers,
		pending:   opts.PendingLogins,
		stateTTL:  opts.StateTTL,
		landing:   opts.LandingPath,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
	if b.stateTTL <= 0 {
		b.stateTTL = DefaultStateTTL
	}
	if b.landing == "" {
		b.landing = DefaultLandingPath
	}
	if b.now == nil {
		b.now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	b.logger = logger.With("component", "identity_bridge")
	return b, nil
}

// MustNewIdentityBridge constructs an IdentityBridge and panics on error.
func MustNewIdentityBridge(opts IdentityBridgeOptions) *IdentityBridge {
	b, err := NewIdentityBridge(opts)
	if err != nil {
		panic(err) //nolint:forbidigo // Must constructor fails fast during startup
	}
	return b
}

// StateTTL is how long a pending login stays valid.
func (b *IdentityBridge) StateTTL() time.Duration { return b.stateTTL }

// BeginLoginResult carries the provider redirect and the state the caller
// must bind to the browser.
type BeginLoginResult struct {
	AuthURL string
	State   string
}

// BeginLogin records a pending login and returns the provider authorization URL.
func (b *IdentityBridge) BeginLogin(ctx context.Context, provider string) (*BeginLoginResult, error) {
	p, err := b.provider(provider)
	if err != nil {
		return nil, err
	}

	res, err := b.begin(ctx, p)
	b.metrics.LoginBegin(provider, err)
	if err != nil {
		b.logFailure(ctx, "login initiation failed", provider, err)
		return nil, err
	}
	return res, nil
}

func (b *IdentityBridge) begin(ctx context.Context, p ports.IdentityProvider) (*BeginLoginResult, error) {
	if err := p.CheckCredentials(ports.StageBegin); err != nil {
		return nil, err
	}

	state, err := generateState()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "generate state")
	}
	verifier := oauth2.GenerateVerifier()

	pending := ports.PendingLogin{Provider: p.Name(), Verifier: verifier, CreatedAt: b.now()}
	if err := b.pending.Put(ctx, state, pending, b.stateTTL); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "store pending login")
	}

	authURL, err := p.Begin(ctx, ports.BeginInput{State: state, Verifier: verifier})
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "%s: build authorization url", p.Name())
	}
	return &BeginLoginResult{AuthURL: authURL, State: state}, nil
}

// CompleteLoginInput groups the callback parameters.
type CompleteLoginInput struct {
	Provider string
	Code     string
	// State is the query parameter; CookieState is the value bound to the browser.
	State       string
	CookieState string
}

// CompleteLoginResult carries where to send the browser next.
type CompleteLoginResult struct {
	RedirectURL string
	Profile     domainauth.Profile
}

// CompleteLogin validates a provider callback, exchanges the code, fetches the
// profile and returns the handoff redirect. Tokens are dropped on return.
func (b *IdentityBridge) CompleteLogin(ctx context.Context, in CompleteLoginInput) (*CompleteLoginResult, error) {
	p, err := b.provider(in.Provider)
	if err != nil {
		return nil, err
	}

	start := b.now()
	res, err := b.complete(ctx, p, in)
	b.metrics.Callback(in.Provider, err, b.now().Sub(start))
	if err != nil {
		b.logFailure(ctx, "login callback failed", in.Provider, err)
		return nil, err
	}
	b.logger.InfoContext(ctx, "login callback completed", "provider", in.Provider, "subject", res.Profile.ID)
	return res, nil
}

func (b *IdentityBridge) complete(
	ctx context.Context,
	p ports.IdentityProvider,
	in CompleteLoginInput,
) (*CompleteLoginResult, error) {
	if in.Code == "" {
		return nil, apperrors.MissingAuthorizationCode(string(p.Name()))
	}
	if err := p.CheckCredentials(ports.StageExchange); err != nil {
		return nil, err
	}

	pending, err := b.takeState(ctx, p.Name(), in.State, in.CookieState)
	if err != nil {
		return nil, err
	}

	profile, err := p.Exchange(ctx, ports.ExchangeInput{Code: in.Code, Verifier: pending.Verifier})
	if err != nil {
		if apperrors.GetCode(err) == "" {
			err = apperrors.Wrapf(err, apperrors.ErrCodeTokenExchangeFailed, "%s: exchange", p.Name())
		}
		return nil, err
	}

	redirect, err := handoff.Encode(b.landing, p.Name(), profile)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode handoff")
	}
	return &CompleteLoginResult{RedirectURL: redirect, Profile: profile}, nil
}

// takeState checks the callback state against the browser-bound value and
// consumes the matching pending login.
func (b *IdentityBridge) takeState(
	ctx context.Context,
	provider domainauth.Provider,
	state, cookieState string,
) (ports.PendingLogin, error) {
	if state == "" {
		return ports.PendingLogin{}, apperrors.InvalidState("missing state parameter")
	}
	if cookieState == "" {
		return ports.PendingLogin{}, apperrors.InvalidState("missing state cookie")
	}
	if subtle.ConstantTimeCompare([]byte(state), []byte(cookieState)) != 1 {
		return ports.PendingLogin{}, apperrors.InvalidState("state does not match cookie")
	}

	pending, err := b.pending.Take(ctx, state)
	if errors.Is(err, ports.ErrPendingLoginNotFound) {
		return ports.PendingLogin{}, apperrors.InvalidState("unknown or expired state")
	}
	if err != nil {
		return ports.PendingLogin{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "load pending login")
	}
	if pending.Provider != provider {
		return ports.PendingLogin{}, apperrors.InvalidState("state issued for another provider")
	}
	return pending, nil
}

func (b *IdentityBridge) provider(name string) (ports.IdentityProvider, error) {
	parsed, err := domainauth.ParseProvider(name)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeUnknownProvider, fmt.Sprintf("unknown provider %q", name))
	}
	p, ok := b.providers[parsed]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeUnknownProvider, fmt.Sprintf("provider %q is not enabled", name))
	}
	return p, nil
}

// logFailure writes the full error chain, including any raw provider
// response, to the server log. None of it reaches the client.
func (b *IdentityBridge) logFailure(ctx context.Context, msg, provider string, err error) {
	attrs := []any{"provider", provider, "code", apperrors.GetCode(err), "error", err}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		attrs = append(attrs, "provider_body", string(retrieveErr.Body))
		if retrieveErr.Response != nil {
			attrs = append(attrs, "provider_status", retrieveErr.Response.StatusCode)
		}
	}

	switch {
	case apperrors.IsInvalidState(err), apperrors.GetCode(err) == apperrors.ErrCodeMissingAuthorizationCode:
		b.logger.WarnContext(ctx, msg, attrs...)
	default:
		b.logger.ErrorContext(ctx, msg, attrs...)
	}
}

func generateState() (string, error) {
	buf := make([]byte, stateBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
