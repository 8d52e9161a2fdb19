package devauth

// Package devauth provides a config-driven IdentityProvider for local development.

import (
	"context"
	"errors"
	"net/url"

	domainauth "github.com/olive/canteen/internal/domain/auth"
	"github.com/olive/canteen/internal/ports"
)

// Config controls the dev provider behavior.
type Config struct {
	// Provider is the social provider being impersonated.
	Provider domainauth.Provider
	// CallbackPath is this server's callback route for Provider.
	CallbackPath string
	Profile      domainauth.Profile
}

// Provider implements ports.IdentityProvider for local development.
// It short-circuits the OAuth flow by redirecting back to our own callback
// with the state it was given, so state verification still runs end to end.
// Exchange ignores the code and returns the configured profile.
type Provider struct {
	provider     domainauth.Provider
	callbackPath string
	profile      domainauth.Profile
}

var _ ports.IdentityProvider = (*Provider)(nil)

// NewProvider constructs a dev provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if !cfg.Provider.Social() {
		return nil, errors.New("dev auth: a social provider is required")
	}
	if cfg.CallbackPath == "" {
		return nil, errors.New("dev auth: CallbackPath is required")
	}
	if cfg.Profile.ID == "" {
		return nil, errors.New("dev auth: Profile.ID is required")
	}
	return &Provider{
		provider:     cfg.Provider,
		callbackPath: cfg.CallbackPath,
		profile:      cfg.Profile,
	}, nil
}

func (p *Provider) Name() domainauth.Provider { return p.provider }

// CheckCredentials always succeeds; dev mode needs no registration.
func (p *Provider) CheckCredentials(ports.Stage) error { return nil }

// Begin returns our own callback URL carrying a dev code and the caller's state.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, error) {
	q := url.Values{}
	q.Set("code", "dev")
	q.Set("state", in.State)
	return p.callbackPath + "?" + q.Encode(), nil
}

// Exchange ignores the code (state validation happens before it is called) and returns the dev profile.
func (p *Provider) Exchange(context.Context, ports.ExchangeInput) (domainauth.Profile, error) {
	return p.profile, nil
}
