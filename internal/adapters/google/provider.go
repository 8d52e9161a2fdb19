package google

// Package google runs the Google OAuth 2.0 authorization-code flow and reads
// the signed-in user's profile through the OpenID userinfo endpoint.

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/olive/canteen/internal/domain/auth"
	apperrors "github.com/olive/canteen/internal/errors"
	"github.com/olive/canteen/internal/ports"
	"golang.org/x/oauth2"
)

// Google endpoints. Tests point these at httptest servers.
const (
	DefaultAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	DefaultTokenURL    = "https://oauth2.googleapis.com/token"
	DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Scopes requested on every login.
var Scopes = []string{"openid", "email", "profile"}

// Config holds the Google client registration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	AuthURL     string
	TokenURL    string
	UserInfoURL string

	// Timeout bounds each provider call. Defaults to 10s.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Provider implements ports.IdentityProvider for Google.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client
	timeout    time.Duration

	oidcProvider *gooidc.Provider
}

var _ ports.IdentityProvider = (*Provider)(nil)

// NewProvider builds a Provider. Missing credentials are reported per request by CheckCredentials.
func NewProvider(cfg Config) *Provider {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	endpoint := oauth2.Endpoint{
		AuthURL:   firstNonEmpty(cfg.AuthURL, DefaultAuthURL),
		TokenURL:  firstNonEmpty(cfg.TokenURL, DefaultTokenURL),
		AuthStyle: oauth2.AuthStyleInParams,
	}
	pc := gooidc.ProviderConfig{
		AuthURL:     endpoint.AuthURL,
		TokenURL:    endpoint.TokenURL,
		UserInfoURL: firstNonEmpty(cfg.UserInfoURL, DefaultUserInfoURL),
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
		httpClient:   httpClient,
		timeout:      timeout,
		oidcProvider: pc.NewProvider(context.Background()),
	}
}

func (p *Provider) Name() domainauth.Provider { return domainauth.ProviderGoogle }

func (p *Provider) CheckCredentials(stage ports.Stage) error {
	if p.config.ClientID == "" {
		return apperrors.MissingProviderCredentials("google", "GOOGLE_CLIENT_ID")
	}
	if stage == ports.StageExchange && p.config.ClientSecret == "" {
		return apperrors.MissingProviderCredentials("google", "GOOGLE_CLIENT_SECRET")
	}
	return nil
}

func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, error) {
	if err := p.CheckCredentials(ports.StageBegin); err != nil {
		return "", err
	}
	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	}
	if in.Verifier != "" {
		opts = append(opts, oauth2.S256ChallengeOption(in.Verifier))
	}
	return p.config.AuthCodeURL(in.State, opts...), nil
}

func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Profile, error) {
	if err := p.CheckCredentials(ports.StageExchange); err != nil {
		return domainauth.Profile{}, err
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.exchange(ctx, in)
	if err != nil {
		return domainauth.Profile{}, apperrors.Wrap(err, apperrors.ErrCodeTokenExchangeFailed, "google: exchange code for token")
	}

	claims, err := p.userInfo(ctx, token)
	if err != nil {
		return domainauth.Profile{}, apperrors.Wrap(err, apperrors.ErrCodeProfileFetchFailed, "google: fetch user info")
	}

	profile := domainauth.Profile{
		ID:      firstNonEmpty(claims.ID, claims.Subject),
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}
	if profile.ID == "" {
		return domainauth.Profile{}, apperrors.
			New(apperrors.ErrCodeProfileFetchFailed, "google: user info has no id").
			WithStatus(http.StatusBadRequest)
	}
	return profile, nil
}

func (p *Provider) exchange(ctx context.Context, in ports.ExchangeInput) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var opts []oauth2.AuthCodeOption
	if in.Verifier != "" {
		opts = append(opts, oauth2.VerifierOption(in.Verifier))
	}
	return p.config.Exchange(ctx, in.Code, opts...)
}

// userInfoClaims covers both the v2 userinfo shape ("id") and the OIDC shape ("sub").
type userInfoClaims struct {
	ID      string `json:"id"`
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (p *Provider) userInfo(ctx context.Context, token *oauth2.Token) (userInfoClaims, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var claims userInfoClaims
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return claims, err
	}
	if err := ui.Claims(&claims); err != nil {
		return claims, fmt.Errorf("decode user info: %w", err)
	}
	return claims, nil
}

// firstNonEmpty returns the first non-empty string from vals, or empty string if none.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
