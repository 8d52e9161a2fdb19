package zalo

// Package zalo runs the Zalo v4 OAuth flow. Profile requests are signed with
// appsecret_proof, the hex HMAC-SHA256 of the access token keyed by the app secret.

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	domainauth "github.com/olive/canteen/internal/domain/auth"
	apperrors "github.com/olive/canteen/internal/errors"
	"github.com/olive/canteen/internal/ports"
	"golang.org/x/oauth2"
)

// Zalo endpoints. Tests point these at httptest servers.
const (
	DefaultAuthURL    = "https://oauth.zaloapp.com/v4/permission"
	DefaultTokenURL   = "https://oauth.zaloapp.com/v4/access_token"
	DefaultProfileURL = "https://graph.zalo.me/v2.0/me"
)

const (
	profileFields = "id,name,picture"
	// pictureExpr prefers the nested v2 shape and falls back to a plain string.
	pictureExpr = "picture.data.url || picture"

	maxProfileBytes = 1 << 20
)

// Config holds the Zalo app registration.
type Config struct {
	AppID       string
	AppSecret   string
	RedirectURL string

	AuthURL    string
	TokenURL   string
	ProfileURL string

	// Timeout bounds each provider call. Defaults to 10s.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Provider implements ports.IdentityProvider for Zalo.
type Provider struct {
	config     *oauth2.Config
	profileURL string
	httpClient *http.Client
	timeout    time.Duration
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
	profileURL := cfg.ProfileURL
	if profileURL == "" {
		profileURL = DefaultProfileURL
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.AppID,
			ClientSecret: cfg.AppSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   orDefault(cfg.AuthURL, DefaultAuthURL),
				TokenURL:  orDefault(cfg.TokenURL, DefaultTokenURL),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		profileURL: profileURL,
		httpClient: httpClient,
		timeout:    timeout,
	}
}

func (p *Provider) Name() domainauth.Provider { return domainauth.ProviderZalo }

func (p *Provider) CheckCredentials(stage ports.Stage) error {
	if p.config.ClientID == "" {
		return apperrors.MissingProviderCredentials("zalo", "ZALO_APP_ID")
	}
	if stage == ports.StageExchange && p.config.ClientSecret == "" {
		return apperrors.MissingProviderCredentials("zalo", "ZALO_APP_SECRET")
	}
	return nil
}

func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, error) {
	if err := p.CheckCredentials(ports.StageBegin); err != nil {
		return "", err
	}
	opts := []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("app_id", p.config.ClientID)}
	if in.Verifier != "" {
		opts = append(opts, oauth2.S256ChallengeOption(in.Verifier))
	}
	return p.config.AuthCodeURL(in.State, opts...), nil
}

func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Profile, error) {
	if err := p.CheckCredentials(ports.StageExchange); err != nil {
		return domainauth.Profile{}, err
	}

	token, err := p.exchange(ctx, in)
	if err != nil {
		return domainauth.Profile{}, apperrors.Wrap(err, apperrors.ErrCodeTokenExchangeFailed, "zalo: exchange code for token")
	}

	return p.fetchProfile(ctx, token.AccessToken)
}

func (p *Provider) exchange(ctx context.Context, in ports.ExchangeInput) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("app_id", p.config.ClientID),
		oauth2.SetAuthURLParam("app_secret", p.config.ClientSecret),
	}
	if in.Verifier != "" {
		opts = append(opts, oauth2.VerifierOption(in.Verifier))
	}

	// Zalo rejects codes with 200 and a numeric "error", which x/oauth2 cannot
	// decode into a RetrieveError. Keep the raw response so it can be logged.
	capture := &tokenCapture{base: p.httpClient.Transport}
	client := *p.httpClient
	client.Transport = capture
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &client)

	token, err := p.config.Exchange(ctx, in.Code, opts...)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if !errors.As(err, &retrieveErr) && capture.resp != nil {
			err = fmt.Errorf("%w: %w", err, &oauth2.RetrieveError{Response: capture.resp, Body: capture.body})
		}
		return nil, err
	}
	return token, nil
}

// tokenCapture keeps a copy of the last token endpoint response.
type tokenCapture struct {
	base http.RoundTripper
	resp *http.Response
	body []byte
}

func (c *tokenCapture) RoundTrip(req *http.Request) (*http.Response, error) {
	base := c.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProfileBytes))
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	c.resp, c.body = resp, body
	return resp, nil
}

// AppSecretProof returns hex(HMAC-SHA256(secret, accessToken)).
func AppSecretProof(secret, accessToken string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(accessToken))
	return hex.EncodeToString(mac.Sum(nil))
}

func (p *Provider) fetchProfile(ctx context.Context, accessToken string) (domainauth.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.getProfile(ctx, accessToken)
	if err != nil {
		return domainauth.Profile{}, apperrors.Wrap(err, apperrors.ErrCodeProfileFetchFailed, "zalo: fetch profile")
	}

	if code := errorCode(raw["error"]); code != 0 {
		msg, _ := raw["message"].(string)
		return domainauth.Profile{}, apperrors.
			Wrap(fmt.Errorf("zalo error %d: %s", code, msg), apperrors.ErrCodeProfileFetchFailed, "zalo: profile rejected").
			WithStatus(http.StatusUnauthorized)
	}

	profile := domainauth.Profile{
		ID:      scalarString(raw["id"]),
		Name:    scalarString(raw["name"]),
		Picture: picture(raw),
	}
	if profile.ID == "" {
		return domainauth.Profile{}, apperrors.
			New(apperrors.ErrCodeProfileFetchFailed, "zalo: profile has no id").
			WithStatus(http.StatusBadRequest)
	}
	return profile, nil
}

func (p *Provider) getProfile(ctx context.Context, accessToken string) (map[string]any, error) {
	u, err := url.Parse(p.profileURL)
	if err != nil {
		return nil, fmt.Errorf("parse profile url: %w", err)
	}
	q := u.Query()
	q.Set("fields", profileFields)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("access_token", accessToken)
	req.Header.Set("appsecret_proof", AppSecretProof(p.config.ClientSecret, accessToken))
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProfileBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: %s", resp.Status, body)
	}

	// Numeric ids exceed float64 precision.
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return raw, nil
}

func picture(raw map[string]any) string {
	v, err := jmespath.Search(pictureExpr, raw)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func errorCode(v any) int64 {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return int64(f)
		}
		return 0
	case float64:
		return int64(n)
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
