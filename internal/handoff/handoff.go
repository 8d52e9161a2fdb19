// Package handoff owns the URL-carried profile that the identity bridge hands
// to the client. Nothing else in the module parses these URLs.
package handoff

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	domainauth "github.com/olive/canteen/internal/domain/auth"
)

// Query parameter names used on the landing URL.
const (
	GoogleParam = "googleUser"
	ZaloParam   = "zaloUser"
)

var (
	// ErrAmbiguousHandoff is returned when a location carries more than one provider payload.
	ErrAmbiguousHandoff = errors.New("handoff carries more than one provider payload")
	// ErrMalformedHandoff is returned when the payload does not decode into a profile.
	ErrMalformedHandoff = errors.New("handoff payload is malformed")
)

// ParamFor returns the query parameter used for provider.
func ParamFor(p domainauth.Provider) (string, error) {
	switch p {
	case domainauth.ProviderGoogle:
		return GoogleParam, nil
	case domainauth.ProviderZalo:
		return ZaloParam, nil
	default:
		return "", fmt.Errorf("no handoff parameter for provider %q", p)
	}
}

// Encode builds the hash-routed landing URL "/#<landing>?<param>=<json>".
func Encode(landing string, p domainauth.Provider, profile domainauth.Profile) (string, error) {
	param, err := ParamFor(p)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}
	if !strings.HasPrefix(landing, "/") {
		landing = "/" + landing
	}
	return "/#" + landing + "?" + param + "=" + escape(string(payload)), nil
}

// Decode finds a provider payload in location and returns it with the location
// stripped of handoff parameters. found is false when no payload is present.
func Decode(location string) (h domainauth.Handoff, cleaned string, found bool, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return domainauth.Handoff{}, location, false, fmt.Errorf("%w: %w", ErrMalformedHandoff, err)
	}

	route, rawQuery, inFragment := splitRoute(u)
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return domainauth.Handoff{}, location, false, fmt.Errorf("%w: %w", ErrMalformedHandoff, err)
	}

	google, hasGoogle := values[GoogleParam]
	zalo, hasZalo := values[ZaloParam]
	if !hasGoogle && !hasZalo {
		return domainauth.Handoff{}, location, false, nil
	}

	values.Del(GoogleParam)
	values.Del(ZaloParam)
	cleaned = rebuild(u, route, values, inFragment)

	if hasGoogle && hasZalo {
		return domainauth.Handoff{}, cleaned, true, ErrAmbiguousHandoff
	}

	h.Provider, h.Profile, err = decodeOne(hasGoogle, google, zalo)
	if err != nil {
		return domainauth.Handoff{}, cleaned, true, err
	}
	return h, cleaned, true, nil
}

func decodeOne(isGoogle bool, google, zalo []string) (domainauth.Provider, domainauth.Profile, error) {
	provider, raw := domainauth.ProviderZalo, zalo
	if isGoogle {
		provider, raw = domainauth.ProviderGoogle, google
	}
	if len(raw) != 1 {
		return "", domainauth.Profile{}, ErrAmbiguousHandoff
	}

	var profile domainauth.Profile
	if err := json.Unmarshal([]byte(raw[0]), &profile); err != nil {
		return "", domainauth.Profile{}, fmt.Errorf("%w: %w", ErrMalformedHandoff, err)
	}
	return provider, profile, nil
}

// splitRoute prefers a hash route ("#/cs?x=y") and falls back to the URL query.
func splitRoute(u *url.URL) (route, rawQuery string, inFragment bool) {
	if u.Fragment != "" {
		frag := u.EscapedFragment()
		route, rawQuery, _ = strings.Cut(frag, "?")
		return route, rawQuery, true
	}
	return u.EscapedPath(), u.RawQuery, false
}

func rebuild(u *url.URL, route string, values url.Values, inFragment bool) string {
	query := values.Encode()
	out := *u
	if inFragment {
		frag := route
		if query != "" {
			frag += "?" + query
		}
		out.Fragment = ""
		out.RawFragment = ""
		s := out.String()
		return s + "#" + frag
	}
	out.RawQuery = query
	return out.String()
}

// escape matches encodeURIComponent for the JSON payloads we emit.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
