package environment

import (
	"fmt"
	"net/url"
	"strings"
)

// Record is the configuration the front-end reads at startup. Field names
// and JSON keys mirror the shape the front-end consumes.
type Record struct {
	Production   bool   `json:"production" yaml:"production"`
	APIServerURL string `json:"apiServerUrl" yaml:"apiServerUrl"`
	Auth0        Auth0  `json:"auth0" yaml:"auth0"`
}

// Auth0 holds the identity provider coordinates.
type Auth0 struct {
	// URL is the tenant domain prefix, e.g. "dev--mvz-3ey.us".
	URL         string `json:"url" yaml:"url"`
	Audience    string `json:"audience" yaml:"audience"`
	ClientID    string `json:"clientId" yaml:"clientId"`
	CallbackURL string `json:"callbackURL" yaml:"callbackURL"`
}

// Endpoint resolves a backend path such as "drinks" or "drinks/3" against
// the API server URL.
func (r Record) Endpoint(path string) (string, error) {
	base, err := url.Parse(r.APIServerURL)
	if err != nil {
		return "", fmt.Errorf("parse api server url: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	ref, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("parse endpoint path %q: %w", path, err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return "", fmt.Errorf("endpoint path %q must be relative", path)
	}
	return base.ResolveReference(ref).String(), nil
}

// Domain returns the full Auth0 tenant host.
func (a Auth0) Domain() string {
	return a.URL + ".auth0.com"
}

// IssuerURL returns the issuer expected in tokens minted by the tenant.
func (a Auth0) IssuerURL() string {
	return "https://" + a.Domain() + "/"
}

// JWKSURL returns the location of the tenant's signing keys.
func (a Auth0) JWKSURL() string {
	return "https://" + a.Domain() + "/.well-known/jwks.json"
}

// LoginURL builds the authorize link the front-end sends users to. Tokens
// come back in the fragment of CallbackURL (implicit flow).
func (a Auth0) LoginURL() string {
	q := url.Values{}
	q.Set("audience", a.Audience)
	q.Set("response_type", "token")
	q.Set("client_id", a.ClientID)
	q.Set("redirect_uri", a.CallbackURL)
	return "https://" + a.Domain() + "/authorize?" + q.Encode()
}

// LogoutURL builds the tenant logout link. An empty returnTo falls back to
// the callback URL.
func (a Auth0) LogoutURL(returnTo string) string {
	if returnTo == "" {
		returnTo = a.CallbackURL
	}
	q := url.Values{}
	q.Set("client_id", a.ClientID)
	q.Set("returnTo", returnTo)
	return "https://" + a.Domain() + "/v2/logout?" + q.Encode()
}
