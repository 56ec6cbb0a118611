package environment

import (
	"net"
	"net/url"
	"strings"

	"go.uber.org/multierr"
)

// Validate checks that every setting is present and well formed. All
// violations are returned together; each is a *FieldError.
func (r Record) Validate() error {
	var err error
	err = multierr.Append(err, validateHTTPURL("apiServerUrl", r.APIServerURL))
	err = multierr.Append(err, validateDomainPrefix("auth0.url", r.Auth0.URL))
	err = multierr.Append(err, requireValue("auth0.audience", r.Auth0.Audience))
	err = multierr.Append(err, requireValue("auth0.clientId", r.Auth0.ClientID))
	err = multierr.Append(err, validateHTTPURL("auth0.callbackURL", r.Auth0.CallbackURL))

	if u, perr := url.Parse(r.APIServerURL); perr == nil && (u.RawQuery != "" || u.Fragment != "") {
		err = multierr.Append(err, fieldError("apiServerUrl", ErrMalformedURL, "must not carry a query or fragment"))
	}
	return err
}

// Validate checks the record and its consistency with the deployment.
// The production flag must agree with the target and the callback URL must
// be served from AppOrigin. Production URLs must use https.
func (p Profile) Validate() error {
	err := p.Record.Validate()

	if p.Record.Production != p.Target.IsProduction() {
		err = multierr.Append(err, fieldError("production", ErrTargetMismatch, "target is "+p.Target.String()))
	}

	appOrigin, originErr := parseOrigin(p.AppOrigin)
	err = multierr.Append(err, originErr)

	callback, cbErr := url.Parse(p.Record.Auth0.CallbackURL)
	if originErr == nil && cbErr == nil && callback.Host != "" {
		if got := originOf(callback); got != appOrigin {
			err = multierr.Append(err, fieldError("auth0.callbackURL", ErrOriginMismatch, got+" != "+appOrigin))
		}
	}

	if p.Target.IsProduction() {
		err = multierr.Append(err, requireHTTPS("apiServerUrl", p.Record.APIServerURL))
		err = multierr.Append(err, requireHTTPS("auth0.callbackURL", p.Record.Auth0.CallbackURL))
	}
	return err
}

func requireValue(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fieldError(field, ErrMissingField, "")
	}
	return nil
}

func validateHTTPURL(field, value string) error {
	if err := requireValue(field, value); err != nil {
		return err
	}
	u, err := url.Parse(value)
	if err != nil {
		return fieldError(field, ErrMalformedURL, err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fieldError(field, ErrMalformedURL, "scheme must be http or https")
	}
	if u.Host == "" {
		return fieldError(field, ErrMalformedURL, "host is required")
	}
	return nil
}

func validateDomainPrefix(field, value string) error {
	if err := requireValue(field, value); err != nil {
		return err
	}
	if strings.Contains(value, "://") || strings.ContainsAny(value, "/?#@ \t\r\n") {
		return fieldError(field, ErrMalformedDomain, "expected a bare tenant prefix such as \"my-tenant.us\"")
	}
	if strings.HasSuffix(strings.ToLower(value), ".auth0.com") {
		return fieldError(field, ErrMalformedDomain, "omit the .auth0.com suffix")
	}
	return nil
}

func requireHTTPS(field, value string) error {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" {
		// Reported by the record checks.
		return nil
	}
	if u.Scheme != "https" {
		return fieldError(field, ErrInsecureURL, "")
	}
	return nil
}

func parseOrigin(raw string) (string, error) {
	if err := validateHTTPURL("appOrigin", raw); err != nil {
		return "", err
	}
	u, _ := url.Parse(raw)
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return "", fieldError("appOrigin", ErrMalformedURL, "origin must not have a path, query or fragment")
	}
	return originOf(u), nil
}

// originOf returns the scheme://host[:port] origin of u. Default ports are
// dropped so https://host:443 and https://host compare equal.
func originOf(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (scheme == "https" && port == "443") || (scheme == "http" && port == "80") {
		port = ""
	}
	if port != "" {
		return scheme + "://" + net.JoinHostPort(host, port)
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return scheme + "://" + host
}
