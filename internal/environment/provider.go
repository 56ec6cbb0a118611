package environment

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix prefixes the environment variables read by Default.
const DefaultEnvPrefix = "COFFEESHOP_"

// envKeys maps environment variable suffixes to record keys.
var envKeys = map[string]string{
	"PRODUCTION":         "production",
	"API_SERVER_URL":     "apiServerUrl",
	"APP_ORIGIN":         "appOrigin",
	"AUTH0_URL":          "auth0.url",
	"AUTH0_AUDIENCE":     "auth0.audience",
	"AUTH0_CLIENT_ID":    "auth0.clientId",
	"AUTH0_CALLBACK_URL": "auth0.callbackURL",
}

// Provider holds a validated profile. It has no setters; the zero value is
// not usable, construct one with Load.
type Provider struct {
	profile Profile
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	target    Target
	file      string
	envPrefix string
}

// WithTarget selects the deployment target. Defaults to BuildTarget.
func WithTarget(target Target) Option {
	return func(o *loadOptions) {
		o.target = target
	}
}

// WithFile overlays settings from a JSON or YAML file. The format is chosen
// by extension.
func WithFile(path string) Option {
	return func(o *loadOptions) {
		o.file = path
	}
}

// WithEnv overlays settings from environment variables carrying prefix,
// e.g. COFFEESHOP_API_SERVER_URL. Empty variables are ignored.
func WithEnv(prefix string) Option {
	return func(o *loadOptions) {
		o.envPrefix = prefix
	}
}

// profileDocument is the overlay shape: the record plus the app origin.
type profileDocument struct {
	Production   bool   `koanf:"production"`
	APIServerURL string `koanf:"apiServerUrl"`
	AppOrigin    string `koanf:"appOrigin"`
	Auth0        struct {
		URL         string `koanf:"url"`
		Audience    string `koanf:"audience"`
		ClientID    string `koanf:"clientId"`
		CallbackURL string `koanf:"callbackURL"`
	} `koanf:"auth0"`
}

// Load builds a Provider from the compiled-in profile of the selected
// target, applies overlays (environment over file) and validates the result.
func Load(opts ...Option) (*Provider, error) {
	o := loadOptions{target: BuildTarget}
	for _, opt := range opts {
		opt(&o)
	}

	base, err := ProfileFor(o.target)
	if err != nil {
		return nil, err
	}

	profile, err := overlay(base, o)
	if err != nil {
		return nil, err
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s environment: %w", profile.Target, err)
	}

	return &Provider{profile: profile}, nil
}

func overlay(base Profile, o loadOptions) (Profile, error) {
	if o.file == "" && o.envPrefix == "" {
		return base, nil
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(profileMap(base), "."), nil); err != nil {
		return Profile{}, fmt.Errorf("load compiled-in %s profile: %w", base.Target, err)
	}

	if o.file != "" {
		parser, err := parserFor(o.file)
		if err != nil {
			return Profile{}, err
		}
		if err := k.Load(file.Provider(o.file), parser); err != nil {
			return Profile{}, fmt.Errorf("load environment file %s: %w", o.file, err)
		}
	}

	if o.envPrefix != "" {
		if err := k.Load(env.ProviderWithValue(o.envPrefix, ".", envMapper(o.envPrefix)), nil); err != nil {
			return Profile{}, fmt.Errorf("load environment variables: %w", err)
		}
	}

	// Unknown keys are usually typos; refuse them rather than silently
	// serving the compiled-in value.
	var doc profileDocument
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			TagName:          "koanf",
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           &doc,
		},
	}
	if err := k.UnmarshalWithConf("", &doc, conf); err != nil {
		return Profile{}, fmt.Errorf("decode %s profile: %w", base.Target, err)
	}

	return Profile{
		Target:    base.Target,
		AppOrigin: doc.AppOrigin,
		Record: Record{
			Production:   doc.Production,
			APIServerURL: doc.APIServerURL,
			Auth0: Auth0{
				URL:         doc.Auth0.URL,
				Audience:    doc.Auth0.Audience,
				ClientID:    doc.Auth0.ClientID,
				CallbackURL: doc.Auth0.CallbackURL,
			},
		},
	}, nil
}

func profileMap(p Profile) map[string]any {
	return map[string]any{
		"production":        p.Record.Production,
		"apiServerUrl":      p.Record.APIServerURL,
		"appOrigin":         p.AppOrigin,
		"auth0.url":         p.Record.Auth0.URL,
		"auth0.audience":    p.Record.Auth0.Audience,
		"auth0.clientId":    p.Record.Auth0.ClientID,
		"auth0.callbackURL": p.Record.Auth0.CallbackURL,
	}
}

func envMapper(prefix string) func(key, value string) (string, any) {
	return func(key, value string) (string, any) {
		mapped, ok := envKeys[strings.TrimPrefix(key, prefix)]
		if !ok || strings.TrimSpace(value) == "" {
			return "", nil
		}
		return mapped, strings.TrimSpace(value)
	}
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported environment file format %q", filepath.Ext(path))
	}
}

// Record returns a copy of the configuration record.
func (p *Provider) Record() Record {
	return p.profile.Record
}

// Profile returns a copy of the full profile.
func (p *Provider) Profile() Profile {
	return p.profile
}

// Target returns the deployment target the provider was loaded for.
func (p *Provider) Target() Target {
	return p.profile.Target
}

var loadDefault = sync.OnceValues(func() (*Provider, error) {
	return Load(WithEnv(DefaultEnvPrefix))
})

// Default returns the process-wide provider for BuildTarget with the
// COFFEESHOP_ environment overlay applied. It is loaded on first use and
// never reloaded.
func Default() (*Provider, error) {
	return loadDefault()
}

// MustDefault is like Default but panics when the environment is invalid.
func MustDefault() *Provider {
	p, err := Default()
	if err != nil {
		panic(fmt.Sprintf("environment: %v", err))
	}
	return p
}
