package session

import (
	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultTokenKey is the fixed name of the persisted credential.
const DefaultTokenKey = "FCurrentUser"

// DefaultTokenExpiryDays is the credential lifetime policy.
const DefaultTokenExpiryDays = 14

// Config holds session coordinator options. TokenSecret is the only
// required value; Google credentials are optional and only the client id is
// safe to expose publicly.
type Config struct {
	TokenSecret        string `env:"TOKEN_SECRET"`
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	TokenKey           string `env:"SESSION_TOKEN_KEY" envDefault:"FCurrentUser"`
	TokenExpiryDays    int    `env:"SESSION_TOKEN_EXPIRY_DAYS" envDefault:"14"`
	// CookieDomain scopes the credential cookie to a parent domain so it
	// survives subdomain navigation. Empty means host-only.
	CookieDomain string `env:"SESSION_COOKIE_DOMAIN"`
}

// ConfigFromEnv loads and validates configuration from the process
// environment.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "unable to parse session environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces required configuration before any component uses it.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.TokenSecret, validation.Required),
		validation.Field(&c.TokenExpiryDays, validation.Min(1)),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid session configuration")
	}
	return nil
}

func (c *Config) withDefaults() *Config {
	out := *c
	if out.TokenKey == "" {
		out.TokenKey = DefaultTokenKey
	}
	if out.TokenExpiryDays <= 0 {
		out.TokenExpiryDays = DefaultTokenExpiryDays
	}
	return &out
}
