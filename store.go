package session

import (
	"time"

	"github.com/goliatone/go-router"
)

// StoreOption customizes a single credential write.
type StoreOption func(*storeOptions)

type storeOptions struct {
	expiryDays int
}

// WithExpiryDays overrides the default 14 day credential lifetime.
func WithExpiryDays(days int) StoreOption {
	return func(o *storeOptions) {
		if days > 0 {
			o.expiryDays = days
		}
	}
}

// CredentialStore persists the signed credential in a cross-subdomain safe
// cookie. Outside a client runtime every operation is a warned no-op so
// callers can treat an empty credential as "not logged in" rather than an
// error.
type CredentialStore struct {
	jar        CookieJar
	runtime    RuntimeContext
	key        string
	domain     string
	expiryDays int
	logger     Logger
}

// NewCredentialStore builds a store over the given cookie capability. The
// runtime decides whether storage is operable at all.
func NewCredentialStore(jar CookieJar, runtime RuntimeContext, cfg *Config, logger Logger) *CredentialStore {
	if logger == nil {
		logger = defLogger{}
	}
	if runtime == nil {
		runtime = ServerRuntime{}
	}
	cfg = cfg.withDefaults()

	return &CredentialStore{
		jar:        jar,
		runtime:    runtime,
		key:        cfg.TokenKey,
		domain:     cfg.CookieDomain,
		expiryDays: cfg.TokenExpiryDays,
		logger:     logger,
	}
}

// Key returns the fixed credential storage name.
func (s *CredentialStore) Key() string {
	return s.key
}

// Get returns the stored credential, or "" when absent or unavailable.
func (s *CredentialStore) Get() string {
	if !s.operable("get credential") {
		return ""
	}
	return s.jar.Get(s.key)
}

// Set persists the credential with the configured lifetime.
func (s *CredentialStore) Set(credential string, opts ...StoreOption) {
	if !s.operable("set credential") {
		return
	}
	if credential == "" {
		return
	}

	options := &storeOptions{expiryDays: s.expiryDays}
	for _, opt := range opts {
		opt(options)
	}

	s.jar.Set(&router.Cookie{
		Name:     s.key,
		Value:    credential,
		Path:     "/",
		Domain:   s.domain,
		Expires:  time.Now().Add(time.Duration(options.expiryDays) * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// Destroy removes the stored credential.
func (s *CredentialStore) Destroy() {
	if !s.operable("destroy credential") {
		return
	}
	s.jar.Delete(s.key)
}

func (s *CredentialStore) operable(op string) bool {
	if !s.runtime.IsClient() || s.jar == nil {
		s.logger.Warn("client storage not available, %s", op)
		return false
	}
	return true
}

// contextCookieJar adapts a router.Context into the CookieJar capability.
type contextCookieJar struct {
	ctx router.Context
}

// NewContextCookieJar wraps a request context so the credential store can
// read and write cookies on the active response.
func NewContextCookieJar(ctx router.Context) CookieJar {
	return &contextCookieJar{ctx: ctx}
}

func (j *contextCookieJar) Get(name string) string {
	return j.ctx.Cookies(name)
}

func (j *contextCookieJar) Set(cookie *router.Cookie) {
	j.ctx.Cookie(cookie)
}

func (j *contextCookieJar) Delete(name string) {
	j.ctx.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}
