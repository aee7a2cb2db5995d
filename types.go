package session

import (
	"context"
	"fmt"

	"github.com/goliatone/go-router"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// RuntimeContext tells session components which execution environment they
// operate in. Credential storage is only meaningful in a client runtime;
// everywhere else storage operations degrade to warned no-ops.
type RuntimeContext interface {
	// IsClient reports whether the runtime can hold client credentials.
	IsClient() bool
	// IsSearchBot reports whether the current visitor is a known crawler.
	IsSearchBot() bool
}

// ClientRuntime is the RuntimeContext for an interactive client.
type ClientRuntime struct {
	UserAgent string
}

func (r ClientRuntime) IsClient() bool {
	return true
}

func (r ClientRuntime) IsSearchBot() bool {
	return IsSearchBot(r.UserAgent)
}

// ServerRuntime is the RuntimeContext for server renders and background
// work, where no client credential storage exists.
type ServerRuntime struct{}

func (ServerRuntime) IsClient() bool {
	return false
}

func (ServerRuntime) IsSearchBot() bool {
	return false
}

// CookieJar is the storage capability backing CredentialStore. Applications
// adapt it over their transport context, see NewContextCookieJar.
type CookieJar interface {
	Get(name string) string
	Set(cookie *router.Cookie)
	Delete(name string)
}

// EndpointResponse is the status/data/code triple returned by user endpoints.
type EndpointResponse struct {
	Status string         `json:"status"`
	Data   *User          `json:"data,omitempty"`
	Code   string         `json:"code,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// Endpoint is the transport collaborator used to fetch or persist user
// records. The coordinator only depends on the request/response contract.
type Endpoint interface {
	Request(ctx context.Context, payload map[string]any) (*EndpointResponse, error)
}

// EndpointFunc adapts a function into an Endpoint.
type EndpointFunc func(ctx context.Context, payload map[string]any) (*EndpointResponse, error)

func (f EndpointFunc) Request(ctx context.Context, payload map[string]any) (*EndpointResponse, error) {
	if f == nil {
		return nil, ErrEndpointUnavailable
	}
	return f(ctx, payload)
}

// Router is the navigation collaborator. The pipeline waits for readiness
// before evaluating route authorization so it never runs against a
// half-installed route table.
type Router interface {
	IsReady(ctx context.Context) error
}

// RouterFunc adapts a readiness function into a Router.
type RouterFunc func(ctx context.Context) error

func (f RouterFunc) IsReady(ctx context.Context) error {
	if f == nil {
		return nil
	}
	return f(ctx)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
