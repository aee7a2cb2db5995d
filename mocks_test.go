package session_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-router"
	session "github.com/goliatone/go-session"
)

// memoryJar is an in-memory CookieJar honoring cookie expiry.
type memoryJar struct {
	mu      sync.Mutex
	cookies map[string]*router.Cookie
}

func newMemoryJar() *memoryJar {
	return &memoryJar{cookies: make(map[string]*router.Cookie)}
}

func (j *memoryJar) Get(name string) string {
	j.mu.Lock()
	defer j.mu.Unlock()

	cookie, ok := j.cookies[name]
	if !ok {
		return ""
	}
	if !cookie.Expires.IsZero() && cookie.Expires.Before(time.Now()) {
		return ""
	}
	return cookie.Value
}

func (j *memoryJar) Set(cookie *router.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies[cookie.Name] = cookie
}

func (j *memoryJar) Delete(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.cookies, name)
}

func (j *memoryJar) cookie(name string) *router.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cookies[name]
}

// recordingLogger captures formatted log lines per level.
type recordingLogger struct {
	mu      sync.Mutex
	entries map[string][]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{entries: make(map[string][]string)}
}

func (l *recordingLogger) record(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[level] = append(l.entries[level], fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debug(format string, args ...any) { l.record("debug", format, args...) }
func (l *recordingLogger) Info(format string, args ...any)  { l.record("info", format, args...) }
func (l *recordingLogger) Warn(format string, args ...any)  { l.record("warn", format, args...) }
func (l *recordingLogger) Error(format string, args ...any) { l.record("error", format, args...) }

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries[level])
}

// stubEndpoint counts requests and optionally blocks until released.
type stubEndpoint struct {
	calls   atomic.Int32
	resp    *session.EndpointResponse
	err     error
	release chan struct{}

	mu         sync.Mutex
	lastTokens []string
}

func (e *stubEndpoint) Request(ctx context.Context, payload map[string]any) (*session.EndpointResponse, error) {
	e.calls.Add(1)

	if token, ok := payload["token"].(string); ok {
		e.mu.Lock()
		e.lastTokens = append(e.lastTokens, token)
		e.mu.Unlock()
	}

	if e.release != nil {
		select {
		case <-e.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if e.err != nil {
		return nil, e.err
	}
	return e.resp, nil
}

func successResponse(user *session.User) *session.EndpointResponse {
	return &session.EndpointResponse{Status: "success", Data: user}
}

func tokenErrorResponse() *session.EndpointResponse {
	return &session.EndpointResponse{Status: "error", Code: "TOKEN_ERROR"}
}

func testConfig() *session.Config {
	return &session.Config{TokenSecret: "test-signing-secret"}
}

func testUser() *session.User {
	return &session.User{
		UserID: "3ddd6e87-4bb5-47aa-9f3b-5d1f0f2c9f10",
		Email:  "ada@example.com",
		Role:   session.RoleMember,
	}
}

// seedCredential stores a valid credential for the user in the jar, the way
// a prior login would have.
func seedCredential(jar *memoryJar, cfg *session.Config, user *session.User) string {
	codec := session.NewCodec([]byte(cfg.TokenSecret), nil)
	token, err := codec.Issue(user)
	if err != nil {
		panic(err)
	}
	jar.Set(&router.Cookie{
		Name:    session.DefaultTokenKey,
		Value:   token,
		Expires: time.Now().Add(24 * time.Hour),
	})
	return token
}

func clientManager(cfg *session.Config, jar *memoryJar, endpoint session.Endpoint) *session.Manager {
	return session.New(cfg).
		WithRuntime(session.ClientRuntime{UserAgent: "test-agent"}).
		WithCookieJar(jar).
		WithCurrentUserEndpoint(endpoint)
}
