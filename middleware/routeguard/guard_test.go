package routeguard_test

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/goliatone/go-router"
	session "github.com/goliatone/go-session"
	"github.com/goliatone/go-session/middleware/routeguard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEvaluator returns a fixed verdict or error for every target.
type stubEvaluator struct {
	verdict session.Verdict
	err     error
	target  *session.Location
}

func (s *stubEvaluator) Evaluate(_ context.Context, target *session.Location) (session.Verdict, error) {
	s.target = target
	return s.verdict, s.err
}

type stubResolver struct{}

func (stubResolver) Resolve(path string) *session.Location {
	return &session.Location{Path: path}
}

// guardContext implements router.Context recording the calls the guard makes.
type guardContext struct {
	path   string
	method string

	nextCalled bool
	statusCode int
	sentBody   string
	redirectTo string
	redirectSt []int
}

func newGuardContext(method, path string) *guardContext {
	return &guardContext{method: method, path: path}
}

func (c *guardContext) Next() error {
	c.nextCalled = true
	return nil
}

func (c *guardContext) Context() context.Context  { return context.Background() }
func (c *guardContext) SetContext(context.Context) {}
func (c *guardContext) Path() string              { return c.path }
func (c *guardContext) Method() string            { return c.method }
func (c *guardContext) Body() []byte              { return nil }

func (c *guardContext) Status(code int) router.Context {
	c.statusCode = code
	return c
}

func (c *guardContext) SendString(s string) error {
	c.sentBody = s
	return nil
}

func (c *guardContext) Send([]byte) error { return nil }

func (c *guardContext) JSON(int, any) error       { return nil }
func (c *guardContext) NoContent(int) error       { return nil }
func (c *guardContext) Render(string, any, ...string) error {
	return nil
}

func (c *guardContext) Redirect(path string, status ...int) error {
	c.redirectTo = path
	c.redirectSt = status
	return nil
}

func (c *guardContext) RedirectToRoute(string, router.ViewContext, ...int) error { return nil }
func (c *guardContext) RedirectBack(string, ...int) error                        { return nil }

func (c *guardContext) SetHeader(string, string) router.Context { return c }
func (c *guardContext) Header(string) string                    { return "" }
func (c *guardContext) Get(_ string, def any) any               { return def }
func (c *guardContext) GetBool(_ string, def bool) bool         { return def }
func (c *guardContext) GetInt(_ string, def int) int            { return def }
func (c *guardContext) Set(string, any)                         {}
func (c *guardContext) Bind(any) error                          { return nil }
func (c *guardContext) BindJSON(any) error                      { return nil }
func (c *guardContext) BindXML(any) error                       { return nil }
func (c *guardContext) BindQuery(any) error                     { return nil }
func (c *guardContext) CookieParser(any) error                  { return nil }
func (c *guardContext) Cookie(*router.Cookie)                   {}
func (c *guardContext) Cookies(string, ...string) string        { return "" }
func (c *guardContext) Param(string, ...string) string          { return "" }
func (c *guardContext) ParamsInt(_ string, def int) int         { return def }
func (c *guardContext) Query(_ string, def ...string) string {
	if len(def) > 0 {
		return def[0]
	}
	return ""
}
func (c *guardContext) QueryInt(_ string, def int) int          { return def }
func (c *guardContext) Queries() map[string]string              { return nil }
func (c *guardContext) GetString(_ string, def string) string   { return def }
func (c *guardContext) Locals(any, ...any) any                  { return nil }
func (c *guardContext) OriginalURL() string                     { return c.path }
func (c *guardContext) OnNext(func() error)                     {}
func (c *guardContext) Referer() string                         { return "" }
func (c *guardContext) QueryValues(string) []string             { return nil }
func (c *guardContext) LocalsMerge(any, map[string]any) map[string]any {
	return nil
}
func (c *guardContext) FormFile(string) (*multipart.FileHeader, error) { return nil, nil }
func (c *guardContext) FormValue(_ string, def ...string) string {
	if len(def) > 0 {
		return def[0]
	}
	return ""
}
func (c *guardContext) IP() string                      { return "" }
func (c *guardContext) SendStatus(code int) error       { c.statusCode = code; return nil }
func (c *guardContext) SendStream(io.Reader) error      { return nil }
func (c *guardContext) RouteName() string               { return "" }
func (c *guardContext) RouteParams() map[string]string  { return nil }

func runGuard(t *testing.T, cfg routeguard.Config, ctx router.Context) error {
	t.Helper()
	middleware := routeguard.New(cfg)
	handler := middleware(func(c router.Context) error { return c.Next() })
	return handler(ctx)
}

func TestRouteGuard_Allow(t *testing.T) {
	eval := &stubEvaluator{verdict: session.Verdict{Action: session.VerdictAllow}}
	ctx := newGuardContext("GET", "/open")

	err := runGuard(t, routeguard.Config{Pipeline: eval, Routes: stubResolver{}}, ctx)
	require.NoError(t, err)
	assert.True(t, ctx.nextCalled)
	require.NotNil(t, eval.target)
	assert.Equal(t, "/open", eval.target.Path)
}

func TestRouteGuard_Block(t *testing.T) {
	eval := &stubEvaluator{verdict: session.Verdict{Action: session.VerdictBlock}}
	ctx := newGuardContext("GET", "/private")

	err := runGuard(t, routeguard.Config{Pipeline: eval, Routes: stubResolver{}}, ctx)
	require.NoError(t, err)
	assert.False(t, ctx.nextCalled)
	assert.Equal(t, http.StatusForbidden, ctx.statusCode)
	assert.Equal(t, "Forbidden", ctx.sentBody)
}

func TestRouteGuard_BlockStatusOverride(t *testing.T) {
	eval := &stubEvaluator{verdict: session.Verdict{Action: session.VerdictBlock}}
	ctx := newGuardContext("GET", "/private")

	err := runGuard(t, routeguard.Config{
		Pipeline:        eval,
		Routes:          stubResolver{},
		BlockStatusCode: http.StatusNotFound,
	}, ctx)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, ctx.statusCode)
}

func TestRouteGuard_Redirect(t *testing.T) {
	eval := &stubEvaluator{verdict: session.Verdict{
		Action: session.VerdictRedirect,
		Target: "/login",
	}}

	t.Run("GET uses found", func(t *testing.T) {
		ctx := newGuardContext("GET", "/private")
		err := runGuard(t, routeguard.Config{Pipeline: eval, Routes: stubResolver{}}, ctx)
		require.NoError(t, err)
		assert.Equal(t, "/login", ctx.redirectTo)
		assert.Equal(t, []int{http.StatusFound}, ctx.redirectSt)
	})

	t.Run("POST uses see other", func(t *testing.T) {
		ctx := newGuardContext("POST", "/private")
		err := runGuard(t, routeguard.Config{Pipeline: eval, Routes: stubResolver{}}, ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{http.StatusSeeOther}, ctx.redirectSt)
	})
}

func TestRouteGuard_Filter(t *testing.T) {
	eval := &stubEvaluator{verdict: session.Verdict{Action: session.VerdictBlock}}
	ctx := newGuardContext("GET", "/healthz")

	err := runGuard(t, routeguard.Config{
		Pipeline: eval,
		Routes:   stubResolver{},
		Filter: func(c router.Context) bool {
			return c.Path() == "/healthz"
		},
	}, ctx)
	require.NoError(t, err)
	assert.True(t, ctx.nextCalled)
	assert.Nil(t, eval.target)
}

func TestRouteGuard_ErrorHandler(t *testing.T) {
	boom := errors.New("evaluation failed")
	eval := &stubEvaluator{err: boom}

	t.Run("custom handler sees the error", func(t *testing.T) {
		var handled error
		ctx := newGuardContext("GET", "/private")
		err := runGuard(t, routeguard.Config{
			Pipeline: eval,
			Routes:   stubResolver{},
			ErrorHandler: func(c router.Context, err error) error {
				handled = err
				return nil
			},
		}, ctx)
		require.NoError(t, err)
		assert.ErrorIs(t, handled, boom)
	})

	t.Run("default handler answers 500", func(t *testing.T) {
		ctx := newGuardContext("GET", "/private")
		err := runGuard(t, routeguard.Config{Pipeline: eval, Routes: stubResolver{}}, ctx)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, ctx.statusCode)
	})
}

func TestRouteGuard_RequiredConfig(t *testing.T) {
	assert.Panics(t, func() {
		routeguard.New(routeguard.Config{Routes: stubResolver{}})
	})
	assert.Panics(t, func() {
		routeguard.New(routeguard.Config{Pipeline: &stubEvaluator{}})
	})
}
