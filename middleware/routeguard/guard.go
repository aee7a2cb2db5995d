// Package routeguard injects a route authorization pipeline's navigation
// verdict into an HTTP router: allow continues the chain, block answers
// 403, redirect answers with the pipeline's destination.
package routeguard

import (
	"context"
	"net/http"

	"github.com/goliatone/go-router"
	session "github.com/goliatone/go-session"
)

// Evaluator yields a navigation verdict for a target location. It mirrors
// session.Pipeline without tying the middleware to the concrete type.
type Evaluator interface {
	Evaluate(ctx context.Context, target *session.Location) (session.Verdict, error)
}

// Resolver maps a request path to its matched route segments. It mirrors
// session.RouteTable.
type Resolver interface {
	Resolve(path string) *session.Location
}

type Config struct {
	// Pipeline is required and produces the verdict per request.
	Pipeline Evaluator
	// Routes is required and supplies the matched segments per path.
	Routes Resolver
	// Filter skips the guard for matching requests.
	Filter func(router.Context) bool
	// ErrorHandler answers pipeline failures; defaults to a 500.
	ErrorHandler router.ErrorHandler
	// BlockStatusCode answers silent blocks; defaults to 403.
	BlockStatusCode int
	Logger          session.Logger
}

func New(config ...Config) router.MiddlewareFunc {
	cfg := getDefaultConfig(config...)

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			target := cfg.Routes.Resolve(ctx.Path())

			verdict, err := cfg.Pipeline.Evaluate(ctx.Context(), target)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			switch verdict.Action {
			case session.VerdictBlock:
				cfg.Logger.Info("navigation blocked at %s (check %s)", target.Path, verdict.CheckID)
				return ctx.Status(cfg.BlockStatusCode).SendString("Forbidden")
			case session.VerdictRedirect:
				statusCode := http.StatusSeeOther
				if ctx.Method() == string(router.GET) {
					statusCode = http.StatusFound
				}
				return ctx.Redirect(verdict.Target, statusCode)
			default:
				return ctx.Next()
			}
		}
	}
}

func getDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Pipeline == nil {
		panic("SESSION: route guard configuration: Pipeline is required.")
	}

	if cfg.Routes == nil {
		panic("SESSION: route guard configuration: Routes is required.")
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			return c.Status(router.StatusInternalServerError).SendString("authorization failed")
		}
	}

	if cfg.BlockStatusCode == 0 {
		cfg.BlockStatusCode = http.StatusForbidden
	}

	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}

	return cfg
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
