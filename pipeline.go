package session

import (
	"context"
	"strconv"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/sync/errgroup"
)

// DefaultRedirect is the baseline destination when a requirement blocks
// navigation without naming its own target.
const DefaultRedirect = "/"

// RouteAuthRequirement is the static authorization declared on a navigable
// segment. All fields are optional; Checks run in declaration order.
type RouteAuthRequirement struct {
	// Required redirects anonymous visitors to the effective redirect
	// target without needing an explicit check.
	Required bool
	// Redirect is the destination used when a check blocks without naming
	// its own.
	Redirect string
	// AllowBots exempts or subjects crawlers; nil inherits. The flag is
	// consulted by individual checks, not enforced centrally, since
	// crawling semantics vary per route.
	AllowBots *bool
	// Checks are the segment's ordered authorization callbacks.
	Checks []AuthCheck
}

// RouteSegment is one matched element of a navigation target, shallowest
// first.
type RouteSegment struct {
	Path string
	Auth *RouteAuthRequirement
}

// Location is a candidate navigation target with its matched segments.
type Location struct {
	Path    string
	Matched []RouteSegment
}

// AuthCheckInput is what each check sees: the resolved user, bot status,
// the target location, and the effective merged requirement.
type AuthCheckInput struct {
	User        *User
	IsSearchBot bool
	Route       *Location
	Requirement *RouteAuthRequirement
}

// AuthCheck decides whether a navigation is permitted. Returning a nil
// decision means "allow" in the sense of having no opinion. A check error
// indicates an authorization bug in the consuming route and propagates;
// authorization must not fail open.
type AuthCheck func(ctx context.Context, in AuthCheckInput) (*AuthDecision, error)

type decisionKind int

const (
	decisionBlock decisionKind = iota
	decisionRedirect
)

// AuthDecision is one check's navigation override. Construct with Block or
// RedirectTo; a nil *AuthDecision is "no opinion".
type AuthDecision struct {
	kind   decisionKind
	target string
}

// Block denies navigation silently, with no redirect.
func Block() *AuthDecision {
	return &AuthDecision{kind: decisionBlock}
}

// RedirectTo denies navigation and sends the visitor to path. An empty path
// falls back to the effective requirement's redirect target.
func RedirectTo(path string) *AuthDecision {
	return &AuthDecision{kind: decisionRedirect, target: path}
}

// VerdictAction is the pipeline outcome kind.
type VerdictAction string

const (
	VerdictAllow    VerdictAction = "allow"
	VerdictBlock    VerdictAction = "block"
	VerdictRedirect VerdictAction = "redirect"
)

// Verdict is the single navigation outcome for an evaluated target.
type Verdict struct {
	Action VerdictAction
	// Target is the redirect destination when Action is redirect.
	Target string
	// CheckID labels the check whose opinion decided the verdict.
	CheckID string
}

// Allowed reports whether the navigation may proceed unchanged.
func (v Verdict) Allowed() bool {
	return v.Action == VerdictAllow
}

// Pipeline evaluates route-level authorization for candidate navigations.
// It never mutates session state; its only side effect is logging the
// chosen redirect.
type Pipeline struct {
	init    *Initializer
	router  Router
	runtime RuntimeContext
	logger  Logger
}

// NewPipeline wires the pipeline with the initializer it awaits and the
// router collaborator whose readiness gates evaluation.
func NewPipeline(init *Initializer, rt Router, runtime RuntimeContext, logger Logger) *Pipeline {
	if logger == nil {
		logger = defLogger{}
	}
	if runtime == nil {
		runtime = ServerRuntime{}
	}
	return &Pipeline{
		init:    init,
		router:  rt,
		runtime: runtime,
		logger:  logger,
	}
}

// Evaluate runs every authorization check matched by the target and returns
// a single navigation verdict. It suspends on the initializer's shared
// operation first, so checks never see an in-flight or partial user.
func (p *Pipeline) Evaluate(ctx context.Context, target *Location) (Verdict, error) {
	user, err := p.init.EnsureInitialized(ctx)
	if err != nil {
		return Verdict{}, err
	}

	if p.router != nil {
		if err := p.router.IsReady(ctx); err != nil {
			return Verdict{}, goerrors.Wrap(err, goerrors.CategoryOperation, "router not ready")
		}
	}

	if target == nil || len(target.Matched) == 0 {
		return Verdict{Action: VerdictAllow}, nil
	}

	effective := mergeRequirements(target.Matched)

	input := AuthCheckInput{
		User:        user,
		IsSearchBot: p.runtime.IsSearchBot(),
		Route:       target,
		Requirement: effective,
	}

	type slot struct {
		id    string
		check AuthCheck
	}

	var slots []slot
	for _, seg := range target.Matched {
		if seg.Auth == nil {
			continue
		}
		if seg.Auth.Required {
			slots = append(slots, slot{id: seg.Path + ":required", check: requiredCheck})
		}
		for n, check := range seg.Auth.Checks {
			slots = append(slots, slot{id: checkID(seg.Path, n), check: check})
		}
	}

	// checks are order-insensitive in invocation; results keep match order
	results := make([]*AuthDecision, len(slots))
	g, gctx := errgroup.WithContext(ctx)
	for n, s := range slots {
		g.Go(func() error {
			decision, err := s.check(gctx, input)
			if err != nil {
				return wrapCheckError(err, s.id)
			}
			results[n] = decision
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Verdict{}, err
	}

	// deepest matched segment with an opinion wins
	for n := len(results) - 1; n >= 0; n-- {
		decision := results[n]
		if decision == nil {
			continue
		}

		switch decision.kind {
		case decisionBlock:
			return Verdict{Action: VerdictBlock, CheckID: slots[n].id}, nil
		case decisionRedirect:
			dest := decision.target
			if dest == "" {
				dest = effective.Redirect
			}
			p.logger.Info("auth required redirect to %s (check %s)", dest, slots[n].id)
			return Verdict{Action: VerdictRedirect, Target: dest, CheckID: slots[n].id}, nil
		}
	}

	return Verdict{Action: VerdictAllow}, nil
}

// mergeRequirements folds the matched segments' static fields left to
// right; deeper segments override shallower ones. The result always carries
// a redirect target, defaulting to "/".
func mergeRequirements(matched []RouteSegment) *RouteAuthRequirement {
	effective := &RouteAuthRequirement{Redirect: DefaultRedirect}

	for _, seg := range matched {
		if seg.Auth == nil {
			continue
		}
		if seg.Auth.Required {
			effective.Required = true
		}
		if seg.Auth.Redirect != "" {
			effective.Redirect = seg.Auth.Redirect
		}
		if seg.Auth.AllowBots != nil {
			effective.AllowBots = seg.Auth.AllowBots
		}
	}

	return effective
}

// requiredCheck is the implicit check behind the static Required field:
// anonymous visitors redirect to the baseline target. Crawlers are exempt
// unless the route opts them in with AllowBots false.
func requiredCheck(_ context.Context, in AuthCheckInput) (*AuthDecision, error) {
	if in.User != nil {
		return nil, nil
	}
	if in.IsSearchBot && botsExempt(in.Requirement) {
		return nil, nil
	}
	return RedirectTo(""), nil
}

func botsExempt(req *RouteAuthRequirement) bool {
	return req == nil || req.AllowBots == nil || *req.AllowBots
}

func checkID(path string, n int) string {
	if path == "" {
		path = "/"
	}
	return path + ":check:" + strconv.Itoa(n)
}
