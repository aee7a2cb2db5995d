package session

import "context"

// RequireLoggedIn returns a check that redirects anonymous visitors. An
// empty redirect falls back to the effective requirement target. Crawlers
// pass unless the route sets AllowBots false.
func RequireLoggedIn(redirect string) AuthCheck {
	return func(_ context.Context, in AuthCheckInput) (*AuthDecision, error) {
		if in.User != nil {
			return nil, nil
		}
		if in.IsSearchBot && botsExempt(in.Requirement) {
			return nil, nil
		}
		return RedirectTo(redirect), nil
	}
}

// RequireRole returns a check that redirects users below the minimum role.
// Anonymous visitors count as guests. Crawlers pass unless the route sets
// AllowBots false.
func RequireRole(minRole UserRole, redirect string) AuthCheck {
	return func(_ context.Context, in AuthCheckInput) (*AuthDecision, error) {
		if in.IsSearchBot && botsExempt(in.Requirement) {
			return nil, nil
		}

		role := RoleGuest
		if in.User != nil {
			role = in.User.Role
		}

		if RoleAtLeast(role, minRole) {
			return nil, nil
		}
		return RedirectTo(redirect), nil
	}
}

// RequireVerified returns a check that blocks users whose email is not yet
// verified, sending them to the given destination.
func RequireVerified(redirect string) AuthCheck {
	return func(_ context.Context, in AuthCheckInput) (*AuthDecision, error) {
		if in.User == nil || in.User.EmailVerified {
			return nil, nil
		}
		return RedirectTo(redirect), nil
	}
}
