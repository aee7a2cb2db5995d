package session

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// TextCodeTokenError marks invalid, expired, or malformed credentials.
	// Matches the wire code the user-fetch endpoint returns for the same
	// condition, so both sides of the exchange speak one vocabulary.
	TextCodeTokenError = "TOKEN_ERROR"
	// TextCodeNetworkError marks endpoint fetch failures recovered locally.
	TextCodeNetworkError = "NETWORK_ERROR"
	// TextCodeAuthCheckError marks a route authorization check that failed.
	TextCodeAuthCheckError = "AUTH_CHECK_ERROR"
	// TextCodeStorageUnavailable marks storage calls in a non-client runtime.
	TextCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
)

// ErrTokenInvalid is returned when a credential is present but cannot be
// verified. It always triggers a forced logout, never a hard failure.
var ErrTokenInvalid = goerrors.New("invalid session credential", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenError).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenIncomplete is returned when token claims lack userId or email.
// Partially populated claims never become a half-authenticated session.
var ErrTokenIncomplete = goerrors.New("token missing userId or email", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenError).
	WithCode(goerrors.CodeUnauthorized)

// ErrEndpointUnavailable is returned when no endpoint collaborator was wired.
var ErrEndpointUnavailable = goerrors.New("user endpoint not configured", goerrors.CategoryOperation).
	WithTextCode(TextCodeNetworkError)

// ErrUnknownHook is returned when registering or running a hook name outside
// the closed set. A wrong name is a caller bug, not a silent no-op.
var ErrUnknownHook = goerrors.New("unknown hook name", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest)

// ErrStorageUnavailable is the warning-level condition for credential
// operations outside a client runtime. Callers receive an empty credential,
// never this error; it exists for logging and tests.
var ErrStorageUnavailable = goerrors.New("client storage not available", goerrors.CategoryOperation).
	WithTextCode(TextCodeStorageUnavailable)

// IsTokenError reports whether err carries the TOKEN_ERROR text code.
func IsTokenError(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == TextCodeTokenError
	}
	return strings.Contains(err.Error(), TextCodeTokenError)
}

// IsAuthCheckError reports whether err originated in a route auth check.
func IsAuthCheckError(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == TextCodeAuthCheckError
	}
	return false
}

func wrapTokenError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryAuth, ErrTokenInvalid.Message).
		WithTextCode(TextCodeTokenError).
		WithCode(goerrors.CodeUnauthorized)
}

func wrapCheckError(err error, checkID string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "route auth check failed").
		WithTextCode(TextCodeAuthCheckError).
		WithMetadata(map[string]any{"check": checkID})
}
