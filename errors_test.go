package session_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	session "github.com/goliatone/go-session"
	"github.com/stretchr/testify/assert"
)

func TestIsTokenError(t *testing.T) {
	assert.True(t, session.IsTokenError(session.ErrTokenInvalid))
	assert.True(t, session.IsTokenError(session.ErrTokenIncomplete))

	codec := session.NewCodec([]byte("secret"), nil)
	_, err := codec.Verify("not.a.token")
	assert.True(t, session.IsTokenError(err))

	assert.False(t, session.IsTokenError(nil))
	assert.False(t, session.IsTokenError(errors.New("something else")))
	assert.False(t, session.IsTokenError(session.ErrEndpointUnavailable))
}

func TestIsAuthCheckError(t *testing.T) {
	assert.False(t, session.IsAuthCheckError(nil))
	assert.False(t, session.IsAuthCheckError(session.ErrTokenInvalid))
	assert.False(t, session.IsAuthCheckError(errors.New("plain")))
}

func TestTokenErrorsCarryWireCode(t *testing.T) {
	var rich *goerrors.Error
	assert.True(t, goerrors.As(session.ErrTokenInvalid, &rich))
	assert.Equal(t, session.TextCodeTokenError, rich.TextCode)
	assert.Equal(t, goerrors.CodeUnauthorized, rich.Code)

	assert.True(t, goerrors.As(session.ErrStorageUnavailable, &rich))
	assert.Equal(t, session.TextCodeStorageUnavailable, rich.TextCode)
}
