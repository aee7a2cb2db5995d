package session

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenClaims is the wire shape of the client credential. The signed JSON
// payload carries exactly role, userId, and email; role may be empty but is
// always present. Registered claims stay unset so interop with older
// credentials is byte-exact.
type TokenClaims struct {
	jwt.RegisteredClaims
	Role   string `json:"role"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Codec issues and verifies the stateless client credential. Pure over its
// input and the configured secret; no side effects.
type Codec struct {
	secret []byte
	logger Logger
}

// NewCodec creates a credential codec from the shared token secret.
func NewCodec(secret []byte, logger Logger) *Codec {
	if logger == nil {
		logger = defLogger{}
	}
	return &Codec{
		secret: secret,
		logger: logger,
	}
}

// Issue signs a credential asserting the user's role, id, and email. The
// caller must supply userId and email; they are never defaulted.
func (c *Codec) Issue(user *User) (string, error) {
	if user == nil {
		return "", goerrors.New("user is required", goerrors.CategoryBadInput)
	}

	err := validation.Errors{
		"userId": validation.Validate(user.UserID, validation.Required),
		"email":  validation.Validate(user.Email, validation.Required),
	}.Filter()
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryBadInput, ErrTokenIncomplete.Message).
			WithTextCode(TextCodeTokenError)
	}

	claims := &TokenClaims{
		Role:   string(user.Role),
		UserID: user.UserID,
		Email:  user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign credential")
	}

	return signed, nil
}

// Verify parses and validates a credential, returning its claims. Any
// signature, expiry, or shape problem is a TOKEN_ERROR; partially populated
// claims never pass.
func (c *Codec) Verify(credential string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(credential, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			c.logger.Error("codec verify encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, wrapTokenError(err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		c.logger.Error("codec verify could not decode claims")
		return nil, ErrTokenInvalid
	}

	if claims.UserID == "" || claims.Email == "" {
		return nil, ErrTokenIncomplete
	}

	return claims, nil
}
