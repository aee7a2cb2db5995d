package session_test

import (
	"testing"

	session "github.com/goliatone/go-session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Run("reads the environment", func(t *testing.T) {
		t.Setenv("TOKEN_SECRET", "env-secret")
		t.Setenv("SESSION_TOKEN_KEY", "CustomKey")
		t.Setenv("SESSION_TOKEN_EXPIRY_DAYS", "30")
		t.Setenv("SESSION_COOKIE_DOMAIN", ".example.com")

		cfg, err := session.ConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "env-secret", cfg.TokenSecret)
		assert.Equal(t, "CustomKey", cfg.TokenKey)
		assert.Equal(t, 30, cfg.TokenExpiryDays)
		assert.Equal(t, ".example.com", cfg.CookieDomain)
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("TOKEN_SECRET", "env-secret")

		cfg, err := session.ConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, session.DefaultTokenKey, cfg.TokenKey)
		assert.Equal(t, session.DefaultTokenExpiryDays, cfg.TokenExpiryDays)
	})

	t.Run("missing secret fails validation", func(t *testing.T) {
		t.Setenv("TOKEN_SECRET", "")

		_, err := session.ConfigFromEnv()
		require.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("secret is required", func(t *testing.T) {
		err := (&session.Config{}).Validate()
		require.Error(t, err)
	})

	t.Run("minimal config passes", func(t *testing.T) {
		assert.NoError(t, testConfig().Validate())
	})

	t.Run("negative expiry rejected", func(t *testing.T) {
		cfg := testConfig()
		cfg.TokenExpiryDays = -1
		require.Error(t, cfg.Validate())
	})
}
