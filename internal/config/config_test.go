package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_SecureCookiesDefaultsOn(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tt")
	t.Setenv("COOKIE_SECURE", "")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.True(t, cfg.SecureCookies)
}

func TestLoad_SecureCookiesOptOut(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tt")
	t.Setenv("COOKIE_SECURE", "false")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.False(t, cfg.SecureCookies)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestIsAdminEmail(t *testing.T) {
	cfg := &Config{AdminEmails: []string{"boss@example.com"}}
	assert.True(t, cfg.IsAdminEmail("Boss@Example.com"))
	assert.True(t, cfg.IsAdminEmail("  boss@example.com "))
	assert.False(t, cfg.IsAdminEmail("intern@example.com"))
}
