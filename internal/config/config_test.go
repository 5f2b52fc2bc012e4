package config_test

import (
	"testing"
	"time"

	"github.com/dom/postgram/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "2m")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 10, cfg.BcryptCost, "unparsable values fall back to the default")
}

func TestLoad_SecureCookiesOutsideDevelopment(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")

	t.Setenv("ENVIRONMENT", "development")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.False(t, cfg.CookieSecure)
	assert.True(t, cfg.IsDevelopment())

	t.Setenv("ENVIRONMENT", "production")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.CookieSecure)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			JWTSecret:        "a",
			JWTRefreshSecret: "b",
			AccessTokenTTL:   time.Minute,
			RefreshTokenTTL:  time.Hour,
			BcryptCost:       10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "missing access secret", mutate: func(c *config.Config) { c.JWTSecret = "" }, wantErr: true},
		{name: "missing refresh secret", mutate: func(c *config.Config) { c.JWTRefreshSecret = "" }, wantErr: true},
		{name: "shared secret", mutate: func(c *config.Config) { c.JWTRefreshSecret = c.JWTSecret }, wantErr: true},
		{name: "zero access ttl", mutate: func(c *config.Config) { c.AccessTokenTTL = 0 }, wantErr: true},
		{name: "refresh shorter than access", mutate: func(c *config.Config) { c.RefreshTokenTTL = 30 * time.Second }, wantErr: true},
		{name: "bcrypt cost too low", mutate: func(c *config.Config) { c.BcryptCost = 1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
