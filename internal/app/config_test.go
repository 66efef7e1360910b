package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	accessSecret  = "app-access-secret-0123456789abcdefgh"
	refreshSecret = "app-refresh-secret-0123456789abcdefg"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", accessSecret)
	t.Setenv("JWT_REFRESH_SECRET", refreshSecret)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.AppAddr)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 100, cfg.RateLimitMaxRequests)
	assert.Equal(t, 10*time.Minute, cfg.ReportCacheTTL)
	assert.False(t, cfg.IsProduction())

	tokens := cfg.TokenConfig()
	assert.Equal(t, accessSecret, tokens.AccessSecret)
	assert.Equal(t, refreshSecret, tokens.RefreshSecret)
	assert.Equal(t, "student-api", tokens.Issuer)
}

func TestLoadConfigRejectsSharedSecret(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", accessSecret)
	t.Setenv("JWT_REFRESH_SECRET", accessSecret)

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{CORSOrigin: " https://a.example , https://b.example,"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())

	cfg.CORSOrigin = ""
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("WARNING").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "INFO", parseLevel("nonsense").String())
}
