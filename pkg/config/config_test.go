package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AIConfig(t *testing.T) {
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("AI_REQUEST_TIMEOUT", "5s")
	t.Setenv("OPENAI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, 5*time.Second, cfg.AI.RequestTimeout)
	assert.Equal(t, "test-key", cfg.OpenAI.APIKey)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1, cfg.AI.MaxRetries)
	assert.Equal(t, 20*time.Second, cfg.AI.RequestTimeout)
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "llama")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "AI_PROVIDER")
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("AI_CACHE_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.AI.CacheTTL)
}

func TestDatabaseDSN(t *testing.T) {
	t.Run("builds keyword DSN", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "docs", SSLMode: "disable"}
		assert.Equal(t, "host=db port=5433 user=u password=p dbname=docs sslmode=disable", cfg.DatabaseDSN())
	})

	t.Run("URL wins", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "db", URL: "postgres://u:p@db:5432/docs"}
		assert.Equal(t, "postgres://u:p@db:5432/docs", cfg.DatabaseDSN())
	})
}

func TestLoad_VaultMisconfigured(t *testing.T) {
	t.Setenv("VAULT_ENABLED", "true")
	t.Setenv("VAULT_ADDR", "")

	_, err := Load()
	assert.ErrorContains(t, err, "vault")
}
