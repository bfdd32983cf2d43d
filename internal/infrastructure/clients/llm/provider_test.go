package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/doctordirectory/pkg/config"
)

func TestNewProvider(t *testing.T) {
	t.Run("gemini", func(t *testing.T) {
		cfg := &config.Config{AI: config.AIConfig{Provider: "gemini"}, Gemini: config.GeminiConfig{APIKey: "k"}}
		provider, closeFn, err := NewProvider(cfg)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &GeminiClient{}, provider)
	})

	t.Run("openai", func(t *testing.T) {
		cfg := &config.Config{AI: config.AIConfig{Provider: "openai"}, OpenAI: config.OpenAIConfig{APIKey: "k"}}
		provider, closeFn, err := NewProvider(cfg)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &OpenAIClient{}, provider)
	})

	t.Run("missing key", func(t *testing.T) {
		_, _, err := NewProvider(&config.Config{AI: config.AIConfig{Provider: "gemini"}})
		assert.Error(t, err)
	})

	t.Run("disabled", func(t *testing.T) {
		provider, _, err := NewProvider(&config.Config{AI: config.AIConfig{Provider: "none"}})
		assert.ErrorIs(t, err, ErrProviderDisabled)
		assert.Nil(t, provider)
	})
}
