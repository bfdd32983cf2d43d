package llm

import (
	"errors"
	"fmt"

	"github.com/zatekoja/doctordirectory/internal/domain/providers"
	"github.com/zatekoja/doctordirectory/pkg/config"
)

// ErrProviderDisabled is returned when AI_PROVIDER is "none"
var ErrProviderDisabled = errors.New("symptom analysis provider disabled")

// NewProvider builds the symptom analysis provider selected by configuration.
// The returned close function releases the provider's rate limiter.
func NewProvider(cfg *config.Config) (providers.SymptomAnalysisProvider, func(), error) {
	opts := Options{
		Timeout:    cfg.AI.RequestTimeout,
		MaxRetries: cfg.AI.MaxRetries,
	}

	switch cfg.AI.Provider {
	case geminiProvider:
		client, err := NewGeminiClient(&cfg.Gemini, opts)
		if err != nil {
			return nil, func() {}, err
		}
		return client, client.Close, nil
	case openAIProvider:
		client, err := NewOpenAIClient(&cfg.OpenAI, opts)
		if err != nil {
			return nil, func() {}, err
		}
		return client, client.Close, nil
	case "none", "":
		return nil, func() {}, ErrProviderDisabled
	default:
		return nil, func() {}, fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}
}
