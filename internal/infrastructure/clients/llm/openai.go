package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/pkg/config"
)

const (
	openAIProvider       = "openai"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
)

// OpenAIClient calls the OpenAI responses API.
type OpenAIClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	caller     *caller
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(cfg *config.OpenAIConfig, opts Options) (*OpenAIClient, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	opts.RateLimitRPM = cfg.RateLimitRPM
	opts.RateLimitBurst = cfg.RateLimitBurst

	return &OpenAIClient{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: &http.Client{},
		caller:     newCaller(openAIProvider, model, opts),
	}, nil
}

type responseContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responseOutput struct {
	Content []responseContent `json:"content"`
}

type responseEnvelope struct {
	Output []responseOutput `json:"output"`
}

// AnalyzeSymptoms asks the model for conditions and specialties matching the symptoms
func (c *OpenAIClient) AnalyzeSymptoms(ctx context.Context, symptoms string) (*entities.SymptomAnalysis, error) {
	payload := map[string]interface{}{
		"model": c.model,
		"input": []map[string]string{
			{"role": "system", "content": SymptomSystemPrompt},
			{"role": "user", "content": BuildSymptomUserPrompt(symptoms)},
		},
		"temperature":       0.2,
		"max_output_tokens": 800,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	text, err := c.caller.call(ctx, func(ctx context.Context) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
		if err != nil {
			return "", err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			recordAIMetric(ctx, openAIProvider, c.model, 0, time.Since(start), err)
			return "", err
		}
		defer resp.Body.Close()

		if err := checkStatus(openAIProvider, resp.StatusCode); err != nil {
			recordAIMetric(ctx, openAIProvider, c.model, resp.StatusCode, time.Since(start), err)
			return "", err
		}

		var envelope responseEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			recordAIMetric(ctx, openAIProvider, c.model, resp.StatusCode, time.Since(start), err)
			return "", fmt.Errorf("failed to decode openai response: %w", err)
		}

		text := envelope.firstText()
		if text == "" {
			recordAIMetric(ctx, openAIProvider, c.model, resp.StatusCode, time.Since(start), errEmptyOutput)
			return "", errEmptyOutput
		}

		recordAIMetric(ctx, openAIProvider, c.model, resp.StatusCode, time.Since(start), nil)
		return text, nil
	})
	if err != nil {
		return nil, err
	}

	return DecodeAnalysis(text), nil
}

func (e *responseEnvelope) firstText() string {
	for _, out := range e.Output {
		for _, content := range out.Content {
			if content.Type == "output_text" && strings.TrimSpace(content.Text) != "" {
				return content.Text
			}
		}
	}
	return ""
}

// Close releases the rate limiter
func (c *OpenAIClient) Close() {
	c.caller.limiter.Close()
}
