package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
	"github.com/zatekoja/doctordirectory/pkg/config"
)

const (
	geminiProvider       = "gemini"
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-1.5-flash"
)

// GeminiClient calls the generative-language generateContent API.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	caller     *caller
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(cfg *config.GeminiConfig, opts Options) (*GeminiClient, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	model := strings.TrimPrefix(cfg.Model, "models/")
	if model == "" {
		model = defaultGeminiModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	opts.RateLimitRPM = cfg.RateLimitRPM
	opts.RateLimitBurst = cfg.RateLimitBurst

	return &GeminiClient{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: &http.Client{},
		caller:     newCaller(geminiProvider, model, opts),
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// AnalyzeSymptoms asks the model for conditions and specialties matching the symptoms
func (c *GeminiClient) AnalyzeSymptoms(ctx context.Context, symptoms string) (*entities.SymptomAnalysis, error) {
	text, err := c.Generate(ctx, SymptomSystemPrompt, BuildSymptomUserPrompt(symptoms))
	if err != nil {
		return nil, err
	}
	return DecodeAnalysis(text), nil
}

// Generate returns the raw text of the first candidate
func (c *GeminiClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: userPrompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      0.2,
			MaxOutputTokens:  800,
			ResponseMimeType: "application/json",
		},
	}
	if systemPrompt != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))

	return c.caller.call(ctx, func(ctx context.Context) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return "", err
		}
		req.Header.Set("x-goog-api-key", c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			recordAIMetric(ctx, geminiProvider, c.model, 0, time.Since(start), err)
			return "", err
		}
		defer resp.Body.Close()

		if err := checkStatus(geminiProvider, resp.StatusCode); err != nil {
			recordAIMetric(ctx, geminiProvider, c.model, resp.StatusCode, time.Since(start), err)
			return "", err
		}

		var envelope geminiResponse
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			recordAIMetric(ctx, geminiProvider, c.model, resp.StatusCode, time.Since(start), err)
			return "", fmt.Errorf("failed to decode gemini response: %w", err)
		}

		text := envelope.firstText()
		if text == "" {
			err := errEmptyOutput
			if envelope.PromptFeedback.BlockReason != "" {
				err = fmt.Errorf("%w: prompt blocked (%s)", errEmptyOutput, envelope.PromptFeedback.BlockReason)
			}
			recordAIMetric(ctx, geminiProvider, c.model, resp.StatusCode, time.Since(start), err)
			return "", err
		}

		recordAIMetric(ctx, geminiProvider, c.model, resp.StatusCode, time.Since(start), nil)
		return text, nil
	})
}

func (r *geminiResponse) firstText() string {
	for _, candidate := range r.Candidates {
		var sb strings.Builder
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return text
		}
	}
	return ""
}

// ModelInfo describes one model available to the API key
type ModelInfo struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

// SupportsGenerateContent reports whether the model can serve generateContent
func (m ModelInfo) SupportsGenerateContent() bool {
	for _, method := range m.SupportedGenerationMethods {
		if method == "generateContent" {
			return true
		}
	}
	return false
}

type listModelsResponse struct {
	Models        []ModelInfo `json:"models"`
	NextPageToken string      `json:"nextPageToken"`
}

// ListModels returns every model visible to the API key, following pagination
func (c *GeminiClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo
	pageToken := ""

	for {
		query := url.Values{"pageSize": {"100"}}
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models?"+query.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}

		var page listModelsResponse
		err = checkStatus(geminiProvider, resp.StatusCode)
		if err == nil {
			err = json.NewDecoder(resp.Body).Decode(&page)
		}
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		models = append(models, page.Models...)
		if page.NextPageToken == "" {
			return models, nil
		}
		pageToken = page.NextPageToken
	}
}

// Close releases the rate limiter
func (c *GeminiClient) Close() {
	c.caller.limiter.Close()
}

func checkStatus(provider string, status int) error {
	if status >= 200 && status < 300 {
		return nil
	}
	statusErr := &StatusError{Provider: provider, StatusCode: status}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf("%w: %v", providers.ErrSymptomAnalysisUnauthorized, statusErr)
	}
	return statusErr
}
