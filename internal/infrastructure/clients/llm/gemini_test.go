package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
	"github.com/zatekoja/doctordirectory/pkg/config"
)

const analysisJSON = `{"conditions":[{"name":"Migraine","specialty":"Neurology"}],"advice":"Rest.","disclaimer":"Not a diagnosis."}`

func geminiBody(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{"parts": []map[string]string{{"text": text}}}},
		},
	}
}

func newTestGeminiClient(t *testing.T, baseURL string, maxRetries int) *GeminiClient {
	t.Helper()
	client, err := NewGeminiClient(&config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "models/gemini-1.5-flash",
		BaseURL: baseURL,
	}, Options{Timeout: 2 * time.Second, MaxRetries: maxRetries})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(&config.GeminiConfig{}, Options{})
	assert.Error(t, err)
}

func TestGeminiClient_AnalyzeSymptoms(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.SystemInstruction)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "chest pain")
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(geminiBody("```json\n" + analysisJSON + "\n```"))
	}))
	defer server.Close()

	client := newTestGeminiClient(t, server.URL, 1)

	analysis, err := client.AnalyzeSymptoms(context.Background(), "chest pain when climbing stairs")

	require.NoError(t, err)
	require.Len(t, analysis.Conditions, 1)
	assert.Equal(t, "Neurology", analysis.Conditions[0].Specialty)
	assert.Equal(t, "Rest.", analysis.Advice)
}

func TestGeminiClient_RetriesOnceOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(geminiBody(analysisJSON))
	}))
	defer server.Close()

	client := newTestGeminiClient(t, server.URL, 1)

	analysis, err := client.AnalyzeSymptoms(context.Background(), "fever")

	require.NoError(t, err)
	assert.Len(t, analysis.Conditions, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGeminiClient_GivesUpAfterSingleRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestGeminiClient(t, server.URL, 1)

	_, err := client.AnalyzeSymptoms(context.Background(), "fever")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGeminiClient_UnauthorizedIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestGeminiClient(t, server.URL, 1)

	_, err := client.AnalyzeSymptoms(context.Background(), "fever")

	assert.ErrorIs(t, err, providers.ErrSymptomAnalysisUnauthorized)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGeminiClient_BlockedPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer server.Close()

	client := newTestGeminiClient(t, server.URL, 1)

	_, err := client.AnalyzeSymptoms(context.Background(), "fever")

	assert.ErrorIs(t, err, errEmptyOutput)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGeminiClient_MalformedModelTextDecodesEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(geminiBody("I am not able to answer that."))
	}))
	defer server.Close()

	client := newTestGeminiClient(t, server.URL, 0)

	analysis, err := client.AnalyzeSymptoms(context.Background(), "fever")

	require.NoError(t, err)
	assert.True(t, IsEmptyAnalysis(analysis))
}

func TestGeminiClient_ListModelsFollowsPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))

		if r.URL.Query().Get("pageToken") == "" {
			_, _ = w.Write([]byte(`{"models":[{"name":"models/gemini-1.5-flash","supportedGenerationMethods":["generateContent","countTokens"]}],"nextPageToken":"p2"}`))
			return
		}
		assert.Equal(t, "p2", r.URL.Query().Get("pageToken"))
		_, _ = w.Write([]byte(`{"models":[{"name":"models/embedding-001","supportedGenerationMethods":["embedContent"]}]}`))
	}))
	defer server.Close()

	client := newTestGeminiClient(t, server.URL, 0)

	models, err := client.ListModels(context.Background())

	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.True(t, models[0].SupportsGenerateContent())
	assert.False(t, models[1].SupportsGenerateContent())
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(&StatusError{StatusCode: http.StatusBadGateway}))
	assert.True(t, isTransient(&StatusError{StatusCode: http.StatusTooManyRequests}))
	assert.False(t, isTransient(&StatusError{StatusCode: http.StatusBadRequest}))
	assert.False(t, isTransient(context.Canceled))
	assert.False(t, isTransient(errEmptyOutput))
	assert.True(t, isTransient(context.DeadlineExceeded))
}
