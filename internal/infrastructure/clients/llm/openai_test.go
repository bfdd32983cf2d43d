package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/doctordirectory/pkg/config"
)

func TestOpenAIClient_AnalyzeSymptoms(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "gpt-4o-mini", payload["model"])
		input, ok := payload["input"].([]interface{})
		require.True(t, ok)
		assert.Len(t, input, 2)

		resp := map[string]interface{}{
			"output": []map[string]interface{}{
				{"content": []map[string]string{{"type": "output_text", "text": analysisJSON}}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewOpenAIClient(&config.OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL}, Options{Timeout: time.Second})
	require.NoError(t, err)
	defer client.Close()

	analysis, err := client.AnalyzeSymptoms(context.Background(), "migraine")

	require.NoError(t, err)
	require.Len(t, analysis.Conditions, 1)
	assert.Equal(t, "Migraine", analysis.Conditions[0].Name)
}

func TestOpenAIClient_MissingOutputText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output":[{"content":[{"type":"refusal","text":"no"}]}]}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(&config.OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL}, Options{Timeout: time.Second, MaxRetries: 1})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.AnalyzeSymptoms(context.Background(), "migraine")

	assert.ErrorIs(t, err, errEmptyOutput)
}
