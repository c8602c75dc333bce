package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouterProvider_AttributionHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		chatCompletion(w, `{"text":"Sahi jawab hai 12."}`, "stop")
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "google/gemini-2.5-flash",
		BaseURL: server.URL + "/v1",
	})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), phraseRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"Sahi jawab hai 12."}`, string(resp.Content))

	assert.Equal(t, openRouterReferer, got.Get("HTTP-Referer"))
	assert.Equal(t, "Didi", got.Get("X-Title"))
	assert.Equal(t, "Bearer sk-or-test", got.Get("Authorization"))
}

func TestNewOpenRouterProvider(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.5-flash"})
	assert.Error(t, err, "missing key")

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "anthropic/claude-3-haiku"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-3-haiku", p.ModelID(), "vendor IDs pass through")
	assert.False(t, p.strict)
	assert.Equal(t, ProviderOpenRouter, p.name)
}
