package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_Script(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"text":"Namaste!"}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Err: &Error{Kind: ErrRateLimited, Provider: ProviderMock, Status: 429}},
	)
	ctx := context.Background()

	resp, err := mock.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "start"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"Namaste!"}`, string(resp.Content))
	assert.Equal(t, 10, resp.Usage.InputTokens)
	assert.Equal(t, "end", resp.StopReason)
	assert.Equal(t, "mock", resp.Model)

	_, err = mock.Generate(ctx, Request{})
	assert.ErrorIs(t, err, ErrRateLimited)

	// Script exhausted and no Respond.
	_, err = mock.Generate(ctx, Request{})
	assert.ErrorIs(t, err, ErrUnavailable)

	require.Equal(t, 3, mock.CallCount())
	assert.Equal(t, "sys", mock.Calls[0].System)
	assert.Equal(t, "mock", mock.ModelID())
}

func TestMockProvider_AddResponse(t *testing.T) {
	mock := NewMockProvider()
	mock.AddResponse(MockResponse{Content: json.RawMessage(`{"text":"Chaliye."}`)})

	resp, err := mock.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"Chaliye."}`, string(resp.Content))
}

func TestError_Matching(t *testing.T) {
	cause := errors.New("connection reset")
	err := error(&Error{Kind: ErrUnavailable, Provider: ProviderGemini, Status: 503, Err: cause})

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, "llm gemini: provider unavailable (status 503): connection reset", err.Error())

	wrapped := errors.Join(errors.New("phrase"), err)
	var llmErr *Error
	require.ErrorAs(t, wrapped, &llmErr)
	assert.Equal(t, 503, llmErr.Status)
}

func TestRequestContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Empty(t, SessionFrom(ctx))
	assert.Empty(t, endUser(ctx))

	ctx = WithSession(WithPurpose(ctx, "phrase"), "0b8f-session")
	assert.Equal(t, "phrase", PurposeFrom(ctx))
	assert.Equal(t, "0b8f-session", SessionFrom(ctx))

	u := endUser(ctx)
	assert.Len(t, u, len("didi-")+16)
	assert.NotContains(t, u, "0b8f")
	assert.Equal(t, u, endUser(WithSession(context.Background(), "0b8f-session")), "stable per session")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"anthropic without key", Config{Provider: ProviderAnthropic}, "DIDI_ANTHROPIC_API_KEY"},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "sk-test"}}, ""},
		{"openai without key", Config{Provider: ProviderOpenAI}, "DIDI_OPENAI_API_KEY"},
		{"gemini without key", Config{Provider: ProviderGemini}, "DIDI_GEMINI_API_KEY"},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, "DIDI_OPENROUTER_API_KEY"},
		{"none", Config{Provider: ProviderNone}, ""},
		{"mock", Config{Provider: ProviderMock}, ""},
		{"unknown provider", Config{Provider: "bard"}, "unknown LLM provider"},
		{"negative retries", Config{Provider: ProviderMock, Retry: RetryConfig{MaxAttempts: -1}}, "max_attempts"},
		{"temperature", Config{Provider: ProviderMock, Temperature: 1.5}, "temperature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	cfg := DefaultConfig()
	assert.False(t, DiscoverConfig(&cfg))
	assert.False(t, cfg.Enabled())

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENROUTER_API_KEY", "sk-or")
	require.True(t, DiscoverConfig(&cfg))
	assert.Equal(t, ProviderAnthropic, cfg.Provider, "anthropic is probed before openrouter")
	assert.Equal(t, "sk-ant", cfg.Anthropic.APIKey)
	assert.NoError(t, cfg.Validate())
}
