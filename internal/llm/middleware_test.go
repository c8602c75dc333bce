package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/didi/internal/store"
)

type recordingEvents struct {
	store.EventRepo
	got []store.LLMRequestEventData
	err error
}

func (r *recordingEvents) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.got = append(r.got, data)
	return r.err
}

type namedMock struct {
	*MockProvider
	id string
}

func (n namedMock) ModelID() string { return n.id }

func TestLogging_RecordsCostAndSession(t *testing.T) {
	events := &recordingEvents{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"text":"ok"}`),
		Usage:   Usage{InputTokens: 1_000_000, OutputTokens: 1_000_000},
	})
	p := WithLogging(namedMock{mock, "gpt-4o-mini"}, ProviderOpenAI, events, nil)

	ctx := WithSession(WithPurpose(context.Background(), "phrase"), "s1")
	if _, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "hi"}}}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(events.got) != 1 {
		t.Fatalf("recorded %d events, want 1", len(events.got))
	}
	ev := events.got[0]
	if ev.Provider != "openai" || ev.Purpose != "phrase" || ev.SessionID != "s1" || !ev.Success {
		t.Errorf("event = %+v", ev)
	}
	// The mock reports its served model as "mock", which has no price.
	if ev.Model != "mock" || ev.CostUSD != 0 {
		t.Errorf("model/cost = %s/%v, want mock/0", ev.Model, ev.CostUSD)
	}
	if ev.RequestBody == "" || ev.ResponseBody != `{"text":"ok"}` {
		t.Errorf("bodies = %q / %q", ev.RequestBody, ev.ResponseBody)
	}
}

func TestLogging_FailureStillRecorded(t *testing.T) {
	events := &recordingEvents{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Err: &Error{Kind: ErrRateLimited, Err: errors.New("429")}})
	p := WithLogging(mock, ProviderMock, events, nil)

	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
	if len(events.got) != 1 || events.got[0].Success || events.got[0].ErrorMessage == "" {
		t.Errorf("events = %+v", events.got)
	}
}

func TestLogging_NilEvents(t *testing.T) {
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), ProviderMock, nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if WithTimeout(slowProvider{}, 0) != (slowProvider{}) {
		t.Error("zero timeout should not wrap")
	}
}

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		known bool
	}{
		{"gpt-4o-mini", true},
		{"openai/gpt-4o-mini", true},
		{"models/gemini-2.5-flash", true},
		{"google/gemini-2.5-flash", true},
		{"mock", false},
	}
	for _, tt := range tests {
		if got := LookupCost(tt.model) != nil; got != tt.known {
			t.Errorf("LookupCost(%q) known = %v, want %v", tt.model, got, tt.known)
		}
	}
	c := LookupCost("gpt-4o-mini")
	if got := c.Cost(1_000_000, 1_000_000); got < 0.749 || got > 0.751 {
		t.Errorf("cost = %v, want 0.75", got)
	}
}

func TestMockProvider_Respond(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`"first"`)})
	mock.Respond = func(req Request) MockResponse {
		return MockResponse{Content: json.RawMessage(`"` + req.System + `"`)}
	}
	for _, want := range []string{`"first"`, `"a"`, `"b"`} {
		sys := "a"
		if want == `"b"` {
			sys = "b"
		}
		resp, err := mock.Generate(context.Background(), Request{System: sys})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if string(resp.Content) != want {
			t.Errorf("content = %s, want %s", resp.Content, want)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DIDI_LLM_PROVIDER", "openrouter")
	t.Setenv("DIDI_OPENROUTER_API_KEY", "sk-or")
	t.Setenv("DIDI_OPENROUTER_MODEL", "openai/gpt-4o-mini")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderOpenRouter || cfg.OpenRouter.APIKey != "sk-or" || cfg.OpenRouter.Model != "openai/gpt-4o-mini" {
		t.Errorf("cfg = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
	if !cfg.Enabled() {
		t.Error("openrouter should be enabled")
	}
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	p, err := NewProvider(ctx, DefaultConfig(), nil, nil)
	if err != nil || p != nil {
		t.Fatalf("none provider = %v, %v; want nil, nil", p, err)
	}

	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenRouter
	cfg.OpenRouter.APIKey = "sk-or"
	p, err = NewProvider(ctx, cfg, nil, nil)
	if err != nil {
		t.Fatalf("openrouter: %v", err)
	}
	if p.ModelID() != "google/gemini-2.5-flash" {
		t.Errorf("model = %q", p.ModelID())
	}

	cfg.OpenRouter.APIKey = ""
	if _, err := NewProvider(ctx, cfg, nil, nil); err == nil {
		t.Error("missing key should fail")
	}
}
