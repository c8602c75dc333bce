// Package llm is the thin client layer the phrasing package talks to. Each
// vendor adapter turns a Request into one API call and hands back output
// that has already been checked against the request's JSON schema.
// Middleware adds logging with cost, retries and a deadline.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates text for the phrasing layer. Implementations must be
// safe for concurrent use: turns for different sessions call Generate in
// parallel.
type Provider interface {
	// Generate sends a prompt and returns the model's output. With a
	// Schema, Content is JSON validated against it; failures are *Error
	// values matching one of the Err* kinds.
	Generate(ctx context.Context, req Request) (*Response, error)

	ModelID() string
}

type Request struct {
	System string

	// Messages is the conversation. Phrasing sends one user message that
	// already carries the recent turns.
	Messages []Message

	// Schema, when set, switches the vendor to structured output and the
	// reply is validated locally as well.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the vendor default for Anthropic
	// and Gemini.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a JSON Schema with the name and description some vendors
// require alongside it.
type Schema struct {
	Name        string // kebab-case, e.g. "tutor-reply"
	Description string
	Definition  map[string]any
}

type Response struct {
	// Content is the validated JSON object, or the raw text as a JSON
	// string when the request had no Schema.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request, which can differ from
	// ModelID when the vendor resolves an alias.
	Model string

	// StopReason is "end" or "max_tokens". A structured reply cut at
	// max tokens is returned as ErrTruncated instead.
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
