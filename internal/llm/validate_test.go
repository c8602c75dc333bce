package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func replySchema() *Schema {
	return &Schema{
		Name:        "test-reply",
		Description: "A tutor reply",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":  map[string]any{"type": "string", "minLength": 1},
				"words": map[string]any{"type": "integer", "minimum": 0},
				"tone":  map[string]any{"type": "string", "enum": []any{"warm", "neutral"}},
			},
			"required":             []any{"text"},
			"additionalProperties": false,
		},
	}
}

func TestStructuredOutput_Valid(t *testing.T) {
	raw, err := structuredOutput("test", replySchema(), `{"text":"Aapne 5 bola.","words":3,"tone":"warm"}`)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if string(raw) != `{"text":"Aapne 5 bola.","words":3,"tone":"warm"}` {
		t.Fatalf("unexpected content: %s", raw)
	}
}

func TestStructuredOutput_StripsFences(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"json fence", "```json\n{\"text\":\"Namaste\"}\n```"},
		{"bare fence", "```\n{\"text\":\"Namaste\"}\n```"},
		{"one line", "```json {\"text\":\"Namaste\"}```"},
		{"padded", "  \n{\"text\":\"Namaste\"}\n "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := structuredOutput("test", replySchema(), tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(raw) != `{"text":"Namaste"}` {
				t.Fatalf("content = %s", raw)
			}
		})
	}
}

func TestStructuredOutput_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"missing required", `{"words":3}`},
		{"wrong type", `{"text":5}`},
		{"bad enum", `{"text":"hi","tone":"angry"}`},
		{"extra field", `{"text":"hi","praise":true}`},
		{"empty text", `{"text":""}`},
		{"not json", `Shabash! Bilkul sahi.`},
		{"empty", ``},
		{"empty fence", "```json\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := structuredOutput("test", replySchema(), tt.text)
			if !errors.Is(err, ErrInvalidOutput) {
				t.Fatalf("err = %v, want ErrInvalidOutput", err)
			}
			var e *Error
			if !errors.As(err, &e) || e.Provider != "test" {
				t.Fatalf("expected *Error from provider test, got %T", err)
			}
		})
	}
}

func TestStructuredOutput_NilSchemaWrapsText(t *testing.T) {
	raw, err := structuredOutput("test", nil, "Namaste")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s != "Namaste" {
		t.Fatalf("content = %s, err = %v", raw, err)
	}
}

func TestCompile_Cached(t *testing.T) {
	s1, err := compile(replySchema())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	s2, err := compile(replySchema())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if s1 != s2 {
		t.Fatal("expected the cached schema on the second compile")
	}
}
