// Package phrasing turns a state machine instruction into the words the
// tutor speaks. Phrasers produce candidate text; the Responder enforces it
// and falls back when no candidate survives.
package phrasing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/invopop/jsonschema"

	"github.com/abhisek/didi/internal/enforcer"
	"github.com/abhisek/didi/internal/fsm"
	"github.com/abhisek/didi/internal/llm"
)

// Phraser produces one candidate reply. corrections lists what earlier
// candidates for the same turn got wrong.
type Phraser interface {
	Phrase(ctx context.Context, in fsm.Instruction, corrections []string) (string, error)
}

// TemplatePhraser speaks the instruction's canned line. It is used when no
// language model is configured.
type TemplatePhraser struct{}

// Phrase returns in.Canned.
func (TemplatePhraser) Phrase(_ context.Context, in fsm.Instruction, _ []string) (string, error) {
	return in.Canned, nil
}

// LLMConfig holds generation settings for the LLM phraser.
type LLMConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultLLMConfig returns sensible defaults.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{MaxTokens: 200, Temperature: 0.4}
}

// LLMPhraser asks a language model to voice the instruction.
type LLMPhraser struct {
	provider llm.Provider
	cfg      LLMConfig
}

// NewLLMPhraser creates an LLM-backed phraser.
func NewLLMPhraser(provider llm.Provider, cfg LLMConfig) *LLMPhraser {
	d := DefaultLLMConfig()
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = d.MaxTokens
	}
	return &LLMPhraser{provider: provider, cfg: cfg}
}

// phraseOutput is the structured reply requested from the model.
type phraseOutput struct {
	Text string `json:"text" jsonschema:"required,description=The tutor's spoken reply: one or two short sentences with no symbols or markdown"`
}

// OutputSchema is the JSON schema of a phrasing response.
var OutputSchema = reflectSchema[phraseOutput]("tutor-reply", "What the tutor says out loud this turn")

func reflectSchema[T any](name, description string) *llm.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	raw, err := json.Marshal(r.Reflect(v))
	if err != nil {
		panic(fmt.Sprintf("reflect schema %s: %v", name, err))
	}
	var def map[string]any
	if err := json.Unmarshal(raw, &def); err != nil {
		panic(fmt.Sprintf("decode schema %s: %v", name, err))
	}
	delete(def, "$schema")
	delete(def, "$id")
	return &llm.Schema{Name: name, Description: description, Definition: def}
}

// Phrase generates a candidate reply.
func (p *LLMPhraser) Phrase(ctx context.Context, in fsm.Instruction, corrections []string) (string, error) {
	ctx = llm.WithPurpose(ctx, "phrase")

	userMsg, err := buildUserMessage(in, corrections)
	if err != nil {
		return "", fmt.Errorf("build phrasing prompt: %w", err)
	}

	req := llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMsg}},
		Schema:      OutputSchema,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
	}

	resp, err := p.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("LLM phrasing failed: %w", err)
	}

	var out phraseOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("failed to parse phrasing response: %w", err)
	}
	return out.Text, nil
}

const systemPrompt = `You are Didi, a warm and patient maths tutor speaking with an Indian school student in classes 6 to 8. Your words are read aloud by a speech engine.

Rules:
- Say one or two short sentences, at most 40 words.
- Speak only in the language you are told to use.
- Never praise the student unless the instructions say the answer was correct.
- When the student gave an answer, repeat their answer exactly as they said it.
- When you are teaching, only explain. Do not ask a question in the same reply.
- Deliver the given material faithfully. Do not invent new facts, numbers or questions.
- Write numbers and operations as words where possible. No markdown, brackets, emojis or symbols.
- Do not repeat your previous reply word for word.`

type promptData struct {
	fsm.Instruction
	LanguageName string
	Outcome      string
	Corrections  []string
}

var userTemplate = template.Must(template.New("phrase").Parse(`Language: {{.LanguageName}}
Tutor state: {{.From}} -> {{.State}}
Action: {{.Handler}}
Student intent: {{.Category}}
{{- if .Outcome}}
Answer check: {{.Outcome}}
{{- end}}
{{- if .StudentAnswer}}
Student's answer: {{.StudentAnswer}}
{{- end}}
{{- if .Empathy}}
Begin with one gentle, empathetic phrase.
{{- end}}
{{- if .Teaching}}
This is a teaching turn: explain only, ask nothing.
{{- end}}
{{- if .Content}}

Material to deliver:
{{range .Content}}- {{.}}
{{end}}
{{- end}}

Reference reply (say the same thing in your own words):
{{.Canned}}
{{- if .History}}

Recent conversation:
{{range .History}}Student: {{.Student}}
Didi: {{.Tutor}}
{{end}}
{{- end}}
{{- if .Corrections}}

Your previous attempt was rejected. Fix these problems:
{{range .Corrections}}- {{.}}
{{end}}
{{- end}}`))

func buildUserMessage(in fsm.Instruction, corrections []string) (string, error) {
	data := promptData{
		Instruction:  in,
		LanguageName: enforcer.LanguageName(in.Language),
		Corrections:  corrections,
	}
	if v := in.Verdict; v != nil {
		data.Outcome = string(v.Correctness)
		if v.Diagnostic != "" {
			data.Outcome += " (" + string(v.Diagnostic) + ")"
		}
		if in.Praise() {
			data.Outcome += ", praise is earned"
		} else {
			data.Outcome += ", do not praise"
		}
	}
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
