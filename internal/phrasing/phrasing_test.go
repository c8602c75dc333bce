package phrasing

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/didi/internal/classifier"
	"github.com/abhisek/didi/internal/content"
	"github.com/abhisek/didi/internal/enforcer"
	"github.com/abhisek/didi/internal/evaluator"
	"github.com/abhisek/didi/internal/fsm"
	"github.com/abhisek/didi/internal/llm"
	"github.com/abhisek/didi/internal/session"
)

func textResponse(text string) llm.MockResponse {
	raw, _ := json.Marshal(map[string]string{"text": text})
	return llm.MockResponse{Content: raw}
}

func wrongAnswerInstruction() fsm.Instruction {
	return fsm.Instruction{
		From:     session.StateAwaitingAnswer,
		State:    session.StateHinting,
		Handler:  fsm.HandleEvaluate,
		Category: classifier.CategoryAnswer,
		Language: session.LangHinglish,
		Verdict: &evaluator.Verdict{
			Correctness: evaluator.Incorrect,
			Diagnostic:  evaluator.DiagSignError,
			Submitted:   "5/9",
		},
		StudentAnswer: "5/9",
		Content:       []string{"Sign ko dhyan se dekhiye."},
		Canned:        "Aapne 5/9 bola, yeh sahi nahi hai. Sign ko dhyan se dekhiye.",
		Fallback:      fsm.Fallback(session.StateHinting, session.LangHinglish),
	}
}

func TestTemplatePhraser_SpeaksCanned(t *testing.T) {
	in := wrongAnswerInstruction()
	got, err := TemplatePhraser{}.Phrase(context.Background(), in, []string{"ignored"})
	if err != nil {
		t.Fatalf("Phrase: %v", err)
	}
	if got != in.Canned {
		t.Errorf("Phrase = %q, want %q", got, in.Canned)
	}
}

func TestResponder_Template(t *testing.T) {
	r := NewResponder(nil, nil, 0, nil)
	reply := r.Respond(context.Background(), wrongAnswerInstruction())

	if reply.Source != SourceTemplate {
		t.Errorf("source = %s, want %s", reply.Source, SourceTemplate)
	}
	if reply.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", reply.Attempts)
	}
	want := "Aapne 5 by 9 bola, yeh sahi nahi hai. Sign ko dhyan se dekhiye."
	if reply.Text != want {
		t.Errorf("text = %q, want %q", reply.Text, want)
	}
}

func TestResponder_GeneratedAccepted(t *testing.T) {
	mock := llm.NewMockProvider(textResponse("Aapne 5/9 bola, lekin sign ulta hai. Sign ko dhyan se dekhiye."))
	r := NewResponder(NewLLMPhraser(mock, DefaultLLMConfig()), nil, 0, nil)

	reply := r.Respond(context.Background(), wrongAnswerInstruction())

	if reply.Source != SourceGenerated {
		t.Fatalf("source = %s, want %s (violations %v)", reply.Source, SourceGenerated, reply.Violations)
	}
	if reply.Text != "Aapne 5 by 9 bola, lekin sign ulta hai. Sign ko dhyan se dekhiye." {
		t.Errorf("text = %q", reply.Text)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
	req := mock.Calls[0]
	if req.Schema != OutputSchema {
		t.Error("request does not carry the phrasing schema")
	}
	if req.System != systemPrompt {
		t.Error("request does not carry the system prompt")
	}
	msg := req.Messages[0].Content
	for _, want := range []string{"Hinglish", "Student's answer: 5/9", "do not praise", "- Sign ko dhyan se dekhiye."} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
}

func TestResponder_RegeneratesWithCorrection(t *testing.T) {
	mock := llm.NewMockProvider(
		textResponse("Bahut accha try, aapne 5/9 bola."),
		textResponse("Aapne 5/9 bola, yeh sahi nahi hai. Ek hint suniye."),
	)
	r := NewResponder(NewLLMPhraser(mock, DefaultLLMConfig()), nil, 0, nil)

	reply := r.Respond(context.Background(), wrongAnswerInstruction())

	if reply.Source != SourceGenerated {
		t.Fatalf("source = %s, want %s", reply.Source, SourceGenerated)
	}
	if reply.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", reply.Attempts)
	}
	if !slices.ContainsFunc(reply.Violations, func(v enforcer.Violation) bool { return v.Rule == enforcer.RulePraise }) {
		t.Errorf("violations %v do not record the praise rejection", reply.Violations)
	}
	second := mock.Calls[1].Messages[0].Content
	if !strings.Contains(second, "Do not praise") {
		t.Errorf("second prompt lacks the correction:\n%s", second)
	}
	if strings.Contains(mock.Calls[0].Messages[0].Content, "previous attempt was rejected") {
		t.Error("first prompt should carry no corrections")
	}
}

func TestResponder_FallbackAfterMaxAttempts(t *testing.T) {
	mock := &llm.MockProvider{Respond: func(llm.Request) llm.MockResponse {
		return textResponse("Let us look at the hint again.")
	}}
	in := wrongAnswerInstruction()
	in.Language = session.LangHindi
	in.StudentAnswer = ""
	in.Fallback = fsm.Fallback(session.StateHinting, session.LangHindi)

	r := NewResponder(NewLLMPhraser(mock, DefaultLLMConfig()), nil, 3, nil)
	reply := r.Respond(context.Background(), in)

	if reply.Source != SourceFallback {
		t.Fatalf("source = %s, want %s", reply.Source, SourceFallback)
	}
	if mock.CallCount() != 3 || reply.Attempts != 3 {
		t.Errorf("calls = %d attempts = %d, want 3 and 3", mock.CallCount(), reply.Attempts)
	}
	if want := enforcer.CleanForSpeech(in.Fallback, session.LangHindi); reply.Text != want {
		t.Errorf("text = %q, want %q", reply.Text, want)
	}
	last := mock.Calls[2].Messages[0].Content
	if n := strings.Count(last, "Reply only in Hindi"); n != 1 {
		t.Errorf("correction repeated %d times in:\n%s", n, last)
	}
}

func TestResponder_GenerationErrorFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("connection reset")})
	r := NewResponder(NewLLMPhraser(mock, DefaultLLMConfig()), nil, 0, nil)

	reply := r.Respond(context.Background(), wrongAnswerInstruction())

	if reply.Source != SourceFallback {
		t.Errorf("source = %s, want %s", reply.Source, SourceFallback)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1: a failed provider is not retried here", mock.CallCount())
	}
	if reply.Text != fsm.Fallback(session.StateHinting, session.LangHinglish) {
		t.Errorf("text = %q", reply.Text)
	}
}

func TestResponder_MissingFallbackUsesState(t *testing.T) {
	in := wrongAnswerInstruction()
	in.Canned = ""
	in.Fallback = ""

	reply := NewResponder(nil, nil, 0, nil).Respond(context.Background(), in)

	if reply.Source != SourceFallback {
		t.Fatalf("source = %s, want %s", reply.Source, SourceFallback)
	}
	if want := fsm.Fallback(session.StateHinting, session.LangHinglish); reply.Text != want {
		t.Errorf("text = %q, want %q", reply.Text, want)
	}
}

func TestResponder_CanceledContext(t *testing.T) {
	mock := llm.NewMockProvider(textResponse("Aapne 5/9 bola."))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reply := NewResponder(NewLLMPhraser(mock, DefaultLLMConfig()), nil, 0, nil).Respond(ctx, wrongAnswerInstruction())

	if reply.Source != SourceFallback || reply.Attempts != 0 {
		t.Errorf("reply = %+v, want fallback without attempts", reply)
	}
	if mock.CallCount() != 0 {
		t.Errorf("calls = %d, want 0", mock.CallCount())
	}
}

func TestOutputSchema(t *testing.T) {
	def := OutputSchema.Definition
	if def["type"] != "object" {
		t.Errorf("type = %v, want object", def["type"])
	}
	if _, ok := def["$schema"]; ok {
		t.Error("definition still carries $schema")
	}
	props, _ := def["properties"].(map[string]any)
	if _, ok := props["text"]; !ok {
		t.Errorf("properties = %v, want text", props)
	}
	req, _ := def["required"].([]any)
	if !slices.Contains(req, any("text")) {
		t.Errorf("required = %v, want text", req)
	}
	if def["additionalProperties"] != false {
		t.Errorf("additionalProperties = %v, want false", def["additionalProperties"])
	}
}

func TestBuildUserMessage_Teaching(t *testing.T) {
	in := fsm.Instruction{
		From:     session.StateGreeting,
		State:    session.StateTeaching,
		Handler:  fsm.HandleStartTeaching,
		Category: classifier.CategoryAck,
		Language: session.LangEnglish,
		Teaching: true,
		Empathy:  true,
		Content:  []string{"A fraction is a part of a whole."},
		Canned:   "A fraction is a part of a whole.",
		History:  []session.Turn{{Student: "ready", Tutor: "Hello, I am Didi."}},
	}
	msg, err := buildUserMessage(in, []string{"Use at most two short sentences."})
	if err != nil {
		t.Fatalf("buildUserMessage: %v", err)
	}
	for _, want := range []string{
		"Language: simple English",
		"GREETING -> TEACHING",
		"explain only, ask nothing",
		"empathetic",
		"- A fraction is a part of a whole.",
		"Didi: Hello, I am Didi.",
		"- Use at most two short sentences.",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "Answer check") {
		t.Error("message mentions an answer check on a teaching turn")
	}
}

// A student who asks for Hindi hears Hindi on every later turn, whether the
// words come from canned lines or from a model that keeps drifting.
func TestResponder_LanguagePersistsOverTurns(t *testing.T) {
	pack, err := content.Default()
	if err != nil {
		t.Fatalf("load default pack: %v", err)
	}
	engine := fsm.New(pack, fsm.DefaultConfig())
	drifting := &llm.MockProvider{Respond: func(llm.Request) llm.MockResponse {
		return textResponse("Okay, let us continue with the next part.")
	}}

	for name, p := range map[string]Phraser{
		"template": TemplatePhraser{},
		"llm":      NewLLMPhraser(drifting, DefaultLLMConfig()),
	} {
		t.Run(name, func(t *testing.T) {
			s, _, err := engine.NewSession("sess-1", "student-1", "", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
			if err != nil {
				t.Fatalf("NewSession: %v", err)
			}
			r := NewResponder(p, nil, 0, nil)
			check := enforcer.New(enforcer.DefaultConfig())

			turns := []string{
				"hindi mein bolo", "ready", "phir se bolo", "pata nahi", "okay", "repeat",
				"pata nahi", "no", "yes", "okay", "minus one by seven", "2/3", "hmm okay",
			}
			for i, text := range turns {
				st, err := engine.Step(s, fsm.Utterance{Text: text, Confidence: 1})
				if err != nil {
					t.Fatalf("Step(%q): %v", text, err)
				}
				if st.Changed {
					s = st.Session
				}
				if i == 0 {
					continue
				}
				if s.PreferredLanguage != session.LangHindi {
					t.Fatalf("after %q: language %s, want hindi", text, s.PreferredLanguage)
				}
				reply := r.Respond(context.Background(), st.Instruction)
				if reply.Text == "" {
					t.Fatalf("after %q: empty reply", text)
				}
				res := check.Enforce(reply.Text, enforcer.Context{
					Language:      session.LangHindi,
					StudentAnswer: st.Instruction.StudentAnswer,
					AllowRepeat:   true,
				})
				for _, v := range res.Violations {
					if v.Rule == enforcer.RuleLanguage {
						t.Errorf("after %q: reply %q is not Hindi: %s", text, reply.Text, v.Detail)
					}
				}
			}
		})
	}
}
