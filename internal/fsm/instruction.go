package fsm

import (
	"github.com/abhisek/didi/internal/classifier"
	"github.com/abhisek/didi/internal/evaluator"
	"github.com/abhisek/didi/internal/session"
)

// Instruction is everything a phrasing step may use to produce the tutor's
// reply for one turn. Control decisions are already made; phrasing only
// chooses words.
type Instruction struct {
	From     session.State       `json:"from"`
	State    session.State       `json:"state"`
	Handler  HandlerID           `json:"handler"`
	Category classifier.Category `json:"category"`
	Language session.Language    `json:"language"`

	// Verdict is set when the turn evaluated an answer.
	Verdict *evaluator.Verdict `json:"verdict,omitempty"`

	// StudentAnswer is the literal value the student submitted. Replies must
	// repeat it.
	StudentAnswer string `json:"student_answer,omitempty"`

	// Empathy asks for an empathetic opening before the content.
	Empathy bool `json:"empathy,omitempty"`

	// Teaching marks turns that present teaching material. Such turns must
	// not also pose a question.
	Teaching bool `json:"teaching,omitempty"`

	// Content is the material, question, hint or solution to deliver, in
	// order and in Language.
	Content []string `json:"content,omitempty"`

	// Canned is a complete deterministic reply in Language.
	Canned string `json:"canned"`

	// Fallback is the safe reply for State.
	Fallback string `json:"fallback"`

	// AllowRepeat lets the reply repeat the previous tutor line.
	AllowRepeat bool `json:"allow_repeat,omitempty"`

	History []session.Turn `json:"history,omitempty"`
}

// Praise reports whether praise is earned this turn.
func (in *Instruction) Praise() bool {
	return in.Verdict != nil && in.Verdict.Correctness == evaluator.Correct
}

// PreviousTutorLine returns the last tutor line in the history window.
func (in *Instruction) PreviousTutorLine() string {
	if len(in.History) == 0 {
		return ""
	}
	return in.History[len(in.History)-1].Tutor
}
