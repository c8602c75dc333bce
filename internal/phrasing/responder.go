package phrasing

import (
	"context"

	"github.com/samber/lo"

	"github.com/abhisek/didi/internal/enforcer"
	"github.com/abhisek/didi/internal/fsm"
	"github.com/abhisek/didi/internal/logger"
)

// Source says where a reply's words came from.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceTemplate  Source = "template"
	SourceFallback  Source = "fallback"
)

// DefaultMaxAttempts is how many candidates are tried before the fallback.
const DefaultMaxAttempts = 3

// Reply is the enforced text for one turn.
type Reply struct {
	Text     string `json:"text"`
	Source   Source `json:"source"`
	Attempts int    `json:"attempts"`

	// Violations collects every rule hit across all attempts.
	Violations []enforcer.Violation `json:"violations,omitempty"`
}

// Responder phrases an instruction and enforces the result. Unvalidated
// text never leaves it.
type Responder struct {
	phraser     Phraser
	enforcer    *enforcer.Enforcer
	maxAttempts int
	log         *logger.Logger
}

// NewResponder creates a Responder. A nil phraser speaks canned lines and
// maxAttempts <= 0 uses DefaultMaxAttempts.
func NewResponder(p Phraser, e *enforcer.Enforcer, maxAttempts int, log *logger.Logger) *Responder {
	if p == nil {
		p = TemplatePhraser{}
	}
	if e == nil {
		e = enforcer.New(enforcer.DefaultConfig())
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Responder{phraser: p, enforcer: e, maxAttempts: maxAttempts, log: log}
}

// EnforcerContext derives the rule context of an instruction.
func EnforcerContext(in fsm.Instruction) enforcer.Context {
	return enforcer.Context{
		Language:      in.Language,
		Verdict:       in.Verdict,
		StudentAnswer: in.StudentAnswer,
		Teaching:      in.Teaching,
		PreviousTutor: in.PreviousTutorLine(),
		AllowRepeat:   in.AllowRepeat,
	}
}

// Respond returns the reply for in. Each rejected candidate is regenerated
// with corrections; a generation error or exhausted attempts yield the
// state fallback.
func (r *Responder) Respond(ctx context.Context, in fsm.Instruction) Reply {
	ectx := EnforcerContext(in)
	source := SourceGenerated
	attempts := r.maxAttempts
	if _, ok := r.phraser.(TemplatePhraser); ok {
		source = SourceTemplate
		// Canned lines do not change between attempts.
		attempts = 1
	}

	var (
		reply       Reply
		corrections []string
	)
	for reply.Attempts < attempts {
		if ctx.Err() != nil {
			break
		}
		reply.Attempts++
		candidate, err := r.phraser.Phrase(ctx, in, corrections)
		if err != nil {
			r.log.Warn("phrasing failed", "state", in.State, "handler", in.Handler, "attempt", reply.Attempts, "error", err)
			break
		}
		res := r.enforcer.Enforce(candidate, ectx)
		reply.Violations = append(reply.Violations, res.Violations...)
		if res.OK() {
			reply.Text = res.Text
			reply.Source = source
			return reply
		}
		rejected := res.Rejections()
		r.log.Debug("reply rejected", "state", in.State, "attempt", reply.Attempts,
			"rules", lo.Map(rejected, func(v enforcer.Violation, _ int) enforcer.Rule { return v.Rule }))
		corrections = lo.Uniq(append(corrections, lo.Map(rejected, func(v enforcer.Violation, _ int) string {
			return enforcer.Correction(v, ectx)
		})...))
	}

	reply.Text = r.fallback(in)
	reply.Source = SourceFallback
	return reply
}

func (r *Responder) fallback(in fsm.Instruction) string {
	text := in.Fallback
	if text == "" {
		text = fsm.Fallback(in.State, in.Language)
	}
	return enforcer.CleanForSpeech(text, in.Language)
}
