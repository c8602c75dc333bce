// Package fsm is the tutoring state machine. One Step classifies an
// utterance, looks up the transition, runs its handler on a copy of the
// session and returns the new session with an instruction for phrasing.
// It performs no I/O.
package fsm

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/abhisek/didi/internal/classifier"
	"github.com/abhisek/didi/internal/content"
	"github.com/abhisek/didi/internal/evaluator"
	"github.com/abhisek/didi/internal/session"
)

// Config holds the product thresholds of the tutoring loop.
type Config struct {
	// ReteachCap is the reteach count at which teaching stops and the
	// question is asked.
	ReteachCap int

	// HintLevels is how many hints precede the full solution (1 or 2).
	HintLevels int

	// MaxAttemptsBeforeHint is the wrong attempt count that starts hinting.
	MaxAttemptsBeforeHint int

	// QuestionsTarget caps questions per session.
	QuestionsTarget int

	ConfidenceThreshold float64
	DecimalTolerance    float64
}

// DefaultConfig returns the product defaults.
func DefaultConfig() Config {
	return Config{
		ReteachCap:            3,
		HintLevels:            2,
		MaxAttemptsBeforeHint: 2,
		QuestionsTarget:       10,
		ConfidenceThreshold:   classifier.DefaultConfidenceThreshold,
		DecimalTolerance:      evaluator.DefaultDecimalTolerance,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ReteachCap <= 0 {
		c.ReteachCap = d.ReteachCap
	}
	if c.HintLevels <= 0 || c.HintLevels > 2 {
		c.HintLevels = d.HintLevels
	}
	if c.MaxAttemptsBeforeHint <= 0 {
		c.MaxAttemptsBeforeHint = d.MaxAttemptsBeforeHint
	}
	if c.QuestionsTarget <= 0 {
		c.QuestionsTarget = d.QuestionsTarget
	}
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = d.ConfidenceThreshold
	}
	if c.DecimalTolerance <= 0 {
		c.DecimalTolerance = d.DecimalTolerance
	}
	return c
}

// Engine runs turns. It holds only read-only content and configuration and
// is safe for concurrent use across sessions.
type Engine struct {
	cfg        Config
	content    content.Store
	classifier *classifier.Classifier
	evaluator  *evaluator.Evaluator
}

// New creates an Engine over store. Zero config fields take defaults.
func New(store content.Store, cfg Config) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		cfg:        cfg,
		content:    store,
		classifier: classifier.New(cfg.ConfidenceThreshold),
		evaluator:  evaluator.New(cfg.DecimalTolerance),
	}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Utterance is one piece of student input.
type Utterance struct {
	Text string

	// Confidence is the recognizer confidence; typed input uses 1.
	Confidence float64
}

// Step is the outcome of one turn.
type Step struct {
	// Session is the session after the turn. The input session is never
	// modified.
	Session *session.Session

	From           session.State
	Classification classifier.Result
	Transition     Transition
	Verdict        *evaluator.Verdict
	Instruction    Instruction

	// Changed is false when the turn must leave the stored session as it
	// was (unintelligible input).
	Changed bool
}

// NewSession creates a session for lessonID and the opening instruction.
// The question target is the lesson length, capped by the configured
// target.
func (e *Engine) NewSession(id, studentID, lessonID string, now time.Time) (*session.Session, Instruction, error) {
	if lessonID == "" {
		lessonID = content.DefaultLessonID
	}
	l, err := e.content.Lesson(lessonID)
	if err != nil {
		return nil, Instruction{}, err
	}
	if len(l.QuestionIDs) == 0 {
		return nil, Instruction{}, fmt.Errorf("lesson %q has no questions", lessonID)
	}
	s := session.New(id, studentID, lessonID, min(len(l.QuestionIDs), e.cfg.QuestionsTarget), now)
	ins, err := e.Opening(s)
	if err != nil {
		return nil, Instruction{}, err
	}
	return s, ins, nil
}

// Opening renders a greeting followed by whatever s is currently
// presenting. It is used for new sessions and when a stored session is
// resumed. s is not modified.
func (e *Engine) Opening(s *session.Session) (Instruction, error) {
	t := &turn{
		e:    e,
		s:    s.Clone(),
		from: s.CurrentState,
		tr:   Transition{Handler: HandleGreet, Next: s.CurrentState},
	}
	if err := handleGreet(t); err != nil {
		return Instruction{}, err
	}
	return t.instruction(), nil
}

// Step processes one utterance against s.
func (e *Engine) Step(s *session.Session, u Utterance) (*Step, error) {
	if s == nil {
		return nil, errors.New("nil session")
	}
	from := s.CurrentState

	res := e.classifier.Classify(classifier.Input{
		Text:         u.Text,
		Confidence:   u.Confidence,
		State:        from,
		Language:     s.PreferredLanguage,
		ExpectsYesNo: e.expectsYesNo(s),
	})
	tr, err := Resolve(from, res.Category)
	if err != nil {
		return nil, err
	}
	h, ok := handlers[tr.Handler]
	if !ok {
		return nil, fmt.Errorf("no handler for %q", tr.Handler)
	}

	t := &turn{e: e, s: s.Clone(), from: from, res: res, text: u.Text, tr: tr}
	if err := h(t); err != nil {
		return nil, fmt.Errorf("%s in %s: %w", tr.Handler, from, err)
	}

	changed := tr.Handler != HandleAskRepeat
	if changed && t.s.CurrentState == session.StateAdvancing {
		if err := t.advance(); err != nil {
			return nil, fmt.Errorf("advance: %w", err)
		}
	}

	st := &Step{
		Session:        t.s,
		From:           from,
		Classification: res,
		Transition:     tr,
		Verdict:        t.verdict,
		Instruction:    t.instruction(),
		Changed:        changed,
	}
	return st, nil
}

func (e *Engine) expectsYesNo(s *session.Session) bool {
	if s.CurrentQuestionID == "" {
		return false
	}
	q, err := e.content.Question(s.CurrentQuestionID)
	if err != nil {
		return false
	}
	return evaluator.IsYesNo(q.ExpectedAnswer)
}

func (t *turn) instruction() Instruction {
	lang := t.s.PreferredLanguage
	in := Instruction{
		From:        t.from,
		State:       t.s.CurrentState,
		Handler:     t.tr.Handler,
		Category:    t.res.Category,
		Language:    lang,
		Verdict:     t.verdict,
		Empathy:     t.empathy,
		Teaching:    t.teaching,
		Canned:      renderParts(lang, t.lead, t.body),
		Fallback:    Fallback(t.s.CurrentState, lang),
		AllowRepeat: t.allowRepeat,
		History:     slices.Clone(t.s.History),
	}
	if t.verdict != nil {
		in.StudentAnswer = t.verdict.Submitted
	}
	for _, c := range t.content {
		in.Content = append(in.Content, c.For(lang))
	}
	return in
}
