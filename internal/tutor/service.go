// Package tutor runs tutoring turns end to end: it serializes work per
// session, steps the state machine, phrases and enforces the reply, and
// persists the result.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/abhisek/didi/internal/classifier"
	"github.com/abhisek/didi/internal/enforcer"
	"github.com/abhisek/didi/internal/evaluator"
	"github.com/abhisek/didi/internal/fsm"
	"github.com/abhisek/didi/internal/llm"
	"github.com/abhisek/didi/internal/logger"
	"github.com/abhisek/didi/internal/observe"
	"github.com/abhisek/didi/internal/phrasing"
	"github.com/abhisek/didi/internal/session"
	"github.com/abhisek/didi/internal/store"
)

// maxUtteranceLen bounds a single transcript in bytes.
const maxUtteranceLen = 2000

// Synthesizer turns enforced text into speech audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, lang session.Language) ([]byte, error)
}

// StartRequest opens a session.
type StartRequest struct {
	StudentID string `json:"student_id"`
	LessonID  string `json:"lesson_id,omitempty"`
	Language  string `json:"language,omitempty"`
}

// TurnRequest is one utterance for a session.
type TurnRequest struct {
	SessionID  string  `json:"session_id"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Response is the tutor's answer to a start or a turn.
type Response struct {
	SessionID string              `json:"session_id"`
	Reply     string              `json:"reply"`
	Source    phrasing.Source     `json:"source"`
	Category  classifier.Category `json:"category,omitempty"`
	Verdict   *evaluator.Verdict  `json:"verdict,omitempty"`
	Summary   session.Summary     `json:"summary"`

	// Audio is set when a synthesizer is configured and succeeded.
	Audio []byte `json:"-"`
}

// Service is safe for concurrent use. Turns for one session run one at a
// time in arrival order; different sessions proceed in parallel.
type Service struct {
	engine    *fsm.Engine
	responder *phrasing.Responder
	sessions  store.SessionRepo
	events    store.EventRepo
	tts       Synthesizer
	metrics   *observe.Metrics
	log       *logger.Logger
	lanes     *lanes

	historyWindow int
	now           func() time.Time
	newID         func() string
}

// Option configures a Service.
type Option func(*Service)

// WithEvents records every turn in the turn log.
func WithEvents(events store.EventRepo) Option {
	return func(s *Service) { s.events = events }
}

// WithSynthesizer adds speech audio to responses.
func WithSynthesizer(tts Synthesizer) Option {
	return func(s *Service) { s.tts = tts }
}

func WithMetrics(m *observe.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithHistoryWindow sets how many turns a session keeps for phrasing.
func WithHistoryWindow(n int) Option {
	return func(s *Service) { s.historyWindow = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the random session id generator.
func WithIDGenerator(f func() string) Option {
	return func(s *Service) { s.newID = f }
}

// New creates a Service.
func New(engine *fsm.Engine, responder *phrasing.Responder, sessions store.SessionRepo, opts ...Option) *Service {
	s := &Service{
		engine:        engine,
		responder:     responder,
		sessions:      sessions,
		lanes:         newLanes(),
		historyWindow: session.DefaultHistoryWindow,
		now:           time.Now,
		newID:         uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.metrics == nil {
		s.metrics = observe.Nop()
	}
	if s.responder == nil {
		s.responder = phrasing.NewResponder(nil, nil, 0, s.log)
	}
	return s
}

// Start creates a session and returns the greeting.
func (s *Service) Start(ctx context.Context, req StartRequest) (*Response, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	if req.StudentID == "" {
		return nil, fmt.Errorf("%w: student_id is required", ErrInvalidRequest)
	}
	lang, err := session.ParseLanguage(strings.ToLower(strings.TrimSpace(req.Language)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	start := s.now()
	sess, in, err := s.engine.NewSession(s.newID(), req.StudentID, req.LessonID, start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if lang != sess.PreferredLanguage {
		sess.PreferredLanguage = lang
		if in, err = s.engine.Opening(sess); err != nil {
			return nil, fmt.Errorf("opening: %w", err)
		}
	}

	reply := s.respond(ctx, sess.ID, in)
	sess.AppendTurn(session.Turn{Tutor: reply.Text, State: sess.CurrentState}, s.historyWindow)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.metrics.Sessions.Add(ctx, 1)
	s.record(ctx, store.TurnEvent{
		SessionID:  sess.ID,
		Handler:    string(in.Handler),
		FromState:  string(in.From),
		ToState:    string(sess.CurrentState),
		Language:   string(sess.PreferredLanguage),
		Reply:      reply.Text,
		Source:     string(reply.Source),
		Attempts:   reply.Attempts,
		Violations: violationNames(reply.Violations),
		LatencyMs:  s.now().Sub(start).Milliseconds(),
	})
	s.log.Info("session started", "session_id", sess.ID, "student_id", sess.StudentID,
		"lesson_id", sess.LessonID, "language", sess.PreferredLanguage)

	return &Response{
		SessionID: sess.ID,
		Reply:     reply.Text,
		Source:    reply.Source,
		Summary:   sess.Summary(),
		Audio:     s.synthesize(ctx, reply.Text, sess.PreferredLanguage),
	}, nil
}

// Turn processes one utterance. Only invalid requests, unknown sessions and
// a caller that gave up surface as errors. Any other failure gets a fallback
// reply and the session keeps its pre-turn state.
func (s *Service) Turn(ctx context.Context, req TurnRequest) (*Response, error) {
	if err := validateTurn(req); err != nil {
		return nil, err
	}

	release, err := s.lanes.acquire(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("wait for session %s: %w", req.SessionID, err)
	}
	defer release()

	s.metrics.ActiveTurns.Add(ctx, 1)
	defer s.metrics.ActiveTurns.Add(ctx, -1)

	start := s.now()
	sess, err := s.load(ctx, req.SessionID)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return nil, err
	case err != nil && ctx.Err() != nil:
		return nil, err
	case err != nil:
		s.log.Error("load session failed", "session_id", req.SessionID, "error", err)
		return s.retry(ctx, req.SessionID), nil
	}

	step, err := s.engine.Step(sess, fsm.Utterance{Text: req.Text, Confidence: req.Confidence})
	if err != nil {
		s.log.Error("turn failed", "session_id", sess.ID, "state", sess.CurrentState, "error", err)
		return s.fallback(ctx, sess), nil
	}

	reply := s.respond(ctx, sess.ID, step.Instruction)

	next := sess
	if step.Changed {
		next = step.Session
		next.AppendTurn(session.Turn{
			Student:  req.Text,
			Tutor:    reply.Text,
			State:    next.CurrentState,
			Category: string(step.Classification.Category),
		}, s.historyWindow)
		next.UpdatedAt = s.now()
		if err := s.sessions.Save(ctx, next); err != nil {
			s.log.Error("save session failed", "session_id", sess.ID, "error", err)
			return s.fallback(ctx, sess), nil
		}
	}

	elapsed := s.now().Sub(start)
	s.observeTurn(ctx, step, next.CurrentState, elapsed)

	ev := store.TurnEvent{
		SessionID:  sess.ID,
		Utterance:  req.Text,
		Confidence: req.Confidence,
		Category:   string(step.Classification.Category),
		Handler:    string(step.Transition.Handler),
		FromState:  string(step.From),
		ToState:    string(next.CurrentState),
		Language:   string(next.PreferredLanguage),
		Reply:      reply.Text,
		Source:     string(reply.Source),
		Attempts:   reply.Attempts,
		Violations: violationNames(reply.Violations),
		LatencyMs:  elapsed.Milliseconds(),
	}
	if v := step.Verdict; v != nil {
		ev.Correctness = string(v.Correctness)
		ev.Diagnostic = string(v.Diagnostic)
	}
	s.record(ctx, ev)

	s.log.Info("turn",
		"session_id", sess.ID,
		"from", step.From,
		"to", next.CurrentState,
		"category", step.Classification.Category,
		"rule", step.Classification.Rule,
		"verdict", ev.Correctness,
		"source", reply.Source,
		"violations", ev.Violations,
		"latency_ms", ev.LatencyMs,
	)

	return &Response{
		SessionID: sess.ID,
		Reply:     reply.Text,
		Source:    reply.Source,
		Category:  step.Classification.Category,
		Verdict:   step.Verdict,
		Summary:   next.Summary(),
		Audio:     s.synthesize(ctx, reply.Text, next.PreferredLanguage),
	}, nil
}

// Get returns the summary of a stored session.
func (s *Service) Get(ctx context.Context, id string) (session.Summary, error) {
	if strings.TrimSpace(id) == "" {
		return session.Summary{}, fmt.Errorf("%w: session id is required", ErrInvalidRequest)
	}
	sess, err := s.load(ctx, id)
	if err != nil {
		return session.Summary{}, err
	}
	return sess.Summary(), nil
}

// Turns returns the recorded turns of a session. Without a turn log the
// result is empty.
func (s *Service) Turns(ctx context.Context, id string, opts store.QueryOpts) ([]store.TurnEvent, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if s.events == nil {
		return nil, nil
	}
	return s.events.Turns(ctx, id, opts)
}

// List returns stored sessions, most recently updated first.
func (s *Service) List(ctx context.Context, opts store.ListOpts) ([]store.SessionInfo, error) {
	return s.sessions.List(ctx, opts)
}

func validateTurn(req TurnRequest) error {
	var problems []string
	if strings.TrimSpace(req.SessionID) == "" {
		problems = append(problems, "session_id is required")
	}
	if req.Confidence < 0 || req.Confidence > 1 {
		problems = append(problems, fmt.Sprintf("confidence %v is outside [0, 1]", req.Confidence))
	}
	if len(req.Text) > maxUtteranceLen {
		problems = append(problems, fmt.Sprintf("text longer than %d bytes", maxUtteranceLen))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(problems, "; "))
	}
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	return sess, nil
}

func (s *Service) respond(ctx context.Context, sessionID string, in fsm.Instruction) phrasing.Reply {
	start := time.Now()
	reply := s.responder.Respond(llm.WithSession(ctx, sessionID), in)
	s.metrics.PhraseDuration.Record(ctx, time.Since(start).Seconds())
	s.metrics.RecordReply(ctx, string(reply.Source), string(in.State))
	for _, v := range reply.Violations {
		s.metrics.RecordViolation(ctx, string(v.Rule), v.Fixed)
	}
	if reply.Source == phrasing.SourceFallback {
		s.log.Warn("reply fell back", "session_id", sessionID, "state", in.State,
			"attempts", reply.Attempts, "violations", violationNames(reply.Violations))
	}
	return reply
}

// fallback answers with the safe line of the pre-turn state.
func (s *Service) fallback(ctx context.Context, sess *session.Session) *Response {
	text := enforcer.CleanForSpeech(fsm.Fallback(sess.CurrentState, sess.PreferredLanguage), sess.PreferredLanguage)
	s.metrics.RecordReply(ctx, string(phrasing.SourceFallback), string(sess.CurrentState))
	return &Response{
		SessionID: sess.ID,
		Reply:     text,
		Source:    phrasing.SourceFallback,
		Summary:   sess.Summary(),
		Audio:     s.synthesize(ctx, text, sess.PreferredLanguage),
	}
}

// retry answers when the session could not be read. Nothing about the
// session is known, so the line is the same for every state.
func (s *Service) retry(ctx context.Context, id string) *Response {
	lang := session.LangHinglish
	text := enforcer.CleanForSpeech(fsm.RetryLine(lang), lang)
	s.metrics.RecordReply(ctx, string(phrasing.SourceFallback), "unknown")
	return &Response{
		SessionID: id,
		Reply:     text,
		Source:    phrasing.SourceFallback,
		Summary:   session.Summary{ID: id},
		Audio:     s.synthesize(ctx, text, lang),
	}
}

func (s *Service) synthesize(ctx context.Context, text string, lang session.Language) []byte {
	if s.tts == nil {
		return nil
	}
	audio, err := s.tts.Synthesize(ctx, text, lang)
	if err != nil {
		s.log.Warn("speech synthesis failed, replying with text only", "error", err)
		return nil
	}
	return audio
}

func (s *Service) record(ctx context.Context, ev store.TurnEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendTurn(context.WithoutCancel(ctx), ev); err != nil {
		s.log.Warn("append turn event failed", "session_id", ev.SessionID, "error", err)
	}
}

func (s *Service) observeTurn(ctx context.Context, step *fsm.Step, to session.State, elapsed time.Duration) {
	s.metrics.TurnDuration.Record(ctx, elapsed.Seconds())
	s.metrics.RecordTurn(ctx, string(step.From), string(to), string(step.Classification.Category))
	if v := step.Verdict; v != nil {
		s.metrics.RecordVerdict(ctx, string(v.Correctness), string(v.Diagnostic))
	}
}

func violationNames(vs []enforcer.Violation) []string {
	return lo.Map(vs, func(v enforcer.Violation, _ int) string { return string(v.Rule) })
}
