package fsm

import (
	"errors"
	"fmt"

	"github.com/abhisek/didi/internal/classifier"
	"github.com/abhisek/didi/internal/content"
	"github.com/abhisek/didi/internal/evaluator"
	"github.com/abhisek/didi/internal/session"
)

// turn is the working state of one Step. Handlers mutate s, which is a
// clone of the caller's session, and describe the reply as a lead sentence
// and a body sentence.
type turn struct {
	e    *Engine
	s    *session.Session
	from session.State
	res  classifier.Result
	text string
	tr   Transition

	lead, body part

	verdict     *evaluator.Verdict
	empathy     bool
	teaching    bool
	allowRepeat bool
	content     []content.Text
}

type handlerFunc func(t *turn) error

var handlers = map[HandlerID]handlerFunc{
	HandleGreet:          handleGreet,
	HandleStartTeaching:  handleStartTeaching,
	HandleSwitchLanguage: handleSwitchLanguage,
	HandleComfort:        handleComfort,
	HandleEndSession:     handleEndSession,
	HandleAskRepeat:      handleAskRepeat,
	HandleReteach:        handleReteach,
	HandleExplainConcept: handleExplainConcept,
	HandleAskQuestion:    handleAskQuestion,
	HandleEvaluate:       handleEvaluate,
	HandleRereadQuestion: handleRereadQuestion,
	HandleGiveHint:       handleGiveHint,
	HandleRereadHint:     handleRereadHint,
	HandleRedirect:       handleRedirect,
	HandleAdvance:        (*turn).advance,
	HandleFarewell:       handleFarewell,
}

var errNoQuestion = errors.New("no active question")

func (t *turn) question() (*content.Question, error) {
	if t.s.CurrentQuestionID == "" {
		return nil, errNoQuestion
	}
	return t.e.content.Question(t.s.CurrentQuestionID)
}

func (t *turn) concept() (*content.Concept, error) {
	return t.e.content.Concept(t.s.CurrentConceptID)
}

func (t *turn) lesson() (*content.Lesson, error) {
	l, err := t.e.content.Lesson(t.s.LessonID)
	if err != nil {
		return nil, err
	}
	if len(l.QuestionIDs) == 0 {
		return nil, fmt.Errorf("lesson %q has no questions", l.ID)
	}
	return l, nil
}

func (t *turn) deliver(c content.Text) {
	t.content = append(t.content, c)
}

func (t *turn) teach(material content.Text) {
	t.teaching = true
	t.deliver(material)
}

// resume sets the body to whatever the current state was presenting.
func (t *turn) resume() error {
	switch t.s.CurrentState {
	case session.StateGreeting:
		t.body = verbatim(lineReady)
	case session.StateTeaching:
		c, err := t.concept()
		if err != nil {
			return err
		}
		mat := c.Material(t.s.TeachMaterialIndex)
		t.body = verbatim(mat)
		t.teach(mat)
	case session.StateAwaitingAnswer:
		q, err := t.question()
		if err != nil {
			return err
		}
		t.body = part{lineQuestionIs, []any{q.Prompt}}
		t.deliver(q.Prompt)
	case session.StateHinting:
		q, err := t.question()
		if err != nil {
			return err
		}
		h := q.Hint(max(t.s.HintsGiven, 1))
		t.body = part{lineHint, []any{h}}
		t.deliver(h)
	case session.StateSessionEnd:
		t.body = verbatim(lineFarewell)
	case session.StateAdvancing:
		// The engine advances right after the handler.
	}
	return nil
}

func handleGreet(t *turn) error {
	t.lead = verbatim(lineGreet)
	t.allowRepeat = true
	return t.resume()
}

func handleStartTeaching(t *turn) error {
	if t.s.CurrentQuestionID == "" {
		l, err := t.lesson()
		if err != nil {
			return err
		}
		q, err := t.e.content.Question(l.QuestionIDs[0])
		if err != nil {
			return err
		}
		t.s.StartQuestion(q.ID, 0)
		t.s.EnterConcept(q.ConceptID)
	}
	t.s.SetState(session.StateTeaching)

	c, err := t.concept()
	if err != nil {
		return err
	}
	mat := c.Material(t.s.TeachMaterialIndex)
	t.lead = verbatim(lineStartTeaching)
	t.body = verbatim(mat)
	t.teach(mat)
	return nil
}

// handleSwitchLanguage stores the requested language and repeats the
// current content in it. No counter moves.
func handleSwitchLanguage(t *turn) error {
	if t.res.Language != "" {
		t.s.PreferredLanguage = t.res.Language
	}
	t.lead = verbatim(lineSwitched)
	t.allowRepeat = true
	return t.resume()
}

// handleComfort leads with empathy once per stay in a state, then resumes.
func handleComfort(t *turn) error {
	if !t.s.EmpathyGiven {
		t.s.EmpathyGiven = true
		t.empathy = true
		t.lead = verbatim(lineComfort)
	}
	t.allowRepeat = true
	return t.resume()
}

func handleEndSession(t *turn) error {
	t.s.SetState(session.StateSessionEnd)
	t.lead = verbatim(lineStop)
	t.body = part{lineSummary, []any{t.s.Score, t.s.QuestionsAsked}}
	t.allowRepeat = true
	return nil
}

func handleFarewell(t *turn) error {
	t.lead = verbatim(lineFarewell)
	t.allowRepeat = true
	return nil
}

func handleAskRepeat(t *turn) error {
	t.lead = verbatim(lineAskRepeat)
	t.allowRepeat = true
	return nil
}

func handleRedirect(t *turn) error {
	t.lead = verbatim(lineRedirect)
	t.allowRepeat = true
	return t.resume()
}

// handleReteach moves to the next teaching material. Once the reteach cap
// is reached, or the material runs out, it asks the question instead.
func handleReteach(t *turn) error {
	c, err := t.concept()
	if err != nil {
		return err
	}
	t.s.ReteachCount++

	if t.s.ReteachCount >= t.e.cfg.ReteachCap || t.s.TeachMaterialIndex+1 >= len(c.Materials) {
		q, err := t.question()
		if err != nil {
			return err
		}
		t.s.SetState(session.StateAwaitingAnswer)
		t.lead = part{lineForceQuestion, []any{q.Prompt}}
		t.deliver(q.Prompt)
		return nil
	}

	t.s.TeachMaterialIndex++
	mat := c.Material(t.s.TeachMaterialIndex)
	t.lead = verbatim(lineReteach)
	if t.res.Category == classifier.CategoryConceptRequest {
		t.lead = verbatim(lineExplain)
	}
	t.body = verbatim(mat)
	t.teach(mat)
	return nil
}

// handleExplainConcept returns to teaching from a question. Asking for the
// concept is not a failure, so the reteach count starts over.
func handleExplainConcept(t *turn) error {
	c, err := t.concept()
	if err != nil {
		return err
	}
	t.s.ReteachCount = 0
	t.s.SetState(session.StateTeaching)

	mat := c.Material(t.s.TeachMaterialIndex)
	t.lead = verbatim(lineExplain)
	t.body = verbatim(mat)
	t.teach(mat)
	return nil
}

func handleAskQuestion(t *turn) error {
	q, err := t.question()
	if err != nil {
		return err
	}
	t.s.SetState(session.StateAwaitingAnswer)
	t.lead = part{lineAskQuestion, []any{q.Prompt}}
	t.deliver(q.Prompt)
	return nil
}

func handleRereadQuestion(t *turn) error {
	q, err := t.question()
	if err != nil {
		return err
	}
	t.s.SetState(session.StateAwaitingAnswer)
	t.lead = part{lineQuestionAgain, []any{q.Prompt}}
	t.deliver(q.Prompt)
	t.allowRepeat = true
	return nil
}

func handleRereadHint(t *turn) error {
	q, err := t.question()
	if err != nil {
		return err
	}
	h := q.Hint(max(t.s.HintsGiven, 1))
	t.lead = part{lineHintAgain, []any{h}}
	t.deliver(h)
	t.allowRepeat = true
	return nil
}

func handleGiveHint(t *turn) error {
	return t.nextHint(part{})
}

// handleEvaluate checks the answer with the evaluator and walks the attempt
// and hint ladder.
func handleEvaluate(t *turn) error {
	q, err := t.question()
	if err != nil {
		return err
	}
	v := t.e.evaluator.Evaluate(t.text, q.ExpectedAnswer, q.AcceptedEquivalents)
	t.verdict = &v
	t.s.AttemptCount++

	if v.Correctness == evaluator.Correct {
		t.s.Score++
		t.lead = part{lineCorrect, []any{v.Submitted}}
		t.s.SetState(session.StateAdvancing)
		return nil
	}

	fb := feedback(v)
	switch t.from {
	case session.StateHinting:
		return t.nextHint(fb)
	case session.StateAwaitingAnswer:
		if t.s.AttemptCount >= t.e.cfg.MaxAttemptsBeforeHint {
			return t.nextHint(fb)
		}
		t.lead = fb
		t.body = verbatim(lineTryAgain)
	default:
		// Answered before the question was asked.
		t.s.SetState(session.StateAwaitingAnswer)
		t.lead = fb
		t.body = part{lineQuestionIs, []any{q.Prompt}}
		t.deliver(q.Prompt)
	}
	return nil
}

// nextHint gives the next hint level. When every level was already given
// it reveals the solution and moves on.
func (t *turn) nextHint(lead part) error {
	q, err := t.question()
	if err != nil {
		return err
	}

	if t.s.SolutionRevealed() || t.s.HintsGiven >= t.e.cfg.HintLevels {
		t.s.HintsGiven = session.HintsSolution
		t.deliver(q.Solution)
		if t.verdict != nil && t.verdict.Submitted != "" {
			t.lead = part{lineRevealAfter, []any{t.verdict.Submitted, q.Solution}}
		} else {
			t.lead = part{lineReveal, []any{q.Solution}}
		}
		t.s.SetState(session.StateAdvancing)
		return nil
	}

	t.s.HintsGiven++
	t.s.SetState(session.StateHinting)
	h := q.Hint(t.s.HintsGiven)
	t.lead = lead
	t.body = part{lineHint, []any{h}}
	t.deliver(h)
	return nil
}

// advance closes the current question and picks what comes next: the end
// of the session, the next question of the same concept, or teaching for a
// new concept.
func (t *turn) advance() error {
	l, err := t.lesson()
	if err != nil {
		return err
	}
	t.s.QuestionsAsked++

	next := t.s.QuestionIndex + 1
	target := t.s.QuestionsTarget
	if target <= 0 {
		target = len(l.QuestionIDs)
	}
	if t.s.QuestionsAsked >= target || next >= len(l.QuestionIDs) {
		t.s.SetState(session.StateSessionEnd)
		t.body = part{lineSummary, []any{t.s.Score, t.s.QuestionsAsked}}
		return nil
	}

	q, err := t.e.content.Question(l.QuestionIDs[next])
	if err != nil {
		return err
	}
	newConcept := q.ConceptID != t.s.CurrentConceptID
	t.s.StartQuestion(q.ID, next)

	if newConcept {
		t.s.EnterConcept(q.ConceptID)
		c, err := t.concept()
		if err != nil {
			return err
		}
		mat := c.Material(t.s.TeachMaterialIndex)
		t.s.SetState(session.StateTeaching)
		t.body = part{lineNewConcept, []any{mat}}
		t.teach(mat)
		return nil
	}

	t.s.SetState(session.StateAwaitingAnswer)
	t.body = part{lineNextQuestion, []any{q.Prompt}}
	t.deliver(q.Prompt)
	return nil
}

// feedback picks the verdict line for a wrong or partial answer.
func feedback(v evaluator.Verdict) part {
	if v.Submitted == "" {
		return verbatim(lineUnparseable)
	}
	line := lineIncorrect
	switch v.Diagnostic {
	case evaluator.DiagSignError:
		line = lineSignError
	case evaluator.DiagMissingDenominator:
		line = lineMissingDenominator
	case evaluator.DiagWrongNumerator:
		line = lineWrongNumerator
	case evaluator.DiagWrongDenominator:
		line = lineWrongDenominator
	case evaluator.DiagCloseNotExact:
		line = lineCloseNotExact
	}
	return part{line, []any{v.Submitted}}
}
