// Package session holds the per-conversation record the tutor reads and
// mutates on every turn, and its persisted form.
package session

import (
	"slices"
	"time"
)

// New creates a session in GREETING with the default language.
func New(id, studentID, lessonID string, questionsTarget int, now time.Time) *Session {
	return &Session{
		ID:                id,
		StudentID:         studentID,
		LessonID:          lessonID,
		CurrentState:      StateGreeting,
		PreviousState:     StateGreeting,
		PreferredLanguage: LangHinglish,
		QuestionsTarget:   questionsTarget,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Clone returns a deep copy. Handlers work on a clone so that a failed turn
// leaves the original untouched.
func (s *Session) Clone() *Session {
	c := *s
	c.History = slices.Clone(s.History)
	return &c
}

// SetState moves to next, remembering the state being left. Changing state
// ends the current stay, so the empathy flag is cleared.
func (s *Session) SetState(next State) {
	if next == s.CurrentState {
		return
	}
	s.PreviousState = s.CurrentState
	s.CurrentState = next
	s.EmpathyGiven = false
}

// EnterConcept switches to conceptID. Reteach and material counters reset
// only when the concept actually changes.
func (s *Session) EnterConcept(conceptID string) {
	if conceptID == s.CurrentConceptID {
		return
	}
	s.CurrentConceptID = conceptID
	s.ReteachCount = 0
	s.TeachMaterialIndex = 0
}

// StartQuestion makes questionID the active question and resets its
// per-question counters.
func (s *Session) StartQuestion(questionID string, index int) {
	s.CurrentQuestionID = questionID
	s.QuestionIndex = index
	s.AttemptCount = 0
	s.HintsGiven = 0
}

// SolutionRevealed reports whether the full solution was given for the
// current question.
func (s *Session) SolutionRevealed() bool {
	return s.HintsGiven == HintsSolution
}

// AppendTurn records a turn, keeping at most window entries.
func (s *Session) AppendTurn(t Turn, window int) {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	s.History = append(s.History, t)
	if len(s.History) > window {
		s.History = slices.Clone(s.History[len(s.History)-window:])
	}
}

// LastTutorLine returns the most recent tutor output, or "".
func (s *Session) LastTutorLine() string {
	if len(s.History) == 0 {
		return ""
	}
	return s.History[len(s.History)-1].Tutor
}

// Ended reports whether the session reached its terminal state.
func (s *Session) Ended() bool {
	return s.CurrentState.Terminal()
}
