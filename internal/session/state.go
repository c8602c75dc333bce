package session

import (
	"fmt"
	"time"
)

// State is a position in the tutoring loop.
type State string

const (
	StateGreeting       State = "GREETING"
	StateTeaching       State = "TEACHING"
	StateAwaitingAnswer State = "AWAITING_ANSWER"
	StateHinting        State = "HINTING"
	StateAdvancing      State = "ADVANCING"
	StateSessionEnd     State = "SESSION_END"
)

// AllStates lists every state in loop order.
var AllStates = []State{
	StateGreeting,
	StateTeaching,
	StateAwaitingAnswer,
	StateHinting,
	StateAdvancing,
	StateSessionEnd,
}

// Valid reports whether s is one of the six states.
func (s State) Valid() bool {
	for _, st := range AllStates {
		if s == st {
			return true
		}
	}
	return false
}

// Terminal reports whether no further turns are processed in s.
func (s State) Terminal() bool {
	return s == StateSessionEnd
}

// Language is the student's preferred language for tutor output.
type Language string

const (
	// LangHinglish is the default: Hindi and English mixed in Latin script.
	LangHinglish Language = "hinglish"
	// LangHindi is Devanagari Hindi.
	LangHindi Language = "hindi"
	// LangEnglish is plain English.
	LangEnglish Language = "english"
)

// ParseLanguage accepts the canonical names and a few common aliases.
func ParseLanguage(s string) (Language, error) {
	switch s {
	case "hinglish", "mixed", "":
		return LangHinglish, nil
	case "hindi", "hi":
		return LangHindi, nil
	case "english", "en":
		return LangEnglish, nil
	}
	return "", fmt.Errorf("unknown language %q", s)
}

// HintsSolution is the HintsGiven sentinel recorded once the full solution
// has been revealed.
const HintsSolution = -1

// DefaultHistoryWindow is how many turns are kept for phrasing context.
const DefaultHistoryWindow = 6

// Turn is one exchange kept in the phrasing window.
type Turn struct {
	Student  string `json:"student"`
	Tutor    string `json:"tutor"`
	State    State  `json:"state"`
	Category string `json:"category"`
}

// Session is the single record of everything a tutoring conversation has
// decided so far. Control decisions read only from here.
type Session struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	LessonID  string `json:"lesson_id"`

	CurrentState  State `json:"current_state"`
	PreviousState State `json:"previous_state"`

	// PreferredLanguage changes only on an explicit language switch.
	PreferredLanguage Language `json:"preferred_language"`

	// CurrentConceptID is the concept being taught.
	CurrentConceptID string `json:"current_concept_id"`

	// ReteachCount counts reteaches of the current concept.
	ReteachCount int `json:"reteach_count"`

	// TeachMaterialIndex points into the concept's ordered material. It only
	// moves forward while the concept stays the same.
	TeachMaterialIndex int `json:"teach_material_index"`

	// CurrentQuestionID is the question being asked, empty before the first.
	CurrentQuestionID string `json:"current_question_id"`

	// QuestionIndex is the position of CurrentQuestionID in the lesson.
	QuestionIndex int `json:"question_index"`

	AttemptCount int `json:"attempt_count"`

	// HintsGiven is 0, 1 or 2, or HintsSolution once the answer was revealed.
	HintsGiven int `json:"hints_given"`

	// EmpathyGiven is set by a comfort turn and cleared on every state change.
	EmpathyGiven bool `json:"empathy_given"`

	Score           int `json:"score"`
	QuestionsAsked  int `json:"questions_asked"`
	QuestionsTarget int `json:"questions_target"`

	// History is phrasing context only and is never read for control flow.
	History []Turn `json:"history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
