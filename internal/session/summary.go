package session

// Summary is the caller-facing view of a session returned with every reply.
type Summary struct {
	ID              string   `json:"id"`
	StudentID       string   `json:"student_id"`
	State           State    `json:"state"`
	Language        Language `json:"language"`
	ConceptID       string   `json:"concept_id,omitempty"`
	QuestionID      string   `json:"question_id,omitempty"`
	Score           int      `json:"score"`
	QuestionsAsked  int      `json:"questions_asked"`
	QuestionsTarget int      `json:"questions_target"`
	Accuracy        float64  `json:"accuracy"`
	Ended           bool     `json:"ended"`
}

// Summary builds the caller-facing view.
func (s *Session) Summary() Summary {
	var accuracy float64
	if s.QuestionsAsked > 0 {
		accuracy = float64(s.Score) / float64(s.QuestionsAsked)
	}
	return Summary{
		ID:              s.ID,
		StudentID:       s.StudentID,
		State:           s.CurrentState,
		Language:        s.PreferredLanguage,
		ConceptID:       s.CurrentConceptID,
		QuestionID:      s.CurrentQuestionID,
		Score:           s.Score,
		QuestionsAsked:  s.QuestionsAsked,
		QuestionsTarget: s.QuestionsTarget,
		Accuracy:        accuracy,
		Ended:           s.Ended(),
	}
}
