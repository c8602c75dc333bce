// Package content holds the immutable curriculum the tutor reads from:
// concepts with ordered teaching material, questions and lessons.
package content

import (
	"errors"

	"github.com/abhisek/didi/internal/session"
)

// ErrNotFound is returned when an id is not in the pack.
var ErrNotFound = errors.New("content not found")

// Text is one piece of tutor-facing text in every supported language.
type Text struct {
	Hinglish string `yaml:"hinglish" json:"hinglish"`
	Hindi    string `yaml:"hindi" json:"hindi"`
	English  string `yaml:"english" json:"english"`
}

// For returns the text in lang, falling back to Hinglish and then English
// when a translation is missing.
func (t Text) For(lang session.Language) string {
	var s string
	switch lang {
	case session.LangHindi:
		s = t.Hindi
	case session.LangEnglish:
		s = t.English
	default:
		s = t.Hinglish
	}
	if s != "" {
		return s
	}
	if t.Hinglish != "" {
		return t.Hinglish
	}
	return t.English
}

// Empty reports whether no language has text.
func (t Text) Empty() bool {
	return t.Hinglish == "" && t.Hindi == "" && t.English == ""
}

// Question is one evaluable prompt.
type Question struct {
	ID        string `yaml:"id"`
	ConceptID string `yaml:"concept"`
	Prompt    Text   `yaml:"prompt"`

	// ExpectedAnswer is canonical: "-1/7", "5", "0.25" or a word such as "yes".
	ExpectedAnswer      string   `yaml:"answer"`
	AcceptedEquivalents []string `yaml:"accepted"`

	Hint1    Text `yaml:"hint1"`
	Hint2    Text `yaml:"hint2"`
	Solution Text `yaml:"solution"`

	Difficulty int `yaml:"difficulty"`
}

// Hint returns hint level 1 or 2.
func (q *Question) Hint(level int) Text {
	if level <= 1 {
		return q.Hint1
	}
	return q.Hint2
}

// Concept is a unit of teaching. Materials are ordered: definition with a
// hook, then an analogy with an example, then a second example with a trick.
type Concept struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Materials []Text `yaml:"materials"`
}

// Material returns the material at i, clamped to the last entry.
func (c *Concept) Material(i int) Text {
	if len(c.Materials) == 0 {
		return Text{}
	}
	if i >= len(c.Materials) {
		i = len(c.Materials) - 1
	}
	if i < 0 {
		i = 0
	}
	return c.Materials[i]
}

// Lesson is an ordered run of questions.
type Lesson struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	QuestionIDs []string `yaml:"questions"`
}

// Store supplies read-only content by id. Implementations must be safe for
// concurrent use.
type Store interface {
	Lesson(id string) (*Lesson, error)
	Concept(id string) (*Concept, error)
	Question(id string) (*Question, error)
}
