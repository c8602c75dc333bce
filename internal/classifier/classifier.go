package classifier

import (
	"strings"

	"github.com/abhisek/didi/internal/session"
)

// DefaultConfidenceThreshold is the transcription confidence below which an
// utterance is UNINTELLIGIBLE whatever its text.
const DefaultConfidenceThreshold = 0.4

// Input is one utterance with the context classification depends on.
type Input struct {
	Text string

	// Confidence is the speech recognizer's confidence in [0, 1]. Typed
	// input uses 1.
	Confidence float64

	State    session.State
	Language session.Language

	// ExpectsYesNo is set when the current question has a yes/no answer.
	ExpectsYesNo bool
}

// Result is the classification of one utterance.
type Result struct {
	Category Category

	// Language is the requested language for LANGUAGE_SWITCH.
	Language session.Language

	// Rule names the rule that decided, for logs and tests.
	Rule string
}

// Classifier runs the rule chain. It holds no per-session state and is safe
// for concurrent use.
type Classifier struct {
	rules     []Rule
	threshold float64
}

// New returns a Classifier with the default rules.
func New(confidenceThreshold float64) *Classifier {
	if confidenceThreshold <= 0 {
		confidenceThreshold = DefaultConfidenceThreshold
	}
	return &Classifier{rules: DefaultRules(), threshold: confidenceThreshold}
}

// Classify maps in to exactly one category. It never fails: a panic inside
// a rule yields UNINTELLIGIBLE.
func (c *Classifier) Classify(in Input) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Category: CategoryUnintelligible, Rule: "recovered"}
		}
	}()

	if in.Confidence < c.threshold {
		return Result{Category: CategoryUnintelligible, Rule: "low_confidence"}
	}
	if strings.TrimSpace(in.Text) == "" {
		return Result{Category: CategoryUnintelligible, Rule: "empty"}
	}
	return RunRules(c.rules, &in, tokenize(in.Text))
}
