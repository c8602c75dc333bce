package classifier

import (
	"strings"
	"unicode"

	"github.com/abhisek/didi/internal/evaluator"
	"github.com/abhisek/didi/internal/session"
)

// Rule is one classification rule. It returns ok=false when it does not
// apply, letting the next rule decide.
type Rule interface {
	Name() string
	Classify(in *Input, toks []string) (Result, bool)
}

// answerWordLimit is the longest wordy reply still read as an answer
// attempt while an answer is expected.
const answerWordLimit = 10

// DefaultRules returns rules in priority order. The first match wins and
// the last rule always matches.
func DefaultRules() []Rule {
	return []Rule{
		&noiseRule{},
		&phraseRule{name: "stop", category: CategoryStop, bank: stopPhrases},
		&phraseRule{name: "comfort", category: CategoryComfort, bank: comfortPhrases},
		&phraseRule{name: "repeat", category: CategoryRepeat, bank: repeatPhrases},
		&numericAnswerRule{},
		&yesNoAnswerRule{},
		&languageRule{},
		&phraseRule{name: "concept", category: CategoryConceptRequest, bank: conceptPhrases},
		&phraseRule{name: "dont_know", category: CategoryDontKnow, bank: dontKnowPhrases},
		&phraseRule{name: "ack", category: CategoryAck, bank: ackPhrases},
		&phraseRule{name: "off_topic", category: CategoryOffTopic, bank: offTopicPhrases},
		&looseAnswerRule{},
		&fallbackRule{},
	}
}

// RunRules executes rules in order and returns the first match.
func RunRules(rules []Rule, in *Input, toks []string) Result {
	for _, r := range rules {
		if res, ok := r.Classify(in, toks); ok {
			res.Rule = r.Name()
			return res
		}
	}
	return Result{Category: CategoryUnintelligible, Rule: "none"}
}

func answerState(s session.State) bool {
	return s == session.StateAwaitingAnswer || s == session.StateHinting
}

// noiseRule catches silence markers and recognizer hallucinations.
type noiseRule struct{}

func (r *noiseRule) Name() string { return "noise" }

func (r *noiseRule) Classify(in *Input, toks []string) (Result, bool) {
	if strings.TrimSpace(in.Text) == "[silence]" || noisePhrases.match(toks) {
		return Result{Category: CategoryUnintelligible}, true
	}
	return Result{}, false
}

// phraseRule matches a phrase bank to a fixed category.
type phraseRule struct {
	name     string
	category Category
	bank     phrases
}

func (r *phraseRule) Name() string { return r.name }

func (r *phraseRule) Classify(_ *Input, toks []string) (Result, bool) {
	if r.bank.match(toks) {
		return Result{Category: r.category}, true
	}
	return Result{}, false
}

// numericAnswerRule favors ANSWER for number-shaped replies while an answer
// is expected.
type numericAnswerRule struct{}

func (r *numericAnswerRule) Name() string { return "numeric_answer" }

func (r *numericAnswerRule) Classify(in *Input, _ []string) (Result, bool) {
	if answerState(in.State) && evaluator.LooksLikeAnswer(in.Text) {
		return Result{Category: CategoryAnswer}, true
	}
	return Result{}, false
}

// yesNoAnswerRule treats a bare "haan" or "nahi" as the answer to a yes/no
// question instead of an acknowledgement.
type yesNoAnswerRule struct{}

func (r *yesNoAnswerRule) Name() string { return "yes_no_answer" }

func (r *yesNoAnswerRule) Classify(in *Input, toks []string) (Result, bool) {
	if answerState(in.State) && in.ExpectsYesNo && yesNoPhrases.match(toks) {
		return Result{Category: CategoryAnswer}, true
	}
	return Result{}, false
}

// languageRule detects an explicit request for another language.
type languageRule struct{}

func (r *languageRule) Name() string { return "language_switch" }

func (r *languageRule) Classify(_ *Input, toks []string) (Result, bool) {
	for _, lang := range languageOrder {
		if languagePhrases[lang].match(toks) {
			return Result{Category: CategoryLanguageSwitch, Language: lang}, true
		}
	}
	return Result{}, false
}

// looseAnswerRule accepts answers that did not match any phrase: number
// words in any state, and short wordy attempts while an answer is expected.
type looseAnswerRule struct{}

func (r *looseAnswerRule) Name() string { return "loose_answer" }

func (r *looseAnswerRule) Classify(in *Input, toks []string) (Result, bool) {
	if evaluator.LooksLikeAnswer(in.Text) {
		return Result{Category: CategoryAnswer}, true
	}
	if !answerState(in.State) {
		return Result{}, false
	}
	if evaluator.HasNumber(in.Text) || (len(toks) > 0 && len(toks) <= answerWordLimit) {
		return Result{Category: CategoryAnswer}, true
	}
	return Result{}, false
}

// fallbackRule ends the chain: words are off topic, anything else is noise.
type fallbackRule struct{}

func (r *fallbackRule) Name() string { return "fallback" }

func (r *fallbackRule) Classify(in *Input, _ []string) (Result, bool) {
	if strings.IndexFunc(in.Text, unicode.IsLetter) >= 0 {
		return Result{Category: CategoryOffTopic}, true
	}
	return Result{Category: CategoryUnintelligible}, true
}
