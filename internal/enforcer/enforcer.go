// Package enforcer checks and cleans tutor text before it is spoken. Some
// rules rewrite the text in place; the rest reject it so that the caller
// can regenerate or fall back.
package enforcer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/abhisek/didi/internal/evaluator"
	"github.com/abhisek/didi/internal/session"
)

// Rule names an enforcement rule.
type Rule string

const (
	RuleEmpty       Rule = "empty"
	RuleLength      Rule = "length"
	RulePraise      Rule = "praise"
	RuleSpecificity Rule = "specificity"
	RuleTeachAndAsk Rule = "teach_and_ask"
	RuleLanguage    Rule = "language"
	RuleRepetition  Rule = "repetition"
)

// Violation is one broken rule. Fixed violations were repaired by
// rewriting the text; the others reject it.
type Violation struct {
	Rule   Rule   `json:"rule"`
	Detail string `json:"detail,omitempty"`
	Fixed  bool   `json:"fixed,omitempty"`
}

// Config holds the enforcement limits.
type Config struct {
	MaxWords         int
	MaxSentences     int
	OverlapThreshold float64
}

// DefaultConfig returns the product limits.
func DefaultConfig() Config {
	return Config{MaxWords: 40, MaxSentences: 2, OverlapThreshold: 0.7}
}

// Context is what the rules need to know about the turn.
type Context struct {
	Language session.Language
	Verdict  *evaluator.Verdict

	// StudentAnswer is the literal submitted value when the turn responds
	// to an answer attempt.
	StudentAnswer string

	// Teaching is set when the turn presents teaching material.
	Teaching bool

	// PreviousTutor is the tutor's previous line.
	PreviousTutor string
	AllowRepeat   bool
}

func (c Context) praiseAllowed() bool {
	return c.Verdict != nil && c.Verdict.Correctness == evaluator.Correct
}

// Result is the outcome of Enforce.
type Result struct {
	Text       string
	Violations []Violation
}

// OK reports whether the text may be used.
func (r Result) OK() bool {
	return len(r.Rejections()) == 0
}

// Rejections returns the violations that could not be repaired.
func (r Result) Rejections() []Violation {
	return lo.Filter(r.Violations, func(v Violation, _ int) bool { return !v.Fixed })
}

// Enforcer applies every rule to candidate text. It is stateless and safe
// for concurrent use.
type Enforcer struct {
	cfg Config
}

// New returns an Enforcer. Zero limits take defaults.
func New(cfg Config) *Enforcer {
	d := DefaultConfig()
	if cfg.MaxWords <= 0 {
		cfg.MaxWords = d.MaxWords
	}
	if cfg.MaxSentences <= 0 {
		cfg.MaxSentences = d.MaxSentences
	}
	if cfg.OverlapThreshold <= 0 || cfg.OverlapThreshold > 1 {
		cfg.OverlapThreshold = d.OverlapThreshold
	}
	return &Enforcer{cfg: cfg}
}

// Enforce runs the rules in order: speech cleaning, praise, teach-and-ask,
// length, specificity, language, repetition. Rewrites happen before the
// checks that depend on the final text.
func (e *Enforcer) Enforce(candidate string, ctx Context) Result {
	var res Result
	text := CleanForSpeech(strings.TrimSpace(candidate), ctx.Language)
	if text == "" {
		res.Violations = append(res.Violations, Violation{Rule: RuleEmpty})
		return res
	}

	sentences := splitSentences(text)

	if !ctx.praiseAllowed() {
		var v *Violation
		sentences, v = checkPraise(sentences)
		if v != nil {
			res.Violations = append(res.Violations, *v)
		}
	}

	if ctx.Teaching || hasTeachingCue(sentences) {
		var v *Violation
		sentences, v = checkTeachAndAsk(sentences)
		if v != nil {
			res.Violations = append(res.Violations, *v)
		}
	}

	var v *Violation
	text, v = e.checkLength(sentences, ctx.Language)
	if v != nil {
		res.Violations = append(res.Violations, *v)
	}
	res.Text = text
	if text == "" {
		res.Violations = append(res.Violations, Violation{Rule: RuleEmpty})
		return res
	}

	if v := checkSpecificity(text, ctx); v != nil {
		res.Violations = append(res.Violations, *v)
	}
	if v := checkLanguage(text, ctx); v != nil {
		res.Violations = append(res.Violations, *v)
	}
	if v := e.checkRepetition(text, ctx); v != nil {
		res.Violations = append(res.Violations, *v)
	}
	return res
}

// Correction turns a rejection into an instruction for the next attempt.
func Correction(v Violation, ctx Context) string {
	switch v.Rule {
	case RuleEmpty:
		return "Reply with one or two short sentences."
	case RulePraise:
		return "Do not praise the student in this reply; the answer was not correct."
	case RuleSpecificity:
		return fmt.Sprintf("Repeat the student's answer %q exactly as they said it.", ctx.StudentAnswer)
	case RuleTeachAndAsk:
		return "Do not ask a question while teaching; only explain."
	case RuleLanguage:
		return fmt.Sprintf("Reply only in %s.", LanguageName(ctx.Language))
	case RuleRepetition:
		return "Do not repeat your previous reply; say it differently."
	case RuleLength:
		return "Use at most two short sentences."
	}
	return ""
}

// LanguageName is the name used in prompts.
func LanguageName(l session.Language) string {
	switch l {
	case session.LangHindi:
		return "Hindi written in Devanagari script"
	case session.LangEnglish:
		return "simple English"
	}
	return "Hinglish (Hindi and English mixed, in Latin script)"
}

// splitSentences splits after ., !, ? or । when followed by a space or the
// end of text. Decimals such as 0.5 stay whole.
func splitSentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i, r := range runes {
		if !isTerminator(r) {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '।'
}

func isQuestion(sentence string) bool {
	return strings.HasSuffix(sentence, "?")
}

// words lowercases text and splits it into word tokens, dropping
// apostrophes so "that's" is "thats".
func words(text string) []string {
	text = strings.ToLower(strings.NewReplacer("'", "", "’", "").Replace(text))
	return strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r))
	})
}

// indexPhrase returns the token index where phrase starts in toks, or -1.
func indexPhrase(toks, phrase []string) int {
	for i := 0; i+len(phrase) <= len(toks); i++ {
		match := true
		for j, w := range phrase {
			if toks[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func tokenizeAll(phrases []string) [][]string {
	return lo.FilterMap(phrases, func(p string, _ int) ([]string, bool) {
		t := words(p)
		return t, len(t) > 0
	})
}
