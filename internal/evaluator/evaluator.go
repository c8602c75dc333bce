// Package evaluator decides whether a spoken or typed answer matches the
// expected answer. It is deterministic and never consults a language model.
package evaluator

import (
	"math"
	"strings"
)

// Correctness is the verdict class.
type Correctness string

const (
	Correct   Correctness = "CORRECT"
	Partial   Correctness = "PARTIAL"
	Incorrect Correctness = "INCORRECT"
)

// Diagnostic explains a verdict. The set is closed.
type Diagnostic string

const (
	DiagExactMatch         Diagnostic = "exact_match"
	DiagEquivalentForm     Diagnostic = "equivalent_form"
	DiagSignError          Diagnostic = "sign_error"
	DiagMissingDenominator Diagnostic = "missing_denominator"
	DiagWrongNumerator     Diagnostic = "wrong_numerator"
	DiagWrongDenominator   Diagnostic = "wrong_denominator"
	DiagCloseNotExact      Diagnostic = "close_not_exact"
	DiagUnparseable        Diagnostic = "unparseable"
	DiagWrongValue         Diagnostic = "wrong_value"
)

// DefaultDecimalTolerance is the absolute slack allowed when a student
// answers a fractional question with a rounded decimal.
const DefaultDecimalTolerance = 0.01

// closeRatio is the relative error under which a wrong value is reported as
// close_not_exact.
const closeRatio = 0.10

// Verdict is the outcome of one evaluation.
type Verdict struct {
	Correctness Correctness `json:"correctness"`
	Diagnostic  Diagnostic  `json:"diagnostic"`

	// Submitted is the answer as the student said it ("one by seven"),
	// or empty when nothing could be read.
	Submitted string `json:"submitted,omitempty"`

	// Canonical is the reduced form of the submitted value ("1/7").
	Canonical string `json:"canonical,omitempty"`
}

// Evaluator compares answers. The zero value uses DefaultDecimalTolerance.
type Evaluator struct {
	DecimalTolerance float64
}

// New returns an Evaluator with the given decimal tolerance.
func New(decimalTolerance float64) *Evaluator {
	return &Evaluator{DecimalTolerance: decimalTolerance}
}

var defaultEvaluator = &Evaluator{DecimalTolerance: DefaultDecimalTolerance}

// Evaluate checks raw against expected with the default tolerance.
func Evaluate(raw, expected string, accepted []string) Verdict {
	return defaultEvaluator.Evaluate(raw, expected, accepted)
}

// Evaluate checks the student's raw answer against the expected answer and
// its accepted equivalents. Every input yields exactly one verdict.
//
// Numeric answers compare by reduced form. Expected answers that are not
// numeric (yes/no questions, words) compare as normalized text.
func (e *Evaluator) Evaluate(raw, expected string, accepted []string) Verdict {
	want, err := parseNumeral(compact(expected))
	if err != nil {
		return e.evaluateText(raw, expected, accepted)
	}

	got, ok := extract(raw)
	if !ok {
		return Verdict{Correctness: Incorrect, Diagnostic: DiagUnparseable}
	}

	v := Verdict{Submitted: got.raw, Canonical: got.numeral.value.String()}
	v.Correctness, v.Diagnostic = e.compare(got.numeral, want, accepted)
	return v
}

func (e *Evaluator) compare(got, want numeral, accepted []string) (Correctness, Diagnostic) {
	if got.value == want.value {
		if !got.decimal && got.num == want.num && got.den == want.den {
			return Correct, DiagExactMatch
		}
		return Correct, DiagEquivalentForm
	}

	for _, a := range accepted {
		alt, err := parseNumeral(compact(a))
		if err == nil && alt.value == got.value {
			return Correct, DiagEquivalentForm
		}
	}

	tol := e.DecimalTolerance
	if tol <= 0 {
		tol = DefaultDecimalTolerance
	}
	if got.decimal && math.Abs(got.value.Float()-want.value.Float()) <= tol {
		return Correct, DiagEquivalentForm
	}

	if want.value.Num != 0 && got.value == want.value.Neg() {
		return Partial, DiagSignError
	}

	// A whole number that matches the numerator of a fractional answer:
	// "-1" or "1" for -1/7.
	if !want.value.IsInteger() && !got.slash && !got.decimal {
		if abs(got.num) == abs(want.num) || abs(got.num) == abs(want.value.Num) {
			return Partial, DiagMissingDenominator
		}
	}

	if got.slash && want.slash {
		switch {
		case got.den == want.den && got.num != want.num:
			return Incorrect, DiagWrongNumerator
		case got.num == want.num && got.den != want.den:
			return Incorrect, DiagWrongDenominator
		}
	}

	if w := want.value.Float(); w != 0 && math.Abs(got.value.Float()-w)/math.Abs(w) <= closeRatio {
		return Incorrect, DiagCloseNotExact
	}
	return Incorrect, DiagWrongValue
}

// evaluateText handles non-numeric expected answers.
func (e *Evaluator) evaluateText(raw, expected string, accepted []string) Verdict {
	words := fields(prepare(raw))
	if len(words) == 0 {
		return Verdict{Correctness: Incorrect, Diagnostic: DiagUnparseable}
	}
	said := strings.Join(words, " ")
	v := Verdict{Submitted: said, Canonical: said}

	for i, want := range append([]string{expected}, accepted...) {
		if matchesText(words, want) {
			v.Correctness = Correct
			v.Diagnostic = DiagExactMatch
			if i > 0 {
				v.Diagnostic = DiagEquivalentForm
			}
			return v
		}
	}
	v.Correctness = Incorrect
	v.Diagnostic = DiagWrongValue
	return v
}

// matchesText compares a spoken answer to a text key. Yes/no keys accept
// any yes/no word in either language; other keys must appear verbatim.
func matchesText(words []string, want string) bool {
	want = strings.ToLower(strings.TrimSpace(want))
	switch {
	case yesWords[want]:
		return hasAnyWord(words, yesWords) && !hasAnyWord(words, noWords)
	case noWords[want]:
		return hasAnyWord(words, noWords)
	}
	return strings.Contains(" "+strings.Join(words, " ")+" ", " "+want+" ")
}

func hasAnyWord(words []string, set map[string]bool) bool {
	for _, w := range words {
		if set[w] {
			return true
		}
	}
	return false
}

// compact strips whitespace from an answer key.
func compact(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), "")
}

// IsYesNo reports whether an answer key expects a yes or no reply.
func IsYesNo(expected string) bool {
	k := strings.ToLower(strings.TrimSpace(expected))
	return yesWords[k] || noWords[k]
}
