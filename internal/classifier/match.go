package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/abhisek/didi/internal/evaluator"
)

// fuzzyMinRunes is the shortest token allowed to match with one edit.
// Shorter words differ by one letter too often ("bas", "bus").
const fuzzyMinRunes = 5

// maxLeadingTokens bounds utterances that leading phrases may match.
const maxLeadingTokens = 6

// tokenize lowercases text and splits it into word tokens. Apostrophes are
// dropped so "don't" and "dont" compare equal; every other non-word rune
// separates tokens. Devanagari vowel signs stay attached to their letters.
func tokenize(text string) []string {
	text = strings.ToLower(text)
	text = strings.NewReplacer("'", "", "’", "", "`", "").Replace(text)
	return strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc))
	})
}

// vocabulary holds every word of every phrase bank. newPhrases fills it
// during package initialization; it is read-only afterwards.
var vocabulary = map[string]struct{}{}

// tokenEqual compares two tokens, allowing one edit for longer words.
// A token that is itself a bank word only matches exactly, so "samjha"
// (understood) never becomes "samjhao" (explain). Number words never match
// fuzzily either: "eight" is not "right".
func tokenEqual(got, want string) bool {
	if got == want {
		return true
	}
	if utf8.RuneCountInString(want) < fuzzyMinRunes || utf8.RuneCountInString(got) < fuzzyMinRunes {
		return false
	}
	if _, known := vocabulary[got]; known {
		return false
	}
	if evaluator.HasNumber(got) {
		return false
	}
	return fuzzy.LevenshteinDistance(got, want) <= 1
}

// phraseAt reports whether phrase occurs in toks starting at i.
func phraseAt(toks, phrase []string, i int) bool {
	if i+len(phrase) > len(toks) {
		return false
	}
	for j, w := range phrase {
		if !tokenEqual(toks[i+j], w) {
			return false
		}
	}
	return true
}

// phrases is one category's phrase bank.
type phrases struct {
	// anywhere match as a contiguous run at any position.
	anywhere [][]string
	// leading match at the start of a short utterance.
	leading [][]string
	// whole match only the entire utterance.
	whole [][]string
}

func newPhrases(anywhere, leading, whole []string) phrases {
	split := func(ss []string) [][]string {
		out := make([][]string, 0, len(ss))
		for _, s := range ss {
			t := tokenize(s)
			if len(t) == 0 {
				continue
			}
			for _, w := range t {
				vocabulary[w] = struct{}{}
			}
			out = append(out, t)
		}
		return out
	}
	return phrases{anywhere: split(anywhere), leading: split(leading), whole: split(whole)}
}

// match reports whether any phrase in the bank matches toks.
func (p phrases) match(toks []string) bool {
	if len(toks) == 0 {
		return false
	}
	for _, ph := range p.whole {
		if len(ph) == len(toks) && phraseAt(toks, ph, 0) {
			return true
		}
	}
	if len(toks) <= maxLeadingTokens {
		for _, ph := range p.leading {
			if phraseAt(toks, ph, 0) {
				return true
			}
		}
	}
	for _, ph := range p.anywhere {
		for i := 0; i+len(ph) <= len(toks); i++ {
			if phraseAt(toks, ph, i) {
				return true
			}
		}
	}
	return false
}
