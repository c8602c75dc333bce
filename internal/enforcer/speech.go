package enforcer

import (
	"regexp"
	"strings"

	"github.com/abhisek/didi/internal/session"
)

// Symbol rewrites, applied in order. Fractions come first so that their
// slash and sign are read together.
var speechRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(\d+)\s*/\s*-\s*(\d+)`), " minus $1 by $2"},
	{regexp.MustCompile(`-\s*(\d+)\s*/\s*(\d+)`), " minus $1 by $2"},
	{regexp.MustCompile(`(\d+)\s*/\s*(\d+)`), "$1 by $2"},
	{regexp.MustCompile(`[×*]`), " into "},
	{regexp.MustCompile(`÷`), " divided by "},
	{regexp.MustCompile(`\s*\+\s*`), " plus "},
	{regexp.MustCompile(`(\d)\s*-\s*(\d)`), "$1 minus $2"},
	{regexp.MustCompile(`−`), " minus "},
	{regexp.MustCompile(`\s*≠\s*`), " not equal to "},
	{regexp.MustCompile(`\s*≤\s*`), " less than or equal to "},
	{regexp.MustCompile(`\s*≥\s*`), " greater than or equal to "},
	{regexp.MustCompile(`\s*=\s*`), " equals "},
	{regexp.MustCompile(`\s*<\s*`), " less than "},
	{regexp.MustCompile(`\s*>\s*`), " greater than "},
	{regexp.MustCompile(`(^|[^\p{L}\p{N}_])-(\d)`), "${1}minus $2"},
	{regexp.MustCompile(`²`), " square"},
	{regexp.MustCompile(`³`), " cube"},
	{regexp.MustCompile(`\^\s*(\d+)`), " to the power $1"},
	{regexp.MustCompile(`\bCh\.?\s*(\d+)`), "Chapter $1"},
	{regexp.MustCompile(`\bEx\.?\s*(\d+)`), "Exercise $1"},
	{regexp.MustCompile(`\bQ\.?\s*(\d+)`), "Question $1"},
	{regexp.MustCompile(`\bFig\.?\s*(\d+)`), "Figure $1"},
	{regexp.MustCompile(`\bEq\.?\s*(\d+)`), "Equation $1"},
	{regexp.MustCompile(`\be\.g\.`), "for example"},
	{regexp.MustCompile(`\bi\.e\.`), "that is"},
	{regexp.MustCompile(`(\d+)\s*%`), "$1 percent"},
	{regexp.MustCompile(`(\d+)\s*°`), "$1 degrees"},
	{regexp.MustCompile(`π`), "pi"},
}

var (
	brackets = strings.NewReplacer("(", "", ")", "", "[", "", "]", "", "{", "", "}", "")

	// markdown emphasis and code marks; a single * is multiplication.
	markdown = regexp.MustCompile("\\*\\*+|`+")

	// unspeakable matches anything a speech engine would read out or choke
	// on. Letters and marks of any script, digits and plain punctuation
	// survive.
	unspeakable = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\s.,?!:;'।-]`)

	spaces = regexp.MustCompile(`\s+`)

	// spaceBeforePunct fixes "7 ." left behind by symbol removal.
	spaceBeforePunct = regexp.MustCompile(`\s+([.,?!:;।])`)

	hindiBy = regexp.MustCompile(`(\d+)\s+by\s+(\d+)`)
)

// CleanForSpeech rewrites symbolic notation as words so a speech engine
// reads it correctly. "-5/9 + 2/9" becomes "minus 5 by 9 plus 2 by 9".
// Hindi output reads fractions as "baata".
func CleanForSpeech(text string, lang session.Language) string {
	if text == "" {
		return text
	}
	out := markdown.ReplaceAllString(brackets.Replace(text), "")
	for _, r := range speechRules {
		out = r.re.ReplaceAllString(out, r.repl)
	}
	out = unspeakable.ReplaceAllString(out, "")
	if lang == session.LangHindi {
		out = hindiBy.ReplaceAllString(out, "$1 baata $2")
	}
	out = spaces.ReplaceAllString(out, " ")
	out = spaceBeforePunct.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}
