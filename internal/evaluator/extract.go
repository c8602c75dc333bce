package evaluator

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
)

type tokenKind int

const (
	kindBoundary tokenKind = iota
	kindNumber
	kindSlash
	kindMinus
)

type token struct {
	kind      tokenKind
	raw       string // words as written by the student
	compact   string // numeric form for kindNumber: "7", "2/3", "0.5"
	value     int64  // integer value of word-built numbers
	fromWords bool
	fraction  bool // collecting digits after a spoken decimal point
}

// extraction is the last plausible numeric answer found in an utterance.
type extraction struct {
	numeral numeral
	raw     string
}

var (
	numericToken = regexp.MustCompile(`^-?(\d+|\d*\.\d+)(\.\.\.|…)?(/-?\d+)?$`)
	thousandsSep = regexp.MustCompile(`(\d),(\d{3})`)
	digitSlash   = regexp.MustCompile(`(\d)\s*/\s*(-?\d)`)
	edgePunct    = "\"'“”‘’()[]{},;:!?"
)

// englishNumbers are the words eligible for phonetic matching, in order;
// on a code collision the earlier word wins.
var englishNumbers = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight",
	"nine", "ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen",
	"sixteen", "seventeen", "eighteen", "nineteen", "twenty",
}

type phoneticHit struct {
	word  string
	value int64
}

// phoneticCodes maps the Double Metaphone code of each English number word
// to its value. Codes shorter than two letters are too ambiguous to keep.
var phoneticCodes = func() map[string]phoneticHit {
	out := make(map[string]phoneticHit)
	for _, w := range englishNumbers {
		p, _ := matchr.DoubleMetaphone(w)
		if len(p) < 2 {
			continue
		}
		if _, taken := out[p]; taken {
			continue
		}
		out[p] = phoneticHit{word: w, value: numberWords[w]}
	}
	return out
}()

// prepare lowercases the utterance, maps Devanagari digits and math
// symbols to ASCII, keeps only the right side of an equation and strips a
// leading filler phrase.
func prepare(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		if d, ok := devanagariDigits[r]; ok {
			return d
		}
		switch r {
		case '−', '–':
			return '-'
		case '÷', '⁄':
			return '/'
		case '।':
			return ' '
		}
		return r
	}, s)
	if i := strings.LastIndex(s, "="); i >= 0 {
		s = s[i+1:]
	}
	s = thousandsSep.ReplaceAllString(s, "$1$2")
	s = digitSlash.ReplaceAllString(s, "$1/$2")
	s = strings.TrimSpace(s)
	for _, p := range fillerPrefixes {
		if s == p {
			return ""
		}
		if strings.HasPrefix(s, p+" ") {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}
	return s
}

// fields splits prepared text into words with surrounding punctuation
// removed. A trailing "..." after digits is kept as repeating-decimal
// notation.
func fields(s string) []string {
	var out []string
	for _, f := range strings.Fields(s) {
		f = strings.Trim(f, edgePunct)
		if !(strings.HasSuffix(f, "...") || strings.HasSuffix(f, "…")) || !hasDigit(f) {
			f = strings.TrimRight(f, ".…")
		}
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// lex turns words into number-phrase tokens. It also reports how many
// words took part in a number phrase.
func lex(words []string) ([]token, int) {
	var toks []token
	used := 0

	last := func() *token {
		if len(toks) == 0 {
			return nil
		}
		return &toks[len(toks)-1]
	}

	for i, w := range words {
		prev := last()
		if prev != nil && prev.fraction {
			if d, ok := digitText(w); ok {
				prev.compact += d
				prev.raw += " " + w
				used++
				continue
			}
			prev.fraction = false
		}
		switch {
		case numericToken.MatchString(w):
			toks = append(toks, token{kind: kindNumber, raw: w, compact: w})

		case negativeWords[w]:
			toks = append(toks, token{kind: kindMinus, raw: w})

		case separatorWords[w]:
			toks = append(toks, token{kind: kindSlash, raw: w})

		case w == "or" || w == "aur":
			// "over" is often transcribed as "or" between two numbers.
			if prev != nil && prev.kind == kindNumber && i+1 < len(words) && isNumberWord(words[i+1]) {
				toks = append(toks, token{kind: kindSlash, raw: w})
			} else {
				toks = append(toks, token{kind: kindBoundary, raw: w})
				continue
			}

		case skipWords[w]:
			used++
			continue

		case pointWords[w] && prev != nil && prev.kind == kindNumber &&
			!strings.ContainsAny(prev.compact, "/.") && i+1 < len(words) && isDigitText(words[i+1]):
			prev.compact += "."
			prev.raw += " " + w
			prev.fromWords = false
			prev.fraction = true

		case multiplierWords[w] > 0:
			m := multiplierWords[w]
			if prev != nil && prev.kind == kindNumber && prev.fromWords && !strings.Contains(prev.compact, "/") {
				prev.value *= m
				prev.compact = strconv.FormatInt(prev.value, 10)
				prev.raw += " " + w
			} else {
				toks = append(toks, token{kind: kindNumber, raw: w, compact: strconv.FormatInt(m, 10), value: m, fromWords: true})
			}

		case fractionWords[w] > 0:
			den := fractionWords[w]
			if prev != nil && prev.kind == kindNumber && !strings.ContainsAny(prev.compact, "/.") {
				prev.compact = prev.compact + "/" + strconv.FormatInt(den, 10)
				prev.raw += " " + w
				prev.fromWords = false
			} else {
				toks = append(toks, token{kind: kindNumber, raw: w, compact: "1/" + strconv.FormatInt(den, 10)})
			}

		default:
			if r, ok := mixedWords[w]; ok {
				toks = append(toks, token{kind: kindNumber, raw: w, compact: r.String()})
				break
			}
			v, ok := wordValue(w)
			if !ok {
				toks = append(toks, token{kind: kindBoundary, raw: w})
				continue
			}
			// "twenty one": tens followed by a unit word.
			if prev != nil && prev.kind == kindNumber && prev.fromWords &&
				prev.value >= 20 && prev.value < 100 && prev.value%10 == 0 && v < 10 {
				prev.value += v
				prev.compact = strconv.FormatInt(prev.value, 10)
				prev.raw += " " + w
			} else {
				toks = append(toks, token{kind: kindNumber, raw: w, compact: strconv.FormatInt(v, 10), value: v, fromWords: true})
			}
		}
		used++
	}
	return toks, used
}

// candidate is one "[-] n [/ [-] d]" phrase.
type candidate struct {
	compact string
	raw     []string
}

// candidates walks the token stream and collects every number phrase in
// order of appearance.
func candidates(toks []token) []candidate {
	var out []candidate
	i := 0
	for i < len(toks) {
		c, next, ok := readPhrase(toks, i)
		if ok {
			out = append(out, c)
			i = next
			continue
		}
		i++
	}
	return out
}

func readPhrase(toks []token, i int) (candidate, int, bool) {
	var c candidate
	sign := ""
	if toks[i].kind == kindMinus {
		if i+1 >= len(toks) || toks[i+1].kind != kindNumber {
			return c, i + 1, false
		}
		sign = "-"
		c.raw = append(c.raw, toks[i].raw)
		i++
	}
	if toks[i].kind != kindNumber {
		return c, i + 1, false
	}
	c.compact = applySign(sign, toks[i].compact)
	c.raw = append(c.raw, toks[i].raw)
	i++

	if strings.Contains(c.compact, "/") || i >= len(toks) || toks[i].kind != kindSlash {
		return c, i, true
	}

	j := i + 1
	denSign := ""
	if j < len(toks) && toks[j].kind == kindMinus {
		denSign = "-"
		j++
	}
	if j >= len(toks) || toks[j].kind != kindNumber || strings.ContainsAny(toks[j].compact, "/.") {
		return c, i, true
	}
	for _, t := range toks[i : j+1] {
		c.raw = append(c.raw, t.raw)
	}
	c.compact = c.compact + "/" + denSign + toks[j].compact
	return c, j + 1, true
}

func applySign(sign, compact string) string {
	if sign == "" {
		return compact
	}
	if strings.HasPrefix(compact, "-") {
		return strings.TrimPrefix(compact, "-")
	}
	return sign + compact
}

// extract returns the last plausible numeric answer in the utterance.
func extract(utterance string) (extraction, bool) {
	words := fields(prepare(utterance))
	if len(words) == 0 {
		return extraction{}, false
	}
	toks, _ := lex(words)
	cands := candidates(toks)
	for i := len(cands) - 1; i >= 0; i-- {
		n, err := parseNumeral(cands[i].compact)
		if err != nil {
			continue
		}
		return extraction{numeral: n, raw: strings.Join(cands[i].raw, " ")}, true
	}
	return extraction{}, false
}

// wordValue resolves a spoken number word, falling back to a phonetic
// match for English number words garbled by transcription ("fore", "nein").
func wordValue(w string) (int64, bool) {
	if v, ok := numberWords[w]; ok {
		return v, true
	}
	if len(w) < 3 || !isASCIIWord(w) || phoneticStop[w] {
		return 0, false
	}
	p, _ := matchr.DoubleMetaphone(w)
	hit, ok := phoneticCodes[p]
	if !ok {
		return 0, false
	}
	if matchr.JaroWinkler(w, hit.word, false) < 0.7 {
		return 0, false
	}
	return hit.value, true
}

// digitText returns the digits a word contributes after a decimal point:
// a run of digits as written or a single spoken digit.
func digitText(w string) (string, bool) {
	if w != "" && strings.Trim(w, "0123456789") == "" {
		return w, true
	}
	if v, ok := wordValue(w); ok && v < 10 {
		return strconv.FormatInt(v, 10), true
	}
	return "", false
}

func isDigitText(w string) bool {
	_, ok := digitText(w)
	return ok
}

func isNumberWord(w string) bool {
	if numericToken.MatchString(w) {
		return true
	}
	_, ok := wordValue(w)
	return ok
}

func isASCIIWord(w string) bool {
	for _, r := range w {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false
		}
	}
	return w != ""
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// HasNumber reports whether any numeric answer can be read from the text.
func HasNumber(text string) bool {
	_, ok := extract(text)
	return ok
}

// LooksLikeAnswer is a stricter check used while an answer is expected:
// the text contains digits, or number words make up most of a short
// utterance. "ek baar phir samjhao" contains "ek" but is not an answer.
func LooksLikeAnswer(text string) bool {
	words := fields(prepare(text))
	if len(words) == 0 {
		return false
	}
	toks, used := lex(words)
	if len(candidates(toks)) == 0 {
		return false
	}
	for _, w := range words {
		if hasDigit(w) {
			return true
		}
	}
	return len(words) <= 2 || 2*used >= len(words)
}
