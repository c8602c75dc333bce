package enforcer

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/abhisek/didi/internal/session"
)

// praisePhrases may only be spoken after a correct answer. Bare "correct"
// is not listed: "that is not correct" is feedback, not praise.
var praisePhrases = tokenizeAll([]string{
	"शाबाश", "बहुत अच्छा", "बहुत बढ़िया", "एकदम सही", "वाह", "बिल्कुल सही",
	"shabash", "shabaash", "bahut accha", "bahut achha", "bahut badhiya",
	"ekdam sahi", "bilkul sahi", "wah", "excellent", "perfect", "great job",
	"very good", "well done", "fantastic", "amazing", "brilliant", "sahi jawab",
	"thats correct", "thats right", "you got it", "right answer",
})

// teachingCues mark a sentence as teaching even when the turn was not
// flagged as a teaching turn.
var teachingCues = tokenizeAll([]string{
	"iska matlab", "for example", "jaise ki", "yaad rakhiye",
	"yaad rakho", "note karo", "formula",
})

// hinglishMarkers are common Hindi words in Latin script. Two or more in an
// English reply mean the reply is not English.
var hinglishMarkers = lo.SliceToMap([]string{
	"hai", "hain", "nahi", "nahin", "kya", "aap", "aapne", "aapka", "kijiye",
	"kariye", "chaliye", "sahi", "bahut", "accha", "achha", "theek", "mein",
	"yeh", "woh", "toh", "karo", "boliye", "samajh", "sawaal", "phir", "baat",
	"bhi", "kaise", "kyun", "matlab", "jaise", "tarike", "dekhiye", "suniye",
	"hoon", "hum", "bola", "baata",
}, func(w string) (string, struct{}) { return w, struct{}{} })

func hasPhrase(toks []string, bank [][]string) bool {
	return lo.SomeBy(bank, func(p []string) bool { return indexPhrase(toks, p) >= 0 })
}

// stripPhrases removes every occurrence of the bank's phrases from toks.
func stripPhrases(toks []string, bank [][]string) []string {
	out := toks
	for _, p := range bank {
		for {
			i := indexPhrase(out, p)
			if i < 0 {
				break
			}
			out = append(out[:i:i], out[i+len(p):]...)
		}
	}
	return out
}

// checkPraise drops sentences that are nothing but praise ("Shabash!") and
// rejects praise inside a sentence with other content.
func checkPraise(sentences []string) ([]string, *Violation) {
	var kept []string
	dropped := 0
	embedded := false
	for _, s := range sentences {
		toks := words(s)
		if !hasPhrase(toks, praisePhrases) {
			kept = append(kept, s)
			continue
		}
		if len(stripPhrases(toks, praisePhrases)) == 0 {
			dropped++
			continue
		}
		embedded = true
		kept = append(kept, s)
	}
	switch {
	case embedded:
		return kept, &Violation{Rule: RulePraise, Detail: "praise without a correct answer"}
	case dropped > 0:
		return kept, &Violation{Rule: RulePraise, Detail: fmt.Sprintf("removed %d praise sentence(s)", dropped), Fixed: true}
	}
	return kept, nil
}

func hasTeachingCue(sentences []string) bool {
	return lo.SomeBy(sentences, func(s string) bool { return hasPhrase(words(s), teachingCues) })
}

// checkTeachAndAsk drops questions from a teaching reply. A reply that is
// only questions is rejected.
func checkTeachAndAsk(sentences []string) ([]string, *Violation) {
	questions := lo.CountBy(sentences, isQuestion)
	if questions == 0 {
		return sentences, nil
	}
	kept := lo.Reject(sentences, func(s string, _ int) bool { return isQuestion(s) })
	if len(kept) == 0 {
		return sentences, &Violation{Rule: RuleTeachAndAsk, Detail: "teaching turn is a question"}
	}
	return kept, &Violation{Rule: RuleTeachAndAsk, Detail: fmt.Sprintf("removed %d question(s)", questions), Fixed: true}
}

// checkLength keeps the first MaxSentences sentences and cuts the text at
// MaxWords words.
func (e *Enforcer) checkLength(sentences []string, lang session.Language) (string, *Violation) {
	var details []string
	if len(sentences) > e.cfg.MaxSentences {
		details = append(details, fmt.Sprintf("%d sentences", len(sentences)))
		sentences = sentences[:e.cfg.MaxSentences]
	}
	text := strings.Join(sentences, " ")

	fields := strings.Fields(text)
	if len(fields) > e.cfg.MaxWords {
		details = append(details, fmt.Sprintf("%d words", len(fields)))
		text = strings.TrimRight(strings.Join(fields[:e.cfg.MaxWords], " "), ",;:-")
		if r := []rune(text); len(r) > 0 && !isTerminator(r[len(r)-1]) {
			if lang == session.LangHindi {
				text += "।"
			} else {
				text += "."
			}
		}
	}
	if len(details) == 0 {
		return text, nil
	}
	return text, &Violation{Rule: RuleLength, Detail: strings.Join(details, ", "), Fixed: true}
}

// checkSpecificity requires the student's submitted value, as it would be
// spoken, somewhere in the reply.
func checkSpecificity(text string, ctx Context) *Violation {
	if ctx.StudentAnswer == "" {
		return nil
	}
	said := spokenAnswer(ctx.StudentAnswer, ctx.Language)
	if said == "" {
		return nil
	}
	if strings.Contains(normalizeSpaces(text), said) {
		return nil
	}
	return &Violation{Rule: RuleSpecificity, Detail: fmt.Sprintf("missing student answer %q", ctx.StudentAnswer)}
}

func spokenAnswer(answer string, lang session.Language) string {
	return normalizeSpaces(CleanForSpeech(answer, lang))
}

func normalizeSpaces(s string) string {
	return strings.Join(words(s), " ")
}

// checkLanguage compares the script mix of the reply with the preferred
// language. The student's own answer is ignored: it is quoted, not spoken
// in the tutor's voice.
func checkLanguage(text string, ctx Context) *Violation {
	body := normalizeSpaces(text)
	if ctx.StudentAnswer != "" {
		if said := spokenAnswer(ctx.StudentAnswer, ctx.Language); said != "" {
			body = strings.ReplaceAll(body, said, " ")
		}
	}
	deva, latin := scriptCounts(body)
	total := deva + latin
	if total == 0 {
		return nil
	}
	share := float64(deva) / float64(total)

	switch ctx.Language {
	case session.LangEnglish:
		markers := lo.CountBy(words(body), func(w string) bool {
			_, ok := hinglishMarkers[w]
			return ok
		})
		if share > 0.1 || markers >= 2 {
			return &Violation{Rule: RuleLanguage, Detail: fmt.Sprintf("not English (devanagari %.2f, hindi words %d)", share, markers)}
		}
	case session.LangHindi:
		if share < 0.5 {
			return &Violation{Rule: RuleLanguage, Detail: fmt.Sprintf("not Hindi (devanagari %.2f)", share)}
		}
	default:
		if share > 0.3 {
			return &Violation{Rule: RuleLanguage, Detail: fmt.Sprintf("not Hinglish (devanagari %.2f)", share)}
		}
	}
	return nil
}

// scriptCounts counts Devanagari letters and signs, and Latin letters.
func scriptCounts(s string) (deva, latin int) {
	for _, r := range s {
		switch {
		case r >= 0x0900 && r <= 0x097F:
			deva++
		case r < 0x250 && ('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'):
			latin++
		}
	}
	return deva, latin
}

// checkRepetition rejects a reply whose words mostly repeat the previous
// tutor line.
func (e *Enforcer) checkRepetition(text string, ctx Context) *Violation {
	if ctx.AllowRepeat || ctx.PreviousTutor == "" {
		return nil
	}
	now := lo.Uniq(words(text))
	prev := lo.Uniq(words(ctx.PreviousTutor))
	if len(now) == 0 {
		return nil
	}
	overlap := float64(len(lo.Intersect(now, prev))) / float64(len(now))
	if overlap >= e.cfg.OverlapThreshold {
		return &Violation{Rule: RuleRepetition, Detail: fmt.Sprintf("%.0f%% of words repeat the previous turn", overlap*100)}
	}
	return nil
}
