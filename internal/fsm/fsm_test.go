package fsm

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/didi/internal/classifier"
	"github.com/abhisek/didi/internal/content"
	"github.com/abhisek/didi/internal/evaluator"
	"github.com/abhisek/didi/internal/session"
)

const demoPack = `
version: v1.0.0
concepts:
  - id: adding
    name: Adding
    materials:
      - english: "Material one."
      - english: "Material two."
      - english: "Material three."
  - id: inverses
    name: Inverses
    materials:
      - english: "Inverse material."
questions:
  - id: q1
    concept: adding
    prompt: {english: "What is 1/4 plus 2/3?"}
    answer: "11/12"
    hint1: {english: "Find the LCM."}
    hint2: {english: "The LCM is 12."}
    solution: {english: "3/12 plus 8/12 is 11/12."}
  - id: q2
    concept: adding
    prompt: {english: "What is 2 plus 3?"}
    answer: "5"
    hint1: {english: "Count on from 2."}
    hint2: {english: "2, 3, 4, 5."}
    solution: {english: "2 plus 3 is 5."}
  - id: q3
    concept: inverses
    prompt: {english: "What is the additive inverse of 2?"}
    answer: "-2"
    hint1: {english: "Flip the sign."}
    hint2: {english: "It is negative."}
    solution: {english: "It is minus 2."}
lessons:
  - id: demo
    title: Demo
    questions: [q1, q2, q3]
`

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func demoEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	p, err := content.Load(strings.NewReader(demoPack))
	if err != nil {
		t.Fatalf("load pack: %v", err)
	}
	return New(p, cfg)
}

func defaultEngine(t *testing.T) *Engine {
	t.Helper()
	p, err := content.Default()
	if err != nil {
		t.Fatalf("load default pack: %v", err)
	}
	return New(p, DefaultConfig())
}

func newSession(t *testing.T, e *Engine, lessonID string) *session.Session {
	t.Helper()
	s, _, err := e.NewSession("sess-1", "student-1", lessonID, epoch)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func say(t *testing.T, e *Engine, s *session.Session, text string) *Step {
	t.Helper()
	st, err := e.Step(s, Utterance{Text: text, Confidence: 1})
	if err != nil {
		t.Fatalf("Step(%q): %v", text, err)
	}
	return st
}

func hasDevanagari(s string) bool {
	for _, r := range s {
		if r >= 0x0900 && r <= 0x097F {
			return true
		}
	}
	return false
}

func TestTable_Total(t *testing.T) {
	for _, st := range session.AllStates {
		for _, cat := range classifier.AllCategories {
			tr, err := Lookup(st, cat)
			if err != nil {
				t.Errorf("Lookup(%s, %s): %v", st, cat, err)
				continue
			}
			if !tr.Next.Valid() {
				t.Errorf("Lookup(%s, %s) next state %q is invalid", st, cat, tr.Next)
			}
			if _, ok := handlers[tr.Handler]; !ok {
				t.Errorf("Lookup(%s, %s) handler %q has no implementation", st, cat, tr.Handler)
			}
		}
	}
	if got := len(table); got != len(session.AllStates) {
		t.Errorf("table has %d rows, want %d", got, len(session.AllStates))
	}
	for st, r := range table {
		if len(r) != len(classifier.AllCategories) {
			t.Errorf("row %s has %d cells, want %d", st, len(r), len(classifier.AllCategories))
		}
	}
}

func TestTable_OverridesAgreeWithCells(t *testing.T) {
	for _, st := range session.AllStates {
		for _, cat := range []classifier.Category{classifier.CategoryStop, classifier.CategoryLanguageSwitch} {
			cell, _ := Lookup(st, cat)
			got, err := Resolve(st, cat)
			if err != nil {
				t.Fatalf("Resolve(%s, %s): %v", st, cat, err)
			}
			if got != cell {
				t.Errorf("Resolve(%s, %s) = %v, table cell is %v", st, cat, got, cell)
			}
		}
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, err := Lookup("NAPPING", classifier.CategoryAck); err == nil {
		t.Error("expected error for unknown state")
	}
	if _, err := Lookup(session.StateTeaching, "SHRUG"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestNewSession(t *testing.T) {
	e := demoEngine(t, DefaultConfig())
	s, in, err := e.NewSession("sess-1", "student-1", "demo", epoch)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.CurrentState != session.StateGreeting {
		t.Errorf("state = %s, want GREETING", s.CurrentState)
	}
	if s.QuestionsTarget != 3 {
		t.Errorf("QuestionsTarget = %d, want 3 (lesson length)", s.QuestionsTarget)
	}
	if in.Canned == "" || in.Handler != HandleGreet {
		t.Errorf("opening = %+v, want a greeting", in)
	}

	if _, _, err := e.NewSession("x", "y", "missing", epoch); err == nil {
		t.Error("expected error for unknown lesson")
	}
}

func TestNewSession_TargetCapped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuestionsTarget = 2
	e := demoEngine(t, cfg)
	s := newSession(t, e, "demo")
	if s.QuestionsTarget != 2 {
		t.Errorf("QuestionsTarget = %d, want 2", s.QuestionsTarget)
	}
}

func TestStep_EndToEnd(t *testing.T) {
	e := demoEngine(t, DefaultConfig())
	s := newSession(t, e, "demo")

	st := say(t, e, s, "ready")
	s = st.Session
	if s.CurrentState != session.StateTeaching || s.TeachMaterialIndex != 0 {
		t.Fatalf("after ready: state %s index %d, want TEACHING 0", s.CurrentState, s.TeachMaterialIndex)
	}
	if s.CurrentQuestionID != "q1" || s.CurrentConceptID != "adding" {
		t.Errorf("question %q concept %q, want q1/adding", s.CurrentQuestionID, s.CurrentConceptID)
	}

	st = say(t, e, s, "I don't know")
	s = st.Session
	if s.CurrentState != session.StateTeaching || s.TeachMaterialIndex != 1 {
		t.Fatalf("after don't know: state %s index %d, want TEACHING 1", s.CurrentState, s.TeachMaterialIndex)
	}

	st = say(t, e, s, "samajh gaya")
	s = st.Session
	if s.CurrentState != session.StateAwaitingAnswer {
		t.Fatalf("after ack: state %s, want AWAITING_ANSWER", s.CurrentState)
	}

	st = say(t, e, s, "1/3")
	s = st.Session
	if st.Verdict == nil || st.Verdict.Correctness != evaluator.Incorrect {
		t.Fatalf("verdict = %+v, want INCORRECT", st.Verdict)
	}
	if s.AttemptCount != 1 || s.CurrentState != session.StateAwaitingAnswer {
		t.Errorf("after 1/3: attempts %d state %s, want 1 AWAITING_ANSWER", s.AttemptCount, s.CurrentState)
	}
	if !strings.Contains(st.Instruction.Canned, "1/3") {
		t.Errorf("feedback %q does not repeat the answer", st.Instruction.Canned)
	}

	st = say(t, e, s, "11/12")
	s = st.Session
	if st.Verdict == nil || st.Verdict.Correctness != evaluator.Correct {
		t.Fatalf("verdict = %+v, want CORRECT", st.Verdict)
	}
	if s.Score != 1 || s.QuestionsAsked != 1 {
		t.Errorf("score %d asked %d, want 1 1", s.Score, s.QuestionsAsked)
	}
	// q2 shares the concept, so it is asked straight away.
	if s.CurrentState != session.StateAwaitingAnswer || s.CurrentQuestionID != "q2" {
		t.Errorf("after correct: state %s question %q, want AWAITING_ANSWER q2", s.CurrentState, s.CurrentQuestionID)
	}
	if s.PreviousState != session.StateAdvancing {
		t.Errorf("previous state %s, want ADVANCING", s.PreviousState)
	}
	if s.AttemptCount != 0 || s.HintsGiven != 0 {
		t.Errorf("question counters not reset: attempts %d hints %d", s.AttemptCount, s.HintsGiven)
	}

	st = say(t, e, s, "5")
	s = st.Session
	// q3 introduces a new concept.
	if s.CurrentState != session.StateTeaching || s.CurrentConceptID != "inverses" {
		t.Errorf("after q2: state %s concept %q, want TEACHING inverses", s.CurrentState, s.CurrentConceptID)
	}
	if s.ReteachCount != 0 || s.TeachMaterialIndex != 0 {
		t.Errorf("concept counters not reset: reteach %d index %d", s.ReteachCount, s.TeachMaterialIndex)
	}

	st = say(t, e, s, "band karo")
	if st.Session.CurrentState != session.StateSessionEnd {
		t.Errorf("after stop: state %s, want SESSION_END", st.Session.CurrentState)
	}
}

func TestStep_TargetReachedEndsSession(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuestionsTarget = 1
	e := demoEngine(t, cfg)
	s := newSession(t, e, "demo")
	for _, in := range []string{"ready", "ok", "11/12"} {
		s = say(t, e, s, in).Session
	}
	if s.CurrentState != session.StateSessionEnd {
		t.Errorf("state = %s, want SESSION_END", s.CurrentState)
	}
	if s.Score != 1 || s.QuestionsAsked != 1 {
		t.Errorf("score %d asked %d, want 1 1", s.Score, s.QuestionsAsked)
	}
}

func TestStep_ReteachCap(t *testing.T) {
	for _, inputs := range [][]string{
		{"I don't know", "mujhe nahi pata", "pata nahi", "nahi samjha"},
		{"phir se bolo", "repeat", "say again", "dobara bolo"},
	} {
		e := demoEngine(t, DefaultConfig())
		s := say(t, e, newSession(t, e, "demo"), "ready").Session

		var indexes []int
		forcedAt := 0
		for i, in := range inputs {
			st := say(t, e, s, in)
			s = st.Session
			if s.CurrentState == session.StateAwaitingAnswer {
				forcedAt = i + 1
				if !strings.Contains(st.Instruction.Canned, "What is 1/4 plus 2/3?") {
					t.Errorf("forced line %q does not ask the question", st.Instruction.Canned)
				}
				break
			}
			if s.CurrentState != session.StateTeaching {
				t.Fatalf("input %q: state %s, want TEACHING", in, s.CurrentState)
			}
			indexes = append(indexes, s.TeachMaterialIndex)
		}
		if forcedAt == 0 || forcedAt > 4 {
			t.Fatalf("%v: never forced to AWAITING_ANSWER", inputs)
		}
		if len(indexes) != 2 || indexes[0] != 1 || indexes[1] != 2 {
			t.Errorf("%v: material index went %v, want [1 2] after 0", inputs, indexes)
		}
		if s.TeachMaterialIndex != 2 {
			t.Errorf("index after cutover = %d, want 2", s.TeachMaterialIndex)
		}
	}
}

func TestStep_ReteachCapConfigurable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReteachCap = 1
	e := demoEngine(t, cfg)
	s := say(t, e, newSession(t, e, "demo"), "ready").Session
	s = say(t, e, s, "I don't know").Session
	if s.CurrentState != session.StateAwaitingAnswer {
		t.Errorf("state = %s, want AWAITING_ANSWER with cap 1", s.CurrentState)
	}
}

func TestStep_HintLadder(t *testing.T) {
	e := demoEngine(t, DefaultConfig())
	s := newSession(t, e, "demo")
	for _, in := range []string{"ready", "ok"} {
		s = say(t, e, s, in).Session
	}

	steps := []struct {
		answer    string
		wantState session.State
		wantHints int
	}{
		{"1/3", session.StateAwaitingAnswer, 0},
		{"1/4", session.StateHinting, 1},
		{"1/5", session.StateHinting, 2},
	}
	for _, tt := range steps {
		st := say(t, e, s, tt.answer)
		s = st.Session
		if s.CurrentState != tt.wantState || s.HintsGiven != tt.wantHints {
			t.Fatalf("after %s: state %s hints %d, want %s %d", tt.answer, s.CurrentState, s.HintsGiven, tt.wantState, tt.wantHints)
		}
	}

	st := say(t, e, s, "1/6")
	if !strings.Contains(st.Instruction.Canned, "3/12 plus 8/12 is 11/12.") {
		t.Errorf("reveal %q does not include the solution", st.Instruction.Canned)
	}
	if !strings.Contains(st.Instruction.Canned, "1/6") {
		t.Errorf("reveal %q does not repeat the answer", st.Instruction.Canned)
	}
	s = st.Session
	if s.CurrentQuestionID != "q2" || s.CurrentState != session.StateAwaitingAnswer {
		t.Errorf("after reveal: question %q state %s, want q2 AWAITING_ANSWER", s.CurrentQuestionID, s.CurrentState)
	}
	if s.Score != 0 || s.QuestionsAsked != 1 {
		t.Errorf("score %d asked %d, want 0 1", s.Score, s.QuestionsAsked)
	}
}

func TestStep_DontKnowWalksHints(t *testing.T) {
	e := demoEngine(t, DefaultConfig())
	s := newSession(t, e, "demo")
	for _, in := range []string{"ready", "ok"} {
		s = say(t, e, s, in).Session
	}
	s = say(t, e, s, "I don't know").Session
	if s.CurrentState != session.StateHinting || s.HintsGiven != 1 {
		t.Fatalf("state %s hints %d, want HINTING 1", s.CurrentState, s.HintsGiven)
	}
	st := say(t, e, s, "repeat")
	if !strings.Contains(st.Instruction.Canned, "Find the LCM.") || st.Session.HintsGiven != 1 {
		t.Errorf("reread hint = %q hints %d", st.Instruction.Canned, st.Session.HintsGiven)
	}
	s = say(t, e, st.Session, "I don't know").Session
	if s.HintsGiven != 2 {
		t.Fatalf("hints = %d, want 2", s.HintsGiven)
	}
	st = say(t, e, s, "I don't know")
	if st.Session.CurrentQuestionID != "q2" {
		t.Errorf("after exhausting hints: question %q, want q2", st.Session.CurrentQuestionID)
	}
	if st.Verdict != nil {
		t.Errorf("don't know produced a verdict: %+v", st.Verdict)
	}
}

func TestStep_PartialFeedback(t *testing.T) {
	e := demoEngine(t, DefaultConfig())
	s := newSession(t, e, "demo")
	for _, in := range []string{"ready", "ok"} {
		s = say(t, e, s, in).Session
	}
	st := say(t, e, s, "minus 11/12")
	if st.Verdict.Correctness != evaluator.Partial || st.Verdict.Diagnostic != evaluator.DiagSignError {
		t.Fatalf("verdict = %+v, want PARTIAL sign_error", st.Verdict)
	}
	if !strings.Contains(st.Instruction.Canned, "sign dobara dekhiye") {
		t.Errorf("feedback %q does not mention the sign", st.Instruction.Canned)
	}
}

func TestStep_ConceptRequestResetsReteach(t *testing.T) {
	e := demoEngine(t, DefaultConfig())
	s := newSession(t, e, "demo")
	for _, in := range []string{"ready", "I don't know", "samajh gaya"} {
		s = say(t, e, s, in).Session
	}
	if s.ReteachCount != 1 {
		t.Fatalf("reteach = %d, want 1", s.ReteachCount)
	}
	st := say(t, e, s, "samjhao na")
	s = st.Session
	if s.CurrentState != session.StateTeaching || s.ReteachCount != 0 {
		t.Errorf("after concept request: state %s reteach %d, want TEACHING 0", s.CurrentState, s.ReteachCount)
	}
	if s.TeachMaterialIndex != 1 {
		t.Errorf("material index = %d, want 1 (never moves back)", s.TeachMaterialIndex)
	}
	if !st.Instruction.Teaching {
		t.Error("concept request should be a teaching turn")
	}
}

func TestStep_ComfortEmpathyOnce(t *testing.T) {
	e := demoEngine(t, DefaultConfig())
	s := newSession(t, e, "demo")
	for _, in := range []string{"ready", "ok"} {
		s = say(t, e, s, in).Session
	}

	st := say(t, e, s, "bahut mushkil hai")
	if !st.Instruction.Empathy || !st.Session.EmpathyGiven {
		t.Fatalf("first comfort: empathy %v given %v, want true true", st.Instruction.Empathy, st.Session.EmpathyGiven)
	}
	if st.Session.CurrentState != session.StateAwaitingAnswer {
		t.Errorf("comfort moved to %s", st.Session.CurrentState)
	}
	if !strings.Contains(st.Instruction.Canned, "What is 1/4 plus 2/3?") {
		t.Errorf("comfort %q did not resume the question", st.Instruction.Canned)
	}

	st = say(t, e, st.Session, "I give up")
	if st.Instruction.Empathy {
		t.Error("second consecutive comfort repeated the empathy line")
	}
	if strings.HasPrefix(st.Instruction.Canned, lineComfort.Hinglish) {
		t.Errorf("second comfort = %q, want content only", st.Instruction.Canned)
	}

	// A state change clears the flag.
	s = say(t, e, st.Session, "I don't know").Session
	if s.EmpathyGiven {
		t.Error("empathy flag survived a state change")
	}
	st = say(t, e, s, "too hard")
	if !st.Instruction.Empathy {
		t.Error("comfort after state change should lead with empathy")
	}
}

func TestStep_StopFromAnyState(t *testing.T) {
	e := demoEngine(t, DefaultConfig())
	paths := map[session.State][]string{
		session.StateGreeting:       nil,
		session.StateTeaching:       {"ready"},
		session.StateAwaitingAnswer: {"ready", "ok"},
		session.StateHinting:        {"ready", "ok", "I don't know"},
		session.StateSessionEnd:     {"bye"},
	}
	for want, path := range paths {
		s := newSession(t, e, "demo")
		for _, in := range path {
			s = say(t, e, s, in).Session
		}
		if s.CurrentState != want {
			t.Fatalf("path %v reached %s, want %s", path, s.CurrentState, want)
		}
		st := say(t, e, s, "band karo")
		if st.Session.CurrentState != session.StateSessionEnd {
			t.Errorf("stop from %s: state %s, want SESSION_END", want, st.Session.CurrentState)
		}
		if st.Transition.Handler != HandleEndSession {
			t.Errorf("stop from %s ran %s", want, st.Transition.Handler)
		}
	}
}

func TestStep_UnintelligibleLeavesSession(t *testing.T) {
	e := demoEngine(t, DefaultConfig())
	s := newSession(t, e, "demo")
	for _, in := range []string{"ready", "ok"} {
		s = say(t, e, s, in).Session
	}
	before, _ := session.Marshal(s)

	st, err := e.Step(s, Utterance{Text: "11/12", Confidence: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if st.Changed {
		t.Error("low confidence turn reported a change")
	}
	if st.Classification.Category != classifier.CategoryUnintelligible {
		t.Errorf("category = %s, want UNINTELLIGIBLE", st.Classification.Category)
	}
	after, _ := session.Marshal(st.Session)
	if !bytes.Equal(before, after) {
		t.Errorf("session changed:\n%s\n%s", before, after)
	}
	orig, _ := session.Marshal(s)
	if !bytes.Equal(before, orig) {
		t.Error("Step modified its input session")
	}
}

func TestStep_LanguagePersists(t *testing.T) {
	e := defaultEngine(t)
	s := newSession(t, e, "")

	st := say(t, e, s, "english mein bolo")
	s = st.Session
	if s.PreferredLanguage != session.LangEnglish || s.CurrentState != session.StateGreeting {
		t.Fatalf("after switch: lang %s state %s, want english GREETING", s.PreferredLanguage, s.CurrentState)
	}

	turns := []string{
		"ready", "phir se bolo", "I don't know", "okay", "repeat", "I don't know",
		"no", "yes", "okay", "minus one by seven", "2/3", "what?", "hmm okay",
	}
	cats := map[classifier.Category]bool{}
	for _, in := range turns {
		st := say(t, e, s, in)
		s = st.Session
		cats[st.Classification.Category] = true
		if s.PreferredLanguage != session.LangEnglish {
			t.Fatalf("after %q: language %s, want english", in, s.PreferredLanguage)
		}
		if st.Instruction.Language != session.LangEnglish {
			t.Errorf("after %q: instruction language %s", in, st.Instruction.Language)
		}
		if hasDevanagari(st.Instruction.Canned) {
			t.Errorf("after %q: reply %q is not English", in, st.Instruction.Canned)
		}
	}
	for _, c := range []classifier.Category{
		classifier.CategoryAck, classifier.CategoryRepeat,
		classifier.CategoryDontKnow, classifier.CategoryAnswer,
	} {
		if !cats[c] {
			t.Errorf("sequence never exercised %s", c)
		}
	}
}

func TestStep_LanguageSwitchKeepsCounters(t *testing.T) {
	e := defaultEngine(t)
	s := newSession(t, e, "")
	for _, in := range []string{"ready", "I don't know"} {
		s = say(t, e, s, in).Session
	}
	st := say(t, e, s, "hindi mein samjhao")
	got := st.Session
	if got.ReteachCount != s.ReteachCount || got.TeachMaterialIndex != s.TeachMaterialIndex {
		t.Errorf("switch moved counters: reteach %d->%d index %d->%d",
			s.ReteachCount, got.ReteachCount, s.TeachMaterialIndex, got.TeachMaterialIndex)
	}
	if got.CurrentState != session.StateTeaching {
		t.Errorf("switch changed state to %s", got.CurrentState)
	}
	if !hasDevanagari(st.Instruction.Canned) {
		t.Errorf("Hindi reply %q has no Devanagari", st.Instruction.Canned)
	}
}

func TestStep_RestartIsIdempotent(t *testing.T) {
	inputs := []string{
		"english mein bolo", "ready", "okay", "yes", "okay", "minus 1 by 7",
		"1/3", "I don't know", "11/12", "bahut mushkil hai", "okay",
	}
	const split = 6 // language set and two questions answered

	e := defaultEngine(t)
	s := newSession(t, e, "")
	var want []string
	for _, in := range inputs {
		st := say(t, e, s, in)
		s = st.Session
		want = append(want, st.Instruction.Canned)
	}
	wantFinal, _ := session.Marshal(s)

	s = newSession(t, e, "")
	var got []string
	for _, in := range inputs[:split] {
		st := say(t, e, s, in)
		s = st.Session
		got = append(got, st.Instruction.Canned)
	}
	if s.QuestionsAsked != 2 {
		t.Fatalf("questions asked at split = %d, want 2", s.QuestionsAsked)
	}
	data, err := session.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	restored, err := session.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}

	fresh := defaultEngine(t)
	s = restored
	for _, in := range inputs[split:] {
		st := say(t, fresh, s, in)
		s = st.Session
		got = append(got, st.Instruction.Canned)
	}
	gotFinal, _ := session.Marshal(s)

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("turn %d (%q): got %q, want %q", i, inputs[i], got[i], want[i])
		}
	}
	if !bytes.Equal(gotFinal, wantFinal) {
		t.Errorf("final session differs:\n got %s\nwant %s", gotFinal, wantFinal)
	}
}

func TestOpening_Resumes(t *testing.T) {
	e := demoEngine(t, DefaultConfig())
	s := newSession(t, e, "demo")
	for _, in := range []string{"ready", "ok"} {
		s = say(t, e, s, in).Session
	}
	in, err := e.Opening(s)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(in.Canned, "What is 1/4 plus 2/3?") {
		t.Errorf("opening %q does not resume the question", in.Canned)
	}
}

func TestStep_CorruptSessionErrors(t *testing.T) {
	e := demoEngine(t, DefaultConfig())
	s := newSession(t, e, "demo")
	s.CurrentState = session.StateAwaitingAnswer
	s.CurrentQuestionID = "gone"
	if _, err := e.Step(s, Utterance{Text: "ok", Confidence: 1}); err == nil {
		t.Error("expected error for a session pointing at missing content")
	}
}

func TestFallback_EveryState(t *testing.T) {
	for _, st := range session.AllStates {
		for _, lang := range []session.Language{session.LangHinglish, session.LangHindi, session.LangEnglish} {
			if Fallback(st, lang) == "" {
				t.Errorf("no fallback for %s in %s", st, lang)
			}
		}
	}
}

func TestRetryLine_EveryLanguage(t *testing.T) {
	for _, lang := range []session.Language{session.LangHinglish, session.LangHindi, session.LangEnglish} {
		if RetryLine(lang) == "" {
			t.Errorf("no retry line in %s", lang)
		}
	}
}
