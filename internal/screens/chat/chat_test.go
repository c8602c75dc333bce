package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/didi/internal/phrasing"
	"github.com/abhisek/didi/internal/router"
	"github.com/abhisek/didi/internal/screens/summary"
	"github.com/abhisek/didi/internal/session"
	"github.com/abhisek/didi/internal/tutor"
)

// stubTutor records requests and answers from canned responses.
type stubTutor struct {
	starts []tutor.StartRequest
	turns  []tutor.TurnRequest
	reply  *tutor.Response
	err    error
}

func (s *stubTutor) Start(_ context.Context, req tutor.StartRequest) (*tutor.Response, error) {
	s.starts = append(s.starts, req)
	if s.err != nil {
		return nil, s.err
	}
	return &tutor.Response{
		SessionID: "s-1",
		Reply:     "Namaste! Aaj hum fractions padhenge.",
		Source:    phrasing.SourceTemplate,
		Summary:   session.Summary{ID: "s-1", Language: session.LangHinglish, QuestionsTarget: 5},
	}, nil
}

func (s *stubTutor) Turn(_ context.Context, req tutor.TurnRequest) (*tutor.Response, error) {
	s.turns = append(s.turns, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.reply, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeText(s *ChatScreen, text string) {
	for _, r := range text {
		s.Update(keyPress(r))
	}
}

func startedScreen(t *testing.T, stub *stubTutor) *ChatScreen {
	t.Helper()
	s := New(stub, Options{StudentID: "asha", LessonID: "fractions", Language: "hinglish"})
	msg := s.start()()
	s.Update(msg)
	if s.sessionID != "s-1" {
		t.Fatalf("sessionID = %q, want s-1", s.sessionID)
	}
	return s
}

func TestChatScreen_Title(t *testing.T) {
	s := New(&stubTutor{}, Options{})
	if s.Title() != "Lesson" {
		t.Errorf("Title = %q, want %q", s.Title(), "Lesson")
	}
}

func TestChatScreen_StartGreets(t *testing.T) {
	stub := &stubTutor{}
	s := startedScreen(t, stub)

	if len(stub.starts) != 1 {
		t.Fatalf("expected one start, got %d", len(stub.starts))
	}
	req := stub.starts[0]
	if req.StudentID != "asha" || req.LessonID != "fractions" || req.Language != "hinglish" {
		t.Errorf("start request = %+v", req)
	}
	if s.waiting {
		t.Error("expected waiting cleared after greeting")
	}
	if len(s.lines) != 1 || s.lines[0].who != speakerTutor {
		t.Fatalf("expected greeting line, got %+v", s.lines)
	}
	if st := s.Status(); st.Language != "hinglish" || st.Target != 5 {
		t.Errorf("Status = %+v", st)
	}
}

func TestChatScreen_StartError(t *testing.T) {
	stub := &stubTutor{err: errors.New("boom")}
	s := New(stub, Options{StudentID: "asha"})
	s.Update(s.start()())

	if s.errMsg == "" {
		t.Error("expected error message")
	}
	// Without a session, Enter does nothing.
	typeText(s, "7")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command without a session")
	}
}

func TestChatScreen_SendTurn(t *testing.T) {
	stub := &stubTutor{reply: &tutor.Response{
		SessionID: "s-1",
		Reply:     "Aapne 7 bola, yeh sahi hai.",
		Source:    phrasing.SourceGenerated,
		Summary:   session.Summary{ID: "s-1", Language: session.LangHinglish, Score: 1, QuestionsAsked: 1, QuestionsTarget: 5},
	}}
	s := startedScreen(t, stub)

	typeText(s, "7")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected command on Enter")
	}
	if !s.waiting {
		t.Error("expected waiting after send")
	}
	if got := s.lines[len(s.lines)-1]; got.who != speakerStudent || got.text != "7" {
		t.Errorf("last line = %+v, want student 7", got)
	}
	if s.input.Value() != "" {
		t.Error("expected input cleared after send")
	}

	s.Update(s.turn("7")())

	if len(stub.turns) != 1 || stub.turns[0].SessionID != "s-1" || stub.turns[0].Text != "7" {
		t.Errorf("turn requests = %+v", stub.turns)
	}
	if stub.turns[0].Confidence != 1 {
		t.Errorf("Confidence = %v, want 1", stub.turns[0].Confidence)
	}
	if s.waiting {
		t.Error("expected waiting cleared after reply")
	}
	if st := s.Status(); st.Score != 1 || st.Asked != 1 {
		t.Errorf("Status = %+v", st)
	}
}

func TestChatScreen_EmptyInputIgnored(t *testing.T) {
	s := startedScreen(t, &stubTutor{})
	typeText(s, "   ")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command for blank input")
	}
	if len(s.lines) != 1 {
		t.Errorf("expected only the greeting, got %d lines", len(s.lines))
	}
}

func TestChatScreen_NoSendWhileWaiting(t *testing.T) {
	s := startedScreen(t, &stubTutor{})
	typeText(s, "7")
	s.Update(specialKey(tea.KeyEnter))

	typeText(s, "8")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected second send to wait for the reply")
	}
}

func TestChatScreen_TurnError(t *testing.T) {
	stub := &stubTutor{}
	s := startedScreen(t, stub)
	stub.err = tutor.ErrSessionNotFound

	s.Update(s.turn("7")())
	if !strings.Contains(s.errMsg, "session not found") {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}

func TestChatScreen_FallbackMarked(t *testing.T) {
	stub := &stubTutor{reply: &tutor.Response{
		SessionID: "s-1",
		Reply:     "Chaliye, ek baar phir dekhte hain.",
		Source:    phrasing.SourceFallback,
	}}
	s := startedScreen(t, stub)
	s.Update(s.turn("pata nahi")())

	if !s.lines[len(s.lines)-1].fallback {
		t.Error("expected fallback reply to be marked")
	}
}

func TestChatScreen_EndedShowsSummary(t *testing.T) {
	stub := &stubTutor{reply: &tutor.Response{
		SessionID: "s-1",
		Reply:     "Aaj ke liye itna hi.",
		Summary:   session.Summary{ID: "s-1", Score: 4, QuestionsAsked: 5, QuestionsTarget: 5, Ended: true},
	}}
	s := startedScreen(t, stub)
	s.Update(s.turn("haan")())

	hints := s.KeyHints()
	if len(hints) != 1 || hints[0].Description != "Summary" {
		t.Errorf("KeyHints = %+v", hints)
	}

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected command on Enter after the session ended")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("expected summary screen, got %T", msg.Screen)
	}
}

func TestChatScreen_EscEndsEarly(t *testing.T) {
	s := startedScreen(t, &stubTutor{})
	_, cmd := s.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected command on Esc")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected Esc to show the summary")
	}
}

func TestChatScreen_View(t *testing.T) {
	s := startedScreen(t, &stubTutor{})
	view := s.View(80, 24)
	if !strings.Contains(view, "Didi") {
		t.Error("expected tutor name in view")
	}
	if !strings.Contains(view, "fractions") {
		t.Error("expected greeting in view")
	}
}

func TestChatScreen_TranscriptKeepsNewest(t *testing.T) {
	s := New(&stubTutor{}, Options{})
	for i := range 20 {
		s.lines = append(s.lines, line{who: speakerStudent, text: strings.Repeat("x", i+1)})
	}
	out := s.renderTranscript(60, 8)
	if !strings.Contains(out, strings.Repeat("x", 20)) {
		t.Error("expected newest line in transcript")
	}
	if n := strings.Count(out, "You"); n != 2 {
		t.Errorf("expected two lines to fit, got %d", n)
	}
}
