// Package chat is the terminal conversation with the tutor. Typed lines
// stand in for speech transcripts.
package chat

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/didi/internal/phrasing"
	"github.com/abhisek/didi/internal/router"
	"github.com/abhisek/didi/internal/screen"
	"github.com/abhisek/didi/internal/screens/summary"
	"github.com/abhisek/didi/internal/session"
	"github.com/abhisek/didi/internal/tutor"
	"github.com/abhisek/didi/internal/ui/components"
	"github.com/abhisek/didi/internal/ui/layout"
)

const (
	maxInputLen  = 500
	spinnerEvery = 120 * time.Millisecond
)

// Tutor is the part of the tutor service the chat drives.
type Tutor interface {
	Start(ctx context.Context, req tutor.StartRequest) (*tutor.Response, error)
	Turn(ctx context.Context, req tutor.TurnRequest) (*tutor.Response, error)
}

// Options select the student, lesson and language of the new session.
type Options struct {
	StudentID string
	LessonID  string
	Language  string

	// Timeout bounds each call to the tutor. Zero means no limit.
	Timeout time.Duration
}

type speaker int

const (
	speakerTutor speaker = iota
	speakerStudent
)

type line struct {
	who      speaker
	text     string
	fallback bool
}

// ChatScreen implements screen.Screen for a live session.
type ChatScreen struct {
	tutor     Tutor
	opts      Options
	sessionID string
	summary   session.Summary
	lines     []line
	input     components.TextInput
	waiting   bool
	frame     int
	errMsg    string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.StatusProvider = (*ChatScreen)(nil)

// New creates a ChatScreen. The session opens on Init.
func New(t Tutor, opts Options) *ChatScreen {
	return &ChatScreen{
		tutor:   t,
		opts:    opts,
		input:   components.NewTextInput("Type your reply...", maxInputLen),
		waiting: true,
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	return tea.Batch(s.start(), s.input.Init(), s.tick())
}

func (s *ChatScreen) Title() string {
	return "Lesson"
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	if s.summary.Ended {
		return []layout.KeyHint{{Key: "Enter", Description: "Summary"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Esc", Description: "End"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *ChatScreen) Status() layout.Status {
	return layout.Status{
		Language: string(s.summary.Language),
		Score:    s.summary.Score,
		Asked:    s.summary.QuestionsAsked,
		Target:   s.summary.QuestionsTarget,
	}
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return s.handleStarted(msg)

	case replyMsg:
		return s.handleReply(msg)

	case spinnerTickMsg:
		if !s.waiting {
			return s, nil
		}
		s.frame++
		return s, s.tick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if s.summary.Ended {
			return s, s.showSummary()
		}
		text := s.input.Value()
		if text == "" || s.waiting || s.sessionID == "" {
			return s, nil
		}
		s.input.Reset()
		s.errMsg = ""
		s.lines = append(s.lines, line{who: speakerStudent, text: text})
		s.waiting = true
		return s, tea.Batch(s.turn(text), s.tick())

	case "esc":
		if s.sessionID == "" {
			return s, nil
		}
		return s, s.showSummary()
	}

	if s.summary.Ended {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	s.waiting = false
	if msg.Err != nil {
		s.errMsg = "Could not start the lesson: " + msg.Err.Error()
		return s, nil
	}
	s.sessionID = msg.Resp.SessionID
	s.accept(msg.Resp)
	return s, nil
}

func (s *ChatScreen) handleReply(msg replyMsg) (screen.Screen, tea.Cmd) {
	s.waiting = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.accept(msg.Resp)
	return s, nil
}

func (s *ChatScreen) accept(resp *tutor.Response) {
	s.summary = resp.Summary
	s.lines = append(s.lines, line{
		who:      speakerTutor,
		text:     resp.Reply,
		fallback: resp.Source == phrasing.SourceFallback,
	})
}

func (s *ChatScreen) showSummary() tea.Cmd {
	sum := s.summary
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

func (s *ChatScreen) start() tea.Cmd {
	t, opts := s.tutor, s.opts
	return func() tea.Msg {
		ctx, cancel := s.callContext()
		defer cancel()
		resp, err := t.Start(ctx, tutor.StartRequest{
			StudentID: opts.StudentID,
			LessonID:  opts.LessonID,
			Language:  opts.Language,
		})
		return startedMsg{Resp: resp, Err: err}
	}
}

func (s *ChatScreen) turn(text string) tea.Cmd {
	t, id := s.tutor, s.sessionID
	return func() tea.Msg {
		ctx, cancel := s.callContext()
		defer cancel()
		resp, err := t.Turn(ctx, tutor.TurnRequest{SessionID: id, Text: text, Confidence: 1})
		return replyMsg{Resp: resp, Err: err}
	}
}

func (s *ChatScreen) callContext() (context.Context, context.CancelFunc) {
	if s.opts.Timeout > 0 {
		return context.WithTimeout(context.Background(), s.opts.Timeout)
	}
	return context.WithCancel(context.Background())
}

func (s *ChatScreen) tick() tea.Cmd {
	return tea.Tick(spinnerEvery, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
