package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/didi/internal/screen"
)

// fakeScreen counts Init calls and remembers the last key it saw.
type fakeScreen struct {
	name    string
	inits   int
	lastKey string
	next    screen.Screen
}

func (s *fakeScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		s.lastKey = k.String()
	}
	if s.next != nil {
		return s.next, nil
	}
	return s, nil
}

func (s *fakeScreen) View(w, h int) string { return s.name }
func (s *fakeScreen) Title() string        { return s.name }

func TestRouter_ChatThenSummary(t *testing.T) {
	chat := &fakeScreen{name: "lesson"}
	r := New(chat)

	summary := &fakeScreen{name: "summary"}
	r.Update(ReplaceScreenMsg{Screen: summary})

	assert.Equal(t, 1, r.Depth())
	assert.Same(t, summary, r.Active())
	assert.Equal(t, 1, summary.inits)
	assert.Equal(t, "summary", r.View(80, 24))
}

func TestRouter_PushAndPop(t *testing.T) {
	root := &fakeScreen{name: "lesson"}
	r := New(root)

	help := &fakeScreen{name: "help"}
	r.Update(PushScreenMsg{Screen: help})
	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, 1, help.inits)

	r.Update(PopScreenMsg{})
	assert.Same(t, root, r.Active())

	r.Update(PopScreenMsg{})
	assert.Equal(t, 1, r.Depth(), "the last screen stays")
}

func TestRouter_ReplaceKeepsDepth(t *testing.T) {
	r := New(&fakeScreen{name: "lesson"})
	r.Push(&fakeScreen{name: "help"})

	r.Replace(&fakeScreen{name: "summary"})

	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "summary", r.Active().Title())
}

func TestRouter_ReplaceOnEmpty(t *testing.T) {
	r := &Router{}
	assert.Nil(t, r.Active())
	assert.Empty(t, r.View(80, 24))
	assert.Nil(t, r.Update(tea.KeyPressMsg{Code: 'a', Text: "a"}))

	s := &fakeScreen{name: "lesson"}
	r.Replace(s)
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, 1, s.inits)
}

func TestRouter_ForwardsToActive(t *testing.T) {
	after := &fakeScreen{name: "after"}
	before := &fakeScreen{name: "before", next: after}
	r := New(before)

	r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	assert.Equal(t, "enter", before.lastKey)
	assert.Same(t, after, r.Active(), "router keeps the screen Update returned")
}
