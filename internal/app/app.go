// Package app hosts the Bubble Tea program for the interactive lesson.
package app

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/didi/internal/router"
	"github.com/abhisek/didi/internal/screen"
	"github.com/abhisek/didi/internal/ui/layout"
)

var defaultHints = []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}

// model owns the window size and frames whatever screen the router shows.
type model struct {
	router        *router.Router
	width, height int
}

func newModel(root screen.Screen) model {
	return model{router: router.New(root)}
}

func (m model) Init() tea.Cmd {
	if s := m.router.Active(); s != nil {
		return s.Init()
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, m.router.Update(msg)
}

func (m model) View() tea.View {
	v := tea.NewView(m.frame())
	v.AltScreen = true
	return v
}

// frame renders the whole window, or nothing before the first size message.
func (m model) frame() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	var (
		title  string
		status layout.Status
		hints  = defaultHints
	)
	if s := m.router.Active(); s != nil {
		title = s.Title()
		if sp, ok := s.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if hp, ok := s.(screen.KeyHintProvider); ok {
			hints = hp.KeyHints()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(hints, m.width)
	body := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	return layout.RenderFrame(header, m.router.View(m.width, body), footer, m.width, m.height)
}

// Run starts the program with root as the first screen. It returns when
// the user quits or ctx is cancelled.
func Run(ctx context.Context, root screen.Screen) error {
	_, err := tea.NewProgram(newModel(root), tea.WithContext(ctx)).Run()
	return err
}
