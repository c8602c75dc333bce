package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/didi/internal/screen"
	"github.com/abhisek/didi/internal/session"
	"github.com/abhisek/didi/internal/ui/layout"
	"github.com/abhisek/didi/internal/ui/theme"
)

// SummaryScreen shows how a session went.
type SummaryScreen struct {
	summary session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.StatusProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Quit"},
	}
}

func (s *SummaryScreen) Status() layout.Status {
	return layout.Status{
		Language: string(s.summary.Language),
		Score:    s.summary.Score,
		Asked:    s.summary.QuestionsAsked,
		Target:   s.summary.QuestionsTarget,
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "q", "esc":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder

	heading := "Session paused"
	if sum.Ended {
		heading = "Session complete!"
	}
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), heading))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Questions: %d/%d        Correct: %d        Accuracy: %.0f%%",
		sum.QuestionsAsked, sum.QuestionsTarget, sum.Score, sum.Accuracy*100)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), stats))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(min(width-8, 60), 0)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	b.WriteString(center(accuracyStyle(sum.Accuracy), verdict(sum)))
	b.WriteString("\n\n")

	details := []string{
		"Language: " + string(sum.Language),
		"Session: " + sum.ID,
	}
	if sum.ConceptID != "" {
		details = append(details, "Last concept: "+sum.ConceptID)
	}
	for _, d := range details {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), d))
		b.WriteString("\n")
	}

	return b.String()
}

func verdict(sum session.Summary) string {
	switch {
	case sum.QuestionsAsked == 0:
		return "No questions answered yet."
	case sum.Accuracy >= 0.8:
		return "Strong work on this lesson."
	case sum.Accuracy >= 0.5:
		return "Good progress. A little more practice will help."
	}
	return "Let's revisit this lesson next time."
}

func accuracyStyle(acc float64) lipgloss.Style {
	switch {
	case acc >= 0.8:
		return theme.Correct
	case acc >= 0.5:
		return theme.Partial
	}
	return theme.Incorrect
}
