// Package layout draws the frame shared by every screen: a header with the
// lesson status, the screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/didi/internal/ui/theme"
)

// Smallest terminal the chat transcript stays readable in.
const (
	MinWidth  = 60
	MinHeight = 16
)

type KeyHint struct {
	Key         string
	Description string
}

// Status is the session readout on the right of the header. A zero Status
// renders nothing.
type Status struct {
	Language string
	Score    int
	Asked    int
	Target   int
}

func (s Status) String() string {
	if s.Language == "" {
		return ""
	}
	return fmt.Sprintf("%s · ★ %d/%d", s.Language, s.Score, s.Asked)
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Didi needs a %dx%d terminal.\nThis one is %dx%d.", MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Align(lipgloss.Center).Render(msg))
}

// RenderHeader puts the brand and screen title on the left and the status
// on the right of a single bordered bar.
func RenderHeader(title string, st Status, width int) string {
	left := theme.Title.Render(" Didi")
	if title != "" {
		left += theme.Hint.Render("  /  ") + lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	}
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(st.String() + " ")

	// Two columns go to the border.
	gap := max(width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder(), false, false, true, false).
		BorderForeground(theme.Border).
		Render(bar)
}

// RenderFooter lists key hints on one line.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + theme.Hint.Render(h.Description)
	}
	return lipgloss.NewStyle().
		Width(width).
		PaddingLeft(1).
		Render(strings.Join(parts, theme.Hint.Render("  •  ")))
}

// RenderFrame stacks header, body and footer, padding the body so the
// footer sits on the last line.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(width).Height(body).MaxHeight(body).Render(content),
		footer,
	)
}
