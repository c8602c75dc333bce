package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/didi/internal/ui/components"
	"github.com/abhisek/didi/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (s *ChatScreen) View(width, height int) string {
	inner := max(width-4, 10)

	top := "  " + components.NewProgressBar("Questions",
		s.summary.QuestionsAsked, s.summary.QuestionsTarget, inner).View()

	var bottom strings.Builder
	switch {
	case s.errMsg != "":
		bottom.WriteString("  " + theme.Incorrect.Render(s.errMsg) + "\n")
	case s.waiting:
		frame := spinnerFrames[s.frame%len(spinnerFrames)]
		bottom.WriteString("  " + theme.Hint.Render(frame+" Didi is thinking...") + "\n")
	default:
		bottom.WriteString("\n")
	}
	if s.summary.Ended {
		bottom.WriteString("  " + theme.Hint.Render("Lesson finished. Press Enter for your summary."))
	} else {
		s.input.SetWidth(inner - 2)
		bottom.WriteString("  " + s.input.View())
	}

	room := height - lipgloss.Height(top) - lipgloss.Height(bottom.String()) - 2
	transcript := s.renderTranscript(inner, room)

	return top + "\n\n" + transcript + "\n" + bottom.String()
}

// renderTranscript renders the newest lines that fit in height rows,
// bottom-aligned.
func (s *ChatScreen) renderTranscript(width, height int) string {
	if height <= 0 {
		return ""
	}
	var blocks []string
	used := 0
	for i := len(s.lines) - 1; i >= 0; i-- {
		block := renderLine(s.lines[i], width)
		h := lipgloss.Height(block)
		if used+h > height && len(blocks) > 0 {
			break
		}
		blocks = append(blocks, block)
		used += h
	}
	var b strings.Builder
	if pad := height - used; pad > 0 {
		b.WriteString(strings.Repeat("\n", pad))
	}
	for i := len(blocks) - 1; i >= 0; i-- {
		b.WriteString(blocks[i])
		if i > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderLine(l line, width int) string {
	bubbleWidth := min(max(width*3/4, 20), width)
	if l.who == speakerStudent {
		bubble := theme.StudentBubble.Width(bubbleWidth).Render(l.text)
		name := theme.StudentName.Render("You")
		return lipgloss.PlaceHorizontal(width, lipgloss.Right,
			lipgloss.JoinVertical(lipgloss.Right, name, bubble))
	}
	text := l.text
	if l.fallback {
		text = theme.Fallback.Render(text)
	}
	bubble := theme.TutorBubble.Width(bubbleWidth).Render(text)
	return lipgloss.NewStyle().PaddingLeft(2).Render(
		lipgloss.JoinVertical(lipgloss.Left, theme.TutorName.Render("Didi"), bubble))
}
