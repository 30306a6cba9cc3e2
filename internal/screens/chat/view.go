package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbot/internal/ui/theme"
)

func (c *ChatScreen) View(width, height int) string {
	inputArea := c.renderInputArea(width)
	inputHeight := lipgloss.Height(inputArea)

	transcriptHeight := height - inputHeight - 1
	if transcriptHeight < 0 {
		transcriptHeight = 0
	}

	transcript := c.renderTranscript(width, transcriptHeight)

	return transcript + "\n" + inputArea
}

// renderTranscript renders the newest messages that fit, oldest first.
func (c *ChatScreen) renderTranscript(width, height int) string {
	textWidth := width - 4
	if textWidth < 10 {
		textWidth = 10
	}
	bodyStyle := theme.Body.Width(textWidth)

	var lines []string
	for _, e := range c.transcript {
		label := theme.TutorLabel.Render("Tutor")
		if e.author == authorUser {
			label = theme.UserLabel.Render("You")
		}
		block := label + "\n" + bodyStyle.Render(e.text)
		lines = append(lines, strings.Split(block, "\n")...)
		lines = append(lines, "")
	}

	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}

	padded := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(0, 2).
		AlignVertical(lipgloss.Bottom)

	return padded.Render(strings.Join(lines, "\n"))
}

func (c *ChatScreen) renderInputArea(width int) string {
	var status string
	if c.busy {
		status = theme.Hint.Render("Tutor is thinking...")
	}

	box := lipgloss.NewStyle().
		Width(width-4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(c.input.View())

	area := lipgloss.NewStyle().Padding(0, 2)
	if status != "" {
		return area.Render(status + "\n" + box)
	}
	return area.Render(box)
}
