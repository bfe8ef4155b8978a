package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	venueTitleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle       = lipgloss.NewStyle().Faint(true).Width(15)
	linkStyle        = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	placeholderStyle = lipgloss.NewStyle().Italic(true).Faint(true)
	buttonStyle      = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("63")).
				Padding(0, 2)
)

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
