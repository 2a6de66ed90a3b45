package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	appmodel "onboard/model"
)

// ANSI palette indexes, so the user's terminal theme decides the actual
// colors. Nothing sets a background.
const (
	colorDim       = lipgloss.Color("7")
	colorAccent    = lipgloss.Color("12")
	colorUser      = lipgloss.Color("10")
	colorSelected  = lipgloss.Color("11")
	colorError     = lipgloss.Color("9")
	colorHighlight = lipgloss.Color("13")
)

var (
	UserStyle      = lipgloss.NewStyle().Foreground(colorUser).Bold(true)
	AssistantStyle = lipgloss.NewStyle().Foreground(colorAccent)
	DimStyle       = lipgloss.NewStyle().Foreground(colorDim)
	TitleStyle     = lipgloss.NewStyle().Bold(true)
	SelectedStyle  = lipgloss.NewStyle().Foreground(colorSelected).Bold(true)
	ErrorStyle     = lipgloss.NewStyle().Foreground(colorError)
	HighlightStyle = lipgloss.NewStyle().Foreground(colorHighlight).Bold(true)

	footerDescStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(1, 2)
)

// roleLabel is the speaker name shown above a message.
func roleLabel(role string) string {
	if role == appmodel.RoleUser {
		return UserStyle.Render("Você")
	}
	return AssistantStyle.Render("Assistente")
}

// FormatFooter pairs keys with descriptions:
// FormatFooter("Enter", "Enviar", "Esc", "Fechar") -> "Enter Enviar  Esc Fechar".
// A trailing key without a description is dropped.
func FormatFooter(parts ...string) string {
	pairs := make([]string, 0, len(parts)/2)
	for i := 0; i+1 < len(parts); i += 2 {
		pairs = append(pairs, parts[i]+" "+footerDescStyle.Render(parts[i+1]))
	}
	return strings.Join(pairs, "  ")
}
