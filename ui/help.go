package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var helpKeys = [][2]string{
	{"Enter", "Enviar pergunta"},
	{"Alt+Enter", "Nova linha"},
	{"PgUp/PgDn", "Rolar conversa"},
	{"Ctrl+F", "Buscar na conversa"},
	{"Ctrl+Y", "Copiar última resposta"},
	{"Ctrl+L", "Apagar histórico"},
	{"?", "Mostrar esta ajuda"},
	{"Ctrl+C", "Sair"},
}

func (a AppView) renderHelpModal(width, height int) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorUser).
		Render(fmt.Sprintf("Onboard %s - Atalhos", a.dataModel.Version))

	lines := []string{title, ""}
	for _, k := range helpKeys {
		lines = append(lines, fmt.Sprintf("• %-11s %s", k[0], k[1]))
	}
	lines = append(lines, "",
		AssistantStyle.Render("Pergunte sobre a empresa, tutoriais de GitHub, VSCode, Jira e Discord,"),
		AssistantStyle.Render("ou peça para marcar uma reunião."),
		"",
		FormatFooter("?/Esc", "Fechar"),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}
