package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	appmodel "onboard/model"
)

type searchMatch struct {
	Index   int // into the transcript
	Role    string
	Preview string
}

// searchMessages fuzzy-matches query against every transcript entry, best
// match first.
func searchMessages(query string, messages []appmodel.Message) []searchMatch {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	targets := make([]string, len(messages))
	for i, m := range messages {
		targets[i] = m.Content
	}

	matches := fuzzy.Find(query, targets)
	results := make([]searchMatch, len(matches))
	for i, match := range matches {
		m := messages[match.Index]
		results[i] = searchMatch{
			Index:   match.Index,
			Role:    m.Role,
			Preview: strings.Join(strings.Fields(m.Content), " "),
		}
	}
	return results
}

func (a AppView) renderMessageSearch(width, height int) string {
	modalWidth := min(width-4, 100)
	previewWidth := max(modalWidth-20, 10)

	title := TitleStyle.Render("Buscar na conversa")

	resultsView := ""
	switch {
	case a.searchInput.Value() == "":
		resultsView = DimStyle.Render("Digite para buscar nas mensagens...")
	case len(a.searchResults) == 0:
		resultsView = DimStyle.Render("Nenhuma mensagem encontrada")
	default:
		// Border, padding, title, input and footer take about 12 lines
		visible := max((height-12)/2, 1)
		start := 0
		if a.selectedSearchIdx >= visible {
			start = a.selectedSearchIdx - visible + 1
		}
		end := min(start+visible, len(a.searchResults))

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%d resultados:\n\n", len(a.searchResults)))
		for i := start; i < end; i++ {
			match := a.searchResults[i]
			line := fmt.Sprintf("%s  %s", roleLabel(match.Role), runewidth.Truncate(match.Preview, previewWidth, "..."))
			if i == a.selectedSearchIdx {
				line = SelectedStyle.Render("> ") + line
			} else {
				line = "  " + line
			}
			sb.WriteString(line + "\n")
		}
		if end < len(a.searchResults) {
			sb.WriteString(DimStyle.Render(fmt.Sprintf("↓ mais %d", len(a.searchResults)-end)))
		}
		resultsView = sb.String()
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		a.searchInput.View(),
		"",
		resultsView,
		"",
		FormatFooter("↑/↓", "Navegar", "Enter", "Ir para", "Esc", "Fechar"),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content))
}
