package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"onboard/config"
	appmodel "onboard/model"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

const userBar = "\x1b[32;1m┃\x1b[0m"

func (a AppView) View() string {
	if !a.ready {
		return "Carregando..."
	}
	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}
	if a.showSearch {
		return a.renderMessageSearch(a.width, a.height)
	}

	footer := FormatFooter("Enter", "Enviar", "Ctrl+F", "Buscar", "Ctrl+Y", "Copiar", "Ctrl+L", "Limpar", "?", "Ajuda", "Ctrl+C", "Sair")
	if a.status != "" {
		footer = a.status
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.viewport.View(),
		DimStyle.Render(strings.Repeat("─", max(a.width, 1))),
		a.textarea.View(),
		footer,
	)
}

func (a *AppView) updateViewportContent(gotoBottom bool) {
	var content strings.Builder
	a.messageOffsets = a.messageOffsets[:0]
	line := 0

	for i, msg := range a.dataModel.Messages {
		a.messageOffsets = append(a.messageOffsets, line)

		highlightPrefix := ""
		if i == a.highlightedMessageIdx && a.highlightFlashCount%2 == 1 {
			highlightPrefix = HighlightStyle.Render(">>> ")
		}
		timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

		var entry string
		if msg.Role == appmodel.RoleUser {
			entry = formatUserMessage(highlightPrefix, timestamp, roleLabel(msg.Role), msg.Rendered)
		} else {
			entry = fmt.Sprintf("%s%s %s\n%s\n\n", highlightPrefix, timestamp, roleLabel(msg.Role), msg.Rendered)
		}
		content.WriteString(entry)
		line += strings.Count(entry, "\n")
	}

	if a.dataModel.Busy {
		content.WriteString(fmt.Sprintf("%s %s\n", a.spinner.View(), DimStyle.Render(thinkingText)))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func formatUserMessage(highlightPrefix, timestamp, role, content string) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s%s %s %s\n", highlightPrefix, userBar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", userBar, line))
	}
	result.WriteString("\n")
	return result.String()
}

// preprocessLinks turns [text](url) into the bare url so every link renders
// the same way.
func preprocessLinks(content string) string {
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

// fixInlineCode swaps go-term-markdown's blue background for red text.
func fixInlineCode(s string) string {
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

// colorURLs paints plain URLs red outside code blocks.
func colorURLs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !strings.Contains(line, "┃") {
			lines[i] = urlRegex.ReplaceAllString(line, "\x1b[31m$1\x1b[0m")
		}
	}
	return strings.Join(lines, "\n")
}

func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = 80
	}
	content = preprocessLinks(content)

	// Autolink off: URLs stay plain text for the terminal to detect
	p := parser.NewWithExtensions(markdown.Extensions() &^ parser.Autolink)
	r := markdown.NewRenderer(width, 0)
	rendered := gomarkdown.Render(p.Parse([]byte(content)), r)

	return colorURLs(fixInlineCode(strings.TrimRight(string(rendered), "\n")))
}

func (a AppView) renderMarkdownAsync(messageIndex int, content string) tea.Cmd {
	width := a.width - 4
	return func() tea.Msg {
		start := time.Now()
		rendered := renderMarkdown(content, width)
		config.Debugf("[UI] markdown for message %d rendered in %s", messageIndex, time.Since(start))
		return appmodel.MarkdownRenderedMsg{MessageIndex: messageIndex, Rendered: rendered}
	}
}
