package ui

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"onboard/config"
	appmodel "onboard/model"
)

const (
	inputHeight  = 3
	footerHeight = 2
	flashTimes   = 6
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleResize(msg)

	case tea.KeyMsg:
		if a.showSearch {
			return a.handleSearchKeys(msg)
		}
		return a.handleChatKeys(msg)

	case spinner.TickMsg:
		if !a.dataModel.Busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		a.updateViewportContent(true)
		return a, cmd

	case appmodel.AnswerMsg:
		a.dataModel.Busy = false
		idx := a.dataModel.AddMessage(appmodel.RoleAssistant, msg.Answer)
		a.dataModel.Messages[idx].Rendered = msg.Answer
		a.updateViewportContent(true)
		return a, a.renderMarkdownAsync(idx, msg.Answer)

	case appmodel.MarkdownRenderedMsg:
		if msg.MessageIndex < len(a.dataModel.Messages) {
			a.dataModel.Messages[msg.MessageIndex].Rendered = msg.Rendered
			a.updateViewportContent(a.highlightedMessageIdx < 0)
		}
		return a, nil

	case appmodel.ClipboardMsg:
		if msg.Err != nil {
			config.Debugf("[UI] clipboard: %v", msg.Err)
			a.status = ErrorStyle.Render("Não foi possível copiar: " + msg.Err.Error())
		} else {
			a.status = DimStyle.Render("Resposta copiada.")
		}
		return a, nil

	case appmodel.FlashTickMsg:
		a.highlightFlashCount++
		if a.highlightFlashCount >= flashTimes {
			a.highlightedMessageIdx = -1
			a.highlightFlashCount = 0
			a.updateViewportContent(false)
			return a, nil
		}
		a.updateViewportContent(false)
		return a, flashTick()

	case appmodel.SessionClosedMsg:
		if msg.Err != nil {
			config.Debugf("[UI] closing session: %v", msg.Err)
		}
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a AppView) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height

	a.textarea.SetWidth(msg.Width)
	a.viewport.Width = msg.Width
	a.viewport.Height = max(msg.Height-inputHeight-footerHeight-1, 1)
	a.ready = true

	// Re-render markdown for the new width
	var cmds []tea.Cmd
	for i, m := range a.dataModel.Messages {
		cmds = append(cmds, a.renderMarkdownAsync(i, m.Content))
	}
	a.updateViewportContent(true)
	return a, tea.Batch(cmds...)
}

func (a AppView) handleChatKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			a.showHelp = false
		case "ctrl+c":
			return a.quit()
		}
		return a, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return a.quit()

	case "enter":
		return a.send()

	case "ctrl+l":
		if a.dataModel.Busy {
			return a, nil
		}
		a.dataModel.ClearConversation()
		a.greet()
		a.status = DimStyle.Render("Histórico apagado.")
		a.updateViewportContent(true)
		return a, nil

	case "ctrl+y":
		answer, ok := a.dataModel.LastAnswer()
		if !ok {
			return a, nil
		}
		return a, copyToClipboard(answer)

	case "ctrl+f":
		a.showSearch = true
		a.searchInput.SetValue("")
		a.searchResults = nil
		a.selectedSearchIdx = 0
		a.textarea.Blur()
		return a, a.searchInput.Focus()

	case "?":
		if a.textarea.Value() == "" {
			a.showHelp = true
			return a, nil
		}

	case "pgup":
		a.viewport.PageUp()
		return a, nil

	case "pgdown":
		a.viewport.PageDown()
		return a, nil
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a AppView) send() (tea.Model, tea.Cmd) {
	query := strings.TrimSpace(a.textarea.Value())
	if a.dataModel.Busy || query == "" {
		return a, nil
	}
	a.textarea.Reset()
	a.status = ""

	config.Debugf("[UI] sending question: %s", query)

	idx := a.dataModel.AddMessage(appmodel.RoleUser, query)
	a.dataModel.Messages[idx].Rendered = query
	a.dataModel.Busy = true
	a.updateViewportContent(true)

	return a, tea.Batch(
		a.renderMarkdownAsync(idx, query),
		a.dataModel.SendQuery(a.ctx, query),
		a.spinner.Tick,
	)
}

func (a AppView) quit() (tea.Model, tea.Cmd) {
	if a.dataModel.Quitting {
		return a, tea.Quit
	}
	a.dataModel.Quitting = true
	return a, a.dataModel.CloseSession()
}

func (a AppView) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a.quit()

	case "esc":
		return a.closeSearch()

	case "up", "ctrl+k":
		if a.selectedSearchIdx > 0 {
			a.selectedSearchIdx--
		}
		return a, nil

	case "down", "ctrl+j":
		if a.selectedSearchIdx < len(a.searchResults)-1 {
			a.selectedSearchIdx++
		}
		return a, nil

	case "enter":
		if len(a.searchResults) == 0 {
			return a, nil
		}
		target := a.searchResults[a.selectedSearchIdx].Index
		a.showSearch = false
		a.searchInput.Blur()
		focus := a.textarea.Focus()

		a.highlightedMessageIdx = target
		a.highlightFlashCount = 1
		a.updateViewportContent(false)
		if target < len(a.messageOffsets) {
			a.viewport.SetYOffset(a.messageOffsets[target])
		}
		return a, tea.Batch(focus, flashTick())
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	a.searchResults = searchMessages(a.searchInput.Value(), a.dataModel.Messages)
	if a.selectedSearchIdx >= len(a.searchResults) {
		a.selectedSearchIdx = max(len(a.searchResults)-1, 0)
	}
	return a, cmd
}

func (a AppView) closeSearch() (tea.Model, tea.Cmd) {
	a.showSearch = false
	a.searchInput.Blur()
	return a, a.textarea.Focus()
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return appmodel.ClipboardMsg{Err: clipboard.WriteAll(text)}
	}
}

func flashTick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
		return appmodel.FlashTickMsg{}
	})
}
