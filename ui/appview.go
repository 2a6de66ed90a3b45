package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "onboard/model"
)

// Greeting opens every conversation.
const Greeting = "Como posso ajudar você hoje?"

const thinkingText = "Pensando..."

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model
	ctx       context.Context

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool

	showHelp bool
	status   string

	showSearch        bool
	searchInput       textinput.Model
	searchResults     []searchMatch
	selectedSearchIdx int

	// First viewport line of every message, filled on each render
	messageOffsets        []int
	highlightedMessageIdx int
	highlightFlashCount   int
}

func NewAppView(ctx context.Context, dataModel *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Digite sua pergunta..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline, Enter sends
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	searchInput := textinput.New()
	searchInput.Prompt = "Buscar: "
	searchInput.CharLimit = 100

	a := AppView{
		dataModel:             dataModel,
		ctx:                   ctx,
		viewport:              viewport.New(0, 0),
		textarea:              ta,
		spinner:               sp,
		searchInput:           searchInput,
		highlightedMessageIdx: -1,
	}
	a.greet()
	return a
}

func (a *AppView) greet() {
	idx := a.dataModel.AddMessage(appmodel.RoleAssistant, Greeting)
	a.dataModel.Messages[idx].Rendered = Greeting
}

func (a AppView) Init() tea.Cmd {
	// Markdown waits for the first WindowSizeMsg to know the width
	return textarea.Blink
}
