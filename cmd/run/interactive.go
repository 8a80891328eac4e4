package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/plugin-abi/config"
	"github.com/wippyai/plugin-abi/record"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	menuStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateQuery modelState = iota
	stateResults
	stateMenu
)

type interactiveModel struct {
	err      error
	s        *session
	title    string
	results  []record.SearchResult
	menu     []record.ContextMenuResult
	input    textinput.Model
	selected int
	state    modelState
}

type searchMsg struct {
	err     error
	results []record.SearchResult
}

type menuMsg struct {
	err  error
	menu []record.ContextMenuResult
}

func newInteractiveModel(s *session, title string) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "type a query"
	ti.Prompt = "> "
	ti.Width = 50
	ti.Focus()
	return &interactiveModel{s: s, title: title, input: ti, state: stateQuery}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) search(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := m.s.client.Search(query)
		return searchMsg{results: results, err: err}
	}
}

func (m *interactiveModel) contextMenu(r record.SearchResult) tea.Cmd {
	return func() tea.Msg {
		menu, err := m.s.client.ContextMenu(r)
		return menuMsg{menu: menu, err: err}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "up":
			if m.state == stateResults && m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.state == stateResults && m.selected < len(m.results)-1 {
				m.selected++
			}
			return m, nil

		case "tab":
			switch m.state {
			case stateQuery:
				if len(m.results) > 0 {
					m.state = stateResults
					m.input.Blur()
				}
			case stateResults:
				m.state = stateQuery
				m.input.Focus()
			}
			return m, nil

		case "enter":
			switch m.state {
			case stateQuery:
				m.err = nil
				return m, m.search(m.input.Value())
			case stateResults:
				if m.selected < len(m.results) {
					return m, m.contextMenu(m.results[m.selected])
				}
			case stateMenu:
				m.state = stateResults
				m.menu = nil
			}
			return m, nil

		case "esc":
			switch m.state {
			case stateMenu:
				m.state = stateResults
				m.menu = nil
			case stateResults:
				m.state = stateQuery
				m.input.Focus()
			case stateQuery:
				return m, tea.Quit
			}
			return m, nil
		}

	case searchMsg:
		m.err = msg.err
		m.results = msg.results
		m.selected = 0
		if len(m.results) > 0 {
			m.state = stateResults
			m.input.Blur()
		}
		return m, nil

	case menuMsg:
		m.err = msg.err
		m.menu = msg.menu
		if msg.err == nil {
			m.state = stateMenu
		}
		return m, nil
	}

	if m.state == stateQuery {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	for i, r := range m.results {
		line := fmt.Sprintf("%s  %s", r.Title, subtitleStyle.Render(r.Subtitle))
		if m.state != stateQuery && i == m.selected {
			b.WriteString(selectedStyle.Render("> " + r.Title))
			b.WriteString("  " + subtitleStyle.Render(r.Subtitle))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")

		if m.state == stateMenu && i == m.selected {
			for _, e := range m.menu {
				b.WriteString("      ")
				b.WriteString(menuStyle.Render(e.Title))
				b.WriteString(helpStyle.Render(fmt.Sprintf("  key=0x%02X mods=0x%04X", e.AcceleratorKey, e.AcceleratorModifiers)))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	switch m.state {
	case stateQuery:
		b.WriteString(helpStyle.Render("enter search • tab results • esc quit"))
	case stateResults:
		b.WriteString(helpStyle.Render("↑/↓ select • enter context menu • tab query • esc back"))
	case stateMenu:
		b.WriteString(helpStyle.Render("enter/esc close menu • ctrl+c quit"))
	}
	return b.String()
}

func runInteractive(cfg config.Config) error {
	ctx := context.Background()

	// log output would corrupt the alt screen
	s, err := newSession(ctx, cfg, zap.NewNop())
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	info, err := s.client.Info()
	if err != nil {
		return fmt.Errorf("plugin info: %w", err)
	}

	p := tea.NewProgram(newInteractiveModel(s, info.Name+": "+info.Description), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
