package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailycoach/internal/constants"
	"github.com/julianstephens/dailycoach/internal/pages"
)

var (
	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// FilterMsg asks the parent to reload history for Date. An empty Date clears the filter.
type FilterMsg struct {
	Date string
}

type KeyMap struct {
	Filter key.Binding
	Clear  key.Binding
	Apply  key.Binding
	Cancel key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter by date"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filter"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

type Model struct {
	viewport  viewport.Model
	input     textinput.Model
	keys      KeyMap
	filtering bool
	data      pages.HistoryView
	width     int
	height    int
}

func New(width, height int) Model {
	in := textinput.New()
	in.Placeholder = constants.DateFormat
	in.CharLimit = len(constants.DateFormat)
	in.Prompt = "Date: "

	return Model{
		viewport: viewport.New(width, height),
		input:    in,
		keys:     DefaultKeyMap(),
	}
}

// Filtering reports whether the date input has focus.
func (m Model) Filtering() bool {
	return m.filtering
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	keyMsg, isKey := msg.(tea.KeyMsg)
	if m.filtering {
		if isKey {
			switch {
			case key.Matches(keyMsg, m.keys.Apply):
				m.stopFiltering()
				date := strings.TrimSpace(m.input.Value())
				return m, func() tea.Msg { return FilterMsg{Date: date} }
			case key.Matches(keyMsg, m.keys.Cancel):
				m.stopFiltering()
				return m, nil
			}
		}
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if isKey {
		switch {
		case key.Matches(keyMsg, m.keys.Filter):
			m.filtering = true
			m.input.SetValue(m.data.Filter)
			return m, m.input.Focus()
		case key.Matches(keyMsg, m.keys.Clear):
			if m.data.Filter != "" {
				return m, func() tea.Msg { return FilterMsg{} }
			}
			return m, nil
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) stopFiltering() {
	m.filtering = false
	m.input.Blur()
}

func (m Model) View() string {
	var header string
	switch {
	case m.filtering:
		header = m.input.View()
	case m.data.Filter != "":
		header = countStyle.Render(fmt.Sprintf("Showing %s  (c to clear)", m.data.Filter))
	default:
		header = countStyle.Render("All days  (/ to filter)")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", m.viewport.View())
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1)
	m.Render()
}

// Filter returns the date the shown history is filtered to.
func (m Model) Filter() string {
	return m.data.Filter
}

// SetView replaces the rendered history.
func (m *Model) SetView(view pages.HistoryView) {
	m.data = view
	m.Render()
}

func (m *Model) Render() {
	m.viewport.SetContent(Render(m.data))
	m.viewport.GotoTop()
}

// Render formats days newest first as a plain block of text.
func Render(view pages.HistoryView) string {
	if len(view.Days) == 0 {
		if view.Filter != "" {
			return "No entries for " + view.Filter + "."
		}
		return "No history yet. Mark a habit done on Home to start."
	}

	var b strings.Builder
	for i, day := range view.Days {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s\n",
			dateStyle.Render(day.Date),
			countStyle.Render(fmt.Sprintf("%d/%d done", day.Done, day.Total)),
		)
		for _, e := range day.Entries {
			if e.Status == constants.StatusDone {
				fmt.Fprintf(&b, "  %s %s\n", doneStyle.Render("✓"), e.HabitTitle)
			} else {
				fmt.Fprintf(&b, "  %s %s\n", pendingStyle.Render("○"), pendingStyle.Render(e.HabitTitle))
			}
		}
	}
	return b.String()
}
