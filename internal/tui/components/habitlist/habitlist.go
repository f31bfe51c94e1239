package habitlist

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dailycoach/internal/constants"
	"github.com/julianstephens/dailycoach/internal/models"
	"github.com/julianstephens/dailycoach/internal/pages"
)

// Mode selects which actions the list offers.
type Mode int

const (
	// ModeToday is the Home checklist: toggle and set status.
	ModeToday Mode = iota
	// ModeManage is the Settings habit list: add and delete.
	ModeManage
)

type ToggleMsg struct {
	ID string
}

type SetStatusMsg struct {
	ID     string
	Status string
}

type AddHabitMsg struct{}

type DeleteHabitMsg struct {
	ID    string
	Title string
}

type Item struct {
	Card pages.HabitCard
	mode Mode
}

func (i Item) Title() string {
	h := i.Card.Habit
	if i.mode == ModeManage {
		return h.Icon + " " + h.Title
	}
	mark := "○"
	if i.Card.Done() {
		mark = "✓"
	}
	return mark + " " + h.Icon + " " + h.Title
}

func (i Item) Description() string {
	h := i.Card.Habit
	var parts []string
	if h.ScheduledTime != "" {
		parts = append(parts, h.ScheduledTime)
	}
	parts = append(parts, h.Category)
	if h.Subtitle != "" {
		parts = append(parts, h.Subtitle)
	}
	return strings.Join(parts, " | ")
}

func (i Item) FilterValue() string { return i.Card.Habit.Title }

type KeyMap struct {
	Toggle  key.Binding
	Done    key.Binding
	Pending key.Binding
	Add     key.Binding
	Delete  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
		Done: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "done"),
		),
		Pending: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pending"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add habit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete habit"),
		),
	}
}

// Bindings returns the actions available in mode.
func (k KeyMap) Bindings(mode Mode) []key.Binding {
	if mode == ModeManage {
		return []key.Binding{k.Add, k.Delete}
	}
	return []key.Binding{k.Toggle, k.Done, k.Pending}
}

type Model struct {
	list list.Model
	keys KeyMap
	mode Mode
}

func New(mode Mode, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()

	return Model{list: l, keys: DefaultKeyMap(), mode: mode}
}

// SetCards replaces the items with today's cards.
func (m *Model) SetCards(cards []pages.HabitCard) {
	items := make([]list.Item, len(cards))
	for i, c := range cards {
		items[i] = Item{Card: c, mode: m.mode}
	}
	m.list.SetItems(items)
}

// SetHabits replaces the items with bare habits.
func (m *Model) SetHabits(habits []models.Habit) {
	cards := make([]pages.HabitCard, len(habits))
	for i, h := range habits {
		cards[i] = pages.HabitCard{Habit: h, Status: constants.StatusPending}
	}
	m.SetCards(cards)
}

// Selected returns the card under the cursor.
func (m Model) Selected() (pages.HabitCard, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Card, ok
}

func (m Model) Len() int {
	return len(m.list.Items())
}

// Filtering reports whether the list is capturing keys for its filter.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		if action := m.action(msg); action != nil {
			return m, action
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) action(msg tea.KeyMsg) tea.Cmd {
	if m.mode == ModeManage && key.Matches(msg, m.keys.Add) {
		return func() tea.Msg { return AddHabitMsg{} }
	}

	card, ok := m.Selected()
	if !ok {
		return nil
	}
	id := card.Habit.ID

	switch m.mode {
	case ModeToday:
		switch {
		case key.Matches(msg, m.keys.Toggle):
			return func() tea.Msg { return ToggleMsg{ID: id} }
		case key.Matches(msg, m.keys.Done):
			return func() tea.Msg { return SetStatusMsg{ID: id, Status: constants.StatusDone} }
		case key.Matches(msg, m.keys.Pending):
			return func() tea.Msg { return SetStatusMsg{ID: id, Status: constants.StatusPending} }
		}
	case ModeManage:
		if key.Matches(msg, m.keys.Delete) {
			return func() tea.Msg { return DeleteHabitMsg{ID: id, Title: card.Habit.Title} }
		}
	}
	return nil
}

func (m Model) View() string {
	if m.Len() == 0 && !m.Filtering() {
		if m.mode == ModeManage {
			return "\n  No habits yet.\n  Press 'a' to add one."
		}
		return "\n  No habits yet.\n  Add some from Settings."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
