package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailycoach/internal/auth"
	"github.com/julianstephens/dailycoach/internal/errors"
	"github.com/julianstephens/dailycoach/internal/logger"
	"github.com/julianstephens/dailycoach/internal/pages"
	"github.com/julianstephens/dailycoach/internal/tui/components/habitlist"
	"github.com/julianstephens/dailycoach/internal/tui/components/history"
	"github.com/julianstephens/dailycoach/internal/tui/components/stats"
)

type SessionState int

const (
	StateAuth SessionState = iota
	StateMain
	StateHabitForm
	StateConfirmDelete
	StateConfirmAccount
)

const (
	authLogin  = "login"
	authSignup = "signup"
)

type AuthFormModel struct {
	Mode     string
	Name     string
	Email    string
	Password string
	Confirm  string
}

type HabitFormModel struct {
	Title    string
	Subtitle string
	Category string
	Time     string
}

type Model struct {
	auth    *auth.Service
	pages   *pages.Controller
	session auth.Session
	nav     pages.Navigator
	state   SessionState
	keys    KeyMap
	help    help.Model
	theme   theme

	form      *huh.Form
	authForm  *AuthFormModel
	habitForm *HabitFormModel

	today   habitlist.Model
	manage  habitlist.Model
	history history.Model
	stats   stats.Model

	home     pages.HomeView
	settings pages.SettingsView

	habitToDeleteID    string
	habitToDeleteTitle string

	notice   string
	err      string
	quitting bool
	width    int
	height   int
	now      func() time.Time
}

// NewModel starts on the auth screen unless session is already authenticated.
func NewModel(authSvc *auth.Service, ctrl *pages.Controller, session auth.Session) Model {
	m := Model{
		auth:    authSvc,
		pages:   ctrl,
		session: session,
		state:   StateAuth,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		theme:   newTheme(false),
		today:   habitlist.New(habitlist.ModeToday, 0, 0),
		manage:  habitlist.New(habitlist.ModeManage, 0, 0),
		history: history.New(0, 0),
		stats:   stats.New(0, 0),
		now:     time.Now,
	}

	if session.IsAuthenticated() {
		m.state = StateMain
		m.refresh()
	} else {
		m.openAuthForm()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.form != nil {
		return m.form.Init()
	}
	return nil
}

// Session returns the current auth state.
func (m Model) Session() auth.Session {
	return m.session
}

func (m Model) request() pages.Request {
	return pages.Request{User: *m.session.User, Now: m.now()}
}

// fail records err for display. Unclassified errors are logged and shown generically.
func (m *Model) fail(err error) {
	m.notice = ""
	if errors.KindOf(err) == errors.KindUnknown {
		logger.Error("Action failed", "error", err)
	}
	m.err = errors.Message(err)
}

func (m *Model) succeed(notice string) {
	m.err = ""
	m.notice = notice
}

// refresh reloads every page for the signed-in user. A failing page keeps
// its previous view; the first error is shown.
func (m *Model) refresh() {
	req := m.request()
	var firstErr error
	keep := func(err error) bool {
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return err == nil
	}

	if home, err := m.pages.Home(req); keep(err) {
		m.setHome(home)
	}
	if hist, err := m.pages.History(req, m.history.Filter()); keep(err) {
		m.history.SetView(hist)
	}
	if st, err := m.pages.Stats(req); keep(err) {
		m.stats.SetView(st)
	}
	if settings, err := m.pages.Settings(req); keep(err) {
		m.setSettings(settings)
	}

	if firstErr != nil {
		m.fail(firstErr)
	}
}

func (m *Model) setHome(view pages.HomeView) {
	m.home = view
	m.today.SetCards(view.Cards)
}

func (m *Model) setSettings(view pages.SettingsView) {
	m.settings = view
	m.manage.SetHabits(view.Habits)
	m.theme = newTheme(view.Preferences.DarkMode)
}

func (m *Model) resize() {
	width := max(m.width-4, 20)
	height := max(m.height-12, 5)
	m.help.Width = m.width
	m.today.SetSize(width, height)
	m.manage.SetSize(width, max(height-4, 3))
	m.history.SetSize(width, height)
	m.stats.SetSize(width, height)
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateConfirmDelete, StateConfirmAccount:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	case StateAuth, StateHabitForm:
		return nil
	}

	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.nav.Active {
	case pages.PageHome:
		keys = append(keys, m.today.Keys().Bindings(habitlist.ModeToday)...)
	case pages.PageHistory:
		keys = append(keys, m.history.Keys().Filter)
	case pages.PageSettings:
		keys = append(keys, m.manage.Keys().Bindings(habitlist.ModeManage)...)
		keys = append(keys, m.keys.DarkMode, m.keys.Logout)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Left, m.keys.Right, m.keys.Home, m.keys.History, m.keys.Stats, m.keys.Settings}

	var actions []key.Binding
	switch m.nav.Active {
	case pages.PageHome:
		actions = m.today.Keys().Bindings(habitlist.ModeToday)
	case pages.PageHistory:
		hk := m.history.Keys()
		actions = []key.Binding{hk.Filter, hk.Clear}
	case pages.PageSettings:
		actions = append(m.manage.Keys().Bindings(habitlist.ModeManage),
			m.keys.DarkMode, m.keys.Notifications, m.keys.Logout, m.keys.DeleteAccount)
	}

	return [][]key.Binding{global, navigation, actions}
}
