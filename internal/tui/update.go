package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dailycoach/internal/models"
	"github.com/julianstephens/dailycoach/internal/pages"
	"github.com/julianstephens/dailycoach/internal/tui/components/habitlist"
	"github.com/julianstephens/dailycoach/internal/tui/components/history"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case habitlist.ToggleMsg:
		out, err := m.pages.Toggle(m.request(), msg.ID)
		m.applyHome(out, err)
	case habitlist.SetStatusMsg:
		out, err := m.pages.SetStatus(m.request(), msg.ID, msg.Status)
		m.applyHome(out, err)
	case habitlist.AddHabitMsg:
		return m, m.openHabitForm()
	case habitlist.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.habitToDeleteTitle = msg.Title
		m.state = StateConfirmDelete
	case history.FilterMsg:
		view, err := m.pages.History(m.request(), msg.Date)
		if err != nil {
			m.fail(err)
			break
		}
		m.succeed("")
		m.history.SetView(view)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// applyHome re-renders from a Home action outcome. Other pages are reloaded
// because the change shows up in history and stats too.
func (m *Model) applyHome(out pages.Outcome[pages.HomeView], err error) {
	if err != nil {
		m.fail(err)
		return
	}
	if out.Refresh {
		m.refresh()
		m.setHome(out.View)
	}
	m.succeed(out.Notice)
}

func (m *Model) applySettings(out pages.Outcome[pages.SettingsView]) {
	if out.Refresh {
		m.refresh()
		m.setSettings(out.View)
	}
	m.succeed(out.Notice)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case StateConfirmDelete:
		return m.confirmDeleteHabit(msg)
	case StateConfirmAccount:
		return m.confirmDeleteAccount(msg)
	}

	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	if m.capturingInput() {
		return m.updateActive(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Right):
		m.nav = m.nav.Next()
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab), key.Matches(msg, m.keys.Left):
		m.nav = m.nav.Prev()
		return m, nil
	case key.Matches(msg, m.keys.Home):
		m.nav = m.nav.Go(pages.PageHome)
		return m, nil
	case key.Matches(msg, m.keys.History):
		m.nav = m.nav.Go(pages.PageHistory)
		return m, nil
	case key.Matches(msg, m.keys.Stats):
		m.nav = m.nav.Go(pages.PageStats)
		return m, nil
	case key.Matches(msg, m.keys.Settings):
		m.nav = m.nav.Go(pages.PageSettings)
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
		return m, nil
	}

	if m.nav.Active == pages.PageSettings {
		switch {
		case key.Matches(msg, m.keys.DarkMode):
			prefs := m.settings.Preferences
			prefs.DarkMode = !prefs.DarkMode
			return m.savePreferences(prefs)
		case key.Matches(msg, m.keys.Notifications):
			prefs := m.settings.Preferences
			prefs.Notifications = !prefs.Notifications
			return m.savePreferences(prefs)
		case key.Matches(msg, m.keys.Logout):
			return m.logout("Logged out")
		case key.Matches(msg, m.keys.DeleteAccount):
			m.state = StateConfirmAccount
			return m, nil
		}
	}

	return m.updateActive(msg)
}

// capturingInput reports whether the active page is taking free text.
func (m Model) capturingInput() bool {
	switch m.nav.Active {
	case pages.PageHome:
		return m.today.Filtering()
	case pages.PageHistory:
		return m.history.Filtering()
	case pages.PageSettings:
		return m.manage.Filtering()
	}
	return false
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.nav.Active {
	case pages.PageHome:
		m.today, cmd = m.today.Update(msg)
	case pages.PageHistory:
		m.history, cmd = m.history.Update(msg)
	case pages.PageStats:
		m.stats, cmd = m.stats.Update(msg)
	case pages.PageSettings:
		m.manage, cmd = m.manage.Update(msg)
	}
	return m, cmd
}

func (m Model) savePreferences(prefs models.Preferences) (tea.Model, tea.Cmd) {
	out, err := m.pages.SavePreferences(m.request(), prefs)
	if err != nil {
		m.fail(err)
		return m, nil
	}
	m.applySettings(out)
	return m, nil
}

func (m Model) confirmDeleteHabit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		out, err := m.pages.DeleteHabit(m.request(), m.habitToDeleteID)
		m.state = StateMain
		m.habitToDeleteID, m.habitToDeleteTitle = "", ""
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.applySettings(out)
	case key.Matches(msg, m.keys.Cancel):
		m.state = StateMain
		m.habitToDeleteID, m.habitToDeleteTitle = "", ""
	}
	return m, nil
}

func (m Model) confirmDeleteAccount(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		out, err := m.pages.DeleteAccount(m.request())
		if err != nil {
			m.state = StateMain
			m.fail(err)
			return m, nil
		}
		return m.logout(out.Notice)
	case key.Matches(msg, m.keys.Cancel):
		m.state = StateMain
	}
	return m, nil
}

func (m Model) logout(notice string) (tea.Model, tea.Cmd) {
	m.session = m.auth.Logout(m.session)
	m.home = pages.HomeView{}
	m.settings = pages.SettingsView{}
	m.history.SetView(pages.HistoryView{})
	m.theme = newTheme(false)
	m.authForm = nil
	cmd := m.openAuthForm()
	m.succeed(notice)
	return m, cmd
}
