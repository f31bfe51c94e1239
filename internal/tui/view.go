package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailycoach/internal/pages"
	"github.com/julianstephens/dailycoach/internal/tui/components/stats"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.state == StateAuth {
		var form string
		if m.form != nil {
			form = m.form.View()
		}
		return m.theme.doc.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.theme.title.Render("DailyCoach"),
			m.viewStatus(),
			form,
		))
	}

	var content string
	switch m.state {
	case StateHabitForm:
		if m.form != nil {
			content = m.form.View()
		}
	case StateConfirmDelete:
		content = m.viewConfirm(fmt.Sprintf("Delete %q and all of its history?", m.habitToDeleteTitle))
	case StateConfirmAccount:
		content = m.viewConfirm("Delete your account and every habit and log?")
	default:
		content = m.viewPage()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewStatus(),
		m.theme.doc.Render(content),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for _, p := range pages.Pages {
		if m.nav.Active == p {
			tabs = append(tabs, m.theme.activeTab.Render(p.String()))
		} else {
			tabs = append(tabs, m.theme.inactiveTab.Render(p.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	switch {
	case m.err != "":
		return m.theme.danger.Render(m.err)
	case m.notice != "":
		return m.theme.notice.Render(m.notice)
	}
	return ""
}

func (m Model) viewPage() string {
	switch m.nav.Active {
	case pages.PageHistory:
		return m.history.View()
	case pages.PageStats:
		return m.stats.View()
	case pages.PageSettings:
		return m.viewSettings()
	default:
		return m.viewHome()
	}
}

func (m Model) viewHome() string {
	h := m.home
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.title.Render(h.Greeting),
		m.theme.subtle.Render(h.Date),
		"",
		m.theme.quote.Render(fmt.Sprintf("%q - %s", h.Quote.Text, h.Quote.Author)),
		"",
		fmt.Sprintf("%s %d/%d done (%d%%)", stats.Bar(h.Progress, 20), h.Done, h.Total, h.Progress),
		m.today.View(),
	)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (m Model) viewSettings() string {
	s := m.settings
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.title.Render("Account"),
		fmt.Sprintf("%s <%s>", s.User.Name, s.User.Email),
		m.theme.subtle.Render("[L] log out   [D] delete account"),
		"",
		m.theme.title.Render("Preferences"),
		fmt.Sprintf("[t] Dark mode: %s", onOff(s.Preferences.DarkMode)),
		fmt.Sprintf("[n] Notifications: %s", onOff(s.Preferences.Notifications)),
		"",
		m.theme.title.Render("Habits"),
		m.manage.View(),
	)
}

func (m Model) viewConfirm(question string) string {
	return lipgloss.Place(m.width, max(m.height-4, 6),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			m.theme.danger.Render(question),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
