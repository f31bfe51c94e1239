package tui

import "github.com/charmbracelet/lipgloss"

// theme holds the styles chosen by the dark mode preference.
type theme struct {
	activeTab   lipgloss.Style
	inactiveTab lipgloss.Style
	title       lipgloss.Style
	subtle      lipgloss.Style
	quote       lipgloss.Style
	notice      lipgloss.Style
	danger      lipgloss.Style
	doc         lipgloss.Style
}

func newTheme(dark bool) theme {
	accent, bg, muted, text := lipgloss.Color("205"), lipgloss.Color("254"), lipgloss.Color("244"), lipgloss.Color("235")
	if dark {
		accent, bg, muted, text = lipgloss.Color("205"), lipgloss.Color("236"), lipgloss.Color("240"), lipgloss.Color("252")
	}

	return theme{
		activeTab: lipgloss.NewStyle().
			Foreground(accent).
			Background(bg).
			Padding(0, 1).
			Bold(true),
		inactiveTab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		title: lipgloss.NewStyle().
			Foreground(text).
			Bold(true),
		subtle: lipgloss.NewStyle().
			Foreground(muted),
		quote: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
		notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")),
		danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
		doc: lipgloss.NewStyle().
			Padding(1, 2),
	}
}
