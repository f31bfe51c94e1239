package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailycoach/internal/models"
	"github.com/julianstephens/dailycoach/internal/pages"
	"github.com/julianstephens/dailycoach/internal/storage"
)

const (
	labelWidth = 16
	minBar     = 10
	maxBar     = 40
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(labelWidth)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

// Bar draws percent as a fixed-width horizontal bar.
func Bar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100
	return barStyle.Render(strings.Repeat("█", filled)) + emptyStyle.Render(strings.Repeat("░", width-filled))
}

type Model struct {
	viewport viewport.Model
	data     pages.StatsView
	width    int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height), width: width}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetView(view pages.StatsView) {
	m.data = view
	m.Render()
}

func (m *Model) Render() {
	m.viewport.SetContent(Render(m.data, m.barWidth()))
}

func (m Model) barWidth() int {
	return min(max(m.width-labelWidth-8, minBar), maxBar)
}

// Render lays out today's progress, the daily series and the category breakdown.
func Render(view pages.StatsView, width int) string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("Today") + "\n")
	fmt.Fprintf(&b, "%s %s %3d%%\n\n", labelStyle.Render("progress"), Bar(view.TodayProgress, width), view.TodayProgress)

	b.WriteString(headingStyle.Render("Daily completion") + "\n")
	if len(view.Series) == 0 {
		b.WriteString("No days logged yet.\n")
	} else {
		b.WriteString(Series(view.Series, width))
		fmt.Fprintf(&b, "%s %d%%\n", labelStyle.Render("average"), view.Average)
	}

	b.WriteString("\n" + headingStyle.Render("By category") + "\n")
	if len(view.Categories) == 0 {
		b.WriteString("No categories logged yet.\n")
	} else {
		b.WriteString(Categories(view.Categories, width))
	}
	return b.String()
}

// Series renders one bar per day.
func Series(series []models.DailyCompletion, width int) string {
	var b strings.Builder
	for _, d := range series {
		fmt.Fprintf(&b, "%s %s %3d%% (%d/%d)\n", labelStyle.Render(d.Date), Bar(d.Percent, width), d.Percent, d.Done, d.Total)
	}
	return b.String()
}

// Categories renders one bar per habit category.
func Categories(cats []models.CategoryCount, width int) string {
	var b strings.Builder
	for _, c := range cats {
		percent := storage.Percent(c.Done, c.Total)
		fmt.Fprintf(&b, "%s %s %3d%% (%d/%d)\n", labelStyle.Render(truncate(c.Category, labelWidth-1)), Bar(percent, width), percent, c.Done, c.Total)
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
