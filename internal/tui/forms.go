package tui

import (
	stderrors "errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailycoach/internal/constants"
	"github.com/julianstephens/dailycoach/internal/pages"
)

var errRequired = stderrors.New("required")

// openAuthForm shows the login/sign up form, keeping the mode and email of a
// previous attempt.
func (m *Model) openAuthForm() tea.Cmd {
	prev := m.authForm
	m.authForm = &AuthFormModel{Mode: authLogin}
	if prev != nil {
		m.authForm.Mode = prev.Mode
		m.authForm.Email = prev.Email
		m.authForm.Name = prev.Name
	}
	f := m.authForm

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Welcome to DailyCoach").
				Options(
					huh.NewOption("Log in", authLogin),
					huh.NewOption("Sign up", authSignup),
				).
				Value(&f.Mode),
		),
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(&f.Email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&f.Password),
		).WithHideFunc(func() bool { return f.Mode != authLogin }),
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.Name),
			huh.NewInput().Title("Email").Value(&f.Email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&f.Password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&f.Confirm),
		).WithHideFunc(func() bool { return f.Mode != authSignup }),
	).WithShowHelp(true)

	m.state = StateAuth
	return m.form.Init()
}

func (m *Model) openHabitForm() tea.Cmd {
	m.habitForm = &HabitFormModel{Category: constants.DefaultCategory}
	f := m.habitForm

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&f.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errRequired
					}
					return nil
				}),
			huh.NewInput().Title("Subtitle").Value(&f.Subtitle),
			huh.NewInput().
				Title("Category").
				Suggestions(m.settings.Categories).
				Value(&f.Category),
			huh.NewInput().
				Title("Time (HH:MM)").
				Value(&f.Time).
				Validate(func(s string) error {
					_, err := pages.NormalizeTime(s)
					return err
				}),
		),
	).WithShowHelp(true)

	m.state = StateHabitForm
	return m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case k.String() == "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case k.String() == "esc" && m.state == StateHabitForm:
			m.form = nil
			m.state = StateMain
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m.submitForm()
	case huh.StateAborted:
		m.form = nil
		if m.state == StateAuth {
			m.quitting = true
			return m, tea.Quit
		}
		m.state = StateMain
		return m, nil
	}
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateAuth:
		return m.submitAuth()
	case StateHabitForm:
		return m.submitHabit()
	}
	return m, nil
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	f := m.authForm
	var err error
	if f.Mode == authSignup {
		m.session, err = m.auth.Signup(f.Name, f.Email, f.Password, f.Confirm)
	} else {
		m.session, err = m.auth.Login(f.Email, f.Password)
	}
	if err != nil {
		m.fail(err)
		return m, m.openAuthForm()
	}

	m.authForm = nil
	m.state = StateMain
	m.nav = pages.Navigator{}
	m.succeed("")
	m.refresh()
	return m, nil
}

func (m Model) submitHabit() (tea.Model, tea.Cmd) {
	f := m.habitForm
	m.habitForm = nil
	m.state = StateMain

	out, err := m.pages.AddHabit(m.request(), pages.HabitInput{
		Title:    f.Title,
		Subtitle: f.Subtitle,
		Category: f.Category,
		Time:     f.Time,
	})
	if err != nil {
		m.fail(err)
		return m, nil
	}
	m.applySettings(out)
	return m, nil
}
