package pages

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/dailycoach/internal/constants"
	"github.com/julianstephens/dailycoach/internal/errors"
	"github.com/julianstephens/dailycoach/internal/logger"
	"github.com/julianstephens/dailycoach/internal/models"
	"github.com/julianstephens/dailycoach/internal/storage"
)

type SettingsView struct {
	User        models.User        `json:"user"`
	Habits      []models.Habit     `json:"habits"`
	Preferences models.Preferences `json:"preferences"`
	Categories  []string           `json:"categories"`
}

// HabitInput is the editable part of a habit as entered by the user.
type HabitInput struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Category string `json:"category"`
	Time     string `json:"time"`
}

// NormalizeTime parses H:MM or HH:MM and returns the zero-padded HH:MM form.
func NormalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.Validation("time is required")
	}
	t, err := time.Parse(constants.TimeFormat, s)
	if err != nil {
		return "", errors.Validationf("invalid time %q, expected HH:MM", s)
	}
	return t.Format(constants.TimeFormat), nil
}

func (in HabitInput) toHabit() (models.Habit, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Habit{}, errors.Validation("title is required")
	}
	at, err := NormalizeTime(in.Time)
	if err != nil {
		return models.Habit{}, err
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = constants.DefaultCategory
	}
	return models.Habit{
		Title:         title,
		Subtitle:      strings.TrimSpace(in.Subtitle),
		Category:      category,
		Icon:          constants.IconForHabit(title, category),
		ScheduledTime: at,
	}, nil
}

// Settings lists the user's habits and preferences.
func (c *Controller) Settings(req Request) (SettingsView, error) {
	habits, err := c.store.ListHabits(req.User.ID)
	if err != nil {
		return SettingsView{}, fmt.Errorf("failed to list habits: %w", err)
	}
	prefs, err := c.store.GetPreferences(req.User.ID)
	if err != nil {
		return SettingsView{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	return SettingsView{
		User:        req.User,
		Habits:      habits,
		Preferences: prefs,
		Categories:  categoriesFor(habits),
	}, nil
}

// categoriesFor returns the built-in categories followed by any custom ones in use.
func categoriesFor(habits []models.Habit) []string {
	out := append([]string(nil), constants.Categories...)
	for _, h := range habits {
		if !constants.IsCategory(h.Category) && !contains(out, h.Category) {
			out = append(out, h.Category)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (c *Controller) settingsOutcome(req Request, notice string) (Outcome[SettingsView], error) {
	view, err := c.Settings(req)
	if err != nil {
		return Outcome[SettingsView]{}, err
	}
	return refreshed(view, notice), nil
}

// AddHabit validates input and stores a new habit.
func (c *Controller) AddHabit(req Request, in HabitInput) (Outcome[SettingsView], error) {
	habit, err := in.toHabit()
	if err != nil {
		return Outcome[SettingsView]{}, err
	}
	if _, err := c.store.AddHabit(req.User.ID, habit); err != nil {
		return Outcome[SettingsView]{}, fmt.Errorf("failed to add habit: %w", err)
	}
	logger.Debug("Habit added", "user_id", req.User.ID, "title", habit.Title)
	return c.settingsOutcome(req, fmt.Sprintf("Added %q", habit.Title))
}

// UpdateHabit rewrites an existing habit from input.
func (c *Controller) UpdateHabit(req Request, habitID string, in HabitInput) (Outcome[SettingsView], error) {
	habit, err := in.toHabit()
	if err != nil {
		return Outcome[SettingsView]{}, err
	}
	habit.ID = habitID
	if err := c.store.UpdateHabit(req.User.ID, habit); err != nil {
		return Outcome[SettingsView]{}, habitErr(err, "update habit")
	}
	return c.settingsOutcome(req, fmt.Sprintf("Updated %q", habit.Title))
}

// DeleteHabit removes a habit and all of its logs.
func (c *Controller) DeleteHabit(req Request, habitID string) (Outcome[SettingsView], error) {
	habit, err := c.store.GetHabit(req.User.ID, habitID)
	if err != nil {
		return Outcome[SettingsView]{}, habitErr(err, "load habit")
	}
	if err := c.store.DeleteHabit(req.User.ID, habitID); err != nil {
		return Outcome[SettingsView]{}, habitErr(err, "delete habit")
	}
	logger.Debug("Habit deleted", "user_id", req.User.ID, "habit_id", habitID)
	return c.settingsOutcome(req, fmt.Sprintf("Deleted %q", habit.Title))
}

// SavePreferences stores the user's display and reminder toggles.
func (c *Controller) SavePreferences(req Request, prefs models.Preferences) (Outcome[SettingsView], error) {
	prefs.UserID = req.User.ID
	if err := c.store.SavePreferences(prefs); err != nil {
		return Outcome[SettingsView]{}, fmt.Errorf("failed to save preferences: %w", err)
	}
	return c.settingsOutcome(req, "Preferences saved")
}

// DeleteAccount removes the user with every habit, log and preference they own.
// The caller is expected to log out afterwards.
func (c *Controller) DeleteAccount(req Request) (Outcome[struct{}], error) {
	if err := c.store.DeleteUser(req.User.ID); err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return Outcome[struct{}]{}, errors.NotFound("account not found")
		}
		return Outcome[struct{}]{}, fmt.Errorf("failed to delete account: %w", err)
	}
	logger.Info("Account deleted", "user_id", req.User.ID)
	return Outcome[struct{}]{Refresh: true, Notice: "Account deleted"}, nil
}
