package storage

import (
	"errors"
	"math"

	"github.com/julianstephens/dailycoach/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row owned by the caller
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint
	ErrDuplicate = errors.New("duplicate record")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	Ping() error

	// Users
	FindUserByEmail(email string) (models.User, error)
	FindUserByID(id string) (models.User, error)
	// CreateUser stores a new account and returns its id. Returns ErrDuplicate
	// when the email is already registered.
	CreateUser(name, email, passwordHash string) (string, error)
	// DeleteUser removes the user together with their habits, logs and preferences.
	DeleteUser(userID string) error

	// Habits
	// ListHabits returns the user's habits ordered by scheduled time, then title.
	ListHabits(userID string) ([]models.Habit, error)
	GetHabit(userID, habitID string) (models.Habit, error)
	AddHabit(userID string, habit models.Habit) (string, error)
	UpdateHabit(userID string, habit models.Habit) error
	// DeleteHabit removes the habit's logs and then the habit in one transaction.
	DeleteHabit(userID, habitID string) error

	// Habit Logs
	// SetLogStatus upserts the single log row for (user, habit, date).
	SetLogStatus(userID, habitID, date, status string) error
	GetLogsForDate(userID, date string) (map[string]string, error)
	// GetHistory returns log rows newest date first.
	GetHistory(userID string) ([]models.HistoryEntry, error)
	// GetDailyCompletionStats returns one point per logged date in ascending order.
	GetDailyCompletionStats(userID string) ([]models.DailyCompletion, error)
	GetCategoryBreakdown(userID string) ([]models.CategoryCount, error)

	// Preferences
	GetPreferences(userID string) (models.Preferences, error)
	SavePreferences(models.Preferences) error

	// Utils
	GetConfigPath() string
	SchemaVersion() (int, error)
}

// Percent returns round(100*done/total) clamped to [0,100]. A zero total yields 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(done) / float64(total)))
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
