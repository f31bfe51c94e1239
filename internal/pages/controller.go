// Package pages holds the Home, History, Stats and Settings controllers.
// Each call reads what it needs from the store and returns a fresh view-model;
// controllers keep no per-user state between calls.
package pages

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/julianstephens/dailycoach/internal/constants"
	"github.com/julianstephens/dailycoach/internal/errors"
	"github.com/julianstephens/dailycoach/internal/models"
	"github.com/julianstephens/dailycoach/internal/storage"
)

// Store is the subset of storage.Provider the controllers read and write.
type Store interface {
	ListHabits(userID string) ([]models.Habit, error)
	GetHabit(userID, habitID string) (models.Habit, error)
	AddHabit(userID string, habit models.Habit) (string, error)
	UpdateHabit(userID string, habit models.Habit) error
	DeleteHabit(userID, habitID string) error
	SetLogStatus(userID, habitID, date, status string) error
	GetLogsForDate(userID, date string) (map[string]string, error)
	GetHistory(userID string) ([]models.HistoryEntry, error)
	GetDailyCompletionStats(userID string) ([]models.DailyCompletion, error)
	GetCategoryBreakdown(userID string) ([]models.CategoryCount, error)
	GetPreferences(userID string) (models.Preferences, error)
	SavePreferences(models.Preferences) error
	DeleteUser(userID string) error
}

// Request carries the caller's identity and clock into every controller call.
type Request struct {
	User models.User
	Now  time.Time
}

// NewRequest stamps a request for user with the current local time.
func NewRequest(user models.User) Request {
	return Request{User: user, Now: time.Now()}
}

// Today returns the request's calendar date as YYYY-MM-DD.
func (r Request) Today() string {
	return r.Now.Format(constants.DateFormat)
}

// Outcome is the result of an action. Refresh tells the front end to
// re-render from View.
type Outcome[V any] struct {
	View    V      `json:"view"`
	Refresh bool   `json:"refresh"`
	Notice  string `json:"notice,omitempty"`
}

func refreshed[V any](view V, notice string) Outcome[V] {
	return Outcome[V]{View: view, Refresh: true, Notice: notice}
}

type Controller struct {
	store  Store
	quotes QuoteSource
}

type Option func(*Controller)

// WithQuotes replaces the built-in quote source.
func WithQuotes(q QuoteSource) Option {
	return func(c *Controller) { c.quotes = q }
}

func NewController(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		quotes: BuiltinQuotes{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// habitErr translates storage errors for a habit lookup.
func habitErr(err error, action string) error {
	if stderrors.Is(err, storage.ErrNotFound) {
		return errors.NotFound("habit not found")
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
