package models

import "time"

// Habit represents a daily practice owned by one user
type Habit struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	Title         string    `json:"title" db:"title"`
	Subtitle      string    `json:"subtitle,omitempty" db:"subtitle"`
	Category      string    `json:"category" db:"category"`
	Icon          string    `json:"icon" db:"icon"`
	ScheduledTime string    `json:"scheduled_time" db:"scheduled_time"` // HH:MM format
	CreatedAt     time.Time `json:"created_at" db:"-"`
}

// HabitLog records the status of one habit on one calendar day
type HabitLog struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	HabitID   string    `json:"habit_id" db:"habit_id"`
	Date      string    `json:"date" db:"log_date"` // YYYY-MM-DD format
	Status    string    `json:"status" db:"status"`
	UpdatedAt time.Time `json:"updated_at" db:"-"`
}

// HistoryEntry is one row of a user's log history joined with its habit
type HistoryEntry struct {
	Date       string    `json:"date"`
	HabitID    string    `json:"habit_id"`
	HabitTitle string    `json:"habit_title"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DailyCompletion is the share of done logs on a single date
type DailyCompletion struct {
	Date    string `json:"date"`
	Done    int    `json:"done"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
}

// CategoryCount aggregates logs per habit category
type CategoryCount struct {
	Category string `json:"category" db:"category"`
	Done     int    `json:"done" db:"done"`
	Total    int    `json:"total" db:"total"`
}
