package constants

import (
	"strings"
	"time"
)

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "dailycoach"
	DefaultKeyringUser = "database-connection"
	TokenKeyringUser   = "token-secret"
	DefaultConfigPath  = "~/.config/dailycoach/dailycoach.db"
	DefaultConfigFile  = "dailycoach.yaml"
	EnvPrefix          = "DAILYCOACH_"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "dailycoach-"
	BackupFileSuffix = ".db"

	// Habit log status values
	StatusDone    = "done"
	StatusPending = "pending"

	// Server defaults
	DefaultAddr         = ":8080"
	DefaultTokenTTL     = 24 * time.Hour
	MinTokenSecretLen   = 32
	ShutdownTimeout     = 10 * time.Second
	ReadHeaderTimeout   = 5 * time.Second
	DefaultSQLiteParams = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
)

// Habit categories
const (
	CategoryMorning     = "Morning Routine"
	CategorySupplements = "Supplements"
	CategoryDiet        = "Diet"
	CategoryFitness     = "Fitness"
	CategoryEducation   = "Education"
	CategorySleep       = "Sleep"

	DefaultCategory = CategoryMorning
)

// Categories lists the habit categories in display order.
var Categories = []string{
	CategoryMorning,
	CategorySupplements,
	CategoryDiet,
	CategoryFitness,
	CategoryEducation,
	CategorySleep,
}

var categoryIcons = map[string]string{
	CategoryMorning:     "☀",
	CategorySupplements: "💊",
	CategoryDiet:        "🥗",
	CategoryFitness:     "🏋",
	CategoryEducation:   "📚",
	CategorySleep:       "🌙",
}

// IconFor returns the default icon glyph for a category.
func IconFor(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return "•"
}

var titleIcons = []struct {
	keywords []string
	icon     string
}{
	{[]string{"shilajit"}, "💧"},
	{[]string{"garlic"}, "🌱"},
	{[]string{"nut", "almond", "walnut"}, "🥜"},
	{[]string{"ashwagandha", "tablet"}, "💊"},
	{[]string{"ginger", "pepper", "tea", "coffee"}, "☕"},
	{[]string{"food", "meal", "dinner", "lunch", "breakfast"}, "🍽"},
	{[]string{"physics", "atom"}, "⚛"},
	{[]string{"math"}, "🧮"},
	{[]string{"chem"}, "🧪"},
}

// IconForHabit picks an icon from keywords in the title, falling back to the category icon.
func IconForHabit(title, category string) string {
	t := strings.ToLower(title)
	for _, ti := range titleIcons {
		for _, kw := range ti.keywords {
			if strings.Contains(t, kw) {
				return ti.icon
			}
		}
	}
	return IconFor(category)
}

// IsCategory reports whether s is a known habit category.
func IsCategory(s string) bool {
	_, ok := categoryIcons[s]
	return ok
}

// TUI session states. The first four match the navigator pages.
const (
	StateHome SessionState = iota
	StateHistory
	StateStats
	StateSettings
	StateAuth
	StateAddHabit
	StateEditHabit
	StateFilterHistory
	StateConfirm
)
