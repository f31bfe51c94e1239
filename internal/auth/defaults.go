package auth

import (
	"github.com/julianstephens/dailycoach/internal/constants"
	"github.com/julianstephens/dailycoach/internal/models"
)

// DefaultHabits is the starter routine given to every new account.
var DefaultHabits = []models.Habit{
	{Title: "Pepper + Ginger Water", Subtitle: "Warm water with spices", ScheduledTime: "05:30", Category: constants.CategoryMorning},
	{Title: "Kashmiri Garlic + Honey", Subtitle: "2 cloves", ScheduledTime: "05:35", Category: constants.CategorySupplements},
	{Title: "Brazil Nut", Subtitle: "Eat 1 nut", ScheduledTime: "05:40", Category: constants.CategorySupplements},
	{Title: "Shilajit Drops", Subtitle: "Mix in warm water", ScheduledTime: "05:45", Category: constants.CategorySupplements},
	{Title: "Shilajit Resin", Subtitle: "Evening dose", ScheduledTime: "20:30", Category: constants.CategorySupplements},
	{Title: "Ashwagandha Tablet", Subtitle: "Prepare for sleep", ScheduledTime: "21:15", Category: constants.CategorySupplements},
}

func defaultHabits() []models.Habit {
	habits := make([]models.Habit, len(DefaultHabits))
	for i, h := range DefaultHabits {
		h.Icon = constants.IconForHabit(h.Title, h.Category)
		habits[i] = h
	}
	return habits
}
