package pages

import (
	"fmt"
	"math"

	"github.com/julianstephens/dailycoach/internal/models"
)

type StatsView struct {
	Series        []models.DailyCompletion `json:"series"`
	Categories    []models.CategoryCount   `json:"categories"`
	TodayProgress int                      `json:"today_progress"`
	// Average is the mean of the series percentages, rounded.
	Average int `json:"average"`
}

// Stats returns the completion series exactly as stored, without gap filling.
func (c *Controller) Stats(req Request) (StatsView, error) {
	series, err := c.store.GetDailyCompletionStats(req.User.ID)
	if err != nil {
		return StatsView{}, fmt.Errorf("failed to load completion stats: %w", err)
	}
	categories, err := c.store.GetCategoryBreakdown(req.User.ID)
	if err != nil {
		return StatsView{}, fmt.Errorf("failed to load category breakdown: %w", err)
	}
	home, err := c.Home(req)
	if err != nil {
		return StatsView{}, err
	}

	view := StatsView{
		Series:        series,
		Categories:    categories,
		TodayProgress: home.Progress,
	}
	if len(series) > 0 {
		sum := 0
		for _, p := range series {
			sum += p.Percent
		}
		view.Average = int(math.Round(float64(sum) / float64(len(series))))
	}
	return view, nil
}
