package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/dailycoach/internal/constants"
	"github.com/julianstephens/dailycoach/internal/errors"
	"github.com/julianstephens/dailycoach/internal/models"
)

// HistoryDay groups the log entries of one date.
type HistoryDay struct {
	Date    string                `json:"date"`
	Entries []models.HistoryEntry `json:"entries"`
	Done    int                   `json:"done"`
	Total   int                   `json:"total"`
}

type HistoryView struct {
	Filter string       `json:"filter,omitempty"`
	Days   []HistoryDay `json:"days"`
}

// ParseDate validates a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return time.Time{}, errors.Validationf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// History lists past logs newest first. A non-empty filter keeps only that date.
func (c *Controller) History(req Request, filter string) (HistoryView, error) {
	filter = strings.TrimSpace(filter)
	if filter != "" {
		if _, err := ParseDate(filter); err != nil {
			return HistoryView{}, err
		}
	}

	entries, err := c.store.GetHistory(req.User.ID)
	if err != nil {
		return HistoryView{}, fmt.Errorf("failed to load history: %w", err)
	}

	view := HistoryView{Filter: filter, Days: []HistoryDay{}}
	for _, e := range entries {
		if filter != "" && e.Date != filter {
			continue
		}
		if n := len(view.Days); n == 0 || view.Days[n-1].Date != e.Date {
			view.Days = append(view.Days, HistoryDay{Date: e.Date})
		}
		day := &view.Days[len(view.Days)-1]
		day.Entries = append(day.Entries, e)
		day.Total++
		if e.Status == constants.StatusDone {
			day.Done++
		}
	}
	return view, nil
}
